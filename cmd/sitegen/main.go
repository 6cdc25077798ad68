package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/go-pkgz/lgr"
	"github.com/jessevdk/go-flags"

	"github.com/gaurv/sitegen/pkg/config"
	"github.com/gaurv/sitegen/pkg/notion"
	"github.com/gaurv/sitegen/pkg/site"
	"github.com/gaurv/sitegen/pkg/vote"
	"github.com/gaurv/sitegen/server"
)

// Opts with all CLI options
type Opts struct {
	Config string `short:"f" long:"config" env:"SITEGEN_CONFIG" default:"sitegen.yml" description:"configuration file"`

	BuildCmd  struct{} `command:"build" description:"regenerate the site tree and the feed"`
	ServerCmd struct{} `command:"server" description:"serve the site and the upvote endpoint"`

	// Common options
	Debug   bool `long:"dbg" env:"DEBUG" description:"debug mode"`
	Version bool `short:"V" long:"version" description:"show version info"`
	NoColor bool `long:"no-color" env:"NO_COLOR" description:"disable color output"`
}

var revision = "unknown"

func main() {
	var opts Opts
	parser := flags.NewParser(&opts, flags.Default)
	parser.SubcommandsOptional = true // plain "sitegen" defaults to build
	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok && flagsErr.Type == flags.ErrHelp {
			os.Exit(0)
		}
		os.Exit(1)
	}

	if opts.Version {
		fmt.Printf("Version: %s\nGolang: %s\n", revision, runtime.Version())
		os.Exit(0)
	}

	command := "build"
	if parser.Active != nil {
		command = parser.Active.Name
	}

	ctx, cancel := context.WithCancel(context.Background())

	// handle termination signals
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
		<-sigChan
		log.Print("[INFO] termination signal received")
		cancel()
	}()

	err := run(ctx, opts, command)
	cancel()

	if err != nil {
		log.Printf("[ERROR] %v", err)
		os.Exit(1)
	}
}

// run loads configuration and dispatches the requested command
func run(ctx context.Context, opts Opts, command string) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLog(opts.Debug, cfg.Captcha.Secret, cfg.Notion.Token)

	log.Printf("[INFO] starting sitegen version %s", revision)

	switch command {
	case "server":
		return runServer(ctx, cfg, opts.Debug)
	default:
		return runBuild(ctx, cfg)
	}
}

// runBuild regenerates the full site tree and the aggregated feed
func runBuild(ctx context.Context, cfg *config.Config) error {
	var sources []site.Source
	if cfg.Notion.Enabled {
		sources = append(sources, notion.NewClient(cfg.Notion, nil))
	}

	builder, err := site.NewBuilder(cfg, nil, sources...)
	if err != nil {
		return fmt.Errorf("init builder: %w", err)
	}

	return builder.Build(ctx)
}

// runServer starts the HTTP server with the upvote store and CAPTCHA verifier
func runServer(ctx context.Context, cfg *config.Config, debug bool) error {
	store, err := vote.NewStore(vote.Config{
		DSN:             cfg.Database.DSN,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: time.Duration(cfg.Database.ConnMaxLifetime) * time.Second,
	})
	if err != nil {
		return fmt.Errorf("init vote store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Printf("[WARN] can't close vote store: %v", err)
		}
	}()

	srv := server.New(cfg, store, vote.NewVerifier(cfg.Captcha), cfg.SiteDir, revision, debug)
	if err := srv.Run(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}

	log.Print("[INFO] shutdown complete")
	return nil
}

func setupLog(dbg bool, secs ...string) {
	logOpts := []lgr.Option{lgr.Msec, lgr.LevelBraces}
	if dbg {
		logOpts = []lgr.Option{lgr.Debug, lgr.Msec, lgr.LevelBraces, lgr.StackTraceOnError}
	}

	colorizer := lgr.Mapper{
		ErrorFunc:  func(s string) string { return color.New(color.FgHiRed).Sprint(s) },
		WarnFunc:   func(s string) string { return color.New(color.FgRed).Sprint(s) },
		InfoFunc:   func(s string) string { return color.New(color.FgYellow).Sprint(s) },
		DebugFunc:  func(s string) string { return color.New(color.FgWhite).Sprint(s) },
		CallerFunc: func(s string) string { return color.New(color.FgBlue).Sprint(s) },
		TimeFunc:   func(s string) string { return color.New(color.FgCyan).Sprint(s) },
	}
	logOpts = append(logOpts, lgr.Map(colorizer))
	var secrets []string
	for _, sec := range secs {
		if sec != "" {
			secrets = append(secrets, sec)
		}
	}
	if len(secrets) > 0 {
		logOpts = append(logOpts, lgr.Secret(secrets...))
	}
	lgr.SetupStdLogger(logOpts...)
	lgr.Setup(logOpts...)
}
