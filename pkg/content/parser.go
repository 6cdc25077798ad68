package content

import (
	"bytes"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/adrg/frontmatter"

	"github.com/gaurv/sitegen/pkg/domain"
)

// Parser loads Markdown posts with front-matter from a directory
type Parser struct {
	now Clock
}

// NewParser creates a parser with the given clock
func NewParser(now Clock) *Parser {
	if now == nil {
		now = time.Now
	}
	return &Parser{now: now}
}

// frontMatter is the recognized metadata block of a post file
type frontMatter struct {
	Title       string   `yaml:"title"`
	Slug        string   `yaml:"slug"`
	Date        string   `yaml:"date"`
	Tags        []string `yaml:"tags"`
	Description string   `yaml:"description"`
	Collection  string   `yaml:"collection"`
}

// Load reads all *.md files from dir and returns parsed posts for the given
// collection, in file name order. A bad file is logged and skipped, it never
// aborts the batch. A missing directory is a precondition failure and does
// abort.
func (p *Parser) Load(dir, collection string) ([]*domain.Post, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("content directory %s: %w", dir, err)
	}

	files, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("glob %s: %w", dir, err)
	}
	sort.Strings(files)

	posts := make([]*domain.Post, 0, len(files))
	for _, file := range files {
		post, err := p.parseFile(file, collection)
		if err != nil {
			log.Printf("[WARN] skip %s: %v", file, err)
			continue
		}
		posts = append(posts, post)
	}

	return posts, nil
}

// parseFile parses a single Markdown file into a post
func (p *Parser) parseFile(file, collection string) (*domain.Post, error) {
	data, err := os.ReadFile(file) //nolint:gosec // paths come from the configured source directory
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	if !bytes.HasPrefix(bytes.TrimLeft(data, "\n\r \t"), []byte("---")) {
		return nil, fmt.Errorf("%w: no front-matter delimiter", ErrMalformed)
	}

	var meta frontMatter
	body, err := frontmatter.Parse(bytes.NewReader(data), &meta)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	if meta.Title == "" {
		return nil, fmt.Errorf("%w: title", ErrMissingField)
	}

	var explicitDate time.Time
	if meta.Date != "" {
		if explicitDate, err = ParseDate(meta.Date); err != nil {
			return nil, fmt.Errorf("%w: bad date %q: %v", ErrMalformed, meta.Date, err)
		}
	}

	slug, date := ResolveSlugDate(file, meta.Slug, explicitDate, p.now)

	if meta.Collection != "" {
		collection = meta.Collection
	}

	return &domain.Post{
		Title:       meta.Title,
		Slug:        slug,
		Collection:  collection,
		Date:        date,
		Tags:        meta.Tags,
		Description: meta.Description,
		Markdown:    strings.TrimSpace(string(body)),
		File:        filepath.Base(file),
	}, nil
}
