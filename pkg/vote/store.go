package vote

import (
	"context"
	_ "embed"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql
var schema string

// Store persists upvotes. The UNIQUE(user_id, slug) constraint is the
// at-most-one-vote guarantee: concurrent requests race to a single insert,
// not to duplicate rows.
type Store struct {
	conn *sqlx.DB
}

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// NewStore opens the database and initializes the schema
func NewStore(cfg Config) (*Store, error) {
	if cfg.DSN == "" {
		cfg.DSN = "file:upvotes.db?cache=shared&mode=rwc"
	}

	conn, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// configure connection pool
	if cfg.MaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		conn.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	// optimize SQLite settings
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := conn.Exec(pragma); err != nil {
			return nil, fmt.Errorf("execute %s: %w", pragma, err)
		}
	}

	store := &Store{conn: conn}
	if err := store.initSchema(context.Background()); err != nil {
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return store, nil
}

// initSchema creates the database schema
func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.conn.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Add records a vote for the (user, slug) pair. Returns false without error
// when the pair has already voted. The insert-if-absent is atomic in the
// store, not a check-then-act in the application.
func (s *Store) Add(ctx context.Context, userID, slug string) (added bool, err error) {
	query := `INSERT INTO upvotes (user_id, slug) VALUES (?, ?) ON CONFLICT (user_id, slug) DO NOTHING`
	result, err := s.conn.ExecContext(ctx, query, userID, slug)
	if err != nil {
		return false, fmt.Errorf("insert upvote: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return rows > 0, nil
}

// Has reports whether the (user, slug) pair has already voted
func (s *Store) Has(ctx context.Context, userID, slug string) (bool, error) {
	var count int
	query := `SELECT COUNT(1) FROM upvotes WHERE user_id = ? AND slug = ?`
	if err := s.conn.GetContext(ctx, &count, query, userID, slug); err != nil {
		return false, fmt.Errorf("check upvote: %w", err)
	}
	return count > 0, nil
}

// Count returns the number of votes recorded for a slug
func (s *Store) Count(ctx context.Context, slug string) (int, error) {
	var count int
	query := `SELECT COUNT(1) FROM upvotes WHERE slug = ?`
	if err := s.conn.GetContext(ctx, &count, query, slug); err != nil {
		return 0, fmt.Errorf("count upvotes: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.conn.Close()
}
