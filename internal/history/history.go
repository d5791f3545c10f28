// Package history persists generated commit messages to a local SQLite
// database so earlier drafts can be reviewed later.
package history

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Entry is one recorded generation.
type Entry struct {
	ID            int64
	CreatedAt     time.Time
	Branch        string
	Provider      string
	Model         string
	Header        string
	Message       string
	Applied       bool
	ContextTokens int
	Stages        []string
}

// Store wraps the SQLite connection for history records.
type Store struct {
	conn *sql.DB
}

// migrations is an ordered list of SQL migration statements.
// Each entry is applied once in order. New migrations are appended at the end.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS generations (
		id             INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at     DATETIME DEFAULT CURRENT_TIMESTAMP,
		branch         TEXT NOT NULL,
		provider       TEXT NOT NULL,
		model          TEXT NOT NULL,
		header         TEXT NOT NULL,
		message        TEXT NOT NULL,
		applied        INTEGER NOT NULL DEFAULT 0,
		context_tokens INTEGER NOT NULL DEFAULT 0,
		stages         TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at DESC)`,
}

// Open opens (or creates) the history database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve path: %w", err)
	}

	dsn := fmt.Sprintf("file:%s?_journal_mode=WAL&_foreign_keys=on&_busy_timeout=5000", absPath)
	conn, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// Single writer, multiple readers.
	conn.SetMaxOpenConns(1)

	if err := applyMigrations(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return &Store{conn: conn}, nil
}

func applyMigrations(conn *sql.DB) error {
	if _, err := conn.Exec(`CREATE TABLE IF NOT EXISTS schema_migrations (
		version    INTEGER PRIMARY KEY,
		applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
	)`); err != nil {
		return fmt.Errorf("create schema_migrations: %w", err)
	}

	for i, stmt := range migrations {
		var count int
		row := conn.QueryRow(`SELECT COUNT(*) FROM schema_migrations WHERE version = ?`, i)
		if err := row.Scan(&count); err != nil {
			return fmt.Errorf("check migration %d: %w", i, err)
		}
		if count > 0 {
			continue
		}
		if _, err := conn.Exec(stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
		if _, err := conn.Exec(`INSERT INTO schema_migrations (version) VALUES (?)`, i); err != nil {
			return fmt.Errorf("record migration %d: %w", i, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Record inserts one generation and returns its assigned ID.
func (s *Store) Record(entry Entry) (int64, error) {
	res, err := s.conn.Exec(
		`INSERT INTO generations (branch, provider, model, header, message, applied, context_tokens, stages)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		entry.Branch, entry.Provider, entry.Model, entry.Header, entry.Message,
		boolToInt(entry.Applied), entry.ContextTokens, strings.Join(entry.Stages, ","),
	)
	if err != nil {
		return 0, fmt.Errorf("record generation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record generation: %w", err)
	}
	return id, nil
}

// MarkApplied flags a previously recorded generation as committed.
func (s *Store) MarkApplied(id int64) error {
	if _, err := s.conn.Exec(`UPDATE generations SET applied = 1 WHERE id = ?`, id); err != nil {
		return fmt.Errorf("mark applied: %w", err)
	}
	return nil
}

// Recent returns the latest entries, newest first.
func (s *Store) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.conn.Query(
		`SELECT id, created_at, branch, provider, model, header, message, applied, context_tokens, stages
		 FROM generations ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var applied int
		var stages string
		if err := rows.Scan(&e.ID, &e.CreatedAt, &e.Branch, &e.Provider, &e.Model,
			&e.Header, &e.Message, &applied, &e.ContextTokens, &stages); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		e.Applied = applied != 0
		if stages != "" {
			e.Stages = strings.Split(stages, ",")
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate history rows: %w", err)
	}
	return entries, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
