package index

import (
	"context"
	"database/sql"
	"embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const metaGeneratedAt = "generated_at"

// Cache persists the vault index in SQLite (pure Go driver, no CGO).
type Cache struct {
	db *sql.DB
}

// OpenCache opens (or creates) the index database at the given path.
func OpenCache(dbPath string) (*Cache, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite only supports one concurrent writer; a single pooled
	// connection serializes access and avoids "database is locked".
	db.SetMaxOpenConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", pragma, err)
		}
	}

	return &Cache{db: db}, nil
}

// Migrate runs all embedded SQL migration files in order.
func (c *Cache) Migrate(ctx context.Context) error {
	_, err := c.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		filename TEXT PRIMARY KEY,
		applied_at DATETIME NOT NULL DEFAULT (datetime('now'))
	)`)
	if err != nil {
		return fmt.Errorf("create migrations table: %w", err)
	}

	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		return fmt.Errorf("read migrations dir: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Name() < entries[j].Name()
	})

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		name := entry.Name()

		var count int
		if err := c.db.QueryRowContext(ctx,
			"SELECT COUNT(*) FROM schema_migrations WHERE filename = ?", name).Scan(&count); err != nil {
			return fmt.Errorf("check migration %s: %w", name, err)
		}
		if count > 0 {
			continue
		}

		data, err := migrationsFS.ReadFile("migrations/" + name)
		if err != nil {
			return fmt.Errorf("read migration %s: %w", name, err)
		}
		if _, err := c.db.ExecContext(ctx, string(data)); err != nil {
			return fmt.Errorf("apply migration %s: %w", name, err)
		}
		if _, err := c.db.ExecContext(ctx,
			"INSERT INTO schema_migrations (filename) VALUES (?)", name); err != nil {
			return fmt.Errorf("record migration %s: %w", name, err)
		}
	}
	return nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Replace swaps the cached index for a new scan in one transaction.
func (c *Cache) Replace(ctx context.Context, idx *Index) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin replace: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, "DELETE FROM notes"); err != nil {
		return fmt.Errorf("clear notes: %w", err)
	}
	for _, n := range idx.Notes {
		tags, _ := json.Marshal(n.Tags)
		links, _ := json.Marshal(n.Links)
		_, err := tx.ExecContext(ctx,
			`INSERT INTO notes (path, title, description, tags, links, backlinks, mod_time, size)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			n.Path, n.Title, n.Description, string(tags), string(links), n.Backlinks, n.ModTime, n.Size,
		)
		if err != nil {
			return fmt.Errorf("insert note %s: %w", n.Path, err)
		}
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO meta (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		metaGeneratedAt, idx.GeneratedAt.Format(time.RFC3339Nano)); err != nil {
		return fmt.Errorf("store generated_at: %w", err)
	}
	return tx.Commit()
}

// Load returns the cached index, or nil when no scan has been stored yet.
func (c *Cache) Load(ctx context.Context) (*Index, error) {
	var raw string
	err := c.db.QueryRowContext(ctx,
		"SELECT value FROM meta WHERE key = ?", metaGeneratedAt).Scan(&raw)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load generated_at: %w", err)
	}
	generatedAt, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return nil, fmt.Errorf("parse generated_at: %w", err)
	}

	rows, err := c.db.QueryContext(ctx,
		`SELECT path, title, description, tags, links, backlinks, mod_time, size
		FROM notes ORDER BY path`)
	if err != nil {
		return nil, fmt.Errorf("load notes: %w", err)
	}
	defer rows.Close()

	idx := &Index{GeneratedAt: generatedAt}
	for rows.Next() {
		var n NoteInfo
		var tags, links string
		if err := rows.Scan(&n.Path, &n.Title, &n.Description, &tags, &links,
			&n.Backlinks, &n.ModTime, &n.Size); err != nil {
			return nil, fmt.Errorf("scan note row: %w", err)
		}
		_ = json.Unmarshal([]byte(tags), &n.Tags)
		_ = json.Unmarshal([]byte(links), &n.Links)
		idx.Notes = append(idx.Notes, n)
	}
	return idx, rows.Err()
}

// PutSummary stores a model-written note summary keyed by path and the
// note's mod time at summarization.
func (c *Cache) PutSummary(ctx context.Context, path string, s Summary, modTime time.Time) error {
	concepts, _ := json.Marshal(s.Concepts)
	_, err := c.db.ExecContext(ctx,
		`INSERT INTO summaries (path, summary, concepts, mod_time) VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET summary = excluded.summary,
			concepts = excluded.concepts, mod_time = excluded.mod_time`,
		path, s.Text, string(concepts), modTime)
	if err != nil {
		return fmt.Errorf("store summary %s: %w", path, err)
	}
	return nil
}

// GetSummary returns the stored summary for a path when it is still
// current for the given mod time.
func (c *Cache) GetSummary(ctx context.Context, path string, modTime time.Time) (Summary, bool, error) {
	var s Summary
	var concepts string
	var stored time.Time
	err := c.db.QueryRowContext(ctx,
		"SELECT summary, concepts, mod_time FROM summaries WHERE path = ?", path).
		Scan(&s.Text, &concepts, &stored)
	if err == sql.ErrNoRows {
		return Summary{}, false, nil
	}
	if err != nil {
		return Summary{}, false, fmt.Errorf("load summary %s: %w", path, err)
	}
	if !stored.Equal(modTime) {
		return Summary{}, false, nil
	}
	_ = json.Unmarshal([]byte(concepts), &s.Concepts)
	return s, true, nil
}
