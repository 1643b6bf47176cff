// Package sqlite provides SQLite-based persistent storage for kudos.
// Uses WAL mode for concurrent reads and crash-safe writes.
package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/tutu-network/kudos/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/kudos.db.
// Enables WAL mode and a 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "kudos.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS tag_revisions (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			revised_at INTEGER NOT NULL,
			previous   TEXT NOT NULL,
			updated    TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_tag_revisions_at ON tag_revisions(revised_at)`,
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("exec %q: %w", m[:40], err)
		}
	}
	return nil
}

// ─── Tag Revisions ──────────────────────────────────────────────────────────

// InsertTagRevision records one popular-tag update and returns its id.
func (d *DB) InsertTagRevision(upd domain.TagUpdate, at time.Time) (int64, error) {
	prev, err := json.Marshal(nonNil(upd.Previous))
	if err != nil {
		return 0, fmt.Errorf("encode previous tags: %w", err)
	}
	next, err := json.Marshal(nonNil(upd.Updated))
	if err != nil {
		return 0, fmt.Errorf("encode updated tags: %w", err)
	}

	res, err := d.db.Exec(
		`INSERT INTO tag_revisions (revised_at, previous, updated) VALUES (?, ?, ?)`,
		at.Unix(), string(prev), string(next),
	)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListTagRevisions returns up to limit revisions, newest first.
// A limit <= 0 returns every revision.
func (d *DB) ListTagRevisions(limit int) ([]domain.TagRevision, error) {
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}
	rows, err := d.db.Query(
		`SELECT id, revised_at, previous, updated FROM tag_revisions
		 ORDER BY id DESC LIMIT ?`, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var revisions []domain.TagRevision
	for rows.Next() {
		r, err := scanRevision(rows)
		if err != nil {
			return nil, err
		}
		revisions = append(revisions, r)
	}
	return revisions, rows.Err()
}

// ─── Helpers ────────────────────────────────────────────────────────────────

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanRevision(s scanner) (domain.TagRevision, error) {
	var r domain.TagRevision
	var prev, next string
	if err := s.Scan(&r.ID, &r.RevisedAt, &prev, &next); err != nil {
		return r, err
	}
	if err := json.Unmarshal([]byte(prev), &r.Previous); err != nil {
		return r, fmt.Errorf("decode revision %d: %w", r.ID, err)
	}
	if err := json.Unmarshal([]byte(next), &r.Updated); err != nil {
		return r, fmt.Errorf("decode revision %d: %w", r.ID, err)
	}
	return r, nil
}

func nonNil(p domain.PopularTags) domain.PopularTags {
	if p == nil {
		return domain.PopularTags{}
	}
	return p
}
