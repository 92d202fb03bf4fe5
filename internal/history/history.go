// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history keeps a local ledger of upload attempts in a SQLite
// database under the per-user state directory. The ledger is best-effort:
// a recording failure warns on stderr and never fails the upload itself.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/richbodo/snh-bridge/internal/bridge"
)

const dbFile = "history.db"

// Entry is one recorded upload attempt.
type Entry struct {
	ID         int64
	Path       string
	DocumentID string
	Status     string
	Detail     string
	UploadedAt time.Time
}

// Statuses recorded per attempt.
const (
	StatusOK     = "ok"
	StatusFailed = "failed"
)

// Ledger persists upload attempts.
type Ledger struct {
	db *sql.DB
}

// Open opens or creates the ledger database at dir/history.db, creating
// dir (0700) and the schema as needed.
func Open(dir string) (*Ledger, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening history database: %w", err)
	}

	l := &Ledger{db: db}
	if err := l.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating history schema: %w", err)
	}
	return l, nil
}

// Close releases the database connection.
func (l *Ledger) Close() error {
	return l.db.Close()
}

func (l *Ledger) createSchema() error {
	_, err := l.db.Exec(`CREATE TABLE IF NOT EXISTS uploads (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		path TEXT NOT NULL,
		document_id TEXT,
		status TEXT NOT NULL,
		detail TEXT,
		uploaded_at TEXT NOT NULL
	)`)
	return err
}

// RecordUpload implements bridge.Recorder. Failures to write the ledger
// produce a warning on stderr and are otherwise swallowed.
func (l *Ledger) RecordUpload(path string, resp *bridge.UploadResponse, uploadErr error) {
	status, docID, detail := StatusOK, "", ""
	if uploadErr != nil {
		status = StatusFailed
		detail = uploadErr.Error()
	} else if resp != nil {
		docID = resp.DocumentID
		detail = resp.Message
	}

	_, err := l.db.Exec(
		`INSERT INTO uploads (path, document_id, status, detail, uploaded_at) VALUES (?, ?, ?, ?, ?)`,
		path, docID, status, detail, time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: could not record upload history: %v\n", err)
	}
}

// Recent returns the most recent entries, newest first. A non-positive
// limit defaults to 20.
func (l *Ledger) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	rows, err := l.db.QueryContext(ctx,
		`SELECT id, path, document_id, status, detail, uploaded_at
		 FROM uploads ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying upload history: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		var uploadedAt string
		if err := rows.Scan(&e.ID, &e.Path, &e.DocumentID, &e.Status, &e.Detail, &uploadedAt); err != nil {
			return nil, fmt.Errorf("scanning history row: %w", err)
		}
		if t, parseErr := time.Parse(time.RFC3339, uploadedAt); parseErr == nil {
			e.UploadedAt = t
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading upload history: %w", err)
	}
	return entries, nil
}
