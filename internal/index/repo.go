package index

import (
	"fmt"
	"time"

	"github.com/starford/braindump/internal/completion"
)

// File kinds.
const (
	KindPlan     = "plan"
	KindSnapshot = "snapshot"
	KindSummary  = "summary"
)

// FileRow is one indexed workspace file.
type FileRow struct {
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CompletionRow is one archive entry hit.
type CompletionRow struct {
	Date string `json:"date"`
	Text string `json:"text"`
	Line string `json:"line"`
}

// UpsertFile inserts or replaces a file row.
func (db *DB) UpsertFile(f FileRow) error {
	_, err := db.conn.Exec(`
		INSERT INTO files (path, kind, checksum, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(path) DO UPDATE SET
			kind       = excluded.kind,
			checksum   = excluded.checksum,
			updated_at = excluded.updated_at
	`, f.Path, f.Kind, f.Checksum, f.UpdatedAt)
	if err != nil {
		return fmt.Errorf("index: upsert file: %w", err)
	}
	return nil
}

// DeleteFile removes a file row.
func (db *DB) DeleteFile(path string) error {
	if _, err := db.conn.Exec(`DELETE FROM files WHERE path = ?`, path); err != nil {
		return fmt.Errorf("index: delete file: %w", err)
	}
	return nil
}

// GetChecksum returns the stored checksum for a file, or empty string if not found.
func (db *DB) GetChecksum(path string) (string, error) {
	var cs string
	err := db.conn.QueryRow(`SELECT checksum FROM files WHERE path = ?`, path).Scan(&cs)
	if err != nil {
		return "", nil // not found is fine
	}
	return cs, nil
}

// AllChecksums returns path → checksum for every indexed file.
func (db *DB) AllChecksums() (map[string]string, error) {
	rows, err := db.conn.Query(`SELECT path, checksum FROM files`)
	if err != nil {
		return nil, fmt.Errorf("index: all checksums: %w", err)
	}
	defer rows.Close()
	out := make(map[string]string)
	for rows.Next() {
		var p, cs string
		if err := rows.Scan(&p, &cs); err != nil {
			return nil, err
		}
		out[p] = cs
	}
	return out, rows.Err()
}

// ListFiles returns files of kind, newest path first. Snapshot and summary
// names sort chronologically.
func (db *DB) ListFiles(kind string, limit int) ([]FileRow, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.Query(`
		SELECT path, kind, checksum, updated_at
		FROM files
		WHERE kind = ?
		ORDER BY path DESC
		LIMIT ?
	`, kind, limit)
	if err != nil {
		return nil, fmt.Errorf("index: list files: %w", err)
	}
	defer rows.Close()

	out := []FileRow{}
	for rows.Next() {
		var f FileRow
		if err := rows.Scan(&f.Path, &f.Kind, &f.Checksum, &f.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

// ReplaceCompletions swaps the stored archive for entries in one transaction.
func (db *DB) ReplaceCompletions(entries []completion.Entry) error {
	tx, err := db.conn.Begin()
	if err != nil {
		return fmt.Errorf("index: begin tx: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // best-effort on failure path

	if _, err := tx.Exec(`DELETE FROM completions`); err != nil {
		return fmt.Errorf("index: clear completions: %w", err)
	}
	if err := ftsClear(tx); err != nil {
		return err
	}

	stmt, err := tx.Prepare(`INSERT OR IGNORE INTO completions (line, done_on, text, position) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("index: prepare completion insert: %w", err)
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.Exec(e.Line(), e.DateString(), e.Text, i); err != nil {
			return fmt.Errorf("index: insert completion: %w", err)
		}
		if err := ftsInsert(tx, e.Line(), e.Text); err != nil {
			return err
		}
	}
	return tx.Commit()
}
