//go:build !sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(_ *sql.DB) error {
	// FTS5 not available; search uses LIKE on completions.text.
	return nil
}

func ftsClear(_ *sql.Tx) error { return nil }

func ftsInsert(_ *sql.Tx, _, _ string) error { return nil }

// SearchCompletions performs a LIKE-based search over archive entries,
// newest first (fallback when FTS5 is not compiled in).
func (db *DB) SearchCompletions(query string, limit int) ([]CompletionRow, error) {
	if limit <= 0 {
		limit = 20
	}
	like := "%" + query + "%"
	rows, err := db.conn.Query(`
		SELECT done_on, text, line
		FROM completions
		WHERE text LIKE ?
		ORDER BY done_on DESC, position ASC
		LIMIT ?
	`, like, limit)
	if err != nil {
		return nil, fmt.Errorf("index: search: %w", err)
	}
	defer rows.Close()

	out := []CompletionRow{}
	for rows.Next() {
		var r CompletionRow
		if err := rows.Scan(&r.Date, &r.Text, &r.Line); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
