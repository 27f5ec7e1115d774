//go:build sqlite_fts5

package index

import (
	"database/sql"
	"fmt"
)

func initFTS(conn *sql.DB) error {
	_, err := conn.Exec(`
		CREATE VIRTUAL TABLE IF NOT EXISTS completions_fts USING fts5(
			line UNINDEXED,
			text,
			tokenize = 'unicode61 remove_diacritics 2'
		);
	`)
	return err
}

func ftsClear(tx *sql.Tx) error {
	if _, err := tx.Exec(`DELETE FROM completions_fts`); err != nil {
		return fmt.Errorf("index: clear fts: %w", err)
	}
	return nil
}

func ftsInsert(tx *sql.Tx, line, text string) error {
	if _, err := tx.Exec(`INSERT INTO completions_fts (line, text) VALUES (?, ?)`, line, text); err != nil {
		return fmt.Errorf("index: insert fts: %w", err)
	}
	return nil
}

// SearchCompletions performs an FTS5 match over archive entries, best rank
// first.
func (db *DB) SearchCompletions(query string, limit int) ([]CompletionRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := db.conn.Query(`
		SELECT c.done_on, c.text, c.line
		FROM completions_fts f
		JOIN completions c ON c.line = f.line
		WHERE completions_fts MATCH ?
		ORDER BY rank
		LIMIT ?
	`, query, limit)
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
