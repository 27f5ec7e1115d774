//go:build sqlite_fts5

package index

import "testing"

func TestFTS5_TableExists(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM completions_fts`).Scan(&count); err != nil {
		t.Fatalf("completions_fts table missing: %v", err)
	}
}

func TestFTS5_ReplaceClearsOldRows(t *testing.T) {
	db := testDB(t)
	_ = db.ReplaceCompletions(entries("- [x] 2026-10-14 — vanishing content"))
	_ = db.ReplaceCompletions(entries("- [x] 2026-10-14 — replacement text"))

	results, _ := db.SearchCompletions("vanishing", 10)
	if len(results) != 0 {
		t.Error("old FTS content should be gone")
	}
	results, _ = db.SearchCompletions("replacement", 10)
	if len(results) != 1 || results[0].Date != "2026-10-14" {
		t.Errorf("FTS not updated: %+v", results)
	}
}
