package index

import "github.com/starford/braindump/internal/completion"

// HistoryIndex is the query surface of the history database.
type HistoryIndex interface {
	UpsertFile(f FileRow) error
	DeleteFile(path string) error
	GetChecksum(path string) (string, error)
	AllChecksums() (map[string]string, error)
	ListFiles(kind string, limit int) ([]FileRow, error)
	ReplaceCompletions(entries []completion.Entry) error
	SearchCompletions(query string, limit int) ([]CompletionRow, error)
	Close() error
}

var _ HistoryIndex = (*DB)(nil)
