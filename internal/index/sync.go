package index

import (
	"log/slog"
	"strings"
	"time"

	"github.com/starford/braindump/internal/checksum"
	"github.com/starford/braindump/internal/document"
	"github.com/starford/braindump/internal/storage"
)

// Workspace layout mirrored by the index.
const (
	statePath  = "state.md"
	runsPrefix = "runs/"
	summPrefix = "summaries/"
)

// KindOf classifies a workspace path, or returns "" for files the index
// does not track.
func KindOf(path string) string {
	switch {
	case path == statePath:
		return KindPlan
	case strings.HasPrefix(path, runsPrefix):
		return KindSnapshot
	case strings.HasPrefix(path, summPrefix):
		return KindSummary
	}
	return ""
}

// Sync walks the workspace and brings the index up to date:
//   - new/changed tracked files are upserted; state.md also refreshes the
//     completion table
//   - files removed from disk are deleted from the index
func Sync(db *DB, store storage.Provider, logger *slog.Logger) error {
	metas, err := store.List("")
	if err != nil {
		return err
	}

	checksums, err := db.AllChecksums()
	if err != nil {
		return err
	}

	disk := make(map[string]struct{}, len(metas))
	for _, m := range metas {
		if KindOf(m.Path) == "" {
			continue
		}
		disk[m.Path] = struct{}{}

		if checksums[m.Path] == m.Checksum {
			continue
		}

		data, err := store.Read(m.Path)
		if err != nil {
			logger.Warn("sync: read failed", slog.String("path", m.Path), slog.String("error", err.Error()))
			continue
		}
		if err := indexFile(db, m.Path, data); err != nil {
			logger.Warn("sync: index failed", slog.String("path", m.Path), slog.String("error", err.Error()))
		} else {
			logger.Debug("sync: indexed", slog.String("path", m.Path))
		}
	}

	for p := range checksums {
		if _, ok := disk[p]; !ok {
			if err := removeFile(db, p); err != nil {
				logger.Warn("sync: delete failed", slog.String("path", p), slog.String("error", err.Error()))
			} else {
				logger.Debug("sync: removed stale", slog.String("path", p))
			}
		}
	}

	return nil
}

// Refresh re-indexes one workspace file. changed is false when the file is
// untracked or its checksum already matches the index.
func Refresh(db *DB, store storage.Provider, path string) (kind string, changed bool, err error) {
	kind = KindOf(path)
	if kind == "" {
		return "", false, nil
	}
	data, err := store.Read(path)
	if err != nil {
		return kind, false, err
	}
	stored, _ := db.GetChecksum(path)
	if stored == checksum.Sum(data) {
		return kind, false, nil
	}
	if err := indexFile(db, path, data); err != nil {
		return kind, false, err
	}
	return kind, true, nil
}

// indexFile upserts the file row; the plan document also replaces the
// completion table with its archive.
func indexFile(db *DB, path string, data []byte) error {
	kind := KindOf(path)
	if kind == KindPlan {
		if err := db.ReplaceCompletions(document.Parse(string(data)).Archive); err != nil {
			return err
		}
	}
	return db.UpsertFile(FileRow{
		Path:      path,
		Kind:      kind,
		Checksum:  checksum.Sum(data),
		UpdatedAt: time.Now(),
	})
}

func removeFile(db *DB, path string) error {
	if KindOf(path) == KindPlan {
		if err := db.ReplaceCompletions(nil); err != nil {
			return err
		}
	}
	return db.DeleteFile(path)
}
