package index

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/starford/braindump/internal/storage"
)

// watcherTestEnv sets up a workspace dir, storage, and DB for watcher tests.
func watcherTestEnv(t *testing.T) (string, storage.Provider, *DB) {
	t.Helper()
	root := t.TempDir()
	store, err := storage.NewFS(root)
	if err != nil {
		t.Fatal(err)
	}
	return root, store, testDB(t)
}

// eventually polls fn every tick until it returns true or timeout elapses.
func eventually(t *testing.T, timeout, tick time.Duration, fn func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if fn() {
			return
		}
		time.Sleep(tick)
	}
	t.Error(msg)
}

type recorder struct {
	mu     sync.Mutex
	events []string
}

func (r *recorder) add(kind, path string) {
	r.mu.Lock()
	r.events = append(r.events, kind+":"+path)
	r.mu.Unlock()
}

func (r *recorder) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func startWatch(t *testing.T, root string, store storage.Provider, db *DB, rec *recorder) {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go Watch(ctx, db, store, root, quietLogger(), rec.add) //nolint:errcheck
	time.Sleep(100 * time.Millisecond)
}

func TestWatcher_ExternalPlanEditIndexed(t *testing.T) {
	root, store, db := watcherTestEnv(t)
	rec := &recorder{}
	startWatch(t, root, store, db, rec)

	doc := "## Today\n1. **x**\n\n## Done Archive\n- [x] 2026-10-14 — edited outside\n"
	_ = os.WriteFile(filepath.Join(root, "state.md"), []byte(doc), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		hits, _ := db.SearchCompletions("outside", 5)
		return len(hits) == 1
	}, "external edit not indexed")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("plan:state.md")
	}, "plan callback not fired")
}

func TestWatcher_UntrackedFileIgnored(t *testing.T) {
	root, store, db := watcherTestEnv(t)
	rec := &recorder{}
	startWatch(t, root, store, db, rec)

	_ = os.WriteFile(filepath.Join(root, "notes.md"), []byte("# scratch"), 0o644)
	time.Sleep(300 * time.Millisecond)

	if cs, _ := db.GetChecksum("notes.md"); cs != "" {
		t.Error("untracked file indexed")
	}
}

func TestWatcher_NewRunsDirWatched(t *testing.T) {
	root, store, db := watcherTestEnv(t)
	rec := &recorder{}
	startWatch(t, root, store, db, rec)

	dir := filepath.Join(root, "runs")
	_ = os.MkdirAll(dir, 0o755)
	time.Sleep(200 * time.Millisecond)
	_ = os.WriteFile(filepath.Join(dir, "state_20261014_093000.md"), []byte("snap"), 0o644)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("runs/state_20261014_093000.md")
		return cs != ""
	}, "snapshot in new dir not indexed")

	eventually(t, 2*time.Second, 50*time.Millisecond, func() bool {
		return rec.has("snapshot:runs/state_20261014_093000.md")
	}, "snapshot callback not fired")
}

func TestWatcher_DeleteRemovesFromIndex(t *testing.T) {
	root, store, db := watcherTestEnv(t)
	p := filepath.Join(root, "summaries", "weekly_2026-W42.md")
	_ = os.MkdirAll(filepath.Dir(p), 0o755)
	_ = os.WriteFile(p, []byte("# Weekly"), 0o644)
	_ = Sync(db, store, quietLogger())

	rec := &recorder{}
	startWatch(t, root, store, db, rec)

	_ = os.Remove(p)

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		cs, _ := db.GetChecksum("summaries/weekly_2026-W42.md")
		return cs == ""
	}, "deleted file still in index")
}

func TestWatcher_RenameReconciles(t *testing.T) {
	root, store, db := watcherTestEnv(t)
	dir := filepath.Join(root, "runs")
	_ = os.MkdirAll(dir, 0o755)
	oldPath := filepath.Join(dir, "state_20261013_080000.md")
	_ = os.WriteFile(oldPath, []byte("snap"), 0o644)
	_ = Sync(db, store, quietLogger())

	rec := &recorder{}
	startWatch(t, root, store, db, rec)

	_ = os.Rename(oldPath, filepath.Join(dir, "state_20261013_080001.md"))

	eventually(t, 5*time.Second, 50*time.Millisecond, func() bool {
		oldCS, _ := db.GetChecksum("runs/state_20261013_080000.md")
		newCS, _ := db.GetChecksum("runs/state_20261013_080001.md")
		return oldCS == "" && newCS != ""
	}, "rename not reconciled")
}
