// Package testutil provides shared test helpers for workspaces, databases
// and a scripted generator.
package testutil

import (
	"context"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/starford/braindump/internal/index"
	"github.com/starford/braindump/internal/planstore"
	"github.com/starford/braindump/internal/reconcile"
	"github.com/starford/braindump/internal/storage"
)

// Now is the fixed instant returned by Clock: Wednesday of ISO week
// 2026-W42.
var Now = time.Date(2026, 10, 14, 9, 30, 0, 0, time.Local)

// Clock returns a clock frozen at Now.
func Clock() func() time.Time {
	return func() time.Time { return Now }
}

// TestDB creates a temporary SQLite database that is automatically cleaned up.
func TestDB(t *testing.T) *index.DB {
	t.Helper()
	dbFile, err := os.CreateTemp("", "braindump-test-*.db")
	if err != nil {
		t.Fatal(err)
	}
	dbFile.Close()
	t.Cleanup(func() { os.Remove(dbFile.Name()) })

	db, err := index.Open(dbFile.Name())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

// Workspace creates a temporary workspace directory, optionally seeded
// with a state document.
func Workspace(t *testing.T, state string) (string, *storage.FS) {
	t.Helper()
	dir := t.TempDir()
	fs, err := storage.NewFS(dir)
	if err != nil {
		t.Fatal(err)
	}
	if state != "" {
		if err := fs.Write(planstore.StatePath, []byte(state)); err != nil {
			t.Fatal(err)
		}
	}
	return dir, fs
}

// Generator is a scripted reconcile.Generator. It returns Outputs in turn,
// repeating the last one, or Err when set.
type Generator struct {
	Outputs []string
	Err     error

	mu       sync.Mutex
	requests []reconcile.Request
}

// Generate implements reconcile.Generator.
func (g *Generator) Generate(_ context.Context, req reconcile.Request) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.requests = append(g.requests, req)
	if g.Err != nil {
		return "", g.Err
	}
	if len(g.Outputs) == 0 {
		return "", nil
	}
	i := len(g.requests) - 1
	if i >= len(g.Outputs) {
		i = len(g.Outputs) - 1
	}
	return g.Outputs[i], nil
}

// Requests returns the requests received so far.
func (g *Generator) Requests() []reconcile.Request {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]reconcile.Request(nil), g.requests...)
}

// Plan is a well-formed generator proposal with two Today tasks, one
// parking item and one extra item.
const Plan = "## Today's Tasks\n\n" +
	"1. **Write report**  \n   → Open the draft\n\n" +
	"2. **Call dentist**  \n   → Find the number\n\n" +
	"---\n\n" +
	"## Can Skip Today\n\n" +
	"- Taxes — Due next month\n\n" +
	"---\n\n" +
	"## If You Have Extra Energy\n\n" +
	"- Tidy desk"
