// Package planstore owns the canonical plan document and its history files.
// Every mutation runs inside a transaction that holds the single-writer lock.
package planstore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/archive"
	"github.com/starford/braindump/internal/storage"
)

// Workspace layout.
const (
	StatePath = "state.md"
	RunsDir   = "runs"
)

const snapshotLayout = "20060102_150405"

// ChangeKind classifies a committed write.
type ChangeKind string

// Change kinds reported to the change hook.
const (
	ChangePlan     ChangeKind = "plan"
	ChangeSnapshot ChangeKind = "snapshot"
	ChangeSummary  ChangeKind = "summary"
)

// Change describes one file written by a committed transaction.
type Change struct {
	Kind ChangeKind
	Path string
}

// Store serializes access to the workspace files.
type Store struct {
	files    storage.Provider
	now      func() time.Time
	onChange func(Change)

	mu sync.Mutex
}

// Option configures a Store.
type Option func(*Store)

// WithClock overrides the clock used for snapshot names.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithChangeHook registers fn to be called after a transaction returns,
// once per file it wrote.
func WithChangeHook(fn func(Change)) Option {
	return func(s *Store) { s.onChange = fn }
}

// New creates a Store over files.
func New(files storage.Provider, opts ...Option) *Store {
	s := &Store{files: files, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Now returns the store clock's current time.
func (s *Store) Now() time.Time {
	return s.now()
}

// Transact runs fn with exclusive access to the workspace. Writes made by
// fn are not rolled back on error; callers write only once their result is
// final.
func (s *Store) Transact(ctx context.Context, fn func(tx *Tx) error) error {
	s.mu.Lock()
	tx := &Tx{s: s}
	err := func() error {
		defer s.mu.Unlock()
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(tx)
	}()

	if s.onChange != nil {
		for _, c := range tx.changes {
			s.onChange(c)
		}
	}
	return err
}

// Load returns the current raw document under the lock.
func (s *Store) Load(ctx context.Context) (string, error) {
	var raw string
	err := s.Transact(ctx, func(tx *Tx) error {
		var err error
		raw, err = tx.Load()
		return err
	})
	return raw, err
}

// ReadSummary returns the weekly summary for w.
func (s *Store) ReadSummary(w archive.Week) (string, error) {
	data, err := s.files.Read(archive.SummaryPath(w))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("summary %s: %w", w, apperr.ErrNotFound)
		}
		return "", err
	}
	return string(data), nil
}

// Tx is the handle passed to a transaction function.
type Tx struct {
	s       *Store
	changes []Change
}

// Now returns the store clock's current time.
func (tx *Tx) Now() time.Time {
	return tx.s.now()
}

// Load reads the canonical document. A missing file reads as empty.
func (tx *Tx) Load() (string, error) {
	data, err := tx.s.files.Read(StatePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("planstore: load: %w", err)
	}
	return strings.ReplaceAll(string(data), "\r\n", "\n"), nil
}

// Save overwrites the canonical document.
func (tx *Tx) Save(raw string) error {
	if err := tx.s.files.Write(StatePath, []byte(raw)); err != nil {
		return fmt.Errorf("planstore: save: %w", err)
	}
	tx.changes = append(tx.changes, Change{Kind: ChangePlan, Path: StatePath})
	return nil
}

// Snapshot writes raw to a new timestamped file under runs/ and returns
// its path. Existing snapshots are never overwritten.
func (tx *Tx) Snapshot(raw string) (string, error) {
	stamp := tx.s.now().Format(snapshotLayout)
	path := fmt.Sprintf("%s/state_%s.md", RunsDir, stamp)

	taken, err := tx.s.files.Exists(path)
	if err != nil {
		return "", fmt.Errorf("planstore: snapshot: %w", err)
	}
	if taken {
		path = fmt.Sprintf("%s/state_%s_%s.md", RunsDir, stamp, uuid.NewString()[:8])
	}

	if err := tx.s.files.Write(path, []byte(raw)); err != nil {
		return "", fmt.Errorf("planstore: snapshot: %w", err)
	}
	tx.changes = append(tx.changes, Change{Kind: ChangeSnapshot, Path: path})
	return path, nil
}

// Summaries returns a writer for weekly summary files.
func (tx *Tx) Summaries() archive.Writer {
	return summaryWriter{tx: tx}
}

type summaryWriter struct {
	tx *Tx
}

func (w summaryWriter) Write(path string, content []byte) error {
	if err := w.tx.s.files.Write(path, content); err != nil {
		return err
	}
	w.tx.changes = append(w.tx.changes, Change{Kind: ChangeSummary, Path: path})
	return nil
}
