// Package reconcile runs one replan cycle: extract completions, ask the
// generator for a new proposal, sanitize it, merge the archive and persist.
package reconcile

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/archive"
	"github.com/starford/braindump/internal/completion"
	"github.com/starford/braindump/internal/document"
	"github.com/starford/braindump/internal/planstore"
)

// State is a step of the replan cycle.
type State string

// Cycle states. Done, Fallback and Empty are terminal.
const (
	StateIdle       State = "idle"
	StateExtracting State = "extracting"
	StateGenerating State = "generating"
	StateSanitizing State = "sanitizing"
	StateMerging    State = "merging"
	StatePersisting State = "persisting"
	StateDone       State = "done"
	StateFallback   State = "fallback"
	StateEmpty      State = "empty"
)

// Request is the input handed to a Generator.
type Request struct {
	SystemPrompt string
	// Body is the document body with done lines removed.
	Body string
	// Known lists archive lines the generator must not propose again.
	Known []string
}

// Generator proposes a new task list. Its output is untrusted.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// Result describes a finished cycle.
type Result struct {
	State          State              `json:"state"`
	View           document.View      `json:"view"`
	Raw            string             `json:"-"`
	SnapshotPath   string             `json:"snapshot_path,omitempty"`
	SummaryPath    string             `json:"summary_path,omitempty"`
	NewCompletions []completion.Entry `json:"new_completions"`
}

// UsedFallback reports whether the generator output was replaced.
func (r *Result) UsedFallback() bool {
	return r.State == StateFallback
}

// Reconciler drives replan cycles against a plan store.
type Reconciler struct {
	gen    Generator
	prompt string
	now    func() time.Time
	logger *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithSystemPrompt sets the system instructions sent with every request.
func WithSystemPrompt(p string) Option {
	return func(r *Reconciler) { r.prompt = p }
}

// WithClock overrides the clock used to date completions.
func WithClock(now func() time.Time) Option {
	return func(r *Reconciler) { r.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(r *Reconciler) { r.logger = l }
}

// New creates a Reconciler.
func New(gen Generator, opts ...Option) *Reconciler {
	r := &Reconciler{
		gen:    gen,
		prompt: DefaultSystemPrompt,
		now:    time.Now,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run executes one cycle in its own store transaction.
func (r *Reconciler) Run(ctx context.Context, store *planstore.Store, edit func(*document.Document)) (*Result, error) {
	var res *Result
	err := store.Transact(ctx, func(tx *planstore.Tx) error {
		var err error
		res, err = r.Reconcile(ctx, tx, edit)
		return err
	})
	return res, err
}

// Reconcile executes one cycle inside tx. edit, when non-nil, is applied to
// the loaded document before extraction and is persisted only if the cycle
// succeeds. A generator error leaves the workspace untouched.
func (r *Reconciler) Reconcile(ctx context.Context, tx *planstore.Tx, edit func(*document.Document)) (*Result, error) {
	state := StateIdle
	r.trace(state)

	state = StateExtracting
	r.trace(state)
	raw, err := tx.Load()
	if err != nil {
		return nil, err
	}
	doc := document.Parse(raw)
	if edit != nil {
		edit(doc)
	}
	if strings.TrimSpace(raw) == "" && isBlank(doc) {
		return &Result{State: StateEmpty, View: document.EmptyView(), NewCompletions: []completion.Entry{}}, nil
	}

	today := r.now()
	user := completion.NormalizeAll(completion.ExtractInline(doc.Body), today)
	clean := completion.Strip(doc.Body)
	known := completion.Lines(completion.Merge(doc.Archive, user))

	state = StateGenerating
	r.trace(state)
	out, err := r.gen.Generate(ctx, Request{SystemPrompt: r.prompt, Body: clean, Known: known})
	if err != nil {
		return nil, fmt.Errorf("reconcile: %w: %w", apperr.ErrGeneration, err)
	}

	state = StateSanitizing
	r.trace(state)
	san := Sanitize(out)
	generated := completion.NormalizeAll(san.Declared, today)

	state = StateMerging
	r.trace(state)
	combined := completion.Merge(doc.Archive, user, generated)
	if san.Fallback {
		r.logger.Warn("generator output unusable, using fallback plan",
			slog.Int("output_len", len(out)))
	}

	state = StatePersisting
	r.trace(state)
	next := &document.Document{Body: san.Body, Archive: combined, Metadata: doc.Metadata}
	rendered := document.Render(next)
	// Snapshot first so a failed run leaves state.md untouched.
	snap, err := tx.Snapshot(rendered)
	if err != nil {
		return nil, err
	}
	if err := tx.Save(rendered); err != nil {
		return nil, err
	}

	res := &Result{
		State:          StateDone,
		View:           document.Parse(rendered).View(),
		Raw:            rendered,
		SnapshotPath:   snap,
		NewCompletions: added(doc.Archive, combined),
	}
	if san.Fallback {
		res.State = StateFallback
	}
	r.trace(res.State)

	path, ok, err := archive.NewBuilder(tx.Summaries(), r.now).Update(combined)
	switch {
	case err != nil:
		r.logger.Error("weekly summary update failed", slog.String("error", err.Error()))
	case ok:
		res.SummaryPath = path
	}
	return res, nil
}

func (r *Reconciler) trace(s State) {
	r.logger.Debug("reconcile state", slog.String("state", string(s)))
}

func isBlank(d *document.Document) bool {
	return strings.TrimSpace(d.Body) == "" && len(d.Archive) == 0
}

// added returns the entries of combined that are not in before.
func added(before, combined []completion.Entry) []completion.Entry {
	seen := make(map[string]struct{}, len(before))
	for _, e := range before {
		seen[e.Line()] = struct{}{}
	}
	out := []completion.Entry{}
	for _, e := range combined {
		if _, ok := seen[e.Line()]; !ok {
			out = append(out, e)
		}
	}
	return out
}
