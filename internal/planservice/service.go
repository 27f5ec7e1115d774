// Package planservice implements the user-facing plan operations on top of
// the plan store and the reconciler.
package planservice

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"strings"

	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/archive"
	"github.com/starford/braindump/internal/completion"
	"github.com/starford/braindump/internal/document"
	"github.com/starford/braindump/internal/meta"
	"github.com/starford/braindump/internal/planstore"
	"github.com/starford/braindump/internal/reconcile"
)

const stampLayout = "2006-01-02 15:04"

// AllDoneBody replaces the body when every task is completed at once.
const AllDoneBody = "## Today's Tasks\n\n" +
	"(All done! 🎉)\n\n" +
	"---\n\n" +
	"## Can Skip Today\n\n" +
	"(Also all done!)\n\n" +
	"---\n\n" +
	"## If You Have Extra Energy\n\n" +
	"- Rest well"

// Service exposes plan operations to the transports.
type Service struct {
	store  *planstore.Store
	rec    *reconcile.Reconciler
	pick   func(n int) int
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPicker overrides the uniform random choice used for feedback.
func WithPicker(pick func(n int) int) Option {
	return func(s *Service) { s.pick = pick }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// New creates a Service.
func New(store *planstore.Store, rec *reconcile.Reconciler, opts ...Option) *Service {
	s := &Service{store: store, rec: rec, pick: rand.IntN, logger: slog.Default()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// StateResult is the current view plus the stored style.
type StateResult struct {
	document.View
	PraiseStyle meta.Style `json:"praise_style"`
}

// State returns the parsed current document.
func (s *Service) State(ctx context.Context) (*StateResult, error) {
	raw, err := s.store.Load(ctx)
	if err != nil {
		return nil, err
	}
	doc := document.Parse(raw)
	return &StateResult{View: doc.View(), PraiseStyle: meta.GetStyle(doc.Metadata)}, nil
}

// SetStyle stores the feedback style. Unknown styles become neutral.
func (s *Service) SetStyle(ctx context.Context, style string) (meta.Style, error) {
	var stored meta.Style
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		raw, err := tx.Load()
		if err != nil {
			return err
		}
		doc := document.Parse(raw)
		stored = meta.SetStyle(doc.Metadata, style)
		return tx.Save(document.Render(doc))
	})
	return stored, err
}

// CaptureResult is returned by Capture.
type CaptureResult struct {
	State          document.View `json:"state"`
	Praise         string        `json:"praise,omitempty"`
	PendingConfirm []string      `json:"pending_confirm"`
	PendingParking []string      `json:"pending_parking,omitempty"`
	ConfirmAll     bool          `json:"confirm_all"`
	IncludeParking bool          `json:"include_parking"`
}

// Capture prepends a timestamped note and replans. Text claiming that
// everything is done is not written; the open tasks come back for
// confirmation instead.
func (s *Service) Capture(ctx context.Context, text string) (*CaptureResult, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, fmt.Errorf("capture text: %w", apperr.ErrInvalidInput)
	}

	var out *CaptureResult
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		before, err := loadDoc(tx)
		if err != nil {
			return err
		}
		view := before.View()

		todayDone, withParking := DetectAllDone(text)
		if todayDone && (len(view.Today) > 0 || len(view.Parking) > 0) {
			out = &CaptureResult{
				State:          view,
				PendingConfirm: view.Names(document.SectionToday),
				ConfirmAll:     true,
				IncludeParking: withParking,
			}
			if withParking {
				out.PendingParking = view.Names(document.SectionParking)
			}
			return nil
		}

		detected := DetectCompleted(text)
		line := fmt.Sprintf("[%s] %s", tx.Now().Format(stampLayout), text)
		res, err := s.rec.Reconcile(ctx, tx, func(d *document.Document) { d.PrependBody(line) })
		if err != nil {
			return err
		}

		out = &CaptureResult{State: res.View, PendingConfirm: detected}
		if len(detected) == 0 && len(res.View.Done) > len(view.Done) {
			out.Praise = s.praise(meta.GetStyle(before.Metadata))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if out.PendingConfirm == nil {
		out.PendingConfirm = []string{}
	}
	return out, nil
}

// Aftercare is the feedback returned after a Today task is completed.
type Aftercare struct {
	State       document.View `json:"state"`
	Praise      string        `json:"praise"`
	PraiseStyle meta.Style    `json:"praise_style"`
	Ask         string        `json:"ask,omitempty"`
	MicroAction *MicroAction  `json:"micro_action,omitempty"`
	SafetyNote  string        `json:"safety_note"`
}

// CompleteTask marks a Today task done, optionally prepends a note, and
// replans. ref is a task ID or a substring of its name.
func (s *Service) CompleteTask(ctx context.Context, ref, note string) (*Aftercare, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("task: %w", apperr.ErrInvalidInput)
	}

	var out *Aftercare
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		before, err := loadDoc(tx)
		if err != nil {
			return err
		}
		task, ok := before.View().Find(document.SectionToday, ref)
		if !ok {
			return fmt.Errorf("task %q: %w", ref, apperr.ErrNotFound)
		}

		res, err := s.rec.Reconcile(ctx, tx, func(d *document.Document) {
			d.MarkDone(task)
			s.prependNote(d, tx, note)
		})
		if err != nil {
			return err
		}
		out = s.aftercare(tx, before.Metadata, res.View, task.Name)
		return nil
	})
	return out, err
}

// ConfirmDone archives an item the user confirmed as finished and replans.
func (s *Service) ConfirmDone(ctx context.Context, item string) (*Aftercare, error) {
	item = strings.TrimSpace(item)
	if item == "" {
		return nil, fmt.Errorf("item: %w", apperr.ErrInvalidInput)
	}

	var out *Aftercare
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		before, err := loadDoc(tx)
		if err != nil {
			return err
		}
		res, err := s.rec.Reconcile(ctx, tx, func(d *document.Document) {
			d.PrependBody("- [x] " + item)
		})
		if err != nil {
			return err
		}
		out = s.aftercare(tx, before.Metadata, res.View, item)
		return nil
	})
	return out, err
}

// aftercare builds the feedback for a completed task. The micro action is
// offered only while today's quota is not used up.
func (s *Service) aftercare(tx *planstore.Tx, m document.Metadata, view document.View, completed string) *Aftercare {
	style := meta.GetStyle(m)
	view.Today = withoutName(view.Today, completed)

	out := &Aftercare{
		State:       view,
		Praise:      s.praise(style),
		PraiseStyle: style,
	}
	if meta.DailyCount(m, meta.CounterMicroAction, tx.Now()) >= MaxMicroActionsPerDay {
		out.SafetyNote = shutdownNotes[style]
		return out
	}
	out.MicroAction = s.selectMicro(len(view.Today) > 0)
	if out.MicroAction != nil {
		out.Ask = askMicro
	}
	out.SafetyNote = safetyNotes[style]
	return out
}

// ParkingResult is the feedback returned after a parking item is completed.
type ParkingResult struct {
	State       document.View  `json:"state"`
	Praise      string         `json:"praise"`
	PraiseStyle meta.Style     `json:"praise_style"`
	Hint        string         `json:"hint,omitempty"`
	HintType    HintType       `json:"hint_type,omitempty"`
	AllDone     bool           `json:"all_done"`
	Recommend   *document.Task `json:"recommend_to_today,omitempty"`
	SafetyNote  string         `json:"safety_note,omitempty"`
}

// CompleteParking marks a parking item done and replans. The hint tells the
// user whether main tasks are still waiting.
func (s *Service) CompleteParking(ctx context.Context, ref, note string) (*ParkingResult, error) {
	if strings.TrimSpace(ref) == "" {
		return nil, fmt.Errorf("task: %w", apperr.ErrInvalidInput)
	}

	var out *ParkingResult
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		before, err := loadDoc(tx)
		if err != nil {
			return err
		}
		prev := before.View()
		task, ok := prev.Find(document.SectionParking, ref)
		if !ok {
			return fmt.Errorf("parking task %q: %w", ref, apperr.ErrNotFound)
		}

		res, err := s.rec.Reconcile(ctx, tx, func(d *document.Document) {
			d.MarkDone(task)
			s.prependNote(d, tx, note)
		})
		if err != nil {
			return err
		}

		view := res.View
		view.Parking = withoutName(view.Parking, task.Name)
		style := meta.GetStyle(before.Metadata)
		hints := parkingHints[style]
		out = &ParkingResult{State: view, PraiseStyle: style}

		// Completions besides this item count as progress on main tasks.
		mainDone := len(view.Done) - len(prev.Done) - 1
		switch {
		case len(view.Today) > 0 && mainDone <= 0:
			out.Praise = s.praise(style)
			out.Hint, out.HintType = hints[HintMainFirst], HintMainFirst
			out.SafetyNote = safetyNotes[style]
		case len(view.Today) == 0 && len(view.Parking) == 0:
			out.Praise = hints[HintAllDone]
			out.HintType = HintAllDone
			out.AllDone = true
		case len(view.Today) == 0:
			out.Praise = s.praise(style)
			out.Hint, out.HintType = hints[HintBonus], HintBonus
			next := view.Parking[0]
			out.Recommend = &next
			out.SafetyNote = safetyNotes[style]
		default:
			out.Praise = s.praise(style)
			out.SafetyNote = safetyNotes[style]
		}
		return nil
	})
	return out, err
}

// CompleteAllResult is returned by CompleteAll.
type CompleteAllResult struct {
	State          document.View `json:"state"`
	Praise         string        `json:"praise"`
	AllDone        bool          `json:"all_done"`
	CompletedCount int           `json:"completed_count"`
	IncludeParking bool          `json:"include_parking"`
	SnapshotPath   string        `json:"snapshot_path"`
}

// CompleteAll archives the given tasks with today's date and resets the
// body without calling the generator. With no tasks given, every current
// Today task is archived.
func (s *Service) CompleteAll(ctx context.Context, tasks, parking []string) (*CompleteAllResult, error) {
	var out *CompleteAllResult
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		doc, err := loadDoc(tx)
		if err != nil {
			return err
		}
		if len(tasks) == 0 && len(parking) == 0 {
			tasks = doc.View().Names(document.SectionToday)
		}
		names := append(trimAll(tasks), trimAll(parking)...)
		if len(names) == 0 {
			return fmt.Errorf("no tasks to complete: %w", apperr.ErrInvalidInput)
		}

		now := tx.Now()
		inline := completion.NormalizeAll(completion.ExtractInline(doc.Body), now)
		declared := make([]completion.Entry, len(names))
		for i, n := range names {
			declared[i] = completion.Normalize("- [x] "+n, now)
		}

		doc.Body = AllDoneBody
		doc.Archive = completion.Merge(doc.Archive, inline, declared)
		rendered := document.Render(doc)
		snap, err := tx.Snapshot(rendered)
		if err != nil {
			return err
		}
		if err := tx.Save(rendered); err != nil {
			return err
		}
		if _, _, err := archive.NewBuilder(tx.Summaries(), tx.Now).Update(doc.Archive); err != nil {
			s.logger.Error("weekly summary update failed", slog.String("error", err.Error()))
		}

		style := meta.GetStyle(doc.Metadata)
		out = &CompleteAllResult{
			State:          document.Parse(rendered).View(),
			AllDone:        true,
			CompletedCount: len(names),
			IncludeParking: len(trimAll(parking)) > 0,
			SnapshotPath:   snap,
		}
		if out.IncludeParking {
			out.Praise = superPraise[style]
		} else {
			out.Praise = parkingHints[style][HintAllDone]
		}
		return nil
	})
	return out, err
}

// MicroResult is returned by AcceptMicro and DeclineMicro.
type MicroResult struct {
	State document.View `json:"state"`
	Count int           `json:"count"`
}

// AcceptMicro records the chosen micro action, bumps today's counter, and
// replans.
func (s *Service) AcceptMicro(ctx context.Context, title string) (*MicroResult, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("action title: %w", apperr.ErrInvalidInput)
	}

	var out *MicroResult
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		now := tx.Now()
		count := 0
		res, err := s.rec.Reconcile(ctx, tx, func(d *document.Document) {
			count = meta.IncrementDaily(d.Metadata, meta.CounterMicroAction, now)
			d.PrependBody(fmt.Sprintf("[%s] Chose to do: %s", now.Format(stampLayout), title))
		})
		if err != nil {
			return err
		}
		out = &MicroResult{State: res.View, Count: count}
		return nil
	})
	return out, err
}

// DeclineMicro leaves the document untouched and returns the current view.
func (s *Service) DeclineMicro(ctx context.Context) (*MicroResult, error) {
	var out *MicroResult
	err := s.store.Transact(ctx, func(tx *planstore.Tx) error {
		doc, err := loadDoc(tx)
		if err != nil {
			return err
		}
		out = &MicroResult{
			State: doc.View(),
			Count: meta.DailyCount(doc.Metadata, meta.CounterMicroAction, tx.Now()),
		}
		return nil
	})
	return out, err
}

// Replan runs one reconciliation cycle without editing the document.
func (s *Service) Replan(ctx context.Context) (*reconcile.Result, error) {
	return s.rec.Run(ctx, s.store, nil)
}

// Summary returns the weekly summary for a YYYY-Www key.
func (s *Service) Summary(_ context.Context, week string) (string, error) {
	w, err := archive.ParseWeek(week)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrInvalidInput, err)
	}
	return s.store.ReadSummary(w)
}

// CurrentWeek returns the key of the store clock's current ISO week.
func (s *Service) CurrentWeek() string {
	return archive.WeekKey(s.store.Now()).String()
}

func (s *Service) prependNote(d *document.Document, tx *planstore.Tx, note string) {
	note = strings.TrimSpace(note)
	if note == "" {
		return
	}
	d.PrependBody(fmt.Sprintf("[%s] Note: %s", tx.Now().Format(stampLayout), note))
}

func loadDoc(tx *planstore.Tx) (*document.Document, error) {
	raw, err := tx.Load()
	if err != nil {
		return nil, err
	}
	return document.Parse(raw), nil
}

// withoutName drops tasks whose name contains name, ignoring case.
func withoutName(tasks []document.Task, name string) []document.Task {
	needle := strings.ToLower(name)
	out := []document.Task{}
	for _, t := range tasks {
		if !strings.Contains(strings.ToLower(t.Name), needle) {
			out = append(out, t)
		}
	}
	return out
}

// trimAll collapses each item onto a single line and drops blanks, so a
// name always renders as one archive line.
func trimAll(items []string) []string {
	var out []string
	for _, it := range items {
		if it = strings.Join(strings.Fields(it), " "); it != "" {
			out = append(out, it)
		}
	}
	return out
}
