package document

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/starford/braindump/internal/checksum"
	"github.com/starford/braindump/internal/completion"
)

// Section names a structured part of the body.
type Section string

// Sections recognized in the body.
const (
	SectionNone    Section = ""
	SectionToday   Section = "today"
	SectionParking Section = "parking"
	SectionExtra   Section = "extra"
)

var (
	headingRe   = regexp.MustCompile(`^#{1,6}\s+(.+?)\s*:?\s*$`)
	trailNoteRe = regexp.MustCompile(`\s*\([^()]*\)\s*:?$`)
	todayTaskRe = regexp.MustCompile(`^\d+\.\s*\*\*(.+?)\*\*`)
	parkingRe   = regexp.MustCompile(`^-\s*(.+?)\s*—\s*(.+)$`)
)

// Heading titles, lower-cased. They are checked in the order today,
// parking, extra.
var sectionHeadings = []struct {
	section Section
	titles  []string
}{
	{SectionToday, []string{"today's tasks", "today", "today's plan", "do these today"}},
	{SectionParking, []string{"can skip today", "parking", "parking lot", "not today"}},
	{SectionExtra, []string{"if you have extra energy", "if you have energy", "extra", "bonus"}},
}

const (
	archiveTitle       = "done archive"
	justCompletedTitle = "just completed"
)

// Task is one parsed item of a section.
type Task struct {
	ID      string  `json:"id"`
	Section Section `json:"section"`
	Name    string  `json:"name"`
	Hint    string  `json:"hint,omitempty"`
	Reason  string  `json:"reason,omitempty"`
	Line    int     `json:"-"`
}

// View is the structured reading of a document.
type View struct {
	Today   []Task             `json:"today"`
	Parking []Task             `json:"parking"`
	Extra   []Task             `json:"extra"`
	Done    []completion.Entry `json:"done"`
}

// EmptyView returns a view with every list non-nil.
func EmptyView() View {
	return View{Today: []Task{}, Parking: []Task{}, Extra: []Task{}, Done: []completion.Entry{}}
}

// ParseTasks scans body top-down with a single section cursor.
func ParseTasks(body string) View {
	v := EmptyView()
	current := SectionNone

	for i, line := range strings.Split(body, "\n") {
		trimmed := strings.TrimSpace(line)

		if title, ok := headingTitle(trimmed); ok {
			current = sectionFor(title)
			continue
		}
		if completion.IsDoneLine(trimmed) {
			continue
		}

		switch current {
		case SectionToday:
			if m := todayTaskRe.FindStringSubmatch(trimmed); m != nil {
				v.Today = append(v.Today, newTask(SectionToday, len(v.Today), strings.TrimSpace(m[1]), i))
				continue
			}
			if isHint(trimmed) && len(v.Today) > 0 {
				v.Today[len(v.Today)-1].Hint = strings.TrimSpace(strings.TrimPrefix(trimmed, "→"))
			}
		case SectionParking:
			if m := parkingRe.FindStringSubmatch(trimmed); m != nil {
				t := newTask(SectionParking, len(v.Parking), strings.TrimSpace(m[1]), i)
				t.Reason = strings.TrimSpace(m[2])
				v.Parking = append(v.Parking, t)
			}
		case SectionExtra:
			if strings.HasPrefix(trimmed, "- ") {
				v.Extra = append(v.Extra, newTask(SectionExtra, len(v.Extra), strings.TrimSpace(trimmed[2:]), i))
			}
		}
	}
	return v
}

// HasTodayHeading reports whether text contains a recognized Today heading.
func HasTodayHeading(text string) bool {
	for _, line := range strings.Split(text, "\n") {
		if title, ok := headingTitle(strings.TrimSpace(line)); ok && sectionFor(title) == SectionToday {
			return true
		}
	}
	return false
}

// IsArchiveHeading reports whether line is a "Done Archive" heading.
func IsArchiveHeading(line string) bool {
	return isArchiveHeading(line)
}

// IsJustCompletedHeading reports whether line is a "Just Completed" heading.
func IsJustCompletedHeading(line string) bool {
	title, ok := headingTitle(strings.TrimSpace(line))
	return ok && title == justCompletedTitle
}

// Find returns the task of section addressed by ref: an exact ID match
// first, then the first task whose name contains ref.
func (v View) Find(section Section, ref string) (Task, bool) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return Task{}, false
	}
	tasks := v.tasks(section)
	for _, t := range tasks {
		if t.ID == ref {
			return t, true
		}
	}
	for _, t := range tasks {
		if strings.Contains(t.Name, ref) {
			return t, true
		}
	}
	return Task{}, false
}

// Names returns the names of the tasks of section.
func (v View) Names(section Section) []string {
	tasks := v.tasks(section)
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.Name
	}
	return out
}

func (v View) tasks(section Section) []Task {
	switch section {
	case SectionToday:
		return v.Today
	case SectionParking:
		return v.Parking
	case SectionExtra:
		return v.Extra
	}
	return nil
}

func newTask(section Section, pos int, name string, line int) Task {
	return Task{
		ID:      string(section[0]) + checksum.ID(10, string(section), strconv.Itoa(pos), name),
		Section: section,
		Name:    name,
		Line:    line,
	}
}

func headingTitle(line string) (string, bool) {
	m := headingRe.FindStringSubmatch(line)
	if m == nil {
		return "", false
	}
	// Leading emoji or symbols and a trailing "(max 3)" style note are
	// decoration, not part of the title.
	title := strings.TrimLeftFunc(m[1], func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	title = trailNoteRe.ReplaceAllString(title, "")
	title = strings.ToLower(strings.TrimSpace(title))
	title = strings.ReplaceAll(title, "’", "'")
	return title, true
}

func sectionFor(title string) Section {
	for _, h := range sectionHeadings {
		for _, t := range h.titles {
			if title == t {
				return h.section
			}
		}
	}
	return SectionNone
}

func isArchiveHeading(line string) bool {
	title, ok := headingTitle(strings.TrimSpace(line))
	return ok && title == archiveTitle
}

func isHint(trimmed string) bool {
	return strings.HasPrefix(trimmed, "→")
}
