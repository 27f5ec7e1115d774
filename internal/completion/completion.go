// Package completion recognizes "- [x]" done markers and turns them into
// dated archive entries.
package completion

import (
	"encoding/json"
	"regexp"
	"strings"
	"time"
)

// DateLayout is the calendar-date format used in archive lines.
const DateLayout = "2006-01-02"

var (
	doneLineRe     = regexp.MustCompile(`(?i)^\s*-\s*\[x\]\s*(.+?)\s*$`)
	datedDoneRe    = regexp.MustCompile(`(?i)^\s*-\s*\[x\]\s*(\d{4}-\d{2}-\d{2})\s*—\s*(.+?)\s*$`)
	markerPrefixRe = regexp.MustCompile(`(?i)^\s*-\s*\[x\]\s*`)
)

// Entry is one completed item. A zero Date marks a legacy entry whose
// completion day is unknown.
type Entry struct {
	Date time.Time
	Text string
}

// Dated reports whether the entry carries a completion date.
func (e Entry) Dated() bool {
	return !e.Date.IsZero()
}

// DateString returns the entry date as YYYY-MM-DD, or "" for legacy entries.
func (e Entry) DateString() string {
	if !e.Dated() {
		return ""
	}
	return e.Date.Format(DateLayout)
}

// Line renders the entry in archive form. Two entries are the same entry
// exactly when their lines are equal.
func (e Entry) Line() string {
	if !e.Dated() {
		return "- [x] " + e.Text
	}
	return "- [x] " + e.DateString() + " — " + e.Text
}

// MarshalJSON encodes the entry as {"date": "YYYY-MM-DD"|"", "text": ...}.
func (e Entry) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Date string `json:"date"`
		Text string `json:"text"`
	}{Date: e.DateString(), Text: e.Text})
}

// IsDoneLine reports whether line matches the done-marker grammar.
func IsDoneLine(line string) bool {
	return doneLineRe.MatchString(line)
}

// ExtractInline returns every done-marker line of text, trimmed, in order.
func ExtractInline(text string) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		if doneLineRe.MatchString(line) {
			out = append(out, strings.TrimSpace(line))
		}
	}
	return out
}

// Strip removes done-marker lines from text and trims the result.
func Strip(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0:0]
	for _, line := range lines {
		if !doneLineRe.MatchString(line) {
			kept = append(kept, line)
		}
	}
	return strings.TrimSpace(strings.Join(kept, "\n"))
}

// ParseLine reads an archive line as-is, without stamping a date. Lines
// with a malformed date prefix become legacy entries holding the full text.
func ParseLine(line string) (Entry, bool) {
	if m := datedDoneRe.FindStringSubmatch(line); m != nil {
		if d, err := time.Parse(DateLayout, m[1]); err == nil {
			return Entry{Date: d, Text: strings.TrimSpace(m[2])}, true
		}
	}
	m := doneLineRe.FindStringSubmatch(line)
	if m == nil {
		return Entry{}, false
	}
	return Entry{Text: strings.TrimSpace(m[1])}, true
}

// Normalize converts a done-marker line into a dated entry. A line that
// already carries a valid date keeps it; otherwise fallback is stamped.
// Anything else is kept as text, without a leading marker and collapsed
// onto one line.
func Normalize(line string, fallback time.Time) Entry {
	e, ok := ParseLine(line)
	if !ok {
		text := strings.Join(strings.Fields(markerPrefixRe.ReplaceAllString(line, "")), " ")
		return Entry{Date: day(fallback), Text: text}
	}
	if !e.Dated() {
		e.Date = day(fallback)
	}
	return e
}

// NormalizeAll normalizes every line with the same fallback date.
func NormalizeAll(lines []string, fallback time.Time) []Entry {
	out := make([]Entry, 0, len(lines))
	for _, l := range lines {
		out = append(out, Normalize(l, fallback))
	}
	return out
}

// Merge concatenates lists in the given priority order and drops entries
// whose line was already seen. The first occurrence wins.
func Merge(lists ...[]Entry) []Entry {
	seen := make(map[string]struct{})
	var out []Entry
	for _, list := range lists {
		for _, e := range list {
			line := e.Line()
			if _, dup := seen[line]; dup {
				continue
			}
			seen[line] = struct{}{}
			out = append(out, e)
		}
	}
	return out
}

// Lines renders entries in archive form.
func Lines(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Line()
	}
	return out
}

func day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
