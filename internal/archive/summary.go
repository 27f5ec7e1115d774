// Package archive builds weekly rollups of the done archive.
package archive

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/starford/braindump/internal/completion"
)

// SummaryDir holds one summary file per ISO week.
const SummaryDir = "summaries"

// Week identifies an ISO 8601 week.
type Week struct {
	Year int
	Week int
}

// WeekKey returns the ISO week containing t.
func WeekKey(t time.Time) Week {
	y, w := t.ISOWeek()
	return Week{Year: y, Week: w}
}

// String formats w as YYYY-Www.
func (w Week) String() string {
	return fmt.Sprintf("%d-W%02d", w.Year, w.Week)
}

// ParseWeek parses the YYYY-Www form produced by Week.String.
func ParseWeek(s string) (Week, error) {
	var w Week
	if _, err := fmt.Sscanf(s, "%4d-W%2d", &w.Year, &w.Week); err != nil {
		return Week{}, fmt.Errorf("archive: invalid week %q: %w", s, err)
	}
	if w.Week < 1 || w.Week > 53 || w.String() != s {
		return Week{}, fmt.Errorf("archive: invalid week %q", s)
	}
	return w, nil
}

// SummaryPath returns the storage path of the summary for w.
func SummaryPath(w Week) string {
	return fmt.Sprintf("%s/weekly_%s.md", SummaryDir, w)
}

// InWeek returns the dated entries that fall in w, in archive order.
// Legacy entries are never part of a week.
func InWeek(entries []completion.Entry, w Week) []completion.Entry {
	var out []completion.Entry
	for _, e := range entries {
		if e.Dated() && WeekKey(e.Date) == w {
			out = append(out, e)
		}
	}
	return out
}

// Render produces the summary document for w. Days are listed in ascending
// order; entries within a day keep archive order.
func Render(w Week, entries []completion.Entry) string {
	byDay := make(map[string][]string)
	for _, e := range entries {
		if !e.Dated() {
			continue
		}
		day := e.DateString()
		byDay[day] = append(byDay[day], e.Text)
	}
	days := make([]string, 0, len(byDay))
	total := 0
	for d, items := range byDay {
		days = append(days, d)
		total += len(items)
	}
	sort.Strings(days)

	lines := []string{
		"# Done Summary — " + w.String(),
		"",
		fmt.Sprintf("- Total completed: **%d**", total),
	}
	if len(days) > 0 {
		lines = append(lines, fmt.Sprintf("- Date range: %s ~ %s", days[0], days[len(days)-1]))
	}
	lines = append(lines, "", "## By Day", "")
	for _, d := range days {
		lines = append(lines, fmt.Sprintf("### %s (%d)", d, len(byDay[d])))
		for _, item := range byDay[d] {
			lines = append(lines, "- "+item)
		}
		lines = append(lines, "")
	}
	return strings.TrimSpace(strings.Join(lines, "\n")) + "\n"
}
