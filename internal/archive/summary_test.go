package archive

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/starford/braindump/internal/completion"
)

type memWriter struct {
	files map[string]string
	err   error
}

func (m *memWriter) Write(path string, content []byte) error {
	if m.err != nil {
		return m.err
	}
	if m.files == nil {
		m.files = make(map[string]string)
	}
	m.files[path] = string(content)
	return nil
}

func entry(line string) completion.Entry {
	e, _ := completion.ParseLine(line)
	return e
}

func fixedNow() time.Time {
	return time.Date(2026, 10, 14, 18, 0, 0, 0, time.Local)
}

func TestWeekKey(t *testing.T) {
	cases := []struct {
		date string
		want string
	}{
		{"2026-10-14", "2026-W42"},
		{"2026-10-12", "2026-W42"},
		{"2026-10-18", "2026-W42"},
		{"2026-10-11", "2026-W41"},
		{"2027-01-01", "2026-W53"},
	}
	for _, c := range cases {
		d, _ := time.Parse("2006-01-02", c.date)
		if got := WeekKey(d).String(); got != c.want {
			t.Errorf("WeekKey(%s) = %s, want %s", c.date, got, c.want)
		}
	}
}

func TestParseWeek(t *testing.T) {
	w, err := ParseWeek("2026-W07")
	if err != nil || w != (Week{2026, 7}) {
		t.Errorf("ParseWeek = %+v, %v", w, err)
	}
	for _, bad := range []string{"2026-W7", "2026-W60", "week", "../etc"} {
		if _, err := ParseWeek(bad); err == nil {
			t.Errorf("ParseWeek(%q) should fail", bad)
		}
	}
}

func TestUpdate_GroupsCurrentWeek(t *testing.T) {
	w := &memWriter{}
	b := NewBuilder(w, fixedNow)
	entries := []completion.Entry{
		entry("- [x] 2026-10-14 — wednesday thing"),
		entry("- [x] 2026-10-05 — last week, same month"),
		entry("- [x] 2026-10-12 — monday thing"),
		entry("- [x] legacy"),
		entry("- [x] 2026-10-14 — second wednesday thing"),
	}

	path, ok, err := b.Update(entries)
	if err != nil || !ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}
	if path != "summaries/weekly_2026-W42.md" {
		t.Errorf("path = %q", path)
	}
	got := w.files[path]
	want := `# Done Summary — 2026-W42

- Total completed: **3**
- Date range: 2026-10-12 ~ 2026-10-14

## By Day

### 2026-10-12 (1)
- monday thing

### 2026-10-14 (2)
- wednesday thing
- second wednesday thing
`
	if got != want {
		t.Errorf("summary mismatch:\n%s\nwant:\n%s", got, want)
	}
	if strings.Contains(got, "last week") || strings.Contains(got, "legacy") {
		t.Error("other-week and legacy entries must be excluded")
	}
}

func TestUpdate_NoCurrentWeekIsNoop(t *testing.T) {
	w := &memWriter{}
	b := NewBuilder(w, fixedNow)
	_, ok, err := b.Update([]completion.Entry{entry("- [x] 2026-09-01 — old"), entry("- [x] undated")})
	if err != nil || ok {
		t.Fatalf("Update = %v, %v", ok, err)
	}
	if len(w.files) != 0 {
		t.Errorf("no file should be written: %v", w.files)
	}
}

func TestUpdate_OverwritesWholeFile(t *testing.T) {
	w := &memWriter{files: map[string]string{"summaries/weekly_2026-W42.md": "stale"}}
	b := NewBuilder(w, fixedNow)
	if _, _, err := b.Update([]completion.Entry{entry("- [x] 2026-10-13 — fresh")}); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(w.files["summaries/weekly_2026-W42.md"], "stale") {
		t.Error("summary must be fully overwritten")
	}
}

func TestUpdate_WriteError(t *testing.T) {
	b := NewBuilder(&memWriter{err: errors.New("disk full")}, fixedNow)
	if _, _, err := b.Update([]completion.Entry{entry("- [x] 2026-10-13 — x")}); err == nil {
		t.Error("expected write error")
	}
}
