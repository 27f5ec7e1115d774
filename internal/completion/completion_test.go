package completion

import (
	"encoding/json"
	"testing"
	"time"
)

var today = time.Date(2026, 10, 14, 9, 30, 0, 0, time.Local)

func TestExtractInline_AnySectionAnyCase(t *testing.T) {
	body := "## Today's Tasks\n- [x] sent the report\nclean the desk\n  - [X] called mom  \n- [ ] not done"
	got := ExtractInline(body)
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(got), got)
	}
	if got[0] != "- [x] sent the report" || got[1] != "- [X] called mom" {
		t.Errorf("got %q", got)
	}
}

func TestStrip_LeavesOtherLines(t *testing.T) {
	body := "- [x] sent the report\nclean the desk\n\n- [x] other"
	if got := Strip(body); got != "clean the desk" {
		t.Errorf("Strip = %q", got)
	}
}

func TestNormalize_StampsFallback(t *testing.T) {
	e := Normalize("- [x]   sent the report  ", today)
	if e.DateString() != "2026-10-14" {
		t.Errorf("date = %q", e.DateString())
	}
	if e.Text != "sent the report" {
		t.Errorf("text = %q", e.Text)
	}
	if e.Line() != "- [x] 2026-10-14 — sent the report" {
		t.Errorf("line = %q", e.Line())
	}
}

func TestNormalize_KeepsExistingDate(t *testing.T) {
	e := Normalize("- [x] 2026-10-01 — filed taxes", today)
	if e.DateString() != "2026-10-01" || e.Text != "filed taxes" {
		t.Errorf("entry = %+v", e)
	}
}

func TestNormalize_ImpossibleDateRestamped(t *testing.T) {
	e := Normalize("- [x] 2026-13-45 — odd", today)
	if e.DateString() != "2026-10-14" {
		t.Errorf("date = %q", e.DateString())
	}
	if e.Text != "2026-13-45 — odd" {
		t.Errorf("text = %q", e.Text)
	}
}

func TestNormalize_NonMarkerTextIsOneLine(t *testing.T) {
	e := Normalize("- [x] ship it\nsecond line", today)
	if e.Text != "ship it second line" {
		t.Errorf("text = %q", e.Text)
	}
	if got, ok := ParseLine(e.Line()); !ok || got.Line() != e.Line() {
		t.Errorf("round trip = %+v, %v", got, ok)
	}
}

func TestParseLine_Legacy(t *testing.T) {
	e, ok := ParseLine("- [x] something old")
	if !ok {
		t.Fatal("expected match")
	}
	if e.Dated() {
		t.Error("legacy entry should be undated")
	}
	if e.Line() != "- [x] something old" {
		t.Errorf("line = %q", e.Line())
	}
	if _, ok := ParseLine("just text"); ok {
		t.Error("plain text should not parse")
	}
}

func TestMerge_DedupFirstWins(t *testing.T) {
	a := Normalize("- [x] A", today)
	b := Normalize("- [x] B", today)
	got := Merge([]Entry{a, b}, []Entry{a})
	if len(got) != 2 || got[0].Text != "A" || got[1].Text != "B" {
		t.Errorf("Merge = %v", Lines(got))
	}

	got = Merge([]Entry{a, b, a})
	if len(got) != 2 {
		t.Errorf("Merge([A B A]) = %v", Lines(got))
	}
}

func TestMerge_PriorityOrder(t *testing.T) {
	archive := []Entry{Normalize("- [x] 2026-10-10 — old", today)}
	user := []Entry{Normalize("- [x] mine", today)}
	gen := []Entry{Normalize("- [x] theirs", today), Normalize("- [x] mine", today)}
	got := Lines(Merge(archive, user, gen))
	want := []string{
		"- [x] 2026-10-10 — old",
		"- [x] 2026-10-14 — mine",
		"- [x] 2026-10-14 — theirs",
	}
	if len(got) != len(want) {
		t.Fatalf("got %v", got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEntry_MarshalJSON(t *testing.T) {
	data, err := json.Marshal([]Entry{Normalize("- [x] a", today), {Text: "b"}})
	if err != nil {
		t.Fatal(err)
	}
	want := `[{"date":"2026-10-14","text":"a"},{"date":"","text":"b"}]`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}
}
