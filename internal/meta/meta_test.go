package meta

import (
	"testing"
	"time"

	"github.com/starford/braindump/internal/document"
)

func TestSetStyle_CoercesUnknown(t *testing.T) {
	m := document.Metadata{}
	if got := SetStyle(m, "sarcastic"); got != StyleNeutral {
		t.Errorf("SetStyle = %q, want neutral", got)
	}
	if m[KeyPraiseStyle] != "neutral" {
		t.Errorf("stored = %v", m[KeyPraiseStyle])
	}
	SetStyle(m, "warm")
	if GetStyle(m) != StyleWarm {
		t.Errorf("GetStyle = %q", GetStyle(m))
	}
}

func TestGetStyle_Defaults(t *testing.T) {
	if GetStyle(document.Metadata{}) != StyleNeutral {
		t.Error("missing style should be neutral")
	}
	if GetStyle(document.Metadata{KeyPraiseStyle: 42.0}) != StyleNeutral {
		t.Error("non-string style should be neutral")
	}
}

func TestDailyCounter_SameDayIncrements(t *testing.T) {
	m := document.Metadata{}
	day := time.Date(2026, 10, 14, 8, 0, 0, 0, time.Local)
	for want := 1; want <= 3; want++ {
		if got := IncrementDaily(m, CounterMicroAction, day.Add(time.Duration(want)*time.Hour)); got != want {
			t.Errorf("call %d = %d", want, got)
		}
	}
	if got := DailyCount(m, CounterMicroAction, day); got != 3 {
		t.Errorf("DailyCount = %d, want 3", got)
	}
}

func TestDailyCounter_NewDayResets(t *testing.T) {
	m := document.Metadata{}
	day := time.Date(2026, 10, 14, 8, 0, 0, 0, time.Local)
	for i := 0; i < 5; i++ {
		IncrementDaily(m, CounterMicroAction, day)
	}
	next := day.AddDate(0, 0, 1)
	if got := DailyCount(m, CounterMicroAction, next); got != 0 {
		t.Errorf("count on new day = %d, want 0", got)
	}
	if got := IncrementDaily(m, CounterMicroAction, next); got != 1 {
		t.Errorf("first call on new day = %d, want 1", got)
	}
}

func TestDailyCounter_SurvivesJSONRoundTrip(t *testing.T) {
	day := time.Date(2026, 10, 14, 8, 0, 0, 0, time.Local)
	d := &document.Document{Body: "x", Metadata: document.Metadata{}}
	IncrementDaily(d.Metadata, CounterMicroAction, day)

	reparsed := document.Parse(document.Render(d))
	if got := IncrementDaily(reparsed.Metadata, CounterMicroAction, day); got != 2 {
		t.Errorf("after round trip = %d, want 2", got)
	}
}
