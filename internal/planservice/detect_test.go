package planservice

import (
	"reflect"
	"testing"
)

func TestDetectAllDone(t *testing.T) {
	cases := []struct {
		text           string
		today, parking bool
	}{
		{"all done!", true, false},
		{"Everything is done", true, false},
		{"cleared my list", true, false},
		{"nothing left at all", true, true},
		{"done with parking too", true, true},
		{"totally done", true, true},
		{"bought milk", false, false},
	}
	for _, c := range cases {
		today, parking := DetectAllDone(c.text)
		if today != c.today || parking != c.parking {
			t.Errorf("DetectAllDone(%q) = %v, %v", c.text, today, parking)
		}
	}
}

func TestDetectCompleted(t *testing.T) {
	cases := []struct {
		text string
		want []string
	}{
		{"finished the slides, sent the invoice", []string{"the slides", "the invoice"}},
		{"the report is done", []string{"the report"}},
		{"Called: mom", []string{"mom"}},
		{"need to buy milk", nil},
		{"done a, done b, done c, done d", []string{"a", "b", "c"}},
		{"finished a, finished a", []string{"a"}},
	}
	for _, c := range cases {
		if got := DetectCompleted(c.text); !reflect.DeepEqual(got, c.want) {
			t.Errorf("DetectCompleted(%q) = %v, want %v", c.text, got, c.want)
		}
	}
}

func TestDetectCompletedSkipsLongItems(t *testing.T) {
	long := "finished " + "a very long description of something that goes on and on forever"
	if got := DetectCompleted(long); len(got) != 0 {
		t.Errorf("got %v", got)
	}
}

func TestMicroCandidates(t *testing.T) {
	for _, a := range microCandidates(false) {
		if a.Kind == KindPrep {
			t.Errorf("prep action %s offered with no tasks left", a.ID)
		}
	}
	all := microCandidates(true)
	if len(all) != len(microActions) {
		t.Errorf("candidates = %d, want %d", len(all), len(microActions))
	}
	if all[0].Kind != KindClosing || all[len(all)-1].Kind != KindReset {
		t.Errorf("order = %s ... %s", all[0].Kind, all[len(all)-1].Kind)
	}
}
