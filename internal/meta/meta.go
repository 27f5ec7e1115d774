// Package meta reads and writes the settings embedded in a plan
// document's metadata marker.
package meta

import (
	"encoding/json"
	"time"

	"github.com/starford/braindump/internal/document"
)

// Style selects the tone of feedback messages.
type Style string

// Known styles.
const (
	StyleSnarky  Style = "snarky"
	StyleNeutral Style = "neutral"
	StyleWarm    Style = "warm"
)

// Metadata keys.
const (
	KeyPraiseStyle = "praise_style"

	// CounterMicroAction limits micro-action suggestions per day.
	CounterMicroAction = "micro_action"
)

const dateLayout = "2006-01-02"

// ParseStyle coerces s to a known style. Unknown values become neutral.
func ParseStyle(s string) Style {
	switch Style(s) {
	case StyleSnarky, StyleNeutral, StyleWarm:
		return Style(s)
	}
	return StyleNeutral
}

// GetStyle returns the stored style, neutral when missing or invalid.
func GetStyle(m document.Metadata) Style {
	s, _ := m[KeyPraiseStyle].(string)
	return ParseStyle(s)
}

// SetStyle stores the coerced style in m, which must be non-nil, and
// returns it.
func SetStyle(m document.Metadata, s string) Style {
	style := ParseStyle(s)
	m[KeyPraiseStyle] = string(style)
	return style
}

// DailyCount returns the counter's value for today, or 0 when the stored
// date is another day.
func DailyCount(m document.Metadata, name string, now time.Time) int {
	if date, _ := m[name+"_date"].(string); date != now.Format(dateLayout) {
		return 0
	}
	return toInt(m[name+"_count"])
}

// IncrementDaily bumps the counter for today and returns the new value. A
// counter last written on another day restarts at 1.
func IncrementDaily(m document.Metadata, name string, now time.Time) int {
	today := now.Format(dateLayout)
	count := 1
	if date, _ := m[name+"_date"].(string); date == today {
		count = toInt(m[name+"_count"]) + 1
	}
	m[name+"_date"] = today
	m[name+"_count"] = count
	return count
}

func toInt(v any) int {
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	}
	return 0
}
