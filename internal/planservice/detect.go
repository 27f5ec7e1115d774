package planservice

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

var (
	includeParkingRe = compileAll(
		`all\s*all`,
		`everything.*everything`,
		`including.*parking`,
		`parking.*too`,
		`completely.*clear`,
		`nothing.*left`,
		`totally.*done`,
	)
	allDoneRe = compileAll(
		`all.*done`,
		`everything.*done`,
		`finished.*all`,
		`completed.*all`,
		`cleared`,
		`all\s*clear`,
	)
	completedRe = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:finished|done|completed|submitted|sent|called|replied):?\s*(.+?)(?:[,;.\n]|$)`),
		regexp.MustCompile(`(?i)(.+?)(?:is done|is finished|is completed)`),
	}
)

const (
	maxDetected    = 3
	maxDetectedLen = 50
)

func compileAll(patterns ...string) []*regexp.Regexp {
	out := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		out[i] = regexp.MustCompile(`(?i)` + p)
	}
	return out
}

func matchAny(res []*regexp.Regexp, text string) bool {
	for _, re := range res {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}

// DetectAllDone reports whether text claims every Today task is done, and
// whether the claim extends to the parking list.
func DetectAllDone(text string) (todayDone, includeParking bool) {
	if matchAny(includeParkingRe, text) {
		return true, true
	}
	return matchAny(allDoneRe, text), false
}

// DetectCompleted returns up to three short items text reports as finished,
// in order of appearance.
func DetectCompleted(text string) []string {
	seen := make(map[string]struct{})
	var out []string
	for _, re := range completedRe {
		for _, m := range re.FindAllStringSubmatch(text, -1) {
			item := strings.TrimSpace(m[1])
			if item == "" || utf8.RuneCountInString(item) >= maxDetectedLen {
				continue
			}
			if _, dup := seen[item]; dup {
				continue
			}
			seen[item] = struct{}{}
			out = append(out, item)
			if len(out) == maxDetected {
				return out
			}
		}
	}
	return out
}
