package reconcile

import (
	"strings"

	"github.com/starford/braindump/internal/completion"
	"github.com/starford/braindump/internal/document"
)

// FallbackBody replaces generator output that is empty or has no Today
// section.
const FallbackBody = "## Today's Tasks\n\n" +
	"1. **Take a break**  \n" +
	"   → You've done a lot today, time to relax\n\n" +
	"---\n\n" +
	"## Can Skip Today\n\n" +
	"- Other tasks — Tomorrow\n\n" +
	"---\n\n" +
	"## If You Have Extra Energy\n\n" +
	"- Think about what to do tomorrow"

// Sanitized is the result of cleaning one generator response.
type Sanitized struct {
	// Body is the task text safe to store, or FallbackBody.
	Body string
	// Declared holds the done-marker lines found anywhere in the raw output.
	Declared []string
	// Fallback is true when Body was replaced.
	Fallback bool
}

// Sanitize treats out as untrusted text and always yields a usable body.
// Done markers are collected from the whole output before it is cut at the
// first archive or "Just Completed" heading.
func Sanitize(out string) Sanitized {
	out = strings.ReplaceAll(out, "\r\n", "\n")
	out = unfence(out)
	res := Sanitized{Declared: completion.ExtractInline(out)}

	lines := strings.Split(out, "\n")
	for i, line := range lines {
		if document.IsArchiveHeading(line) || document.IsJustCompletedHeading(line) {
			lines = lines[:i]
			break
		}
	}
	body := completion.Strip(strings.Join(lines, "\n"))
	body = stripMarkers(body)

	if body == "" || !document.HasTodayHeading(body) {
		res.Body = FallbackBody
		res.Fallback = true
		return res
	}
	res.Body = body
	return res
}

// unfence removes a single markdown code fence wrapping the whole output.
func unfence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") || !strings.HasSuffix(t, "```") || len(t) < 6 {
		return s
	}
	t = strings.TrimSuffix(t, "```")
	if nl := strings.Index(t, "\n"); nl >= 0 {
		return t[nl+1:]
	}
	return s
}

// stripMarkers drops metadata marker lines the generator may have echoed.
func stripMarkers(s string) string {
	d := document.Parse(s)
	return strings.TrimSpace(d.Body)
}
