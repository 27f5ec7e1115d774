// Package document parses and renders the canonical plan document: a
// free-text body with task sections, a done archive, and one trailing
// metadata marker.
package document

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"

	"github.com/starford/braindump/internal/completion"
)

// ArchiveHeading introduces the done archive at the end of the document.
const ArchiveHeading = "## Done Archive"

var metaRe = regexp.MustCompile(`^<!--\s*meta:\s*(\{.*\})\s*-->$`)

// Metadata holds per-document settings embedded in the marker line.
type Metadata map[string]any

// Clone returns a shallow copy of m.
func (m Metadata) Clone() Metadata {
	out := make(Metadata, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// Document is the parsed form of the plan document.
type Document struct {
	Body     string
	Archive  []completion.Entry
	Metadata Metadata
}

// Parse splits raw into body, archive, and metadata. It never fails:
// malformed metadata is treated as absent and archive lines that do not
// match the done grammar are dropped.
func Parse(raw string) *Document {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	meta, rest := splitMetadata(raw)
	body, tail := splitArchive(rest)

	var entries []completion.Entry
	for _, line := range tail {
		if e, ok := completion.ParseLine(strings.TrimSpace(line)); ok {
			entries = append(entries, e)
		}
	}

	return &Document{
		Body:     body,
		Archive:  completion.Merge(entries),
		Metadata: meta,
	}
}

// Render serializes d. Archive and metadata sections are emitted only when
// non-empty; the result ends with exactly one newline.
func Render(d *Document) string {
	var b strings.Builder
	b.WriteString(strings.TrimSpace(stripMetadata(d.Body)))

	if len(d.Archive) > 0 {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(ArchiveHeading)
		b.WriteString("\n")
		b.WriteString(strings.Join(completion.Lines(d.Archive), "\n"))
	}

	if marker, ok := metadataLine(d.Metadata); ok {
		if b.Len() > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString(marker)
	}

	return strings.TrimRight(b.String(), " \t\r\n") + "\n"
}

// View returns the structured view of the document.
func (d *Document) View() View {
	v := ParseTasks(d.Body)
	v.Done = nonNil(d.Archive)
	return v
}

// PrependBody inserts text at the top of the body, separated by a blank line.
func (d *Document) PrependBody(text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	if strings.TrimSpace(d.Body) == "" {
		d.Body = text
		return
	}
	d.Body = text + "\n\n" + d.Body
}

// MarkDone replaces the task's line with a done marker. Hint lines below a
// Today task, blank lines between them included, are removed with it.
func (d *Document) MarkDone(t Task) {
	lines := strings.Split(d.Body, "\n")
	if t.Line < 0 || t.Line >= len(lines) {
		return
	}
	end := t.Line + 1
	if t.Section == SectionToday {
		for j := end; j < len(lines); j++ {
			trimmed := strings.TrimSpace(lines[j])
			if trimmed == "" {
				continue
			}
			if !isHint(trimmed) {
				break
			}
			end = j + 1
		}
	}
	out := make([]string, 0, len(lines))
	out = append(out, lines[:t.Line]...)
	out = append(out, "- [x] "+t.Name)
	out = append(out, lines[end:]...)
	d.Body = strings.Join(out, "\n")
}

// splitMetadata removes every marker line and returns the first one that
// holds valid JSON.
func splitMetadata(raw string) (Metadata, string) {
	meta := Metadata{}
	found := false
	var kept []string
	for _, line := range strings.Split(raw, "\n") {
		m := metaRe.FindStringSubmatch(strings.TrimSpace(line))
		if m == nil {
			kept = append(kept, line)
			continue
		}
		if found {
			continue
		}
		var parsed map[string]any
		if err := json.Unmarshal([]byte(m[1]), &parsed); err == nil {
			meta = parsed
			found = true
		}
	}
	return meta, strings.Join(kept, "\n")
}

func stripMetadata(text string) string {
	_, rest := splitMetadata(text)
	return rest
}

func metadataLine(m Metadata) (string, bool) {
	if len(m) == 0 {
		return "", false
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(map[string]any(m)); err != nil {
		return "", false
	}
	return "<!-- meta: " + strings.TrimSpace(buf.String()) + " -->", true
}

// splitArchive separates the body from the lines that follow the archive
// heading.
func splitArchive(text string) (string, []string) {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isArchiveHeading(line) {
			return strings.TrimSpace(strings.Join(lines[:i], "\n")), lines[i+1:]
		}
	}
	return strings.TrimSpace(text), nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
