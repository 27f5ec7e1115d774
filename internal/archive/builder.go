package archive

import (
	"fmt"
	"time"

	"github.com/starford/braindump/internal/completion"
)

// Writer persists summary documents.
type Writer interface {
	Write(path string, content []byte) error
}

// Builder regenerates the summary of the current week from the archive.
type Builder struct {
	files Writer
	now   func() time.Time
}

// NewBuilder creates a Builder. A nil clock means time.Now.
func NewBuilder(files Writer, now func() time.Time) *Builder {
	if now == nil {
		now = time.Now
	}
	return &Builder{files: files, now: now}
}

// Update rewrites the current week's summary from entries. When no dated
// entry falls in the current week nothing is written and ok is false.
func (b *Builder) Update(entries []completion.Entry) (path string, ok bool, err error) {
	week := WeekKey(b.now())
	thisWeek := InWeek(entries, week)
	if len(thisWeek) == 0 {
		return "", false, nil
	}
	path = SummaryPath(week)
	if err := b.files.Write(path, []byte(Render(week, thisWeek))); err != nil {
		return "", false, fmt.Errorf("archive: write summary %s: %w", path, err)
	}
	return path, true, nil
}
