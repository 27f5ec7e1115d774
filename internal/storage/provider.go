// Package storage defines the workspace file-system abstraction.
package storage

import "github.com/starford/braindump/internal/models"

// Provider is the interface for workspace file operations. Paths are
// logical, slash-separated, and relative to the workspace root.
type Provider interface {
	// List returns metadata for every .md file under dir.
	List(dir string) ([]models.FileInfo, error)
	// Read returns the raw bytes of the file at path. A missing file yields
	// an error matching os.ErrNotExist.
	Read(path string) ([]byte, error)
	// Write atomically replaces the file at path with content.
	Write(path string, content []byte) error
	// Exists reports whether a file is present at path.
	Exists(path string) (bool, error)
}
