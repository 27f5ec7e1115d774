// Package models defines the shared value types of the workspace.
package models

import "time"

// FileInfo describes one Markdown file of the workspace.
type FileInfo struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}
