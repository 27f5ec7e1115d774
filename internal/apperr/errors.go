// Package apperr defines the sentinel errors shared by the service layers.
package apperr

import "errors"

var (
	// ErrConfiguration marks a missing or invalid startup setting.
	ErrConfiguration = errors.New("configuration error")
	// ErrGeneration marks a failed generator call. The document is unchanged.
	ErrGeneration   = errors.New("generation failed")
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
)
