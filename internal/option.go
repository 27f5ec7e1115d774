package internal

import (
	"io"

	"github.com/starford/braindump/internal/reconcile"
)

// Option is a functional option for configuring the application.
type Option func(*application)

type application struct {
	config    *Config
	generator reconcile.Generator
	out       io.Writer
}

// WithConfig sets the application configuration.
func WithConfig(cfg *Config) Option {
	return func(a *application) {
		a.config = cfg
	}
}

// WithGenerator replaces the configured chat model client.
func WithGenerator(gen reconcile.Generator) Option {
	return func(a *application) {
		a.generator = gen
	}
}

// WithOutput sets where RunReplan prints the new document.
func WithOutput(w io.Writer) Option {
	return func(a *application) {
		a.out = w
	}
}

func newApplication(opts []Option) *application {
	app := &application{}
	for _, opt := range opts {
		opt(app)
	}
	return app
}
