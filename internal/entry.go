// Package internal provides the main application initialization and runtime logic.
package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/starford/braindump/internal/api"
	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/generator"
	"github.com/starford/braindump/internal/index"
	"github.com/starford/braindump/internal/mcpserver"
	"github.com/starford/braindump/internal/planservice"
	"github.com/starford/braindump/internal/planstore"
	"github.com/starford/braindump/internal/reconcile"
	"github.com/starford/braindump/internal/sse"
	"github.com/starford/braindump/internal/storage"
)

// components is everything the transports share.
type components struct {
	cfg    *Config
	logger *slog.Logger
	files  *storage.FS
	db     *index.DB
	svc    *planservice.Service
}

func (c *components) Close() {
	if err := c.db.Close(); err != nil {
		c.logger.Warn("close index failed", slog.String("error", err.Error()))
	}
}

// setup builds the shared components. publish, if non-nil, receives every
// plan store write that changed the index.
func setup(app *application, logOut io.Writer, publish func(kind, path string)) (*components, error) {
	if app.config == nil {
		return nil, fmt.Errorf("config is required: %w", apperr.ErrConfiguration)
	}
	cfg := app.config

	// Initialize structured JSON logger.
	logger := slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{
		Level: cfg.App.LogLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("Configuration loaded",
		slog.String("http_address", cfg.App.HTTP.Address()),
		slog.String("workspace_path", cfg.Workspace.Path),
		slog.String("sqlite_path", cfg.SQLite.Path),
		slog.String("model", cfg.Generator.Model),
		slog.String("log_level", cfg.App.LogLevel.String()))

	gen := app.generator
	if gen == nil {
		client, err := generator.New(generator.Config{
			BaseURL:     cfg.Generator.BaseURL,
			Model:       cfg.Generator.Model,
			APIKey:      cfg.Generator.APIKey,
			Temperature: cfg.Generator.Temperature,
		})
		if err != nil {
			return nil, err
		}
		gen = client
	}
	prompt, err := cfg.Generator.SystemPrompt()
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(cfg.Workspace.Path, 0o755); err != nil {
		return nil, fmt.Errorf("create workspace dir: %w", err)
	}
	files, err := storage.NewFS(cfg.Workspace.Path)
	if err != nil {
		return nil, fmt.Errorf("init storage: %w", err)
	}

	db, err := index.Open(cfg.SQLite.Path)
	if err != nil {
		return nil, fmt.Errorf("init index: %w", err)
	}
	if err := index.Sync(db, files, logger); err != nil {
		logger.Warn("initial sync failed", slog.String("error", err.Error()))
	}

	// Writes made through the store are indexed right away; the watcher
	// then sees a matching checksum and stays quiet.
	hook := func(c planstore.Change) {
		kind, changed, err := index.Refresh(db, files, c.Path)
		if err != nil {
			logger.Warn("index refresh failed", slog.String("path", c.Path), slog.String("error", err.Error()))
			return
		}
		if changed && publish != nil {
			publish(kind, c.Path)
		}
	}

	store := planstore.New(files, planstore.WithChangeHook(hook))
	rec := reconcile.New(gen, reconcile.WithSystemPrompt(prompt), reconcile.WithLogger(logger))
	svc := planservice.New(store, rec, planservice.WithLogger(logger))

	return &components{
		cfg:    cfg,
		logger: logger,
		files:  files,
		db:     db,
		svc:    svc,
	}, nil
}

// Run starts the HTTP server, the workspace watcher and the SSE broker.
func Run(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)

	// SSE broker.
	broker := sse.NewBroker(2 * time.Second)
	defer broker.Close()

	c, err := setup(app, os.Stdout, broker.PublishChange)
	if err != nil {
		return err
	}
	defer c.Close()

	cfg, logger := c.cfg, c.logger

	apiRouter := api.NewRouter(c.svc, c.db, cfg.Auth.AuthEnabled(), cfg.Auth.Token, broker)

	// Build chi router.
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)

	// Health check endpoints (unauthenticated).
	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/health/ready", func(w http.ResponseWriter, _ *http.Request) {
		if _, err := c.db.AllChecksums(); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte(`{"status":"index unavailable"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Mount API routes under /api.
	r.Mount("/api", apiRouter)

	httpServer := &http.Server{
		Addr:              cfg.App.HTTP.Address(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	logger.Info("Server starting...", slog.String("http_address", cfg.App.HTTP.Address()))

	g, gCtx := errgroup.WithContext(ctx)

	// Start file watcher; external edits reach clients over SSE.
	g.Go(func() error {
		if err := index.Watch(gCtx, c.db, c.files, cfg.Workspace.Path, logger, broker.PublishChange); err != nil {
			logger.Error("watcher failed", slog.String("error", err.Error()))
		}
		return nil
	})

	// Start HTTP server.
	g.Go(func() error {
		logger.Info("Starting HTTP server", slog.String("address", cfg.App.HTTP.Address()))
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("HTTP server error: %w", err)
		}
		return nil
	})

	// Handle shutdown signals.
	g.Go(func() error {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case sig := <-quit:
			logger.Info("Received shutdown signal", slog.String("signal", sig.String()))
		case <-gCtx.Done():
			logger.Info("Context cancelled, initiating shutdown")
		}

		logger.Info("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", slog.String("error", err.Error()))
		}

		return errShutdown
	})

	if err := g.Wait(); err != nil && !errors.Is(err, errShutdown) {
		logger.Error("Application error", slog.String("error", err.Error()))
		return err
	}

	logger.Info("Server stopped successfully")
	return nil
}

// errShutdown cancels the group once the server is asked to stop, so the
// watcher exits too.
var errShutdown = errors.New("shutdown")

// RunReplan runs one reconciliation cycle and prints the new document
// followed by the snapshot and summary paths.
func RunReplan(ctx context.Context, opts ...Option) error {
	app := newApplication(opts)
	out := app.out
	if out == nil {
		out = os.Stdout
	}

	c, err := setup(app, os.Stderr, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	res, err := c.svc.Replan(ctx)
	if err != nil {
		return err
	}

	if res.State == reconcile.StateEmpty {
		fmt.Fprintln(out, "state.md is empty, nothing to plan")
		return nil
	}

	c.logger.Info("Replan finished",
		slog.String("state", string(res.State)),
		slog.String("snapshot", res.SnapshotPath),
		slog.String("summary", res.SummaryPath))

	fmt.Fprintln(out, res.Raw)
	if res.SnapshotPath != "" {
		fmt.Fprintf(out, "\nsnapshot: %s\n", res.SnapshotPath)
	}
	if res.SummaryPath != "" {
		fmt.Fprintf(out, "summary: %s\n", res.SummaryPath)
	}
	return nil
}

// RunMCP serves the plan tools over stdio. Logs go to stderr since stdout
// carries the protocol.
func RunMCP(_ context.Context, opts ...Option) error {
	app := newApplication(opts)

	c, err := setup(app, os.Stderr, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	c.logger.Info("MCP server starting on stdio")
	return mcpserver.New(c.svc, c.db).ServeStdio()
}
