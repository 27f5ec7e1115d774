package internal

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/testutil"
)

func replanConfig(t *testing.T) *Config {
	t.Helper()
	cfg := NewDefaultConfig()
	cfg.Workspace.Path = t.TempDir()
	cfg.SQLite.Path = filepath.Join(t.TempDir(), "braindump.db")
	cfg.Generator.APIKey = "gsk_test"
	return cfg
}

func TestRunReplan(t *testing.T) {
	cfg := replanConfig(t)
	seed := "call the bank\n\n- [x] sent the report"
	if err := os.WriteFile(filepath.Join(cfg.Workspace.Path, "state.md"), []byte(seed), 0o644); err != nil {
		t.Fatal(err)
	}

	var out bytes.Buffer
	gen := &testutil.Generator{Outputs: []string{testutil.Plan}}
	err := RunReplan(context.Background(), WithConfig(cfg), WithGenerator(gen), WithOutput(&out))
	if err != nil {
		t.Fatalf("RunReplan: %v", err)
	}

	text := out.String()
	if !strings.Contains(text, "## Done Archive") || !strings.Contains(text, "sent the report") {
		t.Errorf("output missing archive:\n%s", text)
	}
	if !strings.Contains(text, "snapshot: runs/state_") {
		t.Errorf("output missing snapshot path:\n%s", text)
	}
	if !strings.Contains(text, "summary: summaries/weekly_") {
		t.Errorf("output missing summary path:\n%s", text)
	}
	if len(gen.Requests()) != 1 {
		t.Errorf("generator calls = %d, want 1", len(gen.Requests()))
	}
}

func TestRunReplan_GenerationFailure(t *testing.T) {
	cfg := replanConfig(t)
	_ = os.WriteFile(filepath.Join(cfg.Workspace.Path, "state.md"), []byte("call the bank"), 0o644)

	gen := &testutil.Generator{Err: errors.New("timeout")}
	err := RunReplan(context.Background(), WithConfig(cfg), WithGenerator(gen), WithOutput(&bytes.Buffer{}))
	if !errors.Is(err, apperr.ErrGeneration) {
		t.Errorf("err = %v, want generation error", err)
	}
	data, _ := os.ReadFile(filepath.Join(cfg.Workspace.Path, "state.md"))
	if string(data) != "call the bank" {
		t.Errorf("state changed: %q", data)
	}
}

func TestRunRequiresConfig(t *testing.T) {
	if err := RunReplan(context.Background()); !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("err = %v, want configuration error", err)
	}
}

func TestRunReplan_MissingPromptFile(t *testing.T) {
	cfg := replanConfig(t)
	cfg.Generator.PromptPath = filepath.Join(t.TempDir(), "missing.md")
	gen := &testutil.Generator{Outputs: []string{testutil.Plan}}
	err := RunReplan(context.Background(), WithConfig(cfg), WithGenerator(gen), WithOutput(&bytes.Buffer{}))
	if !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("err = %v, want configuration error", err)
	}
}

func TestRunReplan_EmptyWorkspace(t *testing.T) {
	cfg := replanConfig(t)
	var out bytes.Buffer
	gen := &testutil.Generator{Outputs: []string{testutil.Plan}}
	if err := RunReplan(context.Background(), WithConfig(cfg), WithGenerator(gen), WithOutput(&out)); err != nil {
		t.Fatalf("RunReplan: %v", err)
	}
	if !strings.Contains(out.String(), "nothing to plan") {
		t.Errorf("output = %q", out.String())
	}
	if len(gen.Requests()) != 0 {
		t.Error("empty workspace must not call the generator")
	}
}
