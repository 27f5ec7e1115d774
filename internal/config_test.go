package internal

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/braindump/internal/apperr"
	"github.com/starford/braindump/internal/reconcile"
)

func validConfig() *Config {
	cfg := NewDefaultConfig()
	cfg.Generator.APIKey = "gsk_test"
	return cfg
}

func TestAuthConfig_DisabledMode(t *testing.T) {
	cfg := AuthConfig{Mode: "disabled", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("disabled mode should pass: %v", err)
	}
	if cfg.AuthEnabled() {
		t.Error("disabled mode should not be enabled")
	}
}

func TestAuthConfig_EmptyModeDefaultsDisabled(t *testing.T) {
	cfg := AuthConfig{Mode: "", Token: ""}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("empty mode should default to disabled: %v", err)
	}
	if cfg.Mode != AuthModeDisabled {
		t.Errorf("mode = %q, want %q", cfg.Mode, AuthModeDisabled)
	}
}

func TestAuthConfig_TokenModeValid(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: "mysecret"}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("token mode with token should pass: %v", err)
	}
	if !cfg.AuthEnabled() {
		t.Error("token mode should be enabled")
	}
}

func TestAuthConfig_TokenModeEmptyToken(t *testing.T) {
	cfg := AuthConfig{Mode: "token", Token: ""}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("token mode with empty token should fail")
	}
	if !strings.Contains(err.Error(), "token is empty") {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestAuthConfig_InvalidMode(t *testing.T) {
	cfg := AuthConfig{Mode: "magic", Token: "x"}
	err := cfg.Validate()
	if err == nil {
		t.Fatal("invalid mode should fail validation")
	}
}

func TestFullConfig_AuthValidationCalled(t *testing.T) {
	cfg := validConfig()
	cfg.Auth.Mode = "token"
	cfg.Auth.Token = ""
	err := cfg.Validate()
	if err == nil {
		t.Fatal("full config validate should catch auth error")
	}
}

func TestDefaultConfig_ValidWithKey(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("default config with key should pass: %v", err)
	}
}

func TestGeneratorConfig_MissingKey(t *testing.T) {
	cfg := validConfig()
	cfg.Generator.APIKey = ""
	if err := cfg.Validate(); !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("err = %v, want configuration error", err)
	}
}

func TestGeneratorConfig_TemperatureRange(t *testing.T) {
	cfg := validConfig()
	cfg.Generator.Temperature = 3
	if err := cfg.Validate(); err == nil {
		t.Error("temperature above 2 should fail")
	}
}

func TestGeneratorConfig_SystemPrompt(t *testing.T) {
	cfg := validConfig().Generator
	p, err := cfg.SystemPrompt()
	if err != nil || p != reconcile.DefaultSystemPrompt {
		t.Errorf("built-in prompt = %q, %v", p, err)
	}

	path := filepath.Join(t.TempDir(), "brain_dump.md")
	_ = os.WriteFile(path, []byte("custom prompt"), 0o644)
	cfg.PromptPath = path
	if p, _ := cfg.SystemPrompt(); p != "custom prompt" {
		t.Errorf("file prompt = %q", p)
	}

	cfg.PromptPath = filepath.Join(t.TempDir(), "missing.md")
	if _, err := cfg.SystemPrompt(); !errors.Is(err, apperr.ErrConfiguration) {
		t.Errorf("missing prompt err = %v", err)
	}
}
