package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ANTHROPIC_API_KEY", "")
	t.Setenv("GHTODO_MODEL", "")
	t.Setenv("GHTODO_MAX_TOKENS", "")
	t.Setenv("GHTODO_LABEL", "")

	cfg := Load()
	if cfg.Label != "todo" {
		t.Errorf("Label = %q, want todo", cfg.Label)
	}
	if cfg.MaxTokens != 1024 {
		t.Errorf("MaxTokens = %d, want 1024", cfg.MaxTokens)
	}
	if cfg.Model == "" {
		t.Error("Model default missing")
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("GHTODO_LABEL", "agent-todo")
	t.Setenv("GHTODO_MAX_TOKENS", "2048")

	cfg := Load()
	if cfg.Label != "agent-todo" {
		t.Errorf("Label = %q", cfg.Label)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("MaxTokens = %d", cfg.MaxTokens)
	}
}

func TestLoadBadIntFallsBack(t *testing.T) {
	t.Setenv("GHTODO_MAX_TOKENS", "not-a-number")
	if got := Load().MaxTokens; got != 1024 {
		t.Errorf("MaxTokens = %d, want default on bad input", got)
	}
}
