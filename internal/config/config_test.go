package config

import "testing"

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.ServerPort != 8080 {
		t.Errorf("ServerPort = %d, want 8080", cfg.ServerPort)
	}
	if cfg.Env != "development" {
		t.Errorf("Env = %q, want development", cfg.Env)
	}
	if !cfg.IsDevelopment() {
		t.Error("IsDevelopment should be true by default")
	}
	if cfg.UseRedisCache() {
		t.Error("UseRedisCache should be false without ANIMAP_REDIS_URL")
	}
	if cfg.TranslationEnabled() {
		t.Error("TranslationEnabled should be false without an API key")
	}
}

func TestLoad_ServerAddr(t *testing.T) {
	t.Setenv("ANIMAP_SERVER_HOST", "0.0.0.0")
	t.Setenv("ANIMAP_SERVER_PORT", "9000")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := cfg.ServerAddr(); got != "0.0.0.0:9000" {
		t.Errorf("ServerAddr = %q, want 0.0.0.0:9000", got)
	}
}

func TestLoad_InvalidPort(t *testing.T) {
	t.Setenv("ANIMAP_SERVER_PORT", "70000")

	if _, err := Load(); err == nil {
		t.Error("expected error for out-of-range port")
	}
}

func TestLoad_NegativeRPS(t *testing.T) {
	t.Setenv("ANIMAP_TRANSLATE_RPS", "-1")

	if _, err := Load(); err == nil {
		t.Error("expected error for negative rate limit")
	}
}
