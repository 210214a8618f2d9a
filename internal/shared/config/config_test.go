package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"ENV", "LLM_PROVIDER", "JWT_SECRET", "JWT_EXPIRATION_HOURS", "EVENTS_BACKEND", "OBJECT_STORE"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
	if cfg.LLMProvider != "gemini" {
		t.Fatalf("expected gemini provider, got %q", cfg.LLMProvider)
	}
	if cfg.JWTSecret == "" {
		t.Fatalf("expected dev jwt secret fallback")
	}
	if cfg.JWTExpiration != 24*time.Hour {
		t.Fatalf("expected 24h expiry, got %s", cfg.JWTExpiration)
	}
	if cfg.EventsBackend != "none" {
		t.Fatalf("expected none events backend, got %q", cfg.EventsBackend)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
}

func TestNormalizers(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{name: "env prod", fn: normalizeEnv, in: "PROD", want: "production"},
		{name: "env unknown", fn: normalizeEnv, in: "qa", want: "dev"},
		{name: "store minio", fn: normalizeStoreType, in: "minio", want: "s3"},
		{name: "provider openai", fn: NormalizeProvider, in: " OpenAI ", want: "openai"},
		{name: "provider unknown", fn: NormalizeProvider, in: "other", want: "gemini"},
		{name: "events rabbit", fn: normalizeEventsBackend, in: "rabbitmq", want: "amqp"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Fatalf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLoadEnvFilesDoesNotOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("CFG_TEST_KEY=from-file\nCFG_TEST_OTHER=\"quoted\"\n"), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("CFG_TEST_KEY", "from-env")
	t.Setenv("CFG_TEST_OTHER", "")
	os.Unsetenv("CFG_TEST_OTHER")

	loadEnvFiles(path, filepath.Join(dir, "missing.env"))

	if got := os.Getenv("CFG_TEST_KEY"); got != "from-env" {
		t.Fatalf("expected env to win, got %q", got)
	}
	if got := os.Getenv("CFG_TEST_OTHER"); got != "quoted" {
		t.Fatalf("expected quoted value from file, got %q", got)
	}
}
