package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	for _, key := range []string{"PORT", "ENV", "OBJECT_STORE", "LLM_PROVIDER", "LLM_MODEL", "LLM_TIMEOUT_SECONDS", "BOT_WORKERS", "MAX_UPLOAD_BYTES", "GROQ_API_KEY"} {
		t.Setenv(key, "")
	}

	cfg := Load()
	if cfg.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", cfg.Port)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected env dev, got %q", cfg.Env)
	}
	if cfg.ObjectStoreType != "local" {
		t.Fatalf("expected local store, got %q", cfg.ObjectStoreType)
	}
	if cfg.LLMProvider != "groq" {
		t.Fatalf("expected groq provider, got %q", cfg.LLMProvider)
	}
	if cfg.LLMTimeout != 60*time.Second {
		t.Fatalf("expected 60s timeout, got %s", cfg.LLMTimeout)
	}
	if cfg.BotWorkers != 4 {
		t.Fatalf("expected 4 bot workers, got %d", cfg.BotWorkers)
	}
	if cfg.MaxUploadBytes != 10<<20 {
		t.Fatalf("expected 10MB upload limit, got %d", cfg.MaxUploadBytes)
	}
}

func TestLoadOpenAIUsesOpenAIKey(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("OPENAI_API_KEY", "sk-openai")
	t.Setenv("GROQ_API_KEY", "gsk-groq")
	t.Setenv("LLM_TIMEOUT_SECONDS", "5")

	cfg := Load()
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected openai provider, got %q", cfg.LLMProvider)
	}
	if cfg.LLMAPIKey != "sk-openai" {
		t.Fatalf("expected openai key, got %q", cfg.LLMAPIKey)
	}
	if cfg.LLMTimeout != 5*time.Second {
		t.Fatalf("expected 5s timeout, got %s", cfg.LLMTimeout)
	}
}

func TestLoadEnvFileDoesNotOverrideEnvironment(t *testing.T) {
	dir := t.TempDir()
	chdir(t, dir)
	content := "# comment\nexport LLM_MODEL=\"from-file\"\nPORT=9999\nbroken line\n"
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("PORT", "7000")
	t.Setenv("LLM_MODEL", "")
	os.Unsetenv("LLM_MODEL")

	cfg := Load()
	if cfg.LLMModel != "from-file" {
		t.Fatalf("expected model from .env, got %q", cfg.LLMModel)
	}
	if cfg.Port != "7000" {
		t.Fatalf("expected environment port to win, got %q", cfg.Port)
	}
}

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantKey string
		wantVal string
		wantOK  bool
	}{
		{name: "plain", line: "A=b", wantKey: "A", wantVal: "b", wantOK: true},
		{name: "quoted", line: `A="b c"`, wantKey: "A", wantVal: "b c", wantOK: true},
		{name: "export", line: "export A='x'", wantKey: "A", wantVal: "x", wantOK: true},
		{name: "value with equals", line: "URL=postgres://u:p@h/db?x=1", wantKey: "URL", wantVal: "postgres://u:p@h/db?x=1", wantOK: true},
		{name: "comment", line: "# A=b", wantOK: false},
		{name: "blank", line: "   ", wantOK: false},
		{name: "no equals", line: "junk", wantOK: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key, val, ok := parseEnvLine(tt.line)
			if ok != tt.wantOK || key != tt.wantKey || val != tt.wantVal {
				t.Fatalf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.line, key, val, ok, tt.wantKey, tt.wantVal, tt.wantOK)
			}
		})
	}
}

// chdir mirrors testing.T.Chdir (Go 1.24+) for older toolchains.
func chdir(t *testing.T, dir string) {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
}
