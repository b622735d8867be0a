package bootstrap

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"documate/internal/assistant"
	"documate/internal/history"
	"documate/internal/llm"
	"documate/internal/llm/openai"
	"documate/internal/shared/config"
	"documate/internal/shared/telemetry"
)

func TestBuildDevWithoutDatabaseOrKey(t *testing.T) {
	restore := telemetry.SetOutput(io.Discard)
	defer restore()

	app, err := Build(context.Background(), config.Config{
		Env:            "dev",
		LocalStoreDir:  t.TempDir(),
		LLMProvider:    "groq",
		MaxUploadBytes: 1 << 20,
	})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	defer app.Close(context.Background())

	if app.DB != nil {
		t.Fatalf("expected no database")
	}
	if _, ok := app.History.(*history.MemoryRepo); !ok {
		t.Fatalf("expected memory history, got %T", app.History)
	}

	_, err = app.Assistant.Summarizer.Summarize(context.Background(), "prompt")
	if !errors.Is(err, llm.ErrAuthFailure) {
		t.Fatalf("expected auth failure from unconfigured summarizer, got %v", err)
	}

	resp := httptest.NewRecorder()
	app.Router().ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected health 200, got %d", resp.Code)
	}
}

func TestBuildRequiresKeyOutsideDev(t *testing.T) {
	_, err := Build(context.Background(), config.Config{Env: "production", LocalStoreDir: t.TempDir(), LLMProvider: "groq"})
	if err == nil {
		t.Fatalf("expected error without API key in production")
	}
}

func TestBuildSelectsProvider(t *testing.T) {
	cases := []struct {
		provider string
		check    func(llm.Summarizer) bool
	}{
		{"groq", func(s llm.Summarizer) bool { c, ok := s.(*openai.Client); return ok && c.Provider() == "groq" }},
		{"openai", func(s llm.Summarizer) bool { c, ok := s.(*openai.Client); return ok && c.Provider() == "openai" }},
	}
	for _, tc := range cases {
		t.Run(tc.provider, func(t *testing.T) {
			s, err := buildSummarizer(config.Config{Env: "production", LLMProvider: tc.provider, LLMAPIKey: "key"})
			if err != nil {
				t.Fatalf("buildSummarizer: %v", err)
			}
			if !tc.check(s) {
				t.Fatalf("unexpected summarizer %T", s)
			}
		})
	}
}

func TestBuildRejectsS3WithoutBucket(t *testing.T) {
	_, err := buildStore(context.Background(), config.Config{ObjectStoreType: "s3"})
	if err == nil {
		t.Fatalf("expected error without bucket")
	}
}

func TestCloseReleasesActiveDocuments(t *testing.T) {
	restore := telemetry.SetOutput(io.Discard)
	defer restore()

	app, err := Build(context.Background(), config.Config{Env: "dev", LocalStoreDir: t.TempDir(), MaxUploadBytes: 1 << 20})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	msg := app.Assistant.HandleUpload(context.Background(), assistant.DocumentUploadEvent{
		OwnerID:  "web:1",
		FileName: "a.pdf",
		Body:     strings.NewReader("%PDF-1.4"),
	})
	if msg.Kind != assistant.KindFileReceived {
		t.Fatalf("unexpected upload reply %+v", msg)
	}
	if err := app.Close(context.Background()); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if app.Assistant.Sessions.Len() != 0 {
		t.Fatalf("expected sessions drained")
	}
}
