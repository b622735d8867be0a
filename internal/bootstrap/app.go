package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/gin-gonic/gin"

	"documate/internal/assistant"
	"documate/internal/documents"
	"documate/internal/extract"
	"documate/internal/history"
	"documate/internal/llm"
	"documate/internal/llm/groq"
	"documate/internal/llm/openai"
	"documate/internal/sessions"
	"documate/internal/shared/config"
	"documate/internal/shared/server"
	"documate/internal/shared/storage/db"
	"documate/internal/shared/storage/object"
	localstore "documate/internal/shared/storage/object/local"
	s3store "documate/internal/shared/storage/object/s3"
	"documate/internal/web"
)

// App holds the shared dependencies used by every front end.
type App struct {
	Config    config.Config
	DB        *sql.DB
	Store     object.ObjectStore
	History   history.Repo
	Documents *documents.Service
	Assistant *assistant.Service
}

// Build wires storage, history, extraction and the summarizer into one assistant.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	summarizer, err := buildSummarizer(cfg)
	if err != nil {
		closeDB(sqlDB)
		return nil, err
	}

	var hist history.Repo
	if sqlDB != nil {
		hist = &history.PGRepo{DB: sqlDB}
	} else {
		hist = history.NewMemoryRepo()
	}

	docs := &documents.Service{Store: store, MaxBytes: cfg.MaxUploadBytes}
	app := &App{
		Config:    cfg,
		DB:        sqlDB,
		Store:     store,
		History:   hist,
		Documents: docs,
		Assistant: &assistant.Service{
			Sessions:   sessions.NewStore(),
			Docs:       docs,
			Extractor:  extract.New(docs),
			Summarizer: summarizer,
			History:    hist,
			Timeout:    cfg.LLMTimeout,
		},
	}
	return app, nil
}

// Router builds the HTTP engine serving the web front end.
func (a *App) Router() *gin.Engine {
	return server.NewRouter(a.Config.Env, web.NewHandler(a.Assistant, a.History, a.Config.MaxUploadBytes))
}

// Close releases every active document and closes the database.
func (a *App) Close(ctx context.Context) error {
	err := a.Assistant.Close(ctx)
	if a.DB != nil {
		err = errors.Join(err, a.DB.Close())
	}
	return err
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		log.Printf("bootstrap: DATABASE_URL empty; using in-memory history")
		return nil, nil
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	if err != nil {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: database connect failed; using in-memory history: %v", err)
			return nil, nil
		}
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		if strings.TrimSpace(cfg.S3Bucket) == "" {
			return nil, fmt.Errorf("OBJECT_STORE=s3 requires S3_BUCKET")
		}
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildSummarizer(cfg config.Config) (llm.Summarizer, error) {
	if strings.TrimSpace(cfg.LLMAPIKey) == "" {
		if isDevLike(cfg.Env) {
			log.Printf("bootstrap: no API key for %s; answers will fail until one is configured", cfg.LLMProvider)
			return unconfiguredSummarizer{provider: cfg.LLMProvider}, nil
		}
		return nil, fmt.Errorf("API key required for LLM provider %s", cfg.LLMProvider)
	}
	switch cfg.LLMProvider {
	case "openai":
		return openai.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
	default:
		return groq.NewClient(cfg.LLMAPIKey, cfg.LLMModel, cfg.LLMBaseURL, cfg.LLMTimeout)
	}
}

func closeDB(sqlDB *sql.DB) {
	if sqlDB != nil {
		_ = sqlDB.Close()
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local":
		return true
	default:
		return false
	}
}

type unconfiguredSummarizer struct {
	provider string
}

func (u unconfiguredSummarizer) Summarize(context.Context, string) (string, error) {
	return "", &llm.Error{Kind: llm.KindAuthFailure, Provider: u.provider, Err: errors.New("api key not configured")}
}
