// Package app assembles the hub's components from configuration. The HTTP
// server and the CLI share it.
package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/david/youth-hub/internal/ai"
	"github.com/david/youth-hub/internal/catalog"
	"github.com/david/youth-hub/internal/config"
	"github.com/david/youth-hub/internal/db"
	"github.com/david/youth-hub/internal/finder"
	"github.com/david/youth-hub/internal/i18n"
	"github.com/david/youth-hub/internal/session"
	"github.com/david/youth-hub/internal/storage"
)

type App struct {
	KV         storage.KV
	Catalog    *catalog.Catalog
	Geography  *catalog.Geography
	Finder     *finder.Engine
	Sessions   *session.Manager
	Translator *i18n.Translator
	Assistant  *ai.Assistant
}

// OpenStorage connects the configured key-value backend.
func OpenStorage(ctx context.Context, cfg config.StorageConfig, log *zap.Logger) (storage.KV, error) {
	switch cfg.Backend {
	case config.BackendMemory:
		log.Warn("using in-memory storage; nothing survives a restart")
		return storage.NewMemory(), nil
	case config.BackendSQLite:
		log.Info("opening sqlite storage", zap.String("path", cfg.SQLitePath))
		return storage.OpenSQLite(ctx, cfg.SQLitePath)
	case config.BackendRedis:
		log.Info("connecting to redis", zap.String("addr", cfg.Redis.Addr), zap.Int("db", cfg.Redis.DB))
		return storage.OpenRedis(ctx, storage.RedisOptions{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
	case config.BackendPostgres:
		pool, err := db.Connect(ctx, cfg.PostgresURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := db.ApplyMigrations(ctx, pool, log); err != nil {
			pool.Close()
			return nil, fmt.Errorf("migration failed: %w", err)
		}
		return db.NewStore(pool), nil
	}
	return nil, fmt.Errorf("unknown storage backend %q", cfg.Backend)
}

// NewBackend picks the model provider.
func NewBackend(ctx context.Context, cfg config.AIConfig, log *zap.Logger) (ai.Backend, error) {
	switch cfg.Provider {
	case config.ProviderGemini:
		log.Info("AI provider: gemini", zap.String("model", cfg.GeminiModel))
		return ai.NewGeminiClient(ctx, cfg.GeminiAPIKey, cfg.GeminiModel)
	case config.ProviderOllama:
		log.Info("AI provider: ollama", zap.String("host", cfg.OllamaHost), zap.String("model", cfg.OllamaModel))
		return ai.NewOllamaClient(cfg.OllamaHost, cfg.OllamaModel, cfg.Timeout), nil
	case config.ProviderMock:
		log.Warn("no AI API key configured; using the mock AI service")
		return ai.MockClient{}, nil
	}
	return nil, fmt.Errorf("unknown AI provider %q", cfg.Provider)
}

// New opens storage and builds every component on top of it. The caller
// closes the App.
func New(ctx context.Context, cfg *config.Config, log *zap.Logger) (*App, error) {
	kv, err := OpenStorage(ctx, cfg.Storage, log)
	if err != nil {
		return nil, err
	}
	a, err := build(ctx, kv, cfg, log)
	if err != nil {
		kv.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, kv storage.KV, cfg *config.Config, log *zap.Logger) (*App, error) {
	cat, err := catalog.Load(ctx, kv, log.Named("catalog"), nil)
	if err != nil {
		return nil, err
	}
	geo, err := catalog.LoadGeography()
	if err != nil {
		return nil, err
	}
	tr, err := i18n.New()
	if err != nil {
		return nil, fmt.Errorf("load translations: %w", err)
	}
	backend, err := NewBackend(ctx, cfg.AI, log.Named("ai"))
	if err != nil {
		return nil, err
	}

	admin := session.Credential{Email: cfg.Auth.AdminEmail, Password: cfg.Auth.AdminPassword}
	return &App{
		KV:         kv,
		Catalog:    cat,
		Geography:  geo,
		Finder:     finder.New(geo.Regions),
		Sessions:   session.NewManager(kv, admin, cfg.Auth.SocialEmail, log.Named("session")),
		Translator: tr,
		Assistant:  ai.NewAssistant(backend, cfg.AI.Timeout, log.Named("ai")),
	}, nil
}

func (a *App) Close() error {
	return a.KV.Close()
}
