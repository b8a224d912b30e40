package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"cv-matcher/internal/analyses"
	"cv-matcher/internal/documents"
	"cv-matcher/internal/extract"
	"cv-matcher/internal/llm"
	"cv-matcher/internal/llm/gemini"
	"cv-matcher/internal/llm/openai"
	"cv-matcher/internal/resumes"
	"cv-matcher/internal/services/health"
	"cv-matcher/internal/shared/auth"
	"cv-matcher/internal/shared/cache"
	"cv-matcher/internal/shared/config"
	"cv-matcher/internal/shared/server"
	"cv-matcher/internal/shared/server/middleware"
	"cv-matcher/internal/shared/storage/db"
	"cv-matcher/internal/shared/storage/object"
	localstore "cv-matcher/internal/shared/storage/object/local"
	s3store "cv-matcher/internal/shared/storage/object/s3"
	"cv-matcher/internal/shared/telemetry"
	"cv-matcher/internal/taskqueue"
	"cv-matcher/internal/users"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Cache            cache.Cache
	Store            object.ObjectStore
	Queue            *taskqueue.Queue
	LLM              llm.Completer
	UsersService     *users.Service
	DocumentsService *documents.Service
	ResumesService   *resumes.Service

	closers []func()
}

// Build wires every dependency from cfg. In dev-like environments missing
// infrastructure falls back to in-memory or local implementations.
func Build(ctx context.Context, cfg config.Config) (*App, error) {
	telemetry.SetLevel(cfg.LogLevel)

	app := &App{Config: cfg, Queue: taskqueue.New()}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}
	if sqlDB != nil {
		app.DB = sqlDB
		app.closers = append(app.closers, func() { _ = sqlDB.Close() })
	}

	if app.Cache, err = buildCache(ctx, cfg, app); err != nil {
		app.Close()
		return nil, err
	}
	if app.Store, err = buildStore(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	if app.LLM, err = NewCompleter(ctx, cfg); err != nil {
		app.Close()
		return nil, err
	}
	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.DevLike())
	if err != nil {
		app.Close()
		return nil, err
	}

	var userRepo users.Repo = users.NewMemoryRepo()
	if app.DB != nil {
		userRepo = &users.PGRepo{DB: app.DB}
	}
	userRepo = users.NewCachedRepo(userRepo, app.Cache, cfg.ProfileCacheTTL)

	app.UsersService = users.NewService(userRepo)
	app.DocumentsService = documents.NewService(app.Store)
	app.ResumesService = resumes.NewService(
		app.UsersService,
		app.DocumentsService,
		extract.New(app.DocumentsService),
		analyses.NewExtractor(app.LLM),
		app.Queue,
	)

	var healthSvc *health.Service
	if app.DB != nil {
		healthSvc = health.NewService(app.DB, app.Queue)
	} else {
		healthSvc = health.NewService(nil, app.Queue)
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:        cfg,
		Verifier:      verifier,
		Health:        healthSvc,
		UserHandler:   users.NewHandler(app.UsersService),
		ResumeHandler: resumes.NewHandler(app.ResumesService),
		RateLimiter:   middleware.NewRateLimiter(nil),
	})
	return app, nil
}

// Close releases connections opened by Build.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.DevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.DefaultServerOptions())
	if err != nil {
		if cfg.DevLike() {
			telemetry.Warn("bootstrap.memory_repositories", map[string]any{"reason": "database connect failed", "err": err.Error()})
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

func buildCache(ctx context.Context, cfg config.Config, app *App) (cache.Cache, error) {
	if strings.TrimSpace(cfg.ValkeyAddr) == "" {
		return cache.NewMemory(), nil
	}
	v, err := cache.NewValkey(ctx, cfg.ValkeyAddr, cfg.ValkeyPassword)
	if err != nil {
		if cfg.DevLike() {
			telemetry.Warn("bootstrap.memory_cache", map[string]any{"err": err.Error()})
			return cache.NewMemory(), nil
		}
		return nil, err
	}
	app.closers = append(app.closers, v.Close)
	return v, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, s3store.Options{
			Region:    cfg.AWSRegion,
			Bucket:    cfg.S3Bucket,
			Prefix:    cfg.S3Prefix,
			Endpoint:  cfg.S3Endpoint,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

// NewCompleter returns the completion client selected by cfg.LLMProvider.
func NewCompleter(ctx context.Context, cfg config.Config) (llm.Completer, error) {
	var (
		completer llm.Completer
		err       error
	)
	switch cfg.LLMProvider {
	case "openai":
		completer, err = openai.NewClient(cfg.OpenAIAPIKey, cfg.LLMModel, cfg.LLMTimeout)
	default:
		completer, err = gemini.New(ctx, gemini.Options{
			APIKey:  cfg.GeminiAPIKey,
			Model:   cfg.LLMModel,
			Timeout: cfg.LLMTimeout,
		})
	}
	if err != nil {
		if cfg.DevLike() {
			telemetry.Warn("bootstrap.llm_unconfigured", map[string]any{"provider": cfg.LLMProvider, "err": err.Error()})
			return llm.Unconfigured{Provider: cfg.LLMProvider}, nil
		}
		return nil, fmt.Errorf("%s client: %w", cfg.LLMProvider, err)
	}
	return completer, nil
}
