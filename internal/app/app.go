package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"gorm.io/gorm"

	"github.com/yungbote/mealpersona-backend/internal/data/db"
	"github.com/yungbote/mealpersona-backend/internal/data/repos"
	"github.com/yungbote/mealpersona-backend/internal/http"
	"github.com/yungbote/mealpersona-backend/internal/observability"
	"github.com/yungbote/mealpersona-backend/internal/platform/logger"
)

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Router   *gin.Engine
	Cfg      Config
	Repos    repos.Set
	Services Services

	pg           *db.PostgresService
	otelShutdown func(context.Context) error
}

// NewLogger builds the process logger before the rest of the config loads.
func NewLogger() (*logger.Logger, error) {
	v := viper.New()
	v.SetDefault("LOG_MODE", "development")
	v.SetDefault("LOG_REDACTION_ENABLED", true)
	v.AutomaticEnv()
	log, err := logger.NewWithOptions(logger.Options{
		Mode:     v.GetString("LOG_MODE"),
		Redact:   v.GetBool("LOG_REDACTION_ENABLED"),
		HashSalt: v.GetString("LOG_HASH_SALT"),
	})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	return log, nil
}

// Bootstrap loads config and opens the database; used by every command.
func Bootstrap(log *logger.Logger) (Config, *db.PostgresService, error) {
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log)
	if err != nil {
		return Config{}, nil, err
	}
	pg, err := db.NewPostgresService(log, cfg.Postgres)
	if err != nil {
		return Config{}, nil, fmt.Errorf("init postgres: %w", err)
	}
	return cfg, pg, nil
}

func New(ctx context.Context, log *logger.Logger) (*App, error) {
	cfg, pg, err := Bootstrap(log)
	if err != nil {
		return nil, err
	}
	theDB := pg.DB()
	if err := db.AutoMigrateAll(theDB); err != nil {
		_ = pg.Close()
		return nil, fmt.Errorf("postgres automigrate: %w", err)
	}

	shutdown := observability.InitOTel(ctx, log, cfg.Otel)

	clients, err := wireClients(ctx, log, cfg)
	if err != nil {
		_ = pg.Close()
		return nil, err
	}
	reposet := wireRepos(theDB, log)
	serviceset := wireServices(theDB, log, cfg, reposet, clients)
	handlerset := wireHandlers(log, theDB, cfg, serviceset)
	middleware := wireMiddleware(log, clients, serviceset)
	router := wireRouter(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		DB:           theDB,
		Router:       router,
		Cfg:          cfg,
		Repos:        reposet,
		Services:     serviceset,
		pg:           pg,
		otelShutdown: shutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Server listening", "addr", addr)
	return (&http.Server{Engine: a.Router}).Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(context.Background()); err != nil {
			a.Log.Warn("OpenTelemetry shutdown failed", "error", err)
		}
	}
	if a.pg != nil {
		if err := a.pg.Close(); err != nil {
			a.Log.Warn("Postgres close failed", "error", err)
		}
	}
	a.Log.Sync()
}
