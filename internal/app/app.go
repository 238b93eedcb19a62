package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/minicms-backend/internal/data/db"
	server "github.com/yungbote/minicms-backend/internal/http"
	"github.com/yungbote/minicms-backend/internal/observability"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime"
)

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Router   *gin.Engine
	Clients  Clients
	Repos    Repos
	Services Services
	Hub      *realtime.Hub

	db           *db.Service
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	cfg := LoadConfig()
	log, err := logger.New(cfg.LogMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if cfg.LogMode == "production" || cfg.LogMode == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	if err := cfg.Validate(); err != nil {
		log.Sync()
		return nil, fmt.Errorf("config: %w", err)
	}
	log.Info("Config loaded",
		"store_mode", cfg.StoreMode,
		"data_repo", cfg.DataRepo,
		"data_branch", cfg.DataBranch,
		"db_driver", cfg.DBDriver,
		"redis", cfg.RedisAddr != "",
	)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfigFromEnv(serviceName))

	dbService, err := db.Open(log, db.Config{Driver: cfg.DBDriver, DSN: cfg.DBDSN})
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	var reposet Repos
	if dbService != nil {
		if err := dbService.AutoMigrateAll(); err != nil {
			log.Sync()
			return nil, fmt.Errorf("database automigrate: %w", err)
		}
		reposet = wireRepos(dbService.DB(), log)
	}

	clients, err := wireClients(log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}

	hub := realtime.NewHub(log)
	if err := clients.Events.StartForwarder(ctx, hub.Broadcast); err != nil {
		log.Warn("Record event forwarder not started; streams will stay idle", "error", err)
	}

	serviceset := wireServices(log, cfg, clients, reposet)
	handlerset := wireHandlers(log, serviceset, hub)
	middleware := wireMiddleware(log, clients)
	router := wireRouter(log, cfg, handlerset, middleware)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Router:       router,
		Clients:      clients,
		Repos:        reposet,
		Services:     serviceset,
		Hub:          hub,
		db:           dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Router == nil {
		return fmt.Errorf("app not initialized")
	}
	addr := ":" + a.Cfg.Port
	a.Log.Info("Starting server", "addr", addr)
	srv := &server.Server{Engine: a.Router}
	if a.Hub != nil {
		srv.OnShutdown = append(srv.OnShutdown, a.Hub.CloseAll)
	}
	return srv.Run(ctx, addr)
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Clients.Events != nil {
		if err := a.Clients.Events.Close(); err != nil {
			a.Log.Warn("Closing record bus failed", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.Log.Warn("Closing database failed", "error", err)
		}
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = a.otelShutdown(ctx)
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
