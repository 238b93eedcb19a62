package app

import (
	"fmt"

	"github.com/yungbote/minicms-backend/internal/platform/github"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime/bus"
	"github.com/yungbote/minicms-backend/internal/store"
)

type Clients struct {
	Store  store.ContentStore
	GitHub *github.Client
	Events bus.Bus
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var out Clients
	switch cfg.StoreMode {
	case StoreModeMemory:
		ms := store.NewMemoryStore()
		if cfg.MemorySeedDir != "" {
			n, err := ms.SeedFromDir(cfg.DataRepo, cfg.MemorySeedDir)
			if err != nil {
				return Clients{}, fmt.Errorf("seed memory store: %w", err)
			}
			log.Info("Memory store seeded", "dir", cfg.MemorySeedDir, "files", n)
		}
		out.Store = ms
	default:
		gh := github.NewClient(log, github.Config{
			BaseURL:        cfg.GitHubAPIURL,
			Token:          cfg.GitHubToken,
			Branch:         cfg.DataBranch,
			Timeout:        cfg.GitHubTimeout,
			MaxRetries:     cfg.GitHubMaxRetries,
			CommitterName:  cfg.CommitterName,
			CommitterEmail: cfg.CommitterEmail,
		})
		out.Store = gh
		out.GitHub = gh
	}

	// Redis
	if cfg.RedisAddr != "" {
		b, err := bus.NewRedisBus(log, bus.RedisConfig{Addr: cfg.RedisAddr, Channel: cfg.RedisChannel})
		if err != nil {
			return Clients{}, fmt.Errorf("init redis record bus: %w", err)
		}
		out.Events = b
	} else {
		out.Events = bus.NewMemoryBus()
	}
	return out, nil
}
