package app

import (
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/services"
)

type Services struct {
	Content services.ContentService
	Account services.AccountService
}

func wireServices(log *logger.Logger, cfg Config, clients Clients, reposet Repos) Services {
	log.Info("Wiring services...")

	var accounts services.AccountProvider
	if clients.GitHub != nil {
		accounts = clients.GitHub
	}
	return Services{
		Content: services.NewContentService(log, services.ContentConfig{
			Repo:            cfg.DataRepo,
			ConfigPath:      cfg.ConfigPath,
			CollectionsRoot: cfg.CollectionsRoot,
		}, clients.Store, reposet.EditLog, clients.Events),
		Account: services.NewAccountService(log, cfg.DataRepo, accounts),
	}
}
