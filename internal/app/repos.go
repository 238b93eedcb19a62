package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/minicms-backend/internal/data/repos"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

type Repos struct {
	EditLog repos.EditLogRepo
}

// wireRepos leaves every repo nil when no database is configured.
func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	if db == nil {
		return Repos{}
	}
	log.Info("Wiring repos...")
	return Repos{
		EditLog: repos.NewEditLogRepo(db, log),
	}
}
