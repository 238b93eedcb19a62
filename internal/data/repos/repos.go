package repos

import (
	"github.com/yungbote/minicms-backend/internal/data/repos/history"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type EditLogRepo = history.EditLogRepo

func NewEditLogRepo(db *gorm.DB, baseLog *logger.Logger) EditLogRepo {
	return history.NewEditLogRepo(db, baseLog)
}
