package history

import (
	types "github.com/yungbote/minicms-backend/internal/domain"
	"github.com/yungbote/minicms-backend/internal/platform/dbctx"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"gorm.io/gorm"
)

type EditLogRepo interface {
	Create(dbc dbctx.Context, entries []*types.EditLogEntry) ([]*types.EditLogEntry, error)
	ListByRecord(dbc dbctx.Context, collectionID, recordID string, limit int) ([]*types.EditLogEntry, error)
}

type editLogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewEditLogRepo(db *gorm.DB, baseLog *logger.Logger) EditLogRepo {
	repoLog := baseLog.With("repo", "EditLogRepo")
	return &editLogRepo{db: db, log: repoLog}
}

func (r *editLogRepo) Create(dbc dbctx.Context, entries []*types.EditLogEntry) ([]*types.EditLogEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if len(entries) == 0 {
		return []*types.EditLogEntry{}, nil
	}
	if err := txx.WithContext(dbc.Ctx).Create(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// ListByRecord returns the newest entries first. limit <= 0 means 50.
func (r *editLogRepo) ListByRecord(dbc dbctx.Context, collectionID, recordID string, limit int) ([]*types.EditLogEntry, error) {
	txx := dbc.Tx
	if txx == nil {
		txx = r.db
	}
	if limit <= 0 {
		limit = 50
	}
	var results []*types.EditLogEntry
	if err := txx.WithContext(dbc.Ctx).
		Where("collection_id = ? AND record_id = ?", collectionID, recordID).
		Order("created_at DESC").
		Limit(limit).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
