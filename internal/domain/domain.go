package domain

import "github.com/yungbote/minicms-backend/internal/domain/history"

const (
	OperationUpdateFields    = history.OperationUpdateFields
	OperationUpdateGroupItem = history.OperationUpdateGroupItem
	OperationAppendGroupItem = history.OperationAppendGroupItem
)

type EditLogEntry = history.EditLogEntry
