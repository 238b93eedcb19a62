package history

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	OperationUpdateFields    = "update_fields"
	OperationUpdateGroupItem = "update_group_item"
	OperationAppendGroupItem = "append_group_item"
)

// EditLogEntry records one committed write to a record file.
type EditLogEntry struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	Operation    string `gorm:"column:operation;not null" json:"operation"`
	Repo         string `gorm:"column:repo;not null" json:"repo"`
	CollectionID string `gorm:"column:collection_id;not null;index:idx_edit_log_record,priority:1" json:"collection_id"`
	RecordID     string `gorm:"column:record_id;not null;index:idx_edit_log_record,priority:2" json:"record_id"`
	FilePath     string `gorm:"column:file_path;not null" json:"file_path"`
	FieldPath    string `gorm:"column:field_path" json:"field_path,omitempty"`

	PreviousRevision string `gorm:"column:previous_revision;not null" json:"previous_revision"`
	Revision         string `gorm:"column:revision;not null;index" json:"revision"`
	Actor            string `gorm:"column:actor" json:"actor,omitempty"`

	Values datatypes.JSON `gorm:"column:values_json" json:"values,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

func (EditLogEntry) TableName() string { return "edit_log" }

func (e *EditLogEntry) BeforeCreate(_ *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	return nil
}
