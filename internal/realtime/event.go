package realtime

import "time"

const EventRecordUpdated = "record.updated"

// RecordEvent announces a committed change to a record file.
type RecordEvent struct {
	Event        string    `json:"event"`
	Operation    string    `json:"operation"`
	Repo         string    `json:"repo"`
	CollectionID string    `json:"collection_id"`
	RecordID     string    `json:"record_id"`
	FieldPath    string    `json:"field_path,omitempty"`
	Revision     string    `json:"revision"`
	Actor        string    `json:"actor,omitempty"`
	At           time.Time `json:"at"`
}
