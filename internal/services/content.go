package services

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/content/address"
	"github.com/yungbote/minicms-backend/internal/content/document"
	"github.com/yungbote/minicms-backend/internal/content/schema"
	"github.com/yungbote/minicms-backend/internal/data/repos"
	types "github.com/yungbote/minicms-backend/internal/domain"
	"github.com/yungbote/minicms-backend/internal/platform/dbctx"
	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime/bus"
	"github.com/yungbote/minicms-backend/internal/store"
)

type ContentConfig struct {
	Repo            string
	ConfigPath      string
	CollectionsRoot string
	// ListConcurrency bounds record fetches while building a collection view.
	ListConcurrency int
}

// Values are the supplied field values of a write, keyed by field id.
type Values map[string]document.Value

type RecordResult struct {
	CollectionID string         `json:"collection_id"`
	RecordID     string         `json:"record_id"`
	Path         string         `json:"path"`
	Revision     string         `json:"revision"`
	Data         document.Value `json:"data"`
	// Metadata is set on single-record reads only.
	Metadata *RecordMetadata `json:"metadata,omitempty"`
}

type RecordMetadata struct {
	Collection schema.CollectionSchema `json:"collection"`
}

type GroupItemResult struct {
	CollectionID string          `json:"collection_id"`
	RecordID     string          `json:"record_id"`
	FieldPath    string          `json:"field_path"`
	Field        schema.FieldDef `json:"field"`
	Revision     string          `json:"revision"`
	Value        document.Value  `json:"value"`
}

type CollectionView struct {
	Collection schema.CollectionSchema `json:"collection"`
	Items      []*RecordResult         `json:"items"`
}

type UpdateFieldsInput struct {
	CollectionID string
	RecordID     string
	Values       Values
}

type UpdateGroupItemInput struct {
	CollectionID string
	RecordID     string
	Path         string
	Values       Values
}

type AppendGroupItemInput struct {
	CollectionID string
	RecordID     string
	FieldID      string
	Values       Values
}

type ContentService interface {
	GetCollection(ctx context.Context, collectionID string) (*CollectionView, error)
	GetRecord(ctx context.Context, collectionID, recordID string) (*RecordResult, error)
	GetGroupItem(ctx context.Context, collectionID, recordID, fieldPath string) (*GroupItemResult, error)
	ListHistory(ctx context.Context, collectionID, recordID string, limit int) ([]*types.EditLogEntry, error)

	UpdateFields(ctx context.Context, in UpdateFieldsInput) (*RecordResult, error)
	UpdateGroupItem(ctx context.Context, in UpdateGroupItemInput) (*RecordResult, error)
	AppendGroupItem(ctx context.Context, in AppendGroupItemInput) (*RecordResult, error)
}

type contentService struct {
	log     *logger.Logger
	cfg     ContentConfig
	store   store.ContentStore
	editLog repos.EditLogRepo
	events  bus.Bus
	newID   func() string
}

// NewContentService wires the orchestrator. editLog and events are optional.
func NewContentService(
	baseLog *logger.Logger,
	cfg ContentConfig,
	contentStore store.ContentStore,
	editLog repos.EditLogRepo,
	events bus.Bus,
) ContentService {
	if cfg.ConfigPath == "" {
		cfg.ConfigPath = "config.yml"
	}
	if cfg.CollectionsRoot == "" {
		cfg.CollectionsRoot = "data/collections"
	}
	if cfg.ListConcurrency <= 0 {
		cfg.ListConcurrency = 8
	}
	if events == nil {
		events = bus.NewNoopBus()
	}
	return &contentService{
		log:     baseLog.With("service", "ContentService"),
		cfg:     cfg,
		store:   contentStore,
		editLog: editLog,
		events:  events,
		newID:   newUUID,
	}
}

// GetCollection returns the schema and every record file of the collection. An
// unreadable directory yields an empty item list; record fetch failures propagate.
func (s *contentService) GetCollection(ctx context.Context, collectionID string) (*CollectionView, error) {
	col, err := s.loadSchema(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	view := &CollectionView{Collection: *col, Items: []*RecordResult{}}

	entries, err := s.store.ListDirectory(ctx, s.cfg.Repo, s.collectionDir(collectionID))
	if err != nil {
		s.log.Warn("GetCollection: listing failed, returning no items",
			"collection_id", collectionID,
			"error", err,
		)
		return view, nil
	}

	var names []string
	for _, e := range entries {
		if e.Type == store.EntryFile && isRecordName(e.Name) {
			names = append(names, e.Name)
		}
	}
	sort.Strings(names)

	items := make([]*RecordResult, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.ListConcurrency)
	for i, name := range names {
		g.Go(func() error {
			p := s.collectionDir(collectionID) + "/" + name
			blob, err := s.store.Fetch(gctx, s.cfg.Repo, p)
			if err != nil {
				return storeFailure("fetch record", err)
			}
			rec, err := parseRecord(p, blob)
			if err != nil {
				return err
			}
			items[i] = rec.result(collectionID, recordIDFromName(name))
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	view.Items = items
	return view, nil
}

func (s *contentService) GetRecord(ctx context.Context, collectionID, recordID string) (*RecordResult, error) {
	col, err := s.loadSchema(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	rec, err := s.loadRecord(ctx, collectionID, recordID)
	if err != nil {
		return nil, err
	}
	res := rec.result(collectionID, recordID)
	res.Metadata = &RecordMetadata{Collection: *col}
	return res, nil
}

func (s *contentService) GetGroupItem(ctx context.Context, collectionID, recordID, fieldPath string) (*GroupItemResult, error) {
	col, err := s.loadSchema(ctx, collectionID)
	if err != nil {
		return nil, err
	}
	field, p, err := schema.ResolveFieldPath(col, fieldPath)
	if err != nil {
		return nil, err
	}
	rec, err := s.loadRecord(ctx, collectionID, recordID)
	if err != nil {
		return nil, err
	}
	v, err := address.ReadAt(*rec.Data(), p)
	if err != nil {
		return nil, err
	}
	return &GroupItemResult{
		CollectionID: collectionID,
		RecordID:     recordID,
		FieldPath:    p.String(),
		Field:        *field,
		Revision:     rec.Revision,
		Value:        v,
	}, nil
}

// ListHistory returns committed edits of a record, newest first. It is empty when
// no database is configured.
func (s *contentService) ListHistory(ctx context.Context, collectionID, recordID string, limit int) ([]*types.EditLogEntry, error) {
	if s.editLog == nil {
		return []*types.EditLogEntry{}, nil
	}
	if !validID(recordID) {
		return nil, fmt.Errorf("%w: invalid record id %q", content.ErrRecordNotFound, recordID)
	}
	rows, err := s.editLog.ListByRecord(dbctx.Context{Ctx: ctx}, collectionID, recordID, limit)
	if err != nil {
		s.log.Warn("ListHistory failed", "collection_id", collectionID, "record_id", recordID, "error", err)
		return nil, fmt.Errorf("list history: %w", err)
	}
	return rows, nil
}

func (r *recordFile) result(collectionID, recordID string) *RecordResult {
	return &RecordResult{
		CollectionID: collectionID,
		RecordID:     recordID,
		Path:         r.Path,
		Revision:     r.Revision,
		Data:         r.Data().Clone(),
	}
}
