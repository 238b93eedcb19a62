package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/content/address"
	"github.com/yungbote/minicms-backend/internal/content/document"
	"github.com/yungbote/minicms-backend/internal/content/schema"
	types "github.com/yungbote/minicms-backend/internal/domain"
	"github.com/yungbote/minicms-backend/internal/platform/ctxutil"
	"github.com/yungbote/minicms-backend/internal/platform/dbctx"
	"github.com/yungbote/minicms-backend/internal/realtime"
	"github.com/yungbote/minicms-backend/internal/store"
)

const postCommitTimeout = 5 * time.Second

func newUUID() string { return uuid.NewString() }

// UpdateFields overwrites every editable top-level scalar field. A field missing
// from in.Values is written as empty.
func (s *contentService) UpdateFields(ctx context.Context, in UpdateFieldsInput) (*RecordResult, error) {
	col, err := s.loadSchema(ctx, in.CollectionID)
	if err != nil {
		return nil, err
	}
	rec, err := s.loadRecord(ctx, in.CollectionID, in.RecordID)
	if err != nil {
		return nil, err
	}
	data := rec.Data()
	for _, f := range col.EditableScalarFields() {
		data.Set(f.ID, suppliedOrEmpty(in.Values, &f))
	}
	return s.commit(ctx, commitInput{
		op:           types.OperationUpdateFields,
		collectionID: in.CollectionID,
		recordID:     in.RecordID,
		rec:          rec,
		values:       in.Values,
	})
}

// UpdateGroupItem replaces one element of a repeatable group.
//
// For field/index the element is a mapping and each editable nested field is
// overwritten, other keys are kept. For field/index/nested/index the addressed
// element is replaced by the value supplied under the nested field id.
func (s *contentService) UpdateGroupItem(ctx context.Context, in UpdateGroupItemInput) (*RecordResult, error) {
	col, err := s.loadSchema(ctx, in.CollectionID)
	if err != nil {
		return nil, err
	}
	group, p, err := schema.ResolveFieldPath(col, in.Path)
	if err != nil {
		return nil, err
	}
	rec, err := s.loadRecord(ctx, in.CollectionID, in.RecordID)
	if err != nil {
		return nil, err
	}
	data := rec.Data()

	current, err := address.ReadAt(*data, p)
	if err != nil {
		return nil, err
	}

	var next document.Value
	switch p.Depth() {
	case 1:
		if current.Kind() != document.KindMapping {
			return nil, fmt.Errorf("%w: %q is a %s, not a mapping", content.ErrInvalidFieldStructure, p.String(), current.Kind())
		}
		next = current
		for _, f := range group.EditableFields() {
			next.Set(f.ID, suppliedOrEmpty(in.Values, &f))
		}
	default:
		nested, _ := group.Field(p.NestedFieldID())
		if !nested.Editable {
			return nil, fmt.Errorf("%w: %q in field %q", content.ErrFieldNotEditable, nested.ID, group.ID)
		}
		next = suppliedOrEmpty(in.Values, nested)
	}
	if err := address.WriteAt(data, p, next); err != nil {
		return nil, err
	}
	return s.commit(ctx, commitInput{
		op:           types.OperationUpdateGroupItem,
		collectionID: in.CollectionID,
		recordID:     in.RecordID,
		fieldPath:    p.String(),
		rec:          rec,
		values:       in.Values,
	})
}

// AppendGroupItem adds a new element to the end of a repeatable group. A nested
// field with no supplied value and the uuid default gets a fresh identifier.
func (s *contentService) AppendGroupItem(ctx context.Context, in AppendGroupItemInput) (*RecordResult, error) {
	col, err := s.loadSchema(ctx, in.CollectionID)
	if err != nil {
		return nil, err
	}
	group, err := schema.ResolveGroupField(col, in.FieldID)
	if err != nil {
		return nil, err
	}
	rec, err := s.loadRecord(ctx, in.CollectionID, in.RecordID)
	if err != nil {
		return nil, err
	}
	data := rec.Data()

	elem := document.Mapping()
	for i := range group.Fields {
		f := &group.Fields[i]
		if _, supplied := in.Values[f.ID]; !supplied && f.DefaultValue == schema.DefaultGenerateUUID {
			elem.Set(f.ID, document.String(s.newID()))
			continue
		}
		elem.Set(f.ID, suppliedOrEmpty(in.Values, f))
	}

	seq := data.Field(group.ID)
	switch {
	case seq == nil || seq.IsNull():
		data.Set(group.ID, document.Sequence(elem))
	case seq.Kind() == document.KindSequence:
		seq.Append(elem)
	default:
		return nil, fmt.Errorf("%w: %q is a %s, not a sequence", content.ErrInvalidFieldStructure, group.ID, seq.Kind())
	}

	// The generated values are part of what was committed.
	logged := Values{}
	for _, e := range elem.Entries() {
		logged[e.Key] = e.Value
	}
	return s.commit(ctx, commitInput{
		op:           types.OperationAppendGroupItem,
		collectionID: in.CollectionID,
		recordID:     in.RecordID,
		fieldPath:    group.ID,
		rec:          rec,
		values:       logged,
	})
}

// suppliedOrEmpty returns the supplied value for f. An absent value is an empty
// string, or an empty sequence for list-typed fields.
func suppliedOrEmpty(values Values, f *schema.FieldDef) document.Value {
	if v, ok := values[f.ID]; ok {
		return v
	}
	switch strings.ToLower(f.Type) {
	case "list", "array":
		return document.Sequence()
	default:
		return document.String("")
	}
}

type commitInput struct {
	op           string
	collectionID string
	recordID     string
	fieldPath    string
	rec          *recordFile
	values       Values
}

// commit encodes the record and issues the single conditional write. The revision
// presented is the one the record was fetched at; a stale revision is never refreshed.
func (s *contentService) commit(ctx context.Context, in commitInput) (*RecordResult, error) {
	raw, err := document.Encode(in.rec.Doc, in.rec.Format)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", in.rec.Path, err)
	}
	message := commitMessage(in)
	revision, err := s.store.WriteIfMatch(ctx, s.cfg.Repo, in.rec.Path, raw, in.rec.Revision, message)
	if err != nil {
		// A record deleted after it was fetched is a concurrent change too.
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("write record: %w: %s was removed", content.ErrConcurrentModification, in.rec.Path)
		}
		s.log.Warn("conditional write failed",
			"collection_id", in.collectionID,
			"record_id", in.recordID,
			"revision", in.rec.Revision,
			"error", err,
		)
		return nil, storeFailure("write record", err)
	}

	s.log.Info("record committed",
		"operation", in.op,
		"collection_id", in.collectionID,
		"record_id", in.recordID,
		"field_path", in.fieldPath,
		"previous_revision", in.rec.Revision,
		"revision", revision,
	)
	s.afterCommit(ctx, in, revision)

	return &RecordResult{
		CollectionID: in.collectionID,
		RecordID:     in.recordID,
		Path:         in.rec.Path,
		Revision:     revision,
		Data:         in.rec.Data().Clone(),
	}, nil
}

// afterCommit records history and publishes the change event. The write has
// already landed, so failures here are logged and never returned.
func (s *contentService) afterCommit(ctx context.Context, in commitInput, revision string) {
	actor := ctxutil.Actor(ctx)
	pctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), postCommitTimeout)
	defer cancel()

	if s.editLog != nil {
		entry := &types.EditLogEntry{
			Operation:        in.op,
			Repo:             s.cfg.Repo,
			CollectionID:     in.collectionID,
			RecordID:         in.recordID,
			FilePath:         in.rec.Path,
			FieldPath:        in.fieldPath,
			PreviousRevision: in.rec.Revision,
			Revision:         revision,
			Actor:            actor,
			Values:           valuesJSON(in.values),
		}
		if _, err := s.editLog.Create(dbctx.Context{Ctx: pctx}, []*types.EditLogEntry{entry}); err != nil {
			s.log.Warn("edit log write failed", "record_id", in.recordID, "revision", revision, "error", err)
		}
	}

	ev := realtime.RecordEvent{
		Event:        realtime.EventRecordUpdated,
		Operation:    in.op,
		Repo:         s.cfg.Repo,
		CollectionID: in.collectionID,
		RecordID:     in.recordID,
		FieldPath:    in.fieldPath,
		Revision:     revision,
		Actor:        actor,
		At:           time.Now().UTC(),
	}
	if err := s.events.Publish(pctx, ev); err != nil {
		s.log.Warn("record event publish failed", "record_id", in.recordID, "revision", revision, "error", err)
	}
}

func commitMessage(in commitInput) string {
	target := in.collectionID + "/" + in.recordID
	switch in.op {
	case types.OperationUpdateGroupItem:
		return fmt.Sprintf("Update %s (%s)", target, in.fieldPath)
	case types.OperationAppendGroupItem:
		return fmt.Sprintf("Add %s item to %s", in.fieldPath, target)
	default:
		return fmt.Sprintf("Update %s", target)
	}
}

func valuesJSON(values Values) datatypes.JSON {
	if len(values) == 0 {
		return nil
	}
	raw, err := json.Marshal(values)
	if err != nil {
		return nil
	}
	return datatypes.JSON(raw)
}
