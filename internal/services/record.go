package services

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/yungbote/minicms-backend/internal/content"
	"github.com/yungbote/minicms-backend/internal/content/document"
	"github.com/yungbote/minicms-backend/internal/content/schema"
	"github.com/yungbote/minicms-backend/internal/store"
)

const recordDataKey = "data"

var recordExtensions = []string{".yml", ".yaml"}

// recordFile is one fetched record: the whole document, its data mapping, and the
// revision it was read at. It is never reused across two writes.
type recordFile struct {
	Path     string
	Format   document.Format
	Revision string
	Doc      document.Value
}

// Data returns a pointer into Doc so edits land in the document that gets encoded.
func (r *recordFile) Data() *document.Value { return r.Doc.Field(recordDataKey) }

func isRecordName(name string) bool {
	for _, ext := range recordExtensions {
		if strings.HasSuffix(name, ext) && len(name) > len(ext) {
			return true
		}
	}
	return false
}

func recordIDFromName(name string) string {
	for _, ext := range recordExtensions {
		if strings.HasSuffix(name, ext) {
			return strings.TrimSuffix(name, ext)
		}
	}
	return name
}

func validID(id string) bool {
	id = strings.TrimSpace(id)
	return id != "" && id != "." && id != ".." && !strings.ContainsAny(id, `/\`)
}

func (s *contentService) collectionDir(collectionID string) string {
	return path.Join(s.cfg.CollectionsRoot, collectionID)
}

func (s *contentService) loadSchema(ctx context.Context, collectionID string) (*schema.CollectionSchema, error) {
	blob, err := s.store.Fetch(ctx, s.cfg.Repo, s.cfg.ConfigPath)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s is missing", content.ErrCollectionNotFound, s.cfg.ConfigPath)
		}
		return nil, storeFailure("fetch config", err)
	}
	cfg, err := schema.LoadConfig(blob.Content)
	if err != nil {
		return nil, err
	}
	return schema.ResolveCollection(cfg, collectionID)
}

// loadRecord fetches <root>/<collection>/<id>.yml, falling back to .yaml.
func (s *contentService) loadRecord(ctx context.Context, collectionID, recordID string) (*recordFile, error) {
	if !validID(recordID) {
		return nil, fmt.Errorf("%w: invalid record id %q", content.ErrRecordNotFound, recordID)
	}
	var lastErr error
	for _, ext := range recordExtensions {
		p := path.Join(s.collectionDir(collectionID), recordID+ext)
		blob, err := s.store.Fetch(ctx, s.cfg.Repo, p)
		if errors.Is(err, store.ErrNotFound) {
			lastErr = err
			continue
		}
		if err != nil {
			return nil, storeFailure("fetch record", err)
		}
		return parseRecord(p, blob)
	}
	return nil, fmt.Errorf("%w: %s/%s (%v)", content.ErrRecordNotFound, collectionID, recordID, lastErr)
}

func parseRecord(p string, blob *store.Blob) (*recordFile, error) {
	format := document.FormatForPath(p)
	doc, err := document.Decode(blob.Content, format)
	if err != nil {
		return nil, fmt.Errorf("record %s: %w", p, err)
	}
	switch doc.Kind() {
	case document.KindNull:
		doc = document.Mapping()
	case document.KindMapping:
	default:
		return nil, fmt.Errorf("%w: record %s is a %s, not a mapping", content.ErrMalformedDocument, p, doc.Kind())
	}
	data := doc.Field(recordDataKey)
	if data == nil || data.IsNull() {
		doc.Set(recordDataKey, document.Mapping())
	} else if data.Kind() != document.KindMapping {
		return nil, fmt.Errorf("%w: record %s: %q is a %s, not a mapping",
			content.ErrMalformedDocument, p, recordDataKey, data.Kind())
	}
	return &recordFile{Path: p, Format: format, Revision: blob.Revision, Doc: doc}, nil
}

// storeFailure maps store contract errors onto the content taxonomy. Context
// errors stay in the chain so callers can still tell a disconnect apart.
func storeFailure(op string, err error) error {
	switch {
	case errors.Is(err, store.ErrRevisionMismatch):
		return fmt.Errorf("%s: %w: %w", op, content.ErrConcurrentModification, err)
	case errors.Is(err, store.ErrNotFound):
		return fmt.Errorf("%s: %w: %w", op, content.ErrRecordNotFound, err)
	default:
		return fmt.Errorf("%s: %w: %w", op, content.ErrStoreUnavailable, err)
	}
}
