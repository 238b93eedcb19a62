// Package store defines the remote content store the content service reads and
// conditionally writes through.
package store

import (
	"context"
	"errors"
)

var (
	// ErrNotFound indicates the path does not exist in the repository.
	ErrNotFound = errors.New("not found")
	// ErrRevisionMismatch indicates the expected revision is stale.
	ErrRevisionMismatch = errors.New("revision mismatch")
)

// Blob is a file's bytes and the revision token (git blob SHA) they were read at.
type Blob struct {
	Path     string
	Content  []byte
	Revision string
}

type EntryType string

const (
	EntryFile EntryType = "file"
	EntryDir  EntryType = "dir"
)

type Entry struct {
	Name string    `json:"name"`
	Path string    `json:"path"`
	Type EntryType `json:"type"`
}

// ContentStore is a repository of files with compare-and-swap writes.
//
// WriteIfMatch must either persist content completely or not at all, and must fail
// with ErrRevisionMismatch when expectedRevision is not the current revision.
type ContentStore interface {
	Fetch(ctx context.Context, repo, path string) (*Blob, error)
	WriteIfMatch(ctx context.Context, repo, path string, content []byte, expectedRevision, message string) (string, error)
	ListDirectory(ctx context.Context, repo, path string) ([]Entry, error)
}
