package store

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"path"
	"sort"
	"strings"
	"sync"
)

// MemoryStore is an in-process ContentStore. Revisions are git blob SHAs of the
// content, so they match what GitHub would report for the same bytes.
type MemoryStore struct {
	mu    sync.Mutex
	repos map[string]map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{repos: map[string]map[string][]byte{}}
}

// Put writes unconditionally, for seeding fixtures.
func (m *MemoryStore) Put(repo, p string, content []byte) string {
	m.mu.Lock()
	defer m.mu.Unlock()
	files := m.repos[repo]
	if files == nil {
		files = map[string][]byte{}
		m.repos[repo] = files
	}
	files[clean(p)] = append([]byte(nil), content...)
	return BlobSHA(content)
}

// Remove deletes a file. It reports whether the file existed.
func (m *MemoryStore) Remove(repo, p string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.repos[repo][clean(p)]; !ok {
		return false
	}
	delete(m.repos[repo], clean(p))
	return true
}

func (m *MemoryStore) Fetch(ctx context.Context, repo, p string) (*Blob, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.repos[repo][clean(p)]
	if !ok {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	return &Blob{Path: clean(p), Content: append([]byte(nil), raw...), Revision: BlobSHA(raw)}, nil
}

func (m *MemoryStore) WriteIfMatch(ctx context.Context, repo, p string, content []byte, expectedRevision, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	files := m.repos[repo]
	current, ok := files[clean(p)]
	if !ok {
		return "", fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	if BlobSHA(current) != expectedRevision {
		return "", fmt.Errorf("%s: %w", p, ErrRevisionMismatch)
	}
	files[clean(p)] = append([]byte(nil), content...)
	return BlobSHA(content), nil
}

func (m *MemoryStore) ListDirectory(ctx context.Context, repo, p string) ([]Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	dir := clean(p)
	prefix := dir + "/"
	if dir == "" {
		prefix = ""
	}
	seen := map[string]EntryType{}
	for name := range m.repos[repo] {
		if !strings.HasPrefix(name, prefix) {
			continue
		}
		rest := strings.TrimPrefix(name, prefix)
		if head, _, nested := strings.Cut(rest, "/"); nested {
			seen[head] = EntryDir
		} else {
			seen[rest] = EntryFile
		}
	}
	if len(seen) == 0 {
		return nil, fmt.Errorf("%s: %w", p, ErrNotFound)
	}
	out := make([]Entry, 0, len(seen))
	for name, typ := range seen {
		out = append(out, Entry{Name: name, Path: path.Join(dir, name), Type: typ})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// BlobSHA is git's object id for a blob with the given content.
func BlobSHA(content []byte) string {
	h := sha1.New()
	fmt.Fprintf(h, "blob %d\x00", len(content))
	h.Write(content)
	return hex.EncodeToString(h.Sum(nil))
}

func clean(p string) string {
	return strings.Trim(path.Clean("/"+p), "/")
}
