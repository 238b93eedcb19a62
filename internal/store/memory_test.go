package store

import (
	"context"
	"errors"
	"sync"
	"testing"
)

func TestBlobSHAMatchesGit(t *testing.T) {
	// git hash-object of "hello\n"
	if got := BlobSHA([]byte("hello\n")); got != "ce013625030ba8dba906f756967f9e9ca394464a" {
		t.Fatalf("BlobSHA: got=%s", got)
	}
	// git's empty blob
	if got := BlobSHA(nil); got != "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391" {
		t.Fatalf("BlobSHA empty: got=%s", got)
	}
}

func TestMemoryStoreFetchWrite(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	rev0 := m.Put("acme/site", "/data/collections/posts/hello.yml", []byte("data:\n  title: Old\n"))

	blob, err := m.Fetch(ctx, "acme/site", "data/collections/posts/hello.yml")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if blob.Revision != rev0 {
		t.Fatalf("revision: want=%s got=%s", rev0, blob.Revision)
	}

	rev1, err := m.WriteIfMatch(ctx, "acme/site", "data/collections/posts/hello.yml", []byte("data:\n  title: New\n"), rev0, "update")
	if err != nil {
		t.Fatalf("WriteIfMatch: %v", err)
	}
	if rev1 == rev0 {
		t.Fatalf("revision did not advance")
	}

	_, err = m.WriteIfMatch(ctx, "acme/site", "data/collections/posts/hello.yml", []byte("stale"), rev0, "update")
	if !errors.Is(err, ErrRevisionMismatch) {
		t.Fatalf("stale write: want ErrRevisionMismatch got=%v", err)
	}
	blob, _ = m.Fetch(ctx, "acme/site", "data/collections/posts/hello.yml")
	if string(blob.Content) != "data:\n  title: New\n" {
		t.Fatalf("stale write changed content: %q", blob.Content)
	}

	if _, err := m.Fetch(ctx, "acme/site", "nope.yml"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Fetch missing: want ErrNotFound got=%v", err)
	}
	if _, err := m.WriteIfMatch(ctx, "acme/site", "nope.yml", nil, rev0, "x"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Write missing: want ErrNotFound got=%v", err)
	}
}

func TestMemoryStoreRemove(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	rev := m.Put("acme/site", "a.yml", []byte("x: 1\n"))
	if !m.Remove("acme/site", "/a.yml") {
		t.Fatalf("Remove: want=true got=false")
	}
	if m.Remove("acme/site", "a.yml") {
		t.Fatalf("Remove twice: want=false got=true")
	}
	if _, err := m.WriteIfMatch(ctx, "acme/site", "a.yml", []byte("x: 2\n"), rev, "update"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("write after remove: want ErrNotFound got=%v", err)
	}
}

func TestMemoryStoreConcurrentWritersOneWins(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	rev0 := m.Put("r", "f.yml", []byte("v: 0\n"))

	const writers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	wins, conflicts := 0, 0
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := m.WriteIfMatch(ctx, "r", "f.yml", []byte{byte('a' + i)}, rev0, "x")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				wins++
			case errors.Is(err, ErrRevisionMismatch):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}(i)
	}
	wg.Wait()
	if wins != 1 || conflicts != writers-1 {
		t.Fatalf("want 1 winner and %d conflicts, got wins=%d conflicts=%d", writers-1, wins, conflicts)
	}
}

func TestMemoryStoreListDirectory(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	m.Put("r", "data/collections/posts/b.yml", nil)
	m.Put("r", "data/collections/posts/a.yaml", nil)
	m.Put("r", "data/collections/posts/drafts/c.yml", nil)

	entries, err := m.ListDirectory(ctx, "r", "/data/collections/posts/")
	if err != nil {
		t.Fatalf("ListDirectory: %v", err)
	}
	want := []Entry{
		{Name: "a.yaml", Path: "data/collections/posts/a.yaml", Type: EntryFile},
		{Name: "b.yml", Path: "data/collections/posts/b.yml", Type: EntryFile},
		{Name: "drafts", Path: "data/collections/posts/drafts", Type: EntryDir},
	}
	if len(entries) != len(want) {
		t.Fatalf("entries: want=%v got=%v", want, entries)
	}
	for i := range want {
		if entries[i] != want[i] {
			t.Fatalf("entry %d: want=%v got=%v", i, want[i], entries[i])
		}
	}

	if _, err := m.ListDirectory(ctx, "r", "data/collections/pages"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("missing dir: want ErrNotFound got=%v", err)
	}
}
