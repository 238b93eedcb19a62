package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestSeedFromDir(t *testing.T) {
	dir := t.TempDir()
	write := func(rel, body string) {
		t.Helper()
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	write("config.yml", "collections: []\n")
	write("data/collections/posts/hello.yml", "data: {}\n")
	write(".git/HEAD", "ref: refs/heads/main\n")

	ms := NewMemoryStore()
	n, err := ms.SeedFromDir("acme/site", dir)
	if err != nil {
		t.Fatalf("SeedFromDir: %v", err)
	}
	if n != 2 {
		t.Fatalf("SeedFromDir: want=2 got=%d", n)
	}
	blob, err := ms.Fetch(context.Background(), "acme/site", "data/collections/posts/hello.yml")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if blob.Revision != BlobSHA([]byte("data: {}\n")) {
		t.Fatalf("revision: got=%s", blob.Revision)
	}
	if _, err := ms.Fetch(context.Background(), "acme/site", ".git/HEAD"); err == nil {
		t.Fatalf("hidden file seeded")
	}
}
