package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestNewMemoryModeServesSeededContent(t *testing.T) {
	dir := t.TempDir()
	mustWrite := func(rel, body string) {
		t.Helper()
		p := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatalf("write: %v", err)
		}
	}
	mustWrite("config.yml", "collections:\n  - id: posts\n    fields:\n      - id: title\n        editable: true\n")
	mustWrite("data/collections/posts/hello.yml", "data:\n  title: Hello\n")

	t.Setenv("LOG_MODE", "test")
	t.Setenv("STORE_MODE", "memory")
	t.Setenv("MEMORY_SEED_DIR", dir)
	t.Setenv("DATA_REPO", "local/site")
	t.Setenv("DB_DRIVER", "none")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("OTEL_ENABLED", "false")

	a, err := New(context.Background())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	defer a.Close()

	if a.Clients.GitHub != nil {
		t.Fatalf("memory mode must not build a GitHub client")
	}
	rec := httptest.NewRecorder()
	a.Router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/collections/posts/hello", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("GetRecord: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}

	stream := a.Hub.NewClient("")
	a.Hub.Subscribe(stream, "posts")
	defer a.Hub.CloseClient(stream)

	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/collections/posts/hello", strings.NewReader(`{"values":{"title":"Changed"}}`))
	req.Header.Set("Content-Type", "application/json")
	a.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("UpdateFields: want=200 got=%d body=%s", rec.Code, rec.Body.String())
	}
	select {
	case ev := <-stream.Outbound:
		if ev.RecordID != "hello" {
			t.Fatalf("streamed event record: want=hello got=%s", ev.RecordID)
		}
	case <-time.After(time.Second):
		t.Fatalf("committed write did not reach the record stream")
	}
}
