package handlers

import (
	"bufio"
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime"
	"github.com/yungbote/minicms-backend/internal/realtime/bus"
	"github.com/yungbote/minicms-backend/internal/services"
)

func TestStreamCollectionReceivesCommittedWrites(t *testing.T) {
	gin.SetMode(gin.TestMode)
	_, ms := newContentRouter(t)

	events := bus.NewMemoryBus()
	hub := realtime.NewHub(logger.Nop())
	if err := events.StartForwarder(context.Background(), hub.Broadcast); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	svc := services.NewContentService(logger.Nop(), services.ContentConfig{Repo: handlerRepo}, ms, nil, events)

	r := gin.New()
	r.GET("/events/:collection_id", NewRealtimeHandler(logger.Nop(), hub).StreamCollection)
	srv := httptest.NewServer(r)
	defer srv.Close()
	defer hub.CloseAll()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/events/posts", nil)
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /events/posts: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status: want=200 got=%d", resp.StatusCode)
	}
	if n := hub.Subscribers("posts"); n != 1 {
		t.Fatalf("Subscribers: want=1 got=%d", n)
	}

	rec, err := svc.UpdateFields(ctx, services.UpdateFieldsInput{
		CollectionID: "posts",
		RecordID:     "hello",
		Values:       services.Values{},
	})
	if err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}

	sc := bufio.NewScanner(resp.Body)
	var event, id, data string
	for sc.Scan() {
		line := sc.Text()
		switch {
		case strings.HasPrefix(line, "event: "):
			event = strings.TrimPrefix(line, "event: ")
		case strings.HasPrefix(line, "id: "):
			id = strings.TrimPrefix(line, "id: ")
		case strings.HasPrefix(line, "data: "):
			data = strings.TrimPrefix(line, "data: ")
		}
		if data != "" {
			break
		}
	}
	if event != realtime.EventRecordUpdated {
		t.Fatalf("event: want=%s got=%q", realtime.EventRecordUpdated, event)
	}
	if id != rec.Revision {
		t.Fatalf("id: want=%s got=%s", rec.Revision, id)
	}
	if !strings.Contains(data, `"record_id":"hello"`) {
		t.Fatalf("data: got=%q", data)
	}
}
