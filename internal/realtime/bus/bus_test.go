package bus

import (
	"context"
	"strconv"
	"testing"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime"
)

func TestMemoryBusDeliversToForwarders(t *testing.T) {
	b := NewMemoryBus()
	var got []string
	if err := b.StartForwarder(context.Background(), func(ev realtime.RecordEvent) {
		got = append(got, ev.RecordID)
	}); err != nil {
		t.Fatalf("StartForwarder: %v", err)
	}
	for _, id := range []string{"a", "b"} {
		if err := b.Publish(context.Background(), realtime.RecordEvent{Event: realtime.EventRecordUpdated, RecordID: id}); err != nil {
			t.Fatalf("Publish: %v", err)
		}
	}
	if len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("forwarded: want=[a b] got=%v", got)
	}
	if n := len(b.Published()); n != 2 {
		t.Fatalf("Published: want=2 got=%d", n)
	}
}

func TestNoopBus(t *testing.T) {
	b := NewNoopBus()
	if err := b.Publish(context.Background(), realtime.RecordEvent{}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if err := b.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestNewRedisBusValidatesConfig(t *testing.T) {
	if _, err := NewRedisBus(nil, RedisConfig{Addr: "localhost:6379"}); err == nil {
		t.Fatalf("NewRedisBus: want error for nil logger")
	}
	if _, err := NewRedisBus(logger.Nop(), RedisConfig{Addr: "  "}); err == nil {
		t.Fatalf("NewRedisBus: want error for missing addr")
	}
}

func TestMemoryBusBoundsHistory(t *testing.T) {
	b := NewMemoryBus()
	for i := 0; i < memoryBusHistory+10; i++ {
		_ = b.Publish(context.Background(), realtime.RecordEvent{Revision: strconv.Itoa(i)})
	}
	got := b.Published()
	if len(got) != memoryBusHistory {
		t.Fatalf("Published: want=%d got=%d", memoryBusHistory, len(got))
	}
	if got[0].Revision != "10" {
		t.Fatalf("oldest kept: want=10 got=%s", got[0].Revision)
	}
	if err := b.StartForwarder(context.Background(), nil); err == nil {
		t.Fatalf("StartForwarder: want error for nil callback")
	}
}

func TestRedisBusDecode(t *testing.T) {
	b := &redisBus{log: logger.Nop(), channel: "minicms.records"}
	ev, ok := b.decode(&goredis.Message{Channel: "minicms.records", Payload: `{"event":"record.updated","collection_id":"posts","record_id":"hello","revision":"abc"}`})
	if !ok || ev.CollectionID != "posts" || ev.Revision != "abc" {
		t.Fatalf("decode: ok=%v ev=%+v", ok, ev)
	}
	for _, payload := range []string{`not json`, `{"record_id":"hello"}`} {
		if _, ok := b.decode(&goredis.Message{Payload: payload}); ok {
			t.Fatalf("decode %q: want rejected", payload)
		}
	}
	if _, ok := b.decode(nil); ok {
		t.Fatalf("decode nil: want rejected")
	}
}
