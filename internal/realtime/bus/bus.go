package bus

import (
	"context"
	"fmt"
	"sync"

	"github.com/yungbote/minicms-backend/internal/realtime"
)

type Bus interface {
	Publish(ctx context.Context, ev realtime.RecordEvent) error
	StartForwarder(ctx context.Context, onEvent func(ev realtime.RecordEvent)) error
	Close() error
}

type noopBus struct{}

// NewNoopBus drops every event. Used when REDIS_ADDR is unset.
func NewNoopBus() Bus { return noopBus{} }

func (noopBus) Publish(context.Context, realtime.RecordEvent) error { return nil }
func (noopBus) StartForwarder(context.Context, func(realtime.RecordEvent)) error {
	return nil
}
func (noopBus) Close() error { return nil }

// memoryBusHistory bounds what Published can return.
const memoryBusHistory = 256

// MemoryBus delivers events synchronously to in-process forwarders. It backs the
// event stream when no Redis is configured.
type MemoryBus struct {
	mu        sync.Mutex
	published []realtime.RecordEvent
	handlers  []func(realtime.RecordEvent)
}

func NewMemoryBus() *MemoryBus { return &MemoryBus{} }

func (b *MemoryBus) Publish(_ context.Context, ev realtime.RecordEvent) error {
	b.mu.Lock()
	b.published = append(b.published, ev)
	if len(b.published) > memoryBusHistory {
		b.published = append([]realtime.RecordEvent(nil), b.published[len(b.published)-memoryBusHistory:]...)
	}
	handlers := append([]func(realtime.RecordEvent){}, b.handlers...)
	b.mu.Unlock()
	for _, h := range handlers {
		h(ev)
	}
	return nil
}

func (b *MemoryBus) StartForwarder(_ context.Context, onEvent func(ev realtime.RecordEvent)) error {
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.handlers = append(b.handlers, onEvent)
	return nil
}

// Published returns a copy of the most recent events, oldest first.
func (b *MemoryBus) Published() []realtime.RecordEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]realtime.RecordEvent{}, b.published...)
}

func (b *MemoryBus) Close() error { return nil }
