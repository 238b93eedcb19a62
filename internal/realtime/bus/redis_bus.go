package bus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/minicms-backend/internal/platform/logger"
	"github.com/yungbote/minicms-backend/internal/realtime"
)

type RedisConfig struct {
	Addr    string
	Channel string
}

type redisBus struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewRedisBus(log *logger.Logger, cfg RedisConfig) (Bus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	ch := strings.TrimSpace(cfg.Channel)
	if ch == "" {
		ch = "minicms.records"
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisBus{
		log:     log.With("service", "RedisRecordBus"),
		rdb:     rdb,
		channel: ch,
	}, nil
}

func (b *redisBus) Publish(ctx context.Context, ev realtime.RecordEvent) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis record bus not initialized")
	}
	raw, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes to the record channel and hands every decoded event to
// onEvent until ctx ends. Events published by this process arrive here too.
func (b *redisBus) StartForwarder(ctx context.Context, onEvent func(ev realtime.RecordEvent)) error {
	if b == nil || b.rdb == nil {
		return fmt.Errorf("redis record bus not initialized")
	}
	if onEvent == nil {
		return fmt.Errorf("onEvent callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe %s: %w", b.channel, err)
	}
	b.log.Info("Record forwarder subscribed", "channel", b.channel)

	go func() {
		defer func() { _ = sub.Close() }()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case m, ok := <-msgs:
				if !ok {
					b.log.Warn("Record forwarder channel closed", "channel", b.channel)
					return
				}
				if ev, ok := b.decode(m); ok {
					onEvent(ev)
				}
			}
		}
	}()
	return nil
}

func (b *redisBus) decode(m *goredis.Message) (realtime.RecordEvent, bool) {
	var ev realtime.RecordEvent
	if m == nil {
		return ev, false
	}
	if err := json.Unmarshal([]byte(m.Payload), &ev); err != nil {
		b.log.Warn("Bad record event payload", "channel", m.Channel, "error", err)
		return ev, false
	}
	if ev.CollectionID == "" {
		b.log.Warn("Record event without collection", "channel", m.Channel, "record_id", ev.RecordID)
		return ev, false
	}
	return ev, true
}

func (b *redisBus) Close() error {
	if b == nil || b.rdb == nil {
		return nil
	}
	return b.rdb.Close()
}
