package realtime

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/minicms-backend/internal/platform/logger"
)

const (
	clientBuffer     = 16
	defaultHeartbeat = 15 * time.Second
)

// Client is one open event stream. Channels are collection ids.
type Client struct {
	ID       uuid.UUID
	Actor    string
	Channels map[string]bool
	Outbound chan RecordEvent

	done      chan struct{}
	closeOnce sync.Once
}

// Hub fans record events out to the stream clients subscribed to their collection.
type Hub struct {
	mu            sync.RWMutex
	log           *logger.Logger
	subscriptions map[string]map[*Client]bool
	clients       map[*Client]bool

	Heartbeat time.Duration
}

func NewHub(log *logger.Logger) *Hub {
	return &Hub{
		log:           log.With("component", "RecordHub"),
		subscriptions: make(map[string]map[*Client]bool),
		clients:       make(map[*Client]bool),
		Heartbeat:     defaultHeartbeat,
	}
}

func (h *Hub) NewClient(actor string) *Client {
	c := &Client{
		ID:       uuid.New(),
		Actor:    actor,
		Channels: make(map[string]bool),
		Outbound: make(chan RecordEvent, clientBuffer),
		done:     make(chan struct{}),
	}
	h.mu.Lock()
	h.clients[c] = true
	h.mu.Unlock()
	return c
}

func (h *Hub) Subscribe(c *Client, channel string) {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return
	}
	h.mu.Lock()
	defer h.mu.Unlock()

	c.Channels[channel] = true
	subs, ok := h.subscriptions[channel]
	if !ok {
		subs = make(map[*Client]bool)
		h.subscriptions[channel] = subs
	}
	subs[c] = true
	h.log.Debug("Stream client subscribed", "client_id", c.ID, "channel", channel)
}

// Subscribers is the number of clients currently listening on channel.
func (h *Hub) Subscribers(channel string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscriptions[channel])
}

// Broadcast routes ev to the subscribers of its collection. A client whose buffer
// is full misses the event.
func (h *Hub) Broadcast(ev RecordEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for c := range h.subscriptions[ev.CollectionID] {
		select {
		case c.Outbound <- ev:
		default:
			h.log.Warn("Dropping record event; outbound buffer full",
				"client_id", c.ID,
				"collection_id", ev.CollectionID,
				"record_id", ev.RecordID,
			)
		}
	}
}

// ServeHTTP streams events to c as server-sent events until the request ends or
// the client is closed.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request, c *Client) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	interval := h.Heartbeat
	if interval <= 0 {
		interval = defaultHeartbeat
	}
	heartbeat := time.NewTicker(interval)
	defer heartbeat.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			h.log.Debug("Stream client gone", "client_id", c.ID, "error", ctx.Err())
			return
		case <-c.done:
			return
		case <-heartbeat.C:
			_, _ = fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev, ok := <-c.Outbound:
			if !ok {
				return
			}
			raw, err := json.Marshal(ev)
			if err != nil {
				h.log.Warn("Failed to marshal record event", "error", err)
				continue
			}
			_, _ = fmt.Fprintf(w, "event: %s\nid: %s\ndata: %s\n\n", ev.Event, ev.Revision, raw)
			flusher.Flush()
		}
	}
}

// CloseClient unsubscribes c and ends its stream. It is safe to call more than once.
func (h *Hub) CloseClient(c *Client) {
	c.closeOnce.Do(func() {
		close(c.done)
		h.mu.Lock()
		for ch := range c.Channels {
			if subs, ok := h.subscriptions[ch]; ok {
				delete(subs, c)
				if len(subs) == 0 {
					delete(h.subscriptions, ch)
				}
			}
		}
		c.Channels = make(map[string]bool)
		delete(h.clients, c)
		h.mu.Unlock()
		close(c.Outbound)
	})
}

// CloseAll ends every open stream, for server shutdown.
func (h *Hub) CloseAll() {
	h.mu.RLock()
	open := make([]*Client, 0, len(h.clients))
	for c := range h.clients {
		open = append(open, c)
	}
	h.mu.RUnlock()
	for _, c := range open {
		h.CloseClient(c)
	}
}
