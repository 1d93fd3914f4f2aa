package api

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
)

// Profile event types
const (
	EventProfileCreated = "profile_created"
	EventProfileDeleted = "profile_deleted"
	EventProfileFailed  = "profile_failed"
)

const keepAliveInterval = 30 * time.Second

// ProfileEvent is one profile lifecycle notification streamed over SSE
type ProfileEvent struct {
	EventType string    `json:"event_type"`
	ProfileID string    `json:"profile_id,omitempty"`
	FileName  string    `json:"file_name,omitempty"`
	Code      string    `json:"code,omitempty"`
	Message   string    `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// EventHub fans profile events out to connected SSE clients
type EventHub struct {
	clients    map[chan ProfileEvent]bool
	clientsMu  sync.RWMutex
	register   chan chan ProfileEvent
	unregister chan chan ProfileEvent
	broadcast  chan ProfileEvent
	done       chan struct{}
	closeOnce  sync.Once
}

// NewEventHub creates a hub and starts its dispatch loop
func NewEventHub() *EventHub {
	hub := &EventHub{
		clients:    make(map[chan ProfileEvent]bool),
		register:   make(chan chan ProfileEvent, 10),
		unregister: make(chan chan ProfileEvent, 10),
		broadcast:  make(chan ProfileEvent, 100),
		done:       make(chan struct{}),
	}

	go hub.run()
	return hub
}

// run processes hub operations until Close
func (h *EventHub) run() {
	for {
		select {
		case client := <-h.register:
			h.clientsMu.Lock()
			h.clients[client] = true
			log.Printf("[SSE] Client registered (total clients: %d)", len(h.clients))
			h.clientsMu.Unlock()

		case client := <-h.unregister:
			h.clientsMu.Lock()
			if h.clients[client] {
				delete(h.clients, client)
				close(client)
				log.Printf("[SSE] Client unregistered (remaining clients: %d)", len(h.clients))
			}
			h.clientsMu.Unlock()

		case event := <-h.broadcast:
			h.clientsMu.RLock()
			for client := range h.clients {
				select {
				case client <- event:
				default:
					log.Printf("[SSE] Client channel full, skipping %s event", event.EventType)
				}
			}
			h.clientsMu.RUnlock()

		case <-h.done:
			h.clientsMu.Lock()
			for client := range h.clients {
				close(client)
			}
			h.clients = make(map[chan ProfileEvent]bool)
			h.clientsMu.Unlock()
			return
		}
	}
}

// Close stops the dispatch loop and disconnects every client
func (h *EventHub) Close() {
	h.closeOnce.Do(func() { close(h.done) })
}

// Broadcast queues an event for every connected client. Events are dropped
// when the queue is full.
func (h *EventHub) Broadcast(event ProfileEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	select {
	case h.broadcast <- event:
	default:
		log.Printf("[SSE] Broadcast channel full, dropping event: %s", event.EventType)
	}
}

// Subscribe registers a new client channel
func (h *EventHub) Subscribe() chan ProfileEvent {
	client := make(chan ProfileEvent, 10)
	h.register <- client
	return client
}

// Unsubscribe removes a client channel and closes it
func (h *EventHub) Unsubscribe(client chan ProfileEvent) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

// ClientCount returns the number of connected clients
func (h *EventHub) ClientCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// HandleSSE streams profile events until the client disconnects
func (h *EventHub) HandleSSE(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Status(http.StatusOK)
	c.Writer.Flush()

	client := h.Subscribe()
	defer h.Unsubscribe(client)

	ctx := c.Request.Context()
	c.Stream(func(w io.Writer) bool {
		select {
		case event, ok := <-client:
			if !ok {
				return false
			}
			eventJSON, err := json.Marshal(event)
			if err != nil {
				log.Printf("[SSE] Failed to marshal event: %v", err)
				return true
			}
			c.SSEvent("profile", string(eventJSON))
			return true

		case <-time.After(keepAliveInterval):
			c.SSEvent("ping", `{"status": "alive", "timestamp": "`+time.Now().Format(time.RFC3339)+`"}`)
			return true

		case <-ctx.Done():
			return false
		}
	})
}
