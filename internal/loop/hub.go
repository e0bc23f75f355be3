package loop

import (
	"sync"
	"time"

	"github.com/tomz197/annakut/internal/config"
)

// EventType distinguishes hub events.
type EventType int

const (
	EventServerShutdown EventType = iota // Server is going down, disconnect soon
	EventTuning                          // A new tuning was loaded
)

// Event is sent from the hub to a session.
type Event struct {
	Type   EventType
	Tuning config.Tuning // Set for EventTuning
}

// Handle is a session's registration with the hub.
type Handle struct {
	ID     string
	Events chan Event
}

// Hub tracks the sessions of a server so they can be told about shutdowns
// and tuning reloads. Every session runs its own game; the hub shares no
// game state between them.
type Hub struct {
	mu       sync.RWMutex
	sessions map[string]*Handle
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{sessions: make(map[string]*Handle)}
}

// Register adds a session and returns its handle.
func (h *Hub) Register(id string) *Handle {
	handle := &Handle{
		ID:     id,
		Events: make(chan Event, 16),
	}
	h.mu.Lock()
	h.sessions[id] = handle
	h.mu.Unlock()
	return handle
}

// Unregister removes a session.
func (h *Hub) Unregister(id string) {
	h.mu.Lock()
	delete(h.sessions, id)
	h.mu.Unlock()
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast sends ev to every session. Sessions with a full queue miss it.
func (h *Hub) Broadcast(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, handle := range h.sessions {
		select {
		case handle.Events <- ev:
		default:
		}
	}
}

// Shutdown notifies every session and waits until all of them have
// unregistered or the timeout passes.
func (h *Hub) Shutdown(timeout time.Duration) {
	h.Broadcast(Event{Type: EventServerShutdown})

	// Wait for all sessions to disconnect, or timeout
	deadline := time.After(timeout)
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		if h.Len() == 0 {
			return
		}
		select {
		case <-deadline:
			return
		case <-ticker.C:
		}
	}
}
