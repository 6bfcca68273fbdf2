package ws

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/google/uuid"

	"github.com/zwinglabs/support-chat/internal/domain/chat"
)

// Envelope is the frame exchanged over the websocket.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks which connections are subscribed to which rooms and fans events
// out to them. It is the live delivery half of the chat domain; persistence
// stays in the service.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[uuid.UUID]map[*Client]struct{}
	logger *slog.Logger
}

// NewHub constructs the hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[uuid.UUID]map[*Client]struct{}),
		logger: logger.With("component", "ws.hub"),
	}
}

// Broadcast delivers the event to every connection in the room. Slow clients
// are dropped rather than allowed to stall the fan-out.
func (h *Hub) Broadcast(roomID uuid.UUID, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.logger.Error("encode broadcast payload", "event", event, "error", err)
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		h.logger.Error("encode broadcast frame", "event", event, "error", err)
		return
	}

	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		subscribers = append(subscribers, c)
	}
	h.mu.RUnlock()

	for _, c := range subscribers {
		select {
		case c.send <- frame:
		default:
			h.logger.Warn("dropping slow websocket client", "room_id", roomID)
			c.close()
		}
	}
}

// BroadcastExcept behaves like Broadcast but skips one connection, used for
// typing notifications so the typist does not echo to themselves.
func (h *Hub) BroadcastExcept(roomID uuid.UUID, skip *Client, event string, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	frame, err := json.Marshal(Envelope{Event: event, Data: data})
	if err != nil {
		return
	}
	h.mu.RLock()
	subscribers := make([]*Client, 0, len(h.rooms[roomID]))
	for c := range h.rooms[roomID] {
		if c != skip {
			subscribers = append(subscribers, c)
		}
	}
	h.mu.RUnlock()
	for _, c := range subscribers {
		select {
		case c.send <- frame:
		default:
			c.close()
		}
	}
}

func (h *Hub) join(roomID uuid.UUID, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[roomID] == nil {
		h.rooms[roomID] = make(map[*Client]struct{})
	}
	h.rooms[roomID][c] = struct{}{}
}

func (h *Hub) leaveAll(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for roomID, members := range h.rooms {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// RoomSize reports how many connections are subscribed to a room.
func (h *Hub) RoomSize(roomID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[roomID])
}

var _ chat.Broadcaster = (*Hub)(nil)
