package room

import (
	"sync"
)

// Hub is the room registry: group id to the set of connections currently
// listening. It is authoritative only for who is live right now, never
// for durable membership.
type Hub struct {
	mu    sync.RWMutex
	rooms map[uint]map[*Client]struct{}
}

func NewHub() *Hub {
	return &Hub{rooms: make(map[uint]map[*Client]struct{})}
}

func (h *Hub) Register(groupID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.rooms[groupID] == nil {
		h.rooms[groupID] = make(map[*Client]struct{})
	}
	h.rooms[groupID][c] = struct{}{}
}

func (h *Hub) Unregister(groupID uint, c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.rooms[groupID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.rooms, groupID)
		}
	}
}

// Members snapshots the room under the read lock so a broadcast always
// sees a consistent set, regardless of concurrent joins and leaves.
func (h *Hub) Members(groupID uint) []*Client {
	h.mu.RLock()
	defer h.mu.RUnlock()
	conns := h.rooms[groupID]
	members := make([]*Client, 0, len(conns))
	for c := range conns {
		members = append(members, c)
	}
	return members
}

// Broadcast publishes one event to every connection in the room. The
// payload is marshalled once. Connections whose buffers are full are
// dropped from the room; their pumps tear the socket down.
func (h *Hub) Broadcast(groupID uint, event string, payload any) {
	msg, err := marshalEvent(event, payload)
	if err != nil {
		return
	}

	var stale []*Client
	for _, c := range h.Members(groupID) {
		if !c.enqueue(msg) {
			stale = append(stale, c)
		}
	}
	for _, c := range stale {
		h.Unregister(groupID, c)
		c.close()
	}
}

// DropAll closes every registered connection, for shutdown.
func (h *Hub) DropAll() {
	h.mu.Lock()
	clients := make(map[*Client]struct{})
	for _, conns := range h.rooms {
		for c := range conns {
			clients[c] = struct{}{}
		}
	}
	h.rooms = make(map[uint]map[*Client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.close()
	}
}
