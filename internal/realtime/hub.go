package realtime

import "sync"

// Hub tracks live websocket sessions grouped into per-user rooms plus a
// single admin broadcast room. It is process-local; the redis Bridge
// fans events across instances when more than one is running.
type Hub struct {
	mu        sync.RWMutex
	userRooms map[uint]map[*Session]struct{}
	adminRoom map[*Session]struct{}
}

// NewHub constructs an empty Hub.
func NewHub() *Hub {
	return &Hub{
		userRooms: make(map[uint]map[*Session]struct{}),
		adminRoom: make(map[*Session]struct{}),
	}
}

// JoinUserRoom registers a session in userID's room. Idempotent.
func (h *Hub) JoinUserRoom(s *Session, userID uint) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room, ok := h.userRooms[userID]
	if !ok {
		room = make(map[*Session]struct{})
		h.userRooms[userID] = room
	}
	room[s] = struct{}{}
	s.userID = userID
}

// JoinAdminRoom registers a session in the admin broadcast room.
// Idempotent.
func (h *Hub) JoinAdminRoom(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.adminRoom[s] = struct{}{}
	s.admin = true
}

// Leave removes a session from every room it joined and closes its send
// queue. Safe to call for sessions that never registered, and safe to
// call twice.
func (h *Hub) Leave(s *Session) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if room, ok := h.userRooms[s.userID]; ok {
		delete(room, s)
		if len(room) == 0 {
			delete(h.userRooms, s.userID)
		}
	}
	delete(h.adminRoom, s)
	s.closeOnce.Do(func() { close(s.send) })
}

// PushToUser delivers ev to every session in userID's room. A silent
// no-op when nobody is connected; slow sessions are skipped rather than
// blocking the producer.
func (h *Hub) PushToUser(userID uint, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.userRooms[userID] {
		s.enqueue(ev)
	}
}

// PushToAdmin broadcasts ev to every admin-room session.
func (h *Hub) PushToAdmin(ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for s := range h.adminRoom {
		s.enqueue(ev)
	}
}

// UserConnections reports how many sessions are in userID's room.
func (h *Hub) UserConnections(userID uint) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.userRooms[userID])
}
