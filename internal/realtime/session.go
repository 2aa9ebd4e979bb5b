package realtime

import (
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

const (
	// writeWait bounds how long a single websocket write may take.
	writeWait = 5 * time.Second
	// pongWait is how long we wait for a pong before assuming the peer
	// is gone.
	pongWait = 60 * time.Second
	// pingPeriod must be shorter than pongWait.
	pingPeriod = 50 * time.Second
	// sendBuffer is the per-session event queue; events beyond it are
	// dropped because clients recover via the pull API.
	sendBuffer = 16
)

// Session is one live websocket connection registered with the Hub.
type Session struct {
	ID   string
	conn *websocket.Conn
	send chan Event

	userID    uint
	admin     bool
	closeOnce sync.Once
}

// NewSession wraps an upgraded websocket connection.
func NewSession(conn *websocket.Conn) *Session {
	return &Session{
		ID:   uuid.NewString(),
		conn: conn,
		send: make(chan Event, sendBuffer),
	}
}

// enqueue hands an event to the session's writer without blocking. A
// full queue means the client is too slow; the event is dropped.
func (s *Session) enqueue(ev Event) {
	select {
	case s.send <- ev:
	default:
	}
}

// WritePump drains the send queue onto the wire and keeps the
// connection alive with pings. Run as a goroutine; returns when the
// session leaves the hub or the connection breaks.
func (s *Session) WritePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		s.conn.Close()
	}()

	for {
		select {
		case ev, ok := <-s.send:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				s.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := s.conn.WriteJSON(ev); err != nil {
				log.Printf("realtime: write to session %s failed: %v", s.ID, err)
				return
			}
		case <-ticker.C:
			s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// ReadPump consumes (and discards) client frames so pongs and close
// frames are processed. Blocks until the connection drops; the caller
// is expected to hub.Leave afterwards.
func (s *Session) ReadPump() {
	defer s.conn.Close()
	s.conn.SetReadLimit(512)
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
