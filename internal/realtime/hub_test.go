package realtime

import (
	"testing"
	"time"
)

func newTestSession() *Session {
	// No websocket conn: the pumps never run, events are read straight
	// off the send queue.
	return NewSession(nil)
}

func drain(t *testing.T, s *Session) []Event {
	t.Helper()
	var events []Event
	for {
		select {
		case ev, ok := <-s.send:
			if !ok {
				return events
			}
			events = append(events, ev)
		default:
			return events
		}
	}
}

func TestPushToUserReachesOnlyThatRoom(t *testing.T) {
	hub := NewHub()
	alice := newTestSession()
	bob := newTestSession()
	hub.JoinUserRoom(alice, 1)
	hub.JoinUserRoom(bob, 2)

	hub.PushToUser(1, Event{Type: EventNewNotification})

	if got := drain(t, alice); len(got) != 1 {
		t.Errorf("expected 1 event for alice, got %d", len(got))
	}
	if got := drain(t, bob); len(got) != 0 {
		t.Errorf("expected no events for bob, got %d", len(got))
	}
}

func TestPushToEmptyRoomIsSilentNoOp(t *testing.T) {
	hub := NewHub()

	done := make(chan struct{})
	go func() {
		hub.PushToUser(42, Event{Type: EventNewNotification})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push to an empty room blocked")
	}
}

func TestJoinIsIdempotent(t *testing.T) {
	hub := NewHub()
	s := newTestSession()
	hub.JoinUserRoom(s, 1)
	hub.JoinUserRoom(s, 1)

	if got := hub.UserConnections(1); got != 1 {
		t.Errorf("expected 1 connection after double join, got %d", got)
	}

	hub.PushToUser(1, Event{Type: EventUnreadTotalUpdated})
	if got := drain(t, s); len(got) != 1 {
		t.Errorf("expected exactly 1 event after double join, got %d", len(got))
	}
}

func TestLeaveIsSafeForStrangersAndRepeatCalls(t *testing.T) {
	hub := NewHub()

	stranger := newTestSession()
	hub.Leave(stranger) // never joined

	s := newTestSession()
	hub.JoinUserRoom(s, 1)
	hub.JoinAdminRoom(s)
	hub.Leave(s)
	hub.Leave(s) // second leave must not panic on a closed channel

	if got := hub.UserConnections(1); got != 0 {
		t.Errorf("expected empty room after leave, got %d connections", got)
	}

	done := make(chan struct{})
	go func() {
		hub.PushToUser(1, Event{Type: EventNewNotification})
		hub.PushToAdmin(Event{Type: EventNewNotification})
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push after leave blocked")
	}
}

func TestPushToAdminBroadcastsToAllMembers(t *testing.T) {
	hub := NewHub()
	mod1 := newTestSession()
	mod2 := newTestSession()
	user := newTestSession()
	hub.JoinAdminRoom(mod1)
	hub.JoinAdminRoom(mod2)
	hub.JoinUserRoom(user, 7)

	hub.PushToAdmin(Event{Type: EventNewNotification})

	for i, s := range []*Session{mod1, mod2} {
		if got := drain(t, s); len(got) != 1 {
			t.Errorf("expected 1 event for moderator %d, got %d", i+1, len(got))
		}
	}
	if got := drain(t, user); len(got) != 0 {
		t.Errorf("admin broadcast leaked into a user room: %d events", len(got))
	}
}

func TestSlowSessionDropsInsteadOfBlocking(t *testing.T) {
	hub := NewHub()
	s := newTestSession()
	hub.JoinUserRoom(s, 1)

	done := make(chan struct{})
	go func() {
		// Nobody drains the session, so pushes beyond the buffer must
		// be dropped, not queued forever.
		for i := 0; i < sendBuffer*2; i++ {
			hub.PushToUser(1, Event{Type: EventUnreadTotalUpdated})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("push to a slow session blocked the producer")
	}
	if got := drain(t, s); len(got) != sendBuffer {
		t.Errorf("expected exactly %d buffered events, got %d", sendBuffer, len(got))
	}
}
