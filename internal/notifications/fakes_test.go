package notifications

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/tahmidul512/linkloop/backend/internal/models"
	"github.com/tahmidul512/linkloop/backend/internal/realtime"
)

// fakeStore is an in-memory NotificationRepository. Inserts for
// recipients listed in failRecipients fail, which lets tests force
// partial fan-out failures. It also tracks concurrent Insert calls so
// bounding can be asserted.
type fakeStore struct {
	mu             sync.Mutex
	rows           []models.Notification
	nextID         uint
	failRecipients map[uint]bool
	insertDelay    time.Duration

	inFlight    int32
	maxInFlight int32
}

func newFakeStore() *fakeStore {
	return &fakeStore{failRecipients: make(map[uint]bool)}
}

func (s *fakeStore) Insert(n *models.Notification) error {
	cur := atomic.AddInt32(&s.inFlight, 1)
	defer atomic.AddInt32(&s.inFlight, -1)
	for {
		max := atomic.LoadInt32(&s.maxInFlight)
		if cur <= max || atomic.CompareAndSwapInt32(&s.maxInFlight, max, cur) {
			break
		}
	}
	if s.insertDelay > 0 {
		time.Sleep(s.insertDelay)
	}

	if n.RecipientID != nil && s.failRecipients[*n.RecipientID] {
		return errors.New("constraint violation")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextID++
	n.ID = s.nextID
	n.CreatedAt = time.Now()
	s.rows = append(s.rows, *n)
	return nil
}

func (s *fakeStore) ListForRecipient(recipientID uint, page, pageSize int, filter models.NotificationFilter) ([]models.Notification, bool, error) {
	return s.rowsFor(recipientID), false, nil
}

func (s *fakeStore) MarkRead(notificationID, recipientID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.rows {
		if s.rows[i].ID == notificationID && s.rows[i].RecipientID != nil && *s.rows[i].RecipientID == recipientID {
			s.rows[i].IsRead = true
		}
	}
	return nil
}

func (s *fakeStore) MarkAllRead(recipientID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var updated int64
	for i := range s.rows {
		if s.rows[i].RecipientID != nil && *s.rows[i].RecipientID == recipientID && !s.rows[i].IsRead {
			s.rows[i].IsRead = true
			updated++
		}
	}
	return updated, nil
}

func (s *fakeStore) UnreadCount(recipientID uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var count int64
	for _, n := range s.rows {
		if n.RecipientID != nil && *n.RecipientID == recipientID && !n.IsRead && n.Kind != models.KindAdmin {
			count++
		}
	}
	return count, nil
}

func (s *fakeStore) ListAdminFeed(limit int) ([]models.Notification, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var feed []models.Notification
	for _, n := range s.rows {
		if n.RecipientID == nil {
			feed = append(feed, n)
		}
	}
	return feed, nil
}

func (s *fakeStore) rowsFor(recipientID uint) []models.Notification {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Notification
	for _, n := range s.rows {
		if n.RecipientID != nil && *n.RecipientID == recipientID {
			out = append(out, n)
		}
	}
	return out
}

func (s *fakeStore) adminRows() []models.Notification {
	rows, _ := s.ListAdminFeed(0)
	return rows
}

// fakeChannel records pushed events per room.
type fakeChannel struct {
	mu          sync.Mutex
	userEvents  map[uint][]realtime.Event
	adminEvents []realtime.Event
}

func newFakeChannel() *fakeChannel {
	return &fakeChannel{userEvents: make(map[uint][]realtime.Event)}
}

func (c *fakeChannel) PushToUser(userID uint, ev realtime.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.userEvents[userID] = append(c.userEvents[userID], ev)
}

func (c *fakeChannel) PushToAdmin(ev realtime.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.adminEvents = append(c.adminEvents, ev)
}

func (c *fakeChannel) eventsFor(userID uint) []realtime.Event {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]realtime.Event, len(c.userEvents[userID]))
	copy(out, c.userEvents[userID])
	return out
}

func (c *fakeChannel) lastUnreadTotal(userID uint) (int64, bool) {
	events := c.eventsFor(userID)
	for i := len(events) - 1; i >= 0; i-- {
		if events[i].Type == realtime.EventUnreadTotalUpdated {
			data := events[i].Data.(map[string]interface{})
			return data["total"].(int64), true
		}
	}
	return 0, false
}

func (c *fakeChannel) countEvents(userID uint, eventType string) int {
	count := 0
	for _, ev := range c.eventsFor(userID) {
		if ev.Type == eventType {
			count++
		}
	}
	return count
}

// fakeFollows serves a fixed follower set or a fixed error.
type fakeFollows struct {
	followers map[uint][]uint
	err       error
}

func (f *fakeFollows) GetFollowerIDs(userID uint) ([]uint, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.followers[userID], nil
}

func (f *fakeFollows) IsFollowing(followerID, followingID uint) (bool, error) {
	for _, id := range f.followers[followingID] {
		if id == followerID {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeFollows) GetFollowersCount(userID uint) (int64, error) {
	return int64(len(f.followers[userID])), nil
}

// fakeUsers resolves user summaries from a fixed map.
type fakeUsers struct {
	users map[uint]*models.User
}

func (u *fakeUsers) GetUserByID(id uint) (*models.User, error) {
	user, ok := u.users[id]
	if !ok {
		return nil, fmt.Errorf("user %d not found", id)
	}
	return user, nil
}

func (u *fakeUsers) GetUserByFirebaseUID(firebaseUID string) (*models.User, error) {
	return nil, errors.New("not implemented")
}

// fakePosts serves one post or an error.
type fakePosts struct {
	post *models.Post
	err  error
}

func (p *fakePosts) GetPostByID(ctx context.Context, id string) (*models.Post, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.post, nil
}
