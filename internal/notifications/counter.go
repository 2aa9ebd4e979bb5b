package notifications

import (
	"log"

	"github.com/tahmidul512/linkloop/backend/internal/realtime"
	"github.com/tahmidul512/linkloop/backend/internal/repositories"
)

// Counter publishes a recipient's unread total over the live channel
// whenever their notification state changes. The total is always read
// fresh from the store, so redundant Publish calls are harmless: every
// push reflects a real store state and clients may keep only the
// latest value.
type Counter struct {
	store   repositories.NotificationRepository
	channel realtime.Channel
}

// NewCounter constructs a Counter over the given store and channel.
func NewCounter(store repositories.NotificationRepository, channel realtime.Channel) *Counter {
	return &Counter{store: store, channel: channel}
}

// Publish recomputes recipientID's unread total and pushes it as an
// unreadTotalUpdated event. Failures are logged only; the badge is a
// hint, not state.
func (c *Counter) Publish(recipientID uint) {
	total, err := c.store.UnreadCount(recipientID)
	if err != nil {
		log.Printf("notifications: unread count for user %d failed: %v", recipientID, err)
		return
	}
	c.channel.PushToUser(recipientID, realtime.Event{
		Type: realtime.EventUnreadTotalUpdated,
		Data: map[string]interface{}{"total": total},
	})
}
