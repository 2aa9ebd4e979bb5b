package notifications

import (
	"context"
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/tahmidul512/linkloop/backend/internal/models"
	"github.com/tahmidul512/linkloop/backend/internal/realtime"
	"github.com/tahmidul512/linkloop/backend/internal/repositories"
)

// defaultFanoutWorkers bounds how many deliveries run at once during a
// fan-out. The store's connection pool is the hard ceiling; exceeding
// it queues unrelated requests behind fan-out traffic.
const defaultFanoutWorkers = 25

// MobilePusher sends a best-effort push to a user's registered devices.
// A nil MobilePusher disables mobile pushes entirely.
type MobilePusher interface {
	Notify(ctx context.Context, userID uint, title, body string, data map[string]string) error
}

// NotificationPayload is the newNotification wire payload: the full row
// plus a resolved sender summary for immediate rendering.
type NotificationPayload struct {
	models.Notification
	Sender *models.UserCompact `json:"sender,omitempty"`
}

// FanoutSummary aggregates per-target outcomes of one fan-out batch.
// Failed targets are logged and dropped, never retried.
type FanoutSummary struct {
	Attempted int `json:"attempted"`
	Succeeded int `json:"succeeded"`
	Failed    int `json:"failed"`
}

// Builder constructs the notification for one fan-out target, or
// returns nil to skip that target.
type Builder func(recipientID uint) *models.Notification

// Coordinator orchestrates event -> persistence -> push -> counter.
// Persistence is the source of truth; pushes are fire-and-forget hints
// delivered to whoever happens to be connected.
type Coordinator struct {
	store   repositories.NotificationRepository
	users   repositories.UserRepository
	follows repositories.FollowRepository
	channel realtime.Channel
	counter *Counter
	pusher  MobilePusher

	fanoutWorkers int
	wg            sync.WaitGroup
}

// NewCoordinator wires the delivery pipeline. pusher may be nil.
func NewCoordinator(
	store repositories.NotificationRepository,
	users repositories.UserRepository,
	follows repositories.FollowRepository,
	channel realtime.Channel,
	counter *Counter,
	pusher MobilePusher,
) *Coordinator {
	return &Coordinator{
		store:         store,
		users:         users,
		follows:       follows,
		channel:       channel,
		counter:       counter,
		pusher:        pusher,
		fanoutWorkers: defaultFanoutWorkers,
	}
}

// Deliver runs the single-recipient path: persist, push, publish the
// new unread total. A store failure is fatal and surfaced as a
// *PersistenceError because the triggering request needs to know the
// notification was not recorded. Push failures are swallowed.
func (c *Coordinator) Deliver(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if err := c.store.Insert(n); err != nil {
		return nil, &PersistenceError{Op: "insert", Err: err}
	}

	c.push(ctx, n)

	if n.RecipientID != nil && n.Kind != models.KindAdmin {
		c.counter.Publish(*n.RecipientID)
	}
	return n, nil
}

// FanoutToFollowers resolves authorID's follower set once and delivers
// build's notification to each follower independently. It returns
// immediately: the triggering request must not wait on slow individual
// deliveries, so the whole batch runs detached.
func (c *Coordinator) FanoutToFollowers(ctx context.Context, authorID uint, build Builder) {
	// The request context may be cancelled long before the batch ends.
	ctx = context.WithoutCancel(ctx)

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()

		followers, err := c.follows.GetFollowerIDs(authorID)
		if err != nil {
			log.Printf("notifications: %v", &ResolutionError{UserID: authorID, Err: err})
			return
		}

		summary := c.Fanout(ctx, authorID, followers, build)
		log.Printf("notifications: fan-out for user %d done: attempted=%d succeeded=%d failed=%d",
			authorID, summary.Attempted, summary.Succeeded, summary.Failed)
	}()
}

// Fanout delivers to every target except the author, at most
// fanoutWorkers at a time. Each target's insert/push/counter sequence
// is isolated: one target failing has no effect on any other.
func (c *Coordinator) Fanout(ctx context.Context, authorID uint, targets []uint, build Builder) FanoutSummary {
	sem := make(chan struct{}, c.fanoutWorkers)
	var wg sync.WaitGroup
	var succeeded, failed int64
	attempted := 0

	for _, id := range targets {
		if id == authorID {
			continue
		}
		n := build(id)
		if n == nil {
			continue
		}
		attempted++

		wg.Add(1)
		sem <- struct{}{}
		go func(n *models.Notification, recipient uint) {
			defer wg.Done()
			defer func() { <-sem }()

			if err := c.store.Insert(n); err != nil {
				atomic.AddInt64(&failed, 1)
				log.Printf("notifications: fan-out insert for user %d dropped: %v", recipient, err)
				return
			}
			c.push(ctx, n)
			c.counter.Publish(recipient)
			atomic.AddInt64(&succeeded, 1)
		}(n, id)
	}

	wg.Wait()
	return FanoutSummary{
		Attempted: attempted,
		Succeeded: int(atomic.LoadInt64(&succeeded)),
		Failed:    int(atomic.LoadInt64(&failed)),
	}
}

// Wait blocks until all detached fan-out batches finish. Used on
// shutdown.
func (c *Coordinator) Wait() {
	c.wg.Wait()
}

// push sends the notification over the live channel and, for
// individual recipients, to their registered devices. Both are
// best-effort: errors are logged and never propagate.
func (c *Coordinator) push(ctx context.Context, n *models.Notification) {
	ev := realtime.Event{Type: realtime.EventNewNotification, Data: c.buildPayload(n)}

	if n.RecipientID == nil {
		c.channel.PushToAdmin(ev)
		return
	}
	c.channel.PushToUser(*n.RecipientID, ev)

	if c.pusher != nil {
		data := map[string]string{"kind": string(n.Kind)}
		if n.EntityType != "" {
			data["entity_type"] = n.EntityType
			data["entity_id"] = n.EntityID
		}
		data["notification_id"] = strconv.FormatUint(uint64(n.ID), 10)
		if err := c.pusher.Notify(ctx, *n.RecipientID, n.Title, n.Content, data); err != nil {
			log.Printf("notifications: %v", &DeliveryError{RecipientID: *n.RecipientID, Err: err})
		}
	}
}

// buildPayload resolves the sender summary for the wire payload. A
// failed lookup degrades to a payload without sender info.
func (c *Coordinator) buildPayload(n *models.Notification) NotificationPayload {
	payload := NotificationPayload{Notification: *n}
	if n.SenderID == nil {
		return payload
	}
	sender, err := c.users.GetUserByID(*n.SenderID)
	if err != nil {
		log.Printf("notifications: resolving sender %d failed: %v", *n.SenderID, err)
		return payload
	}
	compact := sender.ToCompact()
	payload.Sender = &compact
	return payload
}
