package realtime

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

// defaultRedisChannel is the shared pub/sub channel for cross-instance
// notification events.
const defaultRedisChannel = "linkloop:notifications:events"

// envelope is the message shape on the redis channel. A zero UserID
// with Admin set routes to the admin room.
type envelope struct {
	UserID uint        `json:"user_id,omitempty"`
	Admin  bool        `json:"admin,omitempty"`
	Type   string      `json:"type"`
	Data   interface{} `json:"data,omitempty"`
	SentAt time.Time   `json:"sent_at"`
}

// Bridge connects the local Hub to a redis pub/sub channel so a push
// produced on one instance reaches clients connected to any instance.
// It implements Channel; wire it in place of the bare Hub when redis is
// configured. Without redis the Hub alone covers single-instance mode.
type Bridge struct {
	client  *redis.Client
	hub     *Hub
	channel string
}

// NewBridge wires hub to a redis channel and starts the subscriber
// loop.
func NewBridge(client *redis.Client, hub *Hub, channel string) *Bridge {
	if channel == "" {
		channel = defaultRedisChannel
	}
	b := &Bridge{client: client, hub: hub, channel: channel}
	go b.runSubscriber()
	log.Printf("realtime: redis bridge active on channel %s", channel)
	return b
}

// PushToUser publishes a user-room event to every instance.
func (b *Bridge) PushToUser(userID uint, ev Event) {
	b.publish(envelope{UserID: userID, Type: ev.Type, Data: ev.Data, SentAt: time.Now().UTC()})
}

// PushToAdmin publishes an admin-room event to every instance.
func (b *Bridge) PushToAdmin(ev Event) {
	b.publish(envelope{Admin: true, Type: ev.Type, Data: ev.Data, SentAt: time.Now().UTC()})
}

func (b *Bridge) publish(env envelope) {
	body, err := json.Marshal(env)
	if err != nil {
		log.Printf("realtime: encode redis envelope failed: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if err := b.client.Publish(ctx, b.channel, body).Err(); err != nil {
		log.Printf("realtime: redis publish failed on %s: %v", b.channel, err)
	}
}

// runSubscriber replays events from the shared channel into the local
// hub. Producers stay unaware of redis; they only see Channel.
func (b *Bridge) runSubscriber() {
	ctx := context.Background()

	pubsub := b.client.Subscribe(ctx, b.channel)
	defer pubsub.Close()

	if _, err := pubsub.Receive(ctx); err != nil {
		log.Printf("realtime: redis subscribe failed on %s: %v", b.channel, err)
		return
	}

	for msg := range pubsub.Channel() {
		var env envelope
		if err := json.Unmarshal([]byte(msg.Payload), &env); err != nil {
			log.Printf("realtime: decode redis message failed: %v", err)
			continue
		}
		if env.Type == "" {
			continue
		}
		ev := Event{Type: env.Type, Data: env.Data}
		if env.Admin {
			b.hub.PushToAdmin(ev)
		} else {
			b.hub.PushToUser(env.UserID, ev)
		}
	}
}
