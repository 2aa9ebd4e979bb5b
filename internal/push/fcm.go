package push

import (
	"context"
	"fmt"
	"log"
	"time"

	"firebase.google.com/go/v4/messaging"
	"github.com/tahmidul512/linkloop/backend/internal/repositories"
)

// sendTimeout bounds one FCM round-trip so a slow push service never
// stalls a delivery worker.
const sendTimeout = 5 * time.Second

// FCMSender pushes notifications to a user's registered devices via
// Firebase Cloud Messaging. Strictly best-effort: the websocket channel
// and the pull API are unaffected by FCM outcomes.
type FCMSender struct {
	client  *messaging.Client
	devices repositories.DeviceRepository
}

// NewFCMSender constructs an FCMSender.
func NewFCMSender(client *messaging.Client, devices repositories.DeviceRepository) *FCMSender {
	return &FCMSender{client: client, devices: devices}
}

// Notify sends title/body to every device token registered for userID.
// Dead tokens are pruned; other per-token failures are logged only.
func (s *FCMSender) Notify(ctx context.Context, userID uint, title, body string, data map[string]string) error {
	tokens, err := s.devices.GetTokensByUserID(userID)
	if err != nil {
		return fmt.Errorf("loading device tokens for user %d: %w", userID, err)
	}
	if len(tokens) == 0 {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	for _, token := range tokens {
		msg := &messaging.Message{
			Token: token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		if _, err := s.client.Send(ctx, msg); err != nil {
			if messaging.IsUnregistered(err) {
				if delErr := s.devices.DeleteToken(token); delErr != nil {
					log.Printf("push: pruning dead token failed: %v", delErr)
				}
				continue
			}
			log.Printf("push: fcm send to user %d failed: %v", userID, err)
		}
	}
	return nil
}
