package models

import "time"

// NotificationKind classifies what triggered a notification.
type NotificationKind string

const (
	KindLike         NotificationKind = "like"
	KindComment      NotificationKind = "comment"
	KindFollow       NotificationKind = "follow"
	KindSystem       NotificationKind = "system"
	KindPostPending  NotificationKind = "post_pending"
	KindPostApproved NotificationKind = "post_approved"
	KindNewPost      NotificationKind = "new_post"
	KindAdmin        NotificationKind = "admin"
)

// IsInteraction reports whether the kind is a user-to-user interaction.
// Interaction kinds never notify the acting user about their own action.
func (k NotificationKind) IsInteraction() bool {
	return k == KindLike || k == KindComment || k == KindFollow
}

// Notification represents a persisted notification row (PostgreSQL).
// A nil RecipientID means the notification is addressed to the admin
// room rather than an individual user; a nil SenderID means it was
// generated by the system.
type Notification struct {
	ID          uint             `json:"id" gorm:"primaryKey"`
	RecipientID *uint            `json:"recipient_id" gorm:"index"`
	SenderID    *uint            `json:"sender_id" gorm:"index"`
	Kind        NotificationKind `json:"kind" gorm:"size:30;index"`
	Title       string           `json:"title"`
	Content     string           `json:"content"`
	EntityType  string           `json:"entity_type,omitempty" gorm:"size:20"` // post, comment, user
	EntityID    string           `json:"entity_id,omitempty"`
	IsRead      bool             `json:"is_read" gorm:"default:false;index"`
	CreatedAt   time.Time        `json:"created_at" gorm:"index"`
}

// NotificationFilter selects which slice of a recipient's feed to list.
type NotificationFilter string

const (
	FilterAll    NotificationFilter = "all"
	FilterUnread NotificationFilter = "unread"
	FilterSystem NotificationFilter = "system"
)
