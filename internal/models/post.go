package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Post is the slice of a social media post (MongoDB) that the
// notification engine cares about: authorship plus enough content to
// build a human-readable preview. Post CRUD itself lives elsewhere.
type Post struct {
	ID        primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`
	AuthorID  uint               `json:"author_id" bson:"author_id"`
	Content   string             `json:"content" bson:"content"`
	Status    string             `json:"status" bson:"status"` // pending, approved, rejected
	CreatedAt time.Time          `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time          `json:"updated_at" bson:"updated_at"`
}

// Preview returns a shortened excerpt of the post content suitable for
// a notification body.
func (p *Post) Preview(max int) string {
	runes := []rune(p.Content)
	if max <= 0 || len(runes) <= max {
		return p.Content
	}
	return string(runes[:max]) + "..."
}
