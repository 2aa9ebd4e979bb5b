package notifications

import (
	"context"
	"fmt"
	"log"

	"github.com/tahmidul512/linkloop/backend/internal/models"
	"github.com/tahmidul512/linkloop/backend/internal/repositories"
)

// previewLength caps content excerpts embedded in notification bodies.
const previewLength = 80

// Service is the typed facade the post/comment/follow logic calls with
// semantic events. Each constructor encodes the business policy for its
// event kind and delegates delivery to the Coordinator. It performs no
// I/O of its own beyond resolving display names and previews.
type Service struct {
	coordinator *Coordinator
	users       repositories.UserRepository
	posts       repositories.PostRepository
}

// NewService constructs the notification facade.
func NewService(coordinator *Coordinator, users repositories.UserRepository, posts repositories.PostRepository) *Service {
	return &Service{coordinator: coordinator, users: users, posts: posts}
}

// Like notifies a post owner that actorID liked their post. Liking
// your own post creates nothing: self-notifications are suppressed at
// construction, not filtered at read time.
func (s *Service) Like(ctx context.Context, postID string, actorID, ownerID uint) error {
	if actorID == ownerID {
		return nil
	}
	n := &models.Notification{
		RecipientID: ptr(ownerID),
		SenderID:    ptr(actorID),
		Kind:        models.KindLike,
		Title:       "New like",
		Content:     fmt.Sprintf("%s liked your post", s.displayName(actorID)),
		EntityType:  "post",
		EntityID:    postID,
	}
	_, err := s.coordinator.Deliver(ctx, n)
	return err
}

// Comment notifies a post owner about a new comment on their post.
func (s *Service) Comment(ctx context.Context, postID string, actorID, ownerID uint, commentPreview string) error {
	if actorID == ownerID {
		return nil
	}
	content := fmt.Sprintf("%s commented on your post", s.displayName(actorID))
	if commentPreview != "" {
		content = fmt.Sprintf("%s: %q", content, truncate(commentPreview, previewLength))
	}
	n := &models.Notification{
		RecipientID: ptr(ownerID),
		SenderID:    ptr(actorID),
		Kind:        models.KindComment,
		Title:       "New comment",
		Content:     content,
		EntityType:  "post",
		EntityID:    postID,
	}
	_, err := s.coordinator.Deliver(ctx, n)
	return err
}

// Follow notifies followeeID that followerID started following them.
func (s *Service) Follow(ctx context.Context, followerID, followeeID uint) error {
	if followerID == followeeID {
		return nil
	}
	n := &models.Notification{
		RecipientID: ptr(followeeID),
		SenderID:    ptr(followerID),
		Kind:        models.KindFollow,
		Title:       "New follower",
		Content:     fmt.Sprintf("%s started following you", s.displayName(followerID)),
		EntityType:  "user",
		EntityID:    fmt.Sprintf("%d", followerID),
	}
	_, err := s.coordinator.Deliver(ctx, n)
	return err
}

// System delivers a system-generated notification to one recipient.
func (s *Service) System(ctx context.Context, recipientID uint, title, content string) error {
	n := &models.Notification{
		RecipientID: ptr(recipientID),
		Kind:        models.KindSystem,
		Title:       title,
		Content:     content,
	}
	_, err := s.coordinator.Deliver(ctx, n)
	return err
}

// PostPending tells the author their post awaits review and drops a
// matching row into the admin feed so moderators see it live.
func (s *Service) PostPending(ctx context.Context, postID string, authorID uint) error {
	author := &models.Notification{
		RecipientID: ptr(authorID),
		Kind:        models.KindPostPending,
		Title:       "Post under review",
		Content:     "Your post was submitted and is awaiting approval",
		EntityType:  "post",
		EntityID:    postID,
	}
	if _, err := s.coordinator.Deliver(ctx, author); err != nil {
		return err
	}

	admin := &models.Notification{
		SenderID:   ptr(authorID),
		Kind:       models.KindAdmin,
		Title:      "Post awaiting approval",
		Content:    fmt.Sprintf("%s submitted a post for review", s.displayName(authorID)),
		EntityType: "post",
		EntityID:   postID,
	}
	if _, err := s.coordinator.Deliver(ctx, admin); err != nil {
		// The author was already notified; the admin feed catches up on
		// the next moderation pass.
		log.Printf("notifications: admin pending-post row for post %s dropped: %v", postID, err)
	}
	return nil
}

// PostApproved tells the author (and only the author) their post went
// live.
func (s *Service) PostApproved(ctx context.Context, postID string, authorID uint) error {
	n := &models.Notification{
		RecipientID: ptr(authorID),
		Kind:        models.KindPostApproved,
		Title:       "Post approved",
		Content:     "Your post was approved and is now visible to your followers",
		EntityType:  "post",
		EntityID:    postID,
	}
	_, err := s.coordinator.Deliver(ctx, n)
	return err
}

// NewPostFanout notifies every follower of authorID about a new post.
// The batch runs detached; this call returns as soon as the fan-out is
// scheduled. Per-follower failures are logged inside the coordinator
// and never reach the post-creation request.
func (s *Service) NewPostFanout(ctx context.Context, postID string, authorID uint) error {
	authorName := s.displayName(authorID)
	content := fmt.Sprintf("%s published a new post", authorName)
	if post, err := s.posts.GetPostByID(ctx, postID); err == nil {
		if preview := post.Preview(previewLength); preview != "" {
			content = fmt.Sprintf("%s: %q", content, preview)
		}
	}

	s.coordinator.FanoutToFollowers(ctx, authorID, func(recipientID uint) *models.Notification {
		return &models.Notification{
			RecipientID: ptr(recipientID),
			SenderID:    ptr(authorID),
			Kind:        models.KindNewPost,
			Title:       "New post",
			Content:     content,
			EntityType:  "post",
			EntityID:    postID,
		}
	})
	return nil
}

// AdminBroadcast drops a row into the admin live feed and pushes it to
// every connected moderator. relatedType/relatedID may be empty.
func (s *Service) AdminBroadcast(ctx context.Context, title, content, relatedType, relatedID string) error {
	n := &models.Notification{
		Kind:       models.KindAdmin,
		Title:      title,
		Content:    content,
		EntityType: relatedType,
		EntityID:   relatedID,
	}
	_, err := s.coordinator.Deliver(ctx, n)
	return err
}

// displayName resolves a user's name for notification bodies, falling
// back to a neutral label when the lookup fails.
func (s *Service) displayName(userID uint) string {
	user, err := s.users.GetUserByID(userID)
	if err != nil {
		log.Printf("notifications: resolving user %d failed: %v", userID, err)
		return "Someone"
	}
	return user.Name
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

func ptr(id uint) *uint { return &id }
