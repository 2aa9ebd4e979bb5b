package notifications

import (
	"context"
	"errors"
	"testing"

	"github.com/tahmidul512/linkloop/backend/internal/models"
)

func newTestService(t *testing.T) (*Service, *testDeps) {
	t.Helper()
	c, deps := newTestCoordinator(t)
	posts := &fakePosts{post: &models.Post{AuthorID: 1, Content: "hello world"}}
	return NewService(c, deps.users, posts), deps
}

func TestLikeCreatesExactlyOneNotification(t *testing.T) {
	service, deps := newTestService(t)

	if err := service.Like(context.Background(), "p1", 1, 2); err != nil {
		t.Fatalf("like failed: %v", err)
	}

	rows := deps.store.rowsFor(2)
	if len(rows) != 1 {
		t.Fatalf("expected 1 notification, got %d", len(rows))
	}
	n := rows[0]
	if n.Kind != models.KindLike {
		t.Errorf("expected kind like, got %s", n.Kind)
	}
	if n.SenderID == nil || *n.SenderID != 1 {
		t.Errorf("expected sender 1, got %v", n.SenderID)
	}
	if n.EntityType != "post" || n.EntityID != "p1" {
		t.Errorf("expected related entity (post, p1), got (%s, %s)", n.EntityType, n.EntityID)
	}

	count, _ := deps.store.UnreadCount(2)
	if count != 1 {
		t.Errorf("expected unread count 1 after like, got %d", count)
	}
}

func TestLikeOwnPostIsSuppressed(t *testing.T) {
	service, deps := newTestService(t)

	if err := service.Like(context.Background(), "p1", 1, 1); err != nil {
		t.Fatalf("self-like should be silently suppressed, got %v", err)
	}

	deps.store.mu.Lock()
	rows := len(deps.store.rows)
	deps.store.mu.Unlock()
	if rows != 0 {
		t.Errorf("expected zero notifications for a self-like, got %d", rows)
	}
}

func TestFollowSelfIsSuppressed(t *testing.T) {
	service, deps := newTestService(t)

	if err := service.Follow(context.Background(), 1, 1); err != nil {
		t.Fatalf("self-follow should be silently suppressed, got %v", err)
	}
	deps.store.mu.Lock()
	rows := len(deps.store.rows)
	deps.store.mu.Unlock()
	if rows != 0 {
		t.Errorf("expected zero notifications for a self-follow, got %d", rows)
	}
}

func TestInteractionKindsNeverSelfNotify(t *testing.T) {
	service, deps := newTestService(t)

	if err := service.Comment(context.Background(), "p1", 2, 2, "nice"); err != nil {
		t.Fatalf("comment failed: %v", err)
	}

	deps.store.mu.Lock()
	defer deps.store.mu.Unlock()
	for _, n := range deps.store.rows {
		if n.Kind.IsInteraction() && n.SenderID != nil && n.RecipientID != nil && *n.SenderID == *n.RecipientID {
			t.Errorf("interaction notification %d has sender == recipient", n.ID)
		}
	}
}

func TestFollowNotifiesFollowee(t *testing.T) {
	service, deps := newTestService(t)

	if err := service.Follow(context.Background(), 1, 2); err != nil {
		t.Fatalf("follow failed: %v", err)
	}

	rows := deps.store.rowsFor(2)
	if len(rows) != 1 || rows[0].Kind != models.KindFollow {
		t.Fatalf("expected 1 follow notification, got %v", rows)
	}
	if rows[0].Content != "Alice started following you" {
		t.Errorf("unexpected content %q", rows[0].Content)
	}
}

func TestPostPendingNotifiesAuthorAndAdminFeed(t *testing.T) {
	service, deps := newTestService(t)

	if err := service.PostPending(context.Background(), "p1", 1); err != nil {
		t.Fatalf("post pending failed: %v", err)
	}

	authorRows := deps.store.rowsFor(1)
	if len(authorRows) != 1 || authorRows[0].Kind != models.KindPostPending {
		t.Fatalf("expected 1 post_pending notification for the author, got %v", authorRows)
	}

	adminRows := deps.store.adminRows()
	if len(adminRows) != 1 || adminRows[0].Kind != models.KindAdmin {
		t.Fatalf("expected 1 admin feed row, got %v", adminRows)
	}
	if len(deps.channel.adminEvents) != 1 {
		t.Errorf("expected 1 push to the admin room, got %d", len(deps.channel.adminEvents))
	}
}

func TestPostApprovedGoesOnlyToAuthor(t *testing.T) {
	service, deps := newTestService(t)

	if err := service.PostApproved(context.Background(), "p1", 1); err != nil {
		t.Fatalf("post approved failed: %v", err)
	}

	rows := deps.store.rowsFor(1)
	if len(rows) != 1 || rows[0].Kind != models.KindPostApproved {
		t.Fatalf("expected 1 post_approved notification, got %v", rows)
	}
	if len(deps.store.adminRows()) != 0 {
		t.Error("post approval must not land in the admin feed")
	}
	if len(deps.channel.adminEvents) != 0 {
		t.Error("post approval must not push to the admin room")
	}
}

func TestNewPostFanoutReachesAllFollowers(t *testing.T) {
	service, deps := newTestService(t)
	deps.follows.followers[1] = []uint{3, 4, 5}

	if err := service.NewPostFanout(context.Background(), "p1", 1); err != nil {
		t.Fatalf("fan-out failed: %v", err)
	}
	service.coordinator.Wait()

	for _, follower := range []uint{3, 4, 5} {
		rows := deps.store.rowsFor(follower)
		if len(rows) != 1 {
			t.Errorf("expected 1 new_post notification for follower %d, got %d", follower, len(rows))
			continue
		}
		if rows[0].Kind != models.KindNewPost || rows[0].EntityID != "p1" {
			t.Errorf("unexpected notification for follower %d: %+v", follower, rows[0])
		}
	}
	if rows := deps.store.rowsFor(1); len(rows) != 0 {
		t.Error("author must not be notified about their own post")
	}
}

func TestNewPostFanoutSurvivesOneFollowerFailing(t *testing.T) {
	service, deps := newTestService(t)
	deps.follows.followers[1] = []uint{3, 4, 5}
	deps.store.failRecipients[5] = true

	// Post creation must be unaffected by follower 5's broken insert.
	if err := service.NewPostFanout(context.Background(), "p1", 1); err != nil {
		t.Fatalf("fan-out should not surface per-target failures, got %v", err)
	}
	service.coordinator.Wait()

	for _, follower := range []uint{3, 4} {
		if rows := deps.store.rowsFor(follower); len(rows) != 1 {
			t.Errorf("expected 1 notification for follower %d, got %d", follower, len(rows))
		}
	}
	if rows := deps.store.rowsFor(5); len(rows) != 0 {
		t.Errorf("expected no rows for the failing follower, got %d", len(rows))
	}
}

func TestNewPostFanoutToleratesMissingPostPreview(t *testing.T) {
	c, deps := newTestCoordinator(t)
	posts := &fakePosts{err: errors.New("post store down")}
	service := NewService(c, deps.users, posts)
	deps.follows.followers[1] = []uint{3}

	if err := service.NewPostFanout(context.Background(), "p1", 1); err != nil {
		t.Fatalf("fan-out failed: %v", err)
	}
	c.Wait()

	rows := deps.store.rowsFor(3)
	if len(rows) != 1 {
		t.Fatalf("expected 1 notification despite missing preview, got %d", len(rows))
	}
	if rows[0].Content == "" {
		t.Error("expected a generic content fallback")
	}
}

func TestMarkAllReadRoundTrip(t *testing.T) {
	service, deps := newTestService(t)

	for i := 0; i < 5; i++ {
		if err := service.System(context.Background(), 2, "maintenance", "scheduled downtime"); err != nil {
			t.Fatalf("system notification failed: %v", err)
		}
	}

	count, _ := deps.store.UnreadCount(2)
	if count != 5 {
		t.Fatalf("expected 5 unread, got %d", count)
	}

	updated, err := deps.store.MarkAllRead(2)
	if err != nil || updated != 5 {
		t.Fatalf("expected 5 rows marked read, got %d (err=%v)", updated, err)
	}
	count, _ = deps.store.UnreadCount(2)
	if count != 0 {
		t.Errorf("expected unread count 0 after markAllRead, got %d", count)
	}
}
