package repositories

import (
	"testing"

	"github.com/tahmidul512/linkloop/backend/internal/models"
)

func TestGetFollowerIDs(t *testing.T) {
	db := setupTestDB(t)
	repo := NewPostgresFollowRepository(db)

	follows := []models.Follow{
		{FollowerID: 2, FollowingID: 1},
		{FollowerID: 3, FollowingID: 1},
		{FollowerID: 1, FollowingID: 2},
	}
	for i := range follows {
		if err := db.Create(&follows[i]).Error; err != nil {
			t.Fatalf("seeding follow failed: %v", err)
		}
	}

	ids, err := repo.GetFollowerIDs(1)
	if err != nil {
		t.Fatalf("get follower ids failed: %v", err)
	}
	if len(ids) != 2 {
		t.Fatalf("expected 2 followers, got %d", len(ids))
	}
	seen := map[uint]bool{}
	for _, id := range ids {
		seen[id] = true
	}
	if !seen[2] || !seen[3] {
		t.Errorf("expected followers 2 and 3, got %v", ids)
	}

	ids, err = repo.GetFollowerIDs(99)
	if err != nil {
		t.Fatalf("get follower ids for unknown user failed: %v", err)
	}
	if len(ids) != 0 {
		t.Errorf("expected no followers for unknown user, got %v", ids)
	}
}
