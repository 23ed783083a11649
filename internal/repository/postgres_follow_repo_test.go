package repository

import (
	"testing"
	"time"

	"github.com/hitoshi/warbler/internal/model"
)

// PostgresFollowRepoはFollowRepositoryインターフェースを満たすことを検証
func TestPostgresFollowRepo_ImplementsInterface(t *testing.T) {
	var _ FollowRepository = (*PostgresFollowRepo)(nil)
}

// NewPostgresFollowRepoが正しく初期化されることを検証
func TestNewPostgresFollowRepo_Initializes(t *testing.T) {
	repo := NewPostgresFollowRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// Followモデルが有向エッジとして構築されることを検証
func TestPostgresFollowRepo_FollowModel_Fields(t *testing.T) {
	now := time.Now()
	follow := &model.Follow{
		UserBeingFollowedID: 2,
		UserFollowingID:     1,
		CreatedAt:           now,
	}

	if follow.UserBeingFollowedID != 2 {
		t.Errorf("UserBeingFollowedID = %d, want 2", follow.UserBeingFollowedID)
	}
	if follow.UserFollowingID != 1 {
		t.Errorf("UserFollowingID = %d, want 1", follow.UserFollowingID)
	}
	// 逆向きのエッジとは別物であること
	reverse := &model.Follow{
		UserBeingFollowedID: 1,
		UserFollowingID:     2,
	}
	if follow.UserBeingFollowedID == reverse.UserBeingFollowedID {
		t.Error("forward and reverse edges should differ")
	}
}
