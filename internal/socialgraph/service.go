// Package socialgraph はフォロー関係のドメインロジックを提供する。
//
// フォローはフォロワー（辺の始点）からフォロー対象（辺の終点）への有向エッジであり、
// 順序付きペアごとに最大1本しか存在しない。相互フォローは独立した2本のエッジになる。
package socialgraph

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/hitoshi/warbler/internal/model"
	"github.com/hitoshi/warbler/internal/repository"
)

// Service はフォロー関係のサービス層。
type Service struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(followRepo repository.FollowRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		followRepo: followRepo,
		userRepo:   userRepo,
	}
}

// Follow はfollowerIDからfolloweeIDへのフォローエッジを作成する。
// 自己フォローはvalidationエラー、重複フォローはconflictエラーとして拒否する。
// フォロー対象が存在しない場合はnot foundエラーを返す。
func (s *Service) Follow(ctx context.Context, followerID, followeeID int64) error {
	if followerID == followeeID {
		return model.NewSelfFollowError()
	}

	followee, err := s.userRepo.FindByID(ctx, followeeID)
	if err != nil {
		return fmt.Errorf("フォロー対象の取得に失敗しました: %w", err)
	}
	if followee == nil {
		return model.NewUserNotFoundError()
	}

	if err := s.followRepo.Create(ctx, followeeID, followerID); err != nil {
		return err
	}

	slog.Info("フォローを作成しました",
		slog.Int64("follower_id", followerID),
		slog.Int64("followee_id", followeeID),
	)

	return nil
}

// Unfollow はfollowerIDからfolloweeIDへのフォローエッジを削除する。
// エッジが存在しない場合も成功として扱う。
func (s *Service) Unfollow(ctx context.Context, followerID, followeeID int64) error {
	followee, err := s.userRepo.FindByID(ctx, followeeID)
	if err != nil {
		return fmt.Errorf("フォロー対象の取得に失敗しました: %w", err)
	}
	if followee == nil {
		return model.NewUserNotFoundError()
	}

	if err := s.followRepo.Delete(ctx, followeeID, followerID); err != nil {
		return fmt.Errorf("フォローの削除に失敗しました: %w", err)
	}

	return nil
}

// IsFollowing はuserIDがotherIDをフォローしているかを返す。
// 単一のインデックス検索で判定し、フォロー一覧の走査は行わない。
func (s *Service) IsFollowing(ctx context.Context, userID, otherID int64) (bool, error) {
	exists, err := s.followRepo.Exists(ctx, otherID, userID)
	if err != nil {
		return false, fmt.Errorf("フォロー状態の取得に失敗しました: %w", err)
	}
	return exists, nil
}

// IsFollowedBy はuserIDがotherIDにフォローされているかを返す。
// IsFollowing(other, user)と同値だが、逆向きの単一検索として提供する。
func (s *Service) IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error) {
	exists, err := s.followRepo.Exists(ctx, userID, otherID)
	if err != nil {
		return false, fmt.Errorf("フォロー状態の取得に失敗しました: %w", err)
	}
	return exists, nil
}

// Followers は指定ユーザーをフォローしているユーザーの一覧を返す。
func (s *Service) Followers(ctx context.Context, userID int64) ([]*model.User, error) {
	users, err := s.followRepo.Followers(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フォロワー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// Following は指定ユーザーがフォローしているユーザーの一覧を返す。
func (s *Service) Following(ctx context.Context, userID int64) ([]*model.User, error) {
	users, err := s.followRepo.Following(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("フォロー中一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}
