package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/warbler/internal/model"
)

// PostgresFollowRepo はPostgreSQLを使用したフォローエッジリポジトリ。
type PostgresFollowRepo struct {
	db *sql.DB
}

// NewPostgresFollowRepo はPostgresFollowRepoを生成する。
func NewPostgresFollowRepo(db *sql.DB) *PostgresFollowRepo {
	return &PostgresFollowRepo{db: db}
}

// Create はフォローエッジを挿入する。
// 複合主キー（followee, follower）により、重複挿入はmodel.APIError（conflict）として返す。
func (r *PostgresFollowRepo) Create(ctx context.Context, followeeID, followerID int64) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO follows (user_being_followed_id, user_following_id, created_at)
		 VALUES ($1, $2, $3)`,
		followeeID, followerID, time.Now(),
	)
	if err != nil {
		if _, ok := violatedConstraint(err); ok {
			return model.NewAlreadyFollowingError()
		}
		return fmt.Errorf("failed to insert follow: %w", err)
	}
	return nil
}

// Delete は一致するエッジを削除する。エッジが存在しない場合もエラーにしない。
func (r *PostgresFollowRepo) Delete(ctx context.Context, followeeID, followerID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM follows
		 WHERE user_being_followed_id = $1 AND user_following_id = $2`,
		followeeID, followerID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete follow: %w", err)
	}
	return nil
}

// Exists はエッジ（follower → followee）の有無を返す。
// 複合主キーのインデックスを使った単一検索で、テーブル走査は行わない。
func (r *PostgresFollowRepo) Exists(ctx context.Context, followeeID, followerID int64) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		`SELECT EXISTS (
		   SELECT 1 FROM follows
		   WHERE user_being_followed_id = $1 AND user_following_id = $2
		 )`,
		followeeID, followerID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow edge: %w", err)
	}
	return exists, nil
}

// Followers は指定ユーザーをフォローしているユーザー（入エッジ側）を返す。
func (r *PostgresFollowRepo) Followers(ctx context.Context, userID int64) ([]*model.User, error) {
	return r.listEdgeUsers(ctx,
		`SELECT `+prefixedUserColumns+`
		 FROM users u
		 INNER JOIN follows f ON f.user_following_id = u.id
		 WHERE f.user_being_followed_id = $1`,
		userID,
	)
}

// Following は指定ユーザーがフォローしているユーザー（出エッジ側）を返す。
func (r *PostgresFollowRepo) Following(ctx context.Context, userID int64) ([]*model.User, error) {
	return r.listEdgeUsers(ctx,
		`SELECT `+prefixedUserColumns+`
		 FROM users u
		 INNER JOIN follows f ON f.user_being_followed_id = u.id
		 WHERE f.user_following_id = $1`,
		userID,
	)
}

const prefixedUserColumns = `u.id, u.username, u.email, u.password_hash, u.image_url, u.header_image_url, u.bio, u.location, u.created_at, u.updated_at`

// listEdgeUsers はフォローエッジのJOIN結果をユーザーのスライスへ読み込む。
func (r *PostgresFollowRepo) listEdgeUsers(ctx context.Context, query string, userID int64) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list follow edge users: %w", err)
	}
	defer rows.Close()

	var users []*model.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}
	return users, nil
}

// compile-time interface check
var _ FollowRepository = (*PostgresFollowRepo)(nil)
