// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"

	"github.com/hitoshi/warbler/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
	FindByUsername(ctx context.Context, username string) (*model.User, error)

	// Create はユーザーを作成し、採番されたIDをuser.IDに書き戻す。
	// username/emailの一意制約違反はmodel.APIError（conflict）として返す。
	Create(ctx context.Context, user *model.User) error

	// UpdateProfile は可変フィールド（username, email, image_url,
	// header_image_url, bio, location）を更新する。
	// 一意制約違反はmodel.APIError（conflict）として返す。
	UpdateProfile(ctx context.Context, user *model.User) error

	// DeleteByID は指定IDのユーザーを削除する。
	// 関連するmessages、followsはCASCADE削除される。
	DeleteByID(ctx context.Context, id int64) error

	// List は全ユーザーをID昇順で返す。
	List(ctx context.Context, limit int) ([]*model.User, error)
}

// FollowRepository は有向フォローエッジの永続化インターフェース。
type FollowRepository interface {
	// Create はフォローエッジを挿入する。
	// 順序付きペアの複合主キーにより、重複挿入はmodel.APIError（conflict）として返す。
	Create(ctx context.Context, followeeID, followerID int64) error

	// Delete は一致するエッジを削除する。エッジが存在しない場合もエラーにしない。
	Delete(ctx context.Context, followeeID, followerID int64) error

	// Exists はエッジ（follower → followee）の有無を単一のインデックス検索で返す。
	Exists(ctx context.Context, followeeID, followerID int64) (bool, error)

	// Followers は指定ユーザーをフォローしているユーザー（入エッジ側）を返す。
	Followers(ctx context.Context, userID int64) ([]*model.User, error)

	// Following は指定ユーザーがフォローしているユーザー（出エッジ側）を返す。
	Following(ctx context.Context, userID int64) ([]*model.User, error)
}

// MessageRepository はメッセージデータの永続化インターフェース。
type MessageRepository interface {
	// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.Message, error)

	// Create はメッセージを作成し、採番されたIDをmessage.IDに書き戻す。
	Create(ctx context.Context, message *model.Message) error

	// DeleteByID は指定IDのメッセージを削除する。
	DeleteByID(ctx context.Context, id int64) error

	// ListByUserID は指定ユーザーのメッセージを新しい順で返す。
	ListByUserID(ctx context.Context, userID int64, limit int) ([]*model.Message, error)

	// ListTimeline は指定ユーザー自身とフォロー中ユーザーのメッセージを新しい順で返す。
	ListTimeline(ctx context.Context, userID int64, limit int) ([]*model.Message, error)

	// ListLatest は全ユーザーのメッセージを新しい順で返す（パブリックタイムライン）。
	ListLatest(ctx context.Context, limit int) ([]*model.Message, error)

	// CountByUserID は指定ユーザーのメッセージ数を返す。
	CountByUserID(ctx context.Context, userID int64) (int, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを取得する。期限切れの場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// DeleteByID は指定IDのセッションを削除する。
	DeleteByID(ctx context.Context, id string) error
	// DeleteByUserID は指定ユーザーの全セッションを削除する。
	DeleteByUserID(ctx context.Context, userID int64) error
	// DeleteExpired は期限切れセッションを削除し、削除件数を返す。
	DeleteExpired(ctx context.Context) (int64, error)
}
