// Package model はドメインモデルを定義する。
package model

import "time"

// プロフィール画像が未指定の場合に使用するプレースホルダー。
const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User はサービス利用ユーザーを表す。
// PasswordHashはbcryptハッシュのみを保持し、平文パスワードは一切格納しない。
type User struct {
	ID             int64
	Username       string
	Email          string
	PasswordHash   string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// IDは不透明なセッショントークンであり、常に1ユーザーIDにのみ紐付く。
type Session struct {
	ID        string
	UserID    int64
	ExpiresAt time.Time
	CreatedAt time.Time
}
