// Package auth はログイン認証とセッション管理を提供する。
//
// セッションは不透明なトークン（32バイトの乱数の16進表現）をIDとする
// DBレコードであり、常に1ユーザーIDにのみ紐付く。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/warbler/internal/model"
	"github.com/hitoshi/warbler/internal/repository"
)

// Authenticator は資格情報の検証インターフェース。
// identityサービスが実装する。一致するユーザーが存在しない場合は(nil, nil)を返す。
type Authenticator interface {
	Authenticate(ctx context.Context, username, password string) (*model.User, error)
}

// ServiceConfig は認証サービスの設定。
type ServiceConfig struct {
	SessionMaxAge int // セッション有効期間（秒）
}

// Service は認証に関するビジネスロジックを提供する。
type Service struct {
	authenticator Authenticator
	userRepo      repository.UserRepository
	sessionRepo   repository.SessionRepository
	config        ServiceConfig
}

// NewService はServiceを生成する。
func NewService(
	authenticator Authenticator,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	config ServiceConfig,
) *Service {
	return &Service{
		authenticator: authenticator,
		userRepo:      userRepo,
		sessionRepo:   sessionRepo,
		config:        config,
	}
}

// Login は資格情報を検証し、成功した場合に新しいセッションを発行する。
// ユーザー名不明とパスワード不一致は区別せず、同一のauthエラーを返す。
func (s *Service) Login(ctx context.Context, username, password string) (*model.Session, *model.User, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		return nil, nil, fmt.Errorf("認証処理に失敗しました: %w", err)
	}
	if user == nil {
		return nil, nil, model.NewInvalidCredentialsError()
	}

	session, err := s.CreateSession(ctx, user.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("セッションの作成に失敗しました: %w", err)
	}

	slog.Info("ログインしました",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return session, user, nil
}

// Logout はセッションを破棄する。
func (s *Service) Logout(ctx context.Context, sessionID string) error {
	if sessionID == "" {
		return fmt.Errorf("session ID is required")
	}

	if err := s.sessionRepo.DeleteByID(ctx, sessionID); err != nil {
		return fmt.Errorf("セッションの削除に失敗しました: %w", err)
	}

	slog.Info("ログアウトしました")
	return nil
}

// GetCurrentUser はセッショントークンから現在のユーザーを取得する。
// トークンが無効・期限切れ・削除済みユーザーのいずれの場合も(nil, nil)を返し、
// 匿名として扱う。ストア障害のみerrorとして返す。
func (s *Service) GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error) {
	if sessionID == "" {
		return nil, nil
	}

	session, err := s.sessionRepo.FindByID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("セッションの取得に失敗しました: %w", err)
	}
	if session == nil {
		return nil, nil
	}

	user, err := s.userRepo.FindByID(ctx, session.UserID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	return user, nil
}

// CreateSession は指定ユーザーの新しいセッションを作成し永続化する。
// サインアップ直後の自動ログインにも使用される。
func (s *Service) CreateSession(ctx context.Context, userID int64) (*model.Session, error) {
	sessionID, err := generateSessionID()
	if err != nil {
		return nil, fmt.Errorf("セッションIDの生成に失敗しました: %w", err)
	}

	session := &model.Session{
		ID:        sessionID,
		UserID:    userID,
		ExpiresAt: time.Now().Add(time.Duration(s.config.SessionMaxAge) * time.Second),
		CreatedAt: time.Now(),
	}

	if err := s.sessionRepo.Create(ctx, session); err != nil {
		return nil, fmt.Errorf("セッションの保存に失敗しました: %w", err)
	}

	return session, nil
}

// generateSessionID は暗号的に安全なセッションIDを生成する。
func generateSessionID() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
