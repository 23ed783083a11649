// Package identity はユーザーアカウント管理のドメインロジックを提供する。
//
// サインアップ、認証、プロフィール更新、退会を扱う。
// パスワードはbcryptハッシュのみを保持し、平文は一切永続化しない。
package identity

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/hitoshi/warbler/internal/model"
	"github.com/hitoshi/warbler/internal/repository"
	"github.com/hitoshi/warbler/internal/security"
)

// SignupInput はサインアップの入力。
// ImageURL / HeaderImageURL は省略可能で、省略時はプレースホルダーが適用される。
type SignupInput struct {
	Username       string
	Email          string
	Password       string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// UpdateProfileInput はプロフィール更新の入力。
// CurrentPassword による再認証に成功した場合のみ更新を実行する。
type UpdateProfileInput struct {
	CurrentPassword string
	Username        string
	Email           string
	ImageURL        string
	HeaderImageURL  string
	Bio             string
	Location        string
}

// Service はユーザーアカウント管理のサービス層。
type Service struct {
	userRepo    repository.UserRepository
	sessionRepo repository.SessionRepository
	sanitizer   security.TextSanitizerService
	imageGuard  security.ImageGuardService
	bcryptCost  int
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(
	userRepo repository.UserRepository,
	sessionRepo repository.SessionRepository,
	sanitizer security.TextSanitizerService,
	imageGuard security.ImageGuardService,
	bcryptCost int,
) *Service {
	return &Service{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		sanitizer:   sanitizer,
		imageGuard:  imageGuard,
		bcryptCost:  bcryptCost,
	}
}

// Signup は新規ユーザーを登録する。
// username/email/passwordは必須。画像URLが未指定の場合はプレースホルダーを設定する。
// username/emailの重複はリポジトリ層でconflictエラーにマップされる。
func (s *Service) Signup(ctx context.Context, input SignupInput) (*model.User, error) {
	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)

	if username == "" {
		return nil, model.NewUsernameRequiredError()
	}
	if email == "" {
		return nil, model.NewEmailRequiredError()
	}
	if input.Password == "" {
		return nil, model.NewPasswordRequiredError()
	}

	imageURL, err := s.resolveImageURL(ctx, input.ImageURL, model.DefaultImageURL)
	if err != nil {
		return nil, err
	}
	headerImageURL, err := s.resolveImageURL(ctx, input.HeaderImageURL, model.DefaultHeaderImageURL)
	if err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("パスワードのハッシュ化に失敗しました: %w", err)
	}

	now := time.Now()
	user := &model.User{
		Username:       username,
		Email:          email,
		PasswordHash:   string(hash),
		ImageURL:       imageURL,
		HeaderImageURL: headerImageURL,
		Bio:            s.sanitizer.Sanitize(input.Bio),
		Location:       s.sanitizer.Sanitize(input.Location),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("ユーザーを登録しました",
		slog.Int64("user_id", user.ID),
		slog.String("username", user.Username),
	)

	return user, nil
}

// Authenticate はユーザー名とパスワードの組を検証する。
// 一致するユーザーが存在する場合はそのユーザーを返す。
// ユーザー名が未登録の場合もパスワードが不一致の場合も(nil, nil)を返し、
// 両者を区別しない。ストア障害のみerrorとして返す。
func (s *Service) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, nil
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, nil
	}

	return user, nil
}

// GetUser は指定IDのユーザーを取得する。
func (s *Service) GetUser(ctx context.Context, userID int64) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}
	return user, nil
}

// ListUsers は全ユーザーをID昇順で返す。
func (s *Service) ListUsers(ctx context.Context, limit int) ([]*model.User, error) {
	users, err := s.userRepo.List(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("ユーザー一覧の取得に失敗しました: %w", err)
	}
	return users, nil
}

// UpdateProfile はプロフィールを更新する。
// 現在のパスワードによる再認証に失敗した場合は更新せずauthエラーを返す。
// bioとlocationはサニタイズし、画像URLは検証のうえで反映する。
func (s *Service) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*model.User, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.CurrentPassword)); err != nil {
		return nil, model.NewInvalidCredentialsError()
	}

	username := strings.TrimSpace(input.Username)
	email := strings.TrimSpace(input.Email)
	if username == "" {
		return nil, model.NewUsernameRequiredError()
	}
	if email == "" {
		return nil, model.NewEmailRequiredError()
	}

	imageURL, err := s.resolveImageURL(ctx, input.ImageURL, model.DefaultImageURL)
	if err != nil {
		return nil, err
	}
	headerImageURL, err := s.resolveImageURL(ctx, input.HeaderImageURL, model.DefaultHeaderImageURL)
	if err != nil {
		return nil, err
	}

	user.Username = username
	user.Email = email
	user.ImageURL = imageURL
	user.HeaderImageURL = headerImageURL
	user.Bio = s.sanitizer.Sanitize(input.Bio)
	user.Location = s.sanitizer.Sanitize(input.Location)
	user.UpdatedAt = time.Now()

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}

	slog.Info("プロフィールを更新しました",
		slog.Int64("user_id", user.ID),
	)

	return user, nil
}

// Withdraw はユーザーの退会処理を実行する。
// 削除順序: sessions → user（+ CASCADE: messages, follows）
func (s *Service) Withdraw(ctx context.Context, userID int64) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return model.NewUserNotFoundError()
	}

	slog.Info("退会処理を開始します",
		slog.Int64("user_id", userID),
	)

	// 1. セッションを削除
	if s.sessionRepo != nil {
		if err := s.sessionRepo.DeleteByUserID(ctx, userID); err != nil {
			return fmt.Errorf("セッションの削除に失敗しました: %w", err)
		}
	}

	// 2. ユーザーを削除（messages, followsはCASCADE削除）
	if err := s.userRepo.DeleteByID(ctx, userID); err != nil {
		return fmt.Errorf("ユーザーの削除に失敗しました: %w", err)
	}

	slog.Info("退会処理が完了しました",
		slog.Int64("user_id", userID),
	)

	return nil
}

// resolveImageURL は画像URLを検証し、未指定の場合はプレースホルダーを返す。
// 絶対URLは静的検証の後、SSRF防止クライアント経由で実際に画像が取得できることを確認する。
func (s *Service) resolveImageURL(ctx context.Context, rawURL, placeholder string) (string, error) {
	trimmed := strings.TrimSpace(rawURL)
	if trimmed == "" {
		return placeholder, nil
	}
	if err := s.imageGuard.ValidateImageURL(trimmed); err != nil {
		return "", model.NewInvalidImageURLError(err.Error())
	}
	if err := s.imageGuard.VerifyImageURL(ctx, trimmed); err != nil {
		return "", model.NewInvalidImageURLError(err.Error())
	}
	return trimmed, nil
}
