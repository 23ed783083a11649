// Package message はメッセージ（warble）のドメインロジックを提供する。
package message

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"github.com/hitoshi/warbler/internal/model"
	"github.com/hitoshi/warbler/internal/repository"
	"github.com/hitoshi/warbler/internal/security"
)

// Service はメッセージ管理のサービス層。
// 投稿、削除、一覧、タイムラインのビジネスロジックを提供する。
type Service struct {
	messageRepo repository.MessageRepository
	userRepo    repository.UserRepository
	sanitizer   security.TextSanitizerService
	pageSize    int
}

// NewService はServiceの新しいインスタンスを生成する。
// pageSizeはタイムライン・一覧系クエリの既定の取得上限。
func NewService(
	messageRepo repository.MessageRepository,
	userRepo repository.UserRepository,
	sanitizer security.TextSanitizerService,
	pageSize int,
) *Service {
	return &Service{
		messageRepo: messageRepo,
		userRepo:    userRepo,
		sanitizer:   sanitizer,
		pageSize:    pageSize,
	}
}

// Post は新しいメッセージを投稿する。
// 本文はサニタイズ後に検証し、空または制限超過の場合はストアに触れずに拒否する。
// 文字数はバイト長ではなくルーン数で数える。
func (s *Service) Post(ctx context.Context, userID int64, text string) (*model.Message, error) {
	cleaned := s.sanitizer.Sanitize(text)
	if cleaned == "" {
		return nil, model.NewMessageEmptyError()
	}
	if length := utf8.RuneCountInString(cleaned); length > model.MessageMaxLength {
		return nil, model.NewMessageTooLongError(length)
	}

	msg := &model.Message{
		UserID:    userID,
		Text:      cleaned,
		CreatedAt: time.Now(),
	}

	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, fmt.Errorf("メッセージの作成に失敗しました: %w", err)
	}

	slog.Info("メッセージを投稿しました",
		slog.Int64("message_id", msg.ID),
		slog.Int64("user_id", userID),
	)

	return msg, nil
}

// GetMessage は指定IDのメッセージを取得する。
func (s *Service) GetMessage(ctx context.Context, messageID int64) (*model.Message, error) {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return nil, fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	if msg == nil {
		return nil, model.NewMessageNotFoundError(messageID)
	}
	return msg, nil
}

// Delete はメッセージを削除する。作成者本人のみが削除できる。
// 他ユーザーのメッセージへの削除要求は、メッセージの存在有無を漏らさないよう
// 未検出と同じエラーで拒否する。
func (s *Service) Delete(ctx context.Context, userID, messageID int64) error {
	msg, err := s.messageRepo.FindByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("メッセージの取得に失敗しました: %w", err)
	}
	if msg == nil {
		return model.NewMessageNotFoundError(messageID)
	}
	if msg.UserID != userID {
		// 応答は未検出と同一だが、監査のため内部では区別して記録する
		slog.Warn("他ユーザーのメッセージへの削除要求を拒否しました",
			slog.Int64("message_id", messageID),
			slog.Int64("request_user_id", userID),
			slog.Int64("owner_user_id", msg.UserID),
		)
		return model.NewMessageNotFoundError(messageID)
	}

	if err := s.messageRepo.DeleteByID(ctx, messageID); err != nil {
		return fmt.Errorf("メッセージの削除に失敗しました: %w", err)
	}

	slog.Info("メッセージを削除しました",
		slog.Int64("message_id", messageID),
		slog.Int64("user_id", userID),
	)

	return nil
}

// ListForUser は指定ユーザーのメッセージを新しい順で返す。
// ユーザーが存在しない場合はnot foundエラーを返す。
func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*model.Message, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ユーザーの取得に失敗しました: %w", err)
	}
	if user == nil {
		return nil, model.NewUserNotFoundError()
	}

	msgs, err := s.messageRepo.ListByUserID(ctx, userID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("メッセージ一覧の取得に失敗しました: %w", err)
	}
	return msgs, nil
}

// HomeTimeline は指定ユーザー自身とフォロー中ユーザーのメッセージを新しい順で返す。
func (s *Service) HomeTimeline(ctx context.Context, userID int64) ([]*model.Message, error) {
	msgs, err := s.messageRepo.ListTimeline(ctx, userID, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("タイムラインの取得に失敗しました: %w", err)
	}
	return msgs, nil
}

// PublicTimeline は全ユーザーのメッセージを新しい順で返す。
func (s *Service) PublicTimeline(ctx context.Context) ([]*model.Message, error) {
	msgs, err := s.messageRepo.ListLatest(ctx, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("パブリックタイムラインの取得に失敗しました: %w", err)
	}
	return msgs, nil
}

// CountForUser は指定ユーザーのメッセージ数を返す。
func (s *Service) CountForUser(ctx context.Context, userID int64) (int, error) {
	count, err := s.messageRepo.CountByUserID(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("メッセージ数の取得に失敗しました: %w", err)
	}
	return count, nil
}
