package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/warbler/internal/model"
)

// PostgresMessageRepo はPostgreSQLを使用したメッセージリポジトリ。
type PostgresMessageRepo struct {
	db *sql.DB
}

// NewPostgresMessageRepo はPostgresMessageRepoを生成する。
func NewPostgresMessageRepo(db *sql.DB) *PostgresMessageRepo {
	return &PostgresMessageRepo{db: db}
}

// FindByID は指定IDのメッセージを取得する。見つからない場合はnilを返す。
func (r *PostgresMessageRepo) FindByID(ctx context.Context, id int64) (*model.Message, error) {
	message := &model.Message{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, text, created_at FROM messages WHERE id = $1`,
		id,
	).Scan(&message.ID, &message.UserID, &message.Text, &message.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find message: %w", err)
	}
	return message, nil
}

// Create はメッセージを作成し、採番されたIDをmessage.IDに書き戻す。
func (r *PostgresMessageRepo) Create(ctx context.Context, message *model.Message) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO messages (user_id, text, created_at)
		 VALUES ($1, $2, $3)
		 RETURNING id`,
		message.UserID, message.Text, message.CreatedAt,
	).Scan(&message.ID)
	if err != nil {
		return fmt.Errorf("failed to insert message: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのメッセージを削除する。
func (r *PostgresMessageRepo) DeleteByID(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM messages WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	return nil
}

// ListByUserID は指定ユーザーのメッセージを新しい順で返す。
func (r *PostgresMessageRepo) ListByUserID(ctx context.Context, userID int64, limit int) ([]*model.Message, error) {
	return r.listMessages(ctx,
		`SELECT id, user_id, text, created_at
		 FROM messages
		 WHERE user_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
}

// ListTimeline は指定ユーザー自身とフォロー中ユーザーのメッセージを新しい順で返す。
func (r *PostgresMessageRepo) ListTimeline(ctx context.Context, userID int64, limit int) ([]*model.Message, error) {
	return r.listMessages(ctx,
		`SELECT id, user_id, text, created_at
		 FROM messages
		 WHERE user_id = $1
		    OR user_id IN (
		      SELECT user_being_followed_id FROM follows WHERE user_following_id = $1
		    )
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2`,
		userID, limit,
	)
}

// ListLatest は全ユーザーのメッセージを新しい順で返す（パブリックタイムライン）。
func (r *PostgresMessageRepo) ListLatest(ctx context.Context, limit int) ([]*model.Message, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, text, created_at
		 FROM messages
		 ORDER BY created_at DESC, id DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// CountByUserID は指定ユーザーのメッセージ数を返す。
func (r *PostgresMessageRepo) CountByUserID(ctx context.Context, userID int64) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM messages WHERE user_id = $1`,
		userID,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count messages: %w", err)
	}
	return count, nil
}

// listMessages は2引数（userID, limit）のメッセージクエリを実行する。
func (r *PostgresMessageRepo) listMessages(ctx context.Context, query string, userID int64, limit int) ([]*model.Message, error) {
	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()
	return scanMessages(rows)
}

// scanMessages は結果セットをメッセージのスライスへ読み込む。
func scanMessages(rows *sql.Rows) ([]*model.Message, error) {
	var messages []*model.Message
	for rows.Next() {
		message := &model.Message{}
		if err := rows.Scan(&message.ID, &message.UserID, &message.Text, &message.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, message)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate messages: %w", err)
	}
	return messages, nil
}

// compile-time interface check
var _ MessageRepository = (*PostgresMessageRepo)(nil)
