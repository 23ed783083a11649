package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/warbler/internal/model"
)

// PostgresUserRepo はPostgreSQLを使用したユーザーリポジトリ。
type PostgresUserRepo struct {
	db *sql.DB
}

// NewPostgresUserRepo はPostgresUserRepoを生成する。
func NewPostgresUserRepo(db *sql.DB) *PostgresUserRepo {
	return &PostgresUserRepo{db: db}
}

const userColumns = `id, username, email, password_hash, image_url, header_image_url, bio, location, created_at, updated_at`

// scanUser は1行分のユーザーカラムをmodel.Userに読み込む。
func scanUser(row interface{ Scan(...any) error }) (*model.User, error) {
	user := &model.User{}
	err := row.Scan(
		&user.ID, &user.Username, &user.Email, &user.PasswordHash,
		&user.ImageURL, &user.HeaderImageURL, &user.Bio, &user.Location,
		&user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id = $1`,
		id,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by ID: %w", err)
	}
	return user, nil
}

// FindByUsername は指定ユーザー名のユーザーを取得する。見つからない場合はnilを返す。
func (r *PostgresUserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	user, err := scanUser(r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE username = $1`,
		username,
	))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return user, nil
}

// Create はユーザーを作成し、採番されたIDをuser.IDに書き戻す。
// username/emailの一意制約違反はmodel.APIError（conflict）として返す。
func (r *PostgresUserRepo) Create(ctx context.Context, user *model.User) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO users (username, email, password_hash, image_url, header_image_url, bio, location, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id`,
		user.Username, user.Email, user.PasswordHash,
		user.ImageURL, user.HeaderImageURL, user.Bio, user.Location,
		user.CreatedAt, user.UpdatedAt,
	).Scan(&user.ID)
	if err != nil {
		if apiErr := mapUserConflict(err, user); apiErr != nil {
			return apiErr
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// UpdateProfile は可変フィールドを更新する。
// 一意制約違反はmodel.APIError（conflict）として返す。
func (r *PostgresUserRepo) UpdateProfile(ctx context.Context, user *model.User) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE users
		 SET username = $1, email = $2, image_url = $3, header_image_url = $4,
		     bio = $5, location = $6, updated_at = $7
		 WHERE id = $8`,
		user.Username, user.Email, user.ImageURL, user.HeaderImageURL,
		user.Bio, user.Location, user.UpdatedAt, user.ID,
	)
	if err != nil {
		if apiErr := mapUserConflict(err, user); apiErr != nil {
			return apiErr
		}
		return fmt.Errorf("failed to update user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewUserNotFoundError()
	}
	return nil
}

// DeleteByID は指定IDのユーザーを削除する。
// 関連するmessages、followsはCASCADE削除される。
func (r *PostgresUserRepo) DeleteByID(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM users WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return model.NewUserNotFoundError()
	}
	return nil
}

// List は全ユーザーをID昇順で返す。
func (r *PostgresUserRepo) List(ctx context.Context, limit int) ([]*model.User, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+userColumns+` FROM users ORDER BY id LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
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

// mapUserConflict はusersテーブルの一意制約違反を型付きの競合エラーへ変換する。
// 対象外のエラーの場合はnilを返す。
func mapUserConflict(err error, user *model.User) *model.APIError {
	constraint, ok := violatedConstraint(err)
	if !ok {
		return nil
	}
	switch constraint {
	case "users_username_key":
		return model.NewUsernameTakenError(user.Username)
	case "users_email_key":
		return model.NewEmailTakenError(user.Email)
	default:
		return nil
	}
}

// compile-time interface check
var _ UserRepository = (*PostgresUserRepo)(nil)
