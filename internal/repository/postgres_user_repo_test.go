package repository

import (
	"errors"
	"testing"

	"github.com/lib/pq"

	"github.com/hitoshi/warbler/internal/model"
)

// PostgresUserRepoはUserRepositoryインターフェースを満たすことを検証
func TestPostgresUserRepo_ImplementsInterface(t *testing.T) {
	var _ UserRepository = (*PostgresUserRepo)(nil)
}

// NewPostgresUserRepoが正しく初期化されることを検証
func TestNewPostgresUserRepo_Initializes(t *testing.T) {
	repo := NewPostgresUserRepo(nil)
	if repo == nil {
		t.Fatal("expected non-nil repo")
	}
}

// username一意制約違反がUSERNAME_TAKENへ変換されることを検証
func TestMapUserConflict_UsernameTaken(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23505",
		Constraint: "users_username_key",
	}
	user := &model.User{Username: "alice", Email: "alice@example.com"}

	apiErr := mapUserConflict(pqErr, user)
	if apiErr == nil {
		t.Fatal("expected conflict error")
	}
	if apiErr.Code != model.ErrCodeUsernameTaken {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeUsernameTaken)
	}
	if apiErr.Category != "conflict" {
		t.Errorf("category = %q, want conflict", apiErr.Category)
	}
}

// email一意制約違反がEMAIL_TAKENへ変換されることを検証
func TestMapUserConflict_EmailTaken(t *testing.T) {
	pqErr := &pq.Error{
		Code:       "23505",
		Constraint: "users_email_key",
	}
	user := &model.User{Username: "alice", Email: "alice@example.com"}

	apiErr := mapUserConflict(pqErr, user)
	if apiErr == nil {
		t.Fatal("expected conflict error")
	}
	if apiErr.Code != model.ErrCodeEmailTaken {
		t.Errorf("code = %q, want %q", apiErr.Code, model.ErrCodeEmailTaken)
	}
}

// 一意制約違反以外のエラーは変換されないことを検証
func TestMapUserConflict_NonConflictError(t *testing.T) {
	user := &model.User{Username: "alice"}

	if apiErr := mapUserConflict(errors.New("connection refused"), user); apiErr != nil {
		t.Errorf("expected nil for non-conflict error, got %v", apiErr)
	}

	// unique_violation以外のPostgreSQLエラー
	pqErr := &pq.Error{Code: "23503", Constraint: "messages_user_id_fkey"}
	if apiErr := mapUserConflict(pqErr, user); apiErr != nil {
		t.Errorf("expected nil for foreign key violation, got %v", apiErr)
	}
}

// violatedConstraintがラップされたエラーからも制約名を取り出せることを検証
func TestViolatedConstraint_WrappedError(t *testing.T) {
	pqErr := &pq.Error{Code: "23505", Constraint: "users_username_key"}
	wrapped := errors.Join(errors.New("insert failed"), pqErr)

	constraint, ok := violatedConstraint(wrapped)
	if !ok {
		t.Fatal("expected constraint to be detected")
	}
	if constraint != "users_username_key" {
		t.Errorf("constraint = %q, want users_username_key", constraint)
	}
}
