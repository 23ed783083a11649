package cleanup

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
)

// --- モック ---

type mockSessionPurger struct {
	deleteExpiredFn func(ctx context.Context) (int64, error)
}

func (m *mockSessionPurger) DeleteExpired(ctx context.Context) (int64, error) {
	return m.deleteExpiredFn(ctx)
}

type mockPurgeRecorder struct {
	recorded []int64
}

func (m *mockPurgeRecorder) RecordSessionsPurged(count int64) {
	m.recorded = append(m.recorded, count)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

// --- テスト ---

// TestCleanupJob_Run は期限切れセッションの削除件数がメトリクスに記録されることを検証する。
func TestCleanupJob_Run(t *testing.T) {
	purger := &mockSessionPurger{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 7, nil
		},
	}
	recorder := &mockPurgeRecorder{}

	job := NewCleanupJob(purger, recorder, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
	if len(recorder.recorded) != 1 || recorder.recorded[0] != 7 {
		t.Errorf("recorded = %v, want [7]", recorder.recorded)
	}
}

// TestCleanupJob_Run_NothingToDelete は削除対象がない場合も成功することを検証する。
func TestCleanupJob_Run_NothingToDelete(t *testing.T) {
	purger := &mockSessionPurger{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, nil
		},
	}

	job := NewCleanupJob(purger, nil, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}

// TestCleanupJob_Run_StoreError はストア障害がエラーとして返ることを検証する。
func TestCleanupJob_Run_StoreError(t *testing.T) {
	purger := &mockSessionPurger{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 0, errors.New("connection refused")
		},
	}

	job := NewCleanupJob(purger, nil, discardLogger())

	if err := job.Run(context.Background()); err == nil {
		t.Fatal("expected error, got nil")
	}
}

// TestCleanupJob_Run_NilRecorder はレコーダー未設定でもパニックしないことを検証する。
func TestCleanupJob_Run_NilRecorder(t *testing.T) {
	purger := &mockSessionPurger{
		deleteExpiredFn: func(ctx context.Context) (int64, error) {
			return 3, nil
		},
	}

	job := NewCleanupJob(purger, nil, discardLogger())

	if err := job.Run(context.Background()); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}
}
