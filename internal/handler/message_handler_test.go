package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/warbler/internal/model"
)

// --- モック ---

type mockMessageService struct {
	postFn           func(ctx context.Context, userID int64, text string) (*model.Message, error)
	getMessageFn     func(ctx context.Context, messageID int64) (*model.Message, error)
	deleteFn         func(ctx context.Context, userID, messageID int64) error
	listForUserFn    func(ctx context.Context, userID int64) ([]*model.Message, error)
	homeTimelineFn   func(ctx context.Context, userID int64) ([]*model.Message, error)
	publicTimelineFn func(ctx context.Context) ([]*model.Message, error)
}

func (m *mockMessageService) Post(ctx context.Context, userID int64, text string) (*model.Message, error) {
	return m.postFn(ctx, userID, text)
}

func (m *mockMessageService) GetMessage(ctx context.Context, messageID int64) (*model.Message, error) {
	return m.getMessageFn(ctx, messageID)
}

func (m *mockMessageService) Delete(ctx context.Context, userID, messageID int64) error {
	return m.deleteFn(ctx, userID, messageID)
}

func (m *mockMessageService) ListForUser(ctx context.Context, userID int64) ([]*model.Message, error) {
	return m.listForUserFn(ctx, userID)
}

func (m *mockMessageService) HomeTimeline(ctx context.Context, userID int64) ([]*model.Message, error) {
	return m.homeTimelineFn(ctx, userID)
}

func (m *mockMessageService) PublicTimeline(ctx context.Context) ([]*model.Message, error) {
	return m.publicTimelineFn(ctx)
}

type mockMessageMetrics struct {
	posted int
}

func (m *mockMessageMetrics) RecordMessagePosted() {
	m.posted++
}

func newMessageTestRouter(h *MessageHandler) chi.Router {
	r := chi.NewRouter()
	r.Post("/api/messages", h.Post)
	r.Get("/api/messages", h.PublicTimeline)
	r.Get("/api/messages/{id}", h.Get)
	r.Delete("/api/messages/{id}", h.Delete)
	r.Get("/api/users/{id}/messages", h.ListForUser)
	r.Get("/api/timeline", h.HomeTimeline)
	return r
}

// --- テスト ---

// TestMessageHandler_Post は投稿成功時に201とメッセージが返ることを検証する。
func TestMessageHandler_Post(t *testing.T) {
	messageSvc := &mockMessageService{
		postFn: func(ctx context.Context, userID int64, text string) (*model.Message, error) {
			if userID != 1 {
				t.Errorf("userID = %d, want 1", userID)
			}
			return &model.Message{ID: 10, UserID: userID, Text: text, CreatedAt: time.Now()}, nil
		},
	}
	recorder := &mockMessageMetrics{}
	h := NewMessageHandler(messageSvc, recorder)

	req := authedRequest(http.MethodPost, "/api/messages", `{"text":"hello world"}`, 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusCreated)
	}

	var got messageResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != 10 || got.Text != "hello world" {
		t.Errorf("unexpected message: %+v", got)
	}
	if recorder.posted != 1 {
		t.Errorf("posted = %d, want 1", recorder.posted)
	}
}

// TestMessageHandler_Post_Validation は本文の検証エラーに400が返ることを検証する。
func TestMessageHandler_Post_Validation(t *testing.T) {
	tests := []struct {
		name string
		err  *model.APIError
	}{
		{"本文が空", model.NewMessageEmptyError()},
		{"本文が長すぎる", model.NewMessageTooLongError(150)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			messageSvc := &mockMessageService{
				postFn: func(ctx context.Context, userID int64, text string) (*model.Message, error) {
					return nil, tt.err
				},
			}
			recorder := &mockMessageMetrics{}
			h := NewMessageHandler(messageSvc, recorder)

			req := authedRequest(http.MethodPost, "/api/messages", `{"text":"x"}`, 1)
			w := httptest.NewRecorder()
			newMessageTestRouter(h).ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
			}
			if recorder.posted != 0 {
				t.Errorf("posted = %d, want 0", recorder.posted)
			}
		})
	}
}

// TestMessageHandler_Post_InvalidJSON は不正なボディに400が返ることを検証する。
func TestMessageHandler_Post_InvalidJSON(t *testing.T) {
	h := NewMessageHandler(&mockMessageService{}, nil)

	req := authedRequest(http.MethodPost, "/api/messages", "{invalid", 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

// TestMessageHandler_Get はメッセージ取得を検証する。
func TestMessageHandler_Get(t *testing.T) {
	messageSvc := &mockMessageService{
		getMessageFn: func(ctx context.Context, messageID int64) (*model.Message, error) {
			return &model.Message{ID: messageID, UserID: 2, Text: "hi"}, nil
		},
	}
	h := NewMessageHandler(messageSvc, nil)

	req := authedRequest(http.MethodGet, "/api/messages/10", "", 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got messageResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if got.ID != 10 {
		t.Errorf("id = %d, want 10", got.ID)
	}
}

// TestMessageHandler_Get_NotFound は存在しないメッセージに404が返ることを検証する。
func TestMessageHandler_Get_NotFound(t *testing.T) {
	messageSvc := &mockMessageService{
		getMessageFn: func(ctx context.Context, messageID int64) (*model.Message, error) {
			return nil, model.NewMessageNotFoundError(messageID)
		},
	}
	h := NewMessageHandler(messageSvc, nil)

	req := authedRequest(http.MethodGet, "/api/messages/999", "", 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestMessageHandler_Delete は作成者本人による削除が204を返すことを検証する。
func TestMessageHandler_Delete(t *testing.T) {
	var gotUserID, gotMessageID int64
	messageSvc := &mockMessageService{
		deleteFn: func(ctx context.Context, userID, messageID int64) error {
			gotUserID, gotMessageID = userID, messageID
			return nil
		},
	}
	h := NewMessageHandler(messageSvc, nil)

	req := authedRequest(http.MethodDelete, "/api/messages/10", "", 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusNoContent)
	}
	if gotUserID != 1 || gotMessageID != 10 {
		t.Errorf("Delete(%d, %d), want (1, 10)", gotUserID, gotMessageID)
	}
}

// TestMessageHandler_Delete_NonOwner は他ユーザーのメッセージ削除に404が返ることを検証する。
// 存在有無を漏らさないため、未検出と同じレスポンスになる。
func TestMessageHandler_Delete_NonOwner(t *testing.T) {
	messageSvc := &mockMessageService{
		deleteFn: func(ctx context.Context, userID, messageID int64) error {
			return model.NewMessageNotFoundError(messageID)
		},
	}
	h := NewMessageHandler(messageSvc, nil)

	req := authedRequest(http.MethodDelete, "/api/messages/10", "", 2)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want %d", w.Code, http.StatusNotFound)
	}
}

// TestMessageHandler_ListForUser は指定ユーザーのメッセージ一覧が返ることを検証する。
func TestMessageHandler_ListForUser(t *testing.T) {
	messageSvc := &mockMessageService{
		listForUserFn: func(ctx context.Context, userID int64) ([]*model.Message, error) {
			if userID != 2 {
				t.Errorf("userID = %d, want 2", userID)
			}
			return []*model.Message{
				{ID: 2, UserID: 2, Text: "second"},
				{ID: 1, UserID: 2, Text: "first"},
			}, nil
		},
	}
	h := NewMessageHandler(messageSvc, nil)

	req := authedRequest(http.MethodGet, "/api/users/2/messages", "", 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got []messageResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 || got[0].Text != "second" {
		t.Errorf("unexpected messages: %+v", got)
	}
}

// TestMessageHandler_HomeTimeline はホームタイムラインが返ることを検証する。
func TestMessageHandler_HomeTimeline(t *testing.T) {
	messageSvc := &mockMessageService{
		homeTimelineFn: func(ctx context.Context, userID int64) ([]*model.Message, error) {
			if userID != 1 {
				t.Errorf("userID = %d, want 1", userID)
			}
			return []*model.Message{{ID: 5, UserID: 2, Text: "from bob"}}, nil
		},
	}
	h := NewMessageHandler(messageSvc, nil)

	req := authedRequest(http.MethodGet, "/api/timeline", "", 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got []messageResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 1 || got[0].Text != "from bob" {
		t.Errorf("unexpected timeline: %+v", got)
	}
}

// TestMessageHandler_PublicTimeline はパブリックタイムラインが返ることを検証する。
func TestMessageHandler_PublicTimeline(t *testing.T) {
	messageSvc := &mockMessageService{
		publicTimelineFn: func(ctx context.Context) ([]*model.Message, error) {
			return []*model.Message{
				{ID: 3, UserID: 1, Text: "newest"},
				{ID: 2, UserID: 2, Text: "older"},
			}, nil
		},
	}
	h := NewMessageHandler(messageSvc, nil)

	req := authedRequest(http.MethodGet, "/api/messages", "", 1)
	w := httptest.NewRecorder()
	newMessageTestRouter(h).ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var got []messageResponse
	if err := json.NewDecoder(w.Body).Decode(&got); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(got) != 2 || got[0].Text != "newest" {
		t.Errorf("unexpected timeline: %+v", got)
	}
}
