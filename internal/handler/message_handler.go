package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/warbler/internal/middleware"
	"github.com/hitoshi/warbler/internal/model"
)

// MessageServiceInterface はメッセージ操作に必要なサービスインターフェース。
type MessageServiceInterface interface {
	Post(ctx context.Context, userID int64, text string) (*model.Message, error)
	GetMessage(ctx context.Context, messageID int64) (*model.Message, error)
	Delete(ctx context.Context, userID, messageID int64) error
	ListForUser(ctx context.Context, userID int64) ([]*model.Message, error)
	HomeTimeline(ctx context.Context, userID int64) ([]*model.Message, error)
	PublicTimeline(ctx context.Context) ([]*model.Message, error)
}

// MessageMetricsRecorder は投稿メトリクスの記録インターフェース。
type MessageMetricsRecorder interface {
	RecordMessagePosted()
}

// MessageHandler はメッセージのHTTPハンドラー。
type MessageHandler struct {
	messageService MessageServiceInterface
	metrics        MessageMetricsRecorder
}

// NewMessageHandler は新しいMessageHandlerを生成する。
// metricsはnilでもよい。
func NewMessageHandler(messageService MessageServiceInterface, metrics MessageMetricsRecorder) *MessageHandler {
	return &MessageHandler{
		messageService: messageService,
		metrics:        metrics,
	}
}

type postMessageRequest struct {
	Text string `json:"text"`
}

// Post は新しいメッセージの投稿を処理する。
// POST /api/messages
func (h *MessageHandler) Post(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req postMessageRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	msg, err := h.messageService.Post(r.Context(), userID, req.Text)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordMessagePosted()
	}

	writeJSONResponse(w, http.StatusCreated, toMessageResponse(msg))
}

// Get は指定IDのメッセージを返す。
// GET /api/messages/{id}
func (h *MessageHandler) Get(w http.ResponseWriter, r *http.Request) {
	messageID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	msg, err := h.messageService.GetMessage(r.Context(), messageID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMessageResponse(msg))
}

// Delete はメッセージの削除を処理する。作成者本人のみが削除できる。
// DELETE /api/messages/{id}
func (h *MessageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	messageID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.messageService.Delete(r.Context(), userID, messageID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ListForUser は指定ユーザーのメッセージを新しい順で返す。
// GET /api/users/{id}/messages
func (h *MessageHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	msgs, err := h.messageService.ListForUser(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMessageResponses(msgs))
}

// HomeTimeline は自分とフォロー中ユーザーのメッセージを新しい順で返す。
// GET /api/timeline
func (h *MessageHandler) HomeTimeline(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	msgs, err := h.messageService.HomeTimeline(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMessageResponses(msgs))
}

// PublicTimeline は全ユーザーのメッセージを新しい順で返す。
// GET /api/messages
func (h *MessageHandler) PublicTimeline(w http.ResponseWriter, r *http.Request) {
	msgs, err := h.messageService.PublicTimeline(r.Context())
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toMessageResponses(msgs))
}
