package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/warbler/internal/middleware"
	"github.com/hitoshi/warbler/internal/model"
)

// FollowServiceInterface はフォロー関係の操作に必要なサービスインターフェース。
type FollowServiceInterface interface {
	Follow(ctx context.Context, followerID, followeeID int64) error
	Unfollow(ctx context.Context, followerID, followeeID int64) error
	Followers(ctx context.Context, userID int64) ([]*model.User, error)
	Following(ctx context.Context, userID int64) ([]*model.User, error)
}

// FollowMetricsRecorder はフォローメトリクスの記録インターフェース。
type FollowMetricsRecorder interface {
	RecordFollow()
}

// FollowHandler はフォロー関係のHTTPハンドラー。
type FollowHandler struct {
	followService FollowServiceInterface
	metrics       FollowMetricsRecorder
}

// NewFollowHandler は新しいFollowHandlerを生成する。
// metricsはnilでもよい。
func NewFollowHandler(followService FollowServiceInterface, metrics FollowMetricsRecorder) *FollowHandler {
	return &FollowHandler{
		followService: followService,
		metrics:       metrics,
	}
}

// Follow は指定ユーザーのフォローを処理する。
// POST /api/users/{id}/follow
func (h *FollowHandler) Follow(w http.ResponseWriter, r *http.Request) {
	followerID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	followeeID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.followService.Follow(r.Context(), followerID, followeeID); err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordFollow()
	}

	w.WriteHeader(http.StatusNoContent)
}

// Unfollow は指定ユーザーのフォロー解除を処理する。
// DELETE /api/users/{id}/follow
// フォローしていないユーザーへの解除も204を返す（冪等）。
func (h *FollowHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	followerID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	followeeID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	if err := h.followService.Unfollow(r.Context(), followerID, followeeID); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Followers は指定ユーザーのフォロワー一覧を返す。
// GET /api/users/{id}/followers
func (h *FollowHandler) Followers(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	users, err := h.followService.Followers(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponses(users))
}

// Following は指定ユーザーのフォロー中一覧を返す。
// GET /api/users/{id}/following
func (h *FollowHandler) Following(w http.ResponseWriter, r *http.Request) {
	userID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	users, err := h.followService.Following(r.Context(), userID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponses(users))
}
