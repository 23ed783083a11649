package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/warbler/internal/identity"
	"github.com/hitoshi/warbler/internal/middleware"
	"github.com/hitoshi/warbler/internal/model"
)

// defaultUserListLimit はユーザー一覧の既定の取得上限。
const defaultUserListLimit = 100

// UserServiceInterface はユーザー管理に必要なサービスインターフェース。
type UserServiceInterface interface {
	GetUser(ctx context.Context, userID int64) (*model.User, error)
	ListUsers(ctx context.Context, limit int) ([]*model.User, error)
	UpdateProfile(ctx context.Context, userID int64, input identity.UpdateProfileInput) (*model.User, error)
	Withdraw(ctx context.Context, userID int64) error
}

// RelationshipCheckerInterface は閲覧者とプロフィール対象ユーザー間の
// フォロー関係の照会インターフェース。
type RelationshipCheckerInterface interface {
	IsFollowing(ctx context.Context, userID, otherID int64) (bool, error)
	IsFollowedBy(ctx context.Context, userID, otherID int64) (bool, error)
}

// MessageCounterInterface はユーザーの投稿数の照会インターフェース。
type MessageCounterInterface interface {
	CountForUser(ctx context.Context, userID int64) (int, error)
}

// UserHandler はユーザープロフィールのHTTPハンドラー。
type UserHandler struct {
	userService   UserServiceInterface
	relationships RelationshipCheckerInterface
	messageCounts MessageCounterInterface
	config        AuthHandlerConfig
}

// NewUserHandler は新しいUserHandlerを生成する。
func NewUserHandler(
	userService UserServiceInterface,
	relationships RelationshipCheckerInterface,
	messageCounts MessageCounterInterface,
	config AuthHandlerConfig,
) *UserHandler {
	return &UserHandler{
		userService:   userService,
		relationships: relationships,
		messageCounts: messageCounts,
		config:        config,
	}
}

// profileResponse はプロフィール表示用のAPIレスポンス。
// 閲覧者が本人の場合、フォロー関係フィールドは省略される。
type profileResponse struct {
	userResponse
	MessageCount int   `json:"message_count"`
	IsFollowing  *bool `json:"is_following,omitempty"`
	IsFollowedBy *bool `json:"is_followed_by,omitempty"`
}

type updateProfileRequest struct {
	CurrentPassword string `json:"current_password"`
	Username        string `json:"username"`
	Email           string `json:"email"`
	ImageURL        string `json:"image_url"`
	HeaderImageURL  string `json:"header_image_url"`
	Bio             string `json:"bio"`
	Location        string `json:"location"`
}

// List は全ユーザーの一覧を返す。
// GET /api/users
func (h *UserHandler) List(w http.ResponseWriter, r *http.Request) {
	users, err := h.userService.ListUsers(r.Context(), defaultUserListLimit)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponses(users))
}

// Get は指定ユーザーのプロフィールを返す。
// GET /api/users/{id}
// 閲覧者が本人以外の場合、双方向のフォロー関係を含める。
func (h *UserHandler) Get(w http.ResponseWriter, r *http.Request) {
	viewerID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	targetID, err := parseIDParam(r)
	if err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	user, err := h.userService.GetUser(r.Context(), targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	count, err := h.messageCounts.CountForUser(r.Context(), targetID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	resp := profileResponse{
		userResponse: toUserResponse(user),
		MessageCount: count,
	}

	if viewerID != targetID {
		following, err := h.relationships.IsFollowing(r.Context(), viewerID, targetID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		followedBy, err := h.relationships.IsFollowedBy(r.Context(), viewerID, targetID)
		if err != nil {
			handleServiceError(w, err)
			return
		}
		resp.IsFollowing = &following
		resp.IsFollowedBy = &followedBy
	}

	writeJSONResponse(w, http.StatusOK, resp)
}

// UpdateProfile は自分のプロフィールを更新する。
// PATCH /api/users/me
// 現在のパスワードによる再認証が必要。
func (h *UserHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req updateProfileRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	user, err := h.userService.UpdateProfile(r.Context(), userID, identity.UpdateProfileInput{
		CurrentPassword: req.CurrentPassword,
		Username:        req.Username,
		Email:           req.Email,
		ImageURL:        req.ImageURL,
		HeaderImageURL:  req.HeaderImageURL,
		Bio:             req.Bio,
		Location:        req.Location,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// Withdraw は自分のアカウントを削除する（退会）。
// DELETE /api/users/me
// 投稿・フォロー関係・セッションはすべて削除され、Cookieも失効させる。
func (h *UserHandler) Withdraw(w http.ResponseWriter, r *http.Request) {
	userID, err := middleware.UserIDFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	if err := h.userService.Withdraw(r.Context(), userID); err != nil {
		handleServiceError(w, err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
	w.WriteHeader(http.StatusNoContent)
}
