// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/warbler/internal/middleware"
	"github.com/hitoshi/warbler/internal/model"
)

// sessionCookieName はセッショントークンを保持するCookieの名前。
const sessionCookieName = "session_id"

// userResponse はユーザー情報のAPIレスポンス。
type userResponse struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	Email          string    `json:"email"`
	ImageURL       string    `json:"image_url"`
	HeaderImageURL string    `json:"header_image_url"`
	Bio            string    `json:"bio"`
	Location       string    `json:"location"`
	CreatedAt      time.Time `json:"created_at"`
}

func toUserResponse(user *model.User) userResponse {
	return userResponse{
		ID:             user.ID,
		Username:       user.Username,
		Email:          user.Email,
		ImageURL:       user.ImageURL,
		HeaderImageURL: user.HeaderImageURL,
		Bio:            user.Bio,
		Location:       user.Location,
		CreatedAt:      user.CreatedAt,
	}
}

func toUserResponses(users []*model.User) []userResponse {
	responses := make([]userResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, toUserResponse(user))
	}
	return responses
}

// messageResponse はメッセージのAPIレスポンス。
type messageResponse struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Text      string    `json:"text"`
	CreatedAt time.Time `json:"created_at"`
}

func toMessageResponse(msg *model.Message) messageResponse {
	return messageResponse{
		ID:        msg.ID,
		UserID:    msg.UserID,
		Text:      msg.Text,
		CreatedAt: msg.CreatedAt,
	}
}

func toMessageResponses(msgs []*model.Message) []messageResponse {
	responses := make([]messageResponse, 0, len(msgs))
	for _, msg := range msgs {
		responses = append(responses, toMessageResponse(msg))
	}
	return responses
}

// decodeJSONBody はリクエストボディをJSONとしてデコードする。
func decodeJSONBody(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}

// writeJSONResponse はJSONレスポンスを書き込む。
func writeJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("レスポンスのエンコードに失敗しました",
			slog.String("error", err.Error()),
		)
	}
}

// writeAPIErrorResponse はAPIエラーを統一フォーマットで書き込む。
func writeAPIErrorResponse(w http.ResponseWriter, statusCode int, apiErr *model.APIError) {
	middleware.WriteErrorResponse(w, statusCode, apiErr)
}

// handleServiceError はサービス層のエラーをHTTPレスポンスに変換する。
// model.APIErrorはコードに応じたステータスで返し、それ以外は500として扱う。
func handleServiceError(w http.ResponseWriter, err error) {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		writeAPIErrorResponse(w, mapAPIErrorToHTTPStatus(apiErr), apiErr)
		return
	}

	slog.Error("サービス層でエラーが発生しました",
		slog.String("error", err.Error()),
	)
	middleware.WriteInternalServerError(w)
}

// mapAPIErrorToHTTPStatus はエラーコードをHTTPステータスコードに対応付ける。
func mapAPIErrorToHTTPStatus(apiErr *model.APIError) int {
	switch apiErr.Code {
	case model.ErrCodeUsernameRequired,
		model.ErrCodeEmailRequired,
		model.ErrCodePasswordRequired,
		model.ErrCodeMessageEmpty,
		model.ErrCodeMessageTooLong,
		model.ErrCodeSelfFollow,
		model.ErrCodeInvalidImageURL,
		model.ErrCodeInvalidRequest:
		return http.StatusBadRequest
	case model.ErrCodeInvalidCredentials,
		model.ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case model.ErrCodeUserNotFound,
		model.ErrCodeMessageNotFound:
		return http.StatusNotFound
	case model.ErrCodeUsernameTaken,
		model.ErrCodeEmailTaken,
		model.ErrCodeAlreadyFollowing:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// parseIDParam はURLパスパラメータ{id}をint64として取り出す。
func parseIDParam(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, model.NewInvalidRequestError()
	}
	return id, nil
}
