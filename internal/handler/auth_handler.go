package handler

import (
	"context"
	"net/http"

	"github.com/hitoshi/warbler/internal/identity"
	"github.com/hitoshi/warbler/internal/model"
)

// SignupServiceInterface はユーザー登録に必要なサービスインターフェース。
type SignupServiceInterface interface {
	Signup(ctx context.Context, input identity.SignupInput) (*model.User, error)
}

// AuthServiceInterface はセッション認証に必要なサービスインターフェース。
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password string) (*model.Session, *model.User, error)
	Logout(ctx context.Context, sessionID string) error
	GetCurrentUser(ctx context.Context, sessionID string) (*model.User, error)
	CreateSession(ctx context.Context, userID int64) (*model.Session, error)
}

// AuthMetricsRecorder は認証系メトリクスの記録インターフェース。
type AuthMetricsRecorder interface {
	RecordSignup()
	RecordLogin(success bool)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はユーザー登録とセッション認証のHTTPハンドラー。
type AuthHandler struct {
	signupService SignupServiceInterface
	authService   AuthServiceInterface
	metrics       AuthMetricsRecorder
	config        AuthHandlerConfig
}

// NewAuthHandler は新しいAuthHandlerを生成する。
// metricsはnilでもよい。
func NewAuthHandler(
	signupService SignupServiceInterface,
	authService AuthServiceInterface,
	metrics AuthMetricsRecorder,
	config AuthHandlerConfig,
) *AuthHandler {
	return &AuthHandler{
		signupService: signupService,
		authService:   authService,
		metrics:       metrics,
		config:        config,
	}
}

type signupRequest struct {
	Username       string `json:"username"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	ImageURL       string `json:"image_url"`
	HeaderImageURL string `json:"header_image_url"`
	Bio            string `json:"bio"`
	Location       string `json:"location"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Register はユーザー登録を処理する。
// POST /auth/register
// 登録成功時はそのままログイン状態とし、セッションCookieを設定して201を返す。
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	user, err := h.signupService.Signup(r.Context(), identity.SignupInput{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		ImageURL:       req.ImageURL,
		HeaderImageURL: req.HeaderImageURL,
		Bio:            req.Bio,
		Location:       req.Location,
	})
	if err != nil {
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordSignup()
	}

	session, err := h.authService.CreateSession(r.Context(), user.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	h.setSessionCookie(w, session.ID)
	writeJSONResponse(w, http.StatusCreated, toUserResponse(user))
}

// Login はログインを処理する。
// POST /auth/login
// 認証成功時はセッションCookieを設定してユーザー情報を返す。
// ユーザー名不明とパスワード不一致は区別せず、同一の401を返す。
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError())
		return
	}

	session, user, err := h.authService.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		if h.metrics != nil {
			h.metrics.RecordLogin(false)
		}
		handleServiceError(w, err)
		return
	}

	if h.metrics != nil {
		h.metrics.RecordLogin(true)
	}

	h.setSessionCookie(w, session.ID)
	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// Logout はログアウトを処理する。
// POST /auth/logout
// サーバー側のセッションを破棄し、Cookieを失効させる。
// セッションが既に無効でも204を返す（冪等）。
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(sessionCookieName)
	if err == nil && cookie.Value != "" {
		if err := h.authService.Logout(r.Context(), cookie.Value); err != nil {
			handleServiceError(w, err)
			return
		}
	}

	h.clearSessionCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

// Me は現在のログインユーザーを返す。
// GET /auth/me
// Cookieなし・不明トークン・期限切れのいずれも匿名として401を返す。
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	var sessionID string
	if cookie, err := r.Cookie(sessionCookieName); err == nil {
		sessionID = cookie.Value
	}

	user, err := h.authService.GetCurrentUser(r.Context(), sessionID)
	if err != nil {
		handleServiceError(w, err)
		return
	}
	if user == nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSONResponse(w, http.StatusOK, toUserResponse(user))
}

// setSessionCookie はセッショントークンをHTTP Only Cookieとして設定する。
func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, sessionID string) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessionCookieName,
		Value:    sessionID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookie はセッションCookieを失効させる。
func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
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
}
