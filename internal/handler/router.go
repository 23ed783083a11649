package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/hitoshi/warbler/internal/middleware"
)

// HealthChecker はデータベース疎通確認のインターフェース。
// *sql.DBがそのまま満たす。
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はルーター構築に必要な依存関係。
type RouterDeps struct {
	Logger            *slog.Logger
	DB                HealthChecker
	SessionFinder     middleware.SessionFinder
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	CORSAllowedOrigin string

	// StatusRecorderとMetricsHandlerはnilでもよい（メトリクス無効時）。
	StatusRecorder middleware.StatusRecorder
	MetricsHandler http.Handler

	AuthHandler    *AuthHandler
	UserHandler    *UserHandler
	FollowHandler  *FollowHandler
	MessageHandler *MessageHandler
}

// NewRouter はアプリケーションのHTTPルーターを構築する。
//
// ミドルウェアは Recovery → SecurityHeaders → Logging → CORS → CSRF の順で
// 全ルートに適用する。/api配下はさらにセッション認証とレート制限を必須とし、
// メッセージ投稿には投稿専用の追加レート制限を適用する。
func NewRouter(deps RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	if deps.StatusRecorder != nil {
		r.Use(middleware.NewMetricsMiddleware(deps.StatusRecorder))
	}
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

	r.Get("/health", newHealthHandler(deps.DB))
	if deps.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", deps.MetricsHandler)
	}

	// 認証エンドポイント（セッション不要）
	r.Route("/auth", func(r chi.Router) {
		r.Post("/register", deps.AuthHandler.Register)
		r.Post("/login", deps.AuthHandler.Login)
		r.Post("/logout", deps.AuthHandler.Logout)
		r.Get("/me", deps.AuthHandler.Me)
	})

	r.Route("/api", func(r chi.Router) {
		r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

		// 認証必須のAPIエンドポイント
		r.Group(func(r chi.Router) {
			r.Use(middleware.NewSessionMiddleware(deps.SessionFinder))
			r.Use(deps.RateLimiter.GeneralMiddleware())

			r.Route("/users", func(r chi.Router) {
				r.Get("/", deps.UserHandler.List)
				r.Patch("/me", deps.UserHandler.UpdateProfile)
				r.Delete("/me", deps.UserHandler.Withdraw)
				r.Get("/{id}", deps.UserHandler.Get)
				r.Post("/{id}/follow", deps.FollowHandler.Follow)
				r.Delete("/{id}/follow", deps.FollowHandler.Unfollow)
				r.Get("/{id}/followers", deps.FollowHandler.Followers)
				r.Get("/{id}/following", deps.FollowHandler.Following)
				r.Get("/{id}/messages", deps.MessageHandler.ListForUser)
			})

			r.Route("/messages", func(r chi.Router) {
				r.With(deps.RateLimiter.PostMiddleware()).Post("/", deps.MessageHandler.Post)
				r.Get("/", deps.MessageHandler.PublicTimeline)
				r.Get("/{id}", deps.MessageHandler.Get)
				r.Delete("/{id}", deps.MessageHandler.Delete)
			})

			r.Get("/timeline", deps.MessageHandler.HomeTimeline)
		})
	})

	return r
}

// newHealthHandler はデータベース疎通を含むヘルスチェックハンドラーを返す。
func newHealthHandler(db HealthChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("ヘルスチェックでデータベース疎通に失敗しました",
					slog.String("error", err.Error()),
				)
				writeJSONResponse(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
				return
			}
		}
		writeJSONResponse(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
