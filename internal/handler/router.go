package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/aurorah/internal/metrics"
	"github.com/hitoshi/aurorah/internal/middleware"
)

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	// ストア
	CounterService CounterServiceInterface
	AuthService    AuthServiceInterface

	// メトリクス（nilの場合は記録しない / /metricsを公開しない）
	Metrics  metrics.MetricsCollector
	Gatherer prometheus.Gatherer

	// ミドルウェア依存
	RateLimiter       *middleware.RateLimiter
	CSRFConfig        middleware.CSRFConfig
	CORSAllowedOrigin string
	Logger            *slog.Logger
}

// NewRouter は全エンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	Recovery → SecurityHeaders → RequestID → Identity → Logging → Metrics → CORS
//	→ (/api, /auth) CSRF → RateLimit(General) → (/auth/login, /auth/signup) RateLimit(Auth)
//
// /health と /metrics はCSRF・レート制限の外に配置する。
func NewRouter(deps *RouterDeps) http.Handler {
	collector := deps.Metrics
	if collector == nil {
		collector = metrics.NopCollector{}
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()

	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewIdentityMiddleware(deps.AuthService))
	r.Use(middleware.NewLoggingMiddleware(logger))
	r.Use(middleware.NewMetricsMiddleware(collector))
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))

	counterHandler := NewCounterHandler(deps.CounterService, collector)
	authHandler := NewAuthHandler(deps.AuthService, collector)

	// --- 運用エンドポイント ---
	r.Get("/health", Health)
	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- アプリケーションAPI ---
	// ミドルウェアスタック: CSRF → RateLimit(General)
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())

		r.Route("/api", func(r chi.Router) {
			r.Method(http.MethodGet, "/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))

			r.Route("/counter", func(r chi.Router) {
				r.Get("/", counterHandler.Get)
				r.Post("/increment", counterHandler.Increment)
				r.Post("/decrement", counterHandler.Decrement)
				r.Post("/reset", counterHandler.Reset)
			})
		})

		r.Route("/auth", func(r chi.Router) {
			r.Get("/state", authHandler.State)
			r.Get("/me", authHandler.Me)
			r.Post("/logout", authHandler.Logout)

			// ログイン・アカウント作成は専用レート制限を追加
			r.Group(func(r chi.Router) {
				r.Use(deps.RateLimiter.AuthMiddleware())
				r.Post("/login", authHandler.Login)
				r.Post("/signup", authHandler.Signup)
			})
		})
	})

	return r
}
