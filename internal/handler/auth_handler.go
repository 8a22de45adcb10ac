// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/aurorah/internal/async"
	"github.com/hitoshi/aurorah/internal/metrics"
	"github.com/hitoshi/aurorah/internal/middleware"
	"github.com/hitoshi/aurorah/internal/model"
)

// 待ち時間中の中断時に返す汎用メッセージ
const (
	messageLoginError         = "An error occurred during login"
	messageCreateAccountError = "An error occurred during account creation"
)

// メトリクスの操作ラベル
const (
	opLogin         = "login"
	opCreateAccount = "create_account"
)

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
// LoginAsync・CreateAccountAsyncのFutureはctxの終了後、速やかに確定しなければならない。
type AuthServiceInterface interface {
	State() model.AuthState
	CurrentUser() (*model.User, bool)
	LoginAsync(ctx context.Context, email, password string) *async.Future[model.AuthResult]
	CreateAccountAsync(ctx context.Context, req model.CreateAccountRequest) *async.Future[model.AuthResult]
	Logout()
}

// AuthMetricsRecorder は認証操作のメトリクス記録に必要なインターフェース。
type AuthMetricsRecorder interface {
	RecordAuthAttempt(op string, result string)
	RecordAuthLatency(op string, duration time.Duration)
}

// loginRequest はログインのリクエストボディ。
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// meResponse はログイン中ユーザーのレスポンス。
type meResponse struct {
	Email      string    `json:"email"`
	SignedInAt time.Time `json:"signedInAt"`
}

// AuthHandler は認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	metrics AuthMetricsRecorder
}

// NewAuthHandler はAuthHandlerを生成する。recorderがnilの場合は記録しない。
func NewAuthHandler(service AuthServiceInterface, recorder AuthMetricsRecorder) *AuthHandler {
	if recorder == nil {
		recorder = metrics.NopCollector{}
	}
	return &AuthHandler{
		service: service,
		metrics: recorder,
	}
}

// State は現在の認証状態を返す。
// GET /auth/state
func (h *AuthHandler) State(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.service.State())
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := h.service.CurrentUser()
	if !ok {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSON(w, http.StatusOK, meResponse{
		Email:      user.Email,
		SignedInAt: user.SignedInAt,
	})
}

// Login はメールアドレスとパスワードでログインする。
// 検証失敗は200でsuccess=falseを返す。
// POST /auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	future := h.service.LoginAsync(r.Context(), req.Email, req.Password)
	h.respondResult(w, r, opLogin, future, messageLoginError)
}

// Signup はアカウントを作成し、成功した場合はそのままログイン状態にする。
// POST /auth/signup
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req model.CreateAccountRequest
	if err := decodeJSONBody(w, r, &req); err != nil {
		handleServiceError(w, r, err)
		return
	}

	future := h.service.CreateAccountAsync(r.Context(), req)
	h.respondResult(w, r, opCreateAccount, future, messageCreateAccountError)
}

// Logout はログイン状態を破棄する。未ログインでも成功する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.service.Logout()
	w.WriteHeader(http.StatusNoContent)
}

// respondResult はFutureの完了を待ち、結果をレスポンスとして書き込む。
// 待ち時間中の中断は汎用メッセージのsuccess=falseとして返す。
func (h *AuthHandler) respondResult(w http.ResponseWriter, r *http.Request, op string, future *async.Future[model.AuthResult], errorMessage string) {
	start := time.Now()
	// ストアはctxの終了を検知して遷移せずに戻るため、確定した結果をそのまま返す
	result, err := future.Result()
	h.metrics.RecordAuthLatency(op, time.Since(start))

	if err != nil {
		slog.Error("auth operation failed",
			slog.String("op", op),
			slog.String("error", err.Error()),
			slog.String("request_id", middleware.RequestIDFromContext(r.Context())),
		)
		h.metrics.RecordAuthAttempt(op, metrics.ResultError)
		writeJSON(w, http.StatusOK, model.AuthResult{Success: false, Message: errorMessage})
		return
	}

	if result.Success {
		h.metrics.RecordAuthAttempt(op, metrics.ResultSuccess)
	} else {
		h.metrics.RecordAuthAttempt(op, metrics.ResultRejected)
	}
	writeJSON(w, http.StatusOK, result)
}
