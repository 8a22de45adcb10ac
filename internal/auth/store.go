// Package auth は模擬的なインメモリ認証を提供する。
// プロセス全体で1件のログインセッションのみを保持する。
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/hitoshi/aurorah/internal/async"
	"github.com/hitoshi/aurorah/internal/model"
)

// 結果メッセージ
const (
	MessageLoginSucceeded   = "Login successful"
	MessageAccountCreated   = "Account created successfully"
	MessageValidationFailed = "Please fill in all required fields"
)

// StoreConfig はStoreの設定。
type StoreConfig struct {
	Policy  Policy
	Latency Latency      // nilの場合はNoLatency
	Logger  *slog.Logger // nilの場合はslog.Default()
}

// Store はログイン状態（LoggedOut / LoggedIn(email)）を保持する認証ストア。
// 状態の読み書きはRWMutexで保護し、待ち時間の模擬はロックの外で行う。
type Store struct {
	mu      sync.RWMutex
	current *model.User

	policy  Policy
	latency Latency
	logger  *slog.Logger
	now     func() time.Time
}

// NewStore はログアウト状態のStoreを生成する。
func NewStore(config StoreConfig) *Store {
	if config.Policy.MinPasswordLength < 1 {
		config.Policy.MinPasswordLength = DefaultMinPasswordLength
	}
	if config.Latency == nil {
		config.Latency = NoLatency{}
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	return &Store{
		policy:  config.Policy,
		latency: config.Latency,
		logger:  config.Logger,
		now:     time.Now,
	}
}

// State は現在の認証状態を返す。副作用はない。
func (s *Store) State() model.AuthState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return model.AuthState{IsAuthenticated: s.current != nil}
}

// CurrentUser はログイン中のユーザーを返す。未ログインの場合はfalseを返す。
func (s *Store) CurrentUser() (*model.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil, false
	}
	u := *s.current
	return &u, true
}

// Login は認証情報を検証し、成功した場合はLoggedIn(email)に遷移する。
// 検証失敗はSuccess=falseの結果として返し、状態は変更しない。
// 遷移前にctxが終了した場合のみerrorを返す。
func (s *Store) Login(ctx context.Context, email, password string) (model.AuthResult, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return model.AuthResult{}, fmt.Errorf("login interrupted: %w", err)
	}

	if err := s.policy.ValidateLogin(email, password); err != nil {
		s.logger.Info("login rejected", slog.String("reason", err.Error()))
		return failure(err), nil
	}

	if err := s.signIn(ctx, email); err != nil {
		return model.AuthResult{}, fmt.Errorf("login interrupted: %w", err)
	}
	s.logger.Info("user logged in", slog.String("email", model.MaskEmail(email)))

	return model.AuthResult{Success: true, Message: MessageLoginSucceeded}, nil
}

// CreateAccount はアカウント作成入力を検証し、成功した場合はLoggedIn(req.Email)に遷移する。
// 入力は保持せず、メールアドレスのみをセッションとして記録する。
func (s *Store) CreateAccount(ctx context.Context, req model.CreateAccountRequest) (model.AuthResult, error) {
	if err := s.latency.Wait(ctx); err != nil {
		return model.AuthResult{}, fmt.Errorf("account creation interrupted: %w", err)
	}

	if err := s.policy.ValidateCreateAccount(req); err != nil {
		s.logger.Info("account creation rejected", slog.String("reason", err.Error()))
		return failure(err), nil
	}

	if err := s.signIn(ctx, req.Email); err != nil {
		return model.AuthResult{}, fmt.Errorf("account creation interrupted: %w", err)
	}
	s.logger.Info("account created", slog.String("email", model.MaskEmail(req.Email)))

	return model.AuthResult{Success: true, Message: MessageAccountCreated}, nil
}

// Logout はLoggedOutに遷移する。既にログアウト状態の場合は何もしない。
func (s *Store) Logout() {
	s.mu.Lock()
	wasLoggedIn := s.current != nil
	s.current = nil
	s.mu.Unlock()

	if wasLoggedIn {
		s.logger.Info("user logged out")
	}
}

// LoginAsync はLoginを別goroutineで実行し、完了を通知するFutureを返す。
func (s *Store) LoginAsync(ctx context.Context, email, password string) *async.Future[model.AuthResult] {
	return async.Go(ctx, func(ctx context.Context) (model.AuthResult, error) {
		return s.Login(ctx, email, password)
	})
}

// CreateAccountAsync はCreateAccountを別goroutineで実行し、完了を通知するFutureを返す。
func (s *Store) CreateAccountAsync(ctx context.Context, req model.CreateAccountRequest) *async.Future[model.AuthResult] {
	return async.Go(ctx, func(ctx context.Context) (model.AuthResult, error) {
		return s.CreateAccount(ctx, req)
	})
}

// signIn はセッションを置き換える。既存のログインは上書きされる。
// ctxが終了済みの場合は遷移せずにctx.Err()を返す。
func (s *Store) signIn(ctx context.Context, email string) error {
	user := &model.User{
		Email:      strings.TrimSpace(email),
		SignedInAt: s.now(),
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	s.current = user
	return nil
}

// failure は検証エラーをSuccess=falseの結果に変換する。
func failure(err error) model.AuthResult {
	var apiErr *model.APIError
	if errors.As(err, &apiErr) {
		return model.AuthResult{Success: false, Message: apiErr.Message}
	}
	return model.AuthResult{Success: false, Message: MessageValidationFailed}
}
