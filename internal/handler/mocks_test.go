package handler

import (
	"context"
	"sync"
	"time"

	"github.com/hitoshi/aurorah/internal/async"
	"github.com/hitoshi/aurorah/internal/model"
)

// --- モック定義 ---

// mockCounterService はCounterServiceInterfaceのモック実装。
type mockCounterService struct {
	valueFn     func() int64
	incrementFn func() int64
	decrementFn func() int64
	resetFn     func() int64
}

func (m *mockCounterService) Value() int64 {
	if m.valueFn != nil {
		return m.valueFn()
	}
	return 0
}

func (m *mockCounterService) Increment() int64 {
	if m.incrementFn != nil {
		return m.incrementFn()
	}
	return 1
}

func (m *mockCounterService) Decrement() int64 {
	if m.decrementFn != nil {
		return m.decrementFn()
	}
	return -1
}

func (m *mockCounterService) Reset() int64 {
	if m.resetFn != nil {
		return m.resetFn()
	}
	return 0
}

// mockAuthService はAuthServiceInterfaceのモック実装。
type mockAuthService struct {
	stateFn         func() model.AuthState
	currentUserFn   func() (*model.User, bool)
	loginFn         func(ctx context.Context, email, password string) (model.AuthResult, error)
	createAccountFn func(ctx context.Context, req model.CreateAccountRequest) (model.AuthResult, error)
	logoutFn        func()
}

func (m *mockAuthService) State() model.AuthState {
	if m.stateFn != nil {
		return m.stateFn()
	}
	return model.AuthState{}
}

func (m *mockAuthService) CurrentUser() (*model.User, bool) {
	if m.currentUserFn != nil {
		return m.currentUserFn()
	}
	return nil, false
}

func (m *mockAuthService) LoginAsync(ctx context.Context, email, password string) *async.Future[model.AuthResult] {
	return async.Go(ctx, func(ctx context.Context) (model.AuthResult, error) {
		if m.loginFn != nil {
			return m.loginFn(ctx, email, password)
		}
		return model.AuthResult{Success: true, Message: "Login successful"}, nil
	})
}

func (m *mockAuthService) CreateAccountAsync(ctx context.Context, req model.CreateAccountRequest) *async.Future[model.AuthResult] {
	return async.Go(ctx, func(ctx context.Context) (model.AuthResult, error) {
		if m.createAccountFn != nil {
			return m.createAccountFn(ctx, req)
		}
		return model.AuthResult{Success: true, Message: "Account created successfully"}, nil
	})
}

func (m *mockAuthService) Logout() {
	if m.logoutFn != nil {
		m.logoutFn()
	}
}

// mockMetrics はmetrics.MetricsCollectorのモック実装。
type mockMetrics struct {
	mu           sync.Mutex
	counterOps   []string
	counterValue int64
	authAttempts map[string]string
	authLatency  map[string]time.Duration
	httpStatuses []int
}

func newMockMetrics() *mockMetrics {
	return &mockMetrics{
		authAttempts: make(map[string]string),
		authLatency:  make(map[string]time.Duration),
	}
}

func (m *mockMetrics) RecordCounterOperation(op string, value int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.counterOps = append(m.counterOps, op)
	m.counterValue = value
}

func (m *mockMetrics) RecordAuthAttempt(op string, result string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authAttempts[op] = result
}

func (m *mockMetrics) RecordAuthLatency(op string, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.authLatency[op] = duration
}

func (m *mockMetrics) RecordHTTPRequest(statusCode int, duration time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.httpStatuses = append(m.httpStatuses, statusCode)
}
