package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/hitoshi/aurorah/internal/metrics"
	"github.com/hitoshi/aurorah/internal/middleware"
	"github.com/hitoshi/aurorah/internal/model"
)

func decodeAuthResult(t *testing.T, w *httptest.ResponseRecorder) model.AuthResult {
	t.Helper()
	var result model.AuthResult
	if err := json.NewDecoder(w.Body).Decode(&result); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return result
}

// --- GET /auth/state テスト ---

func TestAuthHandler_State(t *testing.T) {
	for _, authenticated := range []bool{true, false} {
		h := NewAuthHandler(&mockAuthService{
			stateFn: func() model.AuthState { return model.AuthState{IsAuthenticated: authenticated} },
		}, nil)

		w := httptest.NewRecorder()
		h.State(w, httptest.NewRequest(http.MethodGet, "/auth/state", nil))

		var body map[string]bool
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if body["isAuthenticated"] != authenticated {
			t.Errorf("isAuthenticated = %v, want %v", body["isAuthenticated"], authenticated)
		}
	}
}

// --- GET /auth/me テスト ---

func TestAuthHandler_Me_LoggedIn(t *testing.T) {
	signedInAt := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	h := NewAuthHandler(&mockAuthService{
		currentUserFn: func() (*model.User, bool) {
			return &model.User{Email: "user@example.com", SignedInAt: signedInAt}, true
		},
	}, nil)

	w := httptest.NewRecorder()
	h.Me(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	var body struct {
		Email      string    `json:"email"`
		SignedInAt time.Time `json:"signedInAt"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Email != "user@example.com" {
		t.Errorf("email = %q, want %q", body.Email, "user@example.com")
	}
	if !body.SignedInAt.Equal(signedInAt) {
		t.Errorf("signedInAt = %v, want %v", body.SignedInAt, signedInAt)
	}
}

func TestAuthHandler_Me_LoggedOut_ReturnsUnauthorized(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{}, nil)

	w := httptest.NewRecorder()
	h.Me(w, httptest.NewRequest(http.MethodGet, "/auth/me", nil))

	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
	}

	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeUnauthorized {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeUnauthorized)
	}
}

// --- POST /auth/login テスト ---

func TestAuthHandler_Login_Success(t *testing.T) {
	var gotEmail, gotPassword string
	rec := newMockMetrics()
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (model.AuthResult, error) {
			gotEmail, gotPassword = email, password
			return model.AuthResult{Success: true, Message: "Login successful"}, nil
		},
	}, rec)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"abcdef"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	result := decodeAuthResult(t, w)
	if !result.Success || result.Message != "Login successful" {
		t.Errorf("result = %+v, want success", result)
	}
	if gotEmail != "a@b.com" || gotPassword != "abcdef" {
		t.Errorf("service called with (%q, %q)", gotEmail, gotPassword)
	}
	if rec.authAttempts[opLogin] != metrics.ResultSuccess {
		t.Errorf("recorded result = %q, want %q", rec.authAttempts[opLogin], metrics.ResultSuccess)
	}
	if _, ok := rec.authLatency[opLogin]; !ok {
		t.Error("expected login latency to be recorded")
	}
}

func TestAuthHandler_Login_ValidationFailure_Returns200(t *testing.T) {
	rec := newMockMetrics()
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (model.AuthResult, error) {
			return model.AuthResult{Success: false, Message: "Password must be at least 6 characters"}, nil
		},
	}, rec)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"abc"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	result := decodeAuthResult(t, w)
	if result.Success {
		t.Error("expected success=false")
	}
	if result.Message != "Password must be at least 6 characters" {
		t.Errorf("message = %q", result.Message)
	}
	if rec.authAttempts[opLogin] != metrics.ResultRejected {
		t.Errorf("recorded result = %q, want %q", rec.authAttempts[opLogin], metrics.ResultRejected)
	}
}

func TestAuthHandler_Login_ServiceError_ReturnsGenericMessage(t *testing.T) {
	rec := newMockMetrics()
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (model.AuthResult, error) {
			return model.AuthResult{}, context.DeadlineExceeded
		},
	}, rec)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"abcdef"}`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (errors must not surface as 5xx)", w.Code, http.StatusOK)
	}
	result := decodeAuthResult(t, w)
	if result.Success || result.Message != "An error occurred during login" {
		t.Errorf("result = %+v, want generic login failure", result)
	}
	if rec.authAttempts[opLogin] != metrics.ResultError {
		t.Errorf("recorded result = %q, want %q", rec.authAttempts[opLogin], metrics.ResultError)
	}
}

func TestAuthHandler_Login_ClientGone_ReturnsGenericMessage(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (model.AuthResult, error) {
			<-ctx.Done()
			return model.AuthResult{}, ctx.Err()
		},
	}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"abcdef"}`)).WithContext(ctx)
	w := httptest.NewRecorder()

	h.Login(w, req)

	result := decodeAuthResult(t, w)
	if result.Success || result.Message != "An error occurred during login" {
		t.Errorf("result = %+v, want generic login failure", result)
	}
}

// TestAuthHandler_Login_CompletedBeforeCancel_ReportsOutcome は
// 遷移完了直後にリクエストが終了しても、確定した結果を返すことを検証する。
func TestAuthHandler_Login_CompletedBeforeCancel_ReportsOutcome(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := newMockMetrics()
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(_ context.Context, email, password string) (model.AuthResult, error) {
			cancel()
			return model.AuthResult{Success: true, Message: "Login successful"}, nil
		},
	}, rec)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		strings.NewReader(`{"email":"a@b.com","password":"abcdef"}`)).WithContext(ctx)
	w := httptest.NewRecorder()

	h.Login(w, req)

	result := decodeAuthResult(t, w)
	if !result.Success {
		t.Errorf("result = %+v, want success", result)
	}
	if rec.authAttempts[opLogin] != metrics.ResultSuccess {
		t.Errorf("recorded result = %q, want %q", rec.authAttempts[opLogin], metrics.ResultSuccess)
	}
}

func TestAuthHandler_Login_InvalidJSON_Returns400(t *testing.T) {
	called := false
	h := NewAuthHandler(&mockAuthService{
		loginFn: func(ctx context.Context, email, password string) (model.AuthResult, error) {
			called = true
			return model.AuthResult{}, nil
		},
	}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{"email":`))
	w := httptest.NewRecorder()

	h.Login(w, req)

	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
	var body middleware.ErrorResponseBody
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if body.Code != model.ErrCodeInvalidRequest {
		t.Errorf("code = %q, want %q", body.Code, model.ErrCodeInvalidRequest)
	}
	if called {
		t.Error("service should not be called for malformed body")
	}
}

// --- POST /auth/signup テスト ---

func TestAuthHandler_Signup_PassesAllFields(t *testing.T) {
	var got model.CreateAccountRequest
	rec := newMockMetrics()
	h := NewAuthHandler(&mockAuthService{
		createAccountFn: func(ctx context.Context, req model.CreateAccountRequest) (model.AuthResult, error) {
			got = req
			return model.AuthResult{Success: true, Message: "Account created successfully"}, nil
		},
	}, rec)

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","phone":"555-0100","password":"engine"}`
	w := httptest.NewRecorder()

	h.Signup(w, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(body)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	want := model.CreateAccountRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "555-0100",
		Password:  "engine",
	}
	if got != want {
		t.Errorf("request = %+v, want %+v", got, want)
	}
	if result := decodeAuthResult(t, w); !result.Success {
		t.Errorf("result = %+v, want success", result)
	}
	if rec.authAttempts[opCreateAccount] != metrics.ResultSuccess {
		t.Errorf("recorded result = %q, want %q", rec.authAttempts[opCreateAccount], metrics.ResultSuccess)
	}
}

func TestAuthHandler_Signup_ServiceError_ReturnsGenericMessage(t *testing.T) {
	h := NewAuthHandler(&mockAuthService{
		createAccountFn: func(ctx context.Context, req model.CreateAccountRequest) (model.AuthResult, error) {
			return model.AuthResult{}, context.Canceled
		},
	}, nil)

	w := httptest.NewRecorder()
	h.Signup(w, httptest.NewRequest(http.MethodPost, "/auth/signup", strings.NewReader(`{}`)))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}
	result := decodeAuthResult(t, w)
	if result.Success || result.Message != "An error occurred during account creation" {
		t.Errorf("result = %+v, want generic account creation failure", result)
	}
}

// --- POST /auth/logout テスト ---

func TestAuthHandler_Logout_Returns204(t *testing.T) {
	calls := 0
	h := NewAuthHandler(&mockAuthService{
		logoutFn: func() { calls++ },
	}, nil)

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		h.Logout(w, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

		if w.Code != http.StatusNoContent {
			t.Errorf("call %d: status = %d, want %d", i, w.Code, http.StatusNoContent)
		}
	}
	if calls != 2 {
		t.Errorf("Logout called %d times, want 2", calls)
	}
}
