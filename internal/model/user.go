package model

import (
	"strings"
	"time"
)

// User はログイン中のユーザーを表す。
// プロセス全体で同時に存在できるのは1件のみ。
type User struct {
	Email      string
	SignedInAt time.Time
}

// MaskEmail はログ出力用にメールアドレスのローカル部を先頭1文字だけ残して伏せる。
// 例: "ada@example.com" → "a***@example.com"
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	at := strings.LastIndex(email, "@")
	if at <= 0 {
		return "***"
	}
	return email[:1] + "***" + email[at:]
}

// AuthState は認証状態の問い合わせ結果を表す。
type AuthState struct {
	IsAuthenticated bool `json:"isAuthenticated"`
}

// AuthResult はログイン・アカウント作成の結果を表す。
// 検証エラーもSuccess=falseの正常レスポンスとして扱う。
type AuthResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// CreateAccountRequest はアカウント作成の入力。検証後は保持しない。
type CreateAccountRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Password  string `json:"password"`
}
