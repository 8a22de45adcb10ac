package auth

import (
	"strings"
	"unicode/utf8"

	"github.com/hitoshi/aurorah/internal/model"
)

// DefaultMinPasswordLength はパスワードの最小文字数の既定値。
const DefaultMinPasswordLength = 6

// Policy はログインとアカウント作成で共通の入力検証ルール。
type Policy struct {
	// MinPasswordLength はパスワードの最小文字数（Unicodeコードポイント数）。
	MinPasswordLength int
}

// DefaultPolicy は既定の検証ルールを返す。
func DefaultPolicy() Policy {
	return Policy{MinPasswordLength: DefaultMinPasswordLength}
}

// ValidateLogin はログイン入力を検証する。
// emailが空、またはパスワードが短い場合は*model.APIErrorを返す。
func (p Policy) ValidateLogin(email, password string) error {
	if isBlank(email) {
		return model.NewMissingFieldsError("email")
	}
	return p.checkPassword(password)
}

// ValidateCreateAccount はアカウント作成入力を検証する。
// phoneは収集のみで検証しない。
func (p Policy) ValidateCreateAccount(req model.CreateAccountRequest) error {
	var missing []string
	if isBlank(req.FirstName) {
		missing = append(missing, "firstName")
	}
	if isBlank(req.LastName) {
		missing = append(missing, "lastName")
	}
	if isBlank(req.Email) {
		missing = append(missing, "email")
	}
	if len(missing) > 0 {
		return model.NewMissingFieldsError(missing...)
	}
	return p.checkPassword(req.Password)
}

func (p Policy) checkPassword(password string) error {
	if utf8.RuneCountInString(password) < p.MinPasswordLength {
		return model.NewPasswordTooShortError(p.MinPasswordLength)
	}
	return nil
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
