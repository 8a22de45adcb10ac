package middleware

import (
	"net/http"

	"github.com/hitoshi/aurorah/internal/model"
)

// CurrentUserFinder はログイン中ユーザーの参照に必要なインターフェース。
// auth.Storeの部分集合として定義する。
type CurrentUserFinder interface {
	CurrentUser() (*model.User, bool)
}

// NewIdentityMiddleware はログイン中ユーザーのメールアドレスをリクエストコンテキストに注入する
// ミドルウェアを返す。未ログインでもリクエストは拒否しない。
func NewIdentityMiddleware(finder CurrentUserFinder) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if user, ok := finder.CurrentUser(); ok {
				r = r.WithContext(ContextWithUserEmail(r.Context(), user.Email))
			}
			next.ServeHTTP(w, r)
		})
	}
}
