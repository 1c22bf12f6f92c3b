// internal/middleware/auth.go
package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/jason-s-yu/halo/internal/models"
)

// AuthCookie is the cookie the login endpoint sets.
const AuthCookie = "auth_token"

// ServerTokenHeader carries game-server credentials.
const ServerTokenHeader = "X-Server-Token"

type accountKey struct{}

// TokenFromRequest returns the bearer token, falling back to the auth cookie.
func TokenFromRequest(r *http.Request) string {
	if h := r.Header.Get("Authorization"); h != "" {
		scheme, token, ok := strings.Cut(h, " ")
		if ok && strings.EqualFold(scheme, "Bearer") {
			return strings.TrimSpace(token)
		}
	}
	if c, err := r.Cookie(AuthCookie); err == nil {
		return c.Value
	}
	return ""
}

func WithAccount(ctx context.Context, acct models.Account) context.Context {
	return context.WithValue(ctx, accountKey{}, acct)
}

// AccountFromContext returns the account stored by an authenticating handler.
func AccountFromContext(ctx context.Context) (models.Account, bool) {
	acct, ok := ctx.Value(accountKey{}).(models.Account)
	return acct, ok
}
