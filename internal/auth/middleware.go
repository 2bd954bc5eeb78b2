package auth

import (
	"context"
	"net/http"
	"strings"
)

// CookieName is the cookie the session token travels in.
const CookieName = "token"

type contextKey string

const sessionClaimsKey = contextKey("sessionClaims")

// TokenFromRequest extracts the session token from the Authorization header or,
// failing that, the session cookie. Returns "" when neither is present.
func TokenFromRequest(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader != "" {
		parts := strings.Split(authHeader, "Bearer ")
		if len(parts) == 2 {
			return parts[1]
		}
	}
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// Middleware creates a middleware for protecting routes. Requests without a
// verifiable token are rejected with 401; verified claims travel down via
// the request context.
func (a *Authority) Middleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := TokenFromRequest(r)
			if tokenStr == "" {
				http.Error(w, "Missing auth token", http.StatusUnauthorized)
				return
			}

			claims, err := a.Verify(tokenStr)
			if err != nil {
				http.Error(w, "Invalid auth token", http.StatusUnauthorized)
				return
			}

			ctx := context.WithValue(r.Context(), sessionClaimsKey, claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// ClaimsFromContext returns the verified session claims stashed by Middleware.
func ClaimsFromContext(ctx context.Context) (*Claims, bool) {
	claims, ok := ctx.Value(sessionClaimsKey).(*Claims)
	return claims, ok
}
