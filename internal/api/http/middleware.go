package http

import (
	"context"
	"net/http"
	"strings"

	"rentalfleet-backend/internal/security"
)

type contextKey string

const principalKey contextKey = "principal"

// AuthMiddleware verifies the bearer token and stores the principal on the
// request context. Requests without a valid token get a 401.
func AuthMiddleware(tokens *security.TokenManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := bearerToken(r)
			if token == "" {
				Problem(w, http.StatusUnauthorized, "Unauthorized", "missing bearer token")
				return
			}
			p, err := tokens.Verify(token)
			if err != nil {
				Problem(w, http.StatusUnauthorized, "Unauthorized", "invalid bearer token")
				return
			}
			ctx := context.WithValue(r.Context(), principalKey, *p)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFrom returns the verified principal stored by AuthMiddleware.
func PrincipalFrom(ctx context.Context) (security.Principal, bool) {
	p, ok := ctx.Value(principalKey).(security.Principal)
	return p, ok
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if strings.HasPrefix(h, "Bearer ") {
		return strings.TrimPrefix(h, "Bearer ")
	}
	// Browsers cannot set headers on websocket upgrades; accept the token as
	// a query parameter there.
	return r.URL.Query().Get("token")
}
