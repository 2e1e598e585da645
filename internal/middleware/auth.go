package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/templui/todoapi/internal/ctxkeys"
	"github.com/templui/todoapi/internal/model"
	"github.com/templui/todoapi/internal/service"
)

// TokenVerifier resolves an auth token to its user
type TokenVerifier interface {
	VerifyToken(ctx context.Context, token string) (*model.User, error)
}

// RequireAuth reads the token from header and puts the user and token in
// the request context. Requests without a valid token get 401 and an
// empty body.
func RequireAuth(verifier TokenVerifier, header string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := r.Header.Get(header)
			if token == "" {
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			user, err := verifier.VerifyToken(r.Context(), token)
			if err != nil {
				if !errors.Is(err, service.ErrInvalidToken) {
					slog.Error("failed to verify token", "error", err, "path", r.URL.Path)
				}
				w.WriteHeader(http.StatusUnauthorized)
				return
			}

			// Security: Remove password hash from context
			ctx := ctxkeys.WithUser(r.Context(), user.Public())
			ctx = ctxkeys.WithToken(ctx, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
