package middleware

import (
	"net/http"
	"slices"
	"strings"

	"github.com/you-humble/farm-connect/internal/auth"
	"github.com/you-humble/farm-connect/internal/model"
	"github.com/you-humble/farm-connect/internal/transport/http/respond"
	"github.com/you-humble/farm-connect/platform/logger"
)

// Auth validates the bearer token and stores the claims in the request context.
func Auth(secret string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			tokenStr, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(tokenStr) == "" {
				respond.Error(w, r, model.ErrUnauthorized)
				return
			}

			claims, err := auth.ValidateToken(secret, strings.TrimSpace(tokenStr))
			if err != nil {
				logger.Debug(r.Context(), "token rejected", logger.ErrorF(err))
				respond.Error(w, r, err)
				return
			}

			ctx := auth.WithClaims(r.Context(), claims)
			ctx = logger.WithContext(ctx,
				logger.String("user_id", claims.UserID),
				logger.String("role", string(claims.Role)),
			)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole lets the request through only for the listed roles.
func RequireRole(roles ...auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.ClaimsFromContext(r.Context())
			if claims == nil {
				respond.Error(w, r, model.ErrUnauthorized)
				return
			}
			if !slices.Contains(roles, claims.Role) {
				respond.Error(w, r, model.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
