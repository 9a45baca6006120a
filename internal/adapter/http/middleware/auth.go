package middleware

import (
	"errors"
	"net/http"
	"slices"
	"strings"

	"github.com/iho/wasteledger/internal/domain"
	"github.com/iho/wasteledger/internal/infrastructure/auth"
	"github.com/iho/wasteledger/internal/infrastructure/metrics"
)

const (
	// ActorRoleHeader names the acting role when token auth is disabled.
	ActorRoleHeader = "X-Actor-Role"
	// UserIDHeader names the acting user when token auth is disabled.
	UserIDHeader = "X-User-Id"
)

// AuthMiddleware creates an authentication middleware that requires a
// valid bearer token and puts its user into the request context.
func AuthMiddleware(jwtManager *auth.JWTManager, m *metrics.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				authFailed(w, m, "missing_header", "missing authorization header")
				return
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || parts[0] != "Bearer" {
				authFailed(w, m, "malformed_header", "invalid authorization header format")
				return
			}

			claims, err := jwtManager.Verify(parts[1])
			if err != nil {
				reason := "invalid_token"
				if errors.Is(err, auth.ErrExpiredToken) {
					reason = "expired_token"
				}
				authFailed(w, m, reason, "invalid or expired token")
				return
			}

			ctx := domain.ContextWithUser(r.Context(), claims.User())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// HeaderActor trusts the actor headers set by an upstream gateway. It is
// used when token auth is disabled.
func HeaderActor(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		role := domain.ActorRole(r.Header.Get(ActorRoleHeader))
		if !role.IsValid() {
			next.ServeHTTP(w, r)
			return
		}

		user := &domain.User{
			UserRef: domain.UserRef{ID: r.Header.Get(UserIDHeader)},
			Role:    role,
		}
		if user.ID == "" {
			user.ID = string(role)
		}

		next.ServeHTTP(w, r.WithContext(domain.ContextWithUser(r.Context(), user)))
	})
}

// RequireRole rejects requests whose user holds none of roles.
func RequireRole(roles ...domain.ActorRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := domain.UserFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !slices.Contains(roles, user.Role) {
				http.Error(w, "insufficient permissions", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func authFailed(w http.ResponseWriter, m *metrics.Metrics, reason, message string) {
	if m != nil {
		m.AuthFailures.WithLabelValues(reason).Inc()
	}
	http.Error(w, message, http.StatusUnauthorized)
}
