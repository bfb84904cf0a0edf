package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/leetguard/leetguard-server/internal/api"
	"github.com/leetguard/leetguard-server/internal/user"
)

// Define a custom type for context keys
type contextKey string

const (
	// UserContextKey is the key used to store the authenticated user in the context
	UserContextKey contextKey = "user"
)

type AuthMiddleware struct {
	service *Service
	log     *zap.Logger
}

func NewAuthMiddleware(service *Service, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		service: service,
		log:     log,
	}
}

// Authenticate resolves the bearer token of every non-public request to a
// user and stores it in the request context.
func (m *AuthMiddleware) Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if api.IsPublic(r.Method, r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		raw, ok := bearerToken(r)
		if !ok {
			unauthorized(w, "Not authenticated")
			return
		}

		u, err := m.service.Authenticate(r.Context(), raw)
		if err != nil {
			if errors.Is(err, user.ErrUserNotFound) {
				api.WriteError(w, http.StatusNotFound, "User not found")
				return
			}
			m.log.Debug("authentication failed",
				zap.String("path", r.URL.Path),
				zap.Error(err))
			unauthorized(w, "Invalid token")
			return
		}

		next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), u)))
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, value, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}

func unauthorized(w http.ResponseWriter, detail string) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	api.WriteError(w, http.StatusUnauthorized, detail)
}

func WithUser(ctx context.Context, u *user.User) context.Context {
	return context.WithValue(ctx, UserContextKey, u)
}

// UserFromContext returns the user stored by Authenticate.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(UserContextKey).(*user.User)
	return u, ok && u != nil
}
