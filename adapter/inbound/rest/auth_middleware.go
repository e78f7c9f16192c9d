package rest

import (
	"context"
	"net/http"
	"strings"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/port/inbound"
	"github.com/ajkula/dirtidy/domain/port/outbound"
)

type contextKey string

const PrincipalContextKey contextKey = "principal"

type AuthMiddleware struct {
	tokens  inbound.TokenService
	logger  outbound.Logger
	enabled bool
}

func NewAuthMiddleware(tokens inbound.TokenService, logger outbound.Logger, enabled bool) *AuthMiddleware {
	return &AuthMiddleware{
		tokens:  tokens,
		logger:  logger,
		enabled: enabled,
	}
}

func (m *AuthMiddleware) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.enabled || m.isPublicRoute(r.URL.Path) {
			next.ServeHTTP(w, r)
			return
		}

		token := m.extractToken(r)
		if token == "" {
			m.unauthorized(w, "missing token")
			return
		}

		principal, err := m.tokens.ValidateToken(token)
		if err != nil {
			m.unauthorized(w, err.Error())
			return
		}

		ctx := context.WithValue(r.Context(), PrincipalContextKey, principal)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func PrincipalFromContext(ctx context.Context) *model.Principal {
	if p, ok := ctx.Value(PrincipalContextKey).(*model.Principal); ok {
		return p
	}
	return nil
}

func (m *AuthMiddleware) isPublicRoute(path string) bool {
	return path == "/health"
}

// extractToken reads the bearer header; browsers cannot set headers on a
// websocket handshake, so the event stream also accepts ?token=
func (m *AuthMiddleware) extractToken(r *http.Request) string {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		if strings.HasPrefix(r.URL.Path, "/api/ws/") {
			return r.URL.Query().Get("token")
		}
		return ""
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}

	return parts[1]
}

func (m *AuthMiddleware) unauthorized(w http.ResponseWriter, message string) {
	m.logger.Warn("Unauthorized access", "message", message)
	writeJSON(w, http.StatusUnauthorized, errorBody("unauthorized", message))
}
