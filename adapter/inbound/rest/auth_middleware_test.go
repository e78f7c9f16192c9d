package rest

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ajkula/dirtidy/domain/model"
	"github.com/ajkula/dirtidy/domain/service"
)

func TestAuthMiddleware(t *testing.T) {
	tokens := &MockTokenService{}
	tokens.On("ValidateToken", "good").Return(&model.Principal{Subject: "cli"}, nil)
	tokens.On("ValidateToken", "bad").Return(nil, service.ErrInvalidToken)

	var seen *model.Principal
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
	handler := NewAuthMiddleware(tokens, &TestLogger{}, true).Middleware(next)

	tests := []struct {
		name     string
		path     string
		header   string
		expected int
		subject  string
	}{
		{"health is public", "/health", "", http.StatusOK, ""},
		{"missing token", "/api/sessions", "", http.StatusUnauthorized, ""},
		{"wrong scheme", "/api/sessions", "Basic good", http.StatusUnauthorized, ""},
		{"invalid token", "/api/sessions", "Bearer bad", http.StatusUnauthorized, ""},
		{"valid token", "/api/sessions", "Bearer good", http.StatusOK, "cli"},
		{"websocket query token", "/api/ws/events?token=good", "", http.StatusOK, "cli"},
		{"query token elsewhere", "/api/sessions?token=good", "", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req := httptest.NewRequest("GET", tt.path, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.expected, rec.Code)
			if tt.subject != "" {
				if assert.NotNil(t, seen) {
					assert.Equal(t, tt.subject, seen.Subject)
				}
			}
		})
	}
}

func TestAuthMiddleware_Disabled(t *testing.T) {
	tokens := &MockTokenService{}
	handler := NewAuthMiddleware(tokens, &TestLogger{}, false).Middleware(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("GET", "/api/sessions", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
	tokens.AssertNotCalled(t, "ValidateToken", "")
}
