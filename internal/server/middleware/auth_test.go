package middleware

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testPrincipal struct {
	userID uuid.UUID
	role   string
}

func (p testPrincipal) GetUserID() uuid.UUID { return p.userID }
func (p testPrincipal) GetRole() string      { return p.role }

// testTokenValidator accepts tokens registered with add.
type testTokenValidator struct {
	tokens map[string]testPrincipal
}

func newTestTokenValidator() *testTokenValidator {
	return &testTokenValidator{tokens: make(map[string]testPrincipal)}
}

func (v *testTokenValidator) add(token string, p testPrincipal) {
	v.tokens[token] = p
}

func (v *testTokenValidator) ValidateToken(token string) (Principal, error) {
	p, ok := v.tokens[token]
	if !ok {
		return nil, fmt.Errorf("invalid token")
	}
	return p, nil
}

func echoHandler(t *testing.T) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := GetUserID(r)
		require.NoError(t, err)
		w.Header().Set("X-User", id.String())
		w.Header().Set("X-Role", GetRole(r))
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthMiddleware(t *testing.T) {
	validator := newTestTokenValidator()
	userID := uuid.New()
	validator.add("good", testPrincipal{userID: userID, role: "USER"})

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing header", "", http.StatusUnauthorized},
		{"no bearer prefix", "good", http.StatusUnauthorized},
		{"wrong scheme", "Basic good", http.StatusUnauthorized},
		{"extra parts", "Bearer good extra", http.StatusUnauthorized},
		{"unknown token", "Bearer bad", http.StatusUnauthorized},
		{"valid", "Bearer good", http.StatusOK},
		{"case-insensitive scheme", "bearer good", http.StatusOK},
	}

	handler := AuthMiddleware(validator)(echoHandler(t))
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/resume/my-resumes", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, userID.String(), rec.Header().Get("X-User"))
				assert.Equal(t, "USER", rec.Header().Get("X-Role"))
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, false, body["success"])
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole("USER", "ADMIN")(echoHandler(t))

	for role, status := range map[string]int{
		"USER":  http.StatusOK,
		"ADMIN": http.StatusOK,
		"GUEST": http.StatusForbidden,
		"":      http.StatusForbidden,
	} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(WithPrincipal(req.Context(), uuid.New(), role))
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, status, rec.Code, "role %q", role)
	}
}

func TestGetUserID_Missing(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	_, err := GetUserID(req)
	assert.Error(t, err)
	assert.Empty(t, GetRole(req))
}
