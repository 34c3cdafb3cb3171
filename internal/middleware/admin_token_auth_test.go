package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAdminProtectedHandler(t *testing.T, cfg AdminTokenAuthConfig, next http.Handler) http.Handler {
	t.Helper()
	mw, err := AdminTokenAuthMiddleware(cfg)
	require.NoError(t, err)
	return mw(next)
}

func TestAdminTokenAuthMiddleware_RequiresConfiguredToken(t *testing.T) {
	_, err := AdminTokenAuthMiddleware(AdminTokenAuthConfig{Token: "   "})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "admin auth token is required")
}

func TestAdminTokenAuthMiddleware_RejectsMissingHeader(t *testing.T) {
	handler := newAdminProtectedHandler(t, AdminTokenAuthConfig{Token: "secret"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run without a token")
		}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest("POST", "/admin/reset-store", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"error":"unauthorized"}`, rec.Body.String())
}

func TestAdminTokenAuthMiddleware_RejectsWrongToken(t *testing.T) {
	handler := newAdminProtectedHandler(t, AdminTokenAuthConfig{Token: "secret"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler should not run with a bad token")
		}))

	req := httptest.NewRequest("POST", "/admin/reset-store", nil)
	req.Header.Set(defaultAdminTokenHeader, "not-the-secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminTokenAuthMiddleware_AcceptsToken(t *testing.T) {
	var sawAuth bool
	handler := newAdminProtectedHandler(t, AdminTokenAuthConfig{Token: "secret"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			auth, ok := AuthContextFromContext(r.Context())
			sawAuth = ok && auth.Method == "admin_token"
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest("POST", "/admin/reset-store", nil)
	req.Header.Set(defaultAdminTokenHeader, "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawAuth, "handler should see the admin auth context")
}

func TestAdminTokenAuthMiddleware_CustomHeader(t *testing.T) {
	handler := newAdminProtectedHandler(t, AdminTokenAuthConfig{Token: "secret", HeaderName: "X-Ops-Token"},
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		}))

	req := httptest.NewRequest("POST", "/admin/reset-store", nil)
	req.Header.Set("X-Ops-Token", "secret")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestConstantTimeTokenMatch(t *testing.T) {
	assert.True(t, constantTimeTokenMatch("secret", "secret"))
	assert.False(t, constantTimeTokenMatch("secret", "Secret"))
	assert.False(t, constantTimeTokenMatch("", "secret"))
}
