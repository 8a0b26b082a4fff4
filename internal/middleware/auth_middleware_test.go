package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/config"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/middleware"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(&config.JWTSettings{
		Secret: "test-secret-key",
		Expiry: 15 * time.Minute,
		Issuer: "bookstore-test",
	})
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestJWTAuthRedirectsAnonymousToLogin(t *testing.T) {
	handler := middleware.JWTAuth(newTestJWTService())(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/auth/dashboard", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, constants.StatusFound, rec.Code)
	assert.Equal(t, constants.AuthLoginPath, rec.Header().Get("Location"))
}

func TestJWTAuthAcceptsBearerToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateAccessToken(7, "reader", "reader@example.com", []string{constants.RoleUser})
	require.NoError(t, err)

	var gotUserID int64
	handler := middleware.JWTAuth(jwtService)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, _ = auth.GetUserID(r)
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/dashboard", nil)
	req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(7), gotUserID)
}

func TestJWTAuthAcceptsCookieToken(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateAccessToken(7, "reader", "reader@example.com", []string{constants.RoleUser})
	require.NoError(t, err)

	handler := middleware.JWTAuth(jwtService)(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/auth/dashboard", nil)
	req.AddCookie(&http.Cookie{Name: constants.AuthTokenCookie, Value: token})
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRoleForbidsWithoutRole(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateAccessToken(7, "reader", "reader@example.com", []string{constants.RoleUser})
	require.NoError(t, err)

	handler := middleware.JWTAuth(jwtService)(middleware.RequireRole(constants.RoleAdmin)(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
	req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	// Authenticated but not authorized: 403, not a login redirect
	assert.Equal(t, constants.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsAdmin(t *testing.T) {
	jwtService := newTestJWTService()
	token, _, err := jwtService.GenerateAccessToken(1, "admin", "admin@example.com", []string{constants.RoleUser, constants.RoleAdmin})
	require.NoError(t, err)

	handler := middleware.JWTAuth(jwtService)(middleware.RequireRole(constants.RoleAdmin)(okHandler()))

	req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
	req.Header.Set(constants.HeaderAuthorization, constants.BearerTokenPrefix+token)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSecurityHeaders(t *testing.T) {
	handler := middleware.SecurityHeaders()(okHandler())

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, constants.ContentTypeOptionsNoSniff, rec.Header().Get(constants.HeaderXContentTypeOptions))
	assert.Equal(t, constants.FrameOptionsDeny, rec.Header().Get(constants.HeaderXFrameOptions))
	assert.Equal(t, constants.XSSProtectionModeBlock, rec.Header().Get(constants.HeaderXXSSProtection))
	assert.Equal(t, constants.ReferrerPolicyStrictOrigin, rec.Header().Get(constants.HeaderReferrerPolicy))
	assert.Equal(t, constants.CSPDefaultSrc, rec.Header().Get(constants.HeaderContentSecurityPolicy))
}
