// Package middleware provides HTTP middleware components.
package middleware

import (
	"net/http"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/constants"
)

// JWTAuth requires a valid JWT from the Authorization header or the auth
// cookie. Requests without one are redirected to the login page.
func JWTAuth(jwtService auth.JWTValidator) func(http.Handler) http.Handler {
	provider := auth.NewJWTAuthProvider(jwtService)
	return auth.RequireAuth(provider)
}

// OptionalJWTAuth resolves the request identity when a token is present but
// lets anonymous requests through. Public pages use this so they can adapt
// to a logged-in user.
func OptionalJWTAuth(jwtService auth.JWTValidator) func(http.Handler) http.Handler {
	provider := auth.NewJWTAuthProvider(jwtService)
	return auth.OptionalAuth(provider)
}

// RequireRole requires the authenticated user to hold the given role.
// Authenticated users without it get a 403, never a login redirect.
func RequireRole(role string) func(http.Handler) http.Handler {
	return auth.RequireRole(role)
}

// SecurityHeaders adds security-related HTTP headers to responses
func SecurityHeaders() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set(constants.HeaderXContentTypeOptions, constants.ContentTypeOptionsNoSniff)
			w.Header().Set(constants.HeaderXFrameOptions, constants.FrameOptionsDeny)
			w.Header().Set(constants.HeaderXXSSProtection, constants.XSSProtectionModeBlock)
			w.Header().Set(constants.HeaderReferrerPolicy, constants.ReferrerPolicyStrictOrigin)
			w.Header().Set(constants.HeaderContentSecurityPolicy, constants.CSPDefaultSrc)

			next.ServeHTTP(w, r)
		})
	}
}
