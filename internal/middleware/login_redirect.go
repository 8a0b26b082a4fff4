package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/bookhaven/bookstore-backend/internal/constants"
)

// RememberOrigin records where a visitor came from before hitting the login
// page, so a successful login can send them back. Mounted on the login page
// route. The root path and the login page itself are not worth returning to
// and are skipped.
func RememberOrigin() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if target := originFromReferer(r); target != "" {
				http.SetCookie(w, &http.Cookie{
					Name:     constants.PriorURLCookie,
					Value:    target,
					Path:     "/",
					HttpOnly: true,
					SameSite: http.SameSiteLaxMode,
					// Session-scoped: no MaxAge or Expires
				})
			}

			next.ServeHTTP(w, r)
		})
	}
}

// originFromReferer extracts a same-site path worth returning to after
// login, or "" when there is none.
func originFromReferer(r *http.Request) string {
	referer := r.Header.Get(constants.HeaderReferer)
	if referer == "" {
		return ""
	}

	parsed, err := url.Parse(referer)
	if err != nil {
		return ""
	}

	path := parsed.Path
	if path == "" || path == "/" {
		return ""
	}
	// A path starting with "//" becomes a protocol-relative URL when used
	// as a redirect target, sending the browser off-site
	if strings.HasPrefix(path, "//") {
		return ""
	}
	if strings.HasPrefix(path, constants.AuthLoginPath) {
		return ""
	}

	if parsed.RawQuery != "" {
		path += "?" + parsed.RawQuery
	}
	return path
}
