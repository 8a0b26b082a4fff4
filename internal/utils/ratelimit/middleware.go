package ratelimit

import (
	"net"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// Middleware returns an HTTP middleware that throttles requests per client IP
// using the limiters in the store. Requests over the limit get 429.
func Middleware(store *Store, category string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			clientIP := clientAddr(r)

			limiter := store.GetLimiter(clientIP, category)
			if !limiter.Allow() {
				log.Warn().
					Str("client_ip", clientIP).
					Str("category", category).
					Str("path", r.URL.Path).
					Msg("Rate limit exceeded")

				utils.Error(w, constants.StatusTooManyRequests, constants.CodeTooManyRequests, constants.MsgTooManyRequests, nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// clientAddr extracts the client IP, stripping the port when present.
func clientAddr(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
