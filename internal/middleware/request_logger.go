package middleware

import (
	"net/http"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// RequestLog logs every completed request with its status and latency, and
// places a request-scoped logger in the context for downstream handlers.
// Mounted after identity resolution so log entries carry the user ID when
// the request is authenticated.
func RequestLog() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)

			requestID := chimiddleware.GetReqID(r.Context())

			var userID string
			if id, ok := auth.GetUserID(r); ok {
				userID = utils.FormatInt64(id)
			}

			logger := utils.RequestLogger(requestID, userID, r.Method, r.URL.Path)
			r = r.WithContext(logger.WithContext(r.Context()))

			next.ServeHTTP(ww, r)

			utils.LogHTTPRequest(
				requestID,
				r.Method,
				r.URL.Path,
				r.RemoteAddr,
				r.UserAgent(),
				ww.Status(),
				time.Since(start),
			)
		})
	}
}
