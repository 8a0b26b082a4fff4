package middleware_test

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/middleware"
)

// swapLogger redirects the global logger into a buffer for the duration of
// the test.
func swapLogger(t *testing.T) *bytes.Buffer {
	t.Helper()

	buf := &bytes.Buffer{}
	original := log.Logger
	originalLevel := zerolog.GlobalLevel()

	log.Logger = zerolog.New(buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(originalLevel)
	})

	return buf
}

func TestRequestLogPreservesResponse(t *testing.T) {
	buf := swapLogger(t)

	handler := middleware.RequestLog()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"id":1}`))
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, `{"id":1}`, rec.Body.String())

	out := buf.String()
	assert.Contains(t, out, "/api/books")
	assert.Contains(t, out, `"status":201`)
}

func TestRequestLogContextLoggerCarriesUserID(t *testing.T) {
	buf := swapLogger(t)

	handler := middleware.RequestLog()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Handlers pick the request-scoped logger out of the context
		zerolog.Ctx(r.Context()).Info().Msg("listing books")
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	req = req.WithContext(context.WithValue(req.Context(), auth.UserIDContextKey, int64(7)))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, "listing books")
	assert.Contains(t, out, `"7"`)
	assert.Contains(t, out, "/api/books")
}

func TestRequestLogElevatesErrorResponses(t *testing.T) {
	buf := swapLogger(t)

	handler := middleware.RequestLog()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/books", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	out := buf.String()
	assert.Contains(t, out, `"level":"error"`)
	assert.Contains(t, out, `"status":500`)
}
