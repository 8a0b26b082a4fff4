package utils

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-backend/internal/constants"
)

// captureLog redirects the global logger into a buffer for the duration of
// the test and pins the global level to info.
func captureLog(t *testing.T) *bytes.Buffer {
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

func TestSetLogLevel(t *testing.T) {
	captureLog(t)

	require.NoError(t, SetLogLevel("debug"))
	assert.Equal(t, "debug", GetLogLevel())

	require.NoError(t, SetLogLevel("warn"))
	assert.Equal(t, "warn", GetLogLevel())
}

func TestSetLogLevelRejectsUnknownLevel(t *testing.T) {
	captureLog(t)

	err := SetLogLevel("verbose")
	assert.Error(t, err)
}

func TestRequestLoggerCarriesRequestContext(t *testing.T) {
	buf := captureLog(t)

	logger := RequestLogger("req-123", "7", "GET", "/api/books")
	logger.Info().Msg("handled")

	out := buf.String()
	assert.Contains(t, out, "req-123")
	assert.Contains(t, out, "/api/books")
	assert.Contains(t, out, `"`+constants.UserIDContextKey+`":"7"`)
}

func TestLogHTTPRequestRecordsStatusAndPath(t *testing.T) {
	buf := captureLog(t)

	LogHTTPRequest("req-456", "GET", "/api/books", "10.0.0.1:1234", "test-agent", 200, 5*time.Millisecond)

	out := buf.String()
	assert.Contains(t, out, "req-456")
	assert.Contains(t, out, "GET")
	assert.Contains(t, out, "/api/books")
	assert.Contains(t, out, `"status":200`)
}

func TestLogHTTPRequestSkipsHealthChecksOutsideDebug(t *testing.T) {
	buf := captureLog(t)

	LogHTTPRequest("req-789", "GET", constants.HealthPath, "10.0.0.1:1234", "uptime-agent", 200, time.Millisecond)

	assert.Empty(t, buf.String())
}

func TestLogErrorRedactsSensitiveContext(t *testing.T) {
	buf := captureLog(t)

	LogError(errors.New("update failed"), map[string]interface{}{
		"username": "reader",
		"password": "hunter2",
	})

	out := buf.String()
	assert.Contains(t, out, "reader")
	assert.Contains(t, out, constants.LogRedactedValue)
	assert.NotContains(t, out, "hunter2")
}

func TestLogDBQueryTruncatesAndMasks(t *testing.T) {
	buf := captureLog(t)

	query := "UPDATE users SET password_hash = $1 WHERE id = $2 " + strings.Repeat("-", 600)
	LogDBQuery(query, []interface{}{"argon2-digest", int64(7)}, time.Millisecond, errors.New("tx aborted"))

	out := buf.String()
	assert.Contains(t, out, "...")
	assert.NotContains(t, out, strings.Repeat("-", 600))
	assert.NotContains(t, out, "argon2-digest")
	assert.Contains(t, out, constants.LogRedactedValue)
}
