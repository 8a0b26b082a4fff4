package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/internal/repository"
	"github.com/bookhaven/bookstore-backend/internal/service"
)

// newResetHandler wires a PasswordResetHandler over real services and a mock
// database. The email sender is nil, matching a deployment without a
// SendGrid key; issuing a token must still succeed.
func newResetHandler(t *testing.T) (*PasswordResetHandler, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	pool := &database.Pool{DB: db}
	userRepo := repository.NewUserRepository(pool)
	resetRepo := repository.NewPasswordResetRepository(pool)
	resetService := service.NewPasswordResetService(pool, userRepo, resetRepo, nil, testPasswordConfig())

	return NewPasswordResetHandler(resetService), mock
}

func forgotForm(email string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/auth/forgot-password", strings.NewReader("email="+email))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func resetForm(token, newPassword, confirm string) *http.Request {
	form := "token=" + token + "&new_password=" + newPassword + "&confirm_new_password=" + confirm
	req := httptest.NewRequest(http.MethodPost, "/auth/reset-password", strings.NewReader(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func userRowForReset(t *testing.T) *sqlmock.Rows {
	t.Helper()
	now := time.Now()
	return sqlmock.NewRows([]string{
		"user_id", "username", "email", "first_name", "last_name",
		"password_hash", "salt", "enabled", "created_at", "updated_at",
	}).AddRow(
		int64(1), "reader", "reader@example.com", "Avid", "Reader",
		"hash", "salt", true, now, now,
	)
}

func TestForgotPasswordIssuesToken(t *testing.T) {
	handler, mock := newResetHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("reader@example.com").
		WillReturnRows(userRowForReset(t))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO password_reset_tokens")).
		WithArgs(sqlmock.AnyArg(), int64(1), sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	rec := httptest.NewRecorder()
	handler.ForgotPassword(rec, forgotForm("reader@example.com"))

	assert.Equal(t, constants.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), constants.MsgResetLinkSent)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestForgotPasswordUnknownEmailReturnsNotFound(t *testing.T) {
	handler, mock := newResetHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("nobody@example.com").
		WillReturnError(sql.ErrNoRows)

	rec := httptest.NewRecorder()
	handler.ForgotPassword(rec, forgotForm("nobody@example.com"))

	// The form tells the requester the email is unknown so typos can be fixed
	assert.Equal(t, constants.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), constants.MsgUserNotFoundByEmail)
}

func TestForgotPasswordRejectsInvalidEmail(t *testing.T) {
	handler, mock := newResetHandler(t)

	rec := httptest.NewRecorder()
	handler.ForgotPassword(rec, forgotForm("not-an-email"))

	assert.Equal(t, constants.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordFormValidToken(t *testing.T) {
	handler, mock := newResetHandler(t)

	token, tokenHash, err := repository.GenerateToken()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(1), time.Now().Add(30*time.Minute)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(userRowForReset(t))

	req := httptest.NewRequest(http.MethodGet, "/auth/reset-password?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ResetPasswordForm(rec, req)

	assert.Equal(t, constants.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"valid":true`)
	// The email is masked, never echoed in full
	assert.NotContains(t, rec.Body.String(), "reader@example.com")
}

func TestResetPasswordFormUnknownToken(t *testing.T) {
	handler, mock := newResetHandler(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(sqlmock.AnyArg()).
		WillReturnError(sql.ErrNoRows)

	req := httptest.NewRequest(http.MethodGet, "/auth/reset-password?token=deadbeef", nil)
	rec := httptest.NewRecorder()
	handler.ResetPasswordForm(rec, req)

	assert.Equal(t, constants.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), constants.CodeTokenInvalid)
}

func TestResetPasswordFormExpiredTokenIsDeleted(t *testing.T) {
	handler, mock := newResetHandler(t)

	token, tokenHash, err := repository.GenerateToken()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(1), time.Now().Add(-1*time.Minute)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_reset_tokens WHERE token_hash = $1")).
		WithArgs(tokenHash).
		WillReturnResult(sqlmock.NewResult(0, 1))

	req := httptest.NewRequest(http.MethodGet, "/auth/reset-password?token="+token, nil)
	rec := httptest.NewRecorder()
	handler.ResetPasswordForm(rec, req)

	assert.Equal(t, constants.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), constants.CodeTokenExpired)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordFormMissingToken(t *testing.T) {
	handler, _ := newResetHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/auth/reset-password", nil)
	rec := httptest.NewRecorder()
	handler.ResetPasswordForm(rec, req)

	assert.Equal(t, constants.StatusBadRequest, rec.Code)
}

func TestResetPasswordSuccess(t *testing.T) {
	handler, mock := newResetHandler(t)

	token, tokenHash, err := repository.GenerateToken()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(1), time.Now().Add(30*time.Minute)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(userRowForReset(t))

	// Password change and token deletion commit together
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_reset_tokens WHERE token_hash = $1")).
		WithArgs(tokenHash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, resetForm(token, "N3wPassw0rd!x", "N3wPassw0rd!x"))

	assert.Equal(t, constants.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), constants.MsgPasswordResetSuccess)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordMismatchedConfirmation(t *testing.T) {
	handler, mock := newResetHandler(t)

	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, resetForm("sometoken", "N3wPassw0rd!x", "different"))

	assert.Equal(t, constants.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), constants.MsgPasswordsDoNotMatch)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordRejectsWeakPassword(t *testing.T) {
	handler, mock := newResetHandler(t)

	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, resetForm("sometoken", "short", "short"))

	assert.Equal(t, constants.StatusBadRequest, rec.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResetPasswordMissingToken(t *testing.T) {
	handler, _ := newResetHandler(t)

	rec := httptest.NewRecorder()
	handler.ResetPassword(rec, resetForm("", "N3wPassw0rd!x", "N3wPassw0rd!x"))

	assert.Equal(t, constants.StatusBadRequest, rec.Code)
}
