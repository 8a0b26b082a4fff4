package service

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-backend/internal/auth"
	"github.com/bookhaven/bookstore-backend/internal/constants"
	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/internal/repository"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

// timeNear matches a time argument within a minute of the expected instant.
type timeNear struct {
	expected time.Time
}

func (m timeNear) Match(v driver.Value) bool {
	ts, ok := v.(time.Time)
	if !ok {
		return false
	}
	diff := ts.Sub(m.expected)
	if diff < 0 {
		diff = -diff
	}
	return diff < time.Minute
}

// capturingEmailSender records sent emails so tests can assert on the
// background delivery.
type capturingEmailSender struct {
	sent chan sentEmail
}

type sentEmail struct {
	toEmail string
	toName  string
	token   string
}

func newCapturingEmailSender() *capturingEmailSender {
	return &capturingEmailSender{sent: make(chan sentEmail, 1)}
}

func (s *capturingEmailSender) SendPasswordResetEmail(toEmail, toName, token string) error {
	s.sent <- sentEmail{toEmail: toEmail, toName: toName, token: token}
	return nil
}

func testPasswordConfig() *auth.PasswordConfig {
	return &auth.PasswordConfig{
		Memory:      16 * 1024,
		Iterations:  1,
		Parallelism: 1,
		SaltLength:  16,
		KeyLength:   32,
	}
}

func newResetService(t *testing.T) (*PasswordResetService, sqlmock.Sqlmock, *capturingEmailSender) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.Close()
	})

	pool := &database.Pool{DB: db}
	sender := newCapturingEmailSender()
	svc := NewPasswordResetService(
		pool,
		repository.NewUserRepository(pool),
		repository.NewPasswordResetRepository(pool),
		sender,
		testPasswordConfig(),
	)
	return svc, mock, sender
}

func resetUserRows() *sqlmock.Rows {
	now := time.Now()
	return sqlmock.NewRows([]string{
		"user_id", "username", "email", "first_name", "last_name",
		"password_hash", "salt", "enabled", "created_at", "updated_at",
	}).AddRow(
		int64(42), "reader", "reader@example.com", "Avid", "Reader",
		"hash", "salt", true, now, now,
	)
}

func TestIssueToken(t *testing.T) {
	svc, mock, sender := newResetService(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("reader@example.com").
		WillReturnRows(resetUserRows())
	// Tokens expire exactly one hour after issuance
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO password_reset_tokens")).
		WithArgs(sqlmock.AnyArg(), int64(42), timeNear{time.Now().Add(constants.PasswordResetTokenDuration)}, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := svc.IssueToken(context.Background(), "reader@example.com")
	require.NoError(t, err)

	select {
	case email := <-sender.sent:
		assert.Equal(t, "reader@example.com", email.toEmail)
		assert.Equal(t, "Avid", email.toName)
		assert.Len(t, email.token, 64)
	case <-time.After(2 * time.Second):
		t.Fatal("reset email was not sent")
	}

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueTokenUnknownEmail(t *testing.T) {
	svc, mock, sender := newResetService(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	err := svc.IssueToken(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, utils.ErrNotFound)

	select {
	case <-sender.sent:
		t.Fatal("no email should be sent for unknown accounts")
	case <-time.After(50 * time.Millisecond):
	}
}

func TestValidateToken(t *testing.T) {
	svc, mock, _ := newResetService(t)

	token, tokenHash, err := repository.GenerateToken()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(42), time.Now().Add(time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(resetUserRows())

	user, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), user.ID)
	assert.Empty(t, user.PasswordHash)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestValidateTokenUnknown(t *testing.T) {
	svc, mock, _ := newResetService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WillReturnError(sql.ErrNoRows)

	_, err := svc.ValidateToken(context.Background(), "bogus")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}

func TestValidateTokenExpiredIsDeleted(t *testing.T) {
	svc, mock, _ := newResetService(t)

	token, tokenHash, err := repository.GenerateToken()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(42), time.Now().Add(-time.Minute)))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_reset_tokens WHERE token_hash = $1")).
		WithArgs(tokenHash).
		WillReturnResult(sqlmock.NewResult(0, 1))

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, utils.ErrExpiredToken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeToken(t *testing.T) {
	svc, mock, _ := newResetService(t)

	token, tokenHash, err := repository.GenerateToken()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(42), time.Now().Add(time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(resetUserRows())

	// Password write and token delete share one transaction
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET password_hash = $1, salt = $2")).
		WithArgs(sqlmock.AnyArg(), sqlmock.AnyArg(), sqlmock.AnyArg(), int64(42)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_reset_tokens WHERE token_hash = $1")).
		WithArgs(tokenHash).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err = svc.ConsumeToken(context.Background(), token, "NewPassw0rd@")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestConsumeTokenWeakPassword(t *testing.T) {
	svc, mock, _ := newResetService(t)

	token, tokenHash, err := repository.GenerateToken()
	require.NoError(t, err)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WithArgs(tokenHash).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "expires_at"}).
			AddRow(int64(42), time.Now().Add(time.Hour)))
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
		WithArgs(int64(42)).
		WillReturnRows(resetUserRows())

	err = svc.ConsumeToken(context.Background(), token, "weak")
	assert.ErrorIs(t, err, utils.ErrValidation)
}

func TestConsumeTokenAlreadyUsed(t *testing.T) {
	svc, mock, _ := newResetService(t)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT user_id, expires_at")).
		WillReturnError(sql.ErrNoRows)

	err := svc.ConsumeToken(context.Background(), "spent-token", "NewPassw0rd@")
	assert.ErrorIs(t, err, utils.ErrInvalidToken)
}
