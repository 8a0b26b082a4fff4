package database

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockPool(t *testing.T) (*Pool, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	return &Pool{DB: db}, mock
}

func TestTransactionCommitsOnSuccess(t *testing.T) {
	pool, mock := newMockPool(t)
	defer pool.Close()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE users").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		_, execErr := tx.Exec("UPDATE users SET enabled = true")
		return execErr
	})

	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackOnError(t *testing.T) {
	pool, mock := newMockPool(t)
	defer pool.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	wantErr := errors.New("something failed")
	err := pool.Transaction(context.Background(), func(tx *sql.Tx) error {
		return wantErr
	})

	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTransactionRollsBackOnPanic(t *testing.T) {
	pool, mock := newMockPool(t)
	defer pool.Close()

	mock.ExpectBegin()
	mock.ExpectRollback()

	assert.Panics(t, func() {
		_ = pool.Transaction(context.Background(), func(tx *sql.Tx) error {
			panic("boom")
		})
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestHealthCheck(t *testing.T) {
	pool, mock := newMockPool(t)
	defer pool.Close()

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))

	err := pool.HealthCheck(context.Background())
	assert.NoError(t, err)
}

func TestHealthCheckFailure(t *testing.T) {
	pool, mock := newMockPool(t)
	defer pool.Close()

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection refused"))

	err := pool.HealthCheck(context.Background())
	assert.Error(t, err)
}
