package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-backend/internal/models"
	"github.com/bookhaven/bookstore-backend/internal/utils"
)

func userRows(user *models.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"user_id", "username", "email", "first_name", "last_name",
		"password_hash", "salt", "enabled", "created_at", "updated_at",
	}).AddRow(
		user.ID, user.Username, user.Email, user.FirstName, user.LastName,
		user.PasswordHash, user.Salt, user.Enabled, user.CreatedAt, user.UpdatedAt,
	)
}

func sampleUser() *models.User {
	now := time.Now()
	return &models.User{
		ID:           1,
		Username:     "reader",
		Email:        "reader@example.com",
		FirstName:    "Avid",
		LastName:     "Reader",
		PasswordHash: "hash",
		Salt:         "salt",
		Enabled:      true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserCreate(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	user := models.NewUser("reader", "reader@example.com", "Avid", "Reader")
	user.PasswordHash = "hash"
	user.Salt = "salt"

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WithArgs("reader", "reader@example.com", "Avid", "Reader", "hash", "salt", true, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(int64(1)))

	err := repo.Create(context.Background(), user)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserCreateDuplicateEmail(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	user := models.NewUser("reader", "taken@example.com", "Avid", "Reader")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_email_key"})

	err := repo.Create(context.Background(), user)
	require.Error(t, err)

	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.ErrorIs(t, err, utils.ErrDuplicate)
	assert.Equal(t, "email", appErr.Field)
}

func TestUserCreateDuplicateUsername(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	user := models.NewUser("taken", "reader@example.com", "Avid", "Reader")

	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(&pq.Error{Code: "23505", Constraint: "users_username_key"})

	err := repo.Create(context.Background(), user)
	var appErr *utils.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "username", appErr.Field)
}

func TestUserGetByEmail(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	want := sampleUser()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("Reader@Example.com").
		WillReturnRows(userRows(want))

	got, err := repo.GetByEmail(context.Background(), "Reader@Example.com")
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
	assert.Equal(t, want.Email, got.Email)
}

func TestUserGetByEmailNotFound(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE LOWER(email) = LOWER($1)")).
		WithArgs("missing@example.com").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetByEmail(context.Background(), "missing@example.com")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUserGetByID(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	want := sampleUser()
	mock.ExpectQuery(regexp.QuoteMeta("WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnRows(userRows(want))

	got, err := repo.GetByID(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, want.Username, got.Username)
}

func TestUserChangePassword(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectExec(regexp.QuoteMeta("SET password_hash = $1, salt = $2")).
		WithArgs("newhash", "newsalt", sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.ChangePassword(context.Background(), 1, "newhash", "newsalt")
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserChangePasswordNotFound(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectExec(regexp.QuoteMeta("SET password_hash = $1, salt = $2")).
		WithArgs("newhash", "newsalt", sqlmock.AnyArg(), int64(99)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.ChangePassword(context.Background(), 99, "newhash", "newsalt")
	assert.ErrorIs(t, err, utils.ErrNotFound)
}

func TestUserChangePasswordTxWithTokenDelete(t *testing.T) {
	// The consume path updates the password and deletes the token in one
	// transaction; both statements must run between Begin and Commit.
	pool, mock := newMockRepo(t)
	userRepo := NewUserRepository(pool)
	resetRepo := NewPasswordResetRepository(pool)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET password_hash = $1, salt = $2")).
		WithArgs("newhash", "newsalt", sqlmock.AnyArg(), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_reset_tokens WHERE token_hash = $1")).
		WithArgs("hash123").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	ctx := context.Background()
	err := pool.Transaction(ctx, func(tx *sql.Tx) error {
		if err := userRepo.ChangePasswordTx(ctx, tx, 1, "newhash", "newsalt"); err != nil {
			return err
		}
		return resetRepo.DeleteTx(ctx, tx, "hash123")
	})
	assert.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserChangePasswordTxRollsBackOnError(t *testing.T) {
	pool, mock := newMockRepo(t)
	userRepo := NewUserRepository(pool)

	wantErr := errors.New("write failed")
	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("SET password_hash = $1, salt = $2")).
		WillReturnError(wantErr)
	mock.ExpectRollback()

	ctx := context.Background()
	err := pool.Transaction(ctx, func(tx *sql.Tx) error {
		return userRepo.ChangePasswordTx(ctx, tx, 1, "newhash", "newsalt")
	})
	assert.ErrorIs(t, err, wantErr)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeleteCascades(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM user_roles WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM password_reset_tokens WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE user_id = $1")).
		WithArgs(int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	assert.NoError(t, repo.Delete(context.Background(), 1))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserExistsByEmail(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT EXISTS")).
		WithArgs("reader@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	exists, err := repo.ExistsByEmail(context.Background(), "reader@example.com")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestUserGetRoles(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectQuery(regexp.QuoteMeta("INNER JOIN user_roles")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{"role_id", "name"}).
			AddRow(int64(1), "ROLE_USER").
			AddRow(int64(2), "ROLE_ADMIN"))

	roles, err := repo.GetRoles(context.Background(), 1)
	require.NoError(t, err)
	require.Len(t, roles, 2)
	assert.Equal(t, "ROLE_USER", roles[0].Name)
	assert.Equal(t, "ROLE_ADMIN", roles[1].Name)
}

func TestUserAssignRoleIdempotent(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (user_id, role_id) DO NOTHING")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, repo.AssignRole(context.Background(), 1, 2))
}

func TestUserList(t *testing.T) {
	pool, mock := newMockRepo(t)
	repo := NewUserRepository(pool)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM users")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(int64(11)))
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY user_id")).
		WithArgs(10, 0).
		WillReturnRows(userRows(sampleUser()))

	users, total, err := repo.List(context.Background(), 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(11), total)
	require.Len(t, users, 1)
	assert.Equal(t, "reader", users[0].Username)
}
