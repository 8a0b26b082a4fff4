package migrations_test

import (
	"context"
	"database/sql"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookhaven/bookstore-backend/internal/database"
	"github.com/bookhaven/bookstore-backend/migrations"
)

// createMockDB creates a mock database for testing
func createMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to create mock database: %v", err)
	}

	cleanup := func() {
		db.Close()
	}

	return db, mock, cleanup
}

func TestNewMigrator(t *testing.T) {
	db, _, cleanup := createMockDB(t)
	defer cleanup()

	pool := &database.Pool{DB: db}
	migrator := migrations.NewMigrator(pool)

	assert.NotNil(t, migrator)
}

func TestGetMigrations(t *testing.T) {
	all := migrations.GetMigrations()

	assert.NotEmpty(t, all)

	tables := make(map[string]string)
	for _, migration := range all {
		tables[migration.Name] = migration.TableName
	}

	assert.Equal(t, "users", tables["create_users_table"])
	assert.Equal(t, "roles", tables["create_roles_table"])
	assert.Equal(t, "user_roles", tables["create_user_roles_table"])
	assert.Equal(t, "password_reset_tokens", tables["create_password_reset_tokens_table"])
	assert.Equal(t, "authors", tables["create_authors_table"])
	assert.Equal(t, "categories", tables["create_categories_table"])
	assert.Equal(t, "books", tables["create_books_table"])
}

func TestGetMigrationsOrder(t *testing.T) {
	all := migrations.GetMigrations()

	position := make(map[string]int)
	for i, migration := range all {
		position[migration.TableName] = i
	}

	// Referenced tables must be created before the tables holding
	// their foreign keys.
	assert.Less(t, position["users"], position["user_roles"])
	assert.Less(t, position["roles"], position["user_roles"])
	assert.Less(t, position["users"], position["password_reset_tokens"])
	assert.Less(t, position["authors"], position["books"])
	assert.Less(t, position["categories"], position["books"])
}

func TestRunMigrationsAllExecuted(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	pool := &database.Pool{DB: db}
	migrator := migrations.NewMigrator(pool)

	all := migrations.GetMigrations()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// verifyAllTablesExist checks each table
	for range all {
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	}

	// Every migration is already recorded
	nameRows := sqlmock.NewRows([]string{"name"})
	for _, migration := range all {
		nameRows.AddRow(migration.Name)
	}
	mock.ExpectQuery("SELECT name FROM migrations").WillReturnRows(nameRows)

	// Column evolution check on users
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := migrator.RunMigrations(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrationsCreatesMissingTable(t *testing.T) {
	db, mock, cleanup := createMockDB(t)
	defer cleanup()

	pool := &database.Pool{DB: db}
	migrator := migrations.NewMigrator(pool)

	all := migrations.GetMigrations()

	mock.ExpectExec("CREATE TABLE IF NOT EXISTS migrations").
		WillReturnResult(sqlmock.NewResult(0, 0))

	// users table is missing; verifyAllTablesExist recreates it
	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(false))
	mock.ExpectBegin()
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS users").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO migrations").
		WithArgs("create_users_table", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	// Remaining tables exist
	for i := 1; i < len(all); i++ {
		mock.ExpectQuery("SELECT EXISTS").
			WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))
	}

	// All migrations recorded by now
	nameRows := sqlmock.NewRows([]string{"name"})
	for _, migration := range all {
		nameRows.AddRow(migration.Name)
	}
	mock.ExpectQuery("SELECT name FROM migrations").WillReturnRows(nameRows)

	mock.ExpectQuery("SELECT EXISTS").
		WillReturnRows(sqlmock.NewRows([]string{"exists"}).AddRow(true))

	err := migrator.RunMigrations(context.Background())
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}
