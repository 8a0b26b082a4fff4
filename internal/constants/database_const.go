// Package constants provides shared constant values used throughout the application.
//
// The database_const.go file defines constants related to database structures,
// including table names and column names. These constants ensure consistent and
// correct database access patterns throughout the application, reducing the risk
// of SQL errors and simplifying database schema changes.
package constants

// Table Names define the names of database tables used in the application.
const (
	// TableUsers is the name of the table storing user account information.
	TableUsers = "users"

	// TableRoles is the name of the table storing permission roles.
	TableRoles = "roles"

	// TableUserRoles is the name of the join table assigning roles to users.
	TableUserRoles = "user_roles"

	// TablePasswordResetTokens is the name of the table storing password reset token hashes.
	TablePasswordResetTokens = "password_reset_tokens"

	// TableBooks is the name of the table storing book records.
	TableBooks = "books"

	// TableAuthors is the name of the table storing author records.
	TableAuthors = "authors"

	// TableCategories is the name of the table storing category records.
	TableCategories = "categories"
)

// Common Column Names define frequently used database column names.
const (
	// ColumnUserID is the users table primary key column.
	ColumnUserID = "user_id"

	// ColumnUsername is the users table username column.
	ColumnUsername = "username"

	// ColumnEmail is the users table email column.
	ColumnEmail = "email"

	// ColumnTokenHash is the password reset token hash column.
	ColumnTokenHash = "token_hash"

	// ColumnPasswordHash is the users table password hash column.
	ColumnPasswordHash = "password_hash"

	// ColumnSalt is the users table password salt column.
	ColumnSalt = "salt"
)
