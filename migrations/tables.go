package migrations

import (
	"context"
	"database/sql"
)

// createUsersTable creates the users table
func createUsersTable() Migration {
	return Migration{
		Name:        "create_users_table",
		Description: "Creates the users table",
		TableName:   "users",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS users (
					user_id BIGSERIAL PRIMARY KEY,
					username VARCHAR(50) NOT NULL,
					email VARCHAR(255) NOT NULL,
					first_name VARCHAR(100) NOT NULL DEFAULT '',
					last_name VARCHAR(100) NOT NULL DEFAULT '',
					password_hash VARCHAR(255) NOT NULL,
					salt VARCHAR(255) NOT NULL,
					enabled BOOLEAN NOT NULL DEFAULT TRUE,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT users_username_key UNIQUE (username),
					CONSTRAINT users_email_key UNIQUE (email)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createRolesTable creates the roles table
func createRolesTable() Migration {
	return Migration{
		Name:        "create_roles_table",
		Description: "Creates the roles table",
		TableName:   "roles",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS roles (
					role_id BIGSERIAL PRIMARY KEY,
					name VARCHAR(50) NOT NULL,
					CONSTRAINT roles_name_key UNIQUE (name)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createUserRolesTable creates the user_roles join table
func createUserRolesTable() Migration {
	return Migration{
		Name:        "create_user_roles_table",
		Description: "Creates the user_roles join table",
		TableName:   "user_roles",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS user_roles (
					user_id BIGINT NOT NULL,
					role_id BIGINT NOT NULL,
					PRIMARY KEY (user_id, role_id),
					CONSTRAINT user_roles_user_id_fkey FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE,
					CONSTRAINT user_roles_role_id_fkey FOREIGN KEY (role_id) REFERENCES roles(role_id) ON DELETE CASCADE
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createPasswordResetTokensTable creates the password_reset_tokens table.
// Only the SHA-256 hash of a token is stored, never the token itself.
func createPasswordResetTokensTable() Migration {
	return Migration{
		Name:        "create_password_reset_tokens_table",
		Description: "Creates the password_reset_tokens table",
		TableName:   "password_reset_tokens",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS password_reset_tokens (
					token_hash VARCHAR(64) PRIMARY KEY,
					user_id BIGINT NOT NULL,
					expires_at TIMESTAMP NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT password_reset_tokens_user_id_fkey FOREIGN KEY (user_id) REFERENCES users(user_id) ON DELETE CASCADE
				);
				CREATE INDEX IF NOT EXISTS idx_reset_tokens_user_id ON password_reset_tokens(user_id);
				CREATE INDEX IF NOT EXISTS idx_reset_tokens_expires_at ON password_reset_tokens(expires_at);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createAuthorsTable creates the authors table
func createAuthorsTable() Migration {
	return Migration{
		Name:        "create_authors_table",
		Description: "Creates the authors table",
		TableName:   "authors",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS authors (
					author_id BIGSERIAL PRIMARY KEY,
					first_name VARCHAR(100) NOT NULL,
					last_name VARCHAR(100) NOT NULL,
					biography TEXT NOT NULL DEFAULT '',
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
				);
				CREATE INDEX IF NOT EXISTS idx_authors_name ON authors(last_name, first_name);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createCategoriesTable creates the categories table
func createCategoriesTable() Migration {
	return Migration{
		Name:        "create_categories_table",
		Description: "Creates the categories table",
		TableName:   "categories",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS categories (
					category_id BIGSERIAL PRIMARY KEY,
					name VARCHAR(100) NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT categories_name_key UNIQUE (name)
				)
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}

// createBooksTable creates the books table.
// Author and category deletes are restricted while books reference them;
// the repositories translate those violations into conflict errors.
func createBooksTable() Migration {
	return Migration{
		Name:        "create_books_table",
		Description: "Creates the books table",
		TableName:   "books",
		RunSQL: func(ctx context.Context, tx *sql.Tx) error {
			query := `
				CREATE TABLE IF NOT EXISTS books (
					book_id BIGSERIAL PRIMARY KEY,
					title VARCHAR(255) NOT NULL,
					isbn VARCHAR(20) NOT NULL,
					description TEXT NOT NULL DEFAULT '',
					price NUMERIC(10, 2) NOT NULL DEFAULT 0,
					cover_image VARCHAR(255) NOT NULL DEFAULT '',
					author_id BIGINT NOT NULL,
					category_id BIGINT NOT NULL,
					created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
					CONSTRAINT books_title_key UNIQUE (title),
					CONSTRAINT books_isbn_key UNIQUE (isbn),
					CONSTRAINT books_author_id_fkey FOREIGN KEY (author_id) REFERENCES authors(author_id) ON DELETE RESTRICT,
					CONSTRAINT books_category_id_fkey FOREIGN KEY (category_id) REFERENCES categories(category_id) ON DELETE RESTRICT
				);
				CREATE INDEX IF NOT EXISTS idx_books_author_id ON books(author_id);
				CREATE INDEX IF NOT EXISTS idx_books_category_id ON books(category_id);
			`
			_, err := tx.ExecContext(ctx, query)
			return err
		},
	}
}
