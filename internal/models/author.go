package models

import (
	"time"
)

// Author represents a book author in the catalog.
type Author struct {
	ID        int64     `json:"id" db:"author_id"`
	FirstName string    `json:"first_name" db:"first_name" validate:"required,min=1,max=100"`
	LastName  string    `json:"last_name" db:"last_name" validate:"required,min=1,max=100"`
	Biography string    `json:"biography" db:"biography"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the Author model.
func (a *Author) TableName() string {
	return "authors"
}

// FullName returns the author's display name.
func (a *Author) FullName() string {
	return a.FirstName + " " + a.LastName
}

// AuthorCreate represents the data required to add an author.
type AuthorCreate struct {
	FirstName string `json:"first_name" validate:"required,min=1,max=100"`
	LastName  string `json:"last_name" validate:"required,min=1,max=100"`
	Biography string `json:"biography"`
}

// AuthorUpdate represents the fields that can be updated on an author.
type AuthorUpdate struct {
	FirstName string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  string `json:"last_name" validate:"omitempty,min=1,max=100"`
	Biography string `json:"biography"`
}
