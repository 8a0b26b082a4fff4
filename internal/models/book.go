package models

import (
	"time"
)

// Book represents a title in the bookstore catalog.
type Book struct {
	ID          int64     `json:"id" db:"book_id"`
	Title       string    `json:"title" db:"title" validate:"required,min=1,max=255"`
	ISBN        string    `json:"isbn" db:"isbn" validate:"required,min=10,max=17"`
	Description string    `json:"description" db:"description"`
	Price       float64   `json:"price" db:"price" validate:"gte=0"`
	CoverImage  string    `json:"cover_image" db:"cover_image"`
	AuthorID    int64     `json:"author_id" db:"author_id" validate:"required"`
	CategoryID  int64     `json:"category_id" db:"category_id" validate:"required"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`

	// Joined display fields, not columns on the books table.
	AuthorName   string `json:"author_name,omitempty" db:"-"`
	CategoryName string `json:"category_name,omitempty" db:"-"`
}

// TableName returns the database table name for the Book model.
func (b *Book) TableName() string {
	return "books"
}

// BookCreate represents the data required to add a book to the catalog.
type BookCreate struct {
	Title       string  `json:"title" validate:"required,min=1,max=255"`
	ISBN        string  `json:"isbn" validate:"required,min=10,max=17"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gte=0"`
	AuthorID    int64   `json:"author_id" validate:"required"`
	CategoryID  int64   `json:"category_id" validate:"required"`
}

// BookUpdate represents the fields that can be updated on a book.
type BookUpdate struct {
	Title       string  `json:"title" validate:"omitempty,min=1,max=255"`
	ISBN        string  `json:"isbn" validate:"omitempty,min=10,max=17"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"omitempty,gte=0"`
	AuthorID    int64   `json:"author_id" validate:"omitempty"`
	CategoryID  int64   `json:"category_id" validate:"omitempty"`
}
