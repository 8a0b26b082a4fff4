package models

import (
	"time"
)

// Category represents a browsing category in the catalog.
type Category struct {
	ID        int64     `json:"id" db:"category_id"`
	Name      string    `json:"name" db:"name" validate:"required,min=1,max=100"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// TableName returns the database table name for the Category model.
func (c *Category) TableName() string {
	return "categories"
}

// CategoryCreate represents the data required to add a category.
type CategoryCreate struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}

// CategoryUpdate represents the fields that can be updated on a category.
type CategoryUpdate struct {
	Name string `json:"name" validate:"required,min=1,max=100"`
}
