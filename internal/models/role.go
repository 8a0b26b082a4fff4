package models

// Role represents a named permission group assignable to users.
type Role struct {
	ID   int64  `json:"id" db:"role_id"`
	Name string `json:"name" db:"name" validate:"required"`
}

// TableName returns the database table name for the Role model.
func (r *Role) TableName() string {
	return "roles"
}
