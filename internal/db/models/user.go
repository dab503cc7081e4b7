// Package models contains database model definitions.
package models

import "time"

// User represents a managed user account.
// Users belong to zero or more groups; group membership is the only
// relation a user owns.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`
	// FullName is the user's display name.
	FullName string `gorm:"size:255;not null"`
	// Email is the user's email address. Uniqueness is not enforced.
	Email string `gorm:"size:255;not null"`
	// CreatedAt is the timestamp when the user was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the user was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the User model.
// This overrides GORM's default pluralized table naming.
func (User) TableName() string {
	return "users"
}
