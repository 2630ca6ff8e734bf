// Package entity defines the domain entities for the auth feature.
package entity

import "time"

// User represents a back-office user account.
// It contains authentication credentials and the role used for authorization.
type User struct {
	// ID is the unique identifier for the user.
	ID uint `gorm:"primaryKey"`

	// Email is the user's email address used for authentication.
	// It must be unique across all users.
	Email string `gorm:"uniqueIndex;size:255;not null"`

	// Password is the bcrypt hash of the user's password.
	// This never stores plaintext passwords.
	Password string `gorm:"size:255;not null"`

	// Role is the access level checked by the authorization middleware.
	Role Role `gorm:"size:16;not null;default:viewer"`

	// CreatedAt is the timestamp when the user was created.
	CreatedAt time.Time

	// UpdatedAt is the timestamp when the user was last updated.
	UpdatedAt time.Time
}
