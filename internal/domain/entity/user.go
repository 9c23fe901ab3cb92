// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import (
	"time"

	"github.com/google/uuid"
)

// User is an account that owns tasks. The ID is the subject of every
// session token issued for this account and never changes after
// registration.
type User struct {
	ID           uuid.UUID // Stable identifier, subject of session tokens.
	Email        string    // Unique login identifier.
	PasswordHash string    // bcrypt digest; never exposed outside the auth flow.
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
