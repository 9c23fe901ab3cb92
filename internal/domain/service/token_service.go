package service

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// ErrTokenInvalid is the single error every token verification failure
// collapses into. Callers must not be able to tell a bad signature
// from a malformed or expired token.
var ErrTokenInvalid = errors.New("invalid or expired token")

// Claims are the verified contents of a session token.
type Claims struct {
	Subject   uuid.UUID // The account the token was issued for.
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// TokenService issues and verifies the signed, time-limited session
// tokens carried in the session cookie.
type TokenService interface {
	// Issue mints a new token for the given subject.
	Issue(subject uuid.UUID) (string, error)

	// Verify parses and validates a token string. Any failure surfaces
	// as ErrTokenInvalid.
	Verify(token string) (*Claims, error)

	// ValidityWindow returns how long an issued token stays valid.
	ValidityWindow() time.Duration
}
