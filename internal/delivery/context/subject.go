package context

import (
	"context"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

// KeySubject is the key for the authenticated account ID verified by the
// session gate. Handlers trust this value and never re-parse the raw token.
const KeySubject ContextKey = "subject"

// SetSubject stores the verified account ID in echo.Context.
func SetSubject(c echo.Context, subject uuid.UUID) {
	c.Set(string(KeySubject), subject)
}

// GetSubject extracts the verified account ID from echo.Context.
func GetSubject(c echo.Context) (uuid.UUID, bool) {
	subject, ok := c.Get(string(KeySubject)).(uuid.UUID)

	return subject, ok
}

// WithSubject returns a new context carrying the verified account ID.
func WithSubject(ctx context.Context, subject uuid.UUID) context.Context {
	return context.WithValue(ctx, KeySubject, subject)
}

// GetSubjectFromContext extracts the verified account ID from standard context.Context.
func GetSubjectFromContext(ctx context.Context) (uuid.UUID, bool) {
	subject, ok := ctx.Value(KeySubject).(uuid.UUID)

	return subject, ok
}
