// Package response renders the uniform API envelope.
package response

import (
	"github.com/labstack/echo/v4"
)

// Body is the wire shape shared by every endpoint: {success, message,
// data} on the happy path, {success:false, message, errorCode} on failure.
type Body struct {
	Success   bool   `json:"success"`
	Message   string `json:"message,omitempty"`
	Data      any    `json:"data,omitempty"`
	ErrorCode string `json:"errorCode,omitempty"`
}

// Success renders a successful response. Message may be empty for plain
// data reads.
func Success(c echo.Context, statusCode int, data any, message string) error {
	return c.JSON(statusCode, Body{
		Success: true,
		Message: message,
		Data:    data,
	})
}

// Error renders a failure from the closed error taxonomy.
func Error(c echo.Context, statusCode int, errorCode, message string) error {
	return c.JSON(statusCode, Body{
		Success:   false,
		Message:   message,
		ErrorCode: errorCode,
	})
}
