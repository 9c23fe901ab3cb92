package middleware

import (
	"net/http"
	"strings"

	deliverycontext "taskvault/internal/delivery/context"
	"taskvault/internal/delivery/http/response"
	domainerrors "taskvault/internal/domain/errors"
	"taskvault/internal/domain/service"

	"github.com/labstack/echo/v4"
)

const (
	// SessionCookieName is the cookie carrying the signed session token.
	SessionCookieName = "token"

	loginPath = "/login"
)

// Route prefixes behind the session gate. Pages redirect to the login
// screen on auth failure; API routes answer with the JSON envelope.
var (
	protectedPagePrefixes = []string{"/dashboard", "/tasks"}
	protectedAPIPrefixes  = []string{"/api/tasks", "/api/auth/me", "/api/auth/logout"}
)

// AuthMiddleware is the session gate: the single place the raw token is
// verified. Downstream handlers read the injected subject and never touch
// the cookie again.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Gate classifies the request path and enforces authentication on protected
// prefixes. Everything else passes through untouched.
func (m *AuthMiddleware) Gate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		path := c.Request().URL.Path

		isAPI := hasAnyPrefix(path, protectedAPIPrefixes)
		isPage := !isAPI && hasAnyPrefix(path, protectedPagePrefixes)
		if !isAPI && !isPage {
			return next(c)
		}

		cookie, err := c.Cookie(SessionCookieName)
		if err != nil || cookie.Value == "" {
			if isAPI {
				return response.Error(c, http.StatusUnauthorized,
					domainerrors.ErrTokenMissing.ErrorCode(),
					domainerrors.ErrTokenMissing.Message())
			}

			return c.Redirect(http.StatusFound, loginPath)
		}

		claims, err := m.tokenSvc.Verify(cookie.Value)
		if err != nil {
			if isAPI {
				return response.Error(c, http.StatusUnauthorized,
					domainerrors.ErrTokenInvalid.ErrorCode(),
					domainerrors.ErrTokenInvalid.Message())
			}

			return c.Redirect(http.StatusFound, loginPath)
		}

		// Attach the verified subject for handlers and the service layer.
		deliverycontext.SetSubject(c, claims.Subject)
		ctx := deliverycontext.WithSubject(c.Request().Context(), claims.Subject)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

func hasAnyPrefix(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}

	return false
}
