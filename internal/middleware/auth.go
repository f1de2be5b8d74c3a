package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"digistore/internal/service"
)

const (
	contextUserID  = "user_id"
	contextIsAdmin = "is_admin"
)

// AuthMiddleware verifies the bearer token and stores the caller's identity
// in the request context for the handlers behind it.
func AuthMiddleware(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get(echo.HeaderAuthorization)
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}

			claims, err := service.ParseSessionToken(secret, token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid or expired token")
			}

			c.Set(contextUserID, claims.Subject)
			c.Set(contextIsAdmin, claims.IsAdmin)
			return next(c)
		}
	}
}

// AdminOnly rejects callers whose session token lacks the admin flag.
// It must run after AuthMiddleware.
func AdminOnly() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			if !IsAdmin(c) {
				return echo.NewHTTPError(http.StatusForbidden, "administrator access required")
			}
			return next(c)
		}
	}
}

// UserID returns the authenticated caller's id set by AuthMiddleware.
func UserID(c echo.Context) string {
	id, _ := c.Get(contextUserID).(string)
	return id
}

// IsAdmin reports whether the authenticated caller is an administrator.
func IsAdmin(c echo.Context) bool {
	isAdmin, _ := c.Get(contextIsAdmin).(bool)
	return isAdmin
}
