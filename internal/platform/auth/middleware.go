package auth

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

const (
	ctxRoleKey   = "session_role"
	ctxUserIDKey = "session_user_id"
)

// SessionMiddleware parses the bearer token and stashes the role and user ID
// on the request context. Requests without a valid token are rejected; mount
// only on protected groups.
func SessionMiddleware(sm *SessionManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			header := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing bearer token")
			}
			sess, err := sm.Parse(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid session token")
			}
			c.Set(ctxRoleKey, sess.Role)
			c.Set(ctxUserIDKey, sess.UserID)
			return next(c)
		}
	}
}

// RoleFromContext returns the authenticated role, or "" when unauthenticated.
func RoleFromContext(c echo.Context) string {
	role, _ := c.Get(ctxRoleKey).(string)
	return role
}

// UserIDFromContext returns the authenticated user's ID (patient ID, doctor
// ID, or admin identity ID).
func UserIDFromContext(c echo.Context) string {
	id, _ := c.Get(ctxUserIDKey).(string)
	return id
}

// IsSelfOrAdmin reports whether the session belongs to userID or to an
// admin. Handlers use it to keep patients and doctors on their own records.
func IsSelfOrAdmin(c echo.Context, userID string) bool {
	if RoleFromContext(c) == RoleAdmin {
		return true
	}
	return UserIDFromContext(c) == userID
}
