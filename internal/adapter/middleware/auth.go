package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"loanverse/internal/auth"
	"loanverse/internal/domain/identity"
)

const (
	ctxUserName = "session.user"
	ctxUserRole = "session.role"
)

// Authenticate verifies the Bearer token and stashes the session user on the
// request context.
func Authenticate(tm *auth.TokenManager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw := strings.TrimSpace(c.Request().Header.Get(echo.HeaderAuthorization))
			const prefix = "Bearer "
			if !strings.HasPrefix(raw, prefix) {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "missing bearer token"})
			}
			sess, err := tm.Verify(strings.TrimSpace(raw[len(prefix):]))
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "invalid or expired token"})
			}
			c.Set(ctxUserName, sess.Name)
			c.Set(ctxUserRole, sess.Role)
			return next(c)
		}
	}
}

// RequireRole rejects callers whose session role is not in the allowed set.
// Must run after Authenticate.
func RequireRole(roles ...identity.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, ok := c.Get(ctxUserRole).(identity.Role)
			if !ok {
				return c.JSON(http.StatusUnauthorized, map[string]string{"error": "not authenticated"})
			}
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return c.JSON(http.StatusForbidden, map[string]string{"error": "insufficient role"})
		}
	}
}

// UserName returns the authenticated caller's name, or "".
func UserName(c echo.Context) string {
	name, _ := c.Get(ctxUserName).(string)
	return name
}

// UserRole returns the authenticated caller's role, or "".
func UserRole(c echo.Context) identity.Role {
	role, _ := c.Get(ctxUserRole).(identity.Role)
	return role
}
