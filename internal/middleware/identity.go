package middleware

// identity.go defines helper functions shared across middleware files and
// handlers. They pull the visitor's session id placed in the Echo context
// by SessionCookie. When no session is present "anon" is returned.

import (
	"github.com/labstack/echo/v4"
)

// SessionID returns the visitor's session id, or "anon" outside of
// SessionCookie.
func SessionID(c echo.Context) string {
	if v, ok := c.Get(ctxSessionID).(string); ok && v != "" {
		return v
	}
	return "anon"
}

// IsNewSession reports whether the session id was minted on this request.
func IsNewSession(c echo.Context) bool {
	v, _ := c.Get(ctxSessionNew).(bool)
	return v
}

// shortID trims a session id for log lines.
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
