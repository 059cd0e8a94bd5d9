package middleware // declare the middleware package; contains reusable HTTP middleware functions

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/iliyamo/dinner-invite/internal/utils"
)

// SessionCookieName is the cookie carrying the signed session id.
const SessionCookieName = "invite_session"

// Context keys set by SessionCookie.
const (
	ctxSessionID  = "session_id"
	ctxSessionNew = "session_new"
)

// SessionCookie returns an Echo middleware that identifies the visitor by a
// signed session cookie.  A missing, expired or tampered cookie results in a
// fresh session id; either way the cookie is re-issued so its expiry slides
// with activity.  Handlers read the id via SessionID(c) and learn whether
// it was minted on this request via IsNewSession(c).
func SessionCookie(secret string, ttl time.Duration, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(SessionCookieName); err == nil {
				if parsed, err := utils.ParseSessionToken(secret, ck.Value); err == nil {
					id = parsed
				}
			}
			isNew := id == ""
			if isNew {
				id = uuid.NewString()
			}

			tok, err := utils.NewSessionToken(secret, id, ttl)
			if err != nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "failed to issue session")
			}
			c.SetCookie(&http.Cookie{
				Name:     SessionCookieName,
				Value:    tok.Token,
				Path:     "/",
				Expires:  tok.Exp,
				HttpOnly: true,
				Secure:   secure,
				SameSite: http.SameSiteLaxMode,
			})

			c.Set(ctxSessionID, id)
			c.Set(ctxSessionNew, isNew)
			return next(c)
		}
	}
}
