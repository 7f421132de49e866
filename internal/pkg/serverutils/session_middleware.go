package serverutils

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const (
	SessionCookieName = "session_id"
	// Sessions expire with the cookie, 15 minutes like the session TTL.
	sessionCookieMaxAge = 15 * time.Minute
)

// SessionMiddleware guarantees every request carries a session id: an
// existing cookie is reused, otherwise a fresh uuid is minted and set.
// The id lands in Locals("session_id") for the handlers.
func SessionMiddleware(isProd bool) fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		sessionID := ctx.Cookies(SessionCookieName)
		if _, err := uuid.Parse(sessionID); err != nil {
			sessionID = uuid.NewString()
		}

		setSessionCookie(ctx, sessionID, isProd)
		ctx.Locals("session_id", sessionID)
		return ctx.Next()
	}
}

func setSessionCookie(ctx *fiber.Ctx, sessionID string, isProd bool) {
	sameSite := fiber.CookieSameSiteLaxMode
	if isProd {
		sameSite = fiber.CookieSameSiteNoneMode
	}
	ctx.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    sessionID,
		MaxAge:   int(sessionCookieMaxAge.Seconds()),
		HTTPOnly: true,
		Secure:   isProd,
		SameSite: sameSite,
	})
}
