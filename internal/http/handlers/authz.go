package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"samtech/internal/domain"
	applog "samtech/internal/log"
)

// TokenCookie holds the customer session token.
const TokenCookie = "token"

type authenticator interface {
	Authenticate(token string) (string, error)
}

func bearer(c *fiber.Ctx) string {
	h := c.Get(fiber.HeaderAuthorization)
	if len(h) > 7 && strings.EqualFold(h[:7], "bearer ") {
		return strings.TrimSpace(h[7:])
	}
	return ""
}

// RequireAdmin accepts a bearer token carrying the admin claim. When
// allowQuery is set the token may also come from ?token=, for EventSource
// clients that cannot send headers.
func RequireAdmin(admins authenticator, allowQuery bool) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := bearer(c)
		if tok == "" && allowQuery {
			tok = c.Query("token")
		}
		id, err := admins.Authenticate(tok)
		if err != nil {
			applog.Security(c, "access.denied.admin", map[string]any{"reason": publicMessage(err)})
			return render(c, statusFor(err), fiber.Map{"error": publicMessage(err)})
		}
		c.Locals("user_id", id)
		c.Locals("admin", true)
		return c.Next()
	}
}

// RequireCustomer reads the session cookie, falling back to a bearer token.
func RequireCustomer(auth authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tok := c.Cookies(TokenCookie)
		if tok == "" {
			tok = bearer(c)
		}
		id, err := auth.Authenticate(tok)
		if err != nil {
			applog.Security(c, "access.denied.customer", map[string]any{"reason": publicMessage(err)})
			return render(c, fiber.StatusUnauthorized, fiber.Map{"error": "Please log in"})
		}
		c.Locals("user_id", id)
		return c.Next()
	}
}

func currentUser(c *fiber.Ctx) string {
	id, _ := c.Locals("user_id").(string)
	return id
}

// owner resolves the user a cart/order request acts for. An empty userID
// means the caller; any other id must match the token subject.
func owner(c *fiber.Ctx, userID string) (string, error) {
	me := currentUser(c)
	userID = strings.TrimSpace(userID)
	if userID == "" || userID == me {
		return me, nil
	}
	applog.Security(c, "access.denied.owner", map[string]any{"requested": userID})
	return "", domain.ErrForbidden
}
