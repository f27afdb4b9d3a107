package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"

	applog "samtech/internal/log"
	"samtech/internal/services"
)

// AuthHandler serves storefront customer accounts under /clients/api.
type AuthHandler struct {
	Auth *services.AuthService
	// Secure marks the session cookie HTTPS-only.
	Secure bool
}

func (h *AuthHandler) setToken(c *fiber.Ctx, token string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     TokenCookie,
		Value:    token,
		Path:     "/",
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteStrictMode,
		Secure:   h.Secure,
		Expires:  time.Now().Add(ttl),
	})
}

// POST /clients/api/register
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var r services.Registration
	if err := c.BodyParser(&r); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	cust, tok, err := h.Auth.Register(c.UserContext(), r)
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			applog.Security(c, "validation.fail", map[string]any{"route": "register", "reason": publicMessage(err)})
		}
		return fail(c, "auth.register.fail", err)
	}
	h.setToken(c, tok, h.Auth.TTL)
	applog.Audit(c, "auth.register", map[string]any{"customer_id": cust.ID})
	return render(c, fiber.StatusCreated, fiber.Map{"user": cust})
}

type loginRequest struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

// POST /clients/api/login
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	cust, tok, err := h.Auth.Login(c.UserContext(), req.Email, req.Password)
	if err != nil {
		if statusFor(err) == fiber.StatusUnauthorized {
			applog.Security(c, "auth.login.fail", map[string]any{"email": req.Email})
			return render(c, fiber.StatusUnauthorized, fiber.Map{"error": publicMessage(err)})
		}
		return fail(c, "auth.login.fail", err)
	}
	h.setToken(c, tok, h.Auth.TTL)
	applog.Audit(c, "auth.login.success", map[string]any{"customer_id": cust.ID})
	return render(c, fiber.StatusOK, fiber.Map{"user": cust})
}

// POST /clients/api/logout
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	h.setToken(c, "", -time.Hour)
	applog.Audit(c, "auth.logout", nil)
	return message(c, fiber.StatusOK, "Logged out")
}

// GET /clients/api/user
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	cust, err := h.Auth.Me(c.UserContext(), currentUser(c))
	if err != nil {
		return fail(c, "auth.me.fail", err)
	}
	return render(c, fiber.StatusOK, cust)
}

// PUT /clients/api/user
func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	var u services.ProfileUpdate
	if err := c.BodyParser(&u); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	cust, err := h.Auth.UpdateProfile(c.UserContext(), currentUser(c), u)
	if err != nil {
		return fail(c, "auth.profile.fail", err)
	}
	applog.Audit(c, "auth.profile.update", nil)
	return render(c, fiber.StatusOK, cust)
}

type passwordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
	RepeatPassword  string `json:"repeatPassword" form:"repeatPassword"`
}

// PUT /clients/api/user/password
func (h *AuthHandler) ChangePassword(c *fiber.Ctx) error {
	var req passwordRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	err := h.Auth.ChangePassword(c.UserContext(), currentUser(c), req.CurrentPassword, req.NewPassword, req.RepeatPassword)
	if err != nil {
		return fail(c, "auth.password.fail", err)
	}
	applog.Audit(c, "auth.password.change", nil)
	return message(c, fiber.StatusOK, "Password updated")
}
