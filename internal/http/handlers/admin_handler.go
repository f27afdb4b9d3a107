package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "samtech/internal/log"
	"samtech/internal/services"
)

// AdminHandler serves staff authentication under /api/auth.
type AdminHandler struct {
	Admins *services.AdminService
}

type adminCredentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// POST /api/auth/login
func (h *AdminHandler) Login(c *fiber.Ctx) error {
	var req adminCredentials
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	a, tok, err := h.Admins.Login(c.UserContext(), req.Username, req.Password)
	if err != nil {
		if statusFor(err) == fiber.StatusUnauthorized {
			applog.Security(c, "admin.login.fail", map[string]any{"username": req.Username})
			return render(c, fiber.StatusUnauthorized, fiber.Map{"error": publicMessage(err)})
		}
		return fail(c, "admin.login.fail", err)
	}
	c.Locals("user_id", a.ID)
	applog.Audit(c, "admin.login.success", nil)
	return render(c, fiber.StatusOK, fiber.Map{"token": tok, "admin": a})
}

// POST /api/auth/signup (admin only)
func (h *AdminHandler) Signup(c *fiber.Ctx) error {
	var req adminCredentials
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	a, err := h.Admins.Signup(c.UserContext(), req.Username, req.Password)
	if err != nil {
		return fail(c, "admin.signup.fail", err)
	}
	applog.Audit(c, "admin.signup", map[string]any{"admin_id": a.ID})
	return render(c, fiber.StatusCreated, fiber.Map{"admin": a})
}

type adminPasswordRequest struct {
	CurrentPassword string `json:"currentPassword" form:"currentPassword"`
	NewPassword     string `json:"newPassword" form:"newPassword"`
}

// POST /api/auth/change-password (admin only)
func (h *AdminHandler) ChangePassword(c *fiber.Ctx) error {
	var req adminPasswordRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	if err := h.Admins.ChangePassword(c.UserContext(), currentUser(c), req.CurrentPassword, req.NewPassword); err != nil {
		return fail(c, "admin.password.fail", err)
	}
	applog.Audit(c, "admin.password.change", nil)
	return message(c, fiber.StatusOK, "Password updated")
}
