package handlers

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"

	"samtech/internal/domain"
	applog "samtech/internal/log"
)

func render(c *fiber.Ctx, status int, v any) error {
	return c.Status(status).JSON(v)
}

func message(c *fiber.Ctx, status int, msg string) error {
	return c.Status(status).JSON(fiber.Map{"message": msg})
}

// statusFor maps domain errors onto HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

// fail writes {"error": msg}. Server errors are logged under action and
// replaced with a generic message.
func fail(c *fiber.Ctx, action string, err error) error {
	status := statusFor(err)
	if status == fiber.StatusInternalServerError {
		applog.Error(c, action, err, nil)
		return render(c, status, fiber.Map{"error": "Something went wrong. Please try again."})
	}
	if status == fiber.StatusUnauthorized || status == fiber.StatusForbidden {
		applog.Security(c, action, map[string]any{"reason": err.Error()})
	}
	return render(c, status, fiber.Map{"error": publicMessage(err)})
}

// publicMessage drops the sentinel prefix so clients see only the reason.
func publicMessage(err error) string {
	msg := err.Error()
	for _, s := range []error{domain.ErrValidation, domain.ErrUnauthorized, domain.ErrForbidden} {
		if p := s.Error() + ": "; strings.HasPrefix(msg, p) {
			return strings.TrimPrefix(msg, p)
		}
	}
	return msg
}

// ErrorHandler is the app-wide fallback for errors that escape a handler.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return render(c, fe.Code, fiber.Map{"error": fe.Message})
	}
	applog.Error(c, "server.error", err, nil)
	return render(c, fiber.StatusInternalServerError, fiber.Map{"error": "Something went wrong. Please try again."})
}
