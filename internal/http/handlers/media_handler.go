package handlers

import (
	"os"

	"github.com/gofiber/fiber/v2"

	"samtech/internal/assets"
	applog "samtech/internal/log"
)

// MediaHandler serves assets written by the local store.
type MediaHandler struct {
	Store *assets.Local
}

// GET /media/*
func (h *MediaHandler) Serve(c *fiber.Ctx) error {
	path := c.Params("*")
	full, err := h.Store.Resolve(path)
	if err != nil {
		applog.Security(c, "media.traversal.block", map[string]any{"path": path})
		return c.SendStatus(fiber.StatusNotFound)
	}
	if fi, err := os.Stat(full); err != nil || fi.IsDir() {
		return c.SendStatus(fiber.StatusNotFound)
	}
	return c.SendFile(full, true)
}
