package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "samtech/internal/log"
	"samtech/internal/services"
)

type EventHandler struct {
	Events *services.EventService
}

func (h *EventHandler) List(c *fiber.Ctx) error {
	events, err := h.Events.List(c.UserContext())
	if err != nil {
		return fail(c, "events.list.fail", err)
	}
	return render(c, fiber.StatusOK, events)
}

func (h *EventHandler) Detail(c *fiber.Ctx) error {
	e, err := h.Events.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "events.get.fail", err)
	}
	return render(c, fiber.StatusOK, e)
}

func eventInput(u *upload) services.EventInput {
	return services.EventInput{
		Title:       u.field("title"),
		Description: u.field("description"),
		Date:        u.field("date"),
		VideoURLs:   u.field("youtubeUrls"),
	}
}

func (h *EventHandler) Create(c *fiber.Ctx) error {
	u := parseUpload(c)
	defer u.close()
	files, err := u.files("images")
	if err != nil {
		return fail(c, "events.create.fail", err)
	}
	e, err := h.Events.Create(c.UserContext(), eventInput(u), files)
	if err != nil {
		return fail(c, "events.create.fail", err)
	}
	applog.Audit(c, "admin.events.create", map[string]any{"event_id": e.ID})
	return render(c, fiber.StatusCreated, e)
}

func (h *EventHandler) Update(c *fiber.Ctx) error {
	id := c.Params("id")
	u := parseUpload(c)
	defer u.close()
	files, err := u.files("images")
	if err != nil {
		return fail(c, "events.update.fail", err)
	}
	e, err := h.Events.Update(c.UserContext(), id, eventInput(u), files)
	if err != nil {
		return fail(c, "events.update.fail", err)
	}
	applog.Audit(c, "admin.events.update", map[string]any{"event_id": id})
	return render(c, fiber.StatusOK, e)
}

func (h *EventHandler) DeleteImage(c *fiber.Ctx) error {
	id, publicID := c.Params("id"), c.Params("*")
	if publicID == "" {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "image id is required"})
	}
	e, err := h.Events.DeleteImage(c.UserContext(), id, publicID)
	if err != nil {
		return fail(c, "events.image.delete.fail", err)
	}
	applog.Audit(c, "admin.events.image.delete", map[string]any{"event_id": id, "public_id": publicID})
	return render(c, fiber.StatusOK, e)
}

func (h *EventHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Events.Delete(c.UserContext(), id); err != nil {
		return fail(c, "events.delete.fail", err)
	}
	applog.Audit(c, "admin.events.delete", map[string]any{"event_id": id})
	return message(c, fiber.StatusOK, "Event deleted successfully")
}
