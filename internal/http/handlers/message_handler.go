package handlers

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/valyala/fasthttp"

	applog "samtech/internal/log"
	"samtech/internal/services"
	"samtech/internal/validate"
)

type MessageHandler struct {
	Messages  *services.MessageService
	Heartbeat time.Duration
	// Lifetime closes a stream after this long so the client reconnects; zero keeps it open.
	Lifetime  time.Duration
}

// POST /api/messages (public contact form)
func (h *MessageHandler) Create(c *fiber.Ctx) error {
	var in services.MessageInput
	if err := c.BodyParser(&in); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	m, err := h.Messages.Create(c.UserContext(), in)
	if err != nil {
		return fail(c, "messages.create.fail", err)
	}
	applog.Info(c, "messages.create", map[string]any{"message_id": m.ID})
	return render(c, fiber.StatusCreated, fiber.Map{"message": "Message sent successfully", "id": m.ID})
}

// GET /api/messages?search=
func (h *MessageHandler) List(c *fiber.Ctx) error {
	search, ok := validate.Q(c.Query("search"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid search term"})
	}
	list, err := h.Messages.List(c.UserContext(), search)
	if err != nil {
		return fail(c, "messages.list.fail", err)
	}
	return render(c, fiber.StatusOK, list)
}

// GET /api/messages/:id marks the message read.
func (h *MessageHandler) Open(c *fiber.Ctx) error {
	m, err := h.Messages.Open(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "messages.get.fail", err)
	}
	return render(c, fiber.StatusOK, m)
}

// PATCH /api/messages/:id/read
func (h *MessageHandler) MarkRead(c *fiber.Ctx) error {
	m, err := h.Messages.MarkRead(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "messages.read.fail", err)
	}
	return render(c, fiber.StatusOK, m)
}

// DELETE /api/messages/:id
func (h *MessageHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Messages.Delete(c.UserContext(), id); err != nil {
		return fail(c, "messages.delete.fail", err)
	}
	applog.Audit(c, "admin.messages.delete", map[string]any{"message_id": id})
	return message(c, fiber.StatusOK, "Message deleted successfully")
}

// GET /api/messages/stream/updates
//
// Server-sent events: the current list first, then the full list after every
// change, plus a comment heartbeat. The subscription ends when a write fails.
func (h *MessageHandler) Stream(c *fiber.Ctx) error {
	c.Set(fiber.HeaderContentType, "text/event-stream")
	c.Set(fiber.HeaderCacheControl, "no-cache")
	c.Set(fiber.HeaderConnection, "keep-alive")
	c.Set("X-Accel-Buffering", "no")

	heartbeat := h.Heartbeat
	if heartbeat <= 0 {
		heartbeat = 15 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	updates, stop := h.Messages.Subscribe(ctx)
	initial, err := h.Messages.Snapshot(ctx)
	if err != nil {
		stop()
		cancel()
		return fail(c, "messages.stream.fail", err)
	}
	applog.Info(c, "messages.stream.open", nil)

	c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
		defer cancel()
		defer stop()

		if !writeEvent(w, initial) {
			return
		}
		tick := time.NewTicker(heartbeat)
		defer tick.Stop()
		var expired <-chan time.Time
		if h.Lifetime > 0 {
			timer := time.NewTimer(h.Lifetime)
			defer timer.Stop()
			expired = timer.C
		}
		for {
			select {
			case <-expired:
				return
			case payload, ok := <-updates:
				if !ok || !writeEvent(w, payload) {
					return
				}
			case <-tick.C:
				if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil || w.Flush() != nil {
					return
				}
			}
		}
	}))
	return nil
}

func writeEvent(w *bufio.Writer, payload []byte) bool {
	if _, err := fmt.Fprintf(w, "data: %s\n\n", payload); err != nil {
		return false
	}
	return w.Flush() == nil
}
