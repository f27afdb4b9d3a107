package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "samtech/internal/log"
	"samtech/internal/services"
	"samtech/internal/validate"
)

type OrderHandler struct {
	Order *services.OrderService
}

type checkoutRequest struct {
	UserID           string `json:"userId" form:"userId"`
	CartID           string `json:"cartId" form:"cartId"`
	DeliveryLocation string `json:"deliveryLocation" form:"deliveryLocation"`
	PhoneNumber      string `json:"phoneNumber" form:"phoneNumber"`
}

// POST /api/orders
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req checkoutRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	userID, err := owner(c, req.UserID)
	if err != nil {
		return fail(c, "order.place.fail", err)
	}
	order, err := h.Order.Checkout(c.UserContext(), services.CheckoutInput{
		UserID:           userID,
		CartID:           req.CartID,
		DeliveryLocation: req.DeliveryLocation,
		PhoneNumber:      req.PhoneNumber,
	})
	if err != nil {
		if statusFor(err) == fiber.StatusBadRequest {
			applog.Security(c, "validation.fail", map[string]any{"route": "checkout", "reason": publicMessage(err)})
		}
		return fail(c, "order.place.fail", err)
	}
	applog.Audit(c, "order.place", map[string]any{
		"order_id": order.ID,
		"total":    order.TotalAmount.String(),
		"items":    len(order.Items),
	})
	return render(c, fiber.StatusCreated, order)
}

// GET /api/orders/:userId
func (h *OrderHandler) History(c *fiber.Ctx) error {
	userID, err := owner(c, c.Params("userId"))
	if err != nil {
		return fail(c, "orders.history.fail", err)
	}
	orders, err := h.Order.ListByUser(c.UserContext(), userID)
	if err != nil {
		return fail(c, "orders.history.fail", err)
	}
	return render(c, fiber.StatusOK, orders)
}

type statusRequest struct {
	Status string `json:"status" form:"status"`
}

// PUT /api/orders/:orderId/status and PUT /api/clients/orders/:id/status
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	id := c.Params("orderId", c.Params("id"))
	var req statusRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	order, err := h.Order.UpdateStatus(c.UserContext(), id, req.Status)
	if err != nil {
		return fail(c, "admin.orders.update.fail", err)
	}
	applog.Audit(c, "admin.orders.update", map[string]any{"order_id": id, "status": order.Status})
	return render(c, fiber.StatusOK, order)
}

// GET /api/clients/orders?status=&search=
func (h *OrderHandler) AdminList(c *fiber.Ctx) error {
	search, ok := validate.Q(c.Query("search"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "search"})
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid search term"})
	}
	orders, err := h.Order.List(c.UserContext(), c.Query("status"), search)
	if err != nil {
		return fail(c, "admin.orders.list.fail", err)
	}
	return render(c, fiber.StatusOK, orders)
}

// DELETE /api/clients/orders/:id
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Order.Delete(c.UserContext(), id); err != nil {
		return fail(c, "admin.orders.delete.fail", err)
	}
	applog.Audit(c, "admin.orders.delete", map[string]any{"order_id": id})
	return message(c, fiber.StatusOK, "Order deleted")
}
