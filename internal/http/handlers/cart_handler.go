package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "samtech/internal/log"
	"samtech/internal/services"
)

type CartHandler struct {
	Cart *services.CartService
}

type addItemRequest struct {
	UserID    string `json:"userId" form:"userId"`
	ProductID string `json:"productId" form:"productId"`
	Quantity  *int   `json:"quantity" form:"quantity"`
}

// POST /api/cart
func (h *CartHandler) Add(c *fiber.Ctx) error {
	var req addItemRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	userID, err := owner(c, req.UserID)
	if err != nil {
		return fail(c, "cart.add.fail", err)
	}
	qty := 1
	if req.Quantity != nil {
		qty = *req.Quantity
	}
	cart, err := h.Cart.AddItem(c.UserContext(), userID, req.ProductID, qty)
	if err != nil {
		return fail(c, "cart.add.fail", err)
	}
	applog.Info(c, "cart.add", map[string]any{"product_id": req.ProductID, "qty": qty})
	return render(c, fiber.StatusOK, cart)
}

// GET /api/cart/:userId
func (h *CartHandler) View(c *fiber.Ctx) error {
	userID, err := owner(c, c.Params("userId"))
	if err != nil {
		return fail(c, "cart.view.fail", err)
	}
	cart, err := h.Cart.GetCart(c.UserContext(), userID)
	if err != nil {
		return fail(c, "cart.view.fail", err)
	}
	return render(c, fiber.StatusOK, cart)
}

// DELETE /api/cart/:userId/:productId
func (h *CartHandler) Remove(c *fiber.Ctx) error {
	userID, err := owner(c, c.Params("userId"))
	if err != nil {
		return fail(c, "cart.remove.fail", err)
	}
	cart, err := h.Cart.RemoveItem(c.UserContext(), userID, c.Params("productId"))
	if err != nil {
		return fail(c, "cart.remove.fail", err)
	}
	return render(c, fiber.StatusOK, cart)
}

type quantityRequest struct {
	Quantity int `json:"quantity" form:"quantity"`
}

// PUT /api/cart/:userId/:productId
func (h *CartHandler) SetQuantity(c *fiber.Ctx) error {
	var req quantityRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	userID, err := owner(c, c.Params("userId"))
	if err != nil {
		return fail(c, "cart.update.fail", err)
	}
	cart, err := h.Cart.SetQuantity(c.UserContext(), userID, c.Params("productId"), req.Quantity)
	if err != nil {
		return fail(c, "cart.update.fail", err)
	}
	return render(c, fiber.StatusOK, cart)
}
