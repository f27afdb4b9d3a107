package handlers

import (
	"github.com/gofiber/fiber/v2"

	"samtech/internal/domain"
	applog "samtech/internal/log"
	"samtech/internal/services"
	"samtech/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func productID(c *fiber.Ctx) (string, error) {
	id, ok := validate.ID(c.Params("id"))
	if !ok {
		applog.Security(c, "validation.fail", map[string]any{"field": "product"})
		return "", domain.ErrNotFound
	}
	return id, nil
}

// GET /api/products
func (h *ProductHandler) List(c *fiber.Ctx) error {
	products, err := h.Catalog.List(c.UserContext())
	if err != nil {
		return fail(c, "products.list.fail", err)
	}
	return render(c, fiber.StatusOK, products)
}

// GET /api/products/:id
func (h *ProductHandler) Detail(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "products.get.fail", err)
	}
	p, err := h.Catalog.Get(c.UserContext(), id)
	if err != nil {
		return fail(c, "products.get.fail", err)
	}
	return render(c, fiber.StatusOK, p)
}

func productInput(u *upload) services.ProductInput {
	return services.ProductInput{
		Title:       u.field("title"),
		Description: u.field("description"),
		Price:       u.field("price"),
		Discount:    u.field("discount"),
	}
}

// POST /api/products (multipart, field "images")
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	u := parseUpload(c)
	defer u.close()
	files, err := u.files("images")
	if err != nil {
		return fail(c, "products.create.fail", err)
	}
	p, err := h.Catalog.Create(c.UserContext(), productInput(u), files)
	if err != nil {
		return fail(c, "products.create.fail", err)
	}
	applog.Audit(c, "admin.products.create", map[string]any{"product_id": p.ID, "images": len(p.Images)})
	return render(c, fiber.StatusCreated, p)
}

// PUT /api/products/:id; new images are appended.
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "products.update.fail", err)
	}
	u := parseUpload(c)
	defer u.close()
	files, err := u.files("images")
	if err != nil {
		return fail(c, "products.update.fail", err)
	}
	p, err := h.Catalog.Update(c.UserContext(), id, productInput(u), files)
	if err != nil {
		return fail(c, "products.update.fail", err)
	}
	applog.Audit(c, "admin.products.update", map[string]any{"product_id": id, "added_images": len(files)})
	return render(c, fiber.StatusOK, p)
}

// DELETE /api/products/:id/images/* where * is the image public id.
func (h *ProductHandler) DeleteImage(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "products.image.delete.fail", err)
	}
	publicID := c.Params("*")
	if publicID == "" {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "image id is required"})
	}
	p, err := h.Catalog.DeleteImage(c.UserContext(), id, publicID)
	if err != nil {
		return fail(c, "products.image.delete.fail", err)
	}
	applog.Audit(c, "admin.products.image.delete", map[string]any{"product_id": id, "public_id": publicID})
	return render(c, fiber.StatusOK, p)
}

// DELETE /api/products/:id
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := productID(c)
	if err != nil {
		return fail(c, "products.delete.fail", err)
	}
	if err := h.Catalog.Delete(c.UserContext(), id); err != nil {
		return fail(c, "products.delete.fail", err)
	}
	applog.Audit(c, "admin.products.delete", map[string]any{"product_id": id})
	return message(c, fiber.StatusOK, "Product deleted successfully")
}
