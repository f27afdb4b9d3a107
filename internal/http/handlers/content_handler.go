package handlers

import (
	"github.com/gofiber/fiber/v2"

	"samtech/internal/assets"
	"samtech/internal/domain"
	applog "samtech/internal/log"
	"samtech/internal/services"
)

type BlogHandler struct {
	Blogs *services.BlogService
}

type blogRequest struct {
	Title   *string `json:"title" form:"title"`
	Content *string `json:"content" form:"content"`
	Author  *string `json:"author" form:"author"`
}

func (r blogRequest) input() services.BlogInput {
	return services.BlogInput{Title: r.Title, Content: r.Content, Author: r.Author}
}

func (h *BlogHandler) List(c *fiber.Ctx) error {
	blogs, err := h.Blogs.List(c.UserContext())
	if err != nil {
		return fail(c, "blogs.list.fail", err)
	}
	return render(c, fiber.StatusOK, blogs)
}

func (h *BlogHandler) Detail(c *fiber.Ctx) error {
	b, err := h.Blogs.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "blogs.get.fail", err)
	}
	return render(c, fiber.StatusOK, b)
}

func (h *BlogHandler) Create(c *fiber.Ctx) error {
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	b, err := h.Blogs.Create(c.UserContext(), req.input())
	if err != nil {
		return fail(c, "blogs.create.fail", err)
	}
	applog.Audit(c, "admin.blogs.create", map[string]any{"blog_id": b.ID})
	return render(c, fiber.StatusCreated, b)
}

func (h *BlogHandler) Update(c *fiber.Ctx) error {
	var req blogRequest
	if err := c.BodyParser(&req); err != nil {
		return render(c, fiber.StatusBadRequest, fiber.Map{"error": "invalid request body"})
	}
	b, err := h.Blogs.Update(c.UserContext(), c.Params("id"), req.input())
	if err != nil {
		return fail(c, "blogs.update.fail", err)
	}
	applog.Audit(c, "admin.blogs.update", map[string]any{"blog_id": b.ID})
	return render(c, fiber.StatusOK, b)
}

func (h *BlogHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Blogs.Delete(c.UserContext(), id); err != nil {
		return fail(c, "blogs.delete.fail", err)
	}
	applog.Audit(c, "admin.blogs.delete", map[string]any{"blog_id": id})
	return message(c, fiber.StatusOK, "Blog deleted successfully")
}

type CareerHandler struct {
	Careers *services.CareerService
}

func careerInput(u *upload) services.CareerInput {
	return services.CareerInput{
		Title:        u.field("title"),
		Description:  u.field("description"),
		Requirements: u.field("requirements"),
		Location:     u.field("location"),
		Type:         u.field("type"),
		Deadline:     u.field("deadline"),
	}
}

// pdf returns the single "pdfFile" part, if one was sent.
func (u *upload) pdf() (*assets.File, error) {
	files, err := u.files("pdfFile")
	if err != nil || len(files) == 0 {
		return nil, err
	}
	if len(files) > 1 {
		return nil, domain.Invalid("only one PDF may be attached")
	}
	return &files[0], nil
}

func (h *CareerHandler) List(c *fiber.Ctx) error {
	careers, err := h.Careers.List(c.UserContext())
	if err != nil {
		return fail(c, "careers.list.fail", err)
	}
	return render(c, fiber.StatusOK, careers)
}

func (h *CareerHandler) Detail(c *fiber.Ctx) error {
	cr, err := h.Careers.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return fail(c, "careers.get.fail", err)
	}
	return render(c, fiber.StatusOK, cr)
}

func (h *CareerHandler) Create(c *fiber.Ctx) error {
	u := parseUpload(c)
	defer u.close()
	pdf, err := u.pdf()
	if err != nil {
		return fail(c, "careers.create.fail", err)
	}
	cr, err := h.Careers.Create(c.UserContext(), careerInput(u), pdf)
	if err != nil {
		return fail(c, "careers.create.fail", err)
	}
	applog.Audit(c, "admin.careers.create", map[string]any{"career_id": cr.ID})
	return render(c, fiber.StatusCreated, cr)
}

func (h *CareerHandler) Update(c *fiber.Ctx) error {
	u := parseUpload(c)
	defer u.close()
	pdf, err := u.pdf()
	if err != nil {
		return fail(c, "careers.update.fail", err)
	}
	cr, err := h.Careers.Update(c.UserContext(), c.Params("id"), careerInput(u), pdf)
	if err != nil {
		return fail(c, "careers.update.fail", err)
	}
	applog.Audit(c, "admin.careers.update", map[string]any{"career_id": cr.ID, "pdf_replaced": pdf != nil})
	return render(c, fiber.StatusOK, cr)
}

func (h *CareerHandler) Delete(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.Careers.Delete(c.UserContext(), id); err != nil {
		return fail(c, "careers.delete.fail", err)
	}
	applog.Audit(c, "admin.careers.delete", map[string]any{"career_id": id})
	return message(c, fiber.StatusOK, "Career deleted successfully")
}
