package handlers

import (
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"samtech/internal/assets"
)

// upload holds the parsed multipart form, if any, for one request.
type upload struct {
	c    *fiber.Ctx
	form *multipart.Form
	open []multipart.File
}

func parseUpload(c *fiber.Ctx) *upload {
	u := &upload{c: c}
	if form, err := c.MultipartForm(); err == nil {
		u.form = form
	}
	return u
}

// field returns nil when the key was not sent at all, so updates can tell
// "unchanged" from "cleared".
func (u *upload) field(key string) *string {
	if u.form != nil {
		if v, ok := u.form.Value[key]; ok && len(v) > 0 {
			s := v[0]
			return &s
		}
		return nil
	}
	if u.c.Request().PostArgs().Has(key) {
		s := u.c.FormValue(key)
		return &s
	}
	return nil
}

// files opens every part under key. Call close once the service returns.
func (u *upload) files(key string) ([]assets.File, error) {
	if u.form == nil {
		return nil, nil
	}
	var out []assets.File
	for _, fh := range u.form.File[key] {
		f, err := fh.Open()
		if err != nil {
			return nil, err
		}
		u.open = append(u.open, f)
		out = append(out, assets.File{
			Name:        fh.Filename,
			ContentType: fh.Header.Get(fiber.HeaderContentType),
			Size:        fh.Size,
			Body:        f,
		})
	}
	return out, nil
}

func (u *upload) close() {
	for _, f := range u.open {
		_ = f.Close()
	}
}
