package services

import (
	"context"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"

	"samtech/internal/assets"
	"samtech/internal/domain"
)

type CareerInput struct {
	Title        *string
	Description  *string
	Requirements *string
	Location     *string
	Type         *string
	Deadline     *string
}

type CareerService struct {
	Careers CareerStore
	Images  *ImageManager
	Now     func() time.Time
}

func NewCareerService(careers CareerStore, images *ImageManager) *CareerService {
	return &CareerService{Careers: careers, Images: images}
}

func (in CareerInput) apply(c *domain.Career) error {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = strings.TrimSpace(*src)
		}
	}
	set(&c.Title, in.Title)
	set(&c.Description, in.Description)
	set(&c.Requirements, in.Requirements)
	set(&c.Location, in.Location)
	set(&c.Type, in.Type)
	if in.Deadline != nil {
		d, err := parseDate("deadline", *in.Deadline)
		if err != nil {
			return err
		}
		c.Deadline = d
	}
	switch {
	case c.Title == "", c.Description == "", c.Requirements == "", c.Location == "":
		return domain.Invalid("title, description, requirements and location are required")
	case !slices.Contains(domain.CareerTypes, c.Type):
		return domain.Invalid("type must be one of %s", strings.Join(domain.CareerTypes, ", "))
	case c.Deadline.IsZero():
		return domain.Invalid("deadline is required")
	}
	return nil
}

func (s *CareerService) List(ctx context.Context) ([]domain.Career, error) {
	return s.Careers.List(ctx)
}

func (s *CareerService) Get(ctx context.Context, id string) (domain.Career, error) {
	return s.Careers.Get(ctx, id)
}

func pdfFiles(pdf *assets.File) []assets.File {
	if pdf == nil {
		return nil
	}
	return []assets.File{*pdf}
}

func (s *CareerService) Create(ctx context.Context, in CareerInput, pdf *assets.File) (domain.Career, error) {
	now := clock(s.Now)
	c := domain.Career{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&c); err != nil {
		return domain.Career{}, err
	}
	err := s.Images.Attach(ctx, FolderCareers, pdfFiles(pdf), CareerPDF, func(up []domain.Image) error {
		if len(up) > 0 {
			c.PDF = &up[0]
		}
		return s.Careers.Create(ctx, &c)
	})
	if err != nil {
		return domain.Career{}, err
	}
	return c, nil
}

// Update replaces the PDF when a new one is sent; the old asset is deleted
// once the new record is stored.
func (s *CareerService) Update(ctx context.Context, id string, in CareerInput, pdf *assets.File) (domain.Career, error) {
	c, err := s.Careers.Get(ctx, id)
	if err != nil {
		return domain.Career{}, err
	}
	if err := in.apply(&c); err != nil {
		return domain.Career{}, err
	}
	old := c.PDF
	c.UpdatedAt = clock(s.Now)
	err = s.Images.Attach(ctx, FolderCareers, pdfFiles(pdf), CareerPDF, func(up []domain.Image) error {
		if len(up) > 0 {
			c.PDF = &up[0]
		}
		return s.Careers.Update(ctx, &c)
	})
	if err != nil {
		return domain.Career{}, err
	}
	if pdf != nil && old != nil {
		s.Images.Cleanup(ctx, []domain.Image{*old})
	}
	return c, nil
}

func (s *CareerService) Delete(ctx context.Context, id string) error {
	c, err := s.Careers.Get(ctx, id)
	if err != nil {
		return err
	}
	if c.PDF != nil {
		s.Images.Cleanup(ctx, []domain.Image{*c.PDF})
	}
	return s.Careers.Delete(ctx, id)
}
