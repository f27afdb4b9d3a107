package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"samtech/internal/assets"
	"samtech/internal/domain"
	applog "samtech/internal/log"
)

// ProductInput carries form fields. Nil pointers leave the stored value alone on update.
type ProductInput struct {
	Title       *string
	Description *string
	Price       *string
	Discount    *string
}

type CatalogService struct {
	Products ProductStore
	Carts    CartStore
	Images   *ImageManager
	Now      func() time.Time
}

func NewCatalogService(products ProductStore, carts CartStore, images *ImageManager) *CatalogService {
	return &CatalogService{Products: products, Carts: carts, Images: images}
}

func (s *CatalogService) List(ctx context.Context) ([]domain.Product, error) {
	return s.Products.List(ctx)
}

func (s *CatalogService) Get(ctx context.Context, id string) (domain.Product, error) {
	return s.Products.Get(ctx, id)
}

func parsePrice(raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Decimal{}, domain.Invalid("price %q is not a decimal number", raw)
	}
	if d.IsNegative() {
		return decimal.Decimal{}, domain.Invalid("price must not be negative")
	}
	return d, nil
}

func (in ProductInput) apply(p *domain.Product) error {
	if in.Title != nil {
		p.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		p.Description = strings.TrimSpace(*in.Description)
	}
	if in.Discount != nil {
		p.Discount = strings.TrimSpace(*in.Discount)
	}
	if in.Price != nil {
		price, err := parsePrice(*in.Price)
		if err != nil {
			return err
		}
		p.Price = price
	}
	if p.Title == "" {
		return domain.Invalid("title is required")
	}
	return nil
}

// Create uploads the images, then persists the product. Uploads are rolled
// back if either step fails.
func (s *CatalogService) Create(ctx context.Context, in ProductInput, files []assets.File) (domain.Product, error) {
	if in.Price == nil {
		return domain.Product{}, domain.Invalid("price is required")
	}
	now := clock(s.Now)
	p := domain.Product{ID: uuid.NewString(), CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&p); err != nil {
		return domain.Product{}, err
	}
	err := s.Images.Attach(ctx, FolderProducts, files, ProductImages, func(imgs []domain.Image) error {
		p.Images = imgs
		return s.Products.Create(ctx, &p)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Update applies the fields and appends any new images to the existing list.
func (s *CatalogService) Update(ctx context.Context, id string, in ProductInput, files []assets.File) (domain.Product, error) {
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if err := in.apply(&p); err != nil {
		return domain.Product{}, err
	}
	if len(p.Images)+len(files) > ProductImages.MaxFiles {
		return domain.Product{}, domain.Invalid("a product holds at most %d images", ProductImages.MaxFiles)
	}
	p.UpdatedAt = clock(s.Now)
	err = s.Images.Attach(ctx, FolderProducts, files, ProductImages, func(imgs []domain.Image) error {
		p.Images = append(p.Images, imgs...)
		return s.Products.Update(ctx, &p)
	})
	if err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// DeleteImage removes the asset first; if that fails the product is untouched.
func (s *CatalogService) DeleteImage(ctx context.Context, id, publicID string) (domain.Product, error) {
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return domain.Product{}, err
	}
	if !p.RemoveImage(publicID) {
		return domain.Product{}, fmt.Errorf("image %s: %w", publicID, domain.ErrNotFound)
	}
	if err := s.Images.Delete(ctx, publicID); err != nil {
		return domain.Product{}, err
	}
	p.UpdatedAt = clock(s.Now)
	if err := s.Products.Update(ctx, &p); err != nil {
		return domain.Product{}, err
	}
	return p, nil
}

// Delete removes the product's assets (best effort), pulls it from every cart,
// then deletes the record.
func (s *CatalogService) Delete(ctx context.Context, id string) error {
	p, err := s.Products.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Images.Cleanup(ctx, p.Images)
	n, err := s.Carts.RemoveProduct(ctx, id)
	if err != nil {
		return err
	}
	if n > 0 {
		applog.Info(nil, "product.delete.carts", map[string]any{"product_id": id, "removed": n})
	}
	return s.Products.Delete(ctx, id)
}
