package services

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"samtech/internal/domain"
)

type BlogInput struct {
	Title   *string
	Content *string
	Author  *string
	Date    *string
}

type BlogService struct {
	Blogs BlogStore
	Now   func() time.Time
}

func NewBlogService(blogs BlogStore) *BlogService { return &BlogService{Blogs: blogs} }

func (in BlogInput) apply(b *domain.Blog) error {
	if in.Title != nil {
		b.Title = strings.TrimSpace(*in.Title)
	}
	if in.Content != nil {
		b.Content = strings.TrimSpace(*in.Content)
	}
	if in.Author != nil {
		b.Author = strings.TrimSpace(*in.Author)
	}
	if in.Date != nil && strings.TrimSpace(*in.Date) != "" {
		d, err := parseDate("date", *in.Date)
		if err != nil {
			return err
		}
		b.Date = d
	}
	switch {
	case b.Title == "":
		return domain.Invalid("title is required")
	case b.Content == "":
		return domain.Invalid("content is required")
	case b.Author == "":
		return domain.Invalid("author is required")
	}
	return nil
}

func (s *BlogService) List(ctx context.Context) ([]domain.Blog, error) { return s.Blogs.List(ctx) }

func (s *BlogService) Get(ctx context.Context, id string) (domain.Blog, error) {
	return s.Blogs.Get(ctx, id)
}

// Create defaults the publication date to now.
func (s *BlogService) Create(ctx context.Context, in BlogInput) (domain.Blog, error) {
	now := clock(s.Now)
	b := domain.Blog{ID: uuid.NewString(), Date: now, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&b); err != nil {
		return domain.Blog{}, err
	}
	if err := s.Blogs.Create(ctx, &b); err != nil {
		return domain.Blog{}, err
	}
	return b, nil
}

func (s *BlogService) Update(ctx context.Context, id string, in BlogInput) (domain.Blog, error) {
	b, err := s.Blogs.Get(ctx, id)
	if err != nil {
		return domain.Blog{}, err
	}
	if err := in.apply(&b); err != nil {
		return domain.Blog{}, err
	}
	b.UpdatedAt = clock(s.Now)
	if err := s.Blogs.Update(ctx, &b); err != nil {
		return domain.Blog{}, err
	}
	return b, nil
}

func (s *BlogService) Delete(ctx context.Context, id string) error { return s.Blogs.Delete(ctx, id) }
