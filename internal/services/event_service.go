package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"samtech/internal/assets"
	"samtech/internal/domain"
)

type EventInput struct {
	Title       *string
	Description *string
	Date        *string
	// VideoURLs is the raw comma separated list from the form.
	VideoURLs *string
}

type EventService struct {
	Events EventStore
	Images *ImageManager
	Now    func() time.Time
}

func NewEventService(events EventStore, images *ImageManager) *EventService {
	return &EventService{Events: events, Images: images}
}

var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02"}

func parseDate(field, raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, domain.Invalid("%s %q is not a date", field, raw)
}

// splitURLs turns "a, b,,c" into [a b c].
func splitURLs(raw string) []string {
	out := []string{}
	for _, part := range strings.Split(raw, ",") {
		if u := strings.TrimSpace(part); u != "" {
			out = append(out, u)
		}
	}
	return out
}

func (in EventInput) apply(e *domain.Event) error {
	if in.Title != nil {
		e.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		e.Description = strings.TrimSpace(*in.Description)
	}
	if in.Date != nil {
		d, err := parseDate("date", *in.Date)
		if err != nil {
			return err
		}
		e.Date = d
	}
	if in.VideoURLs != nil {
		e.VideoURLs = splitURLs(*in.VideoURLs)
	}
	if e.Title == "" {
		return domain.Invalid("title is required")
	}
	if e.Date.IsZero() {
		return domain.Invalid("date is required")
	}
	return nil
}

func (s *EventService) List(ctx context.Context) ([]domain.Event, error) {
	return s.Events.List(ctx)
}

func (s *EventService) Get(ctx context.Context, id string) (domain.Event, error) {
	return s.Events.Get(ctx, id)
}

func (s *EventService) Create(ctx context.Context, in EventInput, files []assets.File) (domain.Event, error) {
	now := clock(s.Now)
	e := domain.Event{ID: uuid.NewString(), VideoURLs: []string{}, CreatedAt: now, UpdatedAt: now}
	if err := in.apply(&e); err != nil {
		return domain.Event{}, err
	}
	err := s.Images.Attach(ctx, FolderEvents, files, EventImages, func(imgs []domain.Image) error {
		e.Images = imgs
		return s.Events.Create(ctx, &e)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

// Update appends new images, the same policy products use.
func (s *EventService) Update(ctx context.Context, id string, in EventInput, files []assets.File) (domain.Event, error) {
	e, err := s.Events.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if err := in.apply(&e); err != nil {
		return domain.Event{}, err
	}
	if len(e.Images)+len(files) > EventImages.MaxFiles {
		return domain.Event{}, domain.Invalid("an event holds at most %d images", EventImages.MaxFiles)
	}
	e.UpdatedAt = clock(s.Now)
	err = s.Images.Attach(ctx, FolderEvents, files, EventImages, func(imgs []domain.Image) error {
		e.Images = append(e.Images, imgs...)
		return s.Events.Update(ctx, &e)
	})
	if err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func (s *EventService) DeleteImage(ctx context.Context, id, publicID string) (domain.Event, error) {
	e, err := s.Events.Get(ctx, id)
	if err != nil {
		return domain.Event{}, err
	}
	if !e.RemoveImage(publicID) {
		return domain.Event{}, fmt.Errorf("image %s: %w", publicID, domain.ErrNotFound)
	}
	if err := s.Images.Delete(ctx, publicID); err != nil {
		return domain.Event{}, err
	}
	e.UpdatedAt = clock(s.Now)
	if err := s.Events.Update(ctx, &e); err != nil {
		return domain.Event{}, err
	}
	return e, nil
}

func (s *EventService) Delete(ctx context.Context, id string) error {
	e, err := s.Events.Get(ctx, id)
	if err != nil {
		return err
	}
	s.Images.Cleanup(ctx, e.Images)
	return s.Events.Delete(ctx, id)
}
