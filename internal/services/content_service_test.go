package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"samtech/internal/assets"
	"samtech/internal/domain"
	"samtech/internal/pubsub"
	"samtech/internal/services"
)

func TestEventLifecycle(t *testing.T) {
	st := newStores(t)
	store := newFakeAssets()
	events := services.NewEventService(st.Events, services.NewImageManager(store))
	ctx := context.Background()

	_, err := events.Create(ctx, services.EventInput{Title: ptr("Launch"), Date: ptr("next week")}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	e, err := events.Create(ctx, services.EventInput{
		Title:     ptr("Launch"),
		Date:      ptr("2026-05-01"),
		VideoURLs: ptr("https://youtu.be/a, https://youtu.be/b"),
	}, []assets.File{jpg("a.jpg")})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://youtu.be/a", "https://youtu.be/b"}, e.VideoURLs)
	assert.True(t, e.Date.Equal(time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC)))

	e, err = events.Update(ctx, e.ID, services.EventInput{Date: ptr("2026-05-02T18:30")}, []assets.File{jpg("b.jpg")})
	require.NoError(t, err)
	assert.Len(t, e.Images, 2)
	assert.Equal(t, "Launch", e.Title)

	require.NoError(t, events.Delete(ctx, e.ID))
	assert.Zero(t, store.count())
	_, err = events.Get(ctx, e.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestCareerPDFReplacement(t *testing.T) {
	st := newStores(t)
	store := newFakeAssets()
	careers := services.NewCareerService(st.Careers, services.NewImageManager(store))
	ctx := context.Background()
	pdf := func(name string) *assets.File {
		f := jpg(name)
		f.ContentType = "application/pdf"
		return &f
	}

	in := services.CareerInput{
		Title: ptr("Field Engineer"), Description: ptr("Install networks"), Requirements: ptr("CCNA"),
		Location: ptr("Nairobi"), Type: ptr("Full-time"), Deadline: ptr("2026-12-31"),
	}
	c, err := careers.Create(ctx, in, pdf("role.pdf"))
	require.NoError(t, err)
	require.NotNil(t, c.PDF)
	first := c.PDF.PublicID

	c, err = careers.Update(ctx, c.ID, services.CareerInput{}, pdf("role-v2.pdf"))
	require.NoError(t, err)
	assert.NotEqual(t, first, c.PDF.PublicID)
	assert.Equal(t, 1, store.count(), "old PDF must be removed")

	_, err = careers.Update(ctx, c.ID, services.CareerInput{Type: ptr("Seasonal")}, nil)
	assert.ErrorIs(t, err, domain.ErrValidation)

	require.NoError(t, careers.Delete(ctx, c.ID))
	assert.Zero(t, store.count())
}

func TestBlogRequiresFields(t *testing.T) {
	st := newStores(t)
	blogs := services.NewBlogService(st.Blogs)
	ctx := context.Background()

	_, err := blogs.Create(ctx, services.BlogInput{})
	assert.ErrorIs(t, err, domain.ErrValidation)

	_, err = blogs.Update(ctx, "missing", services.BlogInput{})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestMessageChangesArePublished(t *testing.T) {
	st := newStores(t)
	broker := pubsub.NewMemory()
	messages := services.NewMessageService(st.Messages, broker)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	updates, stop := messages.Subscribe(ctx)
	defer stop()

	_, err := messages.Create(ctx, services.MessageInput{Name: "Ann", Email: "not-an-email", Subject: "Hi", Message: "x"})
	assert.ErrorIs(t, err, domain.ErrValidation)

	m, err := messages.Create(ctx, services.MessageInput{Name: "Ann", Email: "ann@example.com", Subject: "Quote", Message: "Need 20 cameras"})
	require.NoError(t, err)

	select {
	case payload := <-updates:
		assert.Contains(t, string(payload), m.ID)
		assert.Contains(t, string(payload), "Need 20 cameras")
	case <-time.After(time.Second):
		t.Fatal("no update published")
	}

	opened, err := messages.Open(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, opened.IsRead)
	<-updates

	require.NoError(t, messages.Delete(ctx, m.ID))
	select {
	case payload := <-updates:
		assert.JSONEq(t, "[]", string(payload))
	case <-time.After(time.Second):
		t.Fatal("no update after delete")
	}
}
