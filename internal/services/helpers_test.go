package services_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"samtech/internal/assets"
	"samtech/internal/domain"
	"samtech/internal/repos"
	"samtech/internal/services"
)

func newStores(t *testing.T) services.Stores {
	t.Helper()
	db, err := repos.OpenDB(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return services.Stores{
		Products:  repos.NewProductRepo(db),
		Carts:     repos.NewCartRepo(db),
		Orders:    repos.NewOrderRepo(db),
		Events:    repos.NewEventRepo(db),
		Blogs:     repos.NewBlogRepo(db),
		Careers:   repos.NewCareerRepo(db),
		Messages:  repos.NewMessageRepo(db),
		Customers: repos.NewCustomerRepo(db),
		Admins:    repos.NewAdminRepo(db),
	}
}

// fakeAssets is an in-memory asset store with failure injection.
type fakeAssets struct {
	mu         sync.Mutex
	objects    map[string]string
	n          int
	failPutOn  string // file name whose upload fails
	failDelete bool
}

func newFakeAssets() *fakeAssets { return &fakeAssets{objects: map[string]string{}} }

func (f *fakeAssets) Put(_ context.Context, folder string, file assets.File) (domain.Image, error) {
	if file.Name == f.failPutOn {
		return domain.Image{}, errors.Join(domain.ErrUpstream, errors.New("put refused"))
	}
	b, err := io.ReadAll(file.Body)
	if err != nil {
		return domain.Image{}, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.n++
	id := folder + "/" + strings.Repeat("x", f.n) + file.Ext()
	f.objects[id] = string(b)
	return domain.Image{URL: "https://cdn.test/" + id, PublicID: id}, nil
}

func (f *fakeAssets) Delete(_ context.Context, publicID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failDelete {
		return errors.Join(domain.ErrUpstream, errors.New("delete refused"))
	}
	delete(f.objects, publicID)
	return nil
}

func (f *fakeAssets) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.objects)
}

func jpg(name string) assets.File {
	return assets.File{Name: name, ContentType: "image/jpeg", Size: 4, Body: strings.NewReader("jpeg")}
}

func ptr(s string) *string { return &s }

// fixedClock returns a settable clock for expiry tests.
type fixedClock struct{ t time.Time }

func (c *fixedClock) Now() time.Time { return c.t }
