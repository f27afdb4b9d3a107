package services

import (
	"context"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"samtech/internal/assets"
	"samtech/internal/domain"
	applog "samtech/internal/log"
)

// UploadRules bound one multipart field.
type UploadRules struct {
	MaxFiles int
	MaxBytes int64
	Exts     []string
}

var (
	imageExts = []string{".jpg", ".jpeg", ".png", ".webp"}

	ProductImages = UploadRules{MaxFiles: 6, MaxBytes: 5 << 20, Exts: imageExts}
	EventImages   = UploadRules{MaxFiles: 10, MaxBytes: 5 << 20, Exts: imageExts}
	CareerPDF     = UploadRules{MaxFiles: 1, MaxBytes: 10 << 20, Exts: []string{".pdf"}}
)

// Asset folders, shared by every asset store.
const (
	FolderProducts = "product_images"
	FolderEvents   = "event_images"
	FolderCareers  = "uploads"
)

func (r UploadRules) Check(files []assets.File) error {
	if len(files) > r.MaxFiles {
		return domain.Invalid("at most %d files allowed", r.MaxFiles)
	}
	for _, f := range files {
		if f.Size > r.MaxBytes {
			return domain.Invalid("%s exceeds %d bytes", f.Name, r.MaxBytes)
		}
		if !slices.Contains(r.Exts, f.Ext()) {
			return domain.Invalid("%s: unsupported file type", f.Name)
		}
	}
	return nil
}

// ImageManager keeps asset-store writes and deletes in step with the image
// lists persisted on entities.
type ImageManager struct {
	Store    assets.Store
	Parallel int
}

func NewImageManager(store assets.Store) *ImageManager {
	return &ImageManager{Store: store, Parallel: 4}
}

// Upload stores every file concurrently. If any upload fails the ones that
// succeeded are deleted before the error is returned.
func (m *ImageManager) Upload(ctx context.Context, folder string, files []assets.File, rules UploadRules) ([]domain.Image, error) {
	if err := rules.Check(files); err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return []domain.Image{}, nil
	}
	out := make([]domain.Image, len(files))
	done := make([]bool, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(m.Parallel, 1))
	for i, f := range files {
		i, f := i, f
		g.Go(func() error {
			img, err := m.Store.Put(gctx, folder, f)
			if err != nil {
				return fmt.Errorf("upload %s: %w", f.Name, err)
			}
			out[i], done[i] = img, true
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var uploaded []domain.Image
		for i, ok := range done {
			if ok {
				uploaded = append(uploaded, out[i])
			}
		}
		m.Cleanup(context.WithoutCancel(ctx), uploaded)
		return nil, err
	}
	return out, nil
}

// Attach uploads files and hands the images to persist. When persist fails
// the fresh uploads are removed again.
func (m *ImageManager) Attach(ctx context.Context, folder string, files []assets.File, rules UploadRules, persist func([]domain.Image) error) error {
	imgs, err := m.Upload(ctx, folder, files, rules)
	if err != nil {
		return err
	}
	if err := persist(imgs); err != nil {
		m.Cleanup(context.WithoutCancel(ctx), imgs)
		return err
	}
	return nil
}

// Delete removes one asset; failure is returned so callers can leave the
// entity untouched.
func (m *ImageManager) Delete(ctx context.Context, publicID string) error {
	return m.Store.Delete(ctx, publicID)
}

// Cleanup deletes assets best effort; failures are only logged.
func (m *ImageManager) Cleanup(ctx context.Context, imgs []domain.Image) {
	if len(imgs) == 0 {
		return
	}
	var g errgroup.Group
	g.SetLimit(max(m.Parallel, 1))
	for _, img := range imgs {
		img := img
		g.Go(func() error {
			if err := m.Store.Delete(ctx, img.PublicID); err != nil {
				applog.Error(nil, "asset.cleanup.fail", err, map[string]any{"public_id": img.PublicID})
			}
			return nil
		})
	}
	_ = g.Wait()
}
