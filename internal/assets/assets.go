// Package assets stores uploaded binaries (product/event images, career PDFs)
// and hands back a public URL plus the reference needed to delete them.
package assets

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"samtech/internal/domain"
)

// File is one upload as received from a multipart form.
type File struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Ext returns the lower-cased extension of the original file name, with the dot.
func (f File) Ext() string {
	return strings.ToLower(path.Ext(f.Name))
}

type Store interface {
	Put(ctx context.Context, folder string, f File) (domain.Image, error)
	Delete(ctx context.Context, publicID string) error
}

// newKey builds "<folder>/<uuid><ext>" so public ids never collide.
func newKey(folder string, f File) string {
	return path.Join(folder, uuid.NewString()+f.Ext())
}
