package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"samtech/internal/domain"
)

var ErrUnsafePath = errors.New("unsafe asset path")

// Local keeps assets under Root and serves them under URLPrefix (e.g. "/media").
type Local struct {
	Root      string
	URLPrefix string
}

func NewLocal(root, urlPrefix string) (*Local, error) {
	if !filepath.IsAbs(root) {
		if abs, err := filepath.Abs(root); err == nil {
			root = abs
		}
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, err
	}
	return &Local{Root: root, URLPrefix: strings.TrimRight(urlPrefix, "/")}, nil
}

// Resolve maps a public id to a file under Root, rejecting raw or encoded
// traversal, null bytes and absolute paths.
func (s *Local) Resolve(publicID string) (string, error) {
	lower := strings.ToLower(publicID)
	if strings.Contains(lower, "..") || strings.Contains(lower, "%2e") || strings.Contains(lower, "\x00") {
		return "", ErrUnsafePath
	}
	clean := filepath.Clean(filepath.FromSlash(publicID))
	if clean == "." || strings.Contains(clean, "..") || filepath.IsAbs(clean) {
		return "", ErrUnsafePath
	}
	return filepath.Join(s.Root, clean), nil
}

func (s *Local) Put(ctx context.Context, folder string, f File) (domain.Image, error) {
	if err := ctx.Err(); err != nil {
		return domain.Image{}, err
	}
	key := newKey(folder, f)
	full, err := s.Resolve(key)
	if err != nil {
		return domain.Image{}, err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	out, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if _, err := io.Copy(out, f.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(full)
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	if err := out.Close(); err != nil {
		_ = os.Remove(full)
		return domain.Image{}, fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return domain.Image{URL: s.URLPrefix + "/" + key, PublicID: key}, nil
}

// Delete removes the file. A file that is already gone counts as deleted.
func (s *Local) Delete(ctx context.Context, publicID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := s.Resolve(publicID)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%w: %v", domain.ErrUpstream, err)
	}
	return nil
}
