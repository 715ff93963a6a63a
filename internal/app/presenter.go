package app

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"os"
	"path/filepath"

	"rio-visualizer/internal/raster"
)

// Presenter shows a finished frame.
type Presenter interface {
	Present(ctx context.Context, frame *image.RGBA) error
}

// Discard drops every frame.
type Discard struct{}

func (Discard) Present(context.Context, *image.RGBA) error { return nil }

// FilePresenter keeps the latest frame in a single image file. Unchanged
// frames are not rewritten.
type FilePresenter struct {
	Path   string
	Format string

	last []byte
}

// NewFilePresenter writes frames to dir/frame.<format>.
func NewFilePresenter(dir, format string) (*FilePresenter, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("app: create %s: %w", dir, err)
	}
	return &FilePresenter{Path: filepath.Join(dir, "frame"+raster.Ext(format)), Format: format}, nil
}

func (p *FilePresenter) Present(_ context.Context, frame *image.RGBA) error {
	if p.last != nil && bytes.Equal(p.last, frame.Pix) {
		return nil
	}
	tmp, err := os.CreateTemp(filepath.Dir(p.Path), ".frame-*")
	if err != nil {
		return fmt.Errorf("app: present: %w", err)
	}
	defer os.Remove(tmp.Name())
	if err := raster.Encode(tmp, frame, p.Format); err != nil {
		tmp.Close()
		return fmt.Errorf("app: present: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("app: present: %w", err)
	}
	if err := os.Rename(tmp.Name(), p.Path); err != nil {
		return fmt.Errorf("app: present: %w", err)
	}
	p.last = append(p.last[:0], frame.Pix...)
	return nil
}
