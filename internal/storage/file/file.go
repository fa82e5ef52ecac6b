// Package file implements image storage on a local directory
package file

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/DMarby/image-pipeline/internal/storage"
)

// Provider implements a file-based image storage
type Provider struct {
	path string
}

// New returns a new Provider instance
func New(path string) (*Provider, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", path)
	}

	return &Provider{
		path,
	}, nil
}

// Get returns the image data for an image id, trying every known extension in order
func (p *Provider) Get(ctx context.Context, id string) ([]byte, error) {
	// Ids are plain names, never paths
	if id == "" || strings.ContainsAny(id, `/\`) || strings.HasPrefix(id, ".") {
		return nil, storage.ErrNotFound
	}

	for _, extension := range storage.Extensions {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		imageData, err := os.ReadFile(filepath.Join(p.path, id+extension))
		if err == nil {
			return imageData, nil
		}

		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	}

	return nil, storage.ErrNotFound
}
