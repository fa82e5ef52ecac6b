// Package mock provides an in-memory image storage for tests
package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/image-pipeline/internal/storage"
)

// Provider implements a mock image storage.
// The id "error" always fails, ids missing from Images are not found.
type Provider struct {
	Images map[string][]byte
}

// Get returns the image data for an image id
func (p *Provider) Get(ctx context.Context, id string) ([]byte, error) {
	if id == "error" {
		return nil, fmt.Errorf("error")
	}

	data, ok := p.Images[id]
	if !ok {
		return nil, storage.ErrNotFound
	}

	return data, nil
}
