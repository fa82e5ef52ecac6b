// Package mock provides an image processor that always fails, for tests
package mock

import (
	"context"
	"fmt"

	"github.com/DMarby/image-pipeline/internal/image"
)

// Processor is a mock image processor that returns an error
type Processor struct{}

// ProcessImage returns an error
func (p *Processor) ProcessImage(ctx context.Context, task *image.Task) (processedImage []byte, err error) {
	return nil, fmt.Errorf("processing error")
}
