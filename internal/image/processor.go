package image

import (
	"context"
	"fmt"
)

// Processor is a single image transformation.
// Process must not modify img, and must return a newly allocated image or an error.
// Implementations hold no mutable state and are safe for concurrent use.
type Processor interface {
	Process(img *Image) (*Image, error)
}

// ProcessorFunc adapts a function to the Processor interface
type ProcessorFunc func(img *Image) (*Image, error)

// Process calls f(img)
func (f ProcessorFunc) Process(img *Image) (*Image, error) {
	return f(img)
}

// Pipeline runs processors in order, each on the output of the previous one
type Pipeline []Processor

// Process runs the pipeline, stopping at the first processor that fails
func (p Pipeline) Process(img *Image) (*Image, error) {
	var err error
	for n, processor := range p {
		img, err = processor.Process(img)
		if err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", n, Name(processor), err)
		}
	}

	return img, nil
}

// Name returns the name of a processor, used in errors and traces
func Name(p Processor) string {
	if n, ok := p.(interface{ Name() string }); ok {
		return n.Name()
	}

	return fmt.Sprintf("%T", p)
}

// TaskProcessor processes image tasks into encoded images
type TaskProcessor interface {
	ProcessImage(ctx context.Context, task *Task) (processedImage []byte, err error)
}
