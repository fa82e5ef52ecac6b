// Package processors contains the image processors that tasks are built from
package processors

import (
	"github.com/DMarby/image-pipeline/internal/image"
)

// Build returns the pipeline for a task.
// The processors run in the order crop, resize, sharpen, blur, modulate, greyscale, sepia, tint.
func Build(task *image.Task) (image.Pipeline, error) {
	var pipeline image.Pipeline

	if task.ApplyCrop {
		crop, err := NewCrop(task.CropRegion)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, crop)
	}

	if task.Width > 0 || task.Height > 0 {
		resize, err := NewResize(task.Width, task.Height)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, resize)
	}

	if task.ApplySharpen {
		sharpen, err := NewSharpen(task.SharpenOptions)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, sharpen)
	}

	if task.ApplyBlur {
		blur, err := NewBlur(task.BlurAmount)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, blur)
	}

	if task.ApplyModulate {
		modulate, err := NewModulate(task.ModulateOptions)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, modulate)
	}

	if task.ApplyGrayscale {
		pipeline = append(pipeline, Greyscale{})
	}

	if task.ApplySepia {
		pipeline = append(pipeline, Sepia{})
	}

	if task.ApplyTint {
		tint, err := NewTint(task.TintColor)
		if err != nil {
			return nil, err
		}
		pipeline = append(pipeline, tint)
	}

	return pipeline, nil
}
