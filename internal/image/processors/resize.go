package processors

import (
	"fmt"
	goimage "image"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/disintegration/imaging"
)

// Resize resizes an image.
// With both dimensions set the image is resized to cover the box and center cropped,
// with one of them 0 the aspect ratio is kept.
type Resize struct {
	width  int
	height int
}

// NewResize returns a resize processor
func NewResize(width, height int) (*Resize, error) {
	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, fmt.Errorf("resize to %dx%d: %w", width, height, image.ErrInvalidParameter)
	}

	return &Resize{width: width, height: height}, nil
}

// Name returns the name of the processor
func (r *Resize) Name() string {
	return "resize"
}

// Process resizes the image
func (r *Resize) Process(img *image.Image) (*image.Image, error) {
	return viaGoImage(img, func(src goimage.Image) goimage.Image {
		if r.width > 0 && r.height > 0 {
			return imaging.Fill(src, r.width, r.height, imaging.Center, imaging.Lanczos)
		}

		return imaging.Resize(src, r.width, r.height, imaging.Lanczos)
	})
}

// Crop extracts a region of an image
type Crop struct {
	region image.Region
}

// NewCrop returns a crop processor
func NewCrop(region image.Region) (*Crop, error) {
	if region.X < 0 || region.Y < 0 || region.Width <= 0 || region.Height <= 0 {
		return nil, fmt.Errorf("crop region %+v: %w", region, image.ErrInvalidParameter)
	}

	return &Crop{region: region}, nil
}

// Name returns the name of the processor
func (c *Crop) Name() string {
	return "crop"
}

// Process crops the image
func (c *Crop) Process(img *image.Image) (*image.Image, error) {
	// Compared as differences so that huge offsets can't overflow
	if c.region.X > img.Width()-c.region.Width || c.region.Y > img.Height()-c.region.Height {
		return nil, fmt.Errorf("crop region %+v outside %dx%d image: %w", c.region, img.Width(), img.Height(), image.ErrInvalidParameter)
	}

	rect := goimage.Rect(c.region.X, c.region.Y, c.region.X+c.region.Width, c.region.Y+c.region.Height)
	return viaGoImage(img, func(src goimage.Image) goimage.Image {
		return imaging.Crop(src, rect)
	})
}
