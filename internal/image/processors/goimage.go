package processors

import (
	"fmt"
	goimage "image"

	"github.com/DMarby/image-pipeline/internal/image"
)

// viaGoImage runs a Go image filter on an image and maps its 8-bit result back onto the band layout of the input
func viaGoImage(img *image.Image, filter func(src goimage.Image) goimage.Image) (*image.Image, error) {
	if img.Interpretation() != image.BW && img.Interpretation() != image.SRGB {
		return nil, fmt.Errorf("%d band %s image: %w", img.Bands(), img.Interpretation(), image.ErrUnsupportedImageKind)
	}

	src, err := img.GoImage()
	if err != nil {
		return nil, err
	}

	return image.FromGoImageLike(filter(src), img)
}
