package processors

import (
	"fmt"
	"math"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/image/colorspace"
)

// Tint recolours an image towards a colour while keeping the luminance of every pixel.
//
// Every output channel is tint_channel * luminance / max, so black stays black,
// white becomes exactly the tint colour, and everything in between is linear.
// Luminance is BT.601 for sRGB images and the grey band for greyscale images.
// The alpha band is copied as it is.
type Tint struct {
	color image.Color
}

// NewTint returns a tint processor for an 8-bit colour
func NewTint(color image.Color) (*Tint, error) {
	for _, c := range []int{color.R, color.G, color.B} {
		if c < 0 || c > math.MaxUint8 {
			return nil, fmt.Errorf("tint colour %v: component %d outside 0-255: %w", color, c, image.ErrInvalidParameter)
		}
	}

	return &Tint{color: color}, nil
}

// Name returns the name of the processor
func (t *Tint) Name() string {
	return "tint"
}

// Process tints the image
func (t *Tint) Process(img *image.Image) (*image.Image, error) {
	switch {
	case img.Interpretation() == image.BW && (img.Bands() == 1 || img.Bands() == 2):
	case img.Interpretation() == image.SRGB && (img.Bands() == 3 || img.Bands() == 4):
	default:
		return nil, fmt.Errorf("tinting a %d band %s image: %w", img.Bands(), img.Interpretation(), image.ErrUnsupportedImageKind)
	}

	luminance, err := colorspace.ToLuminance(img)
	if err != nil {
		return nil, err
	}

	max := float64(img.Format().Max())
	scale := max / math.MaxUint8
	tint := [3]float64{
		float64(t.color.R) * scale,
		float64(t.color.G) * scale,
		float64(t.color.B) * scale,
	}

	alpha := img.HasAlpha()
	bands := 3
	if alpha {
		bands = 4
	}

	width, height := img.Width(), img.Height()
	return image.Build(width, height, bands, img.Format(), image.SRGB, func(samples []uint16) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				l := float64(luminance.At(x, y, 0)) / max
				offset := (y*width + x) * bands
				samples[offset] = uint16(math.Round(tint[0] * l))
				samples[offset+1] = uint16(math.Round(tint[1] * l))
				samples[offset+2] = uint16(math.Round(tint[2] * l))
				if alpha {
					samples[offset+3] = img.At(x, y, img.Bands()-1)
				}
			}
		}
		return nil
	})
}
