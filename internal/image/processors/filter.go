package processors

import (
	"fmt"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/image/colorspace"
)

// Greyscale converts an image to greyscale
type Greyscale struct{}

// Name returns the name of the processor
func (Greyscale) Name() string {
	return "greyscale"
}

// Process converts the image to greyscale
func (Greyscale) Process(img *image.Image) (*image.Image, error) {
	return colorspace.ToGreyscale(img)
}

// sepiaMatrix recombines red, green and blue into sepia tones
var sepiaMatrix = [3][3]float64{
	{0.3588, 0.7044, 0.1368},
	{0.2990, 0.5870, 0.1140},
	{0.2392, 0.4696, 0.0912},
}

// Sepia applies a sepia filter.
// Greyscale images are promoted to sRGB first.
type Sepia struct{}

// Name returns the name of the processor
func (Sepia) Name() string {
	return "sepia"
}

// Process applies the sepia filter
func (Sepia) Process(img *image.Image) (*image.Image, error) {
	return recomb(img, sepiaMatrix)
}

func recomb(img *image.Image, matrix [3][3]float64) (*image.Image, error) {
	srgb, err := colorspace.ToSRGB(img)
	if err != nil {
		return nil, err
	}

	max := float64(srgb.Format().Max())
	width, height, bands := srgb.Width(), srgb.Height(), srgb.Bands()
	return image.Build(width, height, bands, srgb.Format(), image.SRGB, func(samples []uint16) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b := float64(srgb.At(x, y, 0)), float64(srgb.At(x, y, 1)), float64(srgb.At(x, y, 2))
				offset := (y*width + x) * bands
				for n, row := range matrix {
					samples[offset+n] = clamp(row[0]*r+row[1]*g+row[2]*b, max)
				}
				if bands == 4 {
					samples[offset+3] = srgb.At(x, y, 3)
				}
			}
		}
		return nil
	})
}

// Modulate bounds
const (
	MaxBrightness = 10
	MaxSaturation = 10
)

// Modulate changes the brightness, saturation and hue of an image in LCh.
// Greyscale images are promoted to sRGB first.
type Modulate struct {
	options image.ModulateOptions
}

// NewModulate returns a modulate processor
func NewModulate(options image.ModulateOptions) (*Modulate, error) {
	if !finite(options.Brightness, options.Saturation, options.Hue) {
		return nil, fmt.Errorf("modulate options %+v: %w", options, image.ErrInvalidParameter)
	}

	if options.Brightness < 0 || options.Brightness > MaxBrightness {
		return nil, fmt.Errorf("brightness %v: %w", options.Brightness, image.ErrInvalidParameter)
	}

	if options.Saturation < 0 || options.Saturation > MaxSaturation {
		return nil, fmt.Errorf("saturation %v: %w", options.Saturation, image.ErrInvalidParameter)
	}

	return &Modulate{options: options}, nil
}

// Name returns the name of the processor
func (m *Modulate) Name() string {
	return "modulate"
}

// Process modulates the image
func (m *Modulate) Process(img *image.Image) (*image.Image, error) {
	srgb, err := colorspace.ToSRGB(img)
	if err != nil {
		return nil, err
	}

	max := float64(srgb.Format().Max())
	width, height, bands := srgb.Width(), srgb.Height(), srgb.Bands()
	return image.Build(width, height, bands, srgb.Format(), image.SRGB, func(samples []uint16) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				r, g, b := colorspace.Modulate(
					float64(srgb.At(x, y, 0))/max,
					float64(srgb.At(x, y, 1))/max,
					float64(srgb.At(x, y, 2))/max,
					m.options.Brightness, m.options.Saturation, m.options.Hue,
				)

				offset := (y*width + x) * bands
				samples[offset] = clamp(r*max, max)
				samples[offset+1] = clamp(g*max, max)
				samples[offset+2] = clamp(b*max, max)
				if bands == 4 {
					samples[offset+3] = srgb.At(x, y, 3)
				}
			}
		}
		return nil
	})
}
