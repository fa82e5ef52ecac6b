package processors

import (
	"fmt"
	goimage "image"
	"math"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/anthonynsimon/bild/blur"
	"github.com/anthonynsimon/bild/convolution"
)

// Blur sigma bounds
const (
	MinBlurSigma = 0.3
	MaxBlurSigma = 1000
)

// Blur applies a gaussian blur
type Blur struct {
	sigma float64
}

// NewBlur returns a blur processor
func NewBlur(sigma float64) (*Blur, error) {
	if !finite(sigma) || sigma < MinBlurSigma || sigma > MaxBlurSigma {
		return nil, fmt.Errorf("blur sigma %v outside %v-%v: %w", sigma, MinBlurSigma, MaxBlurSigma, image.ErrInvalidParameter)
	}

	return &Blur{sigma: sigma}, nil
}

// Name returns the name of the processor
func (b *Blur) Name() string {
	return "blur"
}

// Process blurs the image
func (b *Blur) Process(img *image.Image) (*image.Image, error) {
	return viaGoImage(img, func(src goimage.Image) goimage.Image {
		return blur.Gaussian(src, b.sigma)
	})
}

// Sharpen bounds
const (
	MaxSharpenGain   = 10000
	MinSharpenSigma  = 0.01
	MaxSharpenSigma  = 10000
	FastSharpenSigma = -1

	// sharpenThreshold separates flat from jagged areas, in 8-bit levels
	sharpenThreshold = 2
)

// fastSharpenKernel is a mild 3x3 sharpen
var fastSharpenKernel = &convolution.Kernel{
	Matrix: []float64{
		-1.0 / 24, -1.0 / 24, -1.0 / 24,
		-1.0 / 24, 32.0 / 24, -1.0 / 24,
		-1.0 / 24, -1.0 / 24, -1.0 / 24,
	},
	Width:  3,
	Height: 3,
}

// Sharpen sharpens an image, either with a fixed 3x3 kernel or with an unsharp mask
// that applies separate gains to flat and jagged areas
type Sharpen struct {
	options image.SharpenOptions
}

// NewSharpen returns a sharpen processor
func NewSharpen(options image.SharpenOptions) (*Sharpen, error) {
	if !finite(options.Flat, options.Jagged, options.Sigma) {
		return nil, fmt.Errorf("sharpen options %+v: %w", options, image.ErrInvalidParameter)
	}

	if options.Flat <= 0 || options.Flat > MaxSharpenGain || options.Jagged <= 0 || options.Jagged > MaxSharpenGain {
		return nil, fmt.Errorf("sharpen gains %v/%v: %w", options.Flat, options.Jagged, image.ErrInvalidParameter)
	}

	if options.Sigma != FastSharpenSigma && (options.Sigma < MinSharpenSigma || options.Sigma > MaxSharpenSigma) {
		return nil, fmt.Errorf("sharpen sigma %v: %w", options.Sigma, image.ErrInvalidParameter)
	}

	return &Sharpen{options: options}, nil
}

// Name returns the name of the processor
func (s *Sharpen) Name() string {
	return "sharpen"
}

// Process sharpens the image
func (s *Sharpen) Process(img *image.Image) (*image.Image, error) {
	if s.options.Sigma == FastSharpenSigma {
		return viaGoImage(img, func(src goimage.Image) goimage.Image {
			return convolution.Convolve(src, fastSharpenKernel, &convolution.Options{KeepAlpha: true})
		})
	}

	blurred, err := viaGoImage(img, func(src goimage.Image) goimage.Image {
		return blur.Gaussian(src, s.options.Sigma)
	})
	if err != nil {
		return nil, err
	}

	original, err := img.Cast(image.Uchar)
	if err != nil {
		return nil, err
	}

	width, height, bands := original.Width(), original.Height(), original.Bands()
	colorBands := original.ColorBands()
	return image.Build(width, height, bands, image.Uchar, original.Interpretation(), func(samples []uint16) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				offset := (y*width + x) * bands
				for band := 0; band < bands; band++ {
					v := original.At(x, y, band)
					if band >= colorBands {
						samples[offset+band] = v
						continue
					}

					diff := float64(v) - float64(blurred.At(x, y, band))
					gain := s.options.Jagged
					if math.Abs(diff) <= sharpenThreshold {
						gain = s.options.Flat
					}

					samples[offset+band] = clamp(float64(v)+gain*diff, math.MaxUint8)
				}
			}
		}
		return nil
	})
}

// finite reports whether none of values is NaN or infinite
func finite(values ...float64) bool {
	for _, v := range values {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}

	return true
}

// clamp rounds v and limits it to [0, max]
func clamp(v, max float64) uint16 {
	return uint16(math.Max(0, math.Min(max, math.Round(v))))
}
