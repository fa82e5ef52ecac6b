// Package colorspace converts images and colours between colour spaces.
//
// All functions are pure and safe for concurrent use.
package colorspace

import (
	"fmt"
	"math"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/lucasb-eyer/go-colorful"
)

// ITU-R BT.601 luma weights
const (
	RedWeight   = 0.299
	GreenWeight = 0.587
	BlueWeight  = 0.114
)

// Luminance returns the BT.601 luminance of an RGB sample triplet, rounded to the nearest integer
func Luminance(r, g, b uint16) uint16 {
	return uint16(math.Round(RedWeight*float64(r) + GreenWeight*float64(g) + BlueWeight*float64(b)))
}

// ToLuminance returns a single band image holding the luminance of every pixel.
// Greyscale images use their grey band directly, sRGB images are weighted with BT.601.
func ToLuminance(img *image.Image) (*image.Image, error) {
	switch {
	case img.Interpretation() == image.BW:
		return img.Extract(0, 1, image.BW)
	case img.Interpretation() == image.SRGB:
		width, height := img.Width(), img.Height()
		return image.Build(width, height, 1, img.Format(), image.BW, func(samples []uint16) error {
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					samples[y*width+x] = Luminance(img.At(x, y, 0), img.At(x, y, 1), img.At(x, y, 2))
				}
			}
			return nil
		})
	}

	return nil, fmt.Errorf("luminance of a %d band %s image: %w", img.Bands(), img.Interpretation(), image.ErrUnsupportedImageKind)
}

// ToGreyscale converts an image to greyscale, keeping its alpha band
func ToGreyscale(img *image.Image) (*image.Image, error) {
	luminance, err := ToLuminance(img)
	if err != nil {
		return nil, err
	}

	alpha, err := img.Alpha()
	if err != nil {
		return nil, err
	}

	if alpha == nil {
		return luminance, nil
	}

	return image.Bandjoin(image.BW, luminance, alpha)
}

// ToSRGB promotes greyscale images to sRGB by repeating the grey band, keeping the alpha band.
// sRGB images are returned as they are.
func ToSRGB(img *image.Image) (*image.Image, error) {
	switch img.Interpretation() {
	case image.SRGB:
		return img, nil
	case image.BW:
		grey, err := img.Extract(0, 1, image.BW)
		if err != nil {
			return nil, err
		}

		images := []*image.Image{grey, grey, grey}
		alpha, err := img.Alpha()
		if err != nil {
			return nil, err
		}
		if alpha != nil {
			images = append(images, alpha)
		}

		return image.Bandjoin(image.SRGB, images...)
	}

	return nil, fmt.Errorf("converting %s to srgb: %w", img.Interpretation(), image.ErrUnsupportedImageKind)
}

// Lab is a CIE L*a*b* colour, with L in [0, 1]
type Lab struct {
	L, A, B float64
}

// ToLab converts an 8-bit sRGB colour to CIE L*a*b* (D65)
func ToLab(c image.Color) Lab {
	l, a, b := toColorful(c).Lab()
	return Lab{l, a, b}
}

// FromLab converts a CIE L*a*b* colour back to 8-bit sRGB, clamping out of gamut colours
func FromLab(lab Lab) image.Color {
	return fromColorful(colorful.Lab(lab.L, lab.A, lab.B))
}

func toColorful(c image.Color) colorful.Color {
	return colorful.Color{R: float64(c.R) / 255, G: float64(c.G) / 255, B: float64(c.B) / 255}
}

func fromColorful(c colorful.Color) image.Color {
	r, g, b := c.Clamped().RGB255()
	return image.Color{R: int(r), G: int(g), B: int(b)}
}
