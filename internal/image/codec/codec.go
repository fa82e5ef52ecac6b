// Package codec decodes encoded images into rasters and encodes rasters back
package codec

import (
	"bytes"
	"errors"
	"fmt"
	goimage "image"
	_ "image/gif" // Register decoder
	"image/png"
	"strings"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/chai2010/webp"
	"github.com/disintegration/imaging"
	_ "golang.org/x/image/bmp"  // Register decoder
	_ "golang.org/x/image/tiff" // Register decoder
)

// Encoding defaults
const (
	DefaultQuality     = 85
	DefaultCompression = 6
)

// Errors
var (
	ErrEmptyBuffer       = errors.New("empty buffer")
	ErrUnsupportedFormat = errors.New("unsupported image format")
)

// Options configures encoding
type Options struct {
	Format image.OutputFormat
	// Quality is the JPEG and WebP quality, 1-100, 0 means DefaultQuality
	Quality int
	// Compression is the PNG compression level, 0-9, -1 means DefaultCompression
	Compression int
	// Lossless selects lossless WebP
	Lossless bool
}

// Decode decodes an image, returning it along with the name of its format.
// JPEG images are rotated according to their EXIF orientation.
func Decode(buf []byte) (*image.Image, string, error) {
	if len(buf) == 0 {
		return nil, "", ErrEmptyBuffer
	}

	config, format, err := goimage.DecodeConfig(bytes.NewReader(buf))
	if err != nil {
		return nil, "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, err)
	}

	// Refuse to decode anything that can't be held afterwards
	if config.Width <= 0 || config.Height <= 0 || config.Width > image.MaxSamples/4/config.Height {
		return nil, "", fmt.Errorf("decoding %dx%d %s: %w", config.Width, config.Height, format, image.ErrAllocationFailure)
	}

	decoded, err := imaging.Decode(bytes.NewReader(buf), imaging.AutoOrientation(true))
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", format, err)
	}

	img, err := image.FromGoImage(decoded)
	if err != nil {
		return nil, "", err
	}

	return img, format, nil
}

// Encode encodes an image.
// JPEG drops the alpha band, and JPEG and WebP are always 8-bit.
func Encode(img *image.Image, options Options) ([]byte, error) {
	quality := options.Quality
	if quality == 0 {
		quality = DefaultQuality
	}
	if quality < 1 || quality > 100 {
		return nil, fmt.Errorf("quality %d: %w", quality, image.ErrInvalidParameter)
	}

	compression := options.Compression
	if compression == -1 {
		compression = DefaultCompression
	}
	if compression < 0 || compression > 9 {
		return nil, fmt.Errorf("compression %d: %w", compression, image.ErrInvalidParameter)
	}

	if img.Interpretation() == image.CMYK && options.Format != image.JPEG {
		return nil, fmt.Errorf("encoding cmyk as %s: %w", options.Format, image.ErrUnsupportedImageKind)
	}

	buf := new(bytes.Buffer)
	switch options.Format {
	case image.JPEG:
		src, err := eightBit(img, true)
		if err != nil {
			return nil, err
		}

		if err := imaging.Encode(buf, src, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
			return nil, err
		}
	case image.PNG:
		src, err := img.GoImage()
		if err != nil {
			return nil, err
		}

		if err := imaging.Encode(buf, src, imaging.PNG, imaging.PNGCompressionLevel(pngCompression(compression))); err != nil {
			return nil, err
		}
	case image.WebP:
		src, err := eightBit(img, false)
		if err != nil {
			return nil, err
		}

		if err := webp.Encode(buf, src, &webp.Options{Lossless: options.Lossless, Quality: float32(quality)}); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, options.Format)
	}

	return buf.Bytes(), nil
}

// eightBit returns img as an 8-bit Go image, optionally without its alpha band
func eightBit(img *image.Image, dropAlpha bool) (goimage.Image, error) {
	img, err := img.Cast(image.Uchar)
	if err != nil {
		return nil, err
	}

	if dropAlpha && img.HasAlpha() {
		if img, err = img.WithoutAlpha(); err != nil {
			return nil, err
		}
	}

	return img.GoImage()
}

// pngCompression maps a 0-9 zlib style level onto the levels image/png offers
func pngCompression(level int) png.CompressionLevel {
	switch {
	case level == 0:
		return png.NoCompression
	case level <= 3:
		return png.BestSpeed
	case level <= 6:
		return png.DefaultCompression
	default:
		return png.BestCompression
	}
}

// FormatFromExtension returns the output format for a file extension such as ".jpg"
func FormatFromExtension(extension string) (image.OutputFormat, error) {
	switch strings.ToLower(extension) {
	case ".jpg", ".jpeg", "":
		return image.JPEG, nil
	case ".webp":
		return image.WebP, nil
	case ".png":
		return image.PNG, nil
	}

	return image.JPEG, fmt.Errorf("%w: %s", ErrUnsupportedFormat, extension)
}

// Extension returns the canonical file extension of a format
func Extension(format image.OutputFormat) string {
	switch format {
	case image.WebP:
		return ".webp"
	case image.PNG:
		return ".png"
	default:
		return ".jpg"
	}
}

// ContentType returns the mime type of a format
func ContentType(format image.OutputFormat) string {
	switch format {
	case image.WebP:
		return "image/webp"
	case image.PNG:
		return "image/png"
	default:
		return "image/jpeg"
	}
}
