package image

import (
	"fmt"
	"math"
)

// SampleFormat is the storage format of a single band sample
type SampleFormat int

const (
	// Uchar is an unsigned 8-bit sample
	Uchar SampleFormat = iota
	// Ushort is an unsigned 16-bit sample
	Ushort
)

// Max returns the largest value a sample of this format can hold
func (f SampleFormat) Max() uint16 {
	if f == Ushort {
		return math.MaxUint16
	}

	return math.MaxUint8
}

func (f SampleFormat) String() string {
	switch f {
	case Uchar:
		return "uchar"
	case Ushort:
		return "ushort"
	default:
		return fmt.Sprintf("format(%d)", int(f))
	}
}

// Interpretation tells how the bands of an image should be read
type Interpretation int

const (
	// BW is greyscale, with an optional alpha band
	BW Interpretation = iota
	// SRGB is red, green, blue, with an optional alpha band
	SRGB
	// CMYK is cyan, magenta, yellow, black, with an optional alpha band
	CMYK
	// Multiband is any number of bands without a colour meaning
	Multiband
)

func (i Interpretation) String() string {
	switch i {
	case BW:
		return "b-w"
	case SRGB:
		return "srgb"
	case CMYK:
		return "cmyk"
	case Multiband:
		return "multiband"
	default:
		return fmt.Sprintf("interpretation(%d)", int(i))
	}
}

// colorBands is the number of colour bands for an interpretation, or -1 if it isn't fixed
func (i Interpretation) colorBands() int {
	switch i {
	case BW:
		return 1
	case SRGB:
		return 3
	case CMYK:
		return 4
	default:
		return -1
	}
}

// MaxSamples is the largest amount of samples a single image may hold
const MaxSamples = 1 << 30

// Image is an in-memory raster.
// Images are never modified after construction, every operation returns a new Image.
type Image struct {
	width          int
	height         int
	bands          int
	format         SampleFormat
	interpretation Interpretation
	samples        []uint16
}

// New allocates a new black image
func New(width, height, bands int, format SampleFormat, interpretation Interpretation) (*Image, error) {
	if err := validate(width, height, bands, format, interpretation); err != nil {
		return nil, err
	}

	samples, err := allocate(width, height, bands)
	if err != nil {
		return nil, err
	}

	return &Image{
		width:          width,
		height:         height,
		bands:          bands,
		format:         format,
		interpretation: interpretation,
		samples:        samples,
	}, nil
}

// NewFromSamples creates an image from band-interleaved samples.
// The samples are copied, the caller keeps ownership of the slice.
func NewFromSamples(width, height, bands int, format SampleFormat, interpretation Interpretation, samples []uint16) (*Image, error) {
	img, err := New(width, height, bands, format, interpretation)
	if err != nil {
		return nil, err
	}

	if len(samples) != len(img.samples) {
		return nil, fmt.Errorf("expected %d samples, got %d: %w", len(img.samples), len(samples), ErrInvalidParameter)
	}

	max := format.Max()
	for _, s := range samples {
		if s > max {
			return nil, fmt.Errorf("sample %d out of range for %s: %w", s, format, ErrInvalidParameter)
		}
	}

	copy(img.samples, samples)
	return img, nil
}

func validate(width, height, bands int, format SampleFormat, interpretation Interpretation) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d: %w", width, height, ErrInvalidParameter)
	}

	if format != Uchar && format != Ushort {
		return fmt.Errorf("sample format %s: %w", format, ErrUnsupportedImageKind)
	}

	if bands <= 0 {
		return fmt.Errorf("%d bands: %w", bands, ErrUnsupportedImageKind)
	}

	if n := interpretation.colorBands(); n > 0 && bands != n && bands != n+1 {
		return fmt.Errorf("%d bands for %s: %w", bands, interpretation, ErrUnsupportedImageKind)
	}

	if interpretation < BW || interpretation > Multiband {
		return fmt.Errorf("%s: %w", interpretation, ErrUnsupportedImageKind)
	}

	return nil
}

func allocate(width, height, bands int) ([]uint16, error) {
	if width > MaxSamples/height || width*height > MaxSamples/bands {
		return nil, fmt.Errorf("%dx%dx%d samples: %w", width, height, bands, ErrAllocationFailure)
	}

	return make([]uint16, width*height*bands), nil
}

// Width returns the width in pixels
func (i *Image) Width() int { return i.width }

// Height returns the height in pixels
func (i *Image) Height() int { return i.height }

// Bands returns the number of bands
func (i *Image) Bands() int { return i.bands }

// Format returns the sample format
func (i *Image) Format() SampleFormat { return i.format }

// Interpretation returns the interpretation tag
func (i *Image) Interpretation() Interpretation { return i.interpretation }

// HasAlpha reports whether the last band is an alpha band
func (i *Image) HasAlpha() bool {
	n := i.interpretation.colorBands()
	return n > 0 && i.bands == n+1
}

// ColorBands returns the number of bands that aren't alpha
func (i *Image) ColorBands() int {
	if i.HasAlpha() {
		return i.bands - 1
	}

	return i.bands
}

// At returns the sample of a band at x, y
func (i *Image) At(x, y, band int) uint16 {
	return i.samples[(y*i.width+x)*i.bands+band]
}

// Pixel returns a copy of all the samples at x, y
func (i *Image) Pixel(x, y int) []uint16 {
	offset := (y*i.width + x) * i.bands
	pixel := make([]uint16, i.bands)
	copy(pixel, i.samples[offset:offset+i.bands])
	return pixel
}

// Samples returns a copy of the band-interleaved samples
func (i *Image) Samples() []uint16 {
	samples := make([]uint16, len(i.samples))
	copy(samples, i.samples)
	return samples
}

// Equal reports whether two images have the same layout and samples
func (i *Image) Equal(o *Image) bool {
	if i.width != o.width || i.height != o.height || i.bands != o.bands ||
		i.format != o.format || i.interpretation != o.interpretation {
		return false
	}

	for n := range i.samples {
		if i.samples[n] != o.samples[n] {
			return false
		}
	}

	return true
}

// Build allocates a new image and hands its samples to fill for initialisation.
// fill must not retain the slice after returning.
func Build(width, height, bands int, format SampleFormat, interpretation Interpretation, fill func(samples []uint16) error) (*Image, error) {
	img, err := New(width, height, bands, format, interpretation)
	if err != nil {
		return nil, err
	}

	if err := fill(img.samples); err != nil {
		return nil, err
	}

	return img, nil
}
