package image

import "fmt"

// Extract returns a new image with n bands starting at band first
func (i *Image) Extract(first, n int, interpretation Interpretation) (*Image, error) {
	if first < 0 || n <= 0 || first+n > i.bands {
		return nil, fmt.Errorf("bands %d-%d of a %d band image: %w", first, first+n-1, i.bands, ErrInvalidParameter)
	}

	return Build(i.width, i.height, n, i.format, interpretation, func(samples []uint16) error {
		for p := 0; p < i.width*i.height; p++ {
			copy(samples[p*n:p*n+n], i.samples[p*i.bands+first:p*i.bands+first+n])
		}
		return nil
	})
}

// Alpha returns the alpha band as a single band image, or nil if there is none
func (i *Image) Alpha() (*Image, error) {
	if !i.HasAlpha() {
		return nil, nil
	}

	return i.Extract(i.bands-1, 1, Multiband)
}

// WithoutAlpha returns the colour bands of the image
func (i *Image) WithoutAlpha() (*Image, error) {
	return i.Extract(0, i.ColorBands(), i.interpretation)
}

// Bandjoin joins the bands of images with the same dimensions and format into a new image
func Bandjoin(interpretation Interpretation, images ...*Image) (*Image, error) {
	if len(images) == 0 {
		return nil, fmt.Errorf("nothing to join: %w", ErrInvalidParameter)
	}

	first := images[0]
	bands := 0
	for _, img := range images {
		if img.width != first.width || img.height != first.height || img.format != first.format {
			return nil, fmt.Errorf("joining %dx%d %s with %dx%d %s: %w",
				first.width, first.height, first.format, img.width, img.height, img.format, ErrInvalidParameter)
		}
		bands += img.bands
	}

	return Build(first.width, first.height, bands, first.format, interpretation, func(samples []uint16) error {
		for p := 0; p < first.width*first.height; p++ {
			offset := p * bands
			for _, img := range images {
				offset += copy(samples[offset:offset+img.bands], img.samples[p*img.bands:p*img.bands+img.bands])
			}
		}
		return nil
	})
}

// Cast converts the image to another sample format, scaling the samples to the new range
func (i *Image) Cast(format SampleFormat) (*Image, error) {
	if format == i.format {
		return i, nil
	}

	from := uint32(i.format.Max())
	to := uint32(format.Max())
	return Build(i.width, i.height, i.bands, format, i.interpretation, func(samples []uint16) error {
		for n, s := range i.samples {
			samples[n] = uint16((uint32(s)*to + from/2) / from)
		}
		return nil
	})
}
