package image

import (
	"fmt"
	goimage "image"
	"image/color"
)

// FromGoImage converts a decoded Go image into an Image.
// Opaque colour images become 3 band sRGB, greyscale images 1 band, and CMYK 4 bands.
func FromGoImage(src goimage.Image) (*Image, error) {
	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()

	switch s := src.(type) {
	case *goimage.Gray:
		return Build(width, height, 1, Uchar, BW, func(samples []uint16) error {
			for y := 0; y < height; y++ {
				row := s.Pix[y*s.Stride : y*s.Stride+width]
				for x, v := range row {
					samples[y*width+x] = uint16(v)
				}
			}
			return nil
		})
	case *goimage.Gray16:
		return Build(width, height, 1, Ushort, BW, func(samples []uint16) error {
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					samples[y*width+x] = s.Gray16At(bounds.Min.X+x, bounds.Min.Y+y).Y
				}
			}
			return nil
		})
	case *goimage.CMYK:
		return Build(width, height, 4, Uchar, CMYK, func(samples []uint16) error {
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					c := s.CMYKAt(bounds.Min.X+x, bounds.Min.Y+y)
					offset := (y*width + x) * 4
					samples[offset] = uint16(c.C)
					samples[offset+1] = uint16(c.M)
					samples[offset+2] = uint16(c.Y)
					samples[offset+3] = uint16(c.K)
				}
			}
			return nil
		})
	case *goimage.NRGBA:
		bands := 3
		if !s.Opaque() {
			bands = 4
		}
		return Build(width, height, bands, Uchar, SRGB, func(samples []uint16) error {
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					pix := s.Pix[y*s.Stride+x*4 : y*s.Stride+x*4+4]
					for band := 0; band < bands; band++ {
						samples[(y*width+x)*bands+band] = uint16(pix[band])
					}
				}
			}
			return nil
		})
	case *goimage.NRGBA64:
		bands := 3
		if !s.Opaque() {
			bands = 4
		}
		return Build(width, height, bands, Ushort, SRGB, func(samples []uint16) error {
			for y := 0; y < height; y++ {
				for x := 0; x < width; x++ {
					pix := s.Pix[y*s.Stride+x*8 : y*s.Stride+x*8+8]
					for band := 0; band < bands; band++ {
						samples[(y*width+x)*bands+band] = uint16(pix[band*2])<<8 | uint16(pix[band*2+1])
					}
				}
			}
			return nil
		})
	}

	format := Uchar
	switch src.(type) {
	case *goimage.RGBA64:
		format = Ushort
	}

	bands := 3
	if !opaque(src) {
		bands = 4
	}

	return Build(width, height, bands, format, SRGB, func(samples []uint16) error {
		shift := uint(8)
		if format == Ushort {
			shift = 0
		}

		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBA64Model.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
				offset := (y*width + x) * bands
				samples[offset] = c.R >> shift
				samples[offset+1] = c.G >> shift
				samples[offset+2] = c.B >> shift
				if bands == 4 {
					samples[offset+3] = c.A >> shift
				}
			}
		}
		return nil
	})
}

func opaque(src goimage.Image) bool {
	if o, ok := src.(interface{ Opaque() bool }); ok {
		return o.Opaque()
	}

	bounds := src.Bounds()
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			if _, _, _, a := src.At(x, y).RGBA(); a != 0xffff {
				return false
			}
		}
	}

	return true
}

// GoImage converts the image into a Go image.
// Greyscale becomes Gray/Gray16, or NRGBA/NRGBA64 with an alpha band; sRGB becomes NRGBA/NRGBA64; CMYK becomes CMYK.
func (i *Image) GoImage() (goimage.Image, error) {
	rect := goimage.Rect(0, 0, i.width, i.height)

	switch {
	case i.interpretation == BW && i.bands == 1 && i.format == Uchar:
		dst := goimage.NewGray(rect)
		for n, s := range i.samples {
			dst.Pix[n] = uint8(s)
		}
		return dst, nil
	case i.interpretation == BW && i.bands == 1:
		dst := goimage.NewGray16(rect)
		for n, s := range i.samples {
			dst.Pix[n*2] = uint8(s >> 8)
			dst.Pix[n*2+1] = uint8(s)
		}
		return dst, nil
	case i.interpretation == CMYK && i.bands == 4 && i.format == Uchar:
		dst := goimage.NewCMYK(rect)
		for n, s := range i.samples {
			dst.Pix[n] = uint8(s)
		}
		return dst, nil
	case i.interpretation == BW || i.interpretation == SRGB:
		return i.nrgba(rect), nil
	}

	return nil, fmt.Errorf("%d band %s image has no Go equivalent: %w", i.bands, i.interpretation, ErrUnsupportedImageKind)
}

// nrgba expands greyscale or sRGB images, with or without alpha, into NRGBA or NRGBA64
func (i *Image) nrgba(rect goimage.Rectangle) goimage.Image {
	grey := i.interpretation == BW
	alpha := i.HasAlpha()

	pixel := func(p int) (r, g, b, a uint16) {
		offset := p * i.bands
		r = i.samples[offset]
		g, b = r, r
		if !grey {
			g, b = i.samples[offset+1], i.samples[offset+2]
		}

		a = i.format.Max()
		if alpha {
			a = i.samples[offset+i.bands-1]
		}
		return
	}

	if i.format == Ushort {
		dst := goimage.NewNRGBA64(rect)
		for p := 0; p < i.width*i.height; p++ {
			r, g, b, a := pixel(p)
			for n, v := range []uint16{r, g, b, a} {
				dst.Pix[p*8+n*2] = uint8(v >> 8)
				dst.Pix[p*8+n*2+1] = uint8(v)
			}
		}
		return dst
	}

	dst := goimage.NewNRGBA(rect)
	for p := 0; p < i.width*i.height; p++ {
		r, g, b, a := pixel(p)
		dst.Pix[p*4] = uint8(r)
		dst.Pix[p*4+1] = uint8(g)
		dst.Pix[p*4+2] = uint8(b)
		dst.Pix[p*4+3] = uint8(a)
	}
	return dst
}

// FromGoImageLike converts the 8-bit output of a Go image filter back into the band layout of like.
// Greyscale layouts take the red channel, and alpha is only kept when like has an alpha band.
func FromGoImageLike(src goimage.Image, like *Image) (*Image, error) {
	if like.interpretation != BW && like.interpretation != SRGB {
		return nil, fmt.Errorf("%s: %w", like.interpretation, ErrUnsupportedImageKind)
	}

	bounds := src.Bounds()
	width, height := bounds.Dx(), bounds.Dy()
	bands := like.bands
	grey := like.interpretation == BW
	alpha := like.HasAlpha()

	return Build(width, height, bands, Uchar, like.interpretation, func(samples []uint16) error {
		for y := 0; y < height; y++ {
			for x := 0; x < width; x++ {
				c := color.NRGBAModel.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA)
				offset := (y*width + x) * bands
				samples[offset] = uint16(c.R)
				if !grey {
					samples[offset+1] = uint16(c.G)
					samples[offset+2] = uint16(c.B)
				}
				if alpha {
					samples[offset+bands-1] = uint16(c.A)
				}
			}
		}
		return nil
	})
}
