package colorspace

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

// Modulate scales the lightness and chroma of a normalised sRGB colour and rotates its hue, in CIE LCh(ab).
// r, g and b are in [0, 1], and so is the result.
func Modulate(r, g, b, brightness, saturation, hue float64) (float64, float64, float64) {
	h, c, l := colorful.Color{R: r, G: g, B: b}.Hcl()

	h = math.Mod(h+hue, 360)
	if h < 0 {
		h += 360
	}

	out := colorful.Hcl(h, c*saturation, l*brightness).Clamped()
	return out.R, out.G, out.B
}
