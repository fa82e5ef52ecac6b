package processors

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/DMarby/image-pipeline/internal/image"
	"golang.org/x/image/colornames"
)

// ParseColor parses a colour given as a CSS colour name or as 3, 4, 6 or 8 hex digits, with an optional leading #.
// The 4 and 8 digit forms carry a leading alpha component, which is discarded.
func ParseColor(s string) (image.Color, error) {
	value := strings.ToLower(strings.TrimSpace(s))

	if c, ok := colornames.Map[value]; ok {
		return image.Color{R: int(c.R), G: int(c.G), B: int(c.B)}, nil
	}

	hex := strings.TrimPrefix(value, "#")
	switch len(hex) {
	case 3, 4:
		expanded := make([]byte, 0, len(hex)*2)
		for i := 0; i < len(hex); i++ {
			expanded = append(expanded, hex[i], hex[i])
		}
		hex = string(expanded)
	case 6, 8:
	default:
		return image.Color{}, fmt.Errorf("colour %q: %w", s, image.ErrInvalidParameter)
	}

	// Drop the alpha component
	hex = hex[len(hex)-6:]

	rgb, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return image.Color{}, fmt.Errorf("colour %q: %w", s, image.ErrInvalidParameter)
	}

	return image.Color{
		R: int(rgb >> 16 & 0xff),
		G: int(rgb >> 8 & 0xff),
		B: int(rgb & 0xff),
	}, nil
}
