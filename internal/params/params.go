// Package params parses image request parameters
package params

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/image/codec"
	"github.com/DMarby/image-pipeline/internal/image/processors"
	"github.com/gorilla/mux"
)

// Errors
var (
	ErrInvalidSize          = errors.New("Invalid size")
	ErrInvalidFileExtension = errors.New("Invalid file extension")
	ErrInvalidParameter     = errors.New("Invalid parameter")
)

// MaxSize is the largest width or height that can be requested
const MaxSize = 5000

// Defaults for parameters given without a value
const (
	defaultBlurAmount    = 5
	defaultSharpenFlat   = 1
	defaultSharpenJagged = 2
)

// Params contains all the parameters for a request
type Params struct {
	Width     int
	Height    int
	Extension string
	Format    image.OutputFormat
	Quality   int

	Grayscale bool
	Sepia     bool

	Blur       bool
	BlurAmount float64

	Sharpen        bool
	SharpenOptions image.SharpenOptions

	Tint      bool
	TintColor image.Color

	Modulate        bool
	ModulateOptions image.ModulateOptions

	Crop       bool
	CropRegion image.Region
}

// GetParams parses and returns all the path and query parameters
func GetParams(r *http.Request) (*Params, error) {
	width, ok := intParam(r, "width")
	if !ok {
		return nil, ErrInvalidSize
	}

	height, ok := intParam(r, "height")
	if !ok {
		return nil, ErrInvalidSize
	}

	return Parse(width, height, mux.Vars(r)["extension"], r.URL.Query())
}

// Parse validates a size and file extension, and parses the processing options in query.
// A dimension of 0 keeps the aspect ratio, both 0 keeps the original size.
func Parse(width, height int, extension string, query url.Values) (*Params, error) {
	if width < 0 || width > MaxSize || height < 0 || height > MaxSize {
		return nil, ErrInvalidSize
	}

	format, err := codec.FormatFromExtension(extension)
	if err != nil {
		return nil, ErrInvalidFileExtension
	}

	p := &Params{
		Width:     width,
		Height:    height,
		Extension: codec.Extension(format),
		Format:    format,
	}

	if err := p.parseQuery(query); err != nil {
		return nil, err
	}

	return p, nil
}

// Task returns the image task for the parameters
func (p *Params) Task(imageID string) *image.Task {
	task := image.NewTask(imageID, p.Width, p.Height, p.Format).Quality(p.Quality)

	if p.Crop {
		task.Crop(p.CropRegion)
	}
	if p.Sharpen {
		task.Sharpen(p.SharpenOptions)
	}
	if p.Blur {
		task.Blur(p.BlurAmount)
	}
	if p.Modulate {
		task.Modulate(p.ModulateOptions)
	}
	if p.Grayscale {
		task.Grayscale()
	}
	if p.Sepia {
		task.Sepia()
	}
	if p.Tint {
		task.Tint(p.TintColor)
	}

	return task
}

// intParam tries to get a path param and convert it to an integer
func intParam(r *http.Request, name string) (int, bool) {
	vars := mux.Vars(r)

	if val, ok := vars[name]; ok {
		val, err := strconv.Atoi(val)
		return val, err == nil
	}

	return -1, false
}

func (p *Params) parseQuery(query url.Values) error {
	_, p.Grayscale = query["grayscale"]
	_, p.Sepia = query["sepia"]

	if _, ok := query["blur"]; ok {
		p.Blur = true
		p.BlurAmount = defaultBlurAmount

		if val := query.Get("blur"); val != "" {
			amount, err := parseFloat(val)
			if err != nil {
				return invalid("blur", val)
			}
			p.BlurAmount = amount
		}
	}

	if _, ok := query["sharp"]; ok {
		p.Sharpen = true
		p.SharpenOptions = image.SharpenOptions{
			Flat:   defaultSharpenFlat,
			Jagged: defaultSharpenJagged,
			Sigma:  processors.FastSharpenSigma,
		}

		values, err := floatList(query.Get("sharp"), 3)
		if err != nil {
			return invalid("sharp", query.Get("sharp"))
		}

		targets := []*float64{&p.SharpenOptions.Flat, &p.SharpenOptions.Jagged, &p.SharpenOptions.Sigma}
		for n, v := range values {
			*targets[n] = v
		}
	}

	if val, ok := query["tint"]; ok {
		color, err := processors.ParseColor(val[0])
		if err != nil {
			return invalid("tint", val[0])
		}

		p.Tint = true
		p.TintColor = color
	}

	if _, ok := query["mod"]; ok {
		p.Modulate = true
		p.ModulateOptions = image.ModulateOptions{Brightness: 1, Saturation: 1}

		values, err := floatList(query.Get("mod"), 3)
		if err != nil {
			return invalid("mod", query.Get("mod"))
		}

		targets := []*float64{&p.ModulateOptions.Brightness, &p.ModulateOptions.Saturation, &p.ModulateOptions.Hue}
		for n, v := range values {
			*targets[n] = v
		}
	}

	if val, ok := query["crop"]; ok {
		values, err := intList(val[0], 4)
		if err != nil || len(values) != 4 {
			return invalid("crop", val[0])
		}

		p.Crop = true
		p.CropRegion = image.Region{X: values[0], Y: values[1], Width: values[2], Height: values[3]}
	}

	if val := query.Get("q"); val != "" {
		quality, err := strconv.Atoi(val)
		if err != nil || quality < 1 || quality > 100 {
			return invalid("q", val)
		}

		p.Quality = quality
	}

	return nil
}

// floatList parses up to max comma separated numbers, empty values are skipped
func floatList(s string, max int) ([]float64, error) {
	if s == "" {
		return nil, nil
	}

	parts := strings.Split(s, ",")
	if len(parts) > max {
		return nil, ErrInvalidParameter
	}

	values := make([]float64, 0, len(parts))
	for _, part := range parts {
		v, err := parseFloat(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}

// parseFloat parses a finite number, NaN and infinities are rejected
func parseFloat(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}

	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, ErrInvalidParameter
	}

	return v, nil
}

func intList(s string, max int) ([]int, error) {
	parts := strings.Split(s, ",")
	if len(parts) > max {
		return nil, ErrInvalidParameter
	}

	values := make([]int, 0, len(parts))
	for _, part := range parts {
		v, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		values = append(values, v)
	}

	return values, nil
}

func invalid(name, value string) error {
	return fmt.Errorf("%w %s=%q", ErrInvalidParameter, name, value)
}
