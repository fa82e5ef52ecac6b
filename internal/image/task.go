package image

// Task is an image processing task
type Task struct {
	ImageID         string
	Width           int
	Height          int
	ApplyCrop       bool
	CropRegion      Region
	ApplySharpen    bool
	SharpenOptions  SharpenOptions
	ApplyBlur       bool
	BlurAmount      float64
	ApplyModulate   bool
	ModulateOptions ModulateOptions
	ApplyGrayscale  bool
	ApplySepia      bool
	ApplyTint       bool
	TintColor       Color
	OutputFormat    OutputFormat
	OutputQuality   int
}

// OutputFormat is the image format to output to
type OutputFormat int

const (
	// JPEG represents the JPEG format
	JPEG OutputFormat = iota
	// WebP represents the WebP format
	WebP
	// PNG represents the PNG format
	PNG
)

func (f OutputFormat) String() string {
	switch f {
	case WebP:
		return "webp"
	case PNG:
		return "png"
	default:
		return "jpeg"
	}
}

// Color is an RGB colour with 8-bit components
type Color struct {
	R, G, B int
}

// Region is a rectangular area of an image
type Region struct {
	X, Y, Width, Height int
}

// SharpenOptions configures sharpening.
// A Sigma of -1 selects the fast, mild sharpen.
type SharpenOptions struct {
	Flat   float64
	Jagged float64
	Sigma  float64
}

// ModulateOptions configures brightness, saturation and hue modulation
type ModulateOptions struct {
	Brightness float64
	Saturation float64
	Hue        float64
}

// NewTask creates a new image processing task
func NewTask(imageID string, width int, height int, format OutputFormat) *Task {
	return &Task{
		ImageID:      imageID,
		Width:        width,
		Height:       height,
		OutputFormat: format,
	}
}

// Crop crops the source image to region before resizing
func (t *Task) Crop(region Region) *Task {
	t.ApplyCrop = true
	t.CropRegion = region
	return t
}

// Sharpen sharpens the image
func (t *Task) Sharpen(options SharpenOptions) *Task {
	t.ApplySharpen = true
	t.SharpenOptions = options
	return t
}

// Blur applies gaussian blur to the image
func (t *Task) Blur(amount float64) *Task {
	t.ApplyBlur = true
	t.BlurAmount = amount
	return t
}

// Modulate changes the brightness, saturation and hue of the image
func (t *Task) Modulate(options ModulateOptions) *Task {
	t.ApplyModulate = true
	t.ModulateOptions = options
	return t
}

// Grayscale turns the image into grayscale
func (t *Task) Grayscale() *Task {
	t.ApplyGrayscale = true
	return t
}

// Sepia applies a sepia filter to the image
func (t *Task) Sepia() *Task {
	t.ApplySepia = true
	return t
}

// Tint tints the image towards color, keeping its luminance
func (t *Task) Tint(color Color) *Task {
	t.ApplyTint = true
	t.TintColor = color
	return t
}

// Quality sets the output quality for lossy formats
func (t *Task) Quality(quality int) *Task {
	t.OutputQuality = quality
	return t
}
