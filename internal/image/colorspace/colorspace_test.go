package colorspace_test

import (
	"errors"
	"math"
	"testing"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/image/colorspace"
	"github.com/google/go-cmp/cmp"
)

func TestLuminance(t *testing.T) {
	tests := []struct {
		Name     string
		R, G, B  uint16
		Expected uint16
	}{
		{"black", 0, 0, 0, 0},
		{"white", 255, 255, 255, 255},
		{"white 16-bit", 65535, 65535, 65535, 65535},
		{"mid grey", 128, 128, 128, 128},
		{"red", 255, 0, 0, 76},
		{"green", 0, 255, 0, 150},
		{"blue", 0, 0, 255, 29},
	}

	for _, test := range tests {
		if luminance := colorspace.Luminance(test.R, test.G, test.B); luminance != test.Expected {
			t.Errorf("%s: wrong luminance %d", test.Name, luminance)
		}
	}
}

func TestToLuminance(t *testing.T) {
	tests := []struct {
		Name           string
		Format         image.SampleFormat
		Interpretation image.Interpretation
		Bands          int
		Samples        []uint16
		Expected       []uint16
	}{
		{"weights srgb images", image.Uchar, image.SRGB, 3, []uint16{255, 0, 0, 10, 20, 30}, []uint16{76, 18}},
		{"ignores the alpha band", image.Uchar, image.SRGB, 4, []uint16{100, 150, 200, 77, 0, 0, 0, 255}, []uint16{141, 0}},
		{"uses the grey band of greyscale images", image.Ushort, image.BW, 2, []uint16{1000, 5, 65535, 6}, []uint16{1000, 65535}},
	}

	for _, test := range tests {
		img, err := image.NewFromSamples(2, 1, test.Bands, test.Format, test.Interpretation, test.Samples)
		if err != nil {
			t.Fatalf("%s: %s", test.Name, err)
		}

		luminance, err := colorspace.ToLuminance(img)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if luminance.Bands() != 1 || luminance.Interpretation() != image.BW || luminance.Format() != test.Format {
			t.Errorf("%s: wrong layout %d band %s %s", test.Name, luminance.Bands(), luminance.Interpretation(), luminance.Format())
		}

		if diff := cmp.Diff(test.Expected, luminance.Samples()); diff != "" {
			t.Errorf("%s: wrong luminance (-want +got):\n%s", test.Name, diff)
		}
	}
}

func TestToLuminanceRejectsCMYK(t *testing.T) {
	img, err := image.New(1, 1, 4, image.Uchar, image.CMYK)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := colorspace.ToLuminance(img); !errors.Is(err, image.ErrUnsupportedImageKind) {
		t.Errorf("wrong error %v", err)
	}
}

func TestToGreyscale(t *testing.T) {
	img, err := image.NewFromSamples(1, 1, 4, image.Uchar, image.SRGB, []uint16{255, 255, 255, 9})
	if err != nil {
		t.Fatal(err)
	}

	grey, err := colorspace.ToGreyscale(img)
	if err != nil {
		t.Fatal(err)
	}

	if grey.Interpretation() != image.BW || !grey.HasAlpha() {
		t.Errorf("wrong layout %d band %s", grey.Bands(), grey.Interpretation())
	}

	if diff := cmp.Diff([]uint16{255, 9}, grey.Samples()); diff != "" {
		t.Errorf("wrong samples (-want +got):\n%s", diff)
	}
}

func TestToSRGB(t *testing.T) {
	img, err := image.NewFromSamples(2, 1, 2, image.Uchar, image.BW, []uint16{10, 20, 30, 40})
	if err != nil {
		t.Fatal(err)
	}

	srgb, err := colorspace.ToSRGB(img)
	if err != nil {
		t.Fatal(err)
	}

	if srgb.Interpretation() != image.SRGB {
		t.Errorf("wrong interpretation %s", srgb.Interpretation())
	}

	if diff := cmp.Diff([]uint16{10, 10, 10, 20, 30, 30, 30, 40}, srgb.Samples()); diff != "" {
		t.Errorf("wrong samples (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]uint16{10, 20, 30, 40}, img.Samples()); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

func TestLab(t *testing.T) {
	colors := []image.Color{
		{R: 0, G: 0, B: 0},
		{R: 255, G: 255, B: 255},
		{R: 200, G: 50, B: 100},
		{R: 17, G: 255, B: 51},
	}

	for _, c := range colors {
		if roundTrip := colorspace.FromLab(colorspace.ToLab(c)); roundTrip != c {
			t.Errorf("%+v: round trip through lab gave %+v", c, roundTrip)
		}
	}

	white := colorspace.ToLab(image.Color{R: 255, G: 255, B: 255})
	if !near(white.L, 1, 0.001) || !near(white.A, 0, 0.001) || !near(white.B, 0, 0.001) {
		t.Errorf("wrong lab for white %+v", white)
	}
}

func TestModulate(t *testing.T) {
	r, g, b := colorspace.Modulate(0.2, 0.4, 0.6, 1, 1, 0)
	if !near(r, 0.2, 0.001) || !near(g, 0.4, 0.001) || !near(b, 0.6, 0.001) {
		t.Errorf("identity modulation changed the colour to %v %v %v", r, g, b)
	}

	r, g, b = colorspace.Modulate(0.2, 0.4, 0.6, 1, 0, 0)
	if !near(r, g, 0.01) || !near(g, b, 0.01) {
		t.Errorf("no saturation should be grey, got %v %v %v", r, g, b)
	}

	r, g, b = colorspace.Modulate(0.2, 0.4, 0.6, 0, 1, 0)
	if r != 0 || g != 0 || b != 0 {
		t.Errorf("no brightness should be black, got %v %v %v", r, g, b)
	}
}

func near(a, b, delta float64) bool {
	return math.Abs(a-b) <= delta
}
