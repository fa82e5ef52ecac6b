package image_test

import (
	"errors"
	goimage "image"
	"image/color"
	"strings"
	"testing"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/google/go-cmp/cmp"
)

func TestNew(t *testing.T) {
	tests := []struct {
		Name           string
		Width, Height  int
		Bands          int
		Format         image.SampleFormat
		Interpretation image.Interpretation
		ExpectedError  error
		ExpectedAlpha  bool
	}{
		{"greyscale", 2, 2, 1, image.Uchar, image.BW, nil, false},
		{"greyscale with alpha", 2, 2, 2, image.Uchar, image.BW, nil, true},
		{"srgb", 2, 2, 3, image.Ushort, image.SRGB, nil, false},
		{"srgb with alpha", 2, 2, 4, image.Uchar, image.SRGB, nil, true},
		{"cmyk", 2, 2, 4, image.Uchar, image.CMYK, nil, false},
		{"cmyk with alpha", 2, 2, 5, image.Uchar, image.CMYK, nil, true},
		{"multiband", 2, 2, 5, image.Uchar, image.Multiband, nil, false},
		{"srgb with too few bands", 2, 2, 2, image.Uchar, image.SRGB, image.ErrUnsupportedImageKind, false},
		{"greyscale with too many bands", 2, 2, 3, image.Uchar, image.BW, image.ErrUnsupportedImageKind, false},
		{"zero bands", 2, 2, 0, image.Uchar, image.Multiband, image.ErrUnsupportedImageKind, false},
		{"unknown format", 2, 2, 1, image.SampleFormat(7), image.BW, image.ErrUnsupportedImageKind, false},
		{"zero width", 0, 2, 1, image.Uchar, image.BW, image.ErrInvalidParameter, false},
		{"too large", 1 << 20, 1 << 20, 3, image.Uchar, image.SRGB, image.ErrAllocationFailure, false},
	}

	for _, test := range tests {
		img, err := image.New(test.Width, test.Height, test.Bands, test.Format, test.Interpretation)
		if test.ExpectedError != nil {
			if !errors.Is(err, test.ExpectedError) {
				t.Errorf("%s: wrong error %v", test.Name, err)
			}
			if img != nil {
				t.Errorf("%s: expected no image", test.Name)
			}
			continue
		}

		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if img.HasAlpha() != test.ExpectedAlpha {
			t.Errorf("%s: wrong alpha %t", test.Name, img.HasAlpha())
		}

		if img.Width() != test.Width || img.Height() != test.Height {
			t.Errorf("%s: wrong dimensions %dx%d", test.Name, img.Width(), img.Height())
		}
	}
}

func TestNewFromSamples(t *testing.T) {
	samples := []uint16{1, 2, 3}
	img, err := image.NewFromSamples(3, 1, 1, image.Uchar, image.BW, samples)
	if err != nil {
		t.Fatal(err)
	}

	samples[0] = 100
	if img.At(0, 0, 0) != 1 {
		t.Errorf("samples were not copied")
	}

	tests := []struct {
		Name    string
		Width   int
		Samples []uint16
	}{
		{"too few samples", 3, []uint16{1, 2}},
		{"sample out of range", 1, []uint16{256}},
	}

	for _, test := range tests {
		if _, err := image.NewFromSamples(test.Width, 1, 1, image.Uchar, image.BW, test.Samples); !errors.Is(err, image.ErrInvalidParameter) {
			t.Errorf("%s: wrong error %v", test.Name, err)
		}
	}
}

func TestBands(t *testing.T) {
	img, err := image.NewFromSamples(2, 1, 4, image.Uchar, image.SRGB, []uint16{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatal(err)
	}

	alpha, err := img.Alpha()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]uint16{4, 8}, alpha.Samples()); diff != "" {
		t.Errorf("wrong alpha (-want +got):\n%s", diff)
	}

	colorBands, err := img.WithoutAlpha()
	if err != nil {
		t.Fatal(err)
	}

	if colorBands.Interpretation() != image.SRGB {
		t.Errorf("wrong interpretation %s", colorBands.Interpretation())
	}

	if diff := cmp.Diff([]uint16{1, 2, 3, 5, 6, 7}, colorBands.Samples()); diff != "" {
		t.Errorf("wrong colour bands (-want +got):\n%s", diff)
	}

	joined, err := image.Bandjoin(image.SRGB, colorBands, alpha)
	if err != nil {
		t.Fatal(err)
	}

	if !joined.Equal(img) {
		t.Errorf("joined bands differ from the original: %v", joined.Samples())
	}

	if _, err := img.Extract(3, 2, image.Multiband); !errors.Is(err, image.ErrInvalidParameter) {
		t.Errorf("extract past the last band: wrong error %v", err)
	}

	other, err := image.New(3, 1, 1, image.Uchar, image.Multiband)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := image.Bandjoin(image.Multiband, img, other); !errors.Is(err, image.ErrInvalidParameter) {
		t.Errorf("bandjoin of mismatched sizes: wrong error %v", err)
	}

	rgb, err := image.New(1, 1, 3, image.Uchar, image.SRGB)
	if err != nil {
		t.Fatal(err)
	}

	noAlpha, err := rgb.Alpha()
	if err != nil {
		t.Fatal(err)
	}

	if noAlpha != nil {
		t.Errorf("expected no alpha band")
	}
}

func TestCast(t *testing.T) {
	img, err := image.NewFromSamples(3, 1, 1, image.Uchar, image.BW, []uint16{0, 128, 255})
	if err != nil {
		t.Fatal(err)
	}

	wide, err := img.Cast(image.Ushort)
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]uint16{0, 32896, 65535}, wide.Samples()); diff != "" {
		t.Errorf("wrong samples (-want +got):\n%s", diff)
	}

	narrow, err := wide.Cast(image.Uchar)
	if err != nil {
		t.Fatal(err)
	}

	if !narrow.Equal(img) {
		t.Errorf("round trip changed the samples to %v", narrow.Samples())
	}
}

func TestFromGoImage(t *testing.T) {
	grey := goimage.NewGray(goimage.Rect(0, 0, 2, 1))
	grey.SetGray(1, 0, color.Gray{Y: 200})

	opaque := goimage.NewNRGBA(goimage.Rect(0, 0, 1, 1))
	opaque.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 255})

	transparent := goimage.NewNRGBA(goimage.Rect(0, 0, 1, 1))
	transparent.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 77})

	wide := goimage.NewNRGBA64(goimage.Rect(0, 0, 1, 1))
	wide.SetNRGBA64(0, 0, color.NRGBA64{R: 1000, G: 2000, B: 3000, A: 0xffff})

	cmyk := goimage.NewCMYK(goimage.Rect(0, 0, 1, 1))
	cmyk.SetCMYK(0, 0, color.CMYK{C: 1, M: 2, Y: 3, K: 4})

	tests := []struct {
		Name                   string
		Image                  goimage.Image
		ExpectedFormat         image.SampleFormat
		ExpectedInterpretation image.Interpretation
		ExpectedSamples        []uint16
	}{
		{"greyscale", grey, image.Uchar, image.BW, []uint16{0, 200}},
		{"opaque colour", opaque, image.Uchar, image.SRGB, []uint16{10, 20, 30}},
		{"transparent colour", transparent, image.Uchar, image.SRGB, []uint16{10, 20, 30, 77}},
		{"16-bit", wide, image.Ushort, image.SRGB, []uint16{1000, 2000, 3000}},
		{"cmyk", cmyk, image.Uchar, image.CMYK, []uint16{1, 2, 3, 4}},
	}

	for _, test := range tests {
		img, err := image.FromGoImage(test.Image)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if img.Format() != test.ExpectedFormat || img.Interpretation() != test.ExpectedInterpretation {
			t.Errorf("%s: wrong layout %s %s", test.Name, img.Format(), img.Interpretation())
		}

		if diff := cmp.Diff(test.ExpectedSamples, img.Samples()); diff != "" {
			t.Errorf("%s: wrong samples (-want +got):\n%s", test.Name, diff)
		}
	}
}

func TestGoImage(t *testing.T) {
	grey := goimage.NewGray(goimage.Rect(0, 0, 2, 1))
	grey.SetGray(1, 0, color.Gray{Y: 200})

	img, err := image.FromGoImage(grey)
	if err != nil {
		t.Fatal(err)
	}

	dst, err := img.GoImage()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(grey.Pix, dst.(*goimage.Gray).Pix); diff != "" {
		t.Errorf("greyscale: wrong pixels (-want +got):\n%s", diff)
	}

	transparent := goimage.NewNRGBA(goimage.Rect(0, 0, 1, 1))
	transparent.SetNRGBA(0, 0, color.NRGBA{R: 10, G: 20, B: 30, A: 77})

	img, err = image.FromGoImage(transparent)
	if err != nil {
		t.Fatal(err)
	}

	dst, err = img.GoImage()
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff(transparent.Pix, dst.(*goimage.NRGBA).Pix); diff != "" {
		t.Errorf("transparent colour: wrong pixels (-want +got):\n%s", diff)
	}

	multiband, err := image.New(1, 1, 5, image.Uchar, image.Multiband)
	if err != nil {
		t.Fatal(err)
	}

	if _, err := multiband.GoImage(); !errors.Is(err, image.ErrUnsupportedImageKind) {
		t.Errorf("multiband: wrong error %v", err)
	}
}

func TestFromGoImageLike(t *testing.T) {
	like, err := image.New(1, 1, 2, image.Uchar, image.BW)
	if err != nil {
		t.Fatal(err)
	}

	src := goimage.NewNRGBA(goimage.Rect(0, 0, 1, 1))
	src.SetNRGBA(0, 0, color.NRGBA{R: 90, G: 90, B: 90, A: 40})

	img, err := image.FromGoImageLike(src, like)
	if err != nil {
		t.Fatal(err)
	}

	if img.Interpretation() != image.BW {
		t.Errorf("wrong interpretation %s", img.Interpretation())
	}

	if diff := cmp.Diff([]uint16{90, 40}, img.Samples()); diff != "" {
		t.Errorf("wrong samples (-want +got):\n%s", diff)
	}
}

type addProcessor uint16

func (a addProcessor) Process(img *image.Image) (*image.Image, error) {
	samples := img.Samples()
	for n := range samples {
		samples[n] += uint16(a)
	}
	return image.NewFromSamples(img.Width(), img.Height(), img.Bands(), img.Format(), img.Interpretation(), samples)
}

func TestPipeline(t *testing.T) {
	img, err := image.NewFromSamples(2, 1, 1, image.Uchar, image.BW, []uint16{1, 2})
	if err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		Name     string
		Pipeline image.Pipeline
		Expected []uint16
	}{
		{"runs in order", image.Pipeline{addProcessor(1), addProcessor(10)}, []uint16{12, 13}},
		{"empty pipeline", image.Pipeline{}, []uint16{1, 2}},
		{"nests", image.Pipeline{image.Pipeline{addProcessor(1)}, addProcessor(2)}, []uint16{4, 5}},
	}

	for _, test := range tests {
		out, err := test.Pipeline.Process(img)
		if err != nil {
			t.Errorf("%s: %s", test.Name, err)
			continue
		}

		if diff := cmp.Diff(test.Expected, out.Samples()); diff != "" {
			t.Errorf("%s: wrong samples (-want +got):\n%s", test.Name, diff)
		}
	}

	if diff := cmp.Diff([]uint16{1, 2}, img.Samples()); diff != "" {
		t.Errorf("input changed (-want +got):\n%s", diff)
	}
}

func TestPipelineFailure(t *testing.T) {
	img, err := image.NewFromSamples(2, 1, 1, image.Uchar, image.BW, []uint16{1, 2})
	if err != nil {
		t.Fatal(err)
	}

	called := false
	failing := image.ProcessorFunc(func(*image.Image) (*image.Image, error) {
		return nil, image.ErrUnsupportedImageKind
	})
	after := image.ProcessorFunc(func(img *image.Image) (*image.Image, error) {
		called = true
		return img, nil
	})

	out, err := image.Pipeline{addProcessor(1), failing, after}.Process(img)
	if out != nil {
		t.Errorf("expected no image")
	}

	if !errors.Is(err, image.ErrUnsupportedImageKind) {
		t.Errorf("wrong error %v", err)
	}

	if err != nil && !strings.Contains(err.Error(), "step 1") {
		t.Errorf("error does not name the failing step: %s", err)
	}

	if called {
		t.Errorf("pipeline continued after a failure")
	}
}
