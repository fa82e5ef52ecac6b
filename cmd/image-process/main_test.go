package main

import (
	"bytes"
	goimage "image"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/image/codec"
	"github.com/DMarby/image-pipeline/internal/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFixture(t *testing.T, path string) {
	t.Helper()

	src := goimage.NewGray(goimage.Rect(0, 0, 8, 6))
	for n := range src.Pix {
		src.Pix[n] = 200
	}

	buf := new(bytes.Buffer)
	require.NoError(t, png.Encode(buf, src))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeFixture(t, in)

	out := filepath.Join(dir, "out.png")
	require.NoError(t, run(job{In: in, Out: out, Width: 4, Ops: "tint=%23ff0000", Compression: 9}))

	buf, err := os.ReadFile(out)
	require.NoError(t, err)

	img, format, err := codec.Decode(buf)
	require.NoError(t, err)

	assert.Equal(t, "png", format)
	assert.Equal(t, 4, img.Width())
	assert.Equal(t, 3, img.Height())
	assert.Equal(t, image.SRGB, img.Interpretation())

	// Red tint on a uniform grey of 200
	assert.InDelta(t, 200, img.At(1, 1, 0), 1)
	assert.Equal(t, uint16(0), img.At(1, 1, 1))
	assert.Equal(t, uint16(0), img.At(1, 1, 2))
}

func TestRunErrors(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "in.png")
	writeFixture(t, in)

	assert.ErrorIs(t, run(job{In: in, Out: filepath.Join(dir, "out.gif")}), params.ErrInvalidFileExtension)
	assert.ErrorIs(t, run(job{In: in, Out: filepath.Join(dir, "out.png"), Ops: "tint=nope"}), params.ErrInvalidParameter)
	assert.ErrorIs(t, run(job{In: in, Out: filepath.Join(dir, "out.png"), Ops: "blur=0"}), image.ErrInvalidParameter)
	assert.ErrorIs(t, run(job{In: filepath.Join(dir, "missing.png"), Out: filepath.Join(dir, "out.png")}), os.ErrNotExist)
	assert.ErrorIs(t, run(job{In: in, Out: filepath.Join(dir, "out.png"), Compression: 10}), image.ErrInvalidParameter)
}
