package main

import (
	"flag"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"github.com/DMarby/image-pipeline/internal/image/codec"
	"github.com/DMarby/image-pipeline/internal/image/processors"
	"github.com/DMarby/image-pipeline/internal/logger"
	"github.com/DMarby/image-pipeline/internal/params"
	"go.uber.org/zap"
)

// Comandline flags
var (
	loglevel = zap.LevelFlag("log-level", zap.InfoLevel, "log level (default \"info\") (debug, info, warn, error, dpanic, panic, fatal)")

	in     = flag.String("in", "", "image to process")
	out    = flag.String("out", "", "where to write the processed image, the extension selects the format (.jpg, .png, .webp)")
	width  = flag.Int("width", 0, "width to resize to, 0 keeps the aspect ratio")
	height = flag.Int("height", 0, "height to resize to, 0 keeps the aspect ratio")
	ops    = flag.String("ops", "", "processing options in the same form as the image service query, for example \"tint=orange&blur=2\"")

	compression = flag.Int("compression", -1, "png compression level, 0-9, -1 for the default")
	lossless    = flag.Bool("lossless", false, "encode webp losslessly")
)

// job is a single image to process
type job struct {
	In          string
	Out         string
	Width       int
	Height      int
	Ops         string
	Compression int
	Lossless    bool
}

func main() {
	flag.Parse()

	log := logger.New("image-process", *loglevel)
	defer log.Sync()

	if *in == "" || *out == "" {
		flag.Usage()
		os.Exit(2)
	}

	start := time.Now()
	err := run(job{
		In:          *in,
		Out:         *out,
		Width:       *width,
		Height:      *height,
		Ops:         *ops,
		Compression: *compression,
		Lossless:    *lossless,
	})
	if err != nil {
		log.Fatalw("error processing image", "in", *in, "error", err)
	}

	log.Infow("processed image", "in", *in, "out", *out, "elapsed", time.Since(start).String())
}

func run(j job) error {
	query, err := url.ParseQuery(j.Ops)
	if err != nil {
		return fmt.Errorf("parsing options: %w", err)
	}

	p, err := params.Parse(j.Width, j.Height, filepath.Ext(j.Out), query)
	if err != nil {
		return err
	}

	pipeline, err := processors.Build(p.Task(filepath.Base(j.In)))
	if err != nil {
		return err
	}

	buf, err := os.ReadFile(j.In)
	if err != nil {
		return err
	}

	img, _, err := codec.Decode(buf)
	if err != nil {
		return err
	}

	img, err = pipeline.Process(img)
	if err != nil {
		return err
	}

	encoded, err := codec.Encode(img, codec.Options{
		Format:      p.Format,
		Quality:     p.Quality,
		Compression: j.Compression,
		Lossless:    j.Lossless,
	})
	if err != nil {
		return err
	}

	return os.WriteFile(j.Out, encoded, 0o644)
}
