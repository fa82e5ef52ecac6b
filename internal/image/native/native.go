// Package native processes image tasks in pure Go on a bounded worker queue
package native

import (
	"context"
	"errors"
	"fmt"

	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/image/codec"
	"github.com/DMarby/image-pipeline/internal/image/processors"
	"github.com/DMarby/image-pipeline/internal/logger"
	"github.com/DMarby/image-pipeline/internal/queue"
	"github.com/DMarby/image-pipeline/internal/tracing"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var (
	queueSize = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "image_processor",
		Name:      "queue_size",
		Help:      "Number of image tasks waiting or being processed.",
	})
	processedImages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "image_processor",
		Name:      "processed_images_total",
		Help:      "Number of images processed, by output format.",
	}, []string{"format"})
	failedImages = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "image_processor",
		Name:      "failed_images_total",
		Help:      "Number of image tasks that failed, by kind of error.",
	}, []string{"kind"})
)

// Processor processes image tasks
type Processor struct {
	queue  *queue.Queue[*image.Task, []byte]
	tracer *tracing.Tracer
}

// New initializes a new processor instance and starts its workers.
// The workers stop when ctx is cancelled.
func New(ctx context.Context, log *logger.Logger, tracer *tracing.Tracer, workers int, cache *image.Cache) *Processor {
	p := &Processor{
		tracer: tracer,
	}

	p.queue = queue.New(ctx, workers, func(ctx context.Context, task *image.Task) ([]byte, error) {
		return p.process(ctx, cache, task)
	})

	go p.queue.Run()
	log.Infow("starting image worker queue", "workers", workers)

	return p
}

// ProcessImage loads the source image of a task, runs the task's pipeline on it and returns the encoded result
func (p *Processor) ProcessImage(ctx context.Context, task *image.Task) (processedImage []byte, err error) {
	queueSize.Inc()
	defer queueSize.Dec()

	processedImage, err = p.queue.Process(ctx, task)
	if err != nil {
		failedImages.WithLabelValues(errorKind(err)).Inc()
		return nil, err
	}

	processedImages.WithLabelValues(task.OutputFormat.String()).Inc()
	return processedImage, nil
}

func (p *Processor) process(ctx context.Context, cache *image.Cache, task *image.Task) ([]byte, error) {
	ctx, span := p.tracer.Start(ctx, "native.Processor.process", trace.WithAttributes(
		attribute.String("image.id", task.ImageID),
		attribute.String("image.output_format", task.OutputFormat.String()),
	))
	defer span.End()

	// Build first so that invalid parameters never cost a load
	pipeline, err := processors.Build(task)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	buf, err := cache.Get(ctx, task.ImageID)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, fmt.Errorf("error getting image from cache: %w", err)
	}

	_, decodeSpan := p.tracer.Start(ctx, "codec.Decode")
	src, format, err := codec.Decode(buf)
	if err != nil {
		tracing.RecordError(decodeSpan, err)
		decodeSpan.End()
		return nil, err
	}
	decodeSpan.SetAttributes(tracing.ImageAttributes(src.Width(), src.Height(), src.Bands(), format)...)
	decodeSpan.End()

	result, err := p.run(ctx, pipeline, src)
	if err != nil {
		tracing.RecordError(span, err)
		return nil, err
	}

	_, encodeSpan := p.tracer.Start(ctx, "codec.Encode")
	defer encodeSpan.End()

	encoded, err := codec.Encode(result, codec.Options{
		Format:      task.OutputFormat,
		Quality:     task.OutputQuality,
		Compression: -1,
	})
	if err != nil {
		tracing.RecordError(encodeSpan, err)
		return nil, err
	}

	return encoded, nil
}

// run runs a pipeline with a span per step
func (p *Processor) run(ctx context.Context, pipeline image.Pipeline, img *image.Image) (*image.Image, error) {
	ctx, span := p.tracer.Start(ctx, "image.Pipeline.Process")
	defer span.End()

	traced := make(image.Pipeline, len(pipeline))
	for n, processor := range pipeline {
		processor := processor
		name := image.Name(processor)
		traced[n] = namedProcessor{name, image.ProcessorFunc(func(img *image.Image) (*image.Image, error) {
			_, span := p.tracer.Start(ctx, "processor."+name)
			defer span.End()

			result, err := processor.Process(img)
			if err != nil {
				tracing.RecordError(span, err)
				return nil, err
			}

			span.SetAttributes(tracing.ImageAttributes(result.Width(), result.Height(), result.Bands(), result.Format().String())...)
			return result, nil
		})}
	}

	return traced.Process(img)
}

type namedProcessor struct {
	name string
	image.Processor
}

func (n namedProcessor) Name() string {
	return n.name
}

func errorKind(err error) string {
	switch {
	case errors.Is(err, image.ErrInvalidParameter):
		return "invalid_parameter"
	case errors.Is(err, image.ErrUnsupportedImageKind):
		return "unsupported_image_kind"
	case errors.Is(err, image.ErrAllocationFailure):
		return "allocation_failure"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "cancelled"
	default:
		return "other"
	}
}
