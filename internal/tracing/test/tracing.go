// Package test provides a tracer that records nothing
package test

import (
	"github.com/DMarby/image-pipeline/internal/logger"
	"github.com/DMarby/image-pipeline/internal/tracing"
)

// Tracer returns a no-op tracer
func Tracer(log *logger.Logger) *tracing.Tracer {
	return tracing.NewNoop(log, "test")
}
