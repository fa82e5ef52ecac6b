// Package imageapi serves processed images over http
package imageapi

import (
	"net/http"
	"time"

	"github.com/DMarby/image-pipeline/internal/handler"
	"github.com/DMarby/image-pipeline/internal/health"
	"github.com/DMarby/image-pipeline/internal/hmac"
	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/logger"
	"github.com/DMarby/image-pipeline/internal/tracing"
	"github.com/gorilla/mux"
)

// API is a http api
type API struct {
	ImageProcessor image.TaskProcessor
	HealthChecker  *health.Checker
	Log            *logger.Logger
	Tracer         *tracing.Tracer
	HandlerTimeout time.Duration
	HMAC           *hmac.HMAC
}

// Utility methods for logging
func (a *API) logError(r *http.Request, message string, err error) {
	a.Log.Errorw(message, handler.LogFields(r, "error", err)...)
}

// Router returns a http router
func (a *API) Router() http.Handler {
	router := mux.NewRouter()

	router.NotFoundHandler = handler.Handler(a.notFoundHandler)

	// Healthcheck
	if a.HealthChecker != nil {
		router.Handle("/health", handler.Health(a.HealthChecker)).Methods("GET").Name("health")
	}

	// Image by ID routes
	router.Handle("/id/{id}/{width:[0-9]+}/{height:[0-9]+}{extension:(?:\\..*)?}", handler.Handler(a.imageHandler)).Methods("GET", "HEAD")

	// Query parameters:
	// ?grayscale - Grayscale the image
	// ?sepia - Apply a sepia filter
	// ?blur - Blur the image
	// ?blur={amount} - Blur the image by {amount}
	// ?sharp={flat},{jagged},{sigma} - Sharpen the image, every value is optional
	// ?tint={colour} - Tint the image towards a CSS colour name or hex colour, keeping its luminance
	// ?mod={brightness},{saturation},{hue} - Modulate the image
	// ?crop={x},{y},{width},{height} - Crop the source image before resizing
	// ?q={quality} - Output quality, 1-100

	// ?hmac - HMAC signature of the path and URL parameters

	routeMatcher := &handler.MuxRouteMatcher{Router: router}

	// Set up handlers for handling panics, request logging, setting CORS headers, metrics, tracing, and handler execution timeout
	return handler.Recovery(a.Log,
		handler.Logger(a.Log,
			handler.CORS([]string{"Picsum-ID", "ETag"},
				handler.Metrics(
					handler.Tracer(a.Tracer,
						http.TimeoutHandler(router, a.HandlerTimeout, "Something went wrong. Timed out."),
						routeMatcher,
					),
					routeMatcher,
				),
			),
		),
	)
}

// Handle not found errors
var notFoundError = &handler.Error{
	Message: "page not found",
	Code:    http.StatusNotFound,
}

func (a *API) notFoundHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	return notFoundError
}
