package imageapi

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/DMarby/image-pipeline/internal/handler"
	"github.com/DMarby/image-pipeline/internal/image"
	"github.com/DMarby/image-pipeline/internal/image/codec"
	"github.com/DMarby/image-pipeline/internal/image/processors"
	"github.com/DMarby/image-pipeline/internal/params"
	"github.com/DMarby/image-pipeline/internal/storage"
	"github.com/gorilla/mux"
	"github.com/twmb/murmur3"
)

const invalidParameters = "Invalid parameters"

func (a *API) imageHandler(w http.ResponseWriter, r *http.Request) *handler.Error {
	// Validate the path and query parameters
	valid, err := params.ValidateHMAC(a.HMAC, r)
	if err != nil {
		a.logError(r, "error validating hmac", err)
		return handler.InternalServerError()
	}

	if !valid {
		return handler.BadRequest(invalidParameters)
	}

	// Get the path and query parameters
	p, err := params.GetParams(r)
	if err != nil {
		return handler.BadRequest(err.Error())
	}

	// Build the image task, and make sure the processors accept its options before queueing it
	imageID := mux.Vars(r)["id"]
	task := p.Task(imageID)
	if _, err := processors.Build(task); err != nil {
		return handler.BadRequest(params.ErrInvalidParameter.Error())
	}

	etag := buildETag(r)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return nil
	}

	// Process the image
	processedImage, err := a.ImageProcessor.ProcessImage(r.Context(), task)
	if err != nil {
		return a.processingError(r, err)
	}

	// Set the headers
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=\"%s\"", buildFilename(imageID, p)))
	w.Header().Set("Content-Type", codec.ContentType(p.Format))
	w.Header().Set("Cache-Control", "public, max-age=2592000, stale-while-revalidate=60, stale-if-error=43200, immutable") // Cache for a month
	w.Header().Set("Picsum-ID", imageID)
	w.Header().Set("ETag", etag)

	// Return the image
	w.Write(processedImage)

	return nil
}

func (a *API) processingError(r *http.Request, err error) *handler.Error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return handler.NotFound(storage.ErrNotFound.Error())
	case errors.Is(err, image.ErrInvalidParameter):
		return handler.BadRequest(params.ErrInvalidParameter.Error())
	case errors.Is(err, image.ErrUnsupportedImageKind), errors.Is(err, image.ErrAllocationFailure):
		return handler.UnprocessableEntity("Image can not be processed")
	}

	a.logError(r, "error processing image", err)
	return handler.InternalServerError()
}

// buildETag hashes the canonical form of the request, without its signature
func buildETag(r *http.Request) string {
	query := r.URL.Query()
	query.Del("hmac")

	return fmt.Sprintf("\"%016x\"", murmur3.StringSum64(r.URL.Path+params.BuildQuery(query)))
}

func buildFilename(imageID string, p *params.Params) string {
	filename := fmt.Sprintf("%s-%dx%d", imageID, p.Width, p.Height)

	if p.Crop {
		r := p.CropRegion
		filename += fmt.Sprintf("-crop_%d_%d_%d_%d", r.X, r.Y, r.Width, r.Height)
	}

	if p.Sharpen {
		filename += "-sharp"
	}

	if p.Blur {
		filename += "-blur_" + strconv.FormatFloat(p.BlurAmount, 'f', -1, 64)
	}

	if p.Modulate {
		filename += "-mod"
	}

	if p.Grayscale {
		filename += "-grayscale"
	}

	if p.Sepia {
		filename += "-sepia"
	}

	if p.Tint {
		c := p.TintColor
		filename += fmt.Sprintf("-tint_%02x%02x%02x", c.R, c.G, c.B)
	}

	if p.Quality != 0 {
		filename += fmt.Sprintf("-q_%d", p.Quality)
	}

	filename += p.Extension

	return filename
}
