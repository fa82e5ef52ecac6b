package handler

import (
	"fmt"
	"net/http"

	"github.com/DMarby/image-pipeline/internal/logger"
	"github.com/DMarby/image-pipeline/internal/tracing"
	"github.com/felixge/httpsnoop"
)

// Logger is a handler that logs requests using zap.
// Server errors are logged as errors, everything else at debug.
func Logger(log *logger.Logger, h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		respMetrics := httpsnoop.CaptureMetricsFn(w, func(ww http.ResponseWriter) {
			h.ServeHTTP(ww, r)
		})

		logFields := LogFields(r,
			"http-method", r.Method,
			"remote-addr", r.RemoteAddr,
			"user-agent", r.UserAgent(),
			"uri", r.URL.String(),
			"status-code", respMetrics.Code,
			"bytes-written", respMetrics.Written,
			"elapsed", fmt.Sprintf("%.9fs", respMetrics.Duration.Seconds()),
		)

		if respMetrics.Code >= 500 {
			log.Errorw("Request completed", logFields...)
			return
		}

		log.Debugw("Request completed", logFields...)
	})
}

// LogFields prefixes keysAndValues with the trace and span id of a request
func LogFields(r *http.Request, keysAndValues ...interface{}) []interface{} {
	traceID, spanID := tracing.TraceInfo(r.Context())
	return append([]interface{}{"trace-id", traceID, "span-id", spanID}, keysAndValues...)
}
