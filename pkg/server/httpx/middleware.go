package httpx

import (
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/vulntor/uihost/pkg/stringutil"
)

// maxLoggedPath caps request paths in log lines.
const maxLoggedPath = 256

// Chain applies middleware in order: RequestID → Logger → Recovery → Metrics → handler
//
// This ensures:
// 1. Every log line of a request carries its request id
// 2. All requests are logged (even if they panic)
// 3. Panics are recovered and logged
//
// metrics may be nil.
func Chain(logger zerolog.Logger, metrics *Metrics, handler http.Handler) http.Handler {
	if metrics != nil {
		handler = metrics.Middleware(handler)
	}
	return RequestID(Logger(logger)(Recovery(logger)(handler)))
}

// Logger logs each HTTP request with method, path, status, bytes and duration.
//
// Uses zerolog with "component=http" for filtering.
// Captures status code via responseWriter wrapper.
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	logger = logger.With().Str("component", "http").Logger()
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			ww := wrapResponseWriter(w)

			next.ServeHTTP(ww, r)

			level := zerolog.DebugLevel
			if ww.statusCode >= http.StatusInternalServerError {
				level = zerolog.WarnLevel
			}

			logger.WithLevel(level).
				Str("request_id", RequestIDFrom(r.Context())).
				Str("method", r.Method).
				Str("path", stringutil.Ellipsis(r.URL.Path, maxLoggedPath)).
				Int("status", ww.statusCode).
				Int64("bytes", ww.bytes).
				Dur("duration", time.Since(start)).
				Msg("HTTP request")
		})
	}
}

// Recovery catches panics and returns 500 Internal Server Error.
//
// Prevents server crashes from handler panics.
func Recovery(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					if err == http.ErrAbortHandler {
						panic(err)
					}
					logger.Error().
						Str("component", "http").
						Str("request_id", RequestIDFrom(r.Context())).
						Interface("error", err).
						Str("path", stringutil.Ellipsis(r.URL.Path, maxLoggedPath)).
						Msg("Panic recovered in HTTP handler")

					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()

			next.ServeHTTP(w, r)
		})
	}
}

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode  int
	bytes       int64
	wroteHeader bool
}

// wrapResponseWriter reuses an existing wrapper so nested middleware share counts.
func wrapResponseWriter(w http.ResponseWriter) *responseWriter {
	if rw, ok := w.(*responseWriter); ok {
		return rw
	}
	return &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.wroteHeader {
		rw.statusCode = code
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += int64(n)
	return n, err
}

// Unwrap lets http.ResponseController reach the underlying writer.
func (rw *responseWriter) Unwrap() http.ResponseWriter {
	return rw.ResponseWriter
}
