package middleware

import (
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/templui/darkroom/internal/ctxkeys"
)

// responseWriter wraps http.ResponseWriter to capture status code and size
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	bytes      int
	written    bool
}

func (rw *responseWriter) WriteHeader(code int) {
	if !rw.written {
		rw.statusCode = code
		rw.written = true
		rw.ResponseWriter.WriteHeader(code)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	n, err := rw.ResponseWriter.Write(b)
	rw.bytes += n
	return n, err
}

// Paths to skip logging. File retrieval is too chatty for request logs.
var skipLoggingPaths = []string{
	"/uploads/",
	"/favicon.ico",
}

// RequestLogging logs HTTP requests with method, path, status, and duration.
// It must run inside Session so the caller is known.
func RequestLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, prefix := range skipLoggingPaths {
			if strings.HasPrefix(r.URL.Path, prefix) {
				next.ServeHTTP(w, r)
				return
			}
		}

		start := time.Now()

		rw := &responseWriter{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
		}

		next.ServeHTTP(rw, r)

		attrs := []any{
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"bytes", rw.bytes,
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", getClientIP(r),
		}

		caller := ctxkeys.Caller(r.Context())
		if caller.UserID != nil {
			attrs = append(attrs, "user_id", *caller.UserID)
		}
		if caller.IsAdmin {
			attrs = append(attrs, "admin", true)
		}

		level := slog.LevelInfo
		if rw.statusCode >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		slog.Log(r.Context(), level, "http request", attrs...)
	})
}
