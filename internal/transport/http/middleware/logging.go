package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/you-humble/farm-connect/platform/logger"
)

// RequestLogger tags the context with the request id and writes one access record per request.
// It must run after chi's RequestID middleware.
func RequestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ctx := r.Context()
		if id := chimw.GetReqID(ctx); id != "" {
			ctx = logger.WithContext(ctx, logger.String("request_id", id))
			r = r.WithContext(ctx)
		}

		ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		fields := []logger.Field{
			logger.String("method", r.Method),
			logger.String("path", r.URL.RequestURI()),
			logger.Int("status", status),
			logger.Int("bytes", ww.BytesWritten()),
			logger.Duration("duration", time.Since(start)),
		}
		if status >= http.StatusInternalServerError {
			logger.Warn(ctx, "http request", fields...)
			return
		}
		logger.Info(ctx, "http request", fields...)
	})
}
