package health

import (
	"context"
	"net/http"
	"time"

	"github.com/you-humble/farm-connect/internal/transport/http/respond"
	"github.com/you-humble/farm-connect/platform/logger"
)

// Check pings one backing store.
type Check struct {
	Name string
	Ping func(ctx context.Context) error
}

type readiness struct {
	Status string            `json:"status"`
	Failed map[string]string `json:"failed,omitempty"`
}

// HealthCheck is the liveness probe.
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	if _, err := w.Write([]byte("SERVING")); err != nil {
		logger.Error(r.Context(), "health check", logger.ErrorF(err))
	}
}

// Readiness answers 503 while any check fails.
func Readiness(timeout time.Duration, checks ...Check) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), timeout)
		defer cancel()

		res := readiness{Status: "ok"}
		for _, c := range checks {
			if err := c.Ping(ctx); err != nil {
				if res.Failed == nil {
					res.Failed = make(map[string]string)
				}
				res.Failed[c.Name] = err.Error()
				logger.Warn(ctx, "readiness check failed", logger.String("check", c.Name), logger.ErrorF(err))
			}
		}

		if len(res.Failed) > 0 {
			res.Status = "unavailable"
			respond.JSON(w, r, http.StatusServiceUnavailable, res)
			return
		}
		respond.JSON(w, r, http.StatusOK, res)
	}
}
