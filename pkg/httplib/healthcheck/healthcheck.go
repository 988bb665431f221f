package healthcheck

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"
)

// Check probes one dependency.
type Check func(ctx context.Context) error

// HealthCheck is the health check handler.
type HealthCheck struct {
	checks  map[string]Check
	timeout time.Duration
}

// New returns a HealthCheck that runs checks on every probe. With no checks
// it always answers "ok".
func New(checks map[string]Check) HealthCheck {
	return HealthCheck{checks: checks, timeout: 2 * time.Second}
}

// Handler is used to control the flow of GET /health endpoint
func (hc HealthCheck) Handler(h http.Handler) http.Handler {
	fn := func(w http.ResponseWriter, r *http.Request) {
		if IsHealthCheckRequest(r) {
			hc.ServeHTTP(w, r)

			return
		}

		h.ServeHTTP(w, r)
	}

	return http.HandlerFunc(fn)
}

// ServeHTTP serve http request for health check
func (hc HealthCheck) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if len(hc.checks) == 0 {
		w.WriteHeader(http.StatusOK)
		fmt.Fprintln(w, "ok")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), hc.timeout)
	defer cancel()

	names := make([]string, 0, len(hc.checks))
	for name := range hc.checks {
		names = append(names, name)
	}
	sort.Strings(names)

	status := http.StatusOK
	result := make(map[string]string, len(names))
	for _, name := range names {
		if err := hc.checks[name](ctx); err != nil {
			status = http.StatusServiceUnavailable
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(result)
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/health"
}
