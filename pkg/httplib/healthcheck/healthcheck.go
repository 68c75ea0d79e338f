package healthcheck

import (
	"context"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const checkTimeout = 2 * time.Second

// Check is a named dependency probe.
type Check struct {
	Name  string
	Probe func(ctx context.Context) error
}

// Status is the body written by the health endpoint.
type Status struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// HealthCheck is the health check handler.
type HealthCheck struct {
	checks []Check
}

// New creates a health check that runs every probe on each request.
func New(checks ...Check) HealthCheck {
	return HealthCheck{checks: checks}
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
	status := hc.Run(r.Context())

	code := http.StatusOK
	if status.Status != "ok" {
		code = http.StatusServiceUnavailable
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(status)
}

// Run executes every probe and reports "ok" only when all of them pass.
func (hc HealthCheck) Run(ctx context.Context) Status {
	status := Status{Status: "ok"}
	if len(hc.checks) == 0 {
		return status
	}

	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()

	status.Checks = make(map[string]string, len(hc.checks))
	for _, check := range hc.checks {
		if err := check.Probe(ctx); err != nil {
			status.Status = "degraded"
			status.Checks[check.Name] = err.Error()
			continue
		}
		status.Checks[check.Name] = "ok"
	}

	return status
}

// IsHealthCheckRequest is used to check if the request is a health check request
func IsHealthCheckRequest(r *http.Request) bool {
	return r.Method == "GET" && r.URL.Path == "/health"
}
