package healthcheck

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck_ServeHTTP(t *testing.T) {
	testCases := []struct {
		name       string
		checks     []Check
		wantCode   int
		wantStatus Status
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: Status{Status: "ok"},
		},
		{
			name: "all passing",
			checks: []Check{
				{Name: "redis", Probe: func(ctx context.Context) error { return nil }},
			},
			wantCode:   http.StatusOK,
			wantStatus: Status{Status: "ok", Checks: map[string]string{"redis": "ok"}},
		},
		{
			name: "one failing",
			checks: []Check{
				{Name: "redis", Probe: func(ctx context.Context) error { return nil }},
				{Name: "questdb", Probe: func(ctx context.Context) error { return errors.New("connection refused") }},
			},
			wantCode: http.StatusServiceUnavailable,
			wantStatus: Status{Status: "degraded", Checks: map[string]string{
				"redis":   "ok",
				"questdb": "connection refused",
			}},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			New(tc.checks...).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tc.wantCode, rec.Code)

			var got Status
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			assert.Equal(t, tc.wantStatus, got)
		})
	}
}

func TestHealthCheck_Handler(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	h := New().Handler(next)

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/analyze", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
}
