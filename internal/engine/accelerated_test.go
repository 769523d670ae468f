package engine

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edulytics/grade-analytics-api/internal/models"
	"github.com/edulytics/grade-analytics-api/pkg/config"
)

func newSidecarBackend(url string) *AcceleratedBackend {
	return NewAcceleratedBackend(config.AcceleratorConfig{
		BaseURL:        url,
		RequestTimeout: 2 * time.Second,
		HealthTimeout:  time.Second,
	})
}

func TestAcceleratedHandshake(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/healthz":
			w.WriteHeader(http.StatusOK)
		case "/version":
			json.NewEncoder(w).Encode(map[string]string{"version": "3.4.1"}) //nolint:errcheck
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	backend := newSidecarBackend(server.URL)
	version, err := backend.Handshake(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "3.4.1", version)
	assert.Equal(t, "3.4.1", backend.Version())
}

func TestAcceleratedHandshakeUnhealthy(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	backend := newSidecarBackend(server.URL)
	_, err := backend.Handshake(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "health check")
	assert.Empty(t, backend.Version())
}

func TestAcceleratedCompute(t *testing.T) {
	var gotPath string
	var gotBody recordsRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]float64{"value": 7.25}) //nolint:errcheck
	}))
	defer server.Close()

	backend := newSidecarBackend(server.URL)
	records := []models.GradeRecord{grade(7, 1, "math", 1000)}

	avg, err := backend.Average(context.Background(), records)
	require.NoError(t, err)
	assert.InDelta(t, 7.25, avg, 1e-9)
	assert.Equal(t, "/v1/compute/average", gotPath)
	require.Len(t, gotBody.Records, 1)
	assert.InDelta(t, 7.0, gotBody.Records[0].Value, 1e-9)
}

func TestAcceleratedComputeNilRecordsEncodeAsEmptyArray(t *testing.T) {
	var raw map[string]json.RawMessage
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&raw))
		json.NewEncoder(w).Encode(map[string]float64{"value": 0}) //nolint:errcheck
	}))
	defer server.Close()

	backend := newSidecarBackend(server.URL)
	_, err := backend.Average(context.Background(), nil)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(raw["records"]))
}

func TestAcceleratedComputeErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unsupported operation", http.StatusBadRequest)
	}))
	defer server.Close()

	backend := newSidecarBackend(server.URL)
	_, err := backend.Statistics(context.Background(), []float64{1, 2})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 400")
	assert.Contains(t, err.Error(), "unsupported operation")
}

func TestAcceleratedComputeUnreachable(t *testing.T) {
	backend := newSidecarBackend("http://127.0.0.1:1")
	_, err := backend.Average(context.Background(), nil)
	assert.Error(t, err)
}
