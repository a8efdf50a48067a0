// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"runtime"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcar/core/internal/parser"
)

func getHealth(t *testing.T, server *Server) HealthResponse {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	server.HealthHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var response HealthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&response))
	return response
}

func TestHealthHandler(t *testing.T) {
	t.Run("reports service and runtime", func(t *testing.T) {
		response := getHealth(t, NewServer(nil, Config{}))

		assert.Equal(t, "healthy", response.Status)
		assert.Equal(t, "kcar-api", response.Service)
		assert.NotEmpty(t, response.Uptime)
		assert.Equal(t, runtime.Version(), response.Details["go_version"])
		assert.Equal(t, strconv.Itoa(runtime.NumCPU()), response.Details["num_cpu"])

		_, err := time.Parse(time.RFC3339, response.Timestamp)
		assert.NoError(t, err)
	})

	t.Run("without graph", func(t *testing.T) {
		response := getHealth(t, NewServer(nil, Config{Dataset: "ignored"}))

		assert.Equal(t, "not loaded", response.Details["graph"])
		assert.NotContains(t, response.Details, "dataset")
		assert.NotContains(t, response.Details, "graph_nodes")
		assert.NotContains(t, response.Details, "graph_edges")
	})

	t.Run("with loaded graph", func(t *testing.T) {
		response := getHealth(t, NewServer(loadGraph(t), Config{Dataset: "sample"}))

		assert.Equal(t, "sample", response.Details["dataset"])
		assert.Equal(t, "3", response.Details["graph_nodes"])
		assert.Equal(t, "2", response.Details["graph_edges"])
		assert.NotContains(t, response.Details, "graph")
	})

	t.Run("with empty graph", func(t *testing.T) {
		ds, err := parser.ParseDataset([]byte(`{"apis": [{"name": "Solo", "primary_category": "tools"}]}`))
		require.NoError(t, err)
		g, err := parser.BuildGraph(ds)
		require.NoError(t, err)

		response := getHealth(t, NewServer(g, Config{Dataset: "solo"}))

		assert.Equal(t, "solo", response.Details["dataset"])
		assert.Equal(t, "1", response.Details["graph_nodes"])
		assert.Equal(t, "0", response.Details["graph_edges"])
	})

	t.Run("rejects non-GET methods", func(t *testing.T) {
		server := NewServer(nil, Config{})

		for _, method := range []string{
			http.MethodPost,
			http.MethodPut,
			http.MethodDelete,
			http.MethodPatch,
			http.MethodHead,
		} {
			req := httptest.NewRequest(method, "/health", nil)
			w := httptest.NewRecorder()

			server.HealthHandler(w, req)

			assert.Equal(t, http.StatusMethodNotAllowed, w.Code, method)
		}
	})

	t.Run("concurrent checks share one graph", func(t *testing.T) {
		server := NewServer(loadGraph(t), Config{Dataset: "sample"})
		numRequests := 10
		results := make(chan string, numRequests)

		for i := 0; i < numRequests; i++ {
			go func() {
				req := httptest.NewRequest(http.MethodGet, "/health", nil)
				w := httptest.NewRecorder()
				server.HealthHandler(w, req)

				var response HealthResponse
				if err := json.NewDecoder(w.Body).Decode(&response); err != nil {
					results <- err.Error()
					return
				}
				results <- response.Details["graph_nodes"]
			}()
		}

		for i := 0; i < numRequests; i++ {
			assert.Equal(t, "3", <-results)
		}
	})
}
