// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kcar/core/internal/models"
	"github.com/kcar/core/internal/steiner"
)

func postSteiner(server *Server, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/steiner", strings.NewReader(body))
	w := httptest.NewRecorder()
	server.SteinerHandler(w, req)
	return w
}

func TestSteinerHandler(t *testing.T) {
	server := NewServer(loadGraph(t), Config{QueryTimeout: time.Second})

	t.Run("returns tree covering keywords", func(t *testing.T) {
		w := postSteiner(server, `{"keywords": ["payments", "social"]}`)

		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

		var tree models.SteinerTree
		require.NoError(t, json.NewDecoder(w.Body).Decode(&tree))

		assert.ElementsMatch(t, []string{"A", "B", "C"}, tree.Nodes)
		assert.Contains(t, tree.Nodes, tree.Root)
		assert.InDelta(t, 2*math.Exp(-1), tree.Weight, 1e-12)
		assert.Equal(t, []string{"payments", "social"}, tree.CoveredKeywords)
		assert.Subset(t, tree.InherentLabels, []string{"payments", "social", "photos", "mapping"})
	})

	t.Run("single keyword yields one node", func(t *testing.T) {
		w := postSteiner(server, `{"keywords": ["photos"]}`)

		require.Equal(t, http.StatusOK, w.Code)

		var tree models.SteinerTree
		require.NoError(t, json.NewDecoder(w.Body).Decode(&tree))

		assert.Equal(t, "C", tree.Root)
		assert.Equal(t, []string{"C"}, tree.Nodes)
		assert.Zero(t, tree.Weight)
	})

	t.Run("inline dataset overrides loaded graph", func(t *testing.T) {
		body := `{
			"keywords": ["x", "y"],
			"dataset": {
				"apis": [
					{"name": "P", "primary_category": "x"},
					{"name": "Q", "primary_category": "y"}
				],
				"mashups": [{"apis": ["P", "Q"]}, {"apis": ["P", "Q"]}]
			}
		}`
		w := postSteiner(NewServer(nil, Config{}), body)

		require.Equal(t, http.StatusOK, w.Code)

		var tree models.SteinerTree
		require.NoError(t, json.NewDecoder(w.Body).Decode(&tree))

		assert.Equal(t, "P", tree.Root)
		assert.ElementsMatch(t, []string{"P", "Q"}, tree.Nodes)
		assert.InDelta(t, math.Exp(-2), tree.Weight, 1e-12)
	})

	t.Run("unknown keyword is unprocessable", func(t *testing.T) {
		w := postSteiner(server, `{"keywords": ["payments", "weather"]}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "weather")
	})

	t.Run("blank keywords are a bad request", func(t *testing.T) {
		w := postSteiner(server, `{"keywords": ["  ", ""]}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("missing keywords field is a bad request", func(t *testing.T) {
		w := postSteiner(server, `{}`)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Contains(t, w.Body.String(), "Invalid query")
	})

	t.Run("malformed JSON is a bad request", func(t *testing.T) {
		w := postSteiner(server, `{"keywords": `)

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("too many keywords is unprocessable", func(t *testing.T) {
		limited := NewServer(loadGraph(t), Config{
			SolverOptions: []steiner.Option{steiner.WithMaxKeywords(1)},
		})

		w := postSteiner(limited, `{"keywords": ["payments", "social"]}`)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	})

	t.Run("inline dataset over default cell budget is unprocessable", func(t *testing.T) {
		keywords := make([]string, 20)
		for i := range keywords {
			keywords[i] = fmt.Sprintf("%q", fmt.Sprintf("k%d", i))
		}
		body := `{"keywords": [` + strings.Join(keywords, ",") + `], "dataset": ` + datasetJSON + `}`

		w := postSteiner(NewServer(nil, Config{}), body)

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		assert.Contains(t, w.Body.String(), "ceiling")
	})

	t.Run("inline budget leaves loaded graph budget alone", func(t *testing.T) {
		limited := NewServer(loadGraph(t), Config{InlineMaxCells: 2})

		w := postSteiner(limited, `{"keywords": ["payments", "social"], "dataset": `+datasetJSON+`}`)
		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)

		w = postSteiner(limited, `{"keywords": ["payments", "social"]}`)
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("no graph is unavailable", func(t *testing.T) {
		w := postSteiner(NewServer(nil, Config{}), `{"keywords": ["payments"]}`)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})

	t.Run("expired deadline times out", func(t *testing.T) {
		ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
		defer cancel()

		req := httptest.NewRequest(http.MethodPost, "/steiner", strings.NewReader(`{"keywords": ["payments"]}`))
		req = req.WithContext(ctx)
		w := httptest.NewRecorder()

		server.SteinerHandler(w, req)

		assert.Equal(t, http.StatusGatewayTimeout, w.Code)
	})

	t.Run("returns 405 for GET request", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/steiner", nil)
		w := httptest.NewRecorder()

		server.SteinerHandler(w, req)

		assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
	})

	t.Run("handles concurrent queries", func(t *testing.T) {
		numRequests := 10
		results := make(chan int, numRequests)

		for i := 0; i < numRequests; i++ {
			go func() {
				results <- postSteiner(server, `{"keywords": ["mapping", "photos"]}`).Code
			}()
		}

		for i := 0; i < numRequests; i++ {
			assert.Equal(t, http.StatusOK, <-results)
		}
	})
}

func TestSolveStatus(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{steiner.ErrNoKeywords, http.StatusBadRequest},
		{fmt.Errorf("%w: %q", steiner.ErrUnsatisfiableKeyword, "x"), http.StatusUnprocessableEntity},
		{steiner.ErrSubsetCeilingExceeded, http.StatusUnprocessableEntity},
		{context.DeadlineExceeded, http.StatusGatewayTimeout},
		{context.Canceled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, solveStatus(tt.err))
		})
	}
}
