// Package handlers provides HTTP request handlers for the API endpoints.
// It defines the routing logic, response formatting, and error handling mechanisms.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/kcar/core/internal/relgraph"
	"github.com/kcar/core/internal/steiner"
)

// DefaultInlineMaxCells bounds the DP table of a query that brings its own
// dataset, 16 MiB of cells.
const DefaultInlineMaxCells = 1 << 20

type Config struct {
	// Dataset names the loaded graph in health output.
	Dataset string

	// QueryTimeout bounds one Steiner query. Zero means no bound.
	QueryTimeout time.Duration

	SolverOptions []steiner.Option

	// InlineMaxCells replaces the cell budget for queries carrying a
	// dataset. Zero means DefaultInlineMaxCells.
	InlineMaxCells int
}

// Server answers queries against one frozen graph shared by all requests.
type Server struct {
	graph *relgraph.Graph
	cfg   Config
}

// NewServer wraps g, which must be frozen. g may be nil, in which case only
// requests carrying their own dataset can be answered.
func NewServer(g *relgraph.Graph, cfg Config) *Server {
	return &Server{graph: g, cfg: cfg}
}

func (s *Server) solverOptions(inline bool) []steiner.Option {
	if !inline {
		return s.cfg.SolverOptions
	}
	budget := s.cfg.InlineMaxCells
	if budget <= 0 {
		budget = DefaultInlineMaxCells
	}
	opts := make([]steiner.Option, 0, len(s.cfg.SolverOptions)+1)
	opts = append(opts, s.cfg.SolverOptions...)
	return append(opts, steiner.WithMaxCells(budget))
}

func (s *Server) Routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", s.HealthHandler)
	mux.HandleFunc("/graph", GraphHandler)
	mux.HandleFunc("/categories", s.CategoriesHandler)
	mux.HandleFunc("/steiner", s.SteinerHandler)
	return mux
}

func writeJSON(w http.ResponseWriter, r *http.Request, v any) {
	w.Header().Set("Content-Type", "application/json")

	encoder := json.NewEncoder(w)
	if r.URL.Query().Get("pretty") == "true" {
		encoder.SetIndent("", "  ")
	}

	if err := encoder.Encode(v); err != nil {
		log.WithError(err).WithField("path", r.URL.Path).Error("Encoding response")
	}
}
