// Package api provides the REST API around the matching engine: a single
// match endpoint, a memo-key diagnostics endpoint, and a health check. It
// follows the cardinality checker's chi-based server shape (middleware
// stack, Start/Shutdown lifecycle) without any of its storage layer: every
// request here is self-contained and nothing is persisted across requests.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fidde/tracematch/internal/metrics"
	"github.com/fidde/tracematch/internal/treematch"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server is the REST API server fronting the matching engine.
type Server struct {
	router   *chi.Mux
	server   *http.Server
	counters *metrics.IngestCounters
}

// NewServer builds a Server listening on addr. counters may be nil, in
// which case the server creates its own counter set, fed only by the host
// trees of /v1/match requests.
func NewServer(addr string, counters *metrics.IngestCounters) *Server {
	if counters == nil {
		counters = metrics.NewIngestCounters()
	}

	s := &Server{
		router:   chi.NewRouter(),
		counters: counters,
	}

	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(30 * time.Second))

	s.router.Get("/health", s.handleHealth)
	s.router.Route("/v1", func(r chi.Router) {
		r.Post("/match", s.handleMatch)
		r.Get("/match/memokey", s.handleMemoKeyRoundTrip)
	})

	s.server = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}
	return s
}

// Start runs the API server until it errors or is shut down.
func (s *Server) Start() error {
	return s.server.ListenAndServe()
}

// Shutdown gracefully stops the API server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

// wireTree is the JSON wire form of a treematch.Tree: a flat node list
// indexed by position, each node naming its parent's index (-1 for the
// root) plus a flat attribute map.
type wireTree struct {
	Nodes []wireNode `json:"nodes"`
}

type wireNode struct {
	Label  string            `json:"label"`
	Parent int               `json:"parent"`
	Attrs  map[string]string `json:"attrs,omitempty"`
}

// toTree converts the wire form into a treematch.Tree. It fails if any
// node's parent index is out of range, which json.Decode happily accepts
// (it's a structurally valid body) but AddEdge cannot: an unchecked index
// here would panic and, behind chi's Recoverer, surface as an opaque 500.
func (w wireTree) toTree() (*treematch.Tree, error) {
	t := treematch.NewTree()
	indices := make([]int, len(w.Nodes))
	for i, n := range w.Nodes {
		attrs := make([]treematch.Attr, 0, len(n.Attrs))
		for k, v := range n.Attrs {
			attrs = append(attrs, treematch.Attr{Key: k, Value: v})
		}
		indices[i] = t.AddNode(treematch.NewNode(n.Label, attrs...))
	}
	for i, n := range w.Nodes {
		if n.Parent < 0 {
			continue
		}
		if n.Parent >= len(w.Nodes) {
			return nil, fmt.Errorf("node %d: parent index %d out of range (%d nodes)", i, n.Parent, len(w.Nodes))
		}
		t.AddEdge(indices[n.Parent], indices[i])
	}
	return t, nil
}

type matchRequest struct {
	Host    wireTree `json:"host"`
	Pattern wireTree `json:"pattern"`
}

type matchResponse struct {
	Matched bool    `json:"matched"`
	Mapping [][]int `json:"mapping,omitempty"`
	Error   string  `json:"error,omitempty"`
}

// handleMatch runs a fresh centralised-driver invocation over the host and
// pattern trees carried in the request body. Nothing is cached or stored
// across requests: one treematch invocation per call, as §5 requires.
func (s *Server) handleMatch(w http.ResponseWriter, r *http.Request) {
	var req matchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, matchResponse{Error: fmt.Sprintf("decoding request: %v", err)})
		return
	}

	host, err := req.Host.toTree()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, matchResponse{Error: fmt.Sprintf("host tree: %v", err)})
		return
	}
	pattern, err := req.Pattern.toTree()
	if err != nil {
		writeJSON(w, http.StatusBadRequest, matchResponse{Error: fmt.Sprintf("pattern tree: %v", err)})
		return
	}

	mapping, ok, err := treematch.Match(host, pattern)
	if err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, matchResponse{Error: err.Error()})
		return
	}

	resp := matchResponse{Matched: ok}
	for _, p := range mapping {
		resp.Mapping = append(resp.Mapping, []int{p.Pattern, p.Host})
	}

	if s.counters != nil {
		for _, n := range req.Host.Nodes {
			keys := make([]string, 0, len(n.Attrs))
			for k := range n.Attrs {
				keys = append(keys, k)
			}
			s.counters.ObserveSpan(n.Label, keys)
		}
	}

	writeJSON(w, http.StatusOK, resp)
}

// handleMemoKeyRoundTrip round-trips a memo key through the §6
// serialization format, for diagnostics only.
func (s *Server) handleMemoKeyRoundTrip(w http.ResponseWriter, r *http.Request) {
	vStr := r.URL.Query().Get("v")
	uStr := r.URL.Query().Get("u")
	if vStr == "" || uStr == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query params v and u are required"})
		return
	}

	raw := vStr + "," + uStr
	key, err := treematch.ParseMemoKey(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"input":  raw,
		"output": key.String(),
	})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
