package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"time"
)

// HealthResponse reports liveness plus approximate ingestion stats,
// following the cardinality checker's health-check shape.
type HealthResponse struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Memory    MemoryStats      `json:"memory"`
	Ingestion IngestionSummary `json:"ingestion"`
}

// MemoryStats mirrors the cardinality checker's runtime.MemStats summary.
type MemoryStats struct {
	AllocMB      uint64 `json:"alloc_mb"`
	TotalAllocMB uint64 `json:"total_alloc_mb"`
	SysMB        uint64 `json:"sys_mb"`
	NumGC        uint32 `json:"num_gc"`
}

// IngestionSummary exposes the approximate counters of §4.12.
type IngestionSummary struct {
	SpansObserved      uint64 `json:"spans_observed"`
	DistinctSpanLabels uint64 `json:"distinct_span_labels_approx"`
	DistinctAttrKeys   uint64 `json:"distinct_attr_keys_approx"`
}

var startTime = time.Now()

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	snap := s.counters.Snapshot()

	writeJSON(w, http.StatusOK, HealthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Uptime:    time.Since(startTime).String(),
		Memory: MemoryStats{
			AllocMB:      m.Alloc / 1024 / 1024,
			TotalAllocMB: m.TotalAlloc / 1024 / 1024,
			SysMB:        m.Sys / 1024 / 1024,
			NumGC:        m.NumGC,
		},
		Ingestion: IngestionSummary{
			SpansObserved:      snap.SpansObserved,
			DistinctSpanLabels: snap.DistinctSpanLabels,
			DistinctAttrKeys:   snap.DistinctAttrKeys,
		},
	})
}
