// Package metrics tracks approximate ingestion-volume counters using a
// HyperLogLog sketch, the same estimator the cardinality checker used for
// attribute-value cardinality -- repurposed here to count distinct
// host-node labels and pattern-attribute keys seen across ingestion,
// independent of (and much cheaper than) the exact matching algorithm.
package metrics

import "sync"

// Snapshot is a read-only view of the current approximate counts.
type Snapshot struct {
	DistinctSpanLabels uint64
	DistinctAttrKeys   uint64
	SpansObserved      uint64
}

// IngestCounters accumulates approximate distinct counts across ingested
// traces. Safe for concurrent use by multiple receiver goroutines.
type IngestCounters struct {
	mu            sync.Mutex
	spanLabels    *distinctCounter
	attrKeys      *distinctCounter
	spansObserved uint64
}

// NewIngestCounters creates a counter set.
func NewIngestCounters() *IngestCounters {
	return &IngestCounters{
		spanLabels: newDistinctCounter(),
		attrKeys:   newDistinctCounter(),
	}
}

// ObserveSpan records one ingested span's label and attribute keys.
func (c *IngestCounters) ObserveSpan(label string, attrKeys []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.spanLabels.add(label)
	for _, k := range attrKeys {
		c.attrKeys.add(k)
	}
	c.spansObserved++
}

// Snapshot returns the current approximate counts.
func (c *IngestCounters) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return Snapshot{
		DistinctSpanLabels: c.spanLabels.count(),
		DistinctAttrKeys:   c.attrKeys.count(),
		SpansObserved:      c.spansObserved,
	}
}
