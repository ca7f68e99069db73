package tracetree

import (
	"sync"
	"time"

	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// AssemblerConfig bounds the assembler's in-memory buffering. Unlike the
// teacher's sessions.Store, nothing here ever touches disk: an incomplete
// trace is simply discarded once it ages out, per the persistent-storage
// Non-goal.
type AssemblerConfig struct {
	// MaxBufferedTraces is the maximum number of distinct trace IDs held
	// concurrently. Oldest-by-first-seen traces are evicted to make room.
	MaxBufferedTraces int
	// TTL is how long an incomplete trace is buffered before being
	// dropped.
	TTL time.Duration
}

// DefaultAssemblerConfig mirrors the teacher's session-store defaults in
// spirit (bounded count, bounded age) without any of its disk footprint.
func DefaultAssemblerConfig() AssemblerConfig {
	return AssemblerConfig{
		MaxBufferedTraces: 4096,
		TTL:               30 * time.Second,
	}
}

type bufferedTrace struct {
	spans     map[string]*tracepb.Span // spanID -> span
	firstSeen time.Time
}

// Assembler buffers OTLP spans by trace ID until each trace's parent
// references all resolve, then emits a post-order admission sequence
// (children before parents) suitable for feeding treematch.Decentralized.
// Safe for concurrent Ingest calls from multiple receiver goroutines,
// following the mutex-guarded pattern of the teacher's sessions.Store.
type Assembler struct {
	cfg AssemblerConfig

	mu     sync.Mutex
	traces map[string]*bufferedTrace
	order  []string // trace IDs in first-seen order, for eviction
}

// NewAssembler creates an Assembler with the given bounds.
func NewAssembler(cfg AssemblerConfig) *Assembler {
	return &Assembler{
		cfg:    cfg,
		traces: make(map[string]*bufferedTrace),
	}
}

// Ingest records one span under its trace ID. When the trace's span graph
// has no pending parent references (every non-root span's parent has been
// seen), it returns the complete, ordered span list ready for
// BuildHostTree/admission; otherwise it returns nil, false.
func (a *Assembler) Ingest(traceID string, span *tracepb.Span) ([]*tracepb.Span, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	now := time.Now()
	a.evictExpiredLocked(now)

	bt, ok := a.traces[traceID]
	if !ok {
		if len(a.traces) >= a.cfg.MaxBufferedTraces {
			a.evictOldestLocked()
		}
		bt = &bufferedTrace{spans: make(map[string]*tracepb.Span), firstSeen: now}
		a.traces[traceID] = bt
		a.order = append(a.order, traceID)
	}
	bt.spans[string(span.SpanId)] = span

	ordered, complete := topologicalOrder(bt.spans)
	if !complete {
		return nil, false
	}

	delete(a.traces, traceID)
	a.removeFromOrderLocked(traceID)
	return ordered, true
}

func (a *Assembler) evictExpiredLocked(now time.Time) {
	if a.cfg.TTL <= 0 {
		return
	}
	var kept []string
	for _, id := range a.order {
		if bt, ok := a.traces[id]; ok {
			if now.Sub(bt.firstSeen) > a.cfg.TTL {
				delete(a.traces, id)
				continue
			}
		}
		kept = append(kept, id)
	}
	a.order = kept
}

func (a *Assembler) evictOldestLocked() {
	if len(a.order) == 0 {
		return
	}
	oldest := a.order[0]
	a.order = a.order[1:]
	delete(a.traces, oldest)
}

func (a *Assembler) removeFromOrderLocked(traceID string) {
	for i, id := range a.order {
		if id == traceID {
			a.order = append(a.order[:i], a.order[i+1:]...)
			return
		}
	}
}

// topologicalOrder returns the buffered spans of one trace in post-order
// (children fully before their parent) if every non-root span's parent is
// present in the set and the set has exactly one root. Otherwise it
// reports incompleteness so the caller keeps buffering.
func topologicalOrder(spans map[string]*tracepb.Span) ([]*tracepb.Span, bool) {
	children := make(map[string][]string)
	var root string
	rootCount := 0
	for id, s := range spans {
		parentID := string(s.ParentSpanId)
		if parentID == "" {
			rootCount++
			root = id
			continue
		}
		if _, ok := spans[parentID]; !ok {
			return nil, false // parent not yet ingested
		}
		children[parentID] = append(children[parentID], id)
	}
	if rootCount != 1 {
		return nil, false
	}

	var order []*tracepb.Span
	var walk func(string)
	walk = func(id string) {
		for _, c := range children[id] {
			walk(c)
		}
		order = append(order, spans[id])
	}
	walk(root)
	return order, true
}
