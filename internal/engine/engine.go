// Package engine wires OTLP span ingestion to the decentralised matching
// driver: it is the glue the receivers (§4.8) hand spans to, and the
// trace assembler (§4.9) and treematch.Decentralized (§4.7) are the two
// pieces it coordinates.
package engine

import (
	"log"

	"github.com/fidde/tracematch/internal/metrics"
	"github.com/fidde/tracematch/internal/tracetree"
	"github.com/fidde/tracematch/internal/treematch"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// MatchResult is delivered to OnMatch once a trace's span graph completes
// and is checked against the configured pattern.
type MatchResult struct {
	TraceID string
	Matched bool
	Mapping []treematch.Pair
}

// Engine ingests spans for many concurrently in-flight traces and reports
// a match result once each trace's graph is fully assembled. Every trace
// gets its own treematch.Decentralized instance: per §5, the decentralised
// driver's memo table is never reentrant across queries.
type Engine struct {
	pattern   *treematch.Tree
	assembler *tracetree.Assembler
	counters  *metrics.IngestCounters
	onMatch   func(MatchResult)
}

// New creates an Engine matching every completed trace against pattern,
// buffering spans per assemblerCfg (§4.9/§7's Config tunables) before
// admission. onMatch is invoked synchronously from IngestSpan once a trace
// completes; callers needing async fan-out should make it non-blocking
// themselves.
func New(pattern *treematch.Tree, assemblerCfg tracetree.AssemblerConfig, onMatch func(MatchResult)) *Engine {
	return &Engine{
		pattern:   pattern,
		assembler: tracetree.NewAssembler(assemblerCfg),
		counters:  metrics.NewIngestCounters(),
		onMatch:   onMatch,
	}
}

// Counters exposes the engine's approximate ingestion counters (§4.12).
func (e *Engine) Counters() *metrics.IngestCounters {
	return e.counters
}

// IngestSpan feeds one decoded OTLP span belonging to traceID into the
// assembler. Once the trace's span graph is complete it is streamed
// through treematch.Decentralized in post-order (children admitted before
// parents, mirroring the assembler's emission order) and the verdict is
// reported via onMatch.
func (e *Engine) IngestSpan(traceID string, span *tracepb.Span) {
	keys := make([]string, 0, len(span.Attributes))
	for _, kv := range span.Attributes {
		keys = append(keys, kv.Key)
	}
	e.counters.ObserveSpan(span.Name, keys)

	ordered, complete := e.assembler.Ingest(traceID, span)
	if !complete {
		return
	}

	host, err := tracetree.BuildHostTree(ordered)
	if err != nil {
		log.Printf("engine: trace %s failed host-tree assembly: %v", traceID, err)
		return
	}

	mapping, matched, err := e.admitSequence(host)
	if err != nil {
		log.Printf("engine: trace %s matching error: %v", traceID, err)
		return
	}

	if e.onMatch != nil {
		e.onMatch(MatchResult{TraceID: traceID, Matched: matched, Mapping: mapping})
	}
}

// admitSequence drives the decentralised matcher (§4.7) with the host
// tree's own post-order, demonstrating the streaming contract even though
// the whole tree is already in memory by the time a trace completes.
func (e *Engine) admitSequence(host *treematch.Tree) ([]treematch.Pair, bool, error) {
	d, err := treematch.NewDecentralized(e.pattern)
	if err != nil {
		return nil, false, err
	}

	root, err := host.Root()
	if err != nil {
		return nil, false, err
	}

	var mapping []treematch.Pair
	for _, v := range host.PostOrder(root) {
		if m := d.Admit(host, v, v == root); m != nil {
			mapping = m
		}
	}
	return mapping, mapping != nil, nil
}
