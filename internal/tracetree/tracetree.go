// Package tracetree builds treematch.Tree host trees out of OTLP trace
// spans, grouping the span.attributes of each span into the Node's Attrs
// the same way the cardinality checker's analyzer package flattens OTLP
// KeyValue attributes into a plain string map.
package tracetree

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fidde/tracematch/internal/treematch"
	commonpb "go.opentelemetry.io/proto/otlp/common/v1"
	tracepb "go.opentelemetry.io/proto/otlp/trace/v1"
)

// ErrNoRootSpan is returned when a trace has no span, or more than one
// span, with an empty (or absent) parent span ID, so no single host-tree
// root can be chosen.
var ErrNoRootSpan = errors.New("tracetree: trace has no root span")

// ErrOrphanSpan is returned when a span's declared parent span ID does not
// match any span already collected for the same trace.
var ErrOrphanSpan = errors.New("tracetree: span references an unknown parent")

// span is the minimal shape BuildHostTree needs out of an OTLP span: its
// own ID, its parent's ID (empty for the root), the node label, and its
// flattened attributes.
type span struct {
	id       string
	parentID string
	node     treematch.Node
}

// BuildHostTree assembles every span belonging to a single trace into a
// treematch.Tree. Span names become node labels and span attributes become
// node Attrs, mirroring the flattening analyzer.extractAttributes performs
// for cardinality metadata. Spans are wired parent span ID -> child span
// ID; the single span with no parent becomes the tree root.
func BuildHostTree(spans []*tracepb.Span) (*treematch.Tree, error) {
	if len(spans) == 0 {
		return nil, errors.New("tracetree: no spans to build a tree from")
	}

	collected := make([]span, 0, len(spans))
	byID := make(map[string]int, len(spans))

	for _, s := range spans {
		id := string(s.SpanId)
		parentID := string(s.ParentSpanId)
		collected = append(collected, span{
			id:       id,
			parentID: parentID,
			node:     treematch.NewNode(s.Name, attrsFromKeyValues(s.Attributes)...),
		})
	}

	// Stable ordering keeps BuildHostTree deterministic across calls on
	// the same span set (OTLP batches don't guarantee span order).
	sort.Slice(collected, func(i, j int) bool { return collected[i].id < collected[j].id })
	for i, s := range collected {
		byID[s.id] = i
	}

	t := treematch.NewTree()
	indices := make([]int, len(collected))
	for i, s := range collected {
		indices[i] = t.AddNode(s.node)
	}

	rootCount := 0
	for i, s := range collected {
		if s.parentID == "" {
			rootCount++
			continue
		}
		parentPos, ok := byID[s.parentID]
		if !ok {
			return nil, fmt.Errorf("%w: span %q parent %q", ErrOrphanSpan, s.id, s.parentID)
		}
		t.AddEdge(indices[parentPos], indices[i])
	}

	if rootCount != 1 {
		return nil, fmt.Errorf("%w: found %d candidate roots", ErrNoRootSpan, rootCount)
	}

	return t, nil
}

// attrsFromKeyValues flattens OTLP attributes into treematch.Attr pairs,
// in the order presented (Node.Attrs iteration is order-preserving).
func attrsFromKeyValues(kvs []*commonpb.KeyValue) []treematch.Attr {
	out := make([]treematch.Attr, 0, len(kvs))
	for _, kv := range kvs {
		out = append(out, treematch.Attr{Key: kv.Key, Value: attributeValueToString(kv.Value)})
	}
	return out
}

func attributeValueToString(value *commonpb.AnyValue) string {
	if value == nil {
		return ""
	}
	switch v := value.Value.(type) {
	case *commonpb.AnyValue_StringValue:
		return v.StringValue
	case *commonpb.AnyValue_IntValue:
		return fmt.Sprintf("%d", v.IntValue)
	case *commonpb.AnyValue_DoubleValue:
		return fmt.Sprintf("%g", v.DoubleValue)
	case *commonpb.AnyValue_BoolValue:
		return fmt.Sprintf("%t", v.BoolValue)
	default:
		return fmt.Sprintf("%v", value)
	}
}
