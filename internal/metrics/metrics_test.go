package metrics

import "testing"

func TestIngestCountersApproximatesDistinctLabels(t *testing.T) {
	c := NewIngestCounters()

	labels := []string{"productpage", "reviews", "ratings", "details", "productpage", "reviews"}
	for _, l := range labels {
		c.ObserveSpan(l, []string{"http.method", "http.status_code"})
	}

	snap := c.Snapshot()
	if snap.SpansObserved != uint64(len(labels)) {
		t.Fatalf("expected %d spans observed, got %d", len(labels), snap.SpansObserved)
	}
	// HyperLogLog is approximate; 4 distinct labels should land close to 4.
	if snap.DistinctSpanLabels == 0 || snap.DistinctSpanLabels > 10 {
		t.Errorf("expected an approximate count near 4, got %d", snap.DistinctSpanLabels)
	}
	if snap.DistinctAttrKeys == 0 || snap.DistinctAttrKeys > 10 {
		t.Errorf("expected an approximate count near 2, got %d", snap.DistinctAttrKeys)
	}
}

func TestIngestCountersEmpty(t *testing.T) {
	c := NewIngestCounters()
	snap := c.Snapshot()
	if snap.SpansObserved != 0 || snap.DistinctSpanLabels != 0 || snap.DistinctAttrKeys != 0 {
		t.Errorf("expected all-zero snapshot, got %+v", snap)
	}
}
