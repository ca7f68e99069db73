package treematch

// subset reports host ⊑ pattern: every (k, v) in pattern's attrs is
// present with the same v in host's attrs. The host may carry additional
// attributes. Linear in len(pattern.Attrs) with O(1) expected probes per
// key.
func subset(host, pattern *Node) bool {
	for _, pa := range pattern.Attrs {
		hv, ok := host.Get(pa.Key)
		if !ok || hv != pa.Value {
			return false
		}
	}
	return true
}
