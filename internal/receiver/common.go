package receiver

import "encoding/hex"

// traceIDHex renders an OTLP trace ID's raw bytes as the hex string used
// to key the assembler's per-trace buffers. OTLP trace/span IDs are
// opaque byte strings; hex is merely a stable map key, not a re-encoding
// of any meaningful numeric value.
func traceIDHex(b []byte) string {
	return hex.EncodeToString(b)
}
