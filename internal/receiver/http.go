package receiver

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/fidde/tracematch/internal/engine"
	coltracepb "go.opentelemetry.io/proto/otlp/collector/trace/v1"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/proto"
)

var verboseLogging = strings.ToLower(os.Getenv("VERBOSE_LOGGING")) == "true"

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func decompressGzip(r io.Reader) (io.ReadCloser, error) {
	return gzip.NewReader(r)
}

// HTTPReceiver handles the OTLP HTTP trace export endpoint.
type HTTPReceiver struct {
	engine *engine.Engine
	server *http.Server
}

// NewHTTPReceiver creates an HTTP receiver feeding eng.
func NewHTTPReceiver(addr string, eng *engine.Engine) *HTTPReceiver {
	r := &HTTPReceiver{engine: eng}

	mux := http.NewServeMux()
	mux.HandleFunc("/v1/traces", r.handleTraces)
	mux.HandleFunc("/health", r.handleHealth)

	r.server = &http.Server{
		Addr:    addr,
		Handler: mux,
	}
	return r
}

// Start starts the HTTP server.
func (r *HTTPReceiver) Start() error {
	return r.server.ListenAndServe()
}

// Shutdown gracefully shuts down the HTTP server.
func (r *HTTPReceiver) Shutdown(ctx context.Context) error {
	return r.server.Shutdown(ctx)
}

// handleTraces handles OTLP traces export requests (protobuf, with a JSON
// fallback for curl-friendly debugging).
func (r *HTTPReceiver) handleTraces(w http.ResponseWriter, req *http.Request) {
	if req.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	reader := req.Body
	if req.Header.Get("Content-Encoding") == "gzip" {
		var err error
		reader, err = decompressGzip(req.Body)
		if err != nil {
			http.Error(w, fmt.Sprintf("Failed to decompress: %v", err), http.StatusBadRequest)
			return
		}
		defer reader.Close()
	}

	body, err := io.ReadAll(reader)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to read body: %v", err), http.StatusBadRequest)
		return
	}
	defer req.Body.Close()

	var exportReq coltracepb.ExportTraceServiceRequest
	if err := proto.Unmarshal(body, &exportReq); err != nil {
		unmarshaler := protojson.UnmarshalOptions{DiscardUnknown: true}
		if jsonErr := unmarshaler.Unmarshal(body, &exportReq); jsonErr != nil {
			log.Printf("Failed to parse traces request: protobuf error: %v, json error: %v", err, jsonErr)
			if verboseLogging {
				fmt.Printf("Body preview: %s\n", string(body[:min(len(body), 100)]))
			}
			http.Error(w, fmt.Sprintf("Failed to parse request: protobuf error: %v, json error: %v", err, jsonErr), http.StatusBadRequest)
			return
		}
		if verboseLogging {
			fmt.Println("Parsed traces as JSON")
		}
	} else if verboseLogging {
		fmt.Println("Parsed traces as protobuf")
	}

	for _, resourceSpans := range exportReq.ResourceSpans {
		for _, scopeSpans := range resourceSpans.ScopeSpans {
			for _, span := range scopeSpans.Spans {
				r.engine.IngestSpan(traceIDHex(span.TraceId), span)
			}
		}
	}

	resp := &coltracepb.ExportTraceServiceResponse{}
	r.writeResponse(w, resp)
}

func (r *HTTPReceiver) handleHealth(w http.ResponseWriter, req *http.Request) {
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// writeResponse writes a protobuf response; OTLP always uses protobuf for
// responses regardless of how the request was encoded.
func (r *HTTPReceiver) writeResponse(w http.ResponseWriter, resp proto.Message) {
	respBytes, err := proto.Marshal(resp)
	if err != nil {
		http.Error(w, fmt.Sprintf("Failed to marshal response: %v", err), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/x-protobuf")
	w.WriteHeader(http.StatusOK)
	io.Copy(w, bytes.NewReader(respBytes))
}
