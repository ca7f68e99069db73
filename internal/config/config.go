// Package config loads tracematch's service configuration from the
// environment, following the cardinality checker's getEnv-style helpers
// in cmd/server/main.go.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds every address, path, and tunable the server entry point
// needs to wire receivers, the REST API, and the trace assembler.
type Config struct {
	// OTLPHTTPAddr is the listen address for the OTLP HTTP trace receiver.
	OTLPHTTPAddr string
	// OTLPGRPCAddr is the listen address for the OTLP gRPC trace receiver.
	OTLPGRPCAddr string
	// APIAddr is the listen address for the REST match API.
	APIAddr string
	// PatternPath points to the YAML pattern-tree fixture (§4.10) matched
	// against every completed trace.
	PatternPath string
	// AssemblerMaxTraces bounds the trace assembler's in-memory buffer.
	AssemblerMaxTraces int
	// AssemblerTTL is how long an incomplete trace is buffered before
	// being dropped.
	AssemblerTTL time.Duration
	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout time.Duration
}

// Load builds a Config from the environment, falling back to defaults
// matching the teacher's addresses where the concern carries over.
func Load() (Config, error) {
	ttl, err := getEnvDuration("TRACEMATCH_ASSEMBLER_TTL", 30*time.Second)
	if err != nil {
		return Config{}, err
	}
	shutdown, err := getEnvDuration("TRACEMATCH_SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return Config{}, err
	}

	return Config{
		OTLPHTTPAddr:       getEnv("OTLP_HTTP_ADDR", "0.0.0.0:4318"),
		OTLPGRPCAddr:       getEnv("OTLP_GRPC_ADDR", "0.0.0.0:4317"),
		APIAddr:            getEnv("API_ADDR", "0.0.0.0:8080"),
		PatternPath:        getEnv("TRACEMATCH_PATTERN", "config/pattern.yaml"),
		AssemblerMaxTraces: getEnvInt("TRACEMATCH_ASSEMBLER_MAX_TRACES", 4096),
		AssemblerTTL:       ttl,
		ShutdownTimeout:    shutdown,
	}, nil
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt gets an integer environment variable with a default fallback.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

// getEnvDuration gets a duration environment variable with a default
// fallback, failing loudly on a malformed (non-empty) value rather than
// silently ignoring it.
func getEnvDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("config: invalid %s=%q: %w", key, value, err)
	}
	return d, nil
}
