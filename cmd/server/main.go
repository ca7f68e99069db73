// Package main is the entry point for tracematch.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fidde/tracematch/internal/api"
	"github.com/fidde/tracematch/internal/config"
	"github.com/fidde/tracematch/internal/engine"
	"github.com/fidde/tracematch/internal/querypattern"
	"github.com/fidde/tracematch/internal/receiver"
	"github.com/fidde/tracematch/internal/tracetree"
)

func main() {
	log.Println("Starting tracematch...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	pattern, err := querypattern.LoadTree(cfg.PatternPath)
	if err != nil {
		log.Fatalf("Failed to load pattern tree %s: %v", cfg.PatternPath, err)
	}
	log.Printf("Loaded pattern tree from %s", cfg.PatternPath)

	assemblerCfg := tracetree.AssemblerConfig{
		MaxBufferedTraces: cfg.AssemblerMaxTraces,
		TTL:               cfg.AssemblerTTL,
	}
	eng := engine.New(pattern, assemblerCfg, onMatch)

	// Create OTLP receivers
	httpReceiver := receiver.NewHTTPReceiver(cfg.OTLPHTTPAddr, eng)
	grpcReceiver := receiver.NewGRPCReceiver(cfg.OTLPGRPCAddr, eng)

	// Create REST API server
	apiServer := api.NewServer(cfg.APIAddr, eng.Counters())

	// Start pprof server for profiling (separate port)
	pprofAddr := getEnv("PPROF_ADDR", "localhost:6060")
	go func() {
		log.Printf("Starting pprof server on http://%s/debug/pprof", pprofAddr)
		if err := http.ListenAndServe(pprofAddr, nil); err != nil {
			log.Printf("pprof server error: %v", err)
		}
	}()

	// Start servers in goroutines
	errChan := make(chan error, 3)

	go func() {
		log.Printf("Starting OTLP HTTP receiver on %s", cfg.OTLPHTTPAddr)
		if err := httpReceiver.Start(); err != nil {
			errChan <- fmt.Errorf("OTLP HTTP receiver error: %w", err)
		}
	}()

	go func() {
		log.Printf("Starting OTLP gRPC receiver on %s", cfg.OTLPGRPCAddr)
		if err := grpcReceiver.Start(); err != nil {
			errChan <- fmt.Errorf("OTLP gRPC receiver error: %w", err)
		}
	}()

	go func() {
		log.Printf("Starting REST API server on %s", cfg.APIAddr)
		if err := apiServer.Start(); err != nil {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()

	// Give servers time to start
	time.Sleep(100 * time.Millisecond)
	log.Println("All servers started successfully")
	log.Println("OTLP endpoints:")
	log.Printf("  - HTTP: http://%s/v1/traces", cfg.OTLPHTTPAddr)
	log.Printf("  - gRPC: %s", cfg.OTLPGRPCAddr)
	log.Println("API endpoints:")
	log.Printf("  - Match: http://%s/v1/match", cfg.APIAddr)
	log.Printf("  - Health: http://%s/health", cfg.APIAddr)
	log.Println("Profiling:")
	log.Printf("  - pprof: http://%s/debug/pprof", pprofAddr)

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		log.Fatalf("Server error: %v", err)
	case sig := <-sigChan:
		log.Printf("Received signal: %v, shutting down...", sig)
	}

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	log.Println("Shutting down servers...")
	if err := httpReceiver.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down OTLP HTTP receiver: %v", err)
	}
	if err := grpcReceiver.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down OTLP gRPC receiver: %v", err)
	}
	if err := apiServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Error shutting down API server: %v", err)
	}

	log.Println("Shutdown complete")
}

// onMatch logs each completed trace that matched the configured pattern
// tree; traces that did not match are not logged.
func onMatch(result engine.MatchResult) {
	if result.Matched {
		log.Printf("trace %s matched pattern (%d nodes mapped)", result.TraceID, len(result.Mapping))
	}
}

// getEnv gets an environment variable with a default fallback.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
