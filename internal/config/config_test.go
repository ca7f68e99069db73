package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.OTLPHTTPAddr == "" || cfg.OTLPGRPCAddr == "" || cfg.APIAddr == "" {
		t.Fatalf("expected non-empty default addresses, got %+v", cfg)
	}
	if cfg.AssemblerMaxTraces <= 0 {
		t.Errorf("expected a positive default trace buffer bound, got %d", cfg.AssemblerMaxTraces)
	}
}

func TestLoadInvalidDurationFails(t *testing.T) {
	t.Setenv("TRACEMATCH_ASSEMBLER_TTL", "not-a-duration")
	if _, err := Load(); err == nil {
		t.Fatal("expected an error for a malformed duration env var")
	}
}

func TestLoadOverridesFromEnv(t *testing.T) {
	t.Setenv("API_ADDR", "127.0.0.1:9999")
	t.Setenv("TRACEMATCH_ASSEMBLER_MAX_TRACES", "10")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.APIAddr != "127.0.0.1:9999" {
		t.Errorf("expected API_ADDR override, got %s", cfg.APIAddr)
	}
	if cfg.AssemblerMaxTraces != 10 {
		t.Errorf("expected AssemblerMaxTraces override, got %d", cfg.AssemblerMaxTraces)
	}
}
