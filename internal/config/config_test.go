package config

import (
	"os"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// Clear relevant envs
	os.Unsetenv("PORT")
	os.Unsetenv("LOG_LEVEL")
	os.Unsetenv("MIN_CONFIDENCE")
	os.Unsetenv("USE_ML_ENHANCEMENT")
	os.Unsetenv("BLOCKED_INTERRUPTION_PHRASES")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	if c.Server.Port != "8080" {
		t.Fatalf("expected default port 8080, got %q", c.Server.Port)
	}
	if c.Filter.MinimumConfidence != 0.5 {
		t.Fatalf("expected default min confidence 0.5, got %v", c.Filter.MinimumConfidence)
	}
	if !c.Filter.UseMLEnhancement {
		t.Fatal("ML enhancement should default on")
	}
	if c.Filter.DebugMode {
		t.Fatal("debug mode should default off")
	}
	if c.Store.MaxEventsPerSession != 200 {
		t.Fatalf("expected default event cap 200, got %d", c.Store.MaxEventsPerSession)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	os.Setenv("MIN_CONFIDENCE", "0.7")
	os.Setenv("BLOCKED_INTERRUPTION_PHRASES", "haan,acha")
	defer os.Unsetenv("MIN_CONFIDENCE")
	defer os.Unsetenv("BLOCKED_INTERRUPTION_PHRASES")

	c, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Filter.MinimumConfidence != 0.7 {
		t.Fatalf("expected min confidence 0.7, got %v", c.Filter.MinimumConfidence)
	}
	if c.Filter.BlockedPhrases != "haan,acha" {
		t.Fatalf("expected phrase list passthrough, got %q", c.Filter.BlockedPhrases)
	}
}

func TestLoadRejectsBadThreshold(t *testing.T) {
	os.Setenv("MIN_CONFIDENCE", "1.5")
	defer os.Unsetenv("MIN_CONFIDENCE")

	if _, err := Load(); err == nil {
		t.Fatal("out-of-range MIN_CONFIDENCE should fail to load")
	}
}
