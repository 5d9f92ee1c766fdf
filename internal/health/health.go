package health

import (
	"fmt"
	"time"

	"yuzu/interrupt/internal/config"
	"yuzu/interrupt/internal/interrupt"
)

type CheckResult struct {
	Name    string        `json:"name"`
	OK      bool          `json:"ok"`
	Latency time.Duration `json:"latency_ms"`
	Error   string        `json:"error,omitempty"`
}

type HealthStatus struct {
	OK        bool          `json:"ok"`
	Checks    []CheckResult `json:"checks"`
	CheckedAt time.Time     `json:"checked_at"`
}

func (h HealthStatus) String() string {
	status := "OK"
	if !h.OK {
		status = "FAIL"
	}
	s := fmt.Sprintf("Health: %s\n", status)
	for _, c := range h.Checks {
		mark := "✓"
		if !c.OK {
			mark = "✗"
		}
		s += fmt.Sprintf("  %s %s (%dms)", mark, c.Name, c.Latency.Milliseconds())
		if c.Error != "" {
			s += fmt.Sprintf(" - %s", c.Error)
		}
		s += "\n"
	}
	return s
}

// CheckAll runs all health checks and returns combined status
func CheckAll(cfg config.Config) HealthStatus {
	checks := []CheckResult{
		checkFilterConfig(cfg),
		checkFilterSelfTest(cfg),
	}

	allOK := true
	for _, c := range checks {
		if !c.OK {
			allOK = false
		}
	}

	return HealthStatus{
		OK:        allOK,
		Checks:    checks,
		CheckedAt: time.Now().UTC(),
	}
}

// checkFilterConfig verifies a handler can be constructed from the loaded
// configuration.
func checkFilterConfig(cfg config.Config) CheckResult {
	start := time.Now()
	result := CheckResult{Name: "filter_config"}

	_, err := interrupt.NewHandler(interrupt.Options{
		MinimumConfidence: cfg.Filter.MinimumConfidence,
		UseMLEnhancement:  cfg.Filter.UseMLEnhancement,
		BlockedPhrases:    interrupt.ParsePhraseList(cfg.Filter.BlockedPhrases),
	})
	result.Latency = time.Since(start)
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.OK = true
	return result
}

// checkFilterSelfTest probes a throwaway handler with known inputs: a stock
// filler must suppress and genuine speech must pass, or the deployment's
// vocabulary/threshold combination is broken.
func checkFilterSelfTest(cfg config.Config) CheckResult {
	start := time.Now()
	result := CheckResult{Name: "filter_self_test"}

	probe, err := interrupt.NewHandler(interrupt.DefaultOptions())
	if err != nil {
		result.Error = fmt.Sprintf("probe build failed: %v", err)
		result.Latency = time.Since(start)
		return result
	}

	if !probe.ShouldIgnoreUtterance("umm", 0.9) {
		result.Error = `stock filler "umm" was not suppressed`
		result.Latency = time.Since(start)
		return result
	}
	if probe.ShouldIgnoreUtterance("please repeat the last amount", 0.9) {
		result.Error = "genuine speech was suppressed"
		result.Latency = time.Since(start)
		return result
	}

	result.Latency = time.Since(start)
	result.OK = true
	return result
}
