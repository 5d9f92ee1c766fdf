package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

type Config struct {
	Server struct {
		Port     string
		LogLevel string
	}
	Filter struct {
		MinimumConfidence float64
		UseMLEnhancement  bool
		DebugMode         bool
		BlockedPhrases    string // comma-separated, empty = built-in vocabulary
	}
	WS struct {
		TokenSecret   string
		TokenSkewSecs int
	}
	Store struct {
		MaxEventsPerSession int
	}
}

func Load() (Config, error) {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")

	v.SetDefault("filter.minimum_confidence", 0.5)
	v.SetDefault("filter.use_ml_enhancement", true)
	v.SetDefault("filter.debug_mode", false)

	v.SetDefault("ws.token_skew_secs", 30)
	v.SetDefault("store.max_events_per_session", 200)

	// Map envs
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.log_level", "LOG_LEVEL")

	v.BindEnv("filter.minimum_confidence", "MIN_CONFIDENCE")
	v.BindEnv("filter.use_ml_enhancement", "USE_ML_ENHANCEMENT")
	v.BindEnv("filter.debug_mode", "FILTER_DEBUG")
	v.BindEnv("filter.blocked_phrases", "BLOCKED_INTERRUPTION_PHRASES")

	v.BindEnv("ws.token_secret", "WS_TOKEN_SECRET")
	v.BindEnv("ws.token_skew_secs", "WS_TOKEN_SKEW_SECS")

	v.BindEnv("store.max_events_per_session", "MAX_EVENTS_PER_SESSION")

	var c Config
	c.Server.Port = toString(v.Get("server.port"))
	c.Server.LogLevel = v.GetString("server.log_level")

	c.Filter.MinimumConfidence = v.GetFloat64("filter.minimum_confidence")
	c.Filter.UseMLEnhancement = v.GetBool("filter.use_ml_enhancement")
	c.Filter.DebugMode = v.GetBool("filter.debug_mode")
	c.Filter.BlockedPhrases = v.GetString("filter.blocked_phrases")

	c.WS.TokenSecret = v.GetString("ws.token_secret")
	c.WS.TokenSkewSecs = v.GetInt("ws.token_skew_secs")

	c.Store.MaxEventsPerSession = v.GetInt("store.max_events_per_session")

	// A bad gate threshold is a deployment error, rejected up front.
	if c.Filter.MinimumConfidence < 0 || c.Filter.MinimumConfidence > 1 {
		return Config{}, fmt.Errorf("MIN_CONFIDENCE out of range [0,1]: %v", c.Filter.MinimumConfidence)
	}
	if c.Store.MaxEventsPerSession < 1 {
		return Config{}, fmt.Errorf("MAX_EVENTS_PER_SESSION must be positive: %d", c.Store.MaxEventsPerSession)
	}

	log.Printf("config loaded: port=%s min_confidence=%.2f ml=%v", c.Server.Port, c.Filter.MinimumConfidence, c.Filter.UseMLEnhancement)
	return c, nil
}

func toString(v any) string { return fmt.Sprint(v) }
