package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/tailored-agentic-units/transcript/core/config"
	"github.com/tailored-agentic-units/transcript/responder"
	"github.com/tailored-agentic-units/transcript/session"
)

const (
	defaultMinLatency      = 1500 * time.Millisecond
	defaultResponseTimeout = 30 * time.Second
	defaultObserver        = "slog"

	// DefaultFailureText is appended as the assistant reply when the
	// responder fails.
	DefaultFailureText = "Something went wrong; please try again"
)

// Config holds initialization parameters for a session and its subsystems.
type Config struct {
	Session   session.Config   `json:"session"`
	Responder responder.Config `json:"responder"`

	// MinLatency is the minimum time between a trigger and its reply being
	// appended. A negative value disables the floor. Merge treats zero as
	// unset, so a config file must use a negative value such as "-1ms".
	MinLatency config.Duration `json:"min_latency,omitempty"`
	// ResponseTimeout bounds each responder call. A negative value disables
	// the bound; zero in a config file keeps the default.
	ResponseTimeout config.Duration `json:"response_timeout,omitempty"`

	FailureText    string `json:"failure_text,omitempty"`
	StrictTriggers bool   `json:"strict_triggers,omitempty"`
	Observer       string `json:"observer,omitempty"`
}

// DefaultConfig returns a Config with the reference latency floor, the demo
// responder, and slog output.
func DefaultConfig() Config {
	return Config{
		Session:         session.DefaultConfig(),
		Responder:       responder.DefaultConfig(),
		MinLatency:      config.Duration(defaultMinLatency),
		ResponseTimeout: config.Duration(defaultResponseTimeout),
		FailureText:     DefaultFailureText,
		Observer:        defaultObserver,
	}
}

// Merge applies non-zero values from source into c, delegating to each
// subsystem's Merge method.
func (c *Config) Merge(source *Config) {
	c.Session.Merge(&source.Session)
	c.Responder.Merge(&source.Responder)

	if source.MinLatency != 0 {
		c.MinLatency = source.MinLatency
	}
	if source.ResponseTimeout != 0 {
		c.ResponseTimeout = source.ResponseTimeout
	}
	if source.FailureText != "" {
		c.FailureText = source.FailureText
	}
	if source.StrictTriggers {
		c.StrictTriggers = true
	}
	if source.Observer != "" {
		c.Observer = source.Observer
	}
}

// LoadConfig reads a JSON config file, merges it with defaults, and returns
// the resulting Config.
func LoadConfig(filename string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var loaded Config
	if err := json.Unmarshal(data, &loaded); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.Merge(&loaded)
	return &cfg, nil
}
