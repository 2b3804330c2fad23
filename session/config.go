package session

import "github.com/tailored-agentic-units/transcript/core/protocol"

// DefaultGreeting is the assistant message a new session opens with.
const DefaultGreeting = "Hello! You can send messages or drop folders here."

// Config holds session initialization parameters.
type Config struct {
	Greeting        string `json:"greeting,omitempty"`         // Seed assistant message; empty uses DefaultGreeting.
	DisableGreeting bool   `json:"disable_greeting,omitempty"` // Start with an empty transcript.
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{Greeting: DefaultGreeting}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Greeting != "" {
		c.Greeting = source.Greeting
	}
	if source.DisableGreeting {
		c.DisableGreeting = true
	}
}

// New creates an in-memory Transcript from configuration. Unless the
// greeting is disabled, the transcript is seeded with exactly one assistant
// message whose ID is drawn from seq.
func New(cfg *Config, seq *protocol.Sequence) (Transcript, error) {
	t := NewMemoryTranscript()

	if cfg.DisableGreeting {
		return t, nil
	}

	greeting := cfg.Greeting
	if greeting == "" {
		greeting = DefaultGreeting
	}
	t.Append(seq.Assistant(greeting, 0))

	return t, nil
}
