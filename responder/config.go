package responder

import "github.com/tailored-agentic-units/transcript/core/config"

// Built-in responder types.
const (
	TypeDemo    = "demo"
	TypeConnect = "connect"
)

// Config selects and parameterizes the session's responder.
type Config struct {
	Type    string          `json:"type,omitempty"`    // Registered responder type.
	Address string          `json:"address,omitempty"` // Base URL for the connect type.
	Delay   config.Duration `json:"delay,omitempty"`   // Demo generation delay.
}

// DefaultConfig returns a Config using the demo responder.
func DefaultConfig() Config {
	return Config{Type: TypeDemo}
}

// Merge applies non-zero values from source into c.
func (c *Config) Merge(source *Config) {
	if source.Type != "" {
		c.Type = source.Type
	}
	if source.Address != "" {
		c.Address = source.Address
	}
	if source.Delay > 0 {
		c.Delay = source.Delay
	}
}

// New creates a Responder from configuration using the built-in types.
func New(cfg *Config) (Responder, error) {
	return NewRegistry().Create(cfg)
}
