package endpoint

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds endpoint configuration with environment variable support.
type Config struct {
	// Fixed number of concurrent listener handles.
	MaxListeners int `env:"LINKNOTIFY_MAX_LISTENERS" envDefault:"8"`

	// Websocket feed buffer sizes.
	WSReadBufferSize  int `env:"LINKNOTIFY_WS_READ_BUFFER" envDefault:"1024"`
	WSWriteBufferSize int `env:"LINKNOTIFY_WS_WRITE_BUFFER" envDefault:"4096"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		MaxListeners:      8,
		WSReadBufferSize:  1024,
		WSWriteBufferSize: 4096,
	}
}

// LoadConfig parses the configuration from environment variables.
func LoadConfig() (Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return Config{}, fmt.Errorf("load endpoint config: %w", err)
	}
	return cfg, nil
}

// NewFromConfig creates an Endpoint from configuration. Additional options
// can override config values.
func NewFromConfig(cfg Config, opts ...Option) *Endpoint {
	configOpts := make([]Option, 0, 1+len(opts))
	if cfg.MaxListeners > 0 {
		configOpts = append(configOpts, WithMaxListeners(cfg.MaxListeners))
	}
	configOpts = append(configOpts, opts...)
	return New(configOpts...)
}
