package config

import (
	"fmt"
	"strings"
)

const (
	// DefaultURI serves a single session over standard streams, the
	// transport the Wyoming supervisor uses when it spawns the daemon.
	DefaultURI = "stdio://"

	DefaultLogLevel  = "info"
	DefaultLogFormat = "text"
)

// Config captures the daemon's bootstrap configuration from flags and
// environment variables.
type Config struct {
	// URI selects the serving transport: tcp://host:port, unix://path,
	// or stdio://.
	URI string

	LogLevel  string
	LogFormat string // "text" or "json"

	// Streaming enables sentence-boundary audio streaming.
	Streaming bool

	// VoicesFile overrides the builtin catalog discovery; empty means
	// look next to the binary.
	VoicesFile string

	// CustomVoicesPath points at the optional override catalog.
	CustomVoicesPath string

	GoogleAPIKey string
	OpenAIAPIKey string

	// Cache settings; caching is disabled unless both are set.
	CacheDir       string
	CacheMaxSizeMB int
}

// Validate applies defaults and rejects values the daemon cannot run
// with.
func (c *Config) Validate() error {
	if c.URI == "" {
		c.URI = DefaultURI
	}
	if !strings.Contains(c.URI, "://") {
		return fmt.Errorf("config: uri must look like tcp://host:port, unix://path, or stdio://, got %q", c.URI)
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.LogFormat == "" {
		c.LogFormat = DefaultLogFormat
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("config: log format must be text or json, got %q", c.LogFormat)
	}
	if c.CacheMaxSizeMB < 0 {
		return fmt.Errorf("config: cache max size must be >= 0, got %d", c.CacheMaxSizeMB)
	}
	return nil
}
