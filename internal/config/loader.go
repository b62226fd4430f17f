// Package config loads the daemon configuration from environment
// variables; command-line flags override on top in main.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Environment variable names.
const (
	EnvURI              = "STREAMER_URI"
	EnvLogLevel         = "LOG_LEVEL"
	EnvLogFormat        = "LOG_FORMAT"
	EnvCustomVoicesPath = "CUSTOM_VOICES_PATH"
	EnvGoogleAPIKey     = "GOOGLE_TTS_API_KEY"
	EnvOpenAIAPIKey     = "OPENAI_API_KEY"
	EnvCacheDir         = "CACHE_DIR"
	EnvCacheMaxSizeMB   = "CACHE_MAX_SIZE_MB"
)

// Loader loads configuration from environment variables. Tests can
// override Lookup to inject deterministic maps.
type Loader struct {
	Lookup func(string) (string, bool)
}

// Load retrieves the configuration from the environment and validates
// it.
func (l Loader) Load() (Config, error) {
	if l.Lookup == nil {
		l.Lookup = os.LookupEnv
	}

	cfg := Config{
		URI:       DefaultURI,
		LogLevel:  DefaultLogLevel,
		LogFormat: DefaultLogFormat,
	}

	overrideString(l.Lookup, EnvURI, &cfg.URI)
	overrideString(l.Lookup, EnvLogLevel, &cfg.LogLevel)
	overrideString(l.Lookup, EnvLogFormat, &cfg.LogFormat)
	overrideString(l.Lookup, EnvCustomVoicesPath, &cfg.CustomVoicesPath)
	overrideString(l.Lookup, EnvGoogleAPIKey, &cfg.GoogleAPIKey)
	overrideString(l.Lookup, EnvOpenAIAPIKey, &cfg.OpenAIAPIKey)
	overrideString(l.Lookup, EnvCacheDir, &cfg.CacheDir)

	if raw, ok := l.Lookup(EnvCacheMaxSizeMB); ok && strings.TrimSpace(raw) != "" {
		size, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", EnvCacheMaxSizeMB, err)
		}
		cfg.CacheMaxSizeMB = size
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func overrideString(lookup func(string) (string, bool), key string, target *string) {
	if lookup == nil || target == nil {
		return
	}
	if value, ok := lookup(key); ok && strings.TrimSpace(value) != "" {
		*target = strings.TrimSpace(value)
	}
}
