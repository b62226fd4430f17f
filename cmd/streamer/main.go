// Command streamer is a Wyoming protocol proxy that advertises cloud
// TTS voices and forwards synthesis requests to Google and OpenAI.
//
// Usage:
//
//	streamer [flags]
//	streamer --uri tcp://0.0.0.0:10200 --debug
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/eslavnov/wyoming-cloud-streamer/internal/cache"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/catalog"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/config"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/handler"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/programinfo"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/providers"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/telemetry"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/wyoming"
)

func main() {
	uri := flag.String("uri", "", "serving URI: tcp://host:port, unix://path, or stdio://")
	debug := flag.Bool("debug", false, "log DEBUG messages")
	logFormat := flag.String("log-format", "", "log format: text or json")
	showVersion := flag.Bool("version", false, "print version and exit")
	streaming := flag.Bool("streaming", false, "enable audio streaming on sentence boundaries")
	voicesFile := flag.String("voices-file", "", "path to the builtin voices.json (default: next to the binary)")
	flag.Parse()

	program, err := programinfo.Load()
	if err != nil {
		slog.Error("failed to load program metadata", "error", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(program.Version)
		os.Exit(0)
	}

	cfg, err := (config.Loader{}).Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// Flags override the environment.
	if *uri != "" {
		cfg.URI = *uri
	}
	if *debug {
		cfg.LogLevel = "debug"
	}
	if *logFormat != "" {
		cfg.LogFormat = *logFormat
	}
	if *streaming {
		cfg.Streaming = true
	}
	if *voicesFile != "" {
		cfg.VoicesFile = *voicesFile
	}
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	logger := newLogger(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting streamer",
		"program", program.Name,
		"version", program.Version,
		"uri", cfg.URI,
		"streaming", cfg.Streaming,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Build the voice catalog once; it is immutable from here on.
	builtin, override, err := catalog.Loader{
		BuiltinPath:  cfg.VoicesFile,
		OverridePath: cfg.CustomVoicesPath,
		Log:          logger,
	}.Load()
	if err != nil {
		logger.Error("failed to load builtin voice catalog", "error", err)
		os.Exit(1)
	}

	merged := catalog.Merge(builtin, override)
	voices := catalog.Synthesize(merged)
	info := catalog.Advertise(voices, program)
	routes := catalog.Routes(merged)
	logger.Info("voice catalog built",
		"providers", len(merged),
		"voices", len(voices),
	)

	synths := map[string]providers.Synthesizer{}
	if cfg.GoogleAPIKey != "" {
		synths["google"] = providers.NewGoogle(cfg.GoogleAPIKey)
	} else {
		logger.Warn("GOOGLE_TTS_API_KEY not set, google voices will synthesize silence")
	}
	if cfg.OpenAIAPIKey != "" {
		synths["openai"] = providers.NewOpenAI(cfg.OpenAIAPIKey)
	} else {
		logger.Warn("OPENAI_API_KEY not set, openai voices will synthesize silence")
	}

	var audioCache *cache.Cache
	if cfg.CacheMaxSizeMB > 0 && cfg.CacheDir != "" {
		audioCache, err = cache.New(cfg.CacheDir, int64(cfg.CacheMaxSizeMB)*1024*1024, logger)
		if err != nil {
			logger.Warn("failed to initialize cache, continuing without", "error", err)
		} else {
			logger.Info("audio cache initialized", "dir", cfg.CacheDir, "max_size_mb", cfg.CacheMaxSizeMB)
		}
	}

	recorder := telemetry.NewRecorder(logger)
	sessions := handler.New(info, routes, synths, providers.NewStub(logger), audioCache, recorder, logger)

	server, err := wyoming.NewServer(cfg.URI, logger)
	if err != nil {
		logger.Error("invalid serving URI", "error", err)
		os.Exit(1)
	}

	logger.Info("ready")
	if err := server.Run(ctx, sessions.Serve); err != nil {
		logger.Error("server terminated with error", "error", err)
		os.Exit(1)
	}

	recorder.LogSummary()
	logger.Info("streamer stopped")
}

func newLogger(level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	var h slog.Handler
	if format == "json" {
		h = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		h = slog.NewTextHandler(os.Stderr, opts)
	}
	logger := slog.New(h)
	slog.SetDefault(logger)
	return logger
}

func parseLevel(value string) slog.Leveler {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
