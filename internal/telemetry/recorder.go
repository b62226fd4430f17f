// Package telemetry centralises counters and structured logs for the
// streamer. Metrics are in-process only for now; the recorder gives
// them a single home if an exporter is added later.
package telemetry

import (
	"log/slog"
	"sync/atomic"
)

// Recorder tracks synthesis activity across all sessions.
type Recorder struct {
	logger *slog.Logger

	requests      atomic.Uint64
	cacheHits     atomic.Uint64
	errors        atomic.Uint64
	bytesStreamed atomic.Uint64
}

// NewRecorder constructs a Recorder using the provided slog.Logger.
func NewRecorder(logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{logger: logger}
}

// Logger returns the underlying slog.Logger for direct use.
func (r *Recorder) Logger() *slog.Logger {
	return r.logger
}

// RecordSynthesis counts one completed synthesis and the bytes it
// streamed to the client.
func (r *Recorder) RecordSynthesis(bytes int, fromCache bool) {
	r.requests.Add(1)
	r.bytesStreamed.Add(uint64(bytes))
	if fromCache {
		r.cacheHits.Add(1)
	}
}

// RecordError counts one failed synthesis request.
func (r *Recorder) RecordError() {
	r.requests.Add(1)
	r.errors.Add(1)
}

// LogSummary emits the lifetime counters at info level.
func (r *Recorder) LogSummary() {
	r.logger.Info("synthesis totals",
		"requests", r.requests.Load(),
		"cache_hits", r.cacheHits.Load(),
		"errors", r.errors.Load(),
		"bytes_streamed", r.bytesStreamed.Load(),
	)
}
