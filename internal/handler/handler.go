// Package handler runs one Wyoming client session: it answers
// describe events with the capability advertisement built at startup
// and forwards synthesize requests to the matching cloud provider.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/eslavnov/wyoming-cloud-streamer/internal/cache"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/catalog"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/providers"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/telemetry"
	"github.com/eslavnov/wyoming-cloud-streamer/internal/wyoming"
)

const (
	chunkSize       = 4096 // bytes per audio-chunk (~85ms at 24kHz mono PCM16)
	defaultWidth    = 2
	defaultChannels = 1
)

// Handler serves Wyoming sessions against the immutable catalog.
type Handler struct {
	info     wyoming.Info
	routes   map[string]catalog.Route
	synths   map[string]providers.Synthesizer
	fallback providers.Synthesizer
	cache    *cache.Cache // nil when caching is disabled
	metrics  *telemetry.Recorder
	log      *slog.Logger
}

// New returns a Handler. synths maps provider keys to their upstream
// clients; provider keys without a client route to fallback.
func New(
	info wyoming.Info,
	routes map[string]catalog.Route,
	synths map[string]providers.Synthesizer,
	fallback providers.Synthesizer,
	audioCache *cache.Cache,
	metrics *telemetry.Recorder,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	if fallback == nil {
		panic("handler: fallback synthesizer must not be nil")
	}
	if metrics == nil {
		metrics = telemetry.NewRecorder(logger)
	}
	return &Handler{
		info:     info,
		routes:   routes,
		synths:   synths,
		fallback: fallback,
		cache:    audioCache,
		metrics:  metrics,
		log:      logger.With("component", "handler"),
	}
}

// Serve processes events from one client until it disconnects. It is
// the wyoming.SessionFunc passed to the server.
func (h *Handler) Serve(ctx context.Context, rw io.ReadWriter, log *slog.Logger) {
	if log == nil {
		log = h.log
	}
	for {
		if ctx.Err() != nil {
			return
		}

		evt, err := wyoming.ReadEvent(rw)
		if err != nil {
			if !errors.Is(err, io.EOF) {
				log.Warn("read event failed", "error", err)
			}
			return
		}

		switch evt.Type {
		case wyoming.TypeDescribe:
			if err := h.sendInfo(rw); err != nil {
				log.Warn("send info failed", "error", err)
				return
			}
			log.Debug("sent info", "voices", len(h.info.Tts[0].Voices))

		case wyoming.TypeSynthesize:
			if err := h.handleSynthesize(ctx, rw, evt, log); err != nil {
				log.Warn("synthesize failed", "error", err)
				return
			}

		default:
			log.Debug("unhandled event", "type", evt.Type)
		}
	}
}

func (h *Handler) sendInfo(w io.Writer) error {
	evt, err := wyoming.NewEvent(wyoming.TypeInfo, h.info)
	if err != nil {
		return err
	}
	return wyoming.WriteEvent(w, evt)
}

// handleSynthesize resolves the requested voice, synthesizes (or pulls
// from cache), and streams the audio back. Request-level problems are
// reported as protocol error events and keep the session open; only
// write failures end it.
func (h *Handler) handleSynthesize(ctx context.Context, rw io.ReadWriter, evt wyoming.Event, log *slog.Logger) error {
	var req wyoming.Synthesize
	if len(evt.Data) > 0 {
		if err := json.Unmarshal(evt.Data, &req); err != nil {
			h.metrics.RecordError()
			return h.sendError(rw, fmt.Sprintf("invalid synthesize event: %v", err))
		}
	}

	if req.Text == "" {
		h.metrics.RecordError()
		return h.sendError(rw, "text is required")
	}

	route, ok := h.routes[req.Voice.Name]
	if !ok {
		h.metrics.RecordError()
		return h.sendError(rw, fmt.Sprintf("unknown voice: %s", req.Voice.Name))
	}

	synth, ok := h.synths[route.Provider]
	if !ok {
		synth = h.fallback
	}

	logEntry := log.With(
		"provider", route.Provider,
		"voice", req.Voice.Name,
		"language", route.Language,
		"text_length", len(req.Text),
	)
	logEntry.Info("synthesis request received")

	var cacheKey string
	if h.cache != nil {
		cacheKey = cache.Key(route.Provider, route.Voice, route.Language, req.Text, synth.SampleRate())
		if data, hit := h.cache.Get(cacheKey); hit {
			logEntry.Info("cache hit", "bytes", len(data))
			if err := h.streamPCM(rw, data, synth.SampleRate()); err != nil {
				return err
			}
			h.metrics.RecordSynthesis(len(data), true)
			return nil
		}
		logEntry.Debug("cache miss")
	}

	start := time.Now()
	audio, err := synth.SynthesizeStream(ctx, providers.SynthesizeRequest{
		Text:     req.Text,
		Voice:    route.Voice,
		Language: route.Language,
	})
	if err != nil {
		logEntry.Error("upstream synthesis failed", "error", err)
		h.metrics.RecordError()
		return h.sendError(rw, fmt.Sprintf("synthesis failed: %v", err))
	}
	defer audio.Close()

	total, accumulated, err := h.streamReader(rw, audio, synth.SampleRate())
	if err != nil {
		return err
	}

	logEntry.Info("synthesis completed",
		"total_bytes", total,
		"duration_sec", time.Since(start).Seconds(),
	)
	h.metrics.RecordSynthesis(total, false)

	if h.cache != nil && len(accumulated) > 0 {
		if err := h.cache.Put(cacheKey, accumulated); err != nil {
			logEntry.Warn("cache store failed", "error", err)
		}
	}
	return nil
}

// streamReader copies audio to the client as audio-start, audio-chunk
// events of at most chunkSize bytes, and audio-stop. It returns the
// byte count and the accumulated samples for caching.
func (h *Handler) streamReader(w io.Writer, audio io.Reader, rate int) (int, []byte, error) {
	if err := h.sendAudioStart(w, rate); err != nil {
		return 0, nil, err
	}

	var accumulated []byte
	total := 0
	buf := make([]byte, chunkSize)
	for {
		n, err := audio.Read(buf)
		if n > 0 {
			total += n
			if err := h.sendAudioChunk(w, buf[:n], rate); err != nil {
				return total, nil, err
			}
			if h.cache != nil {
				accumulated = append(accumulated, buf[:n]...)
			}
		}
		if err != nil {
			if err == io.EOF {
				break
			}
			return total, nil, fmt.Errorf("handler: read audio stream: %w", err)
		}
	}

	return total, accumulated, h.sendAudioStop(w)
}

// streamPCM replays a cached clip with the same chunking as the live
// path.
func (h *Handler) streamPCM(w io.Writer, data []byte, rate int) error {
	if err := h.sendAudioStart(w, rate); err != nil {
		return err
	}
	for offset := 0; offset < len(data); offset += chunkSize {
		end := offset + chunkSize
		if end > len(data) {
			end = len(data)
		}
		if err := h.sendAudioChunk(w, data[offset:end], rate); err != nil {
			return err
		}
	}
	return h.sendAudioStop(w)
}

func (h *Handler) sendAudioStart(w io.Writer, rate int) error {
	evt, err := wyoming.NewEvent(wyoming.TypeAudioStart, wyoming.AudioStart{
		Rate:     rate,
		Width:    defaultWidth,
		Channels: defaultChannels,
	})
	if err != nil {
		return err
	}
	return wyoming.WriteEvent(w, evt)
}

func (h *Handler) sendAudioChunk(w io.Writer, samples []byte, rate int) error {
	evt, err := wyoming.NewEvent(wyoming.TypeAudioChunk, wyoming.AudioChunk{
		Rate:     rate,
		Width:    defaultWidth,
		Channels: defaultChannels,
	})
	if err != nil {
		return err
	}
	evt.Payload = samples
	return wyoming.WriteEvent(w, evt)
}

func (h *Handler) sendAudioStop(w io.Writer) error {
	evt, err := wyoming.NewEvent(wyoming.TypeAudioStop, wyoming.AudioStop{})
	if err != nil {
		return err
	}
	return wyoming.WriteEvent(w, evt)
}

func (h *Handler) sendError(w io.Writer, message string) error {
	evt, err := wyoming.NewEvent(wyoming.TypeError, wyoming.Error{Text: message})
	if err != nil {
		return err
	}
	return wyoming.WriteEvent(w, evt)
}
