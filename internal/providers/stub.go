package providers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
)

const stubSampleRate = 24000

// bytesPerChar sizes the silent output: 480 bytes is 10 ms of mono
// PCM16 at 24 kHz per character of input text.
const bytesPerChar = 480

// Stub implements Synthesizer with deterministic silent PCM. It backs
// custom provider keys, which have no upstream client, and tests.
type Stub struct {
	log *slog.Logger
}

// NewStub returns a stub that generates silence proportional to the
// input text length.
func NewStub(logger *slog.Logger) *Stub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Stub{log: logger}
}

// SynthesizeStream returns a reader over silent PCM.
func (s *Stub) SynthesizeStream(_ context.Context, req SynthesizeRequest) (io.ReadCloser, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("stub: text is required")
	}

	pcm := make([]byte, len(req.Text)*bytesPerChar)
	s.log.Info("stub synthesis",
		"text_length", len(req.Text),
		"voice", req.Voice,
		"bytes", len(pcm),
	)
	return io.NopCloser(bytes.NewReader(pcm)), nil
}

// SampleRate reports the rate of the generated silence.
func (s *Stub) SampleRate() int { return stubSampleRate }
