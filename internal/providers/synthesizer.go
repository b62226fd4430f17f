// Package providers contains the upstream cloud TTS clients the
// streamer forwards synthesis requests to. Each provider implements
// the Synthesizer interface so the session handler can be tested with
// a mock implementation.
package providers

import (
	"context"
	"io"
)

// SynthesizeRequest is one synthesis job for an upstream provider.
type SynthesizeRequest struct {
	// Text to synthesize.
	Text string

	// Voice is the provider's base voice name, e.g. "Aria" or "alloy".
	Voice string

	// Language is the normalized BCP-47 tag, e.g. "en-US".
	Language string
}

// Synthesizer converts text to a stream of PCM 16-bit LE mono audio.
type Synthesizer interface {
	// SynthesizeStream returns the audio stream for the request. The
	// caller must close the reader when done.
	SynthesizeStream(ctx context.Context, req SynthesizeRequest) (io.ReadCloser, error)

	// SampleRate reports the sample rate of the returned audio in Hz.
	SampleRate() int
}
