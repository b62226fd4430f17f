package providers

import (
	"context"
	"fmt"
	"io"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

const openaiSampleRate = 24000

// OpenAIClient synthesizes speech through the OpenAI audio API.
type OpenAIClient struct {
	client *openai.Client
	model  openai.SpeechModel
}

// NewOpenAI constructs an OpenAI TTS client with the provided API key.
func NewOpenAI(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		client: openai.NewClient(apiKey),
		model:  openai.TTSModel1,
	}
}

// SynthesizeStream requests raw PCM from the speech endpoint. The API
// only accepts lowercase voice names, so the base voice from the
// catalog is lowered before the call.
func (c *OpenAIClient) SynthesizeStream(ctx context.Context, req SynthesizeRequest) (io.ReadCloser, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("openai: text is required")
	}
	if req.Voice == "" {
		return nil, fmt.Errorf("openai: voice is required")
	}

	resp, err := c.client.CreateSpeech(ctx, openai.CreateSpeechRequest{
		Model:          c.model,
		Input:          req.Text,
		Voice:          openai.SpeechVoice(strings.ToLower(req.Voice)),
		ResponseFormat: openai.SpeechResponseFormatPcm,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create speech: %w", err)
	}
	return resp, nil
}

// SampleRate reports the fixed rate of the PCM response format.
func (c *OpenAIClient) SampleRate() int { return openaiSampleRate }
