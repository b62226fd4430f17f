package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const (
	// GoogleBaseURL is the Cloud Text-to-Speech REST API base URL.
	GoogleBaseURL = "https://texttospeech.googleapis.com/v1"

	googleSampleRate = 24000
	googleTimeout    = 30 * time.Second

	// wavHeaderSize is the RIFF header LINEAR16 responses carry before
	// the raw samples.
	wavHeaderSize = 44
)

// GoogleClient calls the Cloud Text-to-Speech API for Chirp 3 HD
// voices.
type GoogleClient struct {
	httpClient *http.Client
	apiKey     string
	baseURL    string
}

// NewGoogle constructs a Google TTS client with the provided API key.
func NewGoogle(apiKey string) *GoogleClient {
	return &GoogleClient{
		httpClient: &http.Client{Timeout: googleTimeout},
		apiKey:     apiKey,
		baseURL:    GoogleBaseURL,
	}
}

type googleSynthesizeRequest struct {
	Input struct {
		Text string `json:"text"`
	} `json:"input"`
	Voice struct {
		LanguageCode string `json:"languageCode"`
		Name         string `json:"name"`
	} `json:"voice"`
	AudioConfig struct {
		AudioEncoding   string `json:"audioEncoding"`
		SampleRateHertz int    `json:"sampleRateHertz"`
	} `json:"audioConfig"`
}

type googleSynthesizeResponse struct {
	AudioContent string `json:"audioContent"`
}

// SynthesizeStream calls text:synthesize and returns the decoded PCM.
// The API voice name is the language tag plus the Chirp 3 HD segment
// and the base voice, which is exactly the canonical name clients
// request.
func (c *GoogleClient) SynthesizeStream(ctx context.Context, req SynthesizeRequest) (io.ReadCloser, error) {
	if req.Text == "" {
		return nil, fmt.Errorf("google: text is required")
	}
	if req.Voice == "" || req.Language == "" {
		return nil, fmt.Errorf("google: voice and language are required")
	}

	var payload googleSynthesizeRequest
	payload.Input.Text = req.Text
	payload.Voice.LanguageCode = req.Language
	payload.Voice.Name = fmt.Sprintf("%s-Chirp3-HD-%s", req.Language, req.Voice)
	payload.AudioConfig.AudioEncoding = "LINEAR16"
	payload.AudioConfig.SampleRateHertz = googleSampleRate

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("google: marshal request: %w", err)
	}

	url := c.baseURL + "/text:synthesize"
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("google: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-Goog-Api-Key", c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("google: http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		errBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("google: API error (status %d): %s", resp.StatusCode, string(errBody))
	}

	var result googleSynthesizeResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("google: decode response: %w", err)
	}

	audio, err := base64.StdEncoding.DecodeString(result.AudioContent)
	if err != nil {
		return nil, fmt.Errorf("google: decode audio content: %w", err)
	}

	// LINEAR16 responses are WAV; the handler streams raw PCM.
	if len(audio) > wavHeaderSize && bytes.HasPrefix(audio, []byte("RIFF")) {
		audio = audio[wavHeaderSize:]
	}

	return io.NopCloser(bytes.NewReader(audio)), nil
}

// SampleRate reports the PCM sample rate requested from the API.
func (c *GoogleClient) SampleRate() int { return googleSampleRate }
