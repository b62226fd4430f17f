package providers

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
)

func googleTestClient(srv *httptest.Server) *GoogleClient {
	return &GoogleClient{
		httpClient: srv.Client(),
		apiKey:     "test-key",
		baseURL:    srv.URL,
	}
}

func googleResponse(audio []byte) string {
	return fmt.Sprintf(`{"audioContent": %q}`, base64.StdEncoding.EncodeToString(audio))
}

func TestGoogleSynthesizeStreamSuccess(t *testing.T) {
	pcm := []byte{0x01, 0x02, 0x03, 0x04}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, googleResponse(pcm))
	}))
	defer srv.Close()

	rc, err := googleTestClient(srv).SynthesizeStream(context.Background(), SynthesizeRequest{
		Text:     "hello",
		Voice:    "Aria",
		Language: "en-US",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	got, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read error: %v", err)
	}
	if !bytes.Equal(got, pcm) {
		t.Errorf("got %v, want %v", got, pcm)
	}
}

func TestGoogleSynthesizeStreamRequestBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("X-Goog-Api-Key"); got != "test-key" {
			t.Errorf("api key header = %q, want %q", got, "test-key")
		}

		body, _ := io.ReadAll(r.Body)
		var payload map[string]any
		if err := json.Unmarshal(body, &payload); err != nil {
			t.Fatalf("unmarshal body: %v", err)
		}
		voice, ok := payload["voice"].(map[string]any)
		if !ok {
			t.Fatal("voice missing from request")
		}
		if voice["name"] != "de-DE-Chirp3-HD-Kore" {
			t.Errorf("voice name = %v, want %q", voice["name"], "de-DE-Chirp3-HD-Kore")
		}
		if voice["languageCode"] != "de-DE" {
			t.Errorf("languageCode = %v, want %q", voice["languageCode"], "de-DE")
		}
		audioConfig, ok := payload["audioConfig"].(map[string]any)
		if !ok {
			t.Fatal("audioConfig missing from request")
		}
		if audioConfig["audioEncoding"] != "LINEAR16" {
			t.Errorf("audioEncoding = %v, want LINEAR16", audioConfig["audioEncoding"])
		}

		io.WriteString(w, googleResponse(nil))
	}))
	defer srv.Close()

	rc, err := googleTestClient(srv).SynthesizeStream(context.Background(), SynthesizeRequest{
		Text:     "hallo",
		Voice:    "Kore",
		Language: "de-DE",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	rc.Close()
}

func TestGoogleSynthesizeStreamStripsWAVHeader(t *testing.T) {
	pcm := []byte{0xAA, 0xBB, 0xCC, 0xDD}
	wav := make([]byte, 0, 44+len(pcm))
	wav = append(wav, []byte("RIFF")...)
	wav = append(wav, make([]byte, 40)...) // rest of the 44-byte header
	wav = append(wav, pcm...)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, googleResponse(wav))
	}))
	defer srv.Close()

	rc, err := googleTestClient(srv).SynthesizeStream(context.Background(), SynthesizeRequest{
		Text:     "hello",
		Voice:    "Aria",
		Language: "en-US",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer rc.Close()

	got, _ := io.ReadAll(rc)
	if !bytes.Equal(got, pcm) {
		t.Errorf("got %v, want header-stripped %v", got, pcm)
	}
}

func TestGoogleSynthesizeStreamAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error": "quota exceeded"}`, http.StatusTooManyRequests)
	}))
	defer srv.Close()

	_, err := googleTestClient(srv).SynthesizeStream(context.Background(), SynthesizeRequest{
		Text:     "hello",
		Voice:    "Aria",
		Language: "en-US",
	})
	if err == nil {
		t.Fatal("expected error for non-200 response")
	}
}

func TestGoogleSynthesizeStreamValidation(t *testing.T) {
	c := NewGoogle("key")
	if _, err := c.SynthesizeStream(context.Background(), SynthesizeRequest{Voice: "Aria", Language: "en-US"}); err == nil {
		t.Error("expected error for missing text")
	}
	if _, err := c.SynthesizeStream(context.Background(), SynthesizeRequest{Text: "hi"}); err == nil {
		t.Error("expected error for missing voice and language")
	}
}

func TestGoogleSampleRate(t *testing.T) {
	if got := NewGoogle("key").SampleRate(); got != 24000 {
		t.Errorf("SampleRate = %d, want 24000", got)
	}
}
