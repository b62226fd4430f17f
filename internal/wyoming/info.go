// Package wyoming implements the subset of the Wyoming voice-assistant
// protocol the streamer needs: the length-prefixed event codec, the
// info/describe payload types, and a URI-based socket server.
//
// Wire format (per event):
//
//	<json_length> <payload_length>\n
//	<json_bytes>\n
//	<payload_bytes>   (if payload_length > 0)
package wyoming

// Attribution credits the origin of a voice or program.
type Attribution struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

// TtsVoiceSpeaker is a named sub-speaker within a voice. The streamer
// never advertises speakers but the field is part of the wire contract.
type TtsVoiceSpeaker struct {
	Name string `json:"name"`
}

// TtsVoice describes one advertisable voice.
type TtsVoice struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Attribution Attribution       `json:"attribution"`
	Installed   bool              `json:"installed"`
	Version     string            `json:"version,omitempty"`
	Languages   []string          `json:"languages"`
	Speakers    []TtsVoiceSpeaker `json:"speakers,omitempty"`
}

// TtsProgram describes a text-to-speech service and its voices.
type TtsProgram struct {
	Name                        string      `json:"name"`
	Description                 string      `json:"description"`
	Attribution                 Attribution `json:"attribution"`
	Installed                   bool        `json:"installed"`
	Voices                      []TtsVoice  `json:"voices"`
	Version                     string      `json:"version"`
	SupportsSynthesizeStreaming bool        `json:"supports_synthesize_streaming"`
}

// Info is the capability advertisement sent in response to a describe
// event. Built once at startup and never mutated, so it is safe to
// share across sessions.
type Info struct {
	Tts []TtsProgram `json:"tts"`
}

// SynthesizeVoice selects the voice for a synthesize request.
type SynthesizeVoice struct {
	Name string `json:"name"`
}

// Synthesize is the payload of a synthesize request event.
type Synthesize struct {
	Text  string          `json:"text"`
	Voice SynthesizeVoice `json:"voice"`
}

// AudioStart announces the format of the audio chunks that follow.
type AudioStart struct {
	Rate     int `json:"rate"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// AudioChunk describes one chunk of streamed audio; the samples ride
// in the event payload.
type AudioChunk struct {
	Rate     int `json:"rate"`
	Width    int `json:"width"`
	Channels int `json:"channels"`
}

// AudioStop marks the end of an audio stream.
type AudioStop struct{}

// Error is sent when a request cannot be served; the session stays open.
type Error struct {
	Text string `json:"text"`
}
