package wyoming

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Event types used by the streamer.
const (
	TypeDescribe   = "describe"
	TypeInfo       = "info"
	TypeSynthesize = "synthesize"
	TypeAudioStart = "audio-start"
	TypeAudioChunk = "audio-chunk"
	TypeAudioStop  = "audio-stop"
	TypeError      = "error"
)

// maxEventLen caps the JSON body and payload sizes accepted from a
// header, so a hostile length does not force a huge allocation.
const maxEventLen = 1 << 20

// Event is a single protocol event. Data holds the event's JSON body
// undecoded; callers unmarshal it into the matching payload type.
// Payload carries raw bytes (audio) outside the JSON envelope.
type Event struct {
	Type    string          `json:"type"`
	Data    json.RawMessage `json:"data,omitempty"`
	Payload []byte          `json:"-"`
}

// NewEvent builds an event of the given type with data marshalled into
// the JSON body.
func NewEvent(eventType string, data any) (Event, error) {
	evt := Event{Type: eventType}
	if data == nil {
		return evt, nil
	}
	raw, err := json.Marshal(data)
	if err != nil {
		return Event{}, fmt.Errorf("wyoming: marshal %s data: %w", eventType, err)
	}
	evt.Data = raw
	return evt, nil
}

// WriteEvent sends a single event over w.
func WriteEvent(w io.Writer, evt Event) error {
	jsonBytes, err := json.Marshal(evt)
	if err != nil {
		return fmt.Errorf("wyoming: marshal event: %w", err)
	}

	header := fmt.Sprintf("%d %d\n", len(jsonBytes), len(evt.Payload))
	if _, err := io.WriteString(w, header); err != nil {
		return fmt.Errorf("wyoming: write header: %w", err)
	}
	if _, err := w.Write(jsonBytes); err != nil {
		return fmt.Errorf("wyoming: write event: %w", err)
	}
	if _, err := io.WriteString(w, "\n"); err != nil {
		return fmt.Errorf("wyoming: write event: %w", err)
	}
	if len(evt.Payload) > 0 {
		if _, err := w.Write(evt.Payload); err != nil {
			return fmt.Errorf("wyoming: write payload: %w", err)
		}
	}
	return nil
}

// ReadEvent reads a single event from r. It returns io.EOF unchanged
// when the stream ends cleanly before a header byte arrives.
func ReadEvent(r io.Reader) (Event, error) {
	header, err := readHeaderLine(r)
	if err != nil {
		return Event{}, err
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 {
		return Event{}, fmt.Errorf("wyoming: invalid header %q", header)
	}
	jsonLen, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return Event{}, fmt.Errorf("wyoming: parse json length: %w", err)
	}
	payloadLen, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return Event{}, fmt.Errorf("wyoming: parse payload length: %w", err)
	}
	if jsonLen < 0 || payloadLen < 0 {
		return Event{}, fmt.Errorf("wyoming: negative length in header %q", header)
	}
	if jsonLen > maxEventLen || payloadLen > maxEventLen {
		return Event{}, fmt.Errorf("wyoming: oversized length in header %q", header)
	}

	jsonBuf := make([]byte, jsonLen+1) // +1 for the trailing newline
	if _, err := io.ReadFull(r, jsonBuf); err != nil {
		return Event{}, fmt.Errorf("wyoming: read event body: %w", err)
	}
	jsonBuf = jsonBuf[:jsonLen]

	var evt Event
	if err := json.Unmarshal(jsonBuf, &evt); err != nil {
		return Event{}, fmt.Errorf("wyoming: unmarshal event: %w", err)
	}

	if payloadLen > 0 {
		evt.Payload = make([]byte, payloadLen)
		if _, err := io.ReadFull(r, evt.Payload); err != nil {
			return Event{}, fmt.Errorf("wyoming: read payload: %w", err)
		}
	}
	return evt, nil
}

// readHeaderLine consumes bytes up to the first newline. A clean EOF
// with no bytes read is reported as io.EOF so session loops can stop.
func readHeaderLine(r io.Reader) (string, error) {
	buf := make([]byte, 0, 64)
	one := make([]byte, 1)
	for {
		if _, err := io.ReadFull(r, one); err != nil {
			if err == io.EOF && len(buf) == 0 {
				return "", io.EOF
			}
			return "", fmt.Errorf("wyoming: read header: %w", err)
		}
		if one[0] == '\n' {
			return string(buf), nil
		}
		buf = append(buf, one[0])
	}
}
