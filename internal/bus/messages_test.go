package bus

import (
	"encoding/json"
	"testing"
)

// The bus decoders must never panic on malformed or truncated JSON — they
// return an error for the dispatch loop to log and continue past.
func TestDecodeMalformedJSONNeverPanics(t *testing.T) {
	malformed := [][]byte{
		nil,
		[]byte(``),
		[]byte(`{`),
		[]byte(`not json at all`),
		[]byte(`{"timestamp": }`),
	}

	for _, payload := range malformed {
		if _, err := DecodeCapture(payload); err == nil {
			t.Errorf("DecodeCapture(%q): expected error", payload)
		}
		if _, err := DecodeMetadata(payload); err == nil {
			t.Errorf("DecodeMetadata(%q): expected error", payload)
		}
		if _, err := DecodeClipStatus(payload); err == nil {
			t.Errorf("DecodeClipStatus(%q): expected error", payload)
		}
	}
}

func TestDecodeMetadataRoundTrip(t *testing.T) {
	raw := []byte(`{
		"timestamp": "100",
		"event_type": 4,
		"motionScore": 0.92,
		"currentTime": "2026-07-29T10:00:00Z",
		"boundingBox": {"X": 1, "Y": 2, "W": 3, "H": 4},
		"objectBoxs": [{"X": 0, "Y": 0, "W": 10, "H": 10}],
		"motionFlags": 8
	}`)

	m, err := DecodeMetadata(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if m.EventType != 4 {
		t.Errorf("event_type = %d, want 4", m.EventType)
	}
	if m.BoundingBox != (RawBox{X: 1, Y: 2, W: 3, H: 4}) {
		t.Errorf("boundingBox = %+v", m.BoundingBox)
	}
	if len(m.ObjectBoxes) != 1 {
		t.Errorf("objectBoxs len = %d, want 1", len(m.ObjectBoxes))
	}
	if m.MotionFlags != 8 {
		t.Errorf("motionFlags = %d, want 8", m.MotionFlags)
	}
}

func TestEncodeStatus(t *testing.T) {
	payload, err := EncodeStatus("start")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	var m StatusMessage
	if err := json.Unmarshal(payload, &m); err != nil {
		t.Fatalf("decode back: %v", err)
	}
	if m.Status != "start" {
		t.Errorf("status = %q, want start", m.Status)
	}
}
