// ABOUTME: Tests for the headset wire format
// ABOUTME: Covers frame envelope and gaze payload codecs
package protocol

import (
	"testing"
	"time"
)

func TestFrameEnvelope(t *testing.T) {
	at := time.Unix(1700000000, 123456789)
	payload := []byte{0xde, 0xad, 0xbe, 0xef}

	frame, err := DecodeFrame(EncodeFrame(at, payload))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}

	if !frame.At.Equal(at) {
		t.Errorf("expected timestamp %v, got %v", at, frame.At)
	}
	if len(frame.Payload) != len(payload) {
		t.Fatalf("expected %d payload bytes, got %d", len(payload), len(frame.Payload))
	}
	for i := range payload {
		if frame.Payload[i] != payload[i] {
			t.Errorf("payload byte %d: expected %x, got %x", i, payload[i], frame.Payload[i])
		}
	}
}

func TestDecodeFrameRejectsShortMessage(t *testing.T) {
	if _, err := DecodeFrame([]byte{0, 1, 2}); err == nil {
		t.Error("expected error for short frame")
	}
}

func TestDecodeFrameRejectsUnknownType(t *testing.T) {
	buf := EncodeFrame(time.Now(), []byte{1})
	buf[0] = 0x7f
	if _, err := DecodeFrame(buf); err == nil {
		t.Error("expected error for unknown frame type")
	}
}

func TestGazePayload(t *testing.T) {
	x, y, worn, err := DecodeGaze(EncodeGaze(812.5, 604.25, true))
	if err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if x != 812.5 || y != 604.25 {
		t.Errorf("expected (812.5, 604.25), got (%v, %v)", x, y)
	}
	if !worn {
		t.Error("expected worn flag set")
	}
}

func TestDecodeGazeRejectsShortPayload(t *testing.T) {
	if _, _, _, err := DecodeGaze([]byte{1, 2, 3}); err == nil {
		t.Error("expected error for short gaze payload")
	}
}
