// ABOUTME: Tests for the playback engine and pull reader
// ABOUTME: Exercises silence padding, shutdown ordering, and idempotent close
package player

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/visorlabs/visor-go/internal/audio"
)

// newTestEngine wires an engine around an unstarted sink so tests run
// without an output device.
func newTestEngine(format audio.Format) *Engine {
	ring := audio.NewRingBuffer(format.SampleRate, format.Channels)
	e := &Engine{
		format: format,
		ring:   ring,
		sink:   NewSink(format, ring),
		ctrl:   make(chan message, controlDepth),
		done:   make(chan struct{}),
	}
	go e.run()
	return e
}

func TestEnginePushReachesRing(t *testing.T) {
	e := newTestEngine(audio.Format{SampleRate: 8000, Channels: 1})
	defer e.Close()

	e.Push([]int16{1, 2, 3, 4})

	deadline := time.Now().Add(time.Second)
	for e.BufferedFrames() != 4 {
		if time.Now().After(deadline) {
			t.Fatalf("expected 4 buffered frames, got %d", e.BufferedFrames())
		}
		time.Sleep(time.Millisecond)
	}
}

func TestEngineCloseIdempotent(t *testing.T) {
	e := newTestEngine(audio.Format{SampleRate: 8000, Channels: 1})

	if err := e.Close(); err != nil {
		t.Fatalf("first close: %v", err)
	}
	if err := e.Close(); err != nil {
		t.Fatalf("second close: %v", err)
	}

	// Push after close must be a no-op, not a panic.
	e.Push([]int16{1, 2})
}

func TestEngineCloseStopsRunLoop(t *testing.T) {
	e := newTestEngine(audio.Format{SampleRate: 8000, Channels: 1})

	e.Close()

	select {
	case <-e.done:
	case <-time.After(time.Second):
		t.Fatal("run loop did not exit after close")
	}
}

func TestPullReaderSilenceOnEmptyBuffer(t *testing.T) {
	format := audio.Format{SampleRate: 8000, Channels: 1}
	ring := audio.NewRingBuffer(format.SampleRate, format.Channels)
	sink := NewSink(format, ring)
	r := &pullReader{sink: sink}

	const frames = 256
	buf := make([]byte, frames*2)

	// Three callback cycles with no data pushed: all silence, no error.
	for cycle := 0; cycle < 3; cycle++ {
		n, err := r.Read(buf)
		if err != nil {
			t.Fatalf("cycle %d: unexpected error %v", cycle, err)
		}
		if n != len(buf) {
			t.Fatalf("cycle %d: expected %d bytes, got %d", cycle, len(buf), n)
		}
		for i := 0; i < n; i++ {
			if buf[i] != 0 {
				t.Fatalf("cycle %d: non-silence byte at %d", cycle, i)
			}
		}
	}

	if sink.Underruns() != 3 {
		t.Errorf("expected 3 underruns, got %d", sink.Underruns())
	}
}

func TestPullReaderPartialFill(t *testing.T) {
	format := audio.Format{SampleRate: 8000, Channels: 1}
	ring := audio.NewRingBuffer(format.SampleRate, format.Channels)
	ring.Write([]int16{100, 200})

	r := &pullReader{sink: NewSink(format, ring)}

	buf := make([]byte, 8) // room for 4 samples
	n, err := r.Read(buf)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 8 {
		t.Fatalf("expected 8 bytes, got %d", n)
	}

	got := []int16{
		int16(binary.LittleEndian.Uint16(buf[0:])),
		int16(binary.LittleEndian.Uint16(buf[2:])),
		int16(binary.LittleEndian.Uint16(buf[4:])),
		int16(binary.LittleEndian.Uint16(buf[6:])),
	}
	want := []int16{100, 200, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("sample %d: expected %d, got %d", i, want[i], got[i])
		}
	}
}

func TestSinkStateTransitions(t *testing.T) {
	format := audio.Format{SampleRate: 8000, Channels: 2}
	sink := NewSink(format, audio.NewRingBuffer(8000, 2))

	if sink.State() != Created {
		t.Fatalf("expected created, got %v", sink.State())
	}

	sink.Close()
	if sink.State() != Stopped {
		t.Fatalf("expected stopped, got %v", sink.State())
	}

	// Stopped is terminal: restarting is refused.
	if err := sink.Start(); err == nil {
		t.Fatal("expected error starting a stopped sink")
	}
}
