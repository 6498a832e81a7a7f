// ABOUTME: Audio sink using the oto library
// ABOUTME: Pulls samples from a ring buffer, padding underruns with silence
package player

import (
	"encoding/binary"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	"github.com/ebitengine/oto/v3"
	"github.com/visorlabs/visor-go/internal/audio"
	"github.com/visorlabs/visor-go/internal/metrics"
)

// ErrDeviceUnavailable indicates no hardware output device could be opened.
var ErrDeviceUnavailable = errors.New("audio output device unavailable")

// State tracks the sink lifecycle. Stopped is terminal.
type State int

const (
	Created State = iota
	Started
	Stopped
)

// Sink owns a hardware output stream bound to a fixed format. The device
// driver pulls samples through an io.Reader over the ring buffer; the pull
// path never blocks and never returns an error, converting any shortfall
// into silence.
type Sink struct {
	format audio.Format
	ring   *audio.RingBuffer

	mu     sync.Mutex
	state  State
	otoCtx *oto.Context
	player *oto.Player

	underruns atomic.Int64
}

// NewSink creates a sink reading from ring at the given format.
func NewSink(format audio.Format, ring *audio.RingBuffer) *Sink {
	return &Sink{
		format: format,
		ring:   ring,
	}
}

// Start opens the output device and begins pulling samples.
func (s *Sink) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Created {
		return fmt.Errorf("sink already %v", s.state)
	}

	op := &oto.NewContextOptions{
		SampleRate:   s.format.SampleRate,
		ChannelCount: s.format.Channels,
		Format:       oto.FormatSignedInt16LE,
	}

	ctx, readyChan, err := oto.NewContext(op)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDeviceUnavailable, err)
	}

	<-readyChan

	s.otoCtx = ctx
	s.player = ctx.NewPlayer(&pullReader{sink: s})
	s.player.Play()
	s.state = Started

	log.Printf("Audio sink started: %dHz, %d channels",
		s.format.SampleRate, s.format.Channels)

	return nil
}

// Close releases the output device. Safe to call more than once.
func (s *Sink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != Started {
		s.state = Stopped
		return
	}

	if err := s.player.Close(); err != nil {
		log.Printf("Audio player close: %v", err)
	}
	s.otoCtx.Suspend()
	s.state = Stopped

	log.Printf("Audio sink stopped (%d underruns)", s.underruns.Load())
}

// Underruns returns how many pulls were padded with silence.
func (s *Sink) Underruns() int64 {
	return s.underruns.Load()
}

// State returns the current lifecycle state.
func (s *Sink) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (st State) String() string {
	switch st {
	case Created:
		return "created"
	case Started:
		return "started"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// pullReader adapts the ring buffer to the io.Reader the driver pulls from.
// It runs on the audio thread: no blocking, no steady-state allocation.
type pullReader struct {
	sink    *Sink
	scratch []int16
}

// maxPullFrames bounds the scratch buffer handed to the ring per pull.
const maxPullFrames = 8192

func (p *pullReader) Read(buf []byte) (int, error) {
	channels := p.sink.format.Channels
	want := len(buf) / 2 // int16 samples requested
	want -= want % channels
	if want == 0 {
		return 0, nil
	}
	if want > maxPullFrames*channels {
		want = maxPullFrames * channels
	}

	if cap(p.scratch) < want {
		p.scratch = make([]int16, want)
	}
	scratch := p.scratch[:want]

	got := p.sink.ring.Read(scratch)
	if got < want {
		// Underrun: the producer fell behind. Silence, not an error.
		for i := got; i < want; i++ {
			scratch[i] = 0
		}
		p.sink.underruns.Add(1)
		metrics.PlaybackUnderruns.Inc()
	}

	for i, s := range scratch {
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(s))
	}
	metrics.PlaybackBufferFrames.Set(float64(p.sink.ring.Len()))

	return want * 2, nil
}
