// ABOUTME: Playback engine hosting the audio sink on a dedicated goroutine
// ABOUTME: Producers cross the boundary via a Data/Stop control channel only
package player

import (
	"log"
	"sync"
	"time"

	"github.com/visorlabs/visor-go/internal/audio"
	"github.com/visorlabs/visor-go/internal/metrics"
)

const (
	// controlDepth bounds the producer-side control channel.
	controlDepth = 64

	// closeTimeout bounds how long Close waits for the playback
	// goroutine to drain and exit.
	closeTimeout = 2 * time.Second
)

// message is one control-channel entry: a sample chunk, or the stop sentinel.
type message struct {
	samples []int16
	stop    bool
}

// Engine runs one Sink and one RingBuffer on a dedicated goroutine, isolated
// from producer stalls. The ring buffer never leaves that goroutine's
// ownership; producers only touch the control channel.
type Engine struct {
	format audio.Format
	ring   *audio.RingBuffer
	sink   *Sink

	ctrl chan message
	done chan struct{}

	closeOnce sync.Once
	pushMu    sync.Mutex
	closed    bool
}

// NewEngine opens the output device for the given format and starts the
// playback goroutine. The ring holds one second of audio; stream parameters
// are fixed for the session by the first frame that produced this format.
func NewEngine(format audio.Format) (*Engine, error) {
	if format.BitDepth == 0 {
		format.BitDepth = audio.DefaultBitDepth
	}

	ring := audio.NewRingBuffer(format.SampleRate, format.Channels)
	sink := NewSink(format, ring)

	if err := sink.Start(); err != nil {
		// No partial state: the goroutine never started.
		return nil, err
	}

	e := &Engine{
		format: format,
		ring:   ring,
		sink:   sink,
		ctrl:   make(chan message, controlDepth),
		done:   make(chan struct{}),
	}

	go e.run()

	return e, nil
}

// run is the isolated playback loop. It owns the ring buffer and the sink;
// it exits on the stop sentinel and releases the device on the way out.
func (e *Engine) run() {
	defer close(e.done)
	defer e.sink.Close()

	for msg := range e.ctrl {
		if msg.stop {
			return
		}
		e.ring.Write(msg.samples)
	}
}

// Push hands a chunk of interleaved samples to the playback goroutine. It
// blocks only while the bounded control channel is full; producers needing
// hard non-blocking behavior apply backpressure a layer above.
func (e *Engine) Push(samples []int16) {
	e.pushMu.Lock()
	defer e.pushMu.Unlock()

	if e.closed {
		return
	}
	e.ctrl <- message{samples: samples}
	metrics.ChunksPushed.Inc()
}

// Close signals shutdown, unblocks the playback loop with the stop sentinel,
// and waits for the goroutine to exit. A missed join deadline is logged, not
// returned; the caller proceeds with cleanup regardless. Idempotent.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.pushMu.Lock()
		e.closed = true
		e.ctrl <- message{stop: true}
		close(e.ctrl)
		e.pushMu.Unlock()

		select {
		case <-e.done:
			log.Printf("Playback engine closed")
		case <-time.After(closeTimeout):
			log.Printf("Playback engine did not terminate within %v", closeTimeout)
		}
	})
	return nil
}

// Format returns the fixed session format.
func (e *Engine) Format() audio.Format {
	return e.format
}

// BufferedFrames returns the current ring buffer fill in frames.
func (e *Engine) BufferedFrames() int {
	return e.ring.Len()
}

// Underruns returns how many device pulls were padded with silence.
func (e *Engine) Underruns() int64 {
	return e.sink.Underruns()
}
