// ABOUTME: Stream synchronizer merging video, gaze, and audio into tuples
// ABOUTME: Anchors each cycle on the freshest video frame
package syncer

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/visorlabs/visor-go/internal/metrics"
	"github.com/visorlabs/visor-go/internal/protocol"
	"github.com/visorlabs/visor-go/internal/stream"
	"golang.org/x/sync/errgroup"
)

// Timestamped is anything carrying a local-clock timestamp.
type Timestamped interface {
	Timestamp() time.Time
}

// Config sets per-stream queue depths. The anchor queue stays shallow (only
// the freshest frame matters); side streams run deeper so closest-match has
// candidates to scan.
type Config struct {
	VideoDepth int
	GazeDepth  int
	AudioDepth int
}

// DefaultConfig returns the standard queue depths.
func DefaultConfig() Config {
	return Config{
		VideoDepth: 4,
		GazeDepth:  64,
		AudioDepth: 16,
	}
}

// Inputs are the three sensor streams to align.
type Inputs struct {
	Video <-chan stream.VideoFrame
	Gaze  <-chan stream.GazeDatum
	Audio <-chan stream.AudioFrame
}

// Matched is one aligned tuple: the anchor frame plus the closest item from
// each side stream.
type Matched struct {
	Video stream.VideoFrame
	Gaze  GazeMatch
	Audio AudioMatch
}

// GazeMatch pairs a gaze datum with its match offset from the anchor.
type GazeMatch struct {
	Datum  stream.GazeDatum
	Offset time.Duration
}

// AudioMatch pairs an audio frame with its match offset from the anchor.
type AudioMatch struct {
	Frame  stream.AudioFrame
	Offset time.Duration
}

// Synchronizer owns one bounded queue per sensor stream, pumps each input
// into its queue, and emits time-aligned tuples until its context ends.
type Synchronizer struct {
	cfg Config

	videoQ *TimedQueue[stream.VideoFrame]
	gazeQ  *TimedQueue[stream.GazeDatum]
	audioQ *TimedQueue[stream.AudioFrame]

	out chan Matched
}

// New creates a synchronizer with the given queue depths.
func New(cfg Config) *Synchronizer {
	return &Synchronizer{
		cfg:    cfg,
		videoQ: NewTimedQueue[stream.VideoFrame](protocol.SensorWorld, cfg.VideoDepth),
		gazeQ:  NewTimedQueue[stream.GazeDatum](protocol.SensorGaze, cfg.GazeDepth),
		audioQ: NewTimedQueue[stream.AudioFrame](protocol.SensorAudio, cfg.AudioDepth),
		out:    make(chan Matched, 4),
	}
}

// Matched returns the aligned tuple output channel. It is closed when Run
// returns.
func (s *Synchronizer) Matched() <-chan Matched {
	return s.out
}

// Run pumps the inputs and drives the alignment cycle until the context is
// cancelled or every input closes. One stream's failure never halts its
// siblings; cancellation propagates to all tasks before Run returns.
func (s *Synchronizer) Run(ctx context.Context, in Inputs) error {
	defer close(s.out)

	g, gctx := errgroup.WithContext(ctx)

	// The alignment cycle stops once every input has closed; otherwise it
	// would wait forever on queues nothing refills.
	alignCtx, stopAlign := context.WithCancel(gctx)
	defer stopAlign()

	var pumps sync.WaitGroup
	pumps.Add(3)
	g.Go(func() error { defer pumps.Done(); return pump(gctx, in.Video, s.videoQ) })
	g.Go(func() error { defer pumps.Done(); return pump(gctx, in.Gaze, s.gazeQ) })
	g.Go(func() error { defer pumps.Done(); return pump(gctx, in.Audio, s.audioQ) })
	go func() {
		pumps.Wait()
		stopAlign()
	}()

	g.Go(func() error {
		if err := s.align(alignCtx); !errors.Is(err, context.Canceled) {
			return err
		}
		return nil
	})

	return g.Wait()
}

// align is the main cycle: freshest anchor, closest side items, emit.
func (s *Synchronizer) align(ctx context.Context) error {
	for {
		anchor, err := s.videoQ.DrainLatest(ctx)
		if err != nil {
			return err
		}

		gaze, err := s.gazeQ.ClosestAtOrAfter(ctx, anchor.At)
		if err != nil {
			return err
		}
		audioItem, err := s.audioQ.ClosestAtOrAfter(ctx, anchor.At)
		if err != nil {
			return err
		}

		m := Matched{
			Video: anchor.Value,
			Gaze: GazeMatch{
				Datum:  gaze.Value,
				Offset: gaze.At.Sub(anchor.At),
			},
			Audio: AudioMatch{
				Frame:  audioItem.Value,
				Offset: audioItem.At.Sub(anchor.At),
			},
		}

		select {
		case s.out <- m:
			metrics.TuplesMatched.Inc()
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// pump moves one sensor stream into its queue, applying drop-oldest
// backpressure. It returns when the input closes or the context ends.
func pump[T Timestamped](ctx context.Context, in <-chan T, q *TimedQueue[T]) error {
	for {
		select {
		case v, ok := <-in:
			if !ok {
				return nil
			}
			q.Put(v.Timestamp(), v)
		case <-ctx.Done():
			// Cancellation is normal shutdown, not a pump failure.
			return nil
		}
	}
}

// Drops reports per-stream drop counts for diagnostics.
func (s *Synchronizer) Drops() (video, gaze, audio int64) {
	return s.videoQ.Drops(), s.gazeQ.Drops(), s.audioQ.Drops()
}
