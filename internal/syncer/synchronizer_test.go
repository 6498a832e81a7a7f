// ABOUTME: Tests for the stream synchronizer
// ABOUTME: Covers tuple alignment, shutdown, and input-close handling
package syncer

import (
	"context"
	"testing"
	"time"

	"github.com/visorlabs/visor-go/internal/stream"
)

type feeds struct {
	video chan stream.VideoFrame
	gaze  chan stream.GazeDatum
	audio chan stream.AudioFrame
}

func newFeeds() feeds {
	return feeds{
		video: make(chan stream.VideoFrame, 16),
		gaze:  make(chan stream.GazeDatum, 64),
		audio: make(chan stream.AudioFrame, 16),
	}
}

func (f feeds) inputs() Inputs {
	return Inputs{Video: f.video, Gaze: f.gaze, Audio: f.audio}
}

func (f feeds) closeAll() {
	close(f.video)
	close(f.gaze)
	close(f.audio)
}

func TestSynchronizerAlignsTuple(t *testing.T) {
	s := New(DefaultConfig())
	f := newFeeds()

	// Pre-fill the queues so the first alignment cycle sees a settled
	// state regardless of pump scheduling.
	anchor := ts(100)
	for _, g := range []stream.GazeDatum{
		{At: ts(95), X: 1}, {At: ts(98), X: 2}, {At: ts(105), X: 3}, {At: ts(110), X: 4},
	} {
		s.gazeQ.Put(g.At, g)
	}
	s.audioQ.Put(ts(99), stream.AudioFrame{At: ts(99)})
	s.audioQ.Put(ts(101), stream.AudioFrame{At: ts(101)})
	s.videoQ.Put(anchor, stream.VideoFrame{At: anchor, Payload: []byte{1}})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan error, 1)
	out := s.Matched()
	go func() { done <- s.Run(ctx, f.inputs()) }()

	select {
	case m := <-out:
		if !m.Video.At.Equal(anchor) {
			t.Errorf("expected anchor at %v, got %v", anchor, m.Video.At)
		}
		if m.Gaze.Datum.X != 3 {
			t.Errorf("expected gaze sample 3 (ts 105), got %v", m.Gaze.Datum.X)
		}
		if m.Gaze.Offset != 5*time.Second {
			t.Errorf("expected 5s gaze offset, got %v", m.Gaze.Offset)
		}
		if !m.Audio.Frame.At.Equal(ts(101)) {
			t.Errorf("expected audio frame at 101, got %v", m.Audio.Frame.At)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tuple emitted")
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected run error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestSynchronizerAnchorUsesFreshestFrame(t *testing.T) {
	s := New(DefaultConfig())
	f := newFeeds()

	s.videoQ.Put(ts(100), stream.VideoFrame{At: ts(100)})
	s.videoQ.Put(ts(101), stream.VideoFrame{At: ts(101)})
	s.videoQ.Put(ts(102), stream.VideoFrame{At: ts(102)})
	s.gazeQ.Put(ts(103), stream.GazeDatum{At: ts(103)})
	s.audioQ.Put(ts(103), stream.AudioFrame{At: ts(103)})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := s.Matched()
	go s.Run(ctx, f.inputs())

	select {
	case m := <-out:
		if !m.Video.At.Equal(ts(102)) {
			t.Errorf("expected freshest anchor 102, got %v", m.Video.At)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("no tuple emitted")
	}
}

func TestSynchronizerStopsWhenInputsClose(t *testing.T) {
	s := New(DefaultConfig())
	f := newFeeds()
	f.closeAll()

	done := make(chan error, 1)
	go func() { done <- s.Run(context.Background(), f.inputs()) }()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("unexpected run error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after inputs closed")
	}
}

func TestSynchronizerOutputClosedAfterRun(t *testing.T) {
	s := New(DefaultConfig())
	f := newFeeds()

	ctx, cancel := context.WithCancel(context.Background())
	out := s.Matched()

	done := make(chan error, 1)
	go func() { done <- s.Run(ctx, f.inputs()) }()

	cancel()
	<-done

	select {
	case _, ok := <-out:
		if ok {
			t.Error("expected closed output channel")
		}
	case <-time.After(time.Second):
		t.Fatal("output channel not closed")
	}
}
