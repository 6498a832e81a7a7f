// ABOUTME: Per-sensor capability handles
// ABOUTME: Concrete video, gaze, and audio variants over one stream handle
package device

import (
	"context"
	"sync"

	"github.com/visorlabs/visor-go/internal/audio"
	"github.com/visorlabs/visor-go/internal/protocol"
	"github.com/visorlabs/visor-go/internal/stream"
)

// Sensor is the capability surface shared by every sensor kind. Frame
// reception is typed per kind on the concrete variants.
type Sensor interface {
	Kind() string
	Connected() bool
	Disconnect() error
}

// sensorHandle is the state common to all sensor kinds. The handle owns the
// cancellation for its stream; no global registry is involved.
type sensorHandle struct {
	info protocol.Sensor
	url  string

	mu     sync.Mutex
	cancel context.CancelFunc
}

func newHandle(info protocol.Sensor, url string) sensorHandle {
	return sensorHandle{info: info, url: url}
}

// Kind returns the sensor stream name.
func (h *sensorHandle) Kind() string { return h.info.Name }

// Connected reports whether the device advertises the sensor as live.
func (h *sensorHandle) Connected() bool { return h.info.Connected }

// URL returns the sensor's stream endpoint.
func (h *sensorHandle) URL() string { return h.url }

// Disconnect stops the sensor's stream, if one is running.
func (h *sensorHandle) Disconnect() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.cancel != nil {
		h.cancel()
		h.cancel = nil
	}
	return nil
}

// scoped derives the stream context and retains its cancellation.
func (h *sensorHandle) scoped(ctx context.Context) context.Context {
	h.mu.Lock()
	defer h.mu.Unlock()
	ctx, h.cancel = context.WithCancel(ctx)
	return ctx
}

// VideoSensor streams scene camera frames.
type VideoSensor struct {
	sensorHandle
}

// Frames starts the video stream. With restart enabled the receiver
// reconnects and resumes after transport errors.
func (s *VideoSensor) Frames(ctx context.Context, restart bool) <-chan stream.VideoFrame {
	return stream.ReceiveVideoFrames(s.scoped(ctx), s.url, restart)
}

// GazeSensor streams gaze samples.
type GazeSensor struct {
	sensorHandle
}

// Frames starts the gaze stream.
func (s *GazeSensor) Frames(ctx context.Context, restart bool) <-chan stream.GazeDatum {
	return stream.ReceiveGazeData(s.scoped(ctx), s.url, restart)
}

// AudioSensor streams encoded audio frames.
type AudioSensor struct {
	sensorHandle
}

// Format returns the device-native audio format.
func (s *AudioSensor) Format() audio.Format {
	return audio.Format{
		SampleRate: s.info.SampleRate,
		Channels:   s.info.Channels,
		BitDepth:   audio.DefaultBitDepth,
	}
}

// Frames starts the audio stream.
func (s *AudioSensor) Frames(ctx context.Context, restart bool) <-chan stream.AudioFrame {
	return stream.ReceiveAudioFrames(s.scoped(ctx), s.url, s.Format(), restart)
}
