// ABOUTME: Scene camera stream receiver
// ABOUTME: Delivers timestamped encoded video frames
package stream

import (
	"context"
	"time"

	"github.com/visorlabs/visor-go/internal/protocol"
)

// VideoFrame is one timestamped encoded scene camera frame. The payload is
// opaque to this layer; decoding belongs to the renderer.
type VideoFrame struct {
	At      time.Time
	Payload []byte
}

// Timestamp returns the frame's local-clock timestamp.
func (f VideoFrame) Timestamp() time.Time { return f.At }

// ReceiveVideoFrames streams scene camera frames from url until the context
// ends. The channel is closed when the receiver stops.
func ReceiveVideoFrames(ctx context.Context, url string, restart bool) <-chan VideoFrame {
	out := make(chan VideoFrame, 8)

	go func() {
		defer close(out)
		runLoop(ctx, protocol.SensorWorld, url, restart, func(fr protocol.Frame) {
			select {
			case out <- VideoFrame{At: fr.At, Payload: fr.Payload}:
			case <-ctx.Done():
			}
		})
	}()

	return out
}
