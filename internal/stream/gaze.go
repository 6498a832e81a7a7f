// ABOUTME: Gaze stream receiver
// ABOUTME: Delivers timestamped gaze positions in scene camera pixels
package stream

import (
	"context"
	"log"
	"time"

	"github.com/visorlabs/visor-go/internal/protocol"
)

// GazeDatum is one timestamped gaze sample. X and Y are scene camera pixel
// coordinates; Worn reports whether the headset detected a wearer.
type GazeDatum struct {
	At   time.Time
	X    float32
	Y    float32
	Worn bool
}

// Timestamp returns the datum's local-clock timestamp.
func (g GazeDatum) Timestamp() time.Time { return g.At }

// ReceiveGazeData streams gaze samples from url until the context ends.
// The channel is closed when the receiver stops.
func ReceiveGazeData(ctx context.Context, url string, restart bool) <-chan GazeDatum {
	out := make(chan GazeDatum, 32)

	go func() {
		defer close(out)
		runLoop(ctx, protocol.SensorGaze, url, restart, func(fr protocol.Frame) {
			x, y, worn, err := protocol.DecodeGaze(fr.Payload)
			if err != nil {
				log.Printf("Gaze stream: dropping sample: %v", err)
				return
			}
			select {
			case out <- GazeDatum{At: fr.At, X: x, Y: y, Worn: worn}:
			case <-ctx.Done():
			}
		})
	}()

	return out
}
