// ABOUTME: Audio stream receiver
// ABOUTME: Delivers timestamped encoded audio frames with decode helpers
package stream

import (
	"context"
	"fmt"
	"time"

	"github.com/visorlabs/visor-go/internal/audio"
	"github.com/visorlabs/visor-go/internal/protocol"
)

// AudioFrame is one timestamped encoded audio frame. Format describes the
// device-native rate and channel count the payload decodes to.
type AudioFrame struct {
	At      time.Time
	Format  audio.Format
	Payload []byte
}

// Timestamp returns the frame's local-clock timestamp.
func (f AudioFrame) Timestamp() time.Time { return f.At }

// Samples decodes the frame and resamples it to the playback session rate.
// The decoder and resampler are stateful and must be reused across frames
// of one stream. The returned slice is owned by the caller; the decoder's
// scratch buffer never escapes.
func (f AudioFrame) Samples(dec audio.Decoder, rs *audio.Resampler) ([]int16, error) {
	pcm, err := dec.Decode(f.Payload)
	if err != nil {
		return nil, fmt.Errorf("audio frame decode: %w", err)
	}
	out := rs.Resample(pcm)
	owned := make([]int16, len(out))
	copy(owned, out)
	return owned, nil
}

// ReceiveAudioFrames streams audio frames from url until the context ends.
// The channel is closed when the receiver stops.
func ReceiveAudioFrames(ctx context.Context, url string, format audio.Format, restart bool) <-chan AudioFrame {
	out := make(chan AudioFrame, 16)

	go func() {
		defer close(out)
		runLoop(ctx, protocol.SensorAudio, url, restart, func(fr protocol.Frame) {
			select {
			case out <- AudioFrame{At: fr.At, Format: format, Payload: fr.Payload}:
			case <-ctx.Done():
			}
		})
	}()

	return out
}
