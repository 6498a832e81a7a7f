// ABOUTME: Opus audio decoder
// ABOUTME: Decodes headset audio payloads to int16 PCM
package audio

import (
	"fmt"

	"gopkg.in/hraban/opus.v2"
)

// maxOpusFrame is the largest frame opus can produce (120ms at 48kHz).
const maxOpusFrame = 5760

// Decoder decodes compressed audio payloads into interleaved int16 samples.
type Decoder interface {
	Decode(data []byte) ([]int16, error)
	Close() error
}

// OpusDecoder decodes Opus payloads.
type OpusDecoder struct {
	decoder *opus.Decoder
	format  Format
	pcm     []int16
}

// NewOpusDecoder creates a decoder for the given stream format.
func NewOpusDecoder(format Format) (*OpusDecoder, error) {
	dec, err := opus.NewDecoder(format.SampleRate, format.Channels)
	if err != nil {
		return nil, fmt.Errorf("failed to create opus decoder: %w", err)
	}

	return &OpusDecoder{
		decoder: dec,
		format:  format,
		pcm:     make([]int16, maxOpusFrame*format.Channels),
	}, nil
}

// Decode converts one Opus packet to PCM samples. The returned slice is
// only valid until the next Decode call.
func (d *OpusDecoder) Decode(data []byte) ([]int16, error) {
	n, err := d.decoder.Decode(data, d.pcm)
	if err != nil {
		return nil, fmt.Errorf("opus decode failed: %w", err)
	}
	return d.pcm[:n*d.format.Channels], nil
}

// Close releases decoder resources.
func (d *OpusDecoder) Close() error {
	return nil
}
