// ABOUTME: Audio type definitions
// ABOUTME: Defines the PCM stream format shared across the playback path
package audio

// Format describes a PCM stream: 16-bit signed interleaved samples.
type Format struct {
	SampleRate int
	Channels   int
	BitDepth   int
}

// DefaultBitDepth is the only sample width the playback path handles.
const DefaultBitDepth = 16
