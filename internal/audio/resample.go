// ABOUTME: Simple linear resampler for converting audio sample rates
// ABOUTME: Brings headset-native audio up to the playback session rate
package audio

// Resampler performs linear interpolation between sample rates. State is
// kept across calls so chunk boundaries do not click.
type Resampler struct {
	inputRate  int
	outputRate int
	channels   int
	ratio      float64
	position   float64
}

// NewResampler creates a resampler between the given rates.
func NewResampler(inputRate, outputRate, channels int) *Resampler {
	return &Resampler{
		inputRate:  inputRate,
		outputRate: outputRate,
		channels:   channels,
		ratio:      float64(inputRate) / float64(outputRate),
	}
}

// Resample converts interleaved input samples at inputRate to outputRate.
// A pass-through rate pair returns the input unchanged.
func (r *Resampler) Resample(input []int16) []int16 {
	if r.inputRate == r.outputRate || len(input) == 0 {
		return input
	}

	inputFrames := len(input) / r.channels
	outputFrames := int(float64(inputFrames)/r.ratio) + 1
	output := make([]int16, 0, outputFrames*r.channels)

	for {
		inputIdx := int(r.position)
		if inputIdx >= inputFrames-1 {
			break
		}
		frac := r.position - float64(inputIdx)

		for ch := 0; ch < r.channels; ch++ {
			s1 := input[inputIdx*r.channels+ch]
			s2 := input[(inputIdx+1)*r.channels+ch]
			output = append(output, int16(float64(s1)*(1.0-frac)+float64(s2)*frac))
		}

		r.position += r.ratio
	}

	// Keep only the fractional part for the next chunk.
	r.position -= float64(int(r.position))

	return output
}

// Reset clears interpolation state.
func (r *Resampler) Reset() {
	r.position = 0.0
}
