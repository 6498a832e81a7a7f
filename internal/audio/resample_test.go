// ABOUTME: Tests for audio resampler
// ABOUTME: Tests linear interpolation resampling between sample rates
package audio

import (
	"testing"
)

func TestResamplePassThrough(t *testing.T) {
	r := NewResampler(48000, 48000, 2)

	input := []int16{1, 2, 3, 4, 5, 6}
	output := r.Resample(input)

	if len(output) != len(input) {
		t.Fatalf("expected %d samples, got %d", len(input), len(output))
	}
	for i := range input {
		if output[i] != input[i] {
			t.Errorf("sample %d: expected %d, got %d", i, input[i], output[i])
		}
	}
}

func TestResampleUpsampling(t *testing.T) {
	r := NewResampler(8000, 48000, 1)

	input := make([]int16, 100)
	for i := range input {
		input[i] = int16(i * 10)
	}

	output := r.Resample(input)

	// 8k -> 48k is a 6x ratio; allow slack for edge handling.
	if len(output) < 580 || len(output) > 600 {
		t.Errorf("expected ~594 samples, got %d", len(output))
	}

	// A linear ramp must stay monotonic through interpolation.
	for i := 1; i < len(output); i++ {
		if output[i] < output[i-1] {
			t.Fatalf("output not monotonic at %d: %d < %d", i, output[i], output[i-1])
		}
	}
}

func TestResampleDownsampling(t *testing.T) {
	r := NewResampler(48000, 8000, 1)

	input := make([]int16, 600)
	for i := range input {
		input[i] = int16(i)
	}

	output := r.Resample(input)

	if len(output) < 95 || len(output) > 105 {
		t.Errorf("expected ~100 samples, got %d", len(output))
	}
}

func TestResampleEmptyInput(t *testing.T) {
	r := NewResampler(8000, 48000, 2)

	if out := r.Resample(nil); len(out) != 0 {
		t.Errorf("expected no output, got %d samples", len(out))
	}
}
