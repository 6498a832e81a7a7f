// ABOUTME: Fixed-capacity ring buffer for interleaved int16 samples
// ABOUTME: Single writer, single reader, overwrites oldest data when full
package audio

import "sync"

// RingBuffer is a fixed-capacity circular store of interleaved 16-bit
// samples. Capacity is counted in frames (one sample per channel). When a
// write would exceed the free space, the oldest frames are overwritten; the
// reader always sees the most recent data. Read never blocks and never
// allocates, so it is safe to call from the audio output's pull path.
type RingBuffer struct {
	mu       sync.Mutex
	buf      []int16
	capacity int // frames
	channels int
	write    int // frame index
	read     int // frame index
	size     int // occupied frames
}

// NewRingBuffer creates an empty buffer holding up to capacity frames.
func NewRingBuffer(capacity, channels int) *RingBuffer {
	if capacity < 1 {
		capacity = 1
	}
	if channels < 1 {
		channels = 1
	}
	return &RingBuffer{
		buf:      make([]int16, capacity*channels),
		capacity: capacity,
		channels: channels,
	}
}

// Write appends interleaved samples, overwriting the oldest frames if the
// buffer is full. Overflow is not an error: the buffer keeps the most recent
// capacity frames. Trailing samples that do not form a whole frame are
// ignored.
func (r *RingBuffer) Write(samples []int16) {
	frames := len(samples) / r.channels
	if frames == 0 {
		return
	}
	if frames > r.capacity {
		// Only the last capacity frames can ever be read back.
		samples = samples[(frames-r.capacity)*r.channels:]
		frames = r.capacity
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	tail := r.capacity - r.write
	if frames <= tail {
		copy(r.buf[r.write*r.channels:], samples[:frames*r.channels])
	} else {
		copy(r.buf[r.write*r.channels:], samples[:tail*r.channels])
		copy(r.buf, samples[tail*r.channels:frames*r.channels])
	}

	r.write = (r.write + frames) % r.capacity
	r.size += frames
	if r.size >= r.capacity {
		r.size = r.capacity
		// Full: the reader must stay exactly one lap behind.
		r.read = r.write
	}
}

// Read copies up to len(dst) samples out of the buffer, advancing the read
// cursor. It returns the number of samples copied (a whole number of frames,
// zero if the buffer is empty). Callers fill any shortfall with silence.
func (r *RingBuffer) Read(dst []int16) int {
	frames := len(dst) / r.channels

	r.mu.Lock()
	defer r.mu.Unlock()

	if frames > r.size {
		frames = r.size
	}
	if frames == 0 {
		return 0
	}

	tail := r.capacity - r.read
	if frames <= tail {
		copy(dst, r.buf[r.read*r.channels:(r.read+frames)*r.channels])
	} else {
		n := copy(dst, r.buf[r.read*r.channels:])
		copy(dst[n:], r.buf[:(frames-tail)*r.channels])
	}

	r.read = (r.read + frames) % r.capacity
	r.size -= frames
	return frames * r.channels
}

// Len returns the number of occupied frames.
func (r *RingBuffer) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.size
}

// Cap returns the buffer capacity in frames.
func (r *RingBuffer) Cap() int {
	return r.capacity
}

// Channels returns the interleave width.
func (r *RingBuffer) Channels() int {
	return r.channels
}
