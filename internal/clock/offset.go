// ABOUTME: Device-to-local clock offset estimation
// ABOUTME: Smooths per-frame arrival offsets to map device timestamps
package clock

import (
	"log"
	"sync"
	"time"
)

// Offset estimates the offset between the headset clock and the local wall
// clock from frame arrival times. Arrival includes network delay, so the
// estimate is biased late by transit time; for overlay alignment that bias
// is shared by all streams and cancels out.
type Offset struct {
	mu            sync.Mutex
	offset        time.Duration // local - device
	sampleCount   int
	smoothingRate float64
}

// maxResidual rejects samples that disagree wildly with the current
// estimate (network stall or device clock jump).
const maxResidual = 500 * time.Millisecond

// NewOffset creates an estimator with a 10% smoothing rate.
func NewOffset() *Offset {
	return &Offset{smoothingRate: 0.1}
}

// Observe feeds one (device timestamp, local arrival) pair.
func (o *Offset) Observe(deviceTime, localTime time.Time) {
	measured := localTime.Sub(deviceTime)

	o.mu.Lock()
	defer o.mu.Unlock()

	if o.sampleCount == 0 {
		o.offset = measured
		o.sampleCount++
		log.Printf("Clock offset initialized: %v", o.offset)
		return
	}

	residual := measured - o.offset
	if residual > maxResidual || residual < -maxResidual {
		log.Printf("Discarding clock sample: residual %v", residual)
		return
	}

	o.offset += time.Duration(o.smoothingRate * float64(residual))
	o.sampleCount++
}

// ToLocal maps a device timestamp into the local clock's reference frame.
// Before the first observation it returns the timestamp unchanged.
func (o *Offset) ToLocal(deviceTime time.Time) time.Time {
	o.mu.Lock()
	defer o.mu.Unlock()
	return deviceTime.Add(o.offset)
}

// Current returns the present offset estimate and sample count.
func (o *Offset) Current() (time.Duration, int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.offset, o.sampleCount
}
