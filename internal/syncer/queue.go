// ABOUTME: Bounded queue of timestamped items with drop-oldest backpressure
// ABOUTME: Supports freshest-item drain and closest-to-reference extraction
package syncer

import (
	"context"
	"log"
	"sync/atomic"
	"time"

	"github.com/visorlabs/visor-go/internal/metrics"
)

// Item is one timestamped queue entry.
type Item[T any] struct {
	At    time.Time
	Value T
}

// TimedQueue is a bounded FIFO of timestamped items. A full queue discards
// its oldest entry on Put, keeping the freshest data for real-time matching.
// Single producer; extraction may block and is bounded by the caller's
// context.
type TimedQueue[T any] struct {
	name  string
	ch    chan Item[T]
	drops atomic.Int64
}

// NewTimedQueue creates a queue holding up to capacity items.
func NewTimedQueue[T any](name string, capacity int) *TimedQueue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &TimedQueue[T]{
		name: name,
		ch:   make(chan Item[T], capacity),
	}
}

// Put enqueues one item. When the queue is full the oldest item is dropped
// and counted; enqueueing never fails and never blocks.
func (q *TimedQueue[T]) Put(at time.Time, v T) {
	it := Item[T]{At: at, Value: v}

	select {
	case q.ch <- it:
		return
	default:
	}

	// Full: make room by discarding the oldest entry.
	select {
	case <-q.ch:
		q.drops.Add(1)
		metrics.QueueDrops.WithLabelValues(q.name).Inc()
		log.Printf("Queue %s full, dropping oldest item", q.name)
	default:
	}

	select {
	case q.ch <- it:
	default:
		// A concurrent consumer refilled the queue; the new item loses.
		q.drops.Add(1)
		metrics.QueueDrops.WithLabelValues(q.name).Inc()
	}
}

// DrainLatest removes every queued item and returns the most recent one.
// It blocks only while the queue is empty; the context bounds the wait.
func (q *TimedQueue[T]) DrainLatest(ctx context.Context) (Item[T], error) {
	var it Item[T]
	select {
	case it = <-q.ch:
	case <-ctx.Done():
		return Item[T]{}, ctx.Err()
	}

	for {
		select {
		case next := <-q.ch:
			it = next
		default:
			return it, nil
		}
	}
}

// ClosestAtOrAfter consumes items until it finds one newer than ref, which
// it returns. If the queue empties first, the most recent consumed item is
// returned as the closest available past match. Blocks only on the initial
// pop; the context bounds the wait.
func (q *TimedQueue[T]) ClosestAtOrAfter(ctx context.Context, ref time.Time) (Item[T], error) {
	var it Item[T]
	select {
	case it = <-q.ch:
	case <-ctx.Done():
		return Item[T]{}, ctx.Err()
	}

	if it.At.After(ref) {
		return it, nil
	}

	for {
		select {
		case next := <-q.ch:
			if next.At.After(ref) {
				return next, nil
			}
			it = next
		default:
			return it, nil
		}
	}
}

// Len returns the current number of queued items.
func (q *TimedQueue[T]) Len() int {
	return len(q.ch)
}

// Drops returns how many items were discarded by backpressure.
func (q *TimedQueue[T]) Drops() int64 {
	return q.drops.Load()
}
