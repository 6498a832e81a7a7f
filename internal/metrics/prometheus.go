// ABOUTME: Prometheus metrics for the realtime feed
// ABOUTME: Tracks playback underruns, queue drops, and stream throughput
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlaybackUnderruns counts pull callbacks that had to emit silence for
	// part or all of the requested frames.
	PlaybackUnderruns = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visor_playback_underruns_total",
		Help: "Total number of audio callbacks padded with silence",
	})

	// PlaybackBufferFrames reports the current ring buffer fill level.
	PlaybackBufferFrames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "visor_playback_buffer_frames",
		Help: "Current number of buffered audio frames awaiting playback",
	})

	// ChunksPushed counts sample chunks handed to the playback engine.
	ChunksPushed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visor_playback_chunks_pushed_total",
		Help: "Total number of sample chunks pushed to the playback engine",
	})

	// QueueDrops counts items discarded by drop-oldest backpressure,
	// labeled by sensor stream.
	QueueDrops = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visor_queue_dropped_total",
		Help: "Total number of timestamped items dropped from full queues",
	}, []string{"stream"})

	// FramesReceived counts sensor frames delivered by the transport,
	// labeled by sensor stream.
	FramesReceived = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visor_frames_received_total",
		Help: "Total number of sensor frames received",
	}, []string{"stream"})

	// TuplesMatched counts aligned tuples emitted by the synchronizer.
	TuplesMatched = promauto.NewCounter(prometheus.CounterOpts{
		Name: "visor_tuples_matched_total",
		Help: "Total number of time-aligned tuples emitted",
	})

	// StreamRestarts counts receiver reconnects after transport errors.
	StreamRestarts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "visor_stream_restarts_total",
		Help: "Total number of sensor stream reconnect attempts",
	}, []string{"stream"})
)
