// ABOUTME: WebSocket sensor stream receiver with reconnect-and-resume
// ABOUTME: Decodes frame envelopes and maps device timestamps to local time
package stream

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/gorilla/websocket"
	"github.com/visorlabs/visor-go/internal/clock"
	"github.com/visorlabs/visor-go/internal/metrics"
	"github.com/visorlabs/visor-go/internal/protocol"
)

// reconnectDelay spaces restart attempts after a transport error.
const reconnectDelay = time.Second

// runLoop dials url and delivers decoded frame envelopes until the context
// ends. With restart enabled it reconnects after transport errors; the
// device resumes the stream on its side, so a receiver sequence is lazy,
// unbounded, and restartable.
func runLoop(ctx context.Context, name, rawURL string, restart bool, deliver func(protocol.Frame)) {
	offset := clock.NewOffset()

	for {
		err := readStream(ctx, name, rawURL, offset, deliver)
		if ctx.Err() != nil {
			return
		}
		if err != nil {
			log.Printf("Stream %s: %v", name, err)
		}
		if !restart {
			return
		}

		metrics.StreamRestarts.WithLabelValues(name).Inc()
		select {
		case <-time.After(reconnectDelay):
		case <-ctx.Done():
			return
		}
	}
}

// readStream runs one connection until it fails or the context ends.
func readStream(ctx context.Context, name, rawURL string, offset *clock.Offset, deliver func(protocol.Frame)) error {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, rawURL, nil)
	if err != nil {
		return fmt.Errorf("dial %s failed: %w", rawURL, err)
	}
	defer conn.Close()

	// Unblock ReadMessage when the context is cancelled.
	readerDone := make(chan struct{})
	defer close(readerDone)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-readerDone:
		}
	}()

	log.Printf("Stream %s connected: %s", name, rawURL)

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("read failed: %w", err)
		}
		if messageType != websocket.BinaryMessage {
			continue
		}

		frame, err := protocol.DecodeFrame(data)
		if err != nil {
			log.Printf("Stream %s: dropping malformed frame: %v", name, err)
			continue
		}

		offset.Observe(frame.At, time.Now())
		frame.At = offset.ToLocal(frame.At)

		metrics.FramesReceived.WithLabelValues(name).Inc()
		deliver(frame)
	}
}
