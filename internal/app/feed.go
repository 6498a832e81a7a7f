// ABOUTME: Live feed application orchestration
// ABOUTME: Wires discovery, device sensors, synchronizer, and playback
package app

import (
	"context"
	"fmt"
	"log"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/visorlabs/visor-go/internal/audio"
	"github.com/visorlabs/visor-go/internal/device"
	"github.com/visorlabs/visor-go/internal/discovery"
	"github.com/visorlabs/visor-go/internal/player"
	"github.com/visorlabs/visor-go/internal/stream"
	"github.com/visorlabs/visor-go/internal/syncer"
	"github.com/visorlabs/visor-go/internal/ui"
)

// Config holds feed configuration.
type Config struct {
	// DeviceAddr is host:port of the headset; empty means discover via mDNS.
	DeviceAddr string

	// DiscoveryTimeout bounds the mDNS search.
	DiscoveryTimeout time.Duration

	// Restart enables reconnect-and-resume on sensor streams.
	Restart bool

	// MetricsAddr serves Prometheus metrics when non-empty.
	MetricsAddr string

	// NoTUI disables the terminal status display.
	NoTUI bool
}

// Feed runs one live feed session against one headset.
type Feed struct {
	config Config

	device *device.Device
	engine atomic.Pointer[player.Engine]
	sync   *syncer.Synchronizer

	tuiProg *tea.Program

	tuples    atomic.Int64
	lastGazeX atomic.Uint32 // float32 bits
	lastGazeY atomic.Uint32 // float32 bits

	ctx    context.Context
	cancel context.CancelFunc
}

// New creates a feed application.
func New(config Config) *Feed {
	if config.DiscoveryTimeout == 0 {
		config.DiscoveryTimeout = 10 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Feed{
		config: config,
		sync:   syncer.New(syncer.DefaultConfig()),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Run connects and streams until the context ends or the TUI quits.
func (f *Feed) Run() error {
	defer f.cancel()

	if f.config.MetricsAddr != "" {
		go f.serveMetrics()
	}

	host, port, err := f.resolveDevice()
	if err != nil {
		return err
	}

	dev, err := device.Connect(f.ctx, host, port)
	if err != nil {
		return fmt.Errorf("device connection failed: %w", err)
	}
	f.device = dev
	defer dev.Close()

	videoSensor, err := dev.VideoSensor()
	if err != nil {
		return err
	}
	gazeSensor, err := dev.GazeSensor()
	if err != nil {
		return err
	}
	audioSensor, err := dev.AudioSensor()
	if err != nil {
		return err
	}

	videoCh := videoSensor.Frames(f.ctx, f.config.Restart)
	gazeCh := gazeSensor.Frames(f.ctx, f.config.Restart)
	audioCh := audioSensor.Frames(f.ctx, f.config.Restart)

	// Audio frames feed playback and alignment both.
	audioSyncCh := make(chan stream.AudioFrame, 16)
	go f.runAudio(audioCh, audioSyncCh)

	go f.consumeMatched()

	runErr := make(chan error, 1)
	go func() {
		runErr <- f.sync.Run(f.ctx, syncer.Inputs{
			Video: videoCh,
			Gaze:  gazeCh,
			Audio: audioSyncCh,
		})
	}()

	if !f.config.NoTUI {
		f.tuiProg = ui.Run()
		go f.pushStatus()

		if _, err := f.tuiProg.Run(); err != nil {
			log.Printf("TUI error: %v", err)
		}
		// TUI quit ends the session.
		f.cancel()
	}

	err = <-runErr
	f.shutdown()
	return err
}

// resolveDevice finds a headset address via flag or mDNS.
func (f *Feed) resolveDevice() (string, int, error) {
	if f.config.DeviceAddr != "" {
		host, portStr, err := net.SplitHostPort(f.config.DeviceAddr)
		if err != nil {
			return "", 0, fmt.Errorf("invalid device address %q: %w", f.config.DeviceAddr, err)
		}
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return "", 0, fmt.Errorf("invalid device port %q: %w", portStr, err)
		}
		return host, port, nil
	}

	log.Printf("Searching for a headset...")
	dev, err := discovery.DiscoverOne(f.config.DiscoveryTimeout)
	if err != nil {
		return "", 0, fmt.Errorf("no headset found within %v", f.config.DiscoveryTimeout)
	}
	return dev.Host, dev.Port, nil
}

// runAudio drives the playback path: first frame fixes the session format
// and opens the engine, every frame is decoded, resampled, and pushed.
// Frames are forwarded to the synchronizer as well.
func (f *Feed) runAudio(in <-chan stream.AudioFrame, syncOut chan<- stream.AudioFrame) {
	defer close(syncOut)

	var (
		dec   audio.Decoder
		rs    *audio.Resampler
		first = true
	)

	for {
		var frame stream.AudioFrame
		var ok bool
		select {
		case frame, ok = <-in:
			if !ok {
				return
			}
		case <-f.ctx.Done():
			return
		}

		if first {
			first = false
			engine, err := player.NewEngine(frame.Format)
			if err != nil {
				// No output device: keep aligning, skip playback.
				log.Printf("Playback disabled: %v", err)
			} else {
				f.engine.Store(engine)
				log.Printf("Playback session: %dHz, %d channels",
					frame.Format.SampleRate, frame.Format.Channels)
			}

			d, err := audio.NewOpusDecoder(frame.Format)
			if err != nil {
				log.Printf("Audio decode disabled: %v", err)
			} else {
				dec = d
			}
			rs = audio.NewResampler(frame.Format.SampleRate, frame.Format.SampleRate, frame.Format.Channels)
		}

		if engine := f.engine.Load(); engine != nil && dec != nil {
			samples, err := frame.Samples(dec, rs)
			if err != nil {
				log.Printf("Audio frame skipped: %v", err)
			} else {
				engine.Push(samples)
			}
		}

		select {
		case syncOut <- frame:
		case <-f.ctx.Done():
			return
		}
	}
}

// consumeMatched drains aligned tuples and keeps display state.
func (f *Feed) consumeMatched() {
	for m := range f.sync.Matched() {
		f.tuples.Add(1)
		f.lastGazeX.Store(math.Float32bits(m.Gaze.Datum.X))
		f.lastGazeY.Store(math.Float32bits(m.Gaze.Datum.Y))
	}
}

// pushStatus feeds periodic snapshots to the TUI.
func (f *Feed) pushStatus() {
	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-f.ctx.Done():
			return
		case <-ticker.C:
		}

		msg := ui.StatusMsg{
			Connected: true,
			Tuples:    f.tuples.Load(),
			GazeX:     math.Float32frombits(f.lastGazeX.Load()),
			GazeY:     math.Float32frombits(f.lastGazeY.Load()),
		}
		if f.device != nil {
			msg.DeviceName = f.device.Name()
		}
		if engine := f.engine.Load(); engine != nil {
			format := engine.Format()
			msg.BufferMs = engine.BufferedFrames() * 1000 / format.SampleRate
			msg.Underruns = engine.Underruns()
		}
		msg.VideoDrops, msg.GazeDrops, msg.AudioDrops = f.sync.Drops()

		f.tuiProg.Send(msg)
	}
}

// serveMetrics exposes the Prometheus endpoint.
func (f *Feed) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Printf("Serving metrics on %s", f.config.MetricsAddr)
	if err := http.ListenAndServe(f.config.MetricsAddr, mux); err != nil {
		log.Printf("Metrics server: %v", err)
	}
}

// shutdown tears down in order: stop tasks, close playback, release device.
func (f *Feed) shutdown() {
	f.cancel()
	if engine := f.engine.Load(); engine != nil {
		engine.Close()
	}
	log.Printf("Feed stopped")
}

// Stop ends the session.
func (f *Feed) Stop() {
	f.cancel()
}
