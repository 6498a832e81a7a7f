// ABOUTME: Headset connection and status model
// ABOUTME: Exposes per-sensor capability handles for the three streams
package device

import (
	"context"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/visorlabs/visor-go/internal/protocol"
	"github.com/visorlabs/visor-go/internal/version"
)

// Device is a connected headset. It holds the status connection and hands
// out sensor handles; sensor streams run on their own connections.
type Device struct {
	host     string
	port     int
	clientID string

	mu     sync.RWMutex
	conn   *websocket.Conn
	status protocol.Status

	updates chan protocol.Status
	ctx     context.Context
	cancel  context.CancelFunc
}

// Connect dials the headset's status endpoint and reads the initial status
// document.
func Connect(ctx context.Context, host string, port int) (*Device, error) {
	u := fmt.Sprintf("ws://%s:%d/api/status", host, port)

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
	if err != nil {
		return nil, fmt.Errorf("dial %s failed: %w", u, err)
	}

	clientID := uuid.New().String()
	hello := protocol.ClientHello{
		ClientID: clientID,
		Name:     version.Product,
		Version:  version.Version,
	}
	if err := conn.WriteJSON(hello); err != nil {
		conn.Close()
		return nil, fmt.Errorf("hello failed: %w", err)
	}

	var status protocol.Status
	if err := conn.ReadJSON(&status); err != nil {
		conn.Close()
		return nil, fmt.Errorf("status read failed: %w", err)
	}

	dctx, cancel := context.WithCancel(context.Background())
	d := &Device{
		host:     host,
		port:     port,
		clientID: clientID,
		conn:     conn,
		status:   status,
		updates:  make(chan protocol.Status, 4),
		ctx:      dctx,
		cancel:   cancel,
	}

	go d.readUpdates()

	log.Printf("Connected to %s (%s)", status.DeviceName, status.DeviceID)

	return d, nil
}

// readUpdates keeps the cached status current as the device pushes changes.
func (d *Device) readUpdates() {
	for {
		var status protocol.Status
		if err := d.conn.ReadJSON(&status); err != nil {
			if d.ctx.Err() == nil {
				log.Printf("Status connection lost: %v", err)
			}
			return
		}

		d.mu.Lock()
		d.status = status
		d.mu.Unlock()

		select {
		case d.updates <- status:
		default:
			// Status consumers that fall behind only need the latest.
		}
	}
}

// Status returns the most recent status document.
func (d *Device) Status() protocol.Status {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status
}

// Updates returns a channel of status documents pushed by the device.
func (d *Device) Updates() <-chan protocol.Status {
	return d.updates
}

// Name returns the device's advertised name.
func (d *Device) Name() string {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return d.status.DeviceName
}

// Close tears down the status connection.
func (d *Device) Close() error {
	d.cancel()
	return d.conn.Close()
}

// findSensor returns the advertised sensor entry for the given stream name.
func (d *Device) findSensor(name string) (protocol.Sensor, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	for _, s := range d.status.Sensors {
		if s.Name == name {
			return s, nil
		}
	}
	return protocol.Sensor{}, fmt.Errorf("device has no %s sensor", name)
}

// sensorURL builds the stream endpoint for a sensor entry.
func (d *Device) sensorURL(s protocol.Sensor) string {
	host := s.IP
	if host == "" {
		host = d.host
	}
	u := fmt.Sprintf("ws://%s:%d/", host, s.Port)
	if s.Params != "" {
		u += "?" + s.Params
	}
	return u
}

// VideoSensor returns a handle for the scene camera stream.
func (d *Device) VideoSensor() (*VideoSensor, error) {
	info, err := d.findSensor(protocol.SensorWorld)
	if err != nil {
		return nil, err
	}
	return &VideoSensor{sensorHandle: newHandle(info, d.sensorURL(info))}, nil
}

// GazeSensor returns a handle for the gaze stream.
func (d *Device) GazeSensor() (*GazeSensor, error) {
	info, err := d.findSensor(protocol.SensorGaze)
	if err != nil {
		return nil, err
	}
	return &GazeSensor{sensorHandle: newHandle(info, d.sensorURL(info))}, nil
}

// AudioSensor returns a handle for the audio stream.
func (d *Device) AudioSensor() (*AudioSensor, error) {
	info, err := d.findSensor(protocol.SensorAudio)
	if err != nil {
		return nil, err
	}
	return &AudioSensor{sensorHandle: newHandle(info, d.sensorURL(info))}, nil
}
