// ABOUTME: Headset API message definitions
// ABOUTME: JSON status documents and the binary sensor frame envelope
package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// Status is the device status document served over the status websocket.
type Status struct {
	DeviceID   string   `json:"device_id"`
	DeviceName string   `json:"device_name"`
	Battery    int      `json:"battery,omitempty"`
	Sensors    []Sensor `json:"sensors"`
}

// Sensor describes one sensor stream advertised by the device.
type Sensor struct {
	Name        string `json:"sensor"`
	ConnType    string `json:"conn_type"`
	Connected   bool   `json:"connected"`
	IP          string `json:"ip,omitempty"`
	Port        int    `json:"port,omitempty"`
	Params      string `json:"params,omitempty"`
	Protocol    string `json:"protocol,omitempty"`
	SampleRate  int    `json:"sample_rate,omitempty"`
	Channels    int    `json:"channels,omitempty"`
	StreamError bool   `json:"stream_error,omitempty"`
}

// Sensor stream names used in Status documents and metrics labels.
const (
	SensorWorld = "world"
	SensorGaze  = "gaze"
	SensorAudio = "audio"
)

// ClientHello identifies a client on the status connection.
type ClientHello struct {
	ClientID string `json:"client_id"`
	Name     string `json:"name"`
	Version  string `json:"version"`
}

// Binary frame envelope: 1 type byte, 8 bytes big-endian unix nanoseconds,
// then the sensor payload.
const (
	FrameTypeData = 0x00

	frameHeaderLen = 9
)

// Frame is one decoded sensor frame envelope.
type Frame struct {
	At      time.Time
	Payload []byte
}

// DecodeFrame parses a binary sensor message.
func DecodeFrame(data []byte) (Frame, error) {
	if len(data) < frameHeaderLen {
		return Frame{}, fmt.Errorf("frame too short: %d bytes", len(data))
	}
	if data[0] != FrameTypeData {
		return Frame{}, fmt.Errorf("unknown frame type: %d", data[0])
	}

	ns := int64(binary.BigEndian.Uint64(data[1:frameHeaderLen]))
	return Frame{
		At:      time.Unix(0, ns),
		Payload: data[frameHeaderLen:],
	}, nil
}

// EncodeFrame builds a binary sensor message.
func EncodeFrame(at time.Time, payload []byte) []byte {
	buf := make([]byte, frameHeaderLen+len(payload))
	buf[0] = FrameTypeData
	binary.BigEndian.PutUint64(buf[1:], uint64(at.UnixNano()))
	copy(buf[frameHeaderLen:], payload)
	return buf
}

// Gaze payload: two little-endian float32 pixel coordinates plus a worn flag.
const gazePayloadLen = 9

// EncodeGaze builds a gaze payload.
func EncodeGaze(x, y float32, worn bool) []byte {
	buf := make([]byte, gazePayloadLen)
	binary.LittleEndian.PutUint32(buf[0:], math.Float32bits(x))
	binary.LittleEndian.PutUint32(buf[4:], math.Float32bits(y))
	if worn {
		buf[8] = 1
	}
	return buf
}

// DecodeGaze parses a gaze payload.
func DecodeGaze(payload []byte) (x, y float32, worn bool, err error) {
	if len(payload) < gazePayloadLen {
		return 0, 0, false, fmt.Errorf("gaze payload too short: %d bytes", len(payload))
	}
	x = math.Float32frombits(binary.LittleEndian.Uint32(payload[0:]))
	y = math.Float32frombits(binary.LittleEndian.Uint32(payload[4:]))
	worn = payload[8] != 0
	return x, y, worn, nil
}
