// ABOUTME: mDNS discovery of headsets on the local network
// ABOUTME: Browses for _visor._tcp services and reports devices on a channel
package discovery

import (
	"context"
	"log"
	"time"

	"github.com/hashicorp/mdns"
)

// serviceType is the mDNS service headsets advertise.
const serviceType = "_visor._tcp"

// DeviceInfo describes a discovered headset.
type DeviceInfo struct {
	Name string
	Host string
	Port int
}

// Manager handles mDNS browsing.
type Manager struct {
	ctx     context.Context
	cancel  context.CancelFunc
	devices chan *DeviceInfo
}

// NewManager creates a discovery manager.
func NewManager() *Manager {
	ctx, cancel := context.WithCancel(context.Background())

	return &Manager{
		ctx:     ctx,
		cancel:  cancel,
		devices: make(chan *DeviceInfo, 10),
	}
}

// Browse starts searching for headsets.
func (m *Manager) Browse() {
	go m.browseLoop()
}

// browseLoop repeats mDNS queries until the manager is stopped.
func (m *Manager) browseLoop() {
	for {
		select {
		case <-m.ctx.Done():
			return
		default:
		}

		entries := make(chan *mdns.ServiceEntry, 10)

		go func() {
			for entry := range entries {
				if entry.AddrV4 == nil {
					continue
				}
				dev := &DeviceInfo{
					Name: entry.Name,
					Host: entry.AddrV4.String(),
					Port: entry.Port,
				}

				log.Printf("Discovered device: %s at %s:%d", dev.Name, dev.Host, dev.Port)

				select {
				case m.devices <- dev:
				case <-m.ctx.Done():
					return
				}
			}
		}()

		params := &mdns.QueryParam{
			Service: serviceType,
			Domain:  "local",
			Timeout: 3 * time.Second,
			Entries: entries,
		}

		if err := mdns.Query(params); err != nil {
			log.Printf("mDNS query failed: %v", err)
		}
		close(entries)
	}
}

// Devices returns the channel of discovered headsets.
func (m *Manager) Devices() <-chan *DeviceInfo {
	return m.devices
}

// DiscoverOne browses until one headset is found or the timeout elapses.
func DiscoverOne(timeout time.Duration) (*DeviceInfo, error) {
	m := NewManager()
	defer m.Stop()
	m.Browse()

	select {
	case dev := <-m.Devices():
		return dev, nil
	case <-time.After(timeout):
		return nil, context.DeadlineExceeded
	}
}

// Stop stops browsing.
func (m *Manager) Stop() {
	m.cancel()
}
