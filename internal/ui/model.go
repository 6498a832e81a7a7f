// ABOUTME: Bubbletea model for the live feed TUI
// ABOUTME: Shows stream health, playback buffer, and alignment stats
package ui

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StatusMsg carries a snapshot of feed state into the TUI.
type StatusMsg struct {
	Connected  bool
	DeviceName string

	BufferMs  int
	Underruns int64

	Tuples     int64
	VideoDrops int64
	GazeDrops  int64
	AudioDrops int64

	GazeX float32
	GazeY float32
	Worn  bool

	ClockOffset time.Duration
}

// Model represents the TUI state.
type Model struct {
	connected  bool
	deviceName string

	bufferMs  int
	underruns int64

	tuples     int64
	videoDrops int64
	gazeDrops  int64
	audioDrops int64

	gazeX float32
	gazeY float32
	worn  bool

	clockOffset time.Duration

	width  int
	height int
}

// NewModel creates the initial TUI model.
func NewModel() Model {
	return Model{}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// applyStatus copies a snapshot into the model.
func (m *Model) applyStatus(msg StatusMsg) {
	m.connected = msg.Connected
	m.deviceName = msg.DeviceName
	m.bufferMs = msg.BufferMs
	m.underruns = msg.Underruns
	m.tuples = msg.Tuples
	m.videoDrops = msg.VideoDrops
	m.gazeDrops = msg.GazeDrops
	m.audioDrops = msg.AudioDrops
	m.gazeX = msg.GazeX
	m.gazeY = msg.GazeY
	m.worn = msg.Worn
	m.clockOffset = msg.ClockOffset
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	connStatus := "Searching..."
	if m.connected {
		connStatus = fmt.Sprintf("Connected to %s", m.deviceName)
	}

	wornText := "not worn"
	if m.worn {
		wornText = "worn"
	}

	s := fmt.Sprintf(`┌─ Visor Live Feed ────────────────────────────────────┐
│ Status: %-45s│
│ Clock:  offset %+12v%-26s│
├──────────────────────────────────────────────────────┤
`, connStatus, m.clockOffset.Round(time.Millisecond), "")

	s += fmt.Sprintf("│ Audio:  buffer %4dms, %d underruns%-19s│\n",
		m.bufferMs, m.underruns, "")
	s += fmt.Sprintf("│ Gaze:   (%6.1f, %6.1f) %-29s│\n", m.gazeX, m.gazeY, wornText)
	s += fmt.Sprintf("│ Tuples: %-45d│\n", m.tuples)
	s += fmt.Sprintf("│ Drops:  video %d  gaze %d  audio %d%-19s│\n",
		m.videoDrops, m.gazeDrops, m.audioDrops, "")

	s += `├──────────────────────────────────────────────────────┤
│ q:Quit                                               │
└──────────────────────────────────────────────────────┘
`
	return s
}
