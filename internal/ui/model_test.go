// ABOUTME: Tests for the feed TUI model
// ABOUTME: Tests status application, rendering, and quit handling
package ui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestApplyStatus(t *testing.T) {
	m := NewModel()

	updated, _ := m.Update(StatusMsg{
		Connected:  true,
		DeviceName: "Visor One",
		BufferMs:   480,
		Underruns:  2,
		Tuples:     30,
	})

	model := updated.(Model)
	if !model.connected {
		t.Error("expected connected state")
	}
	if model.bufferMs != 480 {
		t.Errorf("expected buffer 480ms, got %d", model.bufferMs)
	}
	if model.underruns != 2 {
		t.Errorf("expected 2 underruns, got %d", model.underruns)
	}
}

func TestViewShowsDeviceName(t *testing.T) {
	m := NewModel()
	updated, _ := m.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	updated, _ = updated.(Model).Update(StatusMsg{Connected: true, DeviceName: "Visor One"})

	view := updated.(Model).View()
	if !strings.Contains(view, "Visor One") {
		t.Error("expected device name in view")
	}
}

func TestViewBeforeSize(t *testing.T) {
	m := NewModel()
	if m.View() != "Loading..." {
		t.Error("expected loading placeholder before window size")
	}
}

func TestQuitKey(t *testing.T) {
	m := NewModel()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected quit command")
	}
}
