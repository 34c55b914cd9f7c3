// ABOUTME: TUI initialization and control channels
// ABOUTME: Wraps the bubbletea program for the keyboard controller
package ui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// TargetsMsg carries the controller's target values to the engine loop.
type TargetsMsg struct {
	Frequency float64
	Amplitude float64
	RoomSize  float64
}

// Control holds the channels the TUI uses to drive the engine.
type Control struct {
	Targets chan TargetsMsg
	Toggle  chan struct{}
	Quit    chan struct{}
}

// NewControl creates the control channel set.
func NewControl() *Control {
	return &Control{
		Targets: make(chan TargetsMsg, 10),
		Toggle:  make(chan struct{}, 1),
		Quit:    make(chan struct{}, 1),
	}
}

// Run starts the TUI.
func Run(ctrl *Control) (*tea.Program, error) {
	p := tea.NewProgram(NewModel(ctrl), tea.WithAltScreen())
	return p, nil
}
