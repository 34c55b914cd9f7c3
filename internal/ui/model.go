// ABOUTME: Bubbletea model for the keyboard controller TUI
// ABOUTME: Keyboard targets stand in for the gesture controller
package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/palmsynth/palmsynth-go/internal/gesture"
)

// Key step sizes.
const (
	freqStep = 20.0
	ampStep  = 0.05
	roomStep = 0.05
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	runningStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	stoppedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	labelStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))
	helpStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// StatusMsg updates the TUI with engine state.
type StatusMsg struct {
	Running    *bool
	Frequency  float64
	Amplitude  float64
	RoomSize   float64
	SampleRate int
	BlockSize  int
}

// Model represents the TUI state. Targets sit inside the gesture controller's
// ranges, so the keyboard drives the engine through the same surface a hand
// tracker would.
type Model struct {
	// Targets set by the keyboard
	targetFreq float64
	targetAmp  float64
	targetRoom float64

	// Engine state from StatusMsg
	running    bool
	frequency  float64
	amplitude  float64
	roomSize   float64
	sampleRate int
	blockSize  int

	showDebug bool

	width  int
	height int

	ctrl *Control
}

// NewModel creates the TUI model with mid-range targets.
func NewModel(ctrl *Control) Model {
	return Model{
		targetFreq: (gesture.MinFrequency + gesture.MaxFrequency) / 2,
		targetAmp:  (gesture.MinAmplitude + gesture.MaxAmplitude) / 2,
		targetRoom: (gesture.MinRoomSize + gesture.MaxRoomSize) / 2,
		ctrl:       ctrl,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.applyStatus(msg)
	}

	return m, nil
}

// applyStatus merges an engine status update.
func (m *Model) applyStatus(msg StatusMsg) {
	if msg.Running != nil {
		m.running = *msg.Running
	}
	m.frequency = msg.Frequency
	m.amplitude = msg.Amplitude
	m.roomSize = msg.RoomSize
	if msg.SampleRate > 0 {
		m.sampleRate = msg.SampleRate
	}
	if msg.BlockSize > 0 {
		m.blockSize = msg.BlockSize
	}
}

// handleKey handles keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.signalQuit()
		return m, tea.Quit
	case " ":
		m.signalToggle()
	case "right":
		m.targetFreq = clampRange(m.targetFreq+freqStep, gesture.MinFrequency, gesture.MaxFrequency)
		m.sendTargets()
	case "left":
		m.targetFreq = clampRange(m.targetFreq-freqStep, gesture.MinFrequency, gesture.MaxFrequency)
		m.sendTargets()
	case "up":
		m.targetAmp = clampRange(m.targetAmp+ampStep, gesture.MinAmplitude, gesture.MaxAmplitude)
		m.sendTargets()
	case "down":
		m.targetAmp = clampRange(m.targetAmp-ampStep, gesture.MinAmplitude, gesture.MaxAmplitude)
		m.sendTargets()
	case "]":
		m.targetRoom = clampRange(m.targetRoom+roomStep, gesture.MinRoomSize, gesture.MaxRoomSize)
		m.sendTargets()
	case "[":
		m.targetRoom = clampRange(m.targetRoom-roomStep, gesture.MinRoomSize, gesture.MaxRoomSize)
		m.sendTargets()
	case "d":
		m.showDebug = !m.showDebug
	}

	return m, nil
}

func (m Model) sendTargets() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Targets <- TargetsMsg{
		Frequency: m.targetFreq,
		Amplitude: m.targetAmp,
		RoomSize:  m.targetRoom,
	}:
	default:
	}
}

func (m Model) signalToggle() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Toggle <- struct{}{}:
	default:
	}
}

func (m Model) signalQuit() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Quit <- struct{}{}:
	default:
	}
}

// View renders the TUI.
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := titleStyle.Render("Palmsynth") + "\n\n"

	state := stoppedStyle.Render("stopped")
	if m.running {
		state = runningStyle.Render("playing")
	}
	s += fmt.Sprintf("%s %s\n\n", labelStyle.Render("Engine:"), state)

	s += m.renderTargets()
	s += m.renderCurrent()

	if m.showDebug {
		s += m.renderDebug()
	}

	s += helpStyle.Render("←/→:Pitch  ↑/↓:Volume  [/]:Room  Space:Start/Stop  d:Debug  q:Quit")
	return s
}

// renderTargets shows the keyboard targets.
func (m Model) renderTargets() string {
	return fmt.Sprintf("%s\n  Pitch:  [%s] %6.1f Hz\n  Volume: [%s] %4.2f\n  Room:   [%s] %4.2f s\n\n",
		labelStyle.Render("Targets:"),
		renderBar(m.targetFreq, gesture.MinFrequency, gesture.MaxFrequency, 20), m.targetFreq,
		renderBar(m.targetAmp, gesture.MinAmplitude, gesture.MaxAmplitude, 20), m.targetAmp,
		renderBar(m.targetRoom, gesture.MinRoomSize, gesture.MaxRoomSize, 20), m.targetRoom)
}

// renderCurrent shows the smoothed values the engine is actually using.
func (m Model) renderCurrent() string {
	return fmt.Sprintf("%s %6.1f Hz  %4.2f  %4.2f s\n\n",
		labelStyle.Render("Smoothed:"), m.frequency, m.amplitude, m.roomSize)
}

// renderDebug shows stream configuration.
func (m Model) renderDebug() string {
	blockMs := 0.0
	if m.sampleRate > 0 {
		blockMs = float64(m.blockSize) / float64(m.sampleRate) * 1000
	}
	return fmt.Sprintf("%s %d Hz, %d-sample blocks (%.1f ms)\n\n",
		labelStyle.Render("Stream:"), m.sampleRate, m.blockSize, blockMs)
}

// renderBar renders a horizontal position bar.
func renderBar(value, min, max float64, width int) string {
	if max <= min {
		return ""
	}
	frac := (value - min) / (max - min)
	if frac < 0 {
		frac = 0
	}
	if frac > 1 {
		frac = 1
	}
	filled := int(frac * float64(width))

	bar := ""
	for i := 0; i < width; i++ {
		if i < filled {
			bar += "█"
		} else {
			bar += "░"
		}
	}
	return bar
}

func clampRange(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
