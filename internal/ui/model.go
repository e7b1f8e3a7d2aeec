// ABOUTME: Bubbletea model for the playback status TUI
// ABOUTME: Defines application state and update logic
package ui

import (
	"fmt"
	"math"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// skew levels for the sync indicator, in seconds
const (
	skewGood     = 0.05
	skewDegraded = 0.5
)

// Model represents the TUI state
type Model struct {
	// Input
	input string
	caps  audio.Caps

	// Playback
	volume int
	muted  bool
	done   bool

	// Stats
	frames   int64
	skew     float64
	queueLen int

	// Dimensions
	width  int
	height int

	ctrl *Controls
}

// StatusMsg updates TUI state
type StatusMsg struct {
	Frames   int64
	Skew     float64
	QueueLen int
	Done     bool
}

// NewModel creates a new TUI model
func NewModel(input string, caps audio.Caps, ctrl *Controls) Model {
	return Model{
		input:  input,
		caps:   caps,
		volume: 100,
		ctrl:   ctrl,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case StatusMsg:
		m.frames = msg.Frames
		m.skew = msg.Skew
		m.queueLen = msg.QueueLen
		if msg.Done {
			m.done = true
		}
	}

	return m, nil
}

// View renders the TUI
func (m Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	s := ""
	s += m.renderHeader()
	s += m.renderStreamInfo()
	s += m.renderControls()
	s += m.renderStats()
	s += m.renderHelp()

	return s
}

// renderHeader renders the input and playback state
func (m Model) renderHeader() string {
	state := "Playing"
	if m.done {
		state = "Finished"
	}

	return fmt.Sprintf(`┌─ Playhead ───────────────────────────────────────────┐
│ Input:  %-45s │
│ State:  %-45s │
├──────────────────────────────────────────────────────┤
`, truncate(m.input, 45), state)
}

// renderStreamInfo renders the negotiated output configuration
func (m Model) renderStreamInfo() string {
	if !m.caps.Valid {
		return "│ No stream                                            │\n"
	}

	format := fmt.Sprintf("%s %dHz %s %d-bit",
		m.caps.Format, m.caps.Rate, channelName(m.caps.Channels), m.caps.BitDepth)
	return fmt.Sprintf("│ Format: %-45s │\n", format)
}

// renderControls renders volume and sync status
func (m Model) renderControls() string {
	muteIcon := ""
	if m.muted {
		muteIcon = " 🔇"
	}
	volumeBar := renderBar(m.volume, 100, 10)

	syncIcon := "✗"
	syncText := "Lost"
	switch {
	case math.Abs(m.skew) < skewGood:
		syncIcon = "✓"
		syncText = fmt.Sprintf("Synced (skew: %+.1fms)", m.skew*1000)
	case math.Abs(m.skew) < skewDegraded:
		syncIcon = "⚠"
		syncText = fmt.Sprintf("Drifting (skew: %+.1fms)", m.skew*1000)
	}

	return fmt.Sprintf("│                                                      │\n"+
		"│ Volume: [%s] %3d%%%s%-26s │\n"+
		"│ Sync:   %s %-42s │\n",
		volumeBar, m.volume, muteIcon, "",
		syncIcon, syncText)
}

// renderStats renders playback statistics
func (m Model) renderStats() string {
	return fmt.Sprintf(`├──────────────────────────────────────────────────────┤
│ Stats:  Frames: %-10d Queued: %-14d │
`, m.frames, m.queueLen)
}

// renderHelp renders keyboard shortcuts
func (m Model) renderHelp() string {
	return `│ ↑/↓:Volume  m:Mute  q:Quit                           │
└──────────────────────────────────────────────────────┘
`
}

// handleKey handles keyboard input
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		m.signalQuit()
		return m, tea.Quit
	case "up":
		m.volume += 5
		if m.volume > 100 {
			m.volume = 100
		}
		m.pushVolume()
	case "down":
		m.volume -= 5
		if m.volume < 0 {
			m.volume = 0
		}
		m.pushVolume()
	case "m":
		m.muted = !m.muted
		m.pushVolume()
	}

	return m, nil
}

// pushVolume forwards the current gain without blocking the update loop.
func (m Model) pushVolume() {
	if m.ctrl == nil {
		return
	}
	select {
	case m.ctrl.Volume <- VolumeChange{Volume: m.volume, Muted: m.muted}:
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

// Utility functions
func renderBar(value, max, width int) string {
	filled := (value * width) / max
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

func truncate(s string, length int) string {
	if len(s) <= length {
		return s
	}
	return s[:length-3] + "..."
}

func channelName(channels int) string {
	if channels == 1 {
		return "Mono"
	}
	return "Stereo"
}
