// ABOUTME: TUI initialization and control
// ABOUTME: Wraps the bubbletea program for the playback status display
package ui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Playhead-Media/playhead-go/pkg/audio"
)

// VolumeChange carries the requested output gain and mute state.
type VolumeChange struct {
	Volume int
	Muted  bool
}

// Controls carries user intent from the TUI back to the playback engine.
type Controls struct {
	Volume chan VolumeChange
	Quit   chan struct{}
}

// NewControls creates the control channels the TUI writes to.
func NewControls() *Controls {
	return &Controls{
		Volume: make(chan VolumeChange, 10),
		Quit:   make(chan struct{}, 1),
	}
}

// Run starts the TUI for the given input and negotiated configuration.
// Feed it StatusMsg values via Program.Send.
func Run(input string, caps audio.Caps, ctrl *Controls) *tea.Program {
	return tea.NewProgram(NewModel(input, caps, ctrl), tea.WithAltScreen())
}
