// Package tui provides the terminal control panel for a playback surface.
//
// The Bubble Tea event loop doubles as the consumer goroutine: engine
// callbacks are posted to the player's loop, a command waits for the loop's
// wake-up and Update drains it.
package tui

import (
	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/surface"

	tea "github.com/charmbracelet/bubbletea"
)

// Options encapsulates the runtime configuration for the terminal user interface.
type Options struct {
	Source string
}

// Run opens the source on e and runs the control panel until the user quits.
func Run(e engine.Engine, options *Options) error {
	bubble := newBubble()
	bubble.player = player.New(e, surface.WithRenderer(bubble))
	defer bubble.player.Close()

	if err := bubble.player.Open(options.Source); err != nil {
		bubble.raiseError(err)
	}

	_, err := tea.NewProgram(bubble, tea.WithAltScreen()).Run()
	return err
}
