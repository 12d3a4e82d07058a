package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (b *statefulBubble) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	cmd := b.notifier.update(msg)

	switch msg := msg.(type) {
	case tasksMsg:
		b.player.Loop().Drain()
		cmd = tea.Batch(cmd, b.waitForTasks())
	case error:
		b.raiseError(msg)
	case tea.WindowSizeMsg:
		b.resize(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, b.keymap.forceQuit), key.Matches(msg, b.keymap.quit):
			return b, tea.Quit
		case key.Matches(msg, b.keymap.showHelp):
			b.helpC.ShowAll = !b.helpC.ShowAll
			return b, cmd
		}

		switch b.state {
		case playerState:
			cmd = tea.Batch(cmd, b.handlePlayerKey(msg))
		case errorState:
			if key.Matches(msg, b.keymap.back) {
				b.lastError = nil
				b.setState(playerState)
			}
		}
	}

	if b.frameDirty {
		b.refreshPreview()
	}

	return b, cmd
}
