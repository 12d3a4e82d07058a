package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mediasurface/mediasurface/constant"
)

// tasksMsg reports that engine callbacks are waiting in the player's loop.
type tasksMsg struct{}

func (b *statefulBubble) Init() tea.Cmd {
	return tea.Batch(tea.SetWindowTitle(constant.App), b.waitForTasks())
}

// waitForTasks blocks off the event loop until the player's loop has work,
// so draining happens in Update on the consumer goroutine.
func (b *statefulBubble) waitForTasks() tea.Cmd {
	l := b.player.Loop()
	return func() tea.Msg {
		select {
		case <-l.Wake():
			return tasksMsg{}
		case <-l.Done():
			return nil
		}
	}
}
