package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mediasurface/mediasurface/style"
)

// notificationTTL is how long a notification stays on screen.
const notificationTTL = 3 * time.Second

// notificationMsg shows a transient message under the panel.
type notificationMsg string

type clearNotificationMsg struct {
	id int
}

// notifier displays non-blocking, self-clearing alerts.
type notifier struct {
	notification string
	id           int
}

func notify(text string) tea.Cmd {
	return func() tea.Msg {
		return notificationMsg(text)
	}
}

// update returns a command clearing the notification after notificationTTL.
// A newer notification is never cleared by an older timer.
func (n *notifier) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case notificationMsg:
		n.id++
		n.notification = string(msg)

		id := n.id
		return tea.Tick(notificationTTL, func(time.Time) tea.Msg {
			return clearNotificationMsg{id: id}
		})
	case clearNotificationMsg:
		if msg.id == n.id {
			n.notification = ""
		}
	}
	return nil
}

func (n *notifier) view() string {
	if n.notification == "" {
		return ""
	}
	return style.Faint(n.notification)
}
