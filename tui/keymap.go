package tui

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/mediasurface/mediasurface/style"
)

// statefulKeymap defines the keyboard interactions available within each application state.
type statefulKeymap struct {
	state state

	quit, forceQuit,
	playPause, stop, nextFrame,
	seekBack, seekForward,
	volumeUp, volumeDown,
	prevChapter, nextChapter,
	cycleVideo, cycleAudio, cycleSubtitle,
	snapshot,
	back,
	showHelp key.Binding
}

func (k *statefulKeymap) setState(newState state) {
	k.state = newState
}

func newStatefulKeymap() *statefulKeymap {
	return &statefulKeymap{
		quit: key.NewBinding(
			key.WithKeys("q"),
			key.WithHelp("q", "quit"),
		),
		forceQuit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+d"),
			key.WithHelp("ctrl+c", "quit"),
		),
		playPause: key.NewBinding(
			key.WithKeys(" ", "space", "enter"),
			key.WithHelp(style.Fg(style.Orange)("space"), style.Fg(style.Orange)("play/pause")),
		),
		stop: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "stop"),
		),
		nextFrame: key.NewBinding(
			key.WithKeys("."),
			key.WithHelp(".", "next frame"),
		),
		seekBack: key.NewBinding(
			key.WithKeys("left", "h"),
			key.WithHelp("←", "seek back"),
		),
		seekForward: key.NewBinding(
			key.WithKeys("right", "l"),
			key.WithHelp("→", "seek forward"),
		),
		volumeUp: key.NewBinding(
			key.WithKeys("up", "k", "+"),
			key.WithHelp("↑", "volume up"),
		),
		volumeDown: key.NewBinding(
			key.WithKeys("down", "j", "-"),
			key.WithHelp("↓", "volume down"),
		),
		prevChapter: key.NewBinding(
			key.WithKeys("["),
			key.WithHelp("[", "prev chapter"),
		),
		nextChapter: key.NewBinding(
			key.WithKeys("]"),
			key.WithHelp("]", "next chapter"),
		),
		cycleVideo: key.NewBinding(
			key.WithKeys("v"),
			key.WithHelp("v", "video track"),
		),
		cycleAudio: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "audio track"),
		),
		cycleSubtitle: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "subtitles"),
		),
		snapshot: key.NewBinding(
			key.WithKeys("S"),
			key.WithHelp("S", "save frame"),
		),
		back: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "back"),
		),
		showHelp: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "help"),
		),
	}
}

func (k *statefulKeymap) help() ([]key.Binding, []key.Binding) {
	h := func(bindings ...key.Binding) []key.Binding {
		return bindings
	}

	to2 := func(a []key.Binding) ([]key.Binding, []key.Binding) {
		return a, a
	}

	switch k.state {
	case playerState:
		return h(k.playPause, k.seekBack, k.seekForward, k.volumeUp, k.volumeDown, k.showHelp, k.quit),
			h(
				k.playPause, k.stop, k.nextFrame,
				k.seekBack, k.seekForward, k.volumeUp, k.volumeDown,
				k.prevChapter, k.nextChapter,
				k.cycleVideo, k.cycleAudio, k.cycleSubtitle,
				k.snapshot, k.showHelp, k.quit,
			)
	case errorState:
		return to2(h(k.back, k.quit))
	default:
		return to2(h())
	}
}

func (k *statefulKeymap) ShortHelp() []key.Binding {
	short, _ := k.help()
	return short
}

func (k *statefulKeymap) FullHelp() [][]key.Binding {
	_, full := k.help()

	// columns of four bindings
	var columns [][]key.Binding
	for len(full) > 0 {
		n := min(4, len(full))
		columns = append(columns, full[:n])
		full = full[n:]
	}
	return columns
}
