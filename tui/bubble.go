package tui

import (
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/style"
)

// statefulBubble holds the control panel state. It is also the surface's renderer.
type statefulBubble struct {
	state  state
	keymap *statefulKeymap

	player *player.Player

	// components
	progressC progress.Model
	helpC     help.Model
	notifier  *notifier

	// frameDirty is set by Invalidate and cleared when the preview is redrawn.
	frameDirty bool
	preview    string

	lastError     error
	width, height int
}

func newBubble() *statefulBubble {
	keymap := newStatefulKeymap()
	bubble := &statefulBubble{
		keymap:   keymap,
		helpC:    help.New(),
		notifier: &notifier{},
		progressC: progress.New(
			progress.WithGradient(string(style.Subtle), string(style.Accent)),
			progress.WithoutPercentage(),
		),
	}

	bubble.setState(playerState)
	return bubble
}

// Invalidate implements surface.Renderer. It runs on the consumer goroutine,
// which is the Bubble Tea event loop.
func (b *statefulBubble) Invalidate() {
	b.frameDirty = true
}

func (b *statefulBubble) raiseError(err error) {
	b.lastError = err
	b.setState(errorState)
}

func (b *statefulBubble) setState(s state) {
	b.state = s
	b.keymap.setState(s)
}

func (b *statefulBubble) resize(width, height int) {
	x, y := paddingStyle.GetFrameSize()
	styledWidth := width - x

	b.width = styledWidth
	b.height = height - y
	b.helpC.Width = styledWidth
	b.progressC.Width = max(styledWidth-progressLabelWidth, 10)
	b.frameDirty = true
}
