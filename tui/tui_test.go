package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mediasurface/mediasurface/config"
	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/engine/sim"
	"github.com/mediasurface/mediasurface/filesystem"
	"github.com/mediasurface/mediasurface/frame"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/surface"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// update feeds msg to b and returns the message its command produces, if any.
// Batched commands are not run.
func update(b *statefulBubble, msg tea.Msg) tea.Msg {
	_, cmd := b.Update(msg)
	if cmd == nil {
		return nil
	}
	out := cmd()
	if _, batched := out.(tea.BatchMsg); batched {
		return nil
	}
	return out
}

func TestBubble(t *testing.T) {
	Convey("Given a control panel on the simulated engine", t, func() {
		e := sim.New()
		b := newBubble()
		b.player = player.New(e, surface.WithRenderer(b))
		defer b.player.Close()

		b.Update(tea.WindowSizeMsg{Width: 100, Height: 60})

		So(b.player.Open("clip.mkv"), ShouldBeNil)
		bind := b.player.Binding()
		for _, kind := range []engine.EventKind{engine.Opening, engine.Playing, engine.TimeChanged} {
			e.Emit(bind, kind)
		}

		Convey("Callbacks should only apply once the loop is drained in Update", func() {
			So(b.player.State(), ShouldEqual, surface.Stopped)

			b.Update(tasksMsg{})
			So(b.player.State(), ShouldEqual, surface.Playing)
			So(b.View(), ShouldContainSubstring, "playing")
			So(b.View(), ShouldContainSubstring, "clip.mkv")
			So(b.View(), ShouldContainSubstring, "chapter 1/4")
		})

		Convey("Given the source is open", func() {
			b.Update(tasksMsg{})

			Convey("Space should toggle pause", func() {
				b.Update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
				So(e.CallNames(bind), ShouldContain, "pause")
			})

			Convey("Arrow keys should seek by the configured step", func() {
				b.Update(tea.KeyMsg{Type: tea.KeyRight})
				So(e.CallNames(bind), ShouldContain, "set-time")
				So(b.player.Position().OrEmpty(), ShouldEqual, player.SeekStep())
			})

			Convey("Volume keys should notify the new volume", func() {
				msg := update(b, tea.KeyMsg{Type: tea.KeyDown})
				So(msg, ShouldEqual, notificationMsg("Volume 95%"))

				b.Update(msg)
				So(b.View(), ShouldContainSubstring, "Volume 95%")
			})

			Convey("Cycling audio should name the selected track", func() {
				msg := update(b, runes("a"))
				So(msg, ShouldEqual, notificationMsg("Audio: Commentary [jpn] (opus)"))
			})

			Convey("Saving without a frame should report the failure", func() {
				msg := update(b, runes("S"))
				So(msg, ShouldEqual, notificationMsg("No frame to save"))
			})

			Convey("Delivered frames should be previewed", func() {
				e.Emit(bind, engine.VideoFormat)
				e.Emit(bind, engine.VideoDisplay)
				b.Update(tasksMsg{})

				So(b.frameDirty, ShouldBeFalse)
				So(b.preview, ShouldNotBeEmpty)
				So(b.View(), ShouldContainSubstring, "320x180")
			})

			Convey("q should quit", func() {
				So(update(b, runes("q")), ShouldHaveSameTypeAs, tea.QuitMsg{})
			})
		})

		Convey("Errors should switch to the error view until esc", func() {
			b.Update(errors.New("engine exploded"))
			So(b.state, ShouldEqual, errorState)
			So(b.View(), ShouldContainSubstring, "engine exploded")

			b.Update(tea.KeyMsg{Type: tea.KeyEsc})
			So(b.state, ShouldEqual, playerState)
		})
	})
}

func TestNotifier(t *testing.T) {
	Convey("Given a notifier", t, func() {
		n := &notifier{}

		Convey("A stale clear should not remove a newer notification", func() {
			n.update(notificationMsg("first"))
			n.update(notificationMsg("second"))
			n.update(clearNotificationMsg{id: 1})
			So(n.view(), ShouldContainSubstring, "second")

			n.update(clearNotificationMsg{id: 2})
			So(n.view(), ShouldBeEmpty)
		})
	})
}

func TestRenderPreview(t *testing.T) {
	Convey("Given a frame", t, func() {
		buf, err := frame.NewBuffer(8, 4)
		So(err, ShouldBeNil)

		Convey("Two pixel rows should share one line", func() {
			out := renderPreview(buf, 8)
			lines := strings.Split(out, "\n")
			So(lines, ShouldHaveLength, 2)
			So(strings.Count(lines[0], upperHalf), ShouldEqual, 8)
		})

		Convey("Nothing should render without a frame or width", func() {
			So(renderPreview(nil, 10), ShouldBeEmpty)
			So(renderPreview(buf, 0), ShouldBeEmpty)
		})
	})
}

func TestKeymap(t *testing.T) {
	Convey("Given the keymap", t, func() {
		k := newStatefulKeymap()

		Convey("The full help should be split into columns of four", func() {
			columns := k.FullHelp()
			So(len(columns), ShouldBeGreaterThan, 1)
			for _, column := range columns {
				So(len(column), ShouldBeLessThanOrEqualTo, 4)
			}
		})

		Convey("The error state should only offer back and quit", func() {
			k.setState(errorState)
			So(k.ShortHelp(), ShouldHaveLength, 2)
		})
	})
}
