package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/util"
)

// handlePlayerKey applies a key press to the player. Feedback is returned as a notification.
func (b *statefulBubble) handlePlayerKey(msg tea.KeyMsg) tea.Cmd {
	p := b.player
	k := b.keymap

	switch {
	case key.Matches(msg, k.playPause):
		return b.check(p.TogglePause())
	case key.Matches(msg, k.stop):
		return b.check(p.Stop())
	case key.Matches(msg, k.nextFrame):
		return b.check(p.NextFrame())
	case key.Matches(msg, k.seekBack):
		p.Seek(-player.SeekStep())
	case key.Matches(msg, k.seekForward):
		p.Seek(player.SeekStep())
	case key.Matches(msg, k.volumeUp):
		p.AdjustVolume(player.VolumeStep)
		return notify(fmt.Sprintf("Volume %.0f%%", p.Volume()*100))
	case key.Matches(msg, k.volumeDown):
		p.AdjustVolume(-player.VolumeStep)
		return notify(fmt.Sprintf("Volume %.0f%%", p.Volume()*100))
	case key.Matches(msg, k.prevChapter):
		return b.check(p.PreviousChapter())
	case key.Matches(msg, k.nextChapter):
		return b.check(p.NextChapter())
	case key.Matches(msg, k.cycleVideo):
		return b.cycle(engine.VideoTrack)
	case key.Matches(msg, k.cycleAudio):
		return b.cycle(engine.AudioTrack)
	case key.Matches(msg, k.cycleSubtitle):
		return b.cycle(engine.SubtitleTrack)
	case key.Matches(msg, k.snapshot):
		path, err := p.SaveSnapshot()
		if err != nil {
			return b.check(err)
		}
		return notify("Saved " + path)
	}

	return nil
}

// check turns a failed command into a notification; the panel stays usable.
func (b *statefulBubble) check(err error) tea.Cmd {
	if err == nil {
		return nil
	}
	return notify(util.Capitalize(err.Error()))
}

func (b *statefulBubble) cycle(kind engine.TrackKind) tea.Cmd {
	if len(b.player.Streams(kind)) == 0 {
		return notify(fmt.Sprintf("No %s tracks", kind))
	}

	current := "off"
	if st := b.player.CycleStream(kind); st != nil {
		current = st.String()
	}
	return notify(fmt.Sprintf("%s: %s", util.Capitalize(kind.String()), current))
}
