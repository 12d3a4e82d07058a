package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mediasurface/mediasurface/constant"
	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/icon"
	"github.com/mediasurface/mediasurface/style"
	"github.com/mediasurface/mediasurface/surface"
	"github.com/mediasurface/mediasurface/util"
	"github.com/muesli/reflow/wrap"
	"github.com/samber/lo"
)

var paddingStyle = lipgloss.NewStyle().Padding(1, 2)

// progressLabelWidth is reserved next to the progress bar for "h:mm:ss / h:mm:ss".
const progressLabelWidth = 22

type badge struct {
	icon  icon.Icon
	color lipgloss.Color
}

var stateBadges = map[surface.State]badge{
	surface.Empty:            {icon.Empty, style.Subtle},
	surface.Opening:          {icon.Opening, style.Yellow},
	surface.Playing:          {icon.Play, style.Green},
	surface.Paused:           {icon.Pause, style.Blue},
	surface.Stopped:          {icon.Stop, style.Subtle},
	surface.EndReached:       {icon.End, style.Purple},
	surface.EncounteredError: {icon.Error, style.Red},
}

var streamIcons = map[engine.TrackKind]icon.Icon{
	engine.VideoTrack:    icon.Video,
	engine.AudioTrack:    icon.Audio,
	engine.SubtitleTrack: icon.Subtitle,
}

func (b *statefulBubble) View() string {
	switch b.state {
	case errorState:
		return b.viewError()
	default:
		return b.viewPlayer()
	}
}

func (b *statefulBubble) viewPlayer() string {
	snap := b.player.Snapshot()
	truncate := style.Truncate(b.width)

	source := lo.Ternary(snap.ActualSource != "", snap.ActualSource, snap.Source)
	if source == "" {
		source = "no source"
	}

	lines := []string{
		style.Title(constant.App) + " " + viewState(snap.State),
		"",
		truncate(style.Fg(style.Accent)(source)),
		"",
		b.viewProgress(snap),
		"",
		truncate(viewChapterAndVolume(snap)),
	}

	for _, kind := range engine.TrackKinds {
		lines = append(lines, truncate(viewStreams(snap, kind)))
	}

	if line := viewFrame(snap); line != "" {
		lines = append(lines, "", truncate(line))
	}

	if b.preview != "" && lipgloss.Height(b.preview)+len(lines)+4 <= b.height {
		lines = append(lines, "", b.preview)
	}

	if n := b.notifier.view(); n != "" {
		lines = append(lines, "", truncate(n))
	}

	return b.renderLines(true, lines)
}

func viewState(s surface.State) string {
	badge, ok := stateBadges[s]
	if !ok {
		return style.Faint(s.String())
	}
	return style.Fg(badge.color)(icon.Get(badge.icon) + " " + s.String())
}

func (b *statefulBubble) viewProgress(snap surface.Snapshot) string {
	length, hasLength := snap.Length.Get()
	position, hasPosition := snap.Position.Get()

	var percent float64
	if hasLength && hasPosition && length > 0 {
		percent = float64(position) / float64(length)
	}

	label := "--:-- / --:--"
	if hasLength {
		label = util.FormatDuration(position) + " / " + util.FormatDuration(length)
	}

	return b.progressC.ViewAs(percent) + " " + style.Faint(label)
}

func viewChapterAndVolume(snap surface.Snapshot) string {
	chapter := "no chapters"
	if count, ok := snap.ChapterCount.Get(); ok && count > 0 {
		current := snap.CurrentChapter.OrElse(0)
		chapter = fmt.Sprintf("chapter %d/%d", current+1, count)
	}

	return fmt.Sprintf("%s %s   %s %.0f%%",
		icon.Get(icon.Chapter), chapter,
		icon.Get(icon.Volume), snap.Volume*100,
	)
}

func viewStreams(snap surface.Snapshot, kind engine.TrackKind) string {
	streams := snap.Streams[kind]

	current := style.Faint("off")
	if st, ok := lo.Find(streams, func(st surface.StreamInfo) bool { return st.Current }); ok {
		current = st.Label
	}

	return fmt.Sprintf("%s %-9s %s %s",
		icon.Get(streamIcons[kind]),
		kind.String()+":",
		current,
		style.Faint(fmt.Sprintf("(%s)", util.Quantify(len(streams), "track", "tracks"))),
	)
}

func viewFrame(snap surface.Snapshot) string {
	if snap.FrameWidth == 0 {
		return ""
	}

	parts := []string{fmt.Sprintf("%dx%d", snap.FrameWidth, snap.FrameHeight)}
	if fps, ok := snap.TargetFrameRate.Get(); ok && fps > 0 {
		parts = append(parts, fmt.Sprintf("%.2f fps", fps))
	}
	if fps, ok := snap.ActualFrameRate.Get(); ok {
		parts = append(parts, fmt.Sprintf("%.1f shown", fps))
	}

	return style.Faint(strings.Join(parts, " · "))
}

func (b *statefulBubble) viewError() string {
	errorMsg := wrap.String(style.Fg(style.Red)(b.lastError.Error()), b.width)
	return b.renderLines(
		true,
		[]string{
			style.ErrorTitle("Error"),
			"",
			icon.Get(icon.Fail) + " An error occurred:",
			"",
			errorMsg,
		},
	)
}

func (b *statefulBubble) renderLines(addHelp bool, lines []string) string {
	l := strings.Join(lines, "\n")
	if addHelp {
		helpView := b.helpC.View(b.keymap)
		if gap := b.height - lipgloss.Height(l) - lipgloss.Height(helpView); gap > 0 {
			l += strings.Repeat("\n", gap)
		} else {
			l += "\n\n"
		}
		l += helpView
	}

	return paddingStyle.Render(l)
}
