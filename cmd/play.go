package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/icon"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/style"
	"github.com/mediasurface/mediasurface/surface"
	"github.com/mediasurface/mediasurface/util"
)

func playHeadless(e engine.Engine, source string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	return play(ctx, e, source, os.Stdout)
}

// play runs source to its end on the calling goroutine, writing one line per
// state change and an erasable progress line in between.
func play(ctx context.Context, e engine.Engine, source string, out io.Writer) error {
	ctx, finish := context.WithCancel(ctx)
	defer finish()

	p := player.New(e)
	defer p.Close()

	erase := func() {}
	p.Listen(func(s *surface.Surface, ev surface.Event) {
		erase()
		erase = func() {}

		switch ev {
		case surface.EventOpened:
			fmt.Fprintf(out, "%s %s\n", icon.Get(icon.Play), s.ActualSource())
		case surface.EventPaused:
			fmt.Fprintf(out, "%s paused\n", icon.Get(icon.Pause))
		case surface.EventEndReached:
			fmt.Fprintf(out, "%s %s\n", icon.Get(icon.End), style.Faint("end reached"))
		case surface.EventEncounteredError:
			fmt.Fprintf(out, "%s %s\n", icon.Get(icon.Error), style.Fg(style.Red)("playback failed"))
		case surface.EventPositionChanged:
			erase = util.FprintErasable(out, progressLine(s.Snapshot()))
		}

		if s.State().Sticky() {
			finish()
		}
	})

	if err := p.SetSource(source); err != nil {
		return err
	}
	if err := p.Play(); err != nil {
		return err
	}

	if err := p.Loop().Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	erase()

	if p.State() == surface.EncounteredError {
		return fmt.Errorf("%s could not be played", source)
	}
	return nil
}

func progressLine(snap surface.Snapshot) string {
	line := util.FormatDuration(snap.Position.OrEmpty())
	if length, ok := snap.Length.Get(); ok {
		line += " / " + util.FormatDuration(length)
	}
	if chapter, ok := snap.CurrentChapter.Get(); ok {
		line += fmt.Sprintf("  %s %d/%d", icon.Get(icon.Chapter), chapter+1, snap.ChapterCount.OrEmpty())
	}
	return line
}
