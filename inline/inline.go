// Package inline provides the application's non-interactive, scriptable probe mode.
package inline

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/log"
	"github.com/mediasurface/mediasurface/player"
	"github.com/mediasurface/mediasurface/surface"
	"github.com/mediasurface/mediasurface/util"
	"github.com/mediasurface/mediasurface/where"
)

// DefaultTimeout applies when Options.Timeout is zero.
const DefaultTimeout = 15 * time.Second

// Run probes every source in turn on e and writes the reports to options.Out.
func Run(e engine.Engine, options *Options) error {
	if options.Out == nil {
		options.Out = os.Stdout
	}
	if options.Kinds == nil {
		options.Kinds = engine.TrackKinds
	}

	var cache *reportCache
	if options.CacheLifetime > 0 {
		cache = newReportCache(filepath.Join(where.Cache(), "probe.json"), options.CacheLifetime)
	}

	reports := make([]*Report, 0, len(options.Sources))
	for _, source := range options.Sources {
		key := cacheKey(source, options.Kinds)
		if cache != nil {
			if cached, ok := cache.Get(key).Get(); ok {
				report := *cached
				report.Cached = true
				reports = append(reports, &report)
				continue
			}
		}

		report, err := Probe(context.Background(), e, source, options)
		if err != nil {
			return fmt.Errorf("probe %s: %w", source, err)
		}
		reports = append(reports, report)

		if cache != nil && !report.TimedOut {
			if err := cache.Set(key, report); err != nil {
				log.Warnf("could not cache the report of %s: %s", source, err)
			}
		}
	}

	if options.Json {
		return writeJson(options.Out, reports)
	}

	for _, report := range reports {
		writeText(options.Out, report)
	}
	return nil
}

// Probe opens source on a fresh surface and plays it until it opens, ends,
// fails or the timeout expires. The calling goroutine is the consumer for
// the duration of the call.
func Probe(ctx context.Context, e engine.Engine, source string, options *Options) (*Report, error) {
	timeout := options.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	settled, settle := context.WithCancel(ctx)
	defer settle()

	p := player.New(e)
	defer p.Close()

	p.Listen(func(_ *surface.Surface, ev surface.Event) {
		switch ev {
		case surface.EventOpened, surface.EventEndReached, surface.EventEncounteredError:
			settle()
		}
	})

	if err := p.SetSource(source); err != nil {
		return nil, err
	}
	if err := p.Play(); err != nil {
		return nil, err
	}

	err := p.Loop().Run(settled)
	timedOut := errors.Is(ctx.Err(), context.DeadlineExceeded)
	if err != nil && !errors.Is(err, context.Canceled) && !timedOut {
		return nil, err
	}

	if timedOut {
		log.Warnf("%s did not open within %s", source, timeout)
	}

	return newReport(p.Snapshot(), options.Kinds, timedOut), nil
}

func writeJson(out io.Writer, reports []*Report) error {
	data, err := asJson(reports)
	if err != nil {
		return err
	}
	_, err = out.Write(data)
	return err
}

func writeText(out io.Writer, report *Report) {
	summary := report.State
	if report.TimedOut {
		summary += ", timed out"
	}
	if report.Cached {
		summary += ", cached"
	}
	if report.Length != nil {
		summary += ", " + util.FormatDuration(time.Duration(*report.Length*float64(time.Second)))
	}
	if report.Chapters != nil && *report.Chapters > 0 {
		summary += ", " + util.Quantify(*report.Chapters, "chapter", "chapters")
	}
	fmt.Fprintf(out, "%s: %s\n", report.Source, summary)

	for _, kind := range engine.TrackKinds {
		for _, st := range report.Streams[kind.String()] {
			marker := ""
			if st.Current {
				marker = " *"
			}
			fmt.Fprintf(out, "  %s: %s%s\n", kind, st.Label, marker)
		}
	}
}
