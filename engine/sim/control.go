package sim

import (
	"slices"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/samber/lo"
)

// Emit raises kind for b on the calling goroutine, as the engine would from
// one of its own threads. Released bindings still raise events.
func (e *Engine) Emit(b engine.Binding, kind engine.EventKind) {
	e.mu.Lock()
	p, ok := e.players[b]
	e.mu.Unlock()

	if ok {
		p.sink(engine.Event{Binding: b, Kind: kind})
	}
}

// Calls returns the commands b received, in order.
func (e *Engine) Calls(b engine.Binding) (calls []Call) {
	e.query(b, func(p *player) { calls = slices.Clone(p.calls) })
	return
}

// CallNames returns the names of the commands b received, in order.
func (e *Engine) CallNames(b engine.Binding) []string {
	return lo.Map(e.Calls(b), func(c Call, _ int) string { return c.Name })
}

// Released reports whether b has been released.
func (e *Engine) Released(b engine.Binding) (released bool) {
	e.query(b, func(p *player) { released = p.released })
	return
}

// Live returns the bindings that have not been released.
func (e *Engine) Live() []engine.Binding {
	e.mu.Lock()
	defer e.mu.Unlock()

	var live []engine.Binding
	for b, p := range e.players {
		if !p.released {
			live = append(live, b)
		}
	}
	slices.Sort(live)
	return live
}

// Advance moves b's playback time without recording a command.
func (e *Engine) Advance(b engine.Binding, d time.Duration) {
	e.query(b, func(p *player) { p.seek(p.time + d) })
}

// SetVideoFormat changes the dimensions of the frames b produces.
// Zero dimensions disable video.
func (e *Engine) SetVideoFormat(b engine.Binding, width, height int) {
	e.query(b, func(p *player) { p.setVideoFormat(width, height) })
}

// run is the playback goroutine of a live binding. It raises queued command
// events and, while playing, advances time one frame per tick.
func (e *Engine) run(b engine.Binding, p *player) {
	e.mu.Lock()
	interval := frameInterval(p.media.FPS)
	e.mu.Unlock()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-p.done:
			return
		case kind := <-p.events:
			p.sink(engine.Event{Binding: b, Kind: kind})
		case <-ticker.C:
			for _, kind := range e.advance(p, interval) {
				p.sink(engine.Event{Binding: b, Kind: kind})
			}
		}
	}
}

func (e *Engine) advance(p *player, d time.Duration) []engine.EventKind {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p.released || !p.playing || p.paused {
		return nil
	}

	p.seek(p.time + d)
	if p.time >= p.media.Length {
		p.playing = false
		return []engine.EventKind{engine.TimeChanged, engine.EndReached}
	}

	if !p.hasVideo {
		return []engine.EventKind{engine.TimeChanged}
	}

	p.frameNum++
	paint(p.frame.Pixels, p.frame.Width, p.frame.Height, p.frameNum)
	return []engine.EventKind{engine.TimeChanged, engine.VideoDisplay}
}
