// Package player assembles a playback session: an engine, the consumer loop
// its callbacks are marshalled onto, and one surface bound through them.
// Every method must be called on the consumer goroutine.
package player

import (
	"fmt"
	"slices"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/frame"
	"github.com/mediasurface/mediasurface/key"
	"github.com/mediasurface/mediasurface/log"
	"github.com/mediasurface/mediasurface/loop"
	"github.com/mediasurface/mediasurface/surface"
	"github.com/mediasurface/mediasurface/where"
	"github.com/samber/mo"
	"github.com/spf13/viper"
)

// VolumeStep is how much AdjustVolume callers usually move the volume per key press.
const VolumeStep = 0.05

// Player is a surface with the loop and dispatcher it depends on.
type Player struct {
	*surface.Surface

	loop       *loop.Loop
	dispatcher *surface.Dispatcher
	cancel     func()
}

// New binds a surface to e. The initial volume comes from player.volume and
// preferred tracks are selected whenever a source opens.
func New(e engine.Engine, opts ...surface.Option) *Player {
	l := loop.New()
	d := surface.NewDispatcher(e, l)

	volume := float64(viper.GetInt(key.PlayerVolume)) / 100
	opts = append([]surface.Option{surface.WithVolume(volume)}, opts...)

	p := &Player{
		Surface:    surface.New(d, opts...),
		loop:       l,
		dispatcher: d,
	}
	p.cancel = p.Listen(selectPreferred)
	return p
}

// Loop returns the queue engine callbacks are posted to.
func (p *Player) Loop() *loop.Loop {
	return p.loop
}

// Open sets the source and, with player.autoplay, starts playing it.
func (p *Player) Open(source string) error {
	if err := p.SetSource(source); err != nil {
		return err
	}

	if source != "" && viper.GetBool(key.PlayerAutoplay) {
		return p.Play()
	}
	return nil
}

// Seek moves the position by delta. Nothing happens while the position is unknown.
func (p *Player) Seek(delta time.Duration) {
	pos, ok := p.Position().Get()
	if !ok {
		return
	}
	p.SetPosition(mo.Some(max(pos+delta, 0)))
}

// SeekStep is the seek distance configured by player.seek_step.
func SeekStep() time.Duration {
	return time.Duration(viper.GetInt(key.PlayerSeekStep)) * time.Second
}

// AdjustVolume changes the volume by delta; the surface clamps the result.
func (p *Player) AdjustVolume(delta float64) {
	p.SetVolume(p.Volume() + delta)
}

// CycleStream selects the next stream of kind, passing through "none" after the last one.
func (p *Player) CycleStream(kind engine.TrackKind) *surface.Stream {
	streams := p.Streams(kind)
	if len(streams) == 0 {
		return nil
	}

	// -1 when nothing is selected, so the first stream comes next
	i := slices.Index(streams, p.CurrentStream(kind))

	var next *surface.Stream
	if i+1 < len(streams) {
		next = streams[i+1]
	}

	p.SetCurrentStream(kind, next)
	return p.CurrentStream(kind)
}

// SaveSnapshot writes the current frame as a PNG into the snapshots directory.
func (p *Player) SaveSnapshot() (string, error) {
	buf := p.Frame()
	if buf == nil {
		return "", fmt.Errorf("no frame to save")
	}

	return frame.SaveSnapshot(where.Snapshots(), p.Source(), p.Position().OrEmpty(), buf)
}

// Close releases the binding, anything the registry still holds, and the loop.
func (p *Player) Close() error {
	p.cancel()
	err := p.Surface.Close()

	if n := p.dispatcher.Sweep(); n > 0 {
		log.Debugf("released %d abandoned bindings", n)
	}

	p.loop.Close()
	return err
}

func selectPreferred(s *surface.Surface, e surface.Event) {
	if e != surface.EventOpened {
		return
	}

	preferences := map[engine.TrackKind]string{
		engine.AudioTrack:    viper.GetString(key.PlayerAudioLanguage),
		engine.SubtitleTrack: viper.GetString(key.PlayerSubtitleLanguage),
	}

	for kind, query := range preferences {
		if query == "" {
			continue
		}
		if !s.SelectPreferred(kind, query) {
			log.WithField("binding", s.Binding()).Debugf("no %s track matches %q", kind, query)
		}
	}
}
