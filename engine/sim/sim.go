// Package sim is an in-process media engine.
//
// It keeps per-binding playback state for a catalogue of scripted media and
// records every command it receives. Without WithLive it never raises events
// on its own: callers raise them with Emit from whichever goroutine they
// like, which makes it the engine of choice in tests. WithLive gives each
// binding a playback goroutine that advances time and renders a test
// pattern, raising events the way a native engine would.
package sim

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/samber/lo"
)

var (
	ErrNoSink     = errors.New("nil sink")
	ErrOutOfRange = errors.New("index out of range")
)

// Call is a command received by the engine.
type Call struct {
	Name string
	Args []any
}

// Option configures an Engine.
type Option func(*Engine)

// WithMedia scripts what the engine reports for location.
func WithMedia(location string, m Media) Option {
	return func(e *Engine) { e.catalog[location] = m }
}

// WithDefault sets the media reported for locations missing from the catalogue.
func WithDefault(m Media) Option {
	return func(e *Engine) { e.fallback = m }
}

// WithLive starts a playback goroutine for every binding.
func WithLive() Option {
	return func(e *Engine) { e.live = true }
}

// Engine is a simulated engine.Engine.
type Engine struct {
	mu       sync.Mutex
	last     engine.Binding
	players  map[engine.Binding]*player
	catalog  map[string]Media
	fallback Media
	live     bool
}

var _ engine.Engine = (*Engine)(nil)

// New returns an engine serving DefaultMedia for every location unless configured otherwise.
func New(opts ...Option) *Engine {
	e := &Engine{
		players:  make(map[engine.Binding]*player),
		catalog:  make(map[string]Media),
		fallback: DefaultMedia(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type player struct {
	location string
	sink     engine.Sink
	media    Media
	subitems []string

	loaded  bool
	playing bool
	paused  bool

	time     time.Duration
	chapter  int
	volume   int
	selected map[engine.TrackKind]int

	frame    engine.VideoBuffer
	hasVideo bool
	frameNum uint64

	released bool
	calls    []Call

	events chan engine.EventKind
	done   chan struct{}
}

func (e *Engine) lookup(location string) Media {
	if m, ok := e.catalog[location]; ok {
		return m
	}
	return e.fallback
}

// load resets the player to the start of location.
func (p *player) load(location string, m Media) {
	p.location = location
	p.media = m
	p.loaded = true
	p.time = 0
	p.chapter = 0
	p.selected = m.selection()
	p.setVideoFormat(m.Width, m.Height)
}

func (p *player) setVideoFormat(width, height int) {
	p.hasVideo = width > 0 && height > 0
	if !p.hasVideo {
		p.frame = engine.VideoBuffer{}
		return
	}

	p.frame = engine.VideoBuffer{
		Width:  width,
		Height: height,
		Stride: width * 4,
		Pixels: make([]byte, width*height*4),
	}
	paint(p.frame.Pixels, width, height, p.frameNum)
}

func (p *player) chapterAt(t time.Duration) int {
	if p.media.Chapters <= 0 || p.media.Length <= 0 {
		return 0
	}
	span := p.media.Length / time.Duration(p.media.Chapters)
	return lo.Clamp(int(t/span), 0, p.media.Chapters-1)
}

func (p *player) chapterStart(c int) time.Duration {
	if p.media.Chapters <= 0 {
		return 0
	}
	return p.media.Length / time.Duration(p.media.Chapters) * time.Duration(c)
}

func (p *player) seek(t time.Duration) {
	p.time = lo.Clamp(t, 0, p.media.Length)
	p.chapter = p.chapterAt(p.time)
}

// CreateBinding implements engine.Engine.
func (e *Engine) CreateBinding(location string, sink engine.Sink) (engine.Binding, error) {
	if sink == nil {
		return engine.NoBinding, ErrNoSink
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.last++
	b := e.last

	m := e.lookup(location)
	p := &player{
		sink:     sink,
		volume:   100,
		subitems: slices.Clone(m.Subitems),
	}
	p.load(location, m)
	e.players[b] = p

	if e.live {
		p.events = make(chan engine.EventKind, 64)
		p.done = make(chan struct{})
		go e.run(b, p)
	}

	return b, nil
}

// ReleaseBinding implements engine.Engine.
func (e *Engine) ReleaseBinding(b engine.Binding) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	p, err := e.active(b)
	if err != nil {
		return err
	}

	p.released = true
	p.calls = append(p.calls, Call{Name: "release"})
	if p.done != nil {
		close(p.done)
	}
	return nil
}

// active returns the player for b unless it is unknown or released. e.mu must be held.
func (e *Engine) active(b engine.Binding) (*player, error) {
	p, ok := e.players[b]
	if !ok || p.released {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnknownBinding, b)
	}
	return p, nil
}

// command records a call and applies fn; in live mode the events fn returns
// are raised by the binding's playback goroutine.
func (e *Engine) command(b engine.Binding, name string, args []any, fn func(p *player) ([]engine.EventKind, error)) error {
	e.mu.Lock()
	p, err := e.active(b)
	if err != nil {
		e.mu.Unlock()
		return err
	}

	p.calls = append(p.calls, Call{Name: name, Args: args})

	var events []engine.EventKind
	if fn != nil {
		events, err = fn(p)
	}
	e.mu.Unlock()

	if p.events == nil {
		return err
	}

	for _, k := range events {
		select {
		case p.events <- k:
		case <-p.done:
			return err
		}
	}
	return err
}

func (e *Engine) Play(b engine.Binding) error {
	return e.command(b, "play", nil, func(p *player) ([]engine.EventKind, error) {
		switch {
		case p.playing && !p.paused:
			return nil, nil
		case p.playing && p.paused:
			p.paused = false
			return []engine.EventKind{engine.Playing}, nil
		}

		if !p.loaded || p.time >= p.media.Length {
			p.load(p.location, p.media)
		}

		events := []engine.EventKind{engine.Opening, engine.MediaChanged}
		if p.media.Fail {
			return append(events, engine.EncounteredError), nil
		}

		p.playing = true
		if p.hasVideo {
			events = append(events, engine.VideoFormat)
		}
		return append(events, engine.Playing), nil
	})
}

func (e *Engine) Pause(b engine.Binding) error {
	return e.command(b, "pause", nil, func(p *player) ([]engine.EventKind, error) {
		if !p.playing || p.paused {
			return nil, nil
		}
		p.paused = true
		return []engine.EventKind{engine.Paused}, nil
	})
}

func (e *Engine) Stop(b engine.Binding) error {
	return e.command(b, "stop", nil, func(p *player) ([]engine.EventKind, error) {
		wasPlaying := p.playing
		p.playing, p.paused, p.loaded = false, false, false
		p.time, p.chapter = 0, 0
		p.selected = Media{}.selection()

		if !wasPlaying {
			return []engine.EventKind{engine.Stopped}, nil
		}
		if p.hasVideo {
			return []engine.EventKind{engine.VideoCleanup, engine.Stopped}, nil
		}
		return []engine.EventKind{engine.Stopped}, nil
	})
}

func (e *Engine) NextFrame(b engine.Binding) error {
	return e.command(b, "next-frame", nil, func(p *player) ([]engine.EventKind, error) {
		if !p.playing || !p.hasVideo {
			return nil, nil
		}

		var events []engine.EventKind
		if !p.paused {
			p.paused = true
			events = append(events, engine.Paused)
		}

		p.seek(p.time + frameInterval(p.media.FPS))
		p.frameNum++
		paint(p.frame.Pixels, p.frame.Width, p.frame.Height, p.frameNum)
		return append(events, engine.VideoDisplay), nil
	})
}

func (e *Engine) PreviousChapter(b engine.Binding) error {
	return e.command(b, "previous-chapter", nil, func(p *player) ([]engine.EventKind, error) {
		p.seek(p.chapterStart(max(p.chapter-1, 0)))
		return []engine.EventKind{engine.TimeChanged}, nil
	})
}

func (e *Engine) NextChapter(b engine.Binding) error {
	return e.command(b, "next-chapter", nil, func(p *player) ([]engine.EventKind, error) {
		if p.chapter+1 >= p.media.Chapters {
			return nil, nil
		}
		p.seek(p.chapterStart(p.chapter + 1))
		return []engine.EventKind{engine.TimeChanged}, nil
	})
}

func (e *Engine) SetTime(b engine.Binding, t time.Duration) error {
	return e.command(b, "set-time", []any{t}, func(p *player) ([]engine.EventKind, error) {
		p.seek(t)
		return []engine.EventKind{engine.TimeChanged}, nil
	})
}

func (e *Engine) SetChapter(b engine.Binding, chapter int) error {
	return e.command(b, "set-chapter", []any{chapter}, func(p *player) ([]engine.EventKind, error) {
		if chapter < 0 || chapter >= p.media.Chapters {
			return nil, fmt.Errorf("%w: chapter %d", ErrOutOfRange, chapter)
		}
		p.seek(p.chapterStart(chapter))
		return []engine.EventKind{engine.TimeChanged}, nil
	})
}

func (e *Engine) SetVolume(b engine.Binding, percent int) error {
	return e.command(b, "set-volume", []any{percent}, func(p *player) ([]engine.EventKind, error) {
		p.volume = lo.Clamp(percent, 0, 200)
		return nil, nil
	})
}

func (e *Engine) SelectTrack(b engine.Binding, kind engine.TrackKind, index int) error {
	return e.command(b, "select-track", []any{kind, index}, func(p *player) ([]engine.EventKind, error) {
		if index < -1 || index >= len(p.media.tracks(kind)) {
			return nil, fmt.Errorf("%w: %s track %d", ErrOutOfRange, kind, index)
		}
		p.selected[kind] = index
		return nil, nil
	})
}

func (e *Engine) LoadSubitem(b engine.Binding, index int) error {
	return e.command(b, "load-subitem", []any{index}, func(p *player) ([]engine.EventKind, error) {
		if index < 0 || index >= len(p.subitems) {
			return nil, fmt.Errorf("%w: sub-item %d", ErrOutOfRange, index)
		}

		location := p.subitems[index]
		rest := p.subitems[index+1:]

		m := e.lookup(location)
		p.subitems = append(slices.Clone(m.Subitems), rest...)
		p.playing, p.paused = false, false
		p.load(location, m)
		return []engine.EventKind{engine.MediaChanged}, nil
	})
}

func (e *Engine) query(b engine.Binding, fn func(p *player)) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if p, ok := e.players[b]; ok {
		fn(p)
	}
}

func (e *Engine) Location(b engine.Binding) (location string) {
	e.query(b, func(p *player) { location = p.location })
	return
}

func (e *Engine) Length(b engine.Binding) (length time.Duration) {
	e.query(b, func(p *player) { length = p.media.Length })
	return
}

func (e *Engine) Time(b engine.Binding) (t time.Duration) {
	e.query(b, func(p *player) { t = p.time })
	return
}

func (e *Engine) Chapter(b engine.Binding) (chapter int) {
	e.query(b, func(p *player) { chapter = p.chapter })
	return
}

func (e *Engine) ChapterCount(b engine.Binding) (count int) {
	e.query(b, func(p *player) { count = p.media.Chapters })
	return
}

// Tracks is empty while the media is not loaded.
func (e *Engine) Tracks(b engine.Binding, kind engine.TrackKind) (tracks []engine.Track) {
	e.query(b, func(p *player) {
		if p.loaded {
			tracks = p.media.tracks(kind)
		}
	})
	return
}

func (e *Engine) SelectedTrack(b engine.Binding, kind engine.TrackKind) int {
	index := -1
	e.query(b, func(p *player) {
		if p.loaded {
			index = p.selected[kind]
		}
	})
	return index
}

func (e *Engine) SubitemCount(b engine.Binding) (count int) {
	e.query(b, func(p *player) { count = len(p.subitems) })
	return
}

func (e *Engine) Volume(b engine.Binding) (volume int) {
	e.query(b, func(p *player) { volume = p.volume })
	return
}

// VideoBuffer returns a copy of the current frame.
func (e *Engine) VideoBuffer(b engine.Binding) (vb engine.VideoBuffer, ok bool) {
	e.query(b, func(p *player) {
		if !p.hasVideo {
			return
		}
		vb = p.frame
		vb.Pixels = slices.Clone(p.frame.Pixels)
		ok = true
	})
	return
}

func (e *Engine) FrameRate(b engine.Binding) (fps float64) {
	e.query(b, func(p *player) { fps = p.media.FPS })
	return
}

func frameInterval(fps float64) time.Duration {
	if fps <= 0 {
		return 100 * time.Millisecond
	}
	return time.Duration(float64(time.Second) / fps)
}
