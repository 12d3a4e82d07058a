// Package surface exposes a callback-driven media engine as a playback
// surface owned by a single consumer goroutine.
//
// All methods of Surface must be called on the consumer goroutine, the one
// draining the dispatcher's loop. Engine events reach the surface only
// through that loop, so state never changes under the consumer's feet.
package surface

import (
	"math"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/frame"
	"github.com/mediasurface/mediasurface/log"
	"github.com/mediasurface/mediasurface/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// DefaultVolume is unity gain.
const DefaultVolume = 1.0

// MaxVolume is the upper bound volume is coerced to.
const MaxVolume = 2.0

// Surface is a playback surface bound to at most one engine binding at a time.
type Surface struct {
	engine     engine.Engine
	dispatcher *Dispatcher
	binding    engine.Binding

	source       string
	actualSource string

	state  State
	isOpen bool

	length         mo.Option[time.Duration]
	position       property[mo.Option[time.Duration]]
	chapterCount   mo.Option[int]
	currentChapter property[mo.Option[int]]
	volume         property[float64]

	streams  [3][]*Stream
	selected [3]property[*Stream]

	frame           *frame.Buffer
	meter           *frame.RateMeter
	targetFrameRate mo.Option[float64]

	renderer     Renderer
	listeners    []subscription
	nextListener int
}

// Option configures a Surface.
type Option func(*Surface)

// WithRenderer attaches r; it is invalidated whenever the frame changes.
func WithRenderer(r Renderer) Option {
	return func(s *Surface) { s.renderer = r }
}

// WithClock replaces the wall clock used to measure the actual frame rate.
func WithClock(now func() time.Time) Option {
	return func(s *Surface) { s.meter = frame.NewRateMeter(now) }
}

// WithVolume sets the initial volume, coerced like SetVolume.
func WithVolume(v float64) Option {
	return func(s *Surface) {
		v = coerceVolume(v)
		s.volume.base, s.volume.value = v, v
	}
}

// New returns an empty surface whose events are routed through d.
func New(d *Dispatcher, opts ...Option) *Surface {
	s := &Surface{
		engine:     d.engine,
		dispatcher: d,
		state:      Empty,
	}

	s.volume = property[float64]{
		base:    DefaultVolume,
		value:   DefaultVolume,
		coerce:  coerceVolume,
		changed: s.onVolumeChanged,
	}
	s.position = property[mo.Option[time.Duration]]{
		coerce:  s.coercePosition,
		changed: s.onPositionChanged,
	}
	s.currentChapter = property[mo.Option[int]]{
		coerce:  s.coerceChapter,
		changed: s.onChapterChanged,
	}
	for _, kind := range engine.TrackKinds {
		s.selected[kind] = property[*Stream]{
			coerce:  func(v *Stream) *Stream { return s.coerceStream(kind, v) },
			changed: func(_, v *Stream) { s.onStreamChanged(kind, v) },
		}
	}

	for _, opt := range opts {
		opt(s)
	}
	if s.meter == nil {
		s.meter = frame.NewRateMeter(nil)
	}

	return s
}

// Binding is the engine binding currently owned, or engine.NoBinding.
func (s *Surface) Binding() engine.Binding { return s.binding }

// Source is the requested media location, empty when none is set.
func (s *Surface) Source() string { return s.source }

// ActualSource is the location the engine reports it is playing.
func (s *Surface) ActualSource() string { return s.actualSource }

func (s *Surface) State() State { return s.state }

// IsOpen reports whether length, streams and chapters have been read for the current binding.
func (s *Surface) IsOpen() bool { return s.isOpen }

func (s *Surface) Length() mo.Option[time.Duration]   { return s.length }
func (s *Surface) Position() mo.Option[time.Duration] { return s.position.get() }
func (s *Surface) ChapterCount() mo.Option[int]       { return s.chapterCount }
func (s *Surface) CurrentChapter() mo.Option[int]     { return s.currentChapter.get() }
func (s *Surface) Volume() float64                    { return s.volume.get() }

// Streams returns the streams of the given kind, nil until the media is open.
func (s *Surface) Streams(kind engine.TrackKind) []*Stream {
	return s.streams[kind]
}

// CurrentStream returns the selected stream of the given kind, or nil.
func (s *Surface) CurrentStream(kind engine.TrackKind) *Stream {
	return s.selected[kind].get()
}

// Frame is the display buffer, nil while no video format is active.
// The renderer may read it on the consumer goroutine.
func (s *Surface) Frame() *frame.Buffer { return s.frame }

// AspectRatio is the native aspect ratio of the video, if any.
func (s *Surface) AspectRatio() mo.Option[float64] {
	if s.frame == nil {
		return mo.None[float64]()
	}
	return mo.Some(s.frame.AspectRatio())
}

// TargetFrameRate is the frame rate reported by the engine for the current video format.
func (s *Surface) TargetFrameRate() mo.Option[float64] { return s.targetFrameRate }

// ActualFrameRate is the measured rate of delivered frames.
func (s *Surface) ActualFrameRate() mo.Option[float64] { return s.meter.Rate() }

// SetPosition requests a playback position. None reads the engine's time.
// The value is clamped to the media length; without a known length the
// position stays unset.
func (s *Surface) SetPosition(p mo.Option[time.Duration]) {
	s.position.set(p)
}

// SetCurrentChapter requests a chapter. None reads the engine's chapter.
func (s *Surface) SetCurrentChapter(c mo.Option[int]) {
	s.currentChapter.set(c)
}

// SetVolume sets the volume, rounded to two decimals and clamped to [0, MaxVolume].
func (s *Surface) SetVolume(v float64) {
	s.volume.set(v)
}

// SetCurrentStream selects st for its kind; nil or a stream that is not
// part of the current list disables the kind.
func (s *Surface) SetCurrentStream(kind engine.TrackKind, st *Stream) {
	s.selected[kind].set(st)
}

// SelectPreferred selects the stream of the given kind that best matches
// query by language and name. It reports whether a stream matched.
func (s *Surface) SelectPreferred(kind engine.TrackKind, query string) bool {
	streams := s.streams[kind]
	labels := lo.Map(streams, func(st *Stream, _ int) string {
		return st.Language() + " " + st.Name()
	})

	i, ok := util.BestMatch(query, labels)
	if !ok {
		return false
	}

	s.SetCurrentStream(kind, streams[i])
	return true
}

func coerceVolume(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	return lo.Clamp(util.Round(v, 2), 0, MaxVolume)
}

func volumePercent(v float64) int {
	return int(math.Round(v * 100))
}

func (s *Surface) onVolumeChanged(_, v float64) {
	if s.binding == engine.NoBinding {
		return
	}

	percent := volumePercent(v)
	if percent != s.engine.Volume(s.binding) {
		s.report("set volume", s.engine.SetVolume(s.binding, percent))
	}
}

func (s *Surface) coercePosition(v mo.Option[time.Duration]) mo.Option[time.Duration] {
	if s.binding == engine.NoBinding {
		return mo.None[time.Duration]()
	}

	length, ok := s.length.Get()
	if !ok {
		return mo.None[time.Duration]()
	}

	t, ok := v.Get()
	if !ok {
		t = s.engine.Time(s.binding)
	}
	return mo.Some(lo.Clamp(t, 0, length))
}

func (s *Surface) onPositionChanged(_, v mo.Option[time.Duration]) {
	t, ok := v.Get()
	if !ok || s.binding == engine.NoBinding {
		return
	}

	if t != s.engine.Time(s.binding) {
		s.report("set time", s.engine.SetTime(s.binding, t))
	}
}

func (s *Surface) coerceChapter(v mo.Option[int]) mo.Option[int] {
	if s.binding == engine.NoBinding {
		return mo.None[int]()
	}

	count, ok := s.chapterCount.Get()
	if !ok || count <= 0 {
		return mo.None[int]()
	}

	c, ok := v.Get()
	if !ok {
		c = s.engine.Chapter(s.binding)
	}
	return mo.Some(lo.Clamp(c, 0, count-1))
}

func (s *Surface) onChapterChanged(_, v mo.Option[int]) {
	c, ok := v.Get()
	if !ok || s.binding == engine.NoBinding {
		return
	}

	if c != s.engine.Chapter(s.binding) {
		s.report("set chapter", s.engine.SetChapter(s.binding, c))
	}
}

func (s *Surface) coerceStream(kind engine.TrackKind, v *Stream) *Stream {
	if v == nil || !lo.Contains(s.streams[kind], v) {
		return nil
	}
	return v
}

func (s *Surface) onStreamChanged(kind engine.TrackKind, v *Stream) {
	if s.binding == engine.NoBinding {
		return
	}

	index := -1
	if v != nil {
		index = v.Index()
	}

	if index != s.engine.SelectedTrack(s.binding, kind) {
		s.report("select "+kind.String()+" track", s.engine.SelectTrack(s.binding, kind, index))
	}
}

func (s *Surface) setLength(v mo.Option[time.Duration]) {
	if v == s.length {
		return
	}
	s.length = v
	s.position.recoerce()
}

func (s *Surface) setChapterCount(v mo.Option[int]) {
	if v == s.chapterCount {
		return
	}
	s.chapterCount = v
	s.currentChapter.recoerce()
}

func (s *Surface) setStreams(kind engine.TrackKind, streams []*Stream) {
	s.streams[kind] = streams
	s.selected[kind].recoerce()
}

// report logs a failed engine command. Commands issued from property
// changes and event handlers have no caller to return errors to.
func (s *Surface) report(op string, err error) {
	if err != nil {
		log.WithField("binding", s.binding).Warnf("%s: %s", op, err)
	}
}
