package surface

import (
	"errors"
	"math"
	"runtime"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/engine/sim"
	"github.com/mediasurface/mediasurface/loop"
	"github.com/mediasurface/mediasurface/registry"
	"github.com/mediasurface/mediasurface/util"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

type fixture struct {
	engine     *sim.Engine
	loop       *loop.Loop
	dispatcher *Dispatcher
	surface    *Surface
	events     []Event
}

func newFixture(opts []sim.Option, surfaceOpts ...Option) *fixture {
	f := &fixture{engine: sim.New(opts...), loop: loop.New()}
	f.dispatcher = NewDispatcher(f.engine, f.loop)
	f.surface = New(f.dispatcher, surfaceOpts...)
	f.surface.Listen(func(_ *Surface, e Event) { f.events = append(f.events, e) })
	return f
}

// emit raises kinds in order for the surface's binding and drains the loop.
func (f *fixture) emit(kinds ...engine.EventKind) {
	for _, k := range kinds {
		f.engine.Emit(f.surface.Binding(), k)
	}
	f.loop.Drain()
}

func (f *fixture) open(source string) engine.Binding {
	So(f.surface.SetSource(source), ShouldBeNil)
	f.emit(engine.TimeChanged)
	return f.surface.Binding()
}

func countCalls(e *sim.Engine, b engine.Binding, name string) int {
	return lo.Count(e.CallNames(b), name)
}

type invalidations int

func (i *invalidations) Invalidate() { *i++ }

func TestSource(t *testing.T) {
	Convey("Given an empty surface", t, func() {
		f := newFixture(nil)
		s := f.surface

		Convey("It has no binding and defaults", func() {
			So(s.State(), ShouldEqual, Empty)
			So(s.Binding(), ShouldEqual, engine.NoBinding)
			So(s.Volume(), ShouldEqual, DefaultVolume)
			So(s.Position().IsPresent(), ShouldBeFalse)
			So(s.CurrentChapter().IsPresent(), ShouldBeFalse)
		})

		Convey("Commands are no-ops", func() {
			for _, cmd := range []func() error{s.Play, s.Pause, s.Stop, s.NextFrame, s.PreviousChapter, s.NextChapter, s.TogglePause} {
				So(cmd(), ShouldBeNil)
			}
			So(f.engine.Live(), ShouldBeEmpty)
		})

		Convey("Setting a source binds it and applies the volume", func() {
			s.SetVolume(0.8)
			So(s.SetSource("movie.mkv"), ShouldBeNil)

			b := s.Binding()
			So(b, ShouldNotEqual, engine.NoBinding)
			So(s.State(), ShouldEqual, Stopped)
			So(f.dispatcher.Bindings(), ShouldEqual, 1)
			So(f.engine.Location(b), ShouldEqual, "movie.mkv")
			So(f.engine.Calls(b)[0], ShouldResemble, sim.Call{Name: "set-volume", Args: []any{80}})

			Convey("Commands are forwarded", func() {
				So(s.Play(), ShouldBeNil)
				So(s.Pause(), ShouldBeNil)
				So(s.NextFrame(), ShouldBeNil)
				So(s.NextChapter(), ShouldBeNil)
				So(s.PreviousChapter(), ShouldBeNil)
				So(s.Stop(), ShouldBeNil)
				So(f.engine.CallNames(b)[1:], ShouldResemble, []string{
					"play", "pause", "next-frame", "next-chapter", "previous-chapter", "stop",
				})
			})

			Convey("Replacing the source releases the old binding", func() {
				So(s.SetSource("other.mkv"), ShouldBeNil)
				So(f.engine.Released(b), ShouldBeTrue)
				So(s.Binding(), ShouldNotEqual, b)
				So(s.State(), ShouldEqual, Stopped)
				So(f.dispatcher.Bindings(), ShouldEqual, 1)
			})

			Convey("Setting the same source again keeps the binding", func() {
				So(s.SetSource("movie.mkv"), ShouldBeNil)
				So(s.Binding(), ShouldEqual, b)
			})

			Convey("Clearing the source empties the surface", func() {
				So(s.Close(), ShouldBeNil)
				So(f.engine.Released(b), ShouldBeTrue)
				So(s.State(), ShouldEqual, Empty)
				So(s.Binding(), ShouldEqual, engine.NoBinding)
				So(f.dispatcher.Bindings(), ShouldEqual, 0)
			})
		})
	})
}

// flakyEngine fails the next fail binding attempts.
type flakyEngine struct {
	*sim.Engine
	fail int
}

func (e *flakyEngine) CreateBinding(location string, sink engine.Sink) (engine.Binding, error) {
	if e.fail > 0 {
		e.fail--
		return engine.NoBinding, errors.New("socket never appeared")
	}
	return e.Engine.CreateBinding(location, sink)
}

func TestSourceBindFailure(t *testing.T) {
	Convey("Given an engine that cannot create the first binding", t, func() {
		e := &flakyEngine{Engine: sim.New(), fail: 1}
		d := NewDispatcher(e, loop.New())
		s := New(d)

		err := s.SetSource("movie.mkv")

		Convey("The error is reported and the surface stays empty", func() {
			So(err, ShouldNotBeNil)
			So(s.Source(), ShouldBeEmpty)
			So(s.Binding(), ShouldEqual, engine.NoBinding)
			So(s.State(), ShouldEqual, Empty)
			So(d.Bindings(), ShouldEqual, 0)
		})

		Convey("Retrying the same source binds it", func() {
			So(s.SetSource("movie.mkv"), ShouldBeNil)
			So(s.Source(), ShouldEqual, "movie.mkv")
			So(s.Binding(), ShouldNotEqual, engine.NoBinding)
			So(s.State(), ShouldEqual, Stopped)
			So(d.Bindings(), ShouldEqual, 1)
		})
	})
}

// reusingEngine hands out the same binding for every location.
type reusingEngine struct {
	*sim.Engine
	binding engine.Binding
}

func (e *reusingEngine) CreateBinding(location string, sink engine.Sink) (engine.Binding, error) {
	if e.binding == engine.NoBinding {
		b, err := e.Engine.CreateBinding(location, sink)
		e.binding = b
		return b, err
	}
	return e.binding, nil
}

func TestSourceRegisterFailure(t *testing.T) {
	Convey("Given an engine that reuses a registered binding", t, func() {
		e := &reusingEngine{Engine: sim.New()}
		d := NewDispatcher(e, loop.New())
		first, second := New(d), New(d)

		So(first.SetSource("movie.mkv"), ShouldBeNil)
		b := first.Binding()

		err := second.SetSource("other.mkv")

		Convey("The second surface reports the conflict and stays empty", func() {
			So(errors.Is(err, registry.ErrAlreadyRegistered), ShouldBeTrue)
			So(second.Binding(), ShouldEqual, engine.NoBinding)
			So(second.State(), ShouldEqual, Empty)
			So(second.Source(), ShouldBeEmpty)
		})

		Convey("The rejected binding is handed back to the engine", func() {
			So(e.Released(b), ShouldBeTrue)
			So(d.Bindings(), ShouldEqual, 1)
		})
	})
}

func TestVolume(t *testing.T) {
	Convey("Given any requested volume", t, func() {
		f := newFixture(nil)
		s := f.surface

		Convey("The coerced value stays in range and is rounded", func() {
			for _, v := range []float64{-3, -0.001, 0, 0.004, 0.005, 0.125, 0.555, 1, 1.234, 1.999, 2, 2.0001, 7, math.Inf(1), math.Inf(-1), math.NaN()} {
				s.SetVolume(v)
				So(s.Volume(), ShouldBeBetweenOrEqual, 0, MaxVolume)
				if v >= 0 && v <= MaxVolume {
					So(s.Volume(), ShouldEqual, util.Round(v, 2))
				}
			}
		})

		Convey("The engine hears about actual changes only", func() {
			b := f.open("movie.mkv")
			So(countCalls(f.engine, b, "set-volume"), ShouldEqual, 1)

			s.SetVolume(1.0)
			So(countCalls(f.engine, b, "set-volume"), ShouldEqual, 1)

			s.SetVolume(0.5)
			So(f.engine.Volume(b), ShouldEqual, 50)

			s.SetVolume(0.501)
			So(countCalls(f.engine, b, "set-volume"), ShouldEqual, 2)

			s.SetVolume(5)
			So(s.Volume(), ShouldEqual, MaxVolume)
			So(f.engine.Volume(b), ShouldEqual, 200)
		})

		Convey("An initial volume option is coerced", func() {
			g := newFixture(nil, WithVolume(3.14159))
			So(g.surface.Volume(), ShouldEqual, MaxVolume)
		})
	})
}

func TestPosition(t *testing.T) {
	Convey("Given a surface", t, func() {
		f := newFixture(nil)
		s := f.surface

		Convey("Position is unset without a binding", func() {
			s.SetPosition(mo.Some(10 * time.Second))
			So(s.Position().IsPresent(), ShouldBeFalse)
		})

		Convey("Position is unset until the length is known", func() {
			So(s.SetSource("movie.mkv"), ShouldBeNil)
			s.SetPosition(mo.Some(10 * time.Second))
			So(s.Position().IsPresent(), ShouldBeFalse)
		})

		Convey("Once open", func() {
			b := f.open("movie.mkv")
			length := s.Length().MustGet()
			So(length, ShouldEqual, 2*time.Minute)
			So(s.Position(), ShouldResemble, mo.Some(time.Duration(0)))

			Convey("Requests are clamped into the media", func() {
				for _, p := range []time.Duration{-time.Hour, -1, 0, time.Second, length, length + 1, 10 * time.Hour} {
					s.SetPosition(mo.Some(p))
					got := s.Position().MustGet()
					So(got, ShouldBeBetweenOrEqual, 0, length)
					So(got, ShouldEqual, lo.Clamp(p, 0, length))
				}
			})

			Convey("A new position seeks once", func() {
				s.SetPosition(mo.Some(30 * time.Second))
				So(f.engine.Time(b), ShouldEqual, 30*time.Second)
				So(countCalls(f.engine, b, "set-time"), ShouldEqual, 1)

				s.SetPosition(mo.Some(30 * time.Second))
				So(countCalls(f.engine, b, "set-time"), ShouldEqual, 1)
			})

			Convey("Time changes refresh the position without seeking", func() {
				f.engine.Advance(b, 42*time.Second)
				f.emit(engine.TimeChanged)

				So(s.Position(), ShouldResemble, mo.Some(42*time.Second))
				So(countCalls(f.engine, b, "set-time"), ShouldEqual, 0)
			})

			Convey("Unset reads the engine time", func() {
				f.engine.Advance(b, 5*time.Second)
				s.SetPosition(mo.None[time.Duration]())
				So(s.Position(), ShouldResemble, mo.Some(5*time.Second))
				So(countCalls(f.engine, b, "set-time"), ShouldEqual, 0)
			})
		})
	})
}

func TestChapters(t *testing.T) {
	Convey("Given an open surface with four chapters", t, func() {
		f := newFixture(nil)
		s := f.surface
		b := f.open("movie.mkv")

		So(s.ChapterCount(), ShouldResemble, mo.Some(4))
		So(s.CurrentChapter(), ShouldResemble, mo.Some(0))

		Convey("Requests are clamped to existing chapters", func() {
			s.SetCurrentChapter(mo.Some(10))
			So(s.CurrentChapter(), ShouldResemble, mo.Some(3))
			So(f.engine.Chapter(b), ShouldEqual, 3)

			s.SetCurrentChapter(mo.Some(-2))
			So(s.CurrentChapter(), ShouldResemble, mo.Some(0))
			So(countCalls(f.engine, b, "set-chapter"), ShouldEqual, 2)
		})

		Convey("Chapters are unset for media without any", func() {
			g := newFixture([]sim.Option{sim.WithMedia("flat.mkv", sim.Media{Length: time.Minute})})
			g.open("flat.mkv")
			So(g.surface.ChapterCount(), ShouldResemble, mo.Some(0))
			So(g.surface.CurrentChapter().IsPresent(), ShouldBeFalse)
		})
	})
}

func TestOpen(t *testing.T) {
	Convey("Given a bound surface", t, func() {
		f := newFixture(nil)
		s := f.surface
		So(s.SetSource("movie.mkv"), ShouldBeNil)
		b := s.Binding()

		Convey("The first time change discovers the media", func() {
			f.emit(engine.TimeChanged)

			So(s.IsOpen(), ShouldBeTrue)
			So(f.events, ShouldResemble, []Event{EventOpened, EventPositionChanged})
			So(s.Length(), ShouldResemble, mo.Some(2*time.Minute))
			So(s.Streams(engine.VideoTrack), ShouldHaveLength, 1)
			So(s.Streams(engine.AudioTrack), ShouldHaveLength, 2)
			So(s.Streams(engine.SubtitleTrack), ShouldHaveLength, 1)
			So(s.CurrentStream(engine.VideoTrack), ShouldEqual, s.Streams(engine.VideoTrack)[0])
			So(s.CurrentStream(engine.AudioTrack), ShouldEqual, s.Streams(engine.AudioTrack)[0])
			So(s.CurrentStream(engine.SubtitleTrack), ShouldBeNil)

			Convey("Without issuing commands", func() {
				So(f.engine.CallNames(b), ShouldResemble, []string{"set-volume"})
			})

			Convey("Later time changes only refresh the position", func() {
				f.emit(engine.TimeChanged)
				So(f.events, ShouldResemble, []Event{EventOpened, EventPositionChanged, EventPositionChanged})
			})
		})

		Convey("An out of range selection means none", func() {
			m := sim.DefaultMedia()
			m.Selected = map[engine.TrackKind]int{engine.AudioTrack: 5}
			g := newFixture([]sim.Option{sim.WithDefault(m)})
			g.open("movie.mkv")

			So(g.surface.Streams(engine.AudioTrack), ShouldHaveLength, 2)
			So(g.surface.CurrentStream(engine.AudioTrack), ShouldBeNil)
			So(countCalls(g.engine, g.surface.Binding(), "select-track"), ShouldEqual, 0)
		})

		Convey("Media changes update the actual source", func() {
			f.emit(engine.MediaChanged)
			So(s.ActualSource(), ShouldEqual, "movie.mkv")
		})
	})
}

func TestStreams(t *testing.T) {
	Convey("Given an open surface", t, func() {
		f := newFixture(nil)
		s := f.surface
		b := f.open("movie.mkv")
		audio := s.Streams(engine.AudioTrack)

		Convey("Selecting a listed stream switches the engine track", func() {
			s.SetCurrentStream(engine.AudioTrack, audio[1])
			So(s.CurrentStream(engine.AudioTrack), ShouldEqual, audio[1])
			So(f.engine.SelectedTrack(b, engine.AudioTrack), ShouldEqual, 1)
		})

		Convey("A stream from another open is refused", func() {
			foreign := newStream(engine.Track{Index: 1, Kind: engine.AudioTrack})
			s.SetCurrentStream(engine.AudioTrack, foreign)
			So(s.CurrentStream(engine.AudioTrack), ShouldBeNil)
			So(f.engine.SelectedTrack(b, engine.AudioTrack), ShouldEqual, -1)
		})

		Convey("Preferred streams are matched fuzzily", func() {
			So(s.SelectPreferred(engine.AudioTrack, "jpn"), ShouldBeTrue)
			So(s.CurrentStream(engine.AudioTrack), ShouldEqual, audio[1])
			So(s.SelectPreferred(engine.SubtitleTrack, "fra"), ShouldBeFalse)
		})

		Convey("Streams are described", func() {
			So(audio[1].String(), ShouldEqual, "Commentary [jpn] (opus)")
			So(s.Streams(engine.VideoTrack)[0].String(), ShouldEqual, "Main (h264 320x180)")
		})
	})
}

func TestStateMachine(t *testing.T) {
	Convey("Given an open surface", t, func() {
		f := newFixture(nil)
		s := f.surface
		b := f.open("movie.mkv")
		f.events = nil

		Convey("It walks to EndReached and stays there", func() {
			So(s.State(), ShouldEqual, Stopped)
			f.emit(engine.Opening)
			So(s.State(), ShouldEqual, Opening)
			f.emit(engine.Playing)
			So(s.State(), ShouldEqual, Playing)
			f.emit(engine.EndReached)
			So(s.State(), ShouldEqual, EndReached)
			So(f.engine.CallNames(b), ShouldContain, "stop")

			f.emit(engine.Stopped, engine.Playing, engine.Paused)
			So(s.State(), ShouldEqual, EndReached)
			So(s.IsOpen(), ShouldBeFalse)
			So(s.Length().IsPresent(), ShouldBeFalse)
			So(s.Streams(engine.AudioTrack), ShouldBeNil)

			So(f.events, ShouldResemble, []Event{EventOpening, EventPlaying, EventEndReached, EventStopped})

			Convey("Until it is opened again", func() {
				f.emit(engine.Opening, engine.Playing)
				So(s.State(), ShouldEqual, Playing)
			})

			Convey("Or a new source is set", func() {
				So(s.SetSource("next.mkv"), ShouldBeNil)
				So(s.State(), ShouldEqual, Stopped)
			})
		})

		Convey("Pause and stop", func() {
			f.emit(engine.Opening, engine.Playing, engine.Paused)
			So(s.State(), ShouldEqual, Paused)

			f.emit(engine.Stopped)
			So(s.State(), ShouldEqual, Stopped)
			So(s.IsOpen(), ShouldBeFalse)
			So(s.Position().IsPresent(), ShouldBeFalse)
			So(s.CurrentChapter().IsPresent(), ShouldBeFalse)
			So(s.CurrentStream(engine.VideoTrack), ShouldBeNil)
		})

		Convey("An error without sub-items stops the engine", func() {
			f.emit(engine.Opening, engine.Playing, engine.EncounteredError)
			So(s.State(), ShouldEqual, EncounteredError)
			So(f.engine.CallNames(b), ShouldContain, "stop")
			So(f.events[len(f.events)-1], ShouldEqual, EventEncounteredError)

			f.emit(engine.Stopped)
			So(s.State(), ShouldEqual, EncounteredError)
		})
	})

	Convey("Given media with two queued sub-items", t, func() {
		m := sim.DefaultMedia()
		m.Subitems = []string{"part2.mkv", "part3.mkv"}
		f := newFixture([]sim.Option{sim.WithMedia("part1.mkv", m)})
		s := f.surface
		b := f.open("part1.mkv")
		f.emit(engine.Opening, engine.Playing)
		So(f.engine.SubitemCount(b), ShouldEqual, 2)

		Convey("An error advances the queue without a transition", func() {
			f.emit(engine.EncounteredError)
			So(s.State(), ShouldEqual, Playing)
			So(f.engine.CallNames(b), ShouldNotContain, "stop")

			calls := f.engine.Calls(b)
			So(calls[len(calls)-2:], ShouldResemble, []sim.Call{
				{Name: "load-subitem", Args: []any{0}},
				{Name: "play"},
			})
			So(f.engine.Location(b), ShouldEqual, "part2.mkv")
		})

		Convey("End of media advances the queue without a transition", func() {
			f.emit(engine.EndReached)
			So(s.State(), ShouldEqual, Playing)
			So(f.engine.CallNames(b), ShouldNotContain, "stop")
			So(f.engine.SubitemCount(b), ShouldEqual, 1)
		})
	})
}

// abandon binds a surface that nothing references once this returns.
func abandon(d *Dispatcher, source string) engine.Binding {
	s := New(d)
	So(s.SetSource(source), ShouldBeNil)
	return s.Binding()
}

func TestDispatch(t *testing.T) {
	Convey("Given a dispatcher", t, func() {
		f := newFixture(nil)
		s := f.surface

		Convey("Events are handled on the consumer in the order raised", func() {
			So(s.SetSource("movie.mkv"), ShouldBeNil)
			b := s.Binding()

			for _, k := range []engine.EventKind{engine.Opening, engine.Playing, engine.Paused} {
				var wg sync.WaitGroup
				wg.Add(1)
				go func() {
					defer wg.Done()
					f.engine.Emit(b, k)
				}()
				wg.Wait()
			}

			So(f.events, ShouldBeEmpty)
			So(f.loop.Pending(), ShouldEqual, 3)

			f.loop.Drain()
			So(f.events, ShouldResemble, []Event{EventOpening, EventPlaying, EventPaused})
			So(s.State(), ShouldEqual, Paused)
		})

		Convey("A stale event is ignored after the source changed", func() {
			So(s.SetSource("s1.mkv"), ShouldBeNil)
			b1 := s.Binding()
			f.engine.Emit(b1, engine.TimeChanged)

			So(s.SetSource("s2.mkv"), ShouldBeNil)
			So(f.loop.Drain(), ShouldEqual, 1)

			So(s.IsOpen(), ShouldBeFalse)
			So(s.Length().IsPresent(), ShouldBeFalse)
			So(f.events, ShouldBeEmpty)
		})

		Convey("Events for a replaced binding are dropped before queueing", func() {
			So(s.SetSource("s1.mkv"), ShouldBeNil)
			b1 := s.Binding()
			So(s.SetSource("s2.mkv"), ShouldBeNil)

			f.engine.Emit(b1, engine.Playing)
			So(f.loop.Pending(), ShouldEqual, 0)
		})

		Convey("An abandoned surface releases its binding on the next event", func() {
			b := abandon(f.dispatcher, "lost.mkv")
			runtime.GC()
			runtime.GC()

			f.engine.Emit(b, engine.Playing)
			So(f.loop.Pending(), ShouldEqual, 0)
			So(f.engine.Released(b), ShouldBeTrue)

			f.engine.Emit(b, engine.Playing)
			So(countCalls(f.engine, b, "release"), ShouldEqual, 1)
			So(f.dispatcher.Bindings(), ShouldEqual, 0)
		})

		Convey("Sweep releases abandoned surfaces", func() {
			b := abandon(f.dispatcher, "lost.mkv")
			So(s.SetSource("kept.mkv"), ShouldBeNil)
			runtime.GC()
			runtime.GC()

			So(f.dispatcher.Sweep(), ShouldEqual, 1)
			So(f.engine.Released(b), ShouldBeTrue)
			So(f.engine.Released(s.Binding()), ShouldBeFalse)
			runtime.KeepAlive(s)
		})

		Convey("Listeners can be removed", func() {
			var heard int
			cancel := s.Listen(func(*Surface, Event) { heard++ })
			So(s.SetSource("movie.mkv"), ShouldBeNil)
			f.emit(engine.Opening)
			cancel()
			f.emit(engine.Playing)
			So(heard, ShouldEqual, 1)
			So(f.events, ShouldHaveLength, 2)
		})
	})
}

func TestFrames(t *testing.T) {
	Convey("Given a surface playing 1080p video", t, func() {
		m := sim.DefaultMedia()
		m.Width, m.Height = 1920, 1080

		now := time.Unix(0, 0)
		var renders invalidations
		f := newFixture([]sim.Option{sim.WithDefault(m)},
			WithRenderer(&renders),
			WithClock(func() time.Time { return now }))
		s := f.surface
		b := f.open("movie.mkv")
		f.emit(engine.Opening, engine.Playing, engine.VideoFormat)

		Convey("The format allocates a matching buffer", func() {
			So(s.Frame(), ShouldNotBeNil)
			So(s.Frame().Width(), ShouldEqual, 1920)
			So(s.Frame().Height(), ShouldEqual, 1080)
			So(s.AspectRatio().MustGet(), ShouldAlmostEqual, 16.0/9.0, 1e-9)
			So(s.TargetFrameRate(), ShouldResemble, mo.Some(25.0))
		})

		Convey("A frame of another size is dropped", func() {
			f.engine.SetVideoFormat(b, 1280, 720)
			before := renders
			f.emit(engine.VideoDisplay)

			So(s.meter.Count(), ShouldEqual, 0)
			So(renders, ShouldEqual, before)
			So(slices.ContainsFunc(s.Frame().Pixels(), func(p byte) bool { return p != 0 }), ShouldBeFalse)
		})

		Convey("A matching frame is copied and counted", func() {
			f.emit(engine.VideoDisplay)

			vb, ok := f.engine.VideoBuffer(b)
			So(ok, ShouldBeTrue)
			So(s.Frame().Pixels(), ShouldResemble, vb.Pixels)
			So(s.meter.Count(), ShouldEqual, 1)
		})

		Convey("The actual frame rate is measured", func() {
			for range 25 {
				now = now.Add(40 * time.Millisecond)
				f.emit(engine.VideoDisplay)
			}
			So(s.ActualFrameRate().MustGet(), ShouldAlmostEqual, 25.0, 1e-9)
		})

		Convey("Paused frames refresh the position", func() {
			f.emit(engine.Paused)
			f.engine.Advance(b, 10*time.Second)
			f.emit(engine.VideoDisplay)
			So(s.Position(), ShouldResemble, mo.Some(10*time.Second))
		})

		Convey("Cleanup releases the buffer", func() {
			now = now.Add(2 * time.Second)
			f.emit(engine.VideoDisplay, engine.VideoCleanup)

			So(s.Frame(), ShouldBeNil)
			So(s.AspectRatio().IsPresent(), ShouldBeFalse)
			So(s.TargetFrameRate().IsPresent(), ShouldBeFalse)
			So(s.ActualFrameRate().IsPresent(), ShouldBeFalse)
		})

		Convey("A format without video releases the buffer", func() {
			f.engine.SetVideoFormat(b, 0, 0)
			f.emit(engine.VideoFormat)
			So(s.Frame(), ShouldBeNil)
		})

		Convey("A snapshot reports the frame", func() {
			snap := s.Snapshot()
			So(snap.FrameWidth, ShouldEqual, 1920)
			So(snap.State, ShouldEqual, Playing)
			So(snap.Streams[engine.AudioTrack], ShouldHaveLength, 2)
			So(snap.Streams[engine.AudioTrack][0].Current, ShouldBeTrue)
		})
	})
}
