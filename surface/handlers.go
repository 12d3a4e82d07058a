package surface

import (
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/frame"
	"github.com/mediasurface/mediasurface/log"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

type handler func(*Surface)

var lifecycleHandlers = map[engine.EventKind]handler{
	engine.Opening:          (*Surface).onOpening,
	engine.Playing:          (*Surface).onPlaying,
	engine.Paused:           (*Surface).onPaused,
	engine.Stopped:          (*Surface).onStopped,
	engine.EndReached:       (*Surface).onEndReached,
	engine.EncounteredError: (*Surface).onError,
	engine.TimeChanged:      (*Surface).onTimeChanged,
	engine.MediaChanged:     (*Surface).onMediaChanged,
}

var videoHandlers = map[engine.EventKind]handler{
	engine.VideoFormat:  (*Surface).onVideoFormat,
	engine.VideoDisplay: (*Surface).onVideoDisplay,
	engine.VideoCleanup: (*Surface).onVideoCleanup,
}

// handle runs on the consumer goroutine. Events raised for a binding the
// surface no longer owns are ignored.
func (s *Surface) handle(ev engine.Event) {
	if ev.Binding != s.binding {
		log.WithField("binding", ev.Binding).Tracef("dropping stale %s", ev.Kind)
		return
	}

	handlers := lifecycleHandlers
	if ev.Kind.IsVideo() {
		handlers = videoHandlers
	}

	if h, ok := handlers[ev.Kind]; ok {
		h(s)
	}
}

func (s *Surface) onOpening() {
	s.position.set(mo.None[time.Duration]())

	s.state = Opening
	s.notify(EventOpening)
}

func (s *Surface) onPlaying() {
	if s.state.Sticky() {
		return
	}

	s.state = Playing
	s.notify(EventPlaying)
}

func (s *Surface) onPaused() {
	if s.state.Sticky() {
		return
	}

	s.state = Paused
	s.notify(EventPaused)
}

func (s *Surface) onStopped() {
	if !s.state.Sticky() {
		s.state = Stopped
	}

	s.isOpen = false
	s.setLength(mo.None[time.Duration]())
	s.position.set(mo.None[time.Duration]())
	for _, kind := range engine.TrackKinds {
		s.setStreams(kind, nil)
	}
	s.setChapterCount(mo.None[int]())
	s.currentChapter.set(mo.None[int]())

	s.notify(EventStopped)
}

// advanceQueue plays the next sub-item if the engine has any queued.
func (s *Surface) advanceQueue() bool {
	if s.engine.SubitemCount(s.binding) <= 0 {
		return false
	}

	s.report("load sub-item", s.engine.LoadSubitem(s.binding, 0))
	s.report("play", s.engine.Play(s.binding))
	return true
}

func (s *Surface) onEndReached() {
	if s.advanceQueue() {
		return
	}

	s.report("stop", s.engine.Stop(s.binding))
	s.state = EndReached
	s.notify(EventEndReached)
}

// onError treats a failing item with queued sub-items like one that ended:
// the queue moves on and no error state is raised.
func (s *Surface) onError() {
	if s.advanceQueue() {
		log.WithField("binding", s.binding).Infof("error with queued sub-items, advancing")
		return
	}

	s.report("stop", s.engine.Stop(s.binding))
	s.state = EncounteredError
	s.notify(EventEncounteredError)
}

func (s *Surface) onTimeChanged() {
	if !s.isOpen {
		s.discover()
		s.isOpen = true
		s.notify(EventOpened)
	}

	s.position.set(mo.None[time.Duration]())
	s.currentChapter.set(mo.None[int]())
	s.notify(EventPositionChanged)
}

// discover reads the metadata the engine only knows once media is open.
func (s *Surface) discover() {
	b := s.binding

	if s.length.IsAbsent() {
		s.setLength(mo.Some(s.engine.Length(b)))
	}

	for _, kind := range engine.TrackKinds {
		if s.streams[kind] != nil {
			continue
		}

		streams := lo.Map(s.engine.Tracks(b, kind), func(t engine.Track, _ int) *Stream {
			return newStream(t)
		})
		s.setStreams(kind, streams)

		var current *Stream
		if i := s.engine.SelectedTrack(b, kind); i >= 0 && i < len(streams) {
			current = streams[i]
		}
		s.selected[kind].set(current)
	}

	if s.chapterCount.IsAbsent() {
		s.setChapterCount(mo.Some(s.engine.ChapterCount(b)))
	}
}

func (s *Surface) onMediaChanged() {
	s.actualSource = s.engine.Location(s.binding)
}

func (s *Surface) onVideoFormat() {
	vb, ok := s.engine.VideoBuffer(s.binding)
	if !ok {
		s.frame = nil
		s.invalidate()
		return
	}

	buf, err := frame.NewBuffer(vb.Width, vb.Height)
	if err != nil {
		log.WithField("binding", s.binding).Warnf("video format: %s", err)
		s.frame = nil
		s.invalidate()
		return
	}

	s.frame = buf
	s.targetFrameRate = mo.Some(s.engine.FrameRate(s.binding))
	s.invalidate()
}

func (s *Surface) onVideoDisplay() {
	if s.frame == nil {
		return
	}

	vb, ok := s.engine.VideoBuffer(s.binding)
	if !ok {
		return
	}

	if !s.frame.Matches(vb.Width, vb.Height) {
		log.WithField("binding", s.binding).Tracef("dropping %dx%d frame, buffer is %dx%d",
			vb.Width, vb.Height, s.frame.Width(), s.frame.Height())
		return
	}

	if err := s.frame.CopyFrom(vb.Pixels, vb.Stride); err != nil {
		log.WithField("binding", s.binding).Debugf("dropping frame: %s", err)
		return
	}

	// Time events stop while paused; frames are the only source of the position then.
	if s.state == Paused {
		s.position.set(mo.None[time.Duration]())
		s.currentChapter.set(mo.None[int]())
	}

	s.meter.Tick()
	s.invalidate()
}

func (s *Surface) onVideoCleanup() {
	s.releaseFrame()
}

func (s *Surface) releaseFrame() {
	s.frame = nil
	s.targetFrameRate = mo.None[float64]()
	s.meter.Reset()
	s.invalidate()
}
