package surface

import (
	"fmt"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/log"
	"github.com/samber/mo"
)

// SetSource replaces the media location. The current binding, if any, is
// released; a non-empty source gets a fresh binding and leaves the surface
// Stopped, an empty one leaves it Empty. Every derived property is reset.
// When the binding cannot be created the source is cleared so a later call
// with the same location tries again.
func (s *Surface) SetSource(source string) error {
	if source == s.source {
		return nil
	}

	s.source = source
	s.actualSource = ""
	return s.rebind()
}

// Close releases the binding and leaves the surface Empty.
func (s *Surface) Close() error {
	return s.SetSource("")
}

func (s *Surface) rebind() error {
	if old := s.binding; old != engine.NoBinding {
		s.dispatcher.unregister(old)
		s.binding = engine.NoBinding

		if err := s.engine.ReleaseBinding(old); err != nil {
			log.WithField("binding", old).Warnf("release: %s", err)
		}
	}

	var err error
	if s.source != "" {
		if err = s.bind(); err != nil {
			s.source = ""
		}
	}

	if s.binding != engine.NoBinding {
		s.state = Stopped
	} else {
		s.state = Empty
	}

	s.reset()
	return err
}

func (s *Surface) bind() error {
	b, err := s.engine.CreateBinding(s.source, s.dispatcher.Sink)
	if err != nil {
		return fmt.Errorf("create binding for %q: %w", s.source, err)
	}

	if err := s.dispatcher.register(b, s); err != nil {
		if rerr := s.engine.ReleaseBinding(b); rerr != nil {
			log.WithField("binding", b).Warnf("release: %s", rerr)
		}
		return fmt.Errorf("register binding %d: %w", b, err)
	}

	s.binding = b
	log.WithField("binding", b).Debugf("bound %q", s.source)

	if err := s.engine.SetVolume(b, volumePercent(s.volume.get())); err != nil {
		log.WithField("binding", b).Warnf("set volume: %s", err)
	}
	return nil
}

// reset clears every property derived from the binding.
func (s *Surface) reset() {
	s.isOpen = false
	s.releaseFrame()

	s.setLength(mo.None[time.Duration]())
	s.position.set(mo.None[time.Duration]())
	for _, kind := range engine.TrackKinds {
		s.setStreams(kind, nil)
		s.selected[kind].set(nil)
	}
	s.setChapterCount(mo.None[int]())
	s.currentChapter.set(mo.None[int]())
}
