package surface

import "github.com/mediasurface/mediasurface/engine"

// Play starts or resumes playback. Without a binding it does nothing.
func (s *Surface) Play() error {
	return s.forward(s.engine.Play)
}

func (s *Surface) Pause() error {
	return s.forward(s.engine.Pause)
}

func (s *Surface) Stop() error {
	return s.forward(s.engine.Stop)
}

// NextFrame steps one frame forward, pausing playback.
func (s *Surface) NextFrame() error {
	return s.forward(s.engine.NextFrame)
}

func (s *Surface) PreviousChapter() error {
	return s.forward(s.engine.PreviousChapter)
}

func (s *Surface) NextChapter() error {
	return s.forward(s.engine.NextChapter)
}

// TogglePause pauses while playing and plays otherwise.
func (s *Surface) TogglePause() error {
	if s.state == Playing {
		return s.Pause()
	}
	return s.Play()
}

func (s *Surface) forward(cmd func(engine.Binding) error) error {
	if s.binding == engine.NoBinding {
		return nil
	}
	return cmd(s.binding)
}
