package surface

// Event is a notification raised by a Surface on the consumer goroutine.
type Event int

const (
	EventOpening Event = iota + 1
	EventOpened
	EventPlaying
	EventPaused
	EventStopped
	EventEndReached
	EventEncounteredError
	EventPositionChanged
)

var eventNames = map[Event]string{
	EventOpening:          "opening",
	EventOpened:           "opened",
	EventPlaying:          "playing",
	EventPaused:           "paused",
	EventStopped:          "stopped",
	EventEndReached:       "end-reached",
	EventEncounteredError: "encountered-error",
	EventPositionChanged:  "position-changed",
}

func (e Event) String() string {
	if name, ok := eventNames[e]; ok {
		return name
	}
	return "unknown"
}

// Listener is called synchronously on the consumer goroutine.
type Listener func(*Surface, Event)

type subscription struct {
	id int
	fn Listener
}

// Renderer draws the frame a Surface holds.
type Renderer interface {
	// Invalidate signals that Frame content or dimensions changed.
	// It is called on the consumer goroutine.
	Invalidate()
}

// Listen registers l for every notification and returns a function that removes it.
func (s *Surface) Listen(l Listener) (cancel func()) {
	s.nextListener++
	id := s.nextListener
	s.listeners = append(s.listeners, subscription{id: id, fn: l})

	return func() {
		for i, sub := range s.listeners {
			if sub.id == id {
				s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Surface) notify(e Event) {
	for _, sub := range s.listeners {
		sub.fn(s, e)
	}
}

func (s *Surface) invalidate() {
	if s.renderer != nil {
		s.renderer.Invalidate()
	}
}
