package surface

import (
	"fmt"
	"strings"

	"github.com/mediasurface/mediasurface/engine"
)

// Stream is one elementary stream of the open media.
//
// Streams are created once per open; a selection is only valid while the
// exact *Stream is part of the surface's current stream list.
type Stream struct {
	track engine.Track
}

func newStream(t engine.Track) *Stream {
	return &Stream{track: t}
}

func (s *Stream) Kind() engine.TrackKind { return s.track.Kind }

// Index is the engine's index of the underlying track.
func (s *Stream) Index() int       { return s.track.Index }
func (s *Stream) Name() string     { return s.track.Name }
func (s *Stream) Codec() string    { return s.track.Codec }
func (s *Stream) Language() string { return s.track.Language }

// Width and Height are zero for non-video streams.
func (s *Stream) Width() int  { return s.track.Width }
func (s *Stream) Height() int { return s.track.Height }

func (s *Stream) String() string {
	var b strings.Builder

	name := s.track.Name
	if name == "" {
		name = fmt.Sprintf("%s #%d", s.track.Kind, s.track.Index)
	}
	b.WriteString(name)

	if s.track.Language != "" {
		fmt.Fprintf(&b, " [%s]", s.track.Language)
	}
	if s.track.Codec != "" {
		fmt.Fprintf(&b, " (%s", s.track.Codec)
		if s.track.Width > 0 && s.track.Height > 0 {
			fmt.Fprintf(&b, " %dx%d", s.track.Width, s.track.Height)
		}
		b.WriteString(")")
	}

	return b.String()
}
