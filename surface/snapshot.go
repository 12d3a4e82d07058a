package surface

import (
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// StreamInfo is a copy of a Stream's metadata.
type StreamInfo struct {
	Index    int    `json:"index"`
	Label    string `json:"label"`
	Name     string `json:"name,omitempty"`
	Codec    string `json:"codec,omitempty"`
	Language string `json:"language,omitempty"`
	Width    int    `json:"width,omitempty"`
	Height   int    `json:"height,omitempty"`
	Current  bool   `json:"current"`
}

// Snapshot is an immutable copy of a surface's observable properties,
// safe to hand to other goroutines.
type Snapshot struct {
	Source          string
	ActualSource    string
	State           State
	IsOpen          bool
	Length          mo.Option[time.Duration]
	Position        mo.Option[time.Duration]
	ChapterCount    mo.Option[int]
	CurrentChapter  mo.Option[int]
	Volume          float64
	Streams         map[engine.TrackKind][]StreamInfo
	FrameWidth      int
	FrameHeight     int
	TargetFrameRate mo.Option[float64]
	ActualFrameRate mo.Option[float64]
}

// Snapshot copies the current properties.
func (s *Surface) Snapshot() Snapshot {
	snap := Snapshot{
		Source:          s.source,
		ActualSource:    s.actualSource,
		State:           s.state,
		IsOpen:          s.isOpen,
		Length:          s.length,
		Position:        s.Position(),
		ChapterCount:    s.chapterCount,
		CurrentChapter:  s.CurrentChapter(),
		Volume:          s.Volume(),
		Streams:         make(map[engine.TrackKind][]StreamInfo),
		TargetFrameRate: s.targetFrameRate,
		ActualFrameRate: s.ActualFrameRate(),
	}

	if s.frame != nil {
		snap.FrameWidth, snap.FrameHeight = s.frame.Width(), s.frame.Height()
	}

	for _, kind := range engine.TrackKinds {
		current := s.CurrentStream(kind)
		snap.Streams[kind] = lo.Map(s.streams[kind], func(st *Stream, _ int) StreamInfo {
			return StreamInfo{
				Index:    st.Index(),
				Label:    st.String(),
				Name:     st.Name(),
				Codec:    st.Codec(),
				Language: st.Language(),
				Width:    st.Width(),
				Height:   st.Height(),
				Current:  st == current,
			}
		})
	}

	return snap
}
