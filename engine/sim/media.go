package sim

import (
	"time"

	"github.com/mediasurface/mediasurface/engine"
)

// Media describes what the simulated engine reports for a location.
type Media struct {
	Length   time.Duration
	Chapters int
	Tracks   []engine.Track
	// Selected holds the track index initially active per kind. Missing kinds start disabled.
	Selected map[engine.TrackKind]int

	// Width and Height of the video; zero disables the video pipeline.
	Width  int
	Height int
	FPS    float64

	// Subitems are locations queued behind this one.
	Subitems []string
	// Fail makes the media raise an error right after opening.
	Fail bool
}

// DefaultMedia is a small clip with one video, two audio and one subtitle track.
func DefaultMedia() Media {
	return Media{
		Length:   2 * time.Minute,
		Chapters: 4,
		Tracks: []engine.Track{
			{Index: 0, Kind: engine.VideoTrack, Name: "Main", Codec: "h264", Width: 320, Height: 180},
			{Index: 0, Kind: engine.AudioTrack, Name: "Stereo", Codec: "aac", Language: "eng"},
			{Index: 1, Kind: engine.AudioTrack, Name: "Commentary", Codec: "opus", Language: "jpn"},
			{Index: 0, Kind: engine.SubtitleTrack, Name: "Full", Codec: "subrip", Language: "eng"},
		},
		Selected: map[engine.TrackKind]int{
			engine.VideoTrack: 0,
			engine.AudioTrack: 0,
		},
		Width:  320,
		Height: 180,
		FPS:    25,
	}
}

func (m Media) tracks(kind engine.TrackKind) []engine.Track {
	var out []engine.Track
	for _, t := range m.Tracks {
		if t.Kind == kind {
			out = append(out, t)
		}
	}
	return out
}

func (m Media) selection() map[engine.TrackKind]int {
	sel := make(map[engine.TrackKind]int, len(engine.TrackKinds))
	for _, kind := range engine.TrackKinds {
		sel[kind] = -1
		if i, ok := m.Selected[kind]; ok {
			sel[kind] = i
		}
	}
	return sel
}
