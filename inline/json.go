package inline

import (
	"encoding/json"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/surface"
	"github.com/samber/lo"
)

// Report is what probing one source found out.
type Report struct {
	// Source is the location that was probed.
	Source string `json:"source"`
	// ActualSource is the location the engine reported, if it differs.
	ActualSource string `json:"actualSource,omitempty"`
	// State is the playback state when probing stopped.
	State string `json:"state"`
	// Opened is true once media started producing time updates.
	Opened bool `json:"opened"`
	// TimedOut is true if the source neither opened nor failed in time.
	TimedOut bool `json:"timedOut"`
	// Cached is true if the report was reused from an earlier probe.
	Cached bool `json:"cached,omitempty"`
	// Length in seconds, if known.
	Length *float64 `json:"length,omitempty"`
	// Chapters is the number of chapters, if known.
	Chapters *int `json:"chapters,omitempty"`
	// Volume as a factor, 1 being unity gain.
	Volume float64 `json:"volume"`
	// Streams by kind: video, audio and subtitle.
	Streams map[string][]surface.StreamInfo `json:"streams"`
	// Video is the decoded frame format, if the engine delivered one.
	Video *Video `json:"video,omitempty"`
}

type Video struct {
	Width     int      `json:"width"`
	Height    int      `json:"height"`
	FrameRate *float64 `json:"frameRate,omitempty"`
}

type Output struct {
	Results []*Report `json:"results"`
}

func newReport(snap surface.Snapshot, kinds []engine.TrackKind, timedOut bool) *Report {
	report := &Report{
		Source:   snap.Source,
		State:    snap.State.String(),
		Opened:   snap.IsOpen,
		TimedOut: timedOut,
		Chapters: snap.ChapterCount.ToPointer(),
		Volume:   snap.Volume,
		Streams:  make(map[string][]surface.StreamInfo, len(kinds)),
	}

	if length, ok := snap.Length.Get(); ok {
		report.Length = lo.ToPtr(length.Seconds())
	}

	if snap.ActualSource != snap.Source {
		report.ActualSource = snap.ActualSource
	}

	for _, kind := range kinds {
		report.Streams[kind.String()] = lo.Ternary(snap.Streams[kind] != nil, snap.Streams[kind], []surface.StreamInfo{})
	}

	if snap.FrameWidth > 0 {
		report.Video = &Video{
			Width:     snap.FrameWidth,
			Height:    snap.FrameHeight,
			FrameRate: snap.TargetFrameRate.ToPointer(),
		}
	}

	return report
}

func asJson(reports []*Report) ([]byte, error) {
	return json.Marshal(&Output{
		Results: lo.Ternary(reports != nil, reports, []*Report{}),
	})
}
