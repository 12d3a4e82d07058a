package mpv

import (
	"github.com/mediasurface/mediasurface/engine"
)

// trackTypes maps engine track kinds to mpv's track-list types and selection properties.
var trackTypes = map[engine.TrackKind]struct {
	kind     string
	property string
}{
	engine.VideoTrack:    {"video", "vid"},
	engine.AudioTrack:    {"audio", "aid"},
	engine.SubtitleTrack: {"sub", "sid"},
}

// mpvTrack is one track-list entry together with mpv's own id.
type mpvTrack struct {
	engine.Track
	id       int
	selected bool
}

// parseTracks returns the entries of a track-list value of the given kind, in list order.
func parseTracks(data any, kind engine.TrackKind) []mpvTrack {
	entries, ok := data.([]any)
	if !ok {
		return nil
	}

	want := trackTypes[kind].kind

	var tracks []mpvTrack
	for _, entry := range entries {
		fields, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		if t, _ := fields["type"].(string); t != want {
			continue
		}

		id, _ := fields["id"].(float64)
		title, _ := fields["title"].(string)
		codec, _ := fields["codec"].(string)
		lang, _ := fields["lang"].(string)
		width, _ := fields["demux-w"].(float64)
		height, _ := fields["demux-h"].(float64)
		selected, _ := fields["selected"].(bool)

		tracks = append(tracks, mpvTrack{
			Track: engine.Track{
				Index:    len(tracks),
				Kind:     kind,
				Name:     title,
				Codec:    codec,
				Language: lang,
				Width:    int(width),
				Height:   int(height),
			},
			id:       int(id),
			selected: selected,
		})
	}

	return tracks
}
