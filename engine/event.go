package engine

// EventKind enumerates the notifications an engine raises.
type EventKind int

const (
	// Lifecycle events.

	Opening EventKind = iota + 1
	Playing
	Paused
	Stopped
	EndReached
	EncounteredError
	TimeChanged
	MediaChanged

	// Video pipeline events.

	VideoFormat
	VideoDisplay
	VideoCleanup
)

var eventNames = map[EventKind]string{
	Opening:          "opening",
	Playing:          "playing",
	Paused:           "paused",
	Stopped:          "stopped",
	EndReached:       "end-reached",
	EncounteredError: "error",
	TimeChanged:      "time-changed",
	MediaChanged:     "media-changed",
	VideoFormat:      "video-format",
	VideoDisplay:     "video-display",
	VideoCleanup:     "video-cleanup",
}

func (k EventKind) String() string {
	if name, ok := eventNames[k]; ok {
		return name
	}
	return "unknown"
}

// IsVideo reports whether the event belongs to the video pipeline.
func (k EventKind) IsVideo() bool {
	return k == VideoFormat || k == VideoDisplay || k == VideoCleanup
}
