// Package engine describes the media engine a playback surface is bound to.
//
// An engine owns decoding and rendering. It is driven through a Binding, an
// opaque handle to one player instance, and reports back through a Sink that
// it may call from any goroutine at any time, including after the owner of
// the binding has gone away.
package engine

import (
	"errors"
	"time"
)

// ErrUnknownBinding is returned by engines for commands addressed to a binding
// they never created or already released.
var ErrUnknownBinding = errors.New("unknown binding")

// Binding is an opaque handle to one engine player instance.
type Binding uint64

// NoBinding is never handed out by an engine.
const NoBinding Binding = 0

// Sink receives engine events. Engines call it from their own goroutines.
type Sink func(Event)

// Event is a notification raised by the engine for one binding.
type Event struct {
	Binding Binding
	Kind    EventKind
}

// TrackKind distinguishes the elementary stream types an engine enumerates.
type TrackKind int

const (
	VideoTrack TrackKind = iota
	AudioTrack
	SubtitleTrack
)

// TrackKinds lists every TrackKind in display order.
var TrackKinds = []TrackKind{VideoTrack, AudioTrack, SubtitleTrack}

func (k TrackKind) String() string {
	switch k {
	case VideoTrack:
		return "video"
	case AudioTrack:
		return "audio"
	case SubtitleTrack:
		return "subtitle"
	default:
		return "unknown"
	}
}

// Track describes one elementary stream as reported by the engine.
// Index is the track's position in the list returned by Tracks for its kind;
// SelectTrack and SelectedTrack use the same numbering.
type Track struct {
	Index    int
	Kind     TrackKind
	Name     string
	Codec    string
	Language string

	// Width and Height are only set for video tracks.
	Width  int
	Height int
}

// VideoBuffer is the engine's current decoded frame.
// Stride is the number of bytes between the starts of two consecutive rows.
type VideoBuffer struct {
	Width  int
	Height int
	Stride int
	Pixels []byte
}

// Commander issues playback commands to one binding.
type Commander interface {
	Play(b Binding) error
	Pause(b Binding) error
	Stop(b Binding) error
	NextFrame(b Binding) error
	PreviousChapter(b Binding) error
	NextChapter(b Binding) error
	SetTime(b Binding, t time.Duration) error
	SetChapter(b Binding, chapter int) error
	// SetVolume takes a percentage, 100 being unity gain.
	SetVolume(b Binding, percent int) error
	// SelectTrack selects the track with the given engine index, or disables the kind for -1.
	SelectTrack(b Binding, kind TrackKind, index int) error
	LoadSubitem(b Binding, index int) error
}

// Querier reads the engine's view of one binding.
// Queries on an unknown binding return zero values.
type Querier interface {
	Location(b Binding) string
	Length(b Binding) time.Duration
	Time(b Binding) time.Duration
	Chapter(b Binding) int
	ChapterCount(b Binding) int
	Tracks(b Binding, kind TrackKind) []Track
	// SelectedTrack returns the engine index of the active track of the given kind, -1 for none.
	SelectedTrack(b Binding, kind TrackKind) int
	SubitemCount(b Binding) int
	Volume(b Binding) int
	// VideoBuffer returns the current frame, or false while no video format is active.
	VideoBuffer(b Binding) (VideoBuffer, bool)
	FrameRate(b Binding) float64
}

// Engine is a media engine.
type Engine interface {
	Commander
	Querier

	// CreateBinding creates a player instance for location.
	// Every event for the new binding is delivered to sink.
	CreateBinding(location string, sink Sink) (Binding, error)

	// ReleaseBinding disposes of the player instance. Events may still be
	// delivered for it afterwards and must be tolerated.
	ReleaseBinding(b Binding) error
}
