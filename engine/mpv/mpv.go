// Package mpv is an engine.Engine driving mpv over its JSON-IPC interface.
//
// Every binding is its own idle mpv process. Commands go over short-lived
// connections to the process socket; a persistent connection observes the
// properties queries need, so queries answer from a cache and never block.
// mpv renders into its own window and does not hand decoded frames back:
// video events carry the format only.
package mpv

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sync"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/log"
	"github.com/samber/lo"
)

var (
	ErrInvalidLocation = errors.New("invalid media target")
	ErrNoSink          = errors.New("nil sink")
	ErrOutOfRange      = errors.New("index out of range")
)

// Option configures an Engine.
type Option func(*Engine)

// WithBinary sets the mpv executable. Defaults to "mpv" on PATH.
func WithBinary(path string) Option {
	return func(e *Engine) { e.binary = path }
}

// WithArgs appends extra arguments to every mpv instance.
func WithArgs(args ...string) Option {
	return func(e *Engine) { e.args = append(e.args, args...) }
}

// WithSocketDir sets the directory IPC sockets are created in.
func WithSocketDir(dir string) Option {
	return func(e *Engine) { e.socketDir = dir }
}

// WithSocketWait bounds how long a new instance may take to open its socket.
func WithSocketWait(d time.Duration) Option {
	return func(e *Engine) { e.socketWait = d }
}

// Engine runs one mpv process per binding.
type Engine struct {
	binary     string
	args       []string
	socketDir  string
	socketWait time.Duration

	mu        sync.Mutex
	last      engine.Binding
	instances map[engine.Binding]*instance
}

var _ engine.Engine = (*Engine)(nil)

func New(opts ...Option) *Engine {
	e := &Engine{
		binary:     "mpv",
		socketDir:  os.TempDir(),
		socketWait: 5 * time.Second,
		instances:  make(map[engine.Binding]*instance),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type instance struct {
	location string
	proc     *process
	events   *listener

	mu sync.Mutex
	// unloaded is set until the location is handed to mpv and again after a stop,
	// which clears mpv's playlist.
	unloaded bool
}

// CreateBinding implements engine.Engine. The location is loaded on the first Play.
func (e *Engine) CreateBinding(location string, sink engine.Sink) (engine.Binding, error) {
	if sink == nil {
		return engine.NoBinding, ErrNoSink
	}

	target, err := sanitizeMediaTarget(location)
	if err != nil {
		return engine.NoBinding, fmt.Errorf("%w: %w", ErrInvalidLocation, err)
	}

	proc, err := startProcess(e.binary, e.args, e.socketDir, e.socketWait)
	if err != nil {
		return engine.NoBinding, err
	}

	e.mu.Lock()
	e.last++
	b := e.last
	e.mu.Unlock()

	events := newListener(func(kind engine.EventKind) {
		sink(engine.Event{Binding: b, Kind: kind})
	})
	if err := events.start(proc.socket); err != nil {
		proc.close()
		return engine.NoBinding, err
	}

	e.mu.Lock()
	e.instances[b] = &instance{
		location: target,
		proc:     proc,
		events:   events,
		unloaded: true,
	}
	e.mu.Unlock()

	log.WithField("binding", b).Infof("mpv started on %s", proc.socket)
	return b, nil
}

// ReleaseBinding implements engine.Engine. The process is shut down in the background.
func (e *Engine) ReleaseBinding(b engine.Binding) error {
	e.mu.Lock()
	inst, ok := e.instances[b]
	delete(e.instances, b)
	e.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %d", engine.ErrUnknownBinding, b)
	}

	inst.events.stop()
	go inst.proc.close()
	return nil
}

func (e *Engine) instance(b engine.Binding) (*instance, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	inst, ok := e.instances[b]
	if !ok {
		return nil, fmt.Errorf("%w: %d", engine.ErrUnknownBinding, b)
	}
	return inst, nil
}

// command sends one IPC command to b's process.
func (e *Engine) command(b engine.Binding, command ...any) error {
	inst, err := e.instance(b)
	if err != nil {
		return err
	}

	_, err = sendCommand(inst.proc.socket, command...)
	return err
}

func (e *Engine) Play(b engine.Binding) error {
	inst, err := e.instance(b)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if inst.unloaded || inst.events.boolProp("idle-active") {
		if _, err := sendCommand(inst.proc.socket, "loadfile", inst.location, "replace"); err != nil {
			return err
		}
		inst.unloaded = false
	}

	_, err = sendCommand(inst.proc.socket, "set_property", "pause", false)
	return err
}

func (e *Engine) Pause(b engine.Binding) error {
	return e.command(b, "set_property", "pause", true)
}

func (e *Engine) Stop(b engine.Binding) error {
	inst, err := e.instance(b)
	if err != nil {
		return err
	}

	inst.mu.Lock()
	defer inst.mu.Unlock()

	if _, err := sendCommand(inst.proc.socket, "stop"); err != nil {
		return err
	}
	inst.unloaded = true
	return nil
}

func (e *Engine) NextFrame(b engine.Binding) error {
	return e.command(b, "frame-step")
}

func (e *Engine) PreviousChapter(b engine.Binding) error {
	return e.command(b, "add", "chapter", -1)
}

func (e *Engine) NextChapter(b engine.Binding) error {
	return e.command(b, "add", "chapter", 1)
}

func (e *Engine) SetTime(b engine.Binding, t time.Duration) error {
	return e.command(b, "seek", t.Seconds(), "absolute")
}

func (e *Engine) SetChapter(b engine.Binding, chapter int) error {
	return e.command(b, "set_property", "chapter", chapter)
}

func (e *Engine) SetVolume(b engine.Binding, percent int) error {
	return e.command(b, "set_property", "volume", lo.Clamp(percent, 0, 200))
}

func (e *Engine) SelectTrack(b engine.Binding, kind engine.TrackKind, index int) error {
	inst, err := e.instance(b)
	if err != nil {
		return err
	}

	property := trackTypes[kind].property
	if index == -1 {
		_, err = sendCommand(inst.proc.socket, "set_property", property, "no")
		return err
	}

	list, _ := inst.events.property("track-list")
	tracks := parseTracks(list, kind)
	if index < 0 || index >= len(tracks) {
		return fmt.Errorf("%w: %s track %d", ErrOutOfRange, kind, index)
	}

	_, err = sendCommand(inst.proc.socket, "set_property", property, tracks[index].id)
	return err
}

// LoadSubitem plays the playlist entry index places after the current one.
func (e *Engine) LoadSubitem(b engine.Binding, index int) error {
	inst, err := e.instance(b)
	if err != nil {
		return err
	}

	if index < 0 || index >= e.SubitemCount(b) {
		return fmt.Errorf("%w: sub-item %d", ErrOutOfRange, index)
	}

	pos := inst.events.intProp("playlist-pos", 0)
	_, err = sendCommand(inst.proc.socket, "playlist-play-index", pos+1+index)
	return err
}

func (e *Engine) query(b engine.Binding, fn func(inst *instance)) {
	if inst, err := e.instance(b); err == nil {
		fn(inst)
	}
}

func (e *Engine) Location(b engine.Binding) (location string) {
	e.query(b, func(inst *instance) {
		location = inst.events.stringProp("path")
		if location == "" {
			location = inst.location
		}
	})
	return
}

func seconds(s float64) time.Duration {
	return time.Duration(s * float64(time.Second))
}

func (e *Engine) Length(b engine.Binding) (length time.Duration) {
	e.query(b, func(inst *instance) { length = seconds(inst.events.floatProp("duration")) })
	return
}

func (e *Engine) Time(b engine.Binding) (t time.Duration) {
	e.query(b, func(inst *instance) { t = seconds(inst.events.floatProp("time-pos")) })
	return
}

func (e *Engine) Chapter(b engine.Binding) (chapter int) {
	e.query(b, func(inst *instance) { chapter = max(inst.events.intProp("chapter", 0), 0) })
	return
}

func (e *Engine) ChapterCount(b engine.Binding) (count int) {
	e.query(b, func(inst *instance) { count = inst.events.intProp("chapters", 0) })
	return
}

func (e *Engine) Tracks(b engine.Binding, kind engine.TrackKind) (tracks []engine.Track) {
	e.query(b, func(inst *instance) {
		list, _ := inst.events.property("track-list")
		tracks = lo.Map(parseTracks(list, kind), func(t mpvTrack, _ int) engine.Track { return t.Track })
	})
	return
}

func (e *Engine) SelectedTrack(b engine.Binding, kind engine.TrackKind) (index int) {
	index = -1
	e.query(b, func(inst *instance) {
		list, _ := inst.events.property("track-list")
		if t, ok := lo.Find(parseTracks(list, kind), func(t mpvTrack) bool { return t.selected }); ok {
			index = t.Index
		}
	})
	return
}

func (e *Engine) SubitemCount(b engine.Binding) (count int) {
	e.query(b, func(inst *instance) {
		pos := inst.events.intProp("playlist-pos", -1)
		if pos < 0 {
			return
		}
		count = max(inst.events.intProp("playlist-count", 0)-pos-1, 0)
	})
	return
}

func (e *Engine) Volume(b engine.Binding) (volume int) {
	e.query(b, func(inst *instance) { volume = int(math.Round(inst.events.floatProp("volume"))) })
	return
}

func (e *Engine) VideoBuffer(b engine.Binding) (vb engine.VideoBuffer, ok bool) {
	e.query(b, func(inst *instance) {
		params, _ := inst.events.property("video-params")
		vb, ok = videoParams(params)
	})
	return
}

func (e *Engine) FrameRate(b engine.Binding) (fps float64) {
	e.query(b, func(inst *instance) { fps = inst.events.floatProp("container-fps") })
	return
}
