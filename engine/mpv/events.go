package mpv

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"sync"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/log"
)

// observedProperties are mirrored into the listener's cache. Queries read the
// cache so they never wait on the socket.
var observedProperties = []string{
	"pause",
	"time-pos",
	"duration",
	"chapter",
	"chapters",
	"volume",
	"track-list",
	"video-params",
	"container-fps",
	"playlist-count",
	"playlist-pos",
	"eof-reached",
	"idle-active",
	"path",
}

// maxLineSize bounds a single IPC message; track lists of large containers get long.
const maxLineSize = 1 << 20

// listener keeps one persistent connection to mpv, observes properties on it
// and translates what mpv reports into engine events.
type listener struct {
	conn net.Conn
	emit func(engine.EventKind)
	done chan struct{}

	writeMu sync.Mutex

	mu      sync.RWMutex
	props   map[string]any
	loaded  bool
	video   bool
	stopped bool
}

func newListener(emit func(engine.EventKind)) *listener {
	return &listener{
		emit:  emit,
		done:  make(chan struct{}),
		props: make(map[string]any),
	}
}

// start connects to socket, subscribes to observedProperties and begins reading.
func (l *listener) start(socket string) error {
	conn, err := net.Dial("unix", socket)
	if err != nil {
		return fmt.Errorf("event listener connect: %w", err)
	}
	l.conn = conn

	// observers are per client, so they go over the connection that reads the events
	for i, name := range observedProperties {
		if err := l.write("observe_property", i+1, name); err != nil {
			_ = conn.Close()
			return fmt.Errorf("observe %s: %w", name, err)
		}
	}

	go l.readLoop()
	return nil
}

func (l *listener) write(command ...any) error {
	payload, err := json.Marshal(ipcCommand{Command: command})
	if err != nil {
		return err
	}

	l.writeMu.Lock()
	defer l.writeMu.Unlock()

	_, err = l.conn.Write(append(payload, '\n'))
	return err
}

// stop closes the connection. Events already read may still be emitted.
func (l *listener) stop() {
	l.mu.Lock()
	l.stopped = true
	l.mu.Unlock()

	if l.conn != nil {
		_ = l.conn.Close()
	}
}

func (l *listener) readLoop() {
	defer close(l.done)

	scanner := bufio.NewScanner(l.conn)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)

	for scanner.Scan() {
		var msg ipcMessage
		if err := json.Unmarshal(scanner.Bytes(), &msg); err != nil {
			log.Debugf("mpv: skipping unparseable line: %s", err)
			continue
		}

		for _, kind := range l.translate(msg) {
			l.emit(kind)
		}
	}

	l.mu.RLock()
	stopped := l.stopped
	l.mu.RUnlock()

	if err := scanner.Err(); err != nil && !stopped && !errors.Is(err, net.ErrClosed) {
		log.Warnf("mpv event listener read error: %s", err)
	}
}

// translate updates the cache from msg and returns the events it amounts to.
func (l *listener) translate(msg ipcMessage) []engine.EventKind {
	l.mu.Lock()
	defer l.mu.Unlock()

	switch msg.Event {
	case "":
		// reply to one of our observe commands
		return nil

	case "start-file":
		l.loaded = false
		return []engine.EventKind{engine.Opening}

	case "file-loaded":
		l.loaded = true
		kinds := []engine.EventKind{engine.MediaChanged}
		if paused, _ := l.props["pause"].(bool); !paused {
			kinds = append(kinds, engine.Playing)
		}
		return kinds

	case "end-file":
		l.loaded = false
		switch msg.Reason {
		case "error":
			return []engine.EventKind{engine.EncounteredError}
		case "stop", "quit":
			return []engine.EventKind{engine.Stopped}
		default:
			// eof is reported through eof-reached since files are kept open
			return nil
		}

	case "property-change":
		l.props[msg.Name] = msg.Data
		return l.propertyChanged(msg.Name, msg.Data)
	}

	return nil
}

func (l *listener) propertyChanged(name string, data any) []engine.EventKind {
	switch name {
	case "pause":
		if !l.loaded {
			return nil
		}
		if paused, _ := data.(bool); paused {
			return []engine.EventKind{engine.Paused}
		}
		return []engine.EventKind{engine.Playing}

	case "time-pos":
		if l.loaded && data != nil {
			return []engine.EventKind{engine.TimeChanged}
		}

	case "eof-reached":
		if reached, _ := data.(bool); reached && l.loaded {
			return []engine.EventKind{engine.EndReached}
		}

	case "video-params":
		_, ok := videoParams(data)
		switch {
		case ok:
			l.video = true
			return []engine.EventKind{engine.VideoFormat}
		case l.video:
			l.video = false
			return []engine.EventKind{engine.VideoCleanup}
		}
	}

	return nil
}

// property returns the cached value of an observed property.
func (l *listener) property(name string) (any, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	v, ok := l.props[name]
	return v, ok && v != nil
}

func (l *listener) floatProp(name string) float64 {
	v, _ := l.property(name)
	f, _ := v.(float64)
	return f
}

// intProp reads a numeric property. JSON numbers decode as float64.
func (l *listener) intProp(name string, fallback int) int {
	v, ok := l.property(name)
	if !ok {
		return fallback
	}
	f, ok := v.(float64)
	if !ok {
		return fallback
	}
	return int(f)
}

func (l *listener) boolProp(name string) bool {
	v, _ := l.property(name)
	b, _ := v.(bool)
	return b
}

func (l *listener) stringProp(name string) string {
	v, _ := l.property(name)
	s, _ := v.(string)
	return s
}

// videoParams extracts the display size from a video-params value.
func videoParams(data any) (engine.VideoBuffer, bool) {
	params, ok := data.(map[string]any)
	if !ok {
		return engine.VideoBuffer{}, false
	}

	w, _ := params["w"].(float64)
	h, _ := params["h"].(float64)
	if w <= 0 || h <= 0 {
		return engine.VideoBuffer{}, false
	}

	return engine.VideoBuffer{
		Width:  int(w),
		Height: int(h),
		Stride: int(w) * 4,
	}, true
}
