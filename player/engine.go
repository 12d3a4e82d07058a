package player

import (
	"fmt"
	"strings"
	"time"

	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/engine/mpv"
	"github.com/mediasurface/mediasurface/engine/sim"
	"github.com/mediasurface/mediasurface/key"
	"github.com/mediasurface/mediasurface/where"
	"github.com/spf13/viper"
)

const (
	BackendMpv = "mpv"
	BackendSim = "sim"
)

// Backends lists the values engine.backend accepts.
var Backends = []string{BackendMpv, BackendSim}

// NewEngine builds the engine selected by engine.backend.
func NewEngine() (engine.Engine, error) {
	switch backend := strings.ToLower(viper.GetString(key.EngineBackend)); backend {
	case BackendMpv:
		return mpv.New(
			mpv.WithBinary(viper.GetString(key.EngineMpvBinary)),
			mpv.WithArgs(viper.GetStringSlice(key.EngineMpvArgs)...),
			mpv.WithSocketDir(where.Temp()),
			mpv.WithSocketWait(time.Duration(viper.GetInt(key.EngineSocketWait))*time.Second),
		), nil
	case BackendSim:
		return sim.New(sim.WithDefault(SimMedia()), sim.WithLive()), nil
	default:
		return nil, fmt.Errorf("unknown engine backend %q, available options are: %s",
			backend, strings.Join(Backends, ", "))
	}
}

// SimMedia is the media the simulated engine plays, as configured by the sim.* keys.
func SimMedia() sim.Media {
	m := sim.DefaultMedia()
	m.Length = time.Duration(viper.GetInt(key.SimLength)) * time.Second
	m.Chapters = viper.GetInt(key.SimChapters)
	m.FPS = viper.GetFloat64(key.SimFPS)
	m.Width = viper.GetInt(key.SimWidth)
	m.Height = viper.GetInt(key.SimHeight)

	for i, t := range m.Tracks {
		if t.Kind == engine.VideoTrack {
			m.Tracks[i].Width, m.Tracks[i].Height = m.Width, m.Height
		}
	}

	return m
}
