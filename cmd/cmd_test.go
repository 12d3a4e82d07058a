package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mediasurface/mediasurface/config"
	"github.com/mediasurface/mediasurface/engine/sim"
	"github.com/mediasurface/mediasurface/filesystem"
	"github.com/mediasurface/mediasurface/key"
	"github.com/mediasurface/mediasurface/surface"
	"github.com/mediasurface/mediasurface/where"
	"github.com/samber/lo"
	"github.com/samber/mo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func TestParseValue(t *testing.T) {
	Convey("Given configuration fields", t, func() {
		Convey("Values should be converted to the default's type", func() {
			v, err := parseValue(config.Default[key.PlayerVolume], []string{"80"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, 80)

			v, err = parseValue(config.Default[key.PlayerAutoplay], []string{"false"})
			So(err, ShouldBeNil)
			So(v, ShouldEqual, false)

			v, err = parseValue(config.Default[key.EngineMpvArgs], []string{"--hwdec=auto", "--mute"})
			So(err, ShouldBeNil)
			So(v, ShouldResemble, []string{"--hwdec=auto", "--mute"})
		})

		Convey("Malformed values should fail", func() {
			_, err := parseValue(config.Default[key.PlayerVolume], []string{"loud"})
			So(err, ShouldNotBeNil)

			_, err = parseValue(config.Default[key.EngineBackend], nil)
			So(err, ShouldNotBeNil)
		})

		Convey("Unknown keys should suggest the closest one", func() {
			So(errUnknownKey("player.volum").Error(), ShouldContainSubstring, key.PlayerVolume)
		})
	})
}

func TestEnvVariables(t *testing.T) {
	Convey("Every field and the config path override should be listed", t, func() {
		envs := envVariables()
		So(envs, ShouldHaveLength, len(config.Default)+1)
		So(envs, ShouldContain, "MEDIASURFACE_ENGINE_BACKEND")
		So(envs, ShouldContain, where.EnvConfigPath)
	})
}

func TestProbeSchema(t *testing.T) {
	Convey("The probe schema should describe the report", t, func() {
		data, err := json.Marshal(probeSchema())
		So(err, ShouldBeNil)
		So(string(data), ShouldContainSubstring, "results")
		So(string(data), ShouldContainSubstring, "timedOut")
	})
}

func TestPlay(t *testing.T) {
	Convey("Given a live simulated engine", t, func() {
		e := sim.New(
			sim.WithLive(),
			sim.WithMedia("short.mkv", sim.Media{Length: 200 * time.Millisecond, FPS: 50}),
			sim.WithMedia("broken.mkv", sim.Media{Fail: true}),
		)
		var out bytes.Buffer

		Convey("Playing should return once the end is reached", func() {
			So(play(context.Background(), e, "short.mkv", &out), ShouldBeNil)
			So(out.String(), ShouldContainSubstring, "short.mkv")
			So(out.String(), ShouldContainSubstring, "end reached")
			So(e.Live(), ShouldBeEmpty)
		})

		Convey("A failing source should be an error", func() {
			err := play(context.Background(), e, "broken.mkv", &out)
			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "could not be played")
		})

		Convey("Cancelling should stop playback without an error", func() {
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			So(play(ctx, e, "short.mkv", &out), ShouldBeNil)
		})
	})
}

func TestProgressLine(t *testing.T) {
	Convey("The progress line should show position, length and chapter", t, func() {
		line := progressLine(surface.Snapshot{
			Position:       mo.Some(65 * time.Second),
			Length:         mo.Some(2 * time.Minute),
			CurrentChapter: mo.Some(1),
			ChapterCount:   mo.Some(4),
		})
		So(line, ShouldStartWith, "1:05 / 2:00")
		So(line, ShouldEndWith, "2/4")
	})
}
