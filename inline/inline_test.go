package inline

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/mediasurface/mediasurface/config"
	"github.com/mediasurface/mediasurface/engine"
	"github.com/mediasurface/mediasurface/engine/sim"
	"github.com/mediasurface/mediasurface/filesystem"
	"github.com/samber/lo"
	. "github.com/smartystreets/goconvey/convey"
)

func init() {
	filesystem.SetMemMapFs()
	lo.Must0(config.Setup())
}

func TestParseKinds(t *testing.T) {
	Convey("Given stream kind selectors", t, func() {
		Convey("all and empty should select every kind", func() {
			for _, d := range []string{"", "all", " ALL "} {
				kinds, err := ParseKinds(d)
				So(err, ShouldBeNil)
				So(kinds, ShouldResemble, engine.TrackKinds)
			}
		})

		Convey("none should select nothing", func() {
			kinds, err := ParseKinds("none")
			So(err, ShouldBeNil)
			So(kinds, ShouldBeEmpty)
		})

		Convey("Lists should be deduplicated", func() {
			kinds, err := ParseKinds("audio, sub,subtitle")
			So(err, ShouldBeNil)
			So(kinds, ShouldResemble, []engine.TrackKind{engine.AudioTrack, engine.SubtitleTrack})
		})

		Convey("Unknown kinds should fail", func() {
			_, err := ParseKinds("video,data")
			So(err, ShouldNotBeNil)
		})
	})
}

func TestProbe(t *testing.T) {
	Convey("Given a live simulated engine", t, func() {
		e := sim.New(
			sim.WithLive(),
			sim.WithMedia("broken.mkv", sim.Media{Fail: true}),
		)
		options := &Options{Timeout: 5 * time.Second, Kinds: engine.TrackKinds}

		Convey("A playable source should be reported once it opens", func() {
			report, err := Probe(context.Background(), e, "clip.mkv", options)
			So(err, ShouldBeNil)
			So(report.Opened, ShouldBeTrue)
			So(report.TimedOut, ShouldBeFalse)
			So(report.State, ShouldEqual, "playing")
			So(*report.Length, ShouldEqual, 120)
			So(*report.Chapters, ShouldEqual, 4)
			So(report.Streams["audio"], ShouldHaveLength, 2)
			So(report.Streams["audio"][0].Current, ShouldBeTrue)
			So(report.Video, ShouldNotBeNil)
			So(report.Video.Width, ShouldEqual, 320)

			Convey("And its binding should be released", func() {
				So(e.Live(), ShouldBeEmpty)
			})
		})

		Convey("A failing source should be reported in the error state", func() {
			report, err := Probe(context.Background(), e, "broken.mkv", options)
			So(err, ShouldBeNil)
			So(report.Opened, ShouldBeFalse)
			So(report.State, ShouldEqual, "error")
		})
	})

	Convey("Given an engine that never raises events", t, func() {
		e := sim.New()

		Convey("Probing should time out with what is known", func() {
			report, err := Probe(context.Background(), e, "clip.mkv", &Options{Timeout: 50 * time.Millisecond})
			So(err, ShouldBeNil)
			So(report.TimedOut, ShouldBeTrue)
			So(report.State, ShouldEqual, "stopped")
			So(report.Length, ShouldBeNil)
		})
	})
}

func TestRun(t *testing.T) {
	Convey("Given two sources", t, func() {
		e := sim.New(sim.WithLive())
		var buf bytes.Buffer
		options := &Options{
			Out:     &buf,
			Sources: []string{"a.mkv", "b.mkv"},
			Timeout: 5 * time.Second,
		}

		Convey("JSON output should hold one report per source", func() {
			options.Json = true
			So(Run(e, options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Results, ShouldHaveLength, 2)
			So(output.Results[1].Source, ShouldEqual, "b.mkv")
		})

		Convey("Text output should list the current streams", func() {
			options.Kinds = []engine.TrackKind{engine.AudioTrack}
			So(Run(e, options), ShouldBeNil)
			So(buf.String(), ShouldContainSubstring, "a.mkv: playing, 2:00, 4 chapters")
			So(buf.String(), ShouldContainSubstring, "audio: Stereo [eng] (aac) *")
			So(buf.String(), ShouldNotContainSubstring, "video:")
		})
	})

	Convey("Given no sources", t, func() {
		var buf bytes.Buffer
		So(Run(sim.New(), &Options{Out: &buf, Json: true}), ShouldBeNil)
		So(buf.String(), ShouldEqual, `{"results":[]}`)
	})
}

func TestCache(t *testing.T) {
	Convey("Given probing with the report cache enabled", t, func() {
		var buf bytes.Buffer
		options := &Options{
			Out:           &buf,
			Sources:       []string{"cached.mkv"},
			Json:          true,
			Timeout:       5 * time.Second,
			CacheLifetime: time.Hour,
		}
		So(Run(sim.New(sim.WithLive()), options), ShouldBeNil)

		Convey("A second probe should reuse the report without the engine", func() {
			buf.Reset()
			failing := sim.New(sim.WithLive(), sim.WithMedia("cached.mkv", sim.Media{Fail: true}))
			So(Run(failing, options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Results[0].Cached, ShouldBeTrue)
			So(output.Results[0].State, ShouldEqual, "playing")
		})

		Convey("Listing other stream kinds should probe again", func() {
			buf.Reset()
			options.Kinds = []engine.TrackKind{engine.AudioTrack}
			So(Run(sim.New(sim.WithLive()), options), ShouldBeNil)

			var output Output
			So(json.Unmarshal(buf.Bytes(), &output), ShouldBeNil)
			So(output.Results[0].Cached, ShouldBeFalse)
		})
	})

	Convey("Local files should be keyed by size and modification time", t, func() {
		So(filesystem.API().WriteFile("/media/clip.mkv", []byte("data"), 0o644), ShouldBeNil)
		before := cacheKey("/media/clip.mkv", engine.TrackKinds)

		So(filesystem.API().WriteFile("/media/clip.mkv", []byte("more data"), 0o644), ShouldBeNil)
		So(cacheKey("/media/clip.mkv", engine.TrackKinds), ShouldNotEqual, before)

		So(cacheKey("http://example.com/a.mkv", nil), ShouldEqual, "|http://example.com/a.mkv")
	})
}
