package filesystem

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"
)

func TestApi(t *testing.T) {
	Convey("Filesystem API", t, func() {
		Convey("Defaults to OsFs", func() {
			SetOsFs()
			So(API().Name(), ShouldEqual, "OsFs")
		})

		Convey("Switches to MemMapFs", func() {
			SetMemMapFs()
			So(API().Name(), ShouldEqual, "MemMapFS")

			So(API().WriteFile("/frame.png", []byte{1, 2, 3}, 0o644), ShouldBeNil)
			data, err := API().ReadFile("/frame.png")
			So(err, ShouldBeNil)
			So(data, ShouldResemble, []byte{1, 2, 3})
		})
	})
}
