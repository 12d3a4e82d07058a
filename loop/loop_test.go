package loop

import (
	"context"
	"sync"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"
)

func TestLoop(t *testing.T) {
	Convey("Given a loop", t, func() {
		l := New()

		Convey("Tasks run only when drained", func() {
			var ran bool
			So(l.Post(func() { ran = true }), ShouldBeNil)
			So(ran, ShouldBeFalse)
			So(l.Pending(), ShouldEqual, 1)

			So(l.Drain(), ShouldEqual, 1)
			So(ran, ShouldBeTrue)
			So(l.Pending(), ShouldEqual, 0)
		})

		Convey("Posting signals the wake channel", func() {
			_ = l.Post(func() {})
			_ = l.Post(func() {})
			var woke bool
			select {
			case <-l.Wake():
				woke = true
			default:
			}
			So(woke, ShouldBeTrue)
		})

		Convey("Tasks posted in sequence from different goroutines run in that order", func() {
			var order []int
			for i := 1; i <= 3; i++ {
				var wg sync.WaitGroup
				wg.Add(1)
				go func() {
					defer wg.Done()
					_ = l.Post(func() { order = append(order, i) })
				}()
				wg.Wait()
			}

			l.Drain()
			So(order, ShouldResemble, []int{1, 2, 3})
		})

		Convey("Tasks posted during a drain run in the same drain", func() {
			var order []string
			_ = l.Post(func() {
				order = append(order, "outer")
				_ = l.Post(func() { order = append(order, "inner") })
			})

			So(l.Drain(), ShouldEqual, 2)
			So(order, ShouldResemble, []string{"outer", "inner"})
		})

		Convey("Concurrent producers lose nothing", func() {
			var (
				wg    sync.WaitGroup
				count int
			)
			for range 8 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					for range 100 {
						_ = l.Post(func() { count++ })
					}
				}()
			}
			wg.Wait()

			l.Drain()
			So(count, ShouldEqual, 800)
		})

		Convey("Run consumes until cancelled", func() {
			ctx, cancel := context.WithCancel(context.Background())
			done := make(chan int, 1)
			_ = l.Post(func() { done <- 1 })

			errs := make(chan error, 1)
			go func() { errs <- l.Run(ctx) }()

			var got int
			select {
			case got = <-done:
			case <-time.After(time.Second):
			}
			So(got, ShouldEqual, 1)

			cancel()
			So(<-errs, ShouldEqual, context.Canceled)
		})

		Convey("Closed loops reject tasks and stop Run", func() {
			l.Close()
			l.Close()
			So(l.Post(func() {}), ShouldEqual, ErrClosed)
			So(l.Run(context.Background()), ShouldBeNil)
		})
	})
}
