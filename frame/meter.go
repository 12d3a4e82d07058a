package frame

import (
	"time"

	"github.com/samber/mo"
)

// MeterWindow is the minimum time a RateMeter accumulates frames before it reports a rate.
const MeterWindow = time.Second

// RateMeter measures delivered frames per second over rolling windows.
type RateMeter struct {
	now   func() time.Time
	start time.Time
	count int
	rate  mo.Option[float64]
}

// NewRateMeter returns a meter reading time from now, or time.Now when nil.
func NewRateMeter(now func() time.Time) *RateMeter {
	if now == nil {
		now = time.Now
	}

	m := &RateMeter{now: now}
	m.Reset()
	return m
}

// Tick records one delivered frame. Once a window has elapsed it returns the
// measured rate and starts a new window.
func (m *RateMeter) Tick() mo.Option[float64] {
	m.count++

	now := m.now()
	elapsed := now.Sub(m.start)
	if elapsed < MeterWindow {
		return mo.None[float64]()
	}

	m.rate = mo.Some(float64(m.count) / elapsed.Seconds())
	m.count = 0
	m.start = now
	return m.rate
}

// Count is the number of frames in the current window.
func (m *RateMeter) Count() int {
	return m.count
}

// Rate is the last measured rate.
func (m *RateMeter) Rate() mo.Option[float64] {
	return m.rate
}

// Reset forgets the measured rate and starts a new window now.
func (m *RateMeter) Reset() {
	m.count = 0
	m.start = m.now()
	m.rate = mo.None[float64]()
}
