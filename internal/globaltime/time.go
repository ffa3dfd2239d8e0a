// Package globaltime is the process-wide clock. Production code reads it
// like time.Now; tests pin it to a fixed instant so date-window and
// timestamp assertions stay stable.
package globaltime

import (
	"sync"
	"time"
)

var clock = struct {
	sync.RWMutex
	now func() time.Time
}{now: time.Now}

// Now returns the current (possibly mocked) time.
func Now() time.Time {
	clock.RLock()
	defer clock.RUnlock()
	return clock.now()
}

// UTC is Now normalized to UTC.
func UTC() time.Time {
	return Now().UTC()
}

// StartOfDay returns today's midnight in UTC.
func StartOfDay() time.Time {
	now := UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// SetMockTime freezes the clock at t until ResetTime is called. Tests that
// use it must not run in parallel with other clock readers.
func SetMockTime(t time.Time) {
	clock.Lock()
	defer clock.Unlock()
	clock.now = func() time.Time { return t }
}

// ResetTime restores the real clock.
func ResetTime() {
	clock.Lock()
	defer clock.Unlock()
	clock.now = time.Now
}
