// Package schedule abstracts wall-clock time, periodic jobs and one-shot
// timers so that callers can be driven by cron in production and fast-forwarded
// in tests.
package schedule

import (
	"errors"
	"time"
)

// ErrInvalidInterval is returned when a periodic job is registered with a non-positive interval.
var ErrInvalidInterval = errors.New("schedule: interval must be positive")

// CancelFunc stops a job or timer. Calling it more than once is harmless.
type CancelFunc func()

// Clock reports the current time.
type Clock interface {
	Now() time.Time
}

// Scheduler runs callbacks periodically or once after a delay.
type Scheduler interface {
	Clock
	Every(interval time.Duration, fn func()) (CancelFunc, error)
	After(delay time.Duration, fn func()) CancelFunc
}

// SystemClock is the real clock, reported in a fixed location.
type SystemClock struct {
	Location *time.Location
}

func (c SystemClock) Now() time.Time {
	now := time.Now()
	if c.Location != nil {
		now = now.In(c.Location)
	}
	return now
}
