package schedule

import (
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Cron is the production Scheduler: periodic jobs run on a robfig cron loop,
// one-shot timers on time.AfterFunc.
type Cron struct {
	SystemClock
	cron *cron.Cron

	mu     sync.Mutex
	timers map[*time.Timer]struct{}
}

// NewCron creates a stopped scheduler bound to loc.
func NewCron(loc *time.Location) *Cron {
	if loc == nil {
		loc = time.Local
	}
	return &Cron{
		SystemClock: SystemClock{Location: loc},
		cron:        cron.New(cron.WithLocation(loc)),
		timers:      make(map[*time.Timer]struct{}),
	}
}

// Every registers fn to run every interval. Sub-second intervals are rounded up by cron.
func (c *Cron) Every(interval time.Duration, fn func()) (CancelFunc, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	id, err := c.cron.AddFunc(fmt.Sprintf("@every %s", interval), fn)
	if err != nil {
		return nil, fmt.Errorf("schedule: add job: %w", err)
	}
	return func() { c.cron.Remove(id) }, nil
}

// After runs fn once after delay.
func (c *Cron) After(delay time.Duration, fn func()) CancelFunc {
	var t *time.Timer
	c.mu.Lock()
	t = time.AfterFunc(delay, func() {
		// t is assigned before the lock is released.
		c.mu.Lock()
		delete(c.timers, t)
		c.mu.Unlock()
		fn()
	})
	c.timers[t] = struct{}{}
	c.mu.Unlock()

	return func() {
		t.Stop()
		c.forget(t)
	}
}

func (c *Cron) forget(t *time.Timer) {
	c.mu.Lock()
	delete(c.timers, t)
	c.mu.Unlock()
}

// Start begins running periodic jobs in the background.
func (c *Cron) Start() {
	c.cron.Start()
}

// Stop halts periodic jobs, waits for running ones and cancels pending timers.
func (c *Cron) Stop() {
	ctx := c.cron.Stop()
	<-ctx.Done()

	c.mu.Lock()
	for t := range c.timers {
		t.Stop()
	}
	c.timers = make(map[*time.Timer]struct{})
	c.mu.Unlock()
}
