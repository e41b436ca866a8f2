package schedule

import (
	"sync"
	"time"
)

// Manual is a Scheduler whose clock only moves when Advance is called.
// Jobs fire synchronously inside Advance, in due-time order.
type Manual struct {
	mu    sync.Mutex
	now   time.Time
	seq   int
	tasks []*manualTask
}

type manualTask struct {
	at    time.Time
	every time.Duration
	seq   int
	fn    func()
	done  bool
}

// NewManual returns a Manual scheduler starting at now.
func NewManual(now time.Time) *Manual {
	return &Manual{now: now}
}

func (m *Manual) Now() time.Time {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.now
}

// Set jumps the clock to t without firing anything scheduled in between.
func (m *Manual) Set(t time.Time) {
	m.mu.Lock()
	m.now = t
	m.mu.Unlock()
}

func (m *Manual) Every(interval time.Duration, fn func()) (CancelFunc, error) {
	if interval <= 0 {
		return nil, ErrInvalidInterval
	}
	return m.add(interval, interval, fn), nil
}

func (m *Manual) After(delay time.Duration, fn func()) CancelFunc {
	return m.add(delay, 0, fn)
}

func (m *Manual) add(delay, every time.Duration, fn func()) CancelFunc {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	task := &manualTask{at: m.now.Add(delay), every: every, seq: m.seq, fn: fn}
	m.tasks = append(m.tasks, task)
	return func() {
		m.mu.Lock()
		task.done = true
		m.mu.Unlock()
	}
}

// Pending reports how many jobs and timers are still scheduled.
func (m *Manual) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if !t.done {
			n++
		}
	}
	return n
}

// Advance moves the clock forward by d, firing every job that comes due.
func (m *Manual) Advance(d time.Duration) {
	m.mu.Lock()
	target := m.now.Add(d)
	m.mu.Unlock()

	for {
		m.mu.Lock()
		next := m.nextDue(target)
		if next == nil {
			m.now = target
			m.prune()
			m.mu.Unlock()
			return
		}
		m.now = next.at
		if next.every > 0 {
			next.at = next.at.Add(next.every)
		} else {
			next.done = true
		}
		fn := next.fn
		m.mu.Unlock()

		fn()
	}
}

func (m *Manual) nextDue(target time.Time) *manualTask {
	var next *manualTask
	for _, t := range m.tasks {
		if t.done || t.at.After(target) {
			continue
		}
		if next == nil || t.at.Before(next.at) || (t.at.Equal(next.at) && t.seq < next.seq) {
			next = t
		}
	}
	return next
}

func (m *Manual) prune() {
	live := m.tasks[:0]
	for _, t := range m.tasks {
		if !t.done {
			live = append(live, t)
		}
	}
	m.tasks = live
}
