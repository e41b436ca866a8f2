// Package notifier watches the reminder collection and keeps at most one
// alert for a reminder that is about to come due.
package notifier

import (
	"fmt"
	"sync"
	"time"

	"github.com/pathakanu/myMeds/internal/metrics"
	"github.com/pathakanu/myMeds/internal/model"
	"github.com/pathakanu/myMeds/internal/schedule"
	"go.uber.org/zap"
)

// Reasons an alert leaves the Alerting state.
const (
	ReasonTimeout   = "timeout"
	ReasonDismissed = "dismissed"
	ReasonStopped   = "stopped"
)

// Source provides the reminders to scan.
type Source interface {
	Reminders() []model.Reminder
}

// Alert is the single active notification.
type Alert struct {
	ReminderID int64     `json:"reminder_id"`
	Medicine   string    `json:"medicine"`
	Time       string    `json:"time"`
	Message    string    `json:"message"`
	DueAt      time.Time `json:"due_at"`
	RaisedAt   time.Time `json:"raised_at"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Options tunes the scan.
type Options struct {
	Interval  time.Duration
	TTL       time.Duration
	Lookahead time.Duration
}

// DefaultOptions scans every minute for reminders due within half an hour
// and shows each alert for ten seconds.
func DefaultOptions() Options {
	return Options{Interval: time.Minute, TTL: 10 * time.Second, Lookahead: 30 * time.Minute}
}

// Notifier is an expiring single-slot alert: Idle when active is nil,
// Alerting otherwise.
type Notifier struct {
	source  Source
	sched   schedule.Scheduler
	opts    Options
	logger  *zap.Logger
	metrics *metrics.Collector

	mu         sync.Mutex
	active     *Alert
	generation uint64
	cancelTTL  schedule.CancelFunc
	cancelScan schedule.CancelFunc
}

// New creates an idle notifier. Zero option fields take their defaults.
func New(source Source, sched schedule.Scheduler, opts Options, logger *zap.Logger, m *metrics.Collector) *Notifier {
	def := DefaultOptions()
	if opts.Interval <= 0 {
		opts.Interval = def.Interval
	}
	if opts.TTL <= 0 {
		opts.TTL = def.TTL
	}
	if opts.Lookahead <= 0 {
		opts.Lookahead = def.Lookahead
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Notifier{source: source, sched: sched, opts: opts, logger: logger, metrics: m}
}

// Start registers the periodic scan. Calling Start twice is a no-op.
func (n *Notifier) Start() error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelScan != nil {
		return nil
	}
	cancel, err := n.sched.Every(n.opts.Interval, func() { n.Scan() })
	if err != nil {
		return fmt.Errorf("notifier: register scan: %w", err)
	}
	n.cancelScan = cancel
	n.logger.Info("notifier started", zap.Duration("interval", n.opts.Interval))
	return nil
}

// Stop cancels the periodic scan and any pending dismissal timer.
func (n *Notifier) Stop() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelScan != nil {
		n.cancelScan()
		n.cancelScan = nil
	}
	n.clearLocked(ReasonStopped)
	n.logger.Info("notifier stopped")
}

// Scan looks for a reminder due within the lookahead window and, if one is
// found, makes it the active alert. It returns the alert raised, or nil.
func (n *Notifier) Scan() *Alert {
	now := n.sched.Now()
	n.metrics.ObserveScan()

	winner, due, ok := Due(n.source.Reminders(), now, n.opts.Lookahead)
	if !ok {
		return nil
	}

	alert := &Alert{
		ReminderID: winner.ID,
		Medicine:   winner.Medicine,
		Time:       winner.Time,
		Message:    fmt.Sprintf("Time to take %s at %s", winner.Medicine, formatClock(due)),
		DueAt:      due,
		RaisedAt:   now,
		ExpiresAt:  now.Add(n.opts.TTL),
	}

	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cancelTTL != nil {
		n.cancelTTL()
	}
	n.generation++
	gen := n.generation
	n.active = alert
	n.cancelTTL = n.sched.After(n.opts.TTL, func() { n.expire(gen) })

	n.metrics.ObserveAlertRaised()
	n.logger.Info("alert raised",
		zap.Int64("id", alert.ReminderID),
		zap.String("medicine", alert.Medicine),
		zap.Time("due_at", due),
	)
	copied := *alert
	return &copied
}

// Current returns the active alert, if any.
func (n *Notifier) Current() (Alert, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.active == nil {
		return Alert{}, false
	}
	return *n.active, true
}

// Dismiss clears the active alert on user request.
func (n *Notifier) Dismiss() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearLocked(ReasonDismissed)
}

func (n *Notifier) expire(gen uint64) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if gen != n.generation {
		return
	}
	n.cancelTTL = nil
	n.clearLocked(ReasonTimeout)
}

func (n *Notifier) clearLocked(reason string) {
	if n.cancelTTL != nil {
		n.cancelTTL()
		n.cancelTTL = nil
	}
	if n.active == nil {
		return
	}
	n.logger.Info("alert cleared", zap.Int64("id", n.active.ReminderID), zap.String("reason", reason))
	n.active = nil
	n.generation++
	n.metrics.ObserveAlertCleared(reason)
}

// Due picks the reminder that should alert at now: untaken, scheduled today
// or recurring, and due in (0, lookahead]. The closest due time wins; ties
// go to the earlier reminder in the collection.
func Due(reminders []model.Reminder, now time.Time, lookahead time.Duration) (model.Reminder, time.Time, bool) {
	today := model.DayKey(now)

	var (
		best    model.Reminder
		bestDue time.Time
		found   bool
	)
	for _, r := range reminders {
		// Taken only covers the occurrence on r.Date.
		if r.Date == today {
			if r.Taken {
				continue
			}
		} else if !r.Recurring {
			continue
		}
		due, err := r.DueAt(now)
		if err != nil {
			continue
		}
		diff := due.Sub(now)
		if diff <= 0 || diff > lookahead {
			continue
		}
		if !found || due.Before(bestDue) {
			best, bestDue, found = r, due, true
		}
	}
	return best, bestDue, found
}

func formatClock(t time.Time) string {
	return t.Format("3:04 PM")
}
