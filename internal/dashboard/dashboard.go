package dashboard

import (
	"context"
	"fmt"

	"github.com/pathakanu/myMeds/internal/assistant"
	"github.com/pathakanu/myMeds/internal/metrics"
	"github.com/pathakanu/myMeds/internal/model"
	"github.com/pathakanu/myMeds/internal/notifier"
	"github.com/pathakanu/myMeds/internal/reminder"
	"go.uber.org/zap"
)

// Dashboard coordinates the reminder store, the due-reminder notifier and
// the symptom assistant, and serves them over HTTP.
type Dashboard struct {
	store     *reminder.Store
	notifier  *notifier.Notifier
	assistant *assistant.Assistant
	metrics   *metrics.Collector
	logger    *zap.Logger
}

// New creates a Dashboard. The store is not loaded until StartScheduler.
func New(store *reminder.Store, n *notifier.Notifier, a *assistant.Assistant, m *metrics.Collector, logger *zap.Logger) *Dashboard {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Dashboard{store: store, notifier: n, assistant: a, metrics: m, logger: logger}
}

// StartScheduler loads persisted reminders and registers the periodic scan.
func (d *Dashboard) StartScheduler(ctx context.Context) error {
	d.store.Load(ctx)
	if err := d.notifier.Start(); err != nil {
		return fmt.Errorf("dashboard: start notifier: %w", err)
	}
	return nil
}

// StopScheduler cancels the scan and any alert timer.
func (d *Dashboard) StopScheduler() {
	d.notifier.Stop()
}

// TodayItem is a reminder of today with its display time.
type TodayItem struct {
	model.Reminder
	DisplayTime string `json:"display_time"`
}

// TodayView is the list and summary for the current day.
type TodayView struct {
	Date      string           `json:"date"`
	Reminders []TodayItem      `json:"reminders"`
	Summary   reminder.Summary `json:"summary"`
}

// Today builds the view of today's reminders.
func (d *Dashboard) Today() TodayView {
	day := d.store.Today()
	all := d.store.Reminders()

	items := []TodayItem{}
	for _, r := range reminder.ForDay(all, day) {
		items = append(items, TodayItem{Reminder: r, DisplayTime: reminder.FormatTime(r.Time)})
	}
	return TodayView{Date: day, Reminders: items, Summary: reminder.Summarize(all, day)}
}

// HourSlot is one column of the timeline.
type HourSlot struct {
	Hour      int              `json:"hour"`
	Label     string           `json:"label"`
	Reminders []model.Reminder `json:"reminders"`
}

// Timeline buckets today's reminders by hour.
func (d *Dashboard) Timeline() []HourSlot {
	buckets := reminder.Bucket(reminder.ForDay(d.store.Reminders(), d.store.Today()))
	slots := make([]HourSlot, reminder.HoursPerDay)
	for h := range slots {
		rs := buckets[h]
		if rs == nil {
			rs = []model.Reminder{}
		}
		slots[h] = HourSlot{Hour: h, Label: reminder.HourLabel(h), Reminders: rs}
	}
	return slots
}
