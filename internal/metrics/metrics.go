package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "mymeds"

// Collector exposes counters and gauges for the reminder dashboard.
// A nil *Collector is valid and records nothing.
type Collector struct {
	remindersTotal  *prometheus.CounterVec
	persistFailures prometheus.Counter
	adherenceRate   prometheus.Gauge
	scansTotal      prometheus.Counter
	alertsRaised    prometheus.Counter
	alertsCleared   *prometheus.CounterVec
	assistantTotal  *prometheus.CounterVec
	gatherer        prometheus.Gatherer
}

// NewCollector registers all metrics with reg. A nil reg uses a fresh registry.
func NewCollector(reg *prometheus.Registry) *Collector {
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	c := &Collector{
		remindersTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "operations_total",
			Help:      "Reminder store mutations by operation.",
		}, []string{"operation"}),
		persistFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "reminders",
			Name:      "persist_failures_total",
			Help:      "Mutations rolled back because the durable store rejected the write.",
		}),
		adherenceRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "adherence",
			Name:      "today_ratio",
			Help:      "Fraction of today's reminders marked taken at last recompute.",
		}),
		scansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "scans_total",
			Help:      "Periodic due-reminder scans executed.",
		}),
		alertsRaised: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "alerts_raised_total",
			Help:      "Alerts raised, including replacements of an active alert.",
		}),
		alertsCleared: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "notifier",
			Name:      "alerts_cleared_total",
			Help:      "Alerts cleared by reason (timeout, dismissed, stopped).",
		}, []string{"reason"}),
		assistantTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "assistant",
			Name:      "replies_total",
			Help:      "Assistant replies by how the symptom was resolved.",
		}, []string{"source"}),
		gatherer: reg,
	}
	reg.MustRegister(
		c.remindersTotal,
		c.persistFailures,
		c.adherenceRate,
		c.scansTotal,
		c.alertsRaised,
		c.alertsCleared,
		c.assistantTotal,
	)
	return c
}

func (c *Collector) ObserveReminder(operation string) {
	if c == nil {
		return
	}
	c.remindersTotal.WithLabelValues(operation).Inc()
}

func (c *Collector) ObservePersistFailure() {
	if c == nil {
		return
	}
	c.persistFailures.Inc()
}

func (c *Collector) SetAdherence(taken, total int) {
	if c == nil {
		return
	}
	if total == 0 {
		c.adherenceRate.Set(0)
		return
	}
	c.adherenceRate.Set(float64(taken) / float64(total))
}

func (c *Collector) ObserveScan() {
	if c == nil {
		return
	}
	c.scansTotal.Inc()
}

func (c *Collector) ObserveAlertRaised() {
	if c == nil {
		return
	}
	c.alertsRaised.Inc()
}

func (c *Collector) ObserveAlertCleared(reason string) {
	if c == nil {
		return
	}
	c.alertsCleared.WithLabelValues(reason).Inc()
}

func (c *Collector) ObserveAssistant(source string) {
	if c == nil {
		return
	}
	c.assistantTotal.WithLabelValues(source).Inc()
}

// Handler serves the collector's registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})
}
