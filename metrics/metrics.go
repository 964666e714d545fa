// Package metrics reports observer dispatch activity to Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/saylorsolutions/evented/observer"
)

const eventLabel = "event"

var (
	_ observer.Stats       = (*Stats)(nil)
	_ prometheus.Collector = (*Stats)(nil)
)

// Stats is an [observer.Stats] backed by Prometheus counters, labeled by event name.
// It's also a [prometheus.Collector], so it can be registered directly.
type Stats struct {
	dispatched *prometheus.CounterVec
	invoked    *prometheus.CounterVec
	failed     *prometheus.CounterVec
	dropped    *prometheus.CounterVec
}

// NewStats creates [Stats] with metric names under the given namespace, e.g. "myapp_observer_dispatches_total".
func NewStats(namespace string) *Stats {
	counter := func(name, help string) *prometheus.CounterVec {
		return prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "observer",
				Name:      name,
				Help:      help,
			},
			[]string{eventLabel},
		)
	}
	return &Stats{
		dispatched: counter("dispatches_total", "Total number of dispatch passes"),
		invoked:    counter("invocations_total", "Total number of observers that returned without error"),
		failed:     counter("failures_total", "Total number of observers that returned an error or panicked"),
		dropped:    counter("dropped_total", "Total number of weak observers dropped after their target was collected"),
	}
}

func (s *Stats) Dispatched(event string) {
	s.dispatched.WithLabelValues(event).Inc()
}

func (s *Stats) Invoked(event string) {
	s.invoked.WithLabelValues(event).Inc()
}

func (s *Stats) Failed(event string) {
	s.failed.WithLabelValues(event).Inc()
}

func (s *Stats) Dropped(event string) {
	s.dropped.WithLabelValues(event).Inc()
}

func (s *Stats) Describe(ch chan<- *prometheus.Desc) {
	s.dispatched.Describe(ch)
	s.invoked.Describe(ch)
	s.failed.Describe(ch)
	s.dropped.Describe(ch)
}

func (s *Stats) Collect(ch chan<- prometheus.Metric) {
	s.dispatched.Collect(ch)
	s.invoked.Collect(ch)
	s.failed.Collect(ch)
	s.dropped.Collect(ch)
}
