// Package metrics exports learning-rate schedule progress to Prometheus.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the metric vectors shared by every schedule on a registry.
// Create it once per registry and derive one Recorder per schedule.
type Metrics struct {
	learningRate *prometheus.GaugeVec
	step         *prometheus.GaugeVec
	stage        *prometheus.GaugeVec
	handoffs     *prometheus.CounterVec
}

// New registers the schedule metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		learningRate: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lrschedule",
			Subsystem: "scheduler",
			Name:      "learning_rate",
			Help:      "Learning rate of each parameter group after the last step",
		}, []string{"schedule", "group"}),

		step: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lrschedule",
			Subsystem: "scheduler",
			Name:      "global_step",
			Help:      "Number of steps taken by the schedule",
		}, []string{"schedule"}),

		stage: factory.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "lrschedule",
			Subsystem: "scheduler",
			Name:      "active_stage",
			Help:      "Index of the active stage of a combined schedule",
		}, []string{"schedule"}),

		handoffs: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lrschedule",
			Subsystem: "scheduler",
			Name:      "handoffs_total",
			Help:      "Total handoffs between stages",
		}, []string{"schedule"}),
	}
}

// Recorder returns an observer for the schedule with the given name.
func (m *Metrics) Recorder(schedule string) *Recorder {
	return &Recorder{metrics: m, schedule: schedule}
}

// Recorder implements scheduler.Observer for one schedule.
type Recorder struct {
	metrics  *Metrics
	schedule string
}

// ObserveStep records the global step, the active stage and every group's rate.
func (r *Recorder) ObserveStep(step, stage int, lrs []float64) {
	r.metrics.step.WithLabelValues(r.schedule).Set(float64(step))
	r.metrics.stage.WithLabelValues(r.schedule).Set(float64(stage))
	for group, lr := range lrs {
		r.metrics.learningRate.WithLabelValues(r.schedule, strconv.Itoa(group)).Set(lr)
	}
}

// ObserveHandoff counts a handoff.
func (r *Recorder) ObserveHandoff(_, _, _ int) {
	r.metrics.handoffs.WithLabelValues(r.schedule).Inc()
}

// HandoffsCounter returns the handoff counter of this schedule.
func (r *Recorder) HandoffsCounter() prometheus.Counter {
	return r.metrics.handoffs.WithLabelValues(r.schedule)
}
