package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lrschedule/internal/metrics"
	"github.com/born-ml/lrschedule/internal/optim"
	"github.com/born-ml/lrschedule/internal/scheduler"
)

func TestRecorder_ObserveStep(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)
	r := m.Recorder("test")

	r.ObserveStep(7, 1, []float64{0.5, 0.05})

	count, err := testutil.GatherAndCount(reg, "lrschedule_scheduler_learning_rate")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	families, err := reg.Gather()
	require.NoError(t, err)

	values := map[string]float64{}
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			name := family.GetName()
			for _, label := range metric.GetLabel() {
				if label.GetName() == "group" {
					name += "/" + label.GetValue()
				}
			}
			values[name] = metric.GetGauge().GetValue()
		}
	}

	assert.Equal(t, 7.0, values["lrschedule_scheduler_global_step"])
	assert.Equal(t, 1.0, values["lrschedule_scheduler_active_stage"])
	assert.Equal(t, 0.5, values["lrschedule_scheduler_learning_rate/0"])
	assert.Equal(t, 0.05, values["lrschedule_scheduler_learning_rate/1"])
}

func TestRecorder_WithCombinedSchedule(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	opt := optim.NewSGD(nil, optim.SGDConfig{LR: 1.0})
	c, err := scheduler.NewWarmUpLinear(opt, 2, 6, 0,
		scheduler.WithConstantSteps(2),
		scheduler.WithCombineOptions(scheduler.WithObserver(m.Recorder("warmup"))),
	)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		c.Step()
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.Recorder("warmup").HandoffsCounter()))
	assert.Equal(t, 0.5, opt.ParamGroups()[0].LR)
}

func TestMetrics_SeparateSchedules(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := metrics.New(reg)

	m.Recorder("a").ObserveHandoff(1, 0, 1)
	m.Recorder("b").ObserveHandoff(1, 0, 1)
	m.Recorder("b").ObserveHandoff(2, 1, 2)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Recorder("a").HandoffsCounter()))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Recorder("b").HandoffsCounter()))
}
