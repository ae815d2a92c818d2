package scheduler_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/born-ml/lrschedule/internal/scheduler"
)

func rampOf(t *testing.T, c *scheduler.Combined) *scheduler.LambdaLR {
	t.Helper()
	ramp, ok := c.Schedulers()[0].(*scheduler.LambdaLR)
	require.True(t, ok, "first stage should be a LambdaLR ramp")
	return ramp
}

func TestWarmUp_RampFactor(t *testing.T) {
	opt := newOptimizer(1.0)
	after, err := scheduler.NewConstant(opt)
	require.NoError(t, err)

	c, err := scheduler.NewWarmUp(opt, 10, after)
	require.NoError(t, err)

	ramp := rampOf(t, c)
	assert.InDelta(t, 0.0, ramp.Factor(0, 0), 1e-12)
	assert.InDelta(t, 0.5, ramp.Factor(0, 5), 1e-12)
	assert.Equal(t, 1.0, ramp.Factor(0, 10))
	assert.Equal(t, 1.0, ramp.Factor(0, 25), "capped at 1.0")

	assert.Equal(t, []int{10}, c.Boundaries())
	assert.Len(t, c.Schedulers(), 2)
}

func TestWarmUp_ConstantStage(t *testing.T) {
	opt := newOptimizer(1.0)
	after, err := scheduler.NewConstant(opt)
	require.NoError(t, err)

	c, err := scheduler.NewWarmUp(opt, 10, after, scheduler.WithConstantSteps(5))
	require.NoError(t, err)

	assert.Equal(t, []int{10, 5}, c.Boundaries())
	require.Len(t, c.Schedulers(), 3)
	assert.Same(t, after, c.Schedulers()[2])
}

func TestWarmUp_StartsOnRamp(t *testing.T) {
	opt := newOptimizer(0.1)
	after, err := scheduler.NewConstant(opt)
	require.NoError(t, err)
	assert.Equal(t, 0.1, opt.ParamGroups()[0].LR)

	_, err = scheduler.NewWarmUp(opt, 10, after, scheduler.WithConstantSteps(3))
	require.NoError(t, err)

	assert.Equal(t, 0.0, opt.ParamGroups()[0].LR, "the constant stage must not leave its rate behind")
}

func TestWarmUp_Validation(t *testing.T) {
	tests := []struct {
		name   string
		warmup int
		opts   []scheduler.WarmUpOption
		field  string
	}{
		{"zero warmup", 0, nil, "warmup_steps"},
		{"zero constant", 10, []scheduler.WarmUpOption{scheduler.WithConstantSteps(0)}, "add_constant_steps"},
		{"negative constant", 10, []scheduler.WarmUpOption{scheduler.WithConstantSteps(-2)}, "add_constant_steps"},
		{"zero starts with", 10, []scheduler.WarmUpOption{scheduler.WithStartsWith(0)}, "starts_with"},
		{"negative starts with", 10, []scheduler.WarmUpOption{scheduler.WithStartsWith(-0.01)}, "starts_with"},
		{"zero denominator", 10, []scheduler.WarmUpOption{scheduler.WithWarmupDenominator(0)}, "warmup_denominator"},
		{"both intensities", 10, []scheduler.WarmUpOption{
			scheduler.WithWarmupDenominator(256),
			scheduler.WithStartsWith(0.01),
		}, "warmup_denominator"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opt := newOptimizer(0.1)
			after, err := scheduler.NewConstant(opt)
			require.NoError(t, err)

			_, err = scheduler.NewWarmUp(opt, tt.warmup, after, tt.opts...)
			require.ErrorIs(t, err, scheduler.ErrConfiguration)

			var cfgErr *scheduler.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}

func TestWarmUp_NilArguments(t *testing.T) {
	opt := newOptimizer(0.1)
	after, err := scheduler.NewConstant(opt)
	require.NoError(t, err)

	_, err = scheduler.NewWarmUp(nil, 10, after)
	assert.ErrorIs(t, err, scheduler.ErrConfiguration)

	_, err = scheduler.NewWarmUp(opt, 10, nil)
	assert.ErrorIs(t, err, scheduler.ErrConfiguration)

	_, err = scheduler.NewWarmUpLinear(nil, 10, 100, 0)
	assert.ErrorIs(t, err, scheduler.ErrConfiguration)
}

func TestWarmUp_Denominator(t *testing.T) {
	opt := newOptimizer(1.0)
	c, err := scheduler.NewWarmUpConstant(opt, 8, scheduler.WithWarmupDenominator(4))
	require.NoError(t, err)

	ramp := rampOf(t, c)
	assert.Equal(t, 0.5, ramp.Factor(0, 2))
	assert.Equal(t, 2.0, ramp.Factor(0, 8), "not capped")

	for i := 0; i < 8; i++ {
		c.Step()
	}
	assert.Equal(t, 2.0, opt.ParamGroups()[0].LR)
}

func TestWarmUp_StartsWith(t *testing.T) {
	opt := newOptimizer(0.1, 0.01)
	c, err := scheduler.NewWarmUpConstant(opt, 10, scheduler.WithStartsWith(0.01))
	require.NoError(t, err)

	ramp := rampOf(t, c)

	// Group 0: start = 0.01/0.1 = 0.1, n = 0.1*10 + 10 = 11.
	assert.InDelta(t, 0.1-1.0/11, ramp.Factor(0, 0), 1e-12)
	assert.InDelta(t, 5.0/11+0.1-1.0/11, ramp.Factor(0, 5), 1e-12)
	assert.Equal(t, 1.0, ramp.Factor(0, 11))

	// Group 1: start = 0.01/0.01 = 1, n = 20, full rate after one step.
	assert.InDelta(t, 0.95, ramp.Factor(1, 0), 1e-12)
	assert.InDelta(t, 1.0, ramp.Factor(1, 1), 1e-12)

	assert.InDeltaSlice(t, []float64{0.1 * (0.1 - 1.0/11), 0.01 * 0.95}, groupLRs(opt), 1e-12)
}

func TestWarmUp_StartsWithNeedsInitialRate(t *testing.T) {
	opt := newOptimizer(0.1)
	after, err := scheduler.NewConstant(opt)
	require.NoError(t, err)
	opt.ParamGroups()[0].InitialLR = -1

	_, err = scheduler.NewWarmUp(opt, 10, after, scheduler.WithStartsWith(0.01))
	assert.ErrorIs(t, err, scheduler.ErrConfiguration)
}

func TestWarmUpLinear_Curve(t *testing.T) {
	opt := newOptimizer(1.0)
	c, err := scheduler.NewWarmUpLinear(opt, 4, 8, 0)
	require.NoError(t, err)

	assert.Equal(t, 0.0, opt.ParamGroups()[0].LR)

	want := []float64{0.25, 0.5, 0.75, 1.0, 0.75, 0.5, 0.25, 0, 0, 0}
	for i, lr := range want {
		c.Step()
		assert.InDelta(t, lr, opt.ParamGroups()[0].LR, 1e-12, "step %d", i+1)
	}
	assert.True(t, c.Finished())
}

func TestWarmUpCosine_WithConstantStage(t *testing.T) {
	opt := newOptimizer(1.0, 0.5)
	c, err := scheduler.NewWarmUpCosine(opt, 4, 10, 0, scheduler.WithConstantSteps(2))
	require.NoError(t, err)

	var stages []int
	var lrs [][]float64
	for i := 0; i < 10; i++ {
		c.Step()
		stages = append(stages, c.ActiveIndex())
		lrs = append(lrs, groupLRs(opt))
	}

	assert.Equal(t, []int{0, 0, 0, 0, 1, 1, 2, 2, 2, 2}, stages)
	assert.InDeltaSlice(t, []float64{0.5, 0.25}, lrs[1], 1e-12)
	assert.InDeltaSlice(t, []float64{1.0, 0.5}, lrs[4], 1e-12)
	assert.InDeltaSlice(t, []float64{1.0, 0.5}, lrs[5], 1e-12)

	// Decay starts at step 6: step 7 is a quarter of the way to step 10.
	quarter := 0.5 * (1 + math.Cos(math.Pi*0.25))
	assert.InDeltaSlice(t, []float64{quarter, 0.5 * quarter}, lrs[6], 1e-12)
	assert.InDeltaSlice(t, []float64{0, 0}, lrs[9], 1e-12)
}

func TestWarmUpConvenience_InvalidTotal(t *testing.T) {
	opt := newOptimizer(1.0)

	_, err := scheduler.NewWarmUpLinear(opt, 10, 10, 0)
	assert.ErrorIs(t, err, scheduler.ErrConfiguration)

	_, err = scheduler.NewWarmUpCosine(opt, 10, 12, 0, scheduler.WithConstantSteps(5))
	assert.ErrorIs(t, err, scheduler.ErrConfiguration)

	_, err = scheduler.NewWarmUpCosine(opt, -1, 12, 0)
	var cfgErr *scheduler.ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "warmup_steps", cfgErr.Field)
}
