package scheduler

import (
	"math"

	"github.com/born-ml/lrschedule/internal/optim"
)

// WarmUpOption configures NewWarmUp.
type WarmUpOption func(*warmUpOptions)

type warmUpOptions struct {
	constantSteps    int
	hasConstantSteps bool
	denominator      float64
	hasDenominator   bool
	startsWith       float64
	hasStartsWith    bool
	combine          []CombineOption
}

// WithConstantSteps inserts a stage holding the full rate for steps steps
// between the warm-up and the after-warm-up scheduler.
func WithConstantSteps(steps int) WarmUpOption {
	return func(o *warmUpOptions) {
		o.constantSteps = steps
		o.hasConstantSteps = true
	}
}

// WithWarmupDenominator makes the ramp multiplier step/denominator instead
// of reaching 1.0 at the end of the warm-up.
//
// This is the k*n/256 rule from "Accurate, Large Minibatch SGD: Training
// ImageNet in 1 Hour" (Goyal et al., 2017) where 256 is the denominator.
// The multiplier is not capped, so the warm-up may end above the
// optimizer's configured rate. Cannot be combined with WithStartsWith.
func WithWarmupDenominator(denominator float64) WarmUpOption {
	return func(o *warmUpOptions) {
		o.denominator = denominator
		o.hasDenominator = true
	}
}

// WithStartsWith starts the warm-up from the absolute rate lr instead of
// zero. The ramp slope is derived per group from the group's initial rate.
// Cannot be combined with WithWarmupDenominator.
func WithStartsWith(lr float64) WarmUpOption {
	return func(o *warmUpOptions) {
		o.startsWith = lr
		o.hasStartsWith = true
	}
}

// WithCombineOptions passes options to the underlying Combined schedule.
func WithCombineOptions(opts ...CombineOption) WarmUpOption {
	return func(o *warmUpOptions) {
		o.combine = append(o.combine, opts...)
	}
}

func newWarmUpOptions(opts []WarmUpOption) *warmUpOptions {
	o := &warmUpOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *warmUpOptions) validate(warmupSteps int) error {
	if warmupSteps <= 0 {
		return configError("warmup_steps", "must be positive, got %d", warmupSteps)
	}
	if o.hasConstantSteps && o.constantSteps <= 0 {
		return configError("add_constant_steps", "must be positive, got %d", o.constantSteps)
	}
	if o.hasStartsWith && o.startsWith <= 0 {
		return configError("starts_with", "must be positive, got %g", o.startsWith)
	}
	if o.hasDenominator && o.denominator <= 0 {
		return configError("warmup_denominator", "must be positive, got %g", o.denominator)
	}
	if o.hasDenominator && o.hasStartsWith {
		return configError("warmup_denominator", "cannot be combined with starts_with")
	}
	return nil
}

// afterStart is the global step at which the after-warm-up stage begins.
func (o *warmUpOptions) afterStart(warmupSteps int) int {
	if o.hasConstantSteps {
		return warmupSteps + o.constantSteps
	}
	return warmupSteps
}

// WarmUpFactor returns the gradual warm-up multiplier
//
//	m(s) = min(1, s/n + max(0, start - 1/n))
//
// with n = warmupSteps when start is 0, and n = start*warmupSteps + warmupSteps
// otherwise. start is the starting rate relative to the base rate.
func WarmUpFactor(warmupSteps int, start float64) LambdaFunc {
	numSteps := float64(warmupSteps)
	if start > 0 {
		numSteps = start*numSteps + numSteps
	}
	offset := math.Max(0, start-1/numSteps)
	return func(step int) float64 {
		return math.Min(1, float64(step)/numSteps+offset)
	}
}

// DenominatorFactor returns the multiplier step / max(1, denominator).
func DenominatorFactor(denominator float64) LambdaFunc {
	denominator = math.Max(1, denominator)
	return func(step int) float64 {
		return float64(step) / denominator
	}
}

func newWarmUpRamp(opt optim.Optimizer, warmupSteps int, o *warmUpOptions) (*LambdaLR, error) {
	switch {
	case o.hasDenominator:
		return NewLambdaLR(opt, DenominatorFactor(o.denominator))
	case o.hasStartsWith:
		groups := opt.ParamGroups()
		lambdas := make([]LambdaFunc, len(groups))
		for i, group := range groups {
			initial := group.InitialLR
			if initial == 0 {
				initial = group.LR
			}
			if initial <= 0 {
				return nil, configError("optimizer", "group %d needs a positive initial rate for starts_with", i)
			}
			lambdas[i] = WarmUpFactor(warmupSteps, o.startsWith/initial)
		}
		if len(lambdas) == 0 {
			return nil, configError("optimizer", "has no parameter groups")
		}
		return NewLambdaLR(opt, lambdas...)
	default:
		return NewLambdaLR(opt, WarmUpFactor(warmupSteps, 0))
	}
}

// NewWarmUp builds the gradual warm-up schedule:
//
//	[ramp for warmupSteps] [constant for n steps, if WithConstantSteps(n)] [after]
//
// The ramp reaches the optimizer's rate at warmupSteps (see WarmUpFactor).
// The optimizer starts on the ramp's step-0 rate.
//
// Example:
//
//	decay, _ := scheduler.NewCosineDecay(optimizer, scheduler.DecayConfig{
//	    StartStep:  1000,
//	    TotalSteps: 50_000,
//	})
//	s, err := scheduler.NewWarmUp(optimizer, 1000, decay)
func NewWarmUp(opt optim.Optimizer, warmupSteps int, after Scheduler, opts ...WarmUpOption) (*Combined, error) {
	if opt == nil {
		return nil, configError("optimizer", "must not be nil")
	}
	if isNil(after) {
		return nil, configError("after_warmup_scheduler", "must not be nil")
	}
	o := newWarmUpOptions(opts)
	if err := o.validate(warmupSteps); err != nil {
		return nil, err
	}

	ramp, err := newWarmUpRamp(opt, warmupSteps, o)
	if err != nil {
		return nil, err
	}

	schedulers := []Scheduler{ramp}
	boundaries := []int{warmupSteps}
	if o.hasConstantSteps {
		constant, err := NewConstant(opt)
		if err != nil {
			return nil, err
		}
		schedulers = append(schedulers, constant)
		boundaries = append(boundaries, o.constantSteps)
	}
	schedulers = append(schedulers, after)

	c, err := Combine(schedulers, boundaries, o.combine...)
	if err != nil {
		return nil, err
	}

	// Every stage applied its own step-0 rate on construction.
	ramp.StepTo(0)

	return c, nil
}

// NewWarmUpLinear builds a warm-up followed by a linear decay to minLR at totalSteps.
func NewWarmUpLinear(opt optim.Optimizer, warmupSteps, totalSteps int, minLR float64, opts ...WarmUpOption) (*Combined, error) {
	if opt == nil {
		return nil, configError("optimizer", "must not be nil")
	}
	o := newWarmUpOptions(opts)
	if err := o.validate(warmupSteps); err != nil {
		return nil, err
	}
	after, err := NewLinearDecay(opt, DecayConfig{
		StartStep:  o.afterStart(warmupSteps),
		TotalSteps: totalSteps,
		MinLR:      minLR,
	})
	if err != nil {
		return nil, err
	}
	return NewWarmUp(opt, warmupSteps, after, opts...)
}

// NewWarmUpCosine builds a warm-up followed by a cosine decay to minLR at totalSteps.
func NewWarmUpCosine(opt optim.Optimizer, warmupSteps, totalSteps int, minLR float64, opts ...WarmUpOption) (*Combined, error) {
	if opt == nil {
		return nil, configError("optimizer", "must not be nil")
	}
	o := newWarmUpOptions(opts)
	if err := o.validate(warmupSteps); err != nil {
		return nil, err
	}
	after, err := NewCosineDecay(opt, DecayConfig{
		StartStep:  o.afterStart(warmupSteps),
		TotalSteps: totalSteps,
		MinLR:      minLR,
	})
	if err != nil {
		return nil, err
	}
	return NewWarmUp(opt, warmupSteps, after, opts...)
}

// NewWarmUpConstant builds a warm-up followed by the optimizer's rate for
// the rest of training.
func NewWarmUpConstant(opt optim.Optimizer, warmupSteps int, opts ...WarmUpOption) (*Combined, error) {
	if opt == nil {
		return nil, configError("optimizer", "must not be nil")
	}
	after, err := NewConstant(opt)
	if err != nil {
		return nil, err
	}
	return NewWarmUp(opt, warmupSteps, after, opts...)
}
