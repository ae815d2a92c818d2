// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

package scheduler

import (
	"github.com/born-ml/lrschedule/internal/optim"
	"github.com/born-ml/lrschedule/internal/scheduler"
)

// Stepper is anything that advances a learning-rate schedule one step at a time.
type Stepper = scheduler.Stepper

// Scheduler is a single learning-rate policy.
type Scheduler = scheduler.Scheduler

// State is the serializable state of a single scheduler.
type State = scheduler.State

// ErrConfiguration is wrapped by every constructor error.
var ErrConfiguration = scheduler.ErrConfiguration

// ConfigError describes which argument was rejected and why.
type ConfigError = scheduler.ConfigError

// Policies

// LambdaFunc returns the multiplier applied to a base rate at a step.
type LambdaFunc = scheduler.LambdaFunc

// LambdaLR scales base rates by a function of the step index.
type LambdaLR = scheduler.LambdaLR

// NewLambdaLR creates a LambdaLR scheduler.
func NewLambdaLR(opt optim.Optimizer, lambdas ...LambdaFunc) (*LambdaLR, error) {
	return scheduler.NewLambdaLR(opt, lambdas...)
}

// NewConstant creates a scheduler that keeps every group at its base rate.
func NewConstant(opt optim.Optimizer) (*LambdaLR, error) {
	return scheduler.NewConstant(opt)
}

// DecayConfig describes a decay that runs from StartStep to TotalSteps.
type DecayConfig = scheduler.DecayConfig

// LinearDecay decreases the rate linearly to MinLR.
type LinearDecay = scheduler.LinearDecay

// NewLinearDecay creates a LinearDecay scheduler.
func NewLinearDecay(opt optim.Optimizer, config DecayConfig) (*LinearDecay, error) {
	return scheduler.NewLinearDecay(opt, config)
}

// CosineDecay follows half a cosine period down to MinLR.
type CosineDecay = scheduler.CosineDecay

// NewCosineDecay creates a CosineDecay scheduler.
func NewCosineDecay(opt optim.Optimizer, config DecayConfig) (*CosineDecay, error) {
	return scheduler.NewCosineDecay(opt, config)
}

// Combining

// Combined runs several schedulers one after another.
type Combined = scheduler.Combined

// CombinedState is the serializable state of a Combined schedule.
type CombinedState = scheduler.CombinedState

// CombineOption configures a Combined schedule.
type CombineOption = scheduler.CombineOption

// Observer receives progress notifications from a Combined schedule.
type Observer = scheduler.Observer

// Combine creates a schedule running schedulers in order, stage i for boundaries[i] steps.
func Combine(schedulers []Scheduler, boundaries []int, opts ...CombineOption) (*Combined, error) {
	return scheduler.Combine(schedulers, boundaries, opts...)
}

// WithLogger sets the logger of a Combined schedule.
var WithLogger = scheduler.WithLogger

// WithObserver registers an observer on a Combined schedule.
var WithObserver = scheduler.WithObserver

// Warm-up

// WarmUpOption configures NewWarmUp.
type WarmUpOption = scheduler.WarmUpOption

// WithConstantSteps inserts a constant stage after the warm-up.
var WithConstantSteps = scheduler.WithConstantSteps

// WithWarmupDenominator makes the ramp multiplier step/denominator.
var WithWarmupDenominator = scheduler.WithWarmupDenominator

// WithStartsWith starts the warm-up from an absolute rate.
var WithStartsWith = scheduler.WithStartsWith

// WithCombineOptions passes options to the underlying Combined schedule.
var WithCombineOptions = scheduler.WithCombineOptions

// WarmUpFactor returns the gradual warm-up multiplier.
func WarmUpFactor(warmupSteps int, start float64) LambdaFunc {
	return scheduler.WarmUpFactor(warmupSteps, start)
}

// NewWarmUp builds a warm-up, optional constant stage and the after scheduler.
//
// Example:
//
//	decay, _ := scheduler.NewCosineDecay(optimizer, scheduler.DecayConfig{
//	    StartStep:  1000,
//	    TotalSteps: 50_000,
//	})
//	lrScheduler, err := scheduler.NewWarmUp(optimizer, 1000, decay)
func NewWarmUp(opt optim.Optimizer, warmupSteps int, after Scheduler, opts ...WarmUpOption) (*Combined, error) {
	return scheduler.NewWarmUp(opt, warmupSteps, after, opts...)
}

// NewWarmUpLinear builds a warm-up followed by a linear decay to minLR at totalSteps.
func NewWarmUpLinear(opt optim.Optimizer, warmupSteps, totalSteps int, minLR float64, opts ...WarmUpOption) (*Combined, error) {
	return scheduler.NewWarmUpLinear(opt, warmupSteps, totalSteps, minLR, opts...)
}

// NewWarmUpCosine builds a warm-up followed by a cosine decay to minLR at totalSteps.
func NewWarmUpCosine(opt optim.Optimizer, warmupSteps, totalSteps int, minLR float64, opts ...WarmUpOption) (*Combined, error) {
	return scheduler.NewWarmUpCosine(opt, warmupSteps, totalSteps, minLR, opts...)
}

// NewWarmUpConstant builds a warm-up followed by the optimizer's rate.
func NewWarmUpConstant(opt optim.Optimizer, warmupSteps int, opts ...WarmUpOption) (*Combined, error) {
	return scheduler.NewWarmUpConstant(opt, warmupSteps, opts...)
}
