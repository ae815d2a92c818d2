// Package scheduler implements composable learning-rate schedules.
//
// A Scheduler scales the learning rate of every parameter group of an
// optim.Optimizer as a function of its own step counter. Schedulers are
// chained end-to-end with Combine, and NewWarmUp assembles the common
// "ramp up, optionally hold, then decay" chain.
//
// Every scheduler owns two pieces of continuity state: the base rates it
// scales from (one per parameter group) and the index of the last step it
// computed. When a Combined schedule hands control to the next stage it
// passes both on through Handoff, so the next stage counts steps in sync
// with the whole run and scales from the same base magnitude.
//
// Example usage:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1})
//	lrScheduler, err := scheduler.NewWarmUpCosine(optimizer, 500, 10_000, 0)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for step := range 10_000 {
//	    // forward, backward ...
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//	    lrScheduler.Step()
//	}
//
// Schedulers are not safe for concurrent use.
package scheduler

import (
	"github.com/born-ml/lrschedule/internal/optim"
)

// Stepper is anything that advances a learning-rate schedule one step at a time.
//
// Both individual schedulers and Combined implement it, so a training loop
// does not need to know whether it drives one policy or a chain.
type Stepper interface {
	// Step advances the schedule by one step and applies the new rates.
	Step()

	// StepTo advances the schedule, using step as the explicit step index
	// for the rate computation.
	StepTo(step int)

	// LR returns the rates computed by the last step, one per parameter group.
	LR() []float64
}

// Scheduler is a single learning-rate policy.
//
// Implementations must keep BaseLRs and LastStep consistent with Handoff:
// after next.Handoff(prev, g), next.BaseLRs() equals prev.BaseLRs() and
// next.LastStep() equals g-1.
type Scheduler interface {
	Stepper

	// BaseLRs returns the rates the scheduler scales from.
	BaseLRs() []float64

	// LastStep returns the index of the last computed step.
	LastStep() int

	// Handoff takes over continuity state from the previously active
	// scheduler at the given global step.
	Handoff(prev Scheduler, globalStep int)

	// StateDict returns the scheduler state for serialization.
	StateDict() State

	// LoadStateDict restores state produced by StateDict.
	LoadStateDict(state State)
}

// State is the serializable state of a single scheduler.
type State struct {
	LastStep int       `json:"last_step"`
	BaseLRs  []float64 `json:"base_lrs"`
	LastLRs  []float64 `json:"last_lrs"`
}

// rateFunc computes the rate of one parameter group at a step.
type rateFunc func(group int, baseLR float64, step int) float64

// base implements the bookkeeping shared by the schedulers in this package.
// Concrete schedulers embed it and supply a rateFunc.
type base struct {
	optimizer optim.Optimizer
	rateFn    rateFunc
	baseLRs   []float64
	lastLRs   []float64
	lastStep  int
}

// attach binds the scheduler to the optimizer and applies the step-0 rates.
//
// Groups without an InitialLR get one from their current LR, so every
// scheduler attached to the same optimizer starts from the same base.
func (b *base) attach(opt optim.Optimizer, rate rateFunc) {
	groups := opt.ParamGroups()

	b.optimizer = opt
	b.rateFn = rate
	b.baseLRs = make([]float64, len(groups))
	for i, group := range groups {
		if group.InitialLR == 0 {
			group.InitialLR = group.LR
		}
		b.baseLRs[i] = group.InitialLR
	}
	b.lastStep = 0
	b.apply()
}

// apply recomputes the rates for lastStep and writes them to the optimizer.
func (b *base) apply() {
	lrs := make([]float64, len(b.baseLRs))
	for i, baseLR := range b.baseLRs {
		lrs[i] = b.rateFn(i, baseLR, b.lastStep)
	}
	b.lastLRs = lrs
	b.write()
}

func (b *base) write() {
	groups := b.optimizer.ParamGroups()
	for i, lr := range b.lastLRs {
		if i < len(groups) {
			groups[i].LR = lr
		}
	}
}

// Step advances the scheduler by one step.
func (b *base) Step() {
	b.lastStep++
	b.apply()
}

// StepTo sets the step index explicitly and recomputes the rates.
func (b *base) StepTo(step int) {
	b.lastStep = step
	b.apply()
}

// LR returns the rates computed by the last step.
func (b *base) LR() []float64 {
	return b.lastLRs
}

// BaseLRs returns the rates the scheduler scales from.
func (b *base) BaseLRs() []float64 {
	return b.baseLRs
}

// LastStep returns the index of the last computed step.
func (b *base) LastStep() int {
	return b.lastStep
}

// Optimizer returns the optimizer whose rates the scheduler drives.
func (b *base) Optimizer() optim.Optimizer {
	return b.optimizer
}

// Handoff copies prev's base rates and positions the step counter so that
// the next Step computes globalStep.
func (b *base) Handoff(prev Scheduler, globalStep int) {
	b.baseLRs = append([]float64(nil), prev.BaseLRs()...)
	b.lastStep = globalStep - 1
}

// StateDict returns the scheduler state for serialization.
func (b *base) StateDict() State {
	return State{
		LastStep: b.lastStep,
		BaseLRs:  append([]float64(nil), b.baseLRs...),
		LastLRs:  append([]float64(nil), b.lastLRs...),
	}
}

// LoadStateDict restores the scheduler state and writes the restored rates
// back to the optimizer.
func (b *base) LoadStateDict(state State) {
	b.lastStep = state.LastStep
	b.baseLRs = append([]float64(nil), state.BaseLRs...)
	b.lastLRs = append([]float64(nil), state.LastLRs...)
	b.write()
}
