package scheduler

import (
	"reflect"

	"github.com/go-logr/logr"
)

// Observer receives progress notifications from a Combined schedule.
//
// metrics.Recorder implements it to export rates to Prometheus.
type Observer interface {
	// ObserveStep is called after every step with the global step, the
	// index of the active stage and the rates it produced.
	ObserveStep(step, stage int, lrs []float64)

	// ObserveHandoff is called when control moves from stage from to stage to.
	ObserveHandoff(step, from, to int)
}

// CombineOption configures a Combined schedule.
type CombineOption func(*Combined)

// WithLogger sets the logger. Handoffs are logged at V(1), steps at V(2).
func WithLogger(logger logr.Logger) CombineOption {
	return func(c *Combined) {
		c.logger = logger
	}
}

// WithObserver registers an observer notified on every step and handoff.
func WithObserver(observer Observer) CombineOption {
	return func(c *Combined) {
		c.observer = observer
	}
}

// CombinedState is the serializable state of a Combined schedule.
//
// It covers every mutable field except the schedulers themselves, which the
// caller reconstructs and restores separately (see checkpoint.Save).
type CombinedState struct {
	GlobalStep         int   `json:"global_step"`
	ActiveIndex        int   `json:"active_index"`
	BoundariesConsumed int   `json:"boundaries_consumed"`
	Finished           bool  `json:"finished"`
	Boundaries         []int `json:"boundaries"`
}

// Combined runs several schedulers one after another.
//
// Stage i runs for boundaries[i] steps and then hands off to stage i+1.
// The last stage runs for the remainder of training. The switch happens on
// the call after the cumulative boundary is exceeded:
//
//	schedulers: [A, B], boundaries: [3]
//	call:    1 2 3 4 5 ...
//	active:  A A A B B ...
//
// On handoff the next stage inherits the base rates of the previous one and
// its step counter is set to global_step-1, so its own Step lands on the
// global step.
type Combined struct {
	schedulers []Scheduler
	boundaries []int

	globalStep         int
	activeIndex        int
	boundariesConsumed int
	finished           bool

	logger   logr.Logger
	observer Observer
}

// Combine creates a schedule running schedulers in order.
//
// boundaries must hold exactly len(schedulers)-1 positive step counts.
// The schedulers are referenced, not copied; their continuity state is
// changed by Handoff while the schedule runs.
func Combine(schedulers []Scheduler, boundaries []int, opts ...CombineOption) (*Combined, error) {
	if len(schedulers) == 0 {
		return nil, configError("schedulers", "at least one scheduler is required")
	}
	for i, s := range schedulers {
		if isNil(s) {
			return nil, configError("schedulers", "scheduler %d is nil", i)
		}
	}
	if len(boundaries) != len(schedulers)-1 {
		return nil, configError("boundaries",
			"expected %d boundaries for %d schedulers, got %d",
			len(schedulers)-1, len(schedulers), len(boundaries))
	}
	for i, steps := range boundaries {
		if steps <= 0 {
			return nil, configError("boundaries", "boundary %d must be positive, got %d", i, steps)
		}
	}

	c := &Combined{
		schedulers: append([]Scheduler(nil), schedulers...),
		boundaries: append([]int(nil), boundaries...),
		finished:   len(schedulers) == 1,
		logger:     logr.Discard(),
	}
	for _, opt := range opts {
		opt(c)
	}

	return c, nil
}

// Step advances the global step, performs at most one handoff and steps
// the active scheduler.
func (c *Combined) Step() {
	c.advance()
	c.Current().Step()
	c.observe()
}

// StepTo is Step with an explicit step index forwarded to the active
// scheduler. The global step still advances by exactly one.
func (c *Combined) StepTo(step int) {
	c.advance()
	c.Current().StepTo(step)
	c.observe()
}

func (c *Combined) advance() {
	c.globalStep++
	if !c.finished {
		c.updateIfNeeded()
	}
}

// updateIfNeeded hands off to the next stage once the global step exceeds
// the cumulative boundary of the active one. It moves at most one stage.
func (c *Combined) updateIfNeeded() {
	if c.globalStep > c.threshold() {
		prev := c.schedulers[c.activeIndex]
		c.activeIndex++
		c.boundariesConsumed++
		c.schedulers[c.activeIndex].Handoff(prev, c.globalStep)

		c.logger.V(1).Info("Switched scheduler",
			"step", c.globalStep, "from", c.activeIndex-1, "to", c.activeIndex)
		if c.observer != nil {
			c.observer.ObserveHandoff(c.globalStep, c.activeIndex-1, c.activeIndex)
		}
	}
	if c.activeIndex == len(c.schedulers)-1 {
		c.finished = true
	}
}

// threshold is the sum of the first boundariesConsumed+1 boundaries.
func (c *Combined) threshold() int {
	total := 0
	for _, steps := range c.boundaries[:c.boundariesConsumed+1] {
		total += steps
	}
	return total
}

func (c *Combined) observe() {
	lrs := c.LR()
	c.logger.V(2).Info("Step", "step", c.globalStep, "stage", c.activeIndex, "lr", lrs)
	if c.observer != nil {
		c.observer.ObserveStep(c.globalStep, c.activeIndex, lrs)
	}
}

// Current returns the active scheduler.
func (c *Combined) Current() Scheduler {
	return c.schedulers[c.activeIndex]
}

// LR returns the rates computed by the active scheduler's last step.
func (c *Combined) LR() []float64 {
	return c.Current().LR()
}

// Schedulers returns the stages in order.
func (c *Combined) Schedulers() []Scheduler {
	return append([]Scheduler(nil), c.schedulers...)
}

// Boundaries returns the number of steps of every stage but the last.
func (c *Combined) Boundaries() []int {
	return append([]int(nil), c.boundaries...)
}

// GlobalStep returns the number of Step calls so far.
func (c *Combined) GlobalStep() int {
	return c.globalStep
}

// ActiveIndex returns the index of the active stage.
func (c *Combined) ActiveIndex() int {
	return c.activeIndex
}

// Finished reports whether the last stage is active.
func (c *Combined) Finished() bool {
	return c.finished
}

// StateDict returns the schedule state for serialization.
func (c *Combined) StateDict() CombinedState {
	return CombinedState{
		GlobalStep:         c.globalStep,
		ActiveIndex:        c.activeIndex,
		BoundariesConsumed: c.boundariesConsumed,
		Finished:           c.finished,
		Boundaries:         append([]int(nil), c.boundaries...),
	}
}

// LoadStateDict overwrites the schedule state with state.
//
// The state is trusted: it must come from StateDict of a schedule built
// with the same stages.
func (c *Combined) LoadStateDict(state CombinedState) {
	c.globalStep = state.GlobalStep
	c.activeIndex = state.ActiveIndex
	c.boundariesConsumed = state.BoundariesConsumed
	c.finished = state.Finished
	c.boundaries = append([]int(nil), state.Boundaries...)
}

// isNil reports whether s is nil or a typed nil pointer.
func isNil(s Scheduler) bool {
	if s == nil {
		return true
	}
	v := reflect.ValueOf(s)
	return v.Kind() == reflect.Pointer && v.IsNil()
}
