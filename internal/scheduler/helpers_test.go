package scheduler_test

import (
	"github.com/born-ml/lrschedule/internal/optim"
	"github.com/born-ml/lrschedule/internal/scheduler"
)

// newOptimizer returns an SGD optimizer with one empty parameter group per rate.
func newOptimizer(lrs ...float64) *optim.SGD {
	opt := optim.NewSGD(nil, optim.SGDConfig{LR: lrs[0]})
	for _, lr := range lrs[1:] {
		opt.AddParamGroup(&optim.ParamGroup{LR: lr})
	}
	return opt
}

// groupLRs returns the current LR of every group.
func groupLRs(opt optim.Optimizer) []float64 {
	var lrs []float64
	for _, group := range opt.ParamGroups() {
		lrs = append(lrs, group.LR)
	}
	return lrs
}

// fakeScheduler records how the combined schedule drives it.
type fakeScheduler struct {
	baseLRs  []float64
	lastStep int

	steps       int
	explicit    []int
	handoffPrev scheduler.Scheduler
	handoffStep int
}

func newFake(baseLRs ...float64) *fakeScheduler {
	return &fakeScheduler{baseLRs: baseLRs}
}

func (f *fakeScheduler) Step() {
	f.lastStep++
	f.steps++
}

func (f *fakeScheduler) StepTo(step int) {
	f.lastStep = step
	f.explicit = append(f.explicit, step)
}

func (f *fakeScheduler) LR() []float64      { return f.baseLRs }
func (f *fakeScheduler) BaseLRs() []float64 { return f.baseLRs }
func (f *fakeScheduler) LastStep() int      { return f.lastStep }

func (f *fakeScheduler) Handoff(prev scheduler.Scheduler, globalStep int) {
	f.handoffPrev = prev
	f.handoffStep = globalStep
	f.baseLRs = append([]float64(nil), prev.BaseLRs()...)
	f.lastStep = globalStep - 1
}

func (f *fakeScheduler) StateDict() scheduler.State {
	return scheduler.State{LastStep: f.lastStep, BaseLRs: f.baseLRs}
}

func (f *fakeScheduler) LoadStateDict(state scheduler.State) {
	f.lastStep = state.LastStep
	f.baseLRs = state.BaseLRs
}

// handoffObserver captures the active scheduler's continuity state at the
// moment of every handoff, before it is stepped.
type handoffObserver struct {
	combined *scheduler.Combined

	handoffs  [][3]int // step, from, to
	lastSteps []int
	baseLRs   [][]float64
	stages    []int
}

func (o *handoffObserver) ObserveStep(_, stage int, _ []float64) {
	o.stages = append(o.stages, stage)
}

func (o *handoffObserver) ObserveHandoff(step, from, to int) {
	o.handoffs = append(o.handoffs, [3]int{step, from, to})
	current := o.combined.Current()
	o.lastSteps = append(o.lastSteps, current.LastStep())
	o.baseLRs = append(o.baseLRs, append([]float64(nil), current.BaseLRs()...))
}
