// Package optim implements the optimizer side of learning-rate scheduling.
//
// This package provides:
//   - Optimizer interface: parameter groups with a current and an initial rate
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation
//
// Schedulers never look at parameters. They read ParamGroup.InitialLR and
// write ParamGroup.LR, and the optimizer uses whatever LR each group holds
// at the next Step.
//
// Example usage:
//
//	w := optim.NewParameter("w", []float32{0})
//	optimizer := optim.NewSGD([]*optim.Parameter{w}, optim.SGDConfig{LR: 0.1})
//
//	for step := range steps {
//	    w.SetGrad(computeGrad(w.Data()))
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//	    lrScheduler.Step()
//	}
package optim

// Optimizer is the base interface for all optimization algorithms.
//
// All optimizers must implement:
//   - Step: Apply gradient updates to parameters using each group's LR
//   - ZeroGrad: Clear gradients before next iteration
//   - ParamGroups: Expose the groups so a scheduler can adjust their rates
type Optimizer interface {
	// Step applies gradient updates to all parameters with a gradient.
	Step()

	// ZeroGrad clears all parameter gradients.
	ZeroGrad()

	// ParamGroups returns the optimizer's parameter groups.
	//
	// The returned pointers are live: writing LR changes the rate used by
	// the next Step.
	ParamGroups() []*ParamGroup
}

// ParamGroup is a set of parameters sharing one learning rate.
type ParamGroup struct {
	Params []*Parameter

	// LR is the rate used by the next Step.
	LR float64

	// InitialLR is the rate the group was configured with. Schedulers
	// fill it from LR on first attach and scale from it afterwards.
	InitialLR float64
}

// Config is the base configuration for all optimizers.
type Config struct {
	LR float64 // Learning rate
}

// groups holds the parameter groups shared by SGD and Adam.
type groups struct {
	list []*ParamGroup
}

func newGroups(params []*Parameter, lr float64) groups {
	return groups{list: []*ParamGroup{{Params: params, LR: lr}}}
}

// ParamGroups returns the optimizer's parameter groups.
func (g *groups) ParamGroups() []*ParamGroup {
	return g.list
}

// AddParamGroup appends a group. A zero LR inherits the rate of the first group.
//
// Useful for giving a subset of parameters (e.g. biases or an embedding
// table) its own rate.
func (g *groups) AddParamGroup(group *ParamGroup) {
	if group.LR == 0 && len(g.list) > 0 {
		group.LR = g.list[0].LR
	}
	g.list = append(g.list, group)
}

// GetLR returns the current learning rate of the first group.
func (g *groups) GetLR() float64 {
	if len(g.list) == 0 {
		return 0
	}
	return g.list[0].LR
}

// SetLR sets the learning rate of every group.
func (g *groups) SetLR(lr float64) {
	for _, group := range g.list {
		group.LR = lr
	}
}

// params returns every parameter across all groups in group order.
func (g *groups) params() []*Parameter {
	var all []*Parameter
	for _, group := range g.list {
		all = append(all, group.Params...)
	}
	return all
}

// ZeroGrad clears gradients for all parameters.
func (g *groups) ZeroGrad() {
	for _, param := range g.params() {
		param.ZeroGrad()
	}
}
