// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package optim provides the optimizers driven by learning-rate schedules.
//
// # Overview
//
// This package contains:
//   - SGD: Stochastic Gradient Descent with momentum
//   - Adam: Adaptive Moment Estimation with bias correction
//   - Optimizer interface and ParamGroup, the surface schedulers act on
//
// # Parameter Groups
//
// Every optimizer owns one or more parameter groups. Each group has its own
// learning rate, which a scheduler rewrites after every step:
//
//	weights := optim.NewParameter("w", make([]float32, 128))
//	bias := optim.NewParameter("b", make([]float32, 1))
//
//	optimizer := optim.NewSGD([]*optim.Parameter{weights}, optim.SGDConfig{
//	    LR:       0.1,
//	    Momentum: 0.9,
//	})
//	optimizer.AddParamGroup(&optim.ParamGroup{
//	    Params: []*optim.Parameter{bias},
//	    LR:     0.01,
//	})
//
// # Training Loop Pattern
//
//	for step := range numSteps {
//	    // 1. Compute gradients
//	    weights.SetGrad(gradW)
//	    bias.SetGrad(gradB)
//
//	    // 2. Update parameters with the current rates
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//
//	    // 3. Advance the schedule
//	    lrScheduler.Step()
//	}
package optim
