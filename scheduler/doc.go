// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package scheduler provides composable learning-rate schedules.
//
// # Overview
//
// This package contains:
//   - Scheduler interface: a single policy scaling an optimizer's rates
//   - LambdaLR, LinearDecay, CosineDecay: ready-made policies
//   - Combine: runs several schedulers one after another
//   - NewWarmUp: gradual warm-up, optional constant stage, then any scheduler
//
// # Warm-Up
//
// Gradual warm-up from "Accurate, Large Minibatch SGD: Training ImageNet in
// 1 Hour" ramps the rate linearly from zero to the optimizer's rate:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{LR: 0.1, Momentum: 0.9})
//
//	// 500 warm-up steps, 1000 steps at 0.1, cosine decay to zero at step 20000.
//	lrScheduler, err := scheduler.NewWarmUpCosine(optimizer, 500, 20_000, 0,
//	    scheduler.WithConstantSteps(1000),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Combining Schedulers
//
// Any schedulers bound to the same optimizer can be chained. Stage i runs for
// boundaries[i] steps:
//
//	ramp, _ := scheduler.NewLambdaLR(optimizer, scheduler.WarmUpFactor(100, 0))
//	hold, _ := scheduler.NewConstant(optimizer)
//	decay, _ := scheduler.NewLinearDecay(optimizer, scheduler.DecayConfig{
//	    StartStep:  300,
//	    TotalSteps: 1000,
//	})
//	lrScheduler, err := scheduler.Combine(
//	    []scheduler.Scheduler{ramp, hold, decay},
//	    []int{100, 200},
//	)
//
// On every handoff the next stage takes over the base rates of the previous
// one and continues counting from the global step.
//
// # Training Loop Pattern
//
//	for step := range numSteps {
//	    // forward, backward ...
//	    optimizer.Step()
//	    optimizer.ZeroGrad()
//	    lrScheduler.Step()
//	}
package scheduler
