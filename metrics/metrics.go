// Copyright 2025 Born ML Framework. All rights reserved.
// Use of this source code is governed by an Apache 2.0
// license that can be found in the LICENSE file.

// Package metrics exports learning-rate schedule progress to Prometheus.
//
// Example:
//
//	m := metrics.New(prometheus.DefaultRegisterer)
//	lrScheduler, err := scheduler.NewWarmUpCosine(optimizer, 500, 10_000, 0,
//	    scheduler.WithCombineOptions(scheduler.WithObserver(m.Recorder("pretrain"))),
//	)
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/born-ml/lrschedule/internal/metrics"
)

// Metrics holds the metric vectors shared by every schedule on a registry.
type Metrics = metrics.Metrics

// Recorder implements scheduler.Observer for one schedule.
type Recorder = metrics.Recorder

// New registers the schedule metrics on reg.
func New(reg prometheus.Registerer) *Metrics {
	return metrics.New(reg)
}
