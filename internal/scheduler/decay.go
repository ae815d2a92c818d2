package scheduler

import (
	"math"

	"github.com/born-ml/lrschedule/internal/optim"
)

// DecayConfig describes a decay that runs from StartStep to TotalSteps.
//
// Before StartStep the rate stays at the base rate, after TotalSteps it
// stays at MinLR. StartStep is measured on the scheduler's own step
// counter, which inside a Combined schedule is the global step.
type DecayConfig struct {
	StartStep  int     // First step of the decay (default: 0)
	TotalSteps int     // Step at which MinLR is reached
	MinLR      float64 // Final rate (default: 0)
}

func (c DecayConfig) validate() error {
	if c.StartStep < 0 {
		return configError("start_step", "must not be negative, got %d", c.StartStep)
	}
	if c.TotalSteps <= c.StartStep {
		return configError("total_steps", "must be greater than start step %d, got %d", c.StartStep, c.TotalSteps)
	}
	if c.MinLR < 0 {
		return configError("min_lr", "must not be negative, got %g", c.MinLR)
	}
	return nil
}

// progress returns how far step is through the decay, clamped to [0, 1].
func (c DecayConfig) progress(step int) float64 {
	p := float64(step-c.StartStep) / float64(c.TotalSteps-c.StartStep)
	return math.Min(1, math.Max(0, p))
}

// LinearDecay decreases the rate linearly from the base rate to MinLR:
//
//	lr = min_lr + (base - min_lr) * (1 - progress)
type LinearDecay struct {
	base
	config DecayConfig
}

// NewLinearDecay creates a LinearDecay scheduler and applies the step-0 rates.
func NewLinearDecay(opt optim.Optimizer, config DecayConfig) (*LinearDecay, error) {
	if opt == nil {
		return nil, configError("optimizer", "must not be nil")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	s := &LinearDecay{config: config}
	s.attach(opt, s.rate)
	return s, nil
}

func (s *LinearDecay) rate(_ int, baseLR float64, step int) float64 {
	minLR := s.config.MinLR
	return minLR + (baseLR-minLR)*(1-s.config.progress(step))
}

// CosineDecay follows half a cosine period from the base rate to MinLR:
//
//	lr = min_lr + (base - min_lr) * 0.5 * (1 + cos(pi * progress))
//
// Reference: "SGDR: Stochastic Gradient Descent with Warm Restarts"
// (Loshchilov & Hutter, 2016), without restarts.
type CosineDecay struct {
	base
	config DecayConfig
}

// NewCosineDecay creates a CosineDecay scheduler and applies the step-0 rates.
func NewCosineDecay(opt optim.Optimizer, config DecayConfig) (*CosineDecay, error) {
	if opt == nil {
		return nil, configError("optimizer", "must not be nil")
	}
	if err := config.validate(); err != nil {
		return nil, err
	}

	s := &CosineDecay{config: config}
	s.attach(opt, s.rate)
	return s, nil
}

func (s *CosineDecay) rate(_ int, baseLR float64, step int) float64 {
	minLR := s.config.MinLR
	return minLR + (baseLR-minLR)*0.5*(1+math.Cos(math.Pi*s.config.progress(step)))
}
