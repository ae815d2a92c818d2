package scheduler

import (
	"github.com/born-ml/lrschedule/internal/optim"
)

// LambdaFunc returns the multiplier applied to a base rate at a step.
type LambdaFunc func(step int) float64

// LambdaLR sets each group's rate to its base rate times a multiplier
// computed from the step index:
//
//	lr_g = base_g * lambda_g(step)
//
// A single lambda is shared by all groups; otherwise there must be one per group.
type LambdaLR struct {
	base
	lambdas []LambdaFunc
}

// NewLambdaLR creates a LambdaLR scheduler and applies the step-0 rates.
//
// Example:
//
//	// Halve the rate every 100 steps.
//	s, err := scheduler.NewLambdaLR(optimizer, func(step int) float64 {
//	    return math.Pow(0.5, float64(step/100))
//	})
func NewLambdaLR(opt optim.Optimizer, lambdas ...LambdaFunc) (*LambdaLR, error) {
	if opt == nil {
		return nil, configError("optimizer", "must not be nil")
	}
	if len(lambdas) == 0 {
		return nil, configError("lambdas", "at least one lambda is required")
	}
	groups := len(opt.ParamGroups())
	if len(lambdas) != 1 && len(lambdas) != groups {
		return nil, configError("lambdas", "expected 1 or %d lambdas, got %d", groups, len(lambdas))
	}
	for i, fn := range lambdas {
		if fn == nil {
			return nil, configError("lambdas", "lambda %d is nil", i)
		}
	}

	s := &LambdaLR{lambdas: lambdas}
	s.attach(opt, s.rate)
	return s, nil
}

// NewConstant creates a scheduler that keeps every group at its base rate.
func NewConstant(opt optim.Optimizer) (*LambdaLR, error) {
	return NewLambdaLR(opt, func(int) float64 { return 1.0 })
}

// Factor returns the multiplier of the given group at step.
func (s *LambdaLR) Factor(group, step int) float64 {
	if len(s.lambdas) == 1 {
		return s.lambdas[0](step)
	}
	return s.lambdas[group](step)
}

func (s *LambdaLR) rate(group int, baseLR float64, step int) float64 {
	return baseLR * s.Factor(group, step)
}
