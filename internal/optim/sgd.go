package optim

import (
	"fmt"
)

// SGD implements Stochastic Gradient Descent optimizer with optional momentum.
//
// Update rule without momentum:
//
//	param = param - lr * gradient
//
// Update rule with momentum:
//
//	velocity = momentum * velocity + gradient
//	param = param - lr * velocity
//
// The lr used is the LR of the parameter's group at the time of Step, so a
// scheduler stepping between iterations changes the effective update size.
//
// Example:
//
//	optimizer := optim.NewSGD(params, optim.SGDConfig{
//	    LR:       0.01,
//	    Momentum: 0.9,
//	})
type SGD struct {
	groups
	momentum   float64
	velocities map[*Parameter][]float32
}

// SGDConfig holds configuration for SGD optimizer.
type SGDConfig struct {
	LR       float64 // Learning rate (default: 0.01)
	Momentum float64 // Momentum factor (default: 0.0, range: [0, 1))
}

// NewSGD creates a new SGD optimizer with a single parameter group.
//
// Additional groups can be added with AddParamGroup.
func NewSGD(params []*Parameter, config SGDConfig) *SGD {
	// Set defaults
	if config.LR == 0 {
		config.LR = 0.01
	}

	return &SGD{
		groups:     newGroups(params, config.LR),
		momentum:   config.Momentum,
		velocities: make(map[*Parameter][]float32),
	}
}

// Step performs a single optimization step.
//
// Parameters with no gradient are skipped.
func (s *SGD) Step() {
	for _, group := range s.list {
		lr := float32(group.LR)
		for _, param := range group.Params {
			grad := param.Grad()
			if grad == nil {
				continue
			}

			if s.momentum == 0 {
				s.updateParameter(param, grad, lr)
			} else {
				s.updateParameterWithMomentum(param, grad, lr)
			}
		}
	}
}

// updateParameter performs simple SGD update without momentum.
func (s *SGD) updateParameter(param *Parameter, grad []float32, lr float32) {
	data := param.Data()
	for i := range data {
		data[i] -= lr * grad[i]
	}
}

// updateParameterWithMomentum performs SGD update with momentum.
func (s *SGD) updateParameterWithMomentum(param *Parameter, grad []float32, lr float32) {
	velocity, exists := s.velocities[param]
	if !exists {
		velocity = make([]float32, len(param.Data()))
		s.velocities[param] = velocity
	}

	momentum := float32(s.momentum)
	data := param.Data()
	for i := range data {
		// velocity = momentum * velocity + grad
		velocity[i] = momentum*velocity[i] + grad[i]
		// param -= lr * velocity
		data[i] -= lr * velocity[i]
	}
}

// StateDict returns the optimizer state for serialization.
//
// For SGD with momentum, this exports velocity buffers for each parameter.
// Without momentum, returns an empty map.
//
// State keys: "velocity.{param_index}" -> velocity buffer, where the index
// runs over all parameters in group order.
func (s *SGD) StateDict() map[string][]float32 {
	stateDict := make(map[string][]float32)

	if s.momentum == 0 {
		return stateDict
	}

	for i, param := range s.params() {
		velocity, exists := s.velocities[param]
		if !exists {
			continue // No velocity yet (hasn't been used in training)
		}

		key := fmt.Sprintf("velocity.%d", i)
		stateDict[key] = append([]float32(nil), velocity...)
	}

	return stateDict
}

// LoadStateDict loads optimizer state from serialization.
//
// Returns an error if a velocity length doesn't match its parameter.
func (s *SGD) LoadStateDict(stateDict map[string][]float32) error {
	if s.momentum == 0 {
		return nil
	}

	s.velocities = make(map[*Parameter][]float32)

	for i, param := range s.params() {
		key := fmt.Sprintf("velocity.%d", i)
		velocity, exists := stateDict[key]
		if !exists {
			// Will be initialized on first step
			continue
		}

		if len(velocity) != len(param.Data()) {
			return fmt.Errorf("velocity length mismatch for parameter %d: expected %d, got %d",
				i, len(param.Data()), len(velocity))
		}

		s.velocities[param] = append([]float32(nil), velocity...)
	}

	return nil
}
