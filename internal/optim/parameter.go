package optim

// Parameter is a named trainable vector together with its gradient.
//
// The optimizers in this package update Data in place using Grad. A nil
// gradient means the parameter did not take part in the last backward
// pass and is skipped.
//
// Example:
//
//	w := optim.NewParameter("weight", []float32{0.5, -0.25})
//	w.SetGrad([]float32{0.1, 0.2})
type Parameter struct {
	name string    // Parameter name (e.g., "weight", "bias")
	data []float32 // Parameter values, updated in place
	grad []float32 // Gradient (nil until set)
}

// NewParameter creates a new trainable parameter backed by data.
//
// The slice is not copied; the optimizer writes into it directly.
func NewParameter(name string, data []float32) *Parameter {
	return &Parameter{
		name: name,
		data: data,
	}
}

// Name returns the parameter name.
func (p *Parameter) Name() string {
	return p.name
}

// Data returns the parameter values.
func (p *Parameter) Data() []float32 {
	return p.data
}

// Grad returns the gradient, or nil if none has been set.
func (p *Parameter) Grad() []float32 {
	return p.grad
}

// SetGrad sets the gradient. It must have the same length as Data.
func (p *Parameter) SetGrad(grad []float32) {
	p.grad = grad
}

// ZeroGrad clears the gradient.
func (p *Parameter) ZeroGrad() {
	p.grad = nil
}
