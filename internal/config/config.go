// Package config loads learning-rate schedules described in YAML.
//
// Example file:
//
//	optimizer:
//	  type: sgd
//	  lrs: [0.1, 0.01]   # one entry per parameter group
//	  momentum: 0.9
//	warmup:
//	  steps: 500
//	  constant_steps: 100  # optional
//	  starts_with: 0.001   # optional, exclusive with denominator
//	after:
//	  policy: cosine       # constant | linear | cosine
//	  total_steps: 10000
//	  min_lr: 0.0
package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/born-ml/lrschedule/internal/optim"
	"github.com/born-ml/lrschedule/internal/scheduler"
)

// Supported optimizer types.
const (
	OptimizerSGD  = "sgd"
	OptimizerAdam = "adam"
)

// Supported after-warm-up policies.
const (
	PolicyConstant = "constant"
	PolicyLinear   = "linear"
	PolicyCosine   = "cosine"
)

// ErrInvalidConfig is wrapped by every validation error of this package.
var ErrInvalidConfig = errors.New("config: invalid schedule configuration")

// Config describes an optimizer and the warm-up schedule driving it.
type Config struct {
	Optimizer OptimizerConfig `yaml:"optimizer"`
	WarmUp    WarmUpConfig    `yaml:"warmup"`
	After     AfterConfig     `yaml:"after"`
}

// OptimizerConfig describes the optimizer parameter groups.
type OptimizerConfig struct {
	Type     string    `yaml:"type"`     // sgd (default) or adam
	LRs      []float64 `yaml:"lrs"`      // Initial rate of each group
	Momentum float64   `yaml:"momentum"` // SGD only
}

// WarmUpConfig describes the warm-up stages. Optional fields are pointers
// so that an explicit zero is rejected instead of ignored.
type WarmUpConfig struct {
	Steps         int      `yaml:"steps"`
	ConstantSteps *int     `yaml:"constant_steps"`
	Denominator   *float64 `yaml:"denominator"`
	StartsWith    *float64 `yaml:"starts_with"`
}

// AfterConfig describes the stage that runs once warm-up is over.
type AfterConfig struct {
	Policy     string  `yaml:"policy"`      // constant (default), linear or cosine
	TotalSteps int     `yaml:"total_steps"` // Required for linear and cosine
	MinLR      float64 `yaml:"min_lr"`
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates a YAML configuration. Unknown fields are errors.
func Parse(data []byte) (*Config, error) {
	var cfg Config

	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Optimizer.Type == "" {
		c.Optimizer.Type = OptimizerSGD
	}
	if c.After.Policy == "" {
		c.After.Policy = PolicyConstant
	}
}

// Validate checks the fields the scheduler constructors cannot check themselves.
// Range checks on warm-up fields are left to scheduler.NewWarmUp.
func (c *Config) Validate() error {
	switch c.Optimizer.Type {
	case OptimizerSGD, OptimizerAdam:
	default:
		return fmt.Errorf("%w: unknown optimizer type %q", ErrInvalidConfig, c.Optimizer.Type)
	}
	if len(c.Optimizer.LRs) == 0 {
		return fmt.Errorf("%w: optimizer.lrs must list at least one rate", ErrInvalidConfig)
	}
	for i, lr := range c.Optimizer.LRs {
		if lr <= 0 {
			return fmt.Errorf("%w: optimizer.lrs[%d] must be positive, got %g", ErrInvalidConfig, i, lr)
		}
	}

	switch c.After.Policy {
	case PolicyConstant:
	case PolicyLinear, PolicyCosine:
		if c.After.TotalSteps <= 0 {
			return fmt.Errorf("%w: after.total_steps is required for policy %q", ErrInvalidConfig, c.After.Policy)
		}
	default:
		return fmt.Errorf("%w: unknown after policy %q", ErrInvalidConfig, c.After.Policy)
	}

	return nil
}

// NewOptimizer creates an optimizer with one empty parameter group per
// configured rate. Callers attach parameters to the groups.
func (c *Config) NewOptimizer() optim.Optimizer {
	first := c.Optimizer.LRs[0]

	var opt interface {
		optim.Optimizer
		AddParamGroup(group *optim.ParamGroup)
	}
	switch c.Optimizer.Type {
	case OptimizerAdam:
		opt = optim.NewAdam(nil, optim.AdamConfig{LR: first})
	default:
		opt = optim.NewSGD(nil, optim.SGDConfig{LR: first, Momentum: c.Optimizer.Momentum})
	}
	for _, lr := range c.Optimizer.LRs[1:] {
		opt.AddParamGroup(&optim.ParamGroup{LR: lr})
	}
	return opt
}

// WarmUpOptions converts the optional warm-up fields to builder options.
func (c *Config) WarmUpOptions() []scheduler.WarmUpOption {
	var opts []scheduler.WarmUpOption
	if c.WarmUp.ConstantSteps != nil {
		opts = append(opts, scheduler.WithConstantSteps(*c.WarmUp.ConstantSteps))
	}
	if c.WarmUp.Denominator != nil {
		opts = append(opts, scheduler.WithWarmupDenominator(*c.WarmUp.Denominator))
	}
	if c.WarmUp.StartsWith != nil {
		opts = append(opts, scheduler.WithStartsWith(*c.WarmUp.StartsWith))
	}
	return opts
}

// Build assembles the configured schedule on opt.
func (c *Config) Build(opt optim.Optimizer, combineOpts ...scheduler.CombineOption) (*scheduler.Combined, error) {
	opts := append(c.WarmUpOptions(), scheduler.WithCombineOptions(combineOpts...))

	var (
		s   *scheduler.Combined
		err error
	)
	switch c.After.Policy {
	case PolicyLinear:
		s, err = scheduler.NewWarmUpLinear(opt, c.WarmUp.Steps, c.After.TotalSteps, c.After.MinLR, opts...)
	case PolicyCosine:
		s, err = scheduler.NewWarmUpCosine(opt, c.WarmUp.Steps, c.After.TotalSteps, c.After.MinLR, opts...)
	default:
		s, err = scheduler.NewWarmUpConstant(opt, c.WarmUp.Steps, opts...)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule: %w", err)
	}
	return s, nil
}
