// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package librertos

import "time"

// kernelOptions holds configuration options for Kernel creation.
type kernelOptions struct {
	maxPriority     Priority
	preemption      bool
	preemptLimit    Priority
	softwareTimers  bool
	stateGuards     bool
	statistics      bool
	logger          Logger
	clock           func() time.Duration
	port            Port
}

// --- Kernel Options ---

// Option configures a Kernel instance.
type Option interface {
	applyKernel(*kernelOptions) error
}

// optionImpl implements Option.
type optionImpl struct {
	applyKernelFunc func(*kernelOptions) error
}

func (o *optionImpl) applyKernel(opts *kernelOptions) error {
	return o.applyKernelFunc(opts)
}

// WithMaxPriority sets the size of the ready table. Must be >= 1.
func WithMaxPriority(n Priority) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		if n < 1 {
			return &RangeError{Message: "librertos: MaxPriority must be >= 1"}
		}
		opts.maxPriority = n
		return nil
	}}
}

// WithPreemption enables higher-priority-wins-immediately scheduling.
func WithPreemption(enabled bool) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.preemption = enabled
		return nil
	}}
}

// WithPreemptLimit suppresses preemption below the given priority,
// forming a cooperative band at the bottom of the ready table. Must
// satisfy 0 <= limit < MaxPriority.
func WithPreemptLimit(limit Priority) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.preemptLimit = limit
		return nil
	}}
}

// WithSoftwareTimers compiles in the timer subsystem and its dedicated
// kernel task.
func WithSoftwareTimers(enabled bool) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.softwareTimers = enabled
		return nil
	}}
}

// WithStateGuards places sentinel words around kernel state and
// enables Kernel.StateCheck.
func WithStateGuards(enabled bool) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.stateGuards = enabled
		return nil
	}}
}

// WithStatistics enables per-task runtime and schedule counters.
func WithStatistics(enabled bool) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.statistics = enabled
		return nil
	}}
}

// WithLogger overrides the package-level global logger for one Kernel
// instance.
func WithLogger(l Logger) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.logger = l
		return nil
	}}
}

// WithClock supplies the monotonic free-running counter used by
// statistics (system_runtime in the platform contract). Defaults to
// the configured Port's SystemRuntime.
func WithClock(clock func() time.Duration) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.clock = clock
		return nil
	}}
}

// WithPort supplies the interrupt/critical-section collaborator.
// Defaults to NewMutexPort().
func WithPort(p Port) Option {
	return &optionImpl{func(opts *kernelOptions) error {
		opts.port = p
		return nil
	}}
}

// resolveOptions applies Option instances to kernelOptions.
func resolveOptions(opts []Option) (*kernelOptions, error) {
	cfg := &kernelOptions{
		maxPriority:  3,
		preemption:   false,
		preemptLimit: 0,
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyKernel(cfg); err != nil {
			return nil, err
		}
	}
	if cfg.preemptLimit >= cfg.maxPriority {
		return nil, &RangeError{Message: "librertos: PreemptLimit must be < MaxPriority"}
	}
	if cfg.port == nil {
		cfg.port = NewMutexPort()
	}
	if cfg.logger == nil {
		cfg.logger = getGlobalLogger()
	}
	return cfg, nil
}
