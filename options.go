// Copyright 2025 Joseph Cumines
//
// Permission to use, copy, modify, and distribute this software for any
// purpose with or without fee is hereby granted, provided that this copyright
// notice appears in all copies.

package corun

// runnerOptions holds configuration options for Runner creation.
type runnerOptions struct {
	logger         Logger
	metricsEnabled bool
	pageAllocator  PageAllocator[*TaskRecord]
	onAbortTask    func(task *TaskRecord, err error)
}

// RunnerOption configures a Runner instance.
type RunnerOption interface {
	applyRunner(*runnerOptions) error
}

// runnerOptionImpl implements RunnerOption.
type runnerOptionImpl struct {
	applyRunnerFunc func(*runnerOptions) error
}

func (o *runnerOptionImpl) applyRunner(opts *runnerOptions) error {
	return o.applyRunnerFunc(opts)
}

// WithLogger installs the fault sink described in spec.md §6. The default is
// a no-op logger.
func WithLogger(logger Logger) RunnerOption {
	return &runnerOptionImpl{func(opts *runnerOptions) error {
		if logger == nil {
			logger = noopLogger{}
		}
		opts.logger = logger
		return nil
	}}
}

// WithMetrics enables per-pass latency and bucket-depth metrics collection.
// When enabled, metrics are available via Runner.Metrics(). Disabled by
// default to keep the steady-state path allocation-free.
func WithMetrics(enabled bool) RunnerOption {
	return &runnerOptionImpl{func(opts *runnerOptions) error {
		opts.metricsEnabled = enabled
		return nil
	}}
}

// WithPageAllocator overrides the PageAllocator used for every bucket's
// backing PagedSlabQueue. The default is a sync.Pool-backed allocator created
// for each Runner by NewPoolPageAllocator.
func WithPageAllocator(a PageAllocator[*TaskRecord]) RunnerOption {
	return &runnerOptionImpl{func(opts *runnerOptions) error {
		if a == nil {
			return ErrInvalid
		}
		opts.pageAllocator = a
		return nil
	}}
}

// WithAbortNotifier registers a callback invoked once per task that
// Runner.AbortAll sends ABORT to (tasks still in admission are dropped
// without a call), after the task has been sent ABORT, with any non-EXIT
// return value's implied error (spec.md §7: "A task that returns a
// non-EXIT code after being invoked with ABORT is considered to have failed
// cleanup"). err is nil when the task cleaned up successfully.
func WithAbortNotifier(fn func(task *TaskRecord, err error)) RunnerOption {
	return &runnerOptionImpl{func(opts *runnerOptions) error {
		opts.onAbortTask = fn
		return nil
	}}
}

// resolveRunnerOptions applies RunnerOption instances to runnerOptions.
func resolveRunnerOptions(opts []RunnerOption) (*runnerOptions, error) {
	cfg := &runnerOptions{
		logger:        noopLogger{},
		pageAllocator: NewPoolPageAllocator[*TaskRecord](),
	}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt.applyRunner(cfg); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}
