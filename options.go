package typedi

import (
	"log/slog"
)

// Option configures a Container or a Registry. Options given to a Registry
// apply to every container it creates.
type Option interface {
	apply(*options)
}

// options holds container configuration.
type options struct {
	config Config
	logger *slog.Logger
}

// optionFunc adapts a function to Option.
type optionFunc func(*options)

func (f optionFunc) apply(opts *options) {
	f(opts)
}

func newOptions(opts []Option) *options {
	o := &options{
		config: DefaultConfig(),
	}

	for _, opt := range opts {
		if opt != nil {
			opt.apply(o)
		}
	}

	if o.logger == nil {
		o.logger = slog.Default()
	}

	if !o.config.MarkerPolicy.IsValid() {
		o.config.MarkerPolicy = MarkerFirst
	}

	return o
}

// WithConfig replaces the whole configuration, typically with the result of
// LoadConfig. Options given after it still apply on top.
func WithConfig(cfg Config) Option {
	return optionFunc(func(opts *options) {
		opts.config = cfg
	})
}

// WithLogger sets the logger used for debug records. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return optionFunc(func(opts *options) {
		opts.logger = logger
	})
}

// WithConstructionLock enables or disables the per-type singleton construction lock.
func WithConstructionLock(enabled bool) Option {
	return optionFunc(func(opts *options) {
		opts.config.ConstructionLock = enabled
	})
}

// WithMarkerPolicy selects how inject struct tags are read.
func WithMarkerPolicy(policy MarkerPolicy) Option {
	return optionFunc(func(opts *options) {
		opts.config.MarkerPolicy = policy
	})
}

// WithStrictParameters makes constructor parameters that are not services
// fail resolution instead of receiving their zero value.
func WithStrictParameters(enabled bool) Option {
	return optionFunc(func(opts *options) {
		opts.config.StrictParameters = enabled
	})
}
