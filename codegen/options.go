// SPDX-License-Identifier: MIT

package codegen

import (
	"context"

	"github.com/katalvlaran/symopt/config"
	"github.com/katalvlaran/symopt/logging"
)

// Option configures NewFunction.
type Option func(*options)

type options struct {
	ctx       context.Context
	epsilon   float64
	cse       bool
	logger    *logging.Logger
	loggerSet bool
}

func defaultOptions() options {
	return options{
		ctx:     context.Background(),
		epsilon: config.DefaultEpsilon,
		cse:     true,
		logger:  logging.NoopLogger(),
	}
}

// WithEpsilon sets the epsilon used when the function declares no epsilon argument.
// Non-positive values have no effect.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.epsilon = eps
		}
	}
}

// WithCSE toggles common subexpression elimination.
func WithCSE(enabled bool) Option {
	return func(o *options) { o.cse = enabled }
}

// WithLogger sets the logger. Passing nil has no effect.
func WithLogger(l *logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
			o.loggerSet = true
		}
	}
}

// WithCancelContext sets the context checked while ordering operations.
// Passing a nil context has no effect.
func WithCancelContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// FromConfig applies the epsilon and CSE settings of cfg and, unless
// WithLogger is given, a stderr text logger at cfg.Level().
func FromConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		WithEpsilon(cfg.Epsilon)(o)
		if !o.loggerSet {
			o.logger = logging.NewTextLogger(cfg.Level())
		}
		o.cse = cfg.CSE
	}
}
