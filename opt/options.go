// SPDX-License-Identifier: MIT

package opt

import (
	"github.com/katalvlaran/symopt/config"
	"github.com/katalvlaran/symopt/geo"
	"github.com/katalvlaran/symopt/logging"
)

// SharedInputsKey is the top-level key of the shared inputs block.
const SharedInputsKey = "shared_inputs"

// Option configures an OptimizationProblem or a Factor.
type Option func(*options)

type options struct {
	shared      *Values[geo.Element]
	epsilon     float64
	cse         bool
	parallelism int
	factorName  string
	logger      *logging.Logger
	loggerSet   bool
}

func defaultOptions() options {
	cfg := config.Default()
	return options{
		epsilon:     cfg.Epsilon,
		cse:         cfg.CSE,
		parallelism: cfg.Parallelism,
		factorName:  cfg.DefaultFactorName,
		logger:      logging.NoopLogger(),
	}
}

// WithSharedInputs adds inputs used by several subproblems under SharedInputsKey.
func WithSharedInputs(shared *Values[geo.Element]) Option {
	return func(o *options) { o.shared = shared }
}

// WithEpsilon sets the epsilon used in Jacobians and generated functions.
// Non-positive values have no effect.
func WithEpsilon(eps float64) Option {
	return func(o *options) {
		if eps > 0 {
			o.epsilon = eps
		}
	}
}

// WithParallelism bounds the number of factors generated concurrently.
// Values below 1 have no effect.
func WithParallelism(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.parallelism = n
		}
	}
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

// FromConfig applies epsilon, CSE, parallelism and the default factor name.
// Unless WithLogger is given it also installs a stderr text logger at cfg.Level().
func FromConfig(cfg *config.Config) Option {
	return func(o *options) {
		if cfg == nil {
			return
		}
		WithEpsilon(cfg.Epsilon)(o)
		if !o.loggerSet {
			o.logger = logging.NewTextLogger(cfg.Level())
		}
		WithParallelism(cfg.Parallelism)(o)
		o.cse = cfg.CSE
		if cfg.DefaultFactorName != "" {
			o.factorName = cfg.DefaultFactorName
		}
	}
}
