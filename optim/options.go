package optim

import (
	"io"

	"k8s.io/klog/v2"
)

// Option customizes an Optimizer at construction time.
// Option constructors validate and PANIC on meaningless inputs.
type Option func(*Optimizer)

// WithAlgorithm sets the algorithm Optimize drives. Panics on nil.
func WithAlgorithm(a Algorithm) Option {
	if a == nil {
		panic("optim: WithAlgorithm(nil)")
	}
	return func(o *Optimizer) {
		o.algorithm = a
	}
}

// WithVerbose prints one statistics line per iteration to w.
// A nil writer disables tracing.
func WithVerbose(w io.Writer) Option {
	return func(o *Optimizer) {
		o.verbose = w
	}
}

// WithChi2Tolerance stops Optimize once an iteration changes χ² by at most
// tol·max(χ², 1). Zero (the default) disables the check. Panics if tol < 0.
func WithChi2Tolerance(tol float64) Option {
	if tol < 0 {
		panic("optim: WithChi2Tolerance(tol<0)")
	}
	return func(o *Optimizer) {
		o.chi2Tol = tol
	}
}

// WithLogger routes diagnostics to logger instead of klog.Background().
func WithLogger(logger klog.Logger) Option {
	return func(o *Optimizer) {
		o.logger = logger
	}
}
