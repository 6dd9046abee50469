package optim

import (
	"context"
)

// GaussNewton takes the full Gauss–Newton step Δx = H⁻¹b every iteration.
// It converges quadratically near the optimum but may diverge from a poor
// starting point; prefer LevenbergMarquardt in that case.
type GaussNewton struct {
	o *Optimizer
}

// NewGaussNewton returns a dense Gauss–Newton algorithm.
func NewGaussNewton() *GaussNewton {
	return &GaussNewton{}
}

// Name returns "gn_dense".
func (g *GaussNewton) Name() string { return NameGaussNewton }

// Init binds g to o.
func (g *GaussNewton) Init(o *Optimizer) error {
	if o == nil {
		return ErrNotInitialized
	}
	g.o = o

	return nil
}

// Solve builds and solves the normal equations, then applies the step.
// A singular system yields (Fail, ErrSingular).
func (g *GaussNewton) Solve(_ context.Context, _ int) (Result, error) {
	h, b, err := g.o.BuildSystem()
	if err != nil {
		return Fail, err
	}
	dx, err := SolveDense(h, b)
	if err != nil {
		return Fail, err
	}
	g.o.Update(dx)

	return OK, nil
}
