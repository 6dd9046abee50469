// SPDX-License-Identifier: MIT

package optim

import (
	"context"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Levenberg–Marquardt defaults.
const (
	DefaultTau                   = 1e-5
	DefaultMaxTrialsAfterFailure = 10

	goodStepLowerScale = 1.0 / 3.0
	goodStepUpperScale = 2.0 / 3.0
)

// LevenbergMarquardt solves the damped normal equations (H + λI)·Δx = b and
// adapts λ by the gain ratio between actual and predicted χ² decrease
// (Nielsen's update).
//
// Per iteration:
//  1. Linearize: H, b at the current estimates. On the first iteration of a
//     run λ = τ·max(diag H) unless an initial λ was configured.
//  2. Trial loop (at most MaxTrials):
//     solve, Push, apply Δx, ρ = (χ²_old − χ²_new) / (Δxᵀ(λΔx + b) + 1e-3).
//     ρ > 0: accept, λ *= max(1/3, min(2/3, 1 − (2ρ−1)³)), ν = 2.
//     else : Pop, λ *= ν, ν *= 2.
//  3. Exhausted trials, ρ == 0, or a non-finite λ ⇒ Terminate.
type LevenbergMarquardt struct {
	o *Optimizer

	tau           float64
	maxTrials     int
	initialLambda float64

	lambda        float64
	ni            float64
	levenbergIter int
}

// LMOption customizes a LevenbergMarquardt. Constructors panic on
// meaningless inputs.
type LMOption func(*LevenbergMarquardt)

// WithTau sets the initial damping scale τ. Panics if tau <= 0.
func WithTau(tau float64) LMOption {
	if tau <= 0 {
		panic("optim: WithTau(tau<=0)")
	}
	return func(lm *LevenbergMarquardt) {
		lm.tau = tau
	}
}

// WithMaxTrials bounds the inner trial loop. Panics if n <= 0.
func WithMaxTrials(n int) LMOption {
	if n <= 0 {
		panic("optim: WithMaxTrials(n<=0)")
	}
	return func(lm *LevenbergMarquardt) {
		lm.maxTrials = n
	}
}

// WithInitialLambda fixes the starting λ instead of deriving it from H.
// Panics if lambda <= 0.
func WithInitialLambda(lambda float64) LMOption {
	if lambda <= 0 {
		panic("optim: WithInitialLambda(lambda<=0)")
	}
	return func(lm *LevenbergMarquardt) {
		lm.initialLambda = lambda
	}
}

// NewLevenbergMarquardt returns a dense LM algorithm.
func NewLevenbergMarquardt(opts ...LMOption) *LevenbergMarquardt {
	lm := &LevenbergMarquardt{
		tau:       DefaultTau,
		maxTrials: DefaultMaxTrialsAfterFailure,
	}
	for _, opt := range opts {
		opt(lm)
	}

	return lm
}

// Name returns "lm_dense".
func (lm *LevenbergMarquardt) Name() string { return NameLevenbergMarquardt }

// Lambda returns the current damping.
func (lm *LevenbergMarquardt) Lambda() float64 { return lm.lambda }

// LevenbergIterations returns the trial count of the last iteration.
func (lm *LevenbergMarquardt) LevenbergIterations() int { return lm.levenbergIter }

// Init binds lm to o and resets the damping state.
func (lm *LevenbergMarquardt) Init(o *Optimizer) error {
	if o == nil {
		return ErrNotInitialized
	}
	lm.o = o
	lm.lambda = 0
	lm.ni = 2
	lm.levenbergIter = 0

	return nil
}

// Solve runs one LM iteration (see type documentation).
func (lm *LevenbergMarquardt) Solve(ctx context.Context, iteration int) (Result, error) {
	h, b, err := lm.o.BuildSystem()
	if err != nil {
		return Fail, err
	}
	if iteration == 0 || lm.lambda == 0 {
		lm.lambda = lm.initLambda(h)
		lm.ni = 2
	}

	currentChi := lm.o.Chi2()
	rho := 0.0
	trials := 0
	for {
		if err := ctx.Err(); err != nil {
			return Terminate, err
		}

		damped := addDiagonal(h, lm.lambda)
		dx, solveErr := SolveDense(damped, b)

		tempChi := math.Inf(1)
		if solveErr == nil {
			lm.o.Push()
			lm.o.Update(dx)
			tempChi = lm.o.Chi2()
			rho = (currentChi - tempChi) / lm.scale(dx, b)
		} else {
			rho = -1
		}
		if math.IsNaN(rho) {
			rho = -1
		}

		if rho > 0 && !math.IsInf(tempChi, 0) {
			alpha := 1 - math.Pow(2*rho-1, 3)
			alpha = math.Min(alpha, goodStepUpperScale)
			lm.lambda *= math.Max(goodStepLowerScale, alpha)
			lm.ni = 2
			lm.o.DiscardTop()
		} else {
			lm.lambda *= lm.ni
			lm.ni *= 2
			if solveErr == nil {
				lm.o.Pop()
			}
		}
		trials++
		lm.levenbergIter = trials

		if rho >= 0 || trials >= lm.maxTrials || math.IsInf(lm.lambda, 0) {
			break
		}
	}

	if trials >= lm.maxTrials && rho <= 0 || rho == 0 || math.IsInf(lm.lambda, 0) || math.IsNaN(lm.lambda) {
		return Terminate, nil
	}

	return OK, nil
}

// initLambda returns the configured λ, or τ·max(diag H).
func (lm *LevenbergMarquardt) initLambda(h *mat.SymDense) float64 {
	if lm.initialLambda > 0 {
		return lm.initialLambda
	}
	n := h.SymmetricDim()
	diag := make([]float64, n)
	for i := range diag {
		diag[i] = math.Abs(h.At(i, i))
	}
	maxDiag := floats.Max(diag)
	if maxDiag == 0 {
		maxDiag = 1
	}

	return lm.tau * maxDiag
}

// scale is the predicted decrease Δxᵀ(λΔx + b), regularized by 1e-3.
func (lm *LevenbergMarquardt) scale(dx, b *mat.VecDense) float64 {
	var s float64
	for i := 0; i < dx.Len(); i++ {
		s += dx.AtVec(i) * (lm.lambda*dx.AtVec(i) + b.AtVec(i))
	}

	return s + 1e-3
}

// addDiagonal returns a copy of h with lambda added to its diagonal.
func addDiagonal(h *mat.SymDense, lambda float64) *mat.SymDense {
	n := h.SymmetricDim()
	out := mat.NewSymDense(n, nil)
	out.CopySym(h)
	for i := 0; i < n; i++ {
		out.SetSym(i, i, out.At(i, i)+lambda)
	}

	return out
}
