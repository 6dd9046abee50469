package optim

import (
	"context"
	"errors"

	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// Result is the outcome of one Algorithm.Solve call.
type Result int

const (
	// OK means the iteration completed; Optimize continues.
	OK Result = iota
	// Fail means the iteration could not be carried out; Optimize stops with an error.
	Fail
	// Terminate means no further progress is possible; Optimize stops cleanly.
	Terminate
)

// String returns the lower-case result name.
func (r Result) String() string {
	switch r {
	case OK:
		return "ok"
	case Fail:
		return "fail"
	case Terminate:
		return "terminate"
	default:
		return "unknown"
	}
}

// Algorithm performs one nonlinear least-squares iteration over an Optimizer.
//
// Init binds the algorithm to o at the start of every Optimize call and
// resets per-run state. Solve performs iteration number `iteration`
// (0-based within the run), updating the active vertices in place.
type Algorithm interface {
	Name() string
	Init(o *Optimizer) error
	Solve(ctx context.Context, iteration int) (Result, error)
}

// Damped is implemented by algorithms with a damping parameter; Optimize
// copies these values into IterationStats.
type Damped interface {
	Lambda() float64
	LevenbergIterations() int
}

// SolveDense solves H·x = b for symmetric positive definite H by Cholesky
// factorization.
//
// A badly conditioned but positive definite H still yields its solution;
// the condition number is logged at V(4).
//
// Errors:
//   - ErrBadDimension if the shapes disagree.
//   - ErrSingular     if H is not positive definite.
//
// Complexity: O(n³).
func SolveDense(h mat.Symmetric, b *mat.VecDense) (*mat.VecDense, error) {
	n := h.SymmetricDim()
	if b.Len() != n {
		return nil, optimErrorf(opSolve, ErrBadDimension)
	}
	var chol mat.Cholesky
	if ok := chol.Factorize(h); !ok {
		return nil, optimErrorf(opSolve, ErrSingular)
	}
	x := mat.NewVecDense(n, nil)
	if err := chol.SolveVecTo(x, b); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, optimErrorf(opSolve, ErrSingular)
		}
		klog.V(4).Info("Ill-conditioned system", "condition", float64(cond))
	}

	return x, nil
}
