package optim

import (
	"gonum.org/v1/gonum/mat"
)

// numericDelta is the central-difference step in tangent space.
const numericDelta = 1e-9

// jacobians returns the Jacobian blocks of e, preferring the analytic
// Linearizer and falling back to central differences.
func jacobians(e Edge) []*mat.Dense {
	if l, ok := e.(Linearizer); ok {
		return l.Jacobians()
	}

	return NumericJacobians(e)
}

// NumericJacobians linearizes e by central differences around the current
// estimate of every non-fixed vertex:
//
//	J[:, j] = (err(x ⊞ δ·u_j) − err(x ⊞ −δ·u_j)) / (2δ)
//
// Each probe is bracketed by Push/Pop, so estimates are left untouched.
// Blocks for fixed vertices are nil.
//
// Complexity: 2·Σ dim(v) evaluations of ComputeError.
func NumericJacobians(e Edge) []*mat.Dense {
	const scalar = 1 / (2 * numericDelta)

	vs := e.Vertices()
	dim := e.Dimension()
	out := make([]*mat.Dense, len(vs))
	for k, v := range vs {
		if v.Fixed() {
			continue
		}
		vd := v.Dimension()
		jac := mat.NewDense(dim, vd, nil)
		step := make([]float64, vd)
		for j := 0; j < vd; j++ {
			step[j] = numericDelta
			v.Push()
			v.Oplus(step)
			plus := e.ComputeError()
			v.Pop()

			step[j] = -numericDelta
			v.Push()
			v.Oplus(step)
			minus := e.ComputeError()
			v.Pop()
			step[j] = 0

			for i := 0; i < dim; i++ {
				jac.Set(i, j, (plus[i]-minus[i])*scalar)
			}
		}
		out[k] = jac
	}

	return out
}
