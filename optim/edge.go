// SPDX-License-Identifier: MIT

package optim

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Edge is one measurement term of the objective.
//
// Contract:
//   - Vertices() is the ordered list of vertices the residual depends on.
//   - ComputeError() returns a fresh residual slice of length Dimension()
//     evaluated at the current vertex estimates.
//   - Information() is the Dimension()×Dimension() weight matrix Ω.
//   - RobustKernel() may be nil (plain squared loss).
//
// Embed *BaseEdge[M] and implement ComputeError to satisfy the interface.
type Edge interface {
	Vertices() []Vertex
	Dimension() int
	ComputeError() []float64
	Information() *mat.SymDense
	RobustKernel() RobustKernel
}

// Linearizer is implemented by edges that provide analytic Jacobians.
// Jacobians returns one Dimension()×vertex.Dimension() block per vertex, in
// Vertices() order, evaluated at the current estimates. Blocks for fixed
// vertices may be nil.
type Linearizer interface {
	Jacobians() []*mat.Dense
}

// BaseEdge stores everything an edge needs except its error function:
// connected vertices, a typed measurement, the information matrix and an
// optional robust kernel.
type BaseEdge[M any] struct {
	vertices    []Vertex
	dim         int
	measurement M
	information *mat.SymDense
	kernel      RobustKernel
}

// NewBaseEdge creates an edge of residual dimension dim over the given
// vertices, with identity information. Panics if dim <= 0 (programmer error).
//
// Complexity: O(dim²) for the identity matrix.
func NewBaseEdge[M any](dim int, vertices ...Vertex) *BaseEdge[M] {
	if dim <= 0 {
		panic("optim: NewBaseEdge(dim<=0)")
	}
	vs := make([]Vertex, len(vertices))
	copy(vs, vertices)

	return &BaseEdge[M]{
		vertices:    vs,
		dim:         dim,
		information: identity(dim),
	}
}

// Vertices returns the connected vertices in order.
func (e *BaseEdge[M]) Vertices() []Vertex { return e.vertices }

// Vertex returns the i-th connected vertex.
func (e *BaseEdge[M]) Vertex(i int) Vertex { return e.vertices[i] }

// SetVertex replaces the i-th connected vertex.
func (e *BaseEdge[M]) SetVertex(i int, v Vertex) { e.vertices[i] = v }

// Dimension returns the residual dimension.
func (e *BaseEdge[M]) Dimension() int { return e.dim }

// Measurement returns the stored measurement.
func (e *BaseEdge[M]) Measurement() M { return e.measurement }

// SetMeasurement stores the measurement.
func (e *BaseEdge[M]) SetMeasurement(m M) { e.measurement = m }

// Information returns Ω.
func (e *BaseEdge[M]) Information() *mat.SymDense { return e.information }

// SetInformation replaces Ω. Returns ErrBadDimension on a shape mismatch.
func (e *BaseEdge[M]) SetInformation(info *mat.SymDense) error {
	if info == nil || info.SymmetricDim() != e.dim {
		return fmt.Errorf("%w: information must be %dx%d", ErrBadDimension, e.dim, e.dim)
	}
	e.information = info

	return nil
}

// RobustKernel returns the kernel, or nil.
func (e *BaseEdge[M]) RobustKernel() RobustKernel { return e.kernel }

// SetRobustKernel installs (or with nil, removes) a robust kernel.
func (e *BaseEdge[M]) SetRobustKernel(k RobustKernel) { e.kernel = k }

func identity(n int) *mat.SymDense {
	s := mat.NewSymDense(n, nil)
	for i := 0; i < n; i++ {
		s.SetSym(i, i, 1)
	}

	return s
}

// chi2 returns eᵀ·Ω·e.
func chi2(e []float64, omega *mat.SymDense) float64 {
	var sum float64
	for i := range e {
		for j := range e {
			sum += e[i] * omega.At(i, j) * e[j]
		}
	}

	return sum
}
