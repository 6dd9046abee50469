// SPDX-License-Identifier: MIT

package optim

import (
	"fmt"
)

// Vertex is one block of unknowns in the optimization graph.
//
// Contract:
//   - Dimension() is the size of the tangent update Oplus receives; it is
//     constant for the vertex lifetime.
//   - Oplus(update) applies a step of length Dimension() to the estimate.
//   - Push/Pop/DiscardTop maintain a LIFO backup stack of estimates so that
//     algorithms can try a step and roll it back.
//   - Fixed vertices are never updated by Optimize.
//
// Embed *BaseVertex and implement Oplus to satisfy the interface.
type Vertex interface {
	ID() int
	Dimension() int
	Estimate() []float64
	SetEstimate(est []float64) error
	Oplus(update []float64)
	Fixed() bool
	SetFixed(fixed bool)
	Push()
	Pop()
	DiscardTop()
	StackSize() int
}

// BaseVertex implements the bookkeeping part of Vertex: identity, estimate
// storage, the fixed flag and the backup stack. It deliberately has no
// Oplus: the update rule belongs to the concrete vertex.
type BaseVertex struct {
	id       int
	estimate []float64
	fixed    bool
	backup   [][]float64
}

// NewBaseVertex allocates a zero estimate of the given dimension.
// Panics if dim <= 0 (programmer error).
//
// Complexity: O(dim).
func NewBaseVertex(id, dim int) *BaseVertex {
	if dim <= 0 {
		panic("optim: NewBaseVertex(dim<=0)")
	}

	return &BaseVertex{id: id, estimate: make([]float64, dim)}
}

// ID returns the vertex identifier.
func (v *BaseVertex) ID() int { return v.id }

// Dimension returns the estimate dimension.
func (v *BaseVertex) Dimension() int { return len(v.estimate) }

// Estimate returns a copy of the current estimate.
func (v *BaseVertex) Estimate() []float64 {
	out := make([]float64, len(v.estimate))
	copy(out, v.estimate)

	return out
}

// Data exposes the backing estimate slice for in-place updates by Oplus
// implementations. Callers must not retain it across Push/Pop.
func (v *BaseVertex) Data() []float64 { return v.estimate }

// SetEstimate overwrites the estimate.
// Returns ErrBadDimension if len(est) != Dimension().
func (v *BaseVertex) SetEstimate(est []float64) error {
	if len(est) != len(v.estimate) {
		return fmt.Errorf("%w: vertex %d wants %d values, got %d", ErrBadDimension, v.id, len(v.estimate), len(est))
	}
	copy(v.estimate, est)

	return nil
}

// Fixed reports whether the vertex is excluded from updates.
func (v *BaseVertex) Fixed() bool { return v.fixed }

// SetFixed toggles the fixed flag. Re-run InitializeOptimization afterwards.
func (v *BaseVertex) SetFixed(fixed bool) { v.fixed = fixed }

// Push saves a copy of the estimate on the backup stack.
func (v *BaseVertex) Push() {
	saved := make([]float64, len(v.estimate))
	copy(saved, v.estimate)
	v.backup = append(v.backup, saved)
}

// Pop restores the most recently pushed estimate.
// Panics on an empty stack: unbalanced Push/Pop is a programmer error.
func (v *BaseVertex) Pop() {
	top := v.top()
	copy(v.estimate, top)
	v.backup = v.backup[:len(v.backup)-1]
}

// DiscardTop drops the most recently pushed estimate without restoring it.
// Panics on an empty stack.
func (v *BaseVertex) DiscardTop() {
	v.top()
	v.backup = v.backup[:len(v.backup)-1]
}

// StackSize returns the depth of the backup stack.
func (v *BaseVertex) StackSize() int { return len(v.backup) }

func (v *BaseVertex) top() []float64 {
	if len(v.backup) == 0 {
		panic(fmt.Sprintf("optim: vertex %d: backup stack is empty", v.id))
	}

	return v.backup[len(v.backup)-1]
}

// VectorVertex is a ready-made Euclidean vertex: Oplus adds the update
// component-wise.
type VectorVertex struct {
	*BaseVertex
}

// NewVectorVertex returns a Euclidean vertex with a zero estimate.
func NewVectorVertex(id, dim int) *VectorVertex {
	return &VectorVertex{BaseVertex: NewBaseVertex(id, dim)}
}

// Oplus adds update to the estimate.
func (v *VectorVertex) Oplus(update []float64) {
	est := v.Data()
	for i := range est {
		est[i] += update[i]
	}
}
