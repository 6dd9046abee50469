// SPDX-License-Identifier: MIT
// Package optim: sentinel error set.
// Every message is prefixed with "optim: ..." for easy grepping. Facades wrap
// sentinels as "<Op>: <sentinel>" via optimErrorf; callers match with errors.Is.

package optim

import (
	"errors"
	"fmt"
)

var (
	// ErrNilVertex indicates a nil Vertex passed to AddVertex or an edge.
	ErrNilVertex = errors.New("optim: vertex is nil")

	// ErrNilEdge indicates a nil Edge passed to AddEdge.
	ErrNilEdge = errors.New("optim: edge is nil")

	// ErrDuplicateVertex indicates a vertex id already present in the graph.
	ErrDuplicateVertex = errors.New("optim: duplicate vertex id")

	// ErrUnknownVertex indicates an edge referencing a vertex not in the graph.
	ErrUnknownVertex = errors.New("optim: unknown vertex")

	// ErrBadDimension indicates a non-positive or mismatched block dimension.
	ErrBadDimension = errors.New("optim: dimension mismatch")

	// ErrNoVertices indicates InitializeOptimization on an empty graph.
	ErrNoVertices = errors.New("optim: graph has no vertices")

	// ErrNoEdges indicates InitializeOptimization without measurements.
	ErrNoEdges = errors.New("optim: graph has no edges")

	// ErrNoActiveVertices indicates every vertex is fixed or unconstrained.
	ErrNoActiveVertices = errors.New("optim: no active vertices")

	// ErrNotInitialized indicates Optimize before InitializeOptimization, or
	// after the graph changed.
	ErrNotInitialized = errors.New("optim: optimization not initialized")

	// ErrNoAlgorithm indicates Optimize without an algorithm.
	ErrNoAlgorithm = errors.New("optim: no algorithm set")

	// ErrBadIterations indicates a non-positive iteration budget.
	ErrBadIterations = errors.New("optim: iterations must be > 0")

	// ErrSingular indicates the (damped) normal equations are not positive definite.
	ErrSingular = errors.New("optim: linear system is singular")

	// ErrSolveFailed indicates an algorithm gave up on an iteration.
	ErrSolveFailed = errors.New("optim: algorithm failed")

	// ErrUnknownAlgorithm indicates a name missing from the Factory.
	ErrUnknownAlgorithm = errors.New("optim: unknown algorithm")

	// ErrDuplicateAlgorithm indicates a name registered twice in a Factory.
	ErrDuplicateAlgorithm = errors.New("optim: algorithm already registered")

	// ErrUnknownKernel indicates an unrecognised robust kernel name.
	ErrUnknownKernel = errors.New("optim: unknown robust kernel")

	// ErrBadKernelDelta indicates a robust kernel width <= 0.
	ErrBadKernelDelta = errors.New("optim: robust kernel delta must be > 0")

	// ErrNaNInf indicates a NaN or ±Inf residual or estimate.
	ErrNaNInf = errors.New("optim: NaN or Inf encountered")
)

// Operation tags for wrapped errors.
const (
	opAddVertex  = "AddVertex"
	opAddEdge    = "AddEdge"
	opInitialize = "InitializeOptimization"
	opOptimize   = "Optimize"
	opConstruct  = "Construct"
	opRegister   = "Register"
	opLinearize  = "Linearize"
	opSolve      = "Solve"
)

// optimErrorf wraps err with an operation tag, preserving it for errors.Is.
// Callers must only pass a non-nil err.
func optimErrorf(tag string, err error) error {
	return fmt.Errorf("%s: %w", tag, err)
}
