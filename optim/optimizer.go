// SPDX-License-Identifier: MIT
//
// File: optimizer.go
// Role: Problem catalog (vertices, edges, factor-graph topology) and the
//       Optimize driver loop.
// Policy:
//   - Mutations after InitializeOptimization clear the initialized flag.
//   - Optimize never leaves a backup stack unbalanced.

package optim

import (
	"context"
	"fmt"
	"io"
	"math"
	"sort"
	"time"

	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/mat"
	"k8s.io/klog/v2"
)

// Optimizer owns an optimization graph and drives an Algorithm over it.
type Optimizer struct {
	vertices map[int]Vertex
	edges    []Edge

	// topo is the factor graph: vertex nodes and edge nodes, linked by
	// incidence. nodeOf maps vertex ids to their topo node ids.
	topo   *simple.UndirectedGraph
	nodeOf map[int]int64

	active      []Vertex
	offsets     map[int]int
	dim         int
	initialized bool

	algorithm Algorithm
	verbose   io.Writer
	chi2Tol   float64
	logger    klog.Logger
	stats     []IterationStats
}

// New creates an empty Optimizer and applies opts left to right.
//
// Complexity: O(len(opts)).
func New(opts ...Option) *Optimizer {
	o := &Optimizer{
		vertices: make(map[int]Vertex),
		topo:     simple.NewUndirectedGraph(),
		nodeOf:   make(map[int]int64),
		offsets:  make(map[int]int),
		logger:   klog.Background(),
	}
	for _, opt := range opts {
		opt(o)
	}

	return o
}

// AddVertex registers v under v.ID().
//
// Errors:
//   - ErrNilVertex       if v is nil.
//   - ErrBadDimension    if v.Dimension() <= 0.
//   - ErrDuplicateVertex if the id is taken.
//
// Complexity: O(1) amortized.
func (o *Optimizer) AddVertex(v Vertex) error {
	if v == nil {
		return optimErrorf(opAddVertex, ErrNilVertex)
	}
	if v.Dimension() <= 0 {
		return optimErrorf(opAddVertex, ErrBadDimension)
	}
	if _, dup := o.vertices[v.ID()]; dup {
		return optimErrorf(opAddVertex, fmt.Errorf("%w: %d", ErrDuplicateVertex, v.ID()))
	}

	node := o.topo.NewNode()
	o.topo.AddNode(node)
	o.nodeOf[v.ID()] = node.ID()
	o.vertices[v.ID()] = v
	o.initialized = false

	return nil
}

// AddEdge registers e. Every vertex of e must already be in the graph (the
// very same instance).
//
// Errors:
//   - ErrNilEdge       if e is nil.
//   - ErrNilVertex     if e references a nil vertex.
//   - ErrUnknownVertex if a vertex is not registered.
//   - ErrBadDimension  if e.Dimension() <= 0, e has no vertices, or Ω has
//     the wrong shape.
//
// Complexity: O(len(e.Vertices())).
func (o *Optimizer) AddEdge(e Edge) error {
	if e == nil {
		return optimErrorf(opAddEdge, ErrNilEdge)
	}
	if e.Dimension() <= 0 || len(e.Vertices()) == 0 {
		return optimErrorf(opAddEdge, ErrBadDimension)
	}
	if info := e.Information(); info == nil || info.SymmetricDim() != e.Dimension() {
		return optimErrorf(opAddEdge, ErrBadDimension)
	}
	for _, v := range e.Vertices() {
		if v == nil {
			return optimErrorf(opAddEdge, ErrNilVertex)
		}
		if got, ok := o.vertices[v.ID()]; !ok || got != v {
			return optimErrorf(opAddEdge, fmt.Errorf("%w: %d", ErrUnknownVertex, v.ID()))
		}
	}

	node := o.topo.NewNode()
	o.topo.AddNode(node)
	for _, v := range e.Vertices() {
		o.topo.SetEdge(o.topo.NewEdge(node, o.topo.Node(o.nodeOf[v.ID()])))
	}
	o.edges = append(o.edges, e)
	o.initialized = false

	return nil
}

// Vertex returns the vertex with the given id, or nil.
func (o *Optimizer) Vertex(id int) Vertex {
	return o.vertices[id]
}

// Vertices returns all vertices sorted by id.
func (o *Optimizer) Vertices() []Vertex {
	ids := o.sortedIDs()
	out := make([]Vertex, len(ids))
	for i, id := range ids {
		out[i] = o.vertices[id]
	}

	return out
}

// Edges returns the edges in insertion order.
func (o *Optimizer) Edges() []Edge {
	out := make([]Edge, len(o.edges))
	copy(out, o.edges)

	return out
}

// ActiveVertices returns the vertices selected by the last
// InitializeOptimization, in Hessian order.
func (o *Optimizer) ActiveVertices() []Vertex {
	out := make([]Vertex, len(o.active))
	copy(out, o.active)

	return out
}

// Dimension returns the size of the linear system (sum of active dimensions).
func (o *Optimizer) Dimension() int { return o.dim }

// Algorithm returns the configured algorithm, or nil.
func (o *Optimizer) Algorithm() Algorithm { return o.algorithm }

// SetAlgorithm replaces the algorithm.
func (o *Optimizer) SetAlgorithm(a Algorithm) { o.algorithm = a }

// SetVerbose enables (non-nil w) or disables per-iteration tracing.
func (o *Optimizer) SetVerbose(w io.Writer) { o.verbose = w }

// Stats returns the statistics of the last Optimize call.
func (o *Optimizer) Stats() []IterationStats {
	out := make([]IterationStats, len(o.stats))
	copy(out, o.stats)

	return out
}

// InitializeOptimization selects the active vertices and lays out the
// linear system.
//
// Implementation:
//   - Stage 1: reject empty graphs.
//   - Stage 2: walk vertices in id order; a vertex is active iff it is not
//     fixed and has at least one incident edge node in the factor graph.
//   - Stage 3: assign contiguous Hessian offsets in that order.
//
// Errors:
//   - ErrNoVertices, ErrNoEdges, ErrNoActiveVertices.
//
// Complexity: O(V log V + V).
func (o *Optimizer) InitializeOptimization() error {
	if len(o.vertices) == 0 {
		return optimErrorf(opInitialize, ErrNoVertices)
	}
	if len(o.edges) == 0 {
		return optimErrorf(opInitialize, ErrNoEdges)
	}

	o.active = o.active[:0]
	o.offsets = make(map[int]int, len(o.vertices))
	o.dim = 0
	for _, id := range o.sortedIDs() {
		v := o.vertices[id]
		if v.Fixed() {
			continue
		}
		if o.topo.From(o.nodeOf[id]).Len() == 0 {
			o.logger.V(4).Info("Skipping unconstrained vertex", "vertex", id)
			continue
		}
		o.offsets[id] = o.dim
		o.dim += v.Dimension()
		o.active = append(o.active, v)
	}
	if len(o.active) == 0 {
		return optimErrorf(opInitialize, ErrNoActiveVertices)
	}
	o.initialized = true
	o.logger.V(2).Info("Initialized optimization",
		"vertices", len(o.vertices), "active", len(o.active), "edges", len(o.edges), "dimension", o.dim)

	return nil
}

// Optimize runs at most iterations steps of the configured algorithm and
// returns how many were performed.
//
// Behavior highlights:
//   - Stops early when the algorithm reports Terminate, when an iteration
//     changes χ² by at most tol·max(χ², 1) (WithChi2Tolerance), or when ctx
//     is cancelled (the context error is returned, wrapped).
//   - A Fail result ends the run with the algorithm's error, or
//     ErrSolveFailed when it gave none.
//   - Each iteration appends an IterationStats and, when verbose, prints it.
//
// Errors:
//   - ErrBadIterations, ErrNotInitialized, ErrNoAlgorithm before any work.
//
// Complexity: iterations × cost(Algorithm.Solve).
func (o *Optimizer) Optimize(ctx context.Context, iterations int) (int, error) {
	if iterations <= 0 {
		return 0, optimErrorf(opOptimize, ErrBadIterations)
	}
	if !o.initialized {
		return 0, optimErrorf(opOptimize, ErrNotInitialized)
	}
	if o.algorithm == nil {
		return 0, optimErrorf(opOptimize, ErrNoAlgorithm)
	}
	if err := o.algorithm.Init(o); err != nil {
		return 0, optimErrorf(opOptimize, err)
	}

	o.stats = o.stats[:0]
	prev := o.Chi2()
	var cum time.Duration
	performed := 0
	for i := 0; i < iterations; i++ {
		if err := ctx.Err(); err != nil {
			return performed, optimErrorf(opOptimize, err)
		}

		start := time.Now()
		res, err := o.algorithm.Solve(ctx, i)
		elapsed := time.Since(start)
		cum += elapsed
		performed++

		cur := o.Chi2()
		o.record(i, cur, elapsed, cum)

		if err != nil {
			return performed, optimErrorf(opOptimize, err)
		}
		switch res {
		case Fail:
			return performed, optimErrorf(opOptimize, ErrSolveFailed)
		case Terminate:
			o.logger.V(2).Info("Algorithm terminated", "iteration", i, "chi2", cur)
			return performed, nil
		}
		if o.chi2Tol > 0 && math.Abs(prev-cur) <= o.chi2Tol*math.Max(prev, 1) {
			o.logger.V(2).Info("Converged", "iteration", i, "chi2", cur)
			return performed, nil
		}
		prev = cur
	}

	return performed, nil
}

func (o *Optimizer) record(iteration int, chi float64, elapsed, cum time.Duration) {
	st := IterationStats{
		Iteration: iteration,
		Chi2:      chi,
		Time:      elapsed,
		CumTime:   cum,
		Edges:     len(o.edges),
	}
	if d, ok := o.algorithm.(Damped); ok {
		st.Damped = true
		st.Lambda = d.Lambda()
		st.LevenbergIterations = d.LevenbergIterations()
	}
	o.stats = append(o.stats, st)

	if o.verbose != nil {
		_, _ = st.WriteTo(o.verbose)
	}
	o.logger.V(4).Info("Iteration done", "iteration", iteration, "chi2", chi, "elapsed", elapsed)
}

// Chi2 returns Σ ρ(eᵀΩe) over all edges at the current estimates.
// Any non-finite residual makes the result +Inf.
//
// Complexity: O(E · cost(ComputeError)).
func (o *Optimizer) Chi2() float64 {
	var sum float64
	for _, e := range o.edges {
		res := e.ComputeError()
		if !finite(res) {
			return math.Inf(1)
		}
		c := chi2(res, e.Information())
		if k := e.RobustKernel(); k != nil {
			c = k.Robustify(c)[0]
		}
		sum += c
	}

	return sum
}

// BuildSystem linearizes every edge at the current estimates and assembles
// the dense normal equations H·Δx = b over the active vertices:
//
//	H = Σ_e Jᵀ W J,   b = −Σ_e Jᵀ W e,   W = ρ'(eᵀΩe)·Ω
//
// Intended for Algorithm implementations.
//
// Errors:
//   - ErrNotInitialized before InitializeOptimization.
//   - ErrNaNInf for non-finite residuals.
//   - ErrBadDimension for Jacobian blocks of the wrong shape.
//
// Complexity: O(E · (d_e · D² + D²)) with D the largest vertex dimension.
func (o *Optimizer) BuildSystem() (*mat.SymDense, *mat.VecDense, error) {
	if !o.initialized {
		return nil, nil, optimErrorf(opLinearize, ErrNotInitialized)
	}
	n := o.dim
	h := mat.NewDense(n, n, nil)
	b := mat.NewVecDense(n, nil)

	for _, e := range o.edges {
		res := e.ComputeError()
		if len(res) != e.Dimension() {
			return nil, nil, optimErrorf(opLinearize, ErrBadDimension)
		}
		if !finite(res) {
			return nil, nil, optimErrorf(opLinearize, ErrNaNInf)
		}
		omega := weightedInformation(e, res)
		var we mat.VecDense
		we.MulVec(omega, mat.NewVecDense(len(res), res))

		vs := e.Vertices()
		jacs := jacobians(e)
		if len(jacs) != len(vs) {
			return nil, nil, optimErrorf(opLinearize, ErrBadDimension)
		}
		for k, vk := range vs {
			ok, active := o.offsets[vk.ID()]
			if !active || vk.Fixed() {
				continue
			}
			jk := jacs[k]
			if jk == nil {
				return nil, nil, optimErrorf(opLinearize, ErrBadDimension)
			}
			if r, c := jk.Dims(); r != e.Dimension() || c != vk.Dimension() {
				return nil, nil, optimErrorf(opLinearize, ErrBadDimension)
			}

			var g mat.VecDense
			g.MulVec(jk.T(), &we)
			for r := 0; r < g.Len(); r++ {
				b.SetVec(ok+r, b.AtVec(ok+r)-g.AtVec(r))
			}

			var jtw mat.Dense
			jtw.Mul(jk.T(), omega)
			for l, vl := range vs {
				ol, activeL := o.offsets[vl.ID()]
				if !activeL || vl.Fixed() || jacs[l] == nil {
					continue
				}
				var blk mat.Dense
				blk.Mul(&jtw, jacs[l])
				rows, cols := blk.Dims()
				for r := 0; r < rows; r++ {
					for c := 0; c < cols; c++ {
						h.Set(ok+r, ol+c, h.At(ok+r, ol+c)+blk.At(r, c))
					}
				}
			}
		}
	}

	return mat.NewSymDense(n, h.RawMatrix().Data), b, nil
}

// Update applies the stacked step dx to the active vertices via Oplus.
// Panics if dx.Len() != Dimension() (programmer error).
func (o *Optimizer) Update(dx *mat.VecDense) {
	if dx.Len() != o.dim {
		panic(fmt.Sprintf("optim: Update: step has %d entries, system has %d", dx.Len(), o.dim))
	}
	for _, v := range o.active {
		off := o.offsets[v.ID()]
		step := make([]float64, v.Dimension())
		for i := range step {
			step[i] = dx.AtVec(off + i)
		}
		v.Oplus(step)
	}
}

// Push backs up every active vertex.
func (o *Optimizer) Push() {
	for _, v := range o.active {
		v.Push()
	}
}

// Pop restores every active vertex from its backup.
func (o *Optimizer) Pop() {
	for _, v := range o.active {
		v.Pop()
	}
}

// DiscardTop drops the latest backup of every active vertex.
func (o *Optimizer) DiscardTop() {
	for _, v := range o.active {
		v.DiscardTop()
	}
}

func (o *Optimizer) sortedIDs() []int {
	ids := make([]int, 0, len(o.vertices))
	for id := range o.vertices {
		ids = append(ids, id)
	}
	sort.Ints(ids)

	return ids
}

// weightedInformation returns ρ'(eᵀΩe)·Ω, or Ω when e has no kernel.
func weightedInformation(e Edge, res []float64) *mat.SymDense {
	omega := e.Information()
	k := e.RobustKernel()
	if k == nil {
		return omega
	}
	rho := k.Robustify(chi2(res, omega))
	var w mat.SymDense
	w.ScaleSym(rho[1], omega)

	return &w
}

func finite(v []float64) bool {
	for _, x := range v {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return false
		}
	}

	return true
}
