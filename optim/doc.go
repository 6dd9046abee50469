// Package optim is a compact graph-based nonlinear least-squares engine.
//
// 🚀 What is it?
//
//	A problem is a graph: vertices carry the unknowns (each a small
//	parameter block with an update rule), edges carry measurements and
//	compute a residual vector from the vertices they touch. The engine
//	minimizes
//
//	    χ² = Σ_e ρ( e_eᵀ · Ω_e · e_e )
//
//	over all vertex estimates, where Ω_e is the edge information matrix and
//	ρ an optional robust kernel.
//
// ✨ Key features:
//   - Vertex / Edge extension contract; embed BaseVertex and BaseEdge[M]
//   - analytic Jacobians via the Linearizer interface, otherwise central
//     differences around the current estimate
//   - dense normal equations solved by Cholesky (gonum/mat)
//   - Gauss–Newton and Levenberg–Marquardt, selectable by name via Factory
//   - Huber and Cauchy robust kernels
//   - per-iteration statistics and verbose tracing
//
// ⚙️ Usage:
//
//	opt := optim.New(optim.WithAlgorithm(optim.NewLevenbergMarquardt()))
//	_ = opt.AddVertex(v)
//	_ = opt.AddEdge(e)
//	if err := opt.InitializeOptimization(); err != nil { ... }
//	n, err := opt.Optimize(ctx, 10)
//
// Concurrency:
//
//	An Optimizer is NOT goroutine-safe: vertices are mutated in place while
//	Optimize runs. Factory is safe for concurrent use.
//
// Topology:
//
//	The vertex/edge incidence is kept in a gonum undirected graph (a factor
//	graph: one node per vertex, one per edge). InitializeOptimization uses it
//	to activate only vertices that are constrained by at least one edge.
package optim
