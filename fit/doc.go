// Package fit recovers the parameters of y = a·exp(−λ·x) + b from samples
// by nonlinear least squares on the optim engine.
//
// The problem graph is:
//   - one VertexParams (id 0) holding (a, b, λ), additive update,
//     initial estimate (1, 1, 1);
//   - one EdgePointOnCurve per sample, residual a·exp(−λ·x) + b − y,
//     identity information.
//
// Run wires the graph, initializes, optimizes and reports a Result:
//
//	pts, _ := curve.Generate(sampler.New(42), 50)
//	res, err := fit.Run(ctx, pts, fit.DefaultConfig())
//	fmt.Println(res.Params)
package fit
