// Package curvefit recovers the parameters of an exponential decay curve
//
//	y = a·exp(−λ·x) + b
//
// from noisy samples, by iterative nonlinear least squares over a small
// graph-optimization engine.
//
// 🚀 What is inside?
//
//	• sampler/  deterministic uniform and Gaussian draws (gonum distuv)
//	• curve/    the model, sample generation, point files and digests
//	• codec/    gzip, zstd and lz4 point-file compression by extension
//	• optim/    vertices, edges, robust kernels, Gauss–Newton and
//	            Levenberg–Marquardt on dense normal equations (gonum mat)
//	• fit/      the curve problem wired onto optim
//	• cli/      the cobra command (flags, CURVEFIT_* environment, output)
//
// ✨ Quick start:
//
//	go run ./cmd/curvefit --seed 42 -o json
//
// or from Go:
//
//	pts, _ := curve.Generate(sampler.New(42), 50)
//	res, _ := fit.Run(ctx, pts, fit.DefaultConfig())
//	fmt.Println(res.Params) // a≈2 b≈0.4 lambda≈0.2
//
// 🧮 How the fit works:
//
// One 3-D vertex holds (a, b, λ), starting at (1, 1, 1). Every sample adds a
// unary edge whose residual is a·exp(−λx) + b − y. Each iteration linearizes
// the edges, builds H = ΣJᵀΩJ and b = −ΣJᵀΩe, solves the damped system with
// a Cholesky factorization and applies the step, rejecting steps that do not
// reduce χ².
package curvefit
