// Package curve models the exponential decay curve
//
//	y = a · exp(−λ · x) + b
//
// and synthesizes noisy datasets from it.
//
// ✨ Key features:
//   - Params.Eval / Params.Gradient: closed-form model and its partials
//   - Generate: N independent samples: x ~ U[XMin, XMax), y = f(x) + N(0, σ²)
//   - WritePoints / ReadPoints: one "x y" pair per line
//   - DumpFile / LoadFile: the same, compressed by file extension (see codec)
//   - Digest: stable 64-bit fingerprint of a dataset
//
// ⚙️ Usage:
//
//	s := sampler.New(42)
//	pts, err := curve.Generate(s, 50, curve.WithNoise(0.02))
//	if err != nil {
//	  // handle ErrBadCount
//	}
//	err = curve.DumpFile("points.txt", pts)
//
// Defaults mirror the classic demonstration: ground truth (a, b, λ) =
// (2, 0.4, 0.2), x in [0, 10), σ = 0.02.
package curve
