package curve

import (
	"github.com/katalvlaran/curvefit/sampler"
)

// Generate draws n independent samples from the configured curve.
//
// For every sample:
//
//	x = U[xMin, xMax)
//	y = truth.Eval(x) + N(0, σ²)
//
// Draw order is x then noise, per sample, so a given seed always yields the
// same dataset.
//
// Errors:
//   - ErrNilSampler if s is nil.
//   - ErrBadCount   if n <= 0.
//
// Complexity: O(n) time, O(n) space.
func Generate(s *sampler.Sampler, n int, opts ...GenerateOption) ([]Point, error) {
	if s == nil {
		return nil, ErrNilSampler
	}
	if n <= 0 {
		return nil, ErrBadCount
	}
	cfg := newGenerateConfig(opts...)

	pts := make([]Point, n)
	for i := range pts {
		x := s.UniformRand(cfg.xMin, cfg.xMax)
		y := cfg.truth.Eval(x)
		y += s.GaussRand(0, cfg.sigma)
		pts[i] = Point{X: x, Y: y}
	}

	return pts, nil
}
