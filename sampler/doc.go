// Package sampler provides the seeded random draws used to synthesize
// curve-fitting datasets.
//
// A Sampler owns a single PCG stream and exposes the two draws a dataset
// generator needs:
//   - UniformRand(lo, hi): abscissae spread over an interval
//   - GaussRand(mean, sigma): additive measurement noise
//
// Determinism:
//
//	Two samplers built with the same seed produce identical sequences.
//	Seed 0 is not "random": it maps to a fixed default seed so that the
//	zero value of a configuration stays reproducible. Use NewTimeSeeded
//	when a fresh stream per run is wanted, and report Seed() so the run
//	can be replayed.
//
// Concurrency:
//
//	A Sampler is NOT goroutine-safe. Give each goroutine its own instance.
//
// Usage:
//
//	s := sampler.New(42)
//	x := s.UniformRand(0, 10)
//	noise := s.GaussRand(0, 0.02)
package sampler
