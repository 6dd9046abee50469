package curve

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrBadCount indicates a non-positive sample count.
	ErrBadCount = errors.New("curve: sample count must be > 0")

	// ErrBadLine indicates a point file line that is not two finite floats.
	ErrBadLine = errors.New("curve: malformed point line")

	// ErrNilSampler indicates Generate was called without a sampler.
	ErrNilSampler = errors.New("curve: sampler is nil")
)

// Point is one observation (x, y).
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Params holds the three unknowns of y = A·exp(−Lambda·x) + B.
type Params struct {
	A      float64 `json:"a"`
	B      float64 `json:"b"`
	Lambda float64 `json:"lambda"`
}

// DefaultTruth is the ground truth used when no WithTruth option is given.
var DefaultTruth = Params{A: 2, B: 0.4, Lambda: 0.2}

// Eval returns A·exp(−Lambda·x) + B.
func (p Params) Eval(x float64) float64 {
	return p.A*math.Exp(-p.Lambda*x) + p.B
}

// Gradient returns the partial derivatives of Eval at x with respect to
// (A, B, Lambda), in that order.
func (p Params) Gradient(x float64) [3]float64 {
	e := math.Exp(-p.Lambda * x)

	return [3]float64{e, 1, -p.A * x * e}
}

// Vector returns the parameters as (A, B, Lambda).
func (p Params) Vector() []float64 {
	return []float64{p.A, p.B, p.Lambda}
}

// ParamsFromVector is the inverse of Params.Vector.
// It panics if v has fewer than three elements.
func ParamsFromVector(v []float64) Params {
	return Params{A: v[0], B: v[1], Lambda: v[2]}
}

// String formats the parameters for logs.
func (p Params) String() string {
	return fmt.Sprintf("a=%g b=%g lambda=%g", p.A, p.B, p.Lambda)
}
