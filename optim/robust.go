package optim

import (
	"fmt"
	"math"
	"strings"
)

// RobustKernel reshapes the squared error of an edge to limit the influence
// of outliers.
//
// Robustify receives e2 = eᵀΩe ≥ 0 and returns (ρ(e2), ρ'(e2), ρ''(e2)).
// The engine uses ρ for χ² and ρ' as the per-edge weight (iteratively
// reweighted least squares).
type RobustKernel interface {
	Name() string
	Delta() float64
	Robustify(e2 float64) [3]float64
}

// Huber is quadratic up to |e| = delta and linear beyond.
type Huber struct {
	delta float64
}

// NewHuber returns a Huber kernel. Panics if delta <= 0.
func NewHuber(delta float64) *Huber {
	if delta <= 0 {
		panic("optim: NewHuber(delta<=0)")
	}

	return &Huber{delta: delta}
}

// Name returns "huber".
func (k *Huber) Name() string { return "huber" }

// Delta returns the kernel width.
func (k *Huber) Delta() float64 { return k.delta }

// Robustify implements RobustKernel.
func (k *Huber) Robustify(e2 float64) [3]float64 {
	dsqr := k.delta * k.delta
	if e2 <= dsqr {
		return [3]float64{e2, 1, 0}
	}
	sqrte := math.Sqrt(e2)
	rho1 := k.delta / sqrte

	return [3]float64{2*sqrte*k.delta - dsqr, rho1, -0.5 * rho1 / e2}
}

// Cauchy grows logarithmically, strongly down-weighting large residuals.
type Cauchy struct {
	delta float64
}

// NewCauchy returns a Cauchy kernel. Panics if delta <= 0.
func NewCauchy(delta float64) *Cauchy {
	if delta <= 0 {
		panic("optim: NewCauchy(delta<=0)")
	}

	return &Cauchy{delta: delta}
}

// Name returns "cauchy".
func (k *Cauchy) Name() string { return "cauchy" }

// Delta returns the kernel width.
func (k *Cauchy) Delta() float64 { return k.delta }

// Robustify implements RobustKernel.
func (k *Cauchy) Robustify(e2 float64) [3]float64 {
	dsqr := k.delta * k.delta
	dsqrReci := 1 / dsqr
	aux := dsqrReci*e2 + 1
	rho1 := 1 / aux

	return [3]float64{dsqr * math.Log(aux), rho1, -dsqrReci * rho1 * rho1}
}

// KernelByName builds a kernel from its name ("huber", "cauchy").
// "" and "none" yield a nil kernel. Unknown names return ErrUnknownKernel;
// a non-positive delta for a real kernel returns ErrBadKernelDelta.
func KernelByName(name string, delta float64) (RobustKernel, error) {
	switch strings.ToLower(name) {
	case "", "none":
		return nil, nil
	case "huber":
		if delta <= 0 {
			return nil, fmt.Errorf("%w: got %g", ErrBadKernelDelta, delta)
		}
		return NewHuber(delta), nil
	case "cauchy":
		if delta <= 0 {
			return nil, fmt.Errorf("%w: got %g", ErrBadKernelDelta, delta)
		}
		return NewCauchy(delta), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownKernel, name)
	}
}
