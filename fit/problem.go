package fit

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/curvefit/curve"
	"github.com/katalvlaran/curvefit/optim"
)

// VertexParams is the 3-D parameter block (a, b, λ).
type VertexParams struct {
	*optim.BaseVertex
}

// NewVertexParams returns a parameter vertex with a zero estimate.
func NewVertexParams(id int) *VertexParams {
	return &VertexParams{BaseVertex: optim.NewBaseVertex(id, 3)}
}

// Oplus adds the update: x ← x + Δx.
func (v *VertexParams) Oplus(update []float64) {
	est := v.Data()
	est[0] += update[0]
	est[1] += update[1]
	est[2] += update[2]
}

// Params returns the estimate as curve parameters.
func (v *VertexParams) Params() curve.Params {
	return curve.ParamsFromVector(v.Data())
}

// SetParams overwrites the estimate.
func (v *VertexParams) SetParams(p curve.Params) {
	_ = v.SetEstimate(p.Vector())
}

// EdgePointOnCurve is the unary measurement "this point lies on the curve".
// It supplies the analytic Jacobian [exp(−λx), 1, −a·x·exp(−λx)].
type EdgePointOnCurve struct {
	*optim.BaseEdge[curve.Point]
	params *VertexParams
}

// NewEdgePointOnCurve connects a measured point to the parameter vertex.
func NewEdgePointOnCurve(v *VertexParams, p curve.Point) *EdgePointOnCurve {
	e := &EdgePointOnCurve{
		BaseEdge: optim.NewBaseEdge[curve.Point](1, v),
		params:   v,
	}
	e.SetMeasurement(p)

	return e
}

// ComputeError returns a·exp(−λx) + b − y.
func (e *EdgePointOnCurve) ComputeError() []float64 {
	return pointError(e.params, e.Measurement())
}

// Jacobians implements optim.Linearizer.
func (e *EdgePointOnCurve) Jacobians() []*mat.Dense {
	g := e.params.Params().Gradient(e.Measurement().X)

	return []*mat.Dense{mat.NewDense(1, 3, g[:])}
}

// NumericEdgePointOnCurve has the same residual as EdgePointOnCurve but is
// linearized by the engine's central differences.
type NumericEdgePointOnCurve struct {
	*optim.BaseEdge[curve.Point]
	params *VertexParams
}

// NewNumericEdgePointOnCurve connects a measured point to the parameter vertex.
func NewNumericEdgePointOnCurve(v *VertexParams, p curve.Point) *NumericEdgePointOnCurve {
	e := &NumericEdgePointOnCurve{
		BaseEdge: optim.NewBaseEdge[curve.Point](1, v),
		params:   v,
	}
	e.SetMeasurement(p)

	return e
}

// ComputeError returns a·exp(−λx) + b − y.
func (e *NumericEdgePointOnCurve) ComputeError() []float64 {
	return pointError(e.params, e.Measurement())
}

func pointError(v *VertexParams, m curve.Point) []float64 {
	return []float64{v.Params().Eval(m.X) - m.Y}
}
