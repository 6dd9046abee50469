package optim_test

import (
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/curvefit/optim"
)

// lineEdge measures y = m·x + c on a 2-D vertex (m, c), numeric Jacobian.
type lineEdge struct {
	*optim.BaseEdge[[2]float64]
}

func newLineEdge(v optim.Vertex, x, y float64) *lineEdge {
	e := &lineEdge{BaseEdge: optim.NewBaseEdge[[2]float64](1, v)}
	e.SetMeasurement([2]float64{x, y})

	return e
}

func (e *lineEdge) ComputeError() []float64 {
	est := e.Vertex(0).Estimate()
	m := e.Measurement()

	return []float64{est[0]*m[0] + est[1] - m[1]}
}

// analyticLineEdge adds the closed-form Jacobian [x, 1].
type analyticLineEdge struct {
	*lineEdge
}

func newAnalyticLineEdge(v optim.Vertex, x, y float64) *analyticLineEdge {
	return &analyticLineEdge{lineEdge: newLineEdge(v, x, y)}
}

func (e *analyticLineEdge) Jacobians() []*mat.Dense {
	m := e.Measurement()

	return []*mat.Dense{mat.NewDense(1, 2, []float64{m[0], 1})}
}

// diffEdge measures to − from on two 1-D vertices.
type diffEdge struct {
	*optim.BaseEdge[float64]
}

func newDiffEdge(from, to optim.Vertex, d float64) *diffEdge {
	e := &diffEdge{BaseEdge: optim.NewBaseEdge[float64](1, from, to)}
	e.SetMeasurement(d)

	return e
}

func (e *diffEdge) ComputeError() []float64 {
	from := e.Vertex(0).Estimate()[0]
	to := e.Vertex(1).Estimate()[0]

	return []float64{to - from - e.Measurement()}
}

// lineProblem builds a 2-D vertex at (0, 0) and one edge per x in xs
// sampled from y = m·x + c. Pass analytic to use closed-form Jacobians.
func lineProblem(opt *optim.Optimizer, m, c float64, xs []float64, analytic bool) (*optim.VectorVertex, error) {
	v := optim.NewVectorVertex(0, 2)
	if err := opt.AddVertex(v); err != nil {
		return nil, err
	}
	for _, x := range xs {
		var e optim.Edge
		if analytic {
			e = newAnalyticLineEdge(v, x, m*x+c)
		} else {
			e = newLineEdge(v, x, m*x+c)
		}
		if err := opt.AddEdge(e); err != nil {
			return nil, err
		}
	}

	return v, nil
}

func rangeXs(n int) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = float64(i)
	}

	return xs
}
