package optim_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"

	"github.com/katalvlaran/curvefit/optim"
)

// TestAddVertex_Errors covers nil and duplicate registrations.
func TestAddVertex_Errors(t *testing.T) {
	opt := optim.New()

	assert.ErrorIs(t, opt.AddVertex(nil), optim.ErrNilVertex)

	require.NoError(t, opt.AddVertex(optim.NewVectorVertex(7, 3)))
	assert.ErrorIs(t, opt.AddVertex(optim.NewVectorVertex(7, 1)), optim.ErrDuplicateVertex)
	assert.NotNil(t, opt.Vertex(7))
	assert.Nil(t, opt.Vertex(8))
}

// TestAddEdge_Errors covers nil edges, foreign vertices and bad information.
func TestAddEdge_Errors(t *testing.T) {
	opt := optim.New()
	v := optim.NewVectorVertex(0, 2)
	require.NoError(t, opt.AddVertex(v))

	assert.ErrorIs(t, opt.AddEdge(nil), optim.ErrNilEdge)

	impostor := optim.NewVectorVertex(0, 2)
	assert.ErrorIs(t, opt.AddEdge(newLineEdge(impostor, 1, 1)), optim.ErrUnknownVertex)

	stranger := optim.NewVectorVertex(99, 2)
	assert.ErrorIs(t, opt.AddEdge(newLineEdge(stranger, 1, 1)), optim.ErrUnknownVertex)

	e := newLineEdge(v, 1, 1)
	assert.ErrorIs(t, e.SetInformation(mat.NewSymDense(2, nil)), optim.ErrBadDimension)
	assert.ErrorIs(t, e.SetInformation(nil), optim.ErrBadDimension)
	require.NoError(t, opt.AddEdge(e))
	assert.Len(t, opt.Edges(), 1)
}

// TestInitializeOptimization_Errors covers empty, edgeless and all-fixed graphs.
func TestInitializeOptimization_Errors(t *testing.T) {
	opt := optim.New()
	assert.ErrorIs(t, opt.InitializeOptimization(), optim.ErrNoVertices)

	v := optim.NewVectorVertex(0, 2)
	require.NoError(t, opt.AddVertex(v))
	assert.ErrorIs(t, opt.InitializeOptimization(), optim.ErrNoEdges)

	require.NoError(t, opt.AddEdge(newLineEdge(v, 1, 2)))
	v.SetFixed(true)
	assert.ErrorIs(t, opt.InitializeOptimization(), optim.ErrNoActiveVertices)

	v.SetFixed(false)
	require.NoError(t, opt.InitializeOptimization())
	assert.Equal(t, 2, opt.Dimension())
}

// TestInitializeOptimization_SkipsUnconstrained leaves edge-free vertices out.
func TestInitializeOptimization_SkipsUnconstrained(t *testing.T) {
	opt := optim.New()
	_, err := lineProblem(opt, 1, 0, rangeXs(3), true)
	require.NoError(t, err)
	require.NoError(t, opt.AddVertex(optim.NewVectorVertex(5, 4)))

	require.NoError(t, opt.InitializeOptimization())
	active := opt.ActiveVertices()
	require.Len(t, active, 1)
	assert.Equal(t, 0, active[0].ID())
	assert.Equal(t, 2, opt.Dimension())
	assert.Len(t, opt.Vertices(), 2)
}

// TestOptimize_Preconditions checks the guards before any work happens.
func TestOptimize_Preconditions(t *testing.T) {
	ctx := context.Background()
	opt := optim.New()
	_, err := lineProblem(opt, 1, 0, rangeXs(3), true)
	require.NoError(t, err)

	_, err = opt.Optimize(ctx, 0)
	assert.ErrorIs(t, err, optim.ErrBadIterations)

	_, err = opt.Optimize(ctx, 5)
	assert.ErrorIs(t, err, optim.ErrNotInitialized)

	require.NoError(t, opt.InitializeOptimization())
	_, err = opt.Optimize(ctx, 5)
	assert.ErrorIs(t, err, optim.ErrNoAlgorithm)

	// Mutating the graph invalidates the layout.
	require.NoError(t, opt.AddVertex(optim.NewVectorVertex(1, 1)))
	opt.SetAlgorithm(optim.NewGaussNewton())
	_, err = opt.Optimize(ctx, 5)
	assert.ErrorIs(t, err, optim.ErrNotInitialized)
}

// TestGaussNewton_LinearOneStep solves a linear problem exactly in one step.
func TestGaussNewton_LinearOneStep(t *testing.T) {
	opt := optim.New(optim.WithAlgorithm(optim.NewGaussNewton()))
	v, err := lineProblem(opt, 3, -1, rangeXs(10), true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	n, err := opt.Optimize(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	est := v.Estimate()
	assert.InDelta(t, 3.0, est[0], 1e-9)
	assert.InDelta(t, -1.0, est[1], 1e-9)
	assert.InDelta(t, 0.0, opt.Chi2(), 1e-12)
}

// TestGaussNewton_NumericJacobian reaches the same answer without Linearizer.
func TestGaussNewton_NumericJacobian(t *testing.T) {
	opt := optim.New(optim.WithAlgorithm(optim.NewGaussNewton()))
	v, err := lineProblem(opt, 0.5, 2, rangeXs(8), false)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	_, err = opt.Optimize(context.Background(), 3)
	require.NoError(t, err)
	est := v.Estimate()
	assert.InDelta(t, 0.5, est[0], 1e-5)
	assert.InDelta(t, 2.0, est[1], 1e-5)
}

// TestGaussNewton_Singular reports ErrSingular for an unobservable slope.
func TestGaussNewton_Singular(t *testing.T) {
	opt := optim.New(optim.WithAlgorithm(optim.NewGaussNewton()))
	_, err := lineProblem(opt, 1, 1, []float64{0, 0, 0}, true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	n, err := opt.Optimize(context.Background(), 3)
	assert.ErrorIs(t, err, optim.ErrSingular)
	assert.Equal(t, 1, n)
}

// TestLevenbergMarquardt_Linear converges and never increases χ².
func TestLevenbergMarquardt_Linear(t *testing.T) {
	opt := optim.New(optim.WithAlgorithm(optim.NewLevenbergMarquardt()))
	v, err := lineProblem(opt, -2, 5, rangeXs(12), true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	n, err := opt.Optimize(context.Background(), 30)
	require.NoError(t, err)
	assert.LessOrEqual(t, n, 30)

	est := v.Estimate()
	assert.InDelta(t, -2.0, est[0], 1e-6)
	assert.InDelta(t, 5.0, est[1], 1e-6)

	stats := opt.Stats()
	require.Len(t, stats, n)
	for i := 1; i < len(stats); i++ {
		assert.LessOrEqual(t, stats[i].Chi2, stats[i-1].Chi2+1e-12, "χ² rose at iteration %d", i)
	}
	for _, s := range stats {
		assert.True(t, s.Damped)
		assert.GreaterOrEqual(t, s.LevenbergIterations, 1)
		assert.Equal(t, 12, s.Edges)
	}
}

// TestLevenbergMarquardt_Options exercises the option panics and a fixed start λ.
func TestLevenbergMarquardt_Options(t *testing.T) {
	assert.Panics(t, func() { optim.WithTau(0) })
	assert.Panics(t, func() { optim.WithMaxTrials(0) })
	assert.Panics(t, func() { optim.WithInitialLambda(-1) })

	lm := optim.NewLevenbergMarquardt(optim.WithInitialLambda(1e3), optim.WithMaxTrials(3), optim.WithTau(1e-3))
	opt := optim.New(optim.WithAlgorithm(lm))
	_, err := lineProblem(opt, 1, 1, rangeXs(5), true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	_, err = opt.Optimize(context.Background(), 1)
	require.NoError(t, err)
	assert.Less(t, lm.Lambda(), 1e3, "an accepted step shrinks λ")
}

// TestOptimize_FixedVertex keeps a fixed vertex untouched.
func TestOptimize_FixedVertex(t *testing.T) {
	opt := optim.New(optim.WithAlgorithm(optim.NewGaussNewton()))
	a := optim.NewVectorVertex(0, 1)
	b := optim.NewVectorVertex(1, 1)
	require.NoError(t, a.SetEstimate([]float64{1}))
	a.SetFixed(true)
	require.NoError(t, opt.AddVertex(a))
	require.NoError(t, opt.AddVertex(b))
	require.NoError(t, opt.AddEdge(newDiffEdge(a, b, 2)))
	require.NoError(t, opt.InitializeOptimization())

	_, err := opt.Optimize(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []float64{1}, a.Estimate())
	assert.InDelta(t, 3.0, b.Estimate()[0], 1e-6)
}

// TestOptimize_BinaryEdges solves a small chain with two free vertices.
func TestOptimize_BinaryEdges(t *testing.T) {
	opt := optim.New(optim.WithAlgorithm(optim.NewLevenbergMarquardt()))
	anchor := optim.NewVectorVertex(0, 1)
	anchor.SetFixed(true)
	x1 := optim.NewVectorVertex(1, 1)
	x2 := optim.NewVectorVertex(2, 1)
	for _, v := range []optim.Vertex{anchor, x1, x2} {
		require.NoError(t, opt.AddVertex(v))
	}
	require.NoError(t, opt.AddEdge(newDiffEdge(anchor, x1, 1)))
	require.NoError(t, opt.AddEdge(newDiffEdge(x1, x2, 2)))
	require.NoError(t, opt.InitializeOptimization())

	_, err := opt.Optimize(context.Background(), 20)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, x1.Estimate()[0], 1e-6)
	assert.InDelta(t, 3.0, x2.Estimate()[0], 1e-6)
}

// TestOptimize_ContextCancelled stops before the first iteration.
func TestOptimize_ContextCancelled(t *testing.T) {
	opt := optim.New(optim.WithAlgorithm(optim.NewLevenbergMarquardt()))
	_, err := lineProblem(opt, 1, 1, rangeXs(5), true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	n, err := opt.Optimize(ctx, 10)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, n)
}

// TestOptimize_Verbose prints one trace line per iteration.
func TestOptimize_Verbose(t *testing.T) {
	var buf bytes.Buffer
	opt := optim.New(optim.WithAlgorithm(optim.NewGaussNewton()), optim.WithVerbose(&buf))
	_, err := lineProblem(opt, 1, 1, rangeXs(5), true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	n, err := opt.Optimize(context.Background(), 2)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, n)
	assert.True(t, strings.HasPrefix(lines[0], "iteration= 0\t chi2= "))
	assert.Contains(t, lines[0], "edges= 5\t schur= 0")
	assert.NotContains(t, lines[0], "lambda=", "Gauss–Newton has no damping")

	buf.Reset()
	opt.SetAlgorithm(optim.NewLevenbergMarquardt())
	_, err = opt.Optimize(context.Background(), 1)
	require.NoError(t, err)
	assert.Contains(t, buf.String(), "levenbergIter= ")

	buf.Reset()
	opt.SetVerbose(nil)
	_, err = opt.Optimize(context.Background(), 1)
	require.NoError(t, err)
	assert.Empty(t, buf.String())
}

// TestOptimize_Chi2Tolerance stops once progress stalls.
func TestOptimize_Chi2Tolerance(t *testing.T) {
	assert.Panics(t, func() { optim.WithChi2Tolerance(-1) })

	opt := optim.New(optim.WithAlgorithm(optim.NewGaussNewton()), optim.WithChi2Tolerance(1e-6))
	_, err := lineProblem(opt, 2, 1, rangeXs(6), true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	n, err := opt.Optimize(context.Background(), 50)
	require.NoError(t, err)
	assert.Less(t, n, 50)
}

// TestOptimize_RobustKernelResistsOutlier compares plain and Huber fits.
func TestOptimize_RobustKernelResistsOutlier(t *testing.T) {
	fit := func(kernel optim.RobustKernel) []float64 {
		opt := optim.New(optim.WithAlgorithm(optim.NewLevenbergMarquardt()))
		v := optim.NewVectorVertex(0, 2)
		require.NoError(t, opt.AddVertex(v))
		for i := 0; i < 20; i++ {
			x := float64(i)
			y := 2*x + 1
			if i == 10 {
				y += 50
			}
			e := newAnalyticLineEdge(v, x, y)
			e.SetRobustKernel(kernel)
			require.NoError(t, opt.AddEdge(e))
		}
		require.NoError(t, opt.InitializeOptimization())
		_, err := opt.Optimize(context.Background(), 100)
		require.NoError(t, err)

		return v.Estimate()
	}

	plain := fit(nil)
	robust := fit(optim.NewHuber(1))

	plainErr := abs(plain[0]-2) + abs(plain[1]-1)
	robustErr := abs(robust[0]-2) + abs(robust[1]-1)
	assert.Less(t, robustErr, plainErr)
}

// TestBuildSystem_NotInitialized guards the algorithm-facing API.
func TestBuildSystem_NotInitialized(t *testing.T) {
	_, _, err := optim.New().BuildSystem()
	assert.ErrorIs(t, err, optim.ErrNotInitialized)
}

// TestBuildSystem_Linear checks H = JᵀJ and b = −Jᵀe for a tiny problem.
func TestBuildSystem_Linear(t *testing.T) {
	opt := optim.New()
	_, err := lineProblem(opt, 1, 0, []float64{1, 2}, true)
	require.NoError(t, err)
	require.NoError(t, opt.InitializeOptimization())

	h, b, err := opt.BuildSystem()
	require.NoError(t, err)
	// J rows: [1 1], [2 1]; e = -y = [-1, -2] at (0, 0).
	assert.Equal(t, 5.0, h.At(0, 0))
	assert.Equal(t, 3.0, h.At(0, 1))
	assert.Equal(t, 3.0, h.At(1, 0))
	assert.Equal(t, 2.0, h.At(1, 1))
	assert.Equal(t, 5.0, b.AtVec(0))
	assert.Equal(t, 3.0, b.AtVec(1))
}

func abs(x float64) float64 {
	if x < 0 {
		return -x
	}

	return x
}
