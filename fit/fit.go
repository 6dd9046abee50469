package fit

import (
	"context"
	"errors"
	"fmt"
	"io"

	"k8s.io/klog/v2"

	"github.com/katalvlaran/curvefit/curve"
	"github.com/katalvlaran/curvefit/optim"
)

var (
	// ErrNoPoints indicates Run was given an empty dataset.
	ErrNoPoints = errors.New("fit: no points")

	// ErrBadIterations indicates a non-positive iteration budget.
	ErrBadIterations = errors.New("fit: iterations must be > 0")
)

// ParamsVertexID is the id of the single parameter vertex.
const ParamsVertexID = 0

// DefaultInitial is the starting estimate (a, b, λ) = (1, 1, 1).
var DefaultInitial = curve.Params{A: 1, B: 1, Lambda: 1}

// Config controls a Run.
type Config struct {
	// Algorithm is a Factory name, "lm_dense" by default.
	Algorithm string
	// MaxIterations bounds Optimize (default 10).
	MaxIterations int
	// Initial is the starting estimate.
	Initial curve.Params
	// Kernel, when non-nil, is installed on every edge.
	Kernel optim.RobustKernel
	// NumericJacobian switches to NumericEdgePointOnCurve.
	NumericJacobian bool
	// Verbose receives one trace line per iteration when non-nil.
	Verbose io.Writer
	// Factory resolves Algorithm; nil means optim.DefaultFactory.
	Factory *optim.Factory
	// Logger receives engine diagnostics; the zero value means klog.Background().
	Logger klog.Logger
}

// DefaultConfig returns the classic settings: LM, 10 iterations, start (1, 1, 1).
func DefaultConfig() Config {
	return Config{
		Algorithm:     optim.NameLevenbergMarquardt,
		MaxIterations: 10,
		Initial:       DefaultInitial,
	}
}

// Result reports the outcome of a Run.
type Result struct {
	Params      curve.Params           `json:"params"`
	Algorithm   string                 `json:"algorithm"`
	Iterations  int                    `json:"iterations"`
	InitialChi2 float64                `json:"initialChi2"`
	FinalChi2   float64                `json:"finalChi2"`
	Stats       []optim.IterationStats `json:"stats,omitempty"`
}

// Build assembles the optimization graph for pts without running it.
// It returns the optimizer and the parameter vertex.
//
// Errors:
//   - ErrNoPoints if pts is empty.
//   - optim errors from graph construction.
func Build(pts []curve.Point, cfg Config) (*optim.Optimizer, *VertexParams, error) {
	if len(pts) == 0 {
		return nil, nil, ErrNoPoints
	}

	opts := []optim.Option{}
	if cfg.Verbose != nil {
		opts = append(opts, optim.WithVerbose(cfg.Verbose))
	}
	if cfg.Logger.GetSink() != nil {
		opts = append(opts, optim.WithLogger(cfg.Logger))
	}
	opt := optim.New(opts...)

	params := NewVertexParams(ParamsVertexID)
	params.SetParams(cfg.Initial)
	if err := opt.AddVertex(params); err != nil {
		return nil, nil, err
	}
	for _, p := range pts {
		var e optim.Edge
		if cfg.NumericJacobian {
			ne := NewNumericEdgePointOnCurve(params, p)
			ne.SetRobustKernel(cfg.Kernel)
			e = ne
		} else {
			ae := NewEdgePointOnCurve(params, p)
			ae.SetRobustKernel(cfg.Kernel)
			e = ae
		}
		if err := opt.AddEdge(e); err != nil {
			return nil, nil, err
		}
	}

	return opt, params, nil
}

// Run fits the curve to pts.
//
// Implementation:
//   - Stage 1: resolve the algorithm by name.
//   - Stage 2: Build the graph and InitializeOptimization.
//   - Stage 3: Optimize for cfg.MaxIterations and collect statistics.
//
// Errors:
//   - ErrNoPoints, ErrBadIterations.
//   - optim.ErrUnknownAlgorithm and any Optimize error (wrapped).
func Run(ctx context.Context, pts []curve.Point, cfg Config) (*Result, error) {
	if len(pts) == 0 {
		return nil, ErrNoPoints
	}
	if cfg.MaxIterations <= 0 {
		return nil, ErrBadIterations
	}
	if cfg.Algorithm == "" {
		cfg.Algorithm = optim.NameLevenbergMarquardt
	}
	factory := cfg.Factory
	if factory == nil {
		factory = optim.DefaultFactory
	}
	algo, err := factory.Construct(cfg.Algorithm)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	opt, params, err := Build(pts, cfg)
	if err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}
	opt.SetAlgorithm(algo)
	if err = opt.InitializeOptimization(); err != nil {
		return nil, fmt.Errorf("fit: %w", err)
	}

	res := &Result{
		Algorithm:   algo.Name(),
		InitialChi2: opt.Chi2(),
	}
	n, err := opt.Optimize(ctx, cfg.MaxIterations)
	res.Iterations = n
	res.Params = params.Params()
	res.FinalChi2 = opt.Chi2()
	res.Stats = opt.Stats()
	if err != nil {
		return res, fmt.Errorf("fit: %w", err)
	}

	return res, nil
}
