package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"k8s.io/klog/v2"

	"github.com/katalvlaran/curvefit/curve"
	"github.com/katalvlaran/curvefit/fit"
	"github.com/katalvlaran/curvefit/optim"
	"github.com/katalvlaran/curvefit/sampler"
)

// Output formats.
const (
	OutputText = "text"
	OutputJSON = "json"
	OutputYAML = "yaml"
)

// Defaults mirror the classic demo.
const (
	DefaultDump        = "points.txt"
	DefaultNumPoints   = 50
	DefaultIterations  = 10
	DefaultRobustDelta = 1.0
)

var (
	// ErrBadNumPoints indicates --numPoints <= 0 while sampling.
	ErrBadNumPoints = errors.New("cli: numPoints must be > 0")

	// ErrBadIterations indicates --iterations <= 0.
	ErrBadIterations = errors.New("cli: iterations must be > 0")

	// ErrBadNoise indicates a negative --noise.
	ErrBadNoise = errors.New("cli: noise must be >= 0")

	// ErrBadOutput indicates an unsupported --output value.
	ErrBadOutput = errors.New("cli: unknown output format")

	// ErrArgs indicates positional arguments were given.
	ErrArgs = errors.New("cli: no arguments are supported")
)

// Options holds everything one invocation needs.
type Options struct {
	Dump        string
	Load        string
	NumPoints   int
	Iterations  int
	Verbose     bool
	Seed        uint64
	Noise       float64
	Algorithm   string
	Robust      string
	RobustDelta float64
	Output      string
	LogLevel    int

	Out    io.Writer
	ErrOut io.Writer

	sampler *sampler.Sampler
}

// NewOptions returns Options populated with the default flag values.
func NewOptions(out, errOut io.Writer) *Options {
	return &Options{
		Dump:        DefaultDump,
		NumPoints:   DefaultNumPoints,
		Iterations:  DefaultIterations,
		Verbose:     true,
		Noise:       curve.DefaultNoise,
		Algorithm:   optim.NameLevenbergMarquardt,
		Robust:      "none",
		RobustDelta: DefaultRobustDelta,
		Output:      OutputText,
		Out:         out,
		ErrOut:      errOut,
	}
}

// Complete normalizes names and seeds the sampler.
func (o *Options) Complete(args []string) error {
	if len(args) != 0 {
		return ErrArgs
	}
	o.Output = strings.ToLower(strings.TrimSpace(o.Output))
	o.Robust = strings.ToLower(strings.TrimSpace(o.Robust))
	o.Algorithm = strings.TrimSpace(o.Algorithm)

	if o.Seed == 0 {
		o.sampler = sampler.NewTimeSeeded()
	} else {
		o.sampler = sampler.New(o.Seed)
	}

	return nil
}

// Validate rejects option combinations Run cannot honor.
func (o *Options) Validate() error {
	if o.Load == "" && o.NumPoints <= 0 {
		return ErrBadNumPoints
	}
	if o.Iterations <= 0 {
		return ErrBadIterations
	}
	if o.Noise < 0 {
		return ErrBadNoise
	}
	switch o.Output {
	case OutputText, OutputJSON, OutputYAML:
	default:
		return fmt.Errorf("%w: %q", ErrBadOutput, o.Output)
	}
	if _, err := optim.KernelByName(o.Robust, o.RobustDelta); err != nil {
		return fmt.Errorf("cli: --robust: %w", err)
	}
	if !slices.Contains(optim.DefaultFactory.Names(), o.Algorithm) {
		return fmt.Errorf("cli: --algorithm: %w: %q", optim.ErrUnknownAlgorithm, o.Algorithm)
	}

	return nil
}

// Run samples or loads the points, dumps them, fits and prints the result.
func (o *Options) Run(ctx context.Context) error {
	pts, err := o.points()
	if err != nil {
		return err
	}
	digest := curve.Digest(pts)
	klog.V(2).Infof("Dataset ready: %d points, digest %016x", len(pts), digest)

	if o.Dump != "" {
		if err = curve.DumpFile(o.Dump, pts); err != nil {
			return err
		}
		klog.V(2).Infof("Points written to %s", o.Dump)
	}

	kernel, err := optim.KernelByName(o.Robust, o.RobustDelta)
	if err != nil {
		return err
	}
	cfg := fit.DefaultConfig()
	cfg.Algorithm = o.Algorithm
	cfg.MaxIterations = o.Iterations
	cfg.Kernel = kernel
	if o.Verbose {
		cfg.Verbose = o.ErrOut
	}

	res, err := fit.Run(ctx, pts, cfg)
	if err != nil {
		return err
	}

	if o.Verbose {
		if _, err = fmt.Fprintln(o.Out); err != nil {
			return err
		}
	}
	rep := newReport(res, pts, digest)
	if o.Load == "" {
		rep.Seed = o.sampler.Seed()
	}

	return printReport(o.Out, o.Output, rep)
}

func (o *Options) points() ([]curve.Point, error) {
	if o.Load != "" {
		pts, err := curve.LoadFile(o.Load)
		if err != nil {
			return nil, err
		}
		klog.V(2).Infof("Loaded %d points from %s", len(pts), o.Load)

		return pts, nil
	}

	if o.Verbose {
		if _, err := fmt.Fprintf(o.ErrOut, "seed= %d\n", o.sampler.Seed()); err != nil {
			return nil, err
		}
	}

	return curve.Generate(o.sampler, o.NumPoints, curve.WithNoise(o.Noise))
}
