package cli

import (
	goflag "flag"
	"io"
	"strconv"
	"strings"

	"github.com/MakeNowJust/heredoc"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"k8s.io/klog/v2"

	"github.com/katalvlaran/curvefit/codec"
	"github.com/katalvlaran/curvefit/optim"
)

// EnvPrefix prefixes every environment variable bound to a flag.
const EnvPrefix = "CURVEFIT"

var curvefitLong = heredoc.Doc(`
	Fit a*exp(-lambda*x)+b to noisy samples with an iterative least squares
	solver.

	By default numPoints samples are drawn from 2*exp(-0.2*x)+0.4 with x in
	[0, 10) and Gaussian noise, written to the dump file, and the parameters
	are recovered starting from (1, 1, 1). Use --load to fit an existing
	point file instead.

	Point files hold one "x y" pair per line and are compressed according to
	their extension: .gz, .zst or .lz4.

	Every flag can also be set through an environment variable named
	CURVEFIT_<FLAG>, for example CURVEFIT_NUMPOINTS=100 or
	CURVEFIT_ROBUST_DELTA=0.5.
`)

var curvefitExample = heredoc.Doc(`
	# Fit 50 points, dumping them to points.txt
	curvefit

	# Reproducible run, quiet, JSON result
	curvefit --seed 42 -v=false -o json

	# Fit a compressed dataset with a robust kernel
	curvefit --load points.txt.zst --dump "" --robust cauchy --robust-delta 0.1
`)

// NewCommand returns the curvefit root command writing results to out and
// traces to errOut.
func NewCommand(out, errOut io.Writer) *cobra.Command {
	o := NewOptions(out, errOut)
	vip := viper.New()

	cmd := &cobra.Command{
		Use:           "curvefit",
		Short:         "Fit an exponential curve by nonlinear least squares",
		Long:          curvefitLong,
		Example:       curvefitExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := applyEnvironment(vip, cmd.Flags()); err != nil {
				return err
			}

			return setLogLevel(o.LogLevel)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := o.Complete(args); err != nil {
				return err
			}
			if err := o.Validate(); err != nil {
				return err
			}

			return o.Run(cmd.Context())
		},
	}
	cmd.SetOut(out)
	cmd.SetErr(errOut)

	flags := cmd.Flags()
	flags.StringVar(&o.Dump, "dump", o.Dump, "File to write the sampled points to (empty to skip); compression follows the extension: "+strings.Join(codec.Names(), ", "))
	flags.StringVar(&o.Load, "load", o.Load, "Fit the points in this file instead of sampling")
	flags.IntVar(&o.NumPoints, "numPoints", o.NumPoints, "Number of points to sample")
	flags.IntVarP(&o.Iterations, "iterations", "i", o.Iterations, "Maximum number of solver iterations")
	flags.BoolVarP(&o.Verbose, "verbose", "v", o.Verbose, "Print per-iteration statistics to stderr")
	flags.Uint64Var(&o.Seed, "seed", o.Seed, "Sampler seed (0 seeds from the clock)")
	flags.Float64Var(&o.Noise, "noise", o.Noise, "Standard deviation of the Gaussian noise added to y")
	flags.StringVar(&o.Algorithm, "algorithm", o.Algorithm, "Solver: "+strings.Join(optim.DefaultFactory.Names(), ", "))
	flags.StringVar(&o.Robust, "robust", o.Robust, "Robust kernel: none, huber or cauchy")
	flags.Float64Var(&o.RobustDelta, "robust-delta", o.RobustDelta, "Width of the robust kernel")
	flags.StringVarP(&o.Output, "output", "o", o.Output, "Output format: text, json or yaml")
	flags.IntVar(&o.LogLevel, "log-level", o.LogLevel, "klog verbosity for diagnostics")

	vip.SetEnvPrefix(EnvPrefix)
	vip.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	vip.AutomaticEnv()
	_ = vip.BindPFlags(flags)

	return cmd
}

// applyEnvironment copies environment-provided values into flags the user
// did not set explicitly.
func applyEnvironment(vip *viper.Viper, fs *pflag.FlagSet) error {
	var firstErr error
	fs.VisitAll(func(f *pflag.Flag) {
		if firstErr != nil || f.Changed || !vip.IsSet(f.Name) {
			return
		}
		if err := fs.Set(f.Name, vip.GetString(f.Name)); err != nil {
			firstErr = err
		}
	})

	return firstErr
}

// setLogLevel routes the level into klog through its own flag set so klog's
// "v" flag never meets --verbose.
func setLogLevel(level int) error {
	fs := goflag.NewFlagSet("klog", goflag.ContinueOnError)
	klog.InitFlags(fs)

	return fs.Set("v", strconv.Itoa(level))
}
