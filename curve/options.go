package curve

// GenerateOption customizes Generate by mutating a generateConfig.
// Option constructors validate and PANIC on meaningless inputs;
// Generate itself returns errors.
type GenerateOption func(*generateConfig)

type generateConfig struct {
	truth      Params
	xMin, xMax float64
	sigma      float64
}

// Default generation settings.
const (
	DefaultXMin  = 0.0
	DefaultXMax  = 10.0
	DefaultNoise = 0.02
)

func newGenerateConfig(opts ...GenerateOption) generateConfig {
	cfg := generateConfig{
		truth: DefaultTruth,
		xMin:  DefaultXMin,
		xMax:  DefaultXMax,
		sigma: DefaultNoise,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	return cfg
}

// WithTruth sets the ground-truth curve the samples are drawn from.
func WithTruth(p Params) GenerateOption {
	return func(c *generateConfig) {
		c.truth = p
	}
}

// WithRange sets the abscissa interval [lo, hi). Panics if lo >= hi.
func WithRange(lo, hi float64) GenerateOption {
	if lo >= hi {
		panic("curve: WithRange(lo>=hi)")
	}
	return func(c *generateConfig) {
		c.xMin, c.xMax = lo, hi
	}
}

// WithNoise sets the standard deviation of the additive Gaussian noise.
// Zero disables noise. Panics if sigma < 0.
func WithNoise(sigma float64) GenerateOption {
	if sigma < 0 {
		panic("curve: WithNoise(sigma<0)")
	}
	return func(c *generateConfig) {
		c.sigma = sigma
	}
}
