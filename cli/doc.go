// Package cli is the command-line surface of curvefit.
//
// NewCommand returns the root cobra command. Flags are bound into a viper
// instance with the CURVEFIT environment prefix, so every flag can also be
// set as CURVEFIT_<FLAG> (dashes become underscores). Explicit flags win.
//
// Execution follows the Options pattern:
//
//	o.Complete → o.Validate → o.Run
//
// Run samples (or loads) the points, dumps them when --dump is set, fits the
// curve and prints the result as text, JSON or YAML.
package cli
