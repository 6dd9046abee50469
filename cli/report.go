package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"sigs.k8s.io/yaml"

	"github.com/katalvlaran/curvefit/curve"
	"github.com/katalvlaran/curvefit/fit"
)

// Report is the machine-readable result of one run.
type Report struct {
	A           float64 `json:"a"`
	B           float64 `json:"b"`
	Lambda      float64 `json:"lambda"`
	Iterations  int     `json:"iterations"`
	InitialChi2 float64 `json:"initialChi2"`
	FinalChi2   float64 `json:"finalChi2"`
	Algorithm   string  `json:"algorithm"`
	Points      int     `json:"points"`
	Seed        uint64  `json:"seed,omitempty"`
	Digest      string  `json:"digest"`
}

func newReport(res *fit.Result, pts []curve.Point, digest uint64) Report {
	return Report{
		A:           res.Params.A,
		B:           res.Params.B,
		Lambda:      res.Params.Lambda,
		Iterations:  res.Iterations,
		InitialChi2: res.InitialChi2,
		FinalChi2:   res.FinalChi2,
		Algorithm:   res.Algorithm,
		Points:      len(pts),
		Digest:      fmt.Sprintf("%016x", digest),
	}
}

func printReport(w io.Writer, format string, rep Report) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		return enc.Encode(rep)
	case OutputYAML:
		data, err := yaml.Marshal(rep)
		if err != nil {
			return err
		}
		_, err = w.Write(data)

		return err
	default:
		return printText(w, rep)
	}
}

func printText(w io.Writer, rep Report) error {
	_, err := fmt.Fprintf(w,
		"Target curve\n"+
			"a * exp(-lambda * x) + b\n"+
			"Iterative least squares solution\n"+
			"a      = %.6g\n"+
			"b      = %.6g\n"+
			"lambda = %.6g\n"+
			"\n",
		rep.A, rep.B, rep.Lambda)

	return err
}
