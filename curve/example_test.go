package curve_test

import (
	"fmt"

	"github.com/katalvlaran/curvefit/curve"
	"github.com/katalvlaran/curvefit/sampler"
)

// ExampleGenerate draws a noise-free dataset and evaluates the curve on it.
func ExampleGenerate() {
	pts, err := curve.Generate(sampler.New(1), 3, curve.WithNoise(0))
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	for _, p := range pts {
		fmt.Println(p.Y == curve.DefaultTruth.Eval(p.X))
	}
	// Output:
	// true
	// true
	// true
}

// ExampleParams_Eval evaluates the default ground truth at x = 0.
func ExampleParams_Eval() {
	fmt.Printf("%.2f\n", curve.DefaultTruth.Eval(0))
	// Output:
	// 2.40
}
