package optim_test

import (
	"context"
	"fmt"

	"github.com/katalvlaran/curvefit/optim"
)

// ExampleOptimizer fits a line through three exact points with Gauss–Newton.
func ExampleOptimizer() {
	opt := optim.New(optim.WithAlgorithm(optim.NewGaussNewton()))
	v, err := lineProblem(opt, 2, 1, []float64{0, 1, 2}, true)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	if err = opt.InitializeOptimization(); err != nil {
		fmt.Println("error:", err)

		return
	}
	n, err := opt.Optimize(context.Background(), 1)
	if err != nil {
		fmt.Println("error:", err)

		return
	}
	est := v.Estimate()
	fmt.Printf("iterations=%d m=%.3f c=%.3f\n", n, est[0], est[1])
	// Output:
	// iterations=1 m=2.000 c=1.000
}
