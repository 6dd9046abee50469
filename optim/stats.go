package optim

import (
	"fmt"
	"io"
	"time"
)

// IterationStats describes one completed Optimize iteration.
type IterationStats struct {
	Iteration           int           `json:"iteration"`
	Chi2                float64       `json:"chi2"`
	Time                time.Duration `json:"time"`
	CumTime             time.Duration `json:"cumTime"`
	Edges               int           `json:"edges"`
	Lambda              float64       `json:"lambda,omitempty"`
	LevenbergIterations int           `json:"levenbergIter,omitempty"`
	Damped              bool          `json:"-"`
}

// WriteTo prints the statistics as one tab-separated trace line:
//
//	iteration= 3	 chi2= 0.018790	 time= 2.1e-05	 cumTime= 9e-05	 edges= 50	 schur= 0	 lambda= 0.000021	 levenbergIter= 1
func (s IterationStats) WriteTo(w io.Writer) (int64, error) {
	line := fmt.Sprintf("iteration= %d\t chi2= %f\t time= %g\t cumTime= %g\t edges= %d\t schur= 0",
		s.Iteration, s.Chi2, s.Time.Seconds(), s.CumTime.Seconds(), s.Edges)
	if s.Damped {
		line += fmt.Sprintf("\t lambda= %f\t levenbergIter= %d", s.Lambda, s.LevenbergIterations)
	}
	n, err := fmt.Fprintln(w, line)

	return int64(n), err
}
