package ztest

import (
	"fmt"
	"math"

	"github.com/carbocation/runningvariance"
	"gonum.org/v1/gonum/stat/distuv"
)

// Interval is a confidence interval on a single group's mean. An interval
// with NaN bounds is undefined, which happens when the group has fewer than
// two observations.
type Interval struct {
	Lower, Upper float64
}

// Defined reports whether both bounds were computable.
func (i Interval) Defined() bool {
	return !math.IsNaN(i.Lower) && !math.IsNaN(i.Upper)
}

// Intersects reports whether two intervals overlap, including the case where
// they merely touch at an endpoint. If either interval is undefined this
// returns false, since no overlap claim can be made.
func (i Interval) Intersects(other Interval) bool {
	if !i.Defined() || !other.Defined() {
		return false
	}

	return math.Min(i.Upper, other.Upper) >= math.Max(i.Lower, other.Lower)
}

// MeanInterval computes the t-based confidence interval on the mean of x at
// the given confidence level (0 means DefaultConfidence). With fewer than
// two observations the t distribution has no degrees of freedom and the
// returned interval is undefined.
func MeanInterval(x []float64, confidence float64) (Interval, error) {
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	if confidence <= 0 || confidence >= 1 {
		return Interval{}, fmt.Errorf("confidence must be between 0 and 1 exclusive; got %f", confidence)
	}

	if len(x) < 1 {
		return Interval{}, fmt.Errorf("cannot compute an interval over zero observations")
	}

	rs := runningvariance.NewRunningStat()
	for _, v := range x {
		rs.Push(v)
	}

	if rs.N < 2 {
		return Interval{Lower: math.NaN(), Upper: math.NaN()}, nil
	}

	tDist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: float64(rs.N - 1)}
	tCrit := tDist.Quantile(0.5 + confidence/2)

	sem := math.Sqrt(rs.Variance() / float64(rs.N))
	mean := rs.Mean()

	return Interval{
		Lower: mean - tCrit*sem,
		Upper: mean + tCrit*sem,
	}, nil
}
