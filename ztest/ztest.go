// Package ztest computes two-sample z-tests and confidence intervals for
// comparing mean expression between two groups of observations, gene by gene.
// The formulas follow the standard large-sample approach: the standard error
// of the difference in means is the unpooled sqrt(s2a/na + s2b/nb), and the
// two-sided P-value comes from the standard normal distribution. See
// https://en.wikipedia.org/wiki/Z-test for the derivation.
package ztest

import (
	"fmt"
	"math"

	"github.com/carbocation/runningvariance"
	"gonum.org/v1/gonum/stat/distuv"
)

// DefaultConfidence is the confidence level used when callers pass 0.
const DefaultConfidence = 0.95

// Result holds the output of a two-sample z-test comparing group A against
// group B. When the standard error of the difference is zero, the test
// statistic is undefined and Z, P, CILow, and CIHigh are all NaN; the counts,
// means, and difference remain populated so callers can still report them.
type Result struct {
	NA, NB       int
	MeanA, MeanB float64

	// Diff is MeanA - MeanB.
	Diff float64

	// StdErr is sqrt(VarA/NA + VarB/NB), treating each group's variance as
	// the unbiased sample variance.
	StdErr float64

	// CILow and CIHigh bound the confidence interval on Diff at the
	// requested confidence level.
	CILow, CIHigh float64

	Z float64
	P float64

	// Confidence is the level the interval (and Significant) were computed
	// at, e.g. 0.95.
	Confidence float64
}

// Defined reports whether the test statistic could be computed. It is false
// when both groups had zero variance, which makes the standard error zero.
func (r Result) Defined() bool {
	return !math.IsNaN(r.Z)
}

// Significant reports whether the P-value falls below alpha for the
// configured confidence level (P < 0.05 at 95% confidence). An undefined
// test is never significant.
func (r Result) Significant() bool {
	return r.Defined() && r.P < 1.0-r.Confidence
}

// Compare runs a two-sample z-test of the values in a against the values in
// b at the given confidence level (0 means DefaultConfidence). Each group
// must contain at least one value.
func Compare(a, b []float64, confidence float64) (Result, error) {
	sa := runningvariance.NewRunningStat()
	for _, x := range a {
		sa.Push(x)
	}

	sb := runningvariance.NewRunningStat()
	for _, x := range b {
		sb.Push(x)
	}

	return FromRunning(sa, sb, confidence)
}

// FromRunning runs the same test as Compare but consumes already-accumulated
// running statistics, permitting single-pass use over large inputs.
func FromRunning(a, b *runningvariance.RunningStat, confidence float64) (Result, error) {
	if confidence == 0 {
		confidence = DefaultConfidence
	}

	if confidence <= 0 || confidence >= 1 {
		return Result{}, fmt.Errorf("confidence must be between 0 and 1 exclusive; got %f", confidence)
	}

	if a.N < 1 || b.N < 1 {
		return Result{}, fmt.Errorf("each group needs at least one observation (got %d and %d)", a.N, b.N)
	}

	res := Result{
		NA:         int(a.N),
		NB:         int(b.N),
		MeanA:      a.Mean(),
		MeanB:      b.Mean(),
		Confidence: confidence,
	}

	res.Diff = res.MeanA - res.MeanB

	// Variance() is the unbiased (n-1) sample variance and is 0 for a
	// single observation, so singleton groups contribute no spread.
	res.StdErr = math.Sqrt(a.Variance()/float64(a.N) + b.Variance()/float64(b.N))

	if res.StdErr == 0 {
		res.Z = math.NaN()
		res.P = math.NaN()
		res.CILow = math.NaN()
		res.CIHigh = math.NaN()

		return res, nil
	}

	res.Z = res.Diff / res.StdErr

	// The two-sided P-value is 2*Phi(-|z|). Computing the lower tail
	// directly (rather than 1 - Phi(|z|)) keeps precision for large z,
	// since distuv's CDF is erfc-based.
	res.P = 2 * distuv.UnitNormal.CDF(-math.Abs(res.Z))

	zCrit := distuv.UnitNormal.Quantile(0.5 + confidence/2)
	res.CILow = res.Diff - zCrit*res.StdErr
	res.CIHigh = res.Diff + zCrit*res.StdErr

	return res, nil
}
