// Package dge compares per-gene expression between two cell populations. For
// every gene the two input tables share, it runs a two-sample z-test on the
// difference in mean expression and checks whether the per-group confidence
// intervals on the means separate, assembling one result row per gene.
package dge

import "math"

// Row is one gene's comparison, serialized as one line of the results table.
// Genes where neither group showed any spread have no defined test
// statistic; their z, p, and interval bounds serialize as NaN while the
// means and their difference remain reportable.
type Row struct {
	Gene     string  `csv:"gene"`
	MeanA    float64 `csv:"mean_a"`
	MeanB    float64 `csv:"mean_b"`
	MeanDiff float64 `csv:"mean_diff"`

	// CILow and CIHigh bound the confidence interval on MeanDiff.
	CILow  float64 `csv:"ci_low"`
	CIHigh float64 `csv:"ci_high"`

	ZStat float64 `csv:"z_statistic"`
	P     float64 `csv:"p_value"`

	// Significant records whether the z-test rejected at the configured
	// confidence level.
	Significant bool `csv:"significant"`

	// CIDisjoint records whether the two groups' own confidence intervals
	// on the mean fail to overlap, a cruder separation check than the
	// z-test. It is only ever true when both intervals were defined.
	CIDisjoint bool `csv:"ci_disjoint"`
}

// Defined reports whether the z-test could be computed for this gene.
func (r Row) Defined() bool {
	return !math.IsNaN(r.ZStat)
}
