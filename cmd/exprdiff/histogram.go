package main

import (
	"log"
	"math"
	"os"

	"github.com/aybabtme/uniplot/histogram"

	"github.com/carbocation/exprdiff/dge"
)

// printPValueHistogram sketches the distribution of defined P-values on
// stderr. A flat distribution suggests little differential expression; a
// spike near zero suggests a lot of it.
func printPValueHistogram(rows []dge.Row) {
	pvals := make([]float64, 0, len(rows))
	for _, row := range rows {
		if !math.IsNaN(row.P) {
			pvals = append(pvals, row.P)
		}
	}

	if len(pvals) == 0 {
		log.Println("No defined P-values to plot")
		return
	}

	hist := histogram.Hist(20, pvals)
	if err := histogram.Fprint(os.Stderr, hist, histogram.Linear(40)); err != nil {
		log.Println("Histogram error:", err)
	}
}
