package main

import (
	"fmt"
	"log"
	"math"
	"strings"

	"github.com/carbocation/exprdiff/expression"
	"github.com/gonum/stat"
)

func runQC(mat *expression.Matrix, nSD float64) {

	geneFlags := GeneFlags{}

	// Flag genes whose cells were all missing, and genes with a single
	// usable value -- neither supports a variance estimate.
	flagLowCounts(geneFlags, mat)
	log.Println("Flagged genes with too few usable values")

	// Flag genes where every cell holds the same value; these produce an
	// undefined test statistic when the other group is also degenerate.
	flagZeroVariance(geneFlags, mat)
	log.Println("Flagged genes with zero variance")

	// Flag genes whose mean is more than N SD above or below the mean of
	// all gene means
	flagExtremeMeans(geneFlags, mat, nSD)
	log.Println("Flagged genes beyond", nSD, "standard deviations above or below the across-gene mean")

	// Same, for the spread
	flagExtremeSpreads(geneFlags, mat, nSD)
	log.Println("Flagged genes beyond", nSD, "standard deviations above or below the across-gene spread")

	fmt.Println(strings.Join([]string{"Gene", "N", "Missing", "Mean", "SD", "Flags"}, "\t"))

	for _, gene := range mat.Genes() {
		values := mat.Values(gene)
		mean, sd := stat.MeanStdDev(values, nil)

		fmt.Println(strings.Join([]string{
			gene,
			fmt.Sprintf("%d", len(values)),
			fmt.Sprintf("%d", mat.Missing(gene)),
			fmt.Sprintf("%.3f", mean),
			fmt.Sprintf("%.3f", sd),
			geneFlags[gene].String(),
		}, "\t"))
	}

	// Number of genes with each flag:
	flagCounts := make(map[string]int)
	for _, flags := range geneFlags {
		for v := range flags {
			flagCounts[v]++
		}
	}

	log.Println(len(geneFlags), "genes out of", mat.NumGenes(), "have been flagged as potentially problematic")
	log.Printf("Number of genes with each flag: %+v\n", flagCounts)
}

func flagLowCounts(out GeneFlags, mat *expression.Matrix) {
	for _, gene := range mat.Genes() {
		switch len(mat.Values(gene)) {
		case 0:
			out.AddFlag(gene, "NoValues")
		case 1:
			out.AddFlag(gene, "SingleValue")
		}
	}
}

func flagZeroVariance(out GeneFlags, mat *expression.Matrix) {
	for _, gene := range mat.Genes() {
		values := mat.Values(gene)
		if len(values) < 2 {
			continue
		}

		if _, sd := stat.MeanStdDev(values, nil); sd < math.SmallestNonzeroFloat64 {
			out.AddFlag(gene, "ZeroVariance")
		}
	}
}

func flagExtremeMeans(out GeneFlags, mat *expression.Matrix, nSD float64) {

	value := make([]float64, 0, mat.NumGenes())

	// Pass 1: populate the slice
	for _, gene := range mat.Genes() {
		values := mat.Values(gene)
		if len(values) == 0 {
			continue
		}

		mean, _ := stat.MeanStdDev(values, nil)
		value = append(value, mean)
	}

	m, s := stat.MeanStdDev(value, nil)

	// Pass 2: flag genes that exceed the bounds:
	for _, gene := range mat.Genes() {
		values := mat.Values(gene)
		if len(values) == 0 {
			continue
		}

		if mean, _ := stat.MeanStdDev(values, nil); mean < m-nSD*s || mean > m+nSD*s {
			out.AddFlag(gene, "ExtremeMean")
		}
	}
}

func flagExtremeSpreads(out GeneFlags, mat *expression.Matrix, nSD float64) {

	value := make([]float64, 0, mat.NumGenes())

	// Pass 1: populate the slice
	for _, gene := range mat.Genes() {
		values := mat.Values(gene)
		if len(values) < 2 {
			continue
		}

		_, sd := stat.MeanStdDev(values, nil)
		value = append(value, sd)
	}

	m, s := stat.MeanStdDev(value, nil)

	// Pass 2: flag genes that exceed the bounds:
	for _, gene := range mat.Genes() {
		values := mat.Values(gene)
		if len(values) < 2 {
			continue
		}

		if _, sd := stat.MeanStdDev(values, nil); sd < m-nSD*s || sd > m+nSD*s {
			out.AddFlag(gene, "ExtremeSpread")
		}
	}
}
