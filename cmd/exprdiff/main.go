// exprdiff compares per-gene expression between two cell populations. For
// every gene found in both input tables it computes the mean expression in
// each group, a two-sample z-test on the difference in means with its
// two-sided P-value and confidence interval, and whether the per-group
// confidence intervals fail to overlap, writing one CSV row per gene.
package main

import (
	"context"
	"flag"
	"log"
	"strings"

	"github.com/carbocation/exprdiff"
	_ "github.com/carbocation/exprdiff/compileinfoprint"
	"github.com/carbocation/exprdiff/dge"
	"github.com/carbocation/exprdiff/expression"
)

func main() {
	var first, second, out string
	var confidence float64
	var geneRows bool
	var ignore, geneFile, delimiter string
	var fixQuotes, plotHist bool

	flag.StringVar(&first, "first", "", "Path to the expression table for the first cell population. May be gzipped and may be a gs:// path.")
	flag.StringVar(&second, "second", "", "Path to the expression table for the second cell population. May be gzipped and may be a gs:// path.")
	flag.StringVar(&out, "out", "expression_comparison_results.csv", "Path where the per-gene comparison table will be written.")
	flag.Float64Var(&confidence, "confidence", 0.95, "Confidence level for all intervals and the significance call, between 0 and 1 exclusive.")
	flag.BoolVar(&geneRows, "generows", false, "Set if genes label the rows and cells label the columns. By default genes label the columns and each row is one cell.")
	flag.StringVar(&ignore, "ignore", strings.Join(expression.DefaultIgnore, ","), "Comma-delimited identifiers to exclude from the comparison (annotation columns such as Cell_type).")
	flag.StringVar(&geneFile, "genes", "", "Optional path to a newline-delimited list of genes to restrict the comparison to.")
	flag.StringVar(&delimiter, "delimiter", "", "Field delimiter for both tables, a single character (\\t for tab). Leave empty to detect it from each file.")
	flag.BoolVar(&fixQuotes, "fixquotes", false, "Set if the tables use the invalid \\\" quote escape that some spreadsheet exports emit.")
	flag.BoolVar(&plotHist, "hist", false, "Print a histogram of the P-values to stderr after the run.")

	flag.Parse()

	if first == "" {
		log.Fatalln("Please provide -first")
	}

	if second == "" {
		log.Fatalln("Please provide -second")
	}

	log.Println("Launched exprdiff")

	if err := run(first, second, out, geneFile, ignore, delimiter, confidence, geneRows, fixQuotes, plotHist); err != nil {
		log.Fatalln(err)
	}
}

func run(first, second, out, geneFile, ignore, delimiter string, confidence float64, geneRows, fixQuotes, plotHist bool) error {

	// Initialize the Google Storage client only if we are pointing to
	// Google Storage paths.
	client, err := exprdiff.NewStorageClientIfNeeded(context.Background(), first, second)
	if err != nil {
		return err
	}

	delim, err := expression.ParseDelimiter(delimiter)
	if err != nil {
		return err
	}

	opts := expression.Options{
		Delimiter:   delim,
		GenesInRows: geneRows,
		Ignore:      splitIgnore(ignore),
		FixQuotes:   fixQuotes,
	}

	matA, err := expression.Load(first, client, opts)
	if err != nil {
		return err
	}
	log.Println("Loaded", first, "with", matA.NumGenes(), "genes")

	matB, err := expression.Load(second, client, opts)
	if err != nil {
		return err
	}
	log.Println("Loaded", second, "with", matB.NumGenes(), "genes")

	var restrict []string
	if geneFile != "" {
		restrict, err = exprdiff.ReadGeneList(geneFile)
		if err != nil {
			return err
		}
		log.Println("Restricting the comparison to", len(restrict), "listed genes")
	}

	rows, err := dge.Compare(matA, matB, dge.Options{Confidence: confidence, Genes: restrict})
	if err != nil {
		return err
	}

	if err := dge.WriteTableFile(out, rows); err != nil {
		return err
	}

	significant, undefined := 0, 0
	for _, row := range rows {
		if row.Significant {
			significant++
		}
		if !row.Defined() {
			undefined++
		}
	}

	log.Println("Compared", len(rows), "shared genes:", significant, "significant,", undefined, "with no defined test statistic")
	log.Println("Wrote", out)

	if plotHist {
		printPValueHistogram(rows)
	}

	return nil
}

// splitIgnore turns the comma-delimited -ignore value into a list, where an
// empty flag means ignore nothing (not the default list).
func splitIgnore(ignore string) []string {
	fields := []string{}
	for _, field := range strings.Split(ignore, ",") {
		field = strings.TrimSpace(field)
		if field == "" {
			continue
		}
		fields = append(fields, field)
	}

	return fields
}
