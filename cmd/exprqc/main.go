// exprqc screens one expression table for genes likely to misbehave in a
// downstream comparison: genes with no usable values, genes with no spread,
// and genes whose mean or spread is an outlier among all genes in the table.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"

	"github.com/carbocation/exprdiff"
	_ "github.com/carbocation/exprdiff/compileinfoprint"
	"github.com/carbocation/exprdiff/expression"
)

func main() {
	var input string
	var nSD float64
	var geneRows, fixQuotes bool
	var ignore, delimiter string

	flag.StringVar(&input, "input", "", "Path to the expression table. May be gzipped and may be a gs:// path.")
	flag.Float64Var(&nSD, "sd", 5.0, "Number of standard deviations beyond the across-gene mean (or spread) at which a gene is flagged as extreme.")
	flag.BoolVar(&geneRows, "generows", false, "Set if genes label the rows and cells label the columns.")
	flag.StringVar(&ignore, "ignore", strings.Join(expression.DefaultIgnore, ","), "Comma-delimited identifiers to exclude (annotation columns such as Cell_type).")
	flag.StringVar(&delimiter, "delimiter", "", "Field delimiter, a single character (\\t for tab). Leave empty to detect it from the file.")
	flag.BoolVar(&fixQuotes, "fixquotes", false, "Set if the table uses the invalid \\\" quote escape.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	log.Println("Launched exprqc")

	client, err := exprdiff.NewStorageClientIfNeeded(context.Background(), input)
	if err != nil {
		log.Fatalln(err)
	}

	delim, err := expression.ParseDelimiter(delimiter)
	if err != nil {
		log.Fatalln(err)
	}

	ignoreList := []string{}
	for _, field := range strings.Split(ignore, ",") {
		if field = strings.TrimSpace(field); field != "" {
			ignoreList = append(ignoreList, field)
		}
	}

	mat, err := expression.Load(input, client, expression.Options{
		Delimiter:   delim,
		GenesInRows: geneRows,
		Ignore:      ignoreList,
		FixQuotes:   fixQuotes,
	})
	if err != nil {
		log.Fatalln(err)
	}
	log.Println("Loaded", input, "with", mat.NumGenes(), "genes")

	runQC(mat, nSD)
}
