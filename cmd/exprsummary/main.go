// exprsummary is a convenience tool to describe one expression table
// gene by gene
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/montanaflynn/stats"

	"github.com/carbocation/exprdiff"
	_ "github.com/carbocation/exprdiff/compileinfoprint"
	"github.com/carbocation/exprdiff/expression"
)

func main() {
	var input string
	var geneRows, fixQuotes bool
	var ignore, delimiter string

	flag.StringVar(&input, "input", "", "Path to the expression table. May be gzipped and may be a gs:// path.")
	flag.BoolVar(&geneRows, "generows", false, "Set if genes label the rows and cells label the columns.")
	flag.StringVar(&ignore, "ignore", strings.Join(expression.DefaultIgnore, ","), "Comma-delimited identifiers to exclude (annotation columns such as Cell_type).")
	flag.StringVar(&delimiter, "delimiter", "", "Field delimiter, a single character (\\t for tab). Leave empty to detect it from the file.")
	flag.BoolVar(&fixQuotes, "fixquotes", false, "Set if the table uses the invalid \\\" quote escape.")
	flag.Parse()

	if input == "" {
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := summarize(input, ignore, delimiter, geneRows, fixQuotes); err != nil {
		log.Fatalln(err)
	}
}

func summarize(input, ignore, delimiter string, geneRows, fixQuotes bool) error {
	client, err := exprdiff.NewStorageClientIfNeeded(context.Background(), input)
	if err != nil {
		return err
	}

	delim, err := expression.ParseDelimiter(delimiter)
	if err != nil {
		return err
	}

	ignoreList := []string{}
	for _, field := range strings.Split(ignore, ",") {
		if field = strings.TrimSpace(field); field != "" {
			ignoreList = append(ignoreList, field)
		}
	}

	m, err := expression.Load(input, client, expression.Options{
		Delimiter:   delim,
		GenesInRows: geneRows,
		Ignore:      ignoreList,
		FixQuotes:   fixQuotes,
	})
	if err != nil {
		return err
	}

	fmt.Println(strings.Join([]string{
		"Gene",
		"N",
		"Missing",
		"Mean",
		"SD",
		"Median",
		"Min",
		"Max",
		"Q1",
		"Q3",
	}, "\t"))

	for _, gene := range m.Genes() {
		output := []string{
			gene,
			fmt.Sprintf("%d", len(m.Values(gene))),
			fmt.Sprintf("%d", m.Missing(gene)),
		}

		data := stats.LoadRawData(m.Values(gene))

		if data.Len() < 1 {
			output = append(output, []string{"N/A", "N/A", "N/A", "N/A", "N/A", "N/A", "N/A"}...)
			fmt.Println(strings.Join(output, "\t"))
			continue
		}

		// Quartiles (and a sample SD) are undefined for very small
		// samples; report N/A for those rather than aborting.
		for _, compute := range []func() (float64, error){
			data.Mean,
			data.StandardDeviationSample,
			data.Median,
			data.Min,
			data.Max,
			func() (float64, error) { return data.Percentile(25) },
			func() (float64, error) { return data.Percentile(75) },
		} {
			fl, err := compute()
			if err != nil {
				output = append(output, "N/A")
				continue
			}
			output = append(output, fmt.Sprintf("%.3f", fl))
		}

		fmt.Println(strings.Join(output, "\t"))
	}

	return nil
}
