package expression

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"cloud.google.com/go/storage"
	"github.com/carbocation/exprdiff"
	"github.com/carbocation/pfx"
)

// DefaultIgnore lists the annotation identifiers excluded from parsing when
// Options.Ignore is nil. Cell_type is the label column that single-cell
// exports conventionally interleave with the numeric gene columns.
var DefaultIgnore = []string{"Cell_type"}

// Options configures expression table parsing.
type Options struct {
	// Delimiter separates fields. Zero means comma, or whatever Load
	// sniffed from the file.
	Delimiter rune

	// GenesInRows flips the expected orientation: genes label rows and
	// cells label columns, instead of the default where each column after
	// the first names a gene and each row is one cell.
	GenesInRows bool

	// Ignore lists identifiers to skip entirely. When nil, DefaultIgnore
	// applies; pass an empty non-nil slice to ignore nothing.
	Ignore []string

	// FixQuotes repairs the invalid \" quote escape while Load streams
	// the file.
	FixQuotes bool
}

// ParseDelimiter maps a delimiter flag value onto the rune Options.Delimiter
// expects. The empty string selects detection from the file head, and tab
// may be spelled \t.
func ParseDelimiter(s string) (rune, error) {
	if s == `\t` {
		s = "\t"
	}

	runes := []rune(s)
	switch len(runes) {
	case 0:
		return 0, nil
	case 1:
		return runes[0], nil
	}

	return 0, fmt.Errorf("delimiter must be a single character, got %q", s)
}

// isMissing reports whether a trimmed cell holds a missing-value marker
// rather than a number. These cells are excluded from the gene's sample and
// tallied separately.
func isMissing(cell string) bool {
	switch strings.ToLower(cell) {
	case "", "na", "nan":
		return true
	}

	return false
}

// Read parses an expression table from r. The first header field labels the
// row identifiers and is skipped; parse failures report the offending row
// and gene.
func Read(r io.Reader, opts Options) (*Matrix, error) {
	ignore := opts.Ignore
	if ignore == nil {
		ignore = DefaultIgnore
	}
	ignored := make(map[string]struct{}, len(ignore))
	for _, name := range ignore {
		ignored[name] = struct{}{}
	}

	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true
	cr.Comma = ','
	if opts.Delimiter != 0 {
		cr.Comma = opts.Delimiter
	}

	header, err := cr.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("table has no header row")
	} else if err != nil {
		return nil, pfx.Err(err)
	}

	if opts.GenesInRows {
		return readGenesInRows(cr, ignored)
	}

	return readGenesInColumns(cr, header, ignored)
}

// readGenesInColumns handles the default orientation: header names the
// genes, and every subsequent row is one cell's expression vector.
func readGenesInColumns(cr *csv.Reader, header []string, ignored map[string]struct{}) (*Matrix, error) {
	m := NewMatrix()

	// geneFor maps a column index to its gene; "" marks columns to skip.
	// Column 0 holds the cell identifier.
	geneFor := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			continue
		}

		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("header column %d is empty", i+1)
		}

		if _, skip := ignored[name]; skip {
			continue
		}

		if m.Has(name) {
			return nil, fmt.Errorf("gene %q appears more than once in the header", name)
		}

		m.AddGene(name)
		geneFor[i] = name
	}

	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}
		row++

		for i, cell := range record {
			gene := geneFor[i]
			if gene == "" {
				continue
			}

			cell = strings.TrimSpace(cell)
			if isMissing(cell) {
				m.AddMissing(gene)
				continue
			}

			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, gene %s: %q is not numeric", row, gene, cell)
			}

			m.Add(gene, value)
		}
	}

	return m, nil
}

// readGenesInRows handles the transposed orientation: each row starts with a
// gene name followed by that gene's value in every cell.
func readGenesInRows(cr *csv.Reader, ignored map[string]struct{}) (*Matrix, error) {
	m := NewMatrix()

	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		} else if err != nil {
			return nil, pfx.Err(err)
		}
		row++

		gene := strings.TrimSpace(record[0])
		if gene == "" {
			return nil, fmt.Errorf("row %d has an empty gene name", row)
		}

		if _, skip := ignored[gene]; skip {
			continue
		}

		if m.Has(gene) {
			return nil, fmt.Errorf("gene %q appears more than once", gene)
		}
		m.AddGene(gene)

		for _, cell := range record[1:] {
			cell = strings.TrimSpace(cell)
			if isMissing(cell) {
				m.AddMissing(gene)
				continue
			}

			value, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, fmt.Errorf("row %d, gene %s: %q is not numeric", row, gene, cell)
			}

			m.Add(gene, value)
		}
	}

	return m, nil
}

// Load opens path, which may be local or gs:// and may be compressed,
// sniffs the delimiter unless opts.Delimiter overrides it, and parses the
// table with Read. The client may be nil for local paths.
func Load(path string, client *storage.Client, opts Options) (*Matrix, error) {
	in, err := exprdiff.Open(path, client)
	if err != nil {
		return nil, err
	}
	defer in.Close()

	if opts.Delimiter == 0 {
		opts.Delimiter = in.Delimiter
	}

	var r io.Reader = in
	if opts.FixQuotes {
		r = exprdiff.NewQuoteFixReader(r)
	}

	m, err := Read(r, opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", in.Path, err)
	}

	return m, nil
}
