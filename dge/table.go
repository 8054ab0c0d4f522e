package dge

import (
	"io"
	"os"

	"github.com/carbocation/pfx"
	"github.com/gocarina/gocsv"
)

// WriteTable serializes rows as CSV with a header line. Floats are written
// in their shortest exact form, so reading the table back yields the same
// values bit for bit; undefined statistics appear as NaN.
func WriteTable(w io.Writer, rows []Row) error {
	return gocsv.Marshal(rows, w)
}

// WriteTableFile writes the comparison table to path, creating or
// truncating it.
func WriteTableFile(path string, rows []Row) error {
	f, err := os.Create(path)
	if err != nil {
		return pfx.Err(err)
	}
	defer f.Close()

	if err := WriteTable(f, rows); err != nil {
		return pfx.Err(err)
	}

	return nil
}

// ReadTable parses a comparison table previously written by WriteTable.
func ReadTable(r io.Reader) ([]Row, error) {
	var rows []Row
	if err := gocsv.Unmarshal(r, &rows); err != nil {
		return nil, pfx.Err(err)
	}

	return rows, nil
}

// ReadTableFile reads the comparison table at path.
func ReadTableFile(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer f.Close()

	return ReadTable(f)
}
