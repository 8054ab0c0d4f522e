package dge

import (
	"bytes"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/carbocation/exprdiff/expression"
)

func sameFloat(a, b float64) bool {
	if math.IsNaN(a) || math.IsNaN(b) {
		return math.IsNaN(a) && math.IsNaN(b)
	}

	return a == b
}

func sameRow(a, b Row) bool {
	return a.Gene == b.Gene &&
		sameFloat(a.MeanA, b.MeanA) &&
		sameFloat(a.MeanB, b.MeanB) &&
		sameFloat(a.MeanDiff, b.MeanDiff) &&
		sameFloat(a.CILow, b.CILow) &&
		sameFloat(a.CIHigh, b.CIHigh) &&
		sameFloat(a.ZStat, b.ZStat) &&
		sameFloat(a.P, b.P) &&
		a.Significant == b.Significant &&
		a.CIDisjoint == b.CIDisjoint
}

func TestWriteTableHeader(t *testing.T) {
	rows := []Row{{Gene: "Gene_A", MeanA: 1, MeanB: 2, MeanDiff: -1}}

	var buf bytes.Buffer
	if err := WriteTable(&buf, rows); err != nil {
		t.Fatal(err)
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	expected := "gene,mean_a,mean_b,mean_diff,ci_low,ci_high,z_statistic,p_value,significant,ci_disjoint"
	if lines[0] != expected {
		t.Fatalf("header:\ngot      %s\nexpected %s", lines[0], expected)
	}

	if len(lines) != 2 {
		t.Fatalf("expected a header plus one row, got %d lines", len(lines))
	}
}

// Writing a comparison table and reading it back must reproduce every value
// exactly, NaN statistics included.
func TestTableRoundTrip(t *testing.T) {
	a, err := expression.Read(strings.NewReader(tableA), expression.Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, err := expression.Read(strings.NewReader(tableB), expression.Options{})
	if err != nil {
		t.Fatal(err)
	}

	rows, err := Compare(a, b, Options{})
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := WriteTable(&buf, rows); err != nil {
		t.Fatal(err)
	}

	back, err := ReadTable(&buf)
	if err != nil {
		t.Fatal(err)
	}

	if len(back) != len(rows) {
		t.Fatalf("got %d rows back, expected %d", len(back), len(rows))
	}

	for i := range rows {
		if !sameRow(rows[i], back[i]) {
			t.Fatalf("row %d changed across the round trip:\nwrote %+v\nread  %+v", i, rows[i], back[i])
		}
	}
}

func TestWriteTableFile(t *testing.T) {
	rows := []Row{
		{Gene: "Gene_A", MeanA: 6, MeanB: 2, MeanDiff: 4, CILow: 2.5, CIHigh: 5.5, ZStat: 4.9, P: 1e-6, Significant: true},
		{Gene: "Gene_B", MeanA: 10, MeanB: 10, CILow: math.NaN(), CIHigh: math.NaN(), ZStat: math.NaN(), P: math.NaN()},
	}

	path := filepath.Join(t.TempDir(), "out.csv")
	if err := WriteTableFile(path, rows); err != nil {
		t.Fatal(err)
	}

	back, err := ReadTableFile(path)
	if err != nil {
		t.Fatal(err)
	}

	for i := range rows {
		if !sameRow(rows[i], back[i]) {
			t.Fatalf("row %d changed across the file round trip:\nwrote %+v\nread  %+v", i, rows[i], back[i])
		}
	}

	// The undefined statistics serialize as literal NaN, not as empty cells.
	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(contents), "NaN") {
		t.Fatalf("expected NaN markers in:\n%s", contents)
	}
}
