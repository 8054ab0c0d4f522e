package expression

import (
	"compress/gzip"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

const cellsByGenes = `cell_id,Gene_A,Gene_B,Cell_type,Gene_C
cell1,5,1,tumor,0.5
cell2,7,2,tumor,NA
cell3,6,3,tumor,0.7
`

func TestReadGenesInColumns(t *testing.T) {
	m, err := Read(strings.NewReader(cellsByGenes), Options{})
	if err != nil {
		t.Fatal(err)
	}

	genes := m.Genes()
	expectedOrder := []string{"Gene_A", "Gene_B", "Gene_C"}
	if len(genes) != len(expectedOrder) {
		t.Fatalf("got genes %v, expected %v", genes, expectedOrder)
	}
	for i := range expectedOrder {
		if genes[i] != expectedOrder[i] {
			t.Fatalf("gene %d: got %q, expected %q", i, genes[i], expectedOrder[i])
		}
	}

	if m.Has("Cell_type") {
		t.Fatal("Cell_type must be ignored by default")
	}

	for _, v := range []struct {
		gene     string
		expected []float64
		missing  int
	}{
		{"Gene_A", []float64{5, 7, 6}, 0},
		{"Gene_B", []float64{1, 2, 3}, 0},
		{"Gene_C", []float64{0.5, 0.7}, 1},
	} {
		values := m.Values(v.gene)
		if len(values) != len(v.expected) {
			t.Fatalf("%s: got values %v, expected %v", v.gene, values, v.expected)
		}
		for i := range v.expected {
			if math.Abs(values[i]-v.expected[i]) > 1e-12 {
				t.Fatalf("%s value %d: got %v, expected %v", v.gene, i, values[i], v.expected[i])
			}
		}

		if m.Missing(v.gene) != v.missing {
			t.Fatalf("%s: got %d missing, expected %d", v.gene, m.Missing(v.gene), v.missing)
		}
	}
}

func TestReadGenesInRows(t *testing.T) {
	in := "gene,cell1,cell2,cell3\nGene_A,5,7,6\nCell_type,x,y,z\nGene_B,1,2,3\n"

	m, err := Read(strings.NewReader(in), Options{GenesInRows: true})
	if err != nil {
		t.Fatal(err)
	}

	if m.NumGenes() != 2 {
		t.Fatalf("got %d genes: %v", m.NumGenes(), m.Genes())
	}

	a := m.Values("Gene_A")
	if len(a) != 3 || a[0] != 5 || a[1] != 7 || a[2] != 6 {
		t.Fatalf("Gene_A values %v", a)
	}

	if m.Has("Cell_type") {
		t.Fatal("Cell_type must be ignored by default")
	}
}

func TestReadTabDelimited(t *testing.T) {
	in := strings.ReplaceAll(cellsByGenes, ",", "\t")

	m, err := Read(strings.NewReader(in), Options{Delimiter: '\t'})
	if err != nil {
		t.Fatal(err)
	}

	if m.NumGenes() != 3 {
		t.Fatalf("got %d genes: %v", m.NumGenes(), m.Genes())
	}
}

func TestReadCustomIgnore(t *testing.T) {
	// With an explicit empty ignore list, Cell_type parses like any other
	// column, and its non-numeric cells are an error.
	if _, err := Read(strings.NewReader(cellsByGenes), Options{Ignore: []string{}}); err == nil {
		t.Fatal("expected a parse error when Cell_type is not ignored")
	}

	in := "cell_id,Gene_A,Batch\ncell1,5,1\ncell2,7,2\n"
	m, err := Read(strings.NewReader(in), Options{Ignore: []string{"Batch"}})
	if err != nil {
		t.Fatal(err)
	}

	if m.Has("Batch") || !m.Has("Gene_A") {
		t.Fatalf("ignore list misapplied; genes: %v", m.Genes())
	}
}

func TestReadErrors(t *testing.T) {
	for _, v := range []struct {
		name string
		in   string
		opts Options
	}{
		{"empty input", "", Options{}},
		{"duplicate gene column", "cell_id,Gene_A,Gene_A\ncell1,1,2\n", Options{}},
		{"duplicate gene row", "gene,c1\nGene_A,1\nGene_A,2\n", Options{GenesInRows: true}},
		{"non-numeric cell", "cell_id,Gene_A\ncell1,five\n", Options{}},
		{"ragged row", "cell_id,Gene_A,Gene_B\ncell1,1\n", Options{}},
		{"empty header column", "cell_id,Gene_A,\ncell1,1,2\n", Options{}},
		{"empty gene name", "gene,c1\n,1\n", Options{GenesInRows: true}},
	} {
		if _, err := Read(strings.NewReader(v.in), v.opts); err == nil {
			t.Fatalf("%s: expected an error", v.name)
		}
	}
}

// A gene whose every cell is missing still registers, with an empty sample.
func TestReadAllMissingGene(t *testing.T) {
	in := "cell_id,Gene_A,Gene_B\ncell1,1,NA\ncell2,2,nan\n"

	m, err := Read(strings.NewReader(in), Options{})
	if err != nil {
		t.Fatal(err)
	}

	if !m.Has("Gene_B") {
		t.Fatal("Gene_B should be registered")
	}
	if len(m.Values("Gene_B")) != 0 {
		t.Fatalf("Gene_B values should be empty, got %v", m.Values("Gene_B"))
	}
	if m.Missing("Gene_B") != 2 {
		t.Fatalf("Gene_B missing count %d, expected 2", m.Missing("Gene_B"))
	}
}

func TestIntersectOrder(t *testing.T) {
	a := NewMatrix()
	for _, gene := range []string{"G3", "G1", "G2", "G5"} {
		a.Add(gene, 1)
	}

	b := NewMatrix()
	for _, gene := range []string{"G2", "G4", "G3"} {
		b.Add(gene, 1)
	}

	shared := a.Intersect(b)
	if len(shared) != 2 || shared[0] != "G3" || shared[1] != "G2" {
		t.Fatalf("intersection %v; expected [G3 G2]", shared)
	}

	// The receiver's order governs.
	flipped := b.Intersect(a)
	if len(flipped) != 2 || flipped[0] != "G2" || flipped[1] != "G3" {
		t.Fatalf("intersection %v; expected [G2 G3]", flipped)
	}
}

func TestLoadPlainFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.csv")
	if err := os.WriteFile(path, []byte(cellsByGenes), 0o644); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}

	if m.NumGenes() != 3 {
		t.Fatalf("got %d genes: %v", m.NumGenes(), m.Genes())
	}
}

// Load must decompress and sniff the delimiter without being told either.
func TestLoadGzippedTSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "table.tsv.gz")

	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	gz := gzip.NewWriter(f)
	if _, err := gz.Write([]byte(strings.ReplaceAll(cellsByGenes, ",", "\t"))); err != nil {
		t.Fatal(err)
	}
	if err := gz.Close(); err != nil {
		t.Fatal(err)
	}
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}

	m, err := Load(path, nil, Options{})
	if err != nil {
		t.Fatal(err)
	}

	values := m.Values("Gene_A")
	if len(values) != 3 || values[0] != 5 || values[1] != 7 || values[2] != 6 {
		t.Fatalf("Gene_A values %v", values)
	}
}

// Tables annotated with uniform cell-type labels carry one underscore on
// every line, which ties with the comma during delimiter detection.
// Loading such a table must parse the comma layout on every run.
func TestLoadCellTypeLabels(t *testing.T) {
	in := "cell,GeneA,GeneB,Cell_type\nc1,5,1,B_cell\nc2,7,2,NK_cell\nc3,6,3,B_cell\n"

	path := filepath.Join(t.TempDir(), "labeled.csv")
	if err := os.WriteFile(path, []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}

	for i := 0; i < 25; i++ {
		m, err := Load(path, nil, Options{})
		if err != nil {
			t.Fatalf("load %d: %v", i, err)
		}

		if m.Has("Cell_type") {
			t.Fatal("Cell_type must be ignored by default")
		}

		a := m.Values("GeneA")
		if len(a) != 3 || a[0] != 5 || a[1] != 7 || a[2] != 6 {
			t.Fatalf("load %d: GeneA values %v", i, a)
		}

		b := m.Values("GeneB")
		if len(b) != 3 || b[0] != 1 || b[1] != 2 || b[2] != 3 {
			t.Fatalf("load %d: GeneB values %v", i, b)
		}
	}
}

func TestParseDelimiter(t *testing.T) {
	for _, v := range []struct {
		in       string
		expected rune
	}{
		{"", 0},
		{",", ','},
		{";", ';'},
		{"|", '|'},
		{`\t`, '\t'},
		{"\t", '\t'},
	} {
		delim, err := ParseDelimiter(v.in)
		if err != nil {
			t.Fatalf("%q: %v", v.in, err)
		}
		if delim != v.expected {
			t.Fatalf("%q: got %q, expected %q", v.in, delim, v.expected)
		}
	}

	for _, bad := range []string{"ab", ",,", `\n`} {
		if _, err := ParseDelimiter(bad); err == nil {
			t.Fatalf("expected an error for %q", bad)
		}
	}
}

func TestLoadFixQuotes(t *testing.T) {
	in := "cell_id,Gene_A,Note\n" + `cell1,5,"tumor \"core\""` + "\n"

	path := filepath.Join(t.TempDir(), "quoted.csv")
	if err := os.WriteFile(path, []byte(in), 0o644); err != nil {
		t.Fatal(err)
	}

	// Without repair the \" escape corrupts the quoted field.
	if _, err := Load(path, nil, Options{Ignore: []string{"Note"}}); err == nil {
		t.Fatal("expected a parse error without quote repair")
	}

	m, err := Load(path, nil, Options{Ignore: []string{"Note"}, FixQuotes: true})
	if err != nil {
		t.Fatal(err)
	}

	if values := m.Values("Gene_A"); len(values) != 1 || values[0] != 5 {
		t.Fatalf("Gene_A values %v", values)
	}
}
