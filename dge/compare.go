package dge

import (
	"fmt"

	"github.com/carbocation/exprdiff/expression"
	"github.com/carbocation/exprdiff/ztest"
)

// Options configures Compare.
type Options struct {
	// Confidence is the level for all intervals and the significance
	// call; 0 means ztest.DefaultConfidence.
	Confidence float64

	// Genes optionally restricts the comparison to the named genes. The
	// output order still follows the first table.
	Genes []string
}

// Compare runs a per-gene two-sample z-test of table a against table b over
// the genes both tables share, ordered by first appearance in a. Genes
// present in only one table are skipped silently; a shared gene with no
// usable values in one of the tables is an error, as is an empty
// intersection.
func Compare(a, b *expression.Matrix, opts Options) ([]Row, error) {
	shared := a.Intersect(b)

	if len(opts.Genes) > 0 {
		keep := make(map[string]struct{}, len(opts.Genes))
		for _, gene := range opts.Genes {
			keep[gene] = struct{}{}
		}

		kept := make([]string, 0, len(shared))
		for _, gene := range shared {
			if _, ok := keep[gene]; ok {
				kept = append(kept, gene)
			}
		}
		shared = kept
	}

	if len(shared) == 0 {
		return nil, fmt.Errorf("the two tables share no genes to compare")
	}

	rows := make([]Row, 0, len(shared))
	for _, gene := range shared {
		row, err := compareGene(gene, a, b, opts.Confidence)
		if err != nil {
			return nil, err
		}

		rows = append(rows, row)
	}

	return rows, nil
}

func compareGene(gene string, a, b *expression.Matrix, confidence float64) (Row, error) {
	va := a.Values(gene)
	vb := b.Values(gene)

	if len(va) == 0 {
		return Row{}, fmt.Errorf("gene %s has no usable values in the first table (%d cells, all missing)", gene, a.Missing(gene))
	}
	if len(vb) == 0 {
		return Row{}, fmt.Errorf("gene %s has no usable values in the second table (%d cells, all missing)", gene, b.Missing(gene))
	}

	res, err := ztest.Compare(va, vb, confidence)
	if err != nil {
		return Row{}, fmt.Errorf("gene %s: %w", gene, err)
	}

	ivA, err := ztest.MeanInterval(va, confidence)
	if err != nil {
		return Row{}, fmt.Errorf("gene %s: %w", gene, err)
	}

	ivB, err := ztest.MeanInterval(vb, confidence)
	if err != nil {
		return Row{}, fmt.Errorf("gene %s: %w", gene, err)
	}

	return Row{
		Gene:        gene,
		MeanA:       res.MeanA,
		MeanB:       res.MeanB,
		MeanDiff:    res.Diff,
		CILow:       res.CILow,
		CIHigh:      res.CIHigh,
		ZStat:       res.Z,
		P:           res.P,
		Significant: res.Significant(),
		CIDisjoint:  ivA.Defined() && ivB.Defined() && !ivA.Intersects(ivB),
	}, nil
}
