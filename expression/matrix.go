// Package expression reads single-cell expression tables into gene-keyed
// matrices. Tables may lay genes out as columns (one row per cell, the
// default) or as rows (one column per cell); either way the parsed Matrix
// groups all observed values by gene.
package expression

// Matrix holds expression values grouped by gene, preserving the order in
// which genes first appear in the source table.
type Matrix struct {
	genes   []string
	values  map[string][]float64
	missing map[string]int
}

func NewMatrix() *Matrix {
	return &Matrix{
		values:  make(map[string][]float64),
		missing: make(map[string]int),
	}
}

// AddGene registers a gene, initially with no values. Registering the same
// gene again is a no-op.
func (m *Matrix) AddGene(gene string) {
	if _, exists := m.values[gene]; exists {
		return
	}

	m.genes = append(m.genes, gene)
	m.values[gene] = nil
}

// Add appends one observed value for gene, registering the gene if needed.
func (m *Matrix) Add(gene string, value float64) {
	m.AddGene(gene)
	m.values[gene] = append(m.values[gene], value)
}

// AddMissing records that one of gene's cells held a missing-value marker.
func (m *Matrix) AddMissing(gene string) {
	m.AddGene(gene)
	m.missing[gene]++
}

// Has reports whether gene was seen in the table, even if all of its values
// were missing.
func (m *Matrix) Has(gene string) bool {
	_, exists := m.values[gene]
	return exists
}

// Genes returns all gene names in first-seen order.
func (m *Matrix) Genes() []string {
	return m.genes
}

// NumGenes returns the number of distinct genes.
func (m *Matrix) NumGenes() int {
	return len(m.genes)
}

// Values returns the observed (non-missing) values for gene, in table order.
func (m *Matrix) Values(gene string) []float64 {
	return m.values[gene]
}

// Missing returns how many of gene's cells held missing-value markers.
func (m *Matrix) Missing(gene string) int {
	return m.missing[gene]
}

// Intersect returns the genes present in both matrices, ordered by their
// first appearance in m.
func (m *Matrix) Intersect(other *Matrix) []string {
	shared := make([]string, 0, len(m.genes))
	for _, gene := range m.genes {
		if other.Has(gene) {
			shared = append(shared, gene)
		}
	}

	return shared
}
