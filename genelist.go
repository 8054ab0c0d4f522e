package exprdiff

import (
	"bufio"
	"os"
	"strings"

	"github.com/carbocation/pfx"
)

// ReadGeneList reads a newline-delimited list of gene identifiers, for
// restricting a comparison to a subset of genes. Blank lines and lines
// starting with # are skipped, and repeated identifiers are collapsed,
// preserving first-seen order.
func ReadGeneList(path string) ([]string, error) {
	path, err := ExpandHome(path)
	if err != nil {
		return nil, err
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, pfx.Err(err)
	}
	defer file.Close()

	var genes []string
	seen := make(map[string]struct{})

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		gene := strings.TrimSpace(scanner.Text())
		if gene == "" || strings.HasPrefix(gene, "#") {
			continue
		}

		if _, exists := seen[gene]; exists {
			continue
		}
		seen[gene] = struct{}{}

		genes = append(genes, gene)
	}
	if err := scanner.Err(); err != nil {
		return nil, pfx.Err(err)
	}

	return genes, nil
}
