package main

import (
	"sort"
	"strings"
)

// map[gene] => set of flags
type GeneFlags map[string]flagSet

func (g GeneFlags) AddFlag(gene, flag string) {
	set, exists := g[gene]
	if !exists {
		set = make(flagSet)
	}
	set[flag] = struct{}{}
	g[gene] = set
}

type flagSet map[string]struct{}

func (fs flagSet) String() string {
	if len(fs) == 0 {
		return ""
	}

	sb := make([]string, 0, len(fs))
	for v := range fs {
		sb = append(sb, v)
	}

	sort.Strings(sb)

	return strings.Join(sb, "|")
}
