package dsm

import (
	"cmp"
	"slices"

	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
)

// Index lists the direct dependencies declared from each file.
type Index struct {
	outgoing map[int][]schema.Dependency
}

// NewIndex merges the declared edges by source and target. Unit test files and unknown refs
// are ignored, like in the matrices.
func NewIndex(t *tree.Tree, deps []schema.Dependency) *Index {
	merged := map[[2]int]int{}
	for _, d := range deps {
		from, to, ok := endpoints(t, d)
		if !ok || from.Type != schema.FileComponent {
			continue
		}
		merged[[2]int{from.Ref, to.Ref}] += d.Weight
	}
	idx := &Index{outgoing: map[int][]schema.Dependency{}}
	for k, w := range merged {
		idx.outgoing[k[0]] = append(idx.outgoing[k[0]], schema.Dependency{From: k[0], To: k[1], Weight: w})
	}
	for _, list := range idx.outgoing {
		slices.SortFunc(list, func(a, b schema.Dependency) int { return cmp.Compare(a.To, b.To) })
	}
	return idx
}

// DirectDependencies returns the edges leaving a file, ordered by target ref.
func (i *Index) DirectDependencies(ref int) []schema.Dependency {
	return i.outgoing[ref]
}

// Len returns the number of files with at least one outgoing edge.
func (i *Index) Len() int {
	return len(i.outgoing)
}
