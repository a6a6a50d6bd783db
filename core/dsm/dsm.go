// Package dsm builds the dependency structure matrix of the children of a tree node.
//
// File to file edges are rolled up to the level of the node's immediate children. Every matrix is
// upper triangular: a cell sits on the row of the earlier entry and points Offset entries forward,
// whatever the direction of the underlying dependency.
package dsm

import (
	"cmp"
	"slices"

	"github.com/RoaringBitmap/roaring/v2"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
	"gonum.org/v1/gonum/graph/simple"
	"gonum.org/v1/gonum/graph/topo"
)

// DefaultThreshold is the largest subtree, in distinct components counting the node itself,
// that gets a matrix.
const DefaultThreshold = 200

// Builder computes matrices for the DIRECTORY, MODULE and PROJECT nodes of a tree.
type Builder struct {
	Threshold int
}

// Result is the matrix of one node with its rolled-up dependencies.
type Result struct {
	Node    *tree.Component
	Entries []*tree.Component // participating children in tree order
	Data    schema.DsmData
	Rollups []schema.Rollup
	Cycles  int // strongly connected groups of more than one child
	Tangled int // children that belong to such a group
	Skipped bool
}

// Buildable reports whether a component type can carry a matrix.
func Buildable(t schema.ComponentType) bool {
	return t == schema.ProjectComponent || t == schema.ModuleComponent || t == schema.DirectoryComponent
}

func (b Builder) threshold() int {
	if b.Threshold <= 0 {
		return DefaultThreshold
	}
	return b.Threshold
}

// BuildAll returns the results of every node that has at least one rolled-up dependency, plus
// the nodes skipped by the size guard, in tree pre-order. Each edge is handed only to the deepest
// node containing both of its ends, since that is the only level where they are siblings.
func (b Builder) BuildAll(t *tree.Tree, deps []schema.Dependency) []*Result {
	if t.Root().Type.IsViewFamily() {
		return nil
	}
	byNode := map[int][]schema.Dependency{}
	for _, d := range deps {
		from, to, ok := endpoints(t, d)
		if !ok {
			continue
		}
		lca := t.CommonAncestor(from, to)
		byNode[lca.Ref] = append(byNode[lca.Ref], d)
	}

	sizes := subtreeSizes(t, t.Root())
	var results []*Result
	_ = t.Walk(tree.PreOrder, func(c *tree.Component) error {
		group, ok := byNode[c.Ref]
		if !ok || !Buildable(c.Type) {
			return nil
		}
		if r, ok := b.build(t, c, group, sizes[c.Ref]); ok || (r != nil && r.Skipped) {
			results = append(results, r)
		}
		return nil
	})
	return results
}

// Build computes the matrix of one node. It returns false when the node has no rolled-up
// dependency or when its subtree holds more distinct components than the threshold; the
// result is then nil or marked Skipped.
func (b Builder) Build(t *tree.Tree, node *tree.Component, deps []schema.Dependency) (*Result, bool) {
	return b.build(t, node, deps, subtreeSizes(t, node)[node.Ref])
}

func (b Builder) build(t *tree.Tree, node *tree.Component, deps []schema.Dependency, size uint64) (*Result, bool) {
	// 1. Size guard over the whole subtree
	if size > uint64(b.threshold()) {
		return &Result{Node: node, Skipped: true}, false
	}

	// 2. Accumulate edges between two different children
	type pair struct{ from, to int }
	weights := map[pair]int{}
	for _, d := range deps {
		from, to, ok := endpoints(t, d)
		if !ok {
			continue
		}
		fromChild, ok := t.ChildContaining(node, from)
		if !ok {
			continue
		}
		toChild, ok := t.ChildContaining(node, to)
		if !ok || fromChild.Ref == toChild.Ref {
			continue
		}
		weights[pair{fromChild.Ref, toChild.Ref}] += d.Weight
	}
	if len(weights) == 0 {
		return nil, false
	}

	// 3. Participating children in tree order
	res := &Result{Node: node}
	position := map[int]int{}
	for _, child := range t.Children(node) {
		for p := range weights {
			if p.from == child.Ref || p.to == child.Ref {
				position[child.Ref] = len(res.Entries)
				res.Entries = append(res.Entries, child)
				break
			}
		}
	}

	// 4. Forward cells, one per unordered pair, weighted by the rolled-up edges they stand for
	cells := make([]map[int]int, len(res.Entries)) // row -> offset -> edges
	for p, w := range weights {
		a, z := position[p.from], position[p.to]
		res.Rollups = append(res.Rollups, schema.Rollup{From: p.from, To: p.to, Weight: w, Offset: abs(z - a)})
		row, offset := min(a, z), abs(z-a)
		if cells[row] == nil {
			cells[row] = map[int]int{}
		}
		cells[row][offset]++
	}
	slices.SortFunc(res.Rollups, func(x, y schema.Rollup) int {
		return cmp.Or(cmp.Compare(position[x.From], position[y.From]), cmp.Compare(position[x.To], position[y.To]))
	})
	for i, entry := range res.Entries {
		row := schema.DsmRow{UUID: entry.UUID}
		offsets := make([]int, 0, len(cells[i]))
		for offset := range cells[i] {
			offsets = append(offsets, offset)
		}
		slices.Sort(offsets)
		for _, offset := range offsets {
			row.Cells = append(row.Cells, schema.DsmCell{Weight: cells[i][offset], Offset: offset})
		}
		res.Data.Rows = append(res.Data.Rows, row)
	}

	res.Cycles, res.Tangled = cycles(res.Rollups)
	return res, true
}

// subtreeSizes returns the number of distinct components below and including every node of the
// subtree rooted at start. Bitmaps are merged bottom-up so each node is visited once.
func subtreeSizes(t *tree.Tree, start *tree.Component) map[int]uint64 {
	bitmaps := map[int]*roaring.Bitmap{}
	sizes := map[int]uint64{}
	_ = t.WalkFrom(start, tree.PostOrder, func(c *tree.Component) error {
		bm := roaring.New()
		bm.Add(uint32(c.Ref))
		for _, child := range t.Children(c) {
			bm.Or(bitmaps[child.Ref])
			delete(bitmaps, child.Ref)
		}
		bitmaps[c.Ref] = bm
		sizes[c.Ref] = bm.GetCardinality()
		return nil
	})
	return sizes
}

// endpoints resolves both ends of an edge. Edges touching unknown components or unit test files
// are ignored.
func endpoints(t *tree.Tree, d schema.Dependency) (*tree.Component, *tree.Component, bool) {
	from, ok := t.ByRef(d.From)
	if !ok || from.IsUnitTest {
		return nil, nil, false
	}
	to, ok := t.ByRef(d.To)
	if !ok || to.IsUnitTest || from.Ref == to.Ref {
		return nil, nil, false
	}
	return from, to, true
}

// cycles counts the strongly connected groups of the rollup graph and their members.
func cycles(rollups []schema.Rollup) (int, int) {
	g := simple.NewDirectedGraph()
	for _, r := range rollups {
		for _, id := range []int64{int64(r.From), int64(r.To)} {
			if g.Node(id) == nil {
				g.AddNode(simple.Node(id))
			}
		}
		g.SetEdge(simple.Edge{F: simple.Node(r.From), T: simple.Node(r.To)})
	}
	var groups, members int
	for _, scc := range topo.TarjanSCC(g) {
		if len(scc) > 1 {
			groups++
			members += len(scc)
		}
	}
	return groups, members
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
