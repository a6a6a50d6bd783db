// Package tree holds the component tree of one analysis run.
//
// Components live in a flat arena and reference each other by arena index, so the tree has no
// pointer cycles and traversals are allocation-cheap. Refs are only meaningful within one run.
package tree

import (
	"github.com/huangsam/gauge/schema"
)

// Order selects the depth-first visiting order of a walk.
type Order int

const (
	// PreOrder visits a parent before its children.
	PreOrder Order = iota

	// PostOrder visits every child before its parent.
	PostOrder
)

// Component is one node of the analysis tree.
type Component struct {
	Ref        int
	UUID       string
	Key        string
	Type       schema.ComponentType
	Name       string
	Path       string
	Language   string // FILE only
	IsUnitTest bool   // FILE only

	index    int
	parent   int
	depth    int
	children []int
}

// IsLeaf reports whether the component carries raw measures only.
func (c *Component) IsLeaf() bool {
	return len(c.children) == 0
}

// Depth returns the distance from the root, which is at depth 0.
func (c *Component) Depth() int {
	return c.depth
}

// Tree is an immutable component hierarchy with a single root.
type Tree struct {
	nodes    []Component
	refIndex []int // ref -> arena index, -1 when unused
	keyIndex map[string]int
	root     int
}

// Root returns the root component.
func (t *Tree) Root() *Component {
	return &t.nodes[t.root]
}

// Len returns the number of components.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// ByRef returns the component with the given ref.
func (t *Tree) ByRef(ref int) (*Component, bool) {
	if ref <= 0 || ref >= len(t.refIndex) || t.refIndex[ref] < 0 {
		return nil, false
	}
	return &t.nodes[t.refIndex[ref]], true
}

// ByKey returns the component with the given key.
func (t *Tree) ByKey(key string) (*Component, bool) {
	idx, ok := t.keyIndex[key]
	if !ok {
		return nil, false
	}
	return &t.nodes[idx], true
}

// Parent returns the parent of c, or false for the root.
func (t *Tree) Parent(c *Component) (*Component, bool) {
	if c.parent < 0 {
		return nil, false
	}
	return &t.nodes[c.parent], true
}

// Children returns the children of c in report order.
func (t *Tree) Children(c *Component) []*Component {
	out := make([]*Component, len(c.children))
	for i, idx := range c.children {
		out[i] = &t.nodes[idx]
	}
	return out
}

// Components returns every component in pre-order.
func (t *Tree) Components() []*Component {
	out := make([]*Component, 0, len(t.nodes))
	_ = t.Walk(PreOrder, func(c *Component) error {
		out = append(out, c)
		return nil
	})
	return out
}

// Walk visits every component of the tree depth-first. It stops at the first error.
func (t *Tree) Walk(order Order, fn func(c *Component) error) error {
	return t.WalkFrom(t.Root(), order, fn)
}

// WalkFrom visits the subtree rooted at start depth-first. It stops at the first error.
func (t *Tree) WalkFrom(start *Component, order Order, fn func(c *Component) error) error {
	type frame struct {
		idx  int
		next int // next child position to descend into
	}
	stack := []frame{{idx: start.index}}
	if order == PreOrder {
		if err := fn(&t.nodes[start.index]); err != nil {
			return err
		}
	}
	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		node := &t.nodes[top.idx]
		if top.next < len(node.children) {
			child := node.children[top.next]
			top.next++
			if order == PreOrder {
				if err := fn(&t.nodes[child]); err != nil {
					return err
				}
			}
			stack = append(stack, frame{idx: child})
			continue
		}
		stack = stack[:len(stack)-1]
		if order == PostOrder {
			if err := fn(node); err != nil {
				return err
			}
		}
	}
	return nil
}

// Subtree returns the refs of every strict descendant of c.
func (t *Tree) Subtree(c *Component) []int {
	var refs []int
	_ = t.WalkFrom(c, PreOrder, func(d *Component) error {
		if d.index != c.index {
			refs = append(refs, d.Ref)
		}
		return nil
	})
	return refs
}

// ChildContaining returns the immediate child of node whose subtree holds descendant.
// It returns false when descendant is node itself or lies outside node's subtree.
func (t *Tree) ChildContaining(node, descendant *Component) (*Component, bool) {
	cur := descendant
	for cur.depth > node.depth+1 {
		cur = &t.nodes[cur.parent]
	}
	if cur.depth != node.depth+1 || cur.parent != node.index {
		return nil, false
	}
	return cur, true
}

// CommonAncestor returns the deepest component whose subtree holds both a and b.
func (t *Tree) CommonAncestor(a, b *Component) *Component {
	for a.depth > b.depth {
		a = &t.nodes[a.parent]
	}
	for b.depth > a.depth {
		b = &t.nodes[b.parent]
	}
	for a.index != b.index {
		a = &t.nodes[a.parent]
		b = &t.nodes[b.parent]
	}
	return a
}

// ComponentKey builds the effective key of a component from its module key, its path relative
// to the module and an optional branch qualifier.
func ComponentKey(moduleKey, path, branch string) string {
	key := moduleKey
	if branch != "" {
		key += ":" + branch
	}
	if path == "" {
		return key
	}
	return key + ":" + path
}
