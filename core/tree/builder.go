package tree

import (
	"github.com/huangsam/gauge/schema"
)

// maxRef bounds refs so the ref index stays a dense slice.
const maxRef = 1 << 24

// Builder collects components and parent/child links, then validates them into a Tree.
type Builder struct {
	nodes []Component
	refs  map[int]int
	links [][2]int
}

// NewBuilder returns an empty builder.
func NewBuilder() *Builder {
	return &Builder{refs: make(map[int]int)}
}

// Add registers a component. Children are wired later with Link.
func (b *Builder) Add(c Component) error {
	if c.Ref <= 0 || c.Ref >= maxRef {
		return schema.Preconditionf(c.Key, "", c.Ref, "component ref must be between 1 and %d", maxRef-1)
	}
	if _, ok := schema.ValidComponentTypes[c.Type]; !ok {
		return schema.Preconditionf(c.Key, "", c.Type, "unknown component type")
	}
	if _, dup := b.refs[c.Ref]; dup {
		return schema.Preconditionf(c.Key, "", c.Ref, "component ref declared twice")
	}
	c.index = len(b.nodes)
	c.parent = -1
	c.children = nil
	b.refs[c.Ref] = c.index
	b.nodes = append(b.nodes, c)
	return nil
}

// Link records that childRef is a child of parentRef. Link order is the child order.
func (b *Builder) Link(parentRef, childRef int) {
	b.links = append(b.links, [2]int{parentRef, childRef})
}

// Build wires the links and checks the tree invariants: one root, one parent per component,
// no cycles, leaves without children, unique keys and a single type family.
func (b *Builder) Build() (*Tree, error) {
	if len(b.nodes) == 0 {
		return nil, &schema.PreconditionError{Reason: "component tree is empty"}
	}
	nodes := make([]Component, len(b.nodes))
	copy(nodes, b.nodes)

	for _, link := range b.links {
		pIdx, ok := b.refs[link[0]]
		if !ok {
			return nil, schema.Preconditionf("", "", link[0], "unknown parent ref")
		}
		cIdx, ok := b.refs[link[1]]
		if !ok {
			return nil, schema.Preconditionf(nodes[pIdx].Key, "", link[1], "unknown child ref")
		}
		parent, child := &nodes[pIdx], &nodes[cIdx]
		if pIdx == cIdx {
			return nil, schema.Preconditionf(parent.Key, "", parent.Ref, "component cannot be its own child")
		}
		if parent.Type.IsLeaf() {
			return nil, schema.Preconditionf(parent.Key, "", child.Ref, "%s component cannot have children", parent.Type)
		}
		if child.parent >= 0 {
			return nil, schema.Preconditionf(child.Key, "", child.Ref, "component has more than one parent")
		}
		child.parent = pIdx
		parent.children = append(parent.children, cIdx)
	}

	root := -1
	for i := range nodes {
		if nodes[i].parent >= 0 {
			continue
		}
		if root >= 0 {
			return nil, schema.Preconditionf(nodes[i].Key, "", nodes[i].Ref, "component tree has more than one root")
		}
		root = i
	}
	if root < 0 {
		return nil, &schema.PreconditionError{Reason: "component tree has no root"}
	}

	maxSeen := 0
	for i := range nodes {
		maxSeen = max(maxSeen, nodes[i].Ref)
	}
	t := &Tree{
		nodes:    nodes,
		refIndex: make([]int, maxSeen+1),
		keyIndex: make(map[string]int, len(nodes)),
		root:     root,
	}
	for i := range t.refIndex {
		t.refIndex[i] = -1
	}

	viewFamily := nodes[root].Type.IsViewFamily()
	visited := 0
	err := t.Walk(PreOrder, func(c *Component) error {
		visited++
		if c.parent >= 0 {
			c.depth = t.nodes[c.parent].depth + 1
		}
		if c.Type.IsViewFamily() != viewFamily {
			return schema.Preconditionf(c.Key, "", c.Type, "component type does not belong to the %s tree family", nodes[root].Type)
		}
		t.refIndex[c.Ref] = c.index
		if c.Key != "" {
			if _, dup := t.keyIndex[c.Key]; dup {
				return schema.Preconditionf(c.Key, "", c.Ref, "component key declared twice")
			}
			t.keyIndex[c.Key] = c.index
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	if visited != len(nodes) {
		// Every component has a parent but some are unreachable from the root.
		return nil, &schema.PreconditionError{Reason: "component tree contains a cycle"}
	}
	return t, nil
}
