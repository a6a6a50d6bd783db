package tree

import (
	"errors"
	"testing"

	"github.com/huangsam/gauge/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// buildSample returns PROJECT(1) -> {DIR_A(2) -> FILE_A(3), DIR_B(4) -> {FILE_B(5), FILE_C(6)}}.
func buildSample(t *testing.T) *Tree {
	t.Helper()
	b := NewBuilder()
	require.NoError(t, b.Add(Component{Ref: 1, Key: "proj", Type: schema.ProjectComponent}))
	require.NoError(t, b.Add(Component{Ref: 2, Key: "proj:a", Type: schema.DirectoryComponent, Path: "a"}))
	require.NoError(t, b.Add(Component{Ref: 3, Key: "proj:a/A.go", Type: schema.FileComponent, Path: "a/A.go"}))
	require.NoError(t, b.Add(Component{Ref: 4, Key: "proj:b", Type: schema.DirectoryComponent, Path: "b"}))
	require.NoError(t, b.Add(Component{Ref: 5, Key: "proj:b/B.go", Type: schema.FileComponent, Path: "b/B.go"}))
	require.NoError(t, b.Add(Component{Ref: 6, Key: "proj:b/C.go", Type: schema.FileComponent, Path: "b/C.go"}))
	b.Link(1, 2)
	b.Link(2, 3)
	b.Link(1, 4)
	b.Link(4, 5)
	b.Link(4, 6)
	tr, err := b.Build()
	require.NoError(t, err)
	return tr
}

func refsOf(cs []*Component) []int {
	out := make([]int, len(cs))
	for i, c := range cs {
		out[i] = c.Ref
	}
	return out
}

func TestBuild_Lookups(t *testing.T) {
	tr := buildSample(t)

	assert.Equal(t, 6, tr.Len())
	assert.Equal(t, 1, tr.Root().Ref)
	assert.Equal(t, 0, tr.Root().Depth())

	c, ok := tr.ByRef(5)
	require.True(t, ok)
	assert.Equal(t, "proj:b/B.go", c.Key)
	assert.Equal(t, 2, c.Depth())
	assert.True(t, c.IsLeaf())

	parent, ok := tr.Parent(c)
	require.True(t, ok)
	assert.Equal(t, 4, parent.Ref)

	_, ok = tr.Parent(tr.Root())
	assert.False(t, ok)

	byKey, ok := tr.ByKey("proj:a")
	require.True(t, ok)
	assert.Equal(t, 2, byKey.Ref)

	_, ok = tr.ByRef(42)
	assert.False(t, ok)
	_, ok = tr.ByRef(0)
	assert.False(t, ok)
	_, ok = tr.ByKey("missing")
	assert.False(t, ok)

	assert.Equal(t, []int{2, 4}, refsOf(tr.Children(tr.Root())))
}

func TestWalk_Orders(t *testing.T) {
	tr := buildSample(t)

	var pre, post []int
	require.NoError(t, tr.Walk(PreOrder, func(c *Component) error {
		pre = append(pre, c.Ref)
		return nil
	}))
	require.NoError(t, tr.Walk(PostOrder, func(c *Component) error {
		post = append(post, c.Ref)
		return nil
	}))

	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, pre)
	assert.Equal(t, []int{3, 2, 5, 6, 4, 1}, post)
	assert.Equal(t, pre, refsOf(tr.Components()))
}

func TestWalk_StopsOnError(t *testing.T) {
	tr := buildSample(t)
	boom := errors.New("boom")

	var seen []int
	err := tr.Walk(PostOrder, func(c *Component) error {
		seen = append(seen, c.Ref)
		if c.Ref == 2 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, []int{3, 2}, seen)
}

func TestSubtreeAndAncestors(t *testing.T) {
	tr := buildSample(t)
	root := tr.Root()
	dirB, _ := tr.ByRef(4)
	fileA, _ := tr.ByRef(3)
	fileB, _ := tr.ByRef(5)
	fileC, _ := tr.ByRef(6)

	assert.Equal(t, []int{2, 3, 4, 5, 6}, tr.Subtree(root))
	assert.Equal(t, []int{5, 6}, tr.Subtree(dirB))
	assert.Empty(t, tr.Subtree(fileA))

	child, ok := tr.ChildContaining(root, fileB)
	require.True(t, ok)
	assert.Equal(t, 4, child.Ref)

	child, ok = tr.ChildContaining(dirB, fileC)
	require.True(t, ok)
	assert.Equal(t, 6, child.Ref)

	_, ok = tr.ChildContaining(dirB, fileA)
	assert.False(t, ok)
	_, ok = tr.ChildContaining(dirB, dirB)
	assert.False(t, ok)

	assert.Equal(t, 1, tr.CommonAncestor(fileA, fileB).Ref)
	assert.Equal(t, 4, tr.CommonAncestor(fileB, fileC).Ref)
	assert.Equal(t, 4, tr.CommonAncestor(dirB, fileC).Ref)
}

func TestBuild_Errors(t *testing.T) {
	type node struct {
		ref int
		typ schema.ComponentType
		key string
	}
	tests := []struct {
		name   string
		nodes  []node
		links  [][2]int
		addErr string
		reason string
	}{
		{
			name:   "non-positive ref",
			nodes:  []node{{0, schema.ProjectComponent, "p"}},
			addErr: "component ref must be between",
		},
		{
			name:   "duplicate ref",
			nodes:  []node{{1, schema.ProjectComponent, "p"}, {1, schema.FileComponent, "f"}},
			addErr: "component ref declared twice",
		},
		{
			name:   "unknown type",
			nodes:  []node{{1, schema.ComponentType("PACKAGE"), "p"}},
			addErr: "unknown component type",
		},
		{
			name:   "unknown child",
			nodes:  []node{{1, schema.ProjectComponent, "p"}},
			links:  [][2]int{{1, 9}},
			reason: "unknown child ref",
		},
		{
			name:   "two parents",
			nodes:  []node{{1, schema.ProjectComponent, "p"}, {2, schema.DirectoryComponent, "p:d"}, {3, schema.FileComponent, "p:d/f"}},
			links:  [][2]int{{1, 2}, {2, 3}, {1, 3}},
			reason: "component has more than one parent",
		},
		{
			name:   "two roots",
			nodes:  []node{{1, schema.ProjectComponent, "p"}, {2, schema.ProjectComponent, "q"}},
			reason: "component tree has more than one root",
		},
		{
			name:   "cycle",
			nodes:  []node{{1, schema.ProjectComponent, "p"}, {2, schema.DirectoryComponent, "p:a"}, {3, schema.DirectoryComponent, "p:b"}},
			links:  [][2]int{{2, 3}, {3, 2}},
			reason: "component tree contains a cycle",
		},
		{
			name:   "file with children",
			nodes:  []node{{1, schema.FileComponent, "p:f"}, {2, schema.FileComponent, "p:g"}},
			links:  [][2]int{{1, 2}},
			reason: "FILE component cannot have children",
		},
		{
			name:   "mixed families",
			nodes:  []node{{1, schema.ProjectComponent, "p"}, {2, schema.SubviewComponent, "sv"}},
			links:  [][2]int{{1, 2}},
			reason: "does not belong to the PROJECT tree family",
		},
		{
			name:   "duplicate key",
			nodes:  []node{{1, schema.ProjectComponent, "p"}, {2, schema.FileComponent, "p:f"}, {3, schema.FileComponent, "p:f"}},
			links:  [][2]int{{1, 2}, {1, 3}},
			reason: "component key declared twice",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBuilder()
			var addErr error
			for _, n := range tt.nodes {
				if err := b.Add(Component{Ref: n.ref, Type: n.typ, Key: n.key}); err != nil {
					addErr = err
					break
				}
			}
			if tt.addErr != "" {
				require.Error(t, addErr)
				assert.Contains(t, addErr.Error(), tt.addErr)
				return
			}
			require.NoError(t, addErr)
			for _, l := range tt.links {
				b.Link(l[0], l[1])
			}
			_, err := b.Build()
			require.Error(t, err)
			var pe *schema.PreconditionError
			require.True(t, errors.As(err, &pe))
			assert.Contains(t, pe.Error(), tt.reason)
		})
	}
}

func TestBuild_Empty(t *testing.T) {
	_, err := NewBuilder().Build()
	assert.EqualError(t, err, "component tree is empty")
}

func TestBuild_ViewTree(t *testing.T) {
	b := NewBuilder()
	require.NoError(t, b.Add(Component{Ref: 1, Key: "view", Type: schema.ViewComponent}))
	require.NoError(t, b.Add(Component{Ref: 2, Key: "view:sub", Type: schema.SubviewComponent}))
	require.NoError(t, b.Add(Component{Ref: 3, Key: "view:sub:p1", Type: schema.ProjectViewComponent}))
	b.Link(1, 2)
	b.Link(2, 3)
	tr, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, schema.ViewComponent, tr.Root().Type)
}

func TestComponentKey(t *testing.T) {
	tests := []struct {
		name                    string
		moduleKey, path, branch string
		expected                string
	}{
		{"module only", "org:proj", "", "", "org:proj"},
		{"module with branch", "org:proj", "", "dev", "org:proj:dev"},
		{"file", "org:proj", "src/main.go", "", "org:proj:src/main.go"},
		{"file with branch", "org:proj", "src/main.go", "dev", "org:proj:dev:src/main.go"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComponentKey(tt.moduleKey, tt.path, tt.branch))
		})
	}
}
