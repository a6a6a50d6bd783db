package agg

import (
	"github.com/huangsam/gauge/core/measure"
	"github.com/huangsam/gauge/core/metric"
	"github.com/huangsam/gauge/core/tree"
	"github.com/huangsam/gauge/schema"
)

// CountComponents writes the files and directories metrics. A FILE counts itself unless it is
// a unit test, a DIRECTORY counts itself and its sub-directories.
func CountComponents(t *tree.Tree, store *measure.Store) error {
	if t.Root().Type.IsViewFamily() {
		return nil
	}
	type counts struct{ files, dirs int }
	byRef := make(map[int]counts, t.Len())

	return t.Walk(tree.PostOrder, func(c *tree.Component) error {
		var n counts
		for _, child := range t.Children(c) {
			cc := byRef[child.Ref]
			n.files += cc.files
			n.dirs += cc.dirs
			delete(byRef, child.Ref)
		}
		switch c.Type {
		case schema.FileComponent:
			if !c.IsUnitTest {
				n.files = 1
			}
		case schema.DirectoryComponent:
			n.dirs++
		}
		byRef[c.Ref] = n

		if c.Type != schema.FileComponent || !c.IsUnitTest {
			putValue(store, c.Ref, metric.Files, measure.Int(n.files))
		}
		if c.Type != schema.FileComponent {
			putValue(store, c.Ref, metric.Directories, measure.Int(n.dirs))
		}
		return nil
	})
}
