package treeview

import "strings"

const (
	// EmptyTreeSentinel is rendered in place of a tree without entries.
	EmptyTreeSentinel = "No files found"

	treeBranchConnector = "├── "
	treeLastConnector   = "└── "
	treeBranchPadding   = "│   "
	treeLastPadding     = "    "
)

// renderFrame tracks the position inside one directory's ordered children.
type renderFrame struct {
	children []Node
	next     int
	prefix   string
}

// Render draws the tree below root, one line per node, without a trailing
// newline. The root itself is not drawn.
func Render(root *Directory) string {
	if root == nil || root.Len() == 0 {
		return EmptyTreeSentinel
	}
	var lines []string
	frames := []*renderFrame{{children: root.Children()}}
	for len(frames) > 0 {
		frame := frames[len(frames)-1]
		if frame.next >= len(frame.children) {
			frames = frames[:len(frames)-1]
			continue
		}
		child := frame.children[frame.next]
		frame.next++
		isLast := frame.next == len(frame.children)

		connector, padding := treeBranchConnector, treeBranchPadding
		if isLast {
			connector, padding = treeLastConnector, treeLastPadding
		}
		lines = append(lines, frame.prefix+connector+child.Name())

		if directory, isDirectory := child.(*Directory); isDirectory {
			frames = append(frames, &renderFrame{
				children: directory.Children(),
				prefix:   frame.prefix + padding,
			})
		}
	}
	return strings.Join(lines, "\n")
}

// RenderPaths builds and renders the tree for paths in one step.
func RenderPaths(paths []string) string {
	root, _ := Build(paths)
	return Render(root)
}
