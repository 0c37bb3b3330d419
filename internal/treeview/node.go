// Package treeview builds and renders the ASCII directory overview of a package.
package treeview

import "sort"

// Kind distinguishes the two node variants.
type Kind string

const (
	KindDirectory Kind = "directory"
	KindLeaf      Kind = "file"
)

// Node is either a *Directory or a *Leaf. The unexported method keeps the set
// of variants closed to this package.
type Node interface {
	Name() string
	Kind() Kind
	sealed()
}

// Directory is an internal node owning its children by name.
type Directory struct {
	name     string
	children map[string]Node
}

// Leaf is a file.
type Leaf struct {
	name string
}

// NewDirectory returns an empty directory node.
func NewDirectory(name string) *Directory {
	return &Directory{name: name, children: make(map[string]Node)}
}

// NewLeaf returns a file node.
func NewLeaf(name string) *Leaf {
	return &Leaf{name: name}
}

func (directory *Directory) Name() string { return directory.name }
func (directory *Directory) Kind() Kind   { return KindDirectory }
func (*Directory) sealed()                {}

func (leaf *Leaf) Name() string { return leaf.name }
func (leaf *Leaf) Kind() Kind   { return KindLeaf }
func (*Leaf) sealed()           {}

// Len returns the number of direct children.
func (directory *Directory) Len() int {
	return len(directory.children)
}

// Child returns the direct child with the given name, or nil.
func (directory *Directory) Child(name string) Node {
	return directory.children[name]
}

// Children returns the direct children in render order: directories first,
// then files, each group sorted by name.
func (directory *Directory) Children() []Node {
	ordered := make([]Node, 0, len(directory.children))
	for _, child := range directory.children {
		ordered = append(ordered, child)
	}
	sort.Slice(ordered, func(left, right int) bool {
		leftIsDirectory := ordered[left].Kind() == KindDirectory
		rightIsDirectory := ordered[right].Kind() == KindDirectory
		if leftIsDirectory != rightIsDirectory {
			return leftIsDirectory
		}
		return ordered[left].Name() < ordered[right].Name()
	})
	return ordered
}

func (directory *Directory) set(child Node) {
	directory.children[child.Name()] = child
}
