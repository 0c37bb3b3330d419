package treeview

import "strings"

const pathSeparator = "/"

// Collision records a path that put a node of one kind where a node of the
// other kind already existed. The later path always wins.
type Collision struct {
	Path        string
	Existing    Kind
	Replacement Kind
}

// Build turns forward-slash relative paths into a directory tree. Every
// component but the last becomes a Directory; the last becomes a Leaf. Empty
// and "." components are ignored. Kind collisions are resolved in favor of the
// later path and reported.
func Build(paths []string) (*Directory, []Collision) {
	root := NewDirectory("")
	var collisions []Collision
	for _, relativePath := range paths {
		components := splitComponents(relativePath)
		if len(components) == 0 {
			continue
		}
		currentDirectory := root
		for componentIndex, component := range components[:len(components)-1] {
			switch existing := currentDirectory.Child(component).(type) {
			case *Directory:
				currentDirectory = existing
				continue
			case *Leaf:
				collisions = append(collisions, Collision{
					Path:        strings.Join(components[:componentIndex+1], pathSeparator),
					Existing:    KindLeaf,
					Replacement: KindDirectory,
				})
			}
			createdDirectory := NewDirectory(component)
			currentDirectory.set(createdDirectory)
			currentDirectory = createdDirectory
		}
		leafName := components[len(components)-1]
		if existing, isDirectory := currentDirectory.Child(leafName).(*Directory); isDirectory {
			collisions = append(collisions, Collision{
				Path:        strings.Join(components, pathSeparator),
				Existing:    existing.Kind(),
				Replacement: KindLeaf,
			})
		}
		currentDirectory.set(NewLeaf(leafName))
	}
	return root, collisions
}

func splitComponents(relativePath string) []string {
	rawComponents := strings.Split(strings.ReplaceAll(relativePath, "\\", pathSeparator), pathSeparator)
	components := make([]string, 0, len(rawComponents))
	for _, component := range rawComponents {
		if component == "" || component == "." {
			continue
		}
		components = append(components, component)
	}
	return components
}
