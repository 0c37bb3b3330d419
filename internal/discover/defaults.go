package discover

import "strings"

var (
	defaultIncludeExtensions = []string{
		".py", ".js", ".ts", ".jsx", ".tsx", ".java", ".cpp", ".c", ".h",
		".cs", ".php", ".rb", ".go", ".rs", ".swift", ".kt", ".scala",
		".html", ".css", ".scss", ".sass", ".less", ".vue", ".svelte",
		".md", ".txt", ".rst", ".yaml", ".yml", ".json", ".toml", ".ini",
		".cfg", ".conf", ".xml", ".sql", ".sh", ".bash", ".zsh", ".fish",
	}

	defaultIncludeNames = []string{
		"README", "LICENSE", "CHANGELOG", "CONTRIBUTING", "Makefile",
		"requirements.txt", "package.json", "Cargo.toml", "pyproject.toml",
		"setup.py", "setup.cfg", "pom.xml", "build.gradle", ".gitignore", ".gitattributes",
	}

	defaultSkipDirectoryNames = []string{
		".git", ".svn", ".hg", "__pycache__", ".pytest_cache",
		"node_modules", ".venv", "venv", "env", ".env",
		"build", "dist", "target", "out", ".next", ".nuxt",
		".idea", ".vscode", ".vs", "coverage", ".coverage",
	}
)

// Tables holds the fixed allow-lists used when no include patterns are given,
// together with the directory names whose subtrees are never scanned.
type Tables struct {
	// Extensions are lower-case file extensions including the leading dot.
	Extensions map[string]struct{}
	// Names are exact base names included regardless of extension.
	Names map[string]struct{}
	// SkipDirectories are directory names pruned from every traversal.
	SkipDirectories map[string]struct{}
}

// DefaultTables returns a fresh copy of the built-in tables.
// Callers may modify the returned maps without affecting other callers.
func DefaultTables() Tables {
	return Tables{
		Extensions:      newNameSet(defaultIncludeExtensions),
		Names:           newNameSet(defaultIncludeNames),
		SkipDirectories: newNameSet(defaultSkipDirectoryNames),
	}
}

// IsSkippedDirectory reports whether a path component names a pruned directory.
func (tables Tables) IsSkippedDirectory(name string) bool {
	_, skipped := tables.SkipDirectories[name]
	return skipped
}

// allowsByDefault reports whether a base name passes the default allow-lists.
func (tables Tables) allowsByDefault(baseName string) bool {
	if _, named := tables.Names[baseName]; named {
		return true
	}
	_, allowedExtension := tables.Extensions[strings.ToLower(extensionOf(baseName))]
	return allowedExtension
}

// extensionOf returns the suffix starting at the final dot of baseName.
// A name consisting of a single leading dot segment (".gitignore") has no extension.
func extensionOf(baseName string) string {
	dotIndex := strings.LastIndex(baseName, ".")
	if dotIndex <= 0 {
		return ""
	}
	return baseName[dotIndex:]
}

func newNameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, name := range names {
		set[name] = struct{}{}
	}
	return set
}
