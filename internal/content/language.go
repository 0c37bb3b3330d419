package content

import "strings"

var extensionLanguages = map[string]string{
	"py":         "python",
	"js":         "javascript",
	"ts":         "typescript",
	"jsx":        "javascript",
	"tsx":        "typescript",
	"java":       "java",
	"cpp":        "cpp",
	"c":          "c",
	"h":          "c",
	"cs":         "csharp",
	"php":        "php",
	"rb":         "ruby",
	"go":         "go",
	"rs":         "rust",
	"swift":      "swift",
	"kt":         "kotlin",
	"scala":      "scala",
	"html":       "html",
	"css":        "css",
	"scss":       "scss",
	"json":       "json",
	"yaml":       "yaml",
	"yml":        "yaml",
	"toml":       "toml",
	"xml":        "xml",
	"sql":        "sql",
	"sh":         "bash",
	"bash":       "bash",
	"md":         "markdown",
	"dockerfile": "dockerfile",
}

// LanguageFromExtension maps a file extension, with or without the leading
// dot, to a code fence language tag. Unknown extensions map to "".
func LanguageFromExtension(extension string) string {
	return extensionLanguages[strings.ToLower(strings.TrimPrefix(extension, "."))]
}
