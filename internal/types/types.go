// Package types defines every cross‑package data structure used by the rcpack CLI.
package types

import "encoding/xml"

const (
	FormatMarkdown = "markdown"
	FormatJSON     = "json"
	FormatYAML     = "yaml"
	FormatXML      = "xml"

	// NotRepositoryNote is reported when the root is not inside a git work tree.
	NotRepositoryNote = "Not a git repository"
)

// formatAliases maps accepted spellings onto canonical format names.
var formatAliases = map[string]string{
	"markdown": FormatMarkdown,
	"md":       FormatMarkdown,
	"text":     FormatMarkdown,
	"json":     FormatJSON,
	"yaml":     FormatYAML,
	"yml":      FormatYAML,
	"xml":      FormatXML,
}

// NormalizeFormat resolves a user supplied format name to its canonical form.
// The second return value is false for unsupported formats.
func NormalizeFormat(format string) (string, bool) {
	canonical, known := formatAliases[format]
	return canonical, known
}

// ValidatedPath is an absolute input path that already passed existence checks.
type ValidatedPath struct {
	AbsolutePath string
	IsDir        bool
}

// RepositoryInfo describes the git state of the packaged root.
type RepositoryInfo struct {
	IsRepository bool    `json:"is_repo" yaml:"is_repo" xml:"isRepo"`
	Commit       *string `json:"commit" yaml:"commit" xml:"commit,omitempty"`
	Branch       *string `json:"branch" yaml:"branch" xml:"branch,omitempty"`
	Author       *string `json:"author" yaml:"author" xml:"author,omitempty"`
	Date         *string `json:"date" yaml:"date" xml:"date,omitempty"`
	Note         *string `json:"note" yaml:"note" xml:"note,omitempty"`
}

// NotRepository returns the info reported for roots outside a git work tree.
func NotRepository() RepositoryInfo {
	note := NotRepositoryNote
	return RepositoryInfo{Note: &note}
}

// FileSection is one packaged file.
type FileSection struct {
	Path        string `json:"path" yaml:"path" xml:"path"`
	Language    string `json:"language" yaml:"language" xml:"language"`
	Content     string `json:"content" yaml:"content" xml:"content"`
	IsTruncated bool   `json:"is_truncated" yaml:"is_truncated" xml:"isTruncated"`
	IsBinary    bool   `json:"-" yaml:"-" xml:"-"`
	SizeBytes   int64  `json:"-" yaml:"-" xml:"-"`
	Tokens      int    `json:"tokens,omitempty" yaml:"tokens,omitempty" xml:"tokens,omitempty"`
}

// Summary aggregates totals over the packaged files.
type Summary struct {
	TotalFiles  int    `json:"total_files" yaml:"total_files" xml:"totalFiles"`
	TotalLines  int    `json:"total_lines" yaml:"total_lines" xml:"totalLines"`
	TotalSize   string `json:"total_size,omitempty" yaml:"total_size,omitempty" xml:"totalSize,omitempty"`
	TotalTokens int    `json:"total_tokens,omitempty" yaml:"total_tokens,omitempty" xml:"totalTokens,omitempty"`
	Model       string `json:"model,omitempty" yaml:"model,omitempty" xml:"model,omitempty"`
}

// PackageDocument is the complete artifact handed to every renderer.
type PackageDocument struct {
	XMLName        xml.Name       `json:"-" yaml:"-" xml:"package"`
	Root           string         `json:"root" yaml:"root" xml:"root"`
	RepositoryInfo RepositoryInfo `json:"repo_info" yaml:"repo_info" xml:"repoInfo"`
	Structure      string         `json:"structure" yaml:"structure" xml:"structure"`
	Files          []FileSection  `json:"files" yaml:"files" xml:"files>file"`
	Summary        Summary        `json:"summary" yaml:"summary" xml:"summary"`
}

// PackageStats is reported back to the caller after a package is produced.
type PackageStats struct {
	Files int
	Lines int
	Chars int
}
