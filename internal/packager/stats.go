package packager

import (
	"strconv"
	"strings"
	"time"

	"github.com/temirov/rcpack/internal/types"
)

const modifiedTimestampLayout = "2006-01-02 15:04"

var sizeUnits = [...]string{"b", "kb", "mb", "gb", "tb", "pb"}

// humanSize renders a byte count as 512b, 1.5kb or 10mb: one decimal below
// ten units, none from ten up, and never a trailing ".0".
func humanSize(byteCount int64) string {
	if byteCount < 1024 {
		return strconv.FormatInt(max(byteCount, 0), 10) + sizeUnits[0]
	}
	scaled := float64(byteCount)
	unit := 0
	for scaled >= 1024 && unit < len(sizeUnits)-1 {
		scaled /= 1024
		unit++
	}
	precision := 0
	if scaled < 10 {
		precision = 1
	}
	return strings.TrimSuffix(strconv.FormatFloat(scaled, 'f', precision, 64), ".0") + sizeUnits[unit]
}

// localTimestamp formats a modification time in the local zone for diagnostics.
func localTimestamp(moment time.Time) string {
	if moment.IsZero() {
		return ""
	}
	return moment.Local().Format(modifiedTimestampLayout)
}

// countLines counts newline-terminated lines plus a final unterminated one.
func countLines(text string) int {
	lines := strings.Count(text, "\n")
	if text != "" && !strings.HasSuffix(text, "\n") {
		lines++
	}
	return lines
}

// assemble folds the read sections into the document, its summary and the
// run statistics.
func assemble(root string, repositoryInfo types.RepositoryInfo, structure string, sections []*fileSection, modelName string, countTokens bool) (types.PackageDocument, types.PackageStats) {
	files := make([]types.FileSection, 0, len(sections))
	var stats types.PackageStats
	var totalSize int64
	var totalTokens int
	for _, entry := range sections {
		files = append(files, entry.section)
		stats.Lines += entry.lines
		stats.Chars += entry.chars
		totalSize += entry.section.SizeBytes
		totalTokens += entry.section.Tokens
	}
	stats.Files = len(files)

	summary := types.Summary{
		TotalFiles: stats.Files,
		TotalLines: stats.Lines,
		TotalSize:  humanSize(totalSize),
	}
	if countTokens {
		summary.TotalTokens = totalTokens
		summary.Model = modelName
	}
	return types.PackageDocument{
		Root:           root,
		RepositoryInfo: repositoryInfo,
		Structure:      structure,
		Files:          files,
		Summary:        summary,
	}, stats
}
