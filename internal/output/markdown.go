package output

import (
	"fmt"
	"strings"

	"github.com/temirov/rcpack/internal/types"
)

const (
	markdownTitleFormat        = "# Repository Context: %s"
	markdownGitHeading         = "## Git Repository Information"
	markdownRepositoryHeading  = "## Repository Information"
	markdownSummaryHeading     = "## Summary"
	markdownStructureHeading   = "## Directory Structure"
	markdownContentsHeading    = "## File Contents"
	markdownFileHeadingFormat  = "### %s"
	markdownFieldFormat        = "- **%s**: %s"
	markdownMissingValue       = "N/A"
	markdownFence              = "```"
	markdownFenceCharacter     = '`'
	markdownMinimumFenceLength = 3
	markdownTotalFilesLabel    = "Total Files"
	markdownTotalLinesLabel    = "Total Lines"
	markdownTotalSizeLabel     = "Total Size"
	markdownTotalTokensLabel   = "Total Tokens"
	markdownModelLabel         = "Model"
	markdownNoteLabel          = "Note"
	markdownBranchLabel        = "Branch"
	markdownCommitLabel        = "Commit"
	markdownAuthorLabel        = "Author"
	markdownDateLabel          = "Date"
)

// RenderMarkdown lays the document out as a Markdown report: git information,
// summary, the directory tree in a fenced block, then every file in a fenced
// block tagged with its language.
func RenderMarkdown(document types.PackageDocument) string {
	lines := []string{fmt.Sprintf(markdownTitleFormat, document.Root), ""}

	repositoryInfo := document.RepositoryInfo
	if repositoryInfo.IsRepository {
		lines = append(lines,
			markdownGitHeading,
			field(markdownBranchLabel, valueOrMissing(repositoryInfo.Branch)),
			field(markdownCommitLabel, valueOrMissing(repositoryInfo.Commit)),
			field(markdownAuthorLabel, valueOrMissing(repositoryInfo.Author)),
			field(markdownDateLabel, valueOrMissing(repositoryInfo.Date)),
		)
	} else {
		note := types.NotRepositoryNote
		if repositoryInfo.Note != nil {
			note = *repositoryInfo.Note
		}
		lines = append(lines, markdownRepositoryHeading, field(markdownNoteLabel, note))
	}
	lines = append(lines, "")

	summary := document.Summary
	lines = append(lines,
		markdownSummaryHeading,
		field(markdownTotalFilesLabel, fmt.Sprint(summary.TotalFiles)),
		field(markdownTotalLinesLabel, fmt.Sprint(summary.TotalLines)),
	)
	if summary.TotalSize != "" {
		lines = append(lines, field(markdownTotalSizeLabel, summary.TotalSize))
	}
	if summary.Model != "" {
		lines = append(lines,
			field(markdownTotalTokensLabel, fmt.Sprint(summary.TotalTokens)),
			field(markdownModelLabel, summary.Model),
		)
	}
	lines = append(lines, "")

	lines = append(lines, markdownStructureHeading, markdownFence, document.Structure, markdownFence, "")

	lines = append(lines, markdownContentsHeading, "")
	for _, section := range document.Files {
		heading := fmt.Sprintf(markdownFileHeadingFormat, section.Path)
		fence := fenceFor(section.Content)
		lines = append(lines, heading, "", fence+section.Language, section.Content, fence, "")
	}

	return strings.Join(lines, "\n")
}

func field(label, value string) string {
	return fmt.Sprintf(markdownFieldFormat, label, value)
}

func valueOrMissing(value *string) string {
	if value == nil || *value == "" {
		return markdownMissingValue
	}
	return *value
}

// fenceFor returns a backtick fence longer than any backtick run in body.
func fenceFor(body string) string {
	longestRun := 0
	currentRun := 0
	for index := 0; index < len(body); index++ {
		if body[index] == markdownFenceCharacter {
			currentRun++
			if currentRun > longestRun {
				longestRun = currentRun
			}
			continue
		}
		currentRun = 0
	}
	if longestRun < markdownMinimumFenceLength {
		return markdownFence
	}
	return strings.Repeat(string(markdownFenceCharacter), longestRun+1)
}
