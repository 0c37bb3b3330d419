// Package gitinfo reads HEAD metadata of the git work tree that holds a directory.
package gitinfo

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/temirov/rcpack/internal/types"
)

const (
	gitExecutableName = "git"
	// CommandTimeout bounds every git invocation.
	CommandTimeout = 30 * time.Second

	disallowedSubcommandFormat = "git subcommand not allowed: %q"
	gitCommandFailedFormat     = "git %s: %w"
	insideWorkTreeOutput       = "true"
)

var allowedSubcommands = map[string]struct{}{
	"rev-parse": {},
	"show":      {},
	"log":       {},
	"status":    {},
	"branch":    {},
	"config":    {},
}

// CommandRunner executes a git subcommand inside a directory and returns its trimmed output.
type CommandRunner interface {
	Run(ctx context.Context, directory string, arguments ...string) (string, error)
}

// ExecRunner runs the git executable found on PATH.
type ExecRunner struct{}

// Run executes git with the given arguments in directory.
func (ExecRunner) Run(ctx context.Context, directory string, arguments ...string) (string, error) {
	timeoutContext, cancel := context.WithTimeout(ctx, CommandTimeout)
	defer cancel()
	command := exec.CommandContext(timeoutContext, gitExecutableName, arguments...)
	command.Dir = directory
	var standardOutput bytes.Buffer
	command.Stdout = &standardOutput
	if err := command.Run(); err != nil {
		return "", err
	}
	return strings.TrimSpace(strings.ToValidUTF8(standardOutput.String(), "�")), nil
}

// Collector gathers repository metadata through a CommandRunner.
type Collector struct {
	runner CommandRunner
}

// NewCollector returns a Collector backed by runner. A nil runner selects ExecRunner.
func NewCollector(runner CommandRunner) *Collector {
	if runner == nil {
		runner = ExecRunner{}
	}
	return &Collector{runner: runner}
}

// IsRepository reports whether directory is inside a git work tree.
func (collector *Collector) IsRepository(ctx context.Context, directory string) bool {
	output, err := collector.git(ctx, directory, "rev-parse", "--is-inside-work-tree")
	return err == nil && output == insideWorkTreeOutput
}

// Collect returns HEAD metadata for directory. Any git failure yields the
// not-a-repository info instead of an error.
func (collector *Collector) Collect(ctx context.Context, directory string) types.RepositoryInfo {
	if !collector.IsRepository(ctx, directory) {
		return types.NotRepository()
	}
	queries := [][]string{
		{"rev-parse", "HEAD"},
		{"rev-parse", "--abbrev-ref", "HEAD"},
		{"show", "-s", "--format=%an <%ae>"},
		{"show", "-s", "--date=local", "--format=%ad"},
	}
	answers := make([]string, 0, len(queries))
	for _, query := range queries {
		output, err := collector.git(ctx, directory, query...)
		if err != nil {
			return types.NotRepository()
		}
		answers = append(answers, output)
	}
	return types.RepositoryInfo{
		IsRepository: true,
		Commit:       &answers[0],
		Branch:       &answers[1],
		Author:       &answers[2],
		Date:         &answers[3],
	}
}

func (collector *Collector) git(ctx context.Context, directory string, arguments ...string) (string, error) {
	if len(arguments) == 0 {
		return "", fmt.Errorf(disallowedSubcommandFormat, "")
	}
	if _, allowed := allowedSubcommands[arguments[0]]; !allowed {
		return "", fmt.Errorf(disallowedSubcommandFormat, arguments[0])
	}
	output, err := collector.runner.Run(ctx, directory, arguments...)
	if err != nil {
		return "", fmt.Errorf(gitCommandFailedFormat, arguments[0], err)
	}
	return output, nil
}
