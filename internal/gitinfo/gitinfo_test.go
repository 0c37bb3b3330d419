package gitinfo

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

type scriptedRunner struct {
	responses map[string]string
	failures  map[string]bool
	calls     []string
}

func (runner *scriptedRunner) Run(_ context.Context, _ string, arguments ...string) (string, error) {
	key := strings.Join(arguments, " ")
	runner.calls = append(runner.calls, key)
	if runner.failures[key] {
		return "", errors.New("exit status 128")
	}
	return runner.responses[key], nil
}

func repositoryResponses() map[string]string {
	return map[string]string{
		"rev-parse --is-inside-work-tree":   "true",
		"rev-parse HEAD":                    "0123abcd",
		"rev-parse --abbrev-ref HEAD":       "main",
		"show -s --format=%an <%ae>":        "Ada Lovelace <ada@example.com>",
		"show -s --date=local --format=%ad": "Mon Oct 19 10:00:00 2026",
	}
}

func TestCollectReportsHeadMetadata(t *testing.T) {
	runner := &scriptedRunner{responses: repositoryResponses()}
	info := NewCollector(runner).Collect(context.Background(), "/repo")
	if !info.IsRepository || info.Note != nil {
		t.Fatalf("expected repository info, got %+v", info)
	}
	expected := map[string]*string{
		"0123abcd":                       info.Commit,
		"main":                           info.Branch,
		"Ada Lovelace <ada@example.com>": info.Author,
		"Mon Oct 19 10:00:00 2026":       info.Date,
	}
	for value, field := range expected {
		if field == nil || *field != value {
			t.Fatalf("expected field %q, got %v", value, field)
		}
	}
}

func TestCollectFallsBackToNote(t *testing.T) {
	testCases := []struct {
		name   string
		runner *scriptedRunner
	}{
		{
			name:   "outside_work_tree",
			runner: &scriptedRunner{responses: map[string]string{"rev-parse --is-inside-work-tree": "false"}},
		},
		{
			name:   "git_unavailable",
			runner: &scriptedRunner{failures: map[string]bool{"rev-parse --is-inside-work-tree": true}},
		},
		{
			name:   "no_commits_yet",
			runner: &scriptedRunner{responses: repositoryResponses(), failures: map[string]bool{"rev-parse HEAD": true}},
		},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			info := NewCollector(testCase.runner).Collect(context.Background(), "/repo")
			if info.IsRepository || info.Commit != nil || info.Note == nil {
				t.Fatalf("expected not-a-repository info, got %+v", info)
			}
		})
	}
}

func TestGitRejectsDisallowedSubcommands(t *testing.T) {
	runner := &scriptedRunner{}
	collector := NewCollector(runner)
	for _, arguments := range [][]string{{"push", "origin"}, {"clone", "x"}, {}} {
		if _, err := collector.git(context.Background(), "/repo", arguments...); err == nil {
			t.Fatalf("expected %v to be rejected", arguments)
		}
	}
	if len(runner.calls) != 0 {
		t.Fatalf("expected no git invocations, got %v", runner.calls)
	}
}

func TestExecRunnerAgainstRealRepository(t *testing.T) {
	if _, err := exec.LookPath(gitExecutableName); err != nil {
		t.Skip("git executable not available")
	}
	repositoryDirectory := t.TempDir()
	setupCommands := [][]string{
		{"init", "-q"},
		{"-c", "user.name=Test User", "-c", "user.email=test@example.com", "commit", "-q", "--allow-empty", "-m", "initial"},
	}
	for _, arguments := range setupCommands {
		command := exec.Command(gitExecutableName, arguments...)
		command.Dir = repositoryDirectory
		if output, err := command.CombinedOutput(); err != nil {
			t.Skipf("git setup failed: %v: %s", err, output)
		}
	}
	collector := NewCollector(nil)
	if !collector.IsRepository(context.Background(), repositoryDirectory) {
		t.Fatalf("expected %s to be a repository", repositoryDirectory)
	}
	info := collector.Collect(context.Background(), repositoryDirectory)
	if !info.IsRepository || info.Author == nil || *info.Author != "Test User <test@example.com>" {
		t.Fatalf("unexpected repository info %+v", info)
	}

	plainDirectory := filepath.Join(t.TempDir(), "plain")
	if err := os.MkdirAll(plainDirectory, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	// A temp directory may itself sit inside a work tree on some machines.
	if NewCollector(nil).IsRepository(context.Background(), plainDirectory) {
		t.Skip("temporary directory is inside a git work tree")
	}
	if info := collector.Collect(context.Background(), plainDirectory); info.IsRepository {
		t.Fatalf("expected plain directory to report no repository")
	}
}
