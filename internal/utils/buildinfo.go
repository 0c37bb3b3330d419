package utils

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime/debug"
	"strings"
	"time"
)

const (
	unknownVersion         = "unknown"
	developmentVersion     = "(devel)"
	versionDescribeTimeout = 5 * time.Second
)

// GetApplicationVersion determines the rcpack version.
// Go build info wins; a source checkout falls back to git describe.
func GetApplicationVersion() string {
	buildInfo, buildInfoAvailable := debug.ReadBuildInfo()
	if buildInfoAvailable && buildInfo.Main.Version != "" && buildInfo.Main.Version != developmentVersion {
		return buildInfo.Main.Version
	}

	repositoryDirectory, repositoryLookupError := FindRepositoryRoot(".")
	if repositoryLookupError != nil {
		return unknownVersion
	}
	describeArgumentSets := [][]string{
		{"describe", "--tags", "--exact-match"},
		{"describe", "--tags", "--long", "--dirty"},
	}
	for _, describeArguments := range describeArgumentSets {
		if describedVersion := describeVersion(repositoryDirectory, describeArguments); describedVersion != "" {
			return describedVersion
		}
	}
	return unknownVersion
}

func describeVersion(repositoryDirectory string, describeArguments []string) string {
	describeContext, cancel := context.WithTimeout(context.Background(), versionDescribeTimeout)
	defer cancel()
	// #nosec G204
	describeCommand := exec.CommandContext(describeContext, "git", describeArguments...)
	describeCommand.Dir = repositoryDirectory
	describeOutput, describeError := describeCommand.Output()
	if describeError != nil {
		return ""
	}
	return strings.TrimSpace(string(describeOutput))
}

// FindRepositoryRoot searches upward from startDirectory for a directory containing
// a .git entry and returns that directory.
func FindRepositoryRoot(startDirectory string) (string, error) {
	absoluteStartDirectory, absoluteError := filepath.Abs(startDirectory)
	if absoluteError != nil {
		return "", fmt.Errorf("failed to get absolute path for %s: %w", startDirectory, absoluteError)
	}

	currentDirectory := absoluteStartDirectory
	for {
		if _, statError := os.Stat(filepath.Join(currentDirectory, GitDirectoryName)); statError == nil {
			return currentDirectory, nil
		}
		parentDirectory := filepath.Dir(currentDirectory)
		if parentDirectory == currentDirectory {
			break
		}
		currentDirectory = parentDirectory
	}

	return "", fmt.Errorf(".git directory not found in or above %s", absoluteStartDirectory)
}
