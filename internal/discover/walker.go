package discover

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/temirov/rcpack/internal/utils"
)

// SkipReason explains why a candidate did not make it into the result.
type SkipReason string

const (
	SkipReasonSkipDirectory SkipReason = "skip_directory"
	SkipReasonExcluded      SkipReason = "excluded"
	SkipReasonNotIncluded   SkipReason = "not_included"
	SkipReasonNotDefault    SkipReason = "not_default"
	SkipReasonUnreadable    SkipReason = "unreadable"
	SkipReasonNotRegular    SkipReason = "not_regular"
	SkipReasonMissing       SkipReason = "missing"
	SkipReasonOutsideRoot   SkipReason = "outside_root"
	SkipReasonDuplicate     SkipReason = "duplicate"
)

// SkippedEntry records a path the walker passed over.
type SkippedEntry struct {
	Path   string
	Reason SkipReason
	Err    error
}

// Result holds the discovered files and everything that was skipped on the way.
type Result struct {
	// Files are unique canonical absolute paths sorted ascending.
	Files []string
	// Skipped lists passed-over entries in traversal order.
	Skipped []SkippedEntry
}

// walker carries the state of one discovery run.
type walker struct {
	root          string
	policy        *Policy
	readDirectory func(string) ([]fs.DirEntry, error)
	statTarget    func(string) (fs.FileInfo, error)
	seen          map[string]struct{}
	files         []string
	skipped       []SkippedEntry
}

// Discover scans every input (file or directory) and returns the files that
// pass the skip-directory filter and the policy. Inputs that do not exist or
// cannot be read are recorded in Result.Skipped; Discover never fails.
func Discover(inputs []string, root string, policy *Policy) Result {
	return newWalker(root, policy).run(inputs)
}

func newWalker(root string, policy *Policy) *walker {
	if policy == nil {
		policy = NewDefaultPolicy(nil, nil)
	}
	return &walker{
		root:          CanonicalPath(root),
		policy:        policy,
		readDirectory: os.ReadDir,
		statTarget:    os.Stat,
		seen:          make(map[string]struct{}),
	}
}

func (state *walker) run(inputs []string) Result {
	for _, inputPath := range inputs {
		state.scanInput(inputPath)
	}
	sort.Strings(state.files)
	return Result{Files: state.files, Skipped: state.skipped}
}

// CanonicalPath returns the absolute, symlink-resolved, cleaned form of path.
// When resolution fails the cleaned absolute path is returned.
func CanonicalPath(path string) string {
	absolutePath, absoluteError := filepath.Abs(path)
	if absoluteError != nil {
		absolutePath = filepath.Clean(path)
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		return absolutePath
	}
	return resolvedPath
}

func (state *walker) scanInput(inputPath string) {
	absolutePath, absoluteError := filepath.Abs(inputPath)
	if absoluteError != nil {
		state.skip(inputPath, SkipReasonUnreadable, absoluteError)
		return
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(absolutePath)
	if resolveError != nil {
		state.skip(absolutePath, SkipReasonMissing, resolveError)
		return
	}
	info, statError := os.Stat(resolvedPath)
	if statError != nil {
		state.skip(resolvedPath, SkipReasonUnreadable, statError)
		return
	}
	switch {
	case info.Mode().IsRegular():
		state.considerFile(resolvedPath, false)
	case info.IsDir():
		state.scanDirectory(resolvedPath)
	default:
		state.skip(resolvedPath, SkipReasonNotRegular, nil)
	}
}

// scanDirectory enumerates regular files below directoryPath with an explicit
// stack. Symlinked directories are not followed; symlinked files are.
func (state *walker) scanDirectory(directoryPath string) {
	pendingDirectories := []string{directoryPath}
	for len(pendingDirectories) > 0 {
		lastIndex := len(pendingDirectories) - 1
		currentDirectory := pendingDirectories[lastIndex]
		pendingDirectories = pendingDirectories[:lastIndex]

		directoryEntries, readError := state.readDirectory(currentDirectory)
		if readError != nil {
			state.skip(currentDirectory, SkipReasonUnreadable, readError)
			continue
		}
		// Pushed in reverse so entries are visited in name order.
		for entryIndex := len(directoryEntries) - 1; entryIndex >= 0; entryIndex-- {
			directoryEntry := directoryEntries[entryIndex]
			entryPath := filepath.Join(currentDirectory, directoryEntry.Name())
			entryType := directoryEntry.Type()
			switch {
			case directoryEntry.IsDir():
				if state.policy.tables.IsSkippedDirectory(directoryEntry.Name()) {
					state.skip(entryPath, SkipReasonSkipDirectory, nil)
					continue
				}
				pendingDirectories = append(pendingDirectories, entryPath)
			case entryType&fs.ModeSymlink != 0:
				state.considerSymlink(entryPath)
			case entryType.IsRegular():
				state.considerFile(entryPath, true)
			default:
				state.skip(entryPath, SkipReasonNotRegular, nil)
			}
		}
	}
}

// considerSymlink selects a symlinked file by the link's own path and records
// it under the target's canonical path.
func (state *walker) considerSymlink(linkPath string) {
	targetInfo, statError := state.statTarget(linkPath)
	if statError != nil {
		state.skip(linkPath, SkipReasonUnreadable, statError)
		return
	}
	if !targetInfo.Mode().IsRegular() {
		state.skip(linkPath, SkipReasonNotRegular, nil)
		return
	}
	resolvedPath, resolveError := filepath.EvalSymlinks(linkPath)
	if resolveError != nil {
		state.skip(linkPath, SkipReasonUnreadable, resolveError)
		return
	}
	state.admit(linkPath, resolvedPath, true)
}

func (state *walker) considerFile(canonicalPath string, checkBaseName bool) {
	state.admit(canonicalPath, canonicalPath, checkBaseName)
}

// admit applies the skip-directory filter and the policy to selectionPath,
// then deduplicates and records canonicalPath. checkBaseName extends the
// skip-directory filter to the file's own name, which applies to files found
// by directory traversal.
func (state *walker) admit(selectionPath, canonicalPath string, checkBaseName bool) {
	if !utils.IsWithinRoot(utils.RelativePathOrSelf(canonicalPath, state.root)) {
		state.skip(canonicalPath, SkipReasonOutsideRoot, nil)
		return
	}
	relativePath := utils.RelativePathOrSelf(selectionPath, state.root)
	if !utils.IsWithinRoot(relativePath) {
		state.skip(selectionPath, SkipReasonOutsideRoot, nil)
		return
	}
	if state.hasSkippedComponent(relativePath, checkBaseName) {
		state.skip(selectionPath, SkipReasonSkipDirectory, nil)
		return
	}
	if decision := state.policy.Decide(relativePath); !decision.Included {
		state.skip(selectionPath, decision.Reason, nil)
		return
	}
	if _, duplicate := state.seen[canonicalPath]; duplicate {
		state.skip(canonicalPath, SkipReasonDuplicate, nil)
		return
	}
	state.seen[canonicalPath] = struct{}{}
	state.files = append(state.files, canonicalPath)
}

func (state *walker) hasSkippedComponent(relativePath string, checkBaseName bool) bool {
	components := strings.Split(relativePath, "/")
	if !checkBaseName {
		components = components[:len(components)-1]
	}
	for _, component := range components {
		if state.policy.tables.IsSkippedDirectory(component) {
			return true
		}
	}
	return false
}

func (state *walker) skip(path string, reason SkipReason, err error) {
	state.skipped = append(state.skipped, SkippedEntry{Path: path, Reason: reason, Err: err})
}
