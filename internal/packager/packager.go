// Package packager turns a set of input paths into a packaged repository document.
package packager

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/temirov/rcpack/internal/content"
	"github.com/temirov/rcpack/internal/discover"
	"github.com/temirov/rcpack/internal/gitinfo"
	"github.com/temirov/rcpack/internal/tokenizer"
	"github.com/temirov/rcpack/internal/treeview"
	"github.com/temirov/rcpack/internal/types"
	"github.com/temirov/rcpack/internal/utils"
)

const (
	// RecentWindow is how far back --recent looks for modified files.
	RecentWindow = 7 * 24 * time.Hour

	binaryPlaceholderFormat = "[binary file skipped: %s, %d bytes]"
	truncationNoteFormat    = "\n\n[... TRUNCATED to first %d bytes ...]"

	tokenCounterErrorFormat = "initialize tokenizer: %w"
	countTokensErrorFormat  = "count tokens for %s: %w"

	logMessageSkipped       = "skipped path"
	logMessageCollision     = "tree path collision"
	logMessageReadFailed    = "error reading file"
	logMessageNotRecent     = "file not modified recently"
	logMessageStatFailed    = "stat failed during recent filter"
	logFieldPath            = "path"
	logFieldReason          = "reason"
	logFieldModified        = "modified"
	logFieldExistingKind    = "existing"
	logFieldReplacementKind = "replacement"
)

// Options configures one packaging run.
type Options struct {
	Inputs       []string
	Include      []string
	Exclude      []string
	MaxFileBytes int
	Recent       bool
	CountTokens  bool
	TokenModel   string
}

// Result is the outcome of Build.
type Result struct {
	Document  types.PackageDocument
	Stats     types.PackageStats
	Discovery discover.Result
}

// TreeResult is the outcome of Tree.
type TreeResult struct {
	Root       string
	Structure  string
	Files      []string
	Collisions []treeview.Collision
}

// CounterFactory builds a token counter for a model.
type CounterFactory func(model string) (tokenizer.Counter, string, error)

// Packager runs the discovery, tree and content pipeline.
type Packager struct {
	logger     *zap.Logger
	git        *gitinfo.Collector
	newCounter CounterFactory
	now        func() time.Time
}

// Option customizes a Packager.
type Option func(*Packager)

// WithGitCollector replaces the git metadata collector.
func WithGitCollector(collector *gitinfo.Collector) Option {
	return func(packager *Packager) {
		packager.git = collector
	}
}

// WithCounterFactory replaces the token counter constructor.
func WithCounterFactory(factory CounterFactory) Option {
	return func(packager *Packager) {
		packager.newCounter = factory
	}
}

// WithClock replaces the clock used by the recent-files filter.
func WithClock(now func() time.Time) Option {
	return func(packager *Packager) {
		packager.now = now
	}
}

// New constructs a Packager. A nil logger discards diagnostics.
func New(logger *zap.Logger, options ...Option) *Packager {
	if logger == nil {
		logger = zap.NewNop()
	}
	packager := &Packager{
		logger:     logger,
		git:        gitinfo.NewCollector(nil),
		newCounter: tokenizer.NewCounter,
		now:        time.Now,
	}
	for _, option := range options {
		option(packager)
	}
	return packager
}

// Tree discovers files and renders only the directory structure.
func (packager *Packager) Tree(options Options) (TreeResult, error) {
	root, files, err := packager.discoverRelative(options, nil)
	if err != nil {
		return TreeResult{}, err
	}
	treeRoot, collisions := treeview.Build(files)
	packager.logCollisions(collisions)
	return TreeResult{Root: root, Structure: treeview.Render(treeRoot), Files: files, Collisions: collisions}, nil
}

// Build produces the full package document for options.Inputs.
func (packager *Packager) Build(ctx context.Context, options Options) (Result, error) {
	var discovery discover.Result
	root, relativeFiles, err := packager.discoverRelative(options, &discovery)
	if err != nil {
		return Result{}, err
	}
	repositoryInfo := packager.git.Collect(ctx, root)

	var counter tokenizer.Counter
	var modelName string
	if options.CountTokens {
		counter, modelName, err = packager.newCounter(options.TokenModel)
		if err != nil {
			return Result{}, fmt.Errorf(tokenCounterErrorFormat, err)
		}
	}

	maxFileBytes := options.MaxFileBytes
	if maxFileBytes <= 0 {
		maxFileBytes = content.DefaultMaxFileBytes
	}

	treeRoot, collisions := treeview.Build(relativeFiles)
	packager.logCollisions(collisions)
	structure := treeview.Render(treeRoot)

	sections := make([]*fileSection, 0, len(relativeFiles))
	for _, relativePath := range relativeFiles {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		section, readErr := readSection(root, relativePath, maxFileBytes, counter)
		if readErr != nil {
			packager.logger.Warn(logMessageReadFailed, zap.String(logFieldPath, relativePath), zap.Error(readErr))
			continue
		}
		sections = append(sections, section)
	}

	document, stats := assemble(root, repositoryInfo, structure, sections, modelName, options.CountTokens)
	return Result{Document: document, Stats: stats, Discovery: discovery}, nil
}

// discoverRelative validates inputs, discovers files, applies the recent
// filter and returns the root with sorted root-relative paths.
func (packager *Packager) discoverRelative(options Options, discovery *discover.Result) (string, []string, error) {
	validatedPaths, err := ResolveAndValidatePaths(options.Inputs)
	if err != nil {
		return "", nil, err
	}
	root := FindRoot(validatedPaths)

	inputs := make([]string, 0, len(validatedPaths))
	for _, validatedPath := range validatedPaths {
		inputs = append(inputs, validatedPath.AbsolutePath)
	}
	policy := discover.NewDefaultPolicy(options.Include, options.Exclude)
	result := discover.Discover(inputs, root, policy)
	for _, skipped := range result.Skipped {
		packager.logger.Debug(logMessageSkipped,
			zap.String(logFieldPath, skipped.Path),
			zap.String(logFieldReason, string(skipped.Reason)),
			zap.Error(skipped.Err),
		)
	}
	if discovery != nil {
		*discovery = result
	}

	files := result.Files
	if options.Recent {
		files = packager.filterRecent(files)
	}
	relativeFiles := make([]string, 0, len(files))
	for _, filePath := range files {
		relativeFiles = append(relativeFiles, utils.RelativePathOrSelf(filePath, root))
	}
	return root, relativeFiles, nil
}

func (packager *Packager) filterRecent(files []string) []string {
	cutoff := packager.now().Add(-RecentWindow)
	recentFiles := make([]string, 0, len(files))
	for _, filePath := range files {
		info, err := os.Stat(filePath)
		if err != nil {
			packager.logger.Debug(logMessageStatFailed, zap.String(logFieldPath, filePath), zap.Error(err))
			continue
		}
		if info.ModTime().Before(cutoff) {
			packager.logger.Debug(logMessageNotRecent,
				zap.String(logFieldPath, filePath),
				zap.String(logFieldModified, localTimestamp(info.ModTime())),
			)
			continue
		}
		recentFiles = append(recentFiles, filePath)
	}
	return recentFiles
}

func (packager *Packager) logCollisions(collisions []treeview.Collision) {
	for _, collision := range collisions {
		packager.logger.Warn(logMessageCollision,
			zap.String(logFieldPath, collision.Path),
			zap.String(logFieldExistingKind, string(collision.Existing)),
			zap.String(logFieldReplacementKind, string(collision.Replacement)),
		)
	}
}

// fileSection is a read file together with its statistics.
type fileSection struct {
	section types.FileSection
	lines   int
	chars   int
}

func readSection(root, relativePath string, maxFileBytes int, counter tokenizer.Counter) (*fileSection, error) {
	absolutePath := filepath.Join(root, filepath.FromSlash(relativePath))
	info, err := os.Stat(absolutePath)
	if err != nil {
		return nil, err
	}
	section := types.FileSection{
		Path:      relativePath,
		Language:  content.LanguageFromExtension(filepath.Ext(relativePath)),
		SizeBytes: info.Size(),
	}

	isBinary, err := content.IsBinaryFile(absolutePath)
	if err != nil {
		return nil, err
	}
	if isBinary {
		section.IsBinary = true
		section.Content = fmt.Sprintf(binaryPlaceholderFormat, filepath.Base(absolutePath), info.Size())
		return &fileSection{section: section, chars: utf8.RuneCountInString(section.Content)}, nil
	}

	text, err := content.ReadText(absolutePath, maxFileBytes)
	if err != nil {
		return nil, err
	}
	result := &fileSection{lines: countLines(text.Content), chars: utf8.RuneCountInString(text.Content)}
	section.Content = text.Content
	if text.Truncated {
		note := fmt.Sprintf(truncationNoteFormat, maxFileBytes)
		section.Content += note
		section.IsTruncated = true
		result.chars += utf8.RuneCountInString(note)
	}
	if counter != nil {
		counted, countErr := tokenizer.CountText(counter, section.Content)
		if countErr != nil {
			return nil, fmt.Errorf(countTokensErrorFormat, relativePath, countErr)
		}
		section.Tokens = counted.Tokens
	}
	result.section = section
	return result, nil
}
