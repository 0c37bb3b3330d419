package packager

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/temirov/rcpack/internal/discover"
	"github.com/temirov/rcpack/internal/types"
)

const (
	errorAbsolutePathFormat = "resolve path '%s': %w"
	errorPathMissingFormat  = "path '%s' does not exist"
	errorStatFormat         = "stat path '%s': %w"
	errorNoInputs           = "no input paths provided"
)

// ResolveAndValidatePaths converts inputs to canonical absolute form and
// verifies that each exists. Repeated inputs are kept once.
func ResolveAndValidatePaths(inputs []string) ([]types.ValidatedPath, error) {
	seen := make(map[string]struct{})
	var result []types.ValidatedPath
	for _, inputPath := range inputs {
		absolutePath, absolutePathError := filepath.Abs(inputPath)
		if absolutePathError != nil {
			return nil, fmt.Errorf(errorAbsolutePathFormat, inputPath, absolutePathError)
		}
		info, fileStatusError := os.Stat(absolutePath)
		if fileStatusError != nil {
			if os.IsNotExist(fileStatusError) {
				return nil, fmt.Errorf(errorPathMissingFormat, inputPath)
			}
			return nil, fmt.Errorf(errorStatFormat, inputPath, fileStatusError)
		}
		canonicalPath := discover.CanonicalPath(absolutePath)
		if _, ok := seen[canonicalPath]; ok {
			continue
		}
		seen[canonicalPath] = struct{}{}
		result = append(result, types.ValidatedPath{AbsolutePath: canonicalPath, IsDir: info.IsDir()})
	}
	if len(result) == 0 {
		return nil, errors.New(errorNoInputs)
	}
	return result, nil
}

// FindRoot returns the directory every input is reported relative to. A lone
// directory is its own root; otherwise the root is the deepest directory that
// contains every input, where a file contributes its parent directory.
func FindRoot(paths []types.ValidatedPath) string {
	if len(paths) == 0 {
		return ""
	}
	if len(paths) == 1 && paths[0].IsDir {
		return paths[0].AbsolutePath
	}
	directories := make([]string, 0, len(paths))
	for _, validatedPath := range paths {
		if validatedPath.IsDir {
			directories = append(directories, validatedPath.AbsolutePath)
			continue
		}
		directories = append(directories, filepath.Dir(validatedPath.AbsolutePath))
	}
	return commonDirectory(directories)
}

func commonDirectory(directories []string) string {
	common := splitPath(directories[0])
	for _, directory := range directories[1:] {
		components := splitPath(directory)
		sharedLength := 0
		for sharedLength < len(common) && sharedLength < len(components) && common[sharedLength] == components[sharedLength] {
			sharedLength++
		}
		common = common[:sharedLength]
	}
	volume := filepath.VolumeName(directories[0])
	return volume + string(filepath.Separator) + filepath.Join(common...)
}

func splitPath(directory string) []string {
	trimmed := strings.TrimPrefix(filepath.Clean(directory), filepath.VolumeName(directory))
	var components []string
	for _, component := range strings.Split(trimmed, string(filepath.Separator)) {
		if component != "" {
			components = append(components, component)
		}
	}
	return components
}
