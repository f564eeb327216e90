// Package filesystem discovers schema files below input directories.
package filesystem

import (
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultIgnoreDirs are directories never searched for schemas
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", ".svn", ".hg",
	"dist", "build", "tmp",
	".idea", ".vscode",
}

// DefaultIncludePatterns match files treated as schema documents
var DefaultIncludePatterns = []string{"*.json", "*.yaml", "*.yml"}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs      []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns  []string // File patterns to skip (e.g., "package.json")
	IncludePatterns []string // File patterns to keep (default: DefaultIncludePatterns)
	IncludeHidden   bool     // Include hidden files/dirs (default: false)
}

// Walk traverses a directory tree with configurable ignore patterns.
// The visitor is called for every directory and every file that is not ignored.
// Return filepath.SkipDir from visitor to skip a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, info os.FileInfo) error) error {
	ignoreDirs := opts.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = DefaultIgnoreDirs
	}

	return filepath.Walk(rootPath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if !opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") && path != rootPath {
			if info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if info.IsDir() {
			if path != rootPath {
				for _, ignore := range ignoreDirs {
					if info.Name() == ignore {
						return filepath.SkipDir
					}
				}
			}
			return visitor(path, info)
		}

		if matchAny(opts.IgnorePatterns, info.Name()) {
			return nil
		}

		return visitor(path, info)
	})
}

// CollectFiles returns the files below rootPath matching the include
// patterns, sorted lexically so repeated runs register in the same order.
func CollectFiles(rootPath string, opts WalkOptions) ([]string, error) {
	include := opts.IncludePatterns
	if len(include) == 0 {
		include = DefaultIncludePatterns
	}

	var files []string
	err := Walk(rootPath, opts, func(path string, info os.FileInfo) error {
		if info.IsDir() {
			return nil
		}
		if matchAny(include, info.Name()) {
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(files)
	return files, nil
}

func matchAny(patterns []string, name string) bool {
	for _, pattern := range patterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
	}
	return false
}
