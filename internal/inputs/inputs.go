// Package inputs expands caller-supplied file patterns into an ordered
// list of input paths. Glob matches are sorted lexically per pattern so
// shell-style sequences (clip001.mov, clip002.mov, ...) join in the
// order one would expect; literal paths must name existing regular
// files.
package inputs

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Expand resolves each pattern. Patterns containing glob metacharacters
// are matched against the filesystem and must match at least one regular
// file; anything else is treated as a literal path and must name an
// existing regular file. The final list keeps pattern order, with each
// pattern's matches sorted lexically.
func Expand(patterns []string) ([]string, error) {
	var all []string
	for _, pattern := range patterns {
		if !strings.ContainsAny(pattern, "*?[") {
			info, err := os.Stat(pattern)
			if err != nil {
				return nil, fmt.Errorf("input file %q: %w", pattern, err)
			}
			if !info.Mode().IsRegular() {
				return nil, fmt.Errorf("input %q is not a regular file", pattern)
			}
			all = append(all, pattern)
			continue
		}

		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		var files []string
		for _, m := range matches {
			info, err := os.Stat(m)
			if err != nil || !info.Mode().IsRegular() {
				continue
			}
			files = append(files, m)
		}
		if len(files) == 0 {
			return nil, fmt.Errorf("no files found matching pattern %q", pattern)
		}

		sort.Strings(files)
		all = append(all, files...)
	}

	if len(all) == 0 {
		return nil, fmt.Errorf("no input files specified")
	}
	return all, nil
}
