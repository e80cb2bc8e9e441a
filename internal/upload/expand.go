package upload

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Expand resolves glob arguments (with ** support) into file paths.
// Arguments without glob characters are returned unchanged so that a
// missing file is reported by Select. Matches are de-duplicated.
func Expand(args ...string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	add := func(p string) {
		if !seen[p] {
			seen[p] = true
			paths = append(paths, p)
		}
	}

	for _, arg := range args {
		if !hasMeta(arg) {
			add(arg)
			continue
		}
		matches, err := doublestar.FilepathGlob(arg, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("bad pattern %q: %w", arg, err)
		}
		for _, m := range matches {
			add(filepath.Clean(m))
		}
	}
	return paths, nil
}

func hasMeta(s string) bool {
	return strings.ContainsAny(s, "*?[{")
}
