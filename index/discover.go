// Package index keeps a persistent symbol index of the Swift files in a
// workspace.
package index

import (
	"context"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/kelly-lin/swift-lang-server/lang"
)

// Directory names that never hold workspace sources.
var ignoredDirs = map[string]bool{
	".build": true, ".git": true, ".hg": true, ".svn": true,
	".swiftpm": true, ".idea": true, ".vscode": true, "Carthage": true,
	"DerivedData": true, "Pods": true, "build": true, "node_modules": true,
	"xcuserdata": true,
}

func isExcluded(name, rel string, exclude []string) bool {
	for _, pattern := range exclude {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks root and returns the absolute paths of all Swift files in
// lexical order. Exclude patterns are matched against both the base name and
// the slash separated path relative to root. Unreadable directories are
// skipped.
func Discover(ctx context.Context, root string, exclude []string) ([]string, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var files []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			if path == root {
				return walkErr
			}
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(root, path)
		rel = filepath.ToSlash(rel)
		if d.IsDir() {
			if path != root && (ignoredDirs[d.Name()] || isExcluded(d.Name(), rel, exclude)) {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() || !strings.EqualFold(filepath.Ext(path), lang.FileExtension) {
			return nil
		}
		if isExcluded(d.Name(), rel, exclude) {
			return nil
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}
