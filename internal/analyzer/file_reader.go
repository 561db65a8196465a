package analyzer

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"sort"
	"strings"
)

// ScanDirectory walks the root directory and finds route definition files
// (.yaml, .yml). Directories matching an exclude pattern are skipped.
// The result is sorted so routes load in a stable order.
func ScanDirectory(root string, excludePatterns []string) ([]string, error) {
	var files []string

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if p != root && strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}

			// Normalize path for matching (forward slashes)
			relPath, _ := filepath.Rel(root, p)
			relPath = filepath.ToSlash(relPath)

			for _, pat := range excludePatterns {
				if matchGlob(relPath, pat) {
					return filepath.SkipDir
				}
			}
			return nil
		}

		if IsRouteFile(p) {
			files = append(files, p)
		}
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("scan failed: %w", err)
	}

	sort.Strings(files)
	return files, nil
}

// matchGlob matches a slash-separated relative directory against a pattern.
// "**/name/**" matches the directory name at any depth; other patterns
// are matched with path.Match against the whole path and its last element.
func matchGlob(rel, pattern string) bool {
	pattern = filepath.ToSlash(strings.TrimSpace(pattern))
	if pattern == "" || rel == "." {
		return false
	}

	if strings.Contains(pattern, "**") {
		name := strings.Trim(strings.ReplaceAll(pattern, "**", ""), "/")
		if name == "" {
			return false
		}
		for _, part := range strings.Split(rel, "/") {
			if ok, _ := path.Match(name, part); ok {
				return true
			}
		}
		return false
	}

	if ok, _ := path.Match(pattern, rel); ok {
		return true
	}
	ok, _ := path.Match(pattern, path.Base(rel))
	return ok
}
