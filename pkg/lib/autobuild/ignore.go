package autobuild

import (
	"path/filepath"
	"strings"
)

func (w *Watcher) ignored(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil || rel == "." {
		return false
	}
	return matchIgnore(filepath.ToSlash(rel), w.ignore)
}

// matchIgnore reports whether rel (slash separated) is covered by a pattern.
// "node_modules" ignores that name anywhere; "convex/_generated" ignores the
// subtree; "*.log" ignores matching files anywhere.
func matchIgnore(rel string, patterns []string) bool {
	parts := strings.Split(rel, "/")
	for _, pattern := range patterns {
		pattern = strings.Trim(pattern, "/")
		if pattern == "" {
			continue
		}
		if rel == pattern || strings.HasPrefix(rel, pattern+"/") {
			return true
		}
		if ok, _ := filepath.Match(pattern, rel); ok {
			return true
		}
		if strings.Contains(pattern, "/") {
			continue
		}
		for _, part := range parts {
			if ok, _ := filepath.Match(pattern, part); ok {
				return true
			}
		}
	}
	return false
}
