package config

import (
	"path/filepath"
	"strings"
)

func samePath(a, b string) bool {
	return absPath(a) == absPath(b)
}

// containsPath reports whether child is parent or lies below it.
func containsPath(parent, child string) bool {
	rel, err := filepath.Rel(absPath(parent), absPath(child))
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

func absPath(p string) string {
	abs, err := filepath.Abs(p)
	if err != nil {
		return filepath.Clean(p)
	}
	return abs
}
