package main

import (
	"path"
	"strings"
)

// countLines returns the number of '\n' terminators, plus one for a
// trailing line that has no terminator. Empty content has zero lines.
func countLines(content string) int {
	n := strings.Count(content, "\n")
	if content != "" && !strings.HasSuffix(content, "\n") {
		n++
	}
	return n
}

// extensionOf returns the lowercased extension of the final path segment,
// including the dot. Dotfiles like ".gitignore" and names ending in a dot
// have no extension.
func extensionOf(p string) string {
	base := path.Base(p)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 || i == len(base)-1 {
		return ""
	}
	return strings.ToLower(base[i:])
}

// extensionLabel maps an empty extension to its display label.
func extensionLabel(ext string) string {
	if ext == "" {
		return noExtLabel
	}
	return ext
}

// topLevelDir returns the first path segment, or "." for files in the root.
func topLevelDir(p string) string {
	if i := strings.IndexByte(p, '/'); i >= 0 {
		return p[:i]
	}
	return rootDirLabel
}
