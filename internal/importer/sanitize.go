// internal/importer/sanitize.go
package importer

import (
	"path/filepath"
	"regexp"
	"strings"
	"unicode"
)

var (
	// unsafeChars are not allowed in filenames on common filesystems.
	unsafeChars = regexp.MustCompile(`[<>:"/\\|?*\x00]`)
	multiSpace  = regexp.MustCompile(`\s+`)
	multiDot    = regexp.MustCompile(`\.{2,}`)
)

// SanitizeFilename makes a metadata title safe to use as one path segment.
// Unsafe and control characters become spaces, runs of spaces and dots are
// collapsed, and leading/trailing dots and spaces are
// trimmed. The result never contains a path separator or "..".
func SanitizeFilename(name string) string {
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return ' '
		}
		return r
	}, name)
	name = unsafeChars.ReplaceAllString(name, " ")
	name = multiDot.ReplaceAllString(name, ".")
	name = multiSpace.ReplaceAllString(name, " ")
	return strings.Trim(name, " .")
}

// ValidatePath ensures path is root itself or lies beneath it.
// Returns ErrPathTraversal if the path would escape the root.
func ValidatePath(path, root string) error {
	rel, err := filepath.Rel(filepath.Clean(root), filepath.Clean(path))
	if err != nil {
		return ErrPathTraversal
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return ErrPathTraversal
	}
	return nil
}
