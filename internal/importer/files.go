// internal/importer/files.go
package importer

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/vmunix/mediar/internal/metadata"
	"github.com/vmunix/mediar/pkg/release"
)

// MediaKind classifies a recognized file.
type MediaKind int

const (
	KindUnknown MediaKind = iota
	KindVideo
	KindSubtitle
)

func (k MediaKind) String() string {
	switch k {
	case KindVideo:
		return "video"
	case KindSubtitle:
		return "subtitle"
	default:
		return "unknown"
	}
}

var videoExtensions = map[string]bool{
	"mp4": true, "mkv": true, "avi": true, "mov": true,
	"flv": true, "wmv": true, "webm": true,
}

var subtitleExtensions = map[string]bool{
	"srt": true,
}

// KindOf classifies path by its extension, case-insensitively.
func KindOf(path string) MediaKind {
	ext := extension(path)
	switch {
	case videoExtensions[ext]:
		return KindVideo
	case subtitleExtensions[ext]:
		return KindSubtitle
	default:
		return KindUnknown
	}
}

// IsVideoFile checks if a file has a video extension.
func IsVideoFile(path string) bool {
	return KindOf(path) == KindVideo
}

// IsSubtitleFile checks if a file has a subtitle extension.
func IsSubtitleFile(path string) bool {
	return KindOf(path) == KindSubtitle
}

// extension returns the lower-case extension without the dot.
func extension(path string) string {
	return strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))
}

// SourceFile is a candidate file discovered under the source path.
type SourceFile struct {
	Path   string // Absolute
	Kind   MediaKind
	Ext    string // Lower-case, no dot
	Tokens release.Tokens
	Sample bool // "sample" is a word of the name, or the parent directory

	// Episode is set by MatchShow when the file resolves to an episode.
	Episode *metadata.Episode
}

// NewSourceFile tokenizes path. It returns false for unrecognized extensions.
func NewSourceFile(path string) (*SourceFile, bool) {
	kind := KindOf(path)
	if kind == KindUnknown {
		return nil, false
	}
	return &SourceFile{
		Path:   path,
		Kind:   kind,
		Ext:    extension(path),
		Tokens: release.ParsePath(path),
		Sample: isSample(path),
	}, true
}

func isSample(path string) bool {
	if strings.EqualFold(filepath.Base(filepath.Dir(path)), "sample") {
		return true
	}
	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	words := strings.FieldsFunc(stem, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	for _, w := range words {
		if strings.EqualFold(w, "sample") {
			return true
		}
	}
	return false
}

// Scan collects recognized media files under root in lexical path order.
// root may be a single file. Hidden files and directories are skipped.
func Scan(root string) ([]*SourceFile, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", root, err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("stat source: %w", err)
	}
	if !info.IsDir() {
		f, ok := NewSourceFile(abs)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrNoMediaFiles, abs)
		}
		return []*SourceFile{f}, nil
	}

	var files []*SourceFile
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()
		if path != abs && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if f, ok := NewSourceFile(path); ok {
			files = append(files, f)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk directory: %w", err)
	}

	if len(files) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNoMediaFiles, abs)
	}
	return files, nil
}
