// internal/importer/renamer.go
package importer

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/vmunix/mediar/internal/metadata"
)

// Default naming templates. Segments are separated by '/'.
const (
	DefaultMovieTemplate  = "{title} ({year})/{title} ({year}).{ext}"
	DefaultSeriesTemplate = "{show} ({year})/Season {season:02}/{show} - S{season:02}E{episode:02} - {episode_title}.{ext}"
)

// Renamer applies naming templates to generate file paths.
type Renamer struct {
	movieTemplate  string
	seriesTemplate string
}

// NewRenamer creates a new Renamer with the given templates.
// Empty strings use default templates.
func NewRenamer(movieTemplate, seriesTemplate string) *Renamer {
	if movieTemplate == "" {
		movieTemplate = DefaultMovieTemplate
	}
	if seriesTemplate == "" {
		seriesTemplate = DefaultSeriesTemplate
	}
	return &Renamer{
		movieTemplate:  movieTemplate,
		seriesTemplate: seriesTemplate,
	}
}

// MoviePath generates the relative path for a movie file.
func (r *Renamer) MoviePath(movie *metadata.Movie, ext string) string {
	return applyTemplate(r.movieTemplate, map[string]any{
		"title": SanitizeFilename(movie.Title),
		"year":  movie.Year,
		"ext":   ext,
	})
}

// EpisodePath generates the relative path for an episode file.
func (r *Renamer) EpisodePath(show *metadata.Show, ep metadata.Episode, ext string) string {
	return applyTemplate(r.seriesTemplate, map[string]any{
		"show":          SanitizeFilename(show.Title),
		"year":          show.Year,
		"season":        ep.Season,
		"episode":       ep.Number,
		"episode_title": SanitizeFilename(ep.Title),
		"ext":           ext,
	})
}

// Destination joins the templated path for a match onto root and checks
// that it stays inside root.
func (r *Renamer) Destination(root string, record metadata.Record, m MatchResult) (string, error) {
	var rel string
	switch {
	case m.Episode != nil:
		show, ok := record.(*metadata.Show)
		if !ok {
			return "", fmt.Errorf("episode match against %T", record)
		}
		rel = r.EpisodePath(show, *m.Episode, m.File.Ext)
	case m.Movie != nil:
		rel = r.MoviePath(m.Movie, m.File.Ext)
	default:
		return "", fmt.Errorf("unmatched file %s", m.File.Path)
	}

	dest := filepath.Join(root, filepath.FromSlash(rel))
	if err := ValidatePath(dest, root); err != nil {
		return "", fmt.Errorf("%w: %s", err, rel)
	}
	return dest, nil
}

// formatPattern matches {name} or {name:02} style placeholders.
var formatPattern = regexp.MustCompile(`\{(\w+)(?::(\d+))?\}`)

// emptyGroup matches a placeholder with the separator that only exists for
// it: "({year})" or " - {episode_title}".
var emptyGroup = regexp.MustCompile(`\s*\(\s*\{(\w+)(?::(\d+))?\}\s*\)|\s+-\s+\{(\w+)(?::(\d+))?\}`)

// applyTemplate substitutes variables into each '/'-separated segment of a
// template. A placeholder that renders empty takes its parentheses or " - "
// separator with it; substituted values are never edited.
// Zero integers substitute as empty so "({year})" disappears when unknown.
func applyTemplate(template string, vars map[string]any) string {
	segments := strings.Split(template, "/")
	for i, seg := range segments {
		seg = emptyGroup.ReplaceAllStringFunc(seg, func(match string) string {
			m := emptyGroup.FindStringSubmatch(match)
			val, ok := vars[m[1]+m[3]]
			if ok && formatValue(val, m[2]+m[4]) == "" {
				return ""
			}
			return match
		})
		seg = formatPattern.ReplaceAllStringFunc(seg, func(match string) string {
			parts := formatPattern.FindStringSubmatch(match)
			val, ok := vars[parts[1]]
			if !ok {
				return match
			}
			return formatValue(val, parts[2])
		})
		segments[i] = strings.TrimSpace(seg)
	}
	return strings.Join(segments, "/")
}

// formatValue renders one placeholder value. width zero-pads integers.
func formatValue(val any, width string) string {
	n, isInt := val.(int)
	if !isInt {
		return fmt.Sprintf("%v", val)
	}
	if width != "" {
		w, _ := strconv.Atoi(width)
		return fmt.Sprintf("%0*d", w, n)
	}
	if n == 0 {
		return ""
	}
	return strconv.Itoa(n)
}
