// internal/importer/renamer_test.go
package importer

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vmunix/mediar/internal/metadata"
)

func TestRenamer_MoviePath(t *testing.T) {
	r := NewRenamer("", "") // Use defaults

	tests := []struct {
		name  string
		movie metadata.Movie
		ext   string
		want  string
	}{
		{"basic movie", metadata.Movie{Title: "The Matrix", Year: 1999}, "mkv", "The Matrix (1999)/The Matrix (1999).mkv"},
		{"special chars", metadata.Movie{Title: "What If...?", Year: 2024}, "mp4", "What If (2024)/What If (2024).mp4"},
		{"colon", metadata.Movie{Title: "Star Wars: A New Hope", Year: 1977}, "mkv", "Star Wars A New Hope (1977)/Star Wars A New Hope (1977).mkv"},
		{"unknown year", metadata.Movie{Title: "Heat"}, "mkv", "Heat/Heat.mkv"},
		{"subtitle", metadata.Movie{Title: "Movie", Year: 2021}, "srt", "Movie (2021)/Movie (2021).srt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.MoviePath(&tt.movie, tt.ext))
		})
	}
}

func TestRenamer_EpisodePath(t *testing.T) {
	r := NewRenamer("", "") // Use defaults
	show := testShow(t)

	tests := []struct {
		name string
		ep   metadata.Episode
		ext  string
		want string
	}{
		{"basic episode", metadata.Episode{Season: 1, Number: 1, Title: "Pilot"}, "mkv",
			"Show (2020)/Season 01/Show - S01E01 - Pilot.mkv"},
		{"empty episode title", metadata.Episode{Season: 2, Number: 2}, "mkv",
			"Show (2020)/Season 02/Show - S02E02.mkv"},
		{"unsafe episode title", metadata.Episode{Season: 2, Number: 3, Title: "Finale: Part 1"}, "mkv",
			"Show (2020)/Season 02/Show - S02E03 - Finale Part 1.mkv"},
		{"specials", metadata.Episode{Season: 0, Number: 1, Title: "Behind the Scenes"}, "mkv",
			"Show (2020)/Season 00/Show - S00E01 - Behind the Scenes.mkv"},
		{"title ending in a dash", metadata.Episode{Season: 1, Number: 1, Title: "What?  Now -"}, "mkv",
			"Show (2020)/Season 01/Show - S01E01 - What Now -.mkv"},
		{"triple digit episode", metadata.Episode{Season: 1, Number: 101, Title: "Century"}, "mp4",
			"Show (2020)/Season 01/Show - S01E101 - Century.mp4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := r.EpisodePath(show, tt.ep, tt.ext)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, got, r.EpisodePath(show, tt.ep, tt.ext), "same input, same path")
		})
	}
}

func TestRenamer_EpisodePath_UnknownYear(t *testing.T) {
	show, err := metadata.NewShow(3, "Untitled: Show", 0, nil)
	require.NoError(t, err)

	got := NewRenamer("", "").EpisodePath(show, metadata.Episode{Season: 1, Number: 2, Title: "Two"}, "mkv")
	assert.Equal(t, "Untitled Show/Season 01/Untitled Show - S01E02 - Two.mkv", got)
}

func TestRenamer_CustomTemplate(t *testing.T) {
	r := NewRenamer("{title}.{ext}", "{show}/S{season}/{episode:03} {episode_title}.{ext}")

	assert.Equal(t, "Movie.mkv", r.MoviePath(testMovie(), "mkv"))
	assert.Equal(t, "Show/S1/002 Second.mkv",
		r.EpisodePath(testShow(t), metadata.Episode{Season: 1, Number: 2, Title: "Second"}, "mkv"))
}

func TestApplyTemplate_EmptyValues(t *testing.T) {
	tests := []struct {
		name     string
		template string
		vars     map[string]any
		want     string
	}{
		{"empty year drops parens", "{title} ({year}).{ext}", map[string]any{"title": "Heat", "year": 0, "ext": "mkv"}, "Heat.mkv"},
		{"empty string drops dash", "{show} - {episode_title}.{ext}", map[string]any{"show": "Show", "episode_title": "", "ext": "mkv"}, "Show.mkv"},
		{"padded zero is not empty", "{show} - {season:02}", map[string]any{"show": "Show", "season": 0}, "Show - 00"},
		{"literal parens in value kept", "{title} ({year})", map[string]any{"title": "Foo ()", "year": 2020}, "Foo () (2020)"},
		{"unknown placeholder kept", "{title} - {other}", map[string]any{"title": "T"}, "T - {other}"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, applyTemplate(tt.template, tt.vars))
		})
	}
}

func TestRenamer_Destination(t *testing.T) {
	root := filepath.Join(t.TempDir(), "Shows")
	r := NewRenamer("", "")
	show := testShow(t)

	results := MatchShow(show, sourceFiles(t, "/dl/Show.S01E01.mkv"))
	dest, err := r.Destination(root, show, results[0])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Show (2020)", "Season 01", "Show - S01E01 - Pilot.mkv"), dest)

	movie := testMovie()
	results = MatchMovie(movie, sourceFiles(t, "/dl/Movie.2021.mkv"))
	dest, err = r.Destination(root, movie, results[0])
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "Movie (2021)", "Movie (2021).mkv"), dest)
}

func TestRenamer_Destination_Errors(t *testing.T) {
	root := t.TempDir()

	t.Run("unmatched", func(t *testing.T) {
		m := MatchResult{File: sourceFiles(t, "/dl/x.mkv")[0], Reason: ReasonCannotDetermine}
		_, err := NewRenamer("", "").Destination(root, testShow(t), m)
		assert.Error(t, err)
	})

	t.Run("template escapes root", func(t *testing.T) {
		r := NewRenamer("../../{title}.{ext}", "")
		m := MatchMovie(testMovie(), sourceFiles(t, "/dl/Movie.mkv"))[0]
		_, err := r.Destination(root, testMovie(), m)
		assert.ErrorIs(t, err, ErrPathTraversal)
	})
}
