package main

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/mediar/internal/importer"
	"github.com/vmunix/mediar/internal/metadata"
	"github.com/vmunix/mediar/internal/tmdb"
)

func episodePath(root string, n int, title string) string {
	return filepath.Join(root, "Show (2020)", "Season 01", fmt.Sprintf("Show - S01E%02d - %s.mkv", n, title))
}

func TestLink_Show(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.dir, "downloads")
	writeFile(t, filepath.Join(src, "Show.S01E01.720p.WEB-DL.mkv"), "one")
	writeFile(t, filepath.Join(src, "Show.S01E02.mkv"), "two")
	writeFile(t, filepath.Join(src, "notes.txt"), "ignored")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	out, err := env.run(t, "", "link", src, "--tv-id", "1", "--yes")
	require.NoError(t, err)

	assert.FileExists(t, episodePath(env.library, 1, "Pilot"))
	assert.FileExists(t, episodePath(env.library, 2, "Second"))
	assert.FileExists(t, filepath.Join(src, "Show.S01E01.720p.WEB-DL.mkv"), "link keeps source")
	assert.Contains(t, out, "Hard-link Show (2020) into "+env.library)
	assert.Contains(t, out, "Done: 2 succeeded, 0 skipped, 0 conflicts, 0 failed")
}

func TestLink_RerunIsNoOp(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.dir, "downloads")
	writeFile(t, filepath.Join(src, "Show.S01E01.mkv"), "one")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil).Times(2)

	_, err := env.run(t, "", "link", src, "--tv-id", "1", "--yes")
	require.NoError(t, err)

	out, err := env.run(t, "", "link", src, "--tv-id", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "in place")
	assert.Contains(t, out, "Nothing to do.")
}

func TestMove_AfterLinkRemovesSource(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.dir, "downloads")
	file := writeFile(t, filepath.Join(src, "Show.S01E01.mkv"), "one")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil).Times(2)

	_, err := env.run(t, "", "link", src, "--tv-id", "1", "--yes")
	require.NoError(t, err)

	out, err := env.run(t, "", "move", src, "--tv-id", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "(already linked)")
	assert.NotContains(t, out, "Nothing to do.")
	assert.Contains(t, out, "Done: 1 succeeded")
	assert.NoFileExists(t, file)
	assert.FileExists(t, episodePath(env.library, 1, "Pilot"))
}

func TestMove_ConfirmAccepted(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E02.mkv"), "two")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	out, err := env.run(t, "y\n", "move", src, "--tv-id", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Proceed with 1 operations? [y/N]")
	assert.NoFileExists(t, src)
	assert.FileExists(t, episodePath(env.library, 2, "Second"))
}

func TestCopy_ConfirmDeclined(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	out, err := env.run(t, "n\n", "copy", src, "--tv-id", "1")
	require.NoError(t, err)

	assert.Contains(t, out, "Aborted.")
	assert.NoFileExists(t, episodePath(env.library, 1, "Pilot"))
}

func TestOrganize_NotInteractiveRequiresYes(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	_, err := env.runWith(t, "", func(a *app) { a.interactive = func() bool { return false } },
		"link", src, "--tv-id", "1")
	require.ErrorIs(t, err, errNotInteractive)
	assert.NoFileExists(t, episodePath(env.library, 1, "Pilot"))
}

func TestOrganize_IDFlagsAreExclusive(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	_, err := env.run(t, "", "link", src, "--yes", "--tv-id", "1", "--movie-id", "2")
	assert.Error(t, err)
}

func TestOrganize_NoIDNeedsTerminal(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	_, err := env.runWith(t, "", func(a *app) { a.interactive = func() bool { return false } },
		"link", src, "--yes")
	require.ErrorIs(t, err, errSelectNeedsTerminal)
	assert.Empty(t, env.sources, "no provider built")
}

func TestOrganize_SelectShowInteractively(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.dir, "downloads")
	writeFile(t, filepath.Join(src, "Show.2020.S01E01.mkv"), "one")

	env.provider.EXPECT().Search(gomock.Any(), "Show").Return([]metadata.SearchResult{
		{ID: 9, Kind: metadata.KindMovie, Name: "Show", Popularity: 50},
		{ID: 2, Kind: metadata.KindTV, Name: "Show Business", Popularity: 20},
		{ID: 1, Kind: metadata.KindTV, Name: "Show", Year: 2020, Popularity: 10},
	}, nil)
	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	// Accept the detected kind and title, then pick the first row.
	out, err := env.run(t, "\n\n1\n", "link", src, "--yes")
	require.NoError(t, err)

	assert.Contains(t, out, "Choice [1]: ")
	assert.Contains(t, out, "Title [Show]: ")
	assert.Contains(t, out, "Selected: Show (ID: 1)")
	assert.NotContains(t, out, "ID: 9")
	assert.FileExists(t, episodePath(env.library, 1, "Pilot"))
}

func TestOrganize_SelectMovieOverridesDetection(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")
	target := filepath.Join(env.dir, "movies")

	env.provider.EXPECT().Search(gomock.Any(), "Movie").Return([]metadata.SearchResult{
		{ID: 7, Kind: metadata.KindMovie, Name: "Movie", Year: 2021, Popularity: 5},
	}, nil)
	env.provider.EXPECT().GetMovie(gomock.Any(), int64(7)).
		Return(&metadata.Movie{ID: 7, Title: "Movie", Year: 2021}, nil)

	out, err := env.run(t, "2\nMovie\n1\n", "copy", src, target, "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Selected: Movie (ID: 7)")
	assert.FileExists(t, filepath.Join(target, "Movie (2021)", "Movie (2021).mkv"))
}

func TestOrganize_InvalidSelection(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad kind", "3\n"},
		{"out of range", "\n\n5\n"},
		{"no answer", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")
			env.provider.EXPECT().Search(gomock.Any(), "Show").Return([]metadata.SearchResult{
				{ID: 1, Kind: metadata.KindTV, Name: "Show"},
			}, nil).MaxTimes(1)

			_, err := env.run(t, tt.input, "link", src, "--yes")
			require.ErrorIs(t, err, errNoSelection)
			assert.NoFileExists(t, episodePath(env.library, 1, "Pilot"))
		})
	}
}

func TestDetect(t *testing.T) {
	dir := t.TempDir()
	show := writeFile(t, filepath.Join(dir, "tv", "The.Show.S02E03.720p.mkv"), "x")
	movie := writeFile(t, filepath.Join(dir, "film", "Some.Movie.2019.1080p.mkv"), "x")

	d, err := detect(show)
	require.NoError(t, err)
	assert.Equal(t, detection{kind: metadata.KindTV, title: "The Show"}, d)

	d, err = detect(filepath.Dir(movie))
	require.NoError(t, err)
	assert.Equal(t, detection{kind: metadata.KindMovie, title: "Some Movie"}, d)
}

func TestOrganize_ProviderErrorIsFatal(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(99)).Return(nil, tmdb.ErrNotFound)

	out, err := env.run(t, "", "link", src, "--tv-id", "99", "--yes")
	require.ErrorIs(t, err, tmdb.ErrNotFound)
	assert.Empty(t, out, "no plan printed")
	assert.NoDirExists(t, env.library)
}

func TestOrganize_Movie(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Movie.2021.1080p.mkv"), "movie")
	target := filepath.Join(env.dir, "movies")

	env.provider.EXPECT().GetMovie(gomock.Any(), int64(7)).
		Return(&metadata.Movie{ID: 7, Title: "Movie", Year: 2021}, nil)

	_, err := env.run(t, "", "copy", src, target, "--movie-id", "7", "--yes")
	require.NoError(t, err)

	assert.FileExists(t, filepath.Join(target, "Movie (2021)", "Movie (2021).mkv"))
	assert.FileExists(t, src, "copy keeps source")
	assert.NoDirExists(t, env.library, "explicit target wins over library.root")
}

func TestOrganize_SkippedAndConflictEntries(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(env.dir, "downloads")
	writeFile(t, filepath.Join(src, "Show.S01E01.mkv"), "one")
	writeFile(t, filepath.Join(src, "Show.S01E01.srt"), "subs")
	writeFile(t, filepath.Join(src, "Show.S09E01.mkv"), "missing")
	writeFile(t, episodePath(env.library, 1, "Pilot"), "different")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	out, err := env.run(t, "", "copy", src, "--tv-id", "1", "--yes")
	require.NoError(t, err)

	assert.Contains(t, out, importer.ReasonDestinationExists)
	assert.Contains(t, out, "no episode S09E01 in show metadata")
	assert.Contains(t, out, "1 ready (0 already in place), 1 skipped, 1 conflicts")
	assert.FileExists(t, filepath.Join(env.library, "Show (2020)", "Season 01", "Show - S01E01 - Pilot.srt"))

	data, err := os.ReadFile(episodePath(env.library, 1, "Pilot"))
	require.NoError(t, err)
	assert.Equal(t, "different", string(data), "conflicting destination untouched")
}

func TestOrganize_FailedEntryExitsNonZero(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")
	// A file where the show directory should be.
	writeFile(t, filepath.Join(env.library, "Show (2020)"), "blocker")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	out, err := env.run(t, "", "link", src, "--tv-id", "1", "--yes")
	require.ErrorIs(t, err, errFailedEntries)
	assert.Contains(t, out, "1 failed")
	assert.FileExists(t, src)
}

func TestImport_UsesConfiguredAction(t *testing.T) {
	env := newTestEnv(t, `action = "copy"`)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(1)).Return(testShow(t), nil)

	out, err := env.run(t, "", "import", src, "--tv-id", "1", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "Copy Show (2020)")

	dest := episodePath(env.library, 1, "Pilot")
	assert.FileExists(t, dest)

	srcInfo, err := os.Stat(src)
	require.NoError(t, err)
	dstInfo, err := os.Stat(dest)
	require.NoError(t, err)
	assert.False(t, os.SameFile(srcInfo, dstInfo), "copy, not link")
}

func TestOrganize_InvalidRerunPolicy(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	_, err := env.run(t, "", "link", src, "--tv-id", "1", "--rerun-policy", "bogus")
	assert.Error(t, err)
}

func TestOrganize_TVDBSeries(t *testing.T) {
	env := newTestEnv(t)
	src := writeFile(t, filepath.Join(env.dir, "downloads", "Show.S01E01.mkv"), "one")

	env.provider.EXPECT().GetShow(gomock.Any(), int64(81189)).Return(testShow(t), nil)

	_, err := env.run(t, "", "link", src, "--tvdb-id", "81189", "--yes")
	require.NoError(t, err)
	assert.Equal(t, []string{sourceTVDB}, env.sources)
	assert.FileExists(t, episodePath(env.library, 1, "Pilot"))
}
