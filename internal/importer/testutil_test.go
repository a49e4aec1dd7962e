// internal/importer/testutil_test.go
package importer

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	_ "modernc.org/sqlite"

	"github.com/vmunix/mediar/internal/metadata"
	"github.com/vmunix/mediar/internal/migrations"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err, "open db")
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, migrations.Apply(context.Background(), db), "apply schema")
	return db
}

// testLogger returns a discard logger for tests.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// writeFile creates path and any parent directories.
func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// testShow is "Show" (2020) with two regular seasons of three episodes and
// one special.
func testShow(t *testing.T) *metadata.Show {
	t.Helper()
	show, err := metadata.NewShow(1, "Show", 2020, []metadata.Episode{
		{Season: 1, Number: 1, Title: "Pilot"},
		{Season: 1, Number: 2, Title: "Second"},
		{Season: 1, Number: 3, Title: "Third"},
		{Season: 2, Number: 1, Title: "Return"},
		{Season: 2, Number: 2, Title: ""},
		{Season: 2, Number: 3, Title: "Finale: Part 1"},
		{Season: 0, Number: 1, Title: "Behind the Scenes"},
	})
	require.NoError(t, err)
	return show
}

func testMovie() *metadata.Movie {
	return &metadata.Movie{ID: 7, Title: "Movie", Year: 2021}
}

// sourceFiles builds SourceFiles for paths without touching disk.
func sourceFiles(t *testing.T, paths ...string) []*SourceFile {
	t.Helper()
	files := make([]*SourceFile, 0, len(paths))
	for _, p := range paths {
		f, ok := NewSourceFile(p)
		require.True(t, ok, "recognized extension: %s", p)
		files = append(files, f)
	}
	return files
}

// fakeInspector serves identities from a map. Paths not in the map do not
// exist; paths in errs fail.
type fakeInspector struct {
	files map[string]FileIdentity
	errs  map[string]error
}

func (f fakeInspector) Lstat(path string) (FileIdentity, bool, error) {
	if err, ok := f.errs[path]; ok {
		return FileIdentity{}, false, err
	}
	id, ok := f.files[path]
	return id, ok, nil
}
