package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/vmunix/mediar/internal/config"
	"github.com/vmunix/mediar/internal/metadata"
	"github.com/vmunix/mediar/internal/metadata/mocks"
)

// testEnv is a config file, library and database under one temp dir.
type testEnv struct {
	dir      string
	config   string
	library  string
	provider *mocks.MockProvider
	sources  []string // Metadata sources requested, in order
}

// newTestEnv writes a config whose extra lines are appended to [library].
func newTestEnv(t *testing.T, libraryLines ...string) *testEnv {
	t.Helper()
	dir := t.TempDir()
	env := &testEnv{
		dir:      dir,
		config:   filepath.Join(dir, "config.toml"),
		library:  filepath.Join(dir, "library"),
		provider: mocks.NewMockProvider(gomock.NewController(t)),
	}

	content := fmt.Sprintf(`log_level = "error"

[tmdb]
api_token = "test-token"

[library]
root = %q
%s

[database]
path = %q
`, env.library, strings.Join(libraryLines, "\n"), filepath.Join(dir, "mediar.db"))
	require.NoError(t, os.WriteFile(env.config, []byte(content), 0o600))
	return env
}

// run executes one mediar invocation. input feeds the confirmation prompt.
func (e *testEnv) run(t *testing.T, input string, args ...string) (string, error) {
	t.Helper()
	return e.runWith(t, input, nil, args...)
}

// runWith is run with a hook to adjust the app before it executes.
func (e *testEnv) runWith(t *testing.T, input string, setup func(*app), args ...string) (string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	a := newApp(strings.NewReader(input), &out, &errOut)
	a.interactive = func() bool { return true }
	a.newProvider = func(source string, _ *config.Config, _ *sql.DB, _ *slog.Logger) (metadata.Provider, error) {
		e.sources = append(e.sources, source)
		return e.provider, nil
	}
	if setup != nil {
		setup(a)
	}

	cmd := newRootCmd(a)
	cmd.SetArgs(append([]string{"--config", e.config}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

// writeFile creates path and any parent directories.
func writeFile(t *testing.T, path, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testShow(t *testing.T) *metadata.Show {
	t.Helper()
	show, err := metadata.NewShow(1, "Show", 2020, []metadata.Episode{
		{Season: 1, Number: 1, Title: "Pilot"},
		{Season: 1, Number: 2, Title: "Second"},
	})
	require.NoError(t, err)
	return show
}
