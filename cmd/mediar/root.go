package main

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/vmunix/mediar/internal/config"
	"github.com/vmunix/mediar/internal/importer"
)

// skipConfigAnnotation marks commands that run without loading config.
const skipConfigAnnotation = "mediar/skip-config"

// app carries the state shared by every command.
type app struct {
	in     *bufio.Reader
	stdin  io.Reader
	out    io.Writer
	errOut io.Writer

	configPath string
	verbose    bool

	cfg     *config.Config
	cfgFile string // Empty when running on defaults
	log     *slog.Logger

	newProvider providerFactory
	interactive func() bool
}

func newApp(in io.Reader, out, errOut io.Writer) *app {
	a := &app{
		in:          bufio.NewReader(in),
		stdin:       in,
		out:         out,
		errOut:      errOut,
		log:         slog.New(slog.NewTextHandler(io.Discard, nil)),
		newProvider: newProvider,
	}
	a.interactive = func() bool { return isTerminal(a.stdin) }
	return a
}

func newRootCmd(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "mediar",
		Short: "Organize downloaded episodes and movies into a media library",
		Long: `mediar - organize downloaded episodes and movies into a media library

Files are matched against TMDB metadata and linked, copied or moved to
canonical paths:

  Show (2008)/Season 01/Show - S01E01 - Pilot.mkv
  Movie (2021)/Movie (2021).mkv

The full plan is printed before anything on disk changes.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Annotations[skipConfigAnnotation] != "" {
				a.setupLogger(config.DefaultLogLevel)
				return nil
			}
			return a.loadConfig()
		},
	}
	rootCmd.SetVersionTemplate("mediar {{.Version}}\n")
	rootCmd.SetIn(a.stdin)
	rootCmd.SetOut(a.out)
	rootCmd.SetErr(a.errOut)

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Configuration file path")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newOrganizeCmd(a, importer.ActionLink),
		newOrganizeCmd(a, importer.ActionCopy),
		newOrganizeCmd(a, importer.ActionMove),
		newImportCmd(a),
		newSearchCmd(a),
		newParseCmd(a),
		newConfigCmd(a),
		newHistoryCmd(a),
		newCacheCmd(a),
	)
	return rootCmd
}

func (a *app) loadConfig() error {
	cfg, path, err := config.Resolve(a.configPath)
	if err != nil {
		return err
	}
	a.cfg, a.cfgFile = cfg, path
	a.setupLogger(cfg.LogLevel)
	if path == "" {
		a.log.Debug("no config file found, using defaults")
	} else {
		a.log.Debug("loaded config", "path", path)
	}
	return nil
}

func (a *app) setupLogger(level string) {
	lvl := parseLogLevel(level)
	if a.verbose {
		lvl = slog.LevelDebug
	}
	a.log = slog.New(slog.NewTextHandler(a.errOut, &slog.HandlerOptions{Level: lvl}))
}

func parseLogLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// openDB opens the configured database, applying the schema.
func (a *app) openDB(ctx context.Context) (*sql.DB, error) {
	return openDB(ctx, a.cfg.Database.Path)
}

func isTerminal(v any) bool {
	file, ok := v.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func printf(w io.Writer, format string, args ...any) {
	_, _ = fmt.Fprintf(w, format, args...)
}
