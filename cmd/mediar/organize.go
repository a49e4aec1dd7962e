package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/vmunix/mediar/internal/importer"
	"github.com/vmunix/mediar/internal/metadata"
)

type organizeOptions struct {
	action  importer.Action
	tvID    int64
	tvdbID  int64
	movieID int64
	yes     bool
	policy  string
}

var actionVerbs = map[importer.Action]string{
	importer.ActionLink: "Hard-link",
	importer.ActionCopy: "Copy",
	importer.ActionMove: "Move",
}

func newOrganizeCmd(a *app, action importer.Action) *cobra.Command {
	verb, name := actionVerbs[action], action.String()
	long := verb + ` every recognized video and subtitle file under source into
target, named from TMDB metadata. target defaults to library.root from the
config, then to the directory containing source.

Without an ID flag the title and kind are detected from the first media
file and a search result is picked interactively.

Examples:
  mediar ` + name + ` ~/Downloads/Show.S01
  mediar ` + name + ` ~/Downloads/Show.S01 --tv-id 1396
  mediar ` + name + ` ~/Downloads/Show.S01 --tvdb-id 81189
  mediar ` + name + ` ~/Downloads/Movie.2021.mkv /media/movies --movie-id 12345 --yes`

	return organizeCommand(a, name, verb+" media files from source into the library", long,
		func() (importer.Action, error) { return action, nil })
}

// newImportCmd runs the action configured as library.action.
func newImportCmd(a *app) *cobra.Command {
	return organizeCommand(a, "import", "Organize media files using the configured library.action",
		`Same as link, copy or move, whichever library.action selects (default link).`,
		func() (importer.Action, error) { return importer.ParseAction(a.cfg.Library.Action) })
}

func organizeCommand(a *app, use, short, long string, action func() (importer.Action, error)) *cobra.Command {
	var opts organizeOptions
	cmd := &cobra.Command{
		Use:   use + " <source> [target]",
		Short: short,
		Long:  long,
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			act, err := action()
			if err != nil {
				return err
			}
			opts.action = act
			return a.runOrganize(cmd.Context(), opts, args)
		},
	}
	cmd.Flags().Int64Var(&opts.tvID, "tv-id", 0, "TMDB TV series ID")
	cmd.Flags().Int64Var(&opts.tvdbID, "tvdb-id", 0, "TVDB series ID")
	cmd.Flags().Int64Var(&opts.movieID, "movie-id", 0, "TMDB movie ID")
	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Execute without asking for confirmation")
	cmd.Flags().StringVar(&opts.policy, "rerun-policy", "", "Override library.rerun_policy (inode, size_mtime, strict)")
	cmd.MarkFlagsMutuallyExclusive("tv-id", "tvdb-id", "movie-id")
	return cmd
}

// errFailedEntries is returned when at least one operation failed.
var errFailedEntries = errors.New("some operations failed")

func (a *app) runOrganize(ctx context.Context, opts organizeOptions, args []string) error {
	if !opts.hasID() && !a.interactive() {
		return errSelectNeedsTerminal
	}
	source, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("resolve source: %w", err)
	}
	if _, err := os.Stat(source); err != nil {
		return fmt.Errorf("source: %w", err)
	}
	target, err := a.resolveTarget(source, args[1:])
	if err != nil {
		return err
	}

	policyName := a.cfg.Library.RerunPolicy
	if opts.policy != "" {
		policyName = opts.policy
	}
	policy, err := importer.ParseRerunPolicy(policyName)
	if err != nil {
		return err
	}

	db, err := a.openDB(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	metaSource := sourceTMDB
	if opts.tvdbID != 0 {
		metaSource = sourceTVDB
	}
	provider, err := a.newProvider(metaSource, a.cfg, db, a.log)
	if err != nil {
		return err
	}
	if !opts.hasID() {
		if err := a.selectRecord(ctx, provider, source, &opts); err != nil {
			return err
		}
	}
	record, err := fetchRecord(ctx, provider, opts)
	if err != nil {
		return err
	}

	imp := importer.New(importer.Config{
		Root:           target,
		Action:         opts.action,
		Policy:         policy,
		MovieTemplate:  a.cfg.Library.MovieTemplate,
		SeriesTemplate: a.cfg.Library.SeriesTemplate,
	}, importer.NewHistoryStore(db), a.log)

	plan, err := imp.Plan(ctx, record, source)
	if err != nil {
		return err
	}

	printf(a.out, "%s %s into %s\n\n", actionVerbs[opts.action], record.Label(), target)
	printf(a.out, "%s\n", renderPlan(plan, source))

	s := plan.Summary()
	printf(a.out, "\n%d ready (%d already in place), %d skipped, %d conflicts\n", s.Ready, s.NoOp, s.Skipped, s.Conflict)
	if s.Ready == s.NoOp {
		printf(a.out, "Nothing to do.\n")
		return nil
	}

	if !opts.yes {
		if !a.interactive() {
			return errNotInteractive
		}
		if !a.confirm(fmt.Sprintf("\nProceed with %d operations?", s.Ready-s.NoOp)) {
			printf(a.out, "Aborted.\n")
			return nil
		}
	}

	res, err := imp.Execute(ctx, plan)
	if err != nil {
		return err
	}

	if res.Failed > 0 {
		printf(a.out, "\n%s\n", renderFailures(res))
	}
	printf(a.out, "\nDone: %d succeeded, %d skipped, %d conflicts, %d failed\n",
		res.Succeeded, res.Skipped, res.Conflicted, res.Failed)
	if res.Failed > 0 {
		return fmt.Errorf("%w: %d of %d", errFailedEntries, res.Failed, res.Succeeded+res.Failed)
	}
	return nil
}

// resolveTarget picks the explicit target, then library.root, then the
// directory containing source.
func (a *app) resolveTarget(source string, args []string) (string, error) {
	target := ""
	switch {
	case len(args) > 0:
		target = args[0]
	case a.cfg.Library.Root != "":
		target = a.cfg.Library.Root
	default:
		target = filepath.Dir(source)
	}
	abs, err := filepath.Abs(target)
	if err != nil {
		return "", fmt.Errorf("resolve target: %w", err)
	}
	return abs, nil
}

// fetchRecord resolves the selected record. Provider errors are fatal: no
// plan is built without metadata.
func fetchRecord(ctx context.Context, p metadata.Provider, opts organizeOptions) (metadata.Record, error) {
	if opts.tvdbID != 0 {
		show, err := p.GetShow(ctx, opts.tvdbID)
		if err != nil {
			return nil, fmt.Errorf("fetch TVDB series %d: %w", opts.tvdbID, err)
		}
		return show, nil
	}
	if opts.tvID != 0 {
		show, err := p.GetShow(ctx, opts.tvID)
		if err != nil {
			return nil, fmt.Errorf("fetch TV series %d: %w", opts.tvID, err)
		}
		return show, nil
	}
	movie, err := p.GetMovie(ctx, opts.movieID)
	if err != nil {
		return nil, fmt.Errorf("fetch movie %d: %w", opts.movieID, err)
	}
	return movie, nil
}

func renderPlan(plan *importer.Plan, source string) string {
	base := source
	if info, err := os.Stat(source); err == nil && !info.IsDir() {
		base = filepath.Dir(source)
	}

	rows := make([][]string, 0, len(plan.Entries))
	for i, e := range plan.Entries {
		detail := e.Reason
		if e.Status == importer.StatusReady {
			detail = relTo(plan.Root, e.Dest)
			if e.RemovesSource() {
				detail += " (already linked)"
			}
		}
		rows = append(rows, []string{strconv.Itoa(i + 1), entryStatus(e), relTo(base, e.Source), detail})
	}
	return renderTable(
		[]string{"#", "Status", "Source", "Destination / Reason"},
		rows,
		[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft},
	)
}

func renderFailures(res importer.Result) string {
	var rows [][]string
	for _, e := range res.Entries {
		if e.Outcome == importer.OutcomeFailed {
			rows = append(rows, []string{e.Source, e.Err.Error()})
		}
	}
	return renderTable([]string{"Failed", "Error"}, rows, nil)
}

func entryStatus(e *importer.PlanEntry) string {
	if e.Status == importer.StatusReady && e.NoOp && !e.RemovesSource() {
		return "in place"
	}
	return e.Status.String()
}

func relTo(base, path string) string {
	rel, err := filepath.Rel(base, path)
	if err != nil || rel == "." {
		return path
	}
	return rel
}
