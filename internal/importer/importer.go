// Package importer plans and performs the relocation of media files into a
// library tree named from provider metadata.
package importer

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/vmunix/mediar/internal/metadata"
)

// Importer plans and executes organize runs against one target root.
type Importer struct {
	cfg      Config
	renamer  *Renamer
	executor *Executor
	log      *slog.Logger
}

// Config for the importer.
type Config struct {
	Root           string
	Action         Action
	Policy         RerunPolicy
	MovieTemplate  string
	SeriesTemplate string
	Inspector      FileInspector // nil uses the real filesystem
}

// New creates a new importer. history may be nil.
func New(cfg Config, history *HistoryStore, log *slog.Logger) *Importer {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if cfg.Policy == "" {
		cfg.Policy = PolicyInode
	}
	if cfg.Inspector == nil {
		cfg.Inspector = OSInspector{}
	}
	return &Importer{
		cfg:      cfg,
		renamer:  NewRenamer(cfg.MovieTemplate, cfg.SeriesTemplate),
		executor: NewExecutor(history, log),
		log:      log.With("component", "importer"),
	}
}

// Root is the absolute target root plans are built against.
func (i *Importer) Root() string {
	return i.cfg.Root
}

// Plan scans source, matches the files against record and builds a plan.
// Nothing on disk is changed.
func (i *Importer) Plan(ctx context.Context, record metadata.Record, source string) (*Plan, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	root, err := filepath.Abs(i.cfg.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve target %s: %w", i.cfg.Root, err)
	}

	i.log.Info("planning", "source", source, "target", root, "record", record.Label(), "action", i.cfg.Action.String())
	files, err := Scan(source)
	if err != nil {
		return nil, err
	}

	matches := Match(record, files)
	plan := BuildPlan(PlanContext{
		Root:      root,
		Action:    i.cfg.Action,
		Policy:    i.cfg.Policy,
		Renamer:   i.renamer,
		Inspector: i.cfg.Inspector,
	}, record, matches)

	s := plan.Summary()
	i.log.Debug("plan built", "files", len(files), "ready", s.Ready, "noop", s.NoOp, "skipped", s.Skipped, "conflict", s.Conflict)
	return plan, nil
}

// Execute runs plan while holding the target tree lock.
// An error means nothing was executed; per-entry failures are in the Result.
func (i *Importer) Execute(ctx context.Context, plan *Plan) (Result, error) {
	lock, err := AcquireLock(plan.Root)
	if err != nil {
		return Result{}, err
	}
	defer func() {
		if err := lock.Release(); err != nil {
			i.log.Warn("release lock failed", "root", plan.Root, "error", err)
		}
	}()

	res := i.executor.Execute(ctx, plan)
	i.log.Info("organize complete",
		"succeeded", res.Succeeded, "skipped", res.Skipped,
		"conflicted", res.Conflicted, "failed", res.Failed)
	return res, nil
}
