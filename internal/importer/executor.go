// internal/importer/executor.go
package importer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
)

// Result tallies an executed plan.
type Result struct {
	Succeeded  int
	Skipped    int
	Conflicted int
	Failed     int
	Entries    []*PlanEntry
}

// OK reports whether nothing failed.
func (r Result) OK() bool {
	return r.Failed == 0
}

// Executor applies a plan to the filesystem.
type Executor struct {
	history *HistoryStore // nil disables history
	log     *slog.Logger
}

// NewExecutor creates an executor. history may be nil.
func NewExecutor(history *HistoryStore, log *slog.Logger) *Executor {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Executor{history: history, log: log.With("component", "executor")}
}

// Execute runs every Ready entry in plan order and records its outcome on the
// entry. Skipped and Conflict entries are counted but never touched. A failed
// entry does not stop the run. When ctx is cancelled the remaining Ready
// entries fail with the context error.
func (x *Executor) Execute(ctx context.Context, plan *Plan) Result {
	res := Result{Entries: plan.Entries}
	for _, e := range plan.Entries {
		switch e.Status {
		case StatusSkipped:
			res.Skipped++
			continue
		case StatusConflict:
			res.Conflicted++
			continue
		}

		if err := ctx.Err(); err != nil {
			e.Outcome, e.Err = OutcomeFailed, err
		} else if err := x.apply(e); err != nil {
			e.Outcome, e.Err = OutcomeFailed, err
		} else {
			e.Outcome = OutcomeSuccess
		}

		if e.Outcome == OutcomeSuccess {
			res.Succeeded++
			x.log.Info("organized", "action", e.Action.String(), "source", e.Source, "dest", e.Dest, "noop", e.NoOp)
		} else {
			res.Failed++
			x.log.Error("organize failed", "action", e.Action.String(), "source", e.Source, "dest", e.Dest, "error", e.Err)
		}
		x.record(ctx, e)
	}
	return res
}

func (x *Executor) apply(e *PlanEntry) error {
	if e.NoOp {
		dst, err := os.Lstat(e.Dest)
		if err != nil {
			return fmt.Errorf("%w: %s", ErrDestinationVanished, e.Dest)
		}
		if e.RemovesSource() {
			return finishMove(e.Source, dst)
		}
		return nil
	}

	// The tree may have changed since planning.
	if _, err := os.Lstat(e.Dest); err == nil {
		return fmt.Errorf("%w: %s", ErrDestinationExists, e.Dest)
	}

	if err := os.MkdirAll(filepath.Dir(e.Dest), 0o755); err != nil {
		return fmt.Errorf("%w: create directory: %v", actionError(e.Action), err)
	}

	switch e.Action {
	case ActionMove:
		return moveFile(e.Source, e.Dest)
	case ActionCopy:
		_, err := CopyFile(e.Source, e.Dest)
		return err
	case ActionLink:
		return linkFile(e.Source, e.Dest)
	default:
		return fmt.Errorf("unknown action %v", e.Action)
	}
}

// finishMove removes a source that is already linked at its destination,
// as left behind by a link run over the same tree.
func finishMove(src string, dst fs.FileInfo) error {
	info, err := os.Lstat(src)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrMoveFailed, err)
	}
	if !os.SameFile(info, dst) {
		return fmt.Errorf("%w: %s changed since planning", ErrMoveFailed, src)
	}
	if err := os.Remove(src); err != nil {
		return fmt.Errorf("%w: remove source: %v", ErrMoveFailed, err)
	}
	return nil
}

func linkFile(src, dst string) error {
	if err := os.Link(src, dst); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w: %s", ErrDestinationExists, dst)
		}
		return fmt.Errorf("%w: %v", ErrLinkFailed, err)
	}
	return nil
}

func actionError(a Action) error {
	switch a {
	case ActionCopy:
		return ErrCopyFailed
	case ActionLink:
		return ErrLinkFailed
	default:
		return ErrMoveFailed
	}
}

// record writes a history row. History is best effort and never changes the
// entry's outcome.
func (x *Executor) record(ctx context.Context, e *PlanEntry) {
	if x.history == nil {
		return
	}
	h := &HistoryEntry{
		Action:  e.Action.String(),
		Source:  e.Source,
		Dest:    e.Dest,
		Outcome: HistorySuccess,
		NoOp:    e.NoOp,
	}
	if e.Outcome == OutcomeFailed {
		h.Outcome = HistoryFailed
		h.Error = e.Err.Error()
	}
	// A cancelled run still records what happened to each entry.
	if err := x.history.Add(context.WithoutCancel(ctx), h); err != nil {
		x.log.Warn("failed to record history", "dest", e.Dest, "error", err)
	}
}
