package importer

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/vmunix/mediar/internal/metadata"
)

// Action is the file operation a plan performs.
type Action int

const (
	ActionMove Action = iota
	ActionCopy
	ActionLink
)

func (a Action) String() string {
	switch a {
	case ActionMove:
		return "move"
	case ActionCopy:
		return "copy"
	case ActionLink:
		return "link"
	default:
		return fmt.Sprintf("action(%d)", int(a))
	}
}

// ParseAction converts "move", "copy" or "link".
func ParseAction(s string) (Action, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "move":
		return ActionMove, nil
	case "copy":
		return ActionCopy, nil
	case "link":
		return ActionLink, nil
	default:
		return 0, fmt.Errorf("unknown action %q (want move, copy or link)", s)
	}
}

// Status is the planner's verdict on one entry.
type Status int

const (
	StatusReady Status = iota
	StatusSkipped
	StatusConflict
)

func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusSkipped:
		return "skipped"
	case StatusConflict:
		return "conflict"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Outcome is set by the executor on Ready entries.
type Outcome int

const (
	OutcomePending Outcome = iota
	OutcomeSuccess
	OutcomeFailed
)

func (o Outcome) String() string {
	switch o {
	case OutcomePending:
		return "pending"
	case OutcomeSuccess:
		return "success"
	case OutcomeFailed:
		return "failed"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Conflict reasons.
const (
	ReasonDestinationExists = "destination already exists"
	reasonClaimedPrefix     = "destination already claimed by "
)

// PlanEntry is one source file's planned operation.
type PlanEntry struct {
	Source string
	Dest   string // Empty when the file was skipped before a path was built
	Action Action
	Status Status
	Reason string // Set for Skipped and Conflict
	NoOp   bool   // Ready entry already satisfied on disk

	Outcome Outcome
	Err     error // Set when Outcome is OutcomeFailed
}

// RemovesSource reports whether executing a NoOp entry still has work to do:
// a move whose destination is already the same file as its source.
func (e *PlanEntry) RemovesSource() bool {
	return e.NoOp && e.Action == ActionMove && filepath.Clean(e.Source) != filepath.Clean(e.Dest)
}

// Plan is the ordered list of entries for one organize run.
type Plan struct {
	Root    string
	Action  Action
	Entries []*PlanEntry
}

// Summary counts entries per status. NoOp counts the Ready entries that need
// nothing done; they are also counted as Ready.
type Summary struct {
	Ready    int
	NoOp     int
	Skipped  int
	Conflict int
}

// Total is the number of entries summarized.
func (s Summary) Total() int {
	return s.Ready + s.Skipped + s.Conflict
}

// Summary counts the plan's entries.
func (p *Plan) Summary() Summary {
	var s Summary
	for _, e := range p.Entries {
		switch e.Status {
		case StatusReady:
			s.Ready++
			if e.NoOp && !e.RemovesSource() {
				s.NoOp++
			}
		case StatusSkipped:
			s.Skipped++
		case StatusConflict:
			s.Conflict++
		}
	}
	return s
}

// PlanContext is the fixed input to BuildPlan.
type PlanContext struct {
	Root      string
	Action    Action
	Policy    RerunPolicy
	Renamer   *Renamer
	Inspector FileInspector
}

// BuildPlan turns match results into a plan, one entry per match in input
// order. Destinations are computed for every match before any is checked, so
// collisions are detected across the whole batch: the first claimant of a
// destination keeps it and later ones become conflicts. No two Ready entries
// ever share a destination.
func BuildPlan(pc PlanContext, record metadata.Record, matches []MatchResult) *Plan {
	renamer := pc.Renamer
	if renamer == nil {
		renamer = NewRenamer("", "")
	}
	inspector := pc.Inspector
	if inspector == nil {
		inspector = OSInspector{}
	}

	plan := &Plan{Root: pc.Root, Action: pc.Action, Entries: make([]*PlanEntry, len(matches))}
	claims := make(map[string]int, len(matches))

	for i, m := range matches {
		e := &PlanEntry{Source: m.File.Path, Action: pc.Action}
		plan.Entries[i] = e

		if !m.Matched() {
			e.Status, e.Reason = StatusSkipped, m.Reason
			continue
		}
		dest, err := renamer.Destination(pc.Root, record, m)
		if err != nil {
			e.Status, e.Reason = StatusSkipped, err.Error()
			continue
		}
		e.Dest = dest
		if _, taken := claims[dest]; !taken {
			claims[dest] = i
		}
	}

	for i, e := range plan.Entries {
		if e.Dest == "" {
			continue
		}
		if first := claims[e.Dest]; first != i {
			e.Status = StatusConflict
			e.Reason = reasonClaimedPrefix + plan.Entries[first].Source
			continue
		}
		checkDestination(e, pc.Policy, inspector)
	}
	return plan
}

// checkDestination marks e Ready, Ready+NoOp or Conflict from what is on disk.
func checkDestination(e *PlanEntry, policy RerunPolicy, inspector FileInspector) {
	e.Status = StatusReady
	if filepath.Clean(e.Source) == filepath.Clean(e.Dest) {
		e.NoOp = true
		return
	}

	dst, exists, err := inspector.Lstat(e.Dest)
	if err != nil {
		e.Status, e.Reason = StatusConflict, "cannot inspect destination: "+err.Error()
		return
	}
	if !exists {
		return
	}

	src, srcExists, err := inspector.Lstat(e.Source)
	if err == nil && srcExists && policy.Equivalent(e.Action, src, dst) {
		e.NoOp = true
		return
	}
	e.Status, e.Reason = StatusConflict, ReasonDestinationExists
}
