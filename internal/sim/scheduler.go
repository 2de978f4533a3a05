package sim

import "github.com/napolitain/buildorder/internal/models"

// DecisionKind enumerates the queue edits a scheduler may request.
type DecisionKind int

const (
	NoAction DecisionKind = iota
	// MoveToFront promotes the queue entry at Index to the head.
	MoveToFront
	// InjectFront pushes a new injected entry of Type at the head.
	InjectFront
)

// Decision is a single scheduler request. Schedulers never touch the queue
// themselves; the engine validates each decision and applies it centrally,
// so every edit shows up in the trace with the stage that asked for it.
type Decision struct {
	Kind  DecisionKind
	Index int    // MoveToFront: position of the entry to promote
	Type  string // InjectFront: catalog name of the task to inject
	Stage string // which stage produced the decision, for the trace
}

// Scheduler inspects the read-only view each tick and proposes queue edits.
// Decisions are applied in order; a MoveToFront index refers to the queue as
// left by the decisions before it.
type Scheduler interface {
	Name() string
	Decide(v *View) []Decision
}

// UnitView is a read-only snapshot of one live unit.
type UnitView struct {
	Type      string
	Busy      bool
	Producing string
	FinishAt  int
}

// View is the snapshot handed to schedulers each tick. It is detached from
// engine state; mutating it has no effect on the run.
type View struct {
	Now             int
	Queue           []QueueEntry
	Units           []UnitView
	Resources       ResourceState
	SupplyRemaining int
	Completed       map[string]int
	Catalog         *models.Catalog
}

// Count returns the number of completed instances of name.
func (v *View) Count(name string) int {
	return v.Completed[name]
}

// InProduction returns how many instances of name are currently being built.
func (v *View) InProduction(name string) int {
	n := 0
	for _, u := range v.Units {
		if u.Busy && u.Producing == name {
			n++
		}
	}
	return n
}

// Queued returns how many pending queue entries are of type name.
func (v *View) Queued(name string) int {
	n := 0
	for _, e := range v.Queue {
		if e.Type == name {
			n++
		}
	}
	return n
}

// Total returns completed plus in-flight plus queued instances of name.
func (v *View) Total(name string) int {
	return v.Count(name) + v.InProduction(name) + v.Queued(name)
}

// IdleOf reports whether any completed instance of name is idle. An empty
// name asks for any idle unit at all.
func (v *View) IdleOf(name string) bool {
	for _, u := range v.Units {
		if !u.Busy && (name == "" || u.Type == name) {
			return true
		}
	}
	return false
}

// Dispatchable reports whether a task of type name could dispatch this tick:
// all required structures completed, an idle producer available, the cost
// affordable and the supply headroom sufficient.
func (v *View) Dispatchable(name string) bool {
	t, ok := v.Catalog.Get(name)
	if !ok {
		return false
	}
	for _, req := range t.Requires {
		if v.Count(req) == 0 {
			return false
		}
	}
	if !v.IdleOf(t.ProducedBy) {
		return false
	}
	if !v.Resources.CanAfford(t.MineralCost, t.GasCost) {
		return false
	}
	if t.SupplyDelta > 0 && v.SupplyRemaining < t.SupplyDelta {
		return false
	}
	return true
}
