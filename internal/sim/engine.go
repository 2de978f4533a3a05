package sim

import (
	"context"
	"fmt"
	"sort"

	"github.com/napolitain/buildorder/internal/depgraph"
	"github.com/napolitain/buildorder/internal/models"
)

// DefaultHorizon bounds a run when the config does not.
const DefaultHorizon = 100000

// Config assembles one simulation run.
type Config struct {
	Catalog    *models.Catalog
	BuildOrder []string
	// Roster lists the live units present at tick zero. Defaults to
	// models.DefaultRoster().
	Roster []string
	// Scheduler proposes queue edits each tick. Nil runs the build order
	// in the given fixed sequence.
	Scheduler Scheduler
	Horizon   int
}

// Result summarizes a finished run.
type Result struct {
	Makespan  int
	Completed map[string]int
	Roster    []string
	Trace     Trace
}

// Engine drives the tick loop. Each tick resolves completions, consults the
// scheduler, dispatches at most the queue head, checks termination and then
// accrues income.
type Engine struct {
	catalog *models.Catalog
	queue   *TaskQueue
	units   []*ExecutionUnit
	res     ResourceState
	sched   Scheduler

	now      int
	horizon  int
	supply   int
	nextID   int
	makespan int
	done     bool

	completed map[string]int
	requested map[string]int
	roster    map[string]int
	trace     Trace
}

// New validates the config and prepares a run at tick zero.
func New(cfg Config) (*Engine, error) {
	if cfg.Catalog == nil {
		return nil, fmt.Errorf("nil catalog")
	}
	roster := cfg.Roster
	if roster == nil {
		roster = models.DefaultRoster()
	}
	horizon := cfg.Horizon
	if horizon <= 0 {
		horizon = DefaultHorizon
	}

	e := &Engine{
		catalog:   cfg.Catalog,
		queue:     NewTaskQueue(cfg.BuildOrder),
		sched:     cfg.Scheduler,
		horizon:   horizon,
		completed: make(map[string]int),
		requested: make(map[string]int),
		roster:    make(map[string]int),
	}
	e.res = ResourceState{Minerals: 50}

	for _, name := range roster {
		t, ok := cfg.Catalog.Get(name)
		if !ok {
			return nil, fmt.Errorf("roster: unknown unit type %q", name)
		}
		e.spawn(name)
		e.roster[name]++
		if t.SupplyDelta < 0 {
			e.supply += -t.SupplyDelta
		}
	}
	// Positive deltas of roster units were never debited at a dispatch, so
	// charge them against the granted headroom here.
	for _, name := range roster {
		if t := cfg.Catalog.MustGet(name); t.SupplyDelta > 0 {
			e.supply -= t.SupplyDelta
		}
	}

	for _, name := range cfg.BuildOrder {
		if _, ok := cfg.Catalog.Get(name); !ok {
			return nil, fmt.Errorf("build order: unknown unit type %q", name)
		}
		e.requested[name]++
	}

	// Requested work that can never be ordered, given what the roster
	// provides, is refused up front instead of timing out at the horizon.
	if len(e.requested) > 0 {
		if _, err := depgraph.Build(cfg.Catalog, e.requested, e.roster); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// Run drives the engine to termination, checking ctx at every tick boundary.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		done, err := e.Step()
		if err != nil {
			return nil, err
		}
		if done {
			return e.result(), nil
		}
	}
}

// Step advances the simulation by one tick. It reports true once the run
// has terminated; further calls are no-ops.
func (e *Engine) Step() (bool, error) {
	if e.done {
		return true, nil
	}
	if e.now >= e.horizon {
		return false, fmt.Errorf("no termination by tick %d: %w", e.horizon, ErrHorizonExceeded)
	}

	e.resolveCompletions()
	e.runScheduler()
	e.dispatch()

	if !e.pendingWork() {
		e.makespan = e.now
		e.done = true
		if err := e.reconcile(); err != nil {
			return true, err
		}
		return true, nil
	}

	e.res.Accrue(e.incomeRate())
	e.now++
	return false, nil
}

// Now returns the current tick.
func (e *Engine) Now() int {
	return e.now
}

func (e *Engine) spawn(name string) *ExecutionUnit {
	u := &ExecutionUnit{ID: e.nextID, Type: name}
	e.nextID++
	e.units = append(e.units, u)
	e.completed[name]++
	return u
}

func (e *Engine) resolveCompletions() {
	// Units are stored in ID order, so completions resolve deterministically.
	for _, u := range e.units {
		if u.Idle() || u.FinishAt() > e.now {
			continue
		}
		entry := u.finish()
		e.spawn(entry.Type)
		if t := e.catalog.MustGet(entry.Type); t.SupplyDelta < 0 {
			e.supply += -t.SupplyDelta
		}
		e.record(Event{Tick: e.now, Kind: EventComplete, Type: entry.Type, Note: entry.Provenance.String()})
	}
}

func (e *Engine) runScheduler() {
	if e.sched == nil {
		return
	}
	for _, d := range e.sched.Decide(e.view()) {
		e.apply(d)
	}
}

func (e *Engine) apply(d Decision) {
	switch d.Kind {
	case NoAction:
		return
	case MoveToFront:
		if d.Index < 0 || d.Index >= e.queue.Len() {
			panic(fmt.Sprintf("BUG: scheduler %s: move-to-front index %d out of range", d.Stage, d.Index))
		}
		entry := e.queue.At(d.Index)
		e.queue.MoveToFront(d.Index)
		e.record(Event{Tick: e.now, Kind: EventDecision, Type: entry.Type, Stage: d.Stage,
			Note: fmt.Sprintf("moved to front from %d", d.Index)})
	case InjectFront:
		if _, ok := e.catalog.Get(d.Type); !ok {
			panic(fmt.Sprintf("BUG: scheduler %s: inject of unknown type %q", d.Stage, d.Type))
		}
		e.queue.PushFront(QueueEntry{Type: d.Type, Provenance: Injected})
		e.record(Event{Tick: e.now, Kind: EventDecision, Type: d.Type, Stage: d.Stage, Note: "injected at front"})
	default:
		panic(fmt.Sprintf("BUG: scheduler %s: unknown decision kind %d", d.Stage, d.Kind))
	}
}

// dispatch starts the queue head if everything it needs is available this
// tick. Entries behind a blocked head wait; reordering is scheduler work.
func (e *Engine) dispatch() {
	head, ok := e.queue.Peek()
	if !ok {
		return
	}
	t := e.catalog.MustGet(head.Type)

	for _, req := range t.Requires {
		if e.completed[req] == 0 {
			return
		}
	}
	producer := e.idleProducer(t.ProducedBy)
	if producer == nil {
		return
	}
	if !e.res.CanAfford(t.MineralCost, t.GasCost) {
		return
	}
	if t.SupplyDelta > 0 && e.supply < t.SupplyDelta {
		return
	}

	e.queue.PopFront()
	e.res.Spend(t.MineralCost, t.GasCost)
	if t.SupplyDelta > 0 {
		e.supply -= t.SupplyDelta
	}
	producer.start(head, e.now+t.BuildDuration)
	e.record(Event{Tick: e.now, Kind: EventDispatch, Type: head.Type, End: producer.FinishAt(),
		Note: fmt.Sprintf("%s by %s#%d", head.Provenance, producer.Type, producer.ID)})
}

// idleProducer returns the first idle unit able to carry out a production
// for the named producer type. An empty name means any idle unit will do.
func (e *Engine) idleProducer(name string) *ExecutionUnit {
	for _, u := range e.units {
		if u.Idle() && (name == "" || u.Type == name) {
			return u
		}
	}
	return nil
}

// pendingWork reports whether any task still owed to the caller is queued
// or in flight. Injected filler tasks are scheduler conveniences and never
// keep the run alive on their own.
func (e *Engine) pendingWork() bool {
	for _, entry := range e.queue.Entries() {
		if !e.ignorable(entry) {
			return true
		}
	}
	for _, u := range e.units {
		if entry, busy := u.Producing(); busy && !e.ignorable(entry) {
			return true
		}
	}
	return false
}

func (e *Engine) ignorable(entry QueueEntry) bool {
	return entry.Provenance == Injected && e.catalog.IsFiller(entry.Type)
}

// reconcile verifies that every promised instance exists: initial roster
// plus the requested build order, per type. Injected extras are fine;
// shortfalls are not.
func (e *Engine) reconcile() error {
	missing := make(map[string]int)
	for name, n := range e.requested {
		want := n + e.roster[name]
		if got := e.completed[name]; got < want {
			missing[name] = want - got
		}
	}
	if len(missing) > 0 {
		return &IntegrityError{Missing: missing}
	}
	return nil
}

func (e *Engine) incomeRate() IncomeRate {
	roles := e.catalog.Roles()
	return Income(e.completed[roles.Base], e.completed[roles.GasStructure], e.completed[roles.Worker])
}

func (e *Engine) view() *View {
	units := make([]UnitView, len(e.units))
	for i, u := range e.units {
		uv := UnitView{Type: u.Type}
		if entry, busy := u.Producing(); busy {
			uv.Busy = true
			uv.Producing = entry.Type
			uv.FinishAt = u.FinishAt()
		}
		units[i] = uv
	}
	completed := make(map[string]int, len(e.completed))
	for name, n := range e.completed {
		completed[name] = n
	}
	return &View{
		Now:             e.now,
		Queue:           e.queue.Entries(),
		Units:           units,
		Resources:       e.res,
		SupplyRemaining: e.supply,
		Completed:       completed,
		Catalog:         e.catalog,
	}
}

func (e *Engine) record(ev Event) {
	e.trace = append(e.trace, ev)
}

func (e *Engine) result() *Result {
	completed := make(map[string]int, len(e.completed))
	for name, n := range e.completed {
		completed[name] = n
	}
	var roster []string
	for _, u := range e.units {
		roster = append(roster, u.Type)
	}
	sort.Strings(roster)
	return &Result{
		Makespan:  e.makespan,
		Completed: completed,
		Roster:    roster,
		Trace:     e.trace,
	}
}
