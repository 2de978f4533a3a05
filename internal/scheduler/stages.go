// Package scheduler provides the composable scheduling stages and the
// pipeline that combines them into full scheduling policies.
package scheduler

import (
	"github.com/napolitain/buildorder/internal/depgraph"
	"github.com/napolitain/buildorder/internal/sim"
)

// Tuning constants for the automatic stages.
const (
	// WorkerCap is the economic ceiling: past thirty workers the extra
	// income never pays back the build cost within a typical run.
	WorkerCap = 30
	// SupplyWarmUp suppresses supply injection during the opening, where
	// the requested order manages its own supply.
	SupplyWarmUp = 30
	// SupplyLowWater is the headroom at which a supply structure gets
	// injected.
	SupplyLowWater = 2
)

// StageKind groups stages for pipeline precedence: at most one injector
// acts per tick, and path stages yield whenever an injector acted.
type StageKind int

const (
	StageReorder StageKind = iota
	StageInjector
	StagePath
)

// Stage is one composable scheduling rule. Decide sees a view whose queue
// already reflects the edits of earlier stages this tick.
type Stage interface {
	Tag() string
	Kind() StageKind
	Decide(v *sim.View) []sim.Decision
}

type reorderStage struct{}

// Reorder promotes the first dispatchable entry whenever the head is
// blocked, so waiting money or producers are never wasted on head-of-line
// blocking.
func Reorder() Stage { return reorderStage{} }

func (reorderStage) Tag() string     { return "reorder" }
func (reorderStage) Kind() StageKind { return StageReorder }

func (reorderStage) Decide(v *sim.View) []sim.Decision {
	if len(v.Queue) == 0 || v.Dispatchable(v.Queue[0].Type) {
		return nil
	}
	for i := 1; i < len(v.Queue); i++ {
		if v.Dispatchable(v.Queue[i].Type) {
			return []sim.Decision{{Kind: sim.MoveToFront, Index: i}}
		}
	}
	return nil
}

type autoWorkerStage struct {
	cap int
}

// AutoWorker injects a worker whenever one could start and the economy is
// below the cap, converting idle money into income. The count includes
// queued and in-flight workers so the cap is never overshot.
func AutoWorker(cap int) Stage { return autoWorkerStage{cap: cap} }

func (autoWorkerStage) Tag() string     { return "auto-worker" }
func (autoWorkerStage) Kind() StageKind { return StageInjector }

func (s autoWorkerStage) Decide(v *sim.View) []sim.Decision {
	worker := v.Catalog.Roles().Worker
	if worker == "" || v.Total(worker) >= s.cap || !v.Dispatchable(worker) {
		return nil
	}
	return []sim.Decision{{Kind: sim.InjectFront, Type: worker}}
}

type autoGasStage struct{}

// AutoGas injects a gas structure when the queue head needs gas and none is
// completed, queued or in production yet.
func AutoGas() Stage { return autoGasStage{} }

func (autoGasStage) Tag() string     { return "auto-gas" }
func (autoGasStage) Kind() StageKind { return StageInjector }

func (autoGasStage) Decide(v *sim.View) []sim.Decision {
	gas := v.Catalog.Roles().GasStructure
	if gas == "" || len(v.Queue) == 0 {
		return nil
	}
	head, ok := v.Catalog.Get(v.Queue[0].Type)
	if !ok || head.GasCost == 0 {
		return nil
	}
	if v.Total(gas) > 0 || !v.Dispatchable(gas) {
		return nil
	}
	return []sim.Decision{{Kind: sim.InjectFront, Type: gas}}
}

type autoSupplyStage struct {
	warmUp   int
	lowWater int
}

// AutoSupply injects a supply structure when the head cannot fit in the
// remaining headroom, or when headroom runs low after the opening, unless
// one is already queued or under construction.
func AutoSupply(warmUp, lowWater int) Stage {
	return autoSupplyStage{warmUp: warmUp, lowWater: lowWater}
}

func (autoSupplyStage) Tag() string     { return "auto-supply" }
func (autoSupplyStage) Kind() StageKind { return StageInjector }

func (s autoSupplyStage) Decide(v *sim.View) []sim.Decision {
	supply := v.Catalog.Roles().SupplyStructure
	if supply == "" {
		return nil
	}
	blocked := false
	if len(v.Queue) > 0 {
		if head, ok := v.Catalog.Get(v.Queue[0].Type); ok {
			blocked = head.SupplyDelta > 0 && head.SupplyDelta > v.SupplyRemaining
		}
	}
	if !blocked && (v.Now < s.warmUp || v.SupplyRemaining > s.lowWater) {
		return nil
	}
	if v.InProduction(supply)+v.Queued(supply) > 0 || !v.Dispatchable(supply) {
		return nil
	}
	return []sim.Decision{{Kind: sim.InjectFront, Type: supply}}
}

type criticalPathStage struct{}

// CriticalPath promotes the earliest critical-path node present in the
// queue, so the longest dependency chain starts as early as possible.
func CriticalPath() Stage { return criticalPathStage{} }

func (criticalPathStage) Tag() string     { return "critical-path" }
func (criticalPathStage) Kind() StageKind { return StagePath }

func (criticalPathStage) Decide(v *sim.View) []sim.Decision {
	path, ok := remainingPath(v)
	if !ok {
		return nil
	}
	for _, name := range path.Nodes {
		for i, e := range v.Queue {
			if e.Type != name {
				continue
			}
			if i == 0 {
				return nil
			}
			return []sim.Decision{{Kind: sim.MoveToFront, Index: i}}
		}
	}
	return nil
}

type parallelizeStage struct{}

// Parallelize attacks the bottleneck producer: when one more instance of
// the producer of the critical path's tail would strictly shorten that
// path and could start right now, it gets injected.
func Parallelize() Stage { return parallelizeStage{} }

func (parallelizeStage) Tag() string     { return "parallelize" }
func (parallelizeStage) Kind() StageKind { return StagePath }

func (parallelizeStage) Decide(v *sim.View) []sim.Decision {
	path, ok := remainingPath(v)
	if !ok || len(path.Nodes) == 0 {
		return nil
	}
	tail := v.Catalog.MustGet(path.Nodes[len(path.Nodes)-1])
	bottleneck := tail.ProducedBy
	if bottleneck == "" || !v.Dispatchable(bottleneck) {
		return nil
	}

	demand := remainingDemand(v)
	demand[bottleneck]++
	g, err := depgraph.Build(v.Catalog, demand, v.Completed)
	if err != nil {
		return nil
	}
	if g.CriticalPath().Length >= path.Length {
		return nil
	}
	return []sim.Decision{{Kind: sim.InjectFront, Type: bottleneck}}
}

// remainingDemand is the multiset of outstanding work: queued plus in
// flight.
func remainingDemand(v *sim.View) map[string]int {
	demand := make(map[string]int)
	for _, e := range v.Queue {
		demand[e.Type]++
	}
	for _, u := range v.Units {
		if u.Busy {
			demand[u.Producing]++
		}
	}
	return demand
}

func remainingPath(v *sim.View) (depgraph.Path, bool) {
	if len(v.Queue) == 0 {
		return depgraph.Path{}, false
	}
	g, err := depgraph.Build(v.Catalog, remainingDemand(v), v.Completed)
	if err != nil {
		return depgraph.Path{}, false
	}
	return g.CriticalPath(), true
}
