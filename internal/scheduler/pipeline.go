package scheduler

import (
	"fmt"
	"sort"

	"github.com/napolitain/buildorder/internal/sim"
)

// Pipeline runs stages in a fixed order and composes their decisions for
// one tick. Reorder stages always run; injector and path stages share a
// single action per tick, so the first one to act silences the rest. Each
// stage sees the queue as left by the stages before it.
type Pipeline struct {
	name   string
	stages []Stage
}

// NewPipeline assembles a named pipeline from stages in precedence order.
func NewPipeline(name string, stages ...Stage) *Pipeline {
	return &Pipeline{name: name, stages: stages}
}

// Name implements sim.Scheduler.
func (p *Pipeline) Name() string { return p.name }

// Decide implements sim.Scheduler.
func (p *Pipeline) Decide(v *sim.View) []sim.Decision {
	// The view is a detached snapshot; edits to its queue here only serve
	// to keep later stages consistent with earlier decisions.
	var out []sim.Decision
	acted := false

	for _, stage := range p.stages {
		if acted && stage.Kind() != StageReorder {
			continue
		}
		decisions := stage.Decide(v)
		if len(decisions) == 0 {
			continue
		}
		if stage.Kind() != StageReorder {
			acted = true
		}
		for _, d := range decisions {
			d.Stage = stage.Tag()
			applyToView(v, d)
			out = append(out, d)
		}
	}
	return out
}

func applyToView(v *sim.View, d sim.Decision) {
	switch d.Kind {
	case sim.MoveToFront:
		e := v.Queue[d.Index]
		copy(v.Queue[1:d.Index+1], v.Queue[:d.Index])
		v.Queue[0] = e
	case sim.InjectFront:
		entry := sim.QueueEntry{Type: d.Type, Provenance: sim.Injected}
		v.Queue = append([]sim.QueueEntry{entry}, v.Queue...)
	}
}

type noop struct{}

func (noop) Name() string                   { return "noop" }
func (noop) Decide(*sim.View) []sim.Decision { return nil }

// NoOp returns the scheduler that executes the build order as given.
func NoOp() sim.Scheduler { return noop{} }

// ReorderOnly returns a pipeline with just the head-unblocking reorder.
func ReorderOnly() *Pipeline {
	return NewPipeline("reorder", Reorder())
}

// Economy adds the automatic gas, supply and worker injectors on top of
// reordering. Gas and supply go first so macro structures beat workers for
// the same money.
func Economy() *Pipeline {
	return NewPipeline("economy",
		Reorder(),
		AutoGas(),
		AutoSupply(SupplyWarmUp, SupplyLowWater),
		AutoWorker(WorkerCap),
	)
}

// Critical extends Economy with critical-path promotion.
func Critical() *Pipeline {
	return NewPipeline("critical",
		Reorder(),
		AutoGas(),
		AutoSupply(SupplyWarmUp, SupplyLowWater),
		AutoWorker(WorkerCap),
		CriticalPath(),
	)
}

// Full extends Critical with bottleneck parallelization. Parallelize runs
// before the promotion stage: injecting a second producer supersedes moving
// a chain node forward, and promotion is the fallback when no injection
// pays off.
func Full() *Pipeline {
	return NewPipeline("full",
		Reorder(),
		AutoGas(),
		AutoSupply(SupplyWarmUp, SupplyLowWater),
		AutoWorker(WorkerCap),
		Parallelize(),
		CriticalPath(),
	)
}

var presets = map[string]func() sim.Scheduler{
	"noop":     NoOp,
	"reorder":  func() sim.Scheduler { return ReorderOnly() },
	"economy":  func() sim.Scheduler { return Economy() },
	"critical": func() sim.Scheduler { return Critical() },
	"full":     func() sim.Scheduler { return Full() },
}

// ByName returns the preset scheduler called name.
func ByName(name string) (sim.Scheduler, error) {
	mk, ok := presets[name]
	if !ok {
		return nil, fmt.Errorf("unknown scheduler %q (available: %v)", name, Names())
	}
	return mk(), nil
}

// Names lists the preset scheduler names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
