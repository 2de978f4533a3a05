package scheduler

import (
	"context"
	"errors"
	"math"
	"testing"

	"pgregory.net/rapid"

	"github.com/napolitain/buildorder/internal/models"
	"github.com/napolitain/buildorder/internal/sim"
)

// drawOrder shuffles the multiset into a random build order.
func drawOrder(t *rapid.T, multiset []string) []string {
	n := len(multiset)
	perm := rapid.SliceOfNDistinct(rapid.IntRange(0, n-1), n, n, rapid.ID[int]).Draw(t, "perm")
	order := make([]string, n)
	for i, j := range perm {
		order[i] = multiset[j]
	}
	return order
}

func repeat(name string, n int) []string {
	out := make([]string, n)
	for i := range out {
		out[i] = name
	}
	return out
}

// Whatever the order, reordering never loses a task: every requested
// instance exists when the run terminates.
func TestNoTaskDroppedUnderReorder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		var multiset []string
		multiset = append(multiset, repeat("Pylon", rapid.IntRange(1, 2).Draw(t, "pylons"))...)
		multiset = append(multiset, repeat("Gateway", rapid.IntRange(1, 2).Draw(t, "gateways"))...)
		multiset = append(multiset, repeat("Zealot", rapid.IntRange(0, 3).Draw(t, "zealots"))...)
		multiset = append(multiset, repeat("Probe", rapid.IntRange(0, 2).Draw(t, "probes"))...)
		order := drawOrder(t, multiset)

		engine, err := sim.New(sim.Config{
			Catalog:    models.DefaultCatalog(),
			BuildOrder: order,
			Scheduler:  ReorderOnly(),
			Horizon:    20000,
		})
		if err != nil {
			t.Fatalf("engine: %v", err)
		}
		res, err := engine.Run(context.Background())
		if err != nil {
			t.Fatalf("run: %v", err)
		}

		want := map[string]int{"Nexus": 1, "Probe": 4}
		for _, name := range order {
			want[name]++
		}
		for name, n := range want {
			if res.Completed[name] < n {
				t.Fatalf("type %s: want at least %d completed, got %d", name, n, res.Completed[name])
			}
		}
	})
}

// On orders whose only blockers are money and dependencies, unblocking the
// head can only help: the reordering makespan never exceeds the fixed-order
// one.
func TestReorderNeverSlowerThanFixedOrder(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		multiset := []string{"Pylon", "Gateway"}
		multiset = append(multiset, repeat("Zealot", rapid.IntRange(0, 3).Draw(t, "zealots"))...)
		order := drawOrder(t, multiset)

		fixed := makespanOf(t, order, nil)
		reordered := makespanOf(t, order, ReorderOnly())
		if reordered > fixed {
			t.Fatalf("order %v: reorder %d slower than fixed %d", order, reordered, fixed)
		}
	})
}

func makespanOf(t *rapid.T, order []string, sched sim.Scheduler) int {
	engine, err := sim.New(sim.Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: order,
		Scheduler:  sched,
		Horizon:    5000,
	})
	if err != nil {
		t.Fatalf("engine: %v", err)
	}
	res, err := engine.Run(context.Background())
	if errors.Is(err, sim.ErrHorizonExceeded) {
		// A fixed order can deadlock on a misplaced dependency; treat that
		// as an unbounded makespan.
		return math.MaxInt
	}
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return res.Makespan
}
