package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/napolitain/buildorder/internal/depgraph"
	"github.com/napolitain/buildorder/internal/models"
)

func runOrder(t *testing.T, order []string) (*Result, error) {
	t.Helper()
	engine, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: order,
	})
	require.NoError(t, err)
	return engine.Run(context.Background())
}

func TestMakespanPylonGateway(t *testing.T) {
	res, err := runOrder(t, []string{"Pylon", "Gateway"})
	require.NoError(t, err)
	assert.Equal(t, 85, res.Makespan)
}

func TestMakespanEarlyProbesIntoZealot(t *testing.T) {
	res, err := runOrder(t, []string{"Probe", "Probe", "Probe", "Probe", "Pylon", "Gateway", "Zealot"})
	require.NoError(t, err)
	assert.Equal(t, 127, res.Makespan)
}

func TestMakespanExpandBeforeSecondZealot(t *testing.T) {
	res, err := runOrder(t, []string{"Probe", "Probe", "Probe", "Probe", "Pylon", "Gateway", "Zealot", "Nexus", "Zealot"})
	require.NoError(t, err)
	assert.Equal(t, 196, res.Makespan)

	// Two bases, eight workers, one gateway and the requested army.
	assert.Equal(t, 2, res.Completed["Nexus"])
	assert.Equal(t, 8, res.Completed["Probe"])
	assert.Equal(t, 2, res.Completed["Zealot"])
}

func TestEmptyBuildOrderTerminatesImmediately(t *testing.T) {
	res, err := runOrder(t, nil)
	require.NoError(t, err)
	assert.Equal(t, 0, res.Makespan)
	assert.Equal(t, 4, res.Completed["Probe"])
}

func TestBlockedHeadNeverSkipped(t *testing.T) {
	// Gateway needs a Pylon that sits behind it. Without a scheduler the
	// head blocks forever; later entries must not jump the line.
	engine, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Gateway", "Pylon"},
		Horizon:    500,
	})
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrHorizonExceeded)
}

func TestSupplyBlocksDispatch(t *testing.T) {
	// Headroom starts at five; the sixth probe can never start without a
	// pylon.
	engine, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Probe", "Probe", "Probe", "Probe", "Probe", "Probe"},
		Horizon:    2000,
	})
	require.NoError(t, err)

	_, err = engine.Run(context.Background())
	assert.ErrorIs(t, err, ErrHorizonExceeded)
}

func TestHorizonBoundsTickRange(t *testing.T) {
	// Ticks run over [0, horizon). The run terminates during tick 85, so a
	// horizon of 85 is one tick too small and 86 is the minimum that fits.
	engine, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Pylon", "Gateway"},
		Horizon:    85,
	})
	require.NoError(t, err)
	_, err = engine.Run(context.Background())
	assert.ErrorIs(t, err, ErrHorizonExceeded)

	engine, err = New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Pylon", "Gateway"},
		Horizon:    86,
	})
	require.NoError(t, err)
	res, err := engine.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 85, res.Makespan)
}

func TestDispatchWaitsForCompletedRequirement(t *testing.T) {
	// The gateway may only start once the pylon has finished, not when it
	// is merely dispatched.
	res, err := runOrder(t, []string{"Pylon", "Gateway"})
	require.NoError(t, err)

	var pylonDone, gatewayStart int
	for _, ev := range res.Trace {
		if ev.Kind == EventComplete && ev.Type == "Pylon" {
			pylonDone = ev.Tick
		}
		if ev.Kind == EventDispatch && ev.Type == "Gateway" {
			gatewayStart = ev.Tick
		}
	}
	assert.Equal(t, 37, pylonDone)
	assert.GreaterOrEqual(t, gatewayStart, pylonDone)
}

func TestCyclicRequirementsRejected(t *testing.T) {
	catalog, err := models.NewCatalog([]models.UnitType{
		{Name: "Hub", BuildDuration: 10},
		{Name: "Forge", MineralCost: 10, BuildDuration: 10, ProducedBy: "Hub", Requires: []string{"Lab"}},
		{Name: "Lab", MineralCost: 10, BuildDuration: 10, ProducedBy: "Hub", Requires: []string{"Forge"}},
	}, models.Roles{})
	require.NoError(t, err)

	_, err = New(Config{
		Catalog:    catalog,
		Roster:     []string{"Hub"},
		BuildOrder: []string{"Forge"},
	})
	require.Error(t, err)

	var cycleErr *depgraph.CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.ElementsMatch(t, []string{"Forge", "Lab"}, cycleErr.Nodes)
}

func TestContextCancellationStopsRun(t *testing.T) {
	engine, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Pylon"},
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = engine.Run(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStepIsResumable(t *testing.T) {
	engine, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Pylon", "Gateway"},
	})
	require.NoError(t, err)

	steps := 0
	for {
		done, err := engine.Step()
		require.NoError(t, err)
		if done {
			break
		}
		steps++
		require.Less(t, steps, DefaultHorizon)
	}
	assert.Equal(t, 85, engine.Now())

	// Once terminated, further steps are no-ops.
	done, err := engine.Step()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestReconcileReportsShortfall(t *testing.T) {
	engine, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Pylon", "Pylon"},
	})
	require.NoError(t, err)

	// Simulate a lost task: only one of the two promised pylons exists.
	engine.completed["Pylon"] = 1
	err = engine.reconcile()
	require.Error(t, err)

	var integrityErr *IntegrityError
	require.ErrorAs(t, err, &integrityErr)
	assert.Equal(t, map[string]int{"Pylon": 1}, integrityErr.Missing)
	assert.Contains(t, err.Error(), "Pylon×1")
}

func TestUnknownTypesRejected(t *testing.T) {
	_, err := New(Config{
		Catalog:    models.DefaultCatalog(),
		BuildOrder: []string{"Carrier"},
	})
	assert.Error(t, err)

	_, err = New(Config{
		Catalog: models.DefaultCatalog(),
		Roster:  []string{"Carrier"},
	})
	assert.Error(t, err)
}
