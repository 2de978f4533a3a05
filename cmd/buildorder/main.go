package main

import (
	"context"
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/napolitain/buildorder/internal/loader"
	"github.com/napolitain/buildorder/internal/models"
	"github.com/napolitain/buildorder/internal/scheduler"
	"github.com/napolitain/buildorder/internal/sim"
)

var (
	dataDir       string
	scenarioFile  string
	schedulerName string
	compare       bool
	verbose       bool
	quiet         bool
	horizon       int
)

// demoOrder is used when neither a scenario nor positional tasks are given.
var demoOrder = []string{"Probe", "Probe", "Probe", "Probe", "Pylon", "Gateway", "Zealot"}

func main() {
	rootCmd := &cobra.Command{
		Use:   "buildorder [task...]",
		Short: "RTS Build Order Simulator",
		Long: `A discrete-tick simulator that executes RTS build orders under
pluggable scheduling policies and reports the resulting makespan.`,
		Run: runSim,
	}

	rootCmd.Flags().StringVarP(&dataDir, "data", "d", "", "Path to data directory with units.json and roles.json")
	rootCmd.Flags().StringVarP(&scenarioFile, "scenario", "f", "", "Path to a scenario JSON file")
	rootCmd.Flags().StringVarP(&schedulerName, "scheduler", "s", "noop", "Scheduler preset")
	rootCmd.Flags().BoolVarP(&compare, "compare", "c", false, "Run every scheduler preset and compare makespans")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Print the full event trace")
	rootCmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "Minimal output")
	rootCmd.Flags().IntVar(&horizon, "horizon", sim.DefaultHorizon, "Tick budget before the run is aborted")

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runSim(cmd *cobra.Command, args []string) {
	titleColor := color.New(color.FgCyan, color.Bold)
	successColor := color.New(color.FgGreen, color.Bold)
	infoColor := color.New(color.FgYellow)

	if !quiet {
		titleColor.Println("\n╭───────────────────────────╮")
		titleColor.Println("│  Build Order Simulator    │")
		titleColor.Println("╰───────────────────────────╯")
		fmt.Println()
	}

	catalog := models.DefaultCatalog()
	if dataDir != "" {
		var err error
		catalog, err = loader.LoadCatalog(dataDir)
		if err != nil {
			color.Red("Error loading catalog: %v", err)
			os.Exit(1)
		}
	}

	order := demoOrder
	roster := models.DefaultRoster()
	name := "demo"
	switch {
	case scenarioFile != "":
		scenario, err := loader.LoadScenario(scenarioFile)
		if err != nil {
			color.Red("Error loading scenario: %v", err)
			os.Exit(1)
		}
		order = scenario.BuildOrder
		if scenario.Roster != nil {
			roster = scenario.Roster
		}
		name = scenario.Name
	case len(args) > 0:
		order = args
		name = "command line"
	}

	if !quiet {
		infoColor.Printf("📦 Catalog: %d unit types\n", len(catalog.Names()))
		infoColor.Printf("📋 Build order (%s): %d tasks\n\n", name, len(order))
	}

	if compare {
		runComparison(catalog, order, roster, successColor)
		return
	}

	sched, err := scheduler.ByName(schedulerName)
	if err != nil {
		color.Red("%v", err)
		os.Exit(1)
	}

	res, err := run(catalog, order, roster, sched)
	if err != nil {
		color.Red("Simulation failed: %v", err)
		os.Exit(1)
	}

	if !quiet {
		printDispatches(res.Trace)
		if verbose {
			printTrace(res.Trace)
		}
		printSummary(res)
	}
	successColor.Printf("\n✓ Makespan with %s scheduler: %d ticks\n", sched.Name(), res.Makespan)
}

func run(catalog *models.Catalog, order, roster []string, sched sim.Scheduler) (*sim.Result, error) {
	engine, err := sim.New(sim.Config{
		Catalog:    catalog,
		BuildOrder: order,
		Roster:     roster,
		Scheduler:  sched,
		Horizon:    horizon,
	})
	if err != nil {
		return nil, err
	}
	return engine.Run(context.Background())
}

func runComparison(catalog *models.Catalog, order, roster []string, successColor *color.Color) {
	type outcome struct {
		name     string
		makespan int
		err      error
	}

	var results []outcome
	best := -1
	for _, name := range scheduler.Names() {
		sched, err := scheduler.ByName(name)
		if err != nil {
			panic("BUG: preset name not constructible: " + name)
		}
		res, err := run(catalog, order, roster, sched)
		o := outcome{name: name, err: err}
		if err == nil {
			o.makespan = res.Makespan
			if best < 0 || o.makespan < best {
				best = o.makespan
			}
		}
		results = append(results, o)
	}

	fmt.Println("📊 Scheduler Comparison:")
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"", "Scheduler", "Makespan"}),
	)
	for _, o := range results {
		marker := ""
		var span string
		if o.err != nil {
			span = o.err.Error()
		} else {
			span = fmt.Sprintf("%d", o.makespan)
			if o.makespan == best {
				marker = "✓"
			}
		}
		_ = table.Append([]string{marker, o.name, span})
	}
	_ = table.Render()

	if best >= 0 {
		successColor.Printf("\n✓ Best makespan: %d ticks\n", best)
	}
}

func printDispatches(trace sim.Trace) {
	table := tablewriter.NewTable(os.Stdout,
		tablewriter.WithHeader([]string{"#", "Task", "Start", "End", "Duration", "Detail"}),
	)
	i := 0
	for _, ev := range trace {
		if ev.Kind != sim.EventDispatch {
			continue
		}
		i++
		_ = table.Append([]string{
			fmt.Sprintf("%d", i),
			ev.Type,
			fmt.Sprintf("%d", ev.Tick),
			fmt.Sprintf("%d", ev.End),
			fmt.Sprintf("%d", ev.End-ev.Tick),
			ev.Note,
		})
	}
	_ = table.Render()
}

func printTrace(trace sim.Trace) {
	fmt.Println("\n🔍 Event trace:")
	for _, ev := range trace {
		fmt.Printf("   %s\n", ev)
	}
}

func printSummary(res *sim.Result) {
	infoColor := color.New(color.FgYellow)

	var names []string
	for name := range res.Completed {
		names = append(names, name)
	}
	sort.Strings(names)

	infoColor.Println("\n🏁 Final roster:")
	for _, name := range names {
		fmt.Printf("   • %s ×%d\n", name, res.Completed[name])
	}
}
