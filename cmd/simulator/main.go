// Command simulator runs the deterministic faction simulation core for a
// fixed number of ticks, writing events, snapshots, and tensions to an
// output directory. See design doc Section 6 (External interfaces — CLI).
package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/engine"
	"github.com/talgya/crossroads/internal/logging"
	"github.com/talgya/crossroads/internal/rng"
	"github.com/talgya/crossroads/internal/scenario"
	"github.com/talgya/crossroads/internal/snapshot"
	"github.com/talgya/crossroads/internal/stats"
	"github.com/talgya/crossroads/internal/worldgen"
)

var (
	seed              int64
	ticks             uint64
	snapshotInterval  uint64
	ritualInterval    uint64
	outputDir         string
	interventionDir   string
	tuningPath        string
	directorConfigPath string
	fromSnapshot      string
	startTick         uint64
	outputInitialState bool
)

func main() {
	logging.Setup(slog.LevelInfo)

	root := &cobra.Command{
		Use:   "simulator",
		Short: "Run the deterministic faction simulation core",
		RunE:  run,
	}
	root.Flags().Int64Var(&seed, "seed", 42, "PRNG seed")
	root.Flags().Uint64Var(&ticks, "ticks", 1000, "number of ticks to run")
	root.Flags().Uint64Var(&snapshotInterval, "snapshot-interval", 100, "ticks between periodic snapshots")
	root.Flags().Uint64Var(&ritualInterval, "ritual-interval", 500, "ticks between faction rituals")
	root.Flags().StringVar(&outputDir, "output-dir", "output", "directory for events, snapshots, and tensions")
	root.Flags().StringVar(&interventionDir, "intervention-dir", "interventions", "directory polled for intervention files")
	root.Flags().StringVar(&tuningPath, "tuning", "tuning.toml", "path to tuning config")
	root.Flags().StringVar(&directorConfigPath, "director-config", "director.toml", "path to director config, used for event drama-score weighting")
	root.Flags().StringVar(&fromSnapshot, "from-snapshot", "", "snapshot file to load and check; its world state is not restored")
	root.Flags().Uint64Var(&startTick, "start-tick", 0, "tick to resume at (with --from-snapshot)")
	root.Flags().BoolVar(&outputInitialState, "output-initial-state", false, "write current_state.json before the first tick")

	if err := root.Execute(); err != nil {
		slog.Error("simulator exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	tuning := config.LoadTuning(tuningPath)
	dramaWeights := config.LoadDirectorConfig(directorConfigPath).EventWeights
	if snapshotInterval != 100 {
		tuning.Simulation.SnapshotInterval = snapshotInterval
	}
	if ritualInterval != 500 {
		tuning.Simulation.RitualInterval = ritualInterval
	}

	stream := rng.New(uint64(seed))
	locGraph := worldgen.Generate(worldgen.Config{Seed: seed, Radius: 4})
	factionReg, agentIdx := scenario.Build(scenario.DefaultConfig(), locGraph, stream)

	sim, err := engine.New(engine.Config{
		Seed: seed, Ticks: ticks, OutputDir: outputDir,
		InterventionDir: interventionDir, StartTick: startTick,
	}, tuning, dramaWeights, locGraph, factionReg, agentIdx)
	if err != nil {
		return fmt.Errorf("initialize simulation: %w", err)
	}
	defer sim.Close()

	if fromSnapshot != "" {
		if _, err := snapshot.Load(fromSnapshot); err != nil {
			return fmt.Errorf("load snapshot: %w", err)
		}
		slog.Warn("--from-snapshot only checks that the snapshot file loads; the run starts from the " +
			"scenario-generated world at --start-tick and does not restore the snapshot's state")
	}

	if outputInitialState {
		if err := os.MkdirAll(outputDir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
		initial := snapshot.Build(seed, startTick, sim.Agents, sim.Factions, sim.Locations, sim.Trust, sim.Memories, sim.Tensions)
		if err := snapshot.WriteCurrentState(outputDir, initial); err != nil {
			return fmt.Errorf("write initial state: %w", err)
		}
	}

	slog.Info("starting simulation", "seed", seed, "ticks", humanize.Comma(int64(ticks)), "agents", len(agentIdx.All()), "factions", len(factionReg.All()))
	if err := sim.Run(); err != nil {
		return err
	}
	slog.Info("simulation complete", "ticks_run", humanize.Comma(int64(ticks)))
	if raw, err := os.ReadFile(filepath.Join(outputDir, "stats.json")); err == nil {
		var final stats.Snapshot
		if err := json.Unmarshal(raw, &final); err == nil {
			slog.Info("final population", "alive", humanize.Comma(int64(final.Population)),
				"deaths", humanize.Comma(int64(final.Deaths)), "gini", final.GiniCoefficient)
		}
	}
	return nil
}
