// Command director consumes a running (or completed) simulator's output
// directory — events.jsonl, tensions.json, current_state.json — and emits
// camera focus recommendations and commentary to its own output directory.
// It is a separate process: it never touches the simulator's in-memory
// state, only its files. See design doc Section 6.
package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/director"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/logging"
	"github.com/talgya/crossroads/internal/snapshot"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/trust"
)

var (
	simOutputDir    string
	directorOutDir  string
	directorConfigPath string
	commentaryPath  string
	pollInterval    time.Duration
	trackedAgentIDs []string
)

func main() {
	logging.Setup(slog.LevelInfo)

	root := &cobra.Command{
		Use:   "director",
		Short: "Consume a simulator's output and produce camera/commentary output",
		RunE:  run,
	}
	root.Flags().StringVar(&simOutputDir, "sim-output-dir", "output", "simulator output directory to read")
	root.Flags().StringVar(&directorOutDir, "output-dir", "director-output", "directory to write director output")
	root.Flags().StringVar(&directorConfigPath, "config", "director.toml", "path to director config")
	root.Flags().StringVar(&commentaryPath, "commentary-templates", "commentary.toml", "path to commentary templates")
	root.Flags().DurationVar(&pollInterval, "poll-interval", 500*time.Millisecond, "how often to check for new events")
	root.Flags().StringSliceVar(&trackedAgentIDs, "track-agent", nil, "agent IDs whose events get a focus boost")

	if err := root.Execute(); err != nil {
		slog.Error("director exited with error", "error", err)
		os.Exit(1)
	}
}

func run(cmd *cobra.Command, args []string) error {
	cfg := config.LoadDirectorConfig(directorConfigPath)
	tmpl := director.LoadTemplates(commentaryPath)
	if err := os.MkdirAll(directorOutDir, 0o755); err != nil {
		return fmt.Errorf("create director output dir: %w", err)
	}

	tracked := make(map[string]bool, len(trackedAgentIDs))
	for _, id := range trackedAgentIDs {
		tracked[id] = true
	}

	threads := director.NewThreadTracker()
	irony := director.NewIronyDetector()
	queue := director.NewQueue(cfg.Commentary.MaxQueueSize)

	eventsPath := filepath.Join(simOutputDir, "events.jsonl")
	f, err := waitForFile(eventsPath)
	if err != nil {
		return err
	}
	defer f.Close()

	reader := bufio.NewReader(f)
	idx := agents.NewIndex()
	trustStore := trust.NewStore()

	for {
		advanced := false
		for {
			line, err := reader.ReadString('\n')
			if err != nil {
				if !errors.Is(err, io.EOF) {
					slog.Warn("reading event log failed", "error", err)
				}
				break
			}
			advanced = true
			var e events.Event
			if err := json.Unmarshal([]byte(line), &e); err != nil {
				slog.Warn("skipping malformed event line", "error", err)
				continue
			}
			processEvent(e, cfg, tmpl, idx, tracked, threads, irony, queue)
		}

		refreshWorldState(simOutputDir, &idx, &trustStore)
		tensions := readTensions(filepath.Join(simOutputDir, "tensions.json"))

		threads.Age(latestTick(tensions), cfg.Focus.ThreadFatigueThresholdTicks, cfg.Focus.ThreadDormancyTicks, resolvedSet(tensions))
		focus := director.SelectFocus(tensions, threads, cfg.Focus)

		for _, rec := range irony.Scan(trustStore, cfg.Focus, latestTick(tensions)) {
			queue.Push(director.IronyComment(rec, tmpl, idx, latestTick(tensions)))
		}

		tick := latestTick(tensions)
		focused := findTension(tensions, focus)
		var activeThreads []director.ThreadSummary
		for _, th := range threads.Active() {
			activeThreads = append(activeThreads, director.ThreadSummary{ID: th.ID, Status: th.Status})
		}
		lines := queue.Lines()

		severity := 0.0
		if focused != nil {
			severity = focused.Severity
		}
		cameraScript := director.BuildCameraScript(tick, focus, focused)
		commentary := director.CommentaryOutput{Tick: tick, Pacing: director.PacingFor(severity), ActiveThreads: activeThreads, Commentary: lines}
		highlights := director.HighlightsOutput{Tick: tick, Highlights: director.Highlights(lines)}

		if err := writeJSON(directorOutDir, "camera_script.json", cameraScript); err != nil {
			slog.Warn("failed to write camera script", "error", err)
		}
		if err := writeJSON(directorOutDir, "commentary.json", commentary); err != nil {
			slog.Warn("failed to write commentary", "error", err)
		}
		if err := writeJSON(directorOutDir, "highlights.json", highlights); err != nil {
			slog.Warn("failed to write highlights", "error", err)
		}

		if !advanced {
			time.Sleep(pollInterval)
		}
	}
}

func waitForFile(path string) (*os.File, error) {
	for i := 0; i < 20; i++ {
		f, err := os.Open(path)
		if err == nil {
			return f, nil
		}
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("open event log: %w", err)
		}
		time.Sleep(250 * time.Millisecond)
	}
	return nil, fmt.Errorf("event log %s did not appear", path)
}

func processEvent(e events.Event, cfg config.DirectorConfig, tmpl director.Templates, idx *agents.Index, tracked map[string]bool, threads *director.ThreadTracker, irony *director.IronyDetector, queue *director.Queue) {
	score := director.Score(e, cfg.EventWeights, tracked, false)
	se := director.ScoredEvent{Event: e, Score: score}
	if line, ok := director.Comment(se, tmpl, idx, cfg.Commentary); ok {
		queue.Push(line)
	}
	if e.Type == "conflict" && e.Subtype == "confrontation" {
		threads.Observe(e.ID, []string{e.Actors.Primary, e.Actors.Secondary}, e.ID, e.Timestamp.Tick)
	}
	if len(e.DramaTags) > 0 {
		for _, tag := range e.DramaTags {
			if tag == "deception" || tag == "forgery" {
				irony.Record(e.Actors.Primary, e.Actors.Secondary, e.Timestamp.Tick)
			}
		}
	}
}

func refreshWorldState(dir string, idx **agents.Index, trustStore **trust.Store) {
	snap, err := snapshot.Load(filepath.Join(dir, "current_state.json"))
	if err != nil {
		return
	}
	fresh := agents.NewIndex()
	for _, a := range snap.Agents {
		fresh.Add(a)
	}
	*idx = fresh

	freshTrust := trust.NewStore()
	for _, te := range snap.Trust {
		*freshTrust.Get(agents.ID(te.Source), agents.ID(te.Target)) = te.Relation
	}
	*trustStore = freshTrust
}

func readTensions(path string) []*tension.Tension {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}
	var out []*tension.Tension
	if err := json.Unmarshal(data, &out); err != nil {
		return nil
	}
	return out
}

func latestTick(tensions []*tension.Tension) uint64 {
	var max uint64
	for _, t := range tensions {
		if t.LastUpdateTick > max {
			max = t.LastUpdateTick
		}
	}
	return max
}

func resolvedSet(tensions []*tension.Tension) map[string]bool {
	out := make(map[string]bool, len(tensions))
	for _, t := range tensions {
		if t.Status == tension.StatusResolved {
			out[t.ID] = true
		}
	}
	return out
}

func findTension(tensions []*tension.Tension, id string) *tension.Tension {
	for _, t := range tensions {
		if t.ID == id {
			return t
		}
	}
	return nil
}

// writeJSON marshals v and writes it to dir/name, writing to a .tmp sibling
// first and renaming over the target so readers never observe a partial
// file.
func writeJSON(dir, name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
