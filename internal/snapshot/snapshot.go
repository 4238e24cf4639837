// Package snapshot serializes the full world state at an interval (and the
// always-current "current_state.json") for replay, debugging, and the
// intervention-restart CLI path. See design doc Section 3 (WorldSnapshot)
// and Section 5 (Concurrency model — write-temp-then-rename atomicity).
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/memory"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/timekeeping"
	"github.com/talgya/crossroads/internal/trust"
)

// TrustEntry is one directed relation in a flattened, serializable form.
type TrustEntry struct {
	Source   string         `json:"source_agent_id"`
	Target   string         `json:"target_agent_id"`
	Relation trust.Relation `json:"relation"`
}

// MemoryEntry is one agent's full memory bank in a flattened, serializable
// form.
type MemoryEntry struct {
	AgentID string          `json:"agent_id"`
	Records []memory.Record `json:"records"`
}

// WorldSnapshot is the complete, self-contained state of the simulation at
// a single tick.
type WorldSnapshot struct {
	Seed      int64                 `json:"seed"`
	Timestamp timekeeping.Timestamp `json:"timestamp"`
	Agents    []*agents.Agent       `json:"agents"`
	Factions  []*factions.Faction   `json:"factions"`
	Locations []*locations.Location `json:"locations"`
	Trust     []TrustEntry          `json:"trust"`
	Memories  []MemoryEntry         `json:"memories"`
	Tensions  []*tension.Tension    `json:"tensions"`
}

// Build assembles a WorldSnapshot from the live world indices.
func Build(seed int64, tick uint64, idx *agents.Index, factionReg *factions.Registry, locGraph *locations.Graph, trustStore *trust.Store, banks *memory.Banks, tensionReg *tension.Registry) WorldSnapshot {
	snap := WorldSnapshot{
		Seed:      seed,
		Timestamp: timekeeping.At(tick),
		Agents:    idx.All(),
		Factions:  factionReg.All(),
		Locations: locGraph.All(),
		Tensions:  tensionReg.All(),
	}
	for _, pair := range trustStore.All() {
		snap.Trust = append(snap.Trust, TrustEntry{
			Source:   string(pair.Source),
			Target:   string(pair.Target),
			Relation: pair.Relation,
		})
	}
	for _, id := range banks.All() {
		snap.Memories = append(snap.Memories, MemoryEntry{
			AgentID: string(id),
			Records: banks.Of(id).Records,
		})
	}
	return snap
}

// writeAtomic marshals v as indented JSON and writes it to path via a
// write-temp-then-rename, so a reader never observes a partial file.
func writeAtomic(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure snapshot dir: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename snapshot file: %w", err)
	}
	return nil
}

// WritePeriodic writes a numbered snapshot to dir/snapshots/snap_{tick}.json.
func WritePeriodic(dir string, tick uint64, snap WorldSnapshot) error {
	path := filepath.Join(dir, "snapshots", fmt.Sprintf("snap_%010d.json", tick))
	return writeAtomic(path, snap)
}

// WriteCurrentState overwrites dir/current_state.json with the latest
// snapshot — the always-up-to-date view external tools poll.
func WriteCurrentState(dir string, snap WorldSnapshot) error {
	path := filepath.Join(dir, "current_state.json")
	return writeAtomic(path, snap)
}

// Load reads a WorldSnapshot from path, for the --from-snapshot restart
// path.
func Load(path string) (WorldSnapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return WorldSnapshot{}, fmt.Errorf("read snapshot: %w", err)
	}
	var snap WorldSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return WorldSnapshot{}, fmt.Errorf("parse snapshot: %w", err)
	}
	return snap, nil
}
