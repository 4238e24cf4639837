package snapshot

import (
	"path/filepath"
	"testing"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/memory"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/trust"
)

func TestBuildFlattensTrustAndMemories(t *testing.T) {
	idx := agents.NewIndex()
	idx.Add(&agents.Agent{ID: "agent_a", Alive: true})

	ts := trust.NewStore()
	ts.Get("agent_a", "agent_b").Reliability = 0.4

	banks := memory.NewBanks()
	banks.Of("agent_a").Add(memory.NewFirsthand("evt_1", "saw something", 0.5, 0.1, 3))

	snap := Build(42, 10, idx, factions.NewRegistry(), locations.NewGraph(), ts, banks, tension.NewRegistry())

	if snap.Seed != 42 {
		t.Fatalf("expected seed 42, got %d", snap.Seed)
	}
	if len(snap.Trust) != 1 || snap.Trust[0].Source != "agent_a" || snap.Trust[0].Relation.Reliability != 0.4 {
		t.Fatalf("unexpected flattened trust: %+v", snap.Trust)
	}
	if len(snap.Memories) != 1 || snap.Memories[0].AgentID != "agent_a" || len(snap.Memories[0].Records) != 1 {
		t.Fatalf("unexpected flattened memories: %+v", snap.Memories)
	}
}

func TestWriteCurrentStateAndLoadRoundTrip(t *testing.T) {
	idx := agents.NewIndex()
	idx.Add(&agents.Agent{ID: "agent_a", Alive: true})

	snap := Build(7, 1, idx, factions.NewRegistry(), locations.NewGraph(), trust.NewStore(), memory.NewBanks(), tension.NewRegistry())

	dir := t.TempDir()
	if err := WriteCurrentState(dir, snap); err != nil {
		t.Fatal(err)
	}

	loaded, err := Load(filepath.Join(dir, "current_state.json"))
	if err != nil {
		t.Fatal(err)
	}
	if loaded.Seed != 7 || len(loaded.Agents) != 1 || loaded.Agents[0].ID != "agent_a" {
		t.Fatalf("unexpected round-tripped snapshot: %+v", loaded)
	}
}

func TestWritePeriodicUsesZeroPaddedTick(t *testing.T) {
	dir := t.TempDir()
	snap := Build(1, 250, agents.NewIndex(), factions.NewRegistry(), locations.NewGraph(), trust.NewStore(), memory.NewBanks(), tension.NewRegistry())
	if err := WritePeriodic(dir, 250, snap); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(filepath.Join(dir, "snapshots", "snap_0000000250.json")); err != nil {
		t.Fatalf("expected the periodic snapshot at the zero-padded path, got error: %v", err)
	}
}

func TestLoadMissingFileErrors(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error loading a missing snapshot file")
	}
}
