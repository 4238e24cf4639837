package action

import (
	"testing"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/memory"
	"github.com/talgya/crossroads/internal/trust"
)

func TestGenerateMovementPrefersFoodWhenDesperate(t *testing.T) {
	g := locations.NewGraph()
	g.Add(&locations.Location{ID: "loc_a"})
	g.Add(&locations.Location{ID: "loc_food", Benefits: locations.Benefits{FoodStores: 100}})
	g.AddEdge("loc_a", "loc_food")

	a := &agents.Agent{ID: "agent_a", Location: "loc_a", Needs: agents.Needs{FoodSecurity: agents.FoodDesperate}}
	w := World{Locations: g}

	out := generateMovement(a, w)
	if len(out) != 1 || out[0].Weight <= 1.0 {
		t.Fatalf("expected a food-seeking weight boost, got %+v", out)
	}
}

func TestGenerateMovementSurfacesFartherTerritoryWithDistanceDiscount(t *testing.T) {
	g := locations.NewGraph()
	g.Add(&locations.Location{ID: "loc_a"})
	g.Add(&locations.Location{ID: "loc_mid"})
	g.Add(&locations.Location{ID: "loc_food", Benefits: locations.Benefits{FoodStores: 100}})
	g.AddEdge("loc_a", "loc_mid")
	g.AddEdge("loc_mid", "loc_food")

	freg := factions.NewRegistry()
	f := factions.New("faction_a", "A", "loc_a", []string{"loc_a", "loc_mid", "loc_food"})
	freg.Add(f)

	a := &agents.Agent{
		ID: "agent_a", FactionID: "faction_a", Location: "loc_a",
		Needs: agents.Needs{FoodSecurity: agents.FoodDesperate},
	}
	w := World{Locations: g, Factions: freg, Tuning: config.DefaultTuning()}

	out := generateMovement(a, w)
	var toward *Candidate
	for i := range out {
		if out[i].TargetLocation == "loc_mid" {
			toward = &out[i]
		}
	}
	if toward == nil {
		t.Fatalf("expected a travel-toward candidate stepping toward loc_food via loc_mid, got %+v", out)
	}
	if toward.Weight <= 0 || toward.Weight >= 1.0+100.0/50.0 {
		t.Fatalf("expected the farther candidate discounted below its raw desirability, got %v", toward.Weight)
	}
}

func TestGenerateCommunicationRequiresCoPresence(t *testing.T) {
	g := locations.NewGraph()
	g.Add(&locations.Location{ID: "loc_a"})
	a := &agents.Agent{ID: "agent_a", Location: "loc_a"}
	w := World{Locations: g, Agents: agents.NewIndex(), Memories: memory.NewBanks()}
	if out := generateCommunication(a, w); out != nil {
		t.Fatalf("expected no communication candidates with nobody present, got %+v", out)
	}
}

func TestGenerateCommunicationSurfacesLieOnlyForDishonestAgents(t *testing.T) {
	g := locations.NewGraph()
	g.Add(&locations.Location{ID: "loc_a"})
	g.RebuildPresence(map[locations.ID][]string{"loc_a": {"agent_a", "agent_b"}})

	idx := agents.NewIndex()
	idx.Add(&agents.Agent{ID: "agent_b", Alive: true})
	banks := memory.NewBanks()
	banks.Of("agent_a").Add(memory.NewFirsthand("evt_1", "something happened", 0.5, 0, 1))

	honest := &agents.Agent{ID: "agent_a", Location: "loc_a", Traits: agents.Traits{Honesty: 0.9}}
	dishonest := &agents.Agent{ID: "agent_a", Location: "loc_a", Traits: agents.Traits{Honesty: 0.1}}
	w := World{Locations: g, Agents: idx, Memories: banks}

	if out := generateCommunication(honest, w); hasKind(out, Lie) {
		t.Fatalf("expected no Lie candidate for an honest agent, got %+v", out)
	}
	if out := generateCommunication(dishonest, w); !hasKind(out, Lie) {
		t.Fatalf("expected a Lie candidate for a dishonest agent, got %+v", out)
	}
}

func TestCommunicationTargetScoreFavorsSameFactionAndTrustedRecentContact(t *testing.T) {
	cfg := config.DefaultTuning()
	w := World{Trust: trust.NewStore(), Tuning: cfg, Tick: 10}

	a := &agents.Agent{ID: "agent_a", FactionID: "faction_a"}
	sameFaction := &agents.Agent{ID: "agent_b", FactionID: "faction_a"}
	enemyFaction := &agents.Agent{ID: "agent_c", FactionID: "faction_b"}

	if got, other := communicationTargetScore(a, sameFaction, w), communicationTargetScore(a, enemyFaction, w); got <= other {
		t.Fatalf("expected a same-faction target to score higher than an enemy-faction one, got %v vs %v", got, other)
	}

	trusted := &agents.Agent{ID: "agent_d", FactionID: "faction_a"}
	w.Trust.Get(a.ID, trusted.ID).Reliability = 0.8
	w.Trust.Get(a.ID, trusted.ID).Alignment = 0.8
	if got, baseline := communicationTargetScore(a, trusted, w), communicationTargetScore(a, sameFaction, w); got <= baseline {
		t.Fatalf("expected a trusted target to score higher than an untested one, got %v vs %v", got, baseline)
	}

	a.LastSpokenTo = map[agents.ID]uint64{sameFaction.ID: 9}
	recent := communicationTargetScore(a, sameFaction, w)
	a.LastSpokenTo = nil
	stale := communicationTargetScore(a, sameFaction, w)
	if recent >= stale {
		t.Fatalf("expected a recently-spoken-to target to be discounted below a fresh one, got %v vs %v", recent, stale)
	}
}

func hasKind(cands []Candidate, k Kind) bool {
	for _, c := range cands {
		if c.Kind == k {
			return true
		}
	}
	return false
}

func TestGenerateArchiveGatedOnHQPresence(t *testing.T) {
	freg := factions.NewRegistry()
	f := factions.New("faction_a", "A", "loc_hq", []string{"loc_hq"})
	freg.Add(f)

	a := &agents.Agent{ID: "agent_a", FactionID: "faction_a", Location: "loc_elsewhere"}
	w := World{Factions: freg}
	if out := generateArchive(a, w); out != nil {
		t.Fatalf("expected no archive candidates away from HQ, got %+v", out)
	}

	a.Location = "loc_hq"
	if out := generateArchive(a, w); len(out) == 0 {
		t.Fatal("expected at least a WriteArchive candidate at HQ")
	}
}

func TestGenerateConflictSurfacesConfrontForRevengeTarget(t *testing.T) {
	g := locations.NewGraph()
	g.Add(&locations.Location{ID: "loc_a"})
	g.RebuildPresence(map[locations.ID][]string{"loc_a": {"agent_a", "agent_b"}})

	a := &agents.Agent{ID: "agent_a", Location: "loc_a", Traits: agents.Traits{Boldness: 0.8}}
	a.AddGoal(agents.Goal{Kind: "revenge", Target: "agent_b"})
	w := World{Locations: g}

	out := generateConflict(a, w)
	if len(out) != 1 || out[0].Kind != Confront || out[0].TargetAgent != "agent_b" {
		t.Fatalf("expected a single Confront candidate against agent_b, got %+v", out)
	}
}
