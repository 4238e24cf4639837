package tension

import (
	"testing"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/trust"
)

func TestDetectGrudgeEscalationCreatesTension(t *testing.T) {
	idx := agents.NewIndex()
	a := &agents.Agent{ID: "agent_a", Alive: true, Traits: agents.Traits{Boldness: 0.5}}
	a.AddGoal(agents.Goal{Kind: "revenge", Target: "agent_b", Priority: 0.8})
	idx.Add(a)

	reg := NewRegistry()
	counter := NewCounter()
	w := World{Agents: idx, Factions: factions.NewRegistry(), Trust: trust.NewStore(), Tick: 5}

	detectGrudgeEscalation(reg, counter, w, 500)

	active := reg.Active()
	if len(active) != 1 {
		t.Fatalf("expected 1 active tension, got %d", len(active))
	}
	if active[0].Type != KindGrudgeEscalation {
		t.Fatalf("expected grudge_escalation kind, got %s", active[0].Type)
	}
	if active[0].Status != StatusBrewing {
		t.Fatalf("expected brewing at first detection, got %s", active[0].Status)
	}
}

func TestDetectGrudgeEscalationReusesExistingTension(t *testing.T) {
	idx := agents.NewIndex()
	a := &agents.Agent{ID: "agent_a", Alive: true}
	a.AddGoal(agents.Goal{Kind: "revenge", Target: "agent_b", Priority: 0.9})
	idx.Add(a)

	reg := NewRegistry()
	counter := NewCounter()
	w := World{Agents: idx, Factions: factions.NewRegistry(), Trust: trust.NewStore(), Tick: 1}

	detectGrudgeEscalation(reg, counter, w, 500)
	w.Tick = 2
	detectGrudgeEscalation(reg, counter, w, 500)

	if len(reg.All()) != 1 {
		t.Fatalf("expected detection across two ticks to reuse one tension, got %d", len(reg.All()))
	}
	if reg.All()[0].LastUpdateTick != 2 {
		t.Fatalf("expected LastUpdateTick advanced to 2, got %d", reg.All()[0].LastUpdateTick)
	}
}

func TestDetectSocialIsolationOnlyFiresWhenIsolated(t *testing.T) {
	idx := agents.NewIndex()
	isolated := &agents.Agent{ID: "agent_a", Alive: true, Needs: agents.Needs{SocialBelonging: agents.SocialIsolated}}
	fine := &agents.Agent{ID: "agent_b", Alive: true, Needs: agents.Needs{SocialBelonging: agents.SocialIntegrated}}
	idx.Add(isolated)
	idx.Add(fine)

	reg := NewRegistry()
	w := World{Agents: idx, Factions: factions.NewRegistry(), Trust: trust.NewStore(), Tick: 1}
	detectSocialIsolation(reg, NewCounter(), w, 500)

	active := reg.Active()
	if len(active) != 1 {
		t.Fatalf("expected exactly 1 isolation tension, got %d", len(active))
	}
	if active[0].KeyAgents[0].AgentID != "agent_a" {
		t.Fatalf("expected the isolated agent to be named, got %+v", active[0].KeyAgents)
	}
}

func TestDetectResourceScarcityFiresBelowSubsistence(t *testing.T) {
	idx := agents.NewIndex()
	idx.Add(&agents.Agent{ID: "agent_a", Alive: true, FactionID: "faction_a"})
	idx.Add(&agents.Agent{ID: "agent_b", Alive: true, FactionID: "faction_a"})

	freg := factions.NewRegistry()
	f := factions.New("faction_a", "A", "loc_hq", []string{"loc_hq"})
	f.Resources.Grain = 1 // 0.5 per member, below the 1.0 threshold
	freg.Add(f)

	reg := NewRegistry()
	w := World{Agents: idx, Factions: freg, Trust: trust.NewStore(), Tick: 1}
	detectResourceScarcity(reg, NewCounter(), w, 500)

	if len(reg.Active()) != 1 {
		t.Fatalf("expected scarcity to fire, got %d active tensions", len(reg.Active()))
	}
}

func TestDetectResourceScarcityDoesNotFireWhenWellFed(t *testing.T) {
	idx := agents.NewIndex()
	idx.Add(&agents.Agent{ID: "agent_a", Alive: true, FactionID: "faction_a"})

	freg := factions.NewRegistry()
	f := factions.New("faction_a", "A", "loc_hq", []string{"loc_hq"})
	f.Resources.Grain = 500
	freg.Add(f)

	reg := NewRegistry()
	w := World{Agents: idx, Factions: freg, Trust: trust.NewStore(), Tick: 1}
	detectResourceScarcity(reg, NewCounter(), w, 500)

	if len(reg.Active()) != 0 {
		t.Fatalf("expected no scarcity tension for a well-fed faction, got %d", len(reg.Active()))
	}
}

func TestDetectArchiveDisputeFiresOnDisputedEntry(t *testing.T) {
	freg := factions.NewRegistry()
	f := factions.New("faction_a", "A", "loc_hq", nil)
	f.Archive.Write(&factions.Entry{ID: "entry_1", Disputes: []string{"agent_b"}})
	f.Archive.Write(&factions.Entry{ID: "entry_2"})
	freg.Add(f)

	reg := NewRegistry()
	w := World{Agents: agents.NewIndex(), Factions: freg, Trust: trust.NewStore(), Tick: 1}
	detectArchiveDispute(reg, NewCounter(), w, 500)

	if len(reg.Active()) != 1 {
		t.Fatalf("expected exactly 1 archive dispute tension, got %d", len(reg.Active()))
	}
}

func TestAdjacentTerritoriesSharedLocation(t *testing.T) {
	a := factions.New("faction_a", "A", "loc_hq_a", []string{"loc_hq_a", "loc_shared"})
	b := factions.New("faction_b", "B", "loc_hq_b", []string{"loc_hq_b", "loc_shared"})
	if !adjacentTerritories(a, b) {
		t.Fatal("expected factions sharing loc_shared to be adjacent")
	}
	c := factions.New("faction_c", "C", "loc_hq_c", []string{"loc_hq_c"})
	if adjacentTerritories(a, c) {
		t.Fatal("expected factions with disjoint territory to not be adjacent")
	}
}
