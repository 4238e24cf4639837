package action

import (
	"testing"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/trust"
)

func TestTraitModifierScalesWithRelevantTrait(t *testing.T) {
	bold := &agents.Agent{Traits: agents.Traits{Boldness: 1.0}}
	timid := &agents.Agent{Traits: agents.Traits{Boldness: 0.0}}
	if traitModifier(bold, Move) <= traitModifier(timid, Move) {
		t.Fatal("expected a bolder agent to get a higher Move modifier")
	}
}

func TestNeedModifierBoostsSocialActionsWhenIsolated(t *testing.T) {
	isolated := &agents.Agent{Needs: agents.Needs{SocialBelonging: agents.SocialIsolated}}
	integrated := &agents.Agent{Needs: agents.Needs{SocialBelonging: agents.SocialIntegrated}}
	if needModifier(isolated, Cooperate) <= needModifier(integrated, Cooperate) {
		t.Fatal("expected isolation to boost the Cooperate modifier")
	}
}

func TestGoalModifierBoostsMatchingTarget(t *testing.T) {
	a := &agents.Agent{}
	a.AddGoal(agents.Goal{Kind: "revenge", Target: "agent_b", Priority: 0.5})
	if got := goalModifier(a, Confront, "agent_b"); got != 1.5 {
		t.Fatalf("expected goal modifier 1.5, got %v", got)
	}
	if got := goalModifier(a, Confront, "agent_c"); got != 1.0 {
		t.Fatalf("expected no boost for an unrelated target, got %v", got)
	}
}

func TestRelationshipModifierFavorsTrustedForConfiding(t *testing.T) {
	store := trust.NewStore()
	store.Get("agent_a", "agent_b").Reliability = 0.8
	store.Get("agent_a", "agent_b").Alignment = 0.8
	w := World{Trust: store}
	a := &agents.Agent{ID: "agent_a"}

	got := relationshipModifier(a, Candidate{Kind: ShareMemory, TargetAgent: "agent_b"}, w)
	if got <= 1.0 {
		t.Fatalf("expected a trusted target to boost ShareMemory, got %v", got)
	}
}

func TestRelationshipModifierUnknownPairIsNeutral(t *testing.T) {
	w := World{Trust: trust.NewStore()}
	a := &agents.Agent{ID: "agent_a"}
	got := relationshipModifier(a, Candidate{Kind: Lie, TargetAgent: "agent_b"}, w)
	if got != 1.0 {
		t.Fatalf("expected a neutral modifier for an unestablished relation, got %v", got)
	}
}

func TestRecentBetrayalDiscoveredRequiresRevengeGoal(t *testing.T) {
	clean := &agents.Agent{}
	aggrieved := &agents.Agent{}
	aggrieved.AddGoal(agents.Goal{Kind: "revenge", Target: "agent_b"})
	if recentBetrayalDiscovered(clean) {
		t.Fatal("expected no revenge goal to mean no recent betrayal")
	}
	if !recentBetrayalDiscovered(aggrieved) {
		t.Fatal("expected a revenge goal to mark a recent betrayal")
	}
}

func TestFactionAtWarRequiresCrossFactionRevengeTarget(t *testing.T) {
	idx := agents.NewIndex()
	idx.Add(&agents.Agent{ID: "agent_enemy", FactionID: "faction_b", Alive: true})
	idx.Add(&agents.Agent{ID: "agent_friend", FactionID: "faction_a", Alive: true})
	w := World{Agents: idx}

	warring := &agents.Agent{FactionID: "faction_a"}
	warring.AddGoal(agents.Goal{Kind: "revenge", Target: "agent_enemy"})
	if !factionAtWar(warring, w) {
		t.Fatal("expected a revenge goal against a different faction's member to signal war")
	}

	peaceful := &agents.Agent{FactionID: "faction_a"}
	peaceful.AddGoal(agents.Goal{Kind: "revenge", Target: "agent_friend"})
	if factionAtWar(peaceful, w) {
		t.Fatal("expected a revenge goal against a faction-mate not to signal war")
	}
}

func TestContextModifierDampensInEnemyTerritory(t *testing.T) {
	graph := locations.NewGraph()
	graph.Add(&locations.Location{ID: "loc_enemy_hq", Kind: locations.KindVillage, ControllingFaction: "faction_b"})
	w := World{
		Locations: graph,
		Factions:  factions.NewRegistry(),
		Agents:    agents.NewIndex(),
		Tuning:    config.DefaultTuning(),
	}
	a := &agents.Agent{FactionID: "faction_a", Location: "loc_enemy_hq"}

	got := contextModifier(a, Candidate{Kind: Cooperate}, w)
	if got != w.Tuning.Social.EnemyTerritoryWeightMod {
		t.Fatalf("expected enemy-territory modifier %v, got %v", w.Tuning.Social.EnemyTerritoryWeightMod, got)
	}
}

func TestContextModifierBoostsSecretMeetingsInNeutralTerritory(t *testing.T) {
	graph := locations.NewGraph()
	graph.Add(&locations.Location{ID: "loc_crossroads", Kind: locations.KindNeutral})
	w := World{
		Locations: graph,
		Factions:  factions.NewRegistry(),
		Agents:    agents.NewIndex(),
		Tuning:    config.DefaultTuning(),
	}
	a := &agents.Agent{FactionID: "faction_a", Location: "loc_crossroads"}

	got := contextModifier(a, Candidate{Kind: Lie}, w)
	if got != w.Tuning.Social.NeutralMeetingMod {
		t.Fatalf("expected neutral-meeting modifier %v, got %v", w.Tuning.Social.NeutralMeetingMod, got)
	}
}

func TestResourcesCriticalReflectsFoodRatio(t *testing.T) {
	reg := factions.NewRegistry()
	f := factions.New("faction_a", "A", "loc_hq", nil)
	f.Resources.Grain = 0.1
	reg.Add(f)
	idx := agents.NewIndex()
	idx.Add(&agents.Agent{ID: "agent_a", FactionID: "faction_a", Alive: true})
	w := World{Factions: reg, Agents: idx, Tuning: config.DefaultTuning()}

	if !resourcesCritical(&agents.Agent{FactionID: "faction_a"}, w) {
		t.Fatal("expected a near-empty granary to register as resource-critical")
	}
}
