package action

import (
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/timekeeping"
	"github.com/talgya/crossroads/internal/weather"
)

// traitModifier scales a candidate's base weight by the fixed personality
// trait most relevant to that action kind (Section 4.3.3).
func traitModifier(a *agents.Agent, k Kind) float64 {
	switch k {
	case Move:
		return 0.5 + a.Traits.Boldness*0.5
	case ShareMemory, Confess:
		return 0.5 + a.Traits.Honesty*0.8
	case Lie, SpreadRumor:
		return 0.3 + (1-a.Traits.Honesty)*1.2
	case Cooperate:
		return 0.5 + a.Traits.Sociability*0.8
	case Confront:
		return 0.4 + a.Traits.Boldness*1.1
	case WriteArchive:
		return 0.5 + a.Traits.Ambition*0.7
	case ForgeArchive:
		return 0.2 + (1-a.Traits.Honesty)*1.0
	case DestroyArchive:
		return 0.3 + a.Traits.Boldness*0.5
	default:
		return 1.0
	}
}

// needModifier scales a candidate's weight by how urgently the agent's
// current need state calls for that kind of action.
func needModifier(a *agents.Agent, k Kind) float64 {
	mod := 1.0
	switch k {
	case Cooperate, ShareMemory, Confess:
		if a.Needs.SocialBelonging == agents.SocialIsolated {
			mod *= 1.6
		} else if a.Needs.SocialBelonging == agents.SocialPeripheral {
			mod *= 1.2
		}
	case Move:
		if a.Needs.FoodSecurity == agents.FoodDesperate {
			mod *= 1.5
		}
	}
	return mod
}

// goalModifier boosts any candidate that directly advances an active goal
// (a revenge goal boosts Confront against its target; any goal targeting an
// agent boosts interactions with that agent).
func goalModifier(a *agents.Agent, k Kind, target agents.ID) float64 {
	mod := 1.0
	for _, g := range a.Goals {
		if target != "" && g.Target == string(target) {
			mod *= 1 + g.Priority
		}
	}
	return mod
}

// relationshipModifier scales communication and conflict candidates by the
// actor's trust in the target — agents prefer confiding in the trusted and
// confronting the distrusted.
func relationshipModifier(a *agents.Agent, c Candidate, w World) float64 {
	if c.TargetAgent == "" {
		return 1.0
	}
	rel, ok := w.Trust.Peek(a.ID, c.TargetAgent)
	if !ok {
		return 1.0
	}
	switch c.Kind {
	case ShareMemory, Confess, Cooperate:
		return 1 + (rel.Reliability+rel.Alignment)/2
	case Lie, SpreadRumor, Confront:
		return 1 - (rel.Reliability+rel.Alignment)/4
	default:
		return 1.0
	}
}

// contextModifier applies the global and per-location context modifiers
// named by Section 4.3.2: season (via the travel penalty on Move), a
// faction's resources sliding into crisis, a recently-discovered betrayal,
// and an active faction-vs-faction conflict are global; neutral territory
// (which favors secret meetings) and enemy-controlled territory (which
// dampens every action) are per-location.
func contextModifier(a *agents.Agent, c Candidate, w World) float64 {
	mod := 1.0

	if c.Kind == Move {
		mod *= 1 - weather.For(timekeeping.At(w.Tick).Season).TravelPenalty
	}
	if resourcesCritical(a, w) {
		mod *= 1.3
	}
	if recentBetrayalDiscovered(a) {
		mod *= 1.2
	}
	if factionAtWar(a, w) {
		mod *= 1.2
	}

	if loc := w.Locations.Get(locations.ID(a.Location)); loc != nil {
		switch {
		case loc.Kind == locations.KindNeutral && (c.Kind == Lie || c.Kind == SpreadRumor || c.Kind == Confess):
			mod *= w.Tuning.Social.NeutralMeetingMod
		case loc.ControllingFaction != "" && loc.ControllingFaction != a.FactionID:
			mod *= w.Tuning.Social.EnemyTerritoryWeightMod
		}
	}

	if mod < 0 {
		mod = 0
	}
	return mod
}

// resourcesCritical reports whether a's faction's effective food per member
// has fallen into the desperate band (Section 4.2's food-security ratio).
func resourcesCritical(a *agents.Agent, w World) bool {
	if a.FactionID == "" {
		return false
	}
	f := w.Factions.Get(factions.ID(a.FactionID))
	if f == nil {
		return false
	}
	members := w.Agents.FactionMembers(a.FactionID)
	if len(members) == 0 {
		return false
	}
	ratio := f.EffectiveFood(w.Tuning.Economy.BeerFoodWeight) / float64(len(members))
	return ratio < w.Tuning.Resource.DesperateLowerRatio
}

// recentBetrayalDiscovered reports whether a is currently nursing a revenge
// goal — the only durable record in agent state of a betrayal having been
// discovered.
func recentBetrayalDiscovered(a *agents.Agent) bool {
	for _, g := range a.Goals {
		if g.Kind == "revenge" {
			return true
		}
	}
	return false
}

// factionAtWar reports whether any of a's revenge goals targets a member of
// a different faction — the closest derivable signal for active
// faction-vs-faction conflict, since the world model carries no explicit
// alliance/war graph.
func factionAtWar(a *agents.Agent, w World) bool {
	for _, g := range a.Goals {
		if g.Kind != "revenge" || g.Target == "" {
			continue
		}
		other := w.Agents.Get(agents.ID(g.Target))
		if other != nil && other.FactionID != "" && a.FactionID != "" && other.FactionID != a.FactionID {
			return true
		}
	}
	return false
}
