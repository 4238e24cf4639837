package action

import (
	"math"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/timekeeping"
)

// generateMovement surfaces Move candidates from the desire-based location
// scan (Section 4.3.1): one immediate candidate per neighboring location,
// plus a travel-toward candidate for every other reachable location in the
// agent's own faction territory whose desirability exceeds the base 1.0,
// weighted down by distance. Movement
// emerges from need mismatches; there is no explicit "return home" rule.
func generateMovement(a *agents.Agent, w World) []Candidate {
	var out []Candidate
	current := locations.ID(a.Location)
	visited := map[locations.ID]bool{current: true}

	for _, n := range w.Locations.Neighbors(current) {
		if visited[n] {
			continue
		}
		visited[n] = true
		loc := w.Locations.Get(n)
		if loc == nil {
			continue
		}
		out = append(out, Candidate{Kind: Move, TargetLocation: n, Weight: locationDesirability(a, loc)})
	}

	if a.FactionID == "" {
		return out
	}
	f := w.Factions.Get(factions.ID(a.FactionID))
	if f == nil {
		return out
	}
	for _, t := range f.Territory {
		dest := locations.ID(t)
		if visited[dest] {
			continue
		}
		visited[dest] = true
		loc := w.Locations.Get(dest)
		if loc == nil {
			continue
		}
		path := w.Locations.ShortestPath(current, dest)
		if len(path) < 2 {
			continue // unreachable
		}
		next := w.Locations.NextStepToward(current, dest)
		if next == "" {
			continue
		}
		steps := len(path) - 1
		desirability := locationDesirability(a, loc)
		if desirability <= 1.0 {
			continue // not worth a multi-step detour
		}
		out = append(out, Candidate{
			Kind: Move, TargetLocation: next,
			Weight: desirability * distanceCost(steps, a.Traits.Boldness, w.Tuning.Movement),
		})
	}
	return out
}

// locationDesirability scores how much loc's benefits address a's current
// need deficits.
func locationDesirability(a *agents.Agent, loc *locations.Location) float64 {
	weight := 1.0
	if a.Needs.FoodSecurity != agents.FoodSecure && loc.Benefits.FoodStores > 0 {
		weight += loc.Benefits.FoodStores / 50.0
	}
	if a.Needs.SocialBelonging != agents.SocialIntegrated && loc.Benefits.SocialHubRating > 0 {
		weight += loc.Benefits.SocialHubRating
	}
	return weight
}

// distanceCost implements Section 4.3.2's distance_cost = 0.7^steps, pulled
// toward 1 (less penalty) for bolder agents, who discount the remaining
// penalty by boldness * BoldnessDistanceDiscount.
func distanceCost(steps int, boldness float64, cfg config.MovementSection) float64 {
	cost := math.Pow(cfg.BaseDistanceDecay, float64(steps))
	return cost + boldness*cfg.BoldnessDistanceDiscount*(1-cost)
}

// generateCommunication surfaces communication candidates toward every
// other agent present at a's current location — the precondition being
// co-presence — scaled by the target-selection scoring model of Section
// 4.3.1. Section 4.3.2.
func generateCommunication(a *agents.Agent, w World) []Candidate {
	loc := w.Locations.Get(locations.ID(a.Location))
	if loc == nil {
		return nil
	}
	var out []Candidate
	for _, otherID := range loc.AgentsPresent {
		if agents.ID(otherID) == a.ID {
			continue
		}
		other := w.Agents.Get(agents.ID(otherID))
		if other == nil || !other.Alive {
			continue
		}
		score := communicationTargetScore(a, other, w)

		bank := w.Memories.Of(a.ID)
		for _, rec := range bank.Records {
			out = append(out, Candidate{Kind: ShareMemory, TargetAgent: other.ID, MemoryEventID: rec.EventID, Weight: 1 * score})
			if a.Traits.Honesty < 0.4 {
				out = append(out, Candidate{Kind: Lie, TargetAgent: other.ID, MemoryEventID: rec.EventID, Weight: 0.5 * score})
			}
			out = append(out, Candidate{Kind: SpreadRumor, TargetAgent: other.ID, MemoryEventID: rec.EventID, Weight: 0.3 * score})
		}
		out = append(out, Candidate{Kind: Cooperate, TargetAgent: other.ID, Weight: 1 * score})
		if a.Traits.Honesty > 0.6 {
			out = append(out, Candidate{Kind: Confess, TargetAgent: other.ID, Weight: 0.2 * score})
		}
	}
	return out
}

// communicationTargetScore implements Section 4.3.1's target-selection
// scoring model. Proximity is always "same" here — co-presence is
// generateCommunication's own precondition, so the proximity factor never
// varies within this function (the adjacent/far bands apply only to
// actions that can target a non-co-located agent, which this codebase does
// not implement).
func communicationTargetScore(a, other *agents.Agent, w World) float64 {
	cfg := w.Tuning.Communication
	score := 1.0

	switch {
	case a.FactionID != "" && a.FactionID == other.FactionID:
		score *= cfg.SameFactionModifier
	case a.FactionID == "" || other.FactionID == "":
		score *= cfg.NeutralFactionModifier
	default:
		score *= cfg.EnemyFactionModifier
	}

	if delta := float64(other.Status() - a.Status()); delta > 0 {
		score *= 1.0 + 0.5*delta
	} else if delta < 0 {
		score *= 0.7
	}

	if w.Trust != nil {
		if rel, ok := w.Trust.Peek(a.ID, other.ID); ok {
			avg := (rel.Reliability + rel.Alignment) / 2
			if avg > 0 {
				score *= 1.3
			} else if avg < 0 {
				score *= 0.4
			}
		}
	}

	for _, g := range a.Goals {
		if g.Target == string(other.ID) {
			score *= 1 + g.Priority
		}
	}

	if last, ok := a.LastSpokenTo[other.ID]; ok && w.Tick >= last && w.Tick-last < timekeeping.TicksPerDay {
		score *= cfg.RecentlySpokenMod
	}

	return score
}

// generateArchive surfaces archive-interaction candidates, gated on the
// agent being present at its faction's HQ — the precondition scan's
// location-gated branch (Section 4.3.2, Section 4.3.4).
func generateArchive(a *agents.Agent, w World) []Candidate {
	if a.FactionID == "" {
		return nil
	}
	f := w.Factions.Get(factions.ID(a.FactionID))
	if f == nil || a.Location != f.HQ {
		return nil
	}
	var out []Candidate
	out = append(out, Candidate{Kind: WriteArchive, Weight: 0.5 * a.Traits.Ambition})

	for _, e := range f.Archive.Live() {
		out = append(out, Candidate{Kind: ReadArchive, TargetEntry: e.ID, Weight: 1})
		if a.Role == agents.RoleReader || a.Role == agents.RoleLeader {
			out = append(out, Candidate{Kind: DestroyArchive, TargetEntry: e.ID, Weight: 0.05})
			out = append(out, Candidate{Kind: ForgeArchive, TargetEntry: e.ID, Weight: 0.05 * (1 - a.Traits.Honesty)})
		}
	}
	return out
}

// generateConflict surfaces confrontation candidates against agents the
// truster holds a grudge goal against, gated on co-presence.
func generateConflict(a *agents.Agent, w World) []Candidate {
	loc := w.Locations.Get(locations.ID(a.Location))
	if loc == nil {
		return nil
	}
	var out []Candidate
	for _, g := range a.Goals {
		if g.Kind != "revenge" || g.Target == "" {
			continue
		}
		for _, otherID := range loc.AgentsPresent {
			if otherID == g.Target {
				out = append(out, Candidate{Kind: Confront, TargetAgent: agents.ID(otherID), Weight: 1.5 * a.Traits.Boldness})
			}
		}
	}
	return out
}
