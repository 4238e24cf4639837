package tension

import (
	"fmt"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/trust"
)

// World bundles the read surfaces every detector scans. Assembled once per
// detection pass by the engine.
type World struct {
	Agents   *agents.Index
	Factions *factions.Registry
	Trust    *trust.Store
	Tick     uint64
}

// Detect runs all ten pattern detectors against w, creating, updating, or
// resolving tensions in reg. DormancyWindow is the number of ticks a
// detector may go quiet before its tension is marked dormant.
func Detect(reg *Registry, counter *Counter, w World, dormancyWindow uint64) {
	detectGrudgeEscalation(reg, counter, w, dormancyWindow)
	detectBetrayalBrewing(reg, counter, w, dormancyWindow)
	detectSocialIsolation(reg, counter, w, dormancyWindow)
	detectFactionRivalry(reg, counter, w, dormancyWindow)
	detectResourceScarcity(reg, counter, w, dormancyWindow)
	detectArchiveDispute(reg, counter, w, dormancyWindow)
	detectLeadershipChallenge(reg, counter, w, dormancyWindow)
	detectLoyaltyConflict(reg, counter, w, dormancyWindow)
	detectTerritorialPressure(reg, counter, w, dormancyWindow)
	detectCulturalDivide(reg, counter, w, dormancyWindow)

	// Active tensions no detector fired for this scan go quiet.
	for _, t := range reg.Active() {
		if t.LastUpdateTick != w.Tick {
			Advance(t, false, w.Tick, dormancyWindow)
		}
	}
}

// findOrCreate locates an existing active tension of kind keyed by a
// caller-supplied fingerprint (usually the sorted participant IDs joined),
// or creates one.
func findOrCreate(reg *Registry, counter *Counter, kind Kind, fingerprint string, w World) *Tension {
	for _, t := range reg.Active() {
		if t.Type == kind && t.fingerprint == fingerprint {
			return t
		}
	}
	t := &Tension{
		ID:             counter.Next(),
		Type:           kind,
		Status:         StatusBrewing,
		Summary:        string(kind) + ": " + fingerprint,
		fingerprint:    fingerprint,
		LastUpdateTick: w.Tick,
	}
	reg.Add(t)
	return t
}

// detectGrudgeEscalation fires for every live "revenge" goal, severity
// scaling with the goal's priority and the holder's boldness.
func detectGrudgeEscalation(reg *Registry, counter *Counter, w World, dormancy uint64) {
	for _, a := range w.Agents.Alive() {
		for _, g := range a.Goals {
			if g.Kind != "revenge" {
				continue
			}
			fp := fmt.Sprintf("grudge:%s->%s", a.ID, g.Target)
			t := findOrCreate(reg, counter, KindGrudgeEscalation, fp, w)
			t.Severity = clamp01(g.Priority * (0.5 + a.Traits.Boldness*0.5))
			t.Confidence = 0.8
			t.KeyAgents = []KeyAgent{
				{AgentID: string(a.ID), RoleInTension: "aggrieved", Trajectory: "escalating"},
				{AgentID: g.Target, RoleInTension: "target", Trajectory: "unaware"},
			}
			Advance(t, true, w.Tick, dormancy)
		}
	}
}

// detectBetrayalBrewing fires when an agent's reliability trust toward
// another lies strictly between -0.3 and -0.2; how often the two interact
// is not checked.
func detectBetrayalBrewing(reg *Registry, counter *Counter, w World, dormancy uint64) {
	for _, pair := range w.Trust.All() {
		if pair.Relation.Reliability < -0.2 && pair.Relation.Reliability > -0.3 {
			fp := fmt.Sprintf("brewing:%s->%s", pair.Source, pair.Target)
			t := findOrCreate(reg, counter, KindBetrayalBrewing, fp, w)
			t.Severity = clamp01(-pair.Relation.Reliability * 2)
			t.Confidence = 0.5
			t.KeyAgents = []KeyAgent{{AgentID: string(pair.Source), RoleInTension: "distruster", Trajectory: "souring"}}
			Advance(t, true, w.Tick, dormancy)
		}
	}
}

// detectSocialIsolation fires for any agent whose social belonging has
// dropped to isolated.
func detectSocialIsolation(reg *Registry, counter *Counter, w World, dormancy uint64) {
	for _, a := range w.Agents.Alive() {
		firing := a.Needs.SocialBelonging == agents.SocialIsolated
		fp := fmt.Sprintf("isolation:%s", a.ID)
		if !firing {
			continue
		}
		t := findOrCreate(reg, counter, KindSocialIsolation, fp, w)
		t.Severity = 0.4
		t.Confidence = 0.6
		t.KeyAgents = []KeyAgent{{AgentID: string(a.ID), RoleInTension: "isolated", Trajectory: "withdrawing"}}
		Advance(t, true, w.Tick, dormancy)
	}
}

// detectFactionRivalry fires when any agent holds alignment trust below -0.2
// toward an agent of another faction; the reverse direction is not checked.
func detectFactionRivalry(reg *Registry, counter *Counter, w World, dormancy uint64) {
	seen := map[string]bool{}
	for _, pair := range w.Trust.All() {
		if pair.Relation.Alignment >= -0.2 {
			continue
		}
		src := w.Agents.Get(pair.Source)
		tgt := w.Agents.Get(pair.Target)
		if src == nil || tgt == nil || src.FactionID == "" || tgt.FactionID == "" || src.FactionID == tgt.FactionID {
			continue
		}
		a, b := src.FactionID, tgt.FactionID
		if a > b {
			a, b = b, a
		}
		fp := fmt.Sprintf("rivalry:%s-%s", a, b)
		if seen[fp] {
			continue
		}
		seen[fp] = true
		t := findOrCreate(reg, counter, KindFactionRivalry, fp, w)
		t.Severity = clamp01(-pair.Relation.Alignment)
		t.Confidence = 0.5
		Advance(t, true, w.Tick, dormancy)
	}
}

// detectResourceScarcity fires for any faction whose effective food has
// fallen below a bare-subsistence threshold relative to its member count.
func detectResourceScarcity(reg *Registry, counter *Counter, w World, dormancy uint64) {
	for _, f := range w.Factions.All() {
		members := w.Agents.FactionMembers(string(f.ID))
		if len(members) == 0 {
			continue
		}
		ratio := f.EffectiveFood(0.5) / float64(len(members))
		firing := ratio < 1.0
		fp := fmt.Sprintf("scarcity:%s", f.ID)
		if !firing {
			continue
		}
		t := findOrCreate(reg, counter, KindResourceScarcity, fp, w)
		t.Severity = clamp01(1 - ratio)
		t.Confidence = 0.7
		t.KeyLocations = []string{f.HQ}
		Advance(t, true, w.Tick, dormancy)
	}
}

// detectArchiveDispute fires for any archive entry carrying an open
// dispute list.
func detectArchiveDispute(reg *Registry, counter *Counter, w World, dormancy uint64) {
	for _, f := range w.Factions.All() {
		for _, e := range f.Archive.Live() {
			if len(e.Disputes) == 0 {
				continue
			}
			fp := fmt.Sprintf("dispute:%s", e.ID)
			t := findOrCreate(reg, counter, KindArchiveDispute, fp, w)
			t.Severity = clamp01(float64(len(e.Disputes)) * 0.2)
			t.Confidence = 0.6
			Advance(t, true, w.Tick, dormancy)
		}
	}
}

// detectLeadershipChallenge fires when a high-ambition, non-leader member
// of a faction holds higher average trust from faction-mates than the
// faction's own leader.
func detectLeadershipChallenge(reg *Registry, counter *Counter, w World, dormancy uint64) {
	for _, f := range w.Factions.All() {
		if f.LeaderAgent == "" {
			continue
		}
		members := w.Agents.FactionMembers(string(f.ID))
		for _, a := range members {
			if string(a.ID) == f.LeaderAgent || a.Traits.Ambition < 0.7 {
				continue
			}
			challengerTrust := avgReceivedTrust(w, members, a.ID)
			leaderTrust := avgReceivedTrust(w, members, agents.ID(f.LeaderAgent))
			if challengerTrust <= leaderTrust {
				continue
			}
			fp := fmt.Sprintf("challenge:%s->%s", a.ID, f.LeaderAgent)
			t := findOrCreate(reg, counter, KindLeadershipChallenge, fp, w)
			t.Severity = clamp01(challengerTrust - leaderTrust)
			t.Confidence = 0.5
			t.KeyAgents = []KeyAgent{
				{AgentID: string(a.ID), RoleInTension: "challenger", Trajectory: "rising"},
				{AgentID: f.LeaderAgent, RoleInTension: "incumbent", Trajectory: "weakening"},
			}
			Advance(t, true, w.Tick, dormancy)
		}
	}
}

func avgReceivedTrust(w World, members []*agents.Agent, target agents.ID) float64 {
	total, n := 0.0, 0
	for _, m := range members {
		if m.ID == target {
			continue
		}
		rel, ok := w.Trust.Peek(m.ID, target)
		if !ok {
			continue
		}
		total += (rel.Reliability + rel.Alignment) / 2
		n++
	}
	if n == 0 {
		return 0
	}
	return total / float64(n)
}

// detectLoyaltyConflict fires for an agent holding strong positive alignment
// toward an agent outside its own faction — split allegiance.
func detectLoyaltyConflict(reg *Registry, counter *Counter, w World, dormancy uint64) {
	for _, pair := range w.Trust.All() {
		if pair.Relation.Alignment < 0.6 {
			continue
		}
		src := w.Agents.Get(pair.Source)
		tgt := w.Agents.Get(pair.Target)
		if src == nil || tgt == nil || src.FactionID == "" || tgt.FactionID == "" || src.FactionID == tgt.FactionID {
			continue
		}
		fp := fmt.Sprintf("loyalty:%s", src.ID)
		t := findOrCreate(reg, counter, KindLoyaltyConflict, fp, w)
		t.Severity = clamp01(pair.Relation.Alignment)
		t.Confidence = 0.5
		t.KeyAgents = []KeyAgent{{AgentID: string(src.ID), RoleInTension: "divided", Trajectory: "torn"}}
		Advance(t, true, w.Tick, dormancy)
	}
}

// detectTerritorialPressure fires for faction pairs whose territories share
// at least one location and whose effective food differs by 20 or more
// (an absolute gap, not a ratio) — the richer faction incentivized to
// expand into the poorer's land.
func detectTerritorialPressure(reg *Registry, counter *Counter, w World, dormancy uint64) {
	all := w.Factions.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			fa, fb := all[i], all[j]
			if !adjacentTerritories(fa, fb) {
				continue
			}
			gap := fa.EffectiveFood(0.5) - fb.EffectiveFood(0.5)
			if gap < 20 && gap > -20 {
				continue
			}
			fp := fmt.Sprintf("territory:%s-%s", fa.ID, fb.ID)
			t := findOrCreate(reg, counter, KindTerritorialPressure, fp, w)
			t.Severity = clamp01(abs(gap) / 100)
			t.Confidence = 0.4
			Advance(t, true, w.Tick, dormancy)
		}
	}
}

func adjacentTerritories(a, b *factions.Faction) bool {
	for _, ta := range a.Territory {
		for _, tb := range b.Territory {
			if ta == tb {
				return true
			}
		}
	}
	return false
}

// detectCulturalDivide fires for two factions whose member sets show a wide
// gap in average honesty trait — a stand-in for diverging cultural norms.
func detectCulturalDivide(reg *Registry, counter *Counter, w World, dormancy uint64) {
	all := w.Factions.All()
	for i := 0; i < len(all); i++ {
		for j := i + 1; j < len(all); j++ {
			fa, fb := all[i], all[j]
			avgA := avgHonesty(w.Agents.FactionMembers(string(fa.ID)))
			avgB := avgHonesty(w.Agents.FactionMembers(string(fb.ID)))
			gap := abs(avgA - avgB)
			if gap < 0.4 {
				continue
			}
			fp := fmt.Sprintf("divide:%s-%s", fa.ID, fb.ID)
			t := findOrCreate(reg, counter, KindCulturalDivide, fp, w)
			t.Severity = clamp01(gap)
			t.Confidence = 0.3
			Advance(t, true, w.Tick, dormancy)
		}
	}
}

func avgHonesty(members []*agents.Agent) float64 {
	if len(members) == 0 {
		return 0.5
	}
	total := 0.0
	for _, m := range members {
		total += m.Traits.Honesty
	}
	return total / float64(len(members))
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
