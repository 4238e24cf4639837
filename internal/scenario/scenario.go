// Package scenario builds the initial agent and faction population onto a
// generated location graph. This is bootstrap-only logic — it runs once
// before the first tick and is never invoked again by the engine.
package scenario

import (
	"fmt"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/rng"
)

// Config controls how many factions and agents-per-faction to seed.
type Config struct {
	FactionCount      int
	AgentsPerFaction  int
}

// DefaultConfig seeds a small starting world: three factions of eight
// agents each.
func DefaultConfig() Config {
	return Config{FactionCount: 3, AgentsPerFaction: 8}
}

var roleLadder = []agents.Role{
	agents.RoleLeader, agents.RoleReader, agents.RoleCouncil, agents.RoleCouncil,
	agents.RoleSpecialist, agents.RoleLaborer, agents.RoleLaborer, agents.RoleNewcomer,
}

// Build seeds cfg.FactionCount factions, each headquartered at a distinct
// hall-kind location in g, populated with cfg.AgentsPerFaction agents whose
// traits are drawn from stream.
func Build(cfg Config, g *locations.Graph, stream *rng.Stream) (*factions.Registry, *agents.Index) {
	factionReg := factions.NewRegistry()
	agentIdx := agents.NewIndex()

	halls := hallLocations(g)
	if len(halls) > cfg.FactionCount {
		halls = halls[:cfg.FactionCount]
	}

	for i, hq := range halls {
		fID := factions.ID(fmt.Sprintf("faction_%d", i+1))
		f := factions.New(fID, fmt.Sprintf("House %d", i+1), string(hq), territoryAround(g, hq, 2))
		factionReg.Add(f)

		n := cfg.AgentsPerFaction
		if n > len(roleLadder) {
			n = len(roleLadder)
		}
		for j := 0; j < n; j++ {
			role := roleLadder[j]
			aID := agents.ID(fmt.Sprintf("%s_agent_%d", fID, j+1))
			a := &agents.Agent{
				ID:        aID,
				Name:      fmt.Sprintf("%s of House %d", role, i+1),
				FactionID: string(fID),
				Role:      role,
				Location:  string(hq),
				Alive:     true,
				Traits:    randomTraits(stream),
				Physical:  agents.Physical{Health: 1, Hunger: 0, Exhaustion: 0, Intoxication: 0},
				Inventory: agents.Inventory{},
			}
			agentIdx.Add(a)
			if role == agents.RoleLeader {
				f.LeaderAgent = string(aID)
			}
			if role == agents.RoleReader {
				f.ReaderAgent = string(aID)
			}
		}
		f.Resources = factions.Resources{Grain: 200, Iron: 50, Salt: 30, Beer: 40}
	}

	return factionReg, agentIdx
}

func hallLocations(g *locations.Graph) []locations.ID {
	var out []locations.ID
	for _, loc := range g.All() {
		if loc.Kind == locations.KindHall {
			out = append(out, loc.ID)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// territoryAround returns hq plus every location within radius hops,
// approximated by repeated BFS-neighbor expansion.
func territoryAround(g *locations.Graph, hq locations.ID, radius int) []string {
	frontier := map[locations.ID]bool{hq: true}
	territory := map[locations.ID]bool{hq: true}
	for i := 0; i < radius; i++ {
		next := map[locations.ID]bool{}
		for id := range frontier {
			for _, n := range g.Neighbors(id) {
				if !territory[n] {
					next[n] = true
					territory[n] = true
				}
			}
		}
		frontier = next
	}
	out := make([]string, 0, len(territory))
	for id := range territory {
		out = append(out, string(id))
	}
	sort.Strings(out)
	return out
}

func randomTraits(stream *rng.Stream) agents.Traits {
	return agents.Traits{
		Boldness:          stream.Float64(),
		LoyaltyWeight:     stream.Float64(),
		GrudgePersistence: stream.Float64(),
		Ambition:          stream.Float64(),
		Honesty:           stream.Float64(),
		Sociability:       stream.Float64(),
		GroupPreference:   stream.Float64(),
	}
}
