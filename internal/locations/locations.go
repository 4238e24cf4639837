// Package locations models the graph-shaped world: nodes with type,
// controlling faction, resources, property flags, adjacency, and derived
// benefits. See design doc Section 3 (Location).
package locations

import "sort"

// ID uniquely identifies a location.
type ID string

// Kind enumerates location types.
type Kind string

const (
	KindVillage     Kind = "village"
	KindFields      Kind = "fields"
	KindForest      Kind = "forest"
	KindBridge      Kind = "bridge"
	KindCrossroads  Kind = "crossroads"
	KindMine        Kind = "mine"
	KindHarbor      Kind = "harbor"
	KindHall        Kind = "hall"
	KindWatchtower  Kind = "watchtower"
	KindNeutral     Kind = "neutral"
)

// ResourceTable holds the quantity of each raw resource present at a
// location, keyed by name (grain, iron, salt, timber, fish, stone...).
type ResourceTable map[string]float64

// Flags are boolean properties attached to a location.
type Flags struct {
	HiddenMeetingSpot bool `json:"hidden_meeting_spot"`
	TradeRoute        bool `json:"trade_route"`
	FactionHQ         bool `json:"faction_hq"`
}

// Benefits are derived from Kind, Flags, and ResourceTable at initialization
// and never recomputed afterward (Location is immutable except for
// AgentsPresent).
type Benefits struct {
	Shelter          float64  `json:"shelter"`
	FoodStores       float64  `json:"food_stores"`
	Water            float64  `json:"water"`
	SocialHubRating  float64  `json:"social_hub_rating"`
	SafetyRating     float64  `json:"safety_rating"`
	ProductionTypes  []string `json:"production_types"`
}

// Location is a graph node. Immutable after initialization except for the
// transient AgentsPresent set.
type Location struct {
	ID               ID            `json:"id"`
	Name             string        `json:"name"`
	Kind             Kind          `json:"kind"`
	ControllingFaction string      `json:"controlling_faction,omitempty"`
	Resources        ResourceTable `json:"resources"`
	Flags            Flags         `json:"flags"`
	Adjacency        []ID          `json:"adjacency"`
	Benefits         Benefits      `json:"benefits"`

	// AgentsPresent is rebuilt every tick by the perception pass; it is the
	// only mutable field on an otherwise-immutable Location.
	AgentsPresent []string `json:"agents_present,omitempty"`
}

// Graph owns every Location and provides adjacency lookups. Adjacency is
// symmetric by construction (AddEdge adds both directions).
type Graph struct {
	byID map[ID]*Location
	order []ID // insertion order retained for deterministic full-graph iteration
}

// NewGraph creates an empty location graph.
func NewGraph() *Graph {
	return &Graph{byID: make(map[ID]*Location)}
}

// Add registers a location. Panics on duplicate ID — that is a
// construction-time invariant violation, not a runtime one.
func (g *Graph) Add(loc *Location) {
	if _, exists := g.byID[loc.ID]; exists {
		panic("locations: duplicate location id " + string(loc.ID))
	}
	g.byID[loc.ID] = loc
	g.order = append(g.order, loc.ID)
}

// AddEdge makes a and b adjacent to one another, enforcing symmetry.
func (g *Graph) AddEdge(a, b ID) {
	la, ok := g.byID[a]
	if !ok {
		return
	}
	lb, ok := g.byID[b]
	if !ok {
		return
	}
	if !contains(la.Adjacency, b) {
		la.Adjacency = append(la.Adjacency, b)
	}
	if !contains(lb.Adjacency, a) {
		lb.Adjacency = append(lb.Adjacency, a)
	}
}

func contains(ids []ID, target ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

// Get returns the location for id, or nil.
func (g *Graph) Get(id ID) *Location {
	return g.byID[id]
}

// IDs returns every location ID in canonical (sorted) order. Every pass that
// iterates the whole graph and might affect a stochastic decision must use
// this instead of ranging over a map directly, per the determinism
// discipline in design doc Section 5.
func (g *Graph) IDs() []ID {
	ids := make([]ID, len(g.order))
	copy(ids, g.order)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// All returns every location in canonical ID order.
func (g *Graph) All() []*Location {
	ids := g.IDs()
	out := make([]*Location, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.byID[id])
	}
	return out
}

// Neighbors returns the adjacency list of id in canonical order.
func (g *Graph) Neighbors(id ID) []ID {
	loc := g.byID[id]
	if loc == nil {
		return nil
	}
	out := make([]ID, len(loc.Adjacency))
	copy(out, loc.Adjacency)
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ShortestPath runs a BFS from src to dst and returns the path including
// both endpoints, or nil if unreachable. Adjacency BFS is the only movement
// model in scope — no pathfinding beyond this (spec.md Non-goals).
func (g *Graph) ShortestPath(src, dst ID) []ID {
	if src == dst {
		return []ID{src}
	}
	visited := map[ID]bool{src: true}
	prev := map[ID]ID{}
	queue := []ID{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for _, n := range g.Neighbors(cur) {
			if visited[n] {
				continue
			}
			visited[n] = true
			prev[n] = cur
			if n == dst {
				// Reconstruct.
				path := []ID{dst}
				for path[len(path)-1] != src {
					path = append(path, prev[path[len(path)-1]])
				}
				// Reverse.
				for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
					path[i], path[j] = path[j], path[i]
				}
				return path
			}
			queue = append(queue, n)
		}
	}
	return nil
}

// NextStepToward returns the next hop from src toward dst on the shortest
// path, or "" if src == dst or dst is unreachable.
func (g *Graph) NextStepToward(src, dst ID) ID {
	path := g.ShortestPath(src, dst)
	if len(path) < 2 {
		return ""
	}
	return path[1]
}

// RebuildPresence clears and repopulates AgentsPresent for every location.
// Called once per tick by the perception pass (Section 4.2).
func (g *Graph) RebuildPresence(agentsByLocation map[ID][]string) {
	for _, id := range g.order {
		loc := g.byID[id]
		if present, ok := agentsByLocation[id]; ok {
			loc.AgentsPresent = present
		} else {
			loc.AgentsPresent = nil
		}
	}
}
