// Package agents models the core entity of the simulation: fixed
// personality traits, mutable needs, goals, inventory, and visual markers.
// See design doc Section 3 (Agent).
package agents

import "sort"

// ID uniquely identifies an agent. Always prefixed "agent_".
type ID string

// Role is an agent's position within its faction.
type Role string

const (
	RoleLeader     Role = "leader"
	RoleReader     Role = "reader"
	RoleCouncil    Role = "council"
	RoleSpecialist Role = "specialist"
	RoleLaborer    Role = "laborer"
	RoleNewcomer   Role = "newcomer"
	RoleExile      Role = "exile"
)

// StatusLevel is derived from Role and used by the targeting scoring model
// (Section 4.3.1) to compute the "higher/lower status target" modifier.
type StatusLevel int

// Status returns the derived status level for a role, highest first.
func (r Role) Status() StatusLevel {
	switch r {
	case RoleLeader:
		return 5
	case RoleReader:
		return 4
	case RoleCouncil:
		return 3
	case RoleSpecialist:
		return 2
	case RoleLaborer:
		return 1
	case RoleNewcomer:
		return 0
	default: // exile
		return -1
	}
}

// Traits are fixed at spawn and never change, each in [0,1].
type Traits struct {
	Boldness         float64 `json:"boldness"`
	LoyaltyWeight    float64 `json:"loyalty_weight"`
	GrudgePersistence float64 `json:"grudge_persistence"`
	Ambition         float64 `json:"ambition"`
	Honesty          float64 `json:"honesty"`
	Sociability      float64 `json:"sociability"`
	GroupPreference  float64 `json:"group_preference"`
}

// FoodSecurity is a need state machine level (Section 4.2).
type FoodSecurity string

const (
	FoodSecure    FoodSecurity = "secure"
	FoodStressed  FoodSecurity = "stressed"
	FoodDesperate FoodSecurity = "desperate"
)

// SocialBelonging is a need state machine level (Section 4.2).
type SocialBelonging string

const (
	SocialIntegrated SocialBelonging = "integrated"
	SocialPeripheral SocialBelonging = "peripheral"
	SocialIsolated   SocialBelonging = "isolated"
)

// Needs holds the two mutable need state machines.
type Needs struct {
	FoodSecurity    FoodSecurity    `json:"food_security"`
	SocialBelonging SocialBelonging `json:"social_belonging"`
}

// Physical holds an agent's physical state, each component in [0,1] unless
// noted.
type Physical struct {
	Health       float64 `json:"health"`
	Hunger       float64 `json:"hunger"`
	Exhaustion   float64 `json:"exhaustion"`
	Intoxication float64 `json:"intoxication"`
}

// Goal is a prioritized agent objective, optionally targeted and expiring.
type Goal struct {
	Kind     string  `json:"kind"` // e.g. "revenge", "seek_status", "reunite"
	Priority float64 `json:"priority"`
	Target   string  `json:"target,omitempty"` // agent ID
	Expiry   uint64  `json:"expiry,omitempty"` // tick; 0 = no expiry
}

// Inventory is a quantity-per-good map for an individual agent.
type Inventory map[string]int

// Agent is the core simulated person.
type Agent struct {
	ID        ID     `json:"id"`
	Name      string `json:"name"`
	FactionID string `json:"faction_id,omitempty"` // empty = exile
	Role      Role   `json:"role"`
	Location  string `json:"location"`

	Traits   Traits   `json:"traits"`
	Needs    Needs    `json:"needs"`
	Physical Physical `json:"physical"`

	Goals     []Goal    `json:"goals,omitempty"`
	Inventory Inventory `json:"inventory"`

	VisualMarkers []string `json:"visual_markers,omitempty"`

	Alive bool `json:"alive"`

	// RecentInteractions counts interactions decayed per tick, feeding the
	// social belonging need (Section 4.2).
	RecentInteractions float64 `json:"recent_interactions"`
	// RitualAttendance records the last K ritual attendances (true=present).
	RitualAttendance []bool `json:"ritual_attendance,omitempty"`
	// LastSpokenTo maps target agent ID to the tick of the most recent
	// communication directed at them, for the "recency" targeting modifier.
	LastSpokenTo map[ID]uint64 `json:"last_spoken_to,omitempty"`
}

// Status returns the derived status level for the agent's role.
func (a *Agent) Status() StatusLevel {
	return a.Role.Status()
}

// AddGoal appends a goal, replacing any existing goal of the same kind and
// target (revenge against the same agent does not stack).
func (a *Agent) AddGoal(g Goal) {
	for i, existing := range a.Goals {
		if existing.Kind == g.Kind && existing.Target == g.Target {
			a.Goals[i] = g
			return
		}
	}
	a.Goals = append(a.Goals, g)
}

// ExpireGoals drops goals whose Expiry has passed.
func (a *Agent) ExpireGoals(tick uint64) {
	kept := a.Goals[:0]
	for _, g := range a.Goals {
		if g.Expiry == 0 || g.Expiry > tick {
			kept = append(kept, g)
		}
	}
	a.Goals = kept
}

// HasGoal reports whether the agent has a goal of the given kind targeting
// target.
func (a *Agent) HasGoal(kind string, target ID) bool {
	for _, g := range a.Goals {
		if g.Kind == kind && g.Target == string(target) {
			return true
		}
	}
	return false
}

// Index owns every agent, keyed by ID, with deterministic iteration order.
type Index struct {
	byID  map[ID]*Agent
	order []ID
}

// NewIndex creates an empty agent index.
func NewIndex() *Index {
	return &Index{byID: make(map[ID]*Agent)}
}

// Add registers an agent.
func (idx *Index) Add(a *Agent) {
	if _, exists := idx.byID[a.ID]; !exists {
		idx.order = append(idx.order, a.ID)
	}
	idx.byID[a.ID] = a
}

// Get returns the agent for id, or nil.
func (idx *Index) Get(id ID) *Agent {
	return idx.byID[id]
}

// All returns every agent in canonical (sorted-by-ID) order. Used whenever
// iteration order could leak into a stochastic decision.
func (idx *Index) All() []*Agent {
	ids := make([]ID, len(idx.order))
	copy(ids, idx.order)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	out := make([]*Agent, 0, len(ids))
	for _, id := range ids {
		out = append(out, idx.byID[id])
	}
	return out
}

// Alive returns every living agent in canonical order.
func (idx *Index) Alive() []*Agent {
	var out []*Agent
	for _, a := range idx.All() {
		if a.Alive {
			out = append(out, a)
		}
	}
	return out
}

// FactionMembers returns living agents belonging to factionID, canonical order.
func (idx *Index) FactionMembers(factionID string) []*Agent {
	var out []*Agent
	for _, a := range idx.Alive() {
		if a.FactionID == factionID {
			out = append(out, a)
		}
	}
	return out
}
