// Package trust models the directed, multi-dimensional trust relation
// between agents and the event queue that mutates it. See design doc
// Section 3 (Trust) and Section 4.4 (Trust update application).
//
// Grounded on the teacher's internal/engine/relationships.go
// (strengthenBond/boostRelationship asymmetric-update idiom), generalized
// from a single sentiment scalar to three independent dimensions and
// extended with an explicit event queue and grudge-formation check the
// teacher never had.
package trust

import (
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
)

// Dimension names one of the three independent trust axes.
type Dimension string

const (
	Reliability Dimension = "reliability"
	Alignment   Dimension = "alignment"
	Capability  Dimension = "capability"
)

// Relation is the trust one agent holds toward another, each dimension
// clamped to [-1, 1]. Relations are directed: A's trust in B is independent
// of B's trust in A.
type Relation struct {
	Reliability         float64 `json:"reliability"`
	Alignment           float64 `json:"alignment"`
	Capability          float64 `json:"capability"`
	LastInteractionTick uint64  `json:"last_interaction_tick"`
}

// pairKey orders a (source, target) pair into a map key. Trust is directed,
// so source and target are never swapped — the key is the ordered pair.
type pairKey struct {
	Source agents.ID
	Target agents.ID
}

// Store owns every directed trust relation, keyed by (source, target).
type Store struct {
	relations map[pairKey]*Relation
}

// NewStore creates an empty trust store.
func NewStore() *Store {
	return &Store{relations: make(map[pairKey]*Relation)}
}

// Get returns the relation source holds toward target, creating a neutral
// (all-zero) one if none exists yet.
func (s *Store) Get(source, target agents.ID) *Relation {
	k := pairKey{source, target}
	r, ok := s.relations[k]
	if !ok {
		r = &Relation{}
		s.relations[k] = r
	}
	return r
}

// Peek returns the relation source holds toward target without creating
// one, and whether it exists.
func (s *Store) Peek(source, target agents.ID) (Relation, bool) {
	r, ok := s.relations[pairKey{source, target}]
	if !ok {
		return Relation{}, false
	}
	return *r, true
}

// pairList is used only to produce a canonical iteration order.
type pairList []pairKey

func (p pairList) Len() int      { return len(p) }
func (p pairList) Swap(i, j int) { p[i], p[j] = p[j], p[i] }
func (p pairList) Less(i, j int) bool {
	if p[i].Source != p[j].Source {
		return p[i].Source < p[j].Source
	}
	return p[i].Target < p[j].Target
}

// All returns every directed relation pair in canonical (source, then
// target) order.
func (s *Store) All() []struct {
	Source, Target agents.ID
	Relation       Relation
} {
	keys := make(pairList, 0, len(s.relations))
	for k := range s.relations {
		keys = append(keys, k)
	}
	sort.Sort(keys)

	out := make([]struct {
		Source, Target agents.ID
		Relation       Relation
	}, 0, len(keys))
	for _, k := range keys {
		out = append(out, struct {
			Source, Target agents.ID
			Relation       Relation
		}{k.Source, k.Target, *s.relations[k]})
	}
	return out
}

func clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

// Event is a queued trust mutation, applied at the point in the tick where
// the action pipeline drains its trust-event queue (Section 4.1 step 7).
type Event struct {
	Source agents.ID
	Target agents.ID
	Dim    Dimension
	Delta  float64
	Reason string
	Tick   uint64
}

// Queue accumulates trust events within a tick for deterministic, ordered
// application.
type Queue struct {
	events []Event
}

// NewQueue creates an empty trust event queue.
func NewQueue() *Queue {
	return &Queue{}
}

// Enqueue appends a trust event. Events are applied in enqueue order, which
// callers must derive from the canonical agent shuffle order (Section 5) —
// the queue itself does not reorder.
func (q *Queue) Enqueue(e Event) {
	q.events = append(q.events, e)
}

// Drain applies every queued event to store in order, checks for grudge
// formation after each reliability-lowering event, and clears the queue.
// Returns the agent IDs for which a new revenge goal was added this drain,
// in application order.
func (q *Queue) Drain(store *Store, idx *agents.Index, cfg config.TrustSection, agentCfg config.AgentsSection) []agents.ID {
	var grudges []agents.ID
	for _, e := range q.events {
		r := store.Get(e.Source, e.Target)
		applyDelta(r, e.Dim, e.Delta)
		r.LastInteractionTick = e.Tick

		if e.Dim == Reliability && e.Delta < 0 && r.Reliability < cfg.GrudgeReliabilityFloor {
			if formGrudge(idx, e.Source, e.Target, e.Tick, agentCfg) {
				grudges = append(grudges, e.Source)
			}
		}
	}
	q.events = q.events[:0]
	return grudges
}

func applyDelta(r *Relation, dim Dimension, delta float64) {
	switch dim {
	case Reliability:
		r.Reliability = clamp(r.Reliability + delta)
	case Alignment:
		r.Alignment = clamp(r.Alignment + delta)
	case Capability:
		r.Capability = clamp(r.Capability + delta)
	}
}

// formGrudge enqueues a revenge goal on the truster (source) targeting the
// agent whose reliability just collapsed (target), per Section 4.4's grudge
// formation rule: priority 0.6, expiry = current_tick + grudge_persistence *
// grudge_max_ticks. Returns false if source is dead or unknown (nothing to
// hold the grudge).
func formGrudge(idx *agents.Index, source, target agents.ID, tick uint64, agentCfg config.AgentsSection) bool {
	holder := idx.Get(source)
	if holder == nil || !holder.Alive {
		return false
	}
	if holder.HasGoal("revenge", target) {
		return false
	}
	expiry := tick + uint64(holder.Traits.GrudgePersistence*float64(agentCfg.GrudgeMaxTicks))
	holder.AddGoal(agents.Goal{
		Kind:     "revenge",
		Priority: 0.6,
		Target:   string(target),
		Expiry:   expiry,
	})
	return true
}

// PositiveInteraction enqueues the small, steady positive deltas for a
// successful cooperative action (Section 4.4's "positive interactions
// accrue trust slowly").
func PositiveInteraction(q *Queue, cfg config.TrustSection, source, target agents.ID, tick uint64, reason string) {
	q.Enqueue(Event{source, target, Reliability, cfg.PositiveReliabilityDelta, reason, tick})
	q.Enqueue(Event{source, target, Alignment, cfg.PositiveAlignmentDelta, reason, tick})
	q.Enqueue(Event{source, target, Capability, cfg.PositiveCapabilityDelta, reason, tick})
}

// BrokenPromise enqueues the reliability penalty for an unmet commitment.
func BrokenPromise(q *Queue, cfg config.TrustSection, source, target agents.ID, tick uint64) {
	q.Enqueue(Event{source, target, Reliability, cfg.BrokenPromiseDelta, "broken_promise", tick})
}

// Betrayal enqueues the sharp reliability and alignment penalties for a
// discovered betrayal (Section 4.4, Section 8 scenarios 1-2).
func Betrayal(q *Queue, cfg config.ConflictSection, source, target agents.ID, tick uint64) {
	q.Enqueue(Event{source, target, Reliability, cfg.BetrayalReliabilityDelta, "betrayal", tick})
	q.Enqueue(Event{source, target, Alignment, cfg.BetrayalAlignmentDelta, "betrayal", tick})
}
