// Package memory models what an agent remembers: firsthand and secondhand
// records with decaying fidelity, and the propagation of secondhand
// knowledge into trust adjustments. See design doc Section 3 (Memory) and
// Section 4.4 (Memory subsystem).
//
// Grounded on the teacher's internal/engine relationship/gossip passes for
// the general shape of "knowledge held by an agent about an event", adapted
// to the spec's explicit fidelity/source-chain model, which the teacher
// does not have.
package memory

import (
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
)

// SourceKind distinguishes a directly witnessed memory from one received
// through a chain of tellers.
type SourceKind string

const (
	Firsthand  SourceKind = "firsthand"
	Secondhand SourceKind = "secondhand"
)

// Source records how a memory was acquired.
type Source struct {
	Kind  SourceKind  `json:"kind"`
	Chain []agents.ID `json:"chain,omitempty"` // ordered teller chain, oldest first; empty for firsthand
}

// Record is a single memory held by one agent.
type Record struct {
	EventID         string  `json:"event_id"`
	Summary         string  `json:"summary"`
	Fidelity        float64 `json:"fidelity"` // [0,1]
	EmotionalWeight float64 `json:"emotional_weight"` // [0,1]
	Valence         float64 `json:"valence"` // derived, [-1,1]
	Source          Source  `json:"source"`
	AcquiredTick    uint64  `json:"acquired_tick"`
}

// NewFirsthand creates a memory at full fidelity for the agent who directly
// witnessed or performed an event.
func NewFirsthand(eventID, summary string, emotionalWeight, valence float64, tick uint64) Record {
	return Record{
		EventID:         eventID,
		Summary:         summary,
		Fidelity:        1.0,
		EmotionalWeight: emotionalWeight,
		Valence:         valence,
		Source:          Source{Kind: Firsthand},
		AcquiredTick:    tick,
	}
}

// Relay creates a secondhand memory told by teller, derived from an existing
// record held by the teller. Fidelity drops to 0.7 of the source record's
// fidelity (Section 4.4); the teller chain grows by one link.
func Relay(src Record, teller agents.ID, tick uint64) Record {
	chain := make([]agents.ID, 0, len(src.Source.Chain)+1)
	chain = append(chain, src.Source.Chain...)
	chain = append(chain, teller)

	return Record{
		EventID:         src.EventID,
		Summary:         src.Summary,
		Fidelity:        src.Fidelity * 0.7,
		EmotionalWeight: src.EmotionalWeight,
		Valence:         src.Valence,
		Source:          Source{Kind: Secondhand, Chain: chain},
		AcquiredTick:    tick,
	}
}

// Bank holds every memory record owned by one agent, in acquisition order.
type Bank struct {
	Records []Record `json:"records"`
}

// Add appends a new memory.
func (b *Bank) Add(r Record) {
	b.Records = append(b.Records, r)
}

// DecaySeasonBoundary applies the season-boundary fidelity decay: firsthand
// memories decay slower than secondhand ones. Records falling below
// cfg.CullThreshold are dropped.
func (b *Bank) DecaySeasonBoundary(cfg config.MemorySection) {
	kept := b.Records[:0]
	for _, r := range b.Records {
		switch r.Source.Kind {
		case Firsthand:
			r.Fidelity *= cfg.FirsthandSeasonDecay
		case Secondhand:
			r.Fidelity *= cfg.SecondhandSeasonDecay
		}
		if r.Fidelity >= cfg.CullThreshold {
			kept = append(kept, r)
		}
	}
	b.Records = kept
}

// Of returns every record for a given event ID, most recently acquired
// first (there is at most one per agent in practice, but an agent can in
// principle re-learn the same event from a second teller).
func (b *Bank) Of(eventID string) []Record {
	var out []Record
	for _, r := range b.Records {
		if r.EventID == eventID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].AcquiredTick > out[j].AcquiredTick })
	return out
}

// Banks owns one memory bank per agent, keyed by agent ID, with
// deterministic iteration.
type Banks struct {
	byAgent map[agents.ID]*Bank
	order   []agents.ID
}

// NewBanks creates an empty memory-bank collection.
func NewBanks() *Banks {
	return &Banks{byAgent: make(map[agents.ID]*Bank)}
}

// Of returns (creating if absent) the memory bank for id.
func (bs *Banks) Of(id agents.ID) *Bank {
	b, ok := bs.byAgent[id]
	if !ok {
		b = &Bank{}
		bs.byAgent[id] = b
		bs.order = append(bs.order, id)
	}
	return b
}

// All returns the ID of every agent that has a bank, in canonical ID order.
func (bs *Banks) All() []agents.ID {
	ids := make([]agents.ID, len(bs.order))
	copy(ids, bs.order)
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// PropagationDelta computes the trust-dimension delta a secondhand memory's
// telling should apply, per Section 4.4: roughly propagationFraction of the
// direct-observation delta, scaled down further by the recipient's existing
// trust in the teller (an untrusted teller's story lands with less weight).
func PropagationDelta(directDelta float64, cfg config.MemorySection, recipientTrustInTeller float64) float64 {
	trustScale := (recipientTrustInTeller + 1) / 2 // map [-1,1] -> [0,1]
	return directDelta * cfg.PropagationFraction * trustScale
}
