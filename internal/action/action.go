// Package action implements the four-stage decision pipeline every living
// agent runs once per tick: Generate candidate actions, Weight them by
// trait/need/relationship/context modifiers plus gaussian noise, Select one
// by weighted random draw, and Execute it. See design doc Section 4.3.
//
// Grounded on the teacher's internal/engine decision pass (single-stage
// weighted-candidate selection over a fixed action list), generalized here
// into the spec's explicit four-stage pipeline with silent demotion to Idle
// on stale preconditions (Section 4.3.5) instead of the teacher's
// hard-coded action list.
package action

import (
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/memory"
	"github.com/talgya/crossroads/internal/rng"
	"github.com/talgya/crossroads/internal/trust"
)

// Kind enumerates every action an agent may take in a tick.
type Kind string

const (
	Idle           Kind = "idle"
	Move           Kind = "move"
	ShareMemory    Kind = "share_memory"
	SpreadRumor    Kind = "spread_rumor"
	Lie            Kind = "lie"
	Confess        Kind = "confess"
	Confront       Kind = "confront"
	Cooperate      Kind = "cooperate"
	WriteArchive   Kind = "write_archive"
	ReadArchive    Kind = "read_archive"
	DestroyArchive Kind = "destroy_archive"
	ForgeArchive   Kind = "forge_archive"
	AttendRitual   Kind = "attend_ritual"
)

// Candidate is a possible action surfaced by Generate, carrying whatever
// context its Execute implementation needs.
type Candidate struct {
	Kind           Kind
	TargetAgent    agents.ID   // optional
	TargetLocation locations.ID // optional
	TargetEntry    string      // optional, archive entry ID
	MemoryEventID  string      // optional, which memory record this action concerns
	Weight         float64
}

// World bundles the read/write surfaces Generate, Weight, and Execute
// consult. It is not a god-object: it is a fixed set of references assembled
// once per tick by the engine, passed down through the pipeline by value.
type World struct {
	Agents    *agents.Index
	Factions  *factions.Registry
	Locations *locations.Graph
	Trust     *trust.Store
	Memories  *memory.Banks
	Tuning    config.Tuning
	Tick      uint64
}

// Generate produces every legal candidate action for a, applying the
// precondition scan (what can a do right now) and the desire-based location
// scan (where would a like to be) from Section 4.3.2.
func Generate(a *agents.Agent, w World) []Candidate {
	var out []Candidate
	out = append(out, Candidate{Kind: Idle, Weight: 1})

	out = append(out, generateMovement(a, w)...)
	out = append(out, generateCommunication(a, w)...)
	out = append(out, generateArchive(a, w)...)
	out = append(out, generateConflict(a, w)...)

	return out
}

// Weight assigns each candidate a non-negative weight via the multiplicative
// modifier chain plus gaussian noise, per Section 4.3.3. Candidates that
// would go negative are clamped to zero (not removed — Select treats a
// zero-weight candidate as ineligible, matching the contract that an
// all-zero candidate set demotes to Idle).
func Weight(a *agents.Agent, candidates []Candidate, w World, stream *rng.Stream) []Candidate {
	sigma := w.Tuning.Drama.NoiseSigma
	out := make([]Candidate, len(candidates))
	for i, c := range candidates {
		if c.Kind == Idle {
			out[i] = c
			continue
		}
		base := c.Weight
		base *= traitModifier(a, c.Kind)
		base *= needModifier(a, c.Kind)
		base *= goalModifier(a, c.Kind, c.TargetAgent)
		base *= relationshipModifier(a, c, w)
		base *= contextModifier(a, c, w)
		base += stream.Gaussian(sigma)
		if base < 0 {
			base = 0
		}
		c.Weight = base
		out[i] = c
	}
	return out
}

// Select draws one candidate by roulette-wheel weighted random choice.
// Candidates must already be in the caller's canonical order (by Kind, then
// TargetAgent, then TargetLocation) before being passed here — Select does
// not reorder. A zero total weight (every candidate clamped to zero, or only
// Idle survives) yields Idle with no further lookup, per Section 4.3.5's
// "no legal action demotes to Idle" contract.
func Select(candidates []Candidate, stream *rng.Stream) Candidate {
	weights := make([]float64, len(candidates))
	for i, c := range candidates {
		weights[i] = c.Weight
	}
	idx := stream.WeightedChoice(weights)
	if idx < 0 {
		return Candidate{Kind: Idle}
	}
	return candidates[idx]
}
