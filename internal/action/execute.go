package action

import (
	"fmt"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/memory"
	"github.com/talgya/crossroads/internal/rng"
	"github.com/talgya/crossroads/internal/timekeeping"
	"github.com/talgya/crossroads/internal/trust"
)

// Outcome is the result of executing one candidate: at most one event, ever.
// A nil Event means the candidate silently demoted to Idle because its
// precondition went stale between Generate and Execute (Section 4.3.5) —
// this is not an error, just a no-op tick for that agent.
type Outcome struct {
	Event *events.Event
}

// Execute runs the executor for c's kind against the current world state,
// re-checking c's precondition first. Every successful executor produces
// exactly one event; every precondition failure demotes silently to Idle.
func Execute(a *agents.Agent, c Candidate, w World, counter *events.Counter, tq *trust.Queue, stream *rng.Stream) Outcome {
	switch c.Kind {
	case Idle:
		return Outcome{}
	case Move:
		return executeMove(a, c, w, counter)
	case ShareMemory:
		return executeShareMemory(a, c, w, counter, tq)
	case Lie:
		return executeLie(a, c, w, counter)
	case SpreadRumor:
		return executeSpreadRumor(a, c, w, counter)
	case Confess:
		return executeConfess(a, c, w, counter, tq)
	case Cooperate:
		return executeCooperate(a, c, w, counter, tq)
	case Confront:
		return executeConfront(a, c, w, counter, tq)
	case WriteArchive:
		return executeWriteArchive(a, c, w, counter)
	case ReadArchive:
		return executeReadArchive(a, c, w, counter)
	case DestroyArchive:
		return executeDestroyArchive(a, c, w, counter)
	case ForgeArchive:
		return executeForgeArchive(a, c, w, counter)
	default:
		return Outcome{}
	}
}

func ts(w World) timekeeping.Timestamp { return timekeeping.At(w.Tick) }

func newEvent(counter *events.Counter, w World, typ, subtype string, actors events.Actors) *events.Event {
	return &events.Event{
		ID:        counter.Next(),
		Timestamp: ts(w),
		Type:      typ,
		Subtype:   subtype,
		Actors:    actors,
		Context:   map[string]any{},
	}
}

func otherPresent(loc *locations.Location, target agents.ID) bool {
	if loc == nil {
		return false
	}
	for _, id := range loc.AgentsPresent {
		if agents.ID(id) == target {
			return true
		}
	}
	return false
}

func executeMove(a *agents.Agent, c Candidate, w World, counter *events.Counter) Outcome {
	dest := w.Locations.Get(c.TargetLocation)
	if dest == nil || !contains(w.Locations.Neighbors(locations.ID(a.Location)), c.TargetLocation) {
		return Outcome{}
	}
	from := a.Location
	a.Location = string(c.TargetLocation)
	e := newEvent(counter, w, "movement", "travel", events.Actors{Primary: string(a.ID)})
	e.Context["from"] = from
	e.Context["to"] = string(c.TargetLocation)
	e.Outcome = "arrived"
	return Outcome{Event: e}
}

func recordSpokenTo(a *agents.Agent, target agents.ID, tick uint64) {
	if a.LastSpokenTo == nil {
		a.LastSpokenTo = make(map[agents.ID]uint64)
	}
	a.LastSpokenTo[target] = tick
}

func contains(ids []locations.ID, target locations.ID) bool {
	for _, id := range ids {
		if id == target {
			return true
		}
	}
	return false
}

func executeShareMemory(a *agents.Agent, c Candidate, w World, counter *events.Counter, tq *trust.Queue) Outcome {
	target := w.Agents.Get(c.TargetAgent)
	loc := w.Locations.Get(locations.ID(a.Location))
	if target == nil || !target.Alive || !otherPresent(loc, c.TargetAgent) {
		return Outcome{}
	}
	bank := w.Memories.Of(a.ID)
	recs := bank.Of(c.MemoryEventID)
	if len(recs) == 0 {
		return Outcome{}
	}
	src := recs[0]
	relayed := memory.Relay(src, a.ID, w.Tick)
	w.Memories.Of(target.ID).Add(relayed)

	rel, _ := w.Trust.Peek(target.ID, a.ID)
	delta := memory.PropagationDelta(src.Valence*0.1, w.Tuning.Memory, rel.Reliability)
	tq.Enqueue(trust.Event{Source: target.ID, Target: a.ID, Dim: trust.Alignment, Delta: delta, Reason: "shared_memory", Tick: w.Tick})
	recordSpokenTo(a, target.ID, w.Tick)

	e := newEvent(counter, w, "communication", "share_memory", events.Actors{Primary: string(a.ID), Secondary: string(target.ID)})
	e.Context["event_id"] = src.EventID
	e.Outcome = "relayed"
	return Outcome{Event: e}
}

func executeLie(a *agents.Agent, c Candidate, w World, counter *events.Counter) Outcome {
	target := w.Agents.Get(c.TargetAgent)
	loc := w.Locations.Get(locations.ID(a.Location))
	if target == nil || !target.Alive || !otherPresent(loc, c.TargetAgent) {
		return Outcome{}
	}
	fabricated := memory.Record{
		EventID:         fmt.Sprintf("fab_%s_%d", a.ID, w.Tick),
		Summary:         "a fabricated account",
		Fidelity:        0.6,
		EmotionalWeight: 0.5,
		Source:          memory.Source{Kind: memory.Secondhand, Chain: []agents.ID{a.ID}},
		AcquiredTick:    w.Tick,
	}
	w.Memories.Of(target.ID).Add(fabricated)
	recordSpokenTo(a, target.ID, w.Tick)

	e := newEvent(counter, w, "communication", "lie", events.Actors{Primary: string(a.ID), Secondary: string(target.ID)})
	e.DramaTags = append(e.DramaTags, "deception")
	e.Outcome = "believed"
	return Outcome{Event: e}
}

func executeSpreadRumor(a *agents.Agent, c Candidate, w World, counter *events.Counter) Outcome {
	target := w.Agents.Get(c.TargetAgent)
	loc := w.Locations.Get(locations.ID(a.Location))
	if target == nil || !target.Alive || !otherPresent(loc, c.TargetAgent) {
		return Outcome{}
	}
	bank := w.Memories.Of(a.ID)
	recs := bank.Of(c.MemoryEventID)
	if len(recs) == 0 {
		return Outcome{}
	}
	relayed := memory.Relay(recs[0], a.ID, w.Tick)
	relayed.Fidelity *= 0.5 // a rumor degrades faster than an honest retelling
	w.Memories.Of(target.ID).Add(relayed)
	recordSpokenTo(a, target.ID, w.Tick)

	e := newEvent(counter, w, "communication", "spread_rumor", events.Actors{Primary: string(a.ID), Secondary: string(target.ID)})
	e.DramaTags = append(e.DramaTags, "gossip")
	return Outcome{Event: e}
}

func executeConfess(a *agents.Agent, c Candidate, w World, counter *events.Counter, tq *trust.Queue) Outcome {
	target := w.Agents.Get(c.TargetAgent)
	loc := w.Locations.Get(locations.ID(a.Location))
	if target == nil || !target.Alive || !otherPresent(loc, c.TargetAgent) {
		return Outcome{}
	}
	trust.PositiveInteraction(tq, w.Tuning.Trust, target.ID, a.ID, w.Tick, "confession")
	e := newEvent(counter, w, "communication", "confess", events.Actors{Primary: string(a.ID), Secondary: string(target.ID)})
	e.DramaTags = append(e.DramaTags, "confession")
	return Outcome{Event: e}
}

func executeCooperate(a *agents.Agent, c Candidate, w World, counter *events.Counter, tq *trust.Queue) Outcome {
	target := w.Agents.Get(c.TargetAgent)
	loc := w.Locations.Get(locations.ID(a.Location))
	if target == nil || !target.Alive || !otherPresent(loc, c.TargetAgent) {
		return Outcome{}
	}
	trust.PositiveInteraction(tq, w.Tuning.Trust, a.ID, target.ID, w.Tick, "cooperation")
	trust.PositiveInteraction(tq, w.Tuning.Trust, target.ID, a.ID, w.Tick, "cooperation")
	agents.RecordInteraction(a)
	agents.RecordInteraction(target)

	e := newEvent(counter, w, "cooperation", "", events.Actors{Primary: string(a.ID), Secondary: string(target.ID)})
	e.Outcome = "strengthened"
	return Outcome{Event: e}
}

func executeConfront(a *agents.Agent, c Candidate, w World, counter *events.Counter, tq *trust.Queue) Outcome {
	target := w.Agents.Get(c.TargetAgent)
	loc := w.Locations.Get(locations.ID(a.Location))
	if target == nil || !target.Alive || !otherPresent(loc, c.TargetAgent) || !a.HasGoal("revenge", target.ID) {
		return Outcome{}
	}
	trust.Betrayal(tq, w.Tuning.Conflict, target.ID, a.ID, w.Tick)

	e := newEvent(counter, w, "conflict", "confrontation", events.Actors{Primary: string(a.ID), Secondary: string(target.ID)})
	e.DramaTags = append(e.DramaTags, "confrontation")
	e.Outcome = "confronted"
	return Outcome{Event: e}
}

func executeWriteArchive(a *agents.Agent, c Candidate, w World, counter *events.Counter) Outcome {
	f := w.Factions.Get(factions.ID(a.FactionID))
	if f == nil || a.Location != f.HQ {
		return Outcome{}
	}
	entry := &factions.Entry{
		ID:          fmt.Sprintf("arch_%s_%d", f.ID, w.Tick),
		AuthorAgent: string(a.ID),
		Subject:     "deeds of " + a.Name,
		Content:     "a faithful account",
		TickWritten: w.Tick,
		Authentic:   true,
	}
	f.Archive.Write(entry)

	e := newEvent(counter, w, "archive", "write", events.Actors{Primary: string(a.ID)})
	e.Context["entry_id"] = entry.ID
	return Outcome{Event: e}
}

func executeReadArchive(a *agents.Agent, c Candidate, w World, counter *events.Counter) Outcome {
	f := w.Factions.Get(factions.ID(a.FactionID))
	if f == nil || a.Location != f.HQ {
		return Outcome{}
	}
	entry := f.Archive.Get(c.TargetEntry)
	if entry == nil || entry.Expunged {
		return Outcome{}
	}
	f.Archive.MarkRead(entry.ID)
	w.Memories.Of(a.ID).Add(memory.Record{
		EventID:         entry.ID,
		Summary:         entry.Content,
		Fidelity:        w.Tuning.Archive.ReadFidelity,
		EmotionalWeight: 0.4,
		Source:          memory.Source{Kind: memory.Secondhand, Chain: []agents.ID{agents.ID(entry.AuthorAgent)}},
		AcquiredTick:    w.Tick,
	})

	e := newEvent(counter, w, "archive", "read", events.Actors{Primary: string(a.ID)})
	e.Context["entry_id"] = entry.ID
	return Outcome{Event: e}
}

func executeDestroyArchive(a *agents.Agent, c Candidate, w World, counter *events.Counter) Outcome {
	f := w.Factions.Get(factions.ID(a.FactionID))
	if f == nil || a.Location != f.HQ || (a.Role != agents.RoleReader && a.Role != agents.RoleLeader) {
		return Outcome{}
	}
	if !f.Archive.Expunge(c.TargetEntry) {
		return Outcome{}
	}
	e := newEvent(counter, w, "archive", "destroy", events.Actors{Primary: string(a.ID)})
	e.Context["entry_id"] = c.TargetEntry
	e.DramaTags = append(e.DramaTags, "destruction")
	return Outcome{Event: e}
}

func executeForgeArchive(a *agents.Agent, c Candidate, w World, counter *events.Counter) Outcome {
	f := w.Factions.Get(factions.ID(a.FactionID))
	if f == nil || a.Location != f.HQ || (a.Role != agents.RoleReader && a.Role != agents.RoleLeader) {
		return Outcome{}
	}
	target := f.Archive.Get(c.TargetEntry)
	if target == nil || target.Expunged {
		return Outcome{}
	}
	target.Authentic = false
	target.Content = "a doctored account"

	e := newEvent(counter, w, "archive", "forge", events.Actors{Primary: string(a.ID)})
	e.Context["entry_id"] = c.TargetEntry
	e.DramaTags = append(e.DramaTags, "forgery")
	return Outcome{Event: e}
}
