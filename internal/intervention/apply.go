package intervention

import (
	"fmt"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/timekeeping"
	"github.com/talgya/crossroads/internal/trust"
)

// Target bundles the mutable world surfaces Apply may touch. TrustQueue and
// Tuning are only consulted by trigger_event's promise/betrayal variants,
// which enqueue real trust.Events instead of mutating Trust directly — this
// lets them flow through the same Queue.Drain grudge-formation check as
// every other trust-affecting action (Section 4.4).
type Target struct {
	Agents     *agents.Index
	Factions   *factions.Registry
	Locations  *locations.Graph
	Trust      *trust.Store
	TrustQueue *trust.Queue
	Tuning     config.Tuning
}

// Apply executes iv against t, logging it as a special "intervention" event
// regardless of outcome (Section 4.6: "every processed intervention, valid
// or not, is logged"). A precondition failure (unknown agent, unknown
// location, ...) is recorded in the event's outcome field rather than
// returned as an error — an intervention referencing a since-deceased agent
// is an expected occurrence, not a simulation fault.
func Apply(iv Intervention, t Target, tick uint64, counter *events.Counter) events.Event {
	e := events.Event{
		ID:        counter.Next(),
		Timestamp: timekeeping.At(tick),
		Type:      "intervention",
		Subtype:   string(iv.Kind),
		Context:   map[string]any{"source_file": iv.sourceFile, "intervention_id": iv.ID},
	}
	if iv.Reason != "" {
		e.Context["reason"] = iv.Reason
	}

	switch iv.Kind {
	case ModifyAgent:
		applyModifyAgent(iv, t, &e)
	case ModifyRelationship:
		applyModifyRelationship(iv, t, &e)
	case MoveAgent:
		applyMoveAgent(iv, t, &e)
	case ChangeFaction:
		applyChangeFaction(iv, t, &e)
	case AddGoal:
		applyAddGoal(iv, t, &e)
	case ModifyFaction:
		applyModifyFaction(iv, t, &e)
	case SpawnAgent:
		applySpawnAgent(iv, t, &e)
	case KillAgent:
		applyKillAgent(iv, t, &e)
	case TriggerEvent:
		applyTriggerEvent(iv, t, tick, &e)
	}
	return e
}

func str(params map[string]any, key string) string {
	v, _ := params[key].(string)
	return v
}

func num(params map[string]any, key string) float64 {
	v, _ := params[key].(float64)
	return v
}

func applyModifyAgent(iv Intervention, t Target, e *events.Event) {
	a := t.Agents.Get(agents.ID(str(iv.Params, "agent_id")))
	if a == nil {
		e.Outcome = "rejected: unknown agent"
		return
	}
	e.Actors.Primary = string(a.ID)
	if v, ok := iv.Params["health"]; ok {
		a.Physical.Health = v.(float64)
	}
	if v, ok := iv.Params["hunger"]; ok {
		a.Physical.Hunger = v.(float64)
	}
	e.Outcome = "applied"
}

func applyModifyRelationship(iv Intervention, t Target, e *events.Event) {
	src := agents.ID(str(iv.Params, "source_agent_id"))
	tgt := agents.ID(str(iv.Params, "target_agent_id"))
	if t.Agents.Get(src) == nil || t.Agents.Get(tgt) == nil {
		e.Outcome = "rejected: unknown agent"
		return
	}
	e.Actors.Primary, e.Actors.Secondary = string(src), string(tgt)
	rel := t.Trust.Get(src, tgt)
	if v, ok := iv.Params["reliability"]; ok {
		rel.Reliability = v.(float64)
	}
	if v, ok := iv.Params["alignment"]; ok {
		rel.Alignment = v.(float64)
	}
	if v, ok := iv.Params["capability"]; ok {
		rel.Capability = v.(float64)
	}
	e.Outcome = "applied"
}

func applyMoveAgent(iv Intervention, t Target, e *events.Event) {
	a := t.Agents.Get(agents.ID(str(iv.Params, "agent_id")))
	loc := t.Locations.Get(locations.ID(str(iv.Params, "location_id")))
	if a == nil || loc == nil {
		e.Outcome = "rejected: unknown agent or location"
		return
	}
	e.Actors.Primary = string(a.ID)
	a.Location = string(loc.ID)
	e.Outcome = "applied"
}

func applyChangeFaction(iv Intervention, t Target, e *events.Event) {
	a := t.Agents.Get(agents.ID(str(iv.Params, "agent_id")))
	f := t.Factions.Get(factions.ID(str(iv.Params, "faction_id")))
	if a == nil || f == nil {
		e.Outcome = "rejected: unknown agent or faction"
		return
	}
	e.Actors.Primary = string(a.ID)
	a.FactionID = string(f.ID)
	e.Outcome = "applied"
}

func applyAddGoal(iv Intervention, t Target, e *events.Event) {
	a := t.Agents.Get(agents.ID(str(iv.Params, "agent_id")))
	if a == nil {
		e.Outcome = "rejected: unknown agent"
		return
	}
	e.Actors.Primary = string(a.ID)
	a.AddGoal(agents.Goal{
		Kind:     str(iv.Params, "kind"),
		Priority: num(iv.Params, "priority"),
		Target:   str(iv.Params, "target"),
	})
	e.Outcome = "applied"
}

func applyModifyFaction(iv Intervention, t Target, e *events.Event) {
	f := t.Factions.Get(factions.ID(str(iv.Params, "faction_id")))
	if f == nil {
		e.Outcome = "rejected: unknown faction"
		return
	}
	if v, ok := iv.Params["grain"]; ok {
		f.Resources.Grain = v.(float64)
	}
	if v, ok := iv.Params["iron"]; ok {
		f.Resources.Iron = v.(float64)
	}
	if v, ok := iv.Params["salt"]; ok {
		f.Resources.Salt = v.(float64)
	}
	if v, ok := iv.Params["beer"]; ok {
		f.Resources.Beer = v.(float64)
	}
	e.Outcome = "applied"
}

func applySpawnAgent(iv Intervention, t Target, e *events.Event) {
	id := agents.ID(str(iv.Params, "agent_id"))
	if t.Agents.Get(id) != nil {
		e.Outcome = "rejected: agent id already exists"
		return
	}
	a := &agents.Agent{
		ID:        id,
		Name:      str(iv.Params, "name"),
		FactionID: str(iv.Params, "faction_id"),
		Role:      agents.Role(str(iv.Params, "role")),
		Location:  str(iv.Params, "location_id"),
		Alive:     true,
		Physical:  agents.Physical{Health: 1, Hunger: 0, Exhaustion: 0, Intoxication: 0},
		Inventory: agents.Inventory{},
	}
	t.Agents.Add(a)
	e.Actors.Primary = string(a.ID)
	e.Outcome = "applied"
}

func applyKillAgent(iv Intervention, t Target, e *events.Event) {
	a := t.Agents.Get(agents.ID(str(iv.Params, "agent_id")))
	if a == nil {
		e.Outcome = "rejected: unknown agent"
		return
	}
	a.Alive = false
	heir := inheritInventory(a, t)
	e.Actors.Primary = string(a.ID)
	if heir != "" {
		e.Context["heir_agent_id"] = heir
	}
	e.Outcome = "applied"
}

// inheritInventory splits a's goods between its faction's treasury and a
// living faction-mate on death, grounded on the teacher's inheritWealth:
// half to the faction's stockpile, half to the first living faction-mate in
// canonical (ID-sorted) order. An exile's goods are simply lost.
func inheritInventory(a *agents.Agent, t Target) string {
	if len(a.Inventory) == 0 || a.FactionID == "" {
		return ""
	}
	f := t.Factions.Get(factions.ID(a.FactionID))
	if f == nil {
		return ""
	}

	var heir *agents.Agent
	for _, m := range t.Agents.FactionMembers(a.FactionID) {
		if m.Alive && m.ID != a.ID {
			heir = m
			break
		}
	}

	for good, qty := range a.Inventory {
		treasuryShare := qty / 2
		heirShare := qty - treasuryShare
		addFactionGood(f, good, treasuryShare)
		if heir != nil {
			if heir.Inventory == nil {
				heir.Inventory = agents.Inventory{}
			}
			heir.Inventory[good] += heirShare
		} else {
			addFactionGood(f, good, heirShare) // no living heir: faction keeps it all
		}
	}
	a.Inventory = agents.Inventory{}
	if heir == nil {
		return ""
	}
	return string(heir.ID)
}

// addFactionGood credits qty units of good to f's matching resource field,
// silently dropping goods outside the four tracked kinds.
func addFactionGood(f *factions.Faction, good string, qty int) {
	switch good {
	case "grain":
		f.Resources.Grain += float64(qty)
	case "iron":
		f.Resources.Iron += float64(qty)
	case "salt":
		f.Resources.Salt += float64(qty)
	case "beer":
		f.Resources.Beer += float64(qty)
	}
}

// applyTriggerEvent injects a narrative event into the simulation. The three
// trust-bearing variants named by Section 8's scenarios — promise,
// break_promise, betrayal — enqueue real trust.Events via t.TrustQueue so
// they are picked up by the same Queue.Drain grudge-formation check as any
// other trust-affecting action; source_agent_id is the truster (the one who
// may form a grudge), target_agent_id is the one who broke faith. Any other
// event_type is a plain narrative marker with no trust side effect.
func applyTriggerEvent(iv Intervention, t Target, tick uint64, e *events.Event) {
	eventType := str(iv.Params, "event_type")
	e.Subtype = fmt.Sprintf("trigger_event:%s", eventType)
	e.Context["triggered_type"] = eventType

	switch eventType {
	case "promise", "break_promise", "betrayal":
		src := agents.ID(str(iv.Params, "source_agent_id"))
		tgt := agents.ID(str(iv.Params, "target_agent_id"))
		if t.Agents.Get(src) == nil || t.Agents.Get(tgt) == nil {
			e.Outcome = "rejected: unknown agent"
			return
		}
		e.Actors.Primary, e.Actors.Secondary = string(src), string(tgt)
		switch eventType {
		case "promise":
			trust.PositiveInteraction(t.TrustQueue, t.Tuning.Trust, src, tgt, tick, "promise")
		case "break_promise":
			trust.BrokenPromise(t.TrustQueue, t.Tuning.Trust, src, tgt, tick)
		case "betrayal":
			trust.Betrayal(t.TrustQueue, t.Tuning.Conflict, src, tgt, tick)
		}
	}
	e.Outcome = "applied"
}
