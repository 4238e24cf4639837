// Package engine wires every subsystem together and drives the fixed,
// twelve-step tick order from design doc Section 4.1. Grounded on the
// teacher's engine/simulation.go Simulation/Engine split, generalized from
// mini-world's need/market/weather tick into the spec's intervention →
// environment → perception → needs → memory decay → actions → trust drain
// → rituals → archive → tension detection → snapshot → stats order; each
// event is appended to the log as soon as the step that emits it runs.
package engine

import (
	"log/slog"
	"path/filepath"
	"sort"

	"github.com/talgya/crossroads/internal/action"
	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/factions"
	"github.com/talgya/crossroads/internal/intervention"
	"github.com/talgya/crossroads/internal/locations"
	"github.com/talgya/crossroads/internal/memory"
	"github.com/talgya/crossroads/internal/rng"
	"github.com/talgya/crossroads/internal/snapshot"
	"github.com/talgya/crossroads/internal/stats"
	"github.com/talgya/crossroads/internal/tension"
	"github.com/talgya/crossroads/internal/timekeeping"
	"github.com/talgya/crossroads/internal/trust"
	"github.com/talgya/crossroads/internal/weather"
)

// Config controls one simulation run.
type Config struct {
	Seed               int64
	Ticks              uint64
	OutputDir          string
	InterventionDir    string
	StartTick          uint64
}

// Simulation owns every subsystem and advances them one tick at a time.
type Simulation struct {
	cfg Config

	Agents    *agents.Index
	Factions  *factions.Registry
	Locations *locations.Graph
	Trust     *trust.Store
	Memories  *memory.Banks
	Tensions  *tension.Registry

	Tuning       config.Tuning
	DramaWeights config.EventWeights

	eventCounter   *events.Counter
	tensionCounter *tension.Counter
	trustQueue     *trust.Queue
	stream         *rng.Stream
	log            *events.Log

	deaths uint64
	spawns uint64

	tick uint64
}

// New assembles a Simulation. locGraph, factionReg, and agentIdx are
// supplied already populated (by worldgen and a scenario/spawn step); the
// engine only orchestrates their tick-by-tick evolution, never creates
// them.
func New(cfg Config, tuning config.Tuning, dramaWeights config.EventWeights, locGraph *locations.Graph, factionReg *factions.Registry, agentIdx *agents.Index) (*Simulation, error) {
	log, err := events.OpenLog(filepath.Join(cfg.OutputDir, "events.jsonl"))
	if err != nil {
		return nil, err
	}
	return &Simulation{
		cfg:            cfg,
		Agents:         agentIdx,
		Factions:       factionReg,
		Locations:      locGraph,
		Trust:          trust.NewStore(),
		Memories:       memory.NewBanks(),
		Tensions:       tension.NewRegistry(),
		Tuning:         tuning,
		DramaWeights:   dramaWeights,
		eventCounter:   events.NewCounter(),
		tensionCounter: tension.NewCounter(),
		trustQueue:     trust.NewQueue(),
		stream:         rng.New(uint64(cfg.Seed)),
		log:            log,
		tick:           cfg.StartTick,
	}, nil
}

// Close releases the simulation's open resources.
func (s *Simulation) Close() error {
	return s.log.Close()
}

// Run advances the simulation from its current tick through cfg.Ticks,
// writing snapshots and tensions on their configured intervals.
func (s *Simulation) Run() error {
	for s.tick < s.cfg.Ticks {
		if err := s.Step(); err != nil {
			return err
		}
	}
	return nil
}

// Step advances the simulation by exactly one tick, in the fixed order
// Section 4.1 specifies. Step runs no invariant checks and always returns
// nil; I/O failures are logged at Warn and the tick continues.
func (s *Simulation) Step() error {
	tick := s.tick
	ts := timekeeping.At(tick)

	// 1. Interventions.
	s.applyInterventions(tick)

	// 2. Environment/season advance.
	mod := weather.For(ts.Season)

	// 3. Perception — rebuild location presence.
	s.rebuildPresence()

	// 4. Needs update.
	s.updateNeeds(mod)

	// 5. Memory decay on season boundary (first tick of a season).
	if tick%timekeeping.TicksPerSeason == 0 {
		s.decayMemories()
	}

	// 6. Action pipeline: deterministic per-tick agent shuffle, then
	// generate/weight/select/execute for each living agent in that order.
	s.runActions(tick)

	// 7. Trust-event queue drain (includes grudge formation).
	s.drainTrust(tick)

	// 8. Scheduled rituals.
	s.runRituals(tick)

	// 9. Archive updates happen inline within ritual/action executors; no
	// separate step needed here beyond what step 6 and 8 already did.

	// 10. Tension detection, every N ticks.
	if s.Tuning.Simulation.TensionInterval > 0 && tick%s.Tuning.Simulation.TensionInterval == 0 {
		s.detectTensions(tick)
		tensPath := filepath.Join(s.cfg.OutputDir, "tensions.json")
		if err := s.Tensions.WriteJSON(tensPath); err != nil {
			slog.Warn("failed to write tensions.json", "tick", tick, "error", err)
		}
	}

	// 11. Snapshot writes on interval, plus always-current state.
	snap := snapshot.Build(s.cfg.Seed, tick, s.Agents, s.Factions, s.Locations, s.Trust, s.Memories, s.Tensions)
	if err := snapshot.WriteCurrentState(s.cfg.OutputDir, snap); err != nil {
		slog.Warn("failed to write current_state.json", "tick", tick, "error", err)
	}
	if s.Tuning.Simulation.SnapshotInterval > 0 && tick%s.Tuning.Simulation.SnapshotInterval == 0 {
		if err := snapshot.WritePeriodic(s.cfg.OutputDir, tick, snap); err != nil {
			slog.Warn("failed to write periodic snapshot", "tick", tick, "error", err)
		}
	}

	// 12. Population/economy aggregates, alongside the other output surfaces.
	statSnap := stats.Compute(tick, s.Agents, s.Trust, s.deaths, s.spawns)
	if err := stats.WriteJSON(filepath.Join(s.cfg.OutputDir, "stats.json"), statSnap); err != nil {
		slog.Warn("failed to write stats.json", "tick", tick, "error", err)
	}

	s.tick++
	return nil
}

func (s *Simulation) applyInterventions(tick uint64) {
	ivs, err := intervention.Poll(s.cfg.InterventionDir)
	if err != nil {
		slog.Warn("intervention poll failed", "tick", tick, "error", err)
		return
	}
	target := intervention.Target{
		Agents: s.Agents, Factions: s.Factions, Locations: s.Locations,
		Trust: s.Trust, TrustQueue: s.trustQueue, Tuning: s.Tuning,
	}
	for _, iv := range ivs {
		e := intervention.Apply(iv, target, tick, s.eventCounter)
		if e.Outcome == "applied" {
			switch iv.Kind {
			case intervention.KillAgent:
				s.deaths++
			case intervention.SpawnAgent:
				s.spawns++
			}
		}
		e.DramaScore = events.Score(e, s.DramaWeights)
		if err := s.log.Append(e); err != nil {
			slog.Warn("failed to append intervention event", "tick", tick, "error", err)
		}
	}
}

func (s *Simulation) rebuildPresence() {
	byLoc := map[locations.ID][]string{}
	for _, a := range s.Agents.Alive() {
		id := locations.ID(a.Location)
		byLoc[id] = append(byLoc[id], string(a.ID))
	}
	s.Locations.RebuildPresence(byLoc)
}

func (s *Simulation) updateNeeds(mod weather.Modifier) {
	for _, f := range s.Factions.All() {
		members := s.Agents.FactionMembers(string(f.ID))
		if len(members) == 0 {
			continue
		}
		food := f.EffectiveFood(s.Tuning.Economy.BeerFoodWeight) * mod.FoodDecayMod
		perMember := food / float64(len(members))
		for _, a := range members {
			agents.UpdateFoodSecurity(a, perMember, s.Tuning.Resource)
			agents.DecayInteractions(a, 0.05)
			in := agents.SocialBelongingInput{
				RecentInteractions:   a.RecentInteractions,
				RitualAttendanceRate: agents.RitualAttendanceRate(a),
				TrustFromFactionAvg:  avgFactionTrust(s.Trust, members, a.ID),
			}
			agents.UpdateSocialBelonging(a, in)
			a.ExpireGoals(s.tick)
		}
	}
}

func avgFactionTrust(store *trust.Store, members []*agents.Agent, target agents.ID) float64 {
	total, n := 0.0, 0
	for _, m := range members {
		if m.ID == target {
			continue
		}
		rel, ok := store.Peek(m.ID, target)
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

func (s *Simulation) decayMemories() {
	for _, id := range s.Memories.All() {
		s.Memories.Of(id).DecaySeasonBoundary(s.Tuning.Memory)
	}
}

func (s *Simulation) runActions(tick uint64) {
	alive := s.Agents.Alive()
	order := make([]int, len(alive))
	for i := range order {
		order[i] = i
	}
	s.stream.Shuffle(len(order), func(i, j int) { order[i], order[j] = order[j], order[i] })

	w := action.World{
		Agents: s.Agents, Factions: s.Factions, Locations: s.Locations,
		Trust: s.Trust, Memories: s.Memories, Tuning: s.Tuning, Tick: tick,
	}

	for _, idx := range order {
		a := alive[idx]
		candidates := action.Generate(a, w)
		sortCandidates(candidates)
		weighted := action.Weight(a, candidates, w, s.stream)
		chosen := action.Select(weighted, s.stream)
		outcome := action.Execute(a, chosen, w, s.eventCounter, s.trustQueue, s.stream)
		if outcome.Event != nil {
			outcome.Event.DramaScore = events.Score(*outcome.Event, s.DramaWeights)
			if err := s.log.Append(*outcome.Event); err != nil {
				slog.Warn("failed to append action event", "tick", tick, "agent", a.ID, "error", err)
			}
		}
	}
}

// sortCandidates imposes the canonical order Weight/Select require:
// by kind, then target agent, then target location, then target entry.
func sortCandidates(c []action.Candidate) {
	sort.Slice(c, func(i, j int) bool {
		if c[i].Kind != c[j].Kind {
			return c[i].Kind < c[j].Kind
		}
		if c[i].TargetAgent != c[j].TargetAgent {
			return c[i].TargetAgent < c[j].TargetAgent
		}
		if c[i].TargetLocation != c[j].TargetLocation {
			return c[i].TargetLocation < c[j].TargetLocation
		}
		return c[i].TargetEntry < c[j].TargetEntry
	})
}

func (s *Simulation) drainTrust(tick uint64) {
	s.trustQueue.Drain(s.Trust, s.Agents, s.Tuning.Trust, s.Tuning.Agents)
	_ = tick
}

func (s *Simulation) runRituals(tick uint64) {
	for _, f := range s.Factions.All() {
		if f.NextRitualTick == 0 {
			f.NextRitualTick = tick + s.Tuning.Simulation.RitualInterval
			continue
		}
		if tick < f.NextRitualTick {
			continue
		}
		f.NextRitualTick = tick + s.Tuning.Simulation.RitualInterval

		readerLoyal := s.readerIsLoyal(f)
		entries := f.Archive.SelectForRitual(s.Tuning.Faction.EntriesPerRitual, f.LeaderAgent, readerLoyal)
		skipped := skippedEntries(f.Archive.Live(), entries)
		members := s.Agents.FactionMembers(string(f.ID))

		reinforcement := make([]map[string]any, 0, len(members))
		for _, a := range members {
			present := a.Location == f.HQ
			agents.RecordRitualAttendance(a, present, 10)
			if !present {
				reinforcement = append(reinforcement, map[string]any{
					"agent_id":       string(a.ID),
					"absence_reason": "not present at faction HQ during the ritual",
				})
				continue
			}
			bank := s.Memories.Of(a.ID)
			added := make([]string, 0, len(entries))
			reinforced := make([]string, 0, len(entries))
			for _, e := range entries {
				if reinforceRitualMemory(bank, e, tick) {
					added = append(added, e.ID)
				} else {
					reinforced = append(reinforced, e.ID)
				}
			}
			reinforcement = append(reinforcement, map[string]any{
				"agent_id":  string(a.ID),
				"added":     added,
				"reinforced": reinforced,
			})
		}
		for _, e := range entries {
			f.Archive.MarkRead(e.ID)
		}

		evt := events.Event{
			ID:        s.eventCounter.Next(),
			Timestamp: timekeeping.At(tick),
			Type:      "ritual",
			Actors:    events.Actors{Primary: f.LeaderAgent},
			Context: map[string]any{
				"faction_id":           string(f.ID),
				"entries_read":         entryIDs(entries),
				"entries_skipped":      entryIDs(skipped),
				"memory_reinforcement": reinforcement,
			},
			Outcome: "held",
		}
		evt.DramaScore = events.Score(evt, s.DramaWeights)
		if err := s.log.Append(evt); err != nil {
			slog.Warn("failed to append ritual event", "tick", tick, "faction", f.ID, "error", err)
		}
	}
}

// readerIsLoyal approximates the Reader's own loyalty toward the current
// leader via their fixed loyalty_weight trait — a faction with no appointed
// Reader defaults to loyal (no one to embarrass anyone with).
func (s *Simulation) readerIsLoyal(f *factions.Faction) bool {
	reader := s.Agents.Get(agents.ID(f.ReaderAgent))
	if reader == nil {
		return true
	}
	return reader.Traits.LoyaltyWeight >= 0.5
}

// reinforceRitualMemory adds or reinforces a present member's memory of a
// recited archive entry, returning true if this is the first time the
// entry enters that member's bank.
func reinforceRitualMemory(bank *memory.Bank, e *factions.Entry, tick uint64) bool {
	eventID := "archive:" + e.ID
	for i := range bank.Records {
		if bank.Records[i].EventID == eventID {
			bank.Records[i].Fidelity = 1.0
			bank.Records[i].AcquiredTick = tick
			return false
		}
	}
	bank.Add(memory.NewFirsthand(eventID, e.Content, 0.5, 0, tick))
	return true
}

func skippedEntries(live, selected []*factions.Entry) []*factions.Entry {
	chosen := make(map[string]bool, len(selected))
	for _, e := range selected {
		chosen[e.ID] = true
	}
	out := make([]*factions.Entry, 0, len(live))
	for _, e := range live {
		if !chosen[e.ID] {
			out = append(out, e)
		}
	}
	return out
}

func entryIDs(entries []*factions.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func (s *Simulation) detectTensions(tick uint64) {
	w := tension.World{Agents: s.Agents, Factions: s.Factions, Trust: s.Trust, Tick: tick}
	tension.Detect(s.Tensions, s.tensionCounter, w, s.Tuning.Agents.GrudgeMaxTicks/10)
}
