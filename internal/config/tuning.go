// Package config loads tuning.toml and director.toml, falling back to
// built-in defaults on a missing file, a missing key, or a malformed file.
// See design doc Section 6 (External Interfaces — Configuration files) and
// Section 7 (Error Handling Design — Configuration).
package config

import (
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// Tuning holds every weighting constant the action pipeline, needs state
// machines, and trust/memory subsystems consult, grouped by section exactly
// as spec.md §6 describes.
type Tuning struct {
	Simulation    SimulationSection    `toml:"simulation"`
	Agents        AgentsSection        `toml:"agents"`
	Movement      MovementSection      `toml:"movement"`
	Communication CommunicationSection `toml:"communication"`
	Resource      ResourceSection      `toml:"resource"`
	Social        SocialSection        `toml:"social"`
	Faction       FactionSection       `toml:"faction"`
	Conflict      ConflictSection      `toml:"conflict"`
	Archive       ArchiveSection       `toml:"archive"`
	Memory        MemorySection        `toml:"memory"`
	Trust         TrustSection         `toml:"trust"`
	Drama         DramaSection         `toml:"drama"`
	Economy       EconomySection       `toml:"economy"`
}

type SimulationSection struct {
	SnapshotInterval uint64 `toml:"snapshot_interval"`
	RitualInterval   uint64 `toml:"ritual_interval"`
	TensionInterval  uint64 `toml:"tension_interval"`
	StatsInterval    uint64 `toml:"stats_interval"`
}

type AgentsSection struct {
	NeedUrgentThreshold float64 `toml:"need_urgent_threshold"`
	GrudgeMaxTicks      uint64  `toml:"grudge_max_ticks"`
}

type MovementSection struct {
	BoldnessDistanceDiscount float64 `toml:"boldness_distance_discount"`
	BaseDistanceDecay        float64 `toml:"base_distance_decay"`
}

type CommunicationSection struct {
	SameFactionModifier    float64 `toml:"same_faction_modifier"`
	NeutralFactionModifier float64 `toml:"neutral_faction_modifier"`
	EnemyFactionModifier   float64 `toml:"enemy_faction_modifier"`
	AdjacentProximityMod   float64 `toml:"adjacent_proximity_modifier"`
	FarProximityMod        float64 `toml:"far_proximity_modifier"`
	RecentlySpokenMod      float64 `toml:"recently_spoken_modifier"`
	GroupRelationshipMod   float64 `toml:"group_relationship_modifier"`
	GroupFidelityMod       float64 `toml:"group_fidelity_modifier"`
	SecondhandFidelityMod  float64 `toml:"secondhand_fidelity_modifier"`
}

type ResourceSection struct {
	SecureUpperRatio   float64 `toml:"secure_upper_ratio"`
	SecureLowerRatio   float64 `toml:"secure_lower_ratio"`
	DesperateUpperRatio float64 `toml:"desperate_upper_ratio"`
	DesperateLowerRatio float64 `toml:"desperate_lower_ratio"`
	LeaderFoodModifier float64 `toml:"leader_food_modifier"`
	NewcomerFoodModifier float64 `toml:"newcomer_food_modifier"`
}

type SocialSection struct {
	EnemyTerritoryWeightMod float64 `toml:"enemy_territory_weight_modifier"`
	NeutralMeetingMod       float64 `toml:"neutral_meeting_modifier"`
}

type FactionSection struct {
	EntriesPerRitual int `toml:"entries_per_ritual"`
}

type ConflictSection struct {
	BetrayalReliabilityDelta float64 `toml:"betrayal_reliability_delta"`
	BetrayalAlignmentDelta   float64 `toml:"betrayal_alignment_delta"`
}

type ArchiveSection struct {
	ReadFidelity float64 `toml:"read_fidelity"`
}

type MemorySection struct {
	FirsthandSeasonDecay  float64 `toml:"firsthand_season_decay"`
	SecondhandSeasonDecay float64 `toml:"secondhand_season_decay"`
	CullThreshold         float64 `toml:"cull_threshold"`
	PropagationFraction   float64 `toml:"propagation_fraction"`
}

type TrustSection struct {
	PositiveReliabilityDelta float64 `toml:"positive_reliability_delta"`
	PositiveAlignmentDelta   float64 `toml:"positive_alignment_delta"`
	PositiveCapabilityDelta  float64 `toml:"positive_capability_delta"`
	BrokenPromiseDelta       float64 `toml:"broken_promise_delta"`
	GrudgeReliabilityFloor   float64 `toml:"grudge_reliability_floor"`
}

type DramaSection struct {
	NoiseSigma float64 `toml:"noise_sigma"`
}

type EconomySection struct {
	BeerFoodWeight float64 `toml:"beer_food_weight"`
}

// DefaultTuning returns the built-in defaults used when tuning.toml is
// absent, malformed, or missing individual keys.
func DefaultTuning() Tuning {
	return Tuning{
		Simulation: SimulationSection{
			SnapshotInterval: 100,
			RitualInterval:   500,
			TensionInterval:  10,
			StatsInterval:    100,
		},
		Agents: AgentsSection{
			NeedUrgentThreshold: 0.3,
			GrudgeMaxTicks:      36000,
		},
		Movement: MovementSection{
			BoldnessDistanceDiscount: 0.3,
			BaseDistanceDecay:        0.7,
		},
		Communication: CommunicationSection{
			SameFactionModifier:    2.0,
			NeutralFactionModifier: 1.0,
			EnemyFactionModifier:   0.3,
			AdjacentProximityMod:   0.5,
			FarProximityMod:        0.1,
			RecentlySpokenMod:      0.1,
			GroupRelationshipMod:   0.5,
			GroupFidelityMod:       0.9,
			SecondhandFidelityMod:  0.7,
		},
		Resource: ResourceSection{
			SecureUpperRatio:    5.0,
			SecureLowerRatio:    3.5,
			DesperateUpperRatio: 1.0,
			DesperateLowerRatio: 0.5,
			LeaderFoodModifier:  1.5,
			NewcomerFoodModifier: 0.8,
		},
		Social: SocialSection{
			EnemyTerritoryWeightMod: 0.5,
			NeutralMeetingMod:       1.3,
		},
		Faction: FactionSection{
			EntriesPerRitual: 2,
		},
		Conflict: ConflictSection{
			BetrayalReliabilityDelta: -0.5,
			BetrayalAlignmentDelta:   -0.4,
		},
		Archive: ArchiveSection{
			ReadFidelity: 0.9,
		},
		Memory: MemorySection{
			FirsthandSeasonDecay:  0.95,
			SecondhandSeasonDecay: 0.85,
			CullThreshold:         0.05,
			PropagationFraction:   0.3,
		},
		Trust: TrustSection{
			PositiveReliabilityDelta: 0.05,
			PositiveAlignmentDelta:   0.03,
			PositiveCapabilityDelta:  0.02,
			BrokenPromiseDelta:       -0.15,
			GrudgeReliabilityFloor:   -0.3,
		},
		Drama: DramaSection{
			NoiseSigma: 0.05,
		},
		Economy: EconomySection{
			BeerFoodWeight: 0.5,
		},
	}
}

// LoadTuning reads tuning.toml from path. A missing file returns defaults
// with no error; a malformed file logs a warning and returns defaults.
// Keys absent from the file keep the default's value (toml.Decode leaves
// unset struct fields at their pre-set default since we decode into an
// already-defaulted struct).
func LoadTuning(path string) Tuning {
	cfg := DefaultTuning()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("tuning config unreadable, using defaults", "path", path, "error", err)
		}
		return cfg
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		slog.Warn("tuning config malformed, using defaults", "path", path, "error", err)
		return DefaultTuning()
	}
	return cfg
}
