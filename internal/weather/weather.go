// Package weather provides deterministic, season-keyed environmental
// modifiers. Adapted from the teacher's internal/weather package (which
// additionally polled a live weather API); that network path is removed
// here since SPEC_FULL.md's external-interfaces section requires no
// environment variables or network calls — the simulation core stays
// reproducible from its seed alone.
package weather

import "github.com/talgya/crossroads/internal/timekeeping"

// Modifier holds the environmental effects a season applies to the tick.
type Modifier struct {
	TempModifier   float64 `json:"temp_modifier"`
	FoodDecayMod   float64 `json:"food_decay_modifier"`
	TravelPenalty  float64 `json:"travel_penalty"`
}

var bySeasonDefaults = map[timekeeping.Season]Modifier{
	timekeeping.Spring: {TempModifier: 0.0, FoodDecayMod: 1.0, TravelPenalty: 0.0},
	timekeeping.Summer: {TempModifier: 0.2, FoodDecayMod: 1.3, TravelPenalty: 0.0},
	timekeeping.Autumn: {TempModifier: -0.1, FoodDecayMod: 0.8, TravelPenalty: 0.1},
	timekeeping.Winter: {TempModifier: -0.4, FoodDecayMod: 0.5, TravelPenalty: 0.3},
}

// For returns the modifier for a season, falling back to Spring's neutral
// values for an unrecognized season rather than a zero value, since a zero
// FoodDecayMod would silently halt all food decay.
func For(s timekeeping.Season) Modifier {
	if m, ok := bySeasonDefaults[s]; ok {
		return m
	}
	return bySeasonDefaults[timekeeping.Spring]
}
