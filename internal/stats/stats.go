// Package stats computes per-tick population and economic aggregates and
// writes them to stats.json, supplementing design doc Section 4.8's
// "aggregated counters" with the teacher's concrete SimStats/GiniCoefficient
// fields (mini-world's engine/simulation.go). Grounded directly on that
// file: the Gini formula, sorted-wealth weighted sum, and the population
// counter shape are carried over; "Wealth" here is an agent's total
// inventory count rather than a single uint64 balance, since this domain
// tracks goods rather than currency.
package stats

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/trust"
)

// Snapshot is one tick's population/economy aggregate.
type Snapshot struct {
	Tick                uint64  `json:"tick"`
	Population          int     `json:"population"`
	Deaths              uint64  `json:"deaths"`
	Spawns              uint64  `json:"spawns"`
	AvgFoodSecurity     float64 `json:"avg_food_security"`     // 0=desperate, 1=secure
	AvgSocialBelonging  float64 `json:"avg_social_belonging"`  // 0=isolated, 1=integrated
	GiniCoefficient     float64 `json:"gini_coefficient"`
	TrustNetworkDensity float64 `json:"trust_network_density"` // fraction of possible pairs with a recorded relation
}

func foodScore(f agents.FoodSecurity) float64 {
	switch f {
	case agents.FoodSecure:
		return 1
	case agents.FoodStressed:
		return 0.5
	default:
		return 0
	}
}

func belongingScore(b agents.SocialBelonging) float64 {
	switch b {
	case agents.SocialIntegrated:
		return 1
	case agents.SocialPeripheral:
		return 0.5
	default:
		return 0
	}
}

// Compute aggregates the current population and trust network into a
// Snapshot. deaths/spawns are cumulative counters the caller tracks across
// the run (this package does not own them).
func Compute(tick uint64, idx *agents.Index, store *trust.Store, deaths, spawns uint64) Snapshot {
	alive := idx.Alive()
	s := Snapshot{Tick: tick, Population: len(alive), Deaths: deaths, Spawns: spawns}
	if len(alive) == 0 {
		return s
	}

	var totalFood, totalBelonging float64
	inventories := make([]int, len(alive))
	for i, a := range alive {
		totalFood += foodScore(a.Needs.FoodSecurity)
		totalBelonging += belongingScore(a.Needs.SocialBelonging)
		total := 0
		for _, qty := range a.Inventory {
			total += qty
		}
		inventories[i] = total
	}
	s.AvgFoodSecurity = totalFood / float64(len(alive))
	s.AvgSocialBelonging = totalBelonging / float64(len(alive))
	s.GiniCoefficient = gini(inventories)

	possible := len(alive) * (len(alive) - 1) // directed pairs
	if possible > 0 {
		s.TrustNetworkDensity = float64(len(store.All())) / float64(possible)
	}
	return s
}

// gini computes wealth inequality over non-negative holdings using the
// sorted weighted-sum formula: G = (2*Sum(i*w_i))/(n*Sum(w_i)) - (n+1)/n.
func gini(holdings []int) float64 {
	n := len(holdings)
	if n < 2 {
		return 0
	}
	sorted := make([]int, n)
	copy(sorted, holdings)
	sort.Ints(sorted)

	var total, weighted int64
	for i, w := range sorted {
		total += int64(w)
		weighted += int64(i+1) * int64(w)
	}
	if total == 0 {
		return 0
	}
	return (2*float64(weighted))/(float64(n)*float64(total)) - float64(n+1)/float64(n)
}

// WriteJSON dumps s to path using the write-temp-then-rename pattern the
// rest of the output surfaces (snapshot, tensions) use for atomicity.
func WriteJSON(path string, s Snapshot) error {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal stats: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write stats temp file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename stats file: %w", err)
	}
	return nil
}
