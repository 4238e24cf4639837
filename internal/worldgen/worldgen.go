// Package worldgen procedurally builds the initial location graph from a
// seed, using layered simplex noise for terrain/resource flavor exactly as
// the teacher's internal/world/generation.go derives elevation, rainfall,
// and temperature — but collapsed into the spec's graph-shaped world
// (Section 3, Location) instead of a continuous hex map.
package worldgen

import (
	"fmt"
	"math"
	"sort"

	opensimplex "github.com/ojrac/opensimplex-go"

	"github.com/talgya/crossroads/internal/locations"
)

// Config controls generation size and shape.
type Config struct {
	Seed   int64
	Radius int // hex-grid radius used as the placement substrate; ring k holds 6k locations (radius 4 gives 61)
}

// DefaultConfig mirrors the teacher's DefaultGenConfig scale, trimmed down
// since each node here is a whole Location rather than a single hex tile.
func DefaultConfig() Config {
	return Config{Seed: 42, Radius: 4}
}

type axial struct{ q, r int }

func (a axial) neighbors() [6]axial {
	return [6]axial{
		{a.q + 1, a.r}, {a.q + 1, a.r - 1}, {a.q, a.r - 1},
		{a.q - 1, a.r}, {a.q - 1, a.r + 1}, {a.q, a.r + 1},
	}
}

// Generate builds a deterministic location graph from cfg. Same seed and
// radius always produce the same graph (no randomness beyond the seeded
// noise functions — no separate PRNG stream is consulted here, keeping
// world generation reproducible independent of the simulation's rng.Stream).
func Generate(cfg Config) *locations.Graph {
	elevNoise := opensimplex.NewNormalized(cfg.Seed)
	resourceNoise := opensimplex.NewNormalized(cfg.Seed + 1)
	flavorNoise := opensimplex.NewNormalized(cfg.Seed + 2)

	var coords []axial
	for q := -cfg.Radius; q <= cfg.Radius; q++ {
		for r := -cfg.Radius; r <= cfg.Radius; r++ {
			s := -q - r
			if absInt(q) > cfg.Radius || absInt(r) > cfg.Radius || absInt(s) > cfg.Radius {
				continue
			}
			coords = append(coords, axial{q, r})
		}
	}
	sort.Slice(coords, func(i, j int) bool {
		if coords[i].q != coords[j].q {
			return coords[i].q < coords[j].q
		}
		return coords[i].r < coords[j].r
	})

	g := locations.NewGraph()
	idOf := func(a axial) locations.ID {
		return locations.ID(fmt.Sprintf("loc_%d_%d", a.q, a.r))
	}

	byAxial := make(map[axial]bool, len(coords))
	for _, a := range coords {
		byAxial[a] = true
	}

	for _, a := range coords {
		x := float64(a.q) + float64(a.r)*0.5
		y := float64(a.r) * math.Sqrt(3.0) / 2.0

		elev := octave(elevNoise, x, y, 4, 0.15, 0.5)
		res := octave(resourceNoise, x, y, 3, 0.2, 0.5)
		flavor := octave(flavorNoise, x, y, 2, 0.25, 0.5)

		kind := classify(a, elev, flavor)
		loc := &locations.Location{
			ID:        idOf(a),
			Name:      locationName(a, kind),
			Kind:      kind,
			Resources: resourcesFor(kind, res),
			Flags:     flagsFor(kind, flavor),
		}
		loc.Benefits = benefitsFor(loc)
		g.Add(loc)
	}

	for _, a := range coords {
		for _, n := range a.neighbors() {
			if byAxial[n] {
				// AddEdge is idempotent; calling it from both sides of every
				// pair is harmless and keeps this loop simple.
				g.AddEdge(idOf(a), idOf(n))
			}
		}
	}

	return g
}

func absInt(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func octave(n opensimplex.Noise, x, y float64, octaves int, frequency, persistence float64) float64 {
	total, amplitude, maxValue, freq := 0.0, 1.0, 0.0, frequency
	for i := 0; i < octaves; i++ {
		total += n.Eval2(x*freq, y*freq) * amplitude
		maxValue += amplitude
		amplitude *= persistence
		freq *= 2
	}
	if maxValue == 0 {
		return 0
	}
	return total / maxValue
}

func classify(a axial, elev, flavor float64) locations.Kind {
	dist := (absInt(a.q) + absInt(a.r) + absInt(-a.q-a.r)) / 2
	switch {
	case dist == 0:
		return locations.KindHall
	case elev > 0.72:
		return locations.KindMine
	case elev < 0.32 && flavor > 0.55:
		return locations.KindHarbor
	case flavor > 0.7:
		return locations.KindForest
	case flavor < 0.3:
		return locations.KindFields
	case dist%3 == 0:
		return locations.KindCrossroads
	case dist%5 == 0:
		return locations.KindBridge
	case dist%7 == 0:
		return locations.KindWatchtower
	case dist%4 == 0:
		return locations.KindVillage
	default:
		return locations.KindNeutral
	}
}

func locationName(a axial, kind locations.Kind) string {
	return fmt.Sprintf("%s (%d,%d)", kind, a.q, a.r)
}

func resourcesFor(kind locations.Kind, res float64) locations.ResourceTable {
	base := 20.0 + res*60.0
	switch kind {
	case locations.KindFields:
		return locations.ResourceTable{"grain": base * 1.5}
	case locations.KindForest:
		return locations.ResourceTable{"timber": base, "game": base * 0.5}
	case locations.KindMine:
		return locations.ResourceTable{"iron": base, "stone": base * 0.8}
	case locations.KindHarbor:
		return locations.ResourceTable{"fish": base, "salt": base * 0.6}
	case locations.KindHall:
		return locations.ResourceTable{"grain": base * 0.3, "beer": base * 0.4}
	default:
		return locations.ResourceTable{}
	}
}

func flagsFor(kind locations.Kind, flavor float64) locations.Flags {
	return locations.Flags{
		HiddenMeetingSpot: flavor > 0.8 && kind == locations.KindForest,
		TradeRoute:        kind == locations.KindCrossroads || kind == locations.KindBridge || kind == locations.KindHarbor,
		FactionHQ:         kind == locations.KindHall,
	}
}

func benefitsFor(loc *locations.Location) locations.Benefits {
	b := locations.Benefits{}
	switch loc.Kind {
	case locations.KindVillage:
		b.Shelter, b.SocialHubRating, b.SafetyRating = 0.7, 0.6, 0.6
	case locations.KindHall:
		b.Shelter, b.SocialHubRating, b.SafetyRating = 1.0, 1.0, 0.9
	case locations.KindFields:
		b.FoodStores, b.ProductionTypes = loc.Resources["grain"], []string{"grain"}
	case locations.KindForest:
		b.ProductionTypes = []string{"timber", "game"}
	case locations.KindMine:
		b.ProductionTypes = []string{"iron", "stone"}
	case locations.KindHarbor:
		b.Water, b.FoodStores, b.ProductionTypes = 0.8, loc.Resources["fish"], []string{"fish", "salt"}
	case locations.KindWatchtower:
		b.SafetyRating = 0.8
	case locations.KindCrossroads, locations.KindBridge:
		b.SocialHubRating = 0.4
	}
	return b
}
