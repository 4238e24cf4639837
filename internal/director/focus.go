package director

import (
	"sort"

	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/tension"
)

// SelectFocus picks which tension (if any) the camera should be pointed at
// this tick, preferring the highest-severity active, non-fatigued thread;
// falling back to an overview when nothing clears the minimum severity bar
// or every eligible thread is fatigued. Section 4.7's focus selector.
func SelectFocus(tensions []*tension.Tension, tracker *ThreadTracker, cfg config.FocusConfig) string {
	type candidate struct {
		tensionID string
		severity  float64
	}
	var candidates []candidate
	for _, t := range tensions {
		if t.Severity < cfg.MinTensionSeverity {
			continue
		}
		th, ok := tracker.byTension[t.ID]
		if ok && (th.Status == ThreadFatigued || th.Status == ThreadDormant || th.Status == ThreadConcluded) {
			continue
		}
		candidates = append(candidates, candidate{t.ID, t.Severity})
	}
	if len(candidates) == 0 {
		return "overview"
	}
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].severity != candidates[j].severity {
			return candidates[i].severity > candidates[j].severity
		}
		return candidates[i].tensionID < candidates[j].tensionID
	})
	return candidates[0].tensionID
}
