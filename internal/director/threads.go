package director

import "sort"

// ThreadStatus is a narrative thread's lifecycle stage.
type ThreadStatus string

const (
	ThreadEmerging  ThreadStatus = "emerging"
	ThreadActive    ThreadStatus = "active"
	ThreadFatigued  ThreadStatus = "fatigued"
	ThreadDormant   ThreadStatus = "dormant"
	ThreadConcluded ThreadStatus = "concluded"
)

// Thread tracks one ongoing narrative arc, usually anchored to a tension.
type Thread struct {
	ID             string       `json:"id"`
	TensionID      string       `json:"tension_id"`
	Status         ThreadStatus `json:"status"`
	Participants   []string     `json:"participants"`
	EventIDs       []string     `json:"event_ids,omitempty"`
	FirstSeenTick  uint64       `json:"first_seen_tick"`
	LastUpdateTick uint64       `json:"last_update_tick"`
}

// ThreadSummary is the trimmed view of a Thread exposed in CommentaryOutput.
type ThreadSummary struct {
	ID     string       `json:"id"`
	Status ThreadStatus `json:"status"`
}

// ThreadTracker owns every narrative thread, keyed by the tension it
// anchors to.
type ThreadTracker struct {
	byTension map[string]*Thread
	order     []string
}

// NewThreadTracker creates an empty tracker.
func NewThreadTracker() *ThreadTracker {
	return &ThreadTracker{byTension: make(map[string]*Thread)}
}

// Observe registers activity on tensionID at tick, creating a thread if
// none exists, advancing its status otherwise.
func (tt *ThreadTracker) Observe(tensionID string, participants []string, eventID string, tick uint64) *Thread {
	th, ok := tt.byTension[tensionID]
	if !ok {
		th = &Thread{
			ID:            "thread_" + tensionID,
			TensionID:     tensionID,
			Status:        ThreadEmerging,
			FirstSeenTick: tick,
		}
		tt.byTension[tensionID] = th
		tt.order = append(tt.order, tensionID)
	}
	if th.Status == ThreadDormant || th.Status == ThreadFatigued {
		th.Status = ThreadActive
	} else if th.Status == ThreadEmerging {
		th.Status = ThreadActive
	}
	th.Participants = mergeUnique(th.Participants, participants)
	if eventID != "" {
		th.EventIDs = append(th.EventIDs, eventID)
	}
	th.LastUpdateTick = tick
	return th
}

// Age marks threads that have gone quiet as fatigued or dormant, and
// concludes threads whose tension has fully resolved. Called once per
// Director pass, before focus selection. fatigueThreshold and
// dormancyThreshold are ticks-since-last-update cutoffs (Section 4.7).
func (tt *ThreadTracker) Age(tick uint64, fatigueThreshold, dormancyThreshold uint64, resolved map[string]bool) {
	for _, tensionID := range tt.order {
		th := tt.byTension[tensionID]
		if th.Status == ThreadConcluded {
			continue
		}
		if resolved[tensionID] {
			th.Status = ThreadConcluded
			continue
		}
		since := tick - th.LastUpdateTick
		switch {
		case since >= dormancyThreshold:
			th.Status = ThreadDormant
		case since >= fatigueThreshold:
			th.Status = ThreadFatigued
		}
	}
}

// Active returns every non-concluded, non-dormant thread in canonical order.
func (tt *ThreadTracker) Active() []*Thread {
	ids := make([]string, len(tt.order))
	copy(ids, tt.order)
	sort.Strings(ids)
	var out []*Thread
	for _, id := range ids {
		th := tt.byTension[id]
		if th.Status != ThreadConcluded && th.Status != ThreadDormant {
			out = append(out, th)
		}
	}
	return out
}

func mergeUnique(existing, add []string) []string {
	seen := make(map[string]bool, len(existing))
	for _, p := range existing {
		seen[p] = true
	}
	out := existing
	for _, p := range add {
		if !seen[p] {
			seen[p] = true
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
