// Package events defines the immutable, append-only Event record and its
// JSONL log writer. Events never hold back-pointers — connections between
// events are plain string ID references resolved later against the event
// log or world store. See design doc Section 3 (Event) and Section 5
// (Event sourcing discipline).
package events

import (
	"bufio"
	"encoding/json"
	"fmt"
	"os"

	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/timekeeping"
)

// Actors names the agents involved in an event.
type Actors struct {
	Primary   string   `json:"primary"`
	Secondary string   `json:"secondary,omitempty"`
	Affected  []string `json:"affected,omitempty"`
}

// Event is an immutable record of something that happened during a tick.
type Event struct {
	ID        string               `json:"id"` // "evt_" prefix
	Timestamp timekeeping.Timestamp `json:"timestamp"`
	Type      string               `json:"event_type"`
	Subtype   string               `json:"subtype,omitempty"`
	Actors    Actors               `json:"actors"`
	Context   map[string]any       `json:"context,omitempty"`
	Outcome   string               `json:"outcome,omitempty"`

	DramaTags  []string `json:"drama_tags,omitempty"`
	DramaScore float64  `json:"drama_score"`

	ConnectedEvents []string `json:"connected_events,omitempty"`
}

// Score computes e's own drama_score field: base(event_type) × subtype
// modifier × (1 + sum of drama tag scores), clamped to [0,1]. This mirrors
// the weights the Director applies but deliberately omits the Director's
// tracked-agent and tension-reference boosts, which depend on state only
// the Director keeps.
func Score(e Event, cfg config.EventWeights) float64 {
	score := cfg.ScoreForEventType(e.Type)
	if mod, ok := cfg.SubtypeModifiers[e.Type+"."+e.Subtype]; ok {
		score *= mod
	}
	tagSum := 0.0
	for _, tag := range e.DramaTags {
		tagSum += cfg.DramaTagScores[tag]
	}
	score *= 1 + tagSum
	switch {
	case score < 0:
		return 0
	case score > 1:
		return 1
	default:
		return score
	}
}

// Counter issues monotonic, deterministic event IDs. One Counter lives per
// simulation run.
type Counter struct {
	next uint64
}

// NewCounter creates a counter starting at evt_0000000001.
func NewCounter() *Counter {
	return &Counter{next: 1}
}

// Next returns the next event ID and advances the counter.
func (c *Counter) Next() string {
	id := fmt.Sprintf("evt_%010d", c.next)
	c.next++
	return id
}

// Log is an append-only JSONL event writer. Events are written as they
// occur within a tick — never buffered across tick boundaries, never
// rewritten.
type Log struct {
	f *os.File
	w *bufio.Writer
}

// OpenLog opens (creating if needed, always appending) the event log at
// path.
func OpenLog(path string) (*Log, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open event log: %w", err)
	}
	return &Log{f: f, w: bufio.NewWriter(f)}, nil
}

// Append writes one event as a JSON line and flushes immediately — the log
// is the durability boundary for the simulation's history, so a crash
// mid-tick loses at most the events not yet appended, never a torn line.
func (l *Log) Append(e Event) error {
	b, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal event %s: %w", e.ID, err)
	}
	if _, err := l.w.Write(b); err != nil {
		return fmt.Errorf("write event %s: %w", e.ID, err)
	}
	if err := l.w.WriteByte('\n'); err != nil {
		return err
	}
	return l.w.Flush()
}

// Close flushes and closes the underlying file.
func (l *Log) Close() error {
	if err := l.w.Flush(); err != nil {
		return err
	}
	return l.f.Close()
}
