package director

import (
	"log/slog"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/events"
)

// Templates holds commentary line templates keyed by "<event_type>.<subtype>"
// (subtype may be empty), plus a generic fallback and an irony-specific one.
// Loaded from a TOML file such as commentary.toml; see design doc Section 6.
type Templates struct {
	ByKey   map[string]string `toml:"by_key"`
	Default string            `toml:"default"`
	Irony   string            `toml:"irony"`
}

// DefaultTemplates returns built-in commentary templates used when no
// commentary.toml is present.
func DefaultTemplates() Templates {
	return Templates{
		ByKey: map[string]string{
			"betrayal":            "{primary_name} turns on {secondary_name}.",
			"conflict.confrontation": "{primary_name} confronts {secondary_name} at last.",
			"cooperation":         "{primary_name} and {secondary_name} find common ground.",
			"communication.lie":   "{primary_name} tells {secondary_name} something that isn't true.",
			"communication.spread_rumor": "word spreads from {primary_name} to {secondary_name}.",
			"communication.confess": "{primary_name} confesses to {secondary_name}.",
			"archive.forge":       "the record is quietly rewritten.",
			"archive.destroy":     "a piece of the archive is destroyed.",
			"ritual":              "the faction gathers for its ritual.",
			"movement.travel":     "{primary_name} sets out for {to}.",
		},
		Default: "something happens involving {primary_name}.",
		Irony:   "{victim_name} still trusts {betrayer_name}, not knowing what was done.",
	}
}

// LoadTemplates reads a commentary TOML file, falling back to defaults on a
// missing or malformed file, exactly like config.LoadTuning.
func LoadTemplates(path string) Templates {
	t := DefaultTemplates()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("commentary templates unreadable, using defaults", "path", path, "error", err)
		}
		return t
	}
	if _, err := toml.Decode(string(data), &t); err != nil {
		slog.Warn("commentary templates malformed, using defaults", "path", path, "error", err)
		return DefaultTemplates()
	}
	return t
}

// nameOf resolves an agent ID to its display name, falling back to "someone"
// for a missing optional actor (empty secondary, unknown ID).
func nameOf(idx *agents.Index, id string) string {
	if id == "" {
		return "someone"
	}
	if a := idx.Get(agents.ID(id)); a != nil {
		return a.Name
	}
	return "someone"
}

// render substitutes template placeholders from e's actors and context.
func render(tmpl string, e events.Event, idx *agents.Index) string {
	out := tmpl
	out = strings.ReplaceAll(out, "{primary_name}", nameOf(idx, e.Actors.Primary))
	out = strings.ReplaceAll(out, "{secondary_name}", nameOf(idx, e.Actors.Secondary))
	for k, v := range e.Context {
		if s, ok := v.(string); ok {
			out = strings.ReplaceAll(out, "{"+k+"}", s)
		}
	}
	return out
}

// Comment produces a commentary line for a scored event; ok is false (and
// the line empty) if the event falls below the minimum drama threshold for
// captioning.
func Comment(se ScoredEvent, tmpl Templates, idx *agents.Index, cfg config.CommentaryCfg) (CommentaryLine, bool) {
	if se.Score < cfg.MinDramaForCaption {
		return CommentaryLine{}, false
	}
	key := se.Event.Type
	if se.Event.Subtype != "" {
		if t, ok := tmpl.ByKey[se.Event.Type+"."+se.Event.Subtype]; ok {
			return CommentaryLine{
				Tick: se.Event.Timestamp.Tick, Text: render(t, se.Event, idx),
				EventID: se.Event.ID, Highlight: se.Score >= cfg.HighlightThreshold,
			}, true
		}
	}
	t, ok := tmpl.ByKey[key]
	if !ok {
		t = tmpl.Default
	}
	return CommentaryLine{
		Tick: se.Event.Timestamp.Tick, Text: render(t, se.Event, idx),
		EventID: se.Event.ID, Highlight: se.Score >= cfg.HighlightThreshold,
	}, true
}

// IronyComment renders the irony template for a pending betrayal record.
func IronyComment(rec BetrayalRecord, tmpl Templates, idx *agents.Index, tick uint64) CommentaryLine {
	text := strings.ReplaceAll(tmpl.Irony, "{victim_name}", nameOf(idx, rec.Victim))
	text = strings.ReplaceAll(text, "{betrayer_name}", nameOf(idx, rec.Betrayer))
	return CommentaryLine{Tick: tick, Text: text, Highlight: true}
}

// Queue is a bounded FIFO of commentary lines, oldest dropped first once
// MaxQueueSize is exceeded (Section 4.7).
type Queue struct {
	lines []CommentaryLine
	max   int
}

// NewQueue creates a bounded commentary queue.
func NewQueue(max int) *Queue {
	return &Queue{max: max}
}

// Push appends a line, dropping the oldest if the queue is full.
func (q *Queue) Push(line CommentaryLine) {
	q.lines = append(q.lines, line)
	if len(q.lines) > q.max {
		q.lines = q.lines[len(q.lines)-q.max:]
	}
}

// Lines returns the queue's current contents, oldest first.
func (q *Queue) Lines() []CommentaryLine {
	return q.lines
}
