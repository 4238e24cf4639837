// Package director consumes a running simulation's event stream and
// tensions and produces camera focus recommendations and commentary — a
// separate process from the simulation core, reading its output/ directory
// rather than sharing memory with it. See design doc Section 3 (Director)
// and Section 4.7 (Director scoring, focus selection, irony, commentary).
package director

import (
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/tension"
)

// Score computes an event's dramatic weight: base(event_type) ×
// subtype_modifier × (1 + sum of drama tag scores), further boosted 1.5x if
// either actor is a tracked agent and 2.0x if the event is referenced by an
// active tension. Section 4.7's exact formula.
func Score(e events.Event, cfg config.EventWeights, trackedAgents map[string]bool, tensionReferenced bool) float64 {
	score := cfg.ScoreForEventType(e.Type)

	if mod, ok := cfg.SubtypeModifiers[e.Type+"."+e.Subtype]; ok {
		score *= mod
	}

	tagSum := 0.0
	for _, tag := range e.DramaTags {
		tagSum += cfg.DramaTagScores[tag]
	}
	score *= 1 + tagSum

	if trackedAgents[e.Actors.Primary] || trackedAgents[e.Actors.Secondary] {
		score *= 1.5
	}
	if tensionReferenced {
		score *= 2.0
	}
	return score
}

// ScoredEvent pairs an event with its computed drama score.
type ScoredEvent struct {
	Event events.Event
	Score float64
}

// CommentaryLine is one queued piece of generated commentary.
type CommentaryLine struct {
	Tick     uint64 `json:"tick"`
	Text     string `json:"text"`
	EventID  string `json:"event_id,omitempty"`
	Highlight bool  `json:"highlight"`
}

// CameraMode is the shot framing the Director recommends for the focused
// tension, derived from how many agents that tension names (Section 4.7).
type CameraMode string

const (
	CameraFollow        CameraMode = "follow"         // one key agent
	CameraTwoShot        CameraMode = "two_shot"       // exactly two key agents
	CameraFrameMultiple  CameraMode = "frame_multiple" // three or more key agents
	CameraFrameLocation  CameraMode = "frame_location" // no key agents; frame the location instead
)

// CameraModeFor derives the camera mode from the focused tension's key-agent
// count. A nil tension (the "overview" focus) frames a location.
func CameraModeFor(t *tension.Tension) CameraMode {
	if t == nil {
		return CameraFrameLocation
	}
	switch len(t.KeyAgents) {
	case 0:
		return CameraFrameLocation
	case 1:
		return CameraFollow
	case 2:
		return CameraTwoShot
	default:
		return CameraFrameMultiple
	}
}

// Pacing is the commentary delivery speed the Director recommends,
// derived from the focused tension's severity (Section 4.7/4.8).
type Pacing string

const (
	PacingSlow      Pacing = "slow"
	PacingNormal    Pacing = "normal"
	PacingUrgent    Pacing = "urgent"
	PacingClimactic Pacing = "climactic"
)

// PacingFor maps a severity in [0,1] onto a pacing band.
func PacingFor(severity float64) Pacing {
	switch {
	case severity >= 0.85:
		return PacingClimactic
	case severity >= 0.7:
		return PacingUrgent
	case severity >= 0.4:
		return PacingNormal
	default:
		return PacingSlow
	}
}

// CameraScript is the Director's camera_script.json product: what to frame
// and how.
type CameraScript struct {
	Tick     uint64     `json:"tick"`
	Focus    string     `json:"recommended_focus,omitempty"`
	Mode     CameraMode `json:"camera_mode"`
	Agents   []string   `json:"framed_agents,omitempty"`
	Location string     `json:"framed_location,omitempty"`
}

// BuildCameraScript assembles the camera script for the focused tension
// (nil when focus is "overview" or no tension cleared the severity bar).
func BuildCameraScript(tick uint64, focusID string, t *tension.Tension) CameraScript {
	cs := CameraScript{Tick: tick, Focus: focusID, Mode: CameraModeFor(t)}
	if t == nil {
		return cs
	}
	for _, ka := range t.KeyAgents {
		cs.Agents = append(cs.Agents, ka.AgentID)
	}
	if len(t.KeyLocations) > 0 {
		cs.Location = t.KeyLocations[0]
	}
	return cs
}

// CommentaryOutput is the Director's commentary.json product.
type CommentaryOutput struct {
	Tick          uint64           `json:"tick"`
	Pacing        Pacing           `json:"pacing"`
	ActiveThreads []ThreadSummary  `json:"active_threads,omitempty"`
	Commentary    []CommentaryLine `json:"commentary,omitempty"`
}

// HighlightsOutput is the Director's highlights.json product: the subset of
// queued commentary flagged as a highlight-reel moment.
type HighlightsOutput struct {
	Tick       uint64           `json:"tick"`
	Highlights []CommentaryLine `json:"highlights,omitempty"`
}

// Highlights filters lines down to those flagged Highlight.
func Highlights(lines []CommentaryLine) []CommentaryLine {
	var out []CommentaryLine
	for _, l := range lines {
		if l.Highlight {
			out = append(out, l)
		}
	}
	return out
}
