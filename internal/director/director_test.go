package director

import (
	"testing"

	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/events"
	"github.com/talgya/crossroads/internal/tension"
)

func TestScoreBaseAndSubtypeModifier(t *testing.T) {
	cfg := config.EventWeights{
		BaseScores:       map[string]float64{"conflict": 0.5},
		SubtypeModifiers: map[string]float64{"conflict.confrontation": 2.0},
		DramaTagScores:   map[string]float64{},
	}
	e := events.Event{Type: "conflict", Subtype: "confrontation"}
	got := Score(e, cfg, nil, false)
	if got != 1.0 {
		t.Fatalf("expected base*subtype = 1.0, got %v", got)
	}
}

func TestScoreTrackedAgentBoost(t *testing.T) {
	cfg := config.EventWeights{BaseScores: map[string]float64{"cooperation": 1.0}}
	e := events.Event{Type: "cooperation", Actors: events.Actors{Primary: "agent_a"}}

	untracked := Score(e, cfg, map[string]bool{}, false)
	tracked := Score(e, cfg, map[string]bool{"agent_a": true}, false)
	if tracked != untracked*1.5 {
		t.Fatalf("expected a 1.5x tracked-agent boost, got %v vs %v", tracked, untracked)
	}
}

func TestScoreTensionReferencedBoost(t *testing.T) {
	cfg := config.EventWeights{BaseScores: map[string]float64{"cooperation": 1.0}}
	e := events.Event{Type: "cooperation"}
	plain := Score(e, cfg, nil, false)
	boosted := Score(e, cfg, nil, true)
	if boosted != plain*2.0 {
		t.Fatalf("expected a 2x tension-referenced boost, got %v vs %v", boosted, plain)
	}
}

func TestCameraModeForTracksKeyAgentCount(t *testing.T) {
	cases := []struct {
		agents int
		want   CameraMode
	}{
		{0, CameraFrameLocation},
		{1, CameraFollow},
		{2, CameraTwoShot},
		{3, CameraFrameMultiple},
	}
	for _, c := range cases {
		tn := &tension.Tension{}
		for i := 0; i < c.agents; i++ {
			tn.KeyAgents = append(tn.KeyAgents, tension.KeyAgent{AgentID: "agent_x"})
		}
		if got := CameraModeFor(tn); got != c.want {
			t.Fatalf("%d key agents: expected mode %v, got %v", c.agents, c.want, got)
		}
	}
	if got := CameraModeFor(nil); got != CameraFrameLocation {
		t.Fatalf("expected a nil tension to frame the location, got %v", got)
	}
}

func TestPacingForSeverityBands(t *testing.T) {
	cases := []struct {
		severity float64
		want     Pacing
	}{
		{0.1, PacingSlow},
		{0.5, PacingNormal},
		{0.75, PacingUrgent},
		{0.9, PacingClimactic},
	}
	for _, c := range cases {
		if got := PacingFor(c.severity); got != c.want {
			t.Fatalf("severity %v: expected pacing %v, got %v", c.severity, c.want, got)
		}
	}
}

func TestBuildCameraScriptCarriesKeyAgentsAndLocation(t *testing.T) {
	tn := &tension.Tension{
		KeyAgents:    []tension.KeyAgent{{AgentID: "agent_a"}, {AgentID: "agent_b"}},
		KeyLocations: []string{"loc_hall"},
	}
	cs := BuildCameraScript(42, "tens_0000000001", tn)
	if cs.Tick != 42 || cs.Focus != "tens_0000000001" || cs.Mode != CameraTwoShot {
		t.Fatalf("unexpected camera script header: %+v", cs)
	}
	if len(cs.Agents) != 2 || cs.Agents[0] != "agent_a" || cs.Location != "loc_hall" {
		t.Fatalf("expected both key agents and the first key location, got %+v", cs)
	}
}

func TestHighlightsFiltersFlaggedLines(t *testing.T) {
	lines := []CommentaryLine{
		{Text: "ordinary", Highlight: false},
		{Text: "big moment", Highlight: true},
	}
	got := Highlights(lines)
	if len(got) != 1 || got[0].Text != "big moment" {
		t.Fatalf("expected only the flagged line, got %+v", got)
	}
}

func TestScoreDramaTagsAddAdditively(t *testing.T) {
	cfg := config.EventWeights{
		BaseScores:     map[string]float64{"communication": 1.0},
		DramaTagScores: map[string]float64{"deception": 0.5, "gossip": 0.2},
	}
	e := events.Event{Type: "communication", DramaTags: []string{"deception", "gossip"}}
	got := Score(e, cfg, nil, false)
	if want := 1.0 * (1 + 0.5 + 0.2); got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
