package config

import (
	"log/slog"
	"os"

	"github.com/BurntSushi/toml"
)

// DirectorConfig holds the Director's event-weight, focus, and commentary
// tuning, loaded from director.toml. See design doc Section 6 and Section 4.7.
type DirectorConfig struct {
	EventWeights EventWeights  `toml:"event_weights"`
	Focus        FocusConfig   `toml:"focus"`
	Commentary   CommentaryCfg `toml:"commentary"`
}

type EventWeights struct {
	BaseScores       map[string]float64 `toml:"base_scores"`
	SubtypeModifiers map[string]float64 `toml:"subtype_modifiers"`
	DramaTagScores   map[string]float64 `toml:"drama_tag_scores"`
}

type FocusConfig struct {
	MinTensionSeverity        float64 `toml:"min_tension_severity"`
	MaxConcurrentThreads      int     `toml:"max_concurrent_threads"`
	ThreadFatigueThresholdTicks uint64 `toml:"thread_fatigue_threshold_ticks"`
	ThreadDormancyTicks       uint64  `toml:"thread_dormancy_ticks"`
	IronyTrustThreshold       float64 `toml:"irony_trust_threshold"`
	IronyMaxAgeTicks          uint64  `toml:"irony_max_age_ticks"`
}

type CommentaryCfg struct {
	MaxQueueSize        int     `toml:"max_queue_size"`
	MinDramaForCaption  float64 `toml:"min_drama_for_caption"`
	CaptionDurationTicks uint64 `toml:"caption_duration_ticks"`
	HighlightThreshold  float64 `toml:"highlight_threshold"`
}

// DefaultDirectorConfig returns the built-in defaults from spec.md Section 4.7.
func DefaultDirectorConfig() DirectorConfig {
	return DirectorConfig{
		EventWeights: EventWeights{
			BaseScores: map[string]float64{
				"betrayal":      0.9,
				"death":         0.85,
				"conflict":      0.7,
				"faction":       0.6,
				"ritual":        0.5,
				"cooperation":   0.4,
				"communication": 0.3,
				"resource":      0.25,
				"movement":      0.1,
				"loyalty":       0.45,
				"archive":       0.35,
				"learning":      0.3,
				"cultural_conflict": 0.55,
				"birth":         0.3,
			},
			SubtypeModifiers: map[string]float64{},
			DramaTagScores:   map[string]float64{},
		},
		Focus: FocusConfig{
			MinTensionSeverity:          0.2,
			MaxConcurrentThreads:        5,
			ThreadFatigueThresholdTicks: 3000,
			ThreadDormancyTicks:         2000,
			IronyTrustThreshold:         0.5,
			IronyMaxAgeTicks:            20000,
		},
		Commentary: CommentaryCfg{
			MaxQueueSize:         50,
			MinDramaForCaption:   0.3,
			CaptionDurationTicks: 300,
			HighlightThreshold:   0.75,
		},
	}
}

// LoadDirectorConfig reads director.toml, falling back to defaults on a
// missing or malformed file.
func LoadDirectorConfig(path string) DirectorConfig {
	cfg := DefaultDirectorConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.Warn("director config unreadable, using defaults", "path", path, "error", err)
		}
		return cfg
	}
	if _, err := toml.Decode(string(data), &cfg); err != nil {
		slog.Warn("director config malformed, using defaults", "path", path, "error", err)
		return DefaultDirectorConfig()
	}
	return cfg
}

// ScoreForEventType returns the base score for an event type, defaulting to
// 0.1 on a lookup miss per Section 7's "Director scoring" error kind.
func (c EventWeights) ScoreForEventType(eventType string) float64 {
	if v, ok := c.BaseScores[eventType]; ok {
		return v
	}
	return 0.1
}
