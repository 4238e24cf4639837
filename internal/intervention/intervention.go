// Package intervention polls a directory for external intervention files at
// the start of each tick, validates them against the fixed set of
// intervention types, applies well-formed ones, and quarantines malformed
// ones. Deliberately does not watch the filesystem continuously — spec.md's
// Non-goals put "file-watching glue" out of scope, and the spec's own wire
// contract (Section 4.6) is poll-at-tick-boundary, lexicographic order.
// See design doc Section 4.6.
package intervention

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Kind enumerates the nine intervention types the simulation accepts.
type Kind string

const (
	ModifyAgent      Kind = "modify_agent"
	ModifyRelationship Kind = "modify_relationship"
	MoveAgent        Kind = "move_agent"
	ChangeFaction    Kind = "change_faction"
	AddGoal          Kind = "add_goal"
	ModifyFaction    Kind = "modify_faction"
	SpawnAgent       Kind = "spawn_agent"
	KillAgent        Kind = "kill_agent"
	TriggerEvent     Kind = "trigger_event"
)

var validKinds = map[Kind]bool{
	ModifyAgent: true, ModifyRelationship: true, MoveAgent: true,
	ChangeFaction: true, AddGoal: true, ModifyFaction: true,
	SpawnAgent: true, KillAgent: true, TriggerEvent: true,
}

// Intervention is one parsed intervention file's contents. The wire format
// (Section 4.6/6) nests the type-specific payload under an "intervention"
// object alongside a required tracking id and an optional human reason:
//
//	{"id": "iv_001", "reason": "narrative nudge", "intervention": {"type": "kill_agent", "agent_id": "agent_x"}}
//
// Kind/Params hold the unpacked "intervention" object's "type" field and its
// remaining keys; they are not serialized directly (see UnmarshalJSON).
type Intervention struct {
	ID     string
	Reason string
	Kind   Kind
	Params map[string]any

	sourceFile string
}

// wireIntervention mirrors the on-disk JSON shape before the "intervention"
// object is unpacked into Kind/Params.
type wireIntervention struct {
	ID           string          `json:"id"`
	Reason       string          `json:"reason"`
	Intervention json.RawMessage `json:"intervention"`
}

func (iv *Intervention) UnmarshalJSON(data []byte) error {
	var raw wireIntervention
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if len(raw.Intervention) == 0 {
		return fmt.Errorf("missing required field %q", "intervention")
	}
	var body map[string]any
	if err := json.Unmarshal(raw.Intervention, &body); err != nil {
		return fmt.Errorf("invalid \"intervention\" object: %w", err)
	}
	typ, _ := body["type"].(string)
	delete(body, "type")

	iv.ID = raw.ID
	iv.Reason = raw.Reason
	iv.Kind = Kind(typ)
	iv.Params = body
	return nil
}

// Poll reads every file in dir in lexicographic order, validating each
// against the schema. Well-formed interventions are returned in file-name
// order; malformed ones are moved to dir/rejected/ and not returned.
// Processed files (both accepted and rejected) are removed from dir itself.
func Poll(dir string) ([]Intervention, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read intervention dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() || filepath.Ext(e.Name()) != ".json" {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	var out []Intervention
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		iv, err := parse(data)
		if err != nil {
			if rejectErr := reject(dir, name, data); rejectErr != nil {
				return out, fmt.Errorf("quarantine malformed intervention %s: %w", name, rejectErr)
			}
			os.Remove(path)
			continue
		}
		iv.sourceFile = name
		out = append(out, iv)
		os.Remove(path)
	}
	return out, nil
}

func parse(data []byte) (Intervention, error) {
	var iv Intervention
	if err := json.Unmarshal(data, &iv); err != nil {
		return Intervention{}, fmt.Errorf("invalid json: %w", err)
	}
	if iv.ID == "" {
		return Intervention{}, fmt.Errorf("missing required field %q", "id")
	}
	if !validKinds[iv.Kind] {
		return Intervention{}, fmt.Errorf("unknown intervention kind %q", iv.Kind)
	}
	if err := validateParams(iv); err != nil {
		return Intervention{}, err
	}
	return iv, nil
}

// requiredParams names the params every intervention kind must carry.
var requiredParams = map[Kind][]string{
	ModifyAgent:        {"agent_id"},
	ModifyRelationship: {"source_agent_id", "target_agent_id"},
	MoveAgent:          {"agent_id", "location_id"},
	ChangeFaction:      {"agent_id", "faction_id"},
	AddGoal:            {"agent_id", "kind"},
	ModifyFaction:      {"faction_id"},
	SpawnAgent:         {"agent_id", "faction_id", "location_id"},
	KillAgent:          {"agent_id"},
	TriggerEvent:       {"event_type"},
}

func validateParams(iv Intervention) error {
	for _, key := range requiredParams[iv.Kind] {
		if _, ok := iv.Params[key]; !ok {
			return fmt.Errorf("intervention %s missing required param %q", iv.Kind, key)
		}
	}
	return nil
}

// reject writes the malformed file's original bytes into dir/rejected/,
// preserving its name so an operator can inspect what went wrong.
func reject(dir, name string, data []byte) error {
	rejectedDir := filepath.Join(dir, "rejected")
	if err := os.MkdirAll(rejectedDir, 0o755); err != nil {
		return err
	}
	return os.WriteFile(filepath.Join(rejectedDir, name), data, 0o644)
}
