package director

import (
	"sort"
	"strconv"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/trust"
)

// BetrayalRecord tracks one betrayal the audience (the event stream) has
// witnessed, pending the victim's own discovery.
type BetrayalRecord struct {
	ID         string `json:"id"`
	Betrayer   string `json:"betrayer_agent_id"`
	Victim     string `json:"victim_agent_id"`
	Tick       uint64 `json:"tick"`
}

// IronyDetector holds every pending betrayal and flags dramatic irony: the
// victim still trusts the betrayer above the configured threshold even
// though the betrayal already happened. Section 4.7.
type IronyDetector struct {
	pending []BetrayalRecord
	next    int
}

// NewIronyDetector creates an empty detector.
func NewIronyDetector() *IronyDetector {
	return &IronyDetector{}
}

// Record registers a new betrayal for irony tracking.
func (d *IronyDetector) Record(betrayer, victim string, tick uint64) {
	d.next++
	d.pending = append(d.pending, BetrayalRecord{
		ID: "irony_" + strconv.Itoa(d.next), Betrayer: betrayer, Victim: victim, Tick: tick,
	})
}

// Scan evaluates every pending betrayal against the current trust store,
// returning the ones still dramatically ironic (victim unaware) this tick,
// and pruning records the victim has discovered (trust fell back below
// threshold) or that exceeded the max age.
func (d *IronyDetector) Scan(store *trust.Store, cfg config.FocusConfig, tick uint64) []BetrayalRecord {
	var ironic []BetrayalRecord
	kept := d.pending[:0]
	for _, rec := range d.pending {
		if tick > rec.Tick && tick-rec.Tick > cfg.IronyMaxAgeTicks {
			continue // aged out: too stale to still be dramatically interesting
		}
		rel, ok := store.Peek(agents.ID(rec.Victim), agents.ID(rec.Betrayer))
		stillTrusting := !ok || (rel.Reliability+rel.Alignment)/2 >= cfg.IronyTrustThreshold
		if !stillTrusting {
			continue // victim has discovered the betrayal; no longer irony
		}
		ironic = append(ironic, rec)
		kept = append(kept, rec)
	}
	d.pending = kept
	sort.Slice(ironic, func(i, j int) bool { return ironic[i].ID < ironic[j].ID })
	return ironic
}
