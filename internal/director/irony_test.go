package director

import (
	"testing"

	"github.com/talgya/crossroads/internal/agents"
	"github.com/talgya/crossroads/internal/config"
	"github.com/talgya/crossroads/internal/trust"
)

func TestRecordAndScanReturnsIronicRecord(t *testing.T) {
	d := NewIronyDetector()
	d.Record("agent_betrayer", "agent_victim", 10)

	store := trust.NewStore()
	cfg := config.FocusConfig{IronyTrustThreshold: 0.5, IronyMaxAgeTicks: 1000}
	ironic := d.Scan(store, cfg, 20)
	if len(ironic) != 1 {
		t.Fatalf("expected 1 ironic record for an unaware victim, got %d", len(ironic))
	}
	if ironic[0].Betrayer != "agent_betrayer" || ironic[0].Victim != "agent_victim" {
		t.Fatalf("unexpected record contents: %+v", ironic[0])
	}
}

func TestScanPrunesDiscoveredBetrayal(t *testing.T) {
	d := NewIronyDetector()
	d.Record("agent_betrayer", "agent_victim", 10)

	store := trust.NewStore()
	rel := store.Get(agents.ID("agent_victim"), agents.ID("agent_betrayer"))
	rel.Reliability, rel.Alignment = -0.9, -0.9

	cfg := config.FocusConfig{IronyTrustThreshold: 0.5, IronyMaxAgeTicks: 1000}
	ironic := d.Scan(store, cfg, 20)
	if len(ironic) != 0 {
		t.Fatalf("expected the record pruned once the victim's trust has collapsed, got %+v", ironic)
	}

	again := d.Scan(store, cfg, 21)
	if len(again) != 0 {
		t.Fatalf("expected a pruned record to stay gone on a later scan, got %+v", again)
	}
}

func TestScanPrunesAgedOutRecord(t *testing.T) {
	d := NewIronyDetector()
	d.Record("agent_betrayer", "agent_victim", 10)

	store := trust.NewStore()
	cfg := config.FocusConfig{IronyTrustThreshold: 0.5, IronyMaxAgeTicks: 5}
	ironic := d.Scan(store, cfg, 9999)
	if len(ironic) != 0 {
		t.Fatalf("expected the aged-out record pruned, got %+v", ironic)
	}
}

func TestScanOrdersRecordsByID(t *testing.T) {
	d := NewIronyDetector()
	d.Record("agent_b1", "agent_v1", 1)
	d.Record("agent_b2", "agent_v2", 2)
	d.Record("agent_b3", "agent_v3", 3)

	store := trust.NewStore()
	cfg := config.FocusConfig{IronyTrustThreshold: 0.5, IronyMaxAgeTicks: 1000}
	ironic := d.Scan(store, cfg, 5)
	for i := 1; i < len(ironic); i++ {
		if ironic[i-1].ID >= ironic[i].ID {
			t.Fatalf("expected ascending ID order, got %+v", ironic)
		}
	}
}
