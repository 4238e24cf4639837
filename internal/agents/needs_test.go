package agents

import (
	"testing"

	"github.com/talgya/crossroads/internal/config"
)

func TestFoodSecurityHysteresis(t *testing.T) {
	cfg := config.DefaultTuning().Resource
	a := &Agent{Role: RoleLaborer, Needs: Needs{FoodSecurity: FoodSecure}}

	UpdateFoodSecurity(a, 4.0, cfg) // between lower and upper: stays secure
	if a.Needs.FoodSecurity != FoodSecure {
		t.Fatalf("expected to remain secure inside the hysteresis band, got %s", a.Needs.FoodSecurity)
	}

	UpdateFoodSecurity(a, 3.0, cfg) // below secure_lower_ratio
	if a.Needs.FoodSecurity != FoodStressed {
		t.Fatalf("expected to drop to stressed below the lower ratio, got %s", a.Needs.FoodSecurity)
	}

	UpdateFoodSecurity(a, 4.0, cfg) // stressed stays stressed unless above upper
	if a.Needs.FoodSecurity != FoodStressed {
		t.Fatalf("expected to remain stressed without crossing secure_upper_ratio, got %s", a.Needs.FoodSecurity)
	}

	UpdateFoodSecurity(a, 6.0, cfg) // above secure_upper_ratio
	if a.Needs.FoodSecurity != FoodSecure {
		t.Fatalf("expected to recover to secure above the upper ratio, got %s", a.Needs.FoodSecurity)
	}
}

func TestFoodSecurityDropsToDesperate(t *testing.T) {
	cfg := config.DefaultTuning().Resource
	a := &Agent{Role: RoleLaborer, Needs: Needs{FoodSecurity: FoodStressed}}

	UpdateFoodSecurity(a, 0.2, cfg) // below desperate_lower_ratio
	if a.Needs.FoodSecurity != FoodDesperate {
		t.Fatalf("expected to drop to desperate, got %s", a.Needs.FoodSecurity)
	}

	UpdateFoodSecurity(a, 0.7, cfg) // between desperate bounds: stays desperate
	if a.Needs.FoodSecurity != FoodDesperate {
		t.Fatalf("expected to remain desperate inside the hysteresis band, got %s", a.Needs.FoodSecurity)
	}
}

func TestRoleFoodModifierAffectsRatio(t *testing.T) {
	cfg := config.DefaultTuning().Resource
	leader := &Agent{Role: RoleLeader, Needs: Needs{FoodSecurity: FoodStressed}}
	newcomer := &Agent{Role: RoleNewcomer, Needs: Needs{FoodSecurity: FoodStressed}}

	// A per-member ratio that clears the secure threshold only once scaled
	// up by the leader's modifier.
	const ratio = 3.6
	UpdateFoodSecurity(leader, ratio, cfg)
	UpdateFoodSecurity(newcomer, ratio, cfg)

	if leader.Needs.FoodSecurity != FoodSecure {
		t.Fatalf("expected leader's modifier to push it to secure, got %s", leader.Needs.FoodSecurity)
	}
	if newcomer.Needs.FoodSecurity != FoodStressed {
		t.Fatalf("expected newcomer's modifier to keep it stressed, got %s", newcomer.Needs.FoodSecurity)
	}
}

func TestSocialBelongingHysteresis(t *testing.T) {
	a := &Agent{Needs: Needs{SocialBelonging: SocialPeripheral}}

	UpdateSocialBelonging(a, SocialBelongingInput{TrustFromFactionAvg: 1.5})
	if a.Needs.SocialBelonging != SocialIntegrated {
		t.Fatalf("expected high trust input to integrate, got %s", a.Needs.SocialBelonging)
	}

	UpdateSocialBelonging(a, SocialBelongingInput{TrustFromFactionAvg: 1.1})
	if a.Needs.SocialBelonging != SocialIntegrated {
		t.Fatalf("expected to remain integrated inside the hysteresis band, got %s", a.Needs.SocialBelonging)
	}

	// A single tick only steps one level down, never straight to isolated.
	UpdateSocialBelonging(a, SocialBelongingInput{})
	if a.Needs.SocialBelonging != SocialPeripheral {
		t.Fatalf("expected a zero score to step down to peripheral first, got %s", a.Needs.SocialBelonging)
	}

	UpdateSocialBelonging(a, SocialBelongingInput{})
	if a.Needs.SocialBelonging != SocialIsolated {
		t.Fatalf("expected a second zero-score tick to reach isolated, got %s", a.Needs.SocialBelonging)
	}
}

func TestRitualAttendanceRate(t *testing.T) {
	a := &Agent{}
	for i := 0; i < 10; i++ {
		agents := i%3 != 0
		RecordRitualAttendance(a, agents, 5)
	}
	if len(a.RitualAttendance) != 5 {
		t.Fatalf("expected window capped at 5, got %d", len(a.RitualAttendance))
	}
	rate := RitualAttendanceRate(a)
	if rate < 0 || rate > 1 {
		t.Fatalf("rate out of range: %v", rate)
	}
}

func TestAddGoalDedupsByKindAndTarget(t *testing.T) {
	a := &Agent{}
	a.AddGoal(Goal{Kind: "revenge", Target: "agent_x", Priority: 0.5})
	a.AddGoal(Goal{Kind: "revenge", Target: "agent_x", Priority: 0.9})
	if len(a.Goals) != 1 {
		t.Fatalf("expected dedup to keep exactly one goal, got %d", len(a.Goals))
	}
	if a.Goals[0].Priority != 0.9 {
		t.Fatalf("expected the later goal to replace the earlier one, got priority %v", a.Goals[0].Priority)
	}
}

func TestExpireGoals(t *testing.T) {
	a := &Agent{}
	a.AddGoal(Goal{Kind: "revenge", Target: "x", Expiry: 100})
	a.AddGoal(Goal{Kind: "seek_status", Expiry: 0})
	a.ExpireGoals(150)
	if len(a.Goals) != 1 || a.Goals[0].Kind != "seek_status" {
		t.Fatalf("expected only the non-expiring goal to survive, got %+v", a.Goals)
	}
}
