// Needs state machines with hysteresis, preventing oscillation at the
// transition boundaries. See design doc Section 4.2.
package agents

import "github.com/talgya/crossroads/internal/config"

// UpdateFoodSecurity recomputes an agent's food security level from the
// faction's effective food ratio, applying role modifiers and hysteresis
// gaps so an agent doesn't flicker between levels around the boundary.
func UpdateFoodSecurity(a *Agent, effectiveFoodPerMember float64, cfg config.ResourceSection) {
	ratio := effectiveFoodPerMember * roleFoodModifier(a.Role, cfg)
	cur := a.Needs.FoodSecurity

	switch cur {
	case FoodSecure:
		if ratio < cfg.SecureLowerRatio {
			a.Needs.FoodSecurity = FoodStressed
		}
	case FoodDesperate:
		if ratio > cfg.DesperateUpperRatio {
			a.Needs.FoodSecurity = FoodStressed
		}
	default: // stressed
		if ratio > cfg.SecureUpperRatio {
			a.Needs.FoodSecurity = FoodSecure
		} else if ratio < cfg.DesperateLowerRatio {
			a.Needs.FoodSecurity = FoodDesperate
		}
	}
}

func roleFoodModifier(r Role, cfg config.ResourceSection) float64 {
	switch r {
	case RoleLeader:
		return cfg.LeaderFoodModifier
	case RoleNewcomer:
		return cfg.NewcomerFoodModifier
	default:
		return 1.0
	}
}

// SocialBelongingInput bundles the three signals that drive the social
// belonging state machine (Section 4.2).
type SocialBelongingInput struct {
	TrustFromFactionAvg float64 // average reliability+alignment trust received from faction members
	RecentInteractions  float64 // decayed interaction count
	RitualAttendanceRate float64 // fraction of last K rituals attended
}

const (
	belongingIntegratedUpper  = 1.4
	belongingIntegratedLower  = 1.0
	belongingIsolatedUpper    = 0.6
	belongingIsolatedLower    = 0.2
)

// belongingScore combines the three inputs into a single scalar comparable
// against the hysteresis thresholds above.
func belongingScore(in SocialBelongingInput) float64 {
	return in.TrustFromFactionAvg + 0.5*in.RecentInteractions + 0.6*in.RitualAttendanceRate
}

// UpdateSocialBelonging applies symmetric hysteresis across the three
// belonging levels.
func UpdateSocialBelonging(a *Agent, in SocialBelongingInput) {
	score := belongingScore(in)
	cur := a.Needs.SocialBelonging

	switch cur {
	case SocialIntegrated:
		if score < belongingIntegratedLower {
			a.Needs.SocialBelonging = SocialPeripheral
		}
	case SocialIsolated:
		if score > belongingIsolatedUpper {
			a.Needs.SocialBelonging = SocialPeripheral
		}
	default: // peripheral
		if score > belongingIntegratedUpper {
			a.Needs.SocialBelonging = SocialIntegrated
		} else if score < belongingIsolatedLower {
			a.Needs.SocialBelonging = SocialIsolated
		}
	}
}

// DecayInteractions reduces the recent-interaction counter each tick — the
// passage of time erodes freshness of social contact.
func DecayInteractions(a *Agent, rate float64) {
	a.RecentInteractions *= (1 - rate)
	if a.RecentInteractions < 0.0001 {
		a.RecentInteractions = 0
	}
}

// RecordInteraction bumps the recent-interaction counter for both
// participants of a social action.
func RecordInteraction(a *Agent) {
	a.RecentInteractions += 1.0
}

// RitualAttendanceRate computes the fraction of the last K recorded rituals
// an agent attended.
func RitualAttendanceRate(a *Agent) float64 {
	if len(a.RitualAttendance) == 0 {
		return 0
	}
	attended := 0
	for _, present := range a.RitualAttendance {
		if present {
			attended++
		}
	}
	return float64(attended) / float64(len(a.RitualAttendance))
}

// RecordRitualAttendance appends to the rolling attendance window, keeping
// at most k entries.
func RecordRitualAttendance(a *Agent, present bool, k int) {
	a.RitualAttendance = append(a.RitualAttendance, present)
	if len(a.RitualAttendance) > k {
		a.RitualAttendance = a.RitualAttendance[len(a.RitualAttendance)-k:]
	}
}
