package optimizer

import (
	"errors"
	"fmt"
	"math"

	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

// ScoringPolicy turns (preference, skill, importance) into an objective
// coefficient. Playable preferences blend a flat bonus with a skill term, both
// scaled by position importance:
//
//	importance * (flatShare*PreferenceBonus + skillShare*skill)
//
// CANNOT_PLAY always scores CannotPlayPenalty regardless of skill.
type ScoringPolicy struct {
	PreferenceBonus   float64 `json:"preference_bonus"`
	WantsFlatShare    float64 `json:"wants_flat_share"`
	WantsSkillShare   float64 `json:"wants_skill_share"`
	CanFlatShare      float64 `json:"can_flat_share"`
	CanSkillShare     float64 `json:"can_skill_share"`
	CannotPlayPenalty float64 `json:"cannot_play_penalty"`
}

func DefaultScoringPolicy() ScoringPolicy {
	return ScoringPolicy{
		PreferenceBonus:   10,
		WantsFlatShare:    0.3,
		WantsSkillShare:   0.7,
		CanFlatShare:      0.15,
		CanSkillShare:     0.7,
		CannotPlayPenalty: -1000,
	}
}

// Validate enforces WANTS_TO_PLAY > CAN_PLAY > CANNOT_PLAY for every
// non-negative skill and importance >= 1.
func (sp ScoringPolicy) Validate() error {
	for name, v := range map[string]float64{
		"preference bonus":    sp.PreferenceBonus,
		"wants flat share":    sp.WantsFlatShare,
		"wants skill share":   sp.WantsSkillShare,
		"can flat share":      sp.CanFlatShare,
		"can skill share":     sp.CanSkillShare,
		"cannot play penalty": sp.CannotPlayPenalty,
	} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("%s must be finite", name)
		}
	}
	if sp.PreferenceBonus <= 0 {
		return errors.New("preference bonus must be positive")
	}
	if sp.CanFlatShare < 0 || sp.CanSkillShare < 0 {
		return errors.New("shares must be non-negative")
	}
	if sp.WantsFlatShare <= sp.CanFlatShare {
		return errors.New("wants flat share must exceed can flat share")
	}
	if sp.WantsSkillShare < sp.CanSkillShare {
		return errors.New("wants skill share must not be below can skill share")
	}
	if sp.CannotPlayPenalty >= 0 {
		return errors.New("cannot play penalty must be negative")
	}
	return nil
}

// Coefficient scores one player at one position for one inning.
func (sp ScoringPolicy) Coefficient(pref types.Preference, skill float64, importance int) float64 {
	weight := float64(importance)
	switch pref {
	case types.WantsToPlay:
		return weight * (sp.WantsFlatShare*sp.PreferenceBonus + sp.WantsSkillShare*skill)
	case types.CanPlay:
		return weight * (sp.CanFlatShare*sp.PreferenceBonus + sp.CanSkillShare*skill)
	default:
		return sp.CannotPlayPenalty
	}
}
