package optimizer

import (
	"fmt"
	"time"

	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
	"github.com/DanielD2004/Baseball-Optimizer/pkg/config"
)

// Settings controls one optimization call.
type Settings struct {
	Innings       int           `json:"innings"`
	MaxRosterSize int           `json:"max_roster_size"`
	TimeLimit     time.Duration `json:"time_limit"`
	MaxStates     int           `json:"max_states"`

	// MinorityGender is the category the co-ed rule counts.
	MinorityGender types.Gender `json:"minority_gender"`

	// EmitPairwiseFairness adds the explicit |sits(p) - sits(q)| <= 1 rows on top
	// of progressive fairness.
	EmitPairwiseFairness bool `json:"emit_pairwise_fairness"`

	Scoring ScoringPolicy `json:"scoring"`
}

// DefaultSettings mirrors the defaults in pkg/config.
func DefaultSettings() Settings {
	return Settings{
		Innings:              9,
		MaxRosterSize:        30,
		TimeLimit:            10 * time.Second,
		MaxStates:            2000000,
		MinorityGender:       types.Female,
		EmitPairwiseFairness: true,
		Scoring:              DefaultScoringPolicy(),
	}
}

// SettingsFromConfig maps loaded configuration onto optimizer settings.
func SettingsFromConfig(cfg *config.Config) Settings {
	return Settings{
		Innings:              cfg.Innings,
		MaxRosterSize:        cfg.MaxRosterSize,
		TimeLimit:            cfg.SolverTimeLimit,
		MaxStates:            cfg.SolverMaxStates,
		MinorityGender:       types.ParseGender(cfg.MinorityGender),
		EmitPairwiseFairness: cfg.EmitPairwiseFairness,
		Scoring: ScoringPolicy{
			PreferenceBonus:   cfg.PreferenceBonus,
			WantsFlatShare:    cfg.WantsFlatShare,
			WantsSkillShare:   cfg.WantsSkillShare,
			CanFlatShare:      cfg.CanFlatShare,
			CanSkillShare:     cfg.CanSkillShare,
			CannotPlayPenalty: cfg.CannotPlayPenalty,
		},
	}
}

func (s Settings) Validate() error {
	if s.Innings < 1 || s.Innings > 10 {
		return fmt.Errorf("innings must be between 1 and 10, got %d", s.Innings)
	}
	if s.MaxRosterSize < types.FieldSize || s.MaxRosterSize > maxRosterBits {
		return fmt.Errorf("max roster size must be between %d and %d, got %d", types.FieldSize, maxRosterBits, s.MaxRosterSize)
	}
	if s.TimeLimit <= 0 {
		return fmt.Errorf("time limit must be positive, got %s", s.TimeLimit)
	}
	if s.MaxStates <= 0 {
		return fmt.Errorf("max states must be positive, got %d", s.MaxStates)
	}
	if err := s.Scoring.Validate(); err != nil {
		return fmt.Errorf("scoring policy: %w", err)
	}
	return nil
}
