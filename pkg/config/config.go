package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Env      string `mapstructure:"ENV"`
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// Game shape
	Innings       int `mapstructure:"INNINGS"`
	MaxRosterSize int `mapstructure:"MAX_ROSTER_SIZE"`

	// Solver
	SolverTimeLimit time.Duration `mapstructure:"SOLVER_TIME_LIMIT"`
	SolverMaxStates int           `mapstructure:"SOLVER_MAX_STATES"`

	// Rules
	MinorityGender       string `mapstructure:"MINORITY_GENDER"`
	EmitPairwiseFairness bool   `mapstructure:"EMIT_PAIRWISE_FAIRNESS"`

	// Scoring policy
	PreferenceBonus   float64 `mapstructure:"PREFERENCE_BONUS"`
	WantsFlatShare    float64 `mapstructure:"WANTS_FLAT_SHARE"`
	WantsSkillShare   float64 `mapstructure:"WANTS_SKILL_SHARE"`
	CanFlatShare      float64 `mapstructure:"CAN_FLAT_SHARE"`
	CanSkillShare     float64 `mapstructure:"CAN_SKILL_SHARE"`
	CannotPlayPenalty float64 `mapstructure:"CANNOT_PLAY_PENALTY"`
}

func LoadConfig() (*Config, error) {
	v := viper.New()
	v.SetConfigName(".env")
	v.SetConfigType("env")
	v.AddConfigPath(".")
	v.AddConfigPath("..")

	v.SetDefault("ENV", "development")
	v.SetDefault("LOG_LEVEL", "")
	v.SetDefault("INNINGS", 9)
	v.SetDefault("MAX_ROSTER_SIZE", 30)
	v.SetDefault("SOLVER_TIME_LIMIT", "10s")
	v.SetDefault("SOLVER_MAX_STATES", 2000000)
	v.SetDefault("MINORITY_GENDER", "female")
	v.SetDefault("EMIT_PAIRWISE_FAIRNESS", true)

	// 30% flat / 70% skill for WANTS_TO_PLAY, half the flat weight for CAN_PLAY
	v.SetDefault("PREFERENCE_BONUS", 10.0)
	v.SetDefault("WANTS_FLAT_SHARE", 0.3)
	v.SetDefault("WANTS_SKILL_SHARE", 0.7)
	v.SetDefault("CAN_FLAT_SHARE", 0.15)
	v.SetDefault("CAN_SKILL_SHARE", 0.7)
	v.SetDefault("CANNOT_PLAY_PENALTY", -1000.0)

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.MinorityGender = strings.ToLower(strings.TrimSpace(config.MinorityGender))

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

// Validate checks the values that would otherwise surface as confusing solver failures.
func (c *Config) Validate() error {
	if c.Innings < 1 || c.Innings > 10 {
		return fmt.Errorf("INNINGS must be between 1 and 10, got %d", c.Innings)
	}
	if c.MaxRosterSize < 10 || c.MaxRosterSize > 64 {
		return fmt.Errorf("MAX_ROSTER_SIZE must be between 10 and 64, got %d", c.MaxRosterSize)
	}
	if c.SolverTimeLimit <= 0 {
		return fmt.Errorf("SOLVER_TIME_LIMIT must be positive, got %s", c.SolverTimeLimit)
	}
	if c.SolverMaxStates <= 0 {
		return fmt.Errorf("SOLVER_MAX_STATES must be positive, got %d", c.SolverMaxStates)
	}
	return nil
}

func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}
