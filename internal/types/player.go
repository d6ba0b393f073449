package types

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Player is one roster entry as the optimizer consumes it. ID is assigned by
// the optimizer per call and is not stable across calls.
type Player struct {
	ID          int                     `json:"id"`
	Name        string                  `json:"name" validate:"required"`
	Skill       float64                 `json:"skill" validate:"gte=0"`
	Gender      Gender                  `json:"gender"`
	Preferences map[Position]Preference `json:"position_preferences"`
}

// Preference returns the player's preference for pos. Positions the player
// never labelled resolve to CannotPlay.
func (p Player) Preference(pos Position) Preference {
	if pref, ok := p.Preferences[pos]; ok {
		return pref
	}
	return CannotPlay
}

// PlayablePositions lists the positions the player may field, in canonical order.
func (p Player) PlayablePositions() []Position {
	var out []Position
	for _, pos := range AllPositions() {
		if p.Preference(pos).Playable() {
			out = append(out, pos)
		}
	}
	return out
}

// UnmarshalJSON accepts the stored document field names (player_name,
// positions) next to the canonical ones, and normalises position keys.
// Unrecognised position keys are dropped.
func (p *Player) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID                  int                   `json:"id"`
		Name                string                `json:"name"`
		PlayerName          string                `json:"player_name"`
		Skill               float64               `json:"skill"`
		Gender              Gender                `json:"gender"`
		PositionPreferences map[string]Preference `json:"position_preferences"`
		Positions           map[string]Preference `json:"positions"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("decode player: %w", err)
	}

	p.ID = raw.ID
	p.Name = strings.TrimSpace(raw.Name)
	if p.Name == "" {
		p.Name = strings.TrimSpace(raw.PlayerName)
	}
	p.Skill = raw.Skill
	p.Gender = raw.Gender
	p.Preferences = make(map[Position]Preference, len(AllPositions()))

	source := raw.PositionPreferences
	if len(source) == 0 {
		source = raw.Positions
	}
	for code, pref := range source {
		pos, err := ParsePosition(code)
		if err != nil {
			continue
		}
		p.Preferences[pos] = pref
	}
	return nil
}

// ValidatePlayers checks field-level rules and that names are unique, since
// schedules and sit reports are keyed by name.
func ValidatePlayers(players []Player) error {
	seen := make(map[string]int, len(players))
	for i, player := range players {
		if err := validate.Struct(player); err != nil {
			return fmt.Errorf("player %d (%q): %w", i+1, player.Name, err)
		}
		if prev, dup := seen[player.Name]; dup {
			return fmt.Errorf("player %d and player %d share the name %q", prev+1, i+1, player.Name)
		}
		seen[player.Name] = i
	}
	return nil
}
