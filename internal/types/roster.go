package types

import (
	"encoding/json"
	"fmt"
	"io"
)

// Importance weights each position's contribution to the objective.
type Importance map[Position]int

// Weight returns the importance of pos, defaulting to 1 when unspecified.
func (im Importance) Weight(pos Position) int {
	if w, ok := im[pos]; ok {
		return w
	}
	return 1
}

// Validate rejects non-positive weights; a zero weight would erase the
// difference between WANTS_TO_PLAY and CAN_PLAY at that position.
func (im Importance) Validate() error {
	for pos, w := range im {
		if !pos.IsValid() {
			return fmt.Errorf("importance given for unknown position %q", pos)
		}
		if w < 1 {
			return fmt.Errorf("importance for %s must be at least 1, got %d", pos, w)
		}
	}
	return nil
}

// UnmarshalJSON normalises position keys; unknown keys are dropped.
func (im *Importance) UnmarshalJSON(data []byte) error {
	var raw map[string]int
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("importance must map positions to integers: %w", err)
	}
	out := make(Importance, len(raw))
	for code, w := range raw {
		pos, err := ParsePosition(code)
		if err != nil {
			continue
		}
		out[pos] = w
	}
	*im = out
	return nil
}

// Roster is the request document: the players plus position importance.
type Roster struct {
	Players    []Player   `json:"players"`
	Importance Importance `json:"importance"`
}

// DecodeRoster reads a roster document. Shape problems inside preferences are
// absorbed by Preference decoding; only structurally broken JSON fails here.
func DecodeRoster(r io.Reader) (*Roster, error) {
	var roster Roster
	if err := json.NewDecoder(r).Decode(&roster); err != nil {
		return nil, fmt.Errorf("decode roster: %w", err)
	}
	if roster.Importance == nil {
		roster.Importance = Importance{}
	}
	return &roster, nil
}
