package types

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Position is one of the ten fielding positions in slow-pitch softball
type Position string

const (
	Pitcher          Position = "P"
	Catcher          Position = "C"
	FirstBase        Position = "1B"
	SecondBase       Position = "2B"
	ThirdBase        Position = "3B"
	Shortstop        Position = "SS"
	LeftField        Position = "LF"
	LeftCenterField  Position = "LC"
	RightCenterField Position = "RC"
	RightField       Position = "RF"
)

// FieldSize is the number of players on the field every inning.
const FieldSize = 10

// AllPositions returns the positions in canonical order. Variable layouts and
// printed schedules follow this order.
func AllPositions() []Position {
	return []Position{
		Pitcher, Catcher, FirstBase, SecondBase, ThirdBase,
		Shortstop, LeftField, LeftCenterField, RightCenterField, RightField,
	}
}

var positionAliases = map[string]Position{
	"P":   Pitcher,
	"C":   Catcher,
	"1B":  FirstBase,
	"2B":  SecondBase,
	"3B":  ThirdBase,
	"SS":  Shortstop,
	"LF":  LeftField,
	"LC":  LeftCenterField,
	"LCF": LeftCenterField,
	"RC":  RightCenterField,
	"RCF": RightCenterField,
	"RF":  RightField,
}

// ParsePosition maps a case-insensitive position code (including the LCF/RCF
// spellings) onto the closed position set.
func ParsePosition(code string) (Position, error) {
	if pos, ok := positionAliases[strings.ToUpper(strings.TrimSpace(code))]; ok {
		return pos, nil
	}
	return "", fmt.Errorf("unknown position %q", code)
}

// Index returns the position's slot in AllPositions, or -1.
func (p Position) Index() int {
	for i, pos := range AllPositions() {
		if pos == p {
			return i
		}
	}
	return -1
}

func (p Position) IsValid() bool {
	return p.Index() >= 0
}

func (p Position) String() string {
	return string(p)
}

// UnmarshalJSON accepts any alias ParsePosition accepts.
func (p *Position) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return fmt.Errorf("position must be a string: %w", err)
	}
	pos, err := ParsePosition(code)
	if err != nil {
		return err
	}
	*p = pos
	return nil
}
