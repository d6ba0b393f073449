package types

import (
	"encoding/json"
	"strings"
)

// Gender is the two-valued category used only by the co-ed fielding rule.
type Gender int

const (
	Male Gender = iota
	Female
)

func (g Gender) String() string {
	if g == Female {
		return "female"
	}
	return "male"
}

// ParseGender normalises free-form roster input. Anything not recognised as
// female is treated as male.
func ParseGender(s string) Gender {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "f", "female", "w", "woman", "women", "girl":
		return Female
	}
	return Male
}

func (g *Gender) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		*g = Male
		return nil
	}
	*g = ParseGender(s)
	return nil
}

func (g Gender) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.String())
}
