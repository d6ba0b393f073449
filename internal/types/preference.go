package types

import (
	"encoding/json"
	"strings"
)

// Preference is a player's willingness to field a position. The zero value is
// CannotPlay so that anything left unset fails closed.
type Preference int

const (
	CannotPlay Preference = iota
	CanPlay
	WantsToPlay
)

func (p Preference) String() string {
	switch p {
	case WantsToPlay:
		return "WANTS_TO_PLAY"
	case CanPlay:
		return "CAN_PLAY"
	default:
		return "CANNOT_PLAY"
	}
}

// Playable reports whether the player may be assigned to the position at all.
func (p Preference) Playable() bool {
	return p == WantsToPlay || p == CanPlay
}

// ParsePreference maps a label onto the closed preference set. Matching ignores
// case, spaces, underscores and hyphens, so "WANTS_TO_PLAY", "wantsToPlay" and
// "Wants To Play" are the same label. Unknown labels resolve to CannotPlay and
// ok is false.
func ParsePreference(label string) (pref Preference, ok bool) {
	key := strings.Map(func(r rune) rune {
		switch r {
		case ' ', '_', '-', '\t':
			return -1
		}
		return r
	}, strings.ToLower(label))

	switch key {
	case "wantstoplay", "wants", "want", "preferred", "prefer":
		return WantsToPlay, true
	case "canplay", "can":
		return CanPlay, true
	case "cannotplay", "cantplay", "cannot", "no":
		return CannotPlay, true
	}
	return CannotPlay, false
}

// UnmarshalJSON accepts a bare label string or an object carrying the label in
// "value" or "label" (the select-option shape the roster UI stores). Any other
// shape decodes to CannotPlay without failing the surrounding document.
func (p *Preference) UnmarshalJSON(data []byte) error {
	*p = CannotPlay

	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		*p, _ = ParsePreference(label)
		return nil
	}

	var option struct {
		Value interface{} `json:"value"`
		Label interface{} `json:"label"`
	}
	if err := json.Unmarshal(data, &option); err != nil {
		return nil
	}
	for _, candidate := range []interface{}{option.Value, option.Label} {
		s, isString := candidate.(string)
		if !isString {
			continue
		}
		if pref, ok := ParsePreference(s); ok {
			*p = pref
			return nil
		}
	}
	return nil
}

func (p Preference) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}
