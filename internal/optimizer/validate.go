package optimizer

import (
	"fmt"

	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

// ScheduleRules holds the league rules a finished schedule is checked against.
type ScheduleRules struct {
	Innings          int
	MinorityGender   types.Gender
	PairwiseFairness bool
}

func RulesFromSettings(s Settings) ScheduleRules {
	return ScheduleRules{
		Innings:          s.Innings,
		MinorityGender:   s.MinorityGender,
		PairwiseFairness: s.EmitPairwiseFairness,
	}
}

// ValidateSchedule checks a schedule against the roster without looking at the
// model it came from
func (r ScheduleRules) ValidateSchedule(players []types.Player, schedule []InningLineup) error {
	byName := make(map[string]types.Player, len(players))
	for _, p := range players {
		byName[p.Name] = p
	}

	// Shape: innings, positions, everyone placed once
	if err := r.validateShape(byName, schedule); err != nil {
		return err
	}

	// Preferences
	if err := r.validateEligibility(byName, schedule); err != nil {
		return err
	}

	// Rest and sit fairness
	if err := r.validateSits(players, schedule); err != nil {
		return err
	}

	// Co-ed minimum
	if err := r.validateCoed(players, byName, schedule); err != nil {
		return err
	}

	return nil
}

func (r ScheduleRules) validateShape(byName map[string]types.Player, schedule []InningLineup) error {
	if len(schedule) != r.Innings {
		return fmt.Errorf("schedule covers %d innings, expected %d", len(schedule), r.Innings)
	}
	benchSize := len(byName) - types.FieldSize

	for i, lineup := range schedule {
		if lineup.Inning != i+1 {
			return fmt.Errorf("inning %d is labelled %d", i+1, lineup.Inning)
		}
		if len(lineup.Fielded) != types.FieldSize {
			return fmt.Errorf("inning %d fields %d players, expected %d", lineup.Inning, len(lineup.Fielded), types.FieldSize)
		}
		if len(lineup.Benched) != benchSize {
			return fmt.Errorf("inning %d benches %d players, expected %d", lineup.Inning, len(lineup.Benched), benchSize)
		}

		filled := make(map[types.Position]bool, types.FieldSize)
		placed := make(map[string]bool, len(byName))
		for _, fa := range lineup.Fielded {
			if !fa.Position.IsValid() {
				return fmt.Errorf("inning %d uses unknown position %q", lineup.Inning, fa.Position)
			}
			if filled[fa.Position] {
				return fmt.Errorf("inning %d fills %s twice", lineup.Inning, fa.Position)
			}
			filled[fa.Position] = true
			if err := place(placed, byName, fa.Player, lineup.Inning); err != nil {
				return err
			}
		}
		for _, bp := range lineup.Benched {
			if err := place(placed, byName, bp.Player, lineup.Inning); err != nil {
				return err
			}
		}
		if len(placed) != len(byName) {
			return fmt.Errorf("inning %d accounts for %d of %d players", lineup.Inning, len(placed), len(byName))
		}
	}
	return nil
}

func place(placed map[string]bool, byName map[string]types.Player, name string, inning int) error {
	if _, ok := byName[name]; !ok {
		return fmt.Errorf("inning %d lists unknown player %q", inning, name)
	}
	if placed[name] {
		return fmt.Errorf("inning %d lists %s more than once", inning, name)
	}
	placed[name] = true
	return nil
}

func (r ScheduleRules) validateEligibility(byName map[string]types.Player, schedule []InningLineup) error {
	for _, lineup := range schedule {
		for _, fa := range lineup.Fielded {
			if !byName[fa.Player].Preference(fa.Position).Playable() {
				return fmt.Errorf("inning %d places %s at %s, which they cannot play", lineup.Inning, fa.Player, fa.Position)
			}
		}
	}
	return nil
}

func (r ScheduleRules) validateSits(players []types.Player, schedule []InningLineup) error {
	counts := make(map[string]int, len(players))
	lastSat := make(map[string]int, len(players))

	for _, lineup := range schedule {
		for _, bp := range lineup.Benched {
			if lastSat[bp.Player] == lineup.Inning-1 && lineup.Inning > 1 {
				return fmt.Errorf("%s sits in consecutive innings %d and %d", bp.Player, lineup.Inning-1, lineup.Inning)
			}
			lastSat[bp.Player] = lineup.Inning
			counts[bp.Player]++
		}

		lo, hi := spread(players, counts)
		for k := 2; k <= sitTiers; k++ {
			if hi >= k && lo < k-1 {
				return fmt.Errorf("after inning %d a player has %d sits while another has %d", lineup.Inning, hi, lo)
			}
		}
	}

	if r.PairwiseFairness {
		if lo, hi := spread(players, counts); hi-lo > 1 {
			return fmt.Errorf("sit totals range from %d to %d", lo, hi)
		}
	}
	return nil
}

func spread(players []types.Player, counts map[string]int) (lo, hi int) {
	for i, p := range players {
		c := counts[p.Name]
		if i == 0 || c < lo {
			lo = c
		}
		if c > hi {
			hi = c
		}
	}
	return lo, hi
}

func (r ScheduleRules) validateCoed(players []types.Player, byName map[string]types.Player, schedule []InningLineup) error {
	minority := 0
	for _, p := range players {
		if p.Gender == r.MinorityGender {
			minority++
		}
	}
	if minority < minCoedFielded {
		return nil
	}

	for _, lineup := range schedule {
		count := 0
		for _, fa := range lineup.Fielded {
			if fa.Position != types.Catcher && byName[fa.Player].Gender == r.MinorityGender {
				count++
			}
		}
		if count < minCoedFielded {
			return fmt.Errorf("inning %d has %d %s players away from catcher, need %d", lineup.Inning, count, r.MinorityGender, minCoedFielded)
		}
	}
	return nil
}
