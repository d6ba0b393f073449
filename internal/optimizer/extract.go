package optimizer

import (
	"errors"
	"fmt"
	"slices"

	"github.com/DanielD2004/Baseball-Optimizer/internal/mip"
	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

// FieldAssignment is one player at one position in one inning.
type FieldAssignment struct {
	Position types.Position `json:"position"`
	PlayerID int            `json:"player_id"`
	Player   string         `json:"player"`
}

// BenchedPlayer is one player sitting out an inning.
type BenchedPlayer struct {
	PlayerID int    `json:"player_id"`
	Player   string `json:"player"`
}

// InningLineup is the defensive alignment of one inning. Fielded follows the
// canonical position order; Benched follows roster order.
type InningLineup struct {
	Inning  int               `json:"inning"`
	Fielded []FieldAssignment `json:"fielded"`
	Benched []BenchedPlayer   `json:"benched"`
}

// Extraction is a solved model read back in roster terms.
type Extraction struct {
	Schedule       []InningLineup   `json:"schedule"`
	PlayerSits     map[string]int   `json:"player_sits"`
	SitPattern     map[string][]int `json:"sit_pattern"`
	ObjectiveValue float64          `json:"objective_value"`
}

// Extract converts a solution into a schedule. It refuses solutions without
// values and cross-checks the sit variables against the schedule they imply.
func Extract(model *LineupModel, sol *mip.Solution) (*Extraction, error) {
	if sol == nil || !sol.HasValues() {
		return nil, errors.New("solution carries no variable values")
	}
	if len(sol.Values) != model.MIP.NumVars() {
		return nil, fmt.Errorf("solution has %d values, model has %d variables", len(sol.Values), model.MIP.NumVars())
	}

	players := model.Players()
	out := &Extraction{
		Schedule:       make([]InningLineup, model.Innings()),
		PlayerSits:     make(map[string]int, len(players)),
		SitPattern:     make(map[string][]int, len(players)),
		ObjectiveValue: model.MIP.Evaluate(sol.Values),
	}
	for _, player := range players {
		out.SitPattern[player.Name] = []int{}
		out.PlayerSits[player.Name] = 0
	}

	for i := 0; i < model.Innings(); i++ {
		lineup := InningLineup{
			Inning:  i + 1,
			Fielded: make([]FieldAssignment, 0, types.FieldSize),
			Benched: make([]BenchedPlayer, 0, model.BenchSize()),
		}
		holder := make([]int, len(model.Positions()))
		for j := range holder {
			holder[j] = -1
		}

		for p, player := range players {
			sits := sol.IsSet(model.SitVar(p, i))
			at := -1
			for j := range model.Positions() {
				if !sol.IsSet(model.AssignVar(p, i, j)) {
					continue
				}
				if at >= 0 || sits {
					return nil, fmt.Errorf("inning %d: %s is placed more than once", i+1, player.Name)
				}
				at = j
			}
			switch {
			case sits:
				lineup.Benched = append(lineup.Benched, BenchedPlayer{PlayerID: player.ID, Player: player.Name})
				out.SitPattern[player.Name] = append(out.SitPattern[player.Name], i+1)
			case at >= 0:
				if holder[at] >= 0 {
					return nil, fmt.Errorf("inning %d: position %s assigned twice", i+1, model.Positions()[at])
				}
				holder[at] = p
			default:
				return nil, fmt.Errorf("inning %d: %s is neither fielded nor benched", i+1, player.Name)
			}
		}

		for j, p := range holder {
			if p < 0 {
				return nil, fmt.Errorf("inning %d: position %s is empty", i+1, model.Positions()[j])
			}
			lineup.Fielded = append(lineup.Fielded, FieldAssignment{
				Position: model.Positions()[j],
				PlayerID: players[p].ID,
				Player:   players[p].Name,
			})
		}
		out.Schedule[i] = lineup
	}

	derived := SitPatternOf(out.Schedule)
	for p, player := range players {
		total := int(sol.Value(model.TotalVar(p)) + 0.5)
		if total != len(out.SitPattern[player.Name]) {
			return nil, fmt.Errorf("%s: sit total %d disagrees with %d benched innings", player.Name, total, len(out.SitPattern[player.Name]))
		}
		if !slices.Equal(derived[player.Name], out.SitPattern[player.Name]) {
			return nil, fmt.Errorf("%s: sit pattern %v disagrees with schedule %v", player.Name, out.SitPattern[player.Name], derived[player.Name])
		}
		out.PlayerSits[player.Name] = total
	}
	return out, nil
}

// SitPatternOf lists, per player name, the innings in which they were benched.
func SitPatternOf(schedule []InningLineup) map[string][]int {
	pattern := make(map[string][]int)
	for _, lineup := range schedule {
		for _, fa := range lineup.Fielded {
			if _, ok := pattern[fa.Player]; !ok {
				pattern[fa.Player] = []int{}
			}
		}
		for _, bp := range lineup.Benched {
			pattern[bp.Player] = append(pattern[bp.Player], lineup.Inning)
		}
	}
	return pattern
}
