package optimizer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielD2004/Baseball-Optimizer/internal/mip"
	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

func TestExtract(t *testing.T) {
	model := buildTestModel(t, flexibleRoster(12), testSettings())
	sol := solveTestModel(t, model)

	ex, err := Extract(model, sol)
	require.NoError(t, err)
	require.Len(t, ex.Schedule, 9)
	assert.InDelta(t, sol.Objective, ex.ObjectiveValue, 1e-9)

	total := 0
	for name, sits := range ex.PlayerSits {
		assert.Len(t, ex.SitPattern[name], sits)
		total += sits
	}
	assert.Equal(t, 18, total)

	for i, lineup := range ex.Schedule {
		assert.Equal(t, i+1, lineup.Inning)
		require.Len(t, lineup.Fielded, types.FieldSize)
		assert.Len(t, lineup.Benched, 2)
		for j, fa := range lineup.Fielded {
			assert.Equal(t, types.AllPositions()[j], fa.Position)
			assert.NotZero(t, fa.PlayerID)
		}
	}
	assert.Equal(t, ex.SitPattern, SitPatternOf(ex.Schedule))
}

func TestExtract_Rejects(t *testing.T) {
	model := buildTestModel(t, flexibleRoster(11), testSettings())
	sol := solveTestModel(t, model)

	t.Run("unsolved", func(t *testing.T) {
		_, err := Extract(model, &mip.Solution{Status: mip.TimeLimit})
		assert.Error(t, err)
	})

	t.Run("wrong length", func(t *testing.T) {
		_, err := Extract(model, &mip.Solution{Status: mip.Optimal, Values: []float64{1}})
		assert.Error(t, err)
	})

	t.Run("sit total disagrees with pattern", func(t *testing.T) {
		values := append([]float64(nil), sol.Values...)
		values[model.TotalVar(0)]++
		_, err := Extract(model, &mip.Solution{Status: mip.Optimal, Values: values})
		assert.ErrorContains(t, err, "disagrees")
	})

	t.Run("player both fielded and benched", func(t *testing.T) {
		values := append([]float64(nil), sol.Values...)
		for p := 0; p < model.NumPlayers(); p++ {
			if values[model.SitVar(p, 0)] == 0 {
				values[model.SitVar(p, 0)] = 1
				break
			}
		}
		_, err := Extract(model, &mip.Solution{Status: mip.Optimal, Values: values})
		assert.ErrorContains(t, err, "more than once")
	})

	t.Run("player unplaced", func(t *testing.T) {
		values := append([]float64(nil), sol.Values...)
		for p := 0; p < model.NumPlayers(); p++ {
			values[model.SitVar(p, 2)] = 0
		}
		_, err := Extract(model, &mip.Solution{Status: mip.Optimal, Values: values})
		assert.ErrorContains(t, err, "neither fielded nor benched")
	})
}

func TestValidateSchedule(t *testing.T) {
	players := flexibleRoster(11)
	all := names(players)
	rules := ScheduleRules{Innings: 3, MinorityGender: types.Female, PairwiseFairness: true}

	valid := []InningLineup{
		lineup(1, fieldedExcept(players, all[0]), all[0]),
		lineup(2, fieldedExcept(players, all[1]), all[1]),
		lineup(3, fieldedExcept(players, all[2]), all[2]),
	}
	require.NoError(t, rules.ValidateSchedule(players, valid))

	tests := []struct {
		name     string
		players  []types.Player
		schedule []InningLineup
		err      string
	}{
		{
			name:     "missing inning",
			schedule: valid[:2],
			err:      "covers 2 innings",
		},
		{
			name: "consecutive sits",
			schedule: []InningLineup{
				lineup(1, fieldedExcept(players, all[0]), all[0]),
				lineup(2, fieldedExcept(players, all[0]), all[0]),
				lineup(3, fieldedExcept(players, all[2]), all[2]),
			},
			err: "consecutive",
		},
		{
			name: "player listed twice",
			schedule: []InningLineup{
				lineup(1, fieldedExcept(players, all[0]), all[1]),
				valid[1],
				valid[2],
			},
			err: "more than once",
		},
		{
			name: "unknown player",
			schedule: []InningLineup{
				lineup(1, fieldedExcept(players, all[0]), "Nobody"),
				valid[1],
				valid[2],
			},
			err: "unknown player",
		},
		{
			// Inning 1 puts Player 02 at pitcher.
			name:     "cannot-play position",
			players:  withPreference(flexibleRoster(11), 1, types.Pitcher, types.CannotPlay),
			schedule: valid,
			err:      "inning 1 places Player 02 at P",
		},
		{
			name:    "co-ed minimum",
			players: withFemales(flexibleRoster(11), 2),
			schedule: []InningLineup{
				lineup(1, fieldedExcept(players, all[0]), all[0]),
				valid[1],
				valid[2],
			},
			err: "inning 1 has 1 female",
		},
		{
			name:    "co-ed minimum ignores the catcher",
			players: withFemales(flexibleRoster(11), 2),
			schedule: []InningLineup{
				// Player 02 lands at catcher in canonical order.
				lineup(1, fieldedExcept(players, all[10]), all[10]),
				valid[1],
				valid[2],
			},
			err: "inning 1 has 1 female",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			roster := players
			if tt.players != nil {
				roster = tt.players
			}
			err := rules.ValidateSchedule(roster, tt.schedule)
			assert.ErrorContains(t, err, tt.err)
		})
	}
}

func TestValidateSchedule_Fairness(t *testing.T) {
	players := flexibleRoster(12)
	all := names(players)
	rules := ScheduleRules{Innings: 3, MinorityGender: types.Female, PairwiseFairness: true}

	t.Run("second sit before everyone sat once", func(t *testing.T) {
		schedule := []InningLineup{
			lineup(1, fieldedExcept(players, all[0], all[1]), all[0], all[1]),
			lineup(2, fieldedExcept(players, all[2], all[3]), all[2], all[3]),
			lineup(3, fieldedExcept(players, all[0], all[4]), all[0], all[4]),
		}
		assert.ErrorContains(t, rules.ValidateSchedule(players, schedule), "after inning 3")
	})

	t.Run("totals spread by one", func(t *testing.T) {
		schedule := []InningLineup{
			lineup(1, fieldedExcept(players, all[0], all[1]), all[0], all[1]),
			lineup(2, fieldedExcept(players, all[2], all[3]), all[2], all[3]),
			lineup(3, fieldedExcept(players, all[4], all[5]), all[4], all[5]),
		}
		assert.NoError(t, rules.ValidateSchedule(players, schedule))
	})
}

func TestFairnessReport(t *testing.T) {
	players := flexibleRoster(11)
	all := names(players)
	schedule := []InningLineup{
		lineup(1, fieldedExcept(players, all[10]), all[10]),
		lineup(2, fieldedExcept(players, all[9]), all[9]),
	}

	report := NewFairnessReport(players, schedule)
	assert.Equal(t, 0, report.MinSits)
	assert.Equal(t, 1, report.MaxSits)
	assert.InDelta(t, 2.0/11.0, report.MeanSits, 1e-9)
	assert.Greater(t, report.StdDevSits, 0.0)
	assert.Equal(t, 1.0, report.FieldingShare[all[0]])
	assert.Equal(t, 0.5, report.FieldingShare[all[10]])

	// Canonical order puts Player 01 at P, the position they want, both innings.
	assert.Equal(t, 2, report.PreferredInnings[all[0]])
}

func withPreference(players []types.Player, idx int, pos types.Position, pref types.Preference) []types.Player {
	players[idx].Preferences[pos] = pref
	return players
}
