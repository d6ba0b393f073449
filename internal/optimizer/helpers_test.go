package optimizer

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/DanielD2004/Baseball-Optimizer/internal/mip"
	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
	"github.com/DanielD2004/Baseball-Optimizer/pkg/logger"
)

func testSettings() Settings {
	s := DefaultSettings()
	s.TimeLimit = time.Minute
	return s
}

func testContext(t *testing.T) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	t.Cleanup(cancel)
	return ctx
}

func testOptimizer(settings Settings, opts ...Option) *Optimizer {
	opts = append([]Option{WithLogger(logger.Discard())}, opts...)
	return NewOptimizer(settings, opts...)
}

func prefsAll(pref types.Preference) map[types.Position]types.Preference {
	prefs := make(map[types.Position]types.Preference, types.FieldSize)
	for _, pos := range types.AllPositions() {
		prefs[pos] = pref
	}
	return prefs
}

// flexibleRoster returns n male players who can play anywhere. Player i wants
// the (i mod 10)-th position; skills cycle through 1..5.
func flexibleRoster(n int) []types.Player {
	positions := types.AllPositions()
	players := make([]types.Player, n)
	for i := range players {
		prefs := prefsAll(types.CanPlay)
		prefs[positions[i%types.FieldSize]] = types.WantsToPlay
		players[i] = types.Player{
			Name:        fmt.Sprintf("Player %02d", i+1),
			Skill:       float64(1 + i%5),
			Gender:      types.Male,
			Preferences: prefs,
		}
	}
	return players
}

// evenRoster returns n equally skilled male players, each barred from one or
// two positions and no two alike. Any ten of them field at the same value.
func evenRoster(n int) []types.Player {
	positions := types.AllPositions()
	players := make([]types.Player, n)
	for i := range players {
		prefs := prefsAll(types.CanPlay)
		prefs[positions[i%types.FieldSize]] = types.CannotPlay
		if i >= types.FieldSize {
			prefs[positions[(i+1)%types.FieldSize]] = types.CannotPlay
		}
		players[i] = types.Player{
			Name:        fmt.Sprintf("Player %02d", i+1),
			Skill:       3,
			Gender:      types.Male,
			Preferences: prefs,
		}
	}
	return players
}

// withFemales marks the first k players as female.
func withFemales(players []types.Player, k int) []types.Player {
	for i := 0; i < k; i++ {
		players[i].Gender = types.Female
	}
	return players
}

func buildTestModel(t *testing.T, players []types.Player, settings Settings) *LineupModel {
	t.Helper()
	model, err := BuildModel(assignIDs(players), types.Importance{}, settings)
	require.NoError(t, err)
	return model
}

func solveTestModel(t *testing.T, model *LineupModel) *mip.Solution {
	t.Helper()
	sol, err := NewSitPatternSolver(0, logger.Discard().WithField("test", t.Name())).Solve(testContext(t), model)
	require.NoError(t, err)
	require.Equal(t, mip.Optimal, sol.Status, sol.Stats.Message)
	return sol
}

// lineup builds an inning with fielded players in canonical position order.
func lineup(inning int, fielded []string, benched ...string) InningLineup {
	l := InningLineup{Inning: inning, Benched: []BenchedPlayer{}}
	for j, name := range fielded {
		l.Fielded = append(l.Fielded, FieldAssignment{Position: types.AllPositions()[j], Player: name})
	}
	for _, name := range benched {
		l.Benched = append(l.Benched, BenchedPlayer{Player: name})
	}
	return l
}

func names(players []types.Player) []string {
	out := make([]string, len(players))
	for i, p := range players {
		out[i] = p.Name
	}
	return out
}

// fieldedExcept lists every roster name but the benched ones, in roster order.
func fieldedExcept(players []types.Player, benched ...string) []string {
	skip := make(map[string]bool, len(benched))
	for _, b := range benched {
		skip[b] = true
	}
	var out []string
	for _, name := range names(players) {
		if !skip[name] {
			out = append(out, name)
		}
	}
	return out
}
