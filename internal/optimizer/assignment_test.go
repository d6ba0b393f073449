package optimizer

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

// bruteForceAssignment tries every permutation.
func bruteForceAssignment(cost [][]float64) float64 {
	n := len(cost)
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	best := math.Inf(1)
	var permute func(k int)
	permute = func(k int) {
		if k == n {
			total := 0.0
			for r, c := range perm {
				total += cost[r][c]
			}
			best = math.Min(best, total)
			return
		}
		for i := k; i < n; i++ {
			perm[k], perm[i] = perm[i], perm[k]
			permute(k + 1)
			perm[k], perm[i] = perm[i], perm[k]
		}
	}
	permute(0)
	return best
}

func TestHungarian_MatchesBruteForce(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 25; trial++ {
		n := 2 + trial%6
		cost := make([][]float64, n)
		for r := range cost {
			cost[r] = make([]float64, n)
			for c := range cost[r] {
				cost[r][c] = math.Round(rng.Float64()*200-100) / 4
			}
		}

		cols := hungarian(cost)
		require.Len(t, cols, n)
		seen := make(map[int]bool, n)
		total := 0.0
		for r, c := range cols {
			assert.False(t, seen[c], "column %d used twice", c)
			seen[c] = true
			total += cost[r][c]
		}
		assert.InDelta(t, bruteForceAssignment(cost), total, 1e-9, "trial %d", trial)
	}
}

func TestHungarian_Deterministic(t *testing.T) {
	cost := [][]float64{
		{1, 1, 1},
		{1, 1, 1},
		{1, 1, 1},
	}
	first := hungarian(cost)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, hungarian(cost))
	}
}

func TestBestFielding(t *testing.T) {
	t.Run("everyone at their wanted position", func(t *testing.T) {
		model := buildTestModel(t, flexibleRoster(10), testSettings())
		f, ok := model.bestFielding(0, 0)
		require.True(t, ok)
		for j, p := range f.byPosition {
			assert.Equal(t, j, p)
		}
		sp := DefaultScoringPolicy()
		want := 0.0
		for _, p := range model.Players() {
			want += sp.Coefficient(types.WantsToPlay, p.Skill, 1)
		}
		assert.InDelta(t, want, f.value, 1e-9)
	})

	t.Run("bench must leave exactly ten", func(t *testing.T) {
		model := buildTestModel(t, flexibleRoster(12), testSettings())
		_, ok := model.bestFielding(0, 1)
		assert.False(t, ok)
		_, ok = model.bestFielding(0, 1|2)
		assert.True(t, ok)
	})

	t.Run("no eligible placement", func(t *testing.T) {
		players := flexibleRoster(10)
		catcherOnly := map[types.Position]types.Preference{types.Catcher: types.WantsToPlay}
		players[0].Preferences = catcherOnly
		players[1].Preferences = catcherOnly
		model := buildTestModel(t, players, testSettings())
		_, ok := model.bestFielding(0, 0)
		assert.False(t, ok)
	})

	t.Run("two minority players stay off catcher", func(t *testing.T) {
		players := withFemales(flexibleRoster(10), 2)
		players[0].Preferences = map[types.Position]types.Preference{
			types.Catcher:   types.WantsToPlay,
			types.FirstBase: types.CanPlay,
		}
		model := buildTestModel(t, players, testSettings())
		f, ok := model.bestFielding(0, 0)
		require.True(t, ok)
		assert.Equal(t, 0, f.byPosition[types.FirstBase.Index()])
		assert.NotEqual(t, 0, f.byPosition[types.Catcher.Index()])
		assert.NotEqual(t, 1, f.byPosition[types.Catcher.Index()])
	})

	t.Run("three minority players may use the catcher", func(t *testing.T) {
		players := withFemales(flexibleRoster(10), 3)
		model := buildTestModel(t, players, testSettings())
		f, ok := model.bestFielding(0, 0)
		require.True(t, ok)
		assert.Equal(t, 1, f.byPosition[types.Catcher.Index()], "player 2 wants catcher")
	})

	t.Run("too few minority players fielded", func(t *testing.T) {
		players := withFemales(flexibleRoster(11), 2)
		model := buildTestModel(t, players, testSettings())
		_, ok := model.bestFielding(0, 1)
		assert.False(t, ok)
		_, ok = model.bestFielding(0, 1<<10)
		assert.True(t, ok)
	})
}
