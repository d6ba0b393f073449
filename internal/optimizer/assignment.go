package optimizer

import (
	"math"

	"gonum.org/v1/gonum/mat"

	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

// fielding is the best placement of the ten fielded players for one inning.
type fielding struct {
	value float64
	// byPosition[j] is the roster index playing position j.
	byPosition []int
}

// bestFielding places every player outside bench on a distinct position,
// maximising the inning's score. It returns ok=false when no placement
// satisfies eligibility and the co-ed rule.
//
// The co-ed rule reduces to a count on the fielded players: fewer than two
// minority players is infeasible, exactly two means neither may catch, and
// three or more always leaves two off the catcher spot.
func (lm *LineupModel) bestFielding(inning int, bench uint64) (fielding, bool) {
	scores := lm.coef[inning]
	fielded := make([]int, 0, types.FieldSize)
	minorityFielded := 0
	for p := range lm.players {
		if bench&(1<<uint(p)) != 0 {
			continue
		}
		fielded = append(fielded, p)
		if lm.minority[p] {
			minorityFielded++
		}
	}
	if len(fielded) != len(lm.positions) {
		return fielding{}, false
	}
	if lm.coedActive && minorityFielded < minCoedFielded {
		return fielding{}, false
	}
	catcherBarred := lm.coedActive && minorityFielded == minCoedFielded
	catcher := types.Catcher.Index()

	forbidden := func(p, j int) bool {
		if !lm.eligible[p][j] {
			return true
		}
		return catcherBarred && j == catcher && lm.minority[p]
	}

	penalty := forbiddenCost(scores, fielded)
	cost := make([][]float64, len(fielded))
	for r, p := range fielded {
		cost[r] = make([]float64, len(lm.positions))
		for j := range lm.positions {
			if forbidden(p, j) {
				cost[r][j] = penalty
				continue
			}
			cost[r][j] = -scores.At(p, j)
		}
	}

	cols := hungarian(cost)
	out := fielding{byPosition: make([]int, len(lm.positions))}
	for r, j := range cols {
		p := fielded[r]
		if forbidden(p, j) {
			return fielding{}, false
		}
		out.byPosition[j] = p
		out.value += scores.At(p, j)
	}
	return out, true
}

// forbiddenCost is large enough that any assignment using a forbidden pair
// costs more than every assignment that avoids them.
func forbiddenCost(scores mat.Matrix, rows []int) float64 {
	_, c := scores.Dims()
	maxAbs := 0.0
	for _, p := range rows {
		for j := 0; j < c; j++ {
			if v := math.Abs(scores.At(p, j)); v > maxAbs {
				maxAbs = v
			}
		}
	}
	return 1e6 + 4*float64(len(rows))*maxAbs
}

// hungarian solves the square minimum-cost assignment problem and returns the
// column chosen for each row. Ties resolve the same way on every run.
func hungarian(cost [][]float64) []int {
	n := len(cost)
	u := make([]float64, n+1)
	v := make([]float64, n+1)
	match := make([]int, n+1) // match[col] = row, 1-based, 0 = free
	way := make([]int, n+1)
	minv := make([]float64, n+1)
	used := make([]bool, n+1)

	for row := 1; row <= n; row++ {
		match[0] = row
		col0 := 0
		for j := range minv {
			minv[j] = math.Inf(1)
			used[j] = false
		}
		for {
			used[col0] = true
			row0 := match[col0]
			delta := math.Inf(1)
			col1 := 0
			for j := 1; j <= n; j++ {
				if used[j] {
					continue
				}
				cur := cost[row0-1][j-1] - u[row0] - v[j]
				if cur < minv[j] {
					minv[j] = cur
					way[j] = col0
				}
				if minv[j] < delta {
					delta = minv[j]
					col1 = j
				}
			}
			for j := 0; j <= n; j++ {
				if used[j] {
					u[match[j]] += delta
					v[j] -= delta
				} else {
					minv[j] -= delta
				}
			}
			col0 = col1
			if match[col0] == 0 {
				break
			}
		}
		for col0 != 0 {
			col1 := way[col0]
			match[col0] = match[col1]
			col0 = col1
		}
	}

	cols := make([]int, n)
	for j := 1; j <= n; j++ {
		if match[j] != 0 {
			cols[match[j]-1] = j - 1
		}
	}
	return cols
}
