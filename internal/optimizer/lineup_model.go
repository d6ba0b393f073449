package optimizer

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/DanielD2004/Baseball-Optimizer/internal/mip"
	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
)

const (
	// maxRosterBits bounds the roster so a bench fits in a uint64 mask.
	maxRosterBits = 64

	// sitTiers is the number of "has sat at least k times" indicators per
	// player and inning. Progressive fairness compares adjacent tiers.
	sitTiers = 3

	// minCoedFielded is the number of minority-gender players that must hold
	// non-catcher positions when the co-ed rule applies.
	minCoedFielded = 2
)

// Constraint family names as they appear in the built model.
const (
	FamilyAssignOrSit      = "assign_or_sit"
	FamilyPositionFilled   = "position_filled"
	FamilySitTotal         = "sit_total"
	FamilyPairwiseFairness = "pairwise_fairness"
	FamilyNoConsecutiveSit = "no_consecutive_sit"
	FamilyBenchSize        = "bench_size"
	FamilyCumulativeSits   = "cumulative_sits"
	FamilyReachedLower     = "reached_lower"
	FamilyReachedUpper     = "reached_upper"
	FamilyProgressive      = "progressive_fairness"
	FamilyCoedMinimum      = "coed_minimum"
	FamilyEligibility      = "eligibility"
)

// LineupModel is the MIP for one roster together with the lookup tables the
// solver and the extractor need to read it back.
type LineupModel struct {
	MIP *mip.Model

	players    []types.Player
	positions  []types.Position
	innings    int
	benchSize  int
	pairwise   bool
	coedActive bool
	minority   []bool
	eligible   [][]bool
	coef       []*mat.Dense

	assign     [][][]mip.VarID
	sit        [][]mip.VarID
	total      []mip.VarID
	cumulative [][]mip.VarID
	reached    [sitTiers][][]mip.VarID
}

// BuildModel emits the lineup MIP for players over settings.Innings innings.
// Players are referred to by their roster index; variable names use index+1.
func BuildModel(players []types.Player, importance types.Importance, settings Settings) (*LineupModel, error) {
	n := len(players)
	if n < types.FieldSize {
		return nil, fmt.Errorf("need at least %d players, got %d", types.FieldSize, n)
	}
	if n > maxRosterBits {
		return nil, fmt.Errorf("roster of %d players exceeds the supported maximum of %d", n, maxRosterBits)
	}
	if settings.Innings < 1 {
		return nil, fmt.Errorf("innings must be positive, got %d", settings.Innings)
	}

	lm := &LineupModel{
		players:   players,
		positions: types.AllPositions(),
		innings:   settings.Innings,
		benchSize: n - types.FieldSize,
		pairwise:  settings.EmitPairwiseFairness,
		minority:  make([]bool, n),
		eligible:  make([][]bool, n),
	}

	// Scores do not depend on the inning, so every inning shares one matrix.
	scores := mat.NewDense(n, len(lm.positions), nil)
	minorityCount := 0
	for p, player := range players {
		lm.eligible[p] = make([]bool, len(lm.positions))
		for j, pos := range lm.positions {
			pref := player.Preference(pos)
			lm.eligible[p][j] = pref.Playable()
			scores.Set(p, j, settings.Scoring.Coefficient(pref, player.Skill, importance.Weight(pos)))
		}
		if player.Gender == settings.MinorityGender {
			lm.minority[p] = true
			minorityCount++
		}
	}
	lm.coedActive = minorityCount >= minCoedFielded
	lm.coef = make([]*mat.Dense, lm.innings)
	for i := range lm.coef {
		lm.coef[i] = scores
	}

	b := mip.NewBuilder("softball_lineup", mip.Maximize)
	lm.addVariables(b)
	lm.addObjective(b)
	lm.addAssignmentRows(b)
	lm.addSitRows(b)
	lm.addThresholdRows(b)
	lm.addCoedRows(b)
	lm.addEligibilityRows(b)

	model, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("build lineup model: %w", err)
	}
	lm.MIP = model
	return lm, nil
}

func (lm *LineupModel) addVariables(b *mip.Builder) {
	n := len(lm.players)
	lm.assign = make([][][]mip.VarID, n)
	lm.sit = make([][]mip.VarID, n)
	lm.total = make([]mip.VarID, n)
	lm.cumulative = make([][]mip.VarID, n)
	for k := range lm.reached {
		lm.reached[k] = make([][]mip.VarID, n)
	}

	for p := 0; p < n; p++ {
		lm.assign[p] = make([][]mip.VarID, lm.innings)
		lm.sit[p] = make([]mip.VarID, lm.innings)
		lm.cumulative[p] = make([]mip.VarID, lm.innings)
		for k := range lm.reached {
			lm.reached[k][p] = make([]mip.VarID, lm.innings)
		}

		for i := 0; i < lm.innings; i++ {
			lm.assign[p][i] = make([]mip.VarID, len(lm.positions))
			for j, pos := range lm.positions {
				lm.assign[p][i][j] = b.Binary(fmt.Sprintf("x[p%d,i%d,%s]", p+1, i+1, pos))
			}
			lm.sit[p][i] = b.Binary(fmt.Sprintf("sit[p%d,i%d]", p+1, i+1))
			lm.cumulative[p][i] = b.Integer(fmt.Sprintf("cum[p%d,i%d]", p+1, i+1), 0, float64(i+1))
			for k := range lm.reached {
				lm.reached[k][p][i] = b.Binary(fmt.Sprintf("reached%d[p%d,i%d]", k+1, p+1, i+1))
			}
		}
		lm.total[p] = b.Integer(fmt.Sprintf("sits[p%d]", p+1), 0, float64(lm.innings))
	}
}

func (lm *LineupModel) addObjective(b *mip.Builder) {
	for p := range lm.players {
		for i := 0; i < lm.innings; i++ {
			for j := range lm.positions {
				b.AddObjective(lm.assign[p][i][j], lm.coef[i].At(p, j))
			}
		}
	}
}

// addAssignmentRows: every player is fielded at one position or sits, and
// every position is filled by exactly one player.
func (lm *LineupModel) addAssignmentRows(b *mip.Builder) {
	for p := range lm.players {
		for i := 0; i < lm.innings; i++ {
			terms := make([]mip.Term, 0, len(lm.positions)+1)
			for j := range lm.positions {
				terms = append(terms, mip.Term{Var: lm.assign[p][i][j], Coef: 1})
			}
			terms = append(terms, mip.Term{Var: lm.sit[p][i], Coef: 1})
			b.AddConstraint(FamilyAssignOrSit, fmt.Sprintf("%s[p%d,i%d]", FamilyAssignOrSit, p+1, i+1), terms, mip.Equal, 1)
		}
	}

	for i := 0; i < lm.innings; i++ {
		for j, pos := range lm.positions {
			terms := make([]mip.Term, 0, len(lm.players))
			for p := range lm.players {
				terms = append(terms, mip.Term{Var: lm.assign[p][i][j], Coef: 1})
			}
			b.AddConstraint(FamilyPositionFilled, fmt.Sprintf("%s[i%d,%s]", FamilyPositionFilled, i+1, pos), terms, mip.Equal, 1)
		}
	}
}

func (lm *LineupModel) addSitRows(b *mip.Builder) {
	n := len(lm.players)

	for p := 0; p < n; p++ {
		terms := []mip.Term{{Var: lm.total[p], Coef: 1}}
		for i := 0; i < lm.innings; i++ {
			terms = append(terms, mip.Term{Var: lm.sit[p][i], Coef: -1})
		}
		b.AddConstraint(FamilySitTotal, fmt.Sprintf("%s[p%d]", FamilySitTotal, p+1), terms, mip.Equal, 0)
	}

	if lm.pairwise {
		for p := 0; p < n; p++ {
			for q := 0; q < n; q++ {
				if p == q {
					continue
				}
				b.AddConstraint(FamilyPairwiseFairness, fmt.Sprintf("%s[p%d,p%d]", FamilyPairwiseFairness, p+1, q+1),
					[]mip.Term{{Var: lm.total[p], Coef: 1}, {Var: lm.total[q], Coef: -1}}, mip.LessEqual, 1)
			}
		}
	}

	for p := 0; p < n; p++ {
		for i := 0; i+1 < lm.innings; i++ {
			b.AddConstraint(FamilyNoConsecutiveSit, fmt.Sprintf("%s[p%d,i%d]", FamilyNoConsecutiveSit, p+1, i+1),
				[]mip.Term{{Var: lm.sit[p][i], Coef: 1}, {Var: lm.sit[p][i+1], Coef: 1}}, mip.LessEqual, 1)
		}
	}

	for i := 0; i < lm.innings; i++ {
		terms := make([]mip.Term, 0, n)
		for p := 0; p < n; p++ {
			terms = append(terms, mip.Term{Var: lm.sit[p][i], Coef: 1})
		}
		b.AddConstraint(FamilyBenchSize, fmt.Sprintf("%s[i%d]", FamilyBenchSize, i+1), terms, mip.Equal, float64(lm.benchSize))
	}
}

// addThresholdRows links cum[p,i] to the sit variables and reached_k[p,i] to
// cum[p,i] with big-M = innings, then orders the tiers across players.
func (lm *LineupModel) addThresholdRows(b *mip.Builder) {
	n := len(lm.players)
	bigM := float64(lm.innings)

	for p := 0; p < n; p++ {
		for i := 0; i < lm.innings; i++ {
			terms := []mip.Term{{Var: lm.cumulative[p][i], Coef: 1}}
			for prev := 0; prev <= i; prev++ {
				terms = append(terms, mip.Term{Var: lm.sit[p][prev], Coef: -1})
			}
			b.AddConstraint(FamilyCumulativeSits, fmt.Sprintf("%s[p%d,i%d]", FamilyCumulativeSits, p+1, i+1), terms, mip.Equal, 0)
		}
	}

	for k := 0; k < sitTiers; k++ {
		threshold := float64(k + 1)
		for p := 0; p < n; p++ {
			for i := 0; i < lm.innings; i++ {
				cum, flag := lm.cumulative[p][i], lm.reached[k][p][i]
				// reached = 1 forces cum >= threshold.
				b.AddConstraint(FamilyReachedLower, fmt.Sprintf("%s[k%d,p%d,i%d]", FamilyReachedLower, k+1, p+1, i+1),
					[]mip.Term{{Var: cum, Coef: 1}, {Var: flag, Coef: -threshold}}, mip.GreaterEqual, 0)
				// cum >= threshold forces reached = 1.
				b.AddConstraint(FamilyReachedUpper, fmt.Sprintf("%s[k%d,p%d,i%d]", FamilyReachedUpper, k+1, p+1, i+1),
					[]mip.Term{{Var: cum, Coef: 1}, {Var: flag, Coef: -bigM}}, mip.LessEqual, threshold-1)
			}
		}
	}

	for k := 1; k < sitTiers; k++ {
		for i := 0; i < lm.innings; i++ {
			for p := 0; p < n; p++ {
				for q := 0; q < n; q++ {
					if p == q {
						continue
					}
					b.AddConstraint(FamilyProgressive, fmt.Sprintf("%s[k%d,p%d,p%d,i%d]", FamilyProgressive, k+1, p+1, q+1, i+1),
						[]mip.Term{{Var: lm.reached[k][p][i], Coef: 1}, {Var: lm.reached[k-1][q][i], Coef: -1}}, mip.LessEqual, 0)
				}
			}
		}
	}
}

// addCoedRows emits nothing unless the roster has at least two minority-gender
// players.
func (lm *LineupModel) addCoedRows(b *mip.Builder) {
	if !lm.coedActive {
		return
	}
	for i := 0; i < lm.innings; i++ {
		var terms []mip.Term
		for p := range lm.players {
			if !lm.minority[p] {
				continue
			}
			for j, pos := range lm.positions {
				if pos == types.Catcher {
					continue
				}
				terms = append(terms, mip.Term{Var: lm.assign[p][i][j], Coef: 1})
			}
		}
		b.AddConstraint(FamilyCoedMinimum, fmt.Sprintf("%s[i%d]", FamilyCoedMinimum, i+1), terms, mip.GreaterEqual, minCoedFielded)
	}
}

func (lm *LineupModel) addEligibilityRows(b *mip.Builder) {
	for p := range lm.players {
		for j, pos := range lm.positions {
			if lm.eligible[p][j] {
				continue
			}
			for i := 0; i < lm.innings; i++ {
				b.AddConstraint(FamilyEligibility, fmt.Sprintf("%s[p%d,i%d,%s]", FamilyEligibility, p+1, i+1, pos),
					[]mip.Term{{Var: lm.assign[p][i][j], Coef: 1}}, mip.Equal, 0)
			}
		}
	}
}

func (lm *LineupModel) Players() []types.Player     { return lm.players }
func (lm *LineupModel) NumPlayers() int             { return len(lm.players) }
func (lm *LineupModel) Innings() int                { return lm.innings }
func (lm *LineupModel) BenchSize() int              { return lm.benchSize }
func (lm *LineupModel) Positions() []types.Position { return lm.positions }
func (lm *LineupModel) CoedActive() bool            { return lm.coedActive }
func (lm *LineupModel) IsMinority(p int) bool       { return lm.minority[p] }
func (lm *LineupModel) Eligible(p, j int) bool      { return lm.eligible[p][j] }

// Scores returns the player x position objective matrix for inning i (0-based).
func (lm *LineupModel) Scores(i int) mat.Matrix { return lm.coef[i] }

func (lm *LineupModel) AssignVar(p, i, j int) mip.VarID  { return lm.assign[p][i][j] }
func (lm *LineupModel) SitVar(p, i int) mip.VarID        { return lm.sit[p][i] }
func (lm *LineupModel) TotalVar(p int) mip.VarID         { return lm.total[p] }
func (lm *LineupModel) CumulativeVar(p, i int) mip.VarID { return lm.cumulative[p][i] }

// ReachedVar returns the "has sat at least k times by inning i" indicator,
// k in 1..3.
func (lm *LineupModel) ReachedVar(k, p, i int) mip.VarID { return lm.reached[k-1][p][i] }

// ModelStats summarises the built model for logs and results.
type ModelStats struct {
	Variables   int            `json:"variables"`
	Constraints int            `json:"constraints"`
	Families    map[string]int `json:"families"`
}

func (lm *LineupModel) Stats() ModelStats {
	return ModelStats{
		Variables:   lm.MIP.NumVars(),
		Constraints: lm.MIP.NumConstraints(),
		Families:    lm.MIP.FamilyCounts(),
	}
}
