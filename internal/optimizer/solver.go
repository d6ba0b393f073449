package optimizer

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/bits"
	"slices"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"

	"github.com/DanielD2004/Baseball-Optimizer/internal/mip"
	"github.com/DanielD2004/Baseball-Optimizer/pkg/logger"
)

// Solver finds an optimal assignment for a lineup model.
type Solver interface {
	Solve(ctx context.Context, model *LineupModel) (*mip.Solution, error)
}

const (
	// ctxCheckInterval is how many transitions run between deadline checks.
	ctxCheckInterval = 1024

	tieTolerance = 1e-9

	// boundTolerance is the relative slack kept when pruning against the
	// incumbent, so rounding never cuts an optimal path.
	boundTolerance = 1e-7

	defaultWarmStartWidth = 512

	// pricingWork caps bench evaluations spent on sit prices.
	pricingWork = 40_000_000
)

// SitPatternSolver solves the lineup model exactly by dynamic programming over
// who has sat how often.
//
// The objective is a sum of independent per-inning fielding scores and the
// innings only interact through the sit variables. A state after inning i is
// the per-player sit count plus whether the player sat in inning i; the value
// of a state is the best total score reaching it. Each transition picks the
// next bench, drawn only from players the sit tiers allow, rejects it if it
// breaks the final sit window, and adds the best fielding of the remaining ten
// players (an assignment problem). Threshold indicators, cumulative counts and
// totals are derived from the winning sit pattern.
//
// Three things keep the state count down. Players with identical scores,
// eligibility and gender are interchangeable, so states that differ only by
// swapping them are merged. Every player gets a sit price from a Lagrangian
// relaxation of the sit totals, which gives each state an upper bound on what
// the remaining innings can add. A narrow beam pass first finds a good
// schedule, and the exact pass drops every state whose bound cannot beat it;
// when the beam schedule already meets the root bound it is returned as is.
type SitPatternSolver struct {
	MaxStates int
	// WarmStartWidth is how many states per inning the beam pass keeps. Zero
	// uses the default; negative skips the pass.
	WarmStartWidth int
	logger         *logrus.Entry
}

func NewSitPatternSolver(maxStates int, log *logrus.Entry) *SitPatternSolver {
	if log == nil {
		log = logger.WithService("sit-pattern-solver")
	}
	return &SitPatternSolver{MaxStates: maxStates, logger: log}
}

// sitState is one DP node. state packs count<<1 | sat-last per player; key is
// the same with interchangeable players sorted and is the dedup key.
type sitState struct {
	key    string
	state  string
	value  float64
	bound  float64
	parent int32
	bench  int32
}

// sitLink is what backtracking keeps per layer once the keys are dropped.
type sitLink struct {
	parent int32
	bench  int32
}

// errStateLimit marks a search stopped by MaxStates.
var errStateLimit = errors.New("state limit exceeded")

type sitSearch struct {
	model    *LineupModel
	n        int
	innings  int
	bench    int
	minSits  int
	maxSits  int
	sets     []uint64
	setIndex map[uint64]int32
	// rows holds the value of every bench for each distinct score matrix;
	// rowOf maps an inning onto its row.
	rows  [][]float64
	rowOf []int
	// classes lists groups of interchangeable players, members ascending.
	classes [][]int
	lambda  []float64
	// future[i] is the priced best value of innings i..end.
	future []float64
	dual   float64

	explored int64
	pruned   int64
	low, up  []int
	scratch  []byte
}

func (s *SitPatternSolver) Solve(ctx context.Context, model *LineupModel) (*mip.Solution, error) {
	start := time.Now()
	if model == nil || model.MIP == nil {
		return nil, errors.New("lineup model is not built")
	}
	maxStates := s.MaxStates
	if maxStates <= 0 {
		maxStates = DefaultSettings().MaxStates
	}
	width := s.WarmStartWidth
	if width == 0 {
		width = defaultWarmStartWidth
	}

	search := newSitSearch(model)
	stopped := func(status mip.Status, msg string) *mip.Solution {
		return &mip.Solution{
			Status: status,
			Stats: mip.SolveStats{
				StatesExplored: search.explored,
				StatesPruned:   search.pruned,
				Elapsed:        time.Since(start),
				Message:        msg,
			},
		}
	}

	if count, ok := binomial(search.n, search.bench, maxStates); !ok || count > int64(maxStates) {
		return stopped(mip.NotSolved, fmt.Sprintf("%d-player bench sets exceed the state limit of %d", search.bench, maxStates)), nil
	}
	search.enumerateBenches()

	if err := search.scoreInnings(ctx); err != nil {
		if ctx.Err() != nil {
			return stopped(interrupted(ctx), "stopped while scoring innings"), nil
		}
		return nil, err
	}
	if i, ok := search.unfieldable(); ok {
		return stopped(mip.Infeasible, fmt.Sprintf("no bench in inning %d leaves a valid fielding", i+1)), nil
	}
	search.findClasses()

	if err := search.priceSits(ctx, math.Inf(-1)); err != nil {
		return stopped(interrupted(ctx), "stopped while pricing sits"), nil
	}

	var (
		links     [][]sitLink
		best      int32
		incumbent = math.Inf(-1)
	)
	if width > 0 {
		wl, wb, wv, err := search.run(ctx, maxStates, width, incumbent)
		switch {
		case err != nil && ctx.Err() != nil:
			return stopped(interrupted(ctx), "stopped during warm start"), nil
		case err != nil:
			return nil, err
		case wl != nil:
			links, best, incumbent = wl, wb, wv
			if err := search.priceSits(ctx, incumbent); err != nil {
				return stopped(interrupted(ctx), "stopped while pricing sits"), nil
			}
		}
	}

	proven := links != nil && incumbent >= search.dual-pruneSlack(search.dual)
	if !proven {
		el, eb, _, err := search.run(ctx, maxStates, 0, incumbent)
		switch {
		case errors.Is(err, errStateLimit):
			return stopped(mip.NotSolved, err.Error()), nil
		case err != nil && ctx.Err() != nil:
			return stopped(interrupted(ctx), "stopped during search"), nil
		case err != nil:
			return nil, err
		case el != nil:
			links, best = el, eb
		case links == nil:
			return stopped(mip.Infeasible, "no sit pattern satisfies the fairness, rest and co-ed rules"), nil
		}
	}

	benches := make([]uint64, search.innings)
	node := best
	for i := search.innings - 1; i >= 0; i-- {
		link := links[i][node]
		benches[i] = search.sets[link.bench]
		node = link.parent
	}

	values, err := search.fill(benches)
	if err != nil {
		return nil, err
	}
	sol := &mip.Solution{
		Status:    mip.Optimal,
		Objective: model.MIP.Evaluate(values),
		Values:    values,
		Stats: mip.SolveStats{
			StatesExplored: search.explored,
			StatesPruned:   search.pruned,
			Elapsed:        time.Since(start),
		},
	}

	s.logger.WithFields(logrus.Fields{
		"states_explored":   search.explored,
		"states_pruned":     search.pruned,
		"bench_sets":        len(search.sets),
		"symmetric_groups":  len(search.classes),
		"root_bound":        search.dual,
		"warm_start_proven": proven,
		"objective":         sol.Objective,
		"elapsed":           sol.Stats.Elapsed,
	}).Debug("Sit pattern search complete")

	return sol, nil
}

// interrupted maps a done context onto a solve status.
func interrupted(ctx context.Context) mip.Status {
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return mip.TimeLimit
	}
	return mip.NotSolved
}

func pruneSlack(v float64) float64 {
	return boundTolerance * (1 + math.Abs(v))
}

// newSitSearch derives the window every final sit total must fall in. With
// pairwise rows the totals are floor and ceil of the average; without them
// only the rest rule bounds a player.
func newSitSearch(model *LineupModel) *sitSearch {
	n := model.NumPlayers()
	total := model.Innings() * model.BenchSize()
	minSits := total / n
	maxSits := minSits
	if total%n != 0 {
		maxSits++
	}
	if !model.pairwise {
		minSits, maxSits = 0, maxFutureSits(model.Innings(), false)
	}
	return &sitSearch{
		model:   model,
		n:       n,
		innings: model.Innings(),
		bench:   model.BenchSize(),
		minSits: minSits,
		maxSits: maxSits,
		lambda:  make([]float64, n),
		scratch: make([]byte, 0, n),
	}
}

// enumerateBenches lists every bench of the right size in lexicographic order.
func (s *sitSearch) enumerateBenches() {
	s.sets = nil
	s.setIndex = make(map[uint64]int32)
	var walk func(from int, left int, mask uint64)
	walk = func(from int, left int, mask uint64) {
		if left == 0 {
			s.setIndex[mask] = int32(len(s.sets))
			s.sets = append(s.sets, mask)
			return
		}
		for p := from; p <= s.n-left; p++ {
			walk(p+1, left-1, mask|1<<uint(p))
		}
	}
	walk(0, s.bench, 0)
}

// scoreInnings computes the best fielding value of every bench for every
// distinct score matrix; infeasible benches score -Inf.
func (s *sitSearch) scoreInnings(ctx context.Context) error {
	s.rows = nil
	s.rowOf = make([]int, s.innings)
	for i := 0; i < s.innings; i++ {
		if i > 0 && s.model.coef[i] == s.model.coef[i-1] {
			s.rowOf[i] = s.rowOf[i-1]
			continue
		}
		row := make([]float64, len(s.sets))
		for b, mask := range s.sets {
			if b%ctxCheckInterval == 0 {
				if err := ctx.Err(); err != nil {
					return err
				}
			}
			f, ok := s.model.bestFielding(i, mask)
			if !ok {
				row[b] = math.Inf(-1)
				continue
			}
			row[b] = f.value
		}
		s.rowOf[i] = len(s.rows)
		s.rows = append(s.rows, row)
	}
	return nil
}

// unfieldable returns the first inning where every bench is infeasible.
func (s *sitSearch) unfieldable() (int, bool) {
	for i, r := range s.rowOf {
		if !slices.ContainsFunc(s.rows[r], func(v float64) bool { return !math.IsInf(v, -1) }) {
			return i, true
		}
	}
	return 0, false
}

// findClasses groups players that can swap places anywhere in a schedule
// without changing its value or feasibility.
func (s *sitSearch) findClasses() {
	s.classes = nil
	grouped := make([]bool, s.n)
	for p := 0; p < s.n; p++ {
		if grouped[p] {
			continue
		}
		class := []int{p}
		for q := p + 1; q < s.n; q++ {
			if !grouped[q] && s.model.interchangeable(p, q) {
				class = append(class, q)
				grouped[q] = true
			}
		}
		if len(class) > 1 {
			s.classes = append(s.classes, class)
		}
	}
}

// priceSits minimises the Lagrangian dual of the sit-total window by
// subgradient steps, starting from the current prices. With a finite target
// (a known schedule value) it takes Polyak steps towards it, otherwise
// diminishing ones. The best prices seen are kept, averaged over
// interchangeable players, and turned into per-inning future bounds.
func (s *sitSearch) priceSits(ctx context.Context, target float64) error {
	lo := float64(s.minSits)
	hi := float64(min(s.maxSits, maxFutureSits(s.innings, false)))
	uses := make([]float64, len(s.rows))
	for _, r := range s.rowOf {
		uses[r]++
	}

	unit := 0.0
	for _, row := range s.rows {
		for _, v := range row {
			if !math.IsInf(v, -1) {
				unit = math.Max(unit, math.Abs(v))
			}
		}
	}
	unit /= float64(len(s.model.positions))
	if unit == 0 {
		unit = 1
	}

	work := len(s.sets) * max(s.bench, 1) * len(s.rows)
	iterations := min(max(pricingWork/max(work, 1), 20), 120)

	bestLambda := append([]float64(nil), s.lambda...)
	bestDual := math.Inf(1)
	grad := make([]float64, s.n)
	for t := 0; t < iterations; t++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		for p := range grad {
			grad[p] = 0
		}
		dual := 0.0
		for r, row := range s.rows {
			w, arg := s.priced(row)
			dual += uses[r] * w
			for m := s.sets[arg]; m != 0; m &= m - 1 {
				grad[bits.TrailingZeros64(m)] += uses[r]
			}
		}
		for p, l := range s.lambda {
			if l >= 0 {
				dual -= l * lo
				grad[p] -= lo
			} else {
				dual -= l * hi
				grad[p] -= hi
			}
		}
		if dual < bestDual {
			bestDual = dual
			copy(bestLambda, s.lambda)
		}

		norm := floats.Norm(grad, 2)
		if norm == 0 || dual <= target {
			break
		}
		step := unit / math.Sqrt(float64(t+1)) / norm
		if !math.IsInf(target, -1) {
			step = (dual - target) / (norm * norm)
		}
		floats.AddScaled(s.lambda, -step, grad)
	}

	copy(s.lambda, bestLambda)
	for _, class := range s.classes {
		avg := 0.0
		for _, p := range class {
			avg += s.lambda[p]
		}
		avg /= float64(len(class))
		for _, p := range class {
			s.lambda[p] = avg
		}
	}

	priced := make([]float64, len(s.rows))
	for r, row := range s.rows {
		priced[r], _ = s.priced(row)
	}
	s.future = make([]float64, s.innings+1)
	for i := s.innings - 1; i >= 0; i-- {
		s.future[i] = s.future[i+1] + priced[s.rowOf[i]]
	}
	s.dual = s.optimistic(make([]byte, s.n), 0, 0)
	return nil
}

// priced returns the best bench value plus the sit prices of its members.
func (s *sitSearch) priced(row []float64) (float64, int) {
	best, arg := math.Inf(-1), 0
	for b, v := range row {
		if math.IsInf(v, -1) {
			continue
		}
		for m := s.sets[b]; m != 0; m &= m - 1 {
			v += s.lambda[bits.TrailingZeros64(m)]
		}
		if v > best+tieTolerance {
			best, arg = v, b
		}
	}
	return best, arg
}

// optimistic bounds what innings done..end can add from a state: the priced
// best bench per inning, less the cheapest sit charge each player's
// remaining window allows.
func (s *sitSearch) optimistic(counts []byte, mask uint64, done int) float64 {
	remaining := s.innings - done
	total := s.future[done]
	for p := 0; p < s.n; p++ {
		c := int(counts[p])
		lo := max(s.minSits-c, 0)
		hi := min(s.maxSits-c, maxFutureSits(remaining, mask&(1<<uint(p)) != 0))
		if lo > hi {
			return math.Inf(-1)
		}
		if l := s.lambda[p]; l >= 0 {
			total -= l * float64(lo)
		} else {
			total -= l * float64(hi)
		}
	}
	return total
}

// run performs the layered search and returns the links, the best final node
// and its value; nil links mean no state survived the last inning. With a
// positive width only that many states, ranked by value plus bound, carry on
// to the next inning. States that cannot beat incumbent are dropped.
func (s *sitSearch) run(ctx context.Context, maxStates, width int, incumbent float64) ([][]sitLink, int32, float64, error) {
	threshold := incumbent - pruneSlack(incumbent)
	root := packState(make([]byte, s.n), 0)
	layer := []sitState{{key: root, state: root, parent: -1, bench: -1}}
	links := make([][]sitLink, 0, s.innings)
	counts := make([]byte, s.n)
	next := make([]byte, s.n)
	stateBuf := make([]byte, s.n)
	keyBuf := make([]byte, s.n)

	for i := 0; i < s.innings; i++ {
		if err := ctx.Err(); err != nil {
			return nil, 0, 0, err
		}
		values := s.rows[s.rowOf[i]]
		var nextLayer []sitState
		index := make(map[string]int32)

		for si := range layer {
			st := &layer[si]
			last := unpackState(st.state, counts)

			var err error
			s.forEachBench(counts, last, func(mask uint64) bool {
				s.explored++
				if s.explored%ctxCheckInterval == 0 {
					if err = ctx.Err(); err != nil {
						return false
					}
				}
				b := s.setIndex[mask]
				gain := values[b]
				if math.IsInf(gain, -1) {
					return true
				}
				copy(next, counts)
				for m := mask; m != 0; m &= m - 1 {
					next[bits.TrailingZeros64(m)]++
				}
				if !s.admissible(next, mask, s.innings-i-1) {
					return true
				}

				packInto(stateBuf, next, mask)
				s.canonical(keyBuf, stateBuf)
				value := st.value + gain
				if at, seen := index[string(keyBuf)]; seen {
					if value > nextLayer[at].value+tieTolerance {
						nextLayer[at].value = value
						nextLayer[at].state = string(stateBuf)
						nextLayer[at].parent = int32(si)
						nextLayer[at].bench = b
					}
					return true
				}
				bound := s.optimistic(next, mask, i+1)
				if value+bound < threshold {
					s.pruned++
					return true
				}
				if width <= 0 && len(nextLayer) >= maxStates {
					err = fmt.Errorf("%w: more than %d states after inning %d", errStateLimit, maxStates, i+1)
					return false
				}
				key := string(keyBuf)
				state := key
				if len(s.classes) > 0 {
					state = string(stateBuf)
				}
				index[key] = int32(len(nextLayer))
				nextLayer = append(nextLayer, sitState{key: key, state: state, value: value, bound: bound, parent: int32(si), bench: b})
				return true
			})
			if err != nil {
				return nil, 0, 0, err
			}
		}

		if len(nextLayer) == 0 {
			return nil, 0, 0, nil
		}
		if width > 0 && len(nextLayer) > width {
			nextLayer = keepBest(nextLayer, width)
		}
		layerLinks := make([]sitLink, len(nextLayer))
		for k, st := range nextLayer {
			layerLinks[k] = sitLink{parent: st.parent, bench: st.bench}
		}
		links = append(links, layerLinks)
		layer = nextLayer
	}

	best := int32(0)
	for k := range layer {
		if layer[k].value > layer[best].value+tieTolerance {
			best = int32(k)
		}
	}
	return links, best, layer[best].value, nil
}

// keepBest keeps the width states with the highest value plus bound, in their
// original order.
func keepBest(layer []sitState, width int) []sitState {
	order := make([]int, len(layer))
	for k := range order {
		order[k] = k
	}
	sort.SliceStable(order, func(a, b int) bool {
		return layer[order[a]].value+layer[order[a]].bound > layer[order[b]].value+layer[order[b]].bound
	})
	order = order[:width]
	sort.Ints(order)
	kept := make([]sitState, width)
	for k, at := range order {
		kept[k] = layer[at]
	}
	return kept
}

// forEachBench calls fn with every bench the sit tiers allow after counts,
// until fn returns false. While the lowest count is below the last tier only
// players at that count may sit, joined by players one above it once every
// lowest player sits too. Players who just sat or are at the window's top are
// never offered.
func (s *sitSearch) forEachBench(counts []byte, last uint64, fn func(mask uint64) bool) {
	free := func(p int) bool {
		return last&(1<<uint(p)) == 0 && int(counts[p]) < s.maxSits
	}
	lo := int(slices.Min(counts))

	s.low = s.low[:0]
	if lo >= sitTiers-1 {
		for p := 0; p < s.n; p++ {
			if free(p) {
				s.low = append(s.low, p)
			}
		}
		forEachCombination(s.low, s.bench, fn)
		return
	}

	atLow := 0
	for p := 0; p < s.n; p++ {
		if int(counts[p]) != lo {
			continue
		}
		atLow++
		if free(p) {
			s.low = append(s.low, p)
		}
	}
	if !forEachCombination(s.low, s.bench, fn) {
		return
	}
	if atLow != len(s.low) || len(s.low) >= s.bench {
		return
	}

	var base uint64
	for _, p := range s.low {
		base |= 1 << uint(p)
	}
	s.up = s.up[:0]
	for p := 0; p < s.n; p++ {
		if int(counts[p]) == lo+1 && free(p) {
			s.up = append(s.up, p)
		}
	}
	forEachCombination(s.up, s.bench-len(s.low), func(mask uint64) bool {
		return fn(base | mask)
	})
}

// canonical writes state into dst with each class of interchangeable players
// sorted, so states equal up to such swaps share a key.
func (s *sitSearch) canonical(dst, state []byte) {
	copy(dst, state)
	for _, class := range s.classes {
		s.scratch = s.scratch[:0]
		for _, p := range class {
			s.scratch = append(s.scratch, state[p])
		}
		slices.Sort(s.scratch)
		for k, p := range class {
			dst[p] = s.scratch[k]
		}
	}
}

// admissible reports whether counts (after benching mask) can still be
// completed into a schedule whose totals land in [minSits, maxSits], and
// whether progressive fairness holds right now.
func (s *sitSearch) admissible(counts []byte, mask uint64, remaining int) bool {
	lo, hi := 255, 0
	need, room := 0, 0
	for p := 0; p < s.n; p++ {
		c := int(counts[p])
		if c > s.maxSits {
			return false
		}
		future := maxFutureSits(remaining, mask&(1<<uint(p)) != 0)
		if c+future < s.minSits {
			return false
		}
		if c < s.minSits {
			need += s.minSits - c
		}
		room += min(s.maxSits-c, future)
		lo, hi = min(lo, c), max(hi, c)
	}
	seats := remaining * s.bench
	if need > seats || room < seats {
		return false
	}
	// Nobody reaches sit k+1 while someone is still below sit k.
	for k := 2; k <= sitTiers; k++ {
		if hi >= k && lo < k-1 {
			return false
		}
	}
	return true
}

// fill expands a bench per inning into a full variable assignment.
func (s *sitSearch) fill(benches []uint64) ([]float64, error) {
	lm := s.model
	values := make([]float64, lm.MIP.NumVars())
	cum := make([]int, s.n)

	for i, mask := range benches {
		f, ok := lm.bestFielding(i, mask)
		if !ok {
			return nil, fmt.Errorf("inning %d: chosen bench has no valid fielding", i+1)
		}
		for j, p := range f.byPosition {
			values[lm.AssignVar(p, i, j)] = 1
		}
		for p := 0; p < s.n; p++ {
			if mask&(1<<uint(p)) != 0 {
				values[lm.SitVar(p, i)] = 1
				cum[p]++
			}
			values[lm.CumulativeVar(p, i)] = float64(cum[p])
			for k := 1; k <= sitTiers; k++ {
				if cum[p] >= k {
					values[lm.ReachedVar(k, p, i)] = 1
				}
			}
		}
	}
	for p := 0; p < s.n; p++ {
		values[lm.TotalVar(p)] = float64(cum[p])
	}
	return values, nil
}

// interchangeable reports whether swapping p and q anywhere in a schedule
// changes neither its value nor its feasibility.
func (lm *LineupModel) interchangeable(p, q int) bool {
	if lm.minority[p] != lm.minority[q] {
		return false
	}
	if !slices.Equal(lm.eligible[p], lm.eligible[q]) {
		return false
	}
	for i, scores := range lm.coef {
		if i > 0 && scores == lm.coef[i-1] {
			continue
		}
		for j := range lm.positions {
			if scores.At(p, j) != scores.At(q, j) {
				return false
			}
		}
	}
	return true
}

// maxFutureSits is the most a player can still sit in remaining innings
// without sitting back to back.
func maxFutureSits(remaining int, satLast bool) int {
	if satLast {
		return remaining / 2
	}
	return (remaining + 1) / 2
}

func packState(counts []byte, mask uint64) string {
	buf := make([]byte, len(counts))
	packInto(buf, counts, mask)
	return string(buf)
}

// packInto writes count<<1 | sat-last per player into buf.
func packInto(buf, counts []byte, mask uint64) {
	for p, c := range counts {
		b := c << 1
		if mask&(1<<uint(p)) != 0 {
			b |= 1
		}
		buf[p] = b
	}
}

// unpackState copies the counts out of state into counts and returns the
// mask of players who sat last.
func unpackState(state string, counts []byte) uint64 {
	var mask uint64
	for p := range counts {
		b := state[p]
		counts[p] = b >> 1
		if b&1 != 0 {
			mask |= 1 << uint(p)
		}
	}
	return mask
}

// forEachCombination calls fn with the mask of every k-subset of members, in
// lexicographic order, until fn returns false. It reports whether every
// subset was visited.
func forEachCombination(members []int, k int, fn func(mask uint64) bool) bool {
	var walk func(from, left int, mask uint64) bool
	walk = func(from, left int, mask uint64) bool {
		if left == 0 {
			return fn(mask)
		}
		for i := from; i <= len(members)-left; i++ {
			if !walk(i+1, left-1, mask|1<<uint(members[i])) {
				return false
			}
		}
		return true
	}
	return walk(0, k, 0)
}

// binomial returns C(n, k), or ok=false once it exceeds limit.
func binomial(n, k, limit int) (int64, bool) {
	if k < 0 || k > n {
		return 0, true
	}
	if k > n-k {
		k = n - k
	}
	result := int64(1)
	for i := 1; i <= k; i++ {
		result = result * int64(n-k+i) / int64(i)
		if result > int64(limit) {
			return result, false
		}
	}
	return result, true
}
