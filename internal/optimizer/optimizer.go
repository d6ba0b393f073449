package optimizer

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/DanielD2004/Baseball-Optimizer/internal/mip"
	"github.com/DanielD2004/Baseball-Optimizer/internal/types"
	"github.com/DanielD2004/Baseball-Optimizer/pkg/logger"
)

// verifyTolerance is the absolute slack allowed when re-checking model rows.
const verifyTolerance = 1e-6

type FailureKind string

const (
	FailureInvalidInput      FailureKind = "invalid_input"
	FailureNoPlayers         FailureKind = "no_players"
	FailureSolverError       FailureKind = "solver_error"
	FailureNoOptimalSolution FailureKind = "no_optimal_solution"
)

// Failure explains why an optimization produced no schedule. Status is the
// solver status text when the solver ran.
type Failure struct {
	Kind    FailureKind `json:"kind"`
	Message string      `json:"message"`
	Status  string      `json:"status,omitempty"`
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s", f.Kind, f.Message)
}

// Result is the outcome of one optimization. Either Failure is set, or the
// schedule fields are.
type Result struct {
	OptimizationID string           `json:"optimization_id"`
	Schedule       []InningLineup   `json:"schedule,omitempty"`
	ObjectiveValue float64          `json:"objective_value"`
	PlayerSits     map[string]int   `json:"player_sits,omitempty"`
	SitPattern     map[string][]int `json:"sit_pattern,omitempty"`
	Fairness       *FairnessReport  `json:"fairness,omitempty"`
	Model          *ModelStats      `json:"model,omitempty"`
	Solve          *mip.SolveStats  `json:"solve,omitempty"`
	Message        string           `json:"message,omitempty"`
	Failure        *Failure         `json:"failure,omitempty"`
}

func (r *Result) Success() bool {
	return r.Failure == nil
}

// Optimizer turns rosters into inning-by-inning defensive schedules. It holds
// no per-call state and is safe for concurrent use.
type Optimizer struct {
	settings Settings
	solver   Solver
	log      *logrus.Logger
}

type Option func(*Optimizer)

// WithSolver replaces the default sit-pattern solver.
func WithSolver(s Solver) Option {
	return func(o *Optimizer) { o.solver = s }
}

// WithLogger routes the optimizer's logs to l instead of the package logger.
func WithLogger(l *logrus.Logger) Option {
	return func(o *Optimizer) { o.log = l }
}

func NewOptimizer(settings Settings, opts ...Option) *Optimizer {
	o := &Optimizer{settings: settings}
	for _, opt := range opts {
		opt(o)
	}
	if o.solver == nil {
		var entry *logrus.Entry
		if o.log != nil {
			entry = o.log.WithField("service", "sit-pattern-solver")
		}
		o.solver = NewSitPatternSolver(settings.MaxStates, entry)
	}
	return o
}

func (o *Optimizer) Settings() Settings {
	return o.settings
}

// Optimize runs one optimization with default settings.
func Optimize(ctx context.Context, roster []types.Player, importance types.Importance) *Result {
	return NewOptimizer(DefaultSettings()).Optimize(ctx, roster, importance)
}

// Optimize builds the lineup model for roster, solves it and returns the
// schedule. It never returns an error or panics; failures are reported in
// Result.Failure.
func (o *Optimizer) Optimize(ctx context.Context, roster []types.Player, importance types.Importance) (result *Result) {
	optimizationID := uuid.New().String()
	startTime := time.Now()
	result = &Result{OptimizationID: optimizationID}

	log := o.entry(optimizationID, len(roster))
	log.Info("Starting optimization")

	defer func() {
		if r := recover(); r != nil {
			log.WithField("panic", r).Error("Optimization panicked")
			result = o.fail(result, log, FailureSolverError, fmt.Sprintf("optimization failed: %v", r), "")
		}
	}()

	if len(roster) == 0 {
		return o.fail(result, log, FailureNoPlayers, "No players provided", "")
	}
	if len(roster) < types.FieldSize {
		return o.fail(result, log, FailureInvalidInput,
			fmt.Sprintf("Not enough players. Minimum %d players required, got %d.", types.FieldSize, len(roster)), "")
	}
	if err := o.settings.Validate(); err != nil {
		return o.fail(result, log, FailureInvalidInput, fmt.Sprintf("invalid settings: %v", err), "")
	}
	if len(roster) > o.settings.MaxRosterSize {
		return o.fail(result, log, FailureInvalidInput,
			fmt.Sprintf("Too many players. Maximum %d players supported, got %d.", o.settings.MaxRosterSize, len(roster)), "")
	}
	if err := types.ValidatePlayers(roster); err != nil {
		return o.fail(result, log, FailureInvalidInput, err.Error(), "")
	}
	if importance == nil {
		importance = types.Importance{}
	}
	if err := importance.Validate(); err != nil {
		return o.fail(result, log, FailureInvalidInput, err.Error(), "")
	}

	players := assignIDs(roster)

	model, err := BuildModel(players, importance, o.settings)
	if err != nil {
		return o.fail(result, log, FailureSolverError, fmt.Sprintf("failed to build model: %v", err), "")
	}
	stats := model.Stats()
	result.Model = &stats
	log.WithFields(logrus.Fields{
		"variables":   stats.Variables,
		"constraints": stats.Constraints,
		"families":    stats.Families,
		"coed_active": model.CoedActive(),
	}).Debug("Model built")

	solveCtx, cancel := context.WithTimeout(ctx, o.settings.TimeLimit)
	defer cancel()

	sol, err := o.solve(solveCtx, model)
	if err != nil {
		return o.fail(result, log, FailureSolverError, fmt.Sprintf("solver error: %v", err), "")
	}
	result.Solve = &sol.Stats
	log.WithFields(logrus.Fields{
		"status":          sol.Status.String(),
		"objective":       sol.Objective,
		"states_explored": sol.Stats.StatesExplored,
		"states_pruned":   sol.Stats.StatesPruned,
		"solve_time_ms":   sol.Stats.Elapsed.Milliseconds(),
	}).Info("Solver finished")

	if sol.Status != mip.Optimal {
		msg := fmt.Sprintf("No optimal solution found (status: %s)", sol.Status)
		if sol.Stats.Message != "" {
			msg += ": " + sol.Stats.Message
		}
		return o.fail(result, log, FailureNoOptimalSolution, msg, sol.Status.String())
	}

	if err := model.MIP.Verify(sol.Values, verifyTolerance); err != nil {
		return o.fail(result, log, FailureSolverError, fmt.Sprintf("solution violates the model: %v", err), sol.Status.String())
	}
	extraction, err := Extract(model, sol)
	if err != nil {
		return o.fail(result, log, FailureSolverError, fmt.Sprintf("failed to read solution: %v", err), sol.Status.String())
	}
	if err := RulesFromSettings(o.settings).ValidateSchedule(players, extraction.Schedule); err != nil {
		return o.fail(result, log, FailureSolverError, fmt.Sprintf("schedule failed validation: %v", err), sol.Status.String())
	}

	result.Schedule = extraction.Schedule
	result.ObjectiveValue = extraction.ObjectiveValue
	result.PlayerSits = extraction.PlayerSits
	result.SitPattern = extraction.SitPattern
	result.Fairness = NewFairnessReport(players, extraction.Schedule)
	result.Message = fmt.Sprintf("Optimal schedule for %d players over %d innings", len(players), o.settings.Innings)

	log.WithFields(logrus.Fields{
		"objective_value": result.ObjectiveValue,
		"min_sits":        result.Fairness.MinSits,
		"max_sits":        result.Fairness.MaxSits,
		"elapsed_ms":      time.Since(startTime).Milliseconds(),
	}).Info("Optimization completed")

	return result
}

// solve runs the configured solver and turns a panic inside it into an error.
func (o *Optimizer) solve(ctx context.Context, model *LineupModel) (sol *mip.Solution, err error) {
	defer func() {
		if r := recover(); r != nil {
			sol, err = nil, fmt.Errorf("solver panicked: %v", r)
		}
	}()
	sol, err = o.solver.Solve(ctx, model)
	if err == nil && sol == nil {
		err = errors.New("solver returned no solution")
	}
	return sol, err
}

func (o *Optimizer) entry(optimizationID string, rosterSize int) *logrus.Entry {
	if o.log == nil {
		return logger.WithOptimizationContext(optimizationID, rosterSize, o.settings.Innings)
	}
	return o.log.WithFields(logrus.Fields{
		"optimization_id": optimizationID,
		"roster_size":     rosterSize,
		"innings":         o.settings.Innings,
	})
}

func (o *Optimizer) fail(result *Result, log *logrus.Entry, kind FailureKind, msg, status string) *Result {
	log.WithFields(logrus.Fields{
		"failure": kind,
		"status":  status,
	}).Warn(msg)
	return &Result{
		OptimizationID: result.OptimizationID,
		Model:          result.Model,
		Solve:          result.Solve,
		Failure:        &Failure{Kind: kind, Message: msg, Status: status},
	}
}

// assignIDs copies the roster with IDs 1..N in roster order.
func assignIDs(roster []types.Player) []types.Player {
	players := make([]types.Player, len(roster))
	for i, p := range roster {
		p.ID = i + 1
		players[i] = p
	}
	return players
}
