package mip

import "time"

// Status classifies a solve attempt.
type Status int

const (
	NotSolved Status = iota
	Optimal
	Feasible
	Infeasible
	Unbounded
	TimeLimit
)

func (s Status) String() string {
	switch s {
	case Optimal:
		return "Optimal"
	case Feasible:
		return "Feasible"
	case Infeasible:
		return "Infeasible"
	case Unbounded:
		return "Unbounded"
	case TimeLimit:
		return "Time Limit Reached"
	default:
		return "Not Solved"
	}
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// SolveStats carries solver-side bookkeeping for logs and results.
type SolveStats struct {
	StatesExplored int64         `json:"states_explored"`
	StatesPruned   int64         `json:"states_pruned"`
	Elapsed        time.Duration `json:"elapsed"`
	Message        string        `json:"message,omitempty"`
}

// Solution is a solver's answer. Values is indexed by VarID and is only
// meaningful when Status is Optimal or Feasible.
type Solution struct {
	Status    Status
	Objective float64
	Values    []float64
	Stats     SolveStats
}

// HasValues reports whether Values can be read.
func (s *Solution) HasValues() bool {
	return (s.Status == Optimal || s.Status == Feasible) && s.Values != nil
}

func (s *Solution) Value(v VarID) float64 {
	return s.Values[v]
}

// IsSet reads a binary against the 0.5 threshold; solver output is floating
// point and is never compared for equality.
func (s *Solution) IsSet(v VarID) bool {
	return s.Values[v] > 0.5
}
