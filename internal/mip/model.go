// Package mip holds an explicit mixed-integer program: variables, linear rows
// and a linear objective. Models are accumulated through a Builder and are
// immutable once built, so a solver can read them without coordination.
package mip

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// VarID indexes a variable inside the model that created it.
type VarID int

type VarKind int

const (
	Continuous VarKind = iota
	Integer
	Binary
)

func (k VarKind) String() string {
	switch k {
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	default:
		return "continuous"
	}
}

type Var struct {
	ID    VarID
	Name  string
	Kind  VarKind
	Lower float64
	Upper float64
}

// Term is coef * var.
type Term struct {
	Var  VarID
	Coef float64
}

type Sense int

const (
	LessEqual Sense = iota
	GreaterEqual
	Equal
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case GreaterEqual:
		return ">="
	default:
		return "="
	}
}

// Constraint is sum(Terms) <Sense> RHS. Family groups rows emitted by the same
// modelling rule, for reporting.
type Constraint struct {
	Name   string
	Family string
	Terms  []Term
	Sense  Sense
	RHS    float64
}

type ObjectiveSense int

const (
	Maximize ObjectiveSense = iota
	Minimize
)

// Model is a built, read-only MIP instance.
type Model struct {
	name        string
	sense       ObjectiveSense
	vars        []Var
	constraints []Constraint
	objective   []Term
	families    []string
}

func (m *Model) Name() string           { return m.name }
func (m *Model) Sense() ObjectiveSense  { return m.sense }
func (m *Model) NumVars() int           { return len(m.vars) }
func (m *Model) NumConstraints() int    { return len(m.constraints) }
func (m *Model) Var(id VarID) Var       { return m.vars[id] }
func (m *Model) ObjectiveTerms() []Term { return append([]Term(nil), m.objective...) }

// Constraint returns row i; its terms are a copy.
func (m *Model) Constraint(i int) Constraint {
	c := m.constraints[i]
	c.Terms = append([]Term(nil), c.Terms...)
	return c
}

// Families lists constraint families in the order they were first emitted.
func (m *Model) Families() []string {
	return append([]string(nil), m.families...)
}

// FamilyCounts returns the number of rows per constraint family.
func (m *Model) FamilyCounts() map[string]int {
	counts := make(map[string]int, len(m.families))
	for _, c := range m.constraints {
		counts[c.Family]++
	}
	return counts
}

// KindCounts returns the number of variables per kind.
func (m *Model) KindCounts() map[VarKind]int {
	counts := make(map[VarKind]int, 3)
	for _, v := range m.vars {
		counts[v.Kind]++
	}
	return counts
}

// Evaluate returns the objective value of a full assignment.
func (m *Model) Evaluate(values []float64) float64 {
	total := 0.0
	for _, t := range m.objective {
		total += t.Coef * values[t.Var]
	}
	return total
}

// Violation describes a single failed check from Verify.
type Violation struct {
	Row    string
	Detail string
}

// VerifyError lists every bound, integrality or row violation found.
type VerifyError struct {
	Violations []Violation
}

func (e *VerifyError) Error() string {
	const shown = 5
	parts := make([]string, 0, shown)
	for i, v := range e.Violations {
		if i == shown {
			break
		}
		parts = append(parts, fmt.Sprintf("%s: %s", v.Row, v.Detail))
	}
	msg := fmt.Sprintf("%d constraint violation(s): %s", len(e.Violations), strings.Join(parts, "; "))
	if len(e.Violations) > shown {
		msg += "; ..."
	}
	return msg
}

// Families returns the distinct families that were violated, sorted.
func (e *VerifyError) Families() []string {
	seen := map[string]bool{}
	for _, v := range e.Violations {
		family := v.Row
		if i := strings.IndexByte(family, '['); i > 0 {
			family = family[:i]
		}
		seen[family] = true
	}
	out := make([]string, 0, len(seen))
	for f := range seen {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Verify checks a full assignment against variable bounds, integrality and
// every row, with absolute tolerance tol.
func (m *Model) Verify(values []float64, tol float64) error {
	if len(values) != len(m.vars) {
		return fmt.Errorf("assignment has %d values, model has %d variables", len(values), len(m.vars))
	}

	var violations []Violation
	for _, v := range m.vars {
		x := values[v.ID]
		if math.IsNaN(x) || x < v.Lower-tol || x > v.Upper+tol {
			violations = append(violations, Violation{
				Row:    v.Name,
				Detail: fmt.Sprintf("value %g outside [%g, %g]", x, v.Lower, v.Upper),
			})
			continue
		}
		if v.Kind != Continuous && math.Abs(x-math.Round(x)) > tol {
			violations = append(violations, Violation{
				Row:    v.Name,
				Detail: fmt.Sprintf("%s variable has fractional value %g", v.Kind, x),
			})
		}
	}

	for _, c := range m.constraints {
		lhs := 0.0
		for _, t := range c.Terms {
			lhs += t.Coef * values[t.Var]
		}
		ok := true
		switch c.Sense {
		case LessEqual:
			ok = lhs <= c.RHS+tol
		case GreaterEqual:
			ok = lhs >= c.RHS-tol
		case Equal:
			ok = math.Abs(lhs-c.RHS) <= tol
		}
		if !ok {
			violations = append(violations, Violation{
				Row:    c.Name,
				Detail: fmt.Sprintf("lhs %g %s %g", lhs, c.Sense, c.RHS),
			})
		}
	}

	if len(violations) > 0 {
		return &VerifyError{Violations: violations}
	}
	return nil
}
