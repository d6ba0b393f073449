package mip

import (
	"errors"
	"fmt"
	"math"
)

// ErrBuilt is returned when a builder is used after Build.
var ErrBuilt = errors.New("mip: builder already built")

// Builder accumulates variables, rows and objective terms. The first error is
// sticky: later calls become no-ops and Build reports it.
type Builder struct {
	model    *Model
	names    map[string]bool
	families map[string]bool
	err      error
	built    bool
}

func NewBuilder(name string, sense ObjectiveSense) *Builder {
	return &Builder{
		model:    &Model{name: name, sense: sense},
		names:    make(map[string]bool),
		families: make(map[string]bool),
	}
}

func (b *Builder) fail(err error) {
	if b.err == nil {
		b.err = err
	}
}

func (b *Builder) usable() bool {
	if b.built {
		b.fail(ErrBuilt)
		return false
	}
	return b.err == nil
}

func (b *Builder) addVar(name string, kind VarKind, lower, upper float64) VarID {
	if !b.usable() {
		return -1
	}
	if b.names[name] {
		b.fail(fmt.Errorf("mip: duplicate name %q", name))
		return -1
	}
	if math.IsNaN(lower) || math.IsNaN(upper) || lower > upper {
		b.fail(fmt.Errorf("mip: variable %q has invalid bounds [%g, %g]", name, lower, upper))
		return -1
	}
	id := VarID(len(b.model.vars))
	b.names[name] = true
	b.model.vars = append(b.model.vars, Var{ID: id, Name: name, Kind: kind, Lower: lower, Upper: upper})
	return id
}

// Binary adds a 0/1 variable.
func (b *Builder) Binary(name string) VarID {
	return b.addVar(name, Binary, 0, 1)
}

// Integer adds an integer variable with bounds [lower, upper].
func (b *Builder) Integer(name string, lower, upper float64) VarID {
	return b.addVar(name, Integer, lower, upper)
}

// Continuous adds a real-valued variable with bounds [lower, upper].
func (b *Builder) Continuous(name string, lower, upper float64) VarID {
	return b.addVar(name, Continuous, lower, upper)
}

func (b *Builder) checkTerms(owner string, terms []Term) bool {
	for _, t := range terms {
		if t.Var < 0 || int(t.Var) >= len(b.model.vars) {
			b.fail(fmt.Errorf("mip: %s references unknown variable %d", owner, t.Var))
			return false
		}
		if math.IsNaN(t.Coef) || math.IsInf(t.Coef, 0) {
			b.fail(fmt.Errorf("mip: %s has non-finite coefficient on %s", owner, b.model.vars[t.Var].Name))
			return false
		}
	}
	return true
}

// AddConstraint appends the row sum(terms) <sense> rhs under family.
func (b *Builder) AddConstraint(family, name string, terms []Term, sense Sense, rhs float64) {
	if !b.usable() {
		return
	}
	if b.names[name] {
		b.fail(fmt.Errorf("mip: duplicate name %q", name))
		return
	}
	if len(terms) == 0 {
		b.fail(fmt.Errorf("mip: constraint %q has no terms", name))
		return
	}
	if math.IsNaN(rhs) || math.IsInf(rhs, 0) {
		b.fail(fmt.Errorf("mip: constraint %q has non-finite rhs", name))
		return
	}
	if !b.checkTerms(name, terms) {
		return
	}
	b.names[name] = true
	if !b.families[family] {
		b.families[family] = true
		b.model.families = append(b.model.families, family)
	}
	b.model.constraints = append(b.model.constraints, Constraint{
		Name:   name,
		Family: family,
		Terms:  append([]Term(nil), terms...),
		Sense:  sense,
		RHS:    rhs,
	})
}

// AddObjective adds coef * v to the objective. Zero coefficients are skipped.
func (b *Builder) AddObjective(v VarID, coef float64) {
	if !b.usable() || coef == 0 {
		return
	}
	if !b.checkTerms("objective", []Term{{Var: v, Coef: coef}}) {
		return
	}
	b.model.objective = append(b.model.objective, Term{Var: v, Coef: coef})
}

// Err reports the first error recorded so far.
func (b *Builder) Err() error {
	return b.err
}

// Build freezes the model. The builder cannot be used afterwards.
func (b *Builder) Build() (*Model, error) {
	if b.built {
		return nil, ErrBuilt
	}
	if b.err != nil {
		return nil, b.err
	}
	if len(b.model.vars) == 0 {
		return nil, errors.New("mip: model has no variables")
	}
	b.built = true
	return b.model, nil
}
