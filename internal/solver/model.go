package solver

import (
	"fmt"
	"math"
)

// Sense is the optimization direction of a model.
type Sense int

const (
	Minimize Sense = iota
	Maximize
)

// Relation is the comparison of a constraint row against its right-hand side.
type Relation int

const (
	GreaterEqual Relation = iota
	LessEqual
	Equal
)

func (r Relation) String() string {
	switch r {
	case GreaterEqual:
		return ">="
	case LessEqual:
		return "<="
	default:
		return "="
	}
}

// Coef pairs a row or column index with a coefficient. In AddConstraint the
// index is a variable; in AddVar it is a constraint row.
type Coef struct {
	Index int
	Value float64
}

// Var is a decision variable with lower bound 0.
type Var struct {
	Name    string
	Obj     float64
	Upper   float64 // math.Inf(1) when unbounded
	Integer bool
}

// Constraint is one linear row.
type Constraint struct {
	Name string
	Rel  Relation
	RHS  float64
}

// Model is a linear model that can grow column by column. Rows and columns
// are never removed, so indices handed out by AddVar and AddConstraint stay
// valid for the lifetime of the model.
type Model struct {
	Name  string
	Sense Sense

	vars []Var
	rows []Constraint
	// coefs[r] maps variable index to coefficient for row r.
	coefs []map[int]float64
}

func NewModel(name string, sense Sense) *Model {
	return &Model{Name: name, Sense: sense}
}

// AddVar appends a variable and returns its index. The optional column
// places the variable into existing rows, which is how column generation
// extends a live model without rebuilding it.
func (m *Model) AddVar(name string, obj, upper float64, integer bool, column ...Coef) int {
	if upper < 0 {
		panic(fmt.Sprintf("solver: variable %q has negative upper bound %g", name, upper))
	}
	j := len(m.vars)
	m.vars = append(m.vars, Var{Name: name, Obj: obj, Upper: upper, Integer: integer})
	for _, c := range column {
		if c.Index < 0 || c.Index >= len(m.rows) {
			panic(fmt.Sprintf("solver: variable %q references unknown row %d", name, c.Index))
		}
		if c.Value != 0 {
			m.coefs[c.Index][j] = c.Value
		}
	}
	return j
}

// AddConstraint appends a row over existing variables and returns its index.
func (m *Model) AddConstraint(name string, rel Relation, rhs float64, terms ...Coef) int {
	r := len(m.rows)
	m.rows = append(m.rows, Constraint{Name: name, Rel: rel, RHS: rhs})
	row := make(map[int]float64, len(terms))
	for _, t := range terms {
		if t.Index < 0 || t.Index >= len(m.vars) {
			panic(fmt.Sprintf("solver: constraint %q references unknown variable %d", name, t.Index))
		}
		if t.Value != 0 {
			row[t.Index] += t.Value
		}
	}
	m.coefs = append(m.coefs, row)
	return r
}

func (m *Model) NumVars() int { return len(m.vars) }

func (m *Model) NumConstraints() int { return len(m.rows) }

func (m *Model) Var(j int) Var { return m.vars[j] }

func (m *Model) Constraint(r int) Constraint { return m.rows[r] }

// Coefficient returns the coefficient of variable j in row r.
func (m *Model) Coefficient(r, j int) float64 { return m.coefs[r][j] }

// Unbounded is the upper bound for variables without one.
func Unbounded() float64 { return math.Inf(1) }

// objective evaluates the model objective at x.
func (m *Model) objective(x []float64) float64 {
	var z float64
	for j, v := range m.vars {
		z += v.Obj * x[j]
	}
	return z
}

// minimizeSign converts the model objective into a minimization.
func (m *Model) minimizeSign() float64 {
	if m.Sense == Maximize {
		return -1
	}
	return 1
}
