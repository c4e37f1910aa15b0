package solver

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// simplexTol is handed to lp.Simplex for its internal pivoting tests.
const simplexTol = 1e-10

// standardForm is the problem min cᵀx s.t. Ax = b, x ≥ 0 that lp.Simplex
// accepts. The first len(cols) columns are model variables, the rest slacks.
type standardForm struct {
	c    []float64
	A    *mat.Dense
	b    []float64
	cols []int
}

// boundRow is a single-variable row x_j <= v or x_j >= v.
type boundRow struct {
	col   int
	value float64
	upper bool
}

// activeColumns returns the variables that take part in the LP. A variable
// with an empty column and no finite bound would give lp.Simplex a zero
// column, so it is fixed at its lower bound instead.
func activeColumns(m *Model, lower, upper []float64) (active []int, pos map[int]int, err error) {
	used := make([]bool, m.NumVars())
	for _, row := range m.coefs {
		for j := range row {
			used[j] = true
		}
	}
	pos = make(map[int]int, m.NumVars())
	sign := m.minimizeSign()
	for j, v := range m.vars {
		if lower[j] > upper[j]+simplexTol {
			return nil, nil, ErrInfeasible
		}
		if used[j] || !math.IsInf(upper[j], 1) || lower[j] > 0 {
			pos[j] = len(active)
			active = append(active, j)
			continue
		}
		if sign*v.Obj < 0 {
			return nil, nil, errors.Wrapf(ErrUnbounded, "variable %q is not constrained", v.Name)
		}
	}
	return active, pos, nil
}

// emptyRowHolds checks a row without coefficients against its right-hand side.
func emptyRowHolds(c Constraint) bool {
	switch c.Rel {
	case GreaterEqual:
		return 0 >= c.RHS-simplexTol
	case LessEqual:
		return 0 <= c.RHS+simplexTol
	default:
		return math.Abs(c.RHS) <= simplexTol
	}
}

// buildPrimal converts m, restricted to lower ≤ x ≤ upper, into standard form
// by adding one slack column per inequality and per finite bound.
func buildPrimal(m *Model, lower, upper []float64) (*standardForm, error) {
	active, pos, err := activeColumns(m, lower, upper)
	if err != nil {
		return nil, err
	}

	var rows []int
	slacks := 0
	for r, row := range m.coefs {
		if len(row) == 0 {
			if !emptyRowHolds(m.rows[r]) {
				return nil, errors.Wrapf(ErrInfeasible, "empty constraint %q", m.rows[r].Name)
			}
			continue
		}
		rows = append(rows, r)
		if m.rows[r].Rel != Equal {
			slacks++
		}
	}

	var bounds []boundRow
	for k, j := range active {
		if !math.IsInf(upper[j], 1) {
			bounds = append(bounds, boundRow{col: k, value: upper[j], upper: true})
		}
		if lower[j] > 0 {
			bounds = append(bounds, boundRow{col: k, value: lower[j]})
		}
	}
	slacks += len(bounds)

	nRows := len(rows) + len(bounds)
	nCols := len(active) + slacks
	if nRows == 0 || nCols == 0 {
		return &standardForm{cols: active}, nil
	}

	sign := m.minimizeSign()
	c := make([]float64, nCols)
	for k, j := range active {
		c[k] = sign * m.vars[j].Obj
	}

	A := mat.NewDense(nRows, nCols, nil)
	b := make([]float64, nRows)
	slack := len(active)
	for i, r := range rows {
		for j, v := range m.coefs[r] {
			A.Set(i, pos[j], v)
		}
		b[i] = m.rows[r].RHS
		switch m.rows[r].Rel {
		case GreaterEqual:
			A.Set(i, slack, -1)
			slack++
		case LessEqual:
			A.Set(i, slack, 1)
			slack++
		}
	}
	for k, br := range bounds {
		i := len(rows) + k
		A.Set(i, br.col, 1)
		if br.upper {
			A.Set(i, slack, 1)
		} else {
			A.Set(i, slack, -1)
		}
		b[i] = br.value
		slack++
	}

	return &standardForm{c: c, A: A, b: b, cols: active}, nil
}

// solvePrimal solves the continuous relaxation of m within the given bounds.
// It returns the full variable vector and the objective in the model's sense.
func solvePrimal(m *Model, lower, upper []float64) ([]float64, float64, error) {
	sf, err := buildPrimal(m, lower, upper)
	if err != nil {
		return nil, 0, err
	}

	x := make([]float64, m.NumVars())
	copy(x, lower)
	if sf.A != nil {
		_, optX, err := lp.Simplex(sf.c, sf.A, sf.b, simplexTol, nil)
		if err != nil {
			return nil, 0, translate(err)
		}
		for k, j := range sf.cols {
			x[j] = optX[k]
		}
	}
	return x, m.objective(x), nil
}

// dualRow is one row of the model rewritten as gᵀx ≥ h for the dual program.
type dualRow struct {
	terms map[int]float64
	rhs   float64
	// constraint is the originating model row, -1 for bound rows.
	constraint int
	// scale maps the row dual back onto the constraint dual.
	scale float64
}

// solveDuals returns ∂objective/∂rhs for every constraint of m at the LP
// optimum. The rows are rewritten as Gx ≥ h over a minimization and the dual
// program max hᵀy s.t. Gᵀy ≤ c, y ≥ 0 is solved with the same simplex.
func solveDuals(m *Model) ([]float64, error) {
	duals := make([]float64, m.NumConstraints())
	lower := make([]float64, m.NumVars())
	upper := m.upperBounds()
	active, pos, err := activeColumns(m, lower, upper)
	if err != nil {
		return nil, err
	}
	if len(active) == 0 {
		return duals, nil
	}

	var rows []dualRow
	for r, row := range m.coefs {
		if len(row) == 0 {
			continue
		}
		rhs := m.rows[r].RHS
		switch m.rows[r].Rel {
		case GreaterEqual:
			rows = append(rows, dualRow{terms: row, rhs: rhs, constraint: r, scale: 1})
		case LessEqual:
			rows = append(rows, dualRow{terms: row, rhs: rhs, constraint: r, scale: -1})
		case Equal:
			rows = append(rows,
				dualRow{terms: row, rhs: rhs, constraint: r, scale: 1},
				dualRow{terms: row, rhs: rhs, constraint: r, scale: -1})
		}
	}
	for _, j := range active {
		if !math.IsInf(upper[j], 1) {
			rows = append(rows, dualRow{terms: map[int]float64{j: 1}, rhs: upper[j], constraint: -1, scale: -1})
		}
	}
	if len(rows) == 0 {
		return duals, nil
	}

	// Dual in standard form: min -hᵀy s.t. Gᵀy + s = c.
	sign := m.minimizeSign()
	nRows := len(active)
	nCols := len(rows) + len(active)
	c := make([]float64, nCols)
	A := mat.NewDense(nRows, nCols, nil)
	b := make([]float64, nRows)
	for k, dr := range rows {
		c[k] = -dr.scale * dr.rhs
		for j, v := range dr.terms {
			A.Set(pos[j], k, dr.scale*v)
		}
	}
	for k, j := range active {
		A.Set(k, len(rows)+k, 1)
		b[k] = sign * m.vars[j].Obj
	}

	_, y, err := lp.Simplex(c, A, b, simplexTol, nil)
	if err != nil {
		return nil, errors.Wrap(translate(err), "dual program")
	}
	for k, dr := range rows {
		if dr.constraint >= 0 {
			duals[dr.constraint] += sign * dr.scale * y[k]
		}
	}
	return duals, nil
}

func (m *Model) upperBounds() []float64 {
	upper := make([]float64, m.NumVars())
	for j, v := range m.vars {
		upper[j] = v.Upper
	}
	return upper
}

// translate maps gonum's status errors onto this package's sentinels.
func translate(err error) error {
	switch {
	case errors.Is(err, lp.ErrInfeasible):
		return ErrInfeasible
	case errors.Is(err, lp.ErrUnbounded):
		return ErrUnbounded
	default:
		return errors.Wrap(err, "simplex")
	}
}
