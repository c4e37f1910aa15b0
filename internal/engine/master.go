package engine

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/solver"
)

// Relaxation is the outcome of one restricted master LP solve.
type Relaxation struct {
	Objective float64
	Duals     []float64 // one per order
}

// Master maintains the restricted master problem: one variable per pattern
// counting how often it is cut, and one demand row per order. It references
// the order book and pool but owns only the solver model.
type Master struct {
	book    *model.OrderBook
	pool    *PatternPool
	backend Backend

	lp     *solver.Model
	demand []int // constraint row per order
}

// NewMaster builds the master problem over every pattern currently in pool.
func NewMaster(book *model.OrderBook, pool *PatternPool, backend Backend) *Master {
	m := &Master{
		book:    book,
		pool:    pool,
		backend: backend,
		lp:      solver.NewModel("master", solver.Minimize),
		demand:  make([]int, book.Len()),
	}
	for i := 0; i < book.Len(); i++ {
		m.demand[i] = m.lp.AddConstraint(fmt.Sprintf("order[%d]", i), solver.GreaterEqual, float64(book.Quantity(i)))
	}
	for k := 0; k < pool.Len(); k++ {
		m.addColumn(pool.At(k))
	}
	return m
}

// Columns returns the number of pattern variables in the master problem.
func (m *Master) Columns() int { return m.lp.NumVars() }

func (m *Master) addColumn(p model.Pattern) int {
	var column []solver.Coef
	for i, n := range p {
		if n > 0 {
			column = append(column, solver.Coef{Index: m.demand[i], Value: float64(n)})
		}
	}
	return m.lp.AddVar(fmt.Sprintf("x[%d]", m.lp.NumVars()), 1, solver.Unbounded(), true, column...)
}

// Extend adds the variable for a pattern that was just appended to the pool.
// Existing variables and rows are left as they are.
func (m *Master) Extend(p model.Pattern) {
	if m.lp.NumVars() != m.pool.Len()-1 {
		panic(fmt.Sprintf("engine: master has %d columns, pool has %d patterns", m.lp.NumVars(), m.pool.Len()))
	}
	m.addColumn(p)
}

// RelaxAndSolve solves the continuous relaxation and returns a dual price per
// order. Infeasibility cannot happen with seeded patterns and is fatal.
func (m *Master) RelaxAndSolve(ctx context.Context) (Relaxation, error) {
	sol, err := m.backend.SolveLP(ctx, m.lp)
	if err != nil {
		if errors.Is(err, solver.ErrInfeasible) || errors.Is(err, solver.ErrUnbounded) {
			return Relaxation{}, wrapStage(ErrRelaxationInfeasible, err)
		}
		return Relaxation{}, errors.Wrap(err, "relax master")
	}
	duals := make([]float64, m.book.Len())
	for i, r := range m.demand {
		duals[i] = sol.Duals[r]
	}
	return Relaxation{Objective: sol.Objective, Duals: duals}, nil
}

// ResolveInteger solves the master with integrality restored and returns the
// value of every pattern variable.
func (m *Master) ResolveInteger(ctx context.Context) (*solver.Solution, error) {
	sol, err := m.backend.SolveMIP(ctx, m.lp)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, err
		}
		return nil, wrapStage(ErrIntegerResolve, err)
	}
	return sol, nil
}
