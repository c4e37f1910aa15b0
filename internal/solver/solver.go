package solver

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

var (
	ErrInfeasible = errors.New("model is infeasible")
	ErrUnbounded  = errors.New("model is unbounded")
	ErrNodeLimit  = errors.New("node limit reached without an integer solution")
)

// DefaultTolerance is the integrality tolerance used when none is set.
const DefaultTolerance = 1e-6

// Solution is the result of an LP or MIP solve.
type Solution struct {
	X         []float64
	Objective float64
	// Duals holds one price per constraint for LP solves, nil for MIP.
	Duals []float64
	// Optimal is false when a MIP search stopped at the node limit.
	Optimal bool
	Nodes   int
}

// Solver solves Models with gonum's simplex and, for integer variables, a
// depth-first branch-and-bound on top of it.
type Solver struct {
	Tolerance float64
	NodeLimit int // 0 means no limit
}

func New(tolerance float64, nodeLimit int) *Solver {
	if tolerance <= 0 {
		tolerance = DefaultTolerance
	}
	return &Solver{Tolerance: tolerance, NodeLimit: nodeLimit}
}

// SolveLP solves the continuous relaxation of m, ignoring integrality, and
// returns the primal values together with a dual price per constraint.
func (s *Solver) SolveLP(ctx context.Context, m *Model) (*Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	lower := make([]float64, m.NumVars())
	x, z, err := solvePrimal(m, lower, m.upperBounds())
	if err != nil {
		return nil, errors.Wrapf(err, "lp %s", m.Name)
	}
	duals, err := solveDuals(m)
	if err != nil {
		return nil, errors.Wrapf(err, "lp %s", m.Name)
	}
	if glog.V(3) {
		glog.Infof("lp %s: %d vars, %d rows, objective %g", m.Name, m.NumVars(), m.NumConstraints(), z)
	}
	return &Solution{X: x, Objective: z, Duals: duals, Optimal: true, Nodes: 1}, nil
}
