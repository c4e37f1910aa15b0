package solver

import (
	"context"
	"math"

	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// node is one subproblem of the search tree, given by its variable bounds.
type node struct {
	lower []float64
	upper []float64
}

func (n node) child(j int, lower, upper float64) node {
	c := node{
		lower: append([]float64(nil), n.lower...),
		upper: append([]float64(nil), n.upper...),
	}
	c.lower[j] = lower
	c.upper[j] = upper
	return c
}

// SolveMIP solves m with integrality enforced on its integer variables.
// The search is depth first, branches on the most fractional variable and
// explores the child nearer to the relaxed value first.
func (s *Solver) SolveMIP(ctx context.Context, m *Model) (*Solution, error) {
	n := m.NumVars()
	sign := m.minimizeSign()
	integral := m.integralObjective()

	root := node{lower: make([]float64, n), upper: m.upperBounds()}
	stack := []node{root}

	var best []float64
	bestZ := math.Inf(1) // minimization sense
	rootBound := math.Inf(-1)
	nodes := 0
	limited := false

	for len(stack) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, errors.Wrapf(err, "mip %s", m.Name)
		}
		if s.NodeLimit > 0 && nodes >= s.NodeLimit {
			limited = true
			break
		}

		nd := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		nodes++

		x, z, err := solvePrimal(m, nd.lower, nd.upper)
		if err != nil {
			if errors.Is(err, ErrInfeasible) {
				continue
			}
			return nil, errors.Wrapf(err, "mip %s", m.Name)
		}

		bound := sign * z
		if integral {
			bound = math.Ceil(bound - s.Tolerance)
		}
		if nodes == 1 {
			rootBound = bound
		}
		if bound >= bestZ-s.Tolerance {
			continue
		}

		j := s.mostFractional(m, x)
		if j < 0 {
			best = s.roundIntegers(m, x)
			bestZ = sign * m.objective(best)
			if glog.V(2) {
				glog.Infof("mip %s: incumbent %g at node %d", m.Name, m.objective(best), nodes)
			}
			if bestZ <= rootBound+s.Tolerance {
				break
			}
			continue
		}

		v := x[j]
		fl := math.Floor(v)
		down := nd.child(j, nd.lower[j], fl)
		up := nd.child(j, fl+1, nd.upper[j])
		if v-fl < 0.5 {
			stack = append(stack, up, down)
		} else {
			stack = append(stack, down, up)
		}
	}

	if best == nil {
		if limited {
			return nil, errors.Wrapf(ErrNodeLimit, "mip %s after %d nodes", m.Name, nodes)
		}
		if nodes == 0 {
			return nil, errors.Wrapf(ErrInfeasible, "mip %s", m.Name)
		}
		return nil, errors.Wrapf(ErrInfeasible, "mip %s after %d nodes", m.Name, nodes)
	}
	if limited {
		glog.Warningf("mip %s: node limit %d reached, returning incumbent %g", m.Name, s.NodeLimit, m.objective(best))
	}
	if glog.V(1) {
		glog.Infof("mip %s: %d nodes, objective %g", m.Name, nodes, m.objective(best))
	}
	return &Solution{X: best, Objective: m.objective(best), Optimal: !limited, Nodes: nodes}, nil
}

// mostFractional returns the integer variable furthest from an integer
// value, or -1 when x is integral within tolerance.
func (s *Solver) mostFractional(m *Model, x []float64) int {
	pick := -1
	worst := s.Tolerance
	for j, v := range m.vars {
		if !v.Integer {
			continue
		}
		frac := x[j] - math.Floor(x[j])
		dist := math.Min(frac, 1-frac)
		if dist > worst {
			worst = dist
			pick = j
		}
	}
	return pick
}

func (s *Solver) roundIntegers(m *Model, x []float64) []float64 {
	out := make([]float64, len(x))
	for j, v := range m.vars {
		if v.Integer {
			out[j] = math.Floor(x[j] + 0.5)
		} else {
			out[j] = x[j]
		}
	}
	return out
}

// integralObjective reports whether every feasible integer point has an
// integral objective, which lets node bounds be rounded up.
func (m *Model) integralObjective() bool {
	for _, v := range m.vars {
		if !v.Integer || v.Obj != math.Trunc(v.Obj) {
			return false
		}
	}
	return len(m.vars) > 0
}
