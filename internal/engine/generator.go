package engine

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/piwi3910/RollCut/internal/model"
)

// state is a step of the column generation loop.
type state int

const (
	stateRelaxing state = iota
	statePricing
	stateConverged
)

func (s state) String() string {
	switch s {
	case stateRelaxing:
		return "relaxing"
	case statePricing:
		return "pricing"
	default:
		return "converged"
	}
}

// Generator drives delayed column generation: solve the restricted master
// relaxation, price a new pattern against its duals, append it and repeat
// until no pattern has negative reduced cost.
type Generator struct {
	book      *model.OrderBook
	pool      *PatternPool
	master    *Master
	pricer    *Pricer
	eps       float64
	maxRounds int

	state      state
	rounds     int
	lowerBound float64
	duals      []float64
}

// NewGenerator seeds the pattern pool and builds the master problem.
func NewGenerator(book *model.OrderBook, backend Backend, settings model.CutSettings) *Generator {
	eps := settings.Epsilon
	if eps <= 0 {
		eps = model.DefaultSettings().Epsilon
	}
	pool := SeedPool(book, eps)
	return &Generator{
		book:      book,
		pool:      pool,
		master:    NewMaster(book, pool, backend),
		pricer:    NewPricer(book, backend),
		eps:       eps,
		maxRounds: settings.RoundLimit(book.Len()),
	}
}

func (g *Generator) Pool() *PatternPool { return g.pool }

func (g *Generator) Master() *Master { return g.master }

// Rounds returns how many master relaxations were solved.
func (g *Generator) Rounds() int { return g.rounds }

// LowerBound returns the relaxation objective of the last round. At
// convergence it bounds the optimal roll count from below.
func (g *Generator) LowerBound() float64 { return g.lowerBound }

// Run executes the loop until convergence. The round cap turns a stall on
// numerically noisy duals into ErrNoConvergence.
func (g *Generator) Run(ctx context.Context) error {
	if glog.V(1) {
		glog.Infof("orders: widths %v, capacity %g", g.book.Widths(), g.book.Capacity())
		for k := 0; k < g.pool.Len(); k++ {
			glog.Infof("seed pattern %d: %v", k, g.pool.At(k))
		}
	}

	g.state = stateRelaxing
	for g.state != stateConverged {
		if err := ctx.Err(); err != nil {
			return err
		}
		switch g.state {
		case stateRelaxing:
			if g.rounds >= g.maxRounds {
				return errors.Wrapf(ErrNoConvergence, "after %d rounds", g.rounds)
			}
			relax, err := g.master.RelaxAndSolve(ctx)
			if err != nil {
				return err
			}
			g.rounds++
			g.lowerBound = relax.Objective
			g.duals = relax.Duals
			g.state = statePricing

		case statePricing:
			cand, err := g.pricer.Price(ctx, g.duals)
			if err != nil {
				return err
			}
			glog.V(1).Infof("round %d: relaxation %g, knapsack objective %g", g.rounds, g.lowerBound, cand.Value)
			if cand.Value < 1+g.eps {
				g.state = stateConverged
				break
			}
			g.pool.Append(cand.Pattern)
			g.master.Extend(cand.Pattern)
			if glog.V(2) {
				for i, d := range g.duals {
					glog.Infof("\t%5d%12g%7d", i, d, cand.Pattern[i])
				}
			}
			g.state = stateRelaxing
		}
	}
	glog.V(1).Infof("column generation converged after %d rounds with %d patterns", g.rounds, g.pool.Len())
	return nil
}
