package engine

import (
	"context"
	"fmt"
	"math"

	"github.com/pkg/errors"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/solver"
)

// Candidate is the best pattern found by one pricing solve.
type Candidate struct {
	// Value is Σ dual·count. The pattern improves the master when Value > 1.
	Value   float64
	Pattern model.Pattern
}

// Pricer builds and solves the bounded-knapsack pricing subproblem.
type Pricer struct {
	book    *model.OrderBook
	backend Backend
}

func NewPricer(book *model.OrderBook, backend Backend) *Pricer {
	return &Pricer{book: book, backend: backend}
}

// knapsack builds max Σ dual_i·v_i s.t. Σ width_i·v_i ≤ capacity with
// 0 ≤ v_i ≤ quantity_i integer. The quantity bound only prunes: no pattern
// needs more pieces of an order than were ordered.
func (p *Pricer) knapsack(duals []float64) *solver.Model {
	kp := solver.NewModel("pricing", solver.Maximize)
	terms := make([]solver.Coef, p.book.Len())
	for i := 0; i < p.book.Len(); i++ {
		j := kp.AddVar(fmt.Sprintf("y[%d]", i), duals[i], float64(p.book.Quantity(i)), true)
		terms[i] = solver.Coef{Index: j, Value: p.book.Width(i)}
	}
	kp.AddConstraint("width", solver.LessEqual, p.book.Capacity(), terms...)
	return kp
}

// Price solves the knapsack for the given duals and rounds the assignment
// to the nearest integers.
func (p *Pricer) Price(ctx context.Context, duals []float64) (Candidate, error) {
	if len(duals) != p.book.Len() {
		return Candidate{}, errors.Errorf("pricing: got %d duals for %d orders", len(duals), p.book.Len())
	}
	sol, err := p.backend.SolveMIP(ctx, p.knapsack(duals))
	if err != nil {
		if errors.Is(err, solver.ErrInfeasible) || errors.Is(err, solver.ErrUnbounded) {
			return Candidate{}, wrapStage(ErrPricingInfeasible, err)
		}
		return Candidate{}, errors.Wrap(err, "pricing")
	}

	pattern := make(model.Pattern, p.book.Len())
	for i := range pattern {
		pattern[i] = int(math.Floor(sol.X[i] + 0.5))
	}
	return Candidate{Value: sol.Objective, Pattern: pattern}, nil
}
