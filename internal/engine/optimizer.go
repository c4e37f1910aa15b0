package engine

import (
	"context"

	"github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/solver"
)

var (
	ErrRelaxationInfeasible = errors.New("master relaxation is infeasible")
	ErrPricingInfeasible    = errors.New("pricing subproblem is infeasible")
	ErrIntegerResolve       = errors.New("integer resolve failed")
	ErrNoConvergence        = errors.New("column generation did not converge")
	ErrUnknownAlgorithm     = errors.New("unknown algorithm")
)

// stageError tags a solver failure with the engine stage it happened in.
// errors.Is matches both the stage sentinel and the solver cause.
type stageError struct {
	stage error
	cause error
}

func (e *stageError) Error() string { return e.stage.Error() + ": " + e.cause.Error() }

func (e *stageError) Is(target error) bool { return target == e.stage }

func (e *stageError) Cause() error { return e.cause }

func (e *stageError) Unwrap() error { return e.cause }

func wrapStage(stage, cause error) error {
	return errors.WithStack(&stageError{stage: stage, cause: cause})
}

// Backend is the linear and integer solving capability the column generator
// relies on. SolveLP must fill Solution.Duals with one price per constraint.
type Backend interface {
	SolveLP(ctx context.Context, m *solver.Model) (*solver.Solution, error)
	SolveMIP(ctx context.Context, m *solver.Model) (*solver.Solution, error)
}

// Optimizer turns an order book into a cut plan.
type Optimizer struct {
	Settings model.CutSettings
	Backend  Backend
}

func New(settings model.CutSettings) *Optimizer {
	return &Optimizer{
		Settings: settings,
		Backend:  solver.New(settings.Epsilon, settings.NodeLimit),
	}
}

func (o *Optimizer) eps() float64 {
	if o.Settings.Epsilon > 0 {
		return o.Settings.Epsilon
	}
	return model.DefaultSettings().Epsilon
}

// Optimize builds a plan for the order book with the configured algorithm.
func (o *Optimizer) Optimize(ctx context.Context, book *model.OrderBook) (model.CutPlan, error) {
	algo := o.Settings.Algorithm
	if algo == "" {
		algo = model.AlgorithmColumnGeneration
	}
	plan := model.NewCutPlan(algo, book)

	switch algo {
	case model.AlgorithmColumnGeneration:
		if err := o.optimizeColumnGeneration(ctx, book, &plan); err != nil {
			return model.CutPlan{}, err
		}
	case model.AlgorithmFirstFitDecreasing:
		planFromRolls(&plan, book, firstFitDecreasing(book, o.eps()))
	case model.AlgorithmGenetic:
		planFromRolls(&plan, book, optimizeGenetic(book, o.eps()))
	default:
		return model.CutPlan{}, errors.Wrapf(ErrUnknownAlgorithm, "%q", algo)
	}

	glog.Infof("%s: %d rolls for %d orders (lower bound %.4g, efficiency %.1f%%)",
		algo, len(plan.Rolls), book.Len(), plan.LowerBound, plan.Efficiency())
	return plan, nil
}

func (o *Optimizer) optimizeColumnGeneration(ctx context.Context, book *model.OrderBook, plan *model.CutPlan) error {
	gen := NewGenerator(book, o.Backend, o.Settings)
	if err := gen.Run(ctx); err != nil {
		return err
	}

	res, err := Resolve(ctx, gen.Master(), o.eps())
	if err != nil {
		return err
	}
	if !res.Optimal {
		glog.Warningf("integer resolve stopped early; plan uses %d rolls", len(res.Rolls))
	}

	plan.Rolls = res.Rolls
	plan.Patterns = res.Patterns
	plan.LowerBound = gen.LowerBound()
	plan.Rounds = gen.Rounds()
	plan.Columns = gen.Master().Columns()
	return nil
}

// SolveCuttingStock runs column generation with default settings and
// returns the sorted roll list.
func SolveCuttingStock(ctx context.Context, book *model.OrderBook) ([]model.Roll, error) {
	plan, err := New(model.DefaultSettings()).Optimize(ctx, book)
	if err != nil {
		return nil, err
	}
	return plan.Rolls, nil
}
