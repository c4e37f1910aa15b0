package engine

import (
	"context"
	"errors"
	"math"
	"testing"

	pkgerrors "github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/solver"
)

// stubBackend delegates to the real solver unless a hook is set.
type stubBackend struct {
	real *solver.Solver
	lp   func(m *solver.Model) (*solver.Solution, error)
	mip  func(m *solver.Model) (*solver.Solution, error)
	lpN  int
	mipN int
}

func newStub() *stubBackend {
	return &stubBackend{real: solver.New(1e-6, 0)}
}

func (s *stubBackend) SolveLP(ctx context.Context, m *solver.Model) (*solver.Solution, error) {
	s.lpN++
	if s.lp != nil {
		return s.lp(m)
	}
	return s.real.SolveLP(ctx, m)
}

func (s *stubBackend) SolveMIP(ctx context.Context, m *solver.Model) (*solver.Solution, error) {
	s.mipN++
	if s.mip != nil {
		return s.mip(m)
	}
	return s.real.SolveMIP(ctx, m)
}

func TestGenerator_Converges(t *testing.T) {
	book := exampleBook(t, "small-9")
	gen := NewGenerator(book, testBackend(), model.DefaultSettings())

	require.NoError(t, gen.Run(context.Background()))

	assert.GreaterOrEqual(t, gen.Rounds(), 2)
	assert.Equal(t, gen.Pool().Len(), gen.Master().Columns())
	assert.Greater(t, gen.Pool().Len(), book.Len())
	// the relaxation is at least the material bound
	assert.GreaterOrEqual(t, gen.LowerBound(), book.TotalWidth()/book.Capacity()-1e-6)
	assert.Equal(t, stateConverged, gen.state)
}

func TestGenerator_SingleOrderConvergesImmediately(t *testing.T) {
	book := newBook(t, 10, map[float64]int{3: 7})
	gen := NewGenerator(book, testBackend(), model.DefaultSettings())

	require.NoError(t, gen.Run(context.Background()))
	assert.Equal(t, 1, gen.Rounds())
	assert.Equal(t, 1, gen.Pool().Len())
	assert.InDelta(t, 7.0/3, gen.LowerBound(), 1e-6)
}

func TestGenerator_RoundCap(t *testing.T) {
	book := newBook(t, 9, map[float64]int{2: 4})
	stub := newStub()
	// pricing keeps reporting an improving pattern
	stub.mip = func(m *solver.Model) (*solver.Solution, error) {
		return &solver.Solution{X: []float64{1}, Objective: 2, Optimal: true}, nil
	}
	settings := model.DefaultSettings()
	settings.MaxRounds = 3

	gen := NewGenerator(book, stub, settings)
	err := gen.Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrNoConvergence))
	assert.Equal(t, 3, gen.Rounds())
	assert.Equal(t, 4, gen.Pool().Len())
	assert.Equal(t, 4, gen.Master().Columns())
}

func TestGenerator_RelaxationInfeasible(t *testing.T) {
	book := newBook(t, 9, map[float64]int{2: 4})
	stub := newStub()
	stub.lp = func(m *solver.Model) (*solver.Solution, error) {
		return nil, solver.ErrInfeasible
	}

	err := NewGenerator(book, stub, model.DefaultSettings()).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrRelaxationInfeasible))
	assert.True(t, errors.Is(err, solver.ErrInfeasible))
}

func TestGenerator_PricingInfeasible(t *testing.T) {
	book := newBook(t, 9, map[float64]int{2: 4})
	stub := newStub()
	stub.mip = func(m *solver.Model) (*solver.Solution, error) {
		return nil, solver.ErrInfeasible
	}

	err := NewGenerator(book, stub, model.DefaultSettings()).Run(context.Background())

	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPricingInfeasible))
	assert.Equal(t, 1, stub.lpN)
}

func TestGenerator_Cancelled(t *testing.T) {
	book := exampleBook(t, "small-9")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewGenerator(book, testBackend(), model.DefaultSettings()).Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestResolve_RoundsAndSkipsZeroColumns(t *testing.T) {
	book := newBook(t, 9, map[float64]int{2: 4, 7: 2})
	pool := SeedPool(book, 1e-6)
	p := model.Pattern{1, 1}
	pool.Append(p)

	stub := newStub()
	stub.mip = func(m *solver.Model) (*solver.Solution, error) {
		require.Equal(t, 3, m.NumVars())
		return &solver.Solution{X: []float64{0.9999999, 2e-9, 2.0000002}, Objective: 3, Optimal: true}, nil
	}
	m := NewMaster(book, pool, stub)

	res, err := Resolve(context.Background(), m, 1e-6)
	require.NoError(t, err)

	assert.True(t, res.Optimal)
	assert.Equal(t, []model.Roll{{2, 2, 2, 2}, {2, 7}, {2, 7}}, res.Rolls)
	require.Len(t, res.Patterns, 2)
	assert.Equal(t, 1, res.Patterns[0].Count)
	assert.Equal(t, 2, res.Patterns[1].Count)
}

func TestResolve_IntegerFailure(t *testing.T) {
	book := newBook(t, 9, map[float64]int{2: 4, 7: 2})
	stub := newStub()
	stub.mip = func(m *solver.Model) (*solver.Solution, error) {
		return nil, solver.ErrNodeLimit
	}
	m := NewMaster(book, SeedPool(book, 1e-6), stub)

	_, err := Resolve(context.Background(), m, 1e-6)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIntegerResolve))
	assert.True(t, errors.Is(err, solver.ErrNodeLimit))
}

func TestResolve_IntegerSolutionCoversDemand(t *testing.T) {
	book := exampleBook(t, "small-9")
	gen := NewGenerator(book, testBackend(), model.DefaultSettings())
	require.NoError(t, gen.Run(context.Background()))

	res, err := Resolve(context.Background(), gen.Master(), 1e-6)
	require.NoError(t, err)

	assert.Equal(t, float64(len(res.Rolls)), math.Round(res.Objective))
	assert.GreaterOrEqual(t, float64(len(res.Rolls)), math.Ceil(gen.LowerBound()-1e-6))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "relaxing", stateRelaxing.String())
	assert.Equal(t, "pricing", statePricing.String())
	assert.Equal(t, "converged", stateConverged.String())
}

func TestWrapStage(t *testing.T) {
	err := wrapStage(ErrIntegerResolve, solver.ErrNodeLimit)

	assert.True(t, errors.Is(err, ErrIntegerResolve))
	assert.True(t, errors.Is(err, solver.ErrNodeLimit))
	assert.False(t, errors.Is(err, ErrPricingInfeasible))
	assert.Equal(t, "integer resolve failed: "+solver.ErrNodeLimit.Error(), err.Error())
	assert.Equal(t, solver.ErrNodeLimit, pkgerrors.Cause(err))
}
