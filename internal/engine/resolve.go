package engine

import (
	"context"
	"math"

	"github.com/golang/glog"

	"github.com/piwi3910/RollCut/internal/model"
)

// Resolution is the decoded integer master solution.
type Resolution struct {
	Rolls     []model.Roll
	Patterns  []model.PatternUsage
	Objective float64
	Optimal   bool
}

// Resolve solves the accumulated master problem with integrality restored
// and expands every chosen pattern into one roll per unit of its value.
func Resolve(ctx context.Context, m *Master, eps float64) (Resolution, error) {
	sol, err := m.ResolveInteger(ctx)
	if err != nil {
		return Resolution{}, err
	}

	res := Resolution{Objective: sol.Objective, Optimal: sol.Optimal}
	for k, v := range sol.X {
		if v <= eps {
			continue
		}
		count := int(math.Floor(v + 0.5))
		if count == 0 {
			continue
		}
		pattern := m.pool.At(k)
		roll := pattern.Roll(m.book)
		glog.V(1).Infof("pattern %d: sizes %v --> %d rolls", k, roll, count)
		res.Patterns = append(res.Patterns, model.PatternUsage{Pattern: pattern, Count: count})
		for c := 0; c < count; c++ {
			res.Rolls = append(res.Rolls, append(model.Roll(nil), roll...))
		}
	}
	model.SortRolls(res.Rolls)
	return res, nil
}
