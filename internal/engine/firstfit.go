package engine

import (
	"sort"

	"github.com/piwi3910/RollCut/internal/model"
)

// openRoll is a roll being filled by the greedy packer.
type openRoll struct {
	pattern model.Pattern
	used    float64
}

// expandPieces lists one order index per requested piece.
func expandPieces(book *model.OrderBook) []int {
	var pieces []int
	for i := 0; i < book.Len(); i++ {
		for k := 0; k < book.Quantity(i); k++ {
			pieces = append(pieces, i)
		}
	}
	return pieces
}

// firstFit places pieces, in the given order, on the first roll with room
// and opens a new roll when none has.
func firstFit(book *model.OrderBook, pieces []int, eps float64) []openRoll {
	var rolls []openRoll
	for _, i := range pieces {
		w := book.Width(i)
		placed := false
		for r := range rolls {
			if rolls[r].used+w <= book.Capacity()+eps {
				rolls[r].pattern[i]++
				rolls[r].used += w
				placed = true
				break
			}
		}
		if !placed {
			p := make(model.Pattern, book.Len())
			p[i] = 1
			rolls = append(rolls, openRoll{pattern: p, used: w})
		}
	}
	return rolls
}

// firstFitDecreasing packs the widest pieces first.
func firstFitDecreasing(book *model.OrderBook, eps float64) []openRoll {
	pieces := expandPieces(book)
	sort.SliceStable(pieces, func(a, b int) bool {
		return book.Width(pieces[a]) > book.Width(pieces[b])
	})
	return firstFit(book, pieces, eps)
}

// planFromRolls decodes packed rolls into a plan, grouping identical patterns.
func planFromRolls(plan *model.CutPlan, book *model.OrderBook, rolls []openRoll) {
	for _, r := range rolls {
		plan.Rolls = append(plan.Rolls, r.pattern.Roll(book))
		found := false
		for k := range plan.Patterns {
			if plan.Patterns[k].Pattern.Equal(r.pattern) {
				plan.Patterns[k].Count++
				found = true
				break
			}
		}
		if !found {
			plan.Patterns = append(plan.Patterns, model.PatternUsage{Pattern: r.pattern, Count: 1})
		}
	}
	model.SortRolls(plan.Rolls)
	plan.LowerBound = book.TotalWidth() / book.Capacity()
	plan.Columns = len(plan.Patterns)
}
