package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/RollCut/internal/model"
)

// PatternPool is the append-only list of cutting patterns discovered so far.
// A pattern's index in the pool is the index of its master variable.
type PatternPool struct {
	book     *model.OrderBook
	eps      float64
	patterns []model.Pattern
}

func NewPatternPool(book *model.OrderBook, eps float64) *PatternPool {
	return &PatternPool{book: book, eps: eps}
}

// SeedPool returns a pool holding one single-order pattern per order, each
// with as many copies of that width as fit on a roll. Every order is covered
// by its seed, so the first relaxation is always feasible.
func SeedPool(book *model.OrderBook, eps float64) *PatternPool {
	pool := NewPatternPool(book, eps)
	for i := 0; i < book.Len(); i++ {
		p := make(model.Pattern, book.Len())
		n := int(math.Floor(book.Capacity()/book.Width(i) + eps))
		for n > 1 && float64(n)*book.Width(i) > book.Capacity()+eps {
			n--
		}
		p[i] = n
		pool.Append(p)
	}
	return pool
}

func (pp *PatternPool) Len() int { return len(pp.patterns) }

// At returns a copy of pattern i.
func (pp *PatternPool) At(i int) model.Pattern {
	return append(model.Pattern(nil), pp.patterns[i]...)
}

// Append stores a copy of p and returns its index. An invalid pattern is a
// programming error and panics.
func (pp *PatternPool) Append(p model.Pattern) int {
	if len(p) != pp.book.Len() {
		panic(fmt.Sprintf("engine: pattern has %d counts, want %d", len(p), pp.book.Len()))
	}
	for i, n := range p {
		if n < 0 {
			panic(fmt.Sprintf("engine: pattern count %d for order %d is negative", n, i))
		}
	}
	if w := p.Width(pp.book); w > pp.book.Capacity()+pp.eps {
		panic(fmt.Sprintf("engine: pattern %v is %g wide, roll capacity is %g", p, w, pp.book.Capacity()))
	}
	pp.patterns = append(pp.patterns, append(model.Pattern(nil), p...))
	return len(pp.patterns) - 1
}
