package model

import (
	"errors"
	"fmt"
	"math"
	"sort"

	"github.com/google/uuid"
)

// Validation errors returned by NewOrderBook.
var (
	ErrNoOrders             = errors.New("order book has no orders")
	ErrInvalidCapacity      = errors.New("roll capacity must be positive")
	ErrInvalidWidth         = errors.New("order width must be positive")
	ErrInvalidQuantity      = errors.New("order quantity must be positive")
	ErrWidthExceedsCapacity = errors.New("order width exceeds roll capacity")
	ErrDuplicateWidth       = errors.New("duplicate order width")
)

// Order is a requested item width together with the number of pieces needed.
type Order struct {
	ID       string  `json:"id"`
	Label    string  `json:"label"`
	Width    float64 `json:"width"`
	Quantity int     `json:"quantity"`
}

func NewOrder(label string, width float64, qty int) Order {
	return Order{
		ID:       uuid.New().String()[:8],
		Label:    label,
		Width:    width,
		Quantity: qty,
	}
}

// OrderBook is the fixed set of orders to be cut from rolls of one capacity.
// Index i refers to the same order for the whole run.
type OrderBook struct {
	capacity float64
	orders   []Order
}

// NewOrderBook validates the orders against the capacity and returns an
// immutable order book. The order of the input slice is kept.
func NewOrderBook(capacity float64, orders []Order) (*OrderBook, error) {
	if !(capacity > 0) || math.IsInf(capacity, 0) {
		return nil, fmt.Errorf("%w: %g", ErrInvalidCapacity, capacity)
	}
	if len(orders) == 0 {
		return nil, ErrNoOrders
	}
	seen := make(map[float64]bool, len(orders))
	for i, o := range orders {
		if !(o.Width > 0) || math.IsInf(o.Width, 0) {
			return nil, fmt.Errorf("order %d: %w: %g", i+1, ErrInvalidWidth, o.Width)
		}
		if o.Quantity <= 0 {
			return nil, fmt.Errorf("order %d: %w: %d", i+1, ErrInvalidQuantity, o.Quantity)
		}
		if o.Width > capacity {
			return nil, fmt.Errorf("order %d: %w: %g > %g", i+1, ErrWidthExceedsCapacity, o.Width, capacity)
		}
		if seen[o.Width] {
			return nil, fmt.Errorf("order %d: %w: %g", i+1, ErrDuplicateWidth, o.Width)
		}
		seen[o.Width] = true
	}

	book := &OrderBook{
		capacity: capacity,
		orders:   make([]Order, len(orders)),
	}
	copy(book.orders, orders)
	return book, nil
}

// OrderBookFromMap builds an order book from a width to quantity mapping.
// Widths are sorted ascending so that item indices are deterministic.
func OrderBookFromMap(capacity float64, quantities map[float64]int) (*OrderBook, error) {
	widths := make([]float64, 0, len(quantities))
	for w := range quantities {
		widths = append(widths, w)
	}
	sort.Float64s(widths)

	orders := make([]Order, 0, len(widths))
	for _, w := range widths {
		orders = append(orders, NewOrder(fmt.Sprintf("%g", w), w, quantities[w]))
	}
	return NewOrderBook(capacity, orders)
}

// Len returns the number of distinct orders.
func (b *OrderBook) Len() int { return len(b.orders) }

// Capacity returns the roll width every pattern must fit into.
func (b *OrderBook) Capacity() float64 { return b.capacity }

func (b *OrderBook) Width(i int) float64 { return b.orders[i].Width }

func (b *OrderBook) Quantity(i int) int { return b.orders[i].Quantity }

func (b *OrderBook) Order(i int) Order { return b.orders[i] }

// Widths returns the order widths in item order.
func (b *OrderBook) Widths() []float64 {
	widths := make([]float64, len(b.orders))
	for i, o := range b.orders {
		widths[i] = o.Width
	}
	return widths
}

// Orders returns a copy of the orders.
func (b *OrderBook) Orders() []Order {
	out := make([]Order, len(b.orders))
	copy(out, b.orders)
	return out
}

// TotalWidth returns the summed width of every requested piece.
func (b *OrderBook) TotalWidth() float64 {
	var total float64
	for _, o := range b.orders {
		total += o.Width * float64(o.Quantity)
	}
	return total
}

// MinRolls is the material lower bound: no plan can use fewer rolls.
func (b *OrderBook) MinRolls() int {
	return int(math.Ceil(b.TotalWidth()/b.capacity - 1e-9))
}

// Pattern is one way of cutting a roll, as a count per order index.
type Pattern []int

// Width returns the total width the pattern consumes.
func (p Pattern) Width(book *OrderBook) float64 {
	var total float64
	for i, n := range p {
		total += float64(n) * book.Width(i)
	}
	return total
}

// Roll expands the pattern into the sorted list of widths cut from one roll.
func (p Pattern) Roll(book *OrderBook) Roll {
	var r Roll
	for i, n := range p {
		for k := 0; k < n; k++ {
			r = append(r, book.Width(i))
		}
	}
	sort.Float64s(r)
	return r
}

func (p Pattern) Equal(q Pattern) bool {
	if len(p) != len(q) {
		return false
	}
	for i := range p {
		if p[i] != q[i] {
			return false
		}
	}
	return true
}

// Roll is the sorted list of widths cut from one physical roll.
type Roll []float64

// Used returns the width taken by the pieces.
func (r Roll) Used() float64 {
	var total float64
	for _, w := range r {
		total += w
	}
	return total
}

// Waste returns the leftover width of the roll.
func (r Roll) Waste(capacity float64) float64 {
	return capacity - r.Used()
}

// CompareRolls orders rolls lexicographically by their width sequences.
// A roll that is a prefix of another sorts first.
func CompareRolls(a, b Roll) int {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] < b[i] {
			return -1
		}
		if a[i] > b[i] {
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// SortRolls sorts every roll and then the list itself.
func SortRolls(rolls []Roll) {
	for _, r := range rolls {
		sort.Float64s(r)
	}
	sort.SliceStable(rolls, func(i, j int) bool {
		return CompareRolls(rolls[i], rolls[j]) < 0
	})
}

// Algorithm selects how the optimizer builds a plan.
type Algorithm string

const (
	AlgorithmColumnGeneration   Algorithm = "column-generation"    // LP column generation + integer resolve
	AlgorithmFirstFitDecreasing Algorithm = "first-fit-decreasing" // Greedy baseline (fast)
	AlgorithmGenetic            Algorithm = "genetic"              // Piece-order genetic search over first fit
)

// CutSettings holds optimizer configuration.
type CutSettings struct {
	Algorithm Algorithm `json:"algorithm"`
	Epsilon   float64   `json:"epsilon"`    // Tolerance for termination and rounding
	MaxRounds int       `json:"max_rounds"` // Generation round cap, 0 = 100 per order + 100
	NodeLimit int       `json:"node_limit"` // Branch-and-bound node cap per integer solve
}

func DefaultSettings() CutSettings {
	return CutSettings{
		Algorithm: AlgorithmColumnGeneration,
		Epsilon:   1e-6,
		MaxRounds: 0,
		NodeLimit: 200000,
	}
}

// RoundLimit returns the effective generation round cap for n orders.
func (s CutSettings) RoundLimit(n int) int {
	if s.MaxRounds > 0 {
		return s.MaxRounds
	}
	return 100*n + 100
}

// PatternUsage is a pattern chosen by the final plan and how many rolls use it.
type PatternUsage struct {
	Pattern Pattern `json:"pattern"`
	Count   int     `json:"count"`
}

// CutPlan holds the full solution.
type CutPlan struct {
	ID         string         `json:"id"`
	Algorithm  Algorithm      `json:"algorithm"`
	Capacity   float64        `json:"capacity"`
	Orders     []Order        `json:"orders"`
	Rolls      []Roll         `json:"rolls"`
	Patterns   []PatternUsage `json:"patterns"`
	LowerBound float64        `json:"lower_bound"` // LP relaxation value at convergence
	Rounds     int            `json:"rounds"`      // Column generation rounds
	Columns    int            `json:"columns"`     // Patterns in the final master problem
}

func NewCutPlan(algo Algorithm, book *OrderBook) CutPlan {
	return CutPlan{
		ID:        uuid.New().String(),
		Algorithm: algo,
		Capacity:  book.Capacity(),
		Orders:    book.Orders(),
	}
}

// Produced returns, per order, how many pieces the rolls deliver.
func (p CutPlan) Produced() []int {
	index := make(map[float64]int, len(p.Orders))
	for i, o := range p.Orders {
		index[o.Width] = i
	}
	produced := make([]int, len(p.Orders))
	for _, r := range p.Rolls {
		for _, w := range r {
			if i, ok := index[w]; ok {
				produced[i]++
			}
		}
	}
	return produced
}

// Surplus returns, per order, how many pieces exceed the requested quantity.
func (p CutPlan) Surplus() []int {
	produced := p.Produced()
	for i, o := range p.Orders {
		produced[i] -= o.Quantity
	}
	return produced
}

// Covers reports whether every order quantity is met.
func (p CutPlan) Covers() bool {
	for _, s := range p.Surplus() {
		if s < 0 {
			return false
		}
	}
	return true
}

// TotalWaste returns the summed leftover width across all rolls.
func (p CutPlan) TotalWaste() float64 {
	var waste float64
	for _, r := range p.Rolls {
		waste += r.Waste(p.Capacity)
	}
	return waste
}

// Efficiency returns overall material usage percentage.
func (p CutPlan) Efficiency() float64 {
	total := p.Capacity * float64(len(p.Rolls))
	if total == 0 {
		return 0
	}
	var used float64
	for _, r := range p.Rolls {
		used += r.Used()
	}
	return (used / total) * 100.0
}

// Job ties everything together for save/load.
type Job struct {
	Name     string      `json:"name"`
	Capacity float64     `json:"capacity"`
	Orders   []Order     `json:"orders"`
	Settings CutSettings `json:"settings"`
	Result   *CutPlan    `json:"result,omitempty"`
}

func NewJob() Job {
	return Job{
		Name:     "Untitled",
		Orders:   []Order{},
		Settings: DefaultSettings(),
	}
}

// OrderBook validates the job's orders and returns them as an order book.
func (j Job) OrderBook() (*OrderBook, error) {
	return NewOrderBook(j.Capacity, j.Orders)
}
