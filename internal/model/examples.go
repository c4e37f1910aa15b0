package model

import "fmt"

// ExampleOrderBook is a named reference instance.
type ExampleOrderBook struct {
	Name string
	Book *OrderBook
}

// ExampleOrderBooks returns the two classic instances used for demos and
// regression tests.
func ExampleOrderBooks() []ExampleOrderBook {
	return []ExampleOrderBook{
		{Name: "film-110", Book: mustBook(110, []float64{20, 45, 50, 55, 75}, []int{48, 35, 24, 10, 8})},
		{Name: "small-9", Book: mustBook(9, []float64{2, 3, 4, 5, 6, 7, 8}, []int{4, 2, 6, 6, 2, 2, 2})},
	}
}

func mustBook(capacity float64, widths []float64, quantities []int) *OrderBook {
	orders := make([]Order, len(widths))
	for i, w := range widths {
		orders[i] = NewOrder(fmt.Sprintf("%g", w), w, quantities[i])
	}
	book, err := NewOrderBook(capacity, orders)
	if err != nil {
		panic(err)
	}
	return book
}
