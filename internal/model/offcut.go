package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut is the unused strip left at the end of a roll after its pieces are
// cut, kept when it is wide enough to be reused as a narrower roll.
type Offcut struct {
	ID        string  `json:"id"`
	RollIndex int     `json:"roll_index"` // Index of the source roll in the plan
	Width     float64 `json:"width"`
	Price     float64 `json:"price"` // Share of the roll price by width (0 if not set)
}

// DefaultMinOffcutFraction is the fraction of the roll capacity below which a
// remnant counts as waste.
const DefaultMinOffcutFraction = 0.1

// DetectOffcuts returns the remnants of plan at least minWidth wide, widest
// first. pricePerRoll is split across each remnant by width.
func DetectOffcuts(plan CutPlan, minWidth, pricePerRoll float64) []Offcut {
	var offcuts []Offcut
	for i, r := range plan.Rolls {
		w := r.Waste(plan.Capacity)
		if w <= 0 || w < minWidth {
			continue
		}
		o := Offcut{
			ID:        uuid.New().String()[:8],
			RollIndex: i,
			Width:     w,
		}
		if pricePerRoll > 0 && plan.Capacity > 0 {
			o.Price = w / plan.Capacity * pricePerRoll
		}
		offcuts = append(offcuts, o)
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Width > offcuts[j].Width
	})
	return offcuts
}

// TotalOffcutWidth returns the summed width of all offcuts.
func TotalOffcutWidth(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Width
	}
	return total
}
