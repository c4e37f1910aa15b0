package model

import "math"

// PurchaseEstimate holds the results of a roll purchasing calculation.
type PurchaseEstimate struct {
	TotalWidth       float64 `json:"total_width"`        // Summed width of all pieces
	RollCapacity     float64 `json:"roll_capacity"`      // Width of one roll
	RollsNeededExact float64 `json:"rolls_needed_exact"` // Exact fractional number of rolls
	RollsNeededMin   int     `json:"rolls_needed_min"`   // Minimum rolls (ceiling of exact)
	RollsWithWaste   int     `json:"rolls_with_waste"`   // Recommended rolls including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 5 for 5%)
	EstimatedCost    float64 `json:"estimated_cost"`     // Total cost if pricing available
	PricePerRoll     float64 `json:"price_per_roll"`     // Price used for estimation
}

// CalculatePurchaseEstimate computes how many rolls to buy for an order book
// before any pattern is generated. It is a material bound only; the
// optimizer's plan can never use fewer rolls than RollsNeededMin.
func CalculatePurchaseEstimate(book *OrderBook, wastePercent, pricePerRoll float64) PurchaseEstimate {
	totalWidth := book.TotalWidth()
	exactRolls := totalWidth / book.Capacity()
	minRolls := book.MinRolls()

	wasteFactor := 1.0 + (wastePercent / 100.0)
	rollsWithWaste := int(math.Ceil(exactRolls*wasteFactor - 1e-9))
	if rollsWithWaste < minRolls {
		rollsWithWaste = minRolls
	}

	return PurchaseEstimate{
		TotalWidth:       totalWidth,
		RollCapacity:     book.Capacity(),
		RollsNeededExact: exactRolls,
		RollsNeededMin:   minRolls,
		RollsWithWaste:   rollsWithWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(rollsWithWaste) * pricePerRoll,
		PricePerRoll:     pricePerRoll,
	}
}
