// Package export provides functionality for exporting cut plans to various
// file formats.
package export

import (
	"fmt"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/RollCut/internal/model"
)

// pieceColor represents an RGB color for a cut piece.
type pieceColor struct {
	R, G, B int
}

// pieceColors assigns one color per order index.
var pieceColors = []pieceColor{
	{R: 76, G: 175, B: 80},  // green
	{R: 33, G: 150, B: 243}, // blue
	{R: 255, G: 152, B: 0},  // orange
	{R: 156, G: 39, B: 176}, // purple
	{R: 0, G: 188, B: 212},  // cyan
	{R: 244, G: 67, B: 54},  // red
	{R: 255, G: 235, B: 59}, // yellow
	{R: 121, G: 85, B: 72},  // brown
}

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	countColumn  = 25.0 // room for the "x N" multiplicity
	barHeight    = 10.0
	barSpacing   = 6.0
)

// ExportPDF generates a PDF document containing the cut plan. Every used
// pattern is drawn as one bar across the roll width with its multiplicity,
// followed by a summary page with overall statistics.
func ExportPDF(path string, plan model.CutPlan) error {
	if len(plan.Rolls) == 0 {
		return fmt.Errorf("no rolls to export")
	}

	book, err := model.NewOrderBook(plan.Capacity, plan.Orders)
	if err != nil {
		return fmt.Errorf("invalid plan orders: %w", err)
	}
	for k, pu := range plan.Patterns {
		if len(pu.Pattern) != book.Len() {
			return fmt.Errorf("pattern %d has %d counts for %d orders", k+1, len(pu.Pattern), book.Len())
		}
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	avail := pageHeight - drawAreaTop - marginBottom
	perPage := int(avail / (barHeight + barSpacing))
	for start := 0; start < len(plan.Patterns); start += perPage {
		end := start + perPage
		if end > len(plan.Patterns) {
			end = len(plan.Patterns)
		}
		pdf.AddPage()
		renderPatternPage(pdf, plan, book, start, end)
	}

	pdf.AddPage()
	renderSummaryPage(pdf, plan)

	return pdf.OutputFileAndClose(path)
}

// orderIndex maps each order width to its position in the plan.
func orderIndex(plan model.CutPlan) map[float64]int {
	index := make(map[float64]int, len(plan.Orders))
	for i, o := range plan.Orders {
		index[o.Width] = i
	}
	return index
}

// renderPatternPage draws patterns [start, end) on the current page.
func renderPatternPage(pdf *fpdf.Fpdf, plan model.CutPlan, book *model.OrderBook, start, end int) {
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Cutting patterns %d-%d of %d (roll width %g)", start+1, end, len(plan.Patterns), plan.Capacity)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	drawWidth := pageWidth - marginLeft - marginRight - countColumn
	scale := drawWidth / plan.Capacity
	index := orderIndex(plan)

	y := drawAreaTop
	for k := start; k < end; k++ {
		pu := plan.Patterns[k]
		roll := pu.Pattern.Roll(book)

		// Roll background shows the waste
		pdf.SetFillColor(230, 230, 230)
		pdf.SetDrawColor(100, 100, 100)
		pdf.SetLineWidth(0.4)
		pdf.Rect(marginLeft, y, plan.Capacity*scale, barHeight, "FD")

		x := marginLeft
		for _, w := range roll {
			col := pieceColors[index[w]%len(pieceColors)]
			pw := w * scale
			pdf.SetFillColor(col.R, col.G, col.B)
			pdf.SetDrawColor(30, 30, 30)
			pdf.SetLineWidth(0.3)
			pdf.Rect(x, y, pw, barHeight, "FD")

			label := fmt.Sprintf("%g", w)
			pdf.SetFont("Helvetica", "", labelFontSize(pw))
			if lw := pdf.GetStringWidth(label); lw < pw-1 {
				pdf.SetXY(x+(pw-lw)/2, y+barHeight/2-2)
				pdf.CellFormat(lw, 4, label, "", 0, "C", false, 0, "")
			}
			x += pw
		}

		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetXY(marginLeft+plan.Capacity*scale+3, y+barHeight/2-3)
		pdf.CellFormat(countColumn-3, 6, fmt.Sprintf("x %d", pu.Count), "", 0, "L", false, 0, "")

		pdf.SetFont("Helvetica", "", 7)
		pdf.SetTextColor(80, 80, 80)
		pdf.SetXY(marginLeft, y+barHeight)
		pdf.CellFormat(drawWidth, 4, fmt.Sprintf("Pattern %d: waste %g per roll", k+1, roll.Waste(plan.Capacity)), "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)

		y += barHeight + barSpacing
	}
}

type summaryItem struct {
	label string
	value string
}

// renderSummaryPage draws the final summary page with overall statistics.
func renderSummaryPage(pdf *fpdf.Fpdf, plan model.CutPlan) {
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Cutting Stock Summary", "", 0, "L", false, 0, "")

	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Overall Statistics", "", 0, "L", false, 0, "")
	y += 9

	summaryItems := []summaryItem{
		{"Algorithm", string(plan.Algorithm)},
		{"Rolls Used", fmt.Sprintf("%d", len(plan.Rolls))},
		{"Distinct Patterns", fmt.Sprintf("%d", len(plan.Patterns))},
		{"Lower Bound", fmt.Sprintf("%.4g", plan.LowerBound)},
		{"Overall Efficiency", fmt.Sprintf("%.1f%%", plan.Efficiency())},
		{"Total Waste", fmt.Sprintf("%g", plan.TotalWaste())},
	}
	if plan.Algorithm == model.AlgorithmColumnGeneration {
		summaryItems = append(summaryItems,
			summaryItem{"Generation Rounds", fmt.Sprintf("%d", plan.Rounds)},
			summaryItem{"Master Columns", fmt.Sprintf("%d", plan.Columns)},
		)
	}

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range summaryItems {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(40, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}

	y += 5

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, "Order Breakdown", "", 0, "L", false, 0, "")
	y += 9

	colWidths := []float64{20, 70, 35, 35, 35, 35}
	headers := []string{"#", "Order", "Width", "Ordered", "Produced", "Surplus"}

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(230, 230, 230)
	xPos := marginLeft
	for i, header := range headers {
		pdf.SetXY(xPos, y)
		pdf.CellFormat(colWidths[i], 6, header, "1", 0, "C", true, 0, "")
		xPos += colWidths[i]
	}
	y += 6

	produced := plan.Produced()
	pdf.SetFont("Helvetica", "", 9)
	for i, o := range plan.Orders {
		if y > pageHeight-marginBottom-10 {
			pdf.AddPage()
			y = marginTop
		}
		xPos = marginLeft
		rowData := []string{
			fmt.Sprintf("%d", i+1),
			o.Label,
			fmt.Sprintf("%g", o.Width),
			fmt.Sprintf("%d", o.Quantity),
			fmt.Sprintf("%d", produced[i]),
			fmt.Sprintf("%d", produced[i]-o.Quantity),
		}

		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		for j, cell := range rowData {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], 6, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += 6
	}

	if !plan.Covers() {
		y += 8
		pdf.SetFont("Helvetica", "B", 11)
		pdf.SetTextColor(200, 0, 0)
		pdf.SetXY(marginLeft, y)
		pdf.CellFormat(200, 7, "WARNING: Plan does not cover every order", "", 0, "L", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
	}

	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by RollCut - Roll Cutting Stock Optimizer", "", 0, "C", false, 0, "")
}

// labelFontSize returns an appropriate font size for a piece of the given
// drawn width.
func labelFontSize(w float64) float64 {
	switch {
	case w > 40:
		return 8
	case w > 20:
		return 7
	default:
		return 6
	}
}
