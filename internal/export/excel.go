package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/RollCut/internal/model"
)

// Sheet names of the exported workbook.
const (
	SheetRolls    = "Rolls"
	SheetPatterns = "Patterns"
	SheetOrders   = "Orders"
)

// ExportExcel writes the cut plan to an .xlsx workbook with one sheet for
// the roll list, one for the distinct patterns and one for order coverage.
func ExportExcel(path string, plan model.CutPlan) error {
	if len(plan.Rolls) == 0 {
		return fmt.Errorf("no rolls to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetRolls); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for _, name := range []string{SheetPatterns, SheetOrders} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("create sheet %s: %w", name, err)
		}
	}

	rolls := [][]interface{}{{"Roll", "Pieces", "Used", "Waste"}}
	for i, r := range plan.Rolls {
		rolls = append(rolls, []interface{}{i + 1, formatPieces(r), r.Used(), r.Waste(plan.Capacity)})
	}
	if err := writeRows(f, SheetRolls, rolls); err != nil {
		return err
	}

	header := []interface{}{"Pattern", "Count"}
	for _, o := range plan.Orders {
		header = append(header, fmt.Sprintf("%s (%g)", o.Label, o.Width))
	}
	patterns := [][]interface{}{header}
	for k, pu := range plan.Patterns {
		row := []interface{}{k + 1, pu.Count}
		for _, n := range pu.Pattern {
			row = append(row, n)
		}
		patterns = append(patterns, row)
	}
	if err := writeRows(f, SheetPatterns, patterns); err != nil {
		return err
	}

	produced := plan.Produced()
	orders := [][]interface{}{{"Label", "Width", "Ordered", "Produced", "Surplus"}}
	for i, o := range plan.Orders {
		orders = append(orders, []interface{}{o.Label, o.Width, o.Quantity, produced[i], produced[i] - o.Quantity})
	}
	if err := writeRows(f, SheetOrders, orders); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}

func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("%s row %d: %w", sheet, i+1, err)
		}
	}
	return nil
}
