package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollCut/internal/model"
)

// buildTestPlan creates a small but realistic cut plan for testing.
func buildTestPlan(t *testing.T) model.CutPlan {
	t.Helper()
	book, err := model.NewOrderBook(10, []model.Order{
		model.NewOrder("Narrow", 2, 1),
		model.NewOrder("Medium", 4, 2),
		model.NewOrder("Wide", 6, 2),
	})
	if err != nil {
		t.Fatalf("failed to build order book: %v", err)
	}
	plan := model.NewCutPlan(model.AlgorithmColumnGeneration, book)
	plan.Rolls = []model.Roll{{2}, {4, 6}, {4, 6}}
	plan.Patterns = []model.PatternUsage{
		{Pattern: model.Pattern{1, 0, 0}, Count: 1},
		{Pattern: model.Pattern{0, 1, 1}, Count: 2},
	}
	plan.LowerBound = 2.2
	plan.Rounds = 3
	plan.Columns = 4
	return plan
}

func assertFileWritten(t *testing.T, path string, minSize int64) {
	t.Helper()
	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("file was not created: %v", err)
	}
	if info.Size() == 0 {
		t.Fatal("file is empty")
	}
	if info.Size() < minSize {
		t.Errorf("file seems too small: %d bytes", info.Size())
	}
}

func TestExportPDF_CreatesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.pdf")

	if err := ExportPDF(path, buildTestPlan(t)); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestExportPDF_EmptyPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.pdf")

	if err := ExportPDF(path, model.CutPlan{Capacity: 10}); err == nil {
		t.Fatal("expected error for empty plan, got nil")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("expected no file for empty plan")
	}
}

func TestExportPDF_ManyPatterns(t *testing.T) {
	path := filepath.Join(t.TempDir(), "many.pdf")

	plan := buildTestPlan(t)
	// more patterns than fit on one page
	for i := 0; i < 25; i++ {
		plan.Patterns = append(plan.Patterns, model.PatternUsage{Pattern: model.Pattern{1, 1, 0}, Count: 1})
		plan.Rolls = append(plan.Rolls, model.Roll{2, 4})
	}

	if err := ExportPDF(path, plan); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestExportPDF_UncoveredPlan(t *testing.T) {
	path := filepath.Join(t.TempDir(), "uncovered.pdf")

	plan := buildTestPlan(t)
	plan.Algorithm = model.AlgorithmFirstFitDecreasing
	plan.Rolls = plan.Rolls[:2]
	plan.Patterns[1].Count = 1

	if plan.Covers() {
		t.Fatal("test plan should not cover its orders")
	}
	if err := ExportPDF(path, plan); err != nil {
		t.Fatalf("ExportPDF returned error: %v", err)
	}
	assertFileWritten(t, path, 500)
}

func TestExportPDF_InvalidPlan(t *testing.T) {
	dir := t.TempDir()

	wide := buildTestPlan(t)
	wide.Capacity = 5 // narrower than the 6-wide order
	if err := ExportPDF(filepath.Join(dir, "wide.pdf"), wide); err == nil {
		t.Error("expected error for order wider than the roll")
	}

	short := buildTestPlan(t)
	short.Patterns[0].Pattern = model.Pattern{1}
	if err := ExportPDF(filepath.Join(dir, "short.pdf"), short); err == nil {
		t.Error("expected error for pattern with too few counts")
	}
}

func TestLabelFontSize(t *testing.T) {
	tests := []struct {
		width float64
		want  float64
	}{
		{100, 8},
		{30, 7},
		{10, 6},
	}
	for _, tt := range tests {
		if got := labelFontSize(tt.width); got != tt.want {
			t.Errorf("labelFontSize(%v) = %v, want %v", tt.width, got, tt.want)
		}
	}
}
