// RollCut: one-dimensional roll cutting stock optimizer.
//
// Build:
//   go build -o rollcut ./cmd/rollcut
//
// Examples:
//   rollcut                                  # built-in 9-wide instance
//   rollcut -example 1 -v 1 -logtostderr     # 110-wide film instance with round logging
//   rollcut -input orders.csv -capacity 110 -pdf plan.pdf -labels labels.pdf
//   rollcut -input orders.xlsx -capacity 110 -compare

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/golang/glog"

	"github.com/piwi3910/RollCut/internal/engine"
	"github.com/piwi3910/RollCut/internal/export"
	"github.com/piwi3910/RollCut/internal/importer"
	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
)

var (
	inputPath  = flag.String("input", "", "order list to import (.csv, .tsv, .txt or .xlsx)")
	jobPath    = flag.String("job", "", "saved job to load instead of -input")
	exampleNum = flag.Int("example", 2, "built-in instance when no input is given: 1 = film-110, 2 = small-9")
	capacity   = flag.Float64("capacity", 0, "roll width; falls back to the configured default")
	algorithm  = flag.String("algorithm", "", "column-generation, first-fit-decreasing or genetic")
	maxRounds  = flag.Int("max-rounds", 0, "generation round cap (0 = 100 per order + 100)")
	nodeLimit  = flag.Int("node-limit", 0, "branch-and-bound node cap per integer solve")
	compare    = flag.Bool("compare", false, "run every algorithm and print a comparison")
	configPath = flag.String("config", project.DefaultConfigPath(), "application config file")
	minOffcut  = flag.Float64("min-offcut", model.DefaultMinOffcutFraction, "report remnants at least this fraction of the roll width")

	pdfPath    = flag.String("pdf", "", "write the cut plan report to this PDF")
	labelsPath = flag.String("labels", "", "write QR roll labels to this PDF")
	xlsxPath   = flag.String("xlsx", "", "write the cut plan to this Excel workbook")
	jsonPath   = flag.String("json", "", "write the cut plan and system info as JSON")
	saveJob    = flag.String("save-job", "", "save orders, settings and result as a job file")
	backupPath = flag.String("backup", "", "write config and every saved job to this backup file and exit")
)

func main() {
	flag.Parse()
	defer glog.Flush()

	if err := run(); err != nil {
		glog.Exitf("rollcut: %v", err)
	}
}

func run() error {
	config, err := project.LoadAppConfig(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if *backupPath != "" {
		return backup(config, project.DefaultJobsDir(), *backupPath)
	}

	settings := model.DefaultSettings()
	config.ApplyToSettings(&settings)
	name, book, err := loadOrderBook(config, &settings)
	if err != nil {
		return err
	}
	applyFlagOverrides(&settings)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	estimate := model.CalculatePurchaseEstimate(book, config.WastePercent, config.PricePerRoll)
	glog.Infof("%s: %d orders, roll width %g, material bound %d rolls (%d with %g%% waste)",
		name, book.Len(), book.Capacity(), estimate.RollsNeededMin, estimate.RollsWithWaste, estimate.WastePercent)

	if *compare {
		printComparison(engine.CompareScenarios(ctx, engine.BuildDefaultScenarios(settings), book))
		return nil
	}

	plan, err := engine.New(settings).Optimize(ctx, book)
	if err != nil {
		return fmt.Errorf("optimize %s: %w", name, err)
	}

	fmt.Println(len(plan.Rolls), "rolls:")
	fmt.Println(formatRolls(plan.Rolls))

	if offcuts := model.DetectOffcuts(plan, *minOffcut*plan.Capacity, config.PricePerRoll); len(offcuts) > 0 {
		glog.Infof("%d reusable offcuts, %g total width", len(offcuts), model.TotalOffcutWidth(offcuts))
		for _, o := range offcuts {
			glog.V(1).Infof("offcut %s: roll %d, width %g", o.ID, o.RollIndex, o.Width)
		}
	}

	if err := writeOutputs(plan); err != nil {
		return err
	}

	if *saveJob != "" {
		job := model.NewJob()
		job.Name = name
		job.Capacity = book.Capacity()
		job.Orders = book.Orders()
		job.Settings = settings
		job.Result = &plan
		if err := project.SaveJob(*saveJob, job); err != nil {
			return fmt.Errorf("save job: %w", err)
		}
		project.AddRecentJob(&config, *saveJob)
		if err := project.SaveAppConfig(*configPath, config); err != nil {
			glog.Warningf("could not update recent jobs in %s: %v", *configPath, err)
		}
	}
	return nil
}

// applyFlagOverrides lets explicitly set flags win over config and job settings.
func applyFlagOverrides(settings *model.CutSettings) {
	if *algorithm != "" {
		settings.Algorithm = model.Algorithm(*algorithm)
	}
	if *maxRounds > 0 {
		settings.MaxRounds = *maxRounds
	}
	if *nodeLimit > 0 {
		settings.NodeLimit = *nodeLimit
	}
}

// loadOrderBook resolves the order source: a saved job, an imported file or
// one of the built-in instances. A job replaces settings with its own.
func loadOrderBook(config model.AppConfig, settings *model.CutSettings) (string, *model.OrderBook, error) {
	switch {
	case *jobPath != "":
		job, err := project.LoadJob(*jobPath)
		if err != nil {
			return "", nil, err
		}
		if *capacity > 0 {
			job.Capacity = *capacity
		}
		*settings = job.Settings
		book, err := job.OrderBook()
		if err != nil {
			return "", nil, fmt.Errorf("job %s: %w", *jobPath, err)
		}
		return job.Name, book, nil

	case *inputPath != "":
		width := *capacity
		if width <= 0 {
			width = config.DefaultCapacity
		}
		if width <= 0 {
			return "", nil, fmt.Errorf("-capacity is required with -input (no default_capacity configured)")
		}

		var result importer.ImportResult
		switch strings.ToLower(filepath.Ext(*inputPath)) {
		case ".xlsx", ".xlsm":
			result = importer.ImportExcel(*inputPath)
		default:
			result = importer.ImportCSV(*inputPath)
		}
		for _, w := range result.Warnings {
			glog.Warning(w)
		}
		for _, e := range result.Errors {
			glog.Error(e)
		}

		book, warnings, err := result.OrderBook(width)
		for _, w := range warnings {
			glog.Warning(w)
		}
		if err != nil {
			return "", nil, fmt.Errorf("import %s: %w", *inputPath, err)
		}
		name := strings.TrimSuffix(filepath.Base(*inputPath), filepath.Ext(*inputPath))
		return name, book, nil

	default:
		examples := model.ExampleOrderBooks()
		var want string
		switch *exampleNum {
		case 1:
			want = "film-110"
		case 2:
			want = "small-9"
		default:
			return "", nil, fmt.Errorf("unknown example %d", *exampleNum)
		}
		for _, ex := range examples {
			if ex.Name == want {
				return ex.Name, ex.Book, nil
			}
		}
		return "", nil, fmt.Errorf("example %s not found", want)
	}
}

// backup bundles the config with every job in jobsDir and every recent job
// saved elsewhere.
func backup(config model.AppConfig, jobsDir, out string) error {
	listed, err := project.ListJobs(jobsDir)
	if err != nil {
		return fmt.Errorf("list jobs: %w", err)
	}
	seen := make(map[string]bool)
	var paths []string
	for _, p := range append(listed, config.RecentJobs...) {
		key := filepath.Clean(p)
		if abs, err := filepath.Abs(p); err == nil {
			key = abs
		}
		if seen[key] {
			continue
		}
		seen[key] = true
		paths = append(paths, p)
	}

	jobs := make([]model.Job, 0, len(paths))
	for _, p := range paths {
		job, err := project.LoadJob(p)
		if err != nil {
			glog.Warningf("skipping %s: %v", p, err)
			continue
		}
		jobs = append(jobs, job)
	}
	if err := project.ExportAllData(out, config, jobs); err != nil {
		return fmt.Errorf("backup: %w", err)
	}
	glog.Infof("backed up %d jobs to %s", len(jobs), out)
	return nil
}

func writeOutputs(plan model.CutPlan) error {
	if *pdfPath != "" {
		if err := export.ExportPDF(*pdfPath, plan); err != nil {
			return fmt.Errorf("export pdf: %w", err)
		}
		glog.Infof("wrote %s", *pdfPath)
	}
	if *labelsPath != "" {
		if err := export.ExportLabels(*labelsPath, plan); err != nil {
			return fmt.Errorf("export labels: %w", err)
		}
		glog.Infof("wrote %s", *labelsPath)
	}
	if *xlsxPath != "" {
		if err := export.ExportExcel(*xlsxPath, plan); err != nil {
			return fmt.Errorf("export excel: %w", err)
		}
		glog.Infof("wrote %s", *xlsxPath)
	}
	if *jsonPath != "" {
		sys := export.CollectSysInfo()
		if err := export.ExportJSON(*jsonPath, export.NewReport(plan, &sys)); err != nil {
			return fmt.Errorf("export json: %w", err)
		}
		glog.Infof("wrote %s", *jsonPath)
	}
	return nil
}

func formatRolls(rolls []model.Roll) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, r := range rolls {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('[')
		for j, w := range r {
			if j > 0 {
				b.WriteString(", ")
			}
			fmt.Fprintf(&b, "%g", w)
		}
		b.WriteByte(']')
	}
	b.WriteByte(']')
	return b.String()
}

func printComparison(results []engine.ComparisonResult) {
	fmt.Printf("%-28s %8s %8s\n", "Scenario", "Rolls", "Waste%")
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("%-28s %8s  %v\n", r.Scenario.Name, "-", r.Err)
			continue
		}
		fmt.Printf("%-28s %8d %7.1f%%\n", r.Scenario.Name, r.RollsUsed, r.WastePercent)
	}
}
