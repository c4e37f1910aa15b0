package main

import (
	"flag"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollCut/internal/model"
	"github.com/piwi3910/RollCut/internal/project"
)

// withFlags restores the package flag values after a test changes them.
func withFlags(t *testing.T) {
	t.Helper()
	job, input, example, algo, rounds, nodes := *jobPath, *inputPath, *exampleNum, *algorithm, *maxRounds, *nodeLimit
	t.Cleanup(func() {
		*jobPath, *inputPath, *exampleNum, *algorithm, *maxRounds, *nodeLimit = job, input, example, algo, rounds, nodes
	})
}

func testJob(t *testing.T, name string, settings model.CutSettings) model.Job {
	t.Helper()
	job := model.NewJob()
	job.Name = name
	job.Capacity = 10
	job.Orders = []model.Order{model.NewOrder("A", 3, 4), model.NewOrder("B", 4, 2)}
	job.Settings = settings
	return job
}

func TestFormatRolls(t *testing.T) {
	got := formatRolls([]model.Roll{{2, 2.5}, {8}})
	if want := "[[2, 2.5], [8]]"; got != want {
		t.Errorf("formatRolls = %q, want %q", got, want)
	}
	if got := formatRolls(nil); got != "[]" {
		t.Errorf("formatRolls(nil) = %q, want []", got)
	}
}

func TestLoadOrderBookExamples(t *testing.T) {
	withFlags(t)

	for n, want := range map[int]string{1: "film-110", 2: "small-9"} {
		*exampleNum = n
		settings := model.DefaultSettings()
		name, book, err := loadOrderBook(model.DefaultAppConfig(), &settings)
		if err != nil {
			t.Fatalf("example %d: %v", n, err)
		}
		if name != want {
			t.Errorf("example %d: name = %q, want %q", n, name, want)
		}
		if book.Len() == 0 {
			t.Errorf("example %d: empty order book", n)
		}
	}

	*exampleNum = 3
	settings := model.DefaultSettings()
	if _, _, err := loadOrderBook(model.DefaultAppConfig(), &settings); err == nil {
		t.Error("expected error for unknown example")
	}
}

func TestDefaultExampleIsSmallInstance(t *testing.T) {
	if got := flagDefault(t, "example"); got != "2" {
		t.Fatalf("default -example = %s, want 2", got)
	}
	withFlags(t)
	*exampleNum = 2
	settings := model.DefaultSettings()
	_, book, err := loadOrderBook(model.DefaultAppConfig(), &settings)
	if err != nil {
		t.Fatal(err)
	}
	if book.Capacity() != 9 {
		t.Errorf("capacity = %g, want 9", book.Capacity())
	}
}

func TestLoadOrderBookJobKeepsSettings(t *testing.T) {
	withFlags(t)

	saved := model.CutSettings{
		Algorithm: model.AlgorithmFirstFitDecreasing,
		Epsilon:   1e-4,
		MaxRounds: 5,
		NodeLimit: 77,
	}
	path := filepath.Join(t.TempDir(), "job"+project.JobExtension)
	if err := project.SaveJob(path, testJob(t, "Saved", saved)); err != nil {
		t.Fatal(err)
	}
	*jobPath = path

	settings := model.DefaultSettings()
	name, book, err := loadOrderBook(model.DefaultAppConfig(), &settings)
	if err != nil {
		t.Fatalf("loadOrderBook: %v", err)
	}
	applyFlagOverrides(&settings)

	if name != "Saved" || book.Len() != 2 {
		t.Errorf("got job %q with %d orders", name, book.Len())
	}
	if settings != saved {
		t.Errorf("settings = %+v, want %+v", settings, saved)
	}

	// explicit flags still win over the job
	*algorithm = string(model.AlgorithmGenetic)
	*nodeLimit = 500
	settings = model.DefaultSettings()
	if _, _, err := loadOrderBook(model.DefaultAppConfig(), &settings); err != nil {
		t.Fatal(err)
	}
	applyFlagOverrides(&settings)
	if settings.Algorithm != model.AlgorithmGenetic || settings.NodeLimit != 500 {
		t.Errorf("flags not applied: %+v", settings)
	}
	if settings.MaxRounds != 5 || settings.Epsilon != 1e-4 {
		t.Errorf("job settings lost: %+v", settings)
	}
}

func TestBackupIncludesRecentJobs(t *testing.T) {
	dir := t.TempDir()
	jobsDir := filepath.Join(dir, "jobs")
	inDir := filepath.Join(jobsDir, "a"+project.JobExtension)
	elsewhere := filepath.Join(dir, "other", "b"+project.JobExtension)

	for path, name := range map[string]string{inDir: "A", elsewhere: "B"} {
		if err := project.SaveJob(path, testJob(t, name, model.DefaultSettings())); err != nil {
			t.Fatal(err)
		}
	}

	config := model.DefaultAppConfig()
	project.AddRecentJob(&config, elsewhere)
	project.AddRecentJob(&config, inDir)
	project.AddRecentJob(&config, filepath.Join(dir, "gone"+project.JobExtension))

	out := filepath.Join(dir, "backup.json")
	if err := backup(config, jobsDir, out); err != nil {
		t.Fatalf("backup: %v", err)
	}

	data, err := project.ImportAllData(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(data.Jobs) != 2 {
		t.Fatalf("backed up %d jobs, want 2", len(data.Jobs))
	}
	names := map[string]bool{}
	for _, j := range data.Jobs {
		names[j.Name] = true
	}
	if !names["A"] || !names["B"] {
		t.Errorf("backup jobs = %v, want A and B", names)
	}
}

func flagDefault(t *testing.T, name string) string {
	t.Helper()
	f := flag.Lookup(name)
	if f == nil {
		t.Fatalf("flag -%s not registered", name)
	}
	return f.DefValue
}
