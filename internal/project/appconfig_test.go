package project

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/RollCut/internal/model"
)

func TestSaveAndLoadAppConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")

	cfg := model.DefaultAppConfig()
	cfg.DefaultCapacity = 110
	cfg.DefaultAlgorithm = model.AlgorithmFirstFitDecreasing
	cfg.DefaultMaxRounds = 50
	cfg.RecentJobs = []string{"/tmp/a.rollcut", "/tmp/b.rollcut"}

	if err := SaveAppConfig(path, cfg); err != nil {
		t.Fatalf("SaveAppConfig failed: %v", err)
	}

	loaded, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}

	if loaded.DefaultCapacity != 110 {
		t.Errorf("expected DefaultCapacity=110, got %f", loaded.DefaultCapacity)
	}
	if loaded.DefaultAlgorithm != model.AlgorithmFirstFitDecreasing {
		t.Errorf("expected first-fit-decreasing, got %s", loaded.DefaultAlgorithm)
	}
	if loaded.DefaultMaxRounds != 50 {
		t.Errorf("expected DefaultMaxRounds=50, got %d", loaded.DefaultMaxRounds)
	}
	if len(loaded.RecentJobs) != 2 {
		t.Errorf("expected 2 recent jobs, got %d", len(loaded.RecentJobs))
	}
}

func TestLoadAppConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "config.json")

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("expected no error for missing file, got: %v", err)
	}

	defaults := model.DefaultAppConfig()
	if cfg.DefaultEpsilon != defaults.DefaultEpsilon {
		t.Errorf("expected default epsilon %g, got %g", defaults.DefaultEpsilon, cfg.DefaultEpsilon)
	}
	if cfg.OutputDir != "." {
		t.Errorf("expected output dir '.', got %s", cfg.OutputDir)
	}
}

func TestLoadAppConfigPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	if err := os.WriteFile(path, []byte(`{"default_capacity": 9}`), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.DefaultCapacity != 9 {
		t.Errorf("expected DefaultCapacity=9, got %f", cfg.DefaultCapacity)
	}
	if cfg.DefaultNodeLimit != model.DefaultSettings().NodeLimit {
		t.Errorf("expected default node limit, got %d", cfg.DefaultNodeLimit)
	}
}

func TestLoadAppConfigInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	if err := os.WriteFile(path, []byte("not valid json{{{"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := LoadAppConfig(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON, got nil")
	}
}

func TestSaveAppConfigCreatesDirectories(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "dir", "config.json")

	if err := SaveAppConfig(path, model.DefaultAppConfig()); err != nil {
		t.Fatalf("SaveAppConfig should create parent dirs: %v", err)
	}

	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("config file was not created")
	}
}

func TestLoadAppConfigNilRecentJobs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")

	data := []byte(`{"default_capacity":110,"recent_jobs":null}`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadAppConfig(path)
	if err != nil {
		t.Fatalf("LoadAppConfig failed: %v", err)
	}
	if cfg.RecentJobs == nil {
		t.Error("RecentJobs should not be nil after loading")
	}
}

func TestAddRecentJob(t *testing.T) {
	cfg := model.DefaultAppConfig()
	AddRecentJob(&cfg, "a")
	AddRecentJob(&cfg, "b")
	AddRecentJob(&cfg, "a")

	if len(cfg.RecentJobs) != 2 || cfg.RecentJobs[0] != "a" || cfg.RecentJobs[1] != "b" {
		t.Errorf("unexpected recent jobs %v", cfg.RecentJobs)
	}

	for i := 0; i < MaxRecentJobs+5; i++ {
		AddRecentJob(&cfg, fmt.Sprintf("job%d", i))
	}
	if len(cfg.RecentJobs) != MaxRecentJobs {
		t.Errorf("expected %d recent jobs, got %d", MaxRecentJobs, len(cfg.RecentJobs))
	}
	if cfg.RecentJobs[0] != fmt.Sprintf("job%d", MaxRecentJobs+4) {
		t.Errorf("expected newest job first, got %s", cfg.RecentJobs[0])
	}
}
