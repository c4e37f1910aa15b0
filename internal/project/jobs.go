package project

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/piwi3910/RollCut/internal/model"
)

// JobExtension is the file extension of saved jobs.
const JobExtension = ".rollcut"

// DefaultJobsDir returns the directory jobs are saved to when no path is
// given. This is ~/.rollcut/jobs.
func DefaultJobsDir() string {
	return filepath.Join(DefaultConfigDir(), "jobs")
}

// SaveJob writes a job, including its result if any, to a JSON file.
func SaveJob(path string, job model.Job) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create job directory: %w", err)
	}
	data, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal job: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write job file: %w", err)
	}
	return nil
}

// LoadJob reads a job from a JSON file. Settings missing from the file keep
// their defaults.
func LoadJob(path string) (model.Job, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return model.Job{}, fmt.Errorf("failed to read job file: %w", err)
	}
	job := model.NewJob()
	if err := json.Unmarshal(data, &job); err != nil {
		return model.Job{}, fmt.Errorf("failed to parse job file: %w", err)
	}
	if job.Orders == nil {
		job.Orders = []model.Order{}
	}
	return job, nil
}

// ListJobs returns the saved job files in dir, sorted by name.
// A missing directory yields an empty list.
func ListJobs(dir string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(dir, "*"+JobExtension))
	if err != nil {
		return nil, err
	}
	if matches == nil {
		matches = []string{}
	}
	return matches, nil
}
